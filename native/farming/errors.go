package farming

import "errors"

var (
	errNilReward          = errors.New("farming engine: reward ledger not configured")
	errNilPayer           = errors.New("farming engine: reward payer not configured")
	errNilAsset           = errors.New("farming engine: asset ledger required")
	errNotOwner           = errors.New("farming engine: caller is not the owner")
	errNotDev             = errors.New("farming engine: caller is not the dev")
	errNotFeeCollector    = errors.New("farming engine: caller is not the fee collector")
	errZeroAddress        = errors.New("farming engine: zero address")
	errInvalidAmount      = errors.New("farming engine: amount must not be negative")
	errInvalidRate        = errors.New("farming engine: emission rate must be positive")
	errUnknownCategory    = errors.New("farming engine: unknown category")
	errUnknownPool        = errors.New("farming engine: unknown pool")
	errAssetRegistered    = errors.New("farming engine: asset already registered")
	errDepositFeeTooHigh  = errors.New("farming engine: deposit fee above 400 bps")
	errHarvestTooLong     = errors.New("farming engine: harvest interval above 24h")
	errEmissionExhausted  = errors.New("farming engine: emission exceeds remaining mintable supply")
	errPoolDisabled       = errors.New("farming engine: pool or category weight is zero")
	errInsufficientStake  = errors.New("farming engine: withdraw exceeds deposited amount")
)
