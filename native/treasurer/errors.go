package treasurer

import "errors"

var (
	errNilToken        = errors.New("treasurer: token ledger not configured")
	errNotOwner        = errors.New("treasurer: caller is not the owner")
	errNotOperator     = errors.New("treasurer: caller is not the reward operator")
	errZeroAddress     = errors.New("treasurer: zero address")
	errInvalidAmount   = errors.New("treasurer: amount must not be negative")
	errLedgerCapacity  = errors.New("treasurer: reward exceeds ledger balance")
	errLockedBpsRange  = errors.New("treasurer: locked share above 10000 bps")
	errBurnBpsRange    = errors.New("treasurer: express burn above 10000 bps")
	errLockupWeeks     = errors.New("treasurer: lockup weeks outside [4,24]")
	errUnlockMoment    = errors.New("treasurer: unlock moment must fall within one week")
	errInvalidSnapshot = errors.New("treasurer: invalid snapshot")
)
