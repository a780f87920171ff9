package ifo

import "errors"

var (
	errNilStakeLedger    = errors.New("ifo: stake ledger not configured")
	errNilOfferingLedger = errors.New("ifo: offering ledger not configured")
	errNotOwner          = errors.New("ifo: caller is not the owner")
	errZeroAddress       = errors.New("ifo: zero address")
	errInvalidAmount     = errors.New("ifo: amount must be positive")
	errInvalidWindow     = errors.New("ifo: sale window is empty or inverted")
	errSaleNotOpen       = errors.New("ifo: sale is not open for commits")
	errSaleNotOver       = errors.New("ifo: sale has not ended")
	errSaleStarted       = errors.New("ifo: sale parameters are frozen after start")
	errAlreadyHarvested  = errors.New("ifo: user already harvested")
	errNothingCommitted  = errors.New("ifo: user has no commitment")
	errExceedsBalance    = errors.New("ifo: withdrawal exceeds held balance")
	errInvalidSnapshot   = errors.New("ifo: invalid snapshot")
)
