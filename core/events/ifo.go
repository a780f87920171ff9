package events

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

const (
	TypeIFOCommitted = "ifo.committed"
	TypeIFOHarvested = "ifo.harvested"
)

type IFOCommitted struct {
	User   common.Address
	Amount *big.Int
}

func (IFOCommitted) EventType() string { return TypeIFOCommitted }

type IFOHarvested struct {
	User     common.Address
	Offering *big.Int
	Refund   *big.Int
}

func (IFOHarvested) EventType() string { return TypeIFOHarvested }
