package events

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

const (
	TypeTokenMinted      = "token.minted"
	TypeTokenBurned      = "token.burned"
	TypeTokenTransferred = "token.transferred"
)

// TokenMinted is emitted whenever new supply is created against the cap.
type TokenMinted struct {
	Symbol      string
	To          common.Address
	Amount      *big.Int
	MintedTotal *big.Int
}

func (TokenMinted) EventType() string { return TypeTokenMinted }

// TokenBurned is emitted when a holder destroys part of its balance. The
// minted total is unaffected by burns.
type TokenBurned struct {
	Symbol string
	From   common.Address
	Amount *big.Int
}

func (TokenBurned) EventType() string { return TypeTokenBurned }

type TokenTransferred struct {
	Symbol string
	From   common.Address
	To     common.Address
	Amount *big.Int
}

func (TokenTransferred) EventType() string { return TypeTokenTransferred }
