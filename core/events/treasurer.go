package events

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

const (
	TypeTreasurerRewardLocked   = "treasurer.rewardLocked"
	TypeTreasurerRewardPaid     = "treasurer.rewardPaid"
	TypeTreasurerClaimed        = "treasurer.claimed"
	TypeTreasurerExpressClaimed = "treasurer.expressClaimed"
)

// TreasurerRewardLocked is emitted when the locked slice of a payout is
// bucketed under its claim-eligible week. TotalLocked carries the aggregate
// after the credit.
type TreasurerRewardLocked struct {
	User        common.Address
	Week        uint64
	Amount      *big.Int
	TotalLocked *big.Int
}

func (TreasurerRewardLocked) EventType() string { return TypeTreasurerRewardLocked }

// TreasurerRewardPaid is emitted for the instant slice of a payout.
type TreasurerRewardPaid struct {
	User   common.Address
	Amount *big.Int
}

func (TreasurerRewardPaid) EventType() string { return TypeTreasurerRewardPaid }

type TreasurerClaimed struct {
	User        common.Address
	Weeks       []uint64
	Amount      *big.Int
	TotalLocked *big.Int
}

func (TreasurerClaimed) EventType() string { return TypeTreasurerClaimed }

// TreasurerExpressClaimed records an early exit: Paid went to the user,
// Burned was destroyed as the penalty.
type TreasurerExpressClaimed struct {
	User        common.Address
	Weeks       []uint64
	Paid        *big.Int
	Burned      *big.Int
	TotalLocked *big.Int
}

func (TreasurerExpressClaimed) EventType() string { return TypeTreasurerExpressClaimed }
