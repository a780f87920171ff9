package farming

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// MaxDepositFeeBps caps the deposit fee at 4%.
	MaxDepositFeeBps = 400
	// MaxHarvestInterval caps the harvest window at 24 hours.
	MaxHarvestInterval = 86400
	// BpsDenominator is the fixed basis-point denominator.
	BpsDenominator = 10000
)

// accScale is the 1e18 fixed-point scale used by the reward-per-share
// accumulator.
var accScale = big.NewInt(1_000_000_000_000_000_000)

// Category groups pools under a shared allocation weight. Emission flows to a
// category proportionally to AllocPoint among all categories, then to its
// pools proportionally to their weights.
type Category struct {
	// AllocPoint is the category's share of the global emission.
	AllocPoint uint64
	// TotalPoolAllocPoint is the running sum of the weights of the pools
	// assigned to this category.
	TotalPoolAllocPoint uint64
	// Label is a free-form operator annotation.
	Label string
}

// Pool carries the per-asset accrual state. Asset and category are fixed at
// creation; weight, fee and harvest interval are operator mutable. There is
// deliberately no removal path.
type Pool struct {
	// Asset identifies the staked asset. One pool per asset.
	Asset common.Address
	// CategoryID is the owning category index.
	CategoryID uint64
	// AllocPoint is the pool's share of its category's emission slice.
	AllocPoint uint64
	// LastRewardTime is the timestamp up to which emission has been settled.
	LastRewardTime int64
	// AccRewardPerShare is the 1e18-scaled reward accumulated per staked unit.
	AccRewardPerShare *big.Int
	// DepositFeeBps is deducted from every deposit and routed to the fee
	// collector. At most MaxDepositFeeBps.
	DepositFeeBps uint64
	// HarvestInterval is the minimum spacing in seconds between reward
	// payouts to a position. At most MaxHarvestInterval.
	HarvestInterval uint64
	// Staked is the principal currently deposited into the pool.
	Staked *big.Int

	ledger AssetLedger
}

// Position is the per-user accounting state inside one pool.
type Position struct {
	// Amount is the staked principal net of deposit fees.
	Amount *big.Int
	// RewardDebt is the accumulator baseline at the last settlement touching
	// this position.
	RewardDebt *big.Int
	// NextHarvestUntil is the earliest timestamp at which pending reward may
	// actually be paid. Zero means the position has never been touched.
	NextHarvestUntil int64
	// RewardLocked buffers reward accrued between harvest windows. This is
	// the intra-pool holding buffer, distinct from the treasurer's
	// week-bucketed lockup.
	RewardLocked *big.Int
}

// AssetLedger is the fungible-asset surface the engine needs from a staked
// token.
type AssetLedger interface {
	Transfer(from, to common.Address, amount *big.Int) error
	TransferFrom(spender, from, to common.Address, amount *big.Int) error
	BalanceOf(addr common.Address) *big.Int
}

// RewardMinter is the emission ledger surface: owner-gated minting against a
// hard cap, plus the cap bookkeeping needed to project the farm end time.
type RewardMinter interface {
	Mint(caller, to common.Address, amount *big.Int) error
	MintedTotal() *big.Int
	Cap() *big.Int
}

// RewardPayer routes matured harvests to the user. In production this is the
// treasurer, which splits the payout into an instant and a week-locked slice.
type RewardPayer interface {
	RewardUser(caller, user common.Address, amount *big.Int) error
}
