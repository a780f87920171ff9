package events

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

const (
	TypeFarmingDeposit           = "farming.deposit"
	TypeFarmingWithdraw          = "farming.withdraw"
	TypeFarmingEmergencyWithdraw = "farming.emergencyWithdraw"
	TypeFarmingPoolSettled       = "farming.poolSettled"
	TypeFarmingRewardPaid        = "farming.rewardPaid"
	TypeFarmingRewardLocked      = "farming.rewardLocked"
	TypeFarmingEmissionUpdated   = "farming.emissionUpdated"
)

// FarmingDeposit carries the staked total of the pool after the deposit so
// observers can track pool depth without querying the engine.
type FarmingDeposit struct {
	User   common.Address
	PoolID uint64
	Amount *big.Int
	Fee    *big.Int
	Staked *big.Int
}

func (FarmingDeposit) EventType() string { return TypeFarmingDeposit }

type FarmingWithdraw struct {
	User   common.Address
	PoolID uint64
	Amount *big.Int
	Staked *big.Int
}

func (FarmingWithdraw) EventType() string { return TypeFarmingWithdraw }

// FarmingEmergencyWithdraw records a forfeiting principal-only exit.
type FarmingEmergencyWithdraw struct {
	User   common.Address
	PoolID uint64
	Amount *big.Int
	Staked *big.Int
}

func (FarmingEmergencyWithdraw) EventType() string { return TypeFarmingEmergencyWithdraw }

type FarmingPoolSettled struct {
	PoolID            uint64
	Reward            *big.Int
	DevReward         *big.Int
	AccRewardPerShare *big.Int
}

func (FarmingPoolSettled) EventType() string { return TypeFarmingPoolSettled }

// FarmingRewardPaid is emitted when a matured harvest leaves the engine
// towards the treasurer on behalf of a user.
type FarmingRewardPaid struct {
	User   common.Address
	PoolID uint64
	Amount *big.Int
}

func (FarmingRewardPaid) EventType() string { return TypeFarmingRewardPaid }

// FarmingRewardLocked is emitted when pending reward is buffered inside the
// position because the harvest window has not elapsed yet.
type FarmingRewardLocked struct {
	User   common.Address
	PoolID uint64
	Amount *big.Int
}

func (FarmingRewardLocked) EventType() string { return TypeFarmingRewardLocked }

type FarmingEmissionUpdated struct {
	RatePerSecond *big.Int
	DevRate       *big.Int
	EndTime       int64
}

func (FarmingEmissionUpdated) EventType() string { return TypeFarmingEmissionUpdated }
