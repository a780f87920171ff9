package farming

import (
	"bytes"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// Snapshot is the RLP-friendly persisted form of the engine. Timestamps are
// carried as uint64 because RLP has no signed integer encoding; position maps
// flatten into slices sorted by pool then user for determinism. Asset ledger
// handles are not persisted and must be re-supplied on restore.
type Snapshot struct {
	StartTime               uint64
	EndTime                 uint64
	EmissionRate            *big.Int
	DevRate                 *big.Int
	TotalCategoryAllocPoint uint64
	Categories              []CategorySnapshot
	Pools                   []PoolSnapshot
	Positions               []PositionSnapshot
}

type CategorySnapshot struct {
	AllocPoint          uint64
	TotalPoolAllocPoint uint64
	Label               string
}

type PoolSnapshot struct {
	Asset             common.Address
	CategoryID        uint64
	AllocPoint        uint64
	LastRewardTime    uint64
	AccRewardPerShare *big.Int
	DepositFeeBps     uint64
	HarvestInterval   uint64
	Staked            *big.Int
}

type PositionSnapshot struct {
	PoolID           uint64
	User             common.Address
	Amount           *big.Int
	RewardDebt       *big.Int
	NextHarvestUntil uint64
	RewardLocked     *big.Int
}

// Snapshot captures the engine's mutable accounting state.
func (e *Engine) Snapshot() *Snapshot {
	snap := &Snapshot{
		StartTime:               uint64(e.startTime),
		EndTime:                 uint64(e.endTime),
		EmissionRate:            new(big.Int).Set(e.emissionRate),
		DevRate:                 new(big.Int).Set(e.devRate),
		TotalCategoryAllocPoint: e.totalCategoryAllocPoint,
	}
	for _, category := range e.categories {
		snap.Categories = append(snap.Categories, CategorySnapshot{
			AllocPoint:          category.AllocPoint,
			TotalPoolAllocPoint: category.TotalPoolAllocPoint,
			Label:               category.Label,
		})
	}
	for _, pool := range e.pools {
		snap.Pools = append(snap.Pools, PoolSnapshot{
			Asset:             pool.Asset,
			CategoryID:        pool.CategoryID,
			AllocPoint:        pool.AllocPoint,
			LastRewardTime:    uint64(pool.LastRewardTime),
			AccRewardPerShare: new(big.Int).Set(pool.AccRewardPerShare),
			DepositFeeBps:     pool.DepositFeeBps,
			HarvestInterval:   pool.HarvestInterval,
			Staked:            new(big.Int).Set(pool.Staked),
		})
	}
	for poolID, byUser := range e.positions {
		for user, pos := range byUser {
			if pos.Amount.Sign() == 0 && pos.RewardLocked.Sign() == 0 && pos.NextHarvestUntil == 0 {
				continue
			}
			snap.Positions = append(snap.Positions, PositionSnapshot{
				PoolID:           poolID,
				User:             user,
				Amount:           new(big.Int).Set(pos.Amount),
				RewardDebt:       new(big.Int).Set(pos.RewardDebt),
				NextHarvestUntil: uint64(pos.NextHarvestUntil),
				RewardLocked:     new(big.Int).Set(pos.RewardLocked),
			})
		}
	}
	sort.Slice(snap.Positions, func(i, j int) bool {
		a, b := snap.Positions[i], snap.Positions[j]
		if a.PoolID != b.PoolID {
			return a.PoolID < b.PoolID
		}
		return bytes.Compare(a.User[:], b.User[:]) < 0
	})
	return snap
}

// Restore replaces the engine's accounting state with the snapshot contents.
// assets maps each pool asset back to its ledger; a missing entry fails the
// restore.
func (e *Engine) Restore(snap *Snapshot, assets map[common.Address]AssetLedger) error {
	if snap == nil {
		return errInvalidAmount
	}
	pools := make([]*Pool, 0, len(snap.Pools))
	poolByAsset := make(map[common.Address]uint64, len(snap.Pools))
	for i, entry := range snap.Pools {
		ledger, ok := assets[entry.Asset]
		if !ok || ledger == nil {
			return errNilAsset
		}
		if entry.CategoryID >= uint64(len(snap.Categories)) {
			return errUnknownCategory
		}
		pools = append(pools, &Pool{
			Asset:             entry.Asset,
			CategoryID:        entry.CategoryID,
			AllocPoint:        entry.AllocPoint,
			LastRewardTime:    int64(entry.LastRewardTime),
			AccRewardPerShare: new(big.Int).Set(entry.AccRewardPerShare),
			DepositFeeBps:     entry.DepositFeeBps,
			HarvestInterval:   entry.HarvestInterval,
			Staked:            new(big.Int).Set(entry.Staked),
			ledger:            ledger,
		})
		poolByAsset[entry.Asset] = uint64(i) + 1
	}
	categories := make([]*Category, 0, len(snap.Categories))
	for _, entry := range snap.Categories {
		categories = append(categories, &Category{
			AllocPoint:          entry.AllocPoint,
			TotalPoolAllocPoint: entry.TotalPoolAllocPoint,
			Label:               entry.Label,
		})
	}
	positions := make(map[uint64]map[common.Address]*Position)
	for _, entry := range snap.Positions {
		if entry.PoolID >= uint64(len(pools)) {
			return errUnknownPool
		}
		byUser, ok := positions[entry.PoolID]
		if !ok {
			byUser = make(map[common.Address]*Position)
			positions[entry.PoolID] = byUser
		}
		byUser[entry.User] = &Position{
			Amount:           new(big.Int).Set(entry.Amount),
			RewardDebt:       new(big.Int).Set(entry.RewardDebt),
			NextHarvestUntil: int64(entry.NextHarvestUntil),
			RewardLocked:     new(big.Int).Set(entry.RewardLocked),
		}
	}
	e.startTime = int64(snap.StartTime)
	e.endTime = int64(snap.EndTime)
	e.emissionRate = new(big.Int).Set(snap.EmissionRate)
	e.devRate = new(big.Int).Set(snap.DevRate)
	e.totalCategoryAllocPoint = snap.TotalCategoryAllocPoint
	e.categories = categories
	e.pools = pools
	e.poolByAsset = poolByAsset
	e.positions = positions
	return nil
}
