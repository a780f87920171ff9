package farming

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// AddCategory appends a category with the given allocation weight. Category
// ids are dense and append-only. Pass withUpdate to settle every pool before
// the global weight total shifts; settling all pools costs linear time, so
// the tradeoff stays with the caller.
func (e *Engine) AddCategory(caller common.Address, allocPoint uint64, label string, withUpdate bool) (uint64, error) {
	if caller != e.owner {
		return 0, errNotOwner
	}
	if withUpdate {
		if err := e.SettleAll(); err != nil {
			return 0, err
		}
	}
	e.totalCategoryAllocPoint += allocPoint
	e.categories = append(e.categories, &Category{AllocPoint: allocPoint, Label: label})
	return uint64(len(e.categories) - 1), nil
}

// SetCategory changes a category's allocation weight, keeping the global
// category weight total in sync.
func (e *Engine) SetCategory(caller common.Address, categoryID, allocPoint uint64, withUpdate bool) error {
	if caller != e.owner {
		return errNotOwner
	}
	if categoryID >= uint64(len(e.categories)) {
		return errUnknownCategory
	}
	if withUpdate {
		if err := e.SettleAll(); err != nil {
			return err
		}
	}
	category := e.categories[categoryID]
	e.totalCategoryAllocPoint = e.totalCategoryAllocPoint - category.AllocPoint + allocPoint
	category.AllocPoint = allocPoint
	return nil
}

// AddPool registers a pool for asset under categoryID. One pool per asset;
// the asset and category binding is immutable afterwards and there is no
// removal path. The first settlement watermark is clamped to the farm start.
func (e *Engine) AddPool(caller common.Address, categoryID uint64, ledger AssetLedger, asset common.Address, allocPoint, feeBps, harvestInterval uint64, withUpdate bool) (uint64, error) {
	if caller != e.owner {
		return 0, errNotOwner
	}
	if ledger == nil {
		return 0, errNilAsset
	}
	if asset == (common.Address{}) {
		return 0, errZeroAddress
	}
	if categoryID >= uint64(len(e.categories)) {
		return 0, errUnknownCategory
	}
	if e.poolByAsset[asset] != 0 {
		return 0, errAssetRegistered
	}
	if feeBps > MaxDepositFeeBps {
		return 0, errDepositFeeTooHigh
	}
	if harvestInterval > MaxHarvestInterval {
		return 0, errHarvestTooLong
	}
	if withUpdate {
		if err := e.SettleAll(); err != nil {
			return 0, err
		}
	}
	lastReward := e.now()
	if lastReward < e.startTime {
		lastReward = e.startTime
	}
	category := e.categories[categoryID]
	category.TotalPoolAllocPoint += allocPoint
	e.pools = append(e.pools, &Pool{
		Asset:             asset,
		CategoryID:        categoryID,
		AllocPoint:        allocPoint,
		LastRewardTime:    lastReward,
		AccRewardPerShare: big.NewInt(0),
		DepositFeeBps:     feeBps,
		HarvestInterval:   harvestInterval,
		Staked:            big.NewInt(0),
		ledger:            ledger,
	})
	poolID := uint64(len(e.pools) - 1)
	e.poolByAsset[asset] = poolID + 1
	return poolID, nil
}

// SetPool changes a pool's weight, deposit fee and harvest interval. The
// owning category's pool weight total adjusts atomically with the edit.
func (e *Engine) SetPool(caller common.Address, poolID, allocPoint, feeBps, harvestInterval uint64, withUpdate bool) error {
	if caller != e.owner {
		return errNotOwner
	}
	pool, err := e.pool(poolID)
	if err != nil {
		return err
	}
	if feeBps > MaxDepositFeeBps {
		return errDepositFeeTooHigh
	}
	if harvestInterval > MaxHarvestInterval {
		return errHarvestTooLong
	}
	if withUpdate {
		if err := e.SettleAll(); err != nil {
			return err
		}
	}
	category := e.categories[pool.CategoryID]
	category.TotalPoolAllocPoint = category.TotalPoolAllocPoint - pool.AllocPoint + allocPoint
	pool.AllocPoint = allocPoint
	pool.DepositFeeBps = feeBps
	pool.HarvestInterval = harvestInterval
	return nil
}

// CategoryCount returns the number of registered categories.
func (e *Engine) CategoryCount() uint64 { return uint64(len(e.categories)) }

// PoolCount returns the number of registered pools.
func (e *Engine) PoolCount() uint64 { return uint64(len(e.pools)) }

// TotalCategoryAllocPoint returns the sum of all category weights.
func (e *Engine) TotalCategoryAllocPoint() uint64 { return e.totalCategoryAllocPoint }

// CategoryByID returns a copy of the category.
func (e *Engine) CategoryByID(categoryID uint64) (Category, error) {
	if categoryID >= uint64(len(e.categories)) {
		return Category{}, errUnknownCategory
	}
	return *e.categories[categoryID], nil
}

// PoolByID returns a copy of the pool's accounting state.
func (e *Engine) PoolByID(poolID uint64) (Pool, error) {
	pool, err := e.pool(poolID)
	if err != nil {
		return Pool{}, err
	}
	out := *pool
	out.AccRewardPerShare = new(big.Int).Set(pool.AccRewardPerShare)
	out.Staked = new(big.Int).Set(pool.Staked)
	out.ledger = nil
	return out, nil
}

// PoolIDByAsset resolves the pool registered for asset. The boolean is false
// when the asset is unregistered.
func (e *Engine) PoolIDByAsset(asset common.Address) (uint64, bool) {
	id := e.poolByAsset[asset]
	if id == 0 {
		return 0, false
	}
	return id - 1, true
}
