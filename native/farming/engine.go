package farming

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/zprotocol/contracts/core/events"
	nativecommon "github.com/zprotocol/contracts/native/common"
)

const moduleName = "farming"

// Engine streams emission across the category/pool weight tree and keeps the
// per-position reward accounting. All state transitions are caller triggered;
// settlement is lazy and idempotent.
type Engine struct {
	guard   nativecommon.ReentrancyGuard
	pauses  nativecommon.PauseView
	emitter events.Emitter
	nowFn   func() int64

	moduleAddress common.Address
	owner         common.Address
	dev           common.Address
	feeCollector  common.Address

	reward       RewardMinter
	payer        RewardPayer
	payerAddress common.Address

	startTime    int64
	endTime      int64
	emissionRate *big.Int
	// devRate is fixed in absolute terms between UpdateEmissionRate calls.
	devRate *big.Int

	categories              []*Category
	pools                   []*Pool
	poolByAsset             map[common.Address]uint64 // stores id+1, zero means unregistered
	totalCategoryAllocPoint uint64

	positions map[uint64]map[common.Address]*Position
}

// NewEngine constructs a farming engine. moduleAddr is the principal holding
// staked funds, owner gates the administrative surface, dev receives the dev
// emission stream and feeCollector the deposit fees. The emission runs from
// startTime for duration seconds at ratePerSecond; a tenth of the rate is
// carved out for the dev stream.
func NewEngine(moduleAddr, owner, dev, feeCollector common.Address, reward RewardMinter, startTime, duration int64, ratePerSecond *big.Int) (*Engine, error) {
	if moduleAddr == (common.Address{}) || owner == (common.Address{}) || dev == (common.Address{}) || feeCollector == (common.Address{}) {
		return nil, errZeroAddress
	}
	if reward == nil {
		return nil, errNilReward
	}
	if ratePerSecond == nil || ratePerSecond.Sign() <= 0 {
		return nil, errInvalidRate
	}
	rate := new(big.Int).Set(ratePerSecond)
	return &Engine{
		emitter:       events.NoopEmitter{},
		nowFn:         func() int64 { return time.Now().Unix() },
		moduleAddress: moduleAddr,
		owner:         owner,
		dev:           dev,
		feeCollector:  feeCollector,
		reward:        reward,
		startTime:     startTime,
		endTime:       startTime + duration,
		emissionRate:  rate,
		devRate:       new(big.Int).Quo(rate, big.NewInt(10)),
		poolByAsset:   make(map[common.Address]uint64),
		positions:     make(map[uint64]map[common.Address]*Position),
	}, nil
}

// SetPayer wires the reward-paying collaborator and the address pool rewards
// are minted to. Both refer to the same treasurer in production.
func (e *Engine) SetPayer(payer RewardPayer, addr common.Address) {
	e.payer = payer
	e.payerAddress = addr
}

// SetPauses wires the module circuit breaker.
func (e *Engine) SetPauses(p nativecommon.PauseView) { e.pauses = p }

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the time source, primarily for deterministic tests.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

func (e *Engine) now() int64 { return e.nowFn() }

// ModuleAddress returns the principal holding staked funds.
func (e *Engine) ModuleAddress() common.Address { return e.moduleAddress }

// StartTime returns the emission start timestamp.
func (e *Engine) StartTime() int64 { return e.startTime }

// EndTime returns the timestamp past which no further emission accrues.
func (e *Engine) EndTime() int64 { return e.endTime }

// EmissionRate returns the total emission per second (dev stream included).
func (e *Engine) EmissionRate() *big.Int { return new(big.Int).Set(e.emissionRate) }

// DevRate returns the absolute per-second dev stream.
func (e *Engine) DevRate() *big.Int { return new(big.Int).Set(e.devRate) }

// SetDev rotates the dev principal. Only the current dev may hand it off.
func (e *Engine) SetDev(caller, next common.Address) error {
	if caller != e.dev {
		return errNotDev
	}
	if next == (common.Address{}) {
		return errZeroAddress
	}
	e.dev = next
	return nil
}

// SetFeeCollector rotates the fee collector. Only the current holder may hand
// it off.
func (e *Engine) SetFeeCollector(caller, next common.Address) error {
	if caller != e.feeCollector {
		return errNotFeeCollector
	}
	if next == (common.Address{}) {
		return errZeroAddress
	}
	e.feeCollector = next
	return nil
}

// UpdateEmissionRate changes the total emission rate, recomputes the dev
// split (a tenth of the new rate) and projects a new end time from the
// remaining mintable supply at the new rate. Settlement relative to the
// change is caller controlled: pass withUpdate to settle every pool at the
// old rate first.
func (e *Engine) UpdateEmissionRate(caller common.Address, ratePerSecond *big.Int, withUpdate bool) error {
	if caller != e.owner {
		return errNotOwner
	}
	if ratePerSecond == nil || ratePerSecond.Sign() <= 0 {
		return errInvalidRate
	}
	if withUpdate {
		if err := e.SettleAll(); err != nil {
			return err
		}
	}
	e.emissionRate = new(big.Int).Set(ratePerSecond)
	e.devRate = new(big.Int).Quo(e.emissionRate, big.NewInt(10))

	remaining := new(big.Int).Sub(e.reward.Cap(), e.reward.MintedTotal())
	if remaining.Sign() < 0 {
		remaining.SetInt64(0)
	}
	now := e.now()
	if now < e.startTime {
		now = e.startTime
	}
	e.endTime = now + new(big.Int).Quo(remaining, e.emissionRate).Int64()
	e.emitter.Emit(events.FarmingEmissionUpdated{
		RatePerSecond: new(big.Int).Set(e.emissionRate),
		DevRate:       new(big.Int).Set(e.devRate),
		EndTime:       e.endTime,
	})
	return nil
}

// multiplier returns the emission-weighted elapsed seconds between from and
// to, clamped so that nothing accrues past the farm end time.
func (e *Engine) multiplier(from, to int64) int64 {
	if to > e.endTime {
		to = e.endTime
	}
	if to <= from {
		return 0
	}
	return to - from
}

// SettlePool rolls the pool's accumulator forward to now. It is a no-op when
// nothing has elapsed or the pool or its category carries zero weight; a
// zero-weight pool intentionally accrues nothing. Once emission is computed
// the settlement watermark advances unconditionally, even when integer
// division rounds the contribution to zero, so an elapsed window is never
// processed twice.
func (e *Engine) SettlePool(poolID uint64) error {
	pool, err := e.pool(poolID)
	if err != nil {
		return err
	}
	category := e.categories[pool.CategoryID]
	now := e.now()
	if now <= pool.LastRewardTime {
		return nil
	}
	if pool.AllocPoint == 0 || category.AllocPoint == 0 {
		return nil
	}
	elapsed := e.multiplier(pool.LastRewardTime, now)
	rewardRate := new(big.Int).Sub(e.emissionRate, e.devRate)
	poolReward := weightedShare(elapsed, rewardRate, pool.AllocPoint, category.TotalPoolAllocPoint, category.AllocPoint, e.totalCategoryAllocPoint)
	devReward := weightedShare(elapsed, e.devRate, pool.AllocPoint, category.TotalPoolAllocPoint, category.AllocPoint, e.totalCategoryAllocPoint)

	// Both streams are checked against the remaining cap before either mint
	// runs, so a cap hit aborts the settlement with nothing minted instead of
	// leaving a half-settled window that would re-mint the dev share.
	needed := new(big.Int).Add(devReward, poolReward)
	if needed.Sign() > 0 {
		remaining := new(big.Int).Sub(e.reward.Cap(), e.reward.MintedTotal())
		if needed.Cmp(remaining) > 0 {
			return errEmissionExhausted
		}
	}

	// The dev stream is minted regardless of stake presence.
	if devReward.Sign() > 0 {
		if err := e.reward.Mint(e.moduleAddress, e.dev, devReward); err != nil {
			return err
		}
	}
	if poolReward.Sign() > 0 {
		if pool.Staked.Sign() == 0 {
			// Nobody staked: the reward slice goes to dev so the total
			// emission stays independent of stake presence.
			if err := e.reward.Mint(e.moduleAddress, e.dev, poolReward); err != nil {
				return err
			}
		} else {
			if e.payer == nil {
				return errNilPayer
			}
			if err := e.reward.Mint(e.moduleAddress, e.payerAddress, poolReward); err != nil {
				return err
			}
			delta := new(big.Int).Mul(poolReward, accScale)
			delta.Quo(delta, pool.Staked)
			pool.AccRewardPerShare = new(big.Int).Add(pool.AccRewardPerShare, delta)
		}
	}
	pool.LastRewardTime = now
	e.emitter.Emit(events.FarmingPoolSettled{
		PoolID:            poolID,
		Reward:            poolReward,
		DevReward:         devReward,
		AccRewardPerShare: new(big.Int).Set(pool.AccRewardPerShare),
	})
	return nil
}

// SettleAll settles every pool. Cost is linear in pool count; bounding it is
// the caller's concern.
func (e *Engine) SettleAll() error {
	for id := range e.pools {
		if err := e.SettlePool(uint64(id)); err != nil {
			return err
		}
	}
	return nil
}

// PendingReward projects the reward a settlement would credit to user right
// now, without mutating state. The projection mirrors SettlePool exactly.
func (e *Engine) PendingReward(poolID uint64, user common.Address) (*big.Int, error) {
	pool, err := e.pool(poolID)
	if err != nil {
		return nil, err
	}
	category := e.categories[pool.CategoryID]
	pos := e.positionView(poolID, user)
	acc := new(big.Int).Set(pool.AccRewardPerShare)
	now := e.now()
	if now > pool.LastRewardTime && pool.AllocPoint != 0 && category.AllocPoint != 0 && pool.Staked.Sign() > 0 {
		elapsed := e.multiplier(pool.LastRewardTime, now)
		rewardRate := new(big.Int).Sub(e.emissionRate, e.devRate)
		poolReward := weightedShare(elapsed, rewardRate, pool.AllocPoint, category.TotalPoolAllocPoint, category.AllocPoint, e.totalCategoryAllocPoint)
		delta := new(big.Int).Mul(poolReward, accScale)
		delta.Quo(delta, pool.Staked)
		acc.Add(acc, delta)
	}
	pending := new(big.Int).Mul(pos.Amount, acc)
	pending.Quo(pending, accScale)
	pending.Sub(pending, pos.RewardDebt)
	return pending, nil
}

// Deposit stakes amount into the pool on behalf of user. The pool and its
// category must both carry nonzero weight. Any pending reward is dispatched
// first; a nonzero deposit re-arms the harvest window.
func (e *Engine) Deposit(user common.Address, poolID uint64, amount *big.Int) error {
	release, err := e.guard.Enter()
	if err != nil {
		return err
	}
	defer release()
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if user == (common.Address{}) {
		return errZeroAddress
	}
	if amount == nil {
		amount = big.NewInt(0)
	}
	if amount.Sign() < 0 {
		return errInvalidAmount
	}
	pool, err := e.pool(poolID)
	if err != nil {
		return err
	}
	if pool.AllocPoint == 0 || e.categories[pool.CategoryID].AllocPoint == 0 {
		return errPoolDisabled
	}
	if err := e.SettlePool(poolID); err != nil {
		return err
	}
	pos := e.position(poolID, user)
	if err := e.dispatchReward(poolID, pool, pos, user); err != nil {
		return err
	}
	fee := big.NewInt(0)
	if amount.Sign() > 0 {
		if err := pool.ledger.TransferFrom(e.moduleAddress, user, e.moduleAddress, amount); err != nil {
			return err
		}
		fee = new(big.Int).Mul(amount, new(big.Int).SetUint64(pool.DepositFeeBps))
		fee.Quo(fee, big.NewInt(BpsDenominator))
		if fee.Sign() > 0 {
			if err := pool.ledger.Transfer(e.moduleAddress, e.feeCollector, fee); err != nil {
				return err
			}
		}
		net := new(big.Int).Sub(amount, fee)
		pos.Amount = new(big.Int).Add(pos.Amount, net)
		pool.Staked = new(big.Int).Add(pool.Staked, net)
		pos.NextHarvestUntil = e.now() + int64(pool.HarvestInterval)
	}
	pos.RewardDebt = rebaseline(pos.Amount, pool.AccRewardPerShare)
	e.emitter.Emit(events.FarmingDeposit{User: user, PoolID: poolID, Amount: amount, Fee: fee, Staked: new(big.Int).Set(pool.Staked)})
	return nil
}

// Withdraw unstakes amount from the pool. Pending reward is dispatched before
// the principal leaves.
func (e *Engine) Withdraw(user common.Address, poolID uint64, amount *big.Int) error {
	release, err := e.guard.Enter()
	if err != nil {
		return err
	}
	defer release()
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if amount == nil {
		amount = big.NewInt(0)
	}
	if amount.Sign() < 0 {
		return errInvalidAmount
	}
	pool, err := e.pool(poolID)
	if err != nil {
		return err
	}
	pos := e.position(poolID, user)
	if pos.Amount.Cmp(amount) < 0 {
		return errInsufficientStake
	}
	if err := e.SettlePool(poolID); err != nil {
		return err
	}
	if err := e.dispatchReward(poolID, pool, pos, user); err != nil {
		return err
	}
	// The outbound transfer goes first so a failed transfer aborts with the
	// position untouched; the reentrancy guard is still held.
	if amount.Sign() > 0 {
		if err := pool.ledger.Transfer(e.moduleAddress, user, amount); err != nil {
			return err
		}
		pos.Amount = new(big.Int).Sub(pos.Amount, amount)
		pool.Staked = new(big.Int).Sub(pool.Staked, amount)
	}
	pos.RewardDebt = rebaseline(pos.Amount, pool.AccRewardPerShare)
	e.emitter.Emit(events.FarmingWithdraw{User: user, PoolID: poolID, Amount: amount, Staked: new(big.Int).Set(pool.Staked)})
	return nil
}

// EmergencyWithdraw returns the staked principal and forfeits all reward
// state. It bypasses settlement and reward dispatch entirely so a
// malfunctioning reward path cannot trap principal.
func (e *Engine) EmergencyWithdraw(user common.Address, poolID uint64) error {
	release, err := e.guard.Enter()
	if err != nil {
		return err
	}
	defer release()
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	pool, err := e.pool(poolID)
	if err != nil {
		return err
	}
	pos := e.position(poolID, user)
	amount := pos.Amount
	// Principal leaves before the position is zeroed so an aborted transfer
	// cannot destroy the stake record.
	if amount.Sign() > 0 {
		if err := pool.ledger.Transfer(e.moduleAddress, user, amount); err != nil {
			return err
		}
		pool.Staked = new(big.Int).Sub(pool.Staked, amount)
	}
	pos.Amount = big.NewInt(0)
	pos.RewardDebt = big.NewInt(0)
	pos.RewardLocked = big.NewInt(0)
	pos.NextHarvestUntil = 0
	e.emitter.Emit(events.FarmingEmergencyWithdraw{User: user, PoolID: poolID, Amount: amount, Staked: new(big.Int).Set(pool.Staked)})
	return nil
}

// dispatchReward settles the position's pending reward after a pool
// settlement: pay it through the treasurer when the harvest window has
// elapsed, otherwise buffer it inside the position.
func (e *Engine) dispatchReward(poolID uint64, pool *Pool, pos *Position, user common.Address) error {
	now := e.now()
	if pos.NextHarvestUntil == 0 {
		pos.NextHarvestUntil = now + int64(pool.HarvestInterval)
	}
	pending := new(big.Int).Mul(pos.Amount, pool.AccRewardPerShare)
	pending.Quo(pending, accScale)
	pending.Sub(pending, pos.RewardDebt)
	if now >= pos.NextHarvestUntil {
		if pending.Sign() > 0 || pos.RewardLocked.Sign() > 0 {
			if e.payer == nil {
				return errNilPayer
			}
			total := new(big.Int).Add(pending, pos.RewardLocked)
			if err := e.payer.RewardUser(e.moduleAddress, user, total); err != nil {
				return err
			}
			pos.RewardLocked = big.NewInt(0)
			pos.NextHarvestUntil = now + int64(pool.HarvestInterval)
			e.emitter.Emit(events.FarmingRewardPaid{User: user, PoolID: poolID, Amount: total})
		}
	} else if pending.Sign() > 0 {
		pos.RewardLocked = new(big.Int).Add(pos.RewardLocked, pending)
		e.emitter.Emit(events.FarmingRewardLocked{User: user, PoolID: poolID, Amount: pending})
	}
	// The dispatched pending is consumed either way, so the debt advances
	// here; callers rebaseline again after they move principal. Leaving this
	// to the caller would double-count the pending when a later transfer in
	// the same operation fails.
	pos.RewardDebt = rebaseline(pos.Amount, pool.AccRewardPerShare)
	return nil
}

func (e *Engine) pool(poolID uint64) (*Pool, error) {
	if poolID >= uint64(len(e.pools)) {
		return nil, errUnknownPool
	}
	return e.pools[poolID], nil
}

func (e *Engine) position(poolID uint64, user common.Address) *Position {
	byUser, ok := e.positions[poolID]
	if !ok {
		byUser = make(map[common.Address]*Position)
		e.positions[poolID] = byUser
	}
	pos, ok := byUser[user]
	if !ok {
		pos = &Position{
			Amount:       big.NewInt(0),
			RewardDebt:   big.NewInt(0),
			RewardLocked: big.NewInt(0),
		}
		byUser[user] = pos
	}
	return pos
}

// positionView returns the stored position without allocating one.
func (e *Engine) positionView(poolID uint64, user common.Address) Position {
	if byUser, ok := e.positions[poolID]; ok {
		if pos, ok := byUser[user]; ok {
			return *pos
		}
	}
	return Position{Amount: big.NewInt(0), RewardDebt: big.NewInt(0), RewardLocked: big.NewInt(0)}
}

// PositionOf returns a copy of the user's position in the pool.
func (e *Engine) PositionOf(poolID uint64, user common.Address) (Position, error) {
	if _, err := e.pool(poolID); err != nil {
		return Position{}, err
	}
	pos := e.positionView(poolID, user)
	return Position{
		Amount:           new(big.Int).Set(pos.Amount),
		RewardDebt:       new(big.Int).Set(pos.RewardDebt),
		NextHarvestUntil: pos.NextHarvestUntil,
		RewardLocked:     new(big.Int).Set(pos.RewardLocked),
	}, nil
}

func rebaseline(amount, acc *big.Int) *big.Int {
	debt := new(big.Int).Mul(amount, acc)
	return debt.Quo(debt, accScale)
}
