package treasurer

import (
	"math/big"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/zprotocol/contracts/core/events"
	nativecommon "github.com/zprotocol/contracts/native/common"
)

const moduleName = "treasurer"

// TokenLedger is the reward-token surface the treasurer needs: moving its own
// balance, burning penalties out of it, and reading its capacity.
type TokenLedger interface {
	Transfer(from, to common.Address, amount *big.Int) error
	Burn(caller common.Address, amount *big.Int) error
	BalanceOf(addr common.Address) *big.Int
}

// Engine is the reward treasurer. It receives payouts from the farming
// engine, pays the instant slice immediately and buckets the locked slice by
// its claim-eligible week. The conservation invariant is that totalLocked
// never exceeds the treasurer's actual token balance.
type Engine struct {
	guard   nativecommon.ReentrancyGuard
	pauses  nativecommon.PauseView
	emitter events.Emitter
	nowFn   func() int64

	moduleAddress common.Address
	owner         common.Address
	operator      common.Address

	token TokenLedger

	lockedBps      uint64
	expressBurnBps uint64
	lockupWeeks    uint64
	// unlockMoment shifts the maturity check inside the week so unlocks
	// happen at a stable time-of-week.
	unlockMoment int64

	totalLocked *big.Int
	// buckets holds the locked amount per user and week; pendingWeeks keeps
	// the nonzero weeks per user as a sorted slice for enumeration.
	buckets      map[common.Address]map[uint64]*big.Int
	pendingWeeks map[common.Address][]uint64
}

// NewEngine constructs a treasurer holding funds under moduleAddr. The
// configuration knobs are bounded at construction exactly as they are at
// write time.
func NewEngine(moduleAddr, owner common.Address, token TokenLedger, lockedBps, expressBurnBps, lockupWeeks uint64, unlockMoment int64) (*Engine, error) {
	if moduleAddr == (common.Address{}) || owner == (common.Address{}) {
		return nil, errZeroAddress
	}
	if token == nil {
		return nil, errNilToken
	}
	if lockedBps > BpsDenominator {
		return nil, errLockedBpsRange
	}
	if expressBurnBps > BpsDenominator {
		return nil, errBurnBpsRange
	}
	if lockupWeeks < MinLockupWeeks || lockupWeeks > MaxLockupWeeks {
		return nil, errLockupWeeks
	}
	if unlockMoment < 0 || unlockMoment >= weekSeconds {
		return nil, errUnlockMoment
	}
	return &Engine{
		emitter:        events.NoopEmitter{},
		nowFn:          func() int64 { return time.Now().Unix() },
		moduleAddress:  moduleAddr,
		owner:          owner,
		token:          token,
		lockedBps:      lockedBps,
		expressBurnBps: expressBurnBps,
		lockupWeeks:    lockupWeeks,
		unlockMoment:   unlockMoment,
		totalLocked:    big.NewInt(0),
		buckets:        make(map[common.Address]map[uint64]*big.Int),
		pendingWeeks:   make(map[common.Address][]uint64),
	}, nil
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

// ModuleAddress returns the principal holding the treasurer funds.
func (e *Engine) ModuleAddress() common.Address { return e.moduleAddress }

// SetOperator authorises the principal allowed to push rewards, normally the
// farming engine's module address.
func (e *Engine) SetOperator(caller, operator common.Address) error {
	if caller != e.owner {
		return errNotOwner
	}
	if operator == (common.Address{}) {
		return errZeroAddress
	}
	e.operator = operator
	return nil
}

// SetOwner rotates the administrative owner.
func (e *Engine) SetOwner(caller, next common.Address) error {
	if caller != e.owner {
		return errNotOwner
	}
	if next == (common.Address{}) {
		return errZeroAddress
	}
	e.owner = next
	return nil
}

// SetLockedBps changes the locked share of future payouts. Existing buckets
// store plain amounts and are unaffected.
func (e *Engine) SetLockedBps(caller common.Address, bps uint64) error {
	if caller != e.owner {
		return errNotOwner
	}
	if bps > BpsDenominator {
		return errLockedBpsRange
	}
	e.lockedBps = bps
	return nil
}

// SetExpressBurnBps changes the early-exit penalty applied to future express
// claims.
func (e *Engine) SetExpressBurnBps(caller common.Address, bps uint64) error {
	if caller != e.owner {
		return errNotOwner
	}
	if bps > BpsDenominator {
		return errBurnBpsRange
	}
	e.expressBurnBps = bps
	return nil
}

// SetLockupWeeks changes the lockup span for future payouts, bounded to
// [MinLockupWeeks, MaxLockupWeeks].
func (e *Engine) SetLockupWeeks(caller common.Address, weeks uint64) error {
	if caller != e.owner {
		return errNotOwner
	}
	if weeks < MinLockupWeeks || weeks > MaxLockupWeeks {
		return errLockupWeeks
	}
	e.lockupWeeks = weeks
	return nil
}

// SetUnlockMoment changes the intra-week unlock offset; it must stay inside
// one week.
func (e *Engine) SetUnlockMoment(caller common.Address, moment int64) error {
	if caller != e.owner {
		return errNotOwner
	}
	if moment < 0 || moment >= weekSeconds {
		return errUnlockMoment
	}
	e.unlockMoment = moment
	return nil
}

// TotalLocked returns the aggregate locked amount across all users and weeks.
func (e *Engine) TotalLocked() *big.Int { return new(big.Int).Set(e.totalLocked) }

// LockedOf returns the locked amount in one of the user's week buckets.
func (e *Engine) LockedOf(user common.Address, week uint64) *big.Int {
	if byWeek, ok := e.buckets[user]; ok {
		if amount, ok := byWeek[week]; ok {
			return new(big.Int).Set(amount)
		}
	}
	return big.NewInt(0)
}

// PendingWeeks returns the user's nonzero bucket weeks in ascending order.
func (e *Engine) PendingWeeks(user common.Address) []uint64 {
	weeks := e.pendingWeeks[user]
	out := make([]uint64, len(weeks))
	copy(out, weeks)
	return out
}

// NextClaimableWeek returns the bucket a payout locked right now would
// mature in.
func (e *Engine) NextClaimableWeek() uint64 {
	return WeekOf(e.now()) + e.lockupWeeks
}

// maxClaimableWeek is the newest week considered matured at time now.
func (e *Engine) maxClaimableWeek(now int64) uint64 {
	return WeekOf(now - e.unlockMoment)
}

// ClaimableAmount sums the user's matured buckets without mutating state.
func (e *Engine) ClaimableAmount(user common.Address) *big.Int {
	maxWeek := e.maxClaimableWeek(e.now())
	total := big.NewInt(0)
	for _, week := range e.pendingWeeks[user] {
		if week > maxWeek {
			break
		}
		total.Add(total, e.buckets[user][week])
	}
	return total
}

// RewardUser accepts a payout on behalf of user. Only the configured operator
// may call it; the call fails when the ledger balance cannot back the payout
// on top of what is already locked. The locked slice is bucketed lockupWeeks
// ahead, the instant slice is transferred immediately with a balance-capped
// safe transfer that tolerates rounding dust shortfalls.
func (e *Engine) RewardUser(caller, user common.Address, amount *big.Int) error {
	release, err := e.guard.Enter()
	if err != nil {
		return err
	}
	defer release()
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if caller != e.operator || e.operator == (common.Address{}) {
		return errNotOperator
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
	if amount.Sign() == 0 {
		return nil
	}
	required := new(big.Int).Add(e.totalLocked, amount)
	if required.Cmp(e.token.BalanceOf(e.moduleAddress)) > 0 {
		return errLedgerCapacity
	}

	locked := new(big.Int).Mul(amount, new(big.Int).SetUint64(e.lockedBps))
	locked.Quo(locked, big.NewInt(BpsDenominator))
	// The instant slice leaves first so a failed transfer aborts before any
	// bucket is credited.
	instant := new(big.Int).Sub(amount, locked)
	if instant.Sign() > 0 {
		if err := e.safeTransfer(user, instant); err != nil {
			return err
		}
	}
	if locked.Sign() > 0 {
		week := WeekOf(e.now()) + e.lockupWeeks
		e.credit(user, week, locked)
		e.totalLocked.Add(e.totalLocked, locked)
		e.emitter.Emit(events.TreasurerRewardLocked{User: user, Week: week, Amount: locked, TotalLocked: new(big.Int).Set(e.totalLocked)})
	}
	if instant.Sign() > 0 {
		e.emitter.Emit(events.TreasurerRewardPaid{User: user, Amount: instant})
	}
	return nil
}

// Claim pays out the requested matured weeks. Immature or already-empty
// weeks are silently skipped, so partial and repeated claiming is an
// expected pattern, not an error.
func (e *Engine) Claim(user common.Address, weeks []uint64) error {
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
	maxWeek := e.maxClaimableWeek(e.now())
	total := big.NewInt(0)
	var claimed []uint64
	seen := make(map[uint64]bool)
	for _, week := range weeks {
		if seen[week] || week > maxWeek {
			continue
		}
		amount := e.bucket(user, week)
		if amount == nil {
			continue
		}
		seen[week] = true
		total.Add(total, amount)
		claimed = append(claimed, week)
	}
	if total.Sign() == 0 {
		return nil
	}
	// Pay first: a failed transfer leaves every bucket intact.
	if err := e.safeTransfer(user, total); err != nil {
		return err
	}
	for _, week := range claimed {
		e.clear(user, week)
	}
	e.totalLocked.Sub(e.totalLocked, total)
	e.emitter.Emit(events.TreasurerClaimed{User: user, Weeks: claimed, Amount: total, TotalLocked: new(big.Int).Set(e.totalLocked)})
	return nil
}

// ClaimExpress pays out the requested weeks immediately. Matured weeks pay in
// full; immature weeks forfeit the express burn share, which is destroyed
// rather than redistributed.
func (e *Engine) ClaimExpress(user common.Address, weeks []uint64) error {
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
	maxWeek := e.maxClaimableWeek(e.now())
	pay := big.NewInt(0)
	burn := big.NewInt(0)
	var claimed []uint64
	seen := make(map[uint64]bool)
	for _, week := range weeks {
		if seen[week] {
			continue
		}
		amount := e.bucket(user, week)
		if amount == nil {
			continue
		}
		seen[week] = true
		if week <= maxWeek {
			pay.Add(pay, amount)
		} else {
			penalty := new(big.Int).Mul(amount, new(big.Int).SetUint64(e.expressBurnBps))
			penalty.Quo(penalty, big.NewInt(BpsDenominator))
			burn.Add(burn, penalty)
			pay.Add(pay, new(big.Int).Sub(amount, penalty))
		}
		claimed = append(claimed, week)
	}
	if pay.Sign() == 0 && burn.Sign() == 0 {
		return nil
	}
	// Pay first: a failed transfer leaves the buckets intact. The burn after
	// it cannot fail for lack of balance because totalLocked never exceeds
	// the backing balance and pay+burn never exceeds totalLocked.
	if err := e.safeTransfer(user, pay); err != nil {
		return err
	}
	if burn.Sign() > 0 {
		if err := e.token.Burn(e.moduleAddress, burn); err != nil {
			return err
		}
	}
	for _, week := range claimed {
		e.clear(user, week)
	}
	e.totalLocked.Sub(e.totalLocked, new(big.Int).Add(pay, burn))
	e.emitter.Emit(events.TreasurerExpressClaimed{User: user, Weeks: claimed, Paid: pay, Burned: burn, TotalLocked: new(big.Int).Set(e.totalLocked)})
	return nil
}

// bucket returns the user's nonzero bucket for week without mutating state,
// or nil when there is none.
func (e *Engine) bucket(user common.Address, week uint64) *big.Int {
	byWeek, ok := e.buckets[user]
	if !ok {
		return nil
	}
	amount, ok := byWeek[week]
	if !ok || amount.Sign() == 0 {
		return nil
	}
	return amount
}

// clear drops the user's bucket for week from both the bucket map and the
// pending-week set.
func (e *Engine) clear(user common.Address, week uint64) {
	if byWeek, ok := e.buckets[user]; ok {
		delete(byWeek, week)
	}
	e.removeWeek(user, week)
}

func (e *Engine) credit(user common.Address, week uint64, amount *big.Int) {
	byWeek, ok := e.buckets[user]
	if !ok {
		byWeek = make(map[uint64]*big.Int)
		e.buckets[user] = byWeek
	}
	if existing, ok := byWeek[week]; ok {
		byWeek[week] = new(big.Int).Add(existing, amount)
		return
	}
	byWeek[week] = new(big.Int).Set(amount)
	weeks := e.pendingWeeks[user]
	idx := sort.Search(len(weeks), func(i int) bool { return weeks[i] >= week })
	weeks = append(weeks, 0)
	copy(weeks[idx+1:], weeks[idx:])
	weeks[idx] = week
	e.pendingWeeks[user] = weeks
}

func (e *Engine) removeWeek(user common.Address, week uint64) {
	weeks := e.pendingWeeks[user]
	idx := sort.Search(len(weeks), func(i int) bool { return weeks[i] >= week })
	if idx < len(weeks) && weeks[idx] == week {
		e.pendingWeeks[user] = append(weeks[:idx], weeks[idx+1:]...)
	}
}

// safeTransfer pays out at most the treasurer's current balance. Capping
// instead of failing tolerates rounding dust shortfalls; an actual transfer
// failure still aborts the operation.
func (e *Engine) safeTransfer(user common.Address, amount *big.Int) error {
	if amount.Sign() <= 0 {
		return nil
	}
	balance := e.token.BalanceOf(e.moduleAddress)
	if amount.Cmp(balance) > 0 {
		amount = balance
	}
	if amount.Sign() <= 0 {
		return nil
	}
	return e.token.Transfer(e.moduleAddress, user, amount)
}
