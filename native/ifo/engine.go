package ifo

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/zprotocol/contracts/core/events"
	nativecommon "github.com/zprotocol/contracts/native/common"
)

const moduleName = "ifo"

// StakeLedger is the committed-token surface: commits pull from the user,
// refunds and the final drain push back out.
type StakeLedger interface {
	Transfer(from, to common.Address, amount *big.Int) error
	TransferFrom(spender, from, to common.Address, amount *big.Int) error
	BalanceOf(addr common.Address) *big.Int
}

// OfferingLedger is the sold-token surface; the sale only ever pays out of its
// own balance.
type OfferingLedger interface {
	Transfer(from, to common.Address, amount *big.Int) error
	BalanceOf(addr common.Address) *big.Int
}

// Engine runs a fixed-window token sale. Users commit stake tokens during the
// window; after it closes each commitment converts into a pro-rata slice of
// the offering, with the excess refunded when the sale oversubscribes.
type Engine struct {
	guard   nativecommon.ReentrancyGuard
	pauses  nativecommon.PauseView
	emitter events.Emitter
	nowFn   func() int64

	moduleAddress common.Address
	owner         common.Address

	stake    StakeLedger
	offering OfferingLedger

	startTime int64
	endTime   int64

	offeringAmount *big.Int
	raisingAmount  *big.Int

	totalCommitted *big.Int
	committed      map[common.Address]*big.Int
	harvested      map[common.Address]bool
}

// NewEngine constructs a sale holding funds under moduleAddr for the window
// [startTime, endTime).
func NewEngine(moduleAddr, owner common.Address, stake StakeLedger, offering OfferingLedger, startTime, endTime int64, offeringAmount, raisingAmount *big.Int) (*Engine, error) {
	if moduleAddr == (common.Address{}) || owner == (common.Address{}) {
		return nil, errZeroAddress
	}
	if stake == nil {
		return nil, errNilStakeLedger
	}
	if offering == nil {
		return nil, errNilOfferingLedger
	}
	if endTime <= startTime {
		return nil, errInvalidWindow
	}
	if offeringAmount == nil || offeringAmount.Sign() <= 0 || raisingAmount == nil || raisingAmount.Sign() <= 0 {
		return nil, errInvalidAmount
	}
	return &Engine{
		emitter:        events.NoopEmitter{},
		nowFn:          func() int64 { return time.Now().Unix() },
		moduleAddress:  moduleAddr,
		owner:          owner,
		stake:          stake,
		offering:       offering,
		startTime:      startTime,
		endTime:        endTime,
		offeringAmount: new(big.Int).Set(offeringAmount),
		raisingAmount:  new(big.Int).Set(raisingAmount),
		totalCommitted: big.NewInt(0),
		committed:      make(map[common.Address]*big.Int),
		harvested:      make(map[common.Address]bool),
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

// ModuleAddress returns the principal holding the sale funds.
func (e *Engine) ModuleAddress() common.Address { return e.moduleAddress }

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

// SetOfferingAmount changes the amount on sale; frozen once the window opens.
func (e *Engine) SetOfferingAmount(caller common.Address, amount *big.Int) error {
	if caller != e.owner {
		return errNotOwner
	}
	if e.now() >= e.startTime {
		return errSaleStarted
	}
	if amount == nil || amount.Sign() <= 0 {
		return errInvalidAmount
	}
	e.offeringAmount = new(big.Int).Set(amount)
	return nil
}

// SetRaisingAmount changes the target raise; frozen once the window opens.
func (e *Engine) SetRaisingAmount(caller common.Address, amount *big.Int) error {
	if caller != e.owner {
		return errNotOwner
	}
	if e.now() >= e.startTime {
		return errSaleStarted
	}
	if amount == nil || amount.Sign() <= 0 {
		return errInvalidAmount
	}
	e.raisingAmount = new(big.Int).Set(amount)
	return nil
}

// TotalCommitted returns the aggregate stake committed so far.
func (e *Engine) TotalCommitted() *big.Int { return new(big.Int).Set(e.totalCommitted) }

// CommittedOf returns user's stake commitment.
func (e *Engine) CommittedOf(user common.Address) *big.Int {
	if amount, ok := e.committed[user]; ok {
		return new(big.Int).Set(amount)
	}
	return big.NewInt(0)
}

// HasHarvested reports whether user already harvested.
func (e *Engine) HasHarvested(user common.Address) bool { return e.harvested[user] }

// OfferingAmountOf returns the offering-token slice user would harvest at the
// current subscription level.
func (e *Engine) OfferingAmountOf(user common.Address) *big.Int {
	offering, _ := e.allocation(e.CommittedOf(user))
	return offering
}

// RefundAmountOf returns the stake refund user would harvest at the current
// subscription level. Zero unless the sale is oversubscribed.
func (e *Engine) RefundAmountOf(user common.Address) *big.Int {
	_, refund := e.allocation(e.CommittedOf(user))
	return refund
}

// allocation splits a commitment into its offering payout and stake refund.
// Oversubscribed sales scale by total committed and refund the excess;
// undersubscribed sales scale by the raise target and refund nothing.
func (e *Engine) allocation(committed *big.Int) (*big.Int, *big.Int) {
	if committed.Sign() == 0 {
		return big.NewInt(0), big.NewInt(0)
	}
	if e.totalCommitted.Cmp(e.raisingAmount) > 0 {
		offering := new(big.Int).Mul(e.offeringAmount, committed)
		offering.Quo(offering, e.totalCommitted)
		used := new(big.Int).Mul(e.raisingAmount, committed)
		used.Quo(used, e.totalCommitted)
		refund := new(big.Int).Sub(committed, used)
		return offering, refund
	}
	offering := new(big.Int).Mul(committed, e.offeringAmount)
	offering.Quo(offering, e.raisingAmount)
	return offering, big.NewInt(0)
}

// Commit stakes amount into the sale. Only possible inside the window.
func (e *Engine) Commit(user common.Address, amount *big.Int) error {
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
	if amount == nil || amount.Sign() <= 0 {
		return errInvalidAmount
	}
	now := e.now()
	if now < e.startTime || now >= e.endTime {
		return errSaleNotOpen
	}
	if err := e.stake.TransferFrom(e.moduleAddress, user, e.moduleAddress, amount); err != nil {
		return err
	}
	if existing, ok := e.committed[user]; ok {
		e.committed[user] = new(big.Int).Add(existing, amount)
	} else {
		e.committed[user] = new(big.Int).Set(amount)
	}
	e.totalCommitted.Add(e.totalCommitted, amount)
	e.emitter.Emit(events.IFOCommitted{User: user, Amount: new(big.Int).Set(amount)})
	return nil
}

// Harvest settles user's commitment after the sale: the offering slice plus,
// when oversubscribed, the pro-rata stake refund. One shot per user.
func (e *Engine) Harvest(user common.Address) error {
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
	if e.now() < e.endTime {
		return errSaleNotOver
	}
	committed, ok := e.committed[user]
	if !ok || committed.Sign() == 0 {
		return errNothingCommitted
	}
	if e.harvested[user] {
		return errAlreadyHarvested
	}
	offering, refund := e.allocation(committed)
	e.harvested[user] = true
	if offering.Sign() > 0 {
		if err := e.offering.Transfer(e.moduleAddress, user, offering); err != nil {
			return err
		}
	}
	if refund.Sign() > 0 {
		if err := e.stake.Transfer(e.moduleAddress, user, refund); err != nil {
			return err
		}
	}
	e.emitter.Emit(events.IFOHarvested{User: user, Offering: offering, Refund: refund})
	return nil
}

// FinalWithdraw drains raised stake and unsold offering tokens to the owner
// after the sale. Amounts are bounded by the balances actually held.
func (e *Engine) FinalWithdraw(caller common.Address, stakeAmount, offerAmount *big.Int) error {
	release, err := e.guard.Enter()
	if err != nil {
		return err
	}
	defer release()
	if caller != e.owner {
		return errNotOwner
	}
	if e.now() < e.endTime {
		return errSaleNotOver
	}
	if stakeAmount == nil {
		stakeAmount = big.NewInt(0)
	}
	if offerAmount == nil {
		offerAmount = big.NewInt(0)
	}
	if stakeAmount.Sign() < 0 || offerAmount.Sign() < 0 {
		return errInvalidAmount
	}
	if stakeAmount.Cmp(e.stake.BalanceOf(e.moduleAddress)) > 0 {
		return errExceedsBalance
	}
	if offerAmount.Cmp(e.offering.BalanceOf(e.moduleAddress)) > 0 {
		return errExceedsBalance
	}
	if stakeAmount.Sign() > 0 {
		if err := e.stake.Transfer(e.moduleAddress, caller, stakeAmount); err != nil {
			return err
		}
	}
	if offerAmount.Sign() > 0 {
		if err := e.offering.Transfer(e.moduleAddress, caller, offerAmount); err != nil {
			return err
		}
	}
	return nil
}
