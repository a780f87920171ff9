package token

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/zprotocol/contracts/core/events"
)

var (
	errZeroAddress           = errors.New("token ledger: zero address")
	errNotOwner              = errors.New("token ledger: caller is not the owner")
	errInvalidAmount         = errors.New("token ledger: amount must not be negative")
	errAmountOverflow        = errors.New("token ledger: amount exceeds 256 bits")
	errCapExceeded           = errors.New("token ledger: mint would exceed the supply cap")
	errInsufficientBalance   = errors.New("token ledger: insufficient balance")
	errInsufficientAllowance = errors.New("token ledger: insufficient allowance")
	errInvalidCap            = errors.New("token ledger: cap must be positive")
)

// Ledger is a capped fungible-asset ledger with owner-gated minting. Minted
// supply is tracked monotonically: burning reduces balances and circulating
// supply but never the minted total, which exists solely to gate the cap.
//
// Balances and allowances are held as 256-bit words internally; the public
// surface speaks big.Int like the rest of the protocol.
type Ledger struct {
	name     string
	symbol   string
	decimals uint8

	owner common.Address

	cap    *uint256.Int
	minted *uint256.Int
	supply *uint256.Int

	balances   map[common.Address]*uint256.Int
	allowances map[common.Address]map[common.Address]*uint256.Int

	emitter events.Emitter
}

// NewLedger constructs a ledger with the given hard supply cap. The owner is
// the only principal allowed to mint.
func NewLedger(name, symbol string, decimals uint8, owner common.Address, cap *big.Int) (*Ledger, error) {
	if owner == (common.Address{}) {
		return nil, errZeroAddress
	}
	capWord, err := toWord(cap)
	if err != nil {
		return nil, err
	}
	if capWord.IsZero() {
		return nil, errInvalidCap
	}
	return &Ledger{
		name:       name,
		symbol:     symbol,
		decimals:   decimals,
		owner:      owner,
		cap:        capWord,
		minted:     uint256.NewInt(0),
		supply:     uint256.NewInt(0),
		balances:   make(map[common.Address]*uint256.Int),
		allowances: make(map[common.Address]map[common.Address]*uint256.Int),
		emitter:    events.NoopEmitter{},
	}, nil
}

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (l *Ledger) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		l.emitter = events.NoopEmitter{}
		return
	}
	l.emitter = emitter
}

func (l *Ledger) Name() string          { return l.name }
func (l *Ledger) Symbol() string        { return l.symbol }
func (l *Ledger) Decimals() uint8       { return l.decimals }
func (l *Ledger) Owner() common.Address { return l.owner }

// Cap returns the hard supply cap.
func (l *Ledger) Cap() *big.Int { return l.cap.ToBig() }

// MintedTotal returns the cumulative minted supply. It never decreases.
func (l *Ledger) MintedTotal() *big.Int { return l.minted.ToBig() }

// TotalSupply returns the circulating supply (minted minus burned).
func (l *Ledger) TotalSupply() *big.Int { return l.supply.ToBig() }

// BalanceOf returns the balance held by addr.
func (l *Ledger) BalanceOf(addr common.Address) *big.Int {
	if bal, ok := l.balances[addr]; ok {
		return bal.ToBig()
	}
	return big.NewInt(0)
}

// Allowance returns the amount spender may move out of owner's balance.
func (l *Ledger) Allowance(owner, spender common.Address) *big.Int {
	if approved, ok := l.allowances[owner]; ok {
		if amount, ok := approved[spender]; ok {
			return amount.ToBig()
		}
	}
	return big.NewInt(0)
}

// SetOwner hands the mint authority to next. Only the current owner may
// rotate it and the zero address is rejected.
func (l *Ledger) SetOwner(caller, next common.Address) error {
	if caller != l.owner {
		return errNotOwner
	}
	if next == (common.Address{}) {
		return errZeroAddress
	}
	l.owner = next
	return nil
}

// Mint creates amount new units for to. It fails when the caller is not the
// owner or when the monotonic minted total would exceed the cap.
func (l *Ledger) Mint(caller, to common.Address, amount *big.Int) error {
	if caller != l.owner {
		return errNotOwner
	}
	if to == (common.Address{}) {
		return errZeroAddress
	}
	word, err := toWord(amount)
	if err != nil {
		return err
	}
	if word.IsZero() {
		return nil
	}
	next := new(uint256.Int).Add(l.minted, word)
	if next.Lt(l.minted) || next.Gt(l.cap) {
		return errCapExceeded
	}
	l.minted = next
	l.supply = new(uint256.Int).Add(l.supply, word)
	l.credit(to, word)
	l.emitter.Emit(events.TokenMinted{
		Symbol:      l.symbol,
		To:          to,
		Amount:      word.ToBig(),
		MintedTotal: l.minted.ToBig(),
	})
	return nil
}

// Burn destroys amount units of the caller's own balance. The minted total is
// deliberately untouched: burn is not un-mint.
func (l *Ledger) Burn(caller common.Address, amount *big.Int) error {
	word, err := toWord(amount)
	if err != nil {
		return err
	}
	if word.IsZero() {
		return nil
	}
	if err := l.debit(caller, word); err != nil {
		return err
	}
	l.supply = new(uint256.Int).Sub(l.supply, word)
	l.emitter.Emit(events.TokenBurned{Symbol: l.symbol, From: caller, Amount: word.ToBig()})
	return nil
}

// Transfer moves amount from the caller's balance to to.
func (l *Ledger) Transfer(from, to common.Address, amount *big.Int) error {
	if to == (common.Address{}) {
		return errZeroAddress
	}
	word, err := toWord(amount)
	if err != nil {
		return err
	}
	return l.move(from, to, word)
}

// Approve lets spender move up to amount out of owner's balance.
func (l *Ledger) Approve(owner, spender common.Address, amount *big.Int) error {
	if spender == (common.Address{}) {
		return errZeroAddress
	}
	word, err := toWord(amount)
	if err != nil {
		return err
	}
	approved, ok := l.allowances[owner]
	if !ok {
		approved = make(map[common.Address]*uint256.Int)
		l.allowances[owner] = approved
	}
	approved[spender] = word
	return nil
}

// TransferFrom moves amount from from to to on behalf of spender, consuming
// allowance.
func (l *Ledger) TransferFrom(spender, from, to common.Address, amount *big.Int) error {
	if to == (common.Address{}) {
		return errZeroAddress
	}
	word, err := toWord(amount)
	if err != nil {
		return err
	}
	approved, ok := l.allowances[from]
	if !ok {
		if word.IsZero() {
			return nil
		}
		return errInsufficientAllowance
	}
	remaining, ok := approved[spender]
	if !ok || remaining.Lt(word) {
		if word.IsZero() {
			return nil
		}
		return errInsufficientAllowance
	}
	if err := l.move(from, to, word); err != nil {
		return err
	}
	approved[spender] = new(uint256.Int).Sub(remaining, word)
	return nil
}

func (l *Ledger) move(from, to common.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	if err := l.debit(from, amount); err != nil {
		return err
	}
	l.credit(to, amount)
	l.emitter.Emit(events.TokenTransferred{
		Symbol: l.symbol,
		From:   from,
		To:     to,
		Amount: amount.ToBig(),
	})
	return nil
}

func (l *Ledger) credit(addr common.Address, amount *uint256.Int) {
	bal, ok := l.balances[addr]
	if !ok {
		bal = uint256.NewInt(0)
	}
	l.balances[addr] = new(uint256.Int).Add(bal, amount)
}

func (l *Ledger) debit(addr common.Address, amount *uint256.Int) error {
	bal, ok := l.balances[addr]
	if !ok || bal.Lt(amount) {
		return errInsufficientBalance
	}
	l.balances[addr] = new(uint256.Int).Sub(bal, amount)
	return nil
}

func toWord(amount *big.Int) (*uint256.Int, error) {
	if amount == nil {
		return uint256.NewInt(0), nil
	}
	if amount.Sign() < 0 {
		return nil, errInvalidAmount
	}
	word, overflow := uint256.FromBig(amount)
	if overflow {
		return nil, errAmountOverflow
	}
	return word, nil
}
