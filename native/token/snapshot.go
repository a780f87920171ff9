package token

import (
	"bytes"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Snapshot is the RLP-friendly persisted form of the ledger. Maps are
// flattened into slices sorted by address so the encoding is deterministic.
type Snapshot struct {
	Minted     *big.Int
	Supply     *big.Int
	Balances   []BalanceSnapshot
	Allowances []AllowanceSnapshot
}

type BalanceSnapshot struct {
	Holder common.Address
	Amount *big.Int
}

type AllowanceSnapshot struct {
	Holder  common.Address
	Spender common.Address
	Amount  *big.Int
}

// Snapshot captures the mutable ledger state.
func (l *Ledger) Snapshot() *Snapshot {
	snap := &Snapshot{
		Minted: l.minted.ToBig(),
		Supply: l.supply.ToBig(),
	}
	for holder, bal := range l.balances {
		if bal.IsZero() {
			continue
		}
		snap.Balances = append(snap.Balances, BalanceSnapshot{Holder: holder, Amount: bal.ToBig()})
	}
	sort.Slice(snap.Balances, func(i, j int) bool {
		return bytes.Compare(snap.Balances[i].Holder[:], snap.Balances[j].Holder[:]) < 0
	})
	for holder, approved := range l.allowances {
		for spender, amount := range approved {
			if amount.IsZero() {
				continue
			}
			snap.Allowances = append(snap.Allowances, AllowanceSnapshot{
				Holder:  holder,
				Spender: spender,
				Amount:  amount.ToBig(),
			})
		}
	}
	sort.Slice(snap.Allowances, func(i, j int) bool {
		a, b := snap.Allowances[i], snap.Allowances[j]
		if cmp := bytes.Compare(a.Holder[:], b.Holder[:]); cmp != 0 {
			return cmp < 0
		}
		return bytes.Compare(a.Spender[:], b.Spender[:]) < 0
	})
	return snap
}

// Restore replaces the mutable ledger state with the snapshot contents.
func (l *Ledger) Restore(snap *Snapshot) error {
	if snap == nil {
		return errInvalidAmount
	}
	minted, err := toWord(snap.Minted)
	if err != nil {
		return err
	}
	supply, err := toWord(snap.Supply)
	if err != nil {
		return err
	}
	balances := make(map[common.Address]*uint256.Int, len(snap.Balances))
	for _, entry := range snap.Balances {
		amount, err := toWord(entry.Amount)
		if err != nil {
			return err
		}
		balances[entry.Holder] = amount
	}
	allowances := make(map[common.Address]map[common.Address]*uint256.Int)
	for _, entry := range snap.Allowances {
		amount, err := toWord(entry.Amount)
		if err != nil {
			return err
		}
		approved, ok := allowances[entry.Holder]
		if !ok {
			approved = make(map[common.Address]*uint256.Int)
			allowances[entry.Holder] = approved
		}
		approved[entry.Spender] = amount
	}
	l.minted = minted
	l.supply = supply
	l.balances = balances
	l.allowances = allowances
	return nil
}
