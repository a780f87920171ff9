package ifo

import (
	"bytes"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// Snapshot is the RLP-friendly persisted form of the sale book. Commitments
// flatten into a slice sorted by user.
type Snapshot struct {
	OfferingAmount *big.Int
	RaisingAmount  *big.Int
	TotalCommitted *big.Int
	Commitments    []CommitmentSnapshot
}

type CommitmentSnapshot struct {
	User      common.Address
	Amount    *big.Int
	Harvested bool
}

// Snapshot captures the sale's mutable state.
func (e *Engine) Snapshot() *Snapshot {
	snap := &Snapshot{
		OfferingAmount: new(big.Int).Set(e.offeringAmount),
		RaisingAmount:  new(big.Int).Set(e.raisingAmount),
		TotalCommitted: new(big.Int).Set(e.totalCommitted),
	}
	for user, amount := range e.committed {
		if amount.Sign() == 0 {
			continue
		}
		snap.Commitments = append(snap.Commitments, CommitmentSnapshot{
			User:      user,
			Amount:    new(big.Int).Set(amount),
			Harvested: e.harvested[user],
		})
	}
	sort.Slice(snap.Commitments, func(i, j int) bool {
		return bytes.Compare(snap.Commitments[i].User[:], snap.Commitments[j].User[:]) < 0
	})
	return snap
}

// Restore replaces the sale's mutable state with the snapshot contents.
func (e *Engine) Restore(snap *Snapshot) error {
	if snap == nil {
		return errInvalidSnapshot
	}
	if snap.OfferingAmount == nil || snap.OfferingAmount.Sign() <= 0 {
		return errInvalidSnapshot
	}
	if snap.RaisingAmount == nil || snap.RaisingAmount.Sign() <= 0 {
		return errInvalidSnapshot
	}
	if snap.TotalCommitted == nil || snap.TotalCommitted.Sign() < 0 {
		return errInvalidSnapshot
	}
	committed := make(map[common.Address]*big.Int)
	harvested := make(map[common.Address]bool)
	check := big.NewInt(0)
	for _, entry := range snap.Commitments {
		if entry.Amount == nil || entry.Amount.Sign() <= 0 {
			return errInvalidSnapshot
		}
		if _, dup := committed[entry.User]; dup {
			return errInvalidSnapshot
		}
		committed[entry.User] = new(big.Int).Set(entry.Amount)
		if entry.Harvested {
			harvested[entry.User] = true
		}
		check.Add(check, entry.Amount)
	}
	if check.Cmp(snap.TotalCommitted) != 0 {
		return errInvalidSnapshot
	}
	e.offeringAmount = new(big.Int).Set(snap.OfferingAmount)
	e.raisingAmount = new(big.Int).Set(snap.RaisingAmount)
	e.totalCommitted = new(big.Int).Set(snap.TotalCommitted)
	e.committed = committed
	e.harvested = harvested
	return nil
}
