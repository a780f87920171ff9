package treasurer

import (
	"bytes"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// Snapshot is the RLP-friendly persisted form of the treasurer ledger.
// Buckets flatten into a slice sorted by user then week.
type Snapshot struct {
	LockedBps      uint64
	ExpressBurnBps uint64
	LockupWeeks    uint64
	UnlockMoment   uint64
	TotalLocked    *big.Int
	Buckets        []BucketSnapshot
}

type BucketSnapshot struct {
	User   common.Address
	Week   uint64
	Amount *big.Int
}

// Snapshot captures the treasurer's mutable state.
func (e *Engine) Snapshot() *Snapshot {
	snap := &Snapshot{
		LockedBps:      e.lockedBps,
		ExpressBurnBps: e.expressBurnBps,
		LockupWeeks:    e.lockupWeeks,
		UnlockMoment:   uint64(e.unlockMoment),
		TotalLocked:    new(big.Int).Set(e.totalLocked),
	}
	for user, byWeek := range e.buckets {
		for week, amount := range byWeek {
			if amount.Sign() == 0 {
				continue
			}
			snap.Buckets = append(snap.Buckets, BucketSnapshot{
				User:   user,
				Week:   week,
				Amount: new(big.Int).Set(amount),
			})
		}
	}
	sort.Slice(snap.Buckets, func(i, j int) bool {
		a, b := snap.Buckets[i], snap.Buckets[j]
		if cmp := bytes.Compare(a.User[:], b.User[:]); cmp != 0 {
			return cmp < 0
		}
		return a.Week < b.Week
	})
	return snap
}

// Restore replaces the treasurer's mutable state with the snapshot contents.
func (e *Engine) Restore(snap *Snapshot) error {
	if snap == nil {
		return errInvalidSnapshot
	}
	if snap.LockedBps > BpsDenominator || snap.ExpressBurnBps > BpsDenominator {
		return errInvalidSnapshot
	}
	if snap.LockupWeeks < MinLockupWeeks || snap.LockupWeeks > MaxLockupWeeks {
		return errInvalidSnapshot
	}
	if snap.UnlockMoment >= weekSeconds {
		return errInvalidSnapshot
	}
	if snap.TotalLocked == nil || snap.TotalLocked.Sign() < 0 {
		return errInvalidSnapshot
	}
	buckets := make(map[common.Address]map[uint64]*big.Int)
	pendingWeeks := make(map[common.Address][]uint64)
	check := big.NewInt(0)
	for _, entry := range snap.Buckets {
		if entry.Amount == nil || entry.Amount.Sign() <= 0 {
			return errInvalidSnapshot
		}
		byWeek, ok := buckets[entry.User]
		if !ok {
			byWeek = make(map[uint64]*big.Int)
			buckets[entry.User] = byWeek
		}
		if _, dup := byWeek[entry.Week]; dup {
			return errInvalidSnapshot
		}
		byWeek[entry.Week] = new(big.Int).Set(entry.Amount)
		pendingWeeks[entry.User] = append(pendingWeeks[entry.User], entry.Week)
		check.Add(check, entry.Amount)
	}
	if check.Cmp(snap.TotalLocked) != 0 {
		return errInvalidSnapshot
	}
	for user := range pendingWeeks {
		weeks := pendingWeeks[user]
		sort.Slice(weeks, func(i, j int) bool { return weeks[i] < weeks[j] })
		pendingWeeks[user] = weeks
	}
	e.lockedBps = snap.LockedBps
	e.expressBurnBps = snap.ExpressBurnBps
	e.lockupWeeks = snap.LockupWeeks
	e.unlockMoment = int64(snap.UnlockMoment)
	e.totalLocked = new(big.Int).Set(snap.TotalLocked)
	e.buckets = buckets
	e.pendingWeeks = pendingWeeks
	return nil
}
