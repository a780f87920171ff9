package state

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/zprotocol/contracts/native/ifo"
	"github.com/zprotocol/contracts/native/token"
	"github.com/zprotocol/contracts/native/treasurer"
	"github.com/zprotocol/contracts/storage"
)

func addr(suffix byte) common.Address {
	var a common.Address
	a[len(a)-1] = suffix
	return a
}

func TestMissingSnapshotsLoadNil(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	if snap, err := m.LoadToken(); err != nil || snap != nil {
		t.Fatalf("LoadToken = (%v, %v), want (nil, nil)", snap, err)
	}
	if snap, err := m.LoadFarming(); err != nil || snap != nil {
		t.Fatalf("LoadFarming = (%v, %v), want (nil, nil)", snap, err)
	}
	if snap, err := m.LoadTreasurer(); err != nil || snap != nil {
		t.Fatalf("LoadTreasurer = (%v, %v), want (nil, nil)", snap, err)
	}
	if snap, err := m.LoadIFO(); err != nil || snap != nil {
		t.Fatalf("LoadIFO = (%v, %v), want (nil, nil)", snap, err)
	}
}

func TestTokenSnapshotRoundTrip(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	want := &token.Snapshot{
		Minted: big.NewInt(1500),
		Supply: big.NewInt(1400),
		Balances: []token.BalanceSnapshot{
			{Holder: addr(0x11), Amount: big.NewInt(900)},
			{Holder: addr(0x12), Amount: big.NewInt(500)},
		},
		Allowances: []token.AllowanceSnapshot{
			{Holder: addr(0x11), Spender: addr(0xA1), Amount: big.NewInt(250)},
		},
	}
	if err := m.SaveToken(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := m.LoadToken()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil {
		t.Fatalf("load returned nil")
	}
	if got.Minted.Cmp(want.Minted) != 0 || got.Supply.Cmp(want.Supply) != 0 {
		t.Fatalf("totals diverged: %+v", got)
	}
	if len(got.Balances) != 2 || got.Balances[0].Holder != addr(0x11) || got.Balances[1].Amount.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("balances diverged: %+v", got.Balances)
	}
	if len(got.Allowances) != 1 || got.Allowances[0].Spender != addr(0xA1) {
		t.Fatalf("allowances diverged: %+v", got.Allowances)
	}
}

func TestTreasurerSnapshotRoundTrip(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	want := &treasurer.Snapshot{
		LockedBps:      5000,
		ExpressBurnBps: 2000,
		LockupWeeks:    4,
		UnlockMoment:   3 * 86400,
		TotalLocked:    big.NewInt(700),
		Buckets: []treasurer.BucketSnapshot{
			{User: addr(0x11), Week: 104, Amount: big.NewInt(500)},
			{User: addr(0x11), Week: 105, Amount: big.NewInt(200)},
		},
	}
	if err := m.SaveTreasurer(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := m.LoadTreasurer()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil {
		t.Fatalf("load returned nil")
	}
	if got.TotalLocked.Cmp(want.TotalLocked) != 0 || got.LockupWeeks != 4 || got.UnlockMoment != want.UnlockMoment {
		t.Fatalf("header diverged: %+v", got)
	}
	if len(got.Buckets) != 2 || got.Buckets[1].Week != 105 || got.Buckets[1].Amount.Cmp(big.NewInt(200)) != 0 {
		t.Fatalf("buckets diverged: %+v", got.Buckets)
	}
}

func TestIFOSnapshotRoundTrip(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	want := &ifo.Snapshot{
		OfferingAmount: big.NewInt(1000),
		RaisingAmount:  big.NewInt(1000),
		TotalCommitted: big.NewInt(1500),
		Commitments: []ifo.CommitmentSnapshot{
			{User: addr(0x11), Amount: big.NewInt(600), Harvested: true},
			{User: addr(0x12), Amount: big.NewInt(900)},
		},
	}
	if err := m.SaveIFO(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := m.LoadIFO()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil {
		t.Fatalf("load returned nil")
	}
	if got.TotalCommitted.Cmp(want.TotalCommitted) != 0 {
		t.Fatalf("total diverged: %s", got.TotalCommitted)
	}
	if len(got.Commitments) != 2 || !got.Commitments[0].Harvested || got.Commitments[1].Harvested {
		t.Fatalf("commitments diverged: %+v", got.Commitments)
	}
}

func TestOverwriteReplacesSnapshot(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	first := &treasurer.Snapshot{
		LockedBps: 5000, ExpressBurnBps: 2000, LockupWeeks: 4,
		TotalLocked: big.NewInt(100),
		Buckets:     []treasurer.BucketSnapshot{{User: addr(0x11), Week: 104, Amount: big.NewInt(100)}},
	}
	if err := m.SaveTreasurer(first); err != nil {
		t.Fatalf("save first: %v", err)
	}
	second := &treasurer.Snapshot{
		LockedBps: 5000, ExpressBurnBps: 2000, LockupWeeks: 4,
		TotalLocked: big.NewInt(0),
	}
	if err := m.SaveTreasurer(second); err != nil {
		t.Fatalf("save second: %v", err)
	}
	got, err := m.LoadTreasurer()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.TotalLocked.Sign() != 0 || len(got.Buckets) != 0 {
		t.Fatalf("overwrite did not replace: %+v", got)
	}
}
