package farming

import (
	"errors"
	"math/big"
	"testing"
)

func TestCategoryWeightTotals(t *testing.T) {
	h := newHarness(t, 10)

	first, err := h.engine.AddCategory(ownerAddr, 60, "stable", false)
	if err != nil {
		t.Fatalf("add category: %v", err)
	}
	second, err := h.engine.AddCategory(ownerAddr, 40, "volatile", false)
	if err != nil {
		t.Fatalf("add category: %v", err)
	}
	if got := h.engine.TotalCategoryAllocPoint(); got != 100 {
		t.Fatalf("total category weight = %d, want 100", got)
	}

	if err := h.engine.SetCategory(ownerAddr, second, 10, false); err != nil {
		t.Fatalf("set category: %v", err)
	}
	if got := h.engine.TotalCategoryAllocPoint(); got != 70 {
		t.Fatalf("total category weight = %d, want 70", got)
	}
	if err := h.engine.SetCategory(ownerAddr, first+second+5, 1, false); !errors.Is(err, errUnknownCategory) {
		t.Fatalf("expected errUnknownCategory, got %v", err)
	}
}

func TestPoolWeightTracksCategoryTotal(t *testing.T) {
	h := newHarness(t, 10)
	catID, err := h.engine.AddCategory(ownerAddr, 100, "core", false)
	if err != nil {
		t.Fatalf("add category: %v", err)
	}
	firstPool, err := h.engine.AddPool(ownerAddr, catID, h.asset, addr(0x70), 30, 0, 0, false)
	if err != nil {
		t.Fatalf("add pool: %v", err)
	}
	if _, err := h.engine.AddPool(ownerAddr, catID, h.asset, addr(0x71), 70, 0, 0, false); err != nil {
		t.Fatalf("add pool: %v", err)
	}
	category, err := h.engine.CategoryByID(catID)
	if err != nil {
		t.Fatalf("category: %v", err)
	}
	if category.TotalPoolAllocPoint != 100 {
		t.Fatalf("pool weight sum = %d, want 100", category.TotalPoolAllocPoint)
	}

	if err := h.engine.SetPool(ownerAddr, firstPool, 50, 0, 0, false); err != nil {
		t.Fatalf("set pool: %v", err)
	}
	category, err = h.engine.CategoryByID(catID)
	if err != nil {
		t.Fatalf("category: %v", err)
	}
	if category.TotalPoolAllocPoint != 120 {
		t.Fatalf("pool weight sum = %d, want 120", category.TotalPoolAllocPoint)
	}
}

func TestAddPoolValidation(t *testing.T) {
	h := newHarness(t, 10)
	catID, err := h.engine.AddCategory(ownerAddr, 100, "core", false)
	if err != nil {
		t.Fatalf("add category: %v", err)
	}

	if _, err := h.engine.AddPool(aliceAddr, catID, h.asset, addr(0x70), 10, 0, 0, false); !errors.Is(err, errNotOwner) {
		t.Fatalf("expected errNotOwner, got %v", err)
	}
	if _, err := h.engine.AddPool(ownerAddr, catID+1, h.asset, addr(0x70), 10, 0, 0, false); !errors.Is(err, errUnknownCategory) {
		t.Fatalf("expected errUnknownCategory, got %v", err)
	}
	if _, err := h.engine.AddPool(ownerAddr, catID, h.asset, addr(0x70), 10, 401, 0, false); !errors.Is(err, errDepositFeeTooHigh) {
		t.Fatalf("expected errDepositFeeTooHigh, got %v", err)
	}
	if _, err := h.engine.AddPool(ownerAddr, catID, h.asset, addr(0x70), 10, 0, 86401, false); !errors.Is(err, errHarvestTooLong) {
		t.Fatalf("expected errHarvestTooLong, got %v", err)
	}

	if _, err := h.engine.AddPool(ownerAddr, catID, h.asset, addr(0x70), 10, 400, 86400, false); err != nil {
		t.Fatalf("add pool at the bounds: %v", err)
	}
	if _, err := h.engine.AddPool(ownerAddr, catID, h.asset, addr(0x70), 10, 0, 0, false); !errors.Is(err, errAssetRegistered) {
		t.Fatalf("expected errAssetRegistered, got %v", err)
	}
}

func TestPoolIDByAssetSentinel(t *testing.T) {
	h := newHarness(t, 10)
	catID, err := h.engine.AddCategory(ownerAddr, 100, "core", false)
	if err != nil {
		t.Fatalf("add category: %v", err)
	}
	if _, ok := h.engine.PoolIDByAsset(addr(0x70)); ok {
		t.Fatalf("unregistered asset resolved")
	}
	poolID, err := h.engine.AddPool(ownerAddr, catID, h.asset, addr(0x70), 10, 0, 0, false)
	if err != nil {
		t.Fatalf("add pool: %v", err)
	}
	got, ok := h.engine.PoolIDByAsset(addr(0x70))
	if !ok || got != poolID {
		t.Fatalf("resolved (%d,%v), want (%d,true)", got, ok, poolID)
	}
}

func TestWithUpdateSettlesBeforeWeightChange(t *testing.T) {
	h := newHarness(t, 10)
	poolID := h.solePool(t, 0, 0)
	h.fund(t, aliceAddr, 1000)
	if err := h.engine.Deposit(aliceAddr, poolID, big.NewInt(1000)); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	h.now = farmStart + 100

	// Settling before halving the weight attributes the elapsed window at
	// the old weight.
	if err := h.engine.SetPool(ownerAddr, poolID, 50, 0, 0, true); err != nil {
		t.Fatalf("set pool: %v", err)
	}
	pool, err := h.engine.PoolByID(poolID)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	if pool.LastRewardTime != h.now {
		t.Fatalf("watermark = %d, want %d", pool.LastRewardTime, h.now)
	}
	pending, err := h.engine.PendingReward(poolID, aliceAddr)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if pending.Cmp(big.NewInt(900)) != 0 {
		t.Fatalf("pending = %s, want 900", pending)
	}
}
