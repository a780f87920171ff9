package token

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func testAddress(suffix byte) common.Address {
	var addr common.Address
	addr[len(addr)-1] = suffix
	return addr
}

func newTestLedger(t *testing.T, cap int64) *Ledger {
	t.Helper()
	ledger, err := NewLedger("Z Token", "Z", 18, testAddress(0x01), big.NewInt(cap))
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	return ledger
}

func TestMintGatedToOwner(t *testing.T) {
	ledger := newTestLedger(t, 1000)
	owner := testAddress(0x01)
	user := testAddress(0x02)

	if err := ledger.Mint(user, user, big.NewInt(10)); !errors.Is(err, errNotOwner) {
		t.Fatalf("expected errNotOwner, got %v", err)
	}
	if err := ledger.Mint(owner, user, big.NewInt(10)); err != nil {
		t.Fatalf("owner mint failed: %v", err)
	}
	if got := ledger.BalanceOf(user); got.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("unexpected balance: %s", got)
	}
}

func TestMintCapEnforced(t *testing.T) {
	ledger := newTestLedger(t, 100)
	owner := testAddress(0x01)
	user := testAddress(0x02)

	if err := ledger.Mint(owner, user, big.NewInt(100)); err != nil {
		t.Fatalf("mint to cap failed: %v", err)
	}
	if err := ledger.Mint(owner, user, big.NewInt(1)); !errors.Is(err, errCapExceeded) {
		t.Fatalf("expected errCapExceeded, got %v", err)
	}
}

func TestBurnDoesNotReleaseCap(t *testing.T) {
	ledger := newTestLedger(t, 100)
	owner := testAddress(0x01)
	user := testAddress(0x02)

	if err := ledger.Mint(owner, user, big.NewInt(100)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := ledger.Burn(user, big.NewInt(60)); err != nil {
		t.Fatalf("burn: %v", err)
	}
	if got := ledger.TotalSupply(); got.Cmp(big.NewInt(40)) != 0 {
		t.Fatalf("supply after burn: %s", got)
	}
	if got := ledger.MintedTotal(); got.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("minted total must stay monotonic: %s", got)
	}
	// Burnt headroom must not be mintable again.
	if err := ledger.Mint(owner, user, big.NewInt(1)); !errors.Is(err, errCapExceeded) {
		t.Fatalf("expected errCapExceeded after burn, got %v", err)
	}
}

func TestTransferFromConsumesAllowance(t *testing.T) {
	ledger := newTestLedger(t, 1000)
	owner := testAddress(0x01)
	holder := testAddress(0x02)
	spender := testAddress(0x03)
	sink := testAddress(0x04)

	if err := ledger.Mint(owner, holder, big.NewInt(50)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := ledger.TransferFrom(spender, holder, sink, big.NewInt(10)); !errors.Is(err, errInsufficientAllowance) {
		t.Fatalf("expected errInsufficientAllowance, got %v", err)
	}
	if err := ledger.Approve(holder, spender, big.NewInt(30)); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := ledger.TransferFrom(spender, holder, sink, big.NewInt(10)); err != nil {
		t.Fatalf("transferFrom: %v", err)
	}
	if got := ledger.Allowance(holder, spender); got.Cmp(big.NewInt(20)) != 0 {
		t.Fatalf("allowance not consumed: %s", got)
	}
	if got := ledger.BalanceOf(sink); got.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("sink balance: %s", got)
	}
}

func TestTransferRejectsOverdraw(t *testing.T) {
	ledger := newTestLedger(t, 1000)
	holder := testAddress(0x02)
	sink := testAddress(0x03)
	if err := ledger.Transfer(holder, sink, big.NewInt(1)); !errors.Is(err, errInsufficientBalance) {
		t.Fatalf("expected errInsufficientBalance, got %v", err)
	}
}

func TestOwnerRotation(t *testing.T) {
	ledger := newTestLedger(t, 1000)
	owner := testAddress(0x01)
	next := testAddress(0x05)

	if err := ledger.SetOwner(next, next); !errors.Is(err, errNotOwner) {
		t.Fatalf("expected errNotOwner, got %v", err)
	}
	if err := ledger.SetOwner(owner, common.Address{}); !errors.Is(err, errZeroAddress) {
		t.Fatalf("expected errZeroAddress, got %v", err)
	}
	if err := ledger.SetOwner(owner, next); err != nil {
		t.Fatalf("rotate owner: %v", err)
	}
	if err := ledger.Mint(owner, next, big.NewInt(1)); !errors.Is(err, errNotOwner) {
		t.Fatalf("old owner can still mint: %v", err)
	}
	if err := ledger.Mint(next, next, big.NewInt(1)); err != nil {
		t.Fatalf("new owner mint: %v", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	ledger := newTestLedger(t, 1000)
	owner := testAddress(0x01)
	holder := testAddress(0x02)
	spender := testAddress(0x03)

	if err := ledger.Mint(owner, holder, big.NewInt(250)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := ledger.Approve(holder, spender, big.NewInt(40)); err != nil {
		t.Fatalf("approve: %v", err)
	}

	restored := newTestLedger(t, 1000)
	if err := restored.Restore(ledger.Snapshot()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got := restored.BalanceOf(holder); got.Cmp(big.NewInt(250)) != 0 {
		t.Fatalf("restored balance: %s", got)
	}
	if got := restored.Allowance(holder, spender); got.Cmp(big.NewInt(40)) != 0 {
		t.Fatalf("restored allowance: %s", got)
	}
	if got := restored.MintedTotal(); got.Cmp(big.NewInt(250)) != 0 {
		t.Fatalf("restored minted total: %s", got)
	}
}
