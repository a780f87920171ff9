package state

import (
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/zprotocol/contracts/native/farming"
	"github.com/zprotocol/contracts/native/ifo"
	"github.com/zprotocol/contracts/native/token"
	"github.com/zprotocol/contracts/native/treasurer"
	"github.com/zprotocol/contracts/storage"
)

// Manager persists module snapshots to a key-value database. Each module is
// stored as one RLP blob under a keccak-derived key; a missing blob loads as a
// nil snapshot so first boot and restore share one code path.
type Manager struct {
	db storage.Database
}

// NewManager creates a state manager over the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

var (
	tokenSnapshotKey     = ethcrypto.Keccak256([]byte("snapshot/token"))
	farmingSnapshotKey   = ethcrypto.Keccak256([]byte("snapshot/farming"))
	treasurerSnapshotKey = ethcrypto.Keccak256([]byte("snapshot/treasurer"))
	ifoSnapshotKey       = ethcrypto.Keccak256([]byte("snapshot/ifo"))
)

func (m *Manager) write(key []byte, snapshot interface{}) error {
	encoded, err := rlp.EncodeToBytes(snapshot)
	if err != nil {
		return err
	}
	return m.db.Put(key, encoded)
}

// load fetches and decodes the blob at key into out, reporting whether the
// blob existed.
func (m *Manager) load(key []byte, out interface{}) (bool, error) {
	ok, err := m.db.Has(key)
	if err != nil || !ok {
		return false, err
	}
	data, err := m.db.Get(key)
	if err != nil {
		return false, err
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, err
	}
	return true, nil
}

// SaveToken persists the token ledger snapshot.
func (m *Manager) SaveToken(snap *token.Snapshot) error {
	return m.write(tokenSnapshotKey, snap)
}

// LoadToken returns the stored token snapshot, or nil when none exists.
func (m *Manager) LoadToken() (*token.Snapshot, error) {
	snap := new(token.Snapshot)
	ok, err := m.load(tokenSnapshotKey, snap)
	if err != nil || !ok {
		return nil, err
	}
	return snap, nil
}

// SaveFarming persists the farming engine snapshot.
func (m *Manager) SaveFarming(snap *farming.Snapshot) error {
	return m.write(farmingSnapshotKey, snap)
}

// LoadFarming returns the stored farming snapshot, or nil when none exists.
func (m *Manager) LoadFarming() (*farming.Snapshot, error) {
	snap := new(farming.Snapshot)
	ok, err := m.load(farmingSnapshotKey, snap)
	if err != nil || !ok {
		return nil, err
	}
	return snap, nil
}

// SaveTreasurer persists the treasurer snapshot.
func (m *Manager) SaveTreasurer(snap *treasurer.Snapshot) error {
	return m.write(treasurerSnapshotKey, snap)
}

// LoadTreasurer returns the stored treasurer snapshot, or nil when none
// exists.
func (m *Manager) LoadTreasurer() (*treasurer.Snapshot, error) {
	snap := new(treasurer.Snapshot)
	ok, err := m.load(treasurerSnapshotKey, snap)
	if err != nil || !ok {
		return nil, err
	}
	return snap, nil
}

// SaveIFO persists the sale snapshot.
func (m *Manager) SaveIFO(snap *ifo.Snapshot) error {
	return m.write(ifoSnapshotKey, snap)
}

// LoadIFO returns the stored sale snapshot, or nil when none exists.
func (m *Manager) LoadIFO() (*ifo.Snapshot, error) {
	snap := new(ifo.Snapshot)
	ok, err := m.load(ifoSnapshotKey, snap)
	if err != nil || !ok {
		return nil, err
	}
	return snap, nil
}
