package tracker

import (
	"context"
	"encoding/json"
	"sync"
)

// Store persists the ledger. Load returns (nil, nil) when nothing has been
// saved yet.
type Store interface {
	Load(ctx context.Context) (*Ledger, error)
	Save(ctx context.Context, ledger Ledger) error
}

// MemoryStore keeps the encoded ledger in memory. It round-trips through
// JSON so it exercises the same encoding as the database store.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte

	// Err, when set, is returned by every Load and Save.
	Err error
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements Store.
func (m *MemoryStore) Load(_ context.Context) (*Ledger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if m.data == nil {
		return nil, nil
	}
	l, err := DecodeLedger(m.data)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, ledger Ledger) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	data, err := json.Marshal(ledger)
	if err != nil {
		return err
	}
	m.data = data
	return nil
}

// SetRaw replaces the stored bytes, as if another process had written them.
func (m *MemoryStore) SetRaw(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
}

// Raw returns the stored bytes.
func (m *MemoryStore) Raw() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data
}
