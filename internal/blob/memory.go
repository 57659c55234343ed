package blob

import (
	"context"
	"sync"
)

// MemoryStore keeps the blob in process memory. Suitable for tests and
// throwaway deployments; contents do not survive a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	payload []byte
	loadErr error
	saveErr error
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored blob.
func (m *MemoryStore) Load(ctx context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.payload == nil {
		return nil, ErrNotExist
	}
	result := make([]byte, len(m.payload))
	copy(result, m.payload)
	return result, nil
}

// Save stores a copy of the blob.
func (m *MemoryStore) Save(ctx context.Context, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}
	stored := make([]byte, len(payload))
	copy(stored, payload)
	m.payload = stored
	return nil
}

// FailWith makes subsequent Load/Save calls return the given errors.
// Test hook for exercising the unavailable-storage paths.
func (m *MemoryStore) FailWith(loadErr, saveErr error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = loadErr
	m.saveErr = saveErr
}
