package kvstore

import "sync"

// MemoryStore keeps values in process memory. Useful for tests and for
// sessions that should not outlive the process.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string][]byte{}}
}

func (m *MemoryStore) Read(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.values[key]
	if !ok {
		return nil, false
	}
	copied := make([]byte, len(raw))
	copy(copied, raw)
	return copied, true
}

func (m *MemoryStore) Write(key string, raw []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([]byte, len(raw))
	copy(copied, raw)
	m.values[key] = copied
	return nil
}

func (m *MemoryStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
