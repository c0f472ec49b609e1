package history

import (
	"sync"
)

type memoryStore struct {
	items []Item
	mu    sync.RWMutex
}

// NewMemoryStore creates a store that lives only as long as the process.
func NewMemoryStore() Store {
	return &memoryStore{}
}

func (m *memoryStore) Load() ([]Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneItems(m.items), nil
}

func (m *memoryStore) Save(items []Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = cloneItems(items)
	return nil
}

func (m *memoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	return nil
}

func cloneItems(items []Item) []Item {
	if len(items) == 0 {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
