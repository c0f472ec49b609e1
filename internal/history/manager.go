package history

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	errManagerClosed = errors.New("history manager is closed")
	errEmptyToken    = errors.New("token cannot be empty")
)

// ErrNotFound is returned by Remove for an unknown item ID.
var ErrNotFound = errors.New("history item not found")

// Manager keeps a bounded most-recent-first list of tokens.
type Manager struct {
	store  Store
	config Config
	items  []Item
	now    func() time.Time
	mu     sync.RWMutex
	closed bool
}

// NewManager loads the stored history. When config.Enabled is false nothing
// is loaded and the store is left as it is; only SetEnabled(false) clears it.
func NewManager(store Store, config Config) (*Manager, error) {
	if config.MaxItems <= 0 {
		config.MaxItems = DefaultMaxItems
	}

	m := &Manager{
		store:  store,
		config: config,
		now:    time.Now,
	}

	if !config.Enabled {
		return m, nil
	}
	if err := m.load(); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Manager) load() error {
	items, err := m.store.Load()
	if err != nil {
		return err
	}
	if len(items) > m.config.MaxItems {
		items = items[:m.config.MaxItems]
	}
	m.items = items
	return nil
}

// Enabled reports whether tokens are being recorded.
func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.Enabled
}

// SetEnabled switches recording on or off. Enabling picks up whatever the
// store already holds. Disabling drops every item and clears the store.
func (m *Manager) SetEnabled(enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errManagerClosed
	}

	if enabled {
		if !m.config.Enabled {
			if err := m.load(); err != nil {
				return err
			}
			m.config.Enabled = true
		}
		return m.store.Save(m.items)
	}

	m.config.Enabled = false

	m.items = nil
	return m.store.Clear()
}

// Add records token at the front of the list. A token already present is
// moved to the front rather than duplicated. When history is disabled Add
// does nothing and returns ok == false.
func (m *Manager) Add(token, algorithm string) (item Item, ok bool, err error) {
	if token == "" {
		return Item{}, false, errEmptyToken
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Item{}, false, errManagerClosed
	}
	if !m.config.Enabled {
		return Item{}, false, nil
	}

	item = Item{
		ID:        uuid.NewString(),
		Token:     token,
		Timestamp: m.now(),
		Algorithm: algorithm,
		Preview:   Preview(token),
	}

	updated := make([]Item, 0, min(len(m.items)+1, m.config.MaxItems))
	updated = append(updated, item)
	for _, existing := range m.items {
		if len(updated) == m.config.MaxItems {
			break
		}
		if existing.Token != token {
			updated = append(updated, existing)
		}
	}

	if err := m.store.Save(updated); err != nil {
		return Item{}, false, fmt.Errorf("failed to save history: %w", err)
	}
	m.items = updated

	return item, true, nil
}

// Remove deletes the item with the given ID.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errManagerClosed
	}

	for i, item := range m.items {
		if item.ID != id {
			continue
		}
		updated := make([]Item, 0, len(m.items)-1)
		updated = append(updated, m.items[:i]...)
		updated = append(updated, m.items[i+1:]...)
		if err := m.store.Save(updated); err != nil {
			return fmt.Errorf("failed to save history: %w", err)
		}
		m.items = updated
		return nil
	}

	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Clear drops every item but leaves recording enabled.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errManagerClosed
	}

	m.items = nil
	if !m.config.Enabled {
		return m.store.Clear()
	}
	return m.store.Save(nil)
}

// Items returns a copy of the list, most recent first.
func (m *Manager) Items() []Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneItems(m.items)
}

// Get returns the item with the given ID.
func (m *Manager) Get(id string) (Item, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, item := range m.items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// Close releases the manager. Further calls fail.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.items = nil
	return nil
}

// Preview shortens token for display.
func Preview(token string) string {
	if len(token) > PreviewLength {
		return token[:PreviewLength] + "..."
	}
	return token
}
