package history

import (
	"time"
)

const (
	// DefaultMaxItems is the number of tokens kept when Config.MaxItems is unset.
	DefaultMaxItems = 10

	// PreviewLength is the number of token characters shown in Item.Preview.
	PreviewLength = 50
)

// Item is one remembered token.
type Item struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Timestamp time.Time `json:"timestamp"`
	Algorithm string    `json:"algorithm,omitempty"`
	Preview   string    `json:"preview"`
}

// Store persists the history list. Items are stored most recent first.
type Store interface {
	// Load returns the stored items, or none when nothing was saved yet.
	Load() ([]Item, error)

	// Save replaces the stored items.
	Save(items []Item) error

	// Clear removes everything the store holds, including any backing file.
	Clear() error
}

// Config represents history configuration
type Config struct {
	// Enabled turns recording on. A disabled history stores nothing and
	// clears its store.
	Enabled bool `json:"enabled" yaml:"enabled" env:"ENABLED"`

	// MaxItems bounds the list length.
	MaxItems int `json:"max_items" yaml:"max_items" env:"MAX_ITEMS"`

	// Path is the JSON file backing the history. Empty keeps it in memory.
	Path string `json:"path" yaml:"path" env:"PATH"`
}

// NewStore creates the store described by config.
func NewStore(config Config) Store {
	if config.Path == "" {
		return NewMemoryStore()
	}
	return NewFileStore(config.Path)
}
