package cart

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// storageKey is the top-level key inside the persisted JSON document
const storageKey = "cart"

// FileStore persists the cart as a JSON file. Writes go to a temporary
// file first and are moved into place with an atomic rename so a crash
// never leaves a half-written cart.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed persistence at the given path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes the full item list
func (f *FileStore) Save(items []Item) error {
	doc := map[string][]Item{storageKey: items}
	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cart directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".cart-*.json")
	if err != nil {
		return fmt.Errorf("create temp cart file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write cart: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close cart file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace cart file: %w", err)
	}
	return nil
}

// Load restores the saved item list; a missing file yields an empty cart
func (f *FileStore) Load() ([]Item, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cart: %w", err)
	}

	var doc map[string][]Item
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return doc[storageKey], nil
}

// MemoryStore is an in-memory Persistence for tests and ephemeral carts
type MemoryStore struct {
	items []Item
}

// NewMemoryStore creates an empty in-memory persistence
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save keeps a copy of the item list
func (m *MemoryStore) Save(items []Item) error {
	m.items = append([]Item(nil), items...)
	return nil
}

// Load returns the last saved item list
func (m *MemoryStore) Load() ([]Item, error) {
	return append([]Item(nil), m.items...), nil
}
