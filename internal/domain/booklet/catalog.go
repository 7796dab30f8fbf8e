package booklet

import (
	"fmt"
	"os"
	"path/filepath"
)

// Catalog indexes immutable booklet definitions by key. It is loaded
// once at startup and read-only afterwards, so concurrent reads need no
// locking.
type Catalog struct {
	booklets map[Key]*Booklet
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{booklets: make(map[Key]*Booklet)}
}

// LoadDirectory loads item metadata from all CSV files in dir and merges
// them into the catalog. Duplicate item rows for the same booklet across
// files are appended, not deduplicated; sources must be clean.
func (c *Catalog) LoadDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoadCatalog, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".csv" {
			continue
		}
		booklets, err := loadBookletsFromCSV(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrLoadCatalog, entry.Name(), err)
		}
		for key, b := range booklets {
			if existing, ok := c.booklets[key]; ok {
				existing.Items = append(existing.Items, b.Items...)
			} else {
				c.booklets[key] = b
			}
		}
	}

	return nil
}

// Get returns the booklet for key, if present.
func (c *Catalog) Get(key Key) (*Booklet, bool) {
	b, ok := c.booklets[key]
	return b, ok
}

// Count returns the number of registered booklets.
func (c *Catalog) Count() int {
	return len(c.booklets)
}

// Keys returns all registered booklet keys in unspecified order.
func (c *Catalog) Keys() []Key {
	keys := make([]Key, 0, len(c.booklets))
	for k := range c.booklets {
		keys = append(keys, k)
	}
	return keys
}
