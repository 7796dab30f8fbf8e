// Package equivalence maps raw scores to competence levels via
// validated, contiguous range tables.
package equivalence

import (
	"fmt"

	"github.com/verasim/verasim/internal/domain/booklet"
)

// LevelRange is one named competence level with its inclusive raw-score
// range.
type LevelRange struct {
	NameShort   string `koanf:"name_short" json:"name_short"`
	Name        string `koanf:"name" json:"name,omitempty"`
	Description string `koanf:"description" json:"description,omitempty"`
	MinScore    int    `koanf:"min_score" json:"min_score"`
	MaxScore    int    `koanf:"max_score" json:"max_score"`
}

// Table is the equivalence table for one booklet, optionally restricted
// to a single domain (empty Domain means the whole booklet).
type Table struct {
	Booklet string       `koanf:"booklet"`
	Domain  string       `koanf:"domain"`
	Levels  []LevelRange `koanf:"competence_levels"`
}

// BookletKey parses the table's booklet reference.
func (t Table) BookletKey() (booklet.Key, error) {
	return booklet.ParseKey(t.Booklet)
}

// Match returns the level range containing rawScore. Ranges are few and
// contiguity is validated at load time, so a linear scan suffices; after
// catalog validation every score in [0, itemCount] matches exactly one
// level, and a miss indicates a data-integrity fault the caller must
// surface.
func (t Table) Match(rawScore int) (LevelRange, bool) {
	for _, lvl := range t.Levels {
		if lvl.MinScore <= rawScore && rawScore <= lvl.MaxScore {
			return lvl, true
		}
	}
	return LevelRange{}, false
}

// validateRanges checks that the level ranges are ascending,
// non-overlapping, and contiguous.
func (t Table) validateRanges() error {
	if len(t.Levels) == 0 {
		return fmt.Errorf("%w %s: competence levels must not be empty", ErrInvalidTable, t.Booklet)
	}
	for i, lvl := range t.Levels {
		if lvl.MinScore < 0 {
			return fmt.Errorf("%w %s: level %q: min_score must not be negative", ErrInvalidTable, t.Booklet, lvl.NameShort)
		}
		if lvl.MinScore > lvl.MaxScore {
			return fmt.Errorf("%w %s: level %q: min_score (%d) > max_score (%d)",
				ErrInvalidTable, t.Booklet, lvl.NameShort, lvl.MinScore, lvl.MaxScore)
		}
		if i > 0 {
			prev := t.Levels[i-1]
			if lvl.MinScore != prev.MaxScore+1 {
				return fmt.Errorf("%w %s: gap or overlap between %q (max=%d) and %q (min=%d)",
					ErrInvalidTable, t.Booklet, prev.NameShort, prev.MaxScore, lvl.NameShort, lvl.MinScore)
			}
		}
	}
	return nil
}

// validateAgainstCatalog checks that the table's final range covers
// exactly the number of items in scope (whole booklet or named domain).
func (t Table) validateAgainstCatalog(catalog *booklet.Catalog) error {
	key, err := t.BookletKey()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	b, ok := catalog.Get(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBooklet, t.Booklet)
	}

	itemCount := len(b.ItemsForDomain(t.Domain))

	last := t.Levels[len(t.Levels)-1]
	if last.MaxScore != itemCount {
		scope := ""
		if t.Domain != "" {
			scope = " domain=" + t.Domain
		}
		return fmt.Errorf("%w %s%s: last level %q has max_score=%d, but %d items are in scope",
			ErrInvalidTable, t.Booklet, scope, last.NameShort, last.MaxScore, itemCount)
	}
	return nil
}
