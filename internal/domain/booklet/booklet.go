// Package booklet contains the test booklet data model and catalog.
package booklet

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Key uniquely identifies a test booklet.
// The canonical string form is V{level}-{year}-{SUBJECT}-{booklet_id}.
type Key struct {
	Level     int
	Year      int
	Subject   string // lowercase subject code, e.g. "de", "ma"
	BookletID string
}

// String renders the canonical key form, e.g. "V3-2024-DE-TH01".
func (k Key) String() string {
	return fmt.Sprintf("V%d-%d-%s-%s", k.Level, k.Year, strings.ToUpper(k.Subject), k.BookletID)
}

// ParseKey parses a booklet key string like "V3-2024-DE-TH01".
// Only the first three dash-separated segments are fixed; the booklet id
// may itself contain dashes, so the remainder is joined back together.
func ParseKey(s string) (Key, error) {
	parts := strings.Split(s, "-")
	if len(parts) < 4 {
		return Key{}, fmt.Errorf("%w: need at least 4 dash-separated segments, got %d: %q", ErrInvalidKey, len(parts), s)
	}

	levelStr := parts[0]
	if !strings.HasPrefix(levelStr, "V") {
		return Key{}, fmt.Errorf("%w: must start with 'V', got %q", ErrInvalidKey, levelStr)
	}
	level, err := strconv.Atoi(levelStr[1:])
	if err != nil {
		return Key{}, fmt.Errorf("%w: cannot parse level from %q", ErrInvalidKey, levelStr)
	}

	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return Key{}, fmt.Errorf("%w: cannot parse year from %q", ErrInvalidKey, parts[1])
	}

	bookletID := strings.Join(parts[3:], "-")
	if bookletID == "" {
		return Key{}, fmt.Errorf("%w: booklet id is empty", ErrInvalidKey)
	}

	return Key{
		Level:     level,
		Year:      year,
		Subject:   strings.ToLower(parts[2]),
		BookletID: bookletID,
	}, nil
}

// DomainKey identifies a content domain within a subject. Domains from
// different subjects may share a code, so aggregation is always keyed by
// both. An empty Domain stands for the whole-booklet (domain-less) group.
type DomainKey struct {
	Subject string
	Domain  string
}

// String renders "DE-le" for a domain, "DE" for the domain-less key.
func (k DomainKey) String() string {
	if k.Domain != "" {
		return strings.ToUpper(k.Subject) + "-" + k.Domain
	}
	return strings.ToUpper(k.Subject)
}

// Item is a single test item within a booklet.
type Item struct {
	ID              string  // stable item identifier, e.g. "D38701"
	Name            string  // human-readable item/stimulus name
	Logit           float64 // item difficulty in logits (IRT parameter)
	Bista           float64 // BISTA scale score (transformed difficulty)
	CompetenceLevel string  // assigned competence level, e.g. "I", "Ia", "A2.1"
	Domain          string  // content domain, empty for domain-less items
	NumberInBooklet string  // display number within the booklet, e.g. "1.1"
	OrderInBooklet  float64 // numeric order in booklet, the sort key

	// Optional reference solution frequencies.
	SolutionFreqPrimary      *float64
	SolutionFreqGymnasium    *float64
	SolutionFreqNonGymnasium *float64

	// Optional didactic metadata.
	CompetenceStandards  []string
	Style                string // listening/reading style, e.g. "selektiv"
	MathCompetences      []string
	CoreIdeas            []string
	CognitiveDemandLevel string
}

// ColumnName is the response matrix column label for this item.
func (i Item) ColumnName() string {
	return "item_" + i.ID
}

// DomainGroup is one domain's item slice in first-seen order.
// Domain is empty for the domain-less group.
type DomainGroup struct {
	Domain string
	Items  []Item
}

// Booklet is a test booklet containing multiple items.
// Items keep their load order; use SortedItems for display order.
type Booklet struct {
	Key   Key
	Items []Item
}

// ItemCount returns the number of items in this booklet.
func (b *Booklet) ItemCount() int {
	return len(b.Items)
}

// SortedItems returns the items sorted by their numeric order in the
// booklet. Items are never ordered by identifier.
func (b *Booklet) SortedItems() []Item {
	items := make([]Item, len(b.Items))
	copy(items, b.Items)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].OrderInBooklet < items[j].OrderInBooklet
	})
	return items
}

// Domains returns the distinct non-empty domains covered by this booklet.
func (b *Booklet) Domains() []string {
	seen := make(map[string]bool)
	var domains []string
	for _, item := range b.Items {
		if item.Domain != "" && !seen[item.Domain] {
			seen[item.Domain] = true
			domains = append(domains, item.Domain)
		}
	}
	return domains
}

// ItemsByDomain groups items by domain, preserving first-seen domain
// order. Domain-less items form a group with an empty domain. This order
// determines the output order of all downstream statistics.
func (b *Booklet) ItemsByDomain() []DomainGroup {
	index := make(map[string]int)
	var groups []DomainGroup
	for _, item := range b.Items {
		i, ok := index[item.Domain]
		if !ok {
			i = len(groups)
			index[item.Domain] = i
			groups = append(groups, DomainGroup{Domain: item.Domain})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// ItemsForDomain returns the items matching the given domain, or all
// items when domain is empty (the whole-booklet scope).
func (b *Booklet) ItemsForDomain(domain string) []Item {
	if domain == "" {
		items := make([]Item, len(b.Items))
		copy(items, b.Items)
		return items
	}
	var items []Item
	for _, item := range b.Items {
		if item.Domain == domain {
			items = append(items, item)
		}
	}
	return items
}
