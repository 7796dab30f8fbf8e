package stats

import (
	"sort"

	"github.com/verasim/verasim/internal/domain/booklet"
	"github.com/verasim/verasim/internal/domain/generate"
)

// School-scope statistics must equal what one flat computation over the
// union of all member students would produce. Merging therefore always
// pools raw data (response rows, per-student means, level frequencies)
// before recomputing, never averages per-group statistics.

// SchoolCompetenceLevels merges per-group level distributions keyed by
// (subject, domain), so identical domain codes from different subjects
// never collapse into one record. Level frequencies are summed; level
// metadata comes from the first occurrence.
func SchoolCompetenceLevels(schoolID, schoolName string, groups []GroupWithTables) ([]CompetenceLevelGroup, error) {
	type bucket struct {
		levels []CompetenceLevelCount // order from the first entry
		freq   map[string]int
	}

	var order []booklet.DomainKey
	buckets := make(map[booklet.DomainKey]*bucket)

	for _, gwt := range groups {
		index := columnIndex(gwt.Data.Booklet)
		subject := gwt.Data.Booklet.Key.Subject

		for _, table := range gwt.Tables {
			counts, err := levelCounts(gwt.Data, table, index)
			if err != nil {
				return nil, err
			}

			key := booklet.DomainKey{Subject: subject, Domain: table.Domain}
			b, ok := buckets[key]
			if !ok {
				b = &bucket{
					levels: counts,
					freq:   make(map[string]int),
				}
				buckets[key] = b
				order = append(order, key)
			}
			for _, c := range counts {
				b.freq[c.NameShort] += c.Frequency
			}
		}
	}

	results := make([]CompetenceLevelGroup, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		merged := make([]CompetenceLevelCount, len(b.levels))
		for i, lvl := range b.levels {
			merged[i] = CompetenceLevelCount{
				NameShort:   lvl.NameShort,
				Name:        lvl.Name,
				Description: lvl.Description,
				Frequency:   b.freq[lvl.NameShort],
			}
		}
		results = append(results, CompetenceLevelGroup{
			ID:     schoolID,
			Name:   schoolName,
			Domain: makeDomain(key.Domain, key.Subject),
			Levels: merged,
		})
	}
	return results, nil
}

// SchoolItems buckets member groups by booklet (schools may span
// multiple booklets), concatenates same-booklet response matrices, and
// recomputes per-item statistics over the pooled population.
func SchoolItems(schoolID, schoolName string, groups []*generate.GroupData) []ItemGroup {
	var order []booklet.Key
	byBooklet := make(map[booklet.Key][]*generate.GroupData)
	for _, g := range groups {
		key := g.Booklet.Key
		if _, ok := byBooklet[key]; !ok {
			order = append(order, key)
		}
		byBooklet[key] = append(byBooklet[key], g)
	}

	var results []ItemGroup
	for _, key := range order {
		members := byBooklet[key]
		b := members[0].Booklet
		index := columnIndex(b)

		for _, dg := range b.ItemsByDomain() {
			items := sortedByOrder(dg.Items)

			itemStats := make([]ItemStatistics, len(items))
			for i, item := range items {
				itemStats[i] = ItemStatistics{
					Name:       item.NumberInBooklet,
					ItemID:     item.ID,
					Parameters: itemParameters(item),
					Statistics: columnStatistics(pooledColumn(members, index[item.ID])),
				}
			}

			results = append(results, ItemGroup{
				ID:     schoolID,
				Name:   schoolName,
				Domain: makeDomain(dg.Domain, key.Subject),
				Items:  itemStats,
			})
		}
	}
	return results
}

// SchoolAggregations pools per-student domain means across all member
// groups before computing each aggregate's mean and deviation;
// frequencies and covered item-id sets are summed/unioned per
// (subject, domain).
func SchoolAggregations(schoolID, schoolName string, groups []*generate.GroupData) []AggregationGroup {
	type bucket struct {
		means     []float64
		frequency int
		itemIDs   map[string]bool
	}

	var order []booklet.DomainKey
	buckets := make(map[booklet.DomainKey]*bucket)

	for _, g := range groups {
		index := columnIndex(g.Booklet)
		subject := g.Booklet.Key.Subject

		for _, dg := range g.Booklet.ItemsByDomain() {
			key := booklet.DomainKey{Subject: subject, Domain: dg.Domain}
			b, ok := buckets[key]
			if !ok {
				b = &bucket{itemIDs: make(map[string]bool)}
				buckets[key] = b
				order = append(order, key)
			}

			cols := itemColumns(dg.Items, index)
			for _, row := range g.Responses {
				b.means = append(b.means, rowMean(row, cols))
				b.frequency += rowSum(row, cols)
			}
			for _, item := range dg.Items {
				b.itemIDs[item.ID] = true
			}
		}
	}

	results := make([]AggregationGroup, 0, len(order))
	for _, key := range order {
		b := buckets[key]

		itemIDs := make([]string, 0, len(b.itemIDs))
		for id := range b.itemIDs {
			itemIDs = append(itemIDs, id)
		}
		sort.Strings(itemIDs)

		value := key.Domain
		if value == "" {
			value = key.Subject
		}

		results = append(results, AggregationGroup{
			ID:     schoolID,
			Name:   schoolName,
			Domain: makeDomain(key.Domain, key.Subject),
			Aggregations: []Aggregation{{
				Type:  "custom",
				Value: value,
				Statistics: DescriptiveStatistics{
					Total:             len(itemIDs),
					Frequency:         b.frequency,
					Mean:              round4(mean(b.means)),
					StandardDeviation: round4(sampleStd(b.means)),
				},
				IncludedItemIDs: itemIDs,
			}},
		})
	}
	return results
}
