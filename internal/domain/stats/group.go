package stats

import (
	"fmt"
	"sort"

	"github.com/verasim/verasim/internal/domain/booklet"
	"github.com/verasim/verasim/internal/domain/equivalence"
	"github.com/verasim/verasim/internal/domain/generate"
)

// GroupItems computes per-item statistics for one group, one record per
// domain in the booklet's first-seen domain order.
func GroupItems(g *generate.GroupData) []ItemGroup {
	index := columnIndex(g.Booklet)
	subject := g.Booklet.Key.Subject

	var results []ItemGroup
	for _, dg := range g.Booklet.ItemsByDomain() {
		items := sortedByOrder(dg.Items)

		itemStats := make([]ItemStatistics, len(items))
		for i, item := range items {
			itemStats[i] = ItemStatistics{
				Name:       item.NumberInBooklet,
				ItemID:     item.ID,
				Parameters: itemParameters(item),
				Statistics: columnStatistics(g.Column(index[item.ID])),
			}
		}

		results = append(results, ItemGroup{
			ID:     g.GroupID,
			Name:   g.Profile.Name,
			Domain: makeDomain(dg.Domain, subject),
			Items:  itemStats,
		})
	}
	return results
}

// GroupAggregations computes one domain aggregate per domain group. The
// aggregate's mean and standard deviation are those of the per-student
// mean scores across the domain's items, not of the raw 0/1 values.
func GroupAggregations(g *generate.GroupData) []AggregationGroup {
	index := columnIndex(g.Booklet)
	subject := g.Booklet.Key.Subject

	var results []AggregationGroup
	for _, dg := range g.Booklet.ItemsByDomain() {
		cols := itemColumns(dg.Items, index)

		studentMeans := make([]float64, len(g.Responses))
		frequency := 0
		for i, row := range g.Responses {
			studentMeans[i] = rowMean(row, cols)
			frequency += rowSum(row, cols)
		}

		itemIDs := make([]string, len(dg.Items))
		for i, item := range dg.Items {
			itemIDs[i] = item.ID
		}

		value := dg.Domain
		if value == "" {
			value = subject
		}

		results = append(results, AggregationGroup{
			ID:     g.GroupID,
			Name:   g.Profile.Name,
			Domain: makeDomain(dg.Domain, subject),
			Aggregations: []Aggregation{{
				Type:  "custom",
				Value: value,
				Statistics: DescriptiveStatistics{
					Total:             len(cols),
					Frequency:         frequency,
					Mean:              round4(mean(studentMeans)),
					StandardDeviation: round4(sampleStd(studentMeans)),
				},
				IncludedItemIDs: itemIDs,
			}},
		})
	}
	return results
}

// GroupCompetenceLevels classifies every student's raw score per
// equivalence table and returns the level distribution, zero-filled over
// all levels. An unmatched score is a data-integrity fault and aborts
// the computation.
func GroupCompetenceLevels(g *generate.GroupData, tables []equivalence.Table) ([]CompetenceLevelGroup, error) {
	index := columnIndex(g.Booklet)

	var results []CompetenceLevelGroup
	for _, table := range tables {
		counts, err := levelCounts(g, table, index)
		if err != nil {
			return nil, err
		}

		results = append(results, CompetenceLevelGroup{
			ID:     g.GroupID,
			Name:   g.Profile.Name,
			Domain: makeDomain(table.Domain, g.Booklet.Key.Subject),
			Levels: counts,
		})
	}
	return results, nil
}

// levelCounts computes one table's per-level frequencies for a group.
func levelCounts(g *generate.GroupData, table equivalence.Table, index map[string]int) ([]CompetenceLevelCount, error) {
	cols := itemColumns(g.Booklet.ItemsForDomain(table.Domain), index)

	frequencies := make(map[string]int, len(table.Levels))
	for _, row := range g.Responses {
		score := rowSum(row, cols)
		lvl, ok := table.Match(score)
		if !ok {
			return nil, fmt.Errorf("%w: score %d, booklet %s, domain %q",
				ErrUnmatchedScore, score, table.Booklet, table.Domain)
		}
		frequencies[lvl.NameShort]++
	}

	counts := make([]CompetenceLevelCount, len(table.Levels))
	for i, lvl := range table.Levels {
		counts[i] = CompetenceLevelCount{
			NameShort:   lvl.NameShort,
			Name:        lvl.Name,
			Description: lvl.Description,
			Frequency:   frequencies[lvl.NameShort],
		}
	}
	return counts, nil
}

// sortedByOrder sorts items by their numeric order in the booklet.
func sortedByOrder(items []booklet.Item) []booklet.Item {
	sorted := make([]booklet.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OrderInBooklet < sorted[j].OrderInBooklet
	})
	return sorted
}
