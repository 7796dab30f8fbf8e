package stats

import (
	"fmt"

	"github.com/verasim/verasim/internal/domain/equivalence"
	"github.com/verasim/verasim/internal/domain/generate"
)

// Per-student breakdowns reuse the group taxonomy with per-individual
// payloads: frequencies become 0/1 and statistics use a single-student
// denominator. Student records carry the student's covariate values.

// StudentCompetenceLevels returns one record per student per
// equivalence table, with frequency 1 on the matched level and 0 on all
// others.
func StudentCompetenceLevels(g *generate.GroupData, tables []equivalence.Table) ([]CompetenceLevelGroup, error) {
	index := columnIndex(g.Booklet)

	var results []CompetenceLevelGroup
	for _, table := range tables {
		cols := itemColumns(g.Booklet.ItemsForDomain(table.Domain), index)
		domain := makeDomain(table.Domain, g.Booklet.Key.Subject)

		for i, student := range g.Students {
			score := rowSum(g.Responses[i], cols)
			matched, ok := table.Match(score)
			if !ok {
				return nil, fmt.Errorf("%w: score %d, booklet %s, domain %q",
					ErrUnmatchedScore, score, table.Booklet, table.Domain)
			}

			counts := make([]CompetenceLevelCount, len(table.Levels))
			for j, lvl := range table.Levels {
				frequency := 0
				if lvl.NameShort == matched.NameShort {
					frequency = 1
				}
				counts[j] = CompetenceLevelCount{
					NameShort:   lvl.NameShort,
					Name:        lvl.Name,
					Description: lvl.Description,
					Frequency:   frequency,
				}
			}

			results = append(results, CompetenceLevelGroup{
				ID:         student.ID,
				Name:       student.Name,
				Domain:     domain,
				Levels:     counts,
				Covariates: student.Covariates,
			})
		}
	}
	return results, nil
}

// StudentItems returns one record per student per domain, with each
// item's statistic degenerated to the single response (total=1,
// frequency and mean 0/1, deviation 0).
func StudentItems(g *generate.GroupData) []ItemGroup {
	index := columnIndex(g.Booklet)
	subject := g.Booklet.Key.Subject

	var results []ItemGroup
	for _, dg := range g.Booklet.ItemsByDomain() {
		items := sortedByOrder(dg.Items)
		domain := makeDomain(dg.Domain, subject)

		// Parameters are identical for every student in the group.
		params := make([]ItemParameters, len(items))
		for i, item := range items {
			params[i] = itemParameters(item)
		}

		for si, student := range g.Students {
			itemStats := make([]ItemStatistics, len(items))
			for i, item := range items {
				score := g.Responses[si][index[item.ID]]
				itemStats[i] = ItemStatistics{
					Name:       item.NumberInBooklet,
					ItemID:     item.ID,
					Parameters: params[i],
					Statistics: DescriptiveStatistics{
						Total:             1,
						Frequency:         score,
						Mean:              float64(score),
						StandardDeviation: 0,
					},
				}
			}

			results = append(results, ItemGroup{
				ID:         student.ID,
				Name:       student.Name,
				Domain:     domain,
				Items:      itemStats,
				Covariates: student.Covariates,
			})
		}
	}
	return results
}

// StudentAggregations returns one record per student per domain with a
// single aggregation over the student's own responses.
func StudentAggregations(g *generate.GroupData) []AggregationGroup {
	index := columnIndex(g.Booklet)
	subject := g.Booklet.Key.Subject

	var results []AggregationGroup
	for _, dg := range g.Booklet.ItemsByDomain() {
		cols := itemColumns(dg.Items, index)
		domain := makeDomain(dg.Domain, subject)

		itemIDs := make([]string, len(dg.Items))
		for i, item := range dg.Items {
			itemIDs[i] = item.ID
		}

		value := dg.Domain
		if value == "" {
			value = subject
		}

		for si, student := range g.Students {
			frequency := rowSum(g.Responses[si], cols)
			m := 0.0
			if len(cols) > 0 {
				m = float64(frequency) / float64(len(cols))
			}

			results = append(results, AggregationGroup{
				ID:     student.ID,
				Name:   student.Name,
				Domain: domain,
				Aggregations: []Aggregation{{
					Type:  "custom",
					Value: value,
					Statistics: DescriptiveStatistics{
						Total:             len(cols),
						Frequency:         frequency,
						Mean:              round4(m),
						StandardDeviation: 0,
					},
					IncludedItemIDs: itemIDs,
				}},
				Covariates: student.Covariates,
			})
		}
	}
	return results
}
