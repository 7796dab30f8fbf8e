package stats

import (
	"github.com/verasim/verasim/internal/domain/generate"
)

// State scope differs structurally from school scope: a state does not
// reference existing groups but synthesizes one fresh group per
// configured booklet, and results stay per booklet without any
// cross-booklet pooling. The booklet key string becomes each record's
// identity and name.

// StateCompetenceLevels emits per-booklet level distributions.
func StateCompetenceLevels(groups []GroupWithTables) ([]CompetenceLevelGroup, error) {
	var results []CompetenceLevelGroup
	for _, gwt := range groups {
		bookletID := gwt.Data.Booklet.Key.String()
		groupResults, err := GroupCompetenceLevels(gwt.Data, gwt.Tables)
		if err != nil {
			return nil, err
		}
		for _, r := range groupResults {
			r.ID = bookletID
			r.Name = bookletID
			results = append(results, r)
		}
	}
	return results, nil
}

// StateItems emits per-booklet item statistics.
func StateItems(groups []*generate.GroupData) []ItemGroup {
	var results []ItemGroup
	for _, g := range groups {
		bookletID := g.Booklet.Key.String()
		for _, r := range GroupItems(g) {
			r.ID = bookletID
			r.Name = bookletID
			results = append(results, r)
		}
	}
	return results
}

// StateAggregations emits per-booklet domain aggregates.
func StateAggregations(groups []*generate.GroupData) []AggregationGroup {
	var results []AggregationGroup
	for _, g := range groups {
		bookletID := g.Booklet.Key.String()
		for _, r := range GroupAggregations(g) {
			r.ID = bookletID
			r.Name = bookletID
			results = append(results, r)
		}
	}
	return results
}
