package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/verasim/verasim/internal/domain/generate"
	"github.com/verasim/verasim/internal/domain/stats"
	"github.com/verasim/verasim/pkg/logger"
	"github.com/verasim/verasim/pkg/metrics"
)

// Selection is the parsed "type" query selector: whether group-level
// aggregates, per-student breakdowns, or both are emitted.
type Selection struct {
	Group    bool
	Students bool
}

// ParseTypes parses the "type" query parameter. Default (empty) selects
// group-level records only; "students" selects per-student records
// only; "group,students" selects both.
func ParseTypes(param string) Selection {
	requested := make(map[string]bool)
	for _, t := range strings.Split(param, ",") {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			requested[t] = true
		}
	}
	return Selection{
		Group:    !requested["students"] || requested["group"],
		Students: requested["students"],
	}
}

// observeAggregation records the aggregation duration since start.
func observeAggregation(start time.Time) {
	metrics.RecordAggregationDuration(float64(time.Since(start).Milliseconds()))
}

// GroupCompetenceLevels returns the competence-level distribution
// records for one group.
func (s *Service) GroupCompetenceLevels(ctx context.Context, groupID string, sel Selection) ([]stats.CompetenceLevelGroup, error) {
	gwt, err := s.ResolveGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(gwt.Tables) == 0 {
		return nil, fmt.Errorf("%w: no equivalence tables for group %q", ErrNotFound, groupID)
	}
	defer observeAggregation(time.Now())

	var results []stats.CompetenceLevelGroup
	if sel.Group {
		groupResults, err := stats.GroupCompetenceLevels(gwt.Data, gwt.Tables)
		if err != nil {
			return nil, s.integrityFault(ctx, err)
		}
		results = append(results, groupResults...)
	}
	if sel.Students {
		studentResults, err := stats.StudentCompetenceLevels(gwt.Data, gwt.Tables)
		if err != nil {
			return nil, s.integrityFault(ctx, err)
		}
		results = append(results, studentResults...)
	}
	return results, nil
}

// GroupItems returns the per-item statistic records for one group.
func (s *Service) GroupItems(ctx context.Context, groupID string, sel Selection) ([]stats.ItemGroup, error) {
	gwt, err := s.ResolveGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	defer observeAggregation(time.Now())

	var results []stats.ItemGroup
	if sel.Group {
		results = append(results, stats.GroupItems(gwt.Data)...)
	}
	if sel.Students {
		results = append(results, stats.StudentItems(gwt.Data)...)
	}
	return results, nil
}

// GroupAggregations returns the domain aggregation records for one
// group.
func (s *Service) GroupAggregations(ctx context.Context, groupID string, sel Selection) ([]stats.AggregationGroup, error) {
	gwt, err := s.ResolveGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	defer observeAggregation(time.Now())

	var results []stats.AggregationGroup
	if sel.Group {
		results = append(results, stats.GroupAggregations(gwt.Data)...)
	}
	if sel.Students {
		results = append(results, stats.StudentAggregations(gwt.Data)...)
	}
	return results, nil
}

// SchoolCompetenceLevels returns the school-level merged distributions
// followed by each member group's distribution.
func (s *Service) SchoolCompetenceLevels(ctx context.Context, schoolID string) ([]stats.CompetenceLevelGroup, error) {
	cfg, groups, err := s.ResolveSchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	if !anyTables(groups) {
		return nil, fmt.Errorf("%w: no equivalence tables for school %q", ErrNotFound, schoolID)
	}
	defer observeAggregation(time.Now())

	results, err := stats.SchoolCompetenceLevels(schoolID, cfg.DisplayName(), groups)
	if err != nil {
		return nil, s.integrityFault(ctx, err)
	}
	for _, gwt := range groups {
		groupResults, err := stats.GroupCompetenceLevels(gwt.Data, gwt.Tables)
		if err != nil {
			return nil, s.integrityFault(ctx, err)
		}
		results = append(results, groupResults...)
	}
	return results, nil
}

// SchoolItems returns the pooled school-level item statistics followed
// by each member group's statistics.
func (s *Service) SchoolItems(ctx context.Context, schoolID string) ([]stats.ItemGroup, error) {
	cfg, groups, err := s.ResolveSchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	defer observeAggregation(time.Now())

	results := stats.SchoolItems(schoolID, cfg.DisplayName(), groupData(groups))
	for _, gwt := range groups {
		results = append(results, stats.GroupItems(gwt.Data)...)
	}
	return results, nil
}

// SchoolAggregations returns the pooled school-level domain aggregates
// followed by each member group's aggregates.
func (s *Service) SchoolAggregations(ctx context.Context, schoolID string) ([]stats.AggregationGroup, error) {
	cfg, groups, err := s.ResolveSchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	defer observeAggregation(time.Now())

	results := stats.SchoolAggregations(schoolID, cfg.DisplayName(), groupData(groups))
	for _, gwt := range groups {
		results = append(results, stats.GroupAggregations(gwt.Data)...)
	}
	return results, nil
}

// StateCompetenceLevels returns the per-booklet competence-level
// distributions for one state.
func (s *Service) StateCompetenceLevels(ctx context.Context, stateID string) ([]stats.CompetenceLevelGroup, error) {
	groups, err := s.ResolveState(ctx, stateID)
	if err != nil {
		return nil, err
	}
	if !anyTables(groups) {
		return nil, fmt.Errorf("%w: no equivalence tables for state %q", ErrNotFound, stateID)
	}
	defer observeAggregation(time.Now())

	results, err := stats.StateCompetenceLevels(groups)
	if err != nil {
		return nil, s.integrityFault(ctx, err)
	}
	return results, nil
}

// StateItems returns the per-booklet item statistics for one state.
func (s *Service) StateItems(ctx context.Context, stateID string) ([]stats.ItemGroup, error) {
	groups, err := s.ResolveState(ctx, stateID)
	if err != nil {
		return nil, err
	}
	defer observeAggregation(time.Now())

	return stats.StateItems(groupData(groups)), nil
}

// StateAggregations returns the per-booklet domain aggregates for one
// state.
func (s *Service) StateAggregations(ctx context.Context, stateID string) ([]stats.AggregationGroup, error) {
	groups, err := s.ResolveState(ctx, stateID)
	if err != nil {
		return nil, err
	}
	defer observeAggregation(time.Now())

	return stats.StateAggregations(groupData(groups)), nil
}

// integrityFault records and logs a data-integrity fault before
// propagating it.
func (s *Service) integrityFault(ctx context.Context, err error) error {
	metrics.RecordIntegrityFault()
	s.logger.Error(ctx, "data integrity fault during aggregation", logger.Error(err))
	return err
}

func anyTables(groups []stats.GroupWithTables) bool {
	for _, gwt := range groups {
		if len(gwt.Tables) > 0 {
			return true
		}
	}
	return false
}

func groupData(groups []stats.GroupWithTables) []*generate.GroupData {
	data := make([]*generate.GroupData, len(groups))
	for i, gwt := range groups {
		data[i] = gwt.Data
	}
	return data
}
