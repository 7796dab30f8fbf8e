// Package stats computes per-item, per-domain, and per-competence-level
// statistics over generated group data and merges them across scopes.
package stats

import (
	"strings"

	"github.com/verasim/verasim/internal/domain/booklet"
	"github.com/verasim/verasim/internal/domain/equivalence"
	"github.com/verasim/verasim/internal/domain/generate"
)

// Display names for the supported subject codes.
var subjectNames = map[string]string{
	"de": "Deutsch",
	"ma": "Mathematik",
	"en": "Englisch",
	"fr": "Französisch",
}

// SubjectName returns the display name for a subject code, falling back
// to the code itself.
func SubjectName(code string) string {
	if name, ok := subjectNames[strings.ToLower(code)]; ok {
		return name
	}
	return code
}

// Subject is the subject display label carried inside a Domain.
type Subject struct {
	Name string `json:"name"`
}

// Domain names the content domain a record belongs to. For domain-less
// records the subject display name stands in as the domain name.
type Domain struct {
	Name    string  `json:"name"`
	Subject Subject `json:"subject"`
}

// makeDomain builds the Domain label for a domain code within a subject.
func makeDomain(domain, subjectCode string) *Domain {
	name := domain
	if name == "" {
		name = SubjectName(subjectCode)
	}
	return &Domain{
		Name:    name,
		Subject: Subject{Name: SubjectName(subjectCode)},
	}
}

// DescriptiveStatistics is the shared payload of all statistic records.
type DescriptiveStatistics struct {
	Total             int     `json:"total"`
	Frequency         int     `json:"frequency"`
	Mean              float64 `json:"mean"`
	StandardDeviation float64 `json:"standard_deviation"`
}

// CompetenceLevelCount is one level of a distribution with its observed
// frequency.
type CompetenceLevelCount struct {
	NameShort   string `json:"name_short"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Frequency   int    `json:"frequency"`
}

// CompetenceLevelGroup is one record of the competence-level record
// kind: the full level distribution for one entity and domain scope.
type CompetenceLevelGroup struct {
	ID         string                    `json:"id"`
	Name       string                    `json:"name"`
	Domain     *Domain                   `json:"domain,omitempty"`
	Levels     []CompetenceLevelCount    `json:"competence_levels"`
	Covariates []generate.CovariateValue `json:"covariates,omitempty"`
}

// ItemParameters carries the IRT and didactic metadata of one item.
type ItemParameters struct {
	Logit                    float64  `json:"logit"`
	BistaPoints              float64  `json:"bista_points"`
	SolutionFreqPrimary      *float64 `json:"solution_frequency_primary_school,omitempty"`
	SolutionFreqGymnasium    *float64 `json:"solution_frequency_gymnasium,omitempty"`
	SolutionFreqNonGymnasium *float64 `json:"solution_frequency_non_gymnasium,omitempty"`
	Domain                   string   `json:"domain,omitempty"`
	CompetenceLevel          string   `json:"competence_level"`
	CompetenceStandards      []string `json:"competence_standards,omitempty"`
	Style                    string   `json:"listening_or_reading_style,omitempty"`
	MathCompetences          []string `json:"general_mathematical_competences,omitempty"`
	CoreIdeas                []string `json:"core_ideas,omitempty"`
	CognitiveDemandLevel     string   `json:"cognitive_demand_level,omitempty"`
}

// itemParameters builds ItemParameters from an item definition.
func itemParameters(item booklet.Item) ItemParameters {
	return ItemParameters{
		Logit:                    item.Logit,
		BistaPoints:              item.Bista,
		SolutionFreqPrimary:      item.SolutionFreqPrimary,
		SolutionFreqGymnasium:    item.SolutionFreqGymnasium,
		SolutionFreqNonGymnasium: item.SolutionFreqNonGymnasium,
		Domain:                   item.Domain,
		CompetenceLevel:          item.CompetenceLevel,
		CompetenceStandards:      item.CompetenceStandards,
		Style:                    item.Style,
		MathCompetences:          item.MathCompetences,
		CoreIdeas:                item.CoreIdeas,
		CognitiveDemandLevel:     item.CognitiveDemandLevel,
	}
}

// ItemStatistics is the computed statistic for a single item.
type ItemStatistics struct {
	Name       string                `json:"name"` // display number within the booklet
	ItemID     string                `json:"iqb_id"`
	Parameters ItemParameters        `json:"parameters"`
	Statistics DescriptiveStatistics `json:"descriptive_statistics"`
}

// ItemGroup is one record of the item-statistics record kind: all item
// statistics for one entity and domain scope.
type ItemGroup struct {
	ID         string                    `json:"id"`
	Name       string                    `json:"name"`
	Domain     *Domain                   `json:"domain,omitempty"`
	Items      []ItemStatistics          `json:"items"`
	Covariates []generate.CovariateValue `json:"covariates,omitempty"`
}

// Aggregation is a single domain aggregate with its statistics and the
// ids of the items it covers.
type Aggregation struct {
	Type            string                `json:"type"`
	Value           string                `json:"value"`
	Statistics      DescriptiveStatistics `json:"descriptive_statistics"`
	IncludedItemIDs []string              `json:"included_iqb_ids"`
}

// AggregationGroup is one record of the aggregation record kind.
type AggregationGroup struct {
	ID           string                    `json:"id"`
	Name         string                    `json:"name"`
	Domain       *Domain                   `json:"domain,omitempty"`
	Aggregations []Aggregation             `json:"aggregations"`
	Covariates   []generate.CovariateValue `json:"covariates,omitempty"`
}

// GroupWithTables pairs one generated group with the equivalence tables
// of its booklet; the unit the scope functions consume.
type GroupWithTables struct {
	Data   *generate.GroupData
	Tables []equivalence.Table
}
