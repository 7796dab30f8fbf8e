// Package roster defines the validated group, school, and state
// configurations that drive data generation.
package roster

import (
	"fmt"

	"github.com/verasim/verasim/internal/domain/booklet"
	"github.com/verasim/verasim/internal/domain/generate"
)

// CovariateConfig is one covariate distribution as configured in YAML.
// Covariates are an ordered list; their order fixes the generation draw
// order.
type CovariateConfig struct {
	Type          string    `koanf:"type"`
	Categories    []string  `koanf:"categories"`
	Probabilities []float64 `koanf:"probabilities"`
}

// ToCovariate converts the config into the generation-domain type.
func (c CovariateConfig) ToCovariate() generate.Covariate {
	return generate.Covariate{
		Type:          c.Type,
		Categories:    c.Categories,
		Probabilities: c.Probabilities,
	}
}

// Defaults holds file-level defaults applied to all entities unless
// overridden.
type Defaults struct {
	Covariates []CovariateConfig `koanf:"covariates"`
}

// GroupConfig describes one generated learning group.
type GroupConfig struct {
	ID          string            `koanf:"id"`
	Name        string            `koanf:"name"`
	Booklet     string            `koanf:"booklet"`
	AbilityMean float64           `koanf:"ability_mean"`
	AbilityStd  float64           `koanf:"ability_std"`
	Size        int               `koanf:"size"`
	Seed        string            `koanf:"seed"`
	Covariates  []CovariateConfig `koanf:"covariates"`
}

// BookletKey parses the configured booklet reference.
func (g GroupConfig) BookletKey() (booklet.Key, error) {
	return booklet.ParseKey(g.Booklet)
}

// DisplayName returns the configured name, falling back to the id.
func (g GroupConfig) DisplayName() string {
	if g.Name != "" {
		return g.Name
	}
	return "Lerngruppe " + g.ID
}

func (g GroupConfig) validate() error {
	if g.AbilityStd <= 0 {
		return fmt.Errorf("%w: group %q: ability_std must be > 0", ErrInvalidConfig, g.ID)
	}
	if g.Size < 1 {
		return fmt.Errorf("%w: group %q: size must be at least 1", ErrInvalidConfig, g.ID)
	}
	if _, err := g.BookletKey(); err != nil {
		return fmt.Errorf("%w: group %q: %v", ErrInvalidConfig, g.ID, err)
	}
	return validateCovariates(g.Covariates)
}

// SchoolConfig describes one school as an ordered list of member groups.
// School data is always derived from its groups, never stored.
type SchoolConfig struct {
	ID     string   `koanf:"id"`
	Name   string   `koanf:"name"`
	Groups []string `koanf:"groups"`
}

// DisplayName returns the configured name, falling back to the id.
func (s SchoolConfig) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return "Schule " + s.ID
}

func (s SchoolConfig) validate() error {
	if len(s.Groups) < 1 {
		return fmt.Errorf("%w: school %q: needs at least one group", ErrInvalidConfig, s.ID)
	}
	return nil
}

// StateConfig describes one state; a state synthesizes one group per
// configured booklet, sharing the state's ability profile.
type StateConfig struct {
	ID          string            `koanf:"id"`
	Name        string            `koanf:"name"`
	Booklets    []string          `koanf:"booklets"`
	AbilityMean float64           `koanf:"ability_mean"`
	AbilityStd  float64           `koanf:"ability_std"`
	Size        int               `koanf:"size"`
	Seed        string            `koanf:"seed"`
	Covariates  []CovariateConfig `koanf:"covariates"`
}

// DisplayName returns the configured name, falling back to the id.
func (s StateConfig) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return "Bundesland " + s.ID
}

// BookletKeys parses all configured booklet references.
func (s StateConfig) BookletKeys() ([]booklet.Key, error) {
	keys := make([]booklet.Key, len(s.Booklets))
	for i, b := range s.Booklets {
		key, err := booklet.ParseKey(b)
		if err != nil {
			return nil, err
		}
		keys[i] = key
	}
	return keys, nil
}

func (s StateConfig) validate() error {
	if len(s.Booklets) < 1 {
		return fmt.Errorf("%w: state %q: needs at least one booklet", ErrInvalidConfig, s.ID)
	}
	if s.AbilityStd <= 0 {
		return fmt.Errorf("%w: state %q: ability_std must be > 0", ErrInvalidConfig, s.ID)
	}
	if s.Size < 1 {
		return fmt.Errorf("%w: state %q: size must be at least 1", ErrInvalidConfig, s.ID)
	}
	if _, err := s.BookletKeys(); err != nil {
		return fmt.Errorf("%w: state %q: %v", ErrInvalidConfig, s.ID, err)
	}
	return validateCovariates(s.Covariates)
}

func validateCovariates(covariates []CovariateConfig) error {
	for _, c := range covariates {
		if err := c.ToCovariate().Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// MergeCovariates layers entity covariates over defaults per type name.
// An entity covariate replaces the default of the same type in place
// (keeping the default's position); entity-only covariates are appended
// after all defaults. The resulting order is the generation draw order.
func MergeCovariates(defaults, entity []CovariateConfig) []generate.Covariate {
	merged := make([]CovariateConfig, len(defaults))
	copy(merged, defaults)

	for _, e := range entity {
		replaced := false
		for i, d := range merged {
			if d.Type == e.Type {
				merged[i] = e
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, e)
		}
	}

	covariates := make([]generate.Covariate, len(merged))
	for i, c := range merged {
		covariates[i] = c.ToCovariate()
	}
	return covariates
}
