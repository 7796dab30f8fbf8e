package roster

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// GroupsFile mirrors the root of groups.yml.
type GroupsFile struct {
	Defaults *Defaults     `koanf:"defaults"`
	Groups   []GroupConfig `koanf:"groups"`
}

// SchoolsFile mirrors the root of schools.yml.
type SchoolsFile struct {
	Schools []SchoolConfig `koanf:"schools"`
}

// StatesFile mirrors the root of states.yml.
type StatesFile struct {
	Defaults *Defaults     `koanf:"defaults"`
	States   []StateConfig `koanf:"states"`
}

// DefaultCovariates returns the file-level default covariates, or nil.
func (f *GroupsFile) DefaultCovariates() []CovariateConfig {
	if f == nil || f.Defaults == nil {
		return nil
	}
	return f.Defaults.Covariates
}

// DefaultCovariates returns the file-level default covariates, or nil.
func (f *StatesFile) DefaultCovariates() []CovariateConfig {
	if f == nil || f.Defaults == nil {
		return nil
	}
	return f.Defaults.Covariates
}

// loadYAML unmarshals one YAML file into out using koanf tags.
func loadYAML(path string, out any) error {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	if err := k.UnmarshalWithConf("", out, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	return nil
}

// LoadGroups loads and validates groups.yml.
func LoadGroups(path string) (*GroupsFile, error) {
	var f GroupsFile
	if err := loadYAML(path, &f); err != nil {
		return nil, err
	}

	if f.Defaults != nil {
		if err := validateCovariates(f.Defaults.Covariates); err != nil {
			return nil, err
		}
	}
	seen := make(map[string]bool)
	for _, g := range f.Groups {
		if seen[g.ID] {
			return nil, fmt.Errorf("%w: group %q", ErrDuplicateID, g.ID)
		}
		seen[g.ID] = true
		if err := g.validate(); err != nil {
			return nil, err
		}
	}
	return &f, nil
}

// LoadSchools loads and validates schools.yml.
func LoadSchools(path string) (*SchoolsFile, error) {
	var f SchoolsFile
	if err := loadYAML(path, &f); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, s := range f.Schools {
		if seen[s.ID] {
			return nil, fmt.Errorf("%w: school %q", ErrDuplicateID, s.ID)
		}
		seen[s.ID] = true
		if err := s.validate(); err != nil {
			return nil, err
		}
	}
	return &f, nil
}

// LoadStates loads and validates states.yml.
func LoadStates(path string) (*StatesFile, error) {
	var f StatesFile
	if err := loadYAML(path, &f); err != nil {
		return nil, err
	}

	if f.Defaults != nil {
		if err := validateCovariates(f.Defaults.Covariates); err != nil {
			return nil, err
		}
	}
	seen := make(map[string]bool)
	for _, s := range f.States {
		if seen[s.ID] {
			return nil, fmt.Errorf("%w: state %q", ErrDuplicateID, s.ID)
		}
		seen[s.ID] = true
		if err := s.validate(); err != nil {
			return nil, err
		}
	}
	return &f, nil
}
