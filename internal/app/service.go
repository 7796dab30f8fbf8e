// Package app provides the core business service that implements the
// dependencies required by the HTTP API: catalog and configuration
// loading, id resolution, deterministic generation, and aggregation.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/verasim/verasim/internal/domain/booklet"
	"github.com/verasim/verasim/internal/domain/equivalence"
	"github.com/verasim/verasim/internal/domain/generate"
	"github.com/verasim/verasim/internal/domain/roster"
	"github.com/verasim/verasim/internal/domain/stats"
	"github.com/verasim/verasim/pkg/logger"
	"github.com/verasim/verasim/pkg/metrics"
)

// Service holds the immutable catalog and configuration and serves the
// generation/aggregation operations. Everything is loaded once in
// Start; afterwards the service is read-only and safe for arbitrarily
// many concurrent requests. Generated data is request-scoped and never
// cached: identical (seed, config) inputs are recomputed every time,
// which keeps determinism trivially testable.
type Service struct {
	mu sync.Mutex

	// Configuration
	metadataDir string
	configDir   string

	// Immutable after Start
	catalog *booklet.Catalog
	groups  map[string]roster.GroupConfig
	schools map[string]roster.SchoolConfig
	states  map[string]roster.StateConfig
	tables  []equivalence.Table

	groupDefaults []roster.CovariateConfig
	stateDefaults []roster.CovariateConfig

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithMetadataDir sets the booklet metadata directory.
func WithMetadataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.metadataDir = dir
		}
	}
}

// WithConfigDir sets the directory holding the YAML configuration files.
func WithConfigDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.configDir = dir
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		metadataDir: "metadata",
		configDir:   "config",
		groups:      make(map[string]roster.GroupConfig),
		schools:     make(map[string]roster.SchoolConfig),
		states:      make(map[string]roster.StateConfig),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the booklet catalog and the YAML configuration. Any
// validation failure here is fatal; the process must not serve with a
// partially valid configuration.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.catalog = booklet.NewCatalog()
	if err := s.catalog.LoadDirectory(s.metadataDir); err != nil {
		return fmt.Errorf("loading booklet catalog: %w", err)
	}
	s.logger.Info(ctx, "loaded booklet catalog",
		logger.Int("booklets", s.catalog.Count()), logger.String("dir", s.metadataDir))

	groupsFile, err := loadOptional(s.configDir, "groups.yml", roster.LoadGroups)
	if err != nil {
		return err
	}
	if groupsFile != nil {
		s.groupDefaults = groupsFile.DefaultCovariates()
		for _, g := range groupsFile.Groups {
			s.groups[g.ID] = g
		}
	}

	schoolsFile, err := loadOptional(s.configDir, "schools.yml", roster.LoadSchools)
	if err != nil {
		return err
	}
	if schoolsFile != nil {
		for _, cfg := range schoolsFile.Schools {
			s.schools[cfg.ID] = cfg
		}
	}

	statesFile, err := loadOptional(s.configDir, "states.yml", roster.LoadStates)
	if err != nil {
		return err
	}
	if statesFile != nil {
		s.stateDefaults = statesFile.DefaultCovariates()
		for _, cfg := range statesFile.States {
			s.states[cfg.ID] = cfg
		}
	}

	tablesPath := filepath.Join(s.configDir, "equivalence_tables.yml")
	if _, statErr := os.Stat(tablesPath); statErr == nil {
		s.tables, err = equivalence.Load(tablesPath, s.catalog)
		if err != nil {
			return err
		}
	} else {
		s.logger.Warn(ctx, "equivalence tables not found", logger.String("path", tablesPath))
	}

	s.logger.Info(ctx, "loaded configuration",
		logger.Int("groups", len(s.groups)),
		logger.Int("schools", len(s.schools)),
		logger.Int("states", len(s.states)),
		logger.Int("tables", len(s.tables)))

	metrics.UpdateBookletsLoaded(s.catalog.Count())
	metrics.UpdateRosterCounts(len(s.groups), len(s.schools), len(s.states), len(s.tables))

	s.started = true
	return nil
}

// loadOptional loads one YAML config file when it exists; a missing
// file is not an error, only an empty configuration.
func loadOptional[T any](dir, name string, load func(string) (*T, error)) (*T, error) {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		return nil, nil //nolint:nilnil // absent file means empty config
	}
	return load(path)
}

// Catalog exposes the loaded booklet catalog.
func (s *Service) Catalog() *booklet.Catalog {
	return s.catalog
}

// ResolveGroup looks up a group config by id and generates its data
// together with the booklet's equivalence tables.
func (s *Service) ResolveGroup(ctx context.Context, groupID string) (stats.GroupWithTables, error) {
	if !s.started {
		return stats.GroupWithTables{}, ErrNotStarted
	}
	cfg, ok := s.groups[groupID]
	if !ok {
		return stats.GroupWithTables{}, fmt.Errorf("%w: group %q", ErrNotFound, groupID)
	}
	return s.generateGroup(ctx, cfg)
}

func (s *Service) generateGroup(ctx context.Context, cfg roster.GroupConfig) (stats.GroupWithTables, error) {
	key, err := cfg.BookletKey()
	if err != nil {
		return stats.GroupWithTables{}, err
	}
	b, ok := s.catalog.Get(key)
	if !ok {
		return stats.GroupWithTables{}, fmt.Errorf("%w: booklet %s", ErrNotFound, key)
	}

	covariates := roster.MergeCovariates(s.groupDefaults, cfg.Covariates)
	profile := generate.Profile{
		Name:        cfg.DisplayName(),
		AbilityMean: cfg.AbilityMean,
		AbilityStd:  cfg.AbilityStd,
	}

	start := time.Now()
	data, err := generate.GenerateGroup(cfg.ID, b, profile, cfg.Size, covariates, cfg.Seed)
	if err != nil {
		return stats.GroupWithTables{}, err
	}
	metrics.RecordGroupGenerated(len(data.Students), b.ItemCount())
	metrics.RecordGenerationDuration(float64(time.Since(start).Milliseconds()))

	s.logger.Debug(ctx, "generated group data",
		logger.String("group", cfg.ID),
		logger.Int("students", len(data.Students)),
		logger.Int("items", b.ItemCount()))

	return stats.GroupWithTables{
		Data:   data,
		Tables: equivalence.ForBooklet(s.tables, key),
	}, nil
}

// ResolveSchool generates data for every member group of a school, in
// the school's configured group order.
func (s *Service) ResolveSchool(ctx context.Context, schoolID string) (roster.SchoolConfig, []stats.GroupWithTables, error) {
	if !s.started {
		return roster.SchoolConfig{}, nil, ErrNotStarted
	}
	cfg, ok := s.schools[schoolID]
	if !ok {
		return roster.SchoolConfig{}, nil, fmt.Errorf("%w: school %q", ErrNotFound, schoolID)
	}

	groups := make([]stats.GroupWithTables, 0, len(cfg.Groups))
	for _, gid := range cfg.Groups {
		gwt, err := s.ResolveGroup(ctx, gid)
		if err != nil {
			return roster.SchoolConfig{}, nil, err
		}
		groups = append(groups, gwt)
	}
	return cfg, groups, nil
}

// ResolveState synthesizes one group per configured booklet of a state.
// Each synthetic group derives its seed from the state seed and the
// booklet key string, so adding a booklet never changes the other
// booklets' populations.
func (s *Service) ResolveState(ctx context.Context, stateID string) ([]stats.GroupWithTables, error) {
	if !s.started {
		return nil, ErrNotStarted
	}
	cfg, ok := s.states[stateID]
	if !ok {
		return nil, fmt.Errorf("%w: state %q", ErrNotFound, stateID)
	}

	covariates := roster.MergeCovariates(s.stateDefaults, cfg.Covariates)
	profile := generate.Profile{
		Name:        cfg.DisplayName(),
		AbilityMean: cfg.AbilityMean,
		AbilityStd:  cfg.AbilityStd,
	}

	results := make([]stats.GroupWithTables, 0, len(cfg.Booklets))
	for _, bookletStr := range cfg.Booklets {
		key, err := booklet.ParseKey(bookletStr)
		if err != nil {
			return nil, err
		}
		b, ok := s.catalog.Get(key)
		if !ok {
			return nil, fmt.Errorf("%w: booklet %s", ErrNotFound, key)
		}

		start := time.Now()
		data, err := generate.GenerateGroup(
			stateID+":"+bookletStr, b, profile, cfg.Size, covariates,
			cfg.Seed+"-"+bookletStr,
		)
		if err != nil {
			return nil, err
		}
		metrics.RecordGroupGenerated(len(data.Students), b.ItemCount())
		metrics.RecordGenerationDuration(float64(time.Since(start).Milliseconds()))

		results = append(results, stats.GroupWithTables{
			Data:   data,
			Tables: equivalence.ForBooklet(s.tables, key),
		})
	}

	s.logger.Debug(ctx, "generated state data",
		logger.String("state", stateID), logger.Int("booklets", len(results)))

	return results, nil
}
