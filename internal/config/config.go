// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MetadataDir holds the booklet item-metadata CSV files.
	MetadataDir string `koanf:"metadata_dir"`

	// ConfigDir holds groups.yml, schools.yml, states.yml, and
	// equivalence_tables.yml.
	ConfigDir string `koanf:"config_dir"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:    "info",
		Addr:        ":9080",
		MetadataDir: "metadata",
		ConfigDir:   "config",
	}
}
