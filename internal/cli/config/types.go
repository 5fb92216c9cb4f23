// Package config loads the worldpop CLI configuration.
//
// Shared types (TargetConfig, ReportDefaults) live in pkg/core and the
// shared defaults in internal/config; this package layers defaults, the
// YAML file, environment variables and command-line flags on top of them.
package config

import (
	"time"

	"github.com/leapstack-labs/worldpop/pkg/core"
)

// TargetConfig is an alias for the shared target configuration.
type TargetConfig = core.TargetConfig

// ServerConfig holds settings of the HTTP API.
type ServerConfig struct {
	Addr        string        `koanf:"addr"`
	ReadTimeout time.Duration `koanf:"read_timeout"`
	// Watch reloads the reports section when the config file changes.
	Watch bool `koanf:"watch"`
}

// Config holds all CLI configuration options.
type Config struct {
	Environment  string               `koanf:"environment"`
	Verbose      bool                 `koanf:"verbose"`
	OutputFormat string               `koanf:"output"`
	LogLevel     string               `koanf:"log_level"`
	LogFormat    string               `koanf:"log_format"` // text, json
	LogFile      string               `koanf:"log_file"`
	Pushdown     bool                 `koanf:"pushdown"`
	AutoSeed     bool                 `koanf:"auto_seed"`
	Target       *TargetConfig        `koanf:"target"`
	Server       ServerConfig         `koanf:"server"`
	Reports      core.ReportDefaults  `koanf:"reports"`
	Environments map[string]EnvConfig `koanf:"environments"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
	// ConfigFile is the file the configuration was read from, if any.
	ConfigFile string `koanf:"-"`
}

// EnvConfig holds environment-specific configuration overrides.
type EnvConfig struct {
	Target  *TargetConfig        `koanf:"target"`
	Reports *core.ReportDefaults `koanf:"reports"`
}

// Default configuration values.
const (
	DefaultEnv         = "dev"
	DefaultOutput      = "auto" // Auto-detect: TTY=table, non-TTY=markdown
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
	DefaultReadTimeout = 10 * time.Second
)
