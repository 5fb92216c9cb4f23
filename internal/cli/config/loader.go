package config

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	intconfig "github.com/leapstack-labs/worldpop/internal/config"
	"github.com/leapstack-labs/worldpop/pkg/core"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// configKey is used to store the loaded config in context.
type configKey struct{}

// EnvPrefix prefixes environment variables read into the configuration.
// A double underscore separates nested keys: WORLDPOP_TARGET__TYPE sets target.type.
const EnvPrefix = "WORLDPOP_"

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// MemoryDatabase is the SQLite in-memory database name; it is never
// resolved as a path.
const MemoryDatabase = ":memory:"

// Flags read by the loader itself rather than mapped to config keys.
var skippedFlags = map[string]bool{
	"config": true,
	"target": true,
}

// Flags whose config key is not their snake_case name.
var flagKeys = map[string]string{
	"database": "target.database",
	"output":   "output",
}

// findProjectRootUpward searches upward from startDir for a config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func findProjectRootUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if intconfig.FindConfigFile(dir) != "" {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// inferProjectRoot determines the project root.
// Priority:
//  1. Directory of an explicit --config file
//  2. Search upward from CWD for worldpop.yaml
//  3. Current working directory
func inferProjectRoot(cfgFile string) string {
	if cfgFile != "" {
		if abs, err := filepath.Abs(cfgFile); err == nil {
			return filepath.Dir(abs)
		}
	}

	cwd, err := os.Getwd()
	if err != nil || cwd == "" {
		return "."
	}
	if root := findProjectRootUpward(cwd); root != "" {
		return root
	}
	return cwd
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || path == MemoryDatabase || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	return LoadConfigWithTarget(cfgFile, "", flags)
}

// LoadConfigWithTarget loads configuration with an optional target override.
// The targetOverride parameter names the environment whose target is used.
// The flags parameter allows CLI flags to override config file and env var values.
func LoadConfigWithTarget(cfgFile string, targetOverride string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	projectRoot := inferProjectRoot(cfgFile)

	// A database given on the command line is relative to CWD, not the project.
	var flagDatabase string
	if flags != nil && flags.Changed("database") {
		if v, _ := flags.GetString("database"); v != "" && v != MemoryDatabase {
			flagDatabase, _ = filepath.Abs(v)
		}
	}

	// 1. Load defaults
	reports := intconfig.DefaultReportDefaults()
	if err := k.Load(confmap.Provider(map[string]any{
		"environment":         DefaultEnv,
		"verbose":             false,
		"output":              DefaultOutput,
		"log_level":           DefaultLogLevel,
		"log_format":          DefaultLogFormat,
		"pushdown":            true,
		"auto_seed":           true,
		"server.addr":         intconfig.DefaultServerAddr,
		"server.read_timeout": DefaultReadTimeout.String(),
		"reports.continent":   reports.Continent,
		"reports.region":      reports.Region,
		"reports.country":     reports.Country,
		"reports.district":    reports.District,
		"reports.city":        reports.City,
		"reports.limit":       reports.Limit,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	configFile := cfgFile
	if configFile == "" {
		configFile = intconfig.FindConfigFile(projectRoot)
	}
	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	}

	// 3. Load environment variables
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			// Only load flags that were explicitly set
			if !f.Changed || skippedFlags[f.Name] {
				return "", nil
			}
			if key, ok := flagKeys[f.Name]; ok {
				return key, posflag.FlagVal(flags, f)
			}
			// Transform kebab-case to snake_case for config keys
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ProjectRoot = projectRoot
	cfg.ConfigFile = configFile

	// Determine which environment to use for target selection
	envForTarget := cfg.Environment
	if targetOverride != "" {
		envForTarget = targetOverride
		if _, ok := cfg.Environments[targetOverride]; !ok {
			return nil, fmt.Errorf("unknown target %q: no such entry under environments", targetOverride)
		}
	}
	if envCfg, ok := cfg.Environments[envForTarget]; ok {
		if envCfg.Target != nil {
			cfg.Target = MergeTargetConfig(cfg.Target, envCfg.Target)
		}
		if envCfg.Reports != nil {
			cfg.Reports = MergeReportDefaults(cfg.Reports, *envCfg.Reports)
		}
	}

	// Initialize default target if not specified
	if cfg.Target == nil {
		cfg.Target = &core.TargetConfig{}
	}
	if cfg.Target.Type == "" {
		cfg.Target.Type = intconfig.DefaultTargetType
	}
	if cfg.Target.Database == "" && isFileTarget(cfg.Target.Type) {
		cfg.Target.Database = intconfig.DefaultDatabase
	}

	intconfig.ApplyTargetDefaults(cfg.Target)
	intconfig.ApplyReportDefaults(&cfg.Reports)
	expandTargetEnvVars(cfg.Target)

	if flagDatabase != "" {
		cfg.Target.Database = flagDatabase
	} else if isFileTarget(cfg.Target.Type) {
		cfg.Target.Database = resolvePathRelativeTo(cfg.Target.Database, projectRoot)
	}
	cfg.LogFile = resolvePathRelativeTo(cfg.LogFile, projectRoot)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// envKey maps WORLDPOP_SERVER__READ_TIMEOUT to server.read_timeout.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// isFileTarget reports whether the target database is a local file.
func isFileTarget(typ string) bool {
	switch strings.ToLower(typ) {
	case "sqlite", "duckdb":
		return true
	}
	return false
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() any {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

// WithConfig returns a copy of ctx carrying cfg.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// GetConfig retrieves the config from the command context, or nil when
// none was loaded.
func GetConfig(ctx context.Context) *Config {
	if c, ok := ctx.Value(configKey{}).(*Config); ok {
		return c
	}
	return nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if not found
	})
}

// expandTargetEnvVars expands environment variables in sensitive target fields.
func expandTargetEnvVars(t *core.TargetConfig) {
	if t == nil {
		return
	}
	t.Password = expandEnvVars(t.Password)
	t.User = expandEnvVars(t.User)
	t.Host = expandEnvVars(t.Host)
	t.Database = expandEnvVars(t.Database)
}

// MergeTargetConfig merges two target configs, with override taking precedence.
func MergeTargetConfig(base, override *core.TargetConfig) *core.TargetConfig {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	// Start with a copy of base
	merged := &core.TargetConfig{
		Type:     base.Type,
		Database: base.Database,
		Host:     base.Host,
		Port:     base.Port,
		User:     base.User,
		Password: base.Password,
		Schema:   base.Schema,
		Dialect:  base.Dialect,
		Options:  make(map[string]string, len(base.Options)+len(override.Options)),
		Params:   make(map[string]any, len(base.Params)+len(override.Params)),
	}
	maps.Copy(merged.Options, base.Options)
	maps.Copy(merged.Params, base.Params)

	// Apply overrides
	if override.Type != "" {
		merged.Type = override.Type
	}
	if override.Database != "" {
		merged.Database = override.Database
	}
	if override.Host != "" {
		merged.Host = override.Host
	}
	if override.Port != 0 {
		merged.Port = override.Port
	}
	if override.User != "" {
		merged.User = override.User
	}
	if override.Password != "" {
		merged.Password = override.Password
	}
	if override.Schema != "" {
		merged.Schema = override.Schema
	}
	if override.Dialect != "" {
		merged.Dialect = override.Dialect
	}

	maps.Copy(merged.Options, override.Options)
	maps.Copy(merged.Params, override.Params)

	return merged
}

// MergeReportDefaults overlays the set fields of override onto base.
func MergeReportDefaults(base, override core.ReportDefaults) core.ReportDefaults {
	if override.Continent != "" {
		base.Continent = override.Continent
	}
	if override.Region != "" {
		base.Region = override.Region
	}
	if override.Country != "" {
		base.Country = override.Country
	}
	if override.District != "" {
		base.District = override.District
	}
	if override.City != "" {
		base.City = override.City
	}
	if override.Limit != 0 {
		base.Limit = override.Limit
	}
	return base
}
