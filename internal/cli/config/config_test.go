package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/worldpop/pkg/core"

	// Import adapter packages to ensure adapters are registered via init()
	_ "github.com/leapstack-labs/worldpop/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/worldpop/pkg/adapters/sqlite"
)

// newFlags mirrors the persistent flags of the root command.
func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.StringP("target", "t", "", "")
	fs.String("database", "", "")
	fs.StringP("output", "o", "", "")
	fs.String("log-level", "", "")
	fs.String("log-file", "", "")
	fs.BoolP("verbose", "v", false, "")
	fs.Bool("pushdown", true, "")
	return fs
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "worldpop.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultEnv, cfg.Environment)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.True(t, cfg.Pushdown)
	assert.True(t, cfg.AutoSeed)
	assert.Equal(t, "sqlite", cfg.Target.Type)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, "world.db"), cfg.Target.Database)
	assert.Equal(t, "main", cfg.Target.Schema)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.Equal(t, DefaultReadTimeout, cfg.Server.ReadTimeout)
	assert.Equal(t, "Europe", cfg.Reports.Continent)
	assert.Equal(t, 10, cfg.Reports.Limit)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
output: json
log_level: debug
pushdown: false
target:
  type: memory
server:
  addr: ":9090"
  read_timeout: 3s
  watch: true
reports:
  continent: Asia
  limit: 5
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, dir, cfg.ProjectRoot)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.Pushdown)
	assert.Equal(t, "memory", cfg.Target.Type)
	assert.Empty(t, cfg.Target.Database, "memory target has no database")
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.True(t, cfg.Server.Watch)
	assert.Equal(t, "Asia", cfg.Reports.Continent)
	assert.Equal(t, "Western Europe", cfg.Reports.Region, "unset report keys keep their defaults")
	assert.Equal(t, 5, cfg.Reports.Limit)
}

func TestLoadConfig_FoundUpward(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "target:\n  type: sqlite\n  database: data/world.db\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	// Resolve symlinks in the temp dir (macOS /var -> /private/var).
	wantRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	gotRoot, err := filepath.EvalSymlinks(cfg.ProjectRoot)
	require.NoError(t, err)
	assert.Equal(t, wantRoot, gotRoot)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, "data", "world.db"), cfg.Target.Database)
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "output: csv\nlog_level: error\n")

	t.Setenv("WORLDPOP_OUTPUT", "yaml")
	t.Setenv("WORLDPOP_REPORTS__CITY", "Tokyo")

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--log-level", "debug", "--pushdown=false"}))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "yaml", cfg.OutputFormat, "env overrides file")
	assert.Equal(t, "debug", cfg.LogLevel, "flag overrides file")
	assert.Equal(t, "Tokyo", cfg.Reports.City, "nested env key")
	assert.False(t, cfg.Pushdown)
}

func TestLoadConfig_DatabaseFlag(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	tests := []struct {
		name string
		arg  string
		want string
	}{
		{name: "relative to cwd", arg: "other.db", want: filepath.Join(dir, "other.db")},
		{name: "in-memory", arg: ":memory:", want: ":memory:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := newFlags()
			require.NoError(t, flags.Parse([]string{"--database", tt.arg}))

			cfg, err := LoadConfig("", flags)
			require.NoError(t, err)

			want, _ := filepath.EvalSymlinks(filepath.Dir(tt.want))
			got, _ := filepath.EvalSymlinks(filepath.Dir(cfg.Target.Database))
			assert.Equal(t, want, got)
			assert.Equal(t, filepath.Base(tt.want), filepath.Base(cfg.Target.Database))
		})
	}
}

func TestLoadConfigWithTarget(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
target:
  type: sqlite
  database: dev.db
environments:
  prod:
    target:
      type: postgres
      host: db.internal
      user: ${WORLDPOP_TEST_USER}
      password: ${WORLDPOP_TEST_PASSWORD}
      database: world
    reports:
      limit: 25
`)
	t.Setenv("WORLDPOP_TEST_USER", "reporter")
	t.Setenv("WORLDPOP_TEST_PASSWORD", "s3cret")

	t.Run("base target", func(t *testing.T) {
		cfg, err := LoadConfigWithTarget(path, "", nil)
		require.NoError(t, err)
		assert.Equal(t, "sqlite", cfg.Target.Type)
		assert.Equal(t, filepath.Join(dir, "dev.db"), cfg.Target.Database)
		assert.Equal(t, 10, cfg.Reports.Limit)
	})

	t.Run("environment target", func(t *testing.T) {
		cfg, err := LoadConfigWithTarget(path, "prod", nil)
		require.NoError(t, err)
		assert.Equal(t, "postgres", cfg.Target.Type)
		assert.Equal(t, "db.internal", cfg.Target.Host)
		assert.Equal(t, 5432, cfg.Target.Port)
		assert.Equal(t, "public", cfg.Target.Schema)
		assert.Equal(t, "reporter", cfg.Target.User)
		assert.Equal(t, "s3cret", cfg.Target.Password)
		assert.Equal(t, "world", cfg.Target.Database, "network databases are not paths")
		assert.Equal(t, 25, cfg.Reports.Limit)
		assert.Equal(t, "Europe", cfg.Reports.Continent)
	})

	t.Run("unknown environment", func(t *testing.T) {
		_, err := LoadConfigWithTarget(path, "staging", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown target "staging"`)
	})
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{name: "unknown adapter", content: "target:\n  type: oracle\n", errSubstr: "unknown adapter type"},
		{name: "unknown dialect", content: "target:\n  type: memory\n  dialect: cobol\n", errSubstr: "cobol"},
		{name: "unknown log level", content: "log_level: loud\n", errSubstr: "unknown log level"},
		{name: "unknown log format", content: "log_format: xml\n", errSubstr: "unknown log format"},
		{name: "unknown output", content: "output: pdf\n", errSubstr: "unknown format"},
		{name: "negative limit", content: "reports:\n  limit: -2\n", errSubstr: "reports.limit"},
		{name: "broken yaml", content: "target: [\n", errSubstr: "error reading config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := LoadConfig(path, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "trace", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLogLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMergeTargetConfig(t *testing.T) {
	base := &core.TargetConfig{
		Type:     "postgres",
		Host:     "localhost",
		Port:     5432,
		User:     "base",
		Database: "world",
		Options:  map[string]string{"sslmode": "disable", "connect_timeout": "5"},
	}
	override := &core.TargetConfig{
		Host:    "prod.internal",
		Dialect: "mysql",
		Options: map[string]string{"sslmode": "require"},
	}

	merged := MergeTargetConfig(base, override)

	assert.Equal(t, "postgres", merged.Type)
	assert.Equal(t, "prod.internal", merged.Host)
	assert.Equal(t, 5432, merged.Port)
	assert.Equal(t, "base", merged.User)
	assert.Equal(t, "mysql", merged.Dialect)
	assert.Equal(t, map[string]string{"sslmode": "require", "connect_timeout": "5"}, merged.Options)
	assert.Equal(t, "disable", base.Options["sslmode"], "base is not modified")

	assert.Same(t, override, MergeTargetConfig(nil, override))
	assert.Same(t, base, MergeTargetConfig(base, nil))
}

func TestMergeReportDefaults(t *testing.T) {
	base := core.ReportDefaults{Continent: "Europe", Region: "Western Europe", City: "Paris", Limit: 10}
	got := MergeReportDefaults(base, core.ReportDefaults{City: "Lyon", Limit: 3})

	assert.Equal(t, core.ReportDefaults{Continent: "Europe", Region: "Western Europe", City: "Lyon", Limit: 3}, got)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("WORLDPOP_TEST_HOST", "db.example.com")

	assert.Equal(t, "db.example.com:5432", expandEnvVars("${WORLDPOP_TEST_HOST}:5432"))
	assert.Equal(t, "${WORLDPOP_TEST_UNSET}", expandEnvVars("${WORLDPOP_TEST_UNSET}"), "unset variables are kept")
	assert.Equal(t, "plain", expandEnvVars("plain"))
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "log_level", envKey("WORLDPOP_LOG_LEVEL"))
	assert.Equal(t, "server.read_timeout", envKey("WORLDPOP_SERVER__READ_TIMEOUT"))
	assert.Equal(t, "target.type", envKey("WORLDPOP_TARGET__TYPE"))
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()), "falls back to a discard logger")

	logger := slog.New(slog.DiscardHandler)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}

func TestGetConfig(t *testing.T) {
	assert.Nil(t, GetConfig(context.Background()))

	cfg := &Config{Environment: "prod"}
	assert.Same(t, cfg, GetConfig(WithConfig(context.Background(), cfg)))
}
