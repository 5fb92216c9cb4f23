package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/worldpop/pkg/adapter"
	"github.com/leapstack-labs/worldpop/pkg/core"

	// Register adapters and dialects via init()
	_ "github.com/leapstack-labs/worldpop/pkg/adapters/mysql"
	_ "github.com/leapstack-labs/worldpop/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/worldpop/pkg/adapters/sqlite"
	_ "github.com/leapstack-labs/worldpop/pkg/dialects/h2"
)

func TestApplyTargetDefaults(t *testing.T) {
	tests := []struct {
		name       string
		target     core.TargetConfig
		wantPort   int
		wantSchema string
	}{
		{name: "postgres", target: core.TargetConfig{Type: "postgres"}, wantPort: 5432, wantSchema: "public"},
		{name: "mysql keeps port", target: core.TargetConfig{Type: "mysql", Port: 3307}, wantPort: 3307},
		{name: "mysql", target: core.TargetConfig{Type: "mysql"}, wantPort: 3306},
		{name: "sqlite", target: core.TargetConfig{Type: "sqlite"}, wantSchema: "main"},
		{name: "memory", target: core.TargetConfig{Type: MemoryTarget}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := tt.target
			ApplyTargetDefaults(&target)
			assert.Equal(t, tt.wantPort, target.Port)
			if tt.wantSchema != "" {
				assert.Equal(t, tt.wantSchema, target.Schema)
			}
		})
	}

	ApplyTargetDefaults(nil)
}

func TestApplyReportDefaults(t *testing.T) {
	r := core.ReportDefaults{Country: "Japan"}
	ApplyReportDefaults(&r)

	want := DefaultReportDefaults()
	want.Country = "Japan"
	assert.Equal(t, want, r)
}

func TestValidateTarget(t *testing.T) {
	tests := []struct {
		name      string
		target    *core.TargetConfig
		errSubstr string
	}{
		{name: "nil", target: nil, errSubstr: "target type is required"},
		{name: "empty type", target: &core.TargetConfig{}, errSubstr: "target type is required"},
		{name: "sqlite", target: &core.TargetConfig{Type: "sqlite"}},
		{name: "uppercase", target: &core.TargetConfig{Type: "MySQL"}},
		{name: "memory", target: &core.TargetConfig{Type: MemoryTarget}},
		{name: "h2 dialect override", target: &core.TargetConfig{Type: "sqlite", Dialect: "h2"}},
		{name: "unknown type", target: &core.TargetConfig{Type: "oracle"}, errSubstr: "unknown adapter type"},
		{name: "unknown dialect", target: &core.TargetConfig{Type: "sqlite", Dialect: "cobol"}, errSubstr: "unknown dialect"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTarget(tt.target)
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestValidateTarget_ListsMemory(t *testing.T) {
	err := ValidateTarget(&core.TargetConfig{Type: "oracle"})

	var unknown *adapter.UnknownAdapterError
	require.ErrorAs(t, err, &unknown)
	assert.Contains(t, unknown.Available, MemoryTarget)
	assert.Contains(t, unknown.Available, "sqlite")
}

func TestResolveDialect(t *testing.T) {
	d, err := ResolveDialect(&core.TargetConfig{Type: "mysql"})
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name)

	d, err = ResolveDialect(&core.TargetConfig{Type: "sqlite", Dialect: "h2"})
	require.NoError(t, err)
	assert.Equal(t, "h2", d.Name)

	d, err = ResolveDialect(&core.TargetConfig{Type: MemoryTarget})
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestLoadReports(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	content := `
reports:
  continent: Asia
  limit: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	assert.Equal(t, path, FindConfigFile(dir))

	r, err := LoadReports(path)
	require.NoError(t, err)
	assert.Equal(t, "Asia", r.Continent)
	assert.Equal(t, 5, r.Limit)
	assert.Equal(t, "Paris", r.City, "unset values take defaults")
}

func TestLoadReports_MissingFile(t *testing.T) {
	_, err := LoadReports(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.Empty(t, FindConfigFile(t.TempDir()))
}
