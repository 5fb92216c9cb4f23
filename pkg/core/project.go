package core

// TargetConfig holds database target configuration.
type TargetConfig struct {
	Type string `koanf:"type"` // duckdb, postgres, sqlite, mysql

	// File-based databases (DuckDB, SQLite)
	Database string `koanf:"database"` // file path or database name

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	// Common
	Schema string `koanf:"schema"`

	// Dialect overrides the query dialect implied by Type.
	Dialect string `koanf:"dialect"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`

	// Params holds adapter-specific configuration (e.g., DuckDB extensions, settings)
	Params map[string]any `koanf:"params"`
}

// DialectName returns the dialect used for queries against this target.
func (t *TargetConfig) DialectName() string {
	if t == nil {
		return ""
	}
	if t.Dialect != "" {
		return t.Dialect
	}
	return t.Type
}

// AdapterConfig converts the target into the adapter connection settings.
func (t *TargetConfig) AdapterConfig() AdapterConfig {
	return AdapterConfig{
		Type:     t.Type,
		Path:     t.Database,
		Host:     t.Host,
		Port:     t.Port,
		Database: t.Database,
		Username: t.User,
		Password: t.Password,
		Schema:   t.Schema,
		Options:  t.Options,
		Params:   t.Params,
	}
}

// ReportDefaults are the default parameters of the full report, as read from
// the reports section of the configuration.
type ReportDefaults struct {
	Continent string `koanf:"continent"`
	Region    string `koanf:"region"`
	Country   string `koanf:"country"`
	District  string `koanf:"district"`
	City      string `koanf:"city"`
	Limit     int    `koanf:"limit"`
}
