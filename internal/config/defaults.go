package config

import "github.com/leapstack-labs/worldpop/pkg/core"

// Default configuration values.
const (
	DefaultTargetType = "sqlite"
	DefaultDatabase   = "world.db"
	DefaultLimit      = 10
	DefaultServerAddr = "127.0.0.1:8080"
)

// MemoryTarget is the target type served from the embedded sample data.
// It needs no database adapter.
const MemoryTarget = "memory"

// DefaultReportDefaults returns the parameters used by the full report when
// the configuration names none.
func DefaultReportDefaults() core.ReportDefaults {
	return core.ReportDefaults{
		Continent: "Europe",
		Region:    "Western Europe",
		Country:   "France",
		District:  "Distrito Federal",
		City:      "Paris",
		Limit:     DefaultLimit,
	}
}

// ApplyReportDefaults fills unset report parameters.
func ApplyReportDefaults(r *core.ReportDefaults) {
	if r == nil {
		return
	}
	d := DefaultReportDefaults()
	if r.Continent == "" {
		r.Continent = d.Continent
	}
	if r.Region == "" {
		r.Region = d.Region
	}
	if r.Country == "" {
		r.Country = d.Country
	}
	if r.District == "" {
		r.District = d.District
	}
	if r.City == "" {
		r.City = d.City
	}
	if r.Limit == 0 {
		r.Limit = d.Limit
	}
}

// ApplyTargetDefaults applies default values to a TargetConfig based on the target type.
func ApplyTargetDefaults(t *core.TargetConfig) {
	if t == nil {
		return
	}

	if t.Type == MemoryTarget {
		return
	}

	// Apply default schema based on type
	if t.Schema == "" {
		t.Schema = DefaultSchemaForType(t.Type)
	}

	// Apply type-specific defaults
	switch t.Type {
	case "postgres":
		if t.Port == 0 {
			t.Port = 5432
		}
	case "mysql":
		if t.Port == 0 {
			t.Port = 3306
		}
	}
}
