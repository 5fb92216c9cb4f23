package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/leapstack-labs/worldpop/internal/cli/config"
	intconfig "github.com/leapstack-labs/worldpop/internal/config"
	"github.com/leapstack-labs/worldpop/pkg/dialect"
)

// generateSchemaDocs generates the configuration reference.
func generateSchemaDocs(outDir string) error {
	log.Printf("Generating schema docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := generateConfigurationDoc(outDir); err != nil {
		return fmt.Errorf("failed to generate configuration.md: %w", err)
	}
	log.Printf("  Generated configuration.md")

	return nil
}

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Description string
	Category    string // "general", "target", "server", "reports"
}

// getConfigSchema mirrors the koanf keys of internal/cli/config.Config.
func getConfigSchema() []ConfigField {
	reports := intconfig.DefaultReportDefaults()
	return []ConfigField{
		{Name: "environment", Type: "string", Default: config.DefaultEnv, Description: "Environment whose overrides from `environments` apply", Category: "general"},
		{Name: "output", Type: "string", Default: config.DefaultOutput, Description: "Output format: auto, table, markdown, csv, json, yaml", Category: "general"},
		{Name: "log_level", Type: "string", Default: config.DefaultLogLevel, Description: "Log level: debug, info, warn, error", Category: "general"},
		{Name: "log_format", Type: "string", Default: config.DefaultLogFormat, Description: "Log format: text or json", Category: "general"},
		{Name: "log_file", Type: "string", Description: "Also write logs to this file", Category: "general"},
		{Name: "verbose", Type: "bool", Default: "false", Description: "Shorthand for debug logging", Category: "general"},
		{Name: "pushdown", Type: "bool", Default: "true", Description: "Compute breakdowns and speaker totals in the database", Category: "general"},
		{Name: "auto_seed", Type: "bool", Default: "true", Description: "Load the sample world data into an empty database", Category: "general"},

		{Name: "type", Type: "string", Default: intconfig.DefaultTargetType, Description: "Target type: " + intconfig.MemoryTarget + ", sqlite, duckdb, postgres, mysql", Category: "target"},
		{Name: "database", Type: "string", Default: intconfig.DefaultDatabase, Description: "File path (SQLite, DuckDB) or database name", Category: "target"},
		{Name: "host", Type: "string", Description: "Database host", Category: "target"},
		{Name: "port", Type: "int", Description: "Database port (5432 for PostgreSQL, 3306 for MySQL)", Category: "target"},
		{Name: "user", Type: "string", Description: "Database username", Category: "target"},
		{Name: "password", Type: "string", Description: "Database password", Category: "target"},
		{Name: "schema", Type: "string", Description: "Schema holding the world tables", Category: "target"},
		{Name: "dialect", Type: "string", Description: "Query dialect when it differs from the type: " + strings.Join(dialect.List(), ", "), Category: "target"},
		{Name: "options", Type: "map[string]string", Description: "Additional driver-specific options", Category: "target"},
		{Name: "params", Type: "map[string]any", Description: "Adapter-specific settings", Category: "target"},

		{Name: "addr", Type: "string", Default: intconfig.DefaultServerAddr, Description: "Listen address of the HTTP API", Category: "server"},
		{Name: "read_timeout", Type: "duration", Default: config.DefaultReadTimeout.String(), Description: "Timeout for reading a request", Category: "server"},
		{Name: "watch", Type: "bool", Default: "false", Description: "Reload the reports section when the config file changes", Category: "server"},

		{Name: "continent", Type: "string", Default: reports.Continent, Description: "Continent of the continent-scoped reports", Category: "reports"},
		{Name: "region", Type: "string", Default: reports.Region, Description: "Region of the region-scoped reports", Category: "reports"},
		{Name: "country", Type: "string", Default: reports.Country, Description: "Country of the country-scoped reports", Category: "reports"},
		{Name: "district", Type: "string", Default: reports.District, Description: "District of the district-scoped reports", Category: "reports"},
		{Name: "city", Type: "string", Default: reports.City, Description: "City of the city population lookup", Category: "reports"},
		{Name: "limit", Type: "int", Default: strconv.Itoa(reports.Limit), Description: "Row limit of the top-N reports", Category: "reports"},
	}
}

// writeFieldTable writes the fields of one category.
func writeFieldTable(w *MarkdownWriter, fields []ConfigField, category string) {
	headers := []string{"Field", "Type", "Default", "Description"}
	var rows [][]string
	for _, f := range fields {
		if f.Category != category {
			continue
		}
		defVal := "-"
		if f.Default != "" {
			defVal = InlineCode(f.Default)
		}
		rows = append(rows, []string{InlineCode(f.Name), f.Type, defVal, f.Description})
	}
	w.Table(headers, rows)
}

// generateConfigurationDoc generates the configuration reference page.
func generateConfigurationDoc(outDir string) error {
	w := NewMarkdownWriter()
	fields := getConfigSchema()

	w.Frontmatter("Configuration", "worldpop configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph(fmt.Sprintf("worldpop reads %s (or %s) from the project root or any parent directory. Every key can also be set through %s environment variables and command-line flags.",
		InlineCode(intconfig.ConfigFileName), InlineCode(intconfig.ConfigFileNameAlt), InlineCode(config.EnvPrefix+"*")))

	w.Header(2, "General Settings")
	writeFieldTable(w, fields, "general")

	w.Header(2, "Target")
	w.Paragraph(fmt.Sprintf("The %s key selects the database holding the world tables. The %s target serves the embedded sample data without a database.",
		InlineCode("target"), InlineCode(intconfig.MemoryTarget)))
	writeFieldTable(w, fields, "target")

	w.Header(4, "SQLite Example")
	w.CodeBlock("yaml", `target:
  type: sqlite
  database: ./data/world.db`)

	w.Header(4, "PostgreSQL Example")
	w.CodeBlock("yaml", `target:
  type: postgres
  host: localhost
  port: 5432
  user: world
  password: ${POSTGRES_PASSWORD}
  database: world
  schema: public`)

	w.Header(2, "Server")
	writeFieldTable(w, fields, "server")

	w.Header(2, "Reports")
	w.Paragraph("Parameters of the full report, the menu and the HTTP report endpoint. A blank scope name skips the reports that need it.")
	writeFieldTable(w, fields, "reports")

	w.Header(2, "Environments")
	w.Paragraph(fmt.Sprintf("Entries under %s override the target and reports of the selected environment:", InlineCode("environments")))
	w.CodeBlock("yaml", `# worldpop.yaml
target:
  type: sqlite
  database: world.db

reports:
  continent: Asia
  limit: 5

environments:
  prod:
    target:
      type: postgres
      host: db.example.com
      user: world
      password: ${PROD_DB_PASSWORD}
      database: world
    reports:
      limit: 25`)

	w.Paragraph(fmt.Sprintf("Select an environment with %s or %s.", InlineCode("--target prod"), InlineCode(config.EnvPrefix+"ENVIRONMENT=prod")))

	filename := filepath.Join(outDir, "configuration.md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}
