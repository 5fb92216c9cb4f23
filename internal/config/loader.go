package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/leapstack-labs/worldpop/pkg/core"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "worldpop.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "worldpop.yml"

// LoadReports reads the reports section of a config file and applies the
// defaults to unset parameters. The HTTP server uses it to pick up edits
// without a restart.
func LoadReports(path string) (core.ReportDefaults, error) {
	var r core.ReportDefaults

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return r, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	if err := k.Unmarshal("reports", &r); err != nil {
		return r, fmt.Errorf("unable to decode reports section: %w", err)
	}

	ApplyReportDefaults(&r)
	return r, nil
}

// FindConfigFile returns the config file in dir, or "" when there is none.
func FindConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
