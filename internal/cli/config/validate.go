package config

import (
	"fmt"
	"log/slog"
	"strings"

	intconfig "github.com/leapstack-labs/worldpop/internal/config"
	"github.com/leapstack-labs/worldpop/internal/report"
)

// Validate checks settings that are not covered by target validation.
func (c *Config) Validate() error {
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (expected text or json)", c.LogFormat)
	}
	if c.OutputFormat != DefaultOutput {
		if _, err := report.ParseFormat(c.OutputFormat); err != nil {
			return err
		}
	}
	if c.Reports.Limit < 0 {
		return fmt.Errorf("reports.limit must be positive, got %d", c.Reports.Limit)
	}
	return intconfig.ValidateTarget(c.Target)
}

// ParseLogLevel converts a level name to a slog level.
func ParseLogLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (expected debug, info, warn or error)", name)
	}
}
