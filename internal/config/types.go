// Package config provides the configuration rules shared by the CLI and the
// HTTP server: defaults, target validation and dialect resolution, and
// reading the report parameters from a config file.
package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/worldpop/pkg/adapter"
	"github.com/leapstack-labs/worldpop/pkg/core"
	"github.com/leapstack-labs/worldpop/pkg/dialect"
)

// DefaultSchemaForType returns the default schema for a database type.
// It looks up the dialect in the registry; if not found, returns "main" as fallback.
func DefaultSchemaForType(dbType string) string {
	if d, ok := dialect.Get(dbType); ok && d.DefaultSchema != "" {
		return d.DefaultSchema
	}
	// Fallback for unknown types or dialects without a default schema
	return "main"
}

// ValidateTarget checks if the target configuration is valid.
// It uses the adapter registry to determine which adapter types are available.
func ValidateTarget(t *core.TargetConfig) error {
	if t == nil || t.Type == "" {
		return fmt.Errorf("target type is required")
	}

	typ := strings.ToLower(t.Type)
	if typ != MemoryTarget && !adapter.IsRegistered(typ) {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Available: append(adapter.ListAdapters(), MemoryTarget),
		}
	}

	if t.Dialect != "" {
		if _, err := dialect.Resolve(t.Dialect); err != nil {
			return err
		}
	}
	return nil
}

// ResolveDialect returns the query dialect of a target: the explicit
// dialect override, else the dialect named like the target type.
// The memory target has no dialect unless one is set.
func ResolveDialect(t *core.TargetConfig) (*dialect.Dialect, error) {
	name := t.DialectName()
	if strings.EqualFold(name, MemoryTarget) {
		return nil, nil
	}
	return dialect.Resolve(name)
}
