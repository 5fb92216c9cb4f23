// Package adapter provides database adapter interfaces and implementations
// for the worldpop relational catalog.
//
// This package contains the public contract that all database adapters must implement.
// Concrete adapter implementations are in pkg/adapters/ subdirectories and
// register themselves by target type in init().
package adapter

import (
	"context"

	"github.com/leapstack-labs/worldpop/pkg/core"
	"github.com/leapstack-labs/worldpop/pkg/dialect"
)

// Adapter defines the interface that all database adapters must implement.
// It provides methods for connecting to databases, executing SQL, and
// bulk-loading reference data.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg core.AdapterConfig) error

	// Close closes the database connection and releases resources.
	Close() error

	// Ping verifies the connection is still alive.
	Ping(ctx context.Context) error

	// Exec executes a SQL statement that doesn't return rows (e.g., CREATE, INSERT).
	Exec(ctx context.Context, sql string, args ...any) error

	// Query executes a SQL statement that returns rows.
	// The caller must close the returned rows and check rows.Err().
	Query(ctx context.Context, sql string, args ...any) (*core.Rows, error)

	// LoadCSV appends the rows of a CSV file to an existing table.
	// The header row names the target columns; empty fields load as NULL.
	LoadCSV(ctx context.Context, tableName string, filePath string) error

	// Dialect returns the SQL dialect spoken by this adapter.
	Dialect() *dialect.Dialect
}
