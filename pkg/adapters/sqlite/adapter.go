// Package sqlite provides a SQLite database adapter for worldpop.
// It uses the pure Go modernc.org/sqlite driver, so no cgo is required.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/worldpop/pkg/adapter"
	"github.com/leapstack-labs/worldpop/pkg/core"
	"github.com/leapstack-labs/worldpop/pkg/dialect"
	sqlitedialect "github.com/leapstack-labs/worldpop/pkg/dialects/sqlite"

	_ "modernc.org/sqlite" // sqlite driver
)

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Dialect returns the SQLite dialect.
func (a *Adapter) Dialect() *dialect.Dialect {
	return sqlitedialect.SQLite
}

// Connect opens the database file at cfg.Path.
// Use ":memory:" (or an empty path) for an in-memory database.
// Setting Options["mode"] to "ro" opens the file read-only.
func (a *Adapter) Connect(ctx context.Context, cfg core.AdapterConfig) error {
	dsn, memory := buildDSN(cfg)

	a.Logger.Debug("connecting to sqlite", slog.String("dsn", dsn))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// Each connection to :memory: is a separate database.
	if memory {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// buildDSN returns the driver DSN and whether it names an in-memory database.
func buildDSN(cfg core.AdapterConfig) (string, bool) {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}
	memory := path == ":memory:"

	var params []string
	if mode := cfg.Options["mode"]; mode != "" && !memory {
		params = append(params, "mode="+mode)
	}
	if !memory {
		params = append(params, "_pragma=busy_timeout(5000)")
	}

	if len(params) == 0 {
		return path, memory
	}
	return "file:" + path + "?" + strings.Join(params, "&"), memory
}

// LoadCSV appends the rows of a CSV file to an existing table.
func (a *Adapter) LoadCSV(ctx context.Context, tableName string, filePath string) error {
	return a.InsertCSV(ctx, a.Dialect(), tableName, filePath)
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
