// Package worlddb owns the world database schema and its sample dataset.
// The schema is applied with goose migrations; the sample rows are loaded
// from embedded CSV files through the target adapter.
package worlddb

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/leapstack-labs/worldpop/pkg/adapter"
	"github.com/leapstack-labs/worldpop/pkg/core"
)

//go:embed migrations/*.sql
var migrations embed.FS

//go:embed data/*.csv
var sampleData embed.FS

// Tables lists the world tables in load order.
var Tables = []string{"country", "city", "countrylanguage"}

// ErrNoSQLDB is returned when an adapter does not expose its connection pool.
var ErrNoSQLDB = errors.New("adapter does not expose a database connection")

// gooseDialects maps adapter dialect names to goose dialects.
// DuckDB has no goose dialect; its schema is applied directly.
var gooseDialects = map[string]goose.Dialect{
	"sqlite":   goose.DialectSQLite3,
	"postgres": goose.DialectPostgres,
	"mysql":    goose.DialectMySQL,
}

// Migrate applies all pending schema migrations to the adapter's database.
func Migrate(ctx context.Context, adp adapter.Adapter, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	name := adp.Dialect().Name
	gd, ok := gooseDialects[name]
	if !ok {
		logger.Debug("no goose dialect, applying schema directly", slog.String("dialect", name))
		return applyUp(ctx, adp, fsys)
	}

	provider, ok := adp.(core.DBProvider)
	if !ok || provider.SQLDB() == nil {
		return ErrNoSQLDB
	}

	p, err := goose.NewProvider(gd, provider.SQLDB(), fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	for _, r := range results {
		logger.Debug("applied migration",
			slog.Int64("version", r.Source.Version),
			slog.Duration("duration", r.Duration))
	}
	return nil
}

// applyUp executes the Up section of every migration in version order.
// Statements must be idempotent because no version table is kept.
func applyUp(ctx context.Context, adp adapter.Adapter, fsys fs.FS) error {
	files, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}

	for _, file := range files {
		content, err := fs.ReadFile(fsys, file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}
		for _, stmt := range upStatements(string(content)) {
			if err := adp.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migration %s: %w", file, err)
			}
		}
	}
	return nil
}

// upStatements returns the statements between the goose Up and Down
// annotations, split on semicolons.
func upStatements(content string) []string {
	_, up, found := strings.Cut(content, "-- +goose Up")
	if !found {
		return nil
	}
	up, _, _ = strings.Cut(up, "-- +goose Down")

	var stmts []string
	for _, part := range strings.Split(up, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// Seed migrates the schema and loads the sample dataset when the country
// table is empty. It reports whether rows were loaded.
func Seed(ctx context.Context, adp adapter.Adapter, logger *slog.Logger) (bool, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if err := Migrate(ctx, adp, logger); err != nil {
		return false, err
	}

	n, err := countRows(ctx, adp, "country")
	if err != nil {
		return false, err
	}
	if n > 0 {
		logger.Info("world database already populated", slog.Int64("countries", n))
		return false, nil
	}

	if err := LoadSample(ctx, adp); err != nil {
		return false, err
	}
	logger.Info("loaded sample world data", slog.String("dialect", adp.Dialect().Name))
	return true, nil
}

// LoadSample appends the embedded sample rows to the world tables.
func LoadSample(ctx context.Context, adp adapter.Adapter) error {
	dir, err := os.MkdirTemp("", "worldpop-seed-*")
	if err != nil {
		return fmt.Errorf("failed to create seed directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	for _, table := range Tables {
		content, err := sampleData.ReadFile("data/" + table + ".csv")
		if err != nil {
			return fmt.Errorf("failed to read sample %s: %w", table, err)
		}

		path := filepath.Join(dir, table+".csv")
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return fmt.Errorf("failed to stage sample %s: %w", table, err)
		}

		if err := adp.LoadCSV(ctx, table, path); err != nil {
			return fmt.Errorf("failed to load sample %s: %w", table, err)
		}
	}
	return nil
}

func countRows(ctx context.Context, adp adapter.Adapter, table string) (int64, error) {
	//nolint:gosec // table name comes from Tables and is quoted by the dialect
	rows, err := adp.Query(ctx, "SELECT COUNT(*) FROM "+adp.Dialect().Ident(table))
	if err != nil {
		return 0, fmt.Errorf("failed to count %s rows: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var n int64
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, fmt.Errorf("failed to scan %s row count: %w", table, err)
		}
	}
	return n, rows.Err()
}
