// Package engine computes population reports over a geo catalog.
// It provides urban/rural breakdowns per scope, top-N rankings of countries,
// cities and capitals, language-speaker estimates and population lookups.
//
// The engine is pure read/aggregate logic: it never sees SQL. When the
// catalog also implements core.Aggregator and pushdown is enabled, the
// integer sums are computed by the data store; rounding, percentages and
// ordering always happen here so both paths return identical results.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/worldpop/pkg/core"
)

// Engine answers population queries. It holds no mutable state and is safe
// for concurrent use.
type Engine struct {
	catalog    core.Catalog
	aggregator core.Aggregator
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for warnings and data access failures.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithPushdown enables aggregation in the data store when the catalog
// implements core.Aggregator.
func WithPushdown(enabled bool) Option {
	return func(e *Engine) {
		e.aggregator = nil
		if !enabled {
			return
		}
		if agg, ok := e.catalog.(core.Aggregator); ok {
			e.aggregator = agg
		}
	}
}

// New creates an engine reading from cat. Pushdown is off unless
// WithPushdown(true) is given.
func New(cat core.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog: cat,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Pushdown reports whether aggregation runs in the data store.
func (e *Engine) Pushdown() bool {
	return e.aggregator != nil
}

// fail logs a data access failure and returns it as a typed error.
// A canceled or expired context is the caller's doing: it is returned
// as a context error and logged at debug level.
func (e *Engine) fail(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		e.logger.DebugContext(ctx, "catalog read abandoned", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	err = core.NewDataAccessError(op, err)
	e.logger.ErrorContext(ctx, "catalog read failed", slog.String("op", op), slog.Any("error", err))
	return err
}

// geo holds the catalog lists an operation needs.
type geo struct {
	countries []core.Country
	cities    []core.City
	languages []core.CountryLanguage
}

// load fetches the requested lists concurrently.
func (e *Engine) load(ctx context.Context, countries, cities, languages bool) (*geo, error) {
	var g geo
	eg, egctx := errgroup.WithContext(ctx)

	if countries {
		eg.Go(func() error {
			var err error
			g.countries, err = e.catalog.ListCountries(egctx)
			return err
		})
	}
	if cities {
		eg.Go(func() error {
			var err error
			g.cities, err = e.catalog.ListCities(egctx)
			return err
		})
	}
	if languages {
		eg.Go(func() error {
			var err error
			g.languages, err = e.catalog.ListCountryLanguages(egctx)
			return err
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return &g, nil
}

// validateLimit rejects a non-nil, non-positive limit.
func validateLimit(limit *int) error {
	if limit != nil && *limit <= 0 {
		return &core.ArgumentError{Field: "limit", Reason: "must be positive"}
	}
	return nil
}

// truncate applies an optional limit to an ordered slice.
func truncate[T any](items []T, limit *int) []T {
	if limit != nil && *limit < len(items) {
		return items[:*limit]
	}
	return items
}
