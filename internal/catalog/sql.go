package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/worldpop/pkg/adapter"
	"github.com/leapstack-labs/worldpop/pkg/core"
	"github.com/leapstack-labs/worldpop/pkg/dialect"
	"github.com/leapstack-labs/worldpop/pkg/query"
)

// SQL reads the catalog from a relational database through an adapter.
// It also implements core.Aggregator so sums can be computed by the
// database. Every failure is returned as a *core.DataAccessError.
type SQL struct {
	adapter adapter.Adapter
	queries *query.Builder
	logger  *slog.Logger
}

// NewSQL creates a SQL catalog. The statements are rendered for d, or for
// the adapter's own dialect when d is nil.
func NewSQL(adp adapter.Adapter, d *dialect.Dialect, logger *slog.Logger) (*SQL, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if d == nil {
		d = adp.Dialect()
	}

	queries, err := query.New(d)
	if err != nil {
		return nil, fmt.Errorf("failed to create query builder: %w", err)
	}

	return &SQL{adapter: adp, queries: queries, logger: logger}, nil
}

// Queries returns the statement builder used by the catalog.
func (s *SQL) Queries() *query.Builder {
	return s.queries
}

// ListCountries returns every country. NULL populations and capitals read as 0.
func (s *SQL) ListCountries(ctx context.Context) ([]core.Country, error) {
	q, err := s.queries.ListCountries()
	if err != nil {
		return nil, core.NewDataAccessError("list countries", err)
	}
	return queryAll(ctx, s, q, func(r *core.Rows) (core.Country, error) {
		var c core.Country
		err := r.Scan(&c.Code, &c.Name, &c.Continent, &c.Region, &c.Population, &c.Capital)
		return c, err
	})
}

// ListCities returns every city. NULL populations read as 0.
func (s *SQL) ListCities(ctx context.Context) ([]core.City, error) {
	q, err := s.queries.ListCities()
	if err != nil {
		return nil, core.NewDataAccessError("list cities", err)
	}
	return queryAll(ctx, s, q, func(r *core.Rows) (core.City, error) {
		var c core.City
		err := r.Scan(&c.ID, &c.Name, &c.CountryCode, &c.District, &c.Population)
		return c, err
	})
}

// ListCountryLanguages returns every country-language pair.
func (s *SQL) ListCountryLanguages(ctx context.Context) ([]core.CountryLanguage, error) {
	q, err := s.queries.ListCountryLanguages()
	if err != nil {
		return nil, core.NewDataAccessError("list country languages", err)
	}
	return queryAll(ctx, s, q, func(r *core.Rows) (core.CountryLanguage, error) {
		var (
			cl       core.CountryLanguage
			official int64
		)
		err := r.Scan(&cl.CountryCode, &cl.Language, &official, &cl.Percentage)
		cl.IsOfficial = official != 0
		return cl, err
	})
}

// GroupTotals aggregates country and city populations per scope value in
// the database.
func (s *SQL) GroupTotals(ctx context.Context, scope core.Scope) ([]core.GroupTotal, error) {
	q, err := s.queries.GroupTotals(scope)
	if err != nil {
		return nil, err
	}
	return queryAll(ctx, s, q, func(r *core.Rows) (core.GroupTotal, error) {
		var g core.GroupTotal
		err := r.Scan(&g.Key, &g.Code, &g.Population, &g.InCities)
		return g, err
	})
}

// SpeakerTotals computes weighted speaker sums in the database.
func (s *SQL) SpeakerTotals(ctx context.Context, languages []string) ([]core.SpeakerTotal, error) {
	q, err := s.queries.SpeakerTotals(languages)
	if err != nil {
		return nil, err
	}
	return queryAll(ctx, s, q, func(r *core.Rows) (core.SpeakerTotal, error) {
		var t core.SpeakerTotal
		err := r.Scan(&t.Language, &t.Weighted, &t.Countries)
		return t, err
	})
}

// WorldPopulation sums every country population in the database.
func (s *SQL) WorldPopulation(ctx context.Context) (int64, error) {
	q, err := s.queries.WorldPopulation()
	if err != nil {
		return 0, core.NewDataAccessError("world population", err)
	}
	totals, err := queryAll(ctx, s, q, func(r *core.Rows) (int64, error) {
		var n int64
		err := r.Scan(&n)
		return n, err
	})
	if err != nil {
		return 0, err
	}
	if len(totals) == 0 {
		return 0, nil
	}
	return totals[0], nil
}

// queryAll runs q and scans every row with scan.
func queryAll[T any](ctx context.Context, s *SQL, q query.Query, scan func(*core.Rows) (T, error)) ([]T, error) {
	s.logger.DebugContext(ctx, "running catalog query", slog.String("query", q.Name))

	rows, err := s.adapter.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, core.NewDataAccessError(q.Name, err)
	}
	defer func() { _ = rows.Close() }()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, core.NewDataAccessError(q.Name, fmt.Errorf("failed to scan row: %w", err))
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewDataAccessError(q.Name, err)
	}
	return out, nil
}

var (
	_ core.Catalog    = (*SQL)(nil)
	_ core.Aggregator = (*SQL)(nil)
)
