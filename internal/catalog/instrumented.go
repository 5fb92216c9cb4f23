package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/leapstack-labs/worldpop/internal/metrics"
	"github.com/leapstack-labs/worldpop/pkg/core"
)

// Instrumented decorates a catalog with metrics and debug logging.
type Instrumented struct {
	inner   core.Catalog
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// instrumentedAggregator additionally forwards core.Aggregator.
type instrumentedAggregator struct {
	*Instrumented
	agg core.Aggregator
}

// Instrument wraps cat. The result implements core.Aggregator exactly when
// cat does. Both m and logger may be nil.
func Instrument(cat core.Catalog, m *metrics.Metrics, logger *slog.Logger) core.Catalog {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	inst := &Instrumented{inner: cat, metrics: m, logger: logger}
	if agg, ok := cat.(core.Aggregator); ok {
		return &instrumentedAggregator{Instrumented: inst, agg: agg}
	}
	return inst
}

// observe records the outcome of one read.
func observe[T any](ctx context.Context, i *Instrumented, op string, read func() ([]T, error)) ([]T, error) {
	start := time.Now()
	out, err := read()
	elapsed := time.Since(start)

	i.metrics.ObserveCatalogRead(op, elapsed, len(out), err)
	if err != nil {
		i.logger.DebugContext(ctx, "catalog read failed",
			slog.String("op", op),
			slog.Duration("duration", elapsed),
			slog.Any("error", err))
		return nil, err
	}
	i.logger.DebugContext(ctx, "catalog read",
		slog.String("op", op),
		slog.Int("rows", len(out)),
		slog.Duration("duration", elapsed))
	return out, nil
}

// ListCountries implements core.Catalog.
func (i *Instrumented) ListCountries(ctx context.Context) ([]core.Country, error) {
	return observe(ctx, i, "list_countries", func() ([]core.Country, error) {
		return i.inner.ListCountries(ctx)
	})
}

// ListCities implements core.Catalog.
func (i *Instrumented) ListCities(ctx context.Context) ([]core.City, error) {
	return observe(ctx, i, "list_cities", func() ([]core.City, error) {
		return i.inner.ListCities(ctx)
	})
}

// ListCountryLanguages implements core.Catalog.
func (i *Instrumented) ListCountryLanguages(ctx context.Context) ([]core.CountryLanguage, error) {
	return observe(ctx, i, "list_country_languages", func() ([]core.CountryLanguage, error) {
		return i.inner.ListCountryLanguages(ctx)
	})
}

func (a *instrumentedAggregator) GroupTotals(ctx context.Context, scope core.Scope) ([]core.GroupTotal, error) {
	return observe(ctx, a.Instrumented, "group_totals_"+scope.String(), func() ([]core.GroupTotal, error) {
		return a.agg.GroupTotals(ctx, scope)
	})
}

func (a *instrumentedAggregator) SpeakerTotals(ctx context.Context, languages []string) ([]core.SpeakerTotal, error) {
	return observe(ctx, a.Instrumented, "speaker_totals", func() ([]core.SpeakerTotal, error) {
		return a.agg.SpeakerTotals(ctx, languages)
	})
}

func (a *instrumentedAggregator) WorldPopulation(ctx context.Context) (int64, error) {
	var world int64
	_, err := observe(ctx, a.Instrumented, "world_population", func() ([]int64, error) {
		var err error
		world, err = a.agg.WorldPopulation(ctx)
		if err != nil {
			return nil, err
		}
		return []int64{world}, nil
	})
	return world, err
}

var (
	_ core.Catalog    = (*Instrumented)(nil)
	_ core.Aggregator = (*instrumentedAggregator)(nil)
)
