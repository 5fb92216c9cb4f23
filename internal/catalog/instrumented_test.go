package catalog_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/worldpop/internal/catalog"
	"github.com/leapstack-labs/worldpop/internal/metrics"
	"github.com/leapstack-labs/worldpop/internal/testutil"
	"github.com/leapstack-labs/worldpop/pkg/core"
)

func TestInstrument_RecordsReads(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	w := testutil.World()
	cat := catalog.Instrument(catalog.NewMemory(w.Countries, w.Cities, w.Languages), m, testutil.NewTestLogger(t))

	_, isAgg := cat.(core.Aggregator)
	assert.False(t, isAgg, "memory catalog cannot aggregate")

	countries, err := cat.ListCountries(context.Background())
	require.NoError(t, err)
	assert.Len(t, countries, len(w.Countries))

	assert.InDelta(t, 1, promtest.ToFloat64(m.CatalogReads.WithLabelValues("list_countries", "ok")), 0)
	assert.InDelta(t, float64(len(w.Countries)), promtest.ToFloat64(m.CatalogRows.WithLabelValues("list_countries")), 0)
}

func TestInstrument_RecordsFailures(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	cat := catalog.Instrument(testutil.FailingCatalog{}, m, nil)

	cities, err := cat.ListCities(context.Background())
	assert.Nil(t, cities)
	assert.ErrorIs(t, err, testutil.ErrCatalogDown)
	assert.InDelta(t, 1, promtest.ToFloat64(m.CatalogReads.WithLabelValues("list_cities", "error")), 0)
}

func TestInstrument_ForwardsAggregator(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	cat := catalog.Instrument(newSeededSQL(t), m, testutil.NewTestLogger(t))

	agg, ok := cat.(core.Aggregator)
	require.True(t, ok)

	world, err := agg.WorldPopulation(context.Background())
	require.NoError(t, err)
	assert.Positive(t, world)
	assert.InDelta(t, 1, promtest.ToFloat64(m.CatalogReads.WithLabelValues("world_population", "ok")), 0)

	_, err = agg.GroupTotals(context.Background(), core.ScopeRegion)
	require.NoError(t, err)
	assert.InDelta(t, 1, promtest.ToFloat64(m.CatalogReads.WithLabelValues("group_totals_region", "ok")), 0)
}

func TestInstrument_NilMetrics(t *testing.T) {
	cat := catalog.Instrument(testutil.World(), nil, nil)
	_, err := cat.ListCountryLanguages(context.Background())
	assert.NoError(t, err)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	w := testutil.World()
	mem := catalog.NewMemory(w.Countries, w.Cities, w.Languages)

	first, err := mem.ListCountries(context.Background())
	require.NoError(t, err)
	first[0].Name = "Changed"

	second, err := mem.ListCountries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, w.Countries[0].Name, second[0].Name)
}

func TestMemory_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := catalog.NewMemory(nil, nil, nil).ListCities(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
