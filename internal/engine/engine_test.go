package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/worldpop/internal/testutil"
	"github.com/leapstack-labs/worldpop/pkg/core"
)

func newTestEngine(t *testing.T, cat core.Catalog) *Engine {
	t.Helper()
	return New(cat, WithLogger(testutil.NewTestLogger(t)))
}

func TestNew_PushdownRequiresAggregator(t *testing.T) {
	e := New(testutil.World(), WithPushdown(true))
	assert.False(t, e.Pushdown(), "fixture catalog cannot aggregate")

	e = New(testutil.World())
	assert.False(t, e.Pushdown())
}

func TestEngine_InvalidArgumentsSkipCatalog(t *testing.T) {
	tests := []struct {
		name string
		call func(e *Engine) error
	}{
		{
			name: "zero limit",
			call: func(e *Engine) error {
				_, err := e.TopCountries(context.Background(), core.RankRequest{Scope: core.ScopeWorld, Limit: core.Limit(0)})
				return err
			},
		},
		{
			name: "negative limit",
			call: func(e *Engine) error {
				_, err := e.TopCities(context.Background(), core.RankRequest{Scope: core.ScopeWorld, Limit: core.Limit(-3)})
				return err
			},
		},
		{
			name: "blank capital scope value",
			call: func(e *Engine) error {
				_, err := e.TopCapitals(context.Background(), core.RankRequest{Scope: core.ScopeContinent, Value: "  ", Limit: core.Limit(5)})
				return err
			},
		},
		{
			name: "countries by district",
			call: func(e *Engine) error {
				_, err := e.TopCountries(context.Background(), core.RankRequest{Scope: core.ScopeDistrict, Value: "Madrid"})
				return err
			},
		},
		{
			name: "breakdown by city",
			call: func(e *Engine) error {
				_, err := e.Breakdown(context.Background(), core.ScopeCity, "")
				return err
			},
		},
		{
			name: "single breakdown without name",
			call: func(e *Engine) error {
				_, _, err := e.BreakdownOne(context.Background(), core.ScopeCountry, "")
				return err
			},
		},
		{
			name: "population without name",
			call: func(e *Engine) error {
				_, _, err := e.Population(context.Background(), core.ScopeDistrict, "")
				return err
			},
		},
		{
			name: "population of unknown scope",
			call: func(e *Engine) error {
				_, _, err := e.Population(context.Background(), core.Scope("planet"), "Earth")
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := testutil.NewCountingCatalog(testutil.World())
			err := tt.call(newTestEngine(t, cat))

			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrInvalidArgument)
			var argErr *core.ArgumentError
			assert.ErrorAs(t, err, &argErr)
			assert.Zero(t, cat.Calls(), "catalog must not be queried")
		})
	}
}

func TestEngine_DataAccessFailure(t *testing.T) {
	e := newTestEngine(t, testutil.FailingCatalog{})
	ctx := context.Background()

	countries, err := e.TopCountries(ctx, core.RankRequest{Scope: core.ScopeWorld})
	assert.Nil(t, countries)
	assertDataAccess(t, err)

	cities, err := e.TopCities(ctx, core.RankRequest{Scope: core.ScopeCountry, Value: "France"})
	assert.Nil(t, cities)
	assertDataAccess(t, err)

	capitals, err := e.TopCapitals(ctx, core.RankRequest{Scope: core.ScopeWorld})
	assert.Nil(t, capitals)
	assertDataAccess(t, err)

	rows, err := e.Breakdown(ctx, core.ScopeRegion, "")
	assert.Nil(t, rows)
	assertDataAccess(t, err)

	_, found, err := e.BreakdownOne(ctx, core.ScopeCountry, "France")
	assert.False(t, found)
	assertDataAccess(t, err)

	stats, err := e.LanguageStatistics(ctx)
	assert.Nil(t, stats)
	assertDataAccess(t, err)

	pop, found, err := e.Population(ctx, core.ScopeCity, "Paris")
	assert.Zero(t, pop)
	assert.False(t, found)
	assertDataAccess(t, err)

	_, _, err = e.Population(ctx, core.ScopeWorld, "")
	assertDataAccess(t, err)
}

func assertDataAccess(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDataAccess)
	assert.ErrorIs(t, err, testutil.ErrCatalogDown)
	assert.False(t, errors.Is(err, core.ErrInvalidArgument))
}

func TestEngine_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestEngine(t, testutil.World()).TopCities(ctx, core.RankRequest{Scope: core.ScopeWorld})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, core.ErrDataAccess, "a canceled caller is not a data access failure")
}

func TestEngine_DeadlineExceeded(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := newTestEngine(t, testutil.World()).Breakdown(ctx, core.ScopeContinent, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, core.ErrDataAccess)
}

func TestEngine_Idempotent(t *testing.T) {
	e := newTestEngine(t, testutil.World())
	ctx := context.Background()

	first, err := e.Breakdown(ctx, core.ScopeRegion, "")
	require.NoError(t, err)
	second, err := e.Breakdown(ctx, core.ScopeRegion, "")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	stats1, err := e.LanguageStatistics(ctx)
	require.NoError(t, err)
	stats2, err := e.LanguageStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats1, stats2)
}

func TestRoundDiv(t *testing.T) {
	tests := []struct {
		n, d, want int64
	}{
		{10, 4, 3},
		{9, 4, 2},
		{-10, 4, -3},
		{-9, 4, -2},
		{0, 7, 0},
		{328358, 1000, 328},
		{5, 10, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, roundDiv(tt.n, tt.d), "roundDiv(%d, %d)", tt.n, tt.d)
	}
}

func TestPercent(t *testing.T) {
	assert.InDelta(t, 3.28, percent(2_200_000, 67_000_000), 1e-9)
	assert.InDelta(t, 96.72, percent(64_800_000, 67_000_000), 1e-9)
	assert.Zero(t, percent(10, 0))
	assert.Zero(t, percent(0, -5))
	assert.InDelta(t, -50.0, percent(-1, 2), 1e-9)
}

func TestMatcher(t *testing.T) {
	m := newMatcher("  western EUROPE ")
	assert.True(t, m.Match("Western Europe"))
	assert.False(t, m.Match("Western Europ"))
	assert.True(t, m.Match("Southern Europe", "Western Europe"))

	assert.True(t, newMatcher("ÎLE-DE-FRANCE").Match("Île-de-France"))
}
