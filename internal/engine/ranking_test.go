package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/worldpop/internal/testutil"
	"github.com/leapstack-labs/worldpop/pkg/core"
)

func TestTopCountries_ContinentLimit(t *testing.T) {
	cat := &testutil.Fixture{
		Countries: []core.Country{
			{Code: "AAA", Name: "A", Continent: "Asia", Population: 100},
			{Code: "BBB", Name: "B", Continent: "Asia", Population: 50},
			{Code: "CCC", Name: "C", Continent: "Asia", Population: 200},
			{Code: "DDD", Name: "D", Continent: "Europe", Population: 900},
		},
	}

	got, err := newTestEngine(t, cat).TopCountries(context.Background(), core.RankRequest{
		Scope: core.ScopeContinent, Value: "Asia", Limit: core.Limit(2),
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "CCC", got[0].Code)
	assert.Equal(t, "AAA", got[1].Code)
}

func TestTopCountries(t *testing.T) {
	tests := []struct {
		name string
		req  core.RankRequest
		want []string
	}{
		{
			name: "world",
			req:  core.RankRequest{Scope: core.ScopeWorld},
			want: []string{"CHN", "JPN", "DEU", "FRA", "ESP", "MCO", "ATA"},
		},
		{
			name: "world top 3",
			req:  core.RankRequest{Scope: core.ScopeWorld, Limit: core.Limit(3)},
			want: []string{"CHN", "JPN", "DEU"},
		},
		{
			name: "limit above size",
			req:  core.RankRequest{Scope: core.ScopeContinent, Value: "Asia", Limit: core.Limit(50)},
			want: []string{"CHN", "JPN"},
		},
		{
			name: "region ignoring case",
			req:  core.RankRequest{Scope: core.ScopeRegion, Value: "WESTERN EUROPE"},
			want: []string{"DEU", "FRA", "MCO"},
		},
		{
			name: "unknown continent",
			req:  core.RankRequest{Scope: core.ScopeContinent, Value: "Lemuria"},
			want: []string{},
		},
	}

	e := newTestEngine(t, testutil.World())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.TopCountries(context.Background(), tt.req)
			require.NoError(t, err)

			codes := make([]string, len(got))
			for i, c := range got {
				codes[i] = c.Code
			}
			assert.Equal(t, tt.want, codes)
		})
	}
}

func TestTopCountries_TieBreak(t *testing.T) {
	cat := &testutil.Fixture{
		Countries: []core.Country{
			{Code: "ZZZ", Name: "Same", Population: 10},
			{Code: "YYY", Name: "Bravo", Population: 10},
			{Code: "AAA", Name: "Same", Population: 10},
			{Code: "XXX", Name: "Alpha", Population: 5},
		},
	}

	got, err := newTestEngine(t, cat).TopCountries(context.Background(), core.RankRequest{Scope: core.ScopeWorld})
	require.NoError(t, err)

	codes := make([]string, len(got))
	for i, c := range got {
		codes[i] = c.Code
	}
	assert.Equal(t, []string{"YYY", "AAA", "ZZZ", "XXX"}, codes)
}

func TestTopCities(t *testing.T) {
	tests := []struct {
		name string
		req  core.RankRequest
		want []string
	}{
		{
			name: "world keeps unresolved cities",
			req:  core.RankRequest{Scope: core.ScopeWorld, Limit: core.Limit(2)},
			want: []string{"Atlantis", "Shanghai"},
		},
		{
			name: "continent drops unresolved cities",
			req:  core.RankRequest{Scope: core.ScopeContinent, Value: "asia"},
			want: []string{"Shanghai", "Peking", "Tokyo"},
		},
		{
			name: "region",
			req:  core.RankRequest{Scope: core.ScopeRegion, Value: "Western Europe", Limit: core.Limit(3)},
			want: []string{"Berlin", "Paris", "Hamburg"},
		},
		{
			name: "country by name",
			req:  core.RankRequest{Scope: core.ScopeCountry, Value: "france"},
			want: []string{"Paris", "Lyon"},
		},
		{
			name: "country by code",
			req:  core.RankRequest{Scope: core.ScopeCountry, Value: "DEU"},
			want: []string{"Berlin", "Hamburg"},
		},
		{
			name: "district",
			req:  core.RankRequest{Scope: core.ScopeDistrict, Value: "île-de-france"},
			want: []string{"Paris"},
		},
		{
			name: "district of an unknown country",
			req:  core.RankRequest{Scope: core.ScopeDistrict, Value: "Ocean"},
			want: []string{"Atlantis"},
		},
	}

	e := newTestEngine(t, testutil.World())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.TopCities(context.Background(), tt.req)
			require.NoError(t, err)

			names := make([]string, len(got))
			for i, c := range got {
				names[i] = c.Name
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestTopCities_DistrictSkipsCountries(t *testing.T) {
	cat := testutil.NewCountingCatalog(testutil.World())

	_, err := newTestEngine(t, cat).TopCities(context.Background(), core.RankRequest{Scope: core.ScopeDistrict, Value: "Tokyo-to"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), cat.Calls())
}

func TestTopCities_SortedAndBounded(t *testing.T) {
	e := newTestEngine(t, testutil.World())

	for limit := 1; limit <= 12; limit++ {
		got, err := e.TopCities(context.Background(), core.RankRequest{Scope: core.ScopeWorld, Limit: core.Limit(limit)})
		require.NoError(t, err)
		assert.Len(t, got, min(limit, 9))
		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, got[i-1].Population, got[i].Population)
		}
	}
}

func TestTopCapitals(t *testing.T) {
	e := newTestEngine(t, testutil.World())
	ctx := context.Background()

	got, err := e.TopCapitals(ctx, core.RankRequest{Scope: core.ScopeWorld})
	require.NoError(t, err)

	names := make([]string, len(got))
	for i, c := range got {
		names[i] = c.CityName
	}
	// Antarctica has no capital and Monaco's capital is not in the catalog.
	assert.Equal(t, []string{"Peking", "Tokyo", "Berlin", "Madrid", "Paris"}, names)
	assert.Equal(t, core.CapitalCity{
		CityName:    "Peking",
		CountryName: "China",
		Population:  21_000_000,
		CityID:      4,
		CountryCode: "CHN",
		Continent:   "Asia",
		Region:      "Eastern Asia",
	}, got[0])

	got, err = e.TopCapitals(ctx, core.RankRequest{Scope: core.ScopeRegion, Value: "western europe", Limit: core.Limit(1)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Berlin", got[0].CityName)
}

func TestTopCapitals_RejectsCityScopes(t *testing.T) {
	cat := testutil.NewCountingCatalog(testutil.World())

	_, err := newTestEngine(t, cat).TopCapitals(context.Background(), core.RankRequest{Scope: core.ScopeCountry, Value: "France"})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	assert.Zero(t, cat.Calls())
}
