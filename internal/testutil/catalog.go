package testutil

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"

	"github.com/leapstack-labs/worldpop/pkg/core"
)

// ErrCatalogDown is returned by FailingCatalog.
var ErrCatalogDown = errors.New("catalog unavailable")

// Fixture is an in-memory catalog: plain slices returned as copies.
type Fixture struct {
	Countries []core.Country
	Cities    []core.City
	Languages []core.CountryLanguage
}

// ListCountries returns a copy of the countries.
func (f *Fixture) ListCountries(ctx context.Context) ([]core.Country, error) {
	return slices.Clone(f.Countries), ctx.Err()
}

// ListCities returns a copy of the cities.
func (f *Fixture) ListCities(ctx context.Context) ([]core.City, error) {
	return slices.Clone(f.Cities), ctx.Err()
}

// ListCountryLanguages returns a copy of the language rows.
func (f *Fixture) ListCountryLanguages(ctx context.Context) ([]core.CountryLanguage, error) {
	return slices.Clone(f.Languages), ctx.Err()
}

// CountingCatalog counts the reads made through it.
type CountingCatalog struct {
	core.Catalog

	countries atomic.Int64
	cities    atomic.Int64
	languages atomic.Int64
}

// NewCountingCatalog wraps cat.
func NewCountingCatalog(cat core.Catalog) *CountingCatalog {
	return &CountingCatalog{Catalog: cat}
}

// ListCountries counts and delegates.
func (c *CountingCatalog) ListCountries(ctx context.Context) ([]core.Country, error) {
	c.countries.Add(1)
	return c.Catalog.ListCountries(ctx)
}

// ListCities counts and delegates.
func (c *CountingCatalog) ListCities(ctx context.Context) ([]core.City, error) {
	c.cities.Add(1)
	return c.Catalog.ListCities(ctx)
}

// ListCountryLanguages counts and delegates.
func (c *CountingCatalog) ListCountryLanguages(ctx context.Context) ([]core.CountryLanguage, error) {
	c.languages.Add(1)
	return c.Catalog.ListCountryLanguages(ctx)
}

// Calls returns the total number of reads.
func (c *CountingCatalog) Calls() int64 {
	return c.countries.Load() + c.cities.Load() + c.languages.Load()
}

// FailingCatalog fails every read with Err, or ErrCatalogDown when Err is nil.
type FailingCatalog struct {
	Err error
}

func (f FailingCatalog) err() error {
	if f.Err != nil {
		return f.Err
	}
	return ErrCatalogDown
}

// ListCountries fails.
func (f FailingCatalog) ListCountries(context.Context) ([]core.Country, error) {
	return nil, f.err()
}

// ListCities fails.
func (f FailingCatalog) ListCities(context.Context) ([]core.City, error) {
	return nil, f.err()
}

// ListCountryLanguages fails.
func (f FailingCatalog) ListCountryLanguages(context.Context) ([]core.CountryLanguage, error) {
	return nil, f.err()
}

// World returns a small catalog covering every scope: two continents, three
// regions, duplicated country names, a city with an unknown country code, a
// country without cities and a country without a capital.
func World() *Fixture {
	return &Fixture{
		Countries: []core.Country{
			{Code: "FRA", Name: "France", Continent: "Europe", Region: "Western Europe", Population: 67_000_000, Capital: 1},
			{Code: "DEU", Name: "Germany", Continent: "Europe", Region: "Western Europe", Population: 83_000_000, Capital: 2},
			{Code: "ESP", Name: "Spain", Continent: "Europe", Region: "Southern Europe", Population: 47_000_000, Capital: 3},
			{Code: "CHN", Name: "China", Continent: "Asia", Region: "Eastern Asia", Population: 1_400_000_000, Capital: 4},
			{Code: "JPN", Name: "Japan", Continent: "Asia", Region: "Eastern Asia", Population: 125_000_000, Capital: 5},
			{Code: "ATA", Name: "Antarctica", Continent: "Antarctica", Region: "Antarctica", Population: 0},
			{Code: "MCO", Name: "Monaco", Continent: "Europe", Region: "Western Europe", Population: 38_000, Capital: 99},
		},
		Cities: []core.City{
			{ID: 1, Name: "Paris", CountryCode: "FRA", District: "Île-de-France", Population: 2_200_000},
			{ID: 6, Name: "Lyon", CountryCode: "FRA", District: "Rhône-Alpes", Population: 500_000},
			{ID: 2, Name: "Berlin", CountryCode: "DEU", District: "Berliini", Population: 3_600_000},
			{ID: 7, Name: "Hamburg", CountryCode: "DEU", District: "Hamburg", Population: 1_800_000},
			{ID: 3, Name: "Madrid", CountryCode: "ESP", District: "Madrid", Population: 3_200_000},
			{ID: 4, Name: "Peking", CountryCode: "CHN", District: "Peking", Population: 21_000_000},
			{ID: 8, Name: "Shanghai", CountryCode: "CHN", District: "Shanghai", Population: 24_000_000},
			{ID: 5, Name: "Tokyo", CountryCode: "JPN", District: "Tokyo-to", Population: 14_000_000},
			{ID: 9, Name: "Atlantis", CountryCode: "XXX", District: "Ocean", Population: 50_000_000},
		},
		Languages: []core.CountryLanguage{
			{CountryCode: "FRA", Language: "French", IsOfficial: true, Percentage: 93.6},
			{CountryCode: "DEU", Language: "German", IsOfficial: true, Percentage: 91.3},
			{CountryCode: "ESP", Language: "Spanish", IsOfficial: true, Percentage: 74.4},
			{CountryCode: "FRA", Language: "Spanish", Percentage: 0.4},
			{CountryCode: "CHN", Language: "Chinese", IsOfficial: true, Percentage: 92.0},
			{CountryCode: "JPN", Language: "Japanese", IsOfficial: true, Percentage: 99.1},
			{CountryCode: "JPN", Language: "English", Percentage: 0.1},
			{CountryCode: "XXX", Language: "English", Percentage: 100},
		},
	}
}
