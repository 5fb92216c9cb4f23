// Package catalog provides the implementations of core.Catalog: an
// in-memory snapshot, a SQL catalog reading through a database adapter, and
// an instrumented decorator.
package catalog

import (
	"context"
	"slices"

	"github.com/leapstack-labs/worldpop/pkg/core"
)

// Memory is an immutable in-memory catalog. Every listing returns a copy.
type Memory struct {
	countries []core.Country
	cities    []core.City
	languages []core.CountryLanguage
}

// NewMemory snapshots the given records.
func NewMemory(countries []core.Country, cities []core.City, languages []core.CountryLanguage) *Memory {
	return &Memory{
		countries: slices.Clone(countries),
		cities:    slices.Clone(cities),
		languages: slices.Clone(languages),
	}
}

// ListCountries returns every country.
func (m *Memory) ListCountries(ctx context.Context) ([]core.Country, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(m.countries), nil
}

// ListCities returns every city.
func (m *Memory) ListCities(ctx context.Context) ([]core.City, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(m.cities), nil
}

// ListCountryLanguages returns every country-language pair.
func (m *Memory) ListCountryLanguages(ctx context.Context) ([]core.CountryLanguage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(m.languages), nil
}

var _ core.Catalog = (*Memory)(nil)
