package engine

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/worldpop/pkg/core"
)

// Scopes accepted by each ranking.
var (
	CountryRankScopes = []core.Scope{core.ScopeWorld, core.ScopeContinent, core.ScopeRegion}
	CityRankScopes    = []core.Scope{core.ScopeWorld, core.ScopeContinent, core.ScopeRegion, core.ScopeCountry, core.ScopeDistrict}
	CapitalRankScopes = []core.Scope{core.ScopeWorld, core.ScopeContinent, core.ScopeRegion}
)

// validateRank checks a ranking request before any catalog access.
func validateRank(entity string, req core.RankRequest, allowed []core.Scope) error {
	if !req.Scope.In(allowed...) {
		return &core.ArgumentError{Field: "scope", Reason: fmt.Sprintf("%s cannot be ranked by %q", entity, req.Scope)}
	}
	if req.Scope != core.ScopeWorld && strings.TrimSpace(req.Value) == "" {
		return &core.ArgumentError{Field: "value", Reason: fmt.Sprintf("a %s name is required", req.Scope)}
	}
	return validateLimit(req.Limit)
}

// TopCountries ranks countries by population, descending, then by name and
// code. Scope values match continent or region names ignoring case.
func (e *Engine) TopCountries(ctx context.Context, req core.RankRequest) ([]core.Country, error) {
	if err := validateRank("countries", req, CountryRankScopes); err != nil {
		return nil, err
	}

	countries, err := e.catalog.ListCountries(ctx)
	if err != nil {
		return nil, e.fail(ctx, "top countries", err)
	}

	out := make([]core.Country, 0, len(countries))
	m := newMatcher(req.Value)
	for _, c := range countries {
		if req.Scope == core.ScopeWorld || m.Match(scopeValue(req.Scope, c)) {
			out = append(out, c)
		}
	}

	slices.SortFunc(out, func(a, b core.Country) int {
		if c := cmp.Compare(b.Population, a.Population); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.Code, b.Code)
	})
	return truncate(out, req.Limit), nil
}

// TopCities ranks cities by population, descending, then by name and id.
//
// Continent, region and country scopes resolve each city's country and
// drop cities whose country code is unknown; the country scope matches the
// country name or code. World and district scopes keep every city.
func (e *Engine) TopCities(ctx context.Context, req core.RankRequest) ([]core.City, error) {
	if err := validateRank("cities", req, CityRankScopes); err != nil {
		return nil, err
	}

	needCountries := req.Scope.In(core.ScopeContinent, core.ScopeRegion, core.ScopeCountry)
	g, err := e.load(ctx, needCountries, true, false)
	if err != nil {
		return nil, e.fail(ctx, "top cities", err)
	}

	byCode := indexCountries(g.countries)
	m := newMatcher(req.Value)

	out := make([]core.City, 0, len(g.cities))
	for _, city := range g.cities {
		var keep bool
		switch req.Scope {
		case core.ScopeWorld:
			keep = true
		case core.ScopeDistrict:
			keep = m.Match(city.District)
		case core.ScopeCountry:
			country, ok := byCode[city.CountryCode]
			keep = ok && m.Match(country.Name, country.Code)
		default:
			country, ok := byCode[city.CountryCode]
			keep = ok && m.Match(scopeValue(req.Scope, country))
		}
		if keep {
			out = append(out, city)
		}
	}

	slices.SortFunc(out, func(a, b core.City) int {
		if c := cmp.Compare(b.Population, a.Population); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return truncate(out, req.Limit), nil
}

// TopCapitals ranks capital cities by population, descending, then by city
// name and id. Countries without a resolvable capital contribute no row.
func (e *Engine) TopCapitals(ctx context.Context, req core.RankRequest) ([]core.CapitalCity, error) {
	if err := validateRank("capitals", req, CapitalRankScopes); err != nil {
		return nil, err
	}

	g, err := e.load(ctx, true, true, false)
	if err != nil {
		return nil, e.fail(ctx, "top capitals", err)
	}

	cityByID := make(map[int64]core.City, len(g.cities))
	for _, city := range g.cities {
		cityByID[city.ID] = city
	}

	m := newMatcher(req.Value)
	out := make([]core.CapitalCity, 0, len(g.countries))
	for _, country := range g.countries {
		if !country.HasCapital() {
			continue
		}
		city, ok := cityByID[country.Capital]
		if !ok {
			continue
		}
		if req.Scope != core.ScopeWorld && !m.Match(scopeValue(req.Scope, country)) {
			continue
		}
		out = append(out, core.CapitalCity{
			CityName:    city.Name,
			CountryName: country.Name,
			Population:  city.Population,
			CityID:      city.ID,
			CountryCode: country.Code,
			Continent:   country.Continent,
			Region:      country.Region,
		})
	}

	slices.SortFunc(out, func(a, b core.CapitalCity) int {
		if c := cmp.Compare(b.Population, a.Population); c != 0 {
			return c
		}
		if c := cmp.Compare(a.CityName, b.CityName); c != 0 {
			return c
		}
		return cmp.Compare(a.CityID, b.CityID)
	})
	return truncate(out, req.Limit), nil
}

// scopeValue returns the country attribute a continent or region scope filters on.
func scopeValue(scope core.Scope, c core.Country) string {
	if scope == core.ScopeRegion {
		return c.Region
	}
	return c.Continent
}

func indexCountries(countries []core.Country) map[string]core.Country {
	byCode := make(map[string]core.Country, len(countries))
	for _, c := range countries {
		byCode[c.Code] = c
	}
	return byCode
}
