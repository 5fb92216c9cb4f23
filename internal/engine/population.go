package engine

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/worldpop/pkg/core"
)

// Population returns the population of one scope instance.
//
// Continent, region and country totals are the breakdown totals of that
// group. A district is the sum of its cities; a city is the first match by
// id. The boolean is false when nothing matches; the world always matches.
func (e *Engine) Population(ctx context.Context, scope core.Scope, name string) (int64, bool, error) {
	if !scope.In(core.AllScopes...) {
		return 0, false, &core.ArgumentError{Field: "scope", Reason: fmt.Sprintf("unknown scope %q", scope)}
	}
	if scope != core.ScopeWorld && strings.TrimSpace(name) == "" {
		return 0, false, &core.ArgumentError{Field: "name", Reason: fmt.Sprintf("a %s name is required", scope)}
	}

	switch scope {
	case core.ScopeWorld:
		world, err := e.worldPopulation(ctx)
		if err != nil {
			return 0, false, e.fail(ctx, "world population", err)
		}
		return world, true, nil

	case core.ScopeContinent, core.ScopeRegion, core.ScopeCountry:
		b, ok, err := e.BreakdownOne(ctx, scope, name)
		return b.TotalPopulation, ok, err

	default:
		cities, err := e.catalog.ListCities(ctx)
		if err != nil {
			return 0, false, e.fail(ctx, scope.String()+" population", err)
		}
		total, found := cityPopulation(scope, name, cities)
		return total, found, nil
	}
}

func (e *Engine) worldPopulation(ctx context.Context) (int64, error) {
	if e.aggregator != nil {
		return e.aggregator.WorldPopulation(ctx)
	}

	countries, err := e.catalog.ListCountries(ctx)
	if err != nil {
		return 0, err
	}
	var world int64
	for _, c := range countries {
		world += c.Population
	}
	return world, nil
}

// cityPopulation sums a district or finds a single city.
func cityPopulation(scope core.Scope, name string, cities []core.City) (int64, bool) {
	m := newMatcher(name)

	if scope == core.ScopeDistrict {
		var (
			total int64
			found bool
		)
		for _, c := range cities {
			if m.Match(c.District) {
				total += c.Population
				found = true
			}
		}
		return total, found
	}

	matches := make([]core.City, 0, 1)
	for _, c := range cities {
		if m.Match(c.Name) {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		return 0, false
	}
	first := slices.MinFunc(matches, func(a, b core.City) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return first.Population, true
}
