package engine

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/leapstack-labs/worldpop/pkg/core"
)

// Breakdown splits population into city and non-city parts per scope value.
//
// With an empty filter it returns one row per distinct continent, region or
// country, ordered by total population descending, then name. With a filter
// it returns at most one row: the group whose name (or, for countries, code)
// equals the filter ignoring case. When several groups match, the most
// populous one is returned and a warning is logged.
//
// Countries are grouped by name and population, so two distinct countries
// sharing both are reported as one row.
func (e *Engine) Breakdown(ctx context.Context, scope core.Scope, filter string) ([]core.PopulationBreakdown, error) {
	if !scope.In(core.BreakdownScopes...) {
		return nil, &core.ArgumentError{Field: "scope", Reason: fmt.Sprintf("cannot break down population by %q", scope)}
	}

	totals, err := e.groupTotals(ctx, scope)
	if err != nil {
		return nil, e.fail(ctx, "breakdown", err)
	}

	groups := mergeGroups(scope, totals)
	filtered := strings.TrimSpace(filter) != ""

	if filtered {
		m := newMatcher(filter)
		matched := make([]group, 0, 1)
		for _, g := range groups {
			if m.Match(g.name) || m.Match(g.codes...) {
				matched = append(matched, g)
			}
		}
		groups = matched
	}

	sortGroups(groups)

	if filtered && len(groups) > 1 {
		e.logger.WarnContext(ctx, "breakdown filter matched several groups, using the most populous",
			slog.String("scope", scope.String()),
			slog.String("filter", filter),
			slog.Int("matches", len(groups)))
		groups = groups[:1]
	}

	out := make([]core.PopulationBreakdown, len(groups))
	for i, g := range groups {
		out[i] = g.breakdown(scope)
	}
	return out, nil
}

// BreakdownOne returns the breakdown of a single named scope instance.
// The boolean is false when nothing matches, which is distinct from a
// match with zero population.
func (e *Engine) BreakdownOne(ctx context.Context, scope core.Scope, name string) (core.PopulationBreakdown, bool, error) {
	if strings.TrimSpace(name) == "" {
		return core.PopulationBreakdown{}, false, &core.ArgumentError{Field: "name", Reason: "is required"}
	}

	rows, err := e.Breakdown(ctx, scope, name)
	if err != nil || len(rows) == 0 {
		return core.PopulationBreakdown{}, false, err
	}
	return rows[0], true, nil
}

// group is one row of a breakdown before percentages are computed.
type group struct {
	name     string
	codes    []string
	total    int64
	inCities int64
}

func (g group) breakdown(scope core.Scope) core.PopulationBreakdown {
	notInCities := g.total - g.inCities
	return core.PopulationBreakdown{
		Scope:                 scope,
		Name:                  g.name,
		TotalPopulation:       g.total,
		PopulationInCities:    g.inCities,
		PopulationNotInCities: notInCities,
		InCitiesPercentage:    percent(g.inCities, g.total),
		NotInCitiesPercentage: percent(notInCities, g.total),
	}
}

// groupTotals returns raw sums per group, from the data store when
// pushdown is enabled.
func (e *Engine) groupTotals(ctx context.Context, scope core.Scope) ([]core.GroupTotal, error) {
	if e.aggregator != nil {
		return e.aggregator.GroupTotals(ctx, scope)
	}

	g, err := e.load(ctx, true, true, false)
	if err != nil {
		return nil, err
	}
	return groupTotals(scope, g.countries, g.cities), nil
}

// groupTotals aggregates in memory with the same semantics as the SQL
// pushdown: city populations are summed per country first, and a country
// without cities contributes its whole population.
func groupTotals(scope core.Scope, countries []core.Country, cities []core.City) []core.GroupTotal {
	inCities := make(map[string]int64, len(countries))
	for _, c := range cities {
		inCities[c.CountryCode] += c.Population
	}

	if scope == core.ScopeCountry {
		out := make([]core.GroupTotal, 0, len(countries))
		for _, c := range countries {
			out = append(out, core.GroupTotal{
				Key:        c.Name,
				Code:       c.Code,
				Population: c.Population,
				InCities:   inCities[c.Code],
			})
		}
		return out
	}

	index := make(map[string]int)
	var out []core.GroupTotal
	for _, c := range countries {
		key := c.Continent
		if scope == core.ScopeRegion {
			key = c.Region
		}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, core.GroupTotal{Key: key})
		}
		out[i].Population += c.Population
		out[i].InCities += inCities[c.Code]
	}
	return out
}

// mergeGroups folds raw totals into breakdown groups. Countries merge on
// (name, population) and keep that population as their total.
func mergeGroups(scope core.Scope, totals []core.GroupTotal) []group {
	index := make(map[string]int, len(totals))
	groups := make([]group, 0, len(totals))

	for _, t := range totals {
		key := t.Key
		if scope == core.ScopeCountry {
			key += "\x00" + strconv.FormatInt(t.Population, 10)
		}

		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, group{name: t.Key})
		}

		g := &groups[i]
		if scope == core.ScopeCountry {
			g.total = t.Population
		} else {
			g.total += t.Population
		}
		g.inCities += t.InCities
		if t.Code != "" {
			g.codes = append(g.codes, t.Code)
		}
	}

	for i := range groups {
		slices.Sort(groups[i].codes)
	}
	return groups
}

func sortGroups(groups []group) {
	slices.SortFunc(groups, func(a, b group) int {
		if c := cmp.Compare(b.total, a.total); c != 0 {
			return c
		}
		if c := cmp.Compare(a.name, b.name); c != 0 {
			return c
		}
		return slices.Compare(a.codes, b.codes)
	})
}
