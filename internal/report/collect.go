package report

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/worldpop/pkg/core"
)

// Source answers the queries behind the full report. *engine.Engine
// implements it.
type Source interface {
	TopCountries(ctx context.Context, req core.RankRequest) ([]core.Country, error)
	TopCities(ctx context.Context, req core.RankRequest) ([]core.City, error)
	TopCapitals(ctx context.Context, req core.RankRequest) ([]core.CapitalCity, error)
	Breakdown(ctx context.Context, scope core.Scope, filter string) ([]core.PopulationBreakdown, error)
	Population(ctx context.Context, scope core.Scope, name string) (int64, bool, error)
	LanguageStatistics(ctx context.Context) ([]core.LanguageStats, error)
}

// collectConcurrency bounds the queries the full report runs at once.
const collectConcurrency = 4

// Entry is one report of the full listing.
type Entry struct {
	Title string
	run   func(ctx context.Context, src Source) (Report, error)
}

// Run queries src and builds the report.
func (e Entry) Run(ctx context.Context, src Source) (Report, error) {
	return e.run(ctx, src)
}

// Collect runs every entry of the full listing with the given defaults and
// returns the reports in listing order. The first failure cancels the
// remaining queries.
func Collect(ctx context.Context, src Source, defaults core.ReportDefaults) ([]Report, error) {
	entries := Entries(defaults)
	reports := make([]Report, len(entries))

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(collectConcurrency)
	for i, entry := range entries {
		eg.Go(func() error {
			rep, err := entry.Run(egctx, src)
			if err != nil {
				return err
			}
			reports[i] = rep
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// Entries lists the reports of the full listing for the given defaults.
// Entries that need a scope name are left out when its default is blank.
func Entries(d core.ReportDefaults) []Entry {
	var entries []Entry
	add := func(e Entry) { entries = append(entries, e) }
	named := func(v string) bool { return strings.TrimSpace(v) != "" }
	limit := core.Limit(d.Limit)

	// Countries.
	add(countries("All countries in the world", core.RankRequest{Scope: core.ScopeWorld}))
	if named(d.Continent) {
		add(countries(fmt.Sprintf("All countries in %s", d.Continent), core.RankRequest{Scope: core.ScopeContinent, Value: d.Continent}))
	}
	if named(d.Region) {
		add(countries(fmt.Sprintf("All countries in %s", d.Region), core.RankRequest{Scope: core.ScopeRegion, Value: d.Region}))
	}
	add(countries(fmt.Sprintf("Top %d countries in the world", d.Limit), core.RankRequest{Scope: core.ScopeWorld, Limit: limit}))
	if named(d.Continent) {
		add(countries(fmt.Sprintf("Top %d countries in %s", d.Limit, d.Continent), core.RankRequest{Scope: core.ScopeContinent, Value: d.Continent, Limit: limit}))
	}
	if named(d.Region) {
		add(countries(fmt.Sprintf("Top %d countries in %s", d.Limit, d.Region), core.RankRequest{Scope: core.ScopeRegion, Value: d.Region, Limit: limit}))
	}

	// Cities.
	cityScopes := []struct {
		scope core.Scope
		value string
	}{
		{core.ScopeContinent, d.Continent},
		{core.ScopeRegion, d.Region},
		{core.ScopeCountry, d.Country},
		{core.ScopeDistrict, d.District},
	}
	add(cities("All cities in the world", core.RankRequest{Scope: core.ScopeWorld}))
	for _, s := range cityScopes {
		if named(s.value) {
			add(cities(fmt.Sprintf("All cities in %s", s.value), core.RankRequest{Scope: s.scope, Value: s.value}))
		}
	}
	add(cities(fmt.Sprintf("Top %d cities in the world", d.Limit), core.RankRequest{Scope: core.ScopeWorld, Limit: limit}))
	for _, s := range cityScopes {
		if named(s.value) {
			add(cities(fmt.Sprintf("Top %d cities in %s", d.Limit, s.value), core.RankRequest{Scope: s.scope, Value: s.value, Limit: limit}))
		}
	}

	// Capitals.
	add(capitals("All capital cities in the world", core.RankRequest{Scope: core.ScopeWorld}))
	if named(d.Continent) {
		add(capitals(fmt.Sprintf("All capital cities in %s", d.Continent), core.RankRequest{Scope: core.ScopeContinent, Value: d.Continent}))
	}
	if named(d.Region) {
		add(capitals(fmt.Sprintf("All capital cities in %s", d.Region), core.RankRequest{Scope: core.ScopeRegion, Value: d.Region}))
	}
	add(capitals(fmt.Sprintf("Top %d capital cities in the world", d.Limit), core.RankRequest{Scope: core.ScopeWorld, Limit: limit}))
	if named(d.Continent) {
		add(capitals(fmt.Sprintf("Top %d capital cities in %s", d.Limit, d.Continent), core.RankRequest{Scope: core.ScopeContinent, Value: d.Continent, Limit: limit}))
	}
	if named(d.Region) {
		add(capitals(fmt.Sprintf("Top %d capital cities in %s", d.Limit, d.Region), core.RankRequest{Scope: core.ScopeRegion, Value: d.Region, Limit: limit}))
	}

	// Breakdowns.
	for _, scope := range core.BreakdownScopes {
		add(breakdowns(scope))
	}

	// Population lookups.
	add(population(core.ScopeWorld, ""))
	for _, s := range []struct {
		scope core.Scope
		value string
	}{
		{core.ScopeContinent, d.Continent},
		{core.ScopeRegion, d.Region},
		{core.ScopeCountry, d.Country},
		{core.ScopeDistrict, d.District},
		{core.ScopeCity, d.City},
	} {
		if named(s.value) {
			add(population(s.scope, s.value))
		}
	}

	const languagesTitle = "Speakers of the major languages"
	add(Entry{Title: languagesTitle, run: func(ctx context.Context, src Source) (Report, error) {
		stats, err := src.LanguageStatistics(ctx)
		if err != nil {
			return Report{}, err
		}
		return Languages(languagesTitle, stats), nil
	}})
	return entries
}

func countries(title string, req core.RankRequest) Entry {
	return Entry{Title: title, run: func(ctx context.Context, src Source) (Report, error) {
		rows, err := src.TopCountries(ctx, req)
		if err != nil {
			return Report{}, err
		}
		return Countries(title, rows), nil
	}}
}

func cities(title string, req core.RankRequest) Entry {
	return Entry{Title: title, run: func(ctx context.Context, src Source) (Report, error) {
		rows, err := src.TopCities(ctx, req)
		if err != nil {
			return Report{}, err
		}
		return Cities(title, rows), nil
	}}
}

func capitals(title string, req core.RankRequest) Entry {
	return Entry{Title: title, run: func(ctx context.Context, src Source) (Report, error) {
		rows, err := src.TopCapitals(ctx, req)
		if err != nil {
			return Report{}, err
		}
		return Capitals(title, rows), nil
	}}
}

func breakdowns(scope core.Scope) Entry {
	title := fmt.Sprintf("Population in and out of cities by %s", scope)
	return Entry{Title: title, run: func(ctx context.Context, src Source) (Report, error) {
		rows, err := src.Breakdown(ctx, scope, "")
		if err != nil {
			return Report{}, err
		}
		return Breakdowns(title, rows), nil
	}}
}

func population(scope core.Scope, name string) Entry {
	title := "Population of the world"
	if scope != core.ScopeWorld {
		title = fmt.Sprintf("Population of %s %s", scope, name)
	}
	return Entry{Title: title, run: func(ctx context.Context, src Source) (Report, error) {
		pop, found, err := src.Population(ctx, scope, name)
		if err != nil {
			return Report{}, err
		}
		return Population(title, scope, name, pop, found), nil
	}}
}
