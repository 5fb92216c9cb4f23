package engine

import (
	"cmp"
	"context"
	"math"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/worldpop/pkg/core"
)

// LanguageStatistics estimates the speakers of each reported language.
//
// Usage percentages are taken in hundredths of a percent, so the weighted
// sum over speaking countries is exact. Speakers are that sum truncated to
// whole people; the world share is rounded to two decimals against the
// population of every country. Languages no country speaks are omitted.
// Results are ordered by speakers descending, then language.
func (e *Engine) LanguageStatistics(ctx context.Context) ([]core.LanguageStats, error) {
	totals, world, err := e.speakerTotals(ctx)
	if err != nil {
		return nil, e.fail(ctx, "language statistics", err)
	}

	out := make([]core.LanguageStats, 0, len(totals))
	for _, t := range totals {
		if t.Countries == 0 {
			continue
		}
		var share float64
		if world > 0 {
			share = float64(roundDiv(t.Weighted, world)) / 100
		}
		out = append(out, core.LanguageStats{
			Language:                    t.Language,
			Speakers:                    t.Weighted / 10000,
			PercentageOfWorldPopulation: share,
		})
	}

	slices.SortFunc(out, func(a, b core.LanguageStats) int {
		if c := cmp.Compare(b.Speakers, a.Speakers); c != 0 {
			return c
		}
		return cmp.Compare(a.Language, b.Language)
	})
	return out, nil
}

// speakerTotals returns the weighted sums and the world population.
func (e *Engine) speakerTotals(ctx context.Context) ([]core.SpeakerTotal, int64, error) {
	if e.aggregator != nil {
		var (
			totals []core.SpeakerTotal
			world  int64
		)
		eg, egctx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			var err error
			totals, err = e.aggregator.SpeakerTotals(egctx, core.ReportedLanguages)
			return err
		})
		eg.Go(func() error {
			var err error
			world, err = e.aggregator.WorldPopulation(egctx)
			return err
		})
		if err := eg.Wait(); err != nil {
			return nil, 0, err
		}
		return totals, world, nil
	}

	g, err := e.load(ctx, true, false, true)
	if err != nil {
		return nil, 0, err
	}
	totals, world := speakerTotals(core.ReportedLanguages, g.countries, g.languages)
	return totals, world, nil
}

// speakerTotals computes the weighted sums in memory. Pairs whose country
// code is unknown are ignored, like the inner join of the SQL pushdown.
func speakerTotals(languages []string, countries []core.Country, usage []core.CountryLanguage) ([]core.SpeakerTotal, int64) {
	population := make(map[string]int64, len(countries))
	var world int64
	for _, c := range countries {
		population[c.Code] = c.Population
		world += c.Population
	}

	index := make(map[string]int, len(languages))
	totals := make([]core.SpeakerTotal, len(languages))
	for i, lang := range languages {
		index[lang] = i
		totals[i].Language = lang
	}

	for _, cl := range usage {
		i, ok := index[cl.Language]
		if !ok {
			continue
		}
		pop, ok := population[cl.CountryCode]
		if !ok {
			continue
		}
		totals[i].Weighted += pop * basisPoints(cl.Percentage)
		totals[i].Countries++
	}
	return totals, world
}

// basisPoints converts a percentage to hundredths of a percent.
func basisPoints(pct float64) int64 {
	return int64(math.Round(pct * 100))
}
