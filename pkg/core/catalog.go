package core

import "context"

// Catalog is the read-only data-access interface over the geographic data.
// Enumerations are finite, re-enumerable and free of side effects.
// Implementations return slices the caller may modify.
type Catalog interface {
	ListCountries(ctx context.Context) ([]Country, error)
	ListCities(ctx context.Context) ([]City, error)
	ListCountryLanguages(ctx context.Context) ([]CountryLanguage, error)
}

// GroupTotal is one group of a population aggregation computed by a data store.
// Key is the grouping value (continent, region or country name).
// Population is the sum of country populations in the group, InCities the sum
// of populations of cities whose country belongs to the group.
type GroupTotal struct {
	Key        string
	Code       string
	Population int64
	InCities   int64
}

// SpeakerTotal is the weighted speaker numerator of one language:
// the sum over speaking countries of population times percentage in
// hundredths of a percent.
type SpeakerTotal struct {
	Language  string
	Weighted  int64
	Countries int
}

// Aggregator is optionally implemented by catalogs that can aggregate in the
// data store. Results are raw integer sums; grouping keys match the catalog's
// Country fields exactly (no case folding).
type Aggregator interface {
	// GroupTotals aggregates country and city populations per scope value.
	// For ScopeCountry each country forms its own group.
	GroupTotals(ctx context.Context, scope Scope) ([]GroupTotal, error)

	// SpeakerTotals returns weighted speaker sums for the given languages.
	// Languages without any speaking country are omitted.
	SpeakerTotals(ctx context.Context, languages []string) ([]SpeakerTotal, error)

	// WorldPopulation returns the sum of all country populations.
	WorldPopulation(ctx context.Context) (int64, error)
}
