package core

// ReportedLanguages is the fixed set of languages covered by language statistics.
// The set is part of the report definition and is not chosen by callers.
var ReportedLanguages = []string{"Chinese", "English", "Hindi", "Spanish", "Arabic"}

// PopulationBreakdown splits the population of one scope instance into the
// part living in cities and the rest. Percentages are 0 when TotalPopulation is 0.
type PopulationBreakdown struct {
	Scope                 Scope   `json:"type" yaml:"type"`
	Name                  string  `json:"name" yaml:"name"`
	TotalPopulation       int64   `json:"totalPopulation" yaml:"total_population"`
	PopulationInCities    int64   `json:"populationInCities" yaml:"population_in_cities"`
	PopulationNotInCities int64   `json:"populationNotInCities" yaml:"population_not_in_cities"`
	InCitiesPercentage    float64 `json:"inCitiesPercentage" yaml:"in_cities_percentage"`
	NotInCitiesPercentage float64 `json:"notInCitiesPercentage" yaml:"not_in_cities_percentage"`
}

// LanguageStats is the estimated number of speakers of a language.
type LanguageStats struct {
	Language                    string  `json:"language" yaml:"language"`
	Speakers                    int64   `json:"speakers" yaml:"speakers"`
	PercentageOfWorldPopulation float64 `json:"percentageOfWorldPopulation" yaml:"percentage_of_world_population"`
}

// RankRequest selects and bounds a population ranking.
// Value is required for every scope except ScopeWorld.
// A nil Limit returns the whole ordered sequence; a non-nil Limit must be positive.
type RankRequest struct {
	Scope Scope
	Value string
	Limit *int
}

// Limit returns a pointer to n for use in RankRequest.Limit.
func Limit(n int) *int {
	return &n
}
