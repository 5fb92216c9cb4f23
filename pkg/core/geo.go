package core

// Country is a row of the country table.
// A NULL population in the source database is read as 0.
type Country struct {
	Code       string `json:"code" yaml:"code"`
	Name       string `json:"name" yaml:"name"`
	Continent  string `json:"continent" yaml:"continent"`
	Region     string `json:"region" yaml:"region"`
	Population int64  `json:"population" yaml:"population"`
	// Capital is the ID of the capital city; 0 means the country has none.
	Capital int64 `json:"capital,omitempty" yaml:"capital,omitempty"`
}

// HasCapital reports whether the country references a capital city.
func (c Country) HasCapital() bool {
	return c.Capital > 0
}

// City is a row of the city table.
type City struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	CountryCode string `json:"countryCode" yaml:"country_code"`
	District    string `json:"district" yaml:"district"`
	Population  int64  `json:"population" yaml:"population"`
}

// CountryLanguage records the share of a country's population speaking a language.
// Percentages of one country are independent and need not sum to 100.
type CountryLanguage struct {
	CountryCode string  `json:"countryCode" yaml:"country_code"`
	Language    string  `json:"language" yaml:"language"`
	IsOfficial  bool    `json:"isOfficial" yaml:"is_official"`
	Percentage  float64 `json:"percentage" yaml:"percentage"`
}

// CapitalCity is a country joined to the city referenced by its capital.
type CapitalCity struct {
	CityName    string `json:"name" yaml:"name"`
	CountryName string `json:"country" yaml:"country"`
	Population  int64  `json:"population" yaml:"population"`

	CityID      int64  `json:"-" yaml:"-"`
	CountryCode string `json:"countryCode" yaml:"country_code"`
	Continent   string `json:"continent" yaml:"continent"`
	Region      string `json:"region" yaml:"region"`
}
