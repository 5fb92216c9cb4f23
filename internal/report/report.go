// Package report turns engine results into titled tables and renders them
// as console tables, JSON, CSV, Markdown or YAML on an explicit writer.
package report

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/worldpop/pkg/core"
)

// Format selects how reports are rendered.
type Format string

// Supported formats.
const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatYAML     Format = "yaml"
)

// Formats lists every supported format.
var Formats = []Format{FormatTable, FormatJSON, FormatCSV, FormatMarkdown, FormatYAML}

// ParseFormat converts a user-supplied name to a Format. "md" is accepted
// for markdown and "text" for table.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatTable, FormatJSON, FormatCSV, FormatMarkdown, FormatYAML:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "text":
		return FormatTable, nil
	default:
		return "", &core.ArgumentError{Field: "output", Reason: fmt.Sprintf("unknown format %q (use table, json, csv, markdown or yaml)", name)}
	}
}

// Report is one titled result set. Rows feed the tabular formats; Data is
// the typed value encoded by JSON and YAML.
type Report struct {
	Title   string
	Columns []string
	Rows    []table.Row
	Data    any
}

// cell kinds drive locale-aware formatting in table and markdown output.
type (
	count   int64
	percent float64
)

// Countries reports a country listing.
func Countries(title string, countries []core.Country) Report {
	rows := make([]table.Row, len(countries))
	for i, c := range countries {
		rows[i] = table.Row{c.Code, c.Name, c.Continent, c.Region, count(c.Population), capitalID(c)}
	}
	return Report{
		Title:   title,
		Columns: []string{"Code", "Name", "Continent", "Region", "Population", "Capital"},
		Rows:    rows,
		Data:    countries,
	}
}

func capitalID(c core.Country) any {
	if !c.HasCapital() {
		return ""
	}
	return c.Capital
}

// Cities reports a city listing.
func Cities(title string, cities []core.City) Report {
	rows := make([]table.Row, len(cities))
	for i, c := range cities {
		rows[i] = table.Row{c.Name, c.CountryCode, c.District, count(c.Population)}
	}
	return Report{
		Title:   title,
		Columns: []string{"Name", "Country", "District", "Population"},
		Rows:    rows,
		Data:    cities,
	}
}

// Capitals reports a capital city listing.
func Capitals(title string, capitals []core.CapitalCity) Report {
	rows := make([]table.Row, len(capitals))
	for i, c := range capitals {
		rows[i] = table.Row{c.CityName, c.CountryName, count(c.Population)}
	}
	return Report{
		Title:   title,
		Columns: []string{"Name", "Country", "Population"},
		Rows:    rows,
		Data:    capitals,
	}
}

// Breakdowns reports urban/rural population splits.
func Breakdowns(title string, breakdowns []core.PopulationBreakdown) Report {
	rows := make([]table.Row, len(breakdowns))
	for i, b := range breakdowns {
		rows[i] = table.Row{
			b.Name,
			count(b.TotalPopulation),
			count(b.PopulationInCities),
			percent(b.InCitiesPercentage),
			count(b.PopulationNotInCities),
			percent(b.NotInCitiesPercentage),
		}
	}
	return Report{
		Title:   title,
		Columns: []string{"Name", "Total", "In Cities", "In Cities %", "Not In Cities", "Not In Cities %"},
		Rows:    rows,
		Data:    breakdowns,
	}
}

// Languages reports language speaker estimates.
func Languages(title string, stats []core.LanguageStats) Report {
	rows := make([]table.Row, len(stats))
	for i, s := range stats {
		rows[i] = table.Row{s.Language, count(s.Speakers), percent(s.PercentageOfWorldPopulation)}
	}
	return Report{
		Title:   title,
		Columns: []string{"Language", "Speakers", "World %"},
		Rows:    rows,
		Data:    stats,
	}
}

// PopulationResult is the typed value of a population lookup.
type PopulationResult struct {
	Scope      core.Scope `json:"scope" yaml:"scope"`
	Name       string     `json:"name,omitempty" yaml:"name,omitempty"`
	Population int64      `json:"population" yaml:"population"`
}

// Population reports a single population lookup. A lookup that matched
// nothing has no rows and nil data.
func Population(title string, scope core.Scope, name string, population int64, found bool) Report {
	rep := Report{
		Title:   title,
		Columns: []string{"Scope", "Name", "Population"},
	}
	if found {
		rep.Rows = []table.Row{{scope.String(), name, count(population)}}
		rep.Data = PopulationResult{Scope: scope, Name: name, Population: population}
	}
	return rep
}
