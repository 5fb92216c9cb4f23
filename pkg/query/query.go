package query

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/leapstack-labs/worldpop/pkg/core"
	"github.com/leapstack-labs/worldpop/pkg/dialect"
)

// Query is a rendered statement with its positional arguments.
type Query struct {
	Name string
	SQL  string
	Args []any
}

// Builder renders the catalog statements for one dialect.
// A Builder is immutable and safe for concurrent use.
type Builder struct {
	dialect   *dialect.Dialect
	templates *template.Template
}

// New creates a Builder for the given dialect.
func New(d *dialect.Dialect) (*Builder, error) {
	if d == nil {
		return nil, dialect.ErrDialectRequired
	}

	funcs := template.FuncMap{
		"id": d.Ident,
		"col": func(alias, column string) string {
			return alias + "." + d.QuoteIdentifier(d.NormalizeName(column))
		},
		"int":  d.CastInteger,
		"join": strings.Join,
	}

	root := template.New(d.Name).Funcs(funcs)
	for name, text := range map[string]string{
		"list_countries":         listCountriesTmpl,
		"list_cities":            listCitiesTmpl,
		"list_country_languages": listCountryLanguagesTmpl,
		"group_totals":           groupTotalsTmpl,
		"speaker_totals":         speakerTotalsTmpl,
		"world_population":       worldPopulationTmpl,
	} {
		if _, err := root.New(name).Parse(text); err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
	}

	return &Builder{dialect: d, templates: root}, nil
}

// Dialect returns the dialect the builder renders for.
func (b *Builder) Dialect() *dialect.Dialect {
	return b.dialect
}

func (b *Builder) render(name string, data any, args ...any) (Query, error) {
	var buf bytes.Buffer
	if err := b.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return Query{}, fmt.Errorf("failed to render %s for %s: %w", name, b.dialect.Name, err)
	}
	return Query{Name: name, SQL: buf.String(), Args: args}, nil
}

// ListCountries selects every country.
// Columns: code, name, continent, region, population, capital.
func (b *Builder) ListCountries() (Query, error) {
	return b.render("list_countries", nil)
}

// ListCities selects every city.
// Columns: id, name, country code, district, population.
func (b *Builder) ListCities() (Query, error) {
	return b.render("list_cities", nil)
}

// ListCountryLanguages selects every country-language pair.
// Columns: country code, language, official (0 or 1), percentage.
func (b *Builder) ListCountryLanguages() (Query, error) {
	return b.render("list_country_languages", nil)
}

// GroupTotals aggregates country and city populations per scope value.
// Columns: group key, country code (empty unless scope is country),
// total population, population in cities.
func (b *Builder) GroupTotals(scope core.Scope) (Query, error) {
	var data struct {
		KeyExpr  string
		CodeExpr string
		GroupBy  string
	}

	col := func(name string) string {
		return "c." + b.dialect.QuoteIdentifier(b.dialect.NormalizeName(name))
	}

	switch scope {
	case core.ScopeContinent, core.ScopeRegion:
		key := col(strings.ToUpper(scope.String()[:1]) + scope.String()[1:])
		data.KeyExpr = key
		data.CodeExpr = "''"
		data.GroupBy = key
	case core.ScopeCountry:
		data.KeyExpr = col("Name")
		data.CodeExpr = col("Code")
		data.GroupBy = strings.Join([]string{col("Code"), col("Name"), col("Population")}, ", ")
	default:
		return Query{}, &core.ArgumentError{Field: "scope", Reason: fmt.Sprintf("cannot group population by %s", scope)}
	}

	return b.render("group_totals", data)
}

// SpeakerTotals sums population times percentage, in hundredths of a
// percent, over the countries speaking each of the given languages.
// Columns: language, weighted sum, number of countries.
func (b *Builder) SpeakerTotals(languages []string) (Query, error) {
	if len(languages) == 0 {
		return Query{}, &core.ArgumentError{Field: "languages", Reason: "at least one language is required"}
	}

	params := make([]string, len(languages))
	args := make([]any, len(languages))
	for i, lang := range languages {
		params[i] = b.dialect.FormatPlaceholder(i + 1)
		args[i] = lang
	}

	return b.render("speaker_totals", struct{ Params []string }{params}, args...)
}

// WorldPopulation sums the population of every country.
func (b *Builder) WorldPopulation() (Query, error) {
	return b.render("world_population", nil)
}

// All renders every statement the catalog can issue, in a stable order.
// Parameterized statements are rendered for the reported languages.
func (b *Builder) All() ([]Query, error) {
	steps := []func() (Query, error){
		b.ListCountries,
		b.ListCities,
		b.ListCountryLanguages,
	}
	for _, scope := range core.BreakdownScopes {
		steps = append(steps, func() (Query, error) {
			q, err := b.GroupTotals(scope)
			q.Name += "_" + scope.String()
			return q, err
		})
	}
	steps = append(steps,
		func() (Query, error) { return b.SpeakerTotals(core.ReportedLanguages) },
		b.WorldPopulation,
	)

	queries := make([]Query, 0, len(steps))
	for _, step := range steps {
		q, err := step()
		if err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	return queries, nil
}
