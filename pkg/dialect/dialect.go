// Package dialect provides SQL dialect configuration for query construction.
//
// A Dialect owns the lexical differences the query builder must respect:
// identifier quoting and normalization, parameter placeholder style and the
// integer type used to truncate numeric expressions. Concrete dialects are
// registered from pkg/dialects/*/ packages.
package dialect

import (
	"sort"
	"strconv"
	"strings"

	"github.com/leapstack-labs/worldpop/pkg/core"
)

// Dialect represents a SQL dialect configuration.
type Dialect struct {
	Name        string
	Identifiers core.IdentifierConfig

	// Database-specific settings
	DefaultSchema string                // Default schema name ("main" for DuckDB, "public" for Postgres)
	Placeholder   core.PlaceholderStyle // How to format query parameters
	IntegerType   string                // Target type of integer casts

	reservedWords map[string]struct{} // All keywords that need quoting as identifiers
}

// Config returns the pure data configuration for this dialect.
func (d *Dialect) Config() *core.DialectConfig {
	keywords := d.Keywords()
	return &core.DialectConfig{
		Name:          d.Name,
		Identifiers:   d.Identifiers,
		DefaultSchema: d.DefaultSchema,
		Placeholder:   d.Placeholder,
		IntegerType:   d.IntegerType,
		Keywords:      keywords,
	}
}

// NormalizeName normalizes an identifier according to dialect rules.
func (d *Dialect) NormalizeName(name string) string {
	switch d.Identifiers.Normalization {
	case core.NormUppercase:
		return strings.ToUpper(name)
	case core.NormLowercase, core.NormCaseInsensitive:
		return strings.ToLower(name)
	default: // NormCaseSensitive
		return name
	}
}

// Keywords returns all reserved keywords, sorted.
func (d *Dialect) Keywords() []string {
	kws := make([]string, 0, len(d.reservedWords))
	for kw := range d.reservedWords {
		kws = append(kws, kw)
	}
	sort.Strings(kws)
	return kws
}

// FormatPlaceholder returns a placeholder for the given parameter index (1-based).
// Returns "?" for PlaceholderQuestion style, "$1", "$2" etc. for PlaceholderDollar style.
func (d *Dialect) FormatPlaceholder(index int) string {
	switch d.Placeholder {
	case core.PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	default: // PlaceholderQuestion
		return "?"
	}
}

// IsReservedWord returns true if the word needs quoting when used as an identifier.
func (d *Dialect) IsReservedWord(word string) bool {
	normalized := d.NormalizeName(word)
	_, ok := d.reservedWords[normalized]
	return ok
}

// QuoteIdentifier quotes an identifier using the dialect's quote characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	// Escape any existing quote end characters in the name (e.g., ` -> ``)
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd
}

// Ident normalizes and quotes an identifier. Qualified names ("city.id")
// are quoted part by part.
func (d *Dialect) Ident(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = d.QuoteIdentifier(d.NormalizeName(p))
	}
	return strings.Join(parts, ".")
}

// CastInteger wraps expr in a cast to the dialect's integer type.
// The cast truncates toward zero in every supported database.
func (d *Dialect) CastInteger(expr string) string {
	typ := d.IntegerType
	if typ == "" {
		typ = "BIGINT"
	}
	return "CAST(" + expr + " AS " + typ + ")"
}

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Dialect
}

// NewDialect creates a new dialect builder with the given name.
func NewDialect(name string) *Builder {
	return &Builder{
		dialect: &Dialect{
			Name: name,
			Identifiers: core.IdentifierConfig{
				Quote:         `"`,
				QuoteEnd:      `"`,
				Escape:        `""`,
				Normalization: core.NormLowercase,
			},
			IntegerType:   "BIGINT",
			reservedWords: make(map[string]struct{}),
		},
	}
}

// New creates a dialect builder from a DialectConfig.
// This is the preferred constructor for dialects defined as pure data.
func New(cfg *core.DialectConfig) *Builder {
	b := NewDialect(cfg.Name)
	b.dialect.Identifiers = cfg.Identifiers
	b.dialect.DefaultSchema = cfg.DefaultSchema
	b.dialect.Placeholder = cfg.Placeholder
	if cfg.IntegerType != "" {
		b.dialect.IntegerType = cfg.IntegerType
	}
	return b.WithReservedWords(cfg.Keywords...)
}

// Identifiers configures identifier quoting and normalization.
func (b *Builder) Identifiers(quote, quoteEnd, escape string, norm core.NormalizationStrategy) *Builder {
	b.dialect.Identifiers = core.IdentifierConfig{
		Quote:         quote,
		QuoteEnd:      quoteEnd,
		Escape:        escape,
		Normalization: norm,
	}
	return b
}

// IntegerType sets the type name used by CastInteger.
func (b *Builder) IntegerType(typ string) *Builder {
	b.dialect.IntegerType = typ
	return b
}

// WithReservedWords registers words that need quoting when used as identifiers.
func (b *Builder) WithReservedWords(words ...string) *Builder {
	for _, w := range words {
		b.dialect.reservedWords[b.dialect.NormalizeName(w)] = struct{}{}
	}
	return b
}

// Build returns the constructed dialect.
func (b *Builder) Build() *Dialect {
	return b.dialect
}
