// Package duckdb provides the DuckDB SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package duckdb

import "github.com/leapstack-labs/worldpop/pkg/core"

// Config is the DuckDB dialect configuration.
// This is pure data - accessible by both Adapter and query builder.
var Config = &core.DialectConfig{
	Name:          "duckdb",
	DefaultSchema: "main",
	Placeholder:   core.PlaceholderQuestion,
	IntegerType:   "BIGINT",
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormCaseInsensitive,
	},
	Keywords: duckDBReservedWords,
}

// duckDBReservedWords is the subset of DuckDB keywords that cannot be used as
// unquoted column or table names.
var duckDBReservedWords = []string{
	"all", "analyse", "analyze", "and", "any", "array", "as", "asc", "asymmetric",
	"both", "case", "cast", "check", "collate", "column", "constraint", "create",
	"default", "deferrable", "desc", "describe", "distinct", "do", "else", "end",
	"except", "false", "fetch", "for", "foreign", "from", "grant", "group",
	"having", "in", "initially", "intersect", "into", "lateral", "leading",
	"limit", "not", "null", "offset", "on", "only", "or", "order", "pivot",
	"primary", "qualify", "references", "returning", "select", "show",
	"some", "summarize", "symmetric", "table", "then", "to", "trailing", "true",
	"union", "unique", "unpivot", "using", "variadic", "when", "where", "window",
	"with",
}
