// Package sqlite provides the SQLite SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package sqlite

import (
	"github.com/leapstack-labs/worldpop/pkg/core"
	"github.com/leapstack-labs/worldpop/pkg/dialect"
)

func init() {
	dialect.Register(SQLite)
}

// Config is the SQLite dialect configuration.
var Config = &core.DialectConfig{
	Name:          "sqlite",
	DefaultSchema: "main",
	Placeholder:   core.PlaceholderQuestion,
	// SQLite has no BIGINT storage class; INTEGER is 64-bit.
	IntegerType: "INTEGER",
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormCaseInsensitive,
	},
	Keywords: []string{
		"abort", "all", "and", "as", "between", "by", "case", "check", "collate",
		"column", "constraint", "create", "default", "delete", "distinct", "drop",
		"else", "end", "escape", "except", "exists", "foreign", "from", "group",
		"having", "in", "index", "insert", "intersect", "into", "is", "isnull",
		"join", "limit", "not", "notnull", "null", "on", "or", "order",
		"primary", "references", "select", "set", "table", "then", "to",
		"transaction", "union", "unique", "update", "using", "values", "when",
		"where",
	},
}

// SQLite is the SQLite dialect.
var SQLite = dialect.New(Config).Build()
