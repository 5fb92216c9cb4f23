// Package mysql provides the MySQL SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package mysql

import (
	"github.com/leapstack-labs/worldpop/pkg/core"
	"github.com/leapstack-labs/worldpop/pkg/dialect"
)

func init() {
	dialect.Register(MySQL)
}

// Config is the MySQL dialect configuration.
// Table names are case sensitive on most filesystems, so identifiers keep
// their case and are quoted with backticks.
var Config = &core.DialectConfig{
	Name:        "mysql",
	Placeholder: core.PlaceholderQuestion,
	// MySQL casts to integers with SIGNED, not BIGINT.
	IntegerType: "SIGNED",
	Identifiers: core.IdentifierConfig{
		Quote:         "`",
		QuoteEnd:      "`",
		Escape:        "``",
		Normalization: core.NormCaseSensitive,
	},
	Keywords: []string{
		"add", "all", "alter", "and", "as", "asc", "between", "by", "case",
		"cast", "change", "check", "column", "condition", "constraint", "create",
		"cross", "database", "default", "delete", "desc", "distinct", "div",
		"drop", "else", "exists", "false", "for", "foreign", "from", "group",
		"having", "in", "index", "inner", "insert", "interval", "into", "is",
		"join", "key", "left", "like", "limit", "match", "mod", "not", "null",
		"on", "or", "order", "outer", "primary", "range", "rank", "references",
		"right", "select", "set", "signed", "table", "then", "to", "true",
		"union", "unique", "update", "using", "values", "when", "where", "with",
	},
}

// MySQL is the MySQL dialect.
var MySQL = dialect.New(Config).Build()
