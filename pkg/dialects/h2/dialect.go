// Package h2 provides the H2 SQL dialect definition.
//
// H2 is the embedded database the world schema is commonly tested against on
// the JVM. There is no Go driver for it; the dialect exists so `worldpop sql`
// can print the query text for it.
package h2

import (
	"github.com/leapstack-labs/worldpop/pkg/core"
	"github.com/leapstack-labs/worldpop/pkg/dialect"
)

func init() {
	dialect.Register(H2)
}

// Config is the H2 dialect configuration.
var Config = &core.DialectConfig{
	Name:          "h2",
	DefaultSchema: "PUBLIC",
	Placeholder:   core.PlaceholderQuestion,
	IntegerType:   "BIGINT",
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormUppercase, // unquoted identifiers are stored upper case
	},
	Keywords: []string{
		"ALL", "AND", "ARRAY", "AS", "BETWEEN", "BOTH", "CASE", "CHECK", "CONSTRAINT",
		"CROSS", "CURRENT_DATE", "CURRENT_TIME", "CURRENT_TIMESTAMP", "DISTINCT",
		"EXCEPT", "EXISTS", "FALSE", "FETCH", "FOR", "FOREIGN", "FROM", "FULL",
		"GROUP", "HAVING", "IF", "IN", "INNER", "INTERSECT", "IS", "JOIN", "KEY",
		"LEFT", "LIKE", "LIMIT", "MINUS", "NATURAL", "NOT", "NULL", "OFFSET",
		"ON", "OR", "ORDER", "PRIMARY", "QUALIFY", "RIGHT", "ROW", "SELECT",
		"TABLE", "TRUE", "UNION", "UNIQUE", "USING", "VALUE", "VALUES", "WHERE",
		"WINDOW", "WITH",
	},
}

// H2 is the H2 dialect.
var H2 = dialect.New(Config).Build()
