package duckdb

import (
	"github.com/leapstack-labs/worldpop/pkg/dialect"
)

func init() {
	dialect.Register(DuckDB)
}

// DuckDB is the DuckDB dialect: double-quoted, case-insensitive identifiers
// and ? placeholders.
var DuckDB = dialect.New(Config).Build()
