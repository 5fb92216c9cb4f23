package core

import (
	"database/sql"
)

// DBProvider is implemented by adapters that expose their *sql.DB,
// for tooling such as schema migrations.
type DBProvider interface {
	SQLDB() *sql.DB
}

// AdapterConfig holds configuration for connecting to a database.
type AdapterConfig struct {
	Type     string
	Path     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Schema   string
	Options  map[string]string
	Params   map[string]any
}

// Rows wraps sql.Rows to provide a consistent interface.
type Rows struct {
	*sql.Rows
}
