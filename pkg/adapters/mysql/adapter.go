// Package mysql provides a MySQL database adapter for worldpop.
// The classic world sample database ships for MySQL, so this is the
// adapter most production targets use.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/leapstack-labs/worldpop/pkg/adapter"
	"github.com/leapstack-labs/worldpop/pkg/core"
	"github.com/leapstack-labs/worldpop/pkg/dialect"
	mysqldialect "github.com/leapstack-labs/worldpop/pkg/dialects/mysql"
)

// Adapter implements the adapter.Adapter interface for MySQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new MySQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Dialect returns the MySQL dialect.
func (a *Adapter) Dialect() *dialect.Dialect {
	return mysqldialect.MySQL
}

// Connect establishes a connection to MySQL.
func (a *Adapter) Connect(ctx context.Context, cfg core.AdapterConfig) error {
	driverCfg := buildConfig(cfg)

	a.Logger.Debug("connecting to mysql", slog.String("addr", driverCfg.Addr), slog.String("database", driverCfg.DBName))

	connector, err := gomysql.NewConnector(driverCfg)
	if err != nil {
		return fmt.Errorf("failed to configure mysql connection: %w", err)
	}
	db := sql.OpenDB(connector)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping mysql: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// buildConfig maps the adapter config onto the driver configuration.
// Options are passed through as connection parameters.
func buildConfig(cfg core.AdapterConfig) *gomysql.Config {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 3306
	}

	driverCfg := gomysql.NewConfig()
	driverCfg.Net = "tcp"
	driverCfg.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	driverCfg.User = cfg.Username
	driverCfg.Passwd = cfg.Password
	driverCfg.DBName = cfg.Database

	if len(cfg.Options) > 0 {
		driverCfg.Params = make(map[string]string, len(cfg.Options))
		for k, v := range cfg.Options {
			driverCfg.Params[k] = v
		}
	}
	return driverCfg
}

// LoadCSV appends the rows of a CSV file to an existing table.
// Plain inserts are used because LOAD DATA LOCAL INFILE is usually
// disabled on servers.
func (a *Adapter) LoadCSV(ctx context.Context, tableName string, filePath string) error {
	return a.InsertCSV(ctx, a.Dialect(), tableName, filePath)
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
