package db

import (
	stdsql "database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported values for the driver name passed to Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the database and wraps the connection in an ent SQL driver.
func Open(driverName, dsn string) (*entsql.Driver, error) {
	switch driverName {
	case DriverPostgres:
		drv, err := entsql.Open(dialect.Postgres, dsn)
		if err != nil {
			return nil, fmt.Errorf("db: open postgres: %w", err)
		}
		return drv, nil
	case DriverSQLite:
		conn, err := stdsql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("db: open sqlite: %w", err)
		}
		// SQLite allows a single writer, and in-memory databases live on one connection.
		conn.SetMaxOpenConns(1)
		return entsql.OpenDB(dialect.SQLite, conn), nil
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", driverName)
	}
}
