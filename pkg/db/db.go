package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "modernc.org/sqlite"             // registers "sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// OmicsDB is the store handle shared by every query function. It is built
// once by the process entry point and passed down explicitly.
type OmicsDB struct {
	*sqlx.DB
	Driver string
}

// Open connects to the relational store and checks it is reachable.
func Open(ctx context.Context, driver, dsn string) (*OmicsDB, error) {
	if driver == DriverSQLite {
		dsn = sqliteDSN(dsn)
	}

	conn, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		// One writer at a time; also keeps a :memory: database alive.
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	return &OmicsDB{DB: conn, Driver: driver}, nil
}

// OpenAndMigrate is Open followed by Migrate.
func OpenAndMigrate(ctx context.Context, driver, dsn string) (*OmicsDB, error) {
	odb, err := Open(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := odb.Migrate(ctx); err != nil {
		odb.Close()
		return nil, err
	}
	return odb, nil
}

// sqliteDSN turns on foreign keys and a busy timeout unless the caller
// already chose pragmas.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}
