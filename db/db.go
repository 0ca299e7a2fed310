package db

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	//nolint:revive,nolintlint // Idiomatic way of loading DB libraries.
	_ "github.com/glebarez/go-sqlite"
	//nolint:revive,nolintlint // Idiomatic way of loading DB libraries.
	_ "github.com/jackc/pgx/v5/stdlib"

	"go.hackfix.me/seqmig/db/types"
)

// DB wraps sql.DB with the dialect of the target database. All statements of
// a run, ledger and migrations alike, go through this one handle.
type DB struct {
	*sql.DB
	dialect types.Dialect
}

var _ types.Querier = (*DB)(nil)

// Open creates a database handle restricted to a single connection and checks
// that the database is reachable.
func Open(ctx context.Context, dialect types.Dialect, dsn string) (*DB, error) {
	sqlDB, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed opening %s database: %w", dialect, err)
	}

	sqlDB.SetMaxOpenConns(1)
	if dialect == types.DialectSQLite &&
		(strings.Contains(dsn, "mode=memory") || strings.Contains(dsn, ":memory:")) {
		// Keep the connection around, or the in-memory database vanishes with it.
		// See https://github.com/mattn/go-sqlite3#faq
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(time.Duration(math.Inf(1)))
	}

	d := &DB{DB: sqlDB, dialect: dialect}

	if err = d.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed connecting to %s database: %w", dialect, err)
	}

	if dialect == types.DialectSQLite {
		if _, err = d.ExecContext(ctx, `PRAGMA foreign_keys = ON;`); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed enabling foreign key enforcement: %w", err)
		}
	}

	return d, nil
}

// Dialect returns the SQL dialect of the database.
func (d *DB) Dialect() types.Dialect {
	return d.dialect
}
