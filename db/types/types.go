package types

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Querier exposes only methods for running SQL statements against the single
// migration handle.
type Querier interface {
	Dialect() Dialect
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Dialect is the SQL flavor of the target database.
type Dialect string

// Supported dialects.
const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DialectFromString returns the Dialect for s. "postgresql" and "sqlite3" are
// accepted as aliases.
func DialectFromString(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "postgres", "postgresql":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("unsupported database dialect '%s'", s)
	}
}

// DriverName returns the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	switch d {
	case DialectPostgres:
		return "pgx"
	default:
		return "sqlite"
	}
}

// Placeholder returns the bind parameter marker for the 1-based argument
// position pos.
func (d Dialect) Placeholder(pos int) string {
	if d == DialectPostgres {
		return fmt.Sprintf("$%d", pos)
	}
	return "?"
}
