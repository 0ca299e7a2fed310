package queries

import (
	"context"
	"fmt"

	"go.hackfix.me/seqmig/db/types"
)

// LedgerTable is the table where applied migration filenames are stored.
const LedgerTable = "SequelizeMeta"

// EnsureLedger creates the ledger table if it doesn't exist.
func EnsureLedger(ctx context.Context, d types.Querier) error {
	_, err := d.ExecContext(ctx,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%s" (name TEXT UNIQUE)`, LedgerTable))
	if err != nil {
		return fmt.Errorf("failed creating %s table: %w", LedgerTable, err)
	}

	return nil
}

// AppliedMigrations returns the set of migration filenames recorded in the
// ledger.
func AppliedMigrations(ctx context.Context, d types.Querier) (map[string]struct{}, error) {
	rows, err := d.QueryContext(ctx, fmt.Sprintf(`SELECT name FROM "%s"`, LedgerTable))
	if err != nil {
		return nil, fmt.Errorf("failed reading %s table: %w", LedgerTable, err)
	}
	defer rows.Close()

	applied := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, types.ScanError{ModelName: "ledger entry", Err: err}
		}
		applied[name] = struct{}{}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading %s table: %w", LedgerTable, err)
	}

	return applied, nil
}

// RecordMigration stores name in the ledger. It returns a types.DuplicateError
// if name is already recorded.
func RecordMigration(ctx context.Context, d types.Querier, name string) error {
	_, err := d.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO "%s" (name) VALUES (%s)`, LedgerTable, d.Dialect().Placeholder(1)),
		name)
	if err != nil {
		return types.Err("migration", fmt.Sprintf("name '%s'", name), err)
	}

	return nil
}

// Ledger binds the ledger queries to a Querier.
type Ledger struct {
	q types.Querier
}

// NewLedger returns a Ledger that runs its statements on q.
func NewLedger(q types.Querier) *Ledger {
	return &Ledger{q: q}
}

// Ensure creates the ledger table if needed.
func (l *Ledger) Ensure(ctx context.Context) error {
	return EnsureLedger(ctx, l.q)
}

// Applied returns the recorded migration filenames.
func (l *Ledger) Applied(ctx context.Context) (map[string]struct{}, error) {
	return AppliedMigrations(ctx, l.q)
}

// Record stores a migration filename.
func (l *Ledger) Record(ctx context.Context, name string) error {
	return RecordMigration(ctx, l.q, name)
}
