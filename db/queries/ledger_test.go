package queries

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hackfix.me/seqmig/db"
	"go.hackfix.me/seqmig/db/types"
)

func newTestDB(t *testing.T) *db.DB {
	t.Helper()

	rndName := make([]byte, 12)
	_, err := rand.Read(rndName)
	require.NoError(t, err)

	d, err := db.Open(context.Background(), types.DialectSQLite,
		fmt.Sprintf("file:seqmig-%x?mode=memory&cache=shared", rndName))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	return d
}

func TestLedger(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	d := newTestDB(t)
	l := NewLedger(d)

	t.Run("ensure_idempotent", func(t *testing.T) {
		require.NoError(t, l.Ensure(ctx))
		require.NoError(t, l.Ensure(ctx))

		applied, err := l.Applied(ctx)
		require.NoError(t, err)
		assert.Empty(t, applied)
	})

	t.Run("record_and_read", func(t *testing.T) {
		require.NoError(t, l.Record(ctx, "001-init.sql"))
		require.NoError(t, l.Record(ctx, "002-add-col.sql"))

		applied, err := l.Applied(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]struct{}{
			"001-init.sql":    {},
			"002-add-col.sql": {},
		}, applied)
	})

	t.Run("record_duplicate", func(t *testing.T) {
		err := l.Record(ctx, "001-init.sql")
		require.Error(t, err)

		var dupErr *types.DuplicateError
		require.ErrorAs(t, err, &dupErr)
		assert.Equal(t, "migration with name '001-init.sql' already exists", dupErr.Error())

		applied, err := l.Applied(ctx)
		require.NoError(t, err)
		assert.Len(t, applied, 2)
	})

	t.Run("ensure_keeps_rows", func(t *testing.T) {
		require.NoError(t, l.Ensure(ctx))

		applied, err := l.Applied(ctx)
		require.NoError(t, err)
		assert.Len(t, applied, 2)
	})

	t.Run("name_is_unbounded_text", func(t *testing.T) {
		var colType string
		err := d.QueryRowContext(ctx,
			`SELECT type FROM pragma_table_info(?) WHERE name = 'name'`, LedgerTable).Scan(&colType)
		require.NoError(t, err)
		assert.Equal(t, "TEXT", colType)

		long := "003-" + strings.Repeat("x", 300) + ".sql"
		require.NoError(t, l.Record(ctx, long))

		applied, err := l.Applied(ctx)
		require.NoError(t, err)
		assert.Contains(t, applied, long)
	})
}

func TestAppliedMigrationsMissingTable(t *testing.T) {
	t.Parallel()

	d := newTestDB(t)
	_, err := AppliedMigrations(context.Background(), d)
	assert.ErrorContains(t, err, "failed reading SequelizeMeta table")
}
