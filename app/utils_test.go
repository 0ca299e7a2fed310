package app

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"testing"

	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/stretchr/testify/require"

	actx "go.hackfix.me/seqmig/app/context"
	"go.hackfix.me/seqmig/db"
	"go.hackfix.me/seqmig/db/queries"
	"go.hackfix.me/seqmig/db/types"
)

const workDir = "/work"

type testEnv struct {
	fs  vfs.FileSystem
	env *mockEnv
	db  *db.DB
	// exit codes requested by the CLI parser
	exits []int
}

func newTestEnv(t *testing.T, migrations map[string]string) *testEnv {
	t.Helper()

	fs := memoryfs.New()
	require.NoError(t, fs.MkdirAll(workDir+"/models", 0o755))
	require.NoError(t, fs.MkdirAll(workDir+"/migrations", 0o755))
	for name, script := range migrations {
		require.NoError(t, vfs.WriteFile(fs, workDir+"/migrations/"+name, []byte(script), 0o644))
	}

	return &testEnv{
		fs:  fs,
		env: &mockEnv{env: map[string]string{"PWD": workDir}},
		db:  newTestDB(t),
	}
}

// run executes a new app instance with args, and returns its standard output.
func (te *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	opts := []Option{
		WithEnv(te.env),
		WithExit(func(code int) { te.exits = append(te.exits, code) }),
		WithContext(context.Background()),
		WithFDs(&stdout, &stderr),
		WithFS(te.fs),
		WithLogger(false, false),
	}
	if te.db != nil {
		opts = append(opts, WithDB(te.db))
	}
	app, err := New("seqmig", opts...)
	require.NoError(t, err)

	err = app.Run(args)

	return stdout.String(), err
}

func (te *testEnv) applied(t *testing.T) map[string]struct{} {
	t.Helper()

	applied, err := queries.AppliedMigrations(context.Background(), te.db)
	require.NoError(t, err)

	return applied
}

func (te *testEnv) tableExists(t *testing.T, name string) bool {
	t.Helper()

	var count int
	err := te.db.QueryRowContext(context.Background(),
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&count)
	require.NoError(t, err)

	return count == 1
}

func newTestDB(t *testing.T) *db.DB {
	t.Helper()

	d, err := db.Open(context.Background(), types.DialectSQLite, memoryDSN(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	return d
}

// memoryDSN returns a unique name per test, to avoid clashing of in-memory
// SQLite DBs.
func memoryDSN(t *testing.T) string {
	t.Helper()

	rndName := make([]byte, 12)
	_, err := rand.Read(rndName)
	require.NoError(t, err)

	// Not using just :memory: to avoid 'no such table' issue.
	// See https://github.com/mattn/go-sqlite3#faq
	return fmt.Sprintf("file:seqmig-%x?mode=memory&cache=shared", rndName)
}

type mockEnv struct {
	mx  sync.RWMutex
	env map[string]string
}

var _ actx.Environment = (*mockEnv)(nil)

func (me *mockEnv) Get(key string) string {
	me.mx.RLock()
	defer me.mx.RUnlock()
	return me.env[key]
}

func (me *mockEnv) Set(key, val string) error {
	me.mx.Lock()
	defer me.mx.Unlock()
	me.env[key] = val
	return nil
}
