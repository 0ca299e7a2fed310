package cli

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	actx "go.hackfix.me/seqmig/app/context"
	"go.hackfix.me/seqmig/migration"
)

func TestCLIParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		args   []string
		exp    Migrate
		expLvl slog.Level
		expErr string
	}{
		{
			name:   "defaults",
			exp:    Migrate{},
			expLvl: slog.LevelInfo,
		},
		{
			name: "long",
			args: []string{
				"--rev", "3", "--pos", "2", "--one", "--list",
				"--migrations-path", "db/migrate", "--models-path", "/srv/models",
				"--log-level", "DEBUG",
			},
			exp: Migrate{
				Rev: 3, Pos: 2, One: true, List: true,
				MigrationsPath: "db/migrate", ModelsPath: "/srv/models",
			},
			expLvl: slog.LevelDebug,
		},
		{
			name:   "short",
			args:   []string{"-r", "5", "-p", "1", "-l"},
			exp:    Migrate{Rev: 5, Pos: 1, List: true},
			expLvl: slog.LevelInfo,
		},
		{
			name:   "err/invalid_pos",
			args:   []string{"--pos", "abc"},
			expErr: "failed parsing CLI arguments",
		},
		{
			name:   "err/unknown_flag",
			args:   []string{"--down"},
			expErr: "failed parsing CLI arguments",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			c, err := New(&actx.Context{Stdout: &stdout, Stderr: &stderr}, "seqmig test")
			require.NoError(t, err)

			err = c.Parse(tt.args)
			if tt.expErr != "" {
				require.ErrorContains(t, err, tt.expErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.exp, c.Migrate)
			assert.Equal(t, tt.expLvl, c.Log.Level)
		})
	}
}

func TestCLIExit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		args      []string
		expStdout string
	}{
		{name: "help", args: []string{"--help"}, expStdout: "Usage: seqmig"},
		{name: "help_short", args: []string{"-h"}, expStdout: "Usage: seqmig"},
		{name: "version", args: []string{"--version"}, expStdout: "seqmig test\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var (
				stdout, stderr bytes.Buffer
				codes          []int
			)
			appCtx := &actx.Context{
				Stdout: &stdout, Stderr: &stderr,
				Exit: func(code int) { codes = append(codes, code) },
			}
			c, err := New(appCtx, "seqmig test")
			require.NoError(t, err)

			require.NoError(t, c.Parse(tt.args))
			assert.Equal(t, []int{0}, codes)
			assert.Contains(t, stdout.String(), tt.expStdout)

			// Migrate.Run would fail on the nil filesystem, so a nil error
			// means it wasn't called.
			require.NoError(t, c.Execute(appCtx))
		})
	}
}

func TestRenderMigrations(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := renderMigrations([]migration.File{
		{Revision: 2, Name: "2-add-col.sql"},
		{Revision: 10, Name: "10-drop.sql"},
	}, &buf)
	require.NoError(t, err)

	var header string
	rows := []string{}
	for _, line := range strings.Split(buf.String(), "\n") {
		switch {
		case strings.Contains(line, "Revision"):
			header = line
		case strings.Contains(line, ".sql"):
			rows = append(rows, line)
		}
	}
	assert.Contains(t, header, "File")
	require.Len(t, rows, 2)
	assert.Regexp(t, `^\s+2\s+2-add-col\.sql\s*$`, rows[0])
	assert.Regexp(t, `^\s*10\s+10-drop\.sql\s*$`, rows[1])
}
