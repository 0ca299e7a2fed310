// Package runner applies pending migrations in order and records each one in
// the ledger as soon as it succeeds.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	aerrors "go.hackfix.me/seqmig/app/errors"
	"go.hackfix.me/seqmig/db/types"
	"go.hackfix.me/seqmig/migration"
)

// Locator lists the migration files of a directory in execution order.
type Locator interface {
	List(dir string) ([]migration.File, error)
}

// Ledger is the durable set of applied migration filenames.
type Ledger interface {
	Ensure(ctx context.Context) error
	Applied(ctx context.Context) (map[string]struct{}, error)
	Record(ctx context.Context, name string) error
}

// Executor applies a single migration file, starting at step fromPos.
type Executor interface {
	Execute(ctx context.Context, q types.Querier, path string, fromPos int) error
}

// Options control a migration run.
type Options struct {
	MigrationsDir string
	// FromRevision is accepted, but candidates aren't filtered by it.
	FromRevision int
	// FromPos is the step offset of the first executed migration only.
	FromPos int
	// One stops the run after the first successful migration.
	One bool
}

// Result describes what a run did. All fields hold filenames in execution
// order.
type Result struct {
	Candidates []string
	Pending    []string
	Applied    []string
}

// Runner sequences migration runs.
type Runner struct {
	locator  Locator
	executor Executor
	stdout   io.Writer
	logger   *slog.Logger
}

// New returns a new Runner. Reports meant for the user are written to stdout.
func New(locator Locator, executor Executor, stdout io.Writer, logger *slog.Logger) *Runner {
	return &Runner{locator: locator, executor: executor, stdout: stdout, logger: logger}
}

// List returns all migration files in the migrations directory, applied or
// not, in execution order.
func (r *Runner) List(opts Options) ([]migration.File, error) {
	if opts.FromRevision != 0 {
		r.logger.Warn("the revision filter is not applied, listing all migrations",
			"rev", opts.FromRevision)
	}

	files, err := r.locator.List(opts.MigrationsDir)
	if err != nil {
		return nil, err //nolint:wrapcheck // Already descriptive.
	}
	r.logger.Debug("found migration files", "dir", opts.MigrationsDir, "count", len(files))

	return files, nil
}

// Run applies every migration that isn't recorded in ledger, in order. There
// is no transaction around the run: when a migration fails, the migrations
// before it stay applied and recorded, and the ones after it aren't touched.
func (r *Runner) Run(
	ctx context.Context, q types.Querier, ledger Ledger, opts Options,
) (*Result, error) {
	files, err := r.List(opts)
	if err != nil {
		return nil, err
	}
	res := &Result{Candidates: migration.Names(files), Applied: []string{}}

	res.Pending, err = r.reconcile(ctx, ledger, res.Candidates)
	if err != nil {
		return res, err
	}

	for _, name := range res.Pending {
		if _, err = fmt.Fprintf(r.stdout, "\t%s\n", name); err != nil {
			return res, fmt.Errorf("failed writing to stdout: %w", err)
		}
	}

	fromPos := opts.FromPos
	for _, name := range res.Pending {
		logger := r.logger.With("file", name)
		logger.Info("running migration", "from_pos", fromPos)

		path := filepath.Join(opts.MigrationsDir, name)
		if err = r.executor.Execute(ctx, q, path, fromPos); err != nil {
			return res, aerrors.NewWithCause(
				fmt.Sprintf("failed running migration %s", name), err, "file", name)
		}

		if err = ledger.Record(ctx, name); err != nil {
			return res, aerrors.NewWithCause(
				fmt.Sprintf("failed recording migration %s", name), err, "file", name)
		}

		res.Applied = append(res.Applied, name)
		logger.Info("migration applied")
		fromPos = 0

		if opts.One {
			if remaining := len(res.Pending) - len(res.Applied); remaining > 0 {
				r.logger.Info("stopping after one migration", "remaining", remaining)
			}
			break
		}
	}

	msg := "Completed running migrations"
	if len(res.Pending) == 0 {
		msg = "No new migration files found"
	}
	if _, err = fmt.Fprintln(r.stdout, msg); err != nil {
		return res, fmt.Errorf("failed writing to stdout: %w", err)
	}

	return res, nil
}

// reconcile returns the candidates missing from the ledger, in the same order.
func (r *Runner) reconcile(ctx context.Context, ledger Ledger, candidates []string) ([]string, error) {
	if err := ledger.Ensure(ctx); err != nil {
		return nil, err //nolint:wrapcheck // Already descriptive.
	}

	applied, err := ledger.Applied(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck // Already descriptive.
	}

	pending := make([]string, 0, len(candidates))
	for _, name := range candidates {
		if _, ok := applied[name]; !ok {
			pending = append(pending, name)
		}
	}
	r.logger.Debug("reconciled with ledger", "applied", len(applied), "pending", len(pending))

	return pending, nil
}
