package migration

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/mandelsoft/vfs/pkg/vfs"

	aerrors "go.hackfix.me/seqmig/app/errors"
	"go.hackfix.me/seqmig/db/types"
)

// Executor applies the statements of a single SQL migration file.
type Executor struct {
	fs     vfs.FileSystem
	logger *slog.Logger
}

// NewExecutor returns an Executor that reads migration files from fs.
func NewExecutor(fs vfs.FileSystem, logger *slog.Logger) *Executor {
	return &Executor{fs: fs, logger: logger}
}

// Load reads the migration file at path and returns its steps.
func (e *Executor) Load(path string) ([]string, error) {
	script, err := vfs.ReadFile(e.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed reading migration file: %w", err)
	}

	return SplitStatements(string(script)), nil
}

// Execute runs the steps of the migration file at path on q, starting at the
// 0-based step fromPos. Steps run one by one, without a transaction, and the
// first failure stops the migration.
func (e *Executor) Execute(ctx context.Context, q types.Querier, path string, fromPos int) error {
	name := filepath.Base(path)
	steps, err := e.Load(path)
	if err != nil {
		return aerrors.With(err, "file", name)
	}

	if fromPos < 0 || (fromPos > 0 && fromPos >= len(steps)) {
		return aerrors.NewWith(
			fmt.Sprintf("step offset %d is out of range", fromPos),
			"file", name, "steps", len(steps))
	}

	logger := e.logger.With("file", name)
	for idx := fromPos; idx < len(steps); idx++ {
		logger.Debug("executing step", "step", idx, "steps", len(steps))
		if _, err = q.ExecContext(ctx, steps[idx]); err != nil {
			return aerrors.NewWithCause(
				fmt.Sprintf("failed executing step %d of migration %s", idx, name),
				err, "file", name, "step", idx)
		}
	}
	logger.Debug("executed all steps", "steps", len(steps)-fromPos)

	return nil
}
