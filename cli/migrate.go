package cli

import (
	"fmt"

	actx "go.hackfix.me/seqmig/app/context"
	"go.hackfix.me/seqmig/app/config"
	aerrors "go.hackfix.me/seqmig/app/errors"
	"go.hackfix.me/seqmig/db"
	"go.hackfix.me/seqmig/db/queries"
	"go.hackfix.me/seqmig/migration"
	"go.hackfix.me/seqmig/runner"
)

// Migrate applies pending migrations. Its fields are the root flags of the CLI.
type Migrate struct {
	Rev            int    `short:"r" default:"0" help:"Set migration revision. Accepted, but not applied to the migration list."`
	Pos            int    `short:"p" default:"0" help:"Run the first migration starting from this step."`
	One            bool   `help:"Do not run next migrations."`
	List           bool   `short:"l" help:"Show migration file list (without execution)."`
	MigrationsPath string `help:"The path to the migrations folder."`
	ModelsPath     string `help:"The path to the models folder, containing database.json."`
}

// Run the migrate command.
func (c *Migrate) Run(appCtx *actx.Context) error {
	if c.Pos < 0 {
		return aerrors.NewRuntimeError("--pos must not be negative", nil, "")
	}

	workDir, err := config.WorkDir(appCtx.Env)
	if err != nil {
		return aerrors.NewRuntimeError("failed resolving paths", err, "")
	}
	paths, err := config.ResolvePaths(appCtx.FS, workDir, c.MigrationsPath, c.ModelsPath)
	if err != nil {
		return aerrors.NewRuntimeError("failed resolving paths", err, "")
	}
	if err = checkDir(appCtx, paths.ModelsDir, "models", "--models-path"); err != nil {
		return err
	}
	if err = checkDir(appCtx, paths.MigrationsDir, "migrations", "--migrations-path"); err != nil {
		return err
	}

	r := runner.New(
		migration.NewLocator(appCtx.FS),
		migration.NewExecutor(appCtx.FS, appCtx.Logger),
		appCtx.Stdout, appCtx.Logger,
	)
	opts := runner.Options{
		MigrationsDir: paths.MigrationsDir,
		FromRevision:  c.Rev,
		FromPos:       c.Pos,
		One:           c.One,
	}

	if c.List {
		return c.list(appCtx, r, opts)
	}

	d := appCtx.DB
	if d == nil {
		dbCfg, err := config.LoadDatabase(appCtx.FS, appCtx.Env, paths.ModelsDir)
		if err != nil {
			return aerrors.NewRuntimeError("failed loading database configuration", err,
				fmt.Sprintf("create %s in the models directory", config.DatabaseFile))
		}
		d, err = db.Open(appCtx.Ctx, dbCfg.Dialect, dbCfg.DSN)
		if err != nil {
			return aerrors.NewRuntimeError("failed opening database", err, "")
		}
		defer d.Close()
	}

	if _, err = r.Run(appCtx.Ctx, d, queries.NewLedger(d), opts); err != nil {
		return aerrors.NewRuntimeError("failed running migrations", err, "")
	}

	return nil
}

func (c *Migrate) list(appCtx *actx.Context, r *runner.Runner, opts runner.Options) error {
	files, err := r.List(opts)
	if err != nil {
		return aerrors.NewRuntimeError("failed listing migrations", err, "")
	}
	if len(files) == 0 {
		return nil
	}

	if err = renderMigrations(files, appCtx.Stdout); err != nil {
		return aerrors.NewRuntimeError("failed rendering migration list", err, "")
	}

	return nil
}

func checkDir(appCtx *actx.Context, path, kind, flag string) error {
	ok, err := config.DirExists(appCtx.FS, path)
	if err != nil {
		return aerrors.NewRuntimeError(fmt.Sprintf("failed checking %s directory", kind), err, "")
	}
	if !ok {
		return aerrors.NewRuntimeError(
			fmt.Sprintf("can't find %s directory", kind), nil,
			fmt.Sprintf("create %s or pass %s", path, flag))
	}

	return nil
}
