package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mandelsoft/vfs/pkg/osfs"

	"go.hackfix.me/seqmig/app/config"
	actx "go.hackfix.me/seqmig/app/context"
	"go.hackfix.me/seqmig/cli"
)

// App is the application.
type App struct {
	name string
	ctx  *actx.Context
	cli  *cli.CLI
	// the logging level is set via the CLI, if the app was initialized with the
	// WithLogger option.
	logLevel *slog.LevelVar
}

// New initializes a new application.
func New(name string, opts ...Option) (*App, error) {
	defaultCtx := &actx.Context{
		Ctx:     context.Background(),
		FS:      osfs.New(),
		Env:     osEnv{},
		Logger:  slog.Default(),
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Exit:    os.Exit,
		Version: "dev",
	}
	app := &App{name: name, ctx: defaultCtx}

	for _, opt := range opts {
		opt(app)
	}

	var err error
	ver := fmt.Sprintf("%s %s", app.name, app.ctx.Version)
	app.cli, err = cli.New(app.ctx, ver)
	if err != nil {
		return nil, err
	}

	return app, nil
}

// Run initializes the application environment and starts execution of the
// application.
func (app *App) Run(args []string) error {
	// The .env file is loaded first, so that its values can set CLI flags.
	workDir, err := config.WorkDir(app.ctx.Env)
	if err != nil {
		return err
	}
	if err = config.LoadDotEnv(app.ctx.FS, app.ctx.Env, workDir); err != nil {
		return err
	}

	if err = app.cli.Parse(args); err != nil {
		return err
	}

	if app.logLevel != nil {
		app.logLevel.Set(app.cli.Log.Level)
		slog.SetLogLoggerLevel(app.cli.Log.Level)
	}

	if err = app.cli.Execute(app.ctx); err != nil {
		return err
	}

	return nil
}

type osEnv struct{}

var _ actx.Environment = &osEnv{}

func (e osEnv) Get(key string) string {
	return os.Getenv(key)
}

func (e osEnv) Set(key, val string) error {
	return os.Setenv(key, val)
}
