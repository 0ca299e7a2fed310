package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	actx "go.hackfix.me/seqmig/app/context"
)

// CLI is the command line interface of seqmig. It has no subcommands: running
// it applies the pending migrations.
type CLI struct {
	Migrate

	Log struct {
		Level slog.Level `enum:"DEBUG,INFO,WARN,ERROR" default:"INFO" help:"Set the app logging level."`
	} `embed:"" prefix:"log-"`
	Version kong.VersionFlag `kong:"help='Output version and exit.'"`

	kong *kong.Kong
	kctx *kong.Context
	// exited is set when the parser requested an exit, so that nothing is
	// executed if the exit function returns.
	exited bool
}

// New initializes the command-line interface.
func New(appCtx *actx.Context, version string) (*CLI, error) {
	c := &CLI{}
	exit := appCtx.Exit
	if exit == nil {
		exit = os.Exit
	}
	kparser, err := kong.New(c,
		kong.Name("seqmig"),
		kong.Description("Simple SQL migration execution tool."),
		kong.UsageOnError(),
		kong.DefaultEnvars("SEQMIG"),
		kong.Writers(appCtx.Stdout, appCtx.Stderr),
		kong.Exit(func(code int) {
			c.exited = true
			exit(code)
		}),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed creating the Kong parser: %w", err)
	}

	c.kong = kparser

	return c, nil
}

// Execute starts the command execution. Parse must be called before this method.
func (c *CLI) Execute(appCtx *actx.Context) error {
	if c.exited {
		return nil
	}
	if c.kctx == nil {
		panic("the CLI wasn't initialized properly")
	}

	//nolint:wrapcheck // This is fine.
	return c.kctx.Run(appCtx)
}

// Parse the given command line arguments. This method must be called before
// Execute. If parsing stopped early to exit, e.g. after --help, Execute does
// nothing.
func (c *CLI) Parse(args []string) error {
	kctx, err := c.kong.Parse(args)
	if c.exited {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed parsing CLI arguments: %w", err)
	}
	c.kctx = kctx

	return nil
}
