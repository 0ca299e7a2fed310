package context

import (
	"context"
	"io"
	"log/slog"

	"github.com/mandelsoft/vfs/pkg/vfs"

	"go.hackfix.me/seqmig/db"
)

// Context contains common objects used by the application. It is passed around
// the application to avoid direct dependencies on external systems, and make
// testing easier.
type Context struct {
	Ctx    context.Context // global context
	FS     vfs.FileSystem  // filesystem
	Env    Environment     // process environment
	Logger *slog.Logger    // global logger

	// DB is the database handle. If nil, it's opened from the database
	// configuration in the models directory.
	DB *db.DB

	// Standard streams
	Stdout io.Writer
	Stderr io.Writer

	// Exit terminates the process. It's called by the CLI parser after printing
	// help or version information.
	Exit func(code int)

	// Metadata
	Version string
}
