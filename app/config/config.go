package config

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mandelsoft/vfs/pkg/vfs"

	actx "go.hackfix.me/seqmig/app/context"
)

// RCFile is the name of the optional paths configuration file, looked up in
// the working directory.
const RCFile = ".seqmigrc"

// Default directory names, relative to the working directory.
const (
	DefaultMigrationsDir = "migrations"
	DefaultModelsDir     = "models"
)

// RC holds the directory overrides read from the RC file.
type RC struct {
	MigrationsPath sql.Null[string]
	ModelsPath     sql.Null[string]

	fs   vfs.FileSystem
	path string
}

// NewRC creates a new RC instance reading from path on the given filesystem.
func NewRC(fs vfs.FileSystem, path string) *RC {
	return &RC{fs: fs, path: path}
}

// Load reads and parses the RC file. A missing, empty or whitespace-only file
// leaves all values unset.
func (c *RC) Load() error {
	rcJSON, err := vfs.ReadFile(c.fs, c.path)
	if err != nil && !vfs.IsErrNotExist(err) {
		return fmt.Errorf("failed reading %s file: %w", RCFile, err)
	}

	// Ensure that unmarshalling JSON doesn't fail if the file doesn't exist or is blank.
	rcJSON = bytes.TrimSpace(rcJSON)
	if len(rcJSON) == 0 {
		rcJSON = []byte("{}")
	}

	if err = json.Unmarshal(rcJSON, c); err != nil {
		return fmt.Errorf("failed parsing %s file: %w", RCFile, err)
	}

	return nil
}

// Path returns the filesystem path of the RC file.
func (c *RC) Path() string {
	return c.path
}

type rcWrapper struct {
	MigrationsPath string `json:"migrations-path,omitempty"`
	ModelsPath     string `json:"models-path,omitempty"`
}

// UnmarshalJSON converts plain string values into sql.Null values.
func (c *RC) UnmarshalJSON(data []byte) error {
	var w rcWrapper
	if err := json.Unmarshal(data, &w); err != nil {
		//nolint:wrapcheck // This is fine.
		return err
	}

	if w.MigrationsPath != "" {
		c.MigrationsPath = sql.Null[string]{V: w.MigrationsPath, Valid: true}
	}
	if w.ModelsPath != "" {
		c.ModelsPath = sql.Null[string]{V: w.ModelsPath, Valid: true}
	}

	return nil
}

// Paths are the resolved migrations and models directories.
type Paths struct {
	MigrationsDir string
	ModelsDir     string
}

// WorkDir returns the working directory of the process. $PWD is preferred,
// since it's kept when running through symlinked directories.
func WorkDir(env actx.Environment) (string, error) {
	if pwd := env.Get("PWD"); pwd != "" {
		return pwd, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed getting the working directory: %w", err)
	}

	return wd, nil
}

// ResolvePaths determines the migrations and models directories. Non-empty
// flag values take precedence over the RC file in workDir, which takes
// precedence over the default directories in workDir. Relative paths are
// resolved against workDir.
func ResolvePaths(fs vfs.FileSystem, workDir, migrationsFlag, modelsFlag string) (Paths, error) {
	rc := NewRC(fs, filepath.Join(workDir, RCFile))
	if err := rc.Load(); err != nil {
		return Paths{}, err
	}

	paths := Paths{
		MigrationsDir: pick(migrationsFlag, rc.MigrationsPath, DefaultMigrationsDir),
		ModelsDir:     pick(modelsFlag, rc.ModelsPath, DefaultModelsDir),
	}
	if !filepath.IsAbs(paths.MigrationsDir) {
		paths.MigrationsDir = filepath.Join(workDir, paths.MigrationsDir)
	}
	if !filepath.IsAbs(paths.ModelsDir) {
		paths.ModelsDir = filepath.Join(workDir, paths.ModelsDir)
	}

	return paths, nil
}

func pick(flag string, rc sql.Null[string], def string) string {
	if flag != "" {
		return flag
	}
	if rc.Valid {
		return rc.V
	}
	return def
}

// DirExists returns true if path exists in fs and is a directory.
func DirExists(fs vfs.FileSystem, path string) (bool, error) {
	fi, err := fs.Stat(path)
	if err != nil {
		if vfs.IsErrNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed checking directory '%s': %w", path, err)
	}

	return fi.IsDir(), nil
}
