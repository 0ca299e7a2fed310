package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/mandelsoft/vfs/pkg/vfs"

	actx "go.hackfix.me/seqmig/app/context"
	"go.hackfix.me/seqmig/db/types"
)

// DatabaseFile is the name of the connection configuration file in the models
// directory.
const DatabaseFile = "database.json"

// Database is the connection configuration of the target database.
type Database struct {
	Dialect types.Dialect
	// DSN is the data source name passed to the database driver.
	DSN string
	// DSNEnv is the name of an environment variable whose value replaces DSN.
	DSNEnv string
}

type dbWrapper struct {
	Dialect string `json:"dialect"`
	DSN     string `json:"dsn,omitempty"`
	DSNEnv  string `json:"dsn_env,omitempty"`
}

// UnmarshalJSON validates the dialect while parsing.
func (d *Database) UnmarshalJSON(data []byte) error {
	var w dbWrapper
	if err := json.Unmarshal(data, &w); err != nil {
		//nolint:wrapcheck // This is fine.
		return err
	}

	dialect, err := types.DialectFromString(w.Dialect)
	if err != nil {
		return err
	}
	d.Dialect = dialect
	d.DSN = w.DSN
	d.DSNEnv = w.DSNEnv

	return nil
}

// LoadDatabase reads the database configuration from the models directory,
// and resolves the DSN from the environment if DSNEnv is set.
func LoadDatabase(fs vfs.FileSystem, env actx.Environment, modelsDir string) (*Database, error) {
	path := filepath.Join(modelsDir, DatabaseFile)
	dbJSON, err := vfs.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed reading database configuration: %w", err)
	}

	d := &Database{}
	if err = json.Unmarshal(dbJSON, d); err != nil {
		return nil, fmt.Errorf("failed parsing database configuration %s: %w", path, err)
	}

	if d.DSNEnv != "" {
		d.DSN = env.Get(d.DSNEnv)
		if d.DSN == "" {
			return nil, fmt.Errorf("environment variable %s referenced by %s is empty", d.DSNEnv, path)
		}
	}
	if d.DSN == "" {
		return nil, errors.New("database DSN is not configured")
	}

	return d, nil
}
