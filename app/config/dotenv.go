package config

import (
	"fmt"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mandelsoft/vfs/pkg/vfs"

	actx "go.hackfix.me/seqmig/app/context"
)

// DotEnvFile is the name of the optional environment file in the working
// directory.
const DotEnvFile = ".env"

// LoadDotEnv sets the variables defined in the .env file of workDir, unless
// they're already set in env. A missing file is not an error.
func LoadDotEnv(fs vfs.FileSystem, env actx.Environment, workDir string) error {
	f, err := fs.Open(filepath.Join(workDir, DotEnvFile))
	if err != nil {
		if vfs.IsErrNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed opening %s file: %w", DotEnvFile, err)
	}
	defer f.Close()

	vars, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("failed parsing %s file: %w", DotEnvFile, err)
	}

	for k, v := range vars {
		if env.Get(k) != "" {
			continue
		}
		if err = env.Set(k, v); err != nil {
			return fmt.Errorf("failed setting environment variable %s: %w", k, err)
		}
	}

	return nil
}
