package migration

import (
	"fmt"
	"strconv"
	"strings"
)

// Ext is the file extension of migration scripts.
const Ext = ".sql"

// File describes a migration file found in the migrations directory.
type File struct {
	// Revision is the integer prefix of the filename, before the first '-'.
	Revision int
	// Name is the base filename. It is also the ledger identifier.
	Name string
}

// ParseFilename extracts the revision number from a migration filename.
func ParseFilename(name string) (File, error) {
	revStr, _, found := strings.Cut(name, "-")
	if !found {
		revStr = strings.TrimSuffix(name, Ext)
	}

	rev, err := strconv.Atoi(strings.TrimSpace(revStr))
	if err != nil {
		return File{}, fmt.Errorf("invalid revision in migration filename '%s'", name)
	}

	return File{Revision: rev, Name: name}, nil
}

// Names returns the filenames of files, in the same order.
func Names(files []File) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return names
}
