package migration

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/mandelsoft/vfs/pkg/vfs"
)

// Locator lists migration files in a directory.
type Locator struct {
	fs vfs.FileSystem
}

// NewLocator returns a Locator that reads directories from fs.
func NewLocator(fs vfs.FileSystem) *Locator {
	return &Locator{fs: fs}
}

// List returns the migration files in dir, sorted by revision. Files sharing
// a revision keep their directory listing order. Hidden files, directories
// and files without the migration extension are skipped.
func (l *Locator) List(dir string) ([]File, error) {
	entries, err := vfs.ReadDir(l.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed reading migrations directory: %w", err)
	}

	files := make([]File, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, Ext) {
			continue
		}
		f, err := ParseFilename(name)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	SortByRevision(files)

	return files, nil
}

// SortByRevision sorts files in place by ascending revision. Files sharing a
// revision keep their relative order.
func SortByRevision(files []File) {
	slices.SortStableFunc(files, func(a, b File) int {
		return cmp.Compare(a.Revision, b.Revision)
	})
}
