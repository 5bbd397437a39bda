package catalog

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/alexanderramin/appletgen/internal/fsutil"
)

// IndexFile is the page name inside the public directory.
const IndexFile = "index.html"

// Store reads and writes the index page of a public directory.
type Store struct {
	Dir string
}

func (s Store) Path() string {
	return filepath.Join(s.Dir, IndexFile)
}

// Read loads the current catalog. A missing index yields an empty catalog.
func (s Store) Read(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f, "text/html")
}

// Write replaces the index page atomically.
func (s Store) Write(ctx context.Context, cat *Catalog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fsutil.WriteAtomic(s.Path(), 0o644, func(w io.Writer) error {
		return Render(w, cat)
	})
}
