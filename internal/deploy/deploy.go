// Package deploy copies an assembled applet into the public site tree.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/appletgen/internal/assembler"
	"github.com/alexanderramin/appletgen/internal/domain"
	"github.com/alexanderramin/appletgen/internal/fsutil"
	"github.com/alexanderramin/appletgen/internal/logger"
)

// LibraryDir and LibraryFile locate the shared Zdog build under the public
// directory. Applet pages reference it as assembler.LibraryPath.
const (
	LibraryDir  = domain.SharedAssetDir
	LibraryFile = "zdog.dist.min.js"
)

var (
	ErrNoPublicDir = errors.New("public directory is not configured")
	ErrInvalidSlug = errors.New("invalid slug")
)

// Publisher places artifacts at <PublicDir>/<slug>/index.html.
type Publisher struct {
	PublicDir string
	// LibrarySource is the local Zdog build copied into the site when the
	// site has none. Empty means the library is managed elsewhere.
	LibrarySource string
	Log           *logger.Logger
}

// LibraryPath returns where the shared library lives in the public tree.
func (p *Publisher) LibraryPath() string {
	return filepath.Join(p.PublicDir, LibraryDir, LibraryFile)
}

// Publish reads the slug from slugFile and copies the page found in
// artifactDir to its public location. The shared library is copied only when
// the site lacks one; an existing copy is never overwritten.
func (p *Publisher) Publish(ctx context.Context, artifactDir, slugFile string) (string, error) {
	if p.PublicDir == "" {
		return "", ErrNoPublicDir
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	slug, err := assembler.ReadSlugFile(slugFile)
	if err != nil {
		return "", fmt.Errorf("reading slug: %w", err)
	}
	if err := checkSlug(slug); err != nil {
		return "", err
	}

	src := filepath.Join(artifactDir, assembler.PageFile)
	dst := filepath.Join(p.PublicDir, slug, assembler.PageFile)
	if err := fsutil.CopyFile(src, dst, 0o644); err != nil {
		return "", fmt.Errorf("publishing %s: %w", slug, err)
	}
	p.log().Info("applet published", "slug", slug, "path", dst)

	if err := p.ensureLibrary(); err != nil {
		return "", err
	}
	return slug, nil
}

func (p *Publisher) ensureLibrary() error {
	dst := p.LibraryPath()
	ok, err := fsutil.Exists(dst)
	if err != nil {
		return fmt.Errorf("checking library: %w", err)
	}
	if ok {
		return nil
	}
	if p.LibrarySource == "" {
		p.log().Warn("zdog library missing from public directory", "path", dst)
		return nil
	}
	if err := fsutil.CopyFile(p.LibrarySource, dst, 0o644); err != nil {
		return fmt.Errorf("installing library: %w", err)
	}
	p.log().Info("zdog library installed", "path", dst)
	return nil
}

func (p *Publisher) log() *logger.Logger {
	if p.Log == nil {
		return logger.Nop()
	}
	return p.Log
}

// checkSlug rejects slugs that would escape the public directory or shadow
// the library folder.
func checkSlug(slug string) error {
	switch {
	case slug == "." || slug == "..",
		strings.ContainsAny(slug, `/\`),
		domain.IsReservedSlug(slug):
		return fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}
	return nil
}
