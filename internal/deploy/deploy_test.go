package deploy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/appletgen/internal/assembler"
	"github.com/alexanderramin/appletgen/internal/logger"
	"github.com/alexanderramin/appletgen/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fixture struct {
	artifactDir string
	slugFile    string
	publicDir   string
}

func newFixture(t *testing.T, slug string) fixture {
	t.Helper()
	root := t.TempDir()
	f := fixture{
		artifactDir: filepath.Join(root, "output"),
		slugFile:    filepath.Join(root, assembler.DefaultSlugFile),
		publicDir:   filepath.Join(root, "public"),
	}
	require.NoError(t, os.MkdirAll(f.artifactDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(f.artifactDir, assembler.PageFile), []byte("<html>box</html>"), 0o644))
	require.NoError(t, os.WriteFile(f.slugFile, []byte(slug+"\n"), 0o644))
	return f
}

func observed() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return logger.FromZap(zap.New(core)), logs
}

func TestPublish_CopiesPageAndLibrary(t *testing.T) {
	f := newFixture(t, "box-dimensions-challenge")
	lib := filepath.Join(t.TempDir(), LibraryFile)
	require.NoError(t, os.WriteFile(lib, []byte("/* zdog */"), 0o644))

	p := &Publisher{PublicDir: f.publicDir, LibrarySource: lib}
	slug, err := p.Publish(context.Background(), f.artifactDir, f.slugFile)
	require.NoError(t, err)
	assert.Equal(t, "box-dimensions-challenge", slug)

	page, err := os.ReadFile(filepath.Join(f.publicDir, slug, assembler.PageFile))
	require.NoError(t, err)
	assert.Equal(t, "<html>box</html>", string(page))

	got, err := os.ReadFile(p.LibraryPath())
	require.NoError(t, err)
	assert.Equal(t, "/* zdog */", string(got))
}

func TestPublish_TitleCollidingWithLibraryDir(t *testing.T) {
	rec := testutil.NewBoxRecord()
	rec.Title = "JS"
	art, err := assembler.Assemble(rec)
	require.NoError(t, err)

	root := t.TempDir()
	artifactDir := filepath.Join(root, "output")
	slugFile := filepath.Join(root, assembler.DefaultSlugFile)
	require.NoError(t, assembler.WriteArtifact(artifactDir, slugFile, art))

	p := &Publisher{PublicDir: filepath.Join(root, "public")}
	slug, err := p.Publish(context.Background(), artifactDir, slugFile)
	require.NoError(t, err)
	assert.Equal(t, "js-applet", slug)
	assert.FileExists(t, filepath.Join(p.PublicDir, "js-applet", assembler.PageFile))
	assert.NoFileExists(t, filepath.Join(p.PublicDir, LibraryDir, assembler.PageFile))
}

func TestPublish_NeverOverwritesLibrary(t *testing.T) {
	f := newFixture(t, "box")
	lib := filepath.Join(t.TempDir(), LibraryFile)
	require.NoError(t, os.WriteFile(lib, []byte("new build"), 0o644))

	p := &Publisher{PublicDir: f.publicDir, LibrarySource: lib}
	require.NoError(t, os.MkdirAll(filepath.Dir(p.LibraryPath()), 0o755))
	require.NoError(t, os.WriteFile(p.LibraryPath(), []byte("pinned build"), 0o644))

	_, err := p.Publish(context.Background(), f.artifactDir, f.slugFile)
	require.NoError(t, err)

	got, err := os.ReadFile(p.LibraryPath())
	require.NoError(t, err)
	assert.Equal(t, "pinned build", string(got))
}

func TestPublish_MissingLibraryWarns(t *testing.T) {
	f := newFixture(t, "box")
	log, logs := observed()

	p := &Publisher{PublicDir: f.publicDir, Log: log}
	_, err := p.Publish(context.Background(), f.artifactDir, f.slugFile)
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("zdog library missing from public directory").Len())
	assert.NoFileExists(t, p.LibraryPath())
}

func TestPublish_OverwritesPreviousPage(t *testing.T) {
	f := newFixture(t, "box")
	p := &Publisher{PublicDir: f.publicDir}
	ctx := context.Background()

	_, err := p.Publish(ctx, f.artifactDir, f.slugFile)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(f.artifactDir, assembler.PageFile), []byte("<html>v2</html>"), 0o644))
	_, err = p.Publish(ctx, f.artifactDir, f.slugFile)
	require.NoError(t, err)

	page, err := os.ReadFile(filepath.Join(f.publicDir, "box", assembler.PageFile))
	require.NoError(t, err)
	assert.Equal(t, "<html>v2</html>", string(page))
}

func TestPublish_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("no public dir", func(t *testing.T) {
		f := newFixture(t, "box")
		_, err := (&Publisher{}).Publish(ctx, f.artifactDir, f.slugFile)
		assert.ErrorIs(t, err, ErrNoPublicDir)
	})

	for _, slug := range []string{"..", "../escape", "js", `a\b`} {
		t.Run("slug "+slug, func(t *testing.T) {
			f := newFixture(t, slug)
			_, err := (&Publisher{PublicDir: f.publicDir}).Publish(ctx, f.artifactDir, f.slugFile)
			assert.ErrorIs(t, err, ErrInvalidSlug)
		})
	}

	t.Run("missing slug file", func(t *testing.T) {
		f := newFixture(t, "box")
		_, err := (&Publisher{PublicDir: f.publicDir}).Publish(ctx, f.artifactDir, filepath.Join(t.TempDir(), "none.txt"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("missing artifact", func(t *testing.T) {
		f := newFixture(t, "box")
		require.NoError(t, os.Remove(filepath.Join(f.artifactDir, assembler.PageFile)))
		_, err := (&Publisher{PublicDir: f.publicDir}).Publish(ctx, f.artifactDir, f.slugFile)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
