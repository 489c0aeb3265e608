package tailgen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/tailgen/internal/css"
	"github.com/yacobolo/tailgen/internal/theme"
)

var brightnessOverlay = theme.Overlay{
	{Name: "brightness", Entries: []theme.Entry{{Key: "25", Value: ".25"}, {Key: "175", Value: "1.75"}}},
}

func testConfig(t *testing.T, extend theme.Overlay, globs ...string) *Config {
	t.Helper()
	return &Config{Root: ".", Content: patterns(t, globs...), Extend: extend}
}

func buildFS(t *testing.T, cfg *Config, fsys fstest.MapFS, opts BuildOptions) *Result {
	t.Helper()
	opts.Source = NewFSSource(fsys)
	result, err := Build(context.Background(), cfg, opts)
	require.NoError(t, err)
	return result
}

func selectors(blocks []css.Block) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.Selector
	}
	return out
}

func TestBuildExtendedScale(t *testing.T) {
	fsys := fstest.MapFS{"src/index.html": file("brightness-25 brightness-999")}
	cfg := testConfig(t, brightnessOverlay, "src/**/*.html")

	result := buildFS(t, cfg, fsys, BuildOptions{})

	assert.Equal(t, ".brightness-25 {\n  filter: brightness(.25);\n}\n", string(result.CSS))
	assert.Equal(t, 2, result.Stats.Tokens)
	assert.Equal(t, 1, result.Stats.Rules)
	assert.Equal(t, 1, result.Stats.Dropped)
	assert.Equal(t, 1, result.Stats.FilesScanned)
	assert.Empty(t, result.Warnings)
}

func TestBuildWithoutContent(t *testing.T) {
	cfg := testConfig(t, nil)

	result := buildFS(t, cfg, fstest.MapFS{"a.html": file("p-4")}, BuildOptions{})

	assert.Empty(t, result.CSS)
	assert.Empty(t, result.Rules)
	assert.Empty(t, result.Warnings)
}

func TestBuildIsIdempotent(t *testing.T) {
	fsys := fstest.MapFS{
		"a.html": file(`<div class="md:p-4 hover:bg-white brightness-175 w-[60px]">`),
		"b.html": file(`<span class="p-4 -mt-2 !block">`),
	}
	cfg := testConfig(t, brightnessOverlay, "*.html")

	first := buildFS(t, cfg, fsys, BuildOptions{})
	second := buildFS(t, cfg, fsys, BuildOptions{Scan: ScanOptions{Concurrency: 1}})
	reversed, err := Build(context.Background(), cfg, BuildOptions{Source: reversedSource{NewFSSource(fsys)}})
	require.NoError(t, err)

	assert.NotEmpty(t, first.CSS)
	assert.Equal(t, string(first.CSS), string(second.CSS))
	assert.Equal(t, string(first.CSS), string(reversed.CSS))
}

func TestBuildDeduplicatesAcrossFiles(t *testing.T) {
	fsys := fstest.MapFS{}
	for i := range 5 {
		fsys[fmt.Sprintf("page%d.html", i)] = file("p-4")
	}
	cfg := testConfig(t, nil, "*.html")

	result := buildFS(t, cfg, fsys, BuildOptions{})
	assert.Equal(t, []string{".p-4"}, selectors(result.Blocks))
	assert.Equal(t, 5, result.Stats.FilesScanned)
}

func TestBuildMinify(t *testing.T) {
	fsys := fstest.MapFS{"a.html": file("brightness-25 md:p-4")}
	cfg := testConfig(t, brightnessOverlay, "*.html")

	result := buildFS(t, cfg, fsys, BuildOptions{Minify: true})
	assert.Equal(t, ".brightness-25{filter:brightness(.25)}@media (min-width: 768px){.md\\:p-4{padding:1rem}}\n", string(result.CSS))
}

func TestBuildPassesPluginsThrough(t *testing.T) {
	cfg := testConfig(t, nil, "*.html")
	cfg.Plugins = []string{"forms", "typography"}

	result := buildFS(t, cfg, fstest.MapFS{"a.html": file("p-4")}, BuildOptions{})
	assert.Equal(t, []string{"forms", "typography"}, result.Plugins)
}

func TestBuildAssemblyError(t *testing.T) {
	fsys := fstest.MapFS{"a.html": file("brightness-bad")}
	cfg := testConfig(t, theme.Overlay{
		{Name: "brightness", Entries: []theme.Entry{{Key: "bad", Value: "1;color:red"}}},
	}, "*.html")

	result, err := Build(context.Background(), cfg, BuildOptions{Source: NewFSSource(fsys)})
	assert.Nil(t, result)

	var aerr *css.AssemblyError
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, "brightness-bad", aerr.Token)
	assert.ErrorIs(t, err, css.ErrUnsafeValue)
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := testConfig(t, nil, "*.html")
	_, err := Build(ctx, cfg, BuildOptions{Source: NewFSSource(fstest.MapFS{"a.html": file("p-4")})})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildNilConfig(t *testing.T) {
	_, err := Build(context.Background(), nil, BuildOptions{})
	var cerr *ConfigError
	assert.True(t, errors.As(err, &cerr))
}

func TestRebuildMatchesCleanBuild(t *testing.T) {
	fsys := fstest.MapFS{
		"a.html": file("p-4 block"),
		"b.html": file("mt-2"),
	}
	cfg := testConfig(t, brightnessOverlay, "*.html")

	b, err := NewBuilder(cfg, BuildOptions{Source: NewFSSource(fsys)})
	require.NoError(t, err)
	_, err = b.Build(context.Background())
	require.NoError(t, err)

	fsys["a.html"] = file("p-4 brightness-25")
	fsys["c.html"] = file("flex")
	delete(fsys, "b.html")

	result, diff, err := b.Rebuild(context.Background(), []string{"a.html", "c.html", "notes.txt"}, []string{"b.html"})
	require.NoError(t, err)

	clean := buildFS(t, cfg, fsys, BuildOptions{})
	assert.Equal(t, string(clean.CSS), string(result.CSS))
	assert.Same(t, result, b.Last())

	assert.Equal(t, []string{".flex", ".brightness-25"}, selectors(diff.Added))
	assert.Equal(t, []string{".block", ".mt-2"}, selectors(diff.Removed))
	assert.Empty(t, diff.Changed)
}

func TestRebuildWithoutPreviousPass(t *testing.T) {
	fsys := fstest.MapFS{"a.html": file("p-4")}
	b, err := NewBuilder(testConfig(t, nil, "*.html"), BuildOptions{Source: NewFSSource(fsys)})
	require.NoError(t, err)

	result, diff, err := b.Rebuild(context.Background(), []string{"a.html"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{".p-4"}, selectors(result.Blocks))
	assert.Equal(t, []string{".p-4"}, selectors(diff.Added))
}

func TestRebuildFailureKeepsLastResult(t *testing.T) {
	fsys := fstest.MapFS{"a.html": file("p-4")}
	cfg := testConfig(t, theme.Overlay{
		{Name: "brightness", Entries: []theme.Entry{{Key: "bad", Value: "1}"}}},
	}, "*.html")

	b, err := NewBuilder(cfg, BuildOptions{Source: NewFSSource(fsys)})
	require.NoError(t, err)
	first, err := b.Build(context.Background())
	require.NoError(t, err)

	fsys["a.html"] = file("p-4 brightness-bad")
	_, _, err = b.Rebuild(context.Background(), []string{"a.html"}, nil)
	require.Error(t, err)
	assert.Same(t, first, b.Last())

	// a later successful pass diffs against the last good output
	fsys["a.html"] = file("p-4 mt-2")
	_, diff, err := b.Rebuild(context.Background(), []string{"a.html"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{".mt-2"}, selectors(diff.Added))
	assert.Empty(t, diff.Removed)
}

func TestRebuildDropsUnreadableFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"a.html": file("p-4"),
		"b.html": file("mt-2"),
	}
	source := failingSource{FSSource: NewFSSource(fsys), fail: map[string]bool{}}

	b, err := NewBuilder(testConfig(t, nil, "*.html"), BuildOptions{Source: source})
	require.NoError(t, err)
	_, err = b.Build(context.Background())
	require.NoError(t, err)

	source.fail["b.html"] = true
	result, diff, err := b.Rebuild(context.Background(), []string{"b.html"}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{".p-4"}, selectors(result.Blocks))
	assert.Equal(t, []string{".mt-2"}, selectors(diff.Removed))
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "b.html", result.Warnings[0].File)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dist", "out.css")

	written, err := WriteFile(path, []byte(".p-4{padding:1rem}\n"))
	require.NoError(t, err)
	assert.True(t, written)

	written, err = WriteFile(path, []byte(".p-4{padding:1rem}\n"))
	require.NoError(t, err)
	assert.False(t, written, "unchanged content is not rewritten")

	written, err = WriteFile(path, []byte(".m-4{margin:1rem}\n"))
	require.NoError(t, err)
	assert.True(t, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ".m-4{margin:1rem}\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}
