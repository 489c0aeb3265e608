package tailgen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/yacobolo/tailgen/internal/css"
	"github.com/yacobolo/tailgen/internal/theme"
	"github.com/yacobolo/tailgen/internal/utility"
)

// BuildOptions controls a build
type BuildOptions struct {
	Scan     ScanOptions
	Minify   bool              // compact output
	Source   Source            // defaults to the config root on disk
	Registry *utility.Registry // defaults to utility.DefaultRegistry()
}

// BuildStats summarizes one build pass
type BuildStats struct {
	ScanStats
	Rules      int                 `json:"rules"`
	Dropped    int                 `json:"dropped"` // candidates no grammar resolved
	Categories []css.CategoryCount `json:"categories"`
	Duration   time.Duration       `json:"duration_ns"`
}

// Result is the output of one build pass
type Result struct {
	CSS      []byte
	Blocks   []css.Block
	Rules    []utility.Rule
	Warnings []ScanWarning
	Stats    BuildStats
	Plugins  []string
}

// Build runs a single full build: resolve, scan, generate, assemble, render.
func Build(ctx context.Context, cfg *Config, opts BuildOptions) (*Result, error) {
	b, err := NewBuilder(cfg, opts)
	if err != nil {
		return nil, err
	}
	return b.Build(ctx)
}

// Builder runs builds for one configuration and keeps the per-file token
// sets of the last successful pass for incremental rebuilds.
type Builder struct {
	cfg     *Config
	opts    BuildOptions
	theme   *theme.Theme
	gen     *utility.Generator
	scanner *Scanner

	mu    sync.Mutex
	files map[string][]string
	last  *Result
}

// NewBuilder resolves the configuration's theme and prepares a scanner.
func NewBuilder(cfg *Config, opts BuildOptions) (*Builder, error) {
	if cfg == nil {
		return nil, &ConfigError{Msg: "no configuration"}
	}

	source := opts.Source
	if source == nil {
		root := cfg.Root
		if root == "" {
			root = "."
		}
		source = OSSource(root)
	}

	return &Builder{
		cfg:     cfg,
		opts:    opts,
		theme:   cfg.Theme(),
		gen:     utility.NewGenerator(opts.Registry),
		scanner: NewScanner(source, cfg.Content, opts.Scan),
	}, nil
}

// Theme returns the effective theme.
func (b *Builder) Theme() *theme.Theme {
	return b.theme
}

// Generator returns the utility generator.
func (b *Builder) Generator() *utility.Generator {
	return b.gen
}

// Scanner returns the content scanner.
func (b *Builder) Scanner() *Scanner {
	return b.scanner
}

// Last returns the result of the last successful pass, or nil.
func (b *Builder) Last() *Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

// Build scans every content pattern and builds from scratch.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.build(ctx)
}

func (b *Builder) build(ctx context.Context) (*Result, error) {
	start := time.Now()

	scan, err := b.scanner.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	result, err := b.assemble(ctx, scan.Files, scan.Stats, start)
	if err != nil {
		return nil, err
	}
	result.Warnings = scan.Warnings

	b.files = scan.Files
	b.last = result
	return result, nil
}

// Rebuild rescans changed files, drops removed ones and rebuilds from the
// updated token sets. The full dedup and sort always runs. Paths are
// slash-separated and relative to the config root. Without a previous pass
// it falls back to a full Build.
func (b *Builder) Rebuild(ctx context.Context, changed, removed []string) (*Result, css.Diff, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.last == nil {
		result, err := b.build(ctx)
		if err != nil {
			return nil, css.Diff{}, err
		}
		return result, css.Compare(nil, result.Blocks), nil
	}

	start := time.Now()
	files := maps.Clone(b.files)

	for _, path := range removed {
		delete(files, path)
	}

	var rescan []string
	for _, path := range changed {
		if b.scanner.Matches(path) {
			rescan = append(rescan, path)
		} else {
			delete(files, path)
		}
	}

	scan, err := b.scanner.ScanFiles(ctx, rescan)
	if err != nil {
		return nil, css.Diff{}, fmt.Errorf("scan: %w", err)
	}
	for _, w := range scan.Warnings {
		delete(files, w.File)
	}
	maps.Copy(files, scan.Files)

	stats := b.last.Stats.ScanStats
	stats.FilesScanned = len(files)
	stats.FilesUnreadable = scan.Stats.FilesUnreadable

	result, err := b.assemble(ctx, files, stats, start)
	if err != nil {
		return nil, css.Diff{}, err
	}
	result.Warnings = scan.Warnings

	diff := css.Compare(b.last.Blocks, result.Blocks)
	b.files = files
	b.last = result
	return result, diff, nil
}

// assemble runs the single-threaded stages over fully materialized tokens,
// checking for cancellation between stages.
func (b *Builder) assemble(ctx context.Context, files map[string][]string, stats ScanStats, start time.Time) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tokens := unionTokens(files)
	rules := b.gen.Generate(b.theme, tokens)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	blocks := css.Assemble(rules)

	var renderer css.Renderer = css.PrettyRenderer{}
	if b.opts.Minify {
		renderer = css.CompactRenderer{}
	}
	out, err := css.Render(blocks, renderer)
	if err != nil {
		return nil, err
	}

	stats.Tokens = len(tokens)
	return &Result{
		CSS:     out,
		Blocks:  blocks,
		Rules:   rules,
		Plugins: b.cfg.Plugins,
		Stats: BuildStats{
			ScanStats:  stats,
			Rules:      len(rules),
			Dropped:    len(tokens) - len(rules),
			Categories: css.CountCategories(blocks),
			Duration:   time.Since(start),
		},
	}, nil
}

// WriteFile atomically replaces path with data: a temp file in the same
// directory is written, synced and renamed over the target. An unchanged
// file is left alone. It reports whether the file was written.
func WriteFile(path string, data []byte) (bool, error) {
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
		return false, nil
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return false, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return false, fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return false, fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return false, fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return true, nil
}
