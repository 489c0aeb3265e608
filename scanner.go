package tailgen

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/sync/errgroup"
)

// ErrScanAborted is returned when more files fail to read than
// ScanOptions.MaxReadErrors allows.
var ErrScanAborted = errors.New("scan aborted: too many unreadable files")

// Source enumerates and reads content files. Paths are slash-separated and
// relative to the source root.
type Source interface {
	// Glob lazily yields files matching a doublestar pattern.
	Glob(ctx context.Context, pattern string) iter.Seq2[string, error]
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// FSSource is a Source backed by an fs.FS
type FSSource struct {
	FS fs.FS
}

// NewFSSource creates a source over fsys.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{FS: fsys}
}

// OSSource creates a source over the directory tree at root.
func OSSource(root string) *FSSource {
	return &FSSource{FS: os.DirFS(root)}
}

var errStopWalk = errors.New("stop walk")

// Glob implements Source.
func (s *FSSource) Glob(ctx context.Context, pattern string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		err := doublestar.GlobWalk(s.FS, pattern, func(path string, _ fs.DirEntry) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if !yield(path, nil) {
				return errStopWalk
			}
			return nil
		}, doublestar.WithFilesOnly())

		if err != nil && !errors.Is(err, errStopWalk) {
			yield("", err)
		}
	}
}

// ReadFile implements Source.
func (s *FSSource) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fs.ReadFile(s.FS, path)
}

// ScanOptions controls file discovery and reading
type ScanOptions struct {
	Concurrency   int  // concurrent file reads; <= 0 uses GOMAXPROCS
	MaxReadErrors int  // abort once more files than this are unreadable; 0 never aborts
	UseGitignore  bool // skip files matched by the source root's .gitignore
}

// ScanWarning is a non-fatal scan problem
type ScanWarning struct {
	Pattern string // set when a pattern matched nothing or could not be walked
	File    string // set when a file could not be read
	Err     error
}

func (w ScanWarning) String() string {
	switch {
	case w.File != "":
		return fmt.Sprintf("%s: unreadable, skipped: %v", w.File, w.Err)
	case w.Err != nil:
		return fmt.Sprintf("pattern %q: %v", w.Pattern, w.Err)
	default:
		return fmt.Sprintf("pattern %q matched no files", w.Pattern)
	}
}

// ScanStats tracks file scanning statistics
type ScanStats struct {
	FilesDiscovered int `json:"files_discovered"` // unique files found by content patterns
	FilesScanned    int `json:"files_scanned"`    // files read and tokenized
	FilesSkipped    int `json:"files_skipped"`    // excluded by "!" patterns or .gitignore
	FilesUnreadable int `json:"files_unreadable"` // read failures
	Tokens          int `json:"tokens"`           // unique candidate tokens
}

// ScanResult holds the candidate tokens of one scan
type ScanResult struct {
	Files    map[string][]string // file -> sorted unique tokens
	Warnings []ScanWarning
	Stats    ScanStats
}

// Tokens returns the sorted union of all files' tokens.
func (r *ScanResult) Tokens() []string {
	return unionTokens(r.Files)
}

// All yields every (file, token) pair, files in sorted order.
func (r *ScanResult) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, file := range sortedKeys(r.Files) {
			for _, tok := range r.Files[file] {
				if !yield(file, tok) {
					return
				}
			}
		}
	}
}

// Scanner discovers content files and extracts candidate tokens
type Scanner struct {
	source     Source
	include    []ContentPattern
	exclude    []ContentPattern
	opts       ScanOptions
	ignore     *ignore.GitIgnore
	ignoreOnce sync.Once
}

// NewScanner creates a scanner for patterns over source.
func NewScanner(source Source, patterns []ContentPattern, opts ScanOptions) *Scanner {
	s := &Scanner{source: source, opts: opts}
	for _, p := range patterns {
		if p.Negated {
			s.exclude = append(s.exclude, p)
		} else {
			s.include = append(s.include, p)
		}
	}
	return s
}

// loadGitIgnore reads the source root's .gitignore once. A missing file
// disables the layer.
func (s *Scanner) loadGitIgnore(ctx context.Context) {
	if !s.opts.UseGitignore {
		return
	}
	s.ignoreOnce.Do(func() {
		data, err := s.source.ReadFile(ctx, ".gitignore")
		if err != nil {
			return
		}
		s.ignore = ignore.CompileIgnoreLines(strings.Split(string(data), "\n")...)
	})
}

// skip reports whether a discovered file is excluded.
//
// Two-layer filtering:
// 1. "!" patterns from the content list
// 2. .gitignore, when enabled
func (s *Scanner) skip(path string) bool {
	for _, p := range s.exclude {
		if doublestar.MatchUnvalidated(p.Glob, path) {
			return true
		}
	}
	return s.ignore != nil && s.ignore.MatchesPath(path)
}

// Matches reports whether path is selected by the content patterns.
func (s *Scanner) Matches(path string) bool {
	for _, p := range s.include {
		if doublestar.MatchUnvalidated(p.Glob, path) {
			return !s.skip(path)
		}
	}
	return false
}

// Scan enumerates every content pattern and extracts tokens from the matched
// files. Unreadable files and empty patterns become warnings. The result is
// discarded if the context is cancelled or the read-error limit is exceeded.
func (s *Scanner) Scan(ctx context.Context) (*ScanResult, error) {
	s.loadGitIgnore(ctx)

	files, warnings, stats, err := s.discover(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.read(ctx, files)
	if err != nil {
		return nil, err
	}

	result.Warnings = append(warnings, result.Warnings...)
	result.Stats.FilesDiscovered = stats.FilesDiscovered
	result.Stats.FilesSkipped = stats.FilesSkipped
	return result, nil
}

// ScanFiles reads the given files without pattern enumeration. Used for
// incremental rescans of changed files.
func (s *Scanner) ScanFiles(ctx context.Context, paths []string) (*ScanResult, error) {
	s.loadGitIgnore(ctx)
	return s.read(ctx, paths)
}

// Files returns the content files a scan would read, after "!" patterns and
// .gitignore, sorted. Patterns that match nothing become warnings.
func (s *Scanner) Files(ctx context.Context) ([]string, []ScanWarning, error) {
	s.loadGitIgnore(ctx)
	files, warnings, _, err := s.discover(ctx)
	return files, warnings, err
}

func (s *Scanner) discover(ctx context.Context) ([]string, []ScanWarning, ScanStats, error) {
	var (
		files    []string
		warnings []ScanWarning
		stats    ScanStats
	)
	seen := make(map[string]bool)

	for _, p := range s.include {
		matched := 0
		walkFailed := false
		for path, err := range s.source.Glob(ctx, p.Glob) {
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, nil, stats, ctxErr
				}
				warnings = append(warnings, ScanWarning{Pattern: p.String(), Err: err})
				walkFailed = true
				break
			}
			matched++

			if seen[path] {
				continue
			}
			seen[path] = true
			stats.FilesDiscovered++

			if s.skip(path) {
				stats.FilesSkipped++
				continue
			}
			files = append(files, path)
		}

		if matched == 0 && !walkFailed {
			warnings = append(warnings, ScanWarning{Pattern: p.String()})
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, stats, err
	}

	sort.Strings(files)
	return files, warnings, stats, nil
}

type fileTokens struct {
	tokens []string
	err    error
}

// read tokenizes files with bounded concurrency. Each worker writes only its
// own slot; results are merged after Wait.
func (s *Scanner) read(ctx context.Context, files []string) (*ScanResult, error) {
	limit := s.opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]fileTokens, len(files))
	var failures atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, path := range files {
		g.Go(func() error {
			data, err := s.source.ReadFile(gctx, path)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				results[i].err = err
				n := failures.Add(1)
				if s.opts.MaxReadErrors > 0 && n > int64(s.opts.MaxReadErrors) {
					return fmt.Errorf("%w (%d failures, limit %d)", ErrScanAborted, n, s.opts.MaxReadErrors)
				}
				return nil
			}
			results[i].tokens = ExtractCandidates(data)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &ScanResult{Files: make(map[string][]string, len(files))}
	for i, path := range files {
		if results[i].err != nil {
			result.Warnings = append(result.Warnings, ScanWarning{File: path, Err: results[i].err})
			result.Stats.FilesUnreadable++
			continue
		}
		result.Files[path] = results[i].tokens
		result.Stats.FilesScanned++
	}
	result.Stats.Tokens = len(unionTokens(result.Files))

	return result, nil
}

func unionTokens(files map[string][]string) []string {
	set := make(map[string]struct{})
	for _, tokens := range files {
		for _, t := range tokens {
			set[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
