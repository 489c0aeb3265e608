package tailgen

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/yacobolo/tailgen/internal/css"
)

// DefaultDebounce is how long watch mode waits for events to settle
const DefaultDebounce = 100 * time.Millisecond

// WatchOptions controls watch mode
type WatchOptions struct {
	Root     string        // directory content paths are relative to; defaults to the config root
	Debounce time.Duration // defaults to DefaultDebounce
	// OnBuild is called after the initial build and every rebuild
	OnBuild func(*Result, css.Diff)
	// OnError is called for failed rebuilds and watcher errors; watching continues
	OnError func(error)
}

// skipDirs are never watched
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
}

// Watch builds once, then rebuilds incrementally whenever a file under the
// content patterns' base directories changes. It blocks until ctx is done.
func Watch(ctx context.Context, b *Builder, opts WatchOptions) error {
	if opts.Root == "" {
		opts.Root = b.cfg.Root
	}
	if opts.Root == "" {
		opts.Root = "."
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	onBuild := opts.OnBuild
	if onBuild == nil {
		onBuild = func(*Result, css.Diff) {}
	}
	onError := opts.OnError
	if onError == nil {
		onError = func(error) {}
	}

	result, err := b.Build(ctx)
	if err != nil {
		return err
	}
	onBuild(result, css.Compare(nil, result.Blocks))

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range watchRoots(opts.Root, b.cfg.Content) {
		if err := addTree(watcher, dir); err != nil {
			return err
		}
	}

	changed := make(map[string]bool)
	removed := make(map[string]bool)
	timer := time.NewTimer(opts.Debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			rel, ok := relPath(opts.Root, event.Name)
			if !ok {
				continue
			}

			switch {
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				removed[rel] = true
				delete(changed, rel)
			case event.Has(fsnotify.Create):
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(watcher, event.Name); err != nil {
						onError(err)
					}
					continue
				}
				changed[rel] = true
				delete(removed, rel)
			case event.Has(fsnotify.Write):
				changed[rel] = true
				delete(removed, rel)
			default:
				continue
			}
			timer.Reset(opts.Debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onError(fmt.Errorf("watcher: %w", err))

		case <-timer.C:
			result, diff, err := b.Rebuild(ctx, setKeys(changed), setKeys(removed))
			clear(changed)
			clear(removed)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				onError(err)
				continue
			}
			if !diff.Empty() || len(result.Warnings) > 0 {
				onBuild(result, diff)
			}
		}
	}
}

// watchRoots returns the static base directory of each include pattern.
func watchRoots(root string, patterns []ContentPattern) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, p := range patterns {
		if p.Negated {
			continue
		}
		base, _ := doublestar.SplitPattern(p.Glob)
		dir := filepath.Join(root, filepath.FromSlash(base))
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			dir = filepath.Dir(dir)
		}
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// addTree watches dir and every directory below it. fsnotify is not recursive.
func addTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && skipDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// relPath converts an event path to a slash-separated path under root.
func relPath(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func setKeys(set map[string]bool) []string {
	return sortedKeys(set)
}
