package codegraph

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/relgraph/codegraph/pkg/indexer"
)

// WatchCallback is invoked with a freshly rebuilt graph after every
// debounced batch of filesystem changes, or with a non-nil err if the
// rebuild failed. The previous graph, if any, is still valid for callers to
// keep serving while they wait for the next one.
type WatchCallback func(graph *ProjectCodeGraph, err error)

// Watch runs an initial Analyze, then rebuilds the whole graph from scratch
// on every debounced batch of filesystem events under cfg.RootPath, until
// ctx is cancelled. There is no incremental update path: L5-L9 are
// whole-project folds (a module graph or inheritance MRO can't be patched
// one file at a time), so every change triggers a full re-Analyze rather
// than an attempt at per-file reindexing.
func Watch(ctx context.Context, cfg Config, opts indexer.WatchOptions, logger *slog.Logger, onUpdate WatchCallback) error {
	if logger == nil {
		logger = slog.Default()
	}

	graph, err := Analyze(ctx, cfg, logger)
	onUpdate(graph, err)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addRecursive(watcher, cfg.RootPath, opts, logger); err != nil {
		return err
	}

	debounce := time.Duration(opts.DebounceMs) * time.Millisecond
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}

	var timer *time.Timer

	rebuild := func() {
		g, err := Analyze(ctx, cfg, logger)
		onUpdate(g, err)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if shouldIgnore(ev.Name, opts.IgnorePatterns) {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					_ = watcher.Add(ev.Name)
				}
			}
			if timer == nil {
				timer = time.AfterFunc(debounce, rebuild)
			} else {
				timer.Reset(debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}

func addRecursive(watcher *fsnotify.Watcher, root string, opts indexer.WatchOptions, logger *slog.Logger) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			logger.Warn("watch walk error", "path", path, "error", err)
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if shouldIgnore(path, opts.IgnorePatterns) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func shouldIgnore(path string, patterns []string) bool {
	segments := strings.Split(filepath.ToSlash(path), "/")
	base := segments[len(segments)-1]
	for _, pattern := range patterns {
		if dir, ok := strings.CutSuffix(pattern, "/**"); ok {
			// "dir/**" ignores everything under any directory named dir.
			for _, seg := range segments {
				if matched, _ := filepath.Match(filepath.Base(dir), seg); matched {
					return true
				}
			}
			continue
		}
		if matched, _ := filepath.Match(filepath.Base(pattern), base); matched {
			return true
		}
	}
	return false
}
