package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/evanw/jsfold/internal/logger"
)

// Editors often write a file in several steps, so changes are collected
// until the files have been quiet for this long
const watchDebounce = 50 * time.Millisecond

type watcher struct {
	fsw *fsnotify.Watcher

	// Absolute path to the path as it was given on the command line
	paths map[string]string

	rebuild func(paths []string)
}

// Directories are watched instead of files because many editors save by
// replacing the file, which ends a watch on the file itself
func newWatcher(paths []string, rebuild func(paths []string)) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to start watching: %w", err)
	}

	w := &watcher{fsw: fsw, paths: make(map[string]string), rebuild: rebuild}
	dirs := make(map[string]bool)
	for _, path := range paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to watch %q: %w", path, err)
		}
		w.paths[absPath] = path
		dir := filepath.Dir(absPath)
		if !dirs[dir] {
			dirs[dir] = true
			if err := fsw.Add(dir); err != nil {
				fsw.Close()
				return nil, fmt.Errorf("failed to watch %q: %w", dir, err)
			}
		}
	}
	return w, nil
}

func (w *watcher) close() {
	w.fsw.Close()
}

func (w *watcher) changedPath(event fsnotify.Event) (string, bool) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return "", false
	}
	absPath, err := filepath.Abs(event.Name)
	if err != nil {
		return "", false
	}
	path, ok := w.paths[absPath]
	return path, ok
}

// Blocks until the context is done
func (w *watcher) loop(ctx context.Context, onError func(error)) {
	var pending []string
	var timer <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if path, ok := w.changedPath(event); ok {
				if !contains(pending, path) {
					pending = append(pending, path)
				}
				timer = time.After(watchDebounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			onError(err)

		case <-timer:
			timer = nil
			paths := pending
			pending = nil
			w.rebuild(paths)
		}
	}
}

func contains(paths []string, path string) bool {
	for _, p := range paths {
		if p == path {
			return true
		}
	}
	return false
}

// The watch starts before the first build so that no change made after the
// first build finishes can be missed
func (o *optimizer) watch(ctx context.Context, paths []string) error {
	w, err := newWatcher(paths, func(changed []string) {
		printMessage(o.stderr, logger.Msg{Kind: logger.Info, Text: fmt.Sprintf("[watch] rebuilding %d changed file(s)", len(changed))})
		if err := o.run(ctx, changed); err != nil {
			printMessage(o.stderr, logger.Msg{Kind: logger.Error, Text: err.Error()})
		}
	})
	if err != nil {
		return err
	}
	defer w.close()

	// A failed first build still waits for the input to be fixed
	if err := o.run(ctx, paths); err != nil {
		printMessage(o.stderr, logger.Msg{Kind: logger.Error, Text: err.Error()})
	}
	printMessage(o.stderr, logger.Msg{Kind: logger.Info, Text: "[watch] build finished, watching for changes..."})

	w.loop(ctx, func(err error) {
		if o.c.log != nil {
			o.c.log.Warn("watch error", "error", err)
		}
	})
	return nil
}
