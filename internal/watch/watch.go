// Package watch turns filesystem activity under the staging tree into
// debounced rebuild signals.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period applied when the caller passes a
// non-positive debounce to Run. Editors tend to save in bursts (write,
// chmod, rename), and a single rebuild per burst is all we want.
const DefaultDebounce = 300 * time.Millisecond

// Run starts an fsnotify watcher on the staging root and calls onChange
// once per quiet period after relevant files change. It blocks until ctx
// is cancelled.
//
// New directories created at runtime are automatically added to the watch
// list; a directory moved into the tree may already hold sources, so its
// arrival also schedules a rebuild.
func Run(ctx context.Context, root string, debounce time.Duration, logger *slog.Logger, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	logger.Info("watch: started", slog.String("root", root))

	// timer debounces bursts of events into a single onChange call.
	var timer *time.Timer
	var fire <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watch: stopped")
			return nil

		case <-fire:
			onChange()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watch: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watch: watching new dir", slog.String("path", ev.Name))
					}
					schedule()
					continue
				}
			}

			if !relevant(ev.Name) {
				continue
			}

			logger.Debug("watch: change",
				slog.String("path", ev.Name),
				slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch: error", slog.String("error", watchErr.Error()))
		}
	}
}

// relevant reports whether a change at path should trigger a rebuild.
// LaTeX sources count, as does anything inside a sibling images/ or
// assets/ directory; editor scratch files and other artifacts do not.
func relevant(path string) bool {
	if strings.HasSuffix(path, ".tex") {
		return true
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "images" || part == "assets" {
			return true
		}
	}
	return false
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
