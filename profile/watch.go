package profile

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a profile document from disk whenever the file changes.
// The parent directory is watched rather than the file itself, since many
// editors and deployment tools replace files atomically by rename.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// ReloadFunc receives each reloaded store, or the load error when the
// changed file could not be parsed. The previous store stays in use on
// error; the callback decides whether to swap.
type ReloadFunc func(*Store, error)

// Watch starts watching a profile document. The callback runs on the
// watcher's goroutine; close the watcher to stop.
func Watch(path string, logger *slog.Logger, onReload ReloadFunc) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:    abs,
		watcher: fsw,
		done:    make(chan struct{}),
	}

	go func() {
		defer close(w.done)
		for {
			select {
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				store, err := LoadFile(abs)
				if err != nil {
					logger.Warn("profile reload failed",
						"path", abs,
						"error", err)
				}
				onReload(store, err)
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				logger.Warn("profile watcher error",
					"path", abs,
					"error", err)
			}
		}
	}()

	return w, nil
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops the watcher and waits for the callback goroutine to exit.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
