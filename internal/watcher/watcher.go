package watcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"media-indexer/internal/logging"
	"media-indexer/internal/metrics"

	"github.com/fsnotify/fsnotify"
)

// signalBuffer absorbs event bursts while a consumer is mid-cycle.
const signalBuffer = 64

// Signal is one observed filesystem change. Consumers treat it as opaque;
// the fields exist for logging.
type Signal struct {
	Path string
	Op   string
	Time time.Time
}

// Watcher is a cancellable subscription to change notifications under a
// single root.
type Watcher struct {
	root string
	fsw  *fsnotify.Watcher

	signals chan Signal
	errs    chan error
	done    chan struct{}

	cancelOnce sync.Once

	mu   sync.Mutex
	dirs int
}

// New subscribes to filesystem notifications for root and all of its
// non-hidden descendant directories, then starts the event loop.
func New(root string) (*Watcher, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("watch root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch root %s is not a directory", root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		root:    root,
		fsw:     fsw,
		signals: make(chan Signal, signalBuffer),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}

	if err := w.addRecursive(root); err != nil {
		fsw.Close()
		return nil, err
	}

	go w.loop()

	logging.Info("Watching %s (%d directories)", root, w.dirCount())
	return w, nil
}

// Signals delivers one signal per underlying filesystem event. The channel
// is closed when the watcher stops.
func (w *Watcher) Signals() <-chan Signal {
	return w.signals
}

// Errors delivers the terminal subscription error, if any.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Cancel stops the subscription. Idempotent and safe at any point in the
// watcher's life.
func (w *Watcher) Cancel() {
	w.cancelOnce.Do(func() {
		close(w.done)
		if err := w.fsw.Close(); err != nil {
			logging.Debug("Closing fsnotify watcher: %v", err)
		}
	})
}

// addRecursive registers dir and every non-hidden directory below it.
// Directories that vanish or refuse listing mid-walk are skipped.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			logging.Warn("Watch skipping %s: %v", path, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			logging.Warn("Watch add %s: %v", path, err)
			return nil
		}
		w.addDir()
		return nil
	})
}

func (w *Watcher) addDir() {
	w.mu.Lock()
	w.dirs++
	metrics.WatcherDirectories.Set(float64(w.dirs))
	w.mu.Unlock()
}

func (w *Watcher) dirCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dirs
}

func (w *Watcher) loop() {
	defer close(w.signals)

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}

			// A created directory must join the watch set before
			// anything inside it can signal
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !strings.HasPrefix(filepath.Base(event.Name), ".") {
						if err := w.fsw.Add(event.Name); err != nil {
							logging.Warn("Watch add %s: %v", event.Name, err)
						} else {
							w.addDir()
						}
					}
				}
			}

			metrics.WatcherSignalsTotal.Inc()
			sig := Signal{
				Path: event.Name,
				Op:   event.Op.String(),
				Time: time.Now(),
			}

			select {
			case w.signals <- sig:
			case <-w.done:
				return
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			metrics.WatcherErrorsTotal.Inc()
			logging.Error("Watch error on %s: %v", w.root, err)

			select {
			case w.errs <- err:
			default:
			}
			w.Cancel()
			return

		case <-w.done:
			return
		}
	}
}
