package am

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/avrflags/errors"
	"github.com/teranos/avrflags/logger"
)

// Watcher watches config files and library search root directories and
// triggers reload callbacks when any of them change
type Watcher struct {
	watcher        *fsnotify.Watcher
	paths          []string
	callbacks      []ReloadCallback
	mu             sync.Mutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	done           chan struct{}
	stopOnce       sync.Once
	ignored        []string // Files we write ourselves (prevents reload loops)
}

// ReloadCallback is called when config is reloaded
// Receives the new config and returns any error
type ReloadCallback func(*Config) error

// NewWatcher creates a watcher over paths. Paths that do not exist are skipped.
func NewWatcher(paths []string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		watcher:        fw,
		debouncePeriod: 500 * time.Millisecond, // Debounce rapid file changes
		done:           make(chan struct{}),
	}

	seen := make(map[string]bool)
	for _, p := range paths {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		if _, err := os.Stat(p); err != nil {
			logger.Debugw("Watcher skipping missing path", "path", p)
			continue
		}
		if err := fw.Add(p); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", p)
		}
		w.paths = append(w.paths, p)
	}

	return w, nil
}

// WatchPaths returns the loaded config files plus the fixed directory prefix
// of every library search root in cfg
func WatchPaths(cfg *Config) []string {
	paths := LoadedFiles()
	for _, root := range cfg.SearchRoots() {
		paths = append(paths, staticPrefix(root))
	}
	return paths
}

// staticPrefix returns the longest leading directory of pattern that contains
// no glob metacharacters
func staticPrefix(pattern string) string {
	idx := strings.IndexAny(pattern, "*?[")
	if idx < 0 {
		return filepath.Clean(pattern)
	}
	return filepath.Dir(pattern[:idx+1])
}

// Paths returns the paths actually being watched
func (w *Watcher) Paths() []string {
	return append([]string(nil), w.paths...)
}

// OnReload registers a callback to be called when config is reloaded
func (w *Watcher) OnReload(callback ReloadCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// IgnoreWrites drops events for path and for the temp files that replace it
// atomically. Call it for any file a reload callback writes inside a watched
// directory.
func (w *Watcher) IgnoreWrites(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ignored = append(w.ignored, absPath(path))
}

// isOwnWrite reports whether name is an ignored file or one of its temp files
func (w *Watcher) isOwnWrite(name string) bool {
	abs := absPath(name)
	dir, base := filepath.Split(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range w.ignored {
		if abs == p {
			return true
		}
		pdir, pbase := filepath.Split(p)
		if dir == pdir && strings.HasPrefix(base, "."+pbase+".") {
			return true
		}
	}
	return false
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// Start begins watching for changes
func (w *Watcher) Start() {
	go w.watchLoop()
}

// watchLoop monitors file system events
func (w *Watcher) watchLoop() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			if w.isOwnWrite(event.Name) {
				logger.Debugw("Watcher ignoring own write", "file", event.Name)
				continue
			}
			logger.Infow("Watcher detected change",
				"file", event.Name,
				"op", event.Op.String())
			w.scheduleReload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("Watcher error", "error", err)
		}
	}
}

// scheduleReload debounces rapid changes and triggers reload
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	w.debounceTimer = time.AfterFunc(w.debouncePeriod, func() {
		select {
		case <-w.done:
			return
		default:
		}
		if err := w.reload(); err != nil {
			logger.Errorw("Reload failed", "error", err)
		}
	})
}

// reload reloads the configuration and calls all callbacks
func (w *Watcher) reload() error {
	Reset()

	newConfig, err := Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	w.mu.Lock()
	callbacks := make([]ReloadCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	for _, callback := range callbacks {
		if err := callback(newConfig); err != nil {
			logger.Warnw("Reload callback error", "error", err)
			// Continue calling other callbacks even if one fails
		}
	}

	return nil
}

// Stop stops watching for changes
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.debounceTimer != nil {
			w.debounceTimer.Stop()
		}
		w.mu.Unlock()
		err = w.watcher.Close()
	})
	return err
}
