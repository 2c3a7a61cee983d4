package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchedExtensions are the source file kinds whose changes trigger a
// rebuild.
var watchedExtensions = map[string]bool{
	".md":   true,
	".yaml": true,
	".yml":  true,
	".j2":   true,
}

// Watcher re-runs a build whenever source or content files change. Change
// bursts are debounced so one save does not trigger a rebuild storm.
type Watcher struct {
	fsw      *fsnotify.Watcher
	log      *slog.Logger
	debounce time.Duration
}

// New creates a watcher over the given directories (recursively).
func New(dirs []string, debounce time.Duration, log *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{fsw: fsw, log: log, debounce: debounce}

	for _, dir := range dirs {
		if err := w.addRecursive(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// Close releases the underlying file watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run blocks until ctx is cancelled, invoking onChange after each debounced
// burst of relevant file events. A failing rebuild is logged, not fatal; the
// watcher keeps running so the next save can fix it.
func (w *Watcher) Run(ctx context.Context, onChange func() error) error {
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	schedule := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.debounce, func() {
			select {
			case fire <- struct{}{}:
			default:
			}
		})
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			// Newly created directories need watching too.
			if event.Op.Has(fsnotify.Create) {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					if err := w.addRecursive(event.Name); err != nil {
						w.log.Warn("watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}
			w.log.Debug("source changed", "path", event.Name, "op", event.Op.String())
			schedule()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)
		case <-fire:
			w.log.Info("rebuilding after change")
			if err := onChange(); err != nil {
				w.log.Error("rebuild failed", "error", err)
			}
		}
	}
}

// relevant filters events down to meaningful changes of watched file kinds.
func relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	if ext == "" {
		// Could be a directory; let the caller sort it out.
		return true
	}
	return watchedExtensions[ext]
}
