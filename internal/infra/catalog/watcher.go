package catalog

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultReloadDebounce = 200 * time.Millisecond

// Watcher reloads a catalog file when it changes on disk. Events are
// debounced so editors that write in several steps trigger one reload.
type Watcher struct {
	logger   *zap.Logger
	path     string
	debounce time.Duration
	onChange func()
}

// NewWatcher builds a watcher for one catalog file. onChange runs on the
// watcher goroutine after the debounce window closes.
func NewWatcher(path string, onChange func(), logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		logger:   logger.Named("catalog_watcher"),
		path:     path,
		debounce: defaultReloadDebounce,
		onChange: onChange,
	}
}

// Run blocks until ctx is done. The parent directory is watched rather than
// the file itself so atomic rename-into-place saves keep firing events.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return err
	}

	base := filepath.Base(w.path)
	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-watcher.Errors:
			if err != nil {
				w.logger.Warn("catalog watcher error", zap.Error(err))
			}
		case event := <-watcher.Events:
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
		case <-timerChan(timer):
			timer = nil
			w.logger.Debug("catalog changed on disk", zap.String("path", w.path))
			w.onChange()
		}
	}
}

func timerChan(timer *time.Timer) <-chan time.Time {
	if timer == nil {
		return nil
	}
	return timer.C
}
