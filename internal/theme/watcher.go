package theme

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a stylesheet when it or one of its imports changes.
type Watcher struct {
	mu       sync.Mutex
	logger   *slog.Logger
	sheet    *Stylesheet
	watcher  *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration
	onChange func(css string)
	done     chan struct{}
	running  bool
}

// NewWatcher creates a watcher for sheet. onChange receives the new CSS on
// the watcher goroutine.
func NewWatcher(sheet *Stylesheet, onChange func(css string), logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		logger:   logger,
		sheet:    sheet,
		debounce: 100 * time.Millisecond,
		onChange: onChange,
	}
}

// Start begins watching. Directories are watched rather than files so that
// editors that replace the file on save are handled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	w.watcher = fw
	if err := w.watchFiles(); err != nil {
		_ = fw.Close()
		return err
	}

	w.done = make(chan struct{})
	w.running = true
	go w.loop(ctx, fw, w.done)

	w.logger.Debug("stylesheet watcher started", "path", w.sheet.Path, "files", len(w.files))
	return nil
}

// watchFiles registers the directories of every stylesheet file. Caller
// holds mu.
func (w *Watcher) watchFiles() error {
	w.files = make(map[string]bool)
	dirs := make(map[string]bool)
	for _, f := range w.sheet.Files() {
		abs, err := filepath.Abs(f)
		if err != nil {
			abs = f
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	return nil
}

// Stop ends watching. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	close(w.done)
	_ = w.watcher.Close()
	w.logger.Debug("stylesheet watcher stopped")
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, done <-chan struct{}) {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-done:
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			// Editors emit several events per save; reload once.
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.reload()
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("stylesheet watcher error", "error", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		abs = event.Name
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[abs]
}

func (w *Watcher) reload() {
	w.mu.Lock()
	changed, err := w.sheet.Reload()
	if err == nil && w.running {
		// New imports may live in new directories.
		if werr := w.watchFiles(); werr != nil {
			w.logger.Debug("failed to extend watch", "error", werr)
		}
	}
	css := w.sheet.CSS
	w.mu.Unlock()

	if err != nil {
		w.logger.Warn("failed to reload stylesheet", "path", w.sheet.Path, "error", err)
		return
	}
	if !changed {
		return
	}
	w.logger.Info("stylesheet changed, reloading", "path", w.sheet.Path)
	if w.onChange != nil {
		w.onChange(css)
	}
}
