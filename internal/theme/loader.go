package theme

import (
	"context"
	"log/slog"
	"sync"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// Loader owns the CSS provider for the application stylesheet.
type Loader struct {
	mu       sync.Mutex
	logger   *slog.Logger
	provider *gtk.CSSProvider
	sheet    *Stylesheet
	watcher  *Watcher
}

// NewLoader creates a loader with an empty provider. Must be called on the
// GTK thread after initialization.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:   logger.With("component", "theme"),
		provider: gtk.NewCSSProvider(),
	}
}

// Load reads the stylesheet at path into the provider.
func (l *Loader) Load(path string) error {
	sheet, err := Load(path)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.sheet = sheet
	l.provider.LoadFromString(sheet.CSS)
	l.logger.Info("loaded stylesheet", "path", path, "imports", len(sheet.Imports))
	return nil
}

// Apply attaches the provider to display, or the default display when nil.
func (l *Loader) Apply(display *gdk.Display) {
	if display == nil {
		display = gdk.DisplayGetDefault()
	}
	if display == nil {
		l.logger.Warn("no display available, cannot apply stylesheet")
		return
	}
	gtk.StyleContextAddProviderForDisplay(display, l.provider, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)
}

// StartHotReload watches the loaded stylesheet. invoke must run its argument
// on the GTK thread.
func (l *Loader) StartHotReload(ctx context.Context, invoke func(func())) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.sheet == nil {
		return
	}
	if l.watcher != nil {
		l.watcher.Stop()
	}

	l.watcher = NewWatcher(l.sheet, func(css string) {
		invoke(func() {
			l.provider.LoadFromString(css)
			l.logger.Info("hot-reloaded stylesheet")
		})
	}, l.logger)

	if err := l.watcher.Start(ctx); err != nil {
		l.logger.Warn("failed to start stylesheet watcher", "error", err)
		l.watcher = nil
	}
}

// StopHotReload stops watching the stylesheet.
func (l *Loader) StopHotReload() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.watcher != nil {
		l.watcher.Stop()
		l.watcher = nil
	}
}
