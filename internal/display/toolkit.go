package display

import (
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/gio/v2"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// AppID is the application identifier registered with GApplication.
const AppID = "org.batocera.controlcenter"

// ErrInitFailed is returned when GTK cannot open a display.
var ErrInitFailed = errors.New("gtk initialization failed")

// Toolkit runs the GTK main loop through a libadwaita application.
type Toolkit struct {
	logger *slog.Logger

	mu  sync.Mutex
	app *adw.Application
}

// NewToolkit creates a toolkit; nothing touches GTK until Init.
func NewToolkit(logger *slog.Logger) *Toolkit {
	if logger == nil {
		logger = slog.Default()
	}
	return &Toolkit{logger: logger.With("component", "gtk")}
}

// Init initializes GTK without aborting the process when no display can be
// opened.
func (t *Toolkit) Init() error {
	if !gtk.InitCheck() {
		return ErrInitFailed
	}
	return nil
}

// Run creates the application and blocks in its main loop.
func (t *Toolkit) Run(activate func()) int {
	app := adw.NewApplication(AppID, gio.ApplicationNonUnique)

	t.mu.Lock()
	t.app = app
	t.mu.Unlock()

	var activated bool
	app.ConnectActivate(func() {
		if activated {
			t.logger.Warn("application already activated")
			return
		}
		activated = true
		activate()
	})
	app.ConnectShutdown(func() {
		t.logger.Debug("application shutdown")
	})

	// Positional arguments are ours, not GApplication's.
	status := app.Run(os.Args[:1])

	t.mu.Lock()
	t.app = nil
	t.mu.Unlock()
	return status
}

// Quit stops the main loop.
func (t *Toolkit) Quit() {
	t.mu.Lock()
	app := t.app
	t.mu.Unlock()
	if app != nil {
		app.Quit()
	}
}

// Schedule runs fn once on the main loop after d.
func (t *Toolkit) Schedule(d time.Duration, fn func()) {
	glib.TimeoutAdd(uint(d.Milliseconds()), func() bool {
		fn()
		return false
	})
}

// Invoke runs fn on the main loop. Safe from any goroutine.
func (t *Toolkit) Invoke(fn func()) {
	glib.IdleAdd(fn)
}

// Application returns the running application, or nil outside Run.
func (t *Toolkit) Application() *gtk.Application {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.app == nil {
		return nil
	}
	return &t.app.Application
}
