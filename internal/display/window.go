package display

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/batocera-linux/controlcenter/internal/app"
	"github.com/batocera-linux/controlcenter/internal/config"
	"github.com/batocera-linux/controlcenter/internal/i18n"
	"github.com/batocera-linux/controlcenter/internal/menu"
	"github.com/batocera-linux/controlcenter/internal/view"
)

const (
	responseAccept = "accept"
	responseCancel = "cancel"
)

// Window is the control center window. It implements view.Surface.
type Window struct {
	ctx     context.Context
	window  *gtk.Window
	ctrl    *app.Controller
	tr      *i18n.Translator
	logger  *slog.Logger
	baseDir string

	dispatcher *view.Dispatcher
	refresher  *view.Refresher

	groups       map[string]*gtk.Box
	active       *gtk.Box
	statusLbl    *gtk.Label
	countdownLbl *gtk.Label
	closed       bool
}

// newWindow creates the window for ctrl's document. The dispatcher and
// refresher are attached by the presenter before build.
func newWindow(ctx context.Context, application *gtk.Application, ctrl *app.Controller, tr *i18n.Translator, logger *slog.Logger) *Window {
	settings := ctrl.Settings()
	doc := ctrl.Document()

	w := &Window{
		ctx:    ctx,
		ctrl:   ctrl,
		tr:     tr,
		logger: logger,
		groups: make(map[string]*gtk.Box),
	}
	if doc.Path != "" {
		w.baseDir = filepath.Dir(doc.Path)
	}

	w.window = gtk.NewWindow()
	w.window.SetApplication(application)
	w.window.SetTitle(view.Title(doc, settings.Window.Title))
	w.window.AddCSSClass("controlcenter")

	newPlacement(settings.Window, logger).apply(w.window)
	return w
}

// build constructs the widget tree and connects window signals.
func (w *Window) build(doc *menu.Document) {
	root := gtk.NewBox(gtk.OrientationVertical, 8)
	root.AddCSSClass("cc-root")
	root.AddCSSClass(colorSchemeClass(w.ctrl.Settings().Theme.ColorScheme))
	root.SetMarginTop(12)
	root.SetMarginBottom(12)
	root.SetMarginStart(16)
	root.SetMarginEnd(16)

	for _, child := range doc.Root.Children {
		if widget := w.buildElement(child, gtk.OrientationVertical); widget != nil {
			root.Append(widget)
		}
	}

	scroller := gtk.NewScrolledWindow()
	scroller.SetPolicy(gtk.PolicyNever, gtk.PolicyAutomatic)
	scroller.SetVExpand(true)
	scroller.SetChild(root)

	w.statusLbl = gtk.NewLabel("")
	w.statusLbl.AddCSSClass("cc-status")
	w.statusLbl.SetXAlign(0)
	w.statusLbl.SetHExpand(true)
	w.statusLbl.SetEllipsize(3) // PANGO_ELLIPSIZE_END
	w.statusLbl.SetVisible(false)

	w.countdownLbl = gtk.NewLabel("")
	w.countdownLbl.AddCSSClass("cc-countdown")
	w.countdownLbl.SetXAlign(1)
	w.countdownLbl.SetVisible(false)

	footer := gtk.NewBox(gtk.OrientationHorizontal, 8)
	footer.AddCSSClass("cc-footer")
	footer.SetMarginStart(16)
	footer.SetMarginEnd(16)
	footer.SetMarginBottom(8)
	footer.Append(w.statusLbl)
	footer.Append(w.countdownLbl)

	frame := gtk.NewBox(gtk.OrientationVertical, 0)
	frame.Append(scroller)
	frame.Append(footer)
	w.window.SetChild(frame)

	w.connectSignals()
}

func (w *Window) connectSignals() {
	keys := gtk.NewEventControllerKey()
	keys.ConnectKeyPressed(func(keyval, keycode uint, state gdk.ModifierType) bool {
		if keyval == gdk.KEY_Escape {
			w.logger.Debug("escape pressed, closing")
			w.Close()
			return true
		}
		return false
	})
	w.window.AddController(keys)

	w.window.ConnectCloseRequest(func() bool {
		w.closed = true
		w.ctrl.Close()
		return false
	})
}

// present shows the window and starts the countdown when auto-close is
// armed.
func (w *Window) present() {
	w.window.Present()
	w.startCountdown()
}

func (w *Window) startCountdown() {
	if _, ok := w.ctrl.Deadline(); !ok {
		return
	}
	w.countdownLbl.SetVisible(true)

	update := func() bool {
		if w.closed {
			return false
		}
		deadline, ok := w.ctrl.Deadline()
		if !ok {
			return false
		}
		n := view.Remaining(deadline, time.Now())
		w.countdownLbl.SetText(w.tr.Plural(i18n.MsgAutoClose, n))
		return n > 0
	}
	if update() {
		glib.TimeoutAdd(1000, update)
	}
}

// Confirm asks the user before an action runs.
func (w *Window) Confirm(prompt string, onResult func(ok bool)) {
	dialog := adw.NewMessageDialog(w.window, w.tr.T(i18n.MsgConfirmTitle, nil), prompt)
	dialog.AddCSSClass("cc-confirm")
	dialog.AddResponse(responseCancel, w.tr.T(i18n.MsgConfirmCancel, nil))
	dialog.AddResponse(responseAccept, w.tr.T(i18n.MsgConfirmAccept, nil))
	dialog.SetResponseAppearance(responseAccept, adw.ResponseDestructive)
	dialog.SetDefaultResponse(responseCancel)
	dialog.SetCloseResponse(responseCancel)

	dialog.ConnectResponse(func(response string) {
		onResult(response == responseAccept)
	})
	dialog.Present()
}

// Focus moves keyboard focus into the group with the given id.
func (w *Window) Focus(id string) bool {
	box, ok := w.groups[id]
	if !ok {
		return false
	}
	if w.active != nil {
		w.active.RemoveCSSClass("cc-active")
	}
	box.AddCSSClass("cc-active")
	w.active = box
	box.ChildFocus(gtk.DirTabForward)
	return true
}

// Close ends the session.
func (w *Window) Close() {
	if w.closed {
		return
	}
	w.closed = true
	w.ctrl.Close()
}

// Status shows a transient message in the footer.
func (w *Window) Status(text string) {
	if w.closed {
		return
	}
	w.statusLbl.SetText(text)
	w.statusLbl.SetVisible(text != "")
}

// colorSchemeClass returns "light" or "dark" for the configured scheme.
func colorSchemeClass(scheme string) string {
	switch config.ColorScheme(scheme) {
	case config.ColorSchemeLight:
		return "light"
	case config.ColorSchemeDark:
		return "dark"
	default:
		if adw.StyleManagerGetDefault().Dark() {
			return "dark"
		}
		return "light"
	}
}

// applyColorScheme forces libadwaita's scheme when one is configured.
func applyColorScheme(scheme string) {
	manager := adw.StyleManagerGetDefault()
	switch config.ColorScheme(scheme) {
	case config.ColorSchemeLight:
		manager.SetColorScheme(adw.ColorSchemeForceLight)
	case config.ColorSchemeDark:
		manager.SetColorScheme(adw.ColorSchemeForceDark)
	default:
		manager.SetColorScheme(adw.ColorSchemeDefault)
	}
}
