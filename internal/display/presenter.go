package display

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"github.com/batocera-linux/controlcenter/internal/action"
	"github.com/batocera-linux/controlcenter/internal/app"
	"github.com/batocera-linux/controlcenter/internal/audio"
	"github.com/batocera-linux/controlcenter/internal/i18n"
	"github.com/batocera-linux/controlcenter/internal/theme"
	"github.com/batocera-linux/controlcenter/internal/view"
)

// ErrNoApplication is returned when Present runs outside the main loop.
var ErrNoApplication = errors.New("no running application")

// Presenter builds the control center window when the application
// activates and owns everything that lives as long as it.
type Presenter struct {
	ctx      context.Context
	cancel   context.CancelFunc
	toolkit  *Toolkit
	runner   *action.Runner
	tr       *i18n.Translator
	feedback *audio.Feedback
	history  *view.History
	logger   *slog.Logger

	loader     *theme.Loader
	window     *Window
	dispatcher *view.Dispatcher
	refresher  *view.Refresher
}

// PresenterOptions configures a Presenter.
type PresenterOptions struct {
	Runner     *action.Runner
	Translator *i18n.Translator
	Feedback   *audio.Feedback
	History    *view.History
	Logger     *slog.Logger
}

func NewPresenter(ctx context.Context, tk *Toolkit, opts PresenterOptions) *Presenter {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Translator == nil {
		opts.Translator = i18n.MustNew("")
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Presenter{
		ctx:      ctx,
		cancel:   cancel,
		toolkit:  tk,
		runner:   opts.Runner,
		tr:       opts.Translator,
		feedback: opts.Feedback,
		history:  opts.History,
		logger:   opts.Logger.With("component", "display"),
	}
}

// Present implements app.Presenter. It runs on the GTK thread.
func (p *Presenter) Present(c *app.Controller) error {
	application := p.toolkit.Application()
	if application == nil {
		return ErrNoApplication
	}
	settings := c.Settings()

	applyColorScheme(settings.Theme.ColorScheme)
	p.loadStylesheet(c.Runtime().CSSPath, settings.Theme.HotReload)

	if p.feedback != nil {
		p.feedback.Preload()
	}

	w := newWindow(p.ctx, application, c, p.tr, p.logger)
	p.refresher = view.NewRefresher(p.runner.Output, p.toolkit.Invoke, p.logger)

	opts := view.DispatcherOptions{
		Surface:      w,
		Executor:     p.runner,
		Invoke:       p.toolkit.Invoke,
		Translator:   p.tr,
		ConfirmPower: settings.Actions.ConfirmPower,
		History:      p.history,
		Logger:       p.logger,
	}
	if p.feedback != nil {
		opts.Feedback = p.feedback
	}
	p.dispatcher = view.NewDispatcher(p.ctx, opts)

	w.dispatcher = p.dispatcher
	w.refresher = p.refresher
	w.build(c.Document())
	w.present()
	p.window = w

	p.logger.Info("window presented", "menu", c.Runtime().XMLPath)
	return nil
}

func (p *Presenter) loadStylesheet(path string, hotReload bool) {
	if path == "" {
		return
	}

	p.loader = theme.NewLoader(p.logger)
	if err := p.loader.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			p.logger.Debug("no stylesheet, running unstyled", "path", path)
		} else {
			p.logger.Warn("failed to load stylesheet", "path", path, "error", err)
		}
		p.loader = nil
		return
	}
	p.loader.Apply(nil)

	if hotReload {
		p.loader.StartHotReload(p.ctx, p.toolkit.Invoke)
	}
}

// Close stops background work once the main loop has returned.
func (p *Presenter) Close() {
	p.cancel()
	if p.loader != nil {
		p.loader.StopHotReload()
	}
	if p.refresher != nil {
		p.refresher.Wait()
	}
	if p.dispatcher != nil {
		p.dispatcher.Wait()
	}
	if p.feedback != nil {
		p.feedback.Close()
	}
}
