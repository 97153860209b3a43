package view

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/batocera-linux/controlcenter/internal/action"
	"github.com/batocera-linux/controlcenter/internal/i18n"
	"github.com/batocera-linux/controlcenter/internal/menu"
)

// Surface is what the dispatcher needs from a concrete user interface.
// All methods are called on the interface thread.
type Surface interface {
	Confirm(prompt string, onResult func(ok bool))
	Focus(id string) bool
	Close()
	Status(text string)
}

// Executor runs actions that leave the process.
type Executor interface {
	Run(ctx context.Context, a menu.Action) action.Result
}

// Feedback is notified when a control is activated.
type Feedback interface {
	Select()
}

type noFeedback struct{}

func (noFeedback) Select() {}

// Dispatcher turns control activations into actions.
type Dispatcher struct {
	ctx          context.Context
	surface      Surface
	exec         Executor
	invoke       func(func())
	tr           *i18n.Translator
	feedback     Feedback
	confirmPower bool
	logger       *slog.Logger
	history      *History

	wg sync.WaitGroup
}

// DispatcherOptions configures a Dispatcher.
type DispatcherOptions struct {
	Surface      Surface
	Executor     Executor
	Invoke       func(func()) // runs on the interface thread
	Translator   *i18n.Translator
	Feedback     Feedback
	ConfirmPower bool
	History      *History // shared with other views; nil starts empty
	Logger       *slog.Logger
}

func NewDispatcher(ctx context.Context, opts DispatcherOptions) *Dispatcher {
	d := &Dispatcher{
		ctx:          ctx,
		surface:      opts.Surface,
		exec:         opts.Executor,
		invoke:       opts.Invoke,
		tr:           opts.Translator,
		feedback:     opts.Feedback,
		confirmPower: opts.ConfirmPower,
		logger:       opts.Logger,
		history:      opts.History,
	}
	if d.tr == nil {
		d.tr = i18n.MustNew("")
	}
	if d.feedback == nil {
		d.feedback = noFeedback{}
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	if d.history == nil {
		d.history = NewHistory()
	}
	return d
}

// Activate handles a button press or toggle change. value is the raw action
// attribute; confirm requests a confirmation dialog first.
func (d *Dispatcher) Activate(label, value string, confirm bool) {
	a, err := menu.ParseAction(value)
	if err != nil {
		d.logger.Warn("invalid action", "label", label, "action", value, "error", err)
		d.surface.Status(d.failed(label, err))
		return
	}

	d.feedback.Select()

	if confirm || (d.confirmPower && a.NeedsConfirmation()) {
		d.surface.Confirm(d.prompt(label, a), func(ok bool) {
			if ok {
				d.execute(label, a)
			} else {
				d.logger.Debug("action cancelled", "label", label)
			}
		})
		return
	}
	d.execute(label, a)
}

// ConfirmFlag reports whether a node's confirm attribute asks for a dialog.
func ConfirmFlag(n *menu.Node) bool {
	v, ok := n.Attr("confirm")
	if !ok {
		return false
	}
	return strings.TrimSpace(v) == "" || Truthy(v)
}

func (d *Dispatcher) prompt(label string, a menu.Action) string {
	if a.Kind == menu.ActionPower {
		return d.tr.PowerPrompt(string(a.Power))
	}
	return d.tr.T(i18n.MsgConfirmAction, map[string]any{"Label": label})
}

func (d *Dispatcher) execute(label string, a menu.Action) {
	switch a.Kind {
	case menu.ActionQuit:
		d.surface.Close()
	case menu.ActionGoto:
		if !d.surface.Focus(a.Target) {
			d.logger.Warn("goto target not found", "target", a.Target)
		}
	default:
		d.surface.Status(d.tr.T(i18n.MsgActionRunning, map[string]any{"Label": label}))
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			res := d.exec.Run(d.ctx, a)

			d.history.Record(label, res)

			d.invoke(func() {
				if res.Err != nil {
					d.surface.Status(d.failed(label, res.Err))
					return
				}
				d.surface.Status(d.tr.T(i18n.MsgActionDone, map[string]any{"Label": label}))
			})
		}()
	}
}

func (d *Dispatcher) failed(label string, err error) string {
	return d.tr.T(i18n.MsgActionFailed, map[string]any{"Label": label, "Error": err.Error()})
}

// LastRun describes when the control labelled label last ran, or "".
func (d *Dispatcher) LastRun(label string) string {
	r, ok := d.history.Last(label)
	if !ok {
		return ""
	}
	return d.tr.T(i18n.MsgRanAgo, map[string]any{"When": humanize.Time(r.Started)})
}

// Wait blocks until running actions have reported back.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
