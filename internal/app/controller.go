package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/batocera-linux/controlcenter/internal/config"
	"github.com/batocera-linux/controlcenter/internal/menu"
)

// State is the lifecycle state of a Controller.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateClosed
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateClosed:
		return "closed"
	case StateTimedOut:
		return "timed-out"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Runtime is the configuration resolved at startup.
type Runtime struct {
	XMLPath   string
	CSSPath   string // may not exist; the UI then runs unstyled
	AutoClose time.Duration
}

// ErrAlreadyStarted is returned when Run is called twice.
var ErrAlreadyStarted = errors.New("controller already started")

// Controller owns the validated menu and drives the toolkit loop until the
// user closes it, the auto-close timer fires or the context is cancelled.
type Controller struct {
	mu        sync.Mutex
	state     State
	deadline  time.Time
	doc       *menu.Document
	runtime   Runtime
	settings  *config.Config
	toolkit   Toolkit
	presenter Presenter
	logger    *slog.Logger
	now       func() time.Time
}

// NewController creates an idle controller.
func NewController(doc *menu.Document, rt Runtime, settings *config.Config, tk Toolkit, p Presenter, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if settings == nil {
		settings = config.Default()
	}
	return &Controller{
		doc:       doc,
		runtime:   rt,
		settings:  settings,
		toolkit:   tk,
		presenter: p,
		logger:    logger.With("component", "controller"),
		now:       time.Now,
	}
}

func (c *Controller) Document() *menu.Document { return c.doc }
func (c *Controller) Runtime() Runtime         { return c.runtime }
func (c *Controller) Settings() *config.Config { return c.settings }
func (c *Controller) Toolkit() Toolkit         { return c.toolkit }
func (c *Controller) Logger() *slog.Logger     { return c.logger }

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Deadline returns when the window will close on its own, if auto-close is
// enabled and the controller is running.
func (c *Controller) Deadline() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deadline.IsZero() || c.state != StateRunning {
		return time.Time{}, false
	}
	return c.deadline, true
}

// Run enters the event loop and blocks until it returns.
func (c *Controller) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.state = StateRunning
	if c.runtime.AutoClose > 0 {
		c.deadline = c.now().Add(c.runtime.AutoClose)
	}
	c.mu.Unlock()

	stop := context.AfterFunc(ctx, func() {
		c.logger.Info("interrupted, closing")
		c.toolkit.Invoke(c.Close)
	})
	defer stop()

	var presentErr error
	status := c.toolkit.Run(func() {
		if err := c.presenter.Present(c); err != nil {
			presentErr = err
			c.logger.Error("failed to build window", "error", err)
			c.Close()
			return
		}
		if c.runtime.AutoClose > 0 {
			c.logger.Debug("auto-close armed", "after", c.runtime.AutoClose)
			c.toolkit.Schedule(c.runtime.AutoClose, c.timeout)
		}
	})

	// The loop can also end because the last window was closed.
	c.transition(StateClosed)

	if presentErr != nil {
		return fmt.Errorf("failed to present menu: %w", presentErr)
	}
	if status != 0 {
		return fmt.Errorf("event loop exited with status %d", status)
	}
	c.logger.Debug("event loop finished", "state", c.State())
	return nil
}

// Close ends the session. Only the first terminal transition has an effect.
func (c *Controller) Close() {
	if c.transition(StateClosed) {
		c.toolkit.Quit()
	}
}

func (c *Controller) timeout() {
	if c.transition(StateTimedOut) {
		c.logger.Info("auto-close timeout reached")
		c.toolkit.Quit()
	}
}

// transition moves a running controller to a terminal state.
func (c *Controller) transition(to State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateRunning {
		return false
	}
	c.state = to
	return true
}
