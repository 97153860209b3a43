// Package action executes menu actions: shell commands, command
// substitutions and power management requests.
package action

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/batocera-linux/controlcenter/internal/config"
	"github.com/batocera-linux/controlcenter/internal/menu"
)

// ErrNotExecutable is returned for actions the user interface handles
// itself, such as quit and goto.
var ErrNotExecutable = errors.New("action is handled by the interface")

// Result describes one action invocation.
type Result struct {
	ID       string
	Action   menu.Action
	Output   string
	Err      error
	Started  time.Time
	Duration time.Duration
}

// Runner executes actions through a shell.
type Runner struct {
	shell   string
	timeout time.Duration
	power   PowerManager
	logger  *slog.Logger
}

// NewRunner creates a runner. A nil power manager uses logind with the shell
// fallback.
func NewRunner(cfg config.ActionsConfig, power PowerManager, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{
		shell:   cfg.Shell,
		timeout: cfg.Timeout.Duration(),
		logger:  logger.With("component", "action"),
	}
	if r.shell == "" {
		r.shell = "/bin/sh"
	}
	if power == nil {
		power = NewFallback(r.logger, NewLogind(), NewShellPower(r.exec))
	}
	r.power = power
	return r
}

// Run executes a parsed action.
func (r *Runner) Run(ctx context.Context, a menu.Action) Result {
	res := Result{
		ID:      newInvocationID(),
		Action:  a,
		Started: time.Now(),
	}
	logger := r.logger.With("invocation", res.ID, "action", a.String())

	switch a.Kind {
	case menu.ActionShell:
		res.Output, res.Err = r.Output(ctx, a.Command)
	case menu.ActionPower:
		res.Err = r.power.Power(ctx, a.Power)
	default:
		res.Err = fmt.Errorf("%s: %w", a.Kind, ErrNotExecutable)
	}
	res.Duration = time.Since(res.Started)

	if res.Err != nil {
		logger.Warn("action failed", "error", res.Err, "duration", res.Duration)
	} else {
		logger.Info("action completed", "duration", res.Duration)
	}
	return res
}

// Output runs command and returns its standard output. It satisfies
// menu.CommandFunc.
func (r *Runner) Output(ctx context.Context, command string) (string, error) {
	return r.exec(ctx, command)
}

func (r *Runner) exec(ctx context.Context, command string) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.shell, "-c", command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Children that inherit the pipes must not outlive the timeout.
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return stdout.String(), fmt.Errorf("command %q: %w", command, ctx.Err())
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return stdout.String(), fmt.Errorf("command %q: %w: %s", command, err, msg)
		}
		return stdout.String(), fmt.Errorf("command %q: %w", command, err)
	}
	return stdout.String(), nil
}

func newInvocationID() string {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return ""
	}
	return id.String()
}
