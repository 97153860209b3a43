package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"

	"github.com/batocera-linux/controlcenter/internal/menu"
)

// PowerManager performs power management requests.
type PowerManager interface {
	Power(ctx context.Context, verb menu.PowerVerb) error
}

// login1 D-Bus names.
const (
	login1Service   = "org.freedesktop.login1"
	login1Path      = "/org/freedesktop/login1"
	login1Interface = "org.freedesktop.login1.Manager"
)

var login1Methods = map[menu.PowerVerb]string{
	menu.PowerShutdown: "PowerOff",
	menu.PowerReboot:   "Reboot",
	menu.PowerSuspend:  "Suspend",
}

// Logind asks systemd-logind over the system bus.
type Logind struct {
	connect func() (*dbus.Conn, error)
}

// NewLogind creates a logind client using a private system bus connection.
func NewLogind() *Logind {
	return &Logind{connect: dbus.ConnectSystemBus}
}

// Power calls the Manager method for verb, non-interactively.
func (l *Logind) Power(ctx context.Context, verb menu.PowerVerb) error {
	method, ok := login1Methods[verb]
	if !ok {
		return fmt.Errorf("%w %q", menu.ErrUnknownPowerVerb, verb)
	}

	conn, err := l.connect()
	if err != nil {
		return fmt.Errorf("failed to connect to system bus: %w", err)
	}
	defer func() { _ = conn.Close() }()

	obj := conn.Object(login1Service, dbus.ObjectPath(login1Path))
	if err := obj.CallWithContext(ctx, login1Interface+"."+method, 0, false).Err; err != nil {
		return fmt.Errorf("login1 %s: %w", method, err)
	}
	return nil
}

// ShellPowerCommands are used when logind is not available.
var ShellPowerCommands = map[menu.PowerVerb]string{
	menu.PowerShutdown: "poweroff",
	menu.PowerReboot:   "reboot",
	menu.PowerSuspend:  "echo mem > /sys/power/state",
}

// ShellPower runs the classic commands through a shell.
type ShellPower struct {
	run func(ctx context.Context, command string) (string, error)
}

func NewShellPower(run func(ctx context.Context, command string) (string, error)) *ShellPower {
	return &ShellPower{run: run}
}

func (s *ShellPower) Power(ctx context.Context, verb menu.PowerVerb) error {
	command, ok := ShellPowerCommands[verb]
	if !ok {
		return fmt.Errorf("%w %q", menu.ErrUnknownPowerVerb, verb)
	}
	_, err := s.run(ctx, command)
	return err
}

// Fallback tries each manager in order until one succeeds.
type Fallback struct {
	managers []PowerManager
	logger   *slog.Logger
}

func NewFallback(logger *slog.Logger, managers ...PowerManager) *Fallback {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fallback{managers: managers, logger: logger}
}

func (f *Fallback) Power(ctx context.Context, verb menu.PowerVerb) error {
	var errs []error
	for _, m := range f.managers {
		err := m.Power(ctx, verb)
		if err == nil {
			return nil
		}
		f.logger.Debug("power manager failed, trying next", "verb", verb, "error", err)
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return fmt.Errorf("no power manager available for %s", verb)
	}
	return errors.Join(errs...)
}
