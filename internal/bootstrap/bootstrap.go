// Package bootstrap performs the environment checks that must pass before
// any window can be created.
package bootstrap

import (
	"fmt"
	"log/slog"
	"strings"
)

// Display environment variables, in the order they are checked.
const (
	EnvWaylandDisplay = "WAYLAND_DISPLAY"
	EnvDisplay        = "DISPLAY"
	EnvNoATBridge     = "NO_AT_BRIDGE"
)

// LookupFunc reads an environment variable. os.Getenv satisfies it.
type LookupFunc func(key string) string

// Env is the writable process environment.
type Env interface {
	LookupEnv(key string) (string, bool)
	Setenv(key, value string) error
}

// Initializer is the part of the toolkit needed for the startup check.
type Initializer interface {
	Init() error
}

// EnsureDisplay reports whether a Wayland or X11 display is configured.
func EnsureDisplay(lookup LookupFunc) bool {
	return DisplayName(lookup) != ""
}

// DisplayName returns the configured display, preferring Wayland.
func DisplayName(lookup LookupFunc) string {
	if lookup == nil {
		return ""
	}
	for _, key := range []string{EnvWaylandDisplay, EnvDisplay} {
		if v := strings.TrimSpace(lookup(key)); v != "" {
			return key + "=" + v
		}
	}
	return ""
}

// PrepareEnvironment disables the accessibility bridge unless the caller
// already chose a value for it.
func PrepareEnvironment(env Env) error {
	if _, ok := env.LookupEnv(EnvNoATBridge); ok {
		return nil
	}
	if err := env.Setenv(EnvNoATBridge, "1"); err != nil {
		return fmt.Errorf("failed to set %s: %w", EnvNoATBridge, err)
	}
	return nil
}

// ToolkitInit initializes the toolkit and reports success. A panic raised by
// the toolkit during initialization counts as failure.
func ToolkitInit(tk Initializer, logger *slog.Logger) (ok bool) {
	if logger == nil {
		logger = slog.Default()
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Error("toolkit initialization panicked", "panic", r)
			ok = false
		}
	}()

	if err := tk.Init(); err != nil {
		logger.Error("toolkit initialization failed", "error", err)
		return false
	}
	return true
}
