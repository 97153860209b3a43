// Package config loads the optional controlcenter.toml settings file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the settings that are not part of the menu document.
type Config struct {
	Window  WindowConfig  `toml:"window"`
	Actions ActionsConfig `toml:"actions"`
	Sound   SoundConfig   `toml:"sound"`
	Theme   ThemeConfig   `toml:"theme"`
	Locale  LocaleConfig  `toml:"locale"`
	Log     LogConfig     `toml:"log"`
}

// WindowConfig controls the top-level window.
type WindowConfig struct {
	Title      string `toml:"title"` // used when the menu has no title
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Fullscreen bool   `toml:"fullscreen"`
	Decorated  bool   `toml:"decorated"`
	LayerShell bool   `toml:"layer_shell"` // wlr-layer-shell overlay on Wayland
	Monitor    int    `toml:"monitor"`     // 1-indexed, 0 = compositor default
}

// ActionsConfig controls how menu actions run.
type ActionsConfig struct {
	Shell        string   `toml:"shell"`
	Timeout      Duration `toml:"timeout"` // 0 = no limit
	ConfirmPower bool     `toml:"confirm_power"`
}

// SoundConfig controls UI feedback sounds.
type SoundConfig struct {
	Enabled bool   `toml:"enabled"`
	Select  string `toml:"select"` // played when a button is activated
	Volume  int    `toml:"volume"` // 0-100
}

// ThemeConfig controls stylesheet handling.
type ThemeConfig struct {
	HotReload   bool   `toml:"hot_reload"`
	ColorScheme string `toml:"color_scheme"` // "system", "light", or "dark"
}

// LocaleConfig selects the language of the built-in UI strings.
type LocaleConfig struct {
	Language string `toml:"language"` // empty = from environment
}

// LogConfig controls log verbosity.
type LogConfig struct {
	Level string `toml:"level"`
}

// ColorScheme represents the color scheme preference.
type ColorScheme string

const (
	ColorSchemeSystem ColorScheme = "system"
	ColorSchemeLight  ColorScheme = "light"
	ColorSchemeDark   ColorScheme = "dark"
)

// ValidColorSchemes returns all valid color scheme values.
func ValidColorSchemes() []ColorScheme {
	return []ColorScheme{ColorSchemeSystem, ColorSchemeLight, ColorSchemeDark}
}

// ValidLogLevels returns the accepted log level names.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:     "Control Center",
			Width:     800,
			Height:    600,
			Decorated: true,
		},
		Actions: ActionsConfig{
			Shell:        "/bin/sh",
			Timeout:      Duration(30 * time.Second),
			ConfirmPower: true,
		},
		Sound: SoundConfig{
			Volume: 80,
		},
		Theme: ThemeConfig{
			HotReload:   true,
			ColorScheme: string(ColorSchemeSystem),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the settings file at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Window.Width < 100 || c.Window.Width > 7680 {
		return fmt.Errorf("window width must be between 100 and 7680, got %d", c.Window.Width)
	}
	if c.Window.Height < 100 || c.Window.Height > 4320 {
		return fmt.Errorf("window height must be between 100 and 4320, got %d", c.Window.Height)
	}
	if c.Window.Monitor < 0 {
		return fmt.Errorf("window monitor must be >= 0, got %d", c.Window.Monitor)
	}

	if strings.TrimSpace(c.Actions.Shell) == "" {
		return errors.New("actions shell must not be empty")
	}
	if c.Actions.Timeout < 0 {
		return fmt.Errorf("actions timeout must not be negative, got %s", c.Actions.Timeout.Duration())
	}

	if c.Sound.Volume < 0 || c.Sound.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Sound.Volume)
	}

	if !slices.Contains(ValidColorSchemes(), ColorScheme(c.Theme.ColorScheme)) {
		return fmt.Errorf("invalid color_scheme %q, must be one of: %v", c.Theme.ColorScheme, ValidColorSchemes())
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q, must be one of: %v", name, ValidLogLevels())
	}
}

// SoundPath returns the select sound path with ~ expanded.
func (c *Config) SoundPath() string {
	return expandPath(c.Sound.Select)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
