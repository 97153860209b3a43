package audio

import (
	"log/slog"

	"github.com/batocera-linux/controlcenter/internal/config"
)

// Feedback plays the configured select sound when a control is activated.
type Feedback struct {
	player  *Player
	enabled bool
	path    string
	logger  *slog.Logger
}

// NewFeedback creates feedback from the [sound] settings. A disabled or
// unconfigured sound yields a Feedback whose methods do nothing.
func NewFeedback(cfg *config.Config, logger *slog.Logger) *Feedback {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Feedback{
		logger:  logger.With("component", "audio"),
		enabled: cfg.Sound.Enabled && cfg.Sound.Select != "",
		path:    cfg.SoundPath(),
	}
	if f.enabled {
		f.player = NewPlayer(f.logger)
		f.player.SetVolume(float64(cfg.Sound.Volume) / 100.0)
	}
	return f
}

// Enabled reports whether a sound will be played.
func (f *Feedback) Enabled() bool {
	return f.enabled
}

// Preload decodes the sound ahead of the first activation. Failure disables
// feedback.
func (f *Feedback) Preload() {
	if !f.enabled {
		return
	}
	if err := f.player.Preload(f.path); err != nil {
		f.logger.Warn("failed to load select sound, disabling", "path", f.path, "error", err)
		f.enabled = false
	}
}

// Select plays the select sound.
func (f *Feedback) Select() {
	if !f.enabled {
		return
	}
	if err := f.player.Play(f.path); err != nil {
		f.logger.Debug("failed to play select sound", "error", err)
	}
}

// Close releases the audio device.
func (f *Feedback) Close() {
	if f.player != nil {
		f.player.Close()
	}
}
