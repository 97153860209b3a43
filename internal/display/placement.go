package display

import (
	"log/slog"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/batocera-linux/controlcenter/internal/config"
)

// layerNamespace identifies the overlay to the compositor.
const layerNamespace = "controlcenter"

// placement puts the window on screen according to the window settings.
type placement struct {
	cfg     config.WindowConfig
	display *gdk.Display
	logger  *slog.Logger
}

func newPlacement(cfg config.WindowConfig, logger *slog.Logger) *placement {
	return &placement{
		cfg:     cfg,
		display: gdk.DisplayGetDefault(),
		logger:  logger,
	}
}

// apply configures size, decorations, layer-shell and fullscreen state.
// Must be called before the window is presented.
func (p *placement) apply(window *gtk.Window) {
	window.SetDefaultSize(p.cfg.Width, p.cfg.Height)
	window.SetDecorated(p.cfg.Decorated)

	monitor := p.monitor()

	if p.cfg.LayerShell {
		if layershell.IsSupported() {
			p.applyLayerShell(window, monitor)
			return
		}
		p.logger.Warn("layer-shell requested but not supported by the compositor")
	}

	if p.cfg.Fullscreen {
		if monitor != nil {
			window.FullscreenOnMonitor(monitor)
		} else {
			window.Fullscreen()
		}
	}
}

func (p *placement) applyLayerShell(window *gtk.Window, monitor *gdk.Monitor) {
	layershell.InitForWindow(window)
	layershell.SetLayer(window, layershell.LayerShellLayerOverlay)
	layershell.SetNamespace(window, layerNamespace)
	layershell.SetKeyboardMode(window, layershell.LayerShellKeyboardModeExclusive)
	layershell.SetExclusiveZone(window, -1)

	if monitor != nil {
		layershell.SetMonitor(window, monitor)
	}

	// Anchoring to every edge stretches the surface over the output.
	// Otherwise the compositor centers it.
	if p.cfg.Fullscreen {
		for _, edge := range []layershell.LayerShellEdge{
			layershell.LayerShellEdgeTop,
			layershell.LayerShellEdgeBottom,
			layershell.LayerShellEdgeLeft,
			layershell.LayerShellEdgeRight,
		} {
			layershell.SetAnchor(window, edge, true)
		}
	}
}

// monitor returns the configured output, or nil for the compositor default.
func (p *placement) monitor() *gdk.Monitor {
	if p.cfg.Monitor == 0 || p.display == nil {
		return nil
	}

	monitors := p.display.Monitors()
	if monitors == nil || monitors.NItems() == 0 {
		p.logger.Warn("no monitors list available")
		return nil
	}

	index := uint(p.cfg.Monitor - 1)
	if index >= monitors.NItems() {
		p.logger.Warn("configured monitor not available, using default",
			"configured", p.cfg.Monitor,
			"available", monitors.NItems(),
		)
		return nil
	}

	obj := monitors.Item(index)
	if obj == nil {
		return nil
	}
	monitor, ok := obj.Cast().(*gdk.Monitor)
	if !ok {
		return nil
	}
	return monitor
}
