package display

import (
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/batocera-linux/controlcenter/internal/menu"
	"github.com/batocera-linux/controlcenter/internal/view"
)

// buildElement builds the widget for a menu node. parent is the orientation
// of the enclosing box.
func (w *Window) buildElement(n *menu.Node, parent gtk.Orientation) gtk.Widgetter {
	var widget gtk.Widgetter
	switch n.Kind {
	case menu.KindVGroup:
		return w.buildGroup(n, gtk.OrientationVertical)
	case menu.KindHGroup:
		return w.buildGroup(n, gtk.OrientationHorizontal)
	case menu.KindText:
		widget = w.buildText(n)
	case menu.KindButton:
		widget = w.buildButton(n)
	case menu.KindToggle:
		widget = w.buildToggle(n)
	case menu.KindProgress:
		widget = w.buildProgress(n)
	case menu.KindImage:
		widget = w.buildImage(n)
	case menu.KindSeparator:
		widget = buildSeparator(parent)
	default:
		w.logger.Debug("skipping element", "tag", n.Tag, "line", n.Line)
		return nil
	}
	style(widget, n)
	return widget
}

// style applies the node's CSS classes and id.
func style(widget gtk.Widgetter, n *menu.Node) {
	base := gtk.BaseWidget(widget)
	for _, class := range view.Classes(n) {
		base.AddCSSClass(class)
	}
	if id := n.ID(); id != "" {
		base.SetName(id)
	}
}

// bindLabel keeps label in sync with a possibly dynamic template.
func (w *Window) bindLabel(label *gtk.Label, n *menu.Node, attr string) {
	w.refresher.Bind(w.ctx, n.Get(attr), view.RefreshInterval(n), func(text string) {
		if !w.closed {
			label.SetText(text)
		}
	})
}

func (w *Window) buildGroup(n *menu.Node, orientation gtk.Orientation) gtk.Widgetter {
	box := gtk.NewBox(orientation, 6)
	if orientation == gtk.OrientationVertical {
		box.SetHExpand(true)
	}
	for _, child := range n.Children {
		if widget := w.buildElement(child, orientation); widget != nil {
			box.Append(widget)
		}
	}

	container := box
	title, icon := n.Get("display"), n.Get("icon")
	if title != "" || icon != "" {
		header := gtk.NewBox(gtk.OrientationHorizontal, 6)
		header.AddCSSClass("cc-group-title")
		if icon != "" {
			header.Append(newIcon(icon, 0))
		}
		if title != "" {
			label := gtk.NewLabel("")
			label.SetXAlign(0)
			w.bindLabel(label, n, "display")
			header.Append(label)
		}

		container = gtk.NewBox(gtk.OrientationVertical, 4)
		container.Append(header)
		container.Append(box)
	}

	style(container, n)
	if id := n.ID(); id != "" {
		w.groups[id] = container
	}
	return container
}

func (w *Window) buildText(n *menu.Node) gtk.Widgetter {
	label := gtk.NewLabel("")
	label.SetXAlign(0)
	label.SetWrap(true)
	label.SetWrapMode(2) // PANGO_WRAP_WORD_CHAR
	label.SetSelectable(false)
	w.bindLabel(label, n, "display")
	return label
}

func (w *Window) buildButton(n *menu.Node) gtk.Widgetter {
	content := gtk.NewBox(gtk.OrientationHorizontal, 6)
	if icon := n.Get("icon"); icon != "" {
		content.Append(newIcon(icon, 0))
	}
	label := gtk.NewLabel("")
	label.SetXAlign(0)
	w.bindLabel(label, n, "display")
	content.Append(label)

	button := gtk.NewButton()
	button.SetChild(content)

	value, confirm := n.Get("action"), view.ConfirmFlag(n)
	button.ConnectClicked(func() {
		w.dispatcher.Activate(label.Text(), value, confirm)
	})

	motion := gtk.NewEventControllerMotion()
	motion.ConnectEnter(func(x, y float64) {
		if last := w.dispatcher.LastRun(label.Text()); last != "" {
			button.SetTooltipText(last)
		}
	})
	button.AddController(motion)
	return button
}

func (w *Window) buildToggle(n *menu.Node) gtk.Widgetter {
	row := gtk.NewBox(gtk.OrientationHorizontal, 8)

	label := gtk.NewLabel("")
	label.SetXAlign(0)
	label.SetHExpand(true)
	w.bindLabel(label, n, "display")
	row.Append(label)

	sw := gtk.NewSwitch()
	sw.SetVAlign(gtk.AlignCenter)
	row.Append(sw)

	// Refreshing the state must not run the actions.
	var syncing bool
	w.refresher.Bind(w.ctx, n.Get("value"), view.RefreshInterval(n), func(value string) {
		if w.closed {
			return
		}
		syncing = true
		sw.SetActive(view.Truthy(value))
		syncing = false
	})

	on, off := n.Get("action_on"), n.Get("action_off")
	sw.ConnectStateSet(func(state bool) bool {
		if syncing {
			return false
		}
		if state {
			w.dispatcher.Activate(label.Text(), on, false)
		} else {
			w.dispatcher.Activate(label.Text(), off, false)
		}
		return false
	})
	return row
}

func (w *Window) buildProgress(n *menu.Node) gtk.Widgetter {
	row := gtk.NewBox(gtk.OrientationHorizontal, 8)

	label := gtk.NewLabel("")
	label.SetXAlign(0)
	w.bindLabel(label, n, "display")
	row.Append(label)

	bar := gtk.NewProgressBar()
	bar.SetHExpand(true)
	bar.SetVAlign(gtk.AlignCenter)
	bar.SetShowText(true)
	row.Append(bar)

	w.refresher.Bind(w.ctx, n.Get("value"), view.RefreshInterval(n), func(value string) {
		if w.closed {
			return
		}
		fraction, ok := view.Fraction(value)
		if !ok {
			w.logger.Debug("unparsable progress value", "value", value, "line", n.Line)
			return
		}
		bar.SetFraction(fraction)
	})
	return row
}

func (w *Window) buildImage(n *menu.Node) gtk.Widgetter {
	src := view.ImagePath(n.Get("src"), w.baseDir)
	width, height := view.ImageSize(n)

	if view.IsIconName(src) {
		return newIcon(src, max(width, height))
	}

	picture := gtk.NewPictureForFilename(src)
	picture.SetCanShrink(true)
	picture.SetSizeRequest(width, height)
	return picture
}

func buildSeparator(parent gtk.Orientation) gtk.Widgetter {
	if parent == gtk.OrientationHorizontal {
		return gtk.NewSeparator(gtk.OrientationVertical)
	}
	return gtk.NewSeparator(gtk.OrientationHorizontal)
}

// newIcon creates a themed icon image; size <= 0 keeps the theme default.
func newIcon(name string, size int) *gtk.Image {
	image := gtk.NewImageFromIconName(name)
	if size > 0 {
		image.SetPixelSize(size)
	}
	return image
}
