package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/batocera-linux/controlcenter/internal/i18n"
	"github.com/batocera-linux/controlcenter/internal/menu"
	"github.com/batocera-linux/controlcenter/internal/view"
)

// entry is one menu element in the flattened tree.
type entry struct {
	node    *menu.Node
	depth   int
	label   string // expanded display text
	value   string // expanded value for toggles and progress bars
	lastRun time.Time
}

// flatten lists every renderable element in document order.
func flatten(root *menu.Node) []*entry {
	var entries []*entry
	var walk func(n *menu.Node, depth int)
	walk = func(n *menu.Node, depth int) {
		for _, child := range n.Children {
			if child.Kind == menu.KindUnknown || child.Kind == menu.KindRoot {
				continue
			}
			e := &entry{node: child, depth: depth}
			if display := child.Get("display"); !menu.IsDynamic(display) {
				e.label = display
			}
			if value := child.Get("value"); !menu.IsDynamic(value) {
				e.value = value
			}
			entries = append(entries, e)
			if child.IsGroup() {
				walk(child, depth+1)
			}
		}
	}
	if root != nil {
		walk(root, 0)
	}
	return entries
}

// activatable reports whether enter does something on this entry.
func (e *entry) activatable() bool {
	return e.node.Kind == menu.KindButton || e.node.Kind == menu.KindToggle
}

// entryItem adapts an entry to the list component.
type entryItem struct {
	entry *entry
	tr    *i18n.Translator
	bar   progress.Model
}

func (i entryItem) Title() string {
	e := i.entry
	indent := strings.Repeat("  ", e.depth)
	switch e.node.Kind {
	case menu.KindSeparator:
		return indent + "────────"
	case menu.KindVGroup, menu.KindHGroup:
		if e.label != "" {
			return indent + e.label
		}
		if id := e.node.ID(); id != "" {
			return indent + "[" + id + "]"
		}
		return indent + "[" + string(e.node.Kind) + "]"
	case menu.KindImage:
		return indent + "▣ " + e.node.Get("src")
	default:
		return indent + e.label
	}
}

func (i entryItem) Description() string {
	e := i.entry
	indent := strings.Repeat("  ", e.depth)
	switch e.node.Kind {
	case menu.KindButton:
		desc := e.node.Get("action")
		if !e.lastRun.IsZero() {
			desc += " · " + i.tr.T(i18n.MsgRanAgo, map[string]any{"When": humanize.Time(e.lastRun)})
		}
		return indent + desc
	case menu.KindToggle:
		if view.Truthy(e.value) {
			return indent + i.tr.T(i18n.MsgToggleOn, nil)
		}
		return indent + i.tr.T(i18n.MsgToggleOff, nil)
	case menu.KindProgress:
		fraction, ok := view.Fraction(e.value)
		if !ok {
			return indent + e.value
		}
		return indent + i.bar.ViewAs(fraction)
	case menu.KindImage:
		if w, h := view.ImageSize(e.node); w > 0 && h > 0 {
			return fmt.Sprintf("%s%dx%d", indent, w, h)
		}
		return indent
	default:
		return indent
	}
}

func (i entryItem) FilterValue() string {
	return i.entry.label
}

// entryDelegate renders groups emphasized and separators dimmed.
type entryDelegate struct {
	list.DefaultDelegate
}

func newEntryDelegate() entryDelegate {
	d := list.NewDefaultDelegate()
	return entryDelegate{DefaultDelegate: d}
}

// Render renders a list item. All items use the same two-line structure.
func (d entryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ei, ok := item.(entryItem)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, item)
		return
	}

	isSelected := index == m.Index()
	itemWidth := m.Width() - d.DefaultDelegate.Styles.NormalTitle.GetHorizontalPadding()

	titleStyle := d.DefaultDelegate.Styles.NormalTitle
	descStyle := d.DefaultDelegate.Styles.NormalDesc
	if isSelected {
		titleStyle = d.DefaultDelegate.Styles.SelectedTitle
		descStyle = d.DefaultDelegate.Styles.SelectedDesc
	}

	switch {
	case ei.entry.node.IsGroup():
		titleStyle = titleStyle.Bold(true).Foreground(lipgloss.Color("12"))
	case ei.entry.node.Kind == menu.KindSeparator:
		titleStyle = titleStyle.Foreground(lipgloss.Color("8"))
	case !ei.entry.activatable():
		titleStyle = titleStyle.Foreground(lipgloss.Color("7"))
	}

	if itemWidth > 0 {
		titleStyle = titleStyle.MaxWidth(itemWidth)
		descStyle = descStyle.MaxWidth(itemWidth)
	}

	fmt.Fprint(w, titleStyle.Render(ei.Title()))
	fmt.Fprint(w, "\n")
	fmt.Fprint(w, descStyle.Render(ei.Description()))
}
