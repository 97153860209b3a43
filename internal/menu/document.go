// Package menu parses and validates the controlcenter XML menu description.
package menu

import "strings"

// RootTag is the only accepted document element.
const RootTag = "features"

// Kind identifies the element type of a node.
type Kind string

const (
	KindRoot      Kind = "root"
	KindVGroup    Kind = "vgroup"
	KindHGroup    Kind = "hgroup"
	KindText      Kind = "text"
	KindButton    Kind = "button"
	KindToggle    Kind = "toggle"
	KindProgress  Kind = "progressbar"
	KindImage     Kind = "img"
	KindSeparator Kind = "separator"
	KindUnknown   Kind = ""
)

// elementRule describes what a kind of element may carry.
type elementRule struct {
	kind       Kind
	required   []string
	optional   []string
	container  bool
	deprecated string // replacement tag, if deprecated
}

var groupAttrs = []string{"id", "display", "class", "icon"}

// elements maps every recognized tag to its rule.
var elements = map[string]elementRule{
	RootTag: {kind: KindRoot, optional: []string{"title", "version"}, container: true},
	"vgroup": {kind: KindVGroup, optional: groupAttrs, container: true},
	"hgroup": {kind: KindHGroup, optional: groupAttrs, container: true},
	"group":  {kind: KindVGroup, optional: groupAttrs, container: true, deprecated: "vgroup"},
	"text": {
		kind:     KindText,
		required: []string{"display"},
		optional: []string{"id", "refresh", "class"},
	},
	"button": {
		kind:     KindButton,
		required: []string{"display", "action"},
		optional: []string{"id", "icon", "confirm", "class"},
	},
	"toggle": {
		kind:     KindToggle,
		required: []string{"display", "value", "action_on", "action_off"},
		optional: []string{"id", "refresh", "class"},
	},
	"progressbar": {
		kind:     KindProgress,
		required: []string{"display", "value"},
		optional: []string{"id", "refresh", "class"},
	},
	"img": {
		kind:     KindImage,
		required: []string{"src"},
		optional: []string{"id", "width", "height", "class"},
	},
	"separator": {kind: KindSeparator, optional: []string{"class"}},
}

// KindOf returns the kind for a tag name, or KindUnknown.
func KindOf(tag string) Kind {
	if rule, ok := elements[strings.ToLower(tag)]; ok {
		return rule.kind
	}
	return KindUnknown
}

// Attr is a single attribute in document order.
type Attr struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Node is one element of the menu tree.
type Node struct {
	Tag      string
	Kind     Kind
	Attrs    []Attr
	Children []*Node
	Text     string
	Line     int
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Get returns the named attribute or an empty string.
func (n *Node) Get(name string) string {
	v, _ := n.Attr(name)
	return v
}

// ID returns the node identifier, if any.
func (n *Node) ID() string {
	return n.Get("id")
}

// IsGroup reports whether the node is a vgroup or hgroup.
func (n *Node) IsGroup() bool {
	return n.Kind == KindVGroup || n.Kind == KindHGroup
}

// Walk visits n and its descendants depth-first in document order.
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Document is a parsed menu file.
type Document struct {
	Path string
	Root *Node
}

// Title returns the root title attribute.
func (d *Document) Title() string {
	if d.Root == nil {
		return ""
	}
	return d.Root.Get("title")
}

// Find returns the node with the given id, or nil.
func (d *Document) Find(id string) *Node {
	if d.Root == nil || id == "" {
		return nil
	}
	var found *Node
	d.Root.Walk(func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.ID() == id {
			found = n
			return false
		}
		return true
	})
	return found
}
