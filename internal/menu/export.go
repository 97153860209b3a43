package menu

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ExportNode is the serializable form of a node.
type ExportNode struct {
	Tag      string        `json:"tag" yaml:"tag"`
	Kind     Kind          `json:"kind,omitempty" yaml:"kind,omitempty"`
	Line     int           `json:"line,omitempty" yaml:"line,omitempty"`
	Attrs    []Attr        `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Text     string        `json:"text,omitempty" yaml:"text,omitempty"`
	Children []*ExportNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// Export converts the document tree to its serializable form.
func Export(doc *Document) *ExportNode {
	if doc == nil || doc.Root == nil {
		return nil
	}
	return exportNode(doc.Root)
}

func exportNode(n *Node) *ExportNode {
	out := &ExportNode{
		Tag:   n.Tag,
		Kind:  n.Kind,
		Line:  n.Line,
		Attrs: n.Attrs,
		Text:  n.Text,
	}
	for _, child := range n.Children {
		out.Children = append(out.Children, exportNode(child))
	}
	return out
}

// Format names an export encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Marshal encodes the document tree in the given format.
func Marshal(doc *Document, format Format) ([]byte, error) {
	tree := Export(doc)
	switch format {
	case FormatYAML, "":
		return yaml.Marshal(tree)
	case FormatJSON:
		return json.MarshalIndent(tree, "", "  ")
	default:
		return nil, fmt.Errorf("unsupported format %q, must be yaml or json", format)
	}
}
