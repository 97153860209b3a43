package menu

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseError reports a document that is not well-formed.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var (
	ErrNoRoot        = errors.New("document has no root element")
	ErrMultipleRoots = errors.New("document has more than one root element")
)

// ParseFile reads and parses the menu file at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open menu: %w", err)
	}
	defer func() { _ = f.Close() }()

	doc, err := Parse(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	doc.Path = path
	return doc, nil
}

// ParseString parses a menu document from a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Parse builds the node tree from an XML stream. Only well-formedness is
// checked here; structural rules belong to Validate.
func Parse(r io.Reader) (*Document, error) {
	decoder := xml.NewDecoder(r)

	var root *Node
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			line, _ := decoder.InputPos()
			return nil, &ParseError{Line: line, Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil {
				line, _ := decoder.InputPos()
				return nil, &ParseError{Line: line, Err: ErrMultipleRoots}
			}
			node, err := parseElement(decoder, t)
			if err != nil {
				return nil, err
			}
			root = node
		case xml.CharData:
			if root != nil && len(strings.TrimSpace(string(t))) > 0 {
				line, _ := decoder.InputPos()
				return nil, &ParseError{Line: line, Err: errors.New("text after root element")}
			}
		}
	}

	if root == nil {
		return nil, &ParseError{Err: ErrNoRoot}
	}
	return &Document{Root: root}, nil
}

// parseElement consumes tokens up to the matching end element.
func parseElement(decoder *xml.Decoder, start xml.StartElement) (*Node, error) {
	line, _ := decoder.InputPos()
	node := &Node{
		Tag:  start.Name.Local,
		Kind: KindOf(start.Name.Local),
		Line: line,
	}
	for _, attr := range start.Attr {
		node.Attrs = append(node.Attrs, Attr{Name: attr.Name.Local, Value: attr.Value})
	}

	var text strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return nil, &ParseError{Line: line, Err: fmt.Errorf("unclosed element <%s>", node.Tag)}
		}
		if err != nil {
			l, _ := decoder.InputPos()
			return nil, &ParseError{Line: l, Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			child, err := parseElement(decoder, t)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			node.Text = strings.TrimSpace(text.String())
			return node, nil
		}
	}
}
