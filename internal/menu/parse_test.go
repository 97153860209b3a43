package menu

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseString(t *testing.T) {
	doc, err := ParseString(`<?xml version="1.0"?>
<features title="Control Center">
  <!-- system section -->
  <vgroup id="system" display="SYSTEM">
    <text display="Version"/>
    <button display="Shutdown" action="power:shutdown"/>
  </vgroup>
  <hgroup>
    <text display="Caption">inline text</text>
  </hgroup>
</features>`)
	require.NoError(t, err)
	require.NotNil(t, doc.Root)

	root := doc.Root
	assert.Equal(t, "features", root.Tag)
	assert.Equal(t, KindRoot, root.Kind)
	assert.Equal(t, "Control Center", doc.Title())
	require.Len(t, root.Children, 2)

	system := root.Children[0]
	assert.Equal(t, KindVGroup, system.Kind)
	assert.Equal(t, "system", system.ID())
	assert.Equal(t, 4, system.Line)
	require.Len(t, system.Children, 2)
	assert.Equal(t, KindButton, system.Children[1].Kind)
	assert.Equal(t, "power:shutdown", system.Children[1].Get("action"))

	caption := root.Children[1].Children[0]
	assert.Equal(t, "inline text", caption.Text)
}

func TestParse_AttributeOrderPreserved(t *testing.T) {
	doc, err := ParseString(`<features><button display="A" action="quit" icon="x"/></features>`)
	require.NoError(t, err)

	btn := doc.Root.Children[0]
	require.Len(t, btn.Attrs, 3)
	assert.Equal(t, []Attr{
		{Name: "display", Value: "A"},
		{Name: "action", Value: "quit"},
		{Name: "icon", Value: "x"},
	}, btn.Attrs)
}

func TestParse_UnknownTagsAreKept(t *testing.T) {
	doc, err := ParseString(`<features><widget foo="bar"/></features>`)
	require.NoError(t, err)
	assert.Equal(t, KindUnknown, doc.Root.Children[0].Kind)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty", ``, ErrNoRoot},
		{"only whitespace", "  \n ", ErrNoRoot},
		{"only comment", `<!-- nothing -->`, ErrNoRoot},
		{"two roots", `<features/><features/>`, ErrMultipleRoots},
		{"mismatched close", `<features><vgroup></features>`, nil},
		{"unclosed", `<features><vgroup>`, nil},
		{"bad attribute", `<features><text display=oops/></features>`, nil},
		{"text after root", `<features/>trailing`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			require.Error(t, err)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "controlcenter.xml")
	require.NoError(t, os.WriteFile(path, []byte(`<features><separator/></features>`), 0644))

	doc, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Path)
	assert.Len(t, doc.Root.Children, 1)
}

func TestParseFile_ErrorCarriesPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.xml")
	require.NoError(t, os.WriteFile(path, []byte("<features>\n<vgroup>\n</features>"), 0644))

	_, err := ParseFile(path)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, path, pe.Path)
	assert.Contains(t, err.Error(), path)
	assert.Greater(t, pe.Line, 0)
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.xml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDocument_Find(t *testing.T) {
	doc, err := ParseString(`<features>
		<vgroup id="a"><hgroup id="b"><text id="c" display="x"/></hgroup></vgroup>
	</features>`)
	require.NoError(t, err)

	assert.Equal(t, KindHGroup, doc.Find("b").Kind)
	assert.Equal(t, KindText, doc.Find("c").Kind)
	assert.Nil(t, doc.Find("missing"))
	assert.Nil(t, doc.Find(""))
}

func TestBundledMenuIsValid(t *testing.T) {
	doc, err := ParseFile(filepath.Join("..", "..", "assets", "controlcenter.xml"))
	require.NoError(t, err)

	result := Validate(doc)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}
