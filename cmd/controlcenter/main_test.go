package main

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batocera-linux/controlcenter/internal/app"
	"github.com/batocera-linux/controlcenter/internal/menu"
)

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"empty", nil, nil},
		{"positional", []string{"a.xml", "b.css", "10"}, []string{"a.xml", "b.css", "10"}},
		{"negative timeout", []string{"a.xml", "b.css", "-5"}, []string{"a.xml", "b.css", "--", "-5"}},
		{"flags kept", []string{"-v", "a.xml", "b.css", "-1"}, []string{"-v", "a.xml", "b.css", "--", "-1"}},
		{"already terminated", []string{"--", "a.xml", "b.css", "-5"}, []string{"--", "a.xml", "b.css", "-5"}},
		{"flag value untouched", []string{"--search-dir", "/tmp"}, []string{"--search-dir", "/tmp"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeArgs(tt.args))
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 2, exitCode(&app.ExitError{Code: app.ExitInvalidMenu, Err: errors.New("bad")}))
	assert.Equal(t, 2, exitCode(fmt.Errorf("wrapped: %w", &app.ExitError{Code: 2})))
	assert.Equal(t, 1, exitCode(errors.New("unknown command")))
}

func TestRenderReport(t *testing.T) {
	doc, err := menu.ParseString(`<features>
		<vgroup id="a"><text display="x"/><button display="b"/></vgroup>
	</features>`)
	require.NoError(t, err)
	result := menu.Validate(doc)
	require.False(t, result.OK())

	var buf bytes.Buffer
	renderReport(&buf, "/tmp/cc.xml", doc, result)

	out := buf.String()
	assert.Contains(t, out, "/tmp/cc.xml")
	assert.Contains(t, out, "3 elements, 1 groups")
	assert.Contains(t, out, `missing required attribute "action"`)
}

func TestCountNodes(t *testing.T) {
	elements, groups := countNodes(nil)
	assert.Zero(t, elements)
	assert.Zero(t, groups)

	doc, err := menu.ParseString(`<features><hgroup><vgroup/><separator/></hgroup></features>`)
	require.NoError(t, err)
	elements, groups = countNodes(doc)
	assert.Equal(t, 3, elements)
	assert.Equal(t, 2, groups)
}

