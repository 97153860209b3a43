package theme

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestProcessImports_NoImports(t *testing.T) {
	css := `.cc-button { color: red; }`
	assert.Equal(t, css, ProcessImports(css, "", nil))
}

func TestProcessImports_Nested(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "colors.css", `@define-color cc_bg #000;`)
	writeFile(t, dir, "base.css", "@import \"colors.css\";\n.cc-root { padding: 4px; }")

	seen := make(map[string]bool)
	result := ProcessImports("@import url('base.css');\n.cc-text {}", dir, seen)

	assert.Contains(t, result, "/* imported: base.css */")
	assert.Contains(t, result, "/* imported: colors.css */")
	assert.Contains(t, result, "@define-color cc_bg")
	assert.Contains(t, result, ".cc-text")
	assert.Len(t, seen, 2)
}

func TestProcessImports_CircularPrevention(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.css", "@import \"b.css\";\n.a {}")
	writeFile(t, dir, "b.css", "@import \"a.css\";\n.b {}")

	result := ProcessImports(`@import "a.css";`, dir, nil)

	assert.Contains(t, result, "/* imported: a.css */")
	assert.Contains(t, result, "/* imported: b.css */")
	assert.Contains(t, result, "/* circular import prevented: a.css */")
}

func TestProcessImports_MissingFile(t *testing.T) {
	result := ProcessImports(`@import "nonexistent.css";`, t.TempDir(), nil)
	assert.Contains(t, result, "/* import failed: nonexistent.css")
}

func TestImportRegex(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`@import "file.css";`, "file.css"},
		{`@import 'file.css';`, "file.css"},
		{`@import url("file.css");`, "file.css"},
		{`@import url( "file.css" );`, "file.css"},
		{`@import "partial.css"`, "partial.css"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			matches := importRegex.FindStringSubmatch(tt.input)
			require.Len(t, matches, 2)
			assert.Equal(t, tt.expected, matches[1])
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	colors := writeFile(t, dir, "colors.css", `@define-color cc_fg #fff;`)
	path := writeFile(t, dir, "style.css", "@import \"colors.css\";\nwindow { color: @cc_fg; }")

	sheet, err := Load(path)
	require.NoError(t, err)
	assert.Contains(t, sheet.CSS, "@define-color cc_fg")
	assert.Equal(t, []string{colors}, sheet.Imports)
	assert.Equal(t, []string{path, colors}, sheet.Files())
	assert.False(t, sheet.ModTime.IsZero())
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "style.css"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStylesheet_Reload(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "style.css", `window { color: red; }`)

	sheet, err := Load(path)
	require.NoError(t, err)

	changed, err := sheet.Reload()
	require.NoError(t, err)
	assert.False(t, changed)

	writeFile(t, dir, "extra.css", `.x { color: blue; }`)
	writeFile(t, dir, "style.css", "@import \"extra.css\";\nwindow { color: red; }")

	changed, err = sheet.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, sheet.CSS, "/* imported: extra.css */")
	assert.Len(t, sheet.Imports, 1)
}

func TestWatcher_ReloadsOnImportChange(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "colors.css", `@define-color cc_bg #000;`)
	path := writeFile(t, dir, "style.css", `@import "colors.css";`)

	sheet, err := Load(path)
	require.NoError(t, err)

	changes := make(chan string, 4)
	w := NewWatcher(sheet, func(css string) { changes <- css }, nil)
	w.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	writeFile(t, dir, "colors.css", `@define-color cc_bg #111;`)

	select {
	case css := <-changes:
		assert.Contains(t, css, "#111")
	case <-time.After(5 * time.Second):
		t.Fatal("stylesheet change not detected")
	}
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "style.css", `window {}`)

	sheet, err := Load(path)
	require.NoError(t, err)

	changes := make(chan string, 1)
	w := NewWatcher(sheet, func(css string) { changes <- css }, nil)
	w.debounce = 10 * time.Millisecond
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	writeFile(t, dir, "notes.txt", "hello")

	select {
	case <-changes:
		t.Fatal("unexpected reload")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	path := writeFile(t, t.TempDir(), "style.css", `window {}`)
	sheet, err := Load(path)
	require.NoError(t, err)

	w := NewWatcher(sheet, nil, nil)
	require.NoError(t, w.Start(context.Background()))
	w.Stop()
	w.Stop()
}
