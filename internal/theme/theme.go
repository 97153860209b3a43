// Package theme loads the controlcenter stylesheet and keeps it current.
package theme

import (
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"time"
)

// importRegex matches @import "file.css"; or @import 'file.css'; or @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Stylesheet is a CSS file with its @import statements inlined.
type Stylesheet struct {
	Path    string
	CSS     string
	ModTime time.Time
	Imports []string // absolute paths of inlined files
}

// Load reads the stylesheet at path and inlines its imports.
func Load(path string) (*Stylesheet, error) {
	s := &Stylesheet{Path: path}
	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the stylesheet and reports whether the resulting CSS
// changed. Imported files are always re-read.
func (s *Stylesheet) Reload() (bool, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return false, err
	}

	seen := make(map[string]bool)
	css := ProcessImports(string(data), filepath.Dir(s.Path), seen)

	imports := make([]string, 0, len(seen))
	for p := range seen {
		imports = append(imports, p)
	}
	slices.Sort(imports)

	changed := css != s.CSS
	s.CSS = css
	s.ModTime = info.ModTime()
	s.Imports = imports
	return changed, nil
}

// Files returns the stylesheet and every file it imports.
func (s *Stylesheet) Files() []string {
	return append([]string{s.Path}, s.Imports...)
}

// ProcessImports resolves and inlines @import statements in CSS.
// Imports are resolved relative to baseDir; seen records every inlined file
// and breaks import cycles.
func ProcessImports(css string, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(match string) string {
		submatch := importRegex.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}

		importPath := submatch[1]
		fullPath := importPath
		if !filepath.IsAbs(importPath) {
			fullPath = filepath.Join(baseDir, importPath)
		}

		if seen[fullPath] {
			return "/* circular import prevented: " + importPath + " */"
		}
		seen[fullPath] = true

		imported, err := os.ReadFile(fullPath)
		if err != nil {
			return "/* import failed: " + importPath + " - " + err.Error() + " */"
		}

		processed := ProcessImports(string(imported), filepath.Dir(fullPath), seen)
		return "/* imported: " + importPath + " */\n" + processed
	})
}
