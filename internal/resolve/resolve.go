// Package resolve locates controlcenter asset files across the override,
// shared and bundled directories.
package resolve

import (
	"os"
	"path/filepath"
)

const (
	// UserDir holds per-user overrides of the bundled assets.
	UserDir = "/userdata/system/configs/controlcenter"
	// SharedDir holds the system-wide copies shipped with the distribution.
	SharedDir = "/usr/share/batocera/controlcenter"
)

// Well-known asset names.
const (
	MenuFile       = "controlcenter.xml"
	StylesheetFile = "style.css"
	SettingsFile   = "controlcenter.toml"
)

// Resolver searches an ordered list of root directories for a file.
type Resolver struct {
	roots []string
}

// New creates a resolver over the given roots, highest priority first.
func New(roots ...string) *Resolver {
	return &Resolver{roots: roots}
}

// Default returns a resolver over the user override and shared directories.
// Extra roots are searched before them.
func Default(extra ...string) *Resolver {
	roots := make([]string, 0, len(extra)+2)
	roots = append(roots, extra...)
	roots = append(roots, UserDir, SharedDir)
	return New(roots...)
}

// Roots returns the search roots in priority order.
func (r *Resolver) Roots() []string {
	return append([]string(nil), r.roots...)
}

// Candidates returns every path Resolve would try for filename, in order.
func (r *Resolver) Candidates(filename, defaultPath string) []string {
	paths := make([]string, 0, len(r.roots)+1)
	for _, root := range r.roots {
		paths = append(paths, filepath.Join(root, filename))
	}
	return append(paths, defaultPath)
}

// Resolve returns the first candidate for filename that exists.
// When nothing matches, defaultPath is returned as-is even if it does not
// exist; callers report the missing file using that path.
func (r *Resolver) Resolve(filename, defaultPath string) string {
	for _, path := range r.Candidates(filename, defaultPath) {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return defaultPath
}

// ExecutableDir returns the directory containing the running binary, used as
// the bundled default location. Falls back to the working directory.
func ExecutableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}
