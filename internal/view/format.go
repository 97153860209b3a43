// Package view holds the toolkit independent parts of the menu user
// interface: value formatting, action dispatch and dynamic refresh.
package view

import (
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/batocera-linux/controlcenter/internal/menu"
)

// ClassPrefix is prepended to the element kind to form its CSS class.
const ClassPrefix = "cc-"

var invalidClassChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// Classes returns the CSS classes for a node: its kind class followed by the
// sanitized entries of its class attribute.
func Classes(n *menu.Node) []string {
	classes := []string{ClassPrefix + string(n.Kind)}
	for _, c := range strings.Fields(n.Get("class")) {
		if c = sanitizeClassName(c); c != "" {
			classes = append(classes, c)
		}
	}
	return classes
}

func sanitizeClassName(name string) string {
	return invalidClassChars.ReplaceAllString(name, "")
}

// Fraction parses a progress value. "42", "42%" and "42.5" are percentages;
// the result is clamped to [0, 1].
func Fraction(value string) (float64, bool) {
	v := strings.TrimSpace(value)
	v = strings.TrimSuffix(v, "%")
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return math.Max(0, math.Min(1, f/100)), true
}

// Truthy interprets a toggle value.
func Truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "on", "true", "yes", "enabled", "enable":
		return true
	default:
		return false
	}
}

// ImageSize returns the requested image size, -1 for unset dimensions.
func ImageSize(n *menu.Node) (width, height int) {
	return dimension(n.Get("width")), dimension(n.Get("height"))
}

func dimension(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(s, "px")))
	if err != nil || v <= 0 {
		return -1
	}
	return v
}

// IsIconName reports whether an img src names a themed icon rather than a
// file.
func IsIconName(src string) bool {
	return src != "" && !strings.ContainsAny(src, "/.")
}

// ImagePath resolves an img src against the directory of the menu file.
// Icon names are returned unchanged.
func ImagePath(src, baseDir string) string {
	src = strings.TrimSpace(src)
	if IsIconName(src) || filepath.IsAbs(src) || baseDir == "" {
		return src
	}
	return filepath.Join(baseDir, src)
}

// RefreshInterval returns the node's refresh period, or 0.
func RefreshInterval(n *menu.Node) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(n.Get("refresh")))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// Remaining returns the whole seconds left until deadline, rounded up.
func Remaining(deadline, now time.Time) int {
	d := deadline.Sub(now)
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

// Title returns the window title: the document title or fallback.
func Title(doc *menu.Document, fallback string) string {
	if t := strings.TrimSpace(doc.Title()); t != "" {
		return t
	}
	return fallback
}
