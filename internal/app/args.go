package app

import (
	"strconv"
	"strings"
	"time"
)

// Args are the positional command line arguments.
type Args struct {
	XMLPath   string // empty = resolve controlcenter.xml
	CSSPath   string // empty = resolve style.css
	AutoClose time.Duration
}

// ParseArgs interprets [xml_path] [css_path] [auto_close_seconds]. An invalid
// timeout is not an error: it is reported through the returned warning and
// auto-close stays disabled.
func ParseArgs(args []string) (parsed Args, warning string) {
	if len(args) >= 1 {
		parsed.XMLPath = args[0]
	}
	if len(args) >= 2 {
		parsed.CSSPath = args[1]
	}
	if len(args) >= 3 {
		secs, err := strconv.Atoi(strings.TrimSpace(args[2]))
		switch {
		case err != nil:
			warning = "Invalid auto-close timeout '" + args[2] + "', using 0 (no auto-close)"
		case secs < 0:
			warning = "Negative auto-close timeout '" + args[2] + "', using 0 (no auto-close)"
		default:
			parsed.AutoClose = time.Duration(secs) * time.Second
		}
	}
	return parsed, warning
}
