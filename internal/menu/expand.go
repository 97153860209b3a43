package menu

import (
	"context"
	"errors"
	"strings"
)

// Segment is a piece of a display value: either literal text or a command
// whose output replaces it.
type Segment struct {
	Text    string
	Command string
}

// IsCommand reports whether the segment is a ${...} substitution.
func (s Segment) IsCommand() bool {
	return s.Command != ""
}

// Segments splits a value into literal and ${command} parts.
// Braces inside a command are balanced, so ${awk '{print $1}' f} is one
// command. An unterminated ${ is kept as literal text.
func Segments(value string) []Segment {
	var segments []Segment
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			segments = append(segments, Segment{Text: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(value); {
		if !strings.HasPrefix(value[i:], "${") {
			literal.WriteByte(value[i])
			i++
			continue
		}

		end := matchBrace(value, i+2)
		if end < 0 {
			literal.WriteString(value[i:])
			break
		}
		command := strings.TrimSpace(value[i+2 : end])
		if command == "" {
			literal.WriteString(value[i : end+1])
		} else {
			flush()
			segments = append(segments, Segment{Command: command})
		}
		i = end + 1
	}
	flush()
	return segments
}

// matchBrace returns the index of the brace closing the one opened before
// start, or -1.
func matchBrace(s string, start int) int {
	depth := 1
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// IsDynamic reports whether the value contains at least one command.
func IsDynamic(value string) bool {
	for _, seg := range Segments(value) {
		if seg.IsCommand() {
			return true
		}
	}
	return false
}

// CommandFunc returns the output of a command.
type CommandFunc func(ctx context.Context, command string) (string, error)

// Expand evaluates every command in value and joins the result. Failed
// commands contribute an empty string; their errors are joined and returned
// alongside the partial text.
func Expand(ctx context.Context, value string, run CommandFunc) (string, error) {
	var b strings.Builder
	var errs []error
	for _, seg := range Segments(value) {
		if !seg.IsCommand() {
			b.WriteString(seg.Text)
			continue
		}
		out, err := run(ctx, seg.Command)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		b.WriteString(strings.TrimSpace(out))
	}
	return b.String(), errors.Join(errs...)
}
