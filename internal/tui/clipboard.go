package tui

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrNoClipboard is returned when no clipboard tool is installed.
var ErrNoClipboard = errors.New("no clipboard command available")

// clipboardCommands are tried in order; the first one on PATH wins.
var clipboardCommands = []string{
	"wl-copy",
	"xclip -selection clipboard",
	"xsel --clipboard --input",
}

// copyToClipboard copies text to the system clipboard.
func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		return copyResultMsg{err: copyText(text)}
	}
}

// copyText pipes text into the first available clipboard tool.
func copyText(text string) error {
	parts := detectClipboardCommand(exec.LookPath)
	if len(parts) == 0 {
		return ErrNoClipboard
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := exec.CommandContext(ctx, parts[0], parts[1:]...)
	c.Stdin = strings.NewReader(text)
	return c.Run()
}

// detectClipboardCommand returns the argv of the clipboard tool to use.
func detectClipboardCommand(lookPath func(string) (string, error)) []string {
	for _, cmd := range clipboardCommands {
		parts := strings.Fields(cmd)
		if _, err := lookPath(parts[0]); err == nil {
			return parts
		}
	}
	return nil
}
