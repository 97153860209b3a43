package menu

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		input string
		want  Action
	}{
		{"quit", Action{Kind: ActionQuit}},
		{"exit", Action{Kind: ActionQuit}},
		{"goto:network", Action{Kind: ActionGoto, Target: "network"}},
		{" goto: audio ", Action{Kind: ActionGoto, Target: "audio"}},
		{"power:shutdown", Action{Kind: ActionPower, Power: PowerShutdown}},
		{"power:reboot", Action{Kind: ActionPower, Power: PowerReboot}},
		{"power:suspend", Action{Kind: ActionPower, Power: PowerSuspend}},
		{"batocera-wifi scanlist", Action{Kind: ActionShell, Command: "batocera-wifi scanlist"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAction(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAction_Errors(t *testing.T) {
	_, err := ParseAction("  ")
	assert.ErrorIs(t, err, ErrEmptyAction)

	_, err = ParseAction("goto:")
	assert.ErrorIs(t, err, ErrMissingTarget)

	_, err = ParseAction("power:explode")
	assert.ErrorIs(t, err, ErrUnknownPowerVerb)
}

func TestAction_String(t *testing.T) {
	for _, s := range []string{"quit", "goto:x", "power:reboot", "ls -l"} {
		a, err := ParseAction(s)
		require.NoError(t, err)
		assert.Equal(t, s, a.String())
	}
}

func TestAction_NeedsConfirmation(t *testing.T) {
	power, _ := ParseAction("power:shutdown")
	shell, _ := ParseAction("true")
	assert.True(t, power.NeedsConfirmation())
	assert.False(t, shell.NeedsConfirmation())
}

func TestSegments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Segment
	}{
		{"plain", "Version", []Segment{{Text: "Version"}}},
		{"empty", "", nil},
		{"command only", "${uname -r}", []Segment{{Command: "uname -r"}}},
		{
			"mixed",
			"IP: ${hostname -I} (lan)",
			[]Segment{{Text: "IP: "}, {Command: "hostname -I"}, {Text: " (lan)"}},
		},
		{
			"nested braces",
			"${awk '{print $1}' /proc/loadavg}",
			[]Segment{{Command: "awk '{print $1}' /proc/loadavg"}},
		},
		{"unterminated", "cost ${5", []Segment{{Text: "cost ${5"}}},
		{"empty command", "a ${} b", []Segment{{Text: "a ${} b"}}},
		{"dollar without brace", "$HOME", []Segment{{Text: "$HOME"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Segments(tt.input))
		})
	}
}

func TestIsDynamic(t *testing.T) {
	assert.True(t, IsDynamic("x ${date}"))
	assert.False(t, IsDynamic("static"))
	assert.False(t, IsDynamic("${}"))
}

func TestExpand(t *testing.T) {
	run := func(_ context.Context, cmd string) (string, error) {
		if cmd == "fail" {
			return "", errors.New("boom")
		}
		return strings.ToUpper(cmd) + "\n", nil
	}

	out, err := Expand(context.Background(), "a ${b} c", run)
	require.NoError(t, err)
	assert.Equal(t, "a B c", out)

	out, err = Expand(context.Background(), "x ${fail} y ${z}", run)
	require.Error(t, err)
	assert.Equal(t, "x  y Z", out)
}
