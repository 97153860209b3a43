package action

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batocera-linux/controlcenter/internal/config"
	"github.com/batocera-linux/controlcenter/internal/menu"
)

type fakePower struct {
	err   error
	verbs []menu.PowerVerb
}

func (f *fakePower) Power(_ context.Context, verb menu.PowerVerb) error {
	f.verbs = append(f.verbs, verb)
	return f.err
}

func newTestRunner(power PowerManager) *Runner {
	return NewRunner(config.Default().Actions, power, nil)
}

func TestRunner_Output(t *testing.T) {
	r := newTestRunner(&fakePower{})

	out, err := r.Output(context.Background(), "echo hello; echo world")
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\n", out)
}

func TestRunner_OutputFailure(t *testing.T) {
	r := newTestRunner(&fakePower{})

	_, err := r.Output(context.Background(), "echo broken >&2; exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestRunner_Timeout(t *testing.T) {
	cfg := config.Default().Actions
	cfg.Timeout = config.Duration(50 * time.Millisecond)
	r := NewRunner(cfg, &fakePower{}, nil)

	_, err := r.Output(context.Background(), "exec sleep 5")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunner_RunShell(t *testing.T) {
	r := newTestRunner(&fakePower{})
	a, err := menu.ParseAction("printf ok")
	require.NoError(t, err)

	res := r.Run(context.Background(), a)
	require.NoError(t, res.Err)
	assert.Equal(t, "ok", res.Output)
	assert.Len(t, res.ID, 26)
}

func TestRunner_RunPower(t *testing.T) {
	power := &fakePower{}
	r := newTestRunner(power)

	res := r.Run(context.Background(), menu.Action{Kind: menu.ActionPower, Power: menu.PowerReboot})
	require.NoError(t, res.Err)
	assert.Equal(t, []menu.PowerVerb{menu.PowerReboot}, power.verbs)
}

func TestRunner_RunInterfaceActions(t *testing.T) {
	r := newTestRunner(&fakePower{})

	for _, a := range []menu.Action{{Kind: menu.ActionQuit}, {Kind: menu.ActionGoto, Target: "x"}} {
		res := r.Run(context.Background(), a)
		assert.ErrorIs(t, res.Err, ErrNotExecutable)
	}
}

func TestRunner_SatisfiesCommandFunc(t *testing.T) {
	r := newTestRunner(&fakePower{})
	var run menu.CommandFunc = r.Output

	out, err := menu.Expand(context.Background(), "v${printf 42}", run)
	require.NoError(t, err)
	assert.Equal(t, "v42", out)
}

func TestShellPower(t *testing.T) {
	var got []string
	sp := NewShellPower(func(_ context.Context, cmd string) (string, error) {
		got = append(got, cmd)
		return "", nil
	})

	for _, verb := range menu.ValidPowerVerbs() {
		require.NoError(t, sp.Power(context.Background(), verb))
	}
	assert.Equal(t, []string{"poweroff", "reboot", "echo mem > /sys/power/state"}, got)
	assert.ErrorIs(t, sp.Power(context.Background(), "hibernate"), menu.ErrUnknownPowerVerb)
}

func TestFallback(t *testing.T) {
	first := &fakePower{err: errors.New("no logind")}
	second := &fakePower{}

	f := NewFallback(nil, first, second)
	require.NoError(t, f.Power(context.Background(), menu.PowerSuspend))
	assert.Len(t, first.verbs, 1)
	assert.Len(t, second.verbs, 1)
}

func TestFallback_AllFail(t *testing.T) {
	f := NewFallback(nil, &fakePower{err: errors.New("a")}, &fakePower{err: errors.New("b")})
	err := f.Power(context.Background(), menu.PowerShutdown)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a")
	assert.Contains(t, err.Error(), "b")

	assert.Error(t, NewFallback(nil).Power(context.Background(), menu.PowerShutdown))
}

func TestLogind_UnknownVerb(t *testing.T) {
	err := NewLogind().Power(context.Background(), "hibernate")
	assert.ErrorIs(t, err, menu.ErrUnknownPowerVerb)
}
