package bootstrap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDisplay(t *testing.T) {
	tests := []struct {
		name string
		env  MapEnv
		want bool
		desc string
	}{
		{"none", MapEnv{}, false, ""},
		{"x11", MapEnv{EnvDisplay: ":0"}, true, "DISPLAY=:0"},
		{"wayland", MapEnv{EnvWaylandDisplay: "wayland-1"}, true, "WAYLAND_DISPLAY=wayland-1"},
		{"both prefers wayland", MapEnv{EnvDisplay: ":0", EnvWaylandDisplay: "wayland-0"}, true, "WAYLAND_DISPLAY=wayland-0"},
		{"blank", MapEnv{EnvDisplay: "  ", EnvWaylandDisplay: ""}, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EnsureDisplay(tt.env.Getenv))
			assert.Equal(t, tt.desc, DisplayName(tt.env.Getenv))
		})
	}
}

func TestEnsureDisplay_NilLookup(t *testing.T) {
	assert.False(t, EnsureDisplay(nil))
}

func TestPrepareEnvironment(t *testing.T) {
	env := MapEnv{}
	require.NoError(t, PrepareEnvironment(env))
	assert.Equal(t, "1", env[EnvNoATBridge])
}

func TestPrepareEnvironment_KeepsExisting(t *testing.T) {
	env := MapEnv{EnvNoATBridge: "0"}
	require.NoError(t, PrepareEnvironment(env))
	assert.Equal(t, "0", env[EnvNoATBridge])
}

func TestPrepareEnvironment_OS(t *testing.T) {
	t.Setenv(EnvNoATBridge, "")
	require.NoError(t, PrepareEnvironment(OSEnv{}))
	v, ok := OSEnv{}.LookupEnv(EnvNoATBridge)
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

type fakeInit struct {
	err   error
	panic bool
}

func (f fakeInit) Init() error {
	if f.panic {
		panic("no display connection")
	}
	return f.err
}

func TestToolkitInit(t *testing.T) {
	assert.True(t, ToolkitInit(fakeInit{}, nil))
	assert.False(t, ToolkitInit(fakeInit{err: errors.New("cannot open display")}, nil))
	assert.False(t, ToolkitInit(fakeInit{panic: true}, nil))
}
