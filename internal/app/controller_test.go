package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batocera-linux/controlcenter/internal/menu"
)

func testDocument(t *testing.T) *menu.Document {
	t.Helper()
	doc, err := menu.ParseString(`<features><button display="Close" action="quit"/></features>`)
	require.NoError(t, err)
	return doc
}

func TestController_CloseEndsLoop(t *testing.T) {
	tk := newFakeToolkit()
	c := NewController(testDocument(t), Runtime{}, nil, tk, closeImmediately, nil)
	assert.Equal(t, StateIdle, c.State())

	require.NoError(t, c.Run(context.Background()))
	assert.Equal(t, StateClosed, c.State())
	assert.Empty(t, tk.Scheduled(), "no timer without auto-close")
}

func TestController_AutoClose(t *testing.T) {
	tk := newFakeToolkit()
	tk.fireSchedules = true

	var sawDeadline bool
	presenter := PresenterFunc(func(c *Controller) error {
		_, sawDeadline = c.Deadline()
		return nil
	})

	c := NewController(testDocument(t), Runtime{AutoClose: 5 * time.Second}, nil, tk, presenter, nil)
	require.NoError(t, c.Run(context.Background()))

	assert.Equal(t, StateTimedOut, c.State())
	assert.Equal(t, []time.Duration{5 * time.Second}, tk.Scheduled())
	assert.True(t, sawDeadline)
	_, ok := c.Deadline()
	assert.False(t, ok, "no deadline once stopped")
}

func TestController_Deadline(t *testing.T) {
	tk := newFakeToolkit()
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	var deadline time.Time
	presenter := PresenterFunc(func(c *Controller) error {
		deadline, _ = c.Deadline()
		c.Close()
		return nil
	})

	c := NewController(testDocument(t), Runtime{AutoClose: 30 * time.Second}, nil, tk, presenter, nil)
	c.now = func() time.Time { return start }
	require.NoError(t, c.Run(context.Background()))
	assert.Equal(t, start.Add(30*time.Second), deadline)
}

func TestController_ContextCancel(t *testing.T) {
	tk := newFakeToolkit()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	presenter := PresenterFunc(func(*Controller) error {
		cancel()
		return nil
	})

	c := NewController(testDocument(t), Runtime{}, nil, tk, presenter, nil)
	require.NoError(t, c.Run(ctx))
	assert.Equal(t, StateClosed, c.State())
}

func TestController_FirstTerminalStateWins(t *testing.T) {
	tk := newFakeToolkit()
	presenter := PresenterFunc(func(c *Controller) error {
		c.Close()
		c.timeout()
		return nil
	})

	c := NewController(testDocument(t), Runtime{AutoClose: time.Second}, nil, tk, presenter, nil)
	require.NoError(t, c.Run(context.Background()))
	assert.Equal(t, StateClosed, c.State())
}

func TestController_PresentError(t *testing.T) {
	tk := newFakeToolkit()
	presenter := PresenterFunc(func(*Controller) error {
		return errors.New("no monitor")
	})

	c := NewController(testDocument(t), Runtime{AutoClose: time.Second}, nil, tk, presenter, nil)
	err := c.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no monitor")
	assert.Equal(t, StateClosed, c.State())
	assert.Empty(t, tk.Scheduled())
}

func TestController_LoopStatus(t *testing.T) {
	tk := newFakeToolkit()
	tk.status = 3
	c := NewController(testDocument(t), Runtime{}, nil, tk, closeImmediately, nil)
	assert.Error(t, c.Run(context.Background()))
}

func TestController_RunTwice(t *testing.T) {
	tk := newFakeToolkit()
	c := NewController(testDocument(t), Runtime{}, nil, tk, closeImmediately, nil)
	require.NoError(t, c.Run(context.Background()))
	assert.ErrorIs(t, c.Run(context.Background()), ErrAlreadyStarted)
	assert.Equal(t, 1, tk.Runs())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "timed-out", StateTimedOut.String())
	assert.Equal(t, "state(9)", State(9).String())
}
