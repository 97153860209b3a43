package view

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mu    sync.Mutex
	texts []string
}

func (c *collector) apply(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.texts = append(c.texts, s)
}

func (c *collector) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.texts...)
}

func direct(fn func()) { fn() }

func TestRefresher_StaticAppliesImmediately(t *testing.T) {
	r := NewRefresher(func(context.Context, string) (string, error) {
		t.Fatal("static text must not run commands")
		return "", nil
	}, direct, nil)

	var c collector
	r.Bind(context.Background(), "plain", time.Second, c.apply)
	assert.Equal(t, []string{"plain"}, c.snapshot())
}

func TestRefresher_DynamicOnce(t *testing.T) {
	r := NewRefresher(func(_ context.Context, cmd string) (string, error) {
		return "5.10\n", nil
	}, direct, nil)

	var c collector
	r.Bind(context.Background(), "Kernel ${uname -r}", 0, c.apply)
	r.Wait()
	assert.Equal(t, []string{"Kernel 5.10"}, c.snapshot())
}

func TestRefresher_ErrorStillApplies(t *testing.T) {
	r := NewRefresher(func(context.Context, string) (string, error) {
		return "", errors.New("not found")
	}, direct, nil)

	var c collector
	r.Bind(context.Background(), "IP: ${hostname -I}", 0, c.apply)
	r.Wait()
	assert.Equal(t, []string{"IP: "}, c.snapshot())
}

func TestRefresher_Periodic(t *testing.T) {
	var calls atomic.Int32
	r := NewRefresher(func(context.Context, string) (string, error) {
		calls.Add(1)
		return "x", nil
	}, direct, nil)

	ctx, cancel := context.WithCancel(context.Background())
	var c collector
	r.Bind(ctx, "${date}", 10*time.Millisecond, c.apply)

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	r.Wait()

	stopped := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, calls.Load())
}
