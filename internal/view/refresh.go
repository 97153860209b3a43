package view

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/batocera-linux/controlcenter/internal/menu"
)

// Refresher evaluates ${command} substitutions off the interface thread and
// delivers the text back through invoke.
type Refresher struct {
	run    menu.CommandFunc
	invoke func(func())
	logger *slog.Logger
	wg     sync.WaitGroup
}

func NewRefresher(run menu.CommandFunc, invoke func(func()), logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{run: run, invoke: invoke, logger: logger}
}

// Bind keeps apply fed with the expansion of template. Static templates are
// applied immediately on the calling goroutine. Dynamic ones are evaluated
// once, then every interval when interval is positive, until ctx ends.
func (r *Refresher) Bind(ctx context.Context, template string, interval time.Duration, apply func(string)) {
	if !menu.IsDynamic(template) {
		apply(template)
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.evaluate(ctx, template, apply)
		if interval <= 0 {
			return
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.evaluate(ctx, template, apply)
			}
		}
	}()
}

func (r *Refresher) evaluate(ctx context.Context, template string, apply func(string)) {
	text, err := menu.Expand(ctx, template, r.run)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		r.logger.Debug("command substitution failed", "template", template, "error", err)
	}
	r.invoke(func() { apply(text) })
}

// Wait blocks until every binding goroutine has stopped.
func (r *Refresher) Wait() {
	r.wg.Wait()
}
