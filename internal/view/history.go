package view

import (
	"sync"
	"time"

	"github.com/batocera-linux/controlcenter/internal/action"
)

// Run is the outcome of the last invocation of a control.
type Run struct {
	ID       string // ULID of the invocation
	Action   string
	Started  time.Time
	Duration time.Duration
	Err      error
}

// History remembers the last run of each control for the lifetime of the
// process. It is safe for concurrent use.
type History struct {
	mu   sync.RWMutex
	last map[string]Run
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{last: make(map[string]Run)}
}

// Record stores res as the last run of the control labelled label.
func (h *History) Record(label string, res action.Result) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last[label] = Run{
		ID:       res.ID,
		Action:   res.Action.String(),
		Started:  res.Started,
		Duration: res.Duration,
		Err:      res.Err,
	}
}

// Last returns the last run of the control labelled label.
func (h *History) Last(label string) (Run, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	r, ok := h.last[label]
	return r, ok
}
