package app

import (
	"sync"
	"time"
)

// fakeToolkit runs a minimal event loop on the calling goroutine.
type fakeToolkit struct {
	initErr       error
	fireSchedules bool
	status        int

	mu        sync.Mutex
	inits     int
	runs      int
	scheduled []time.Duration
	queue     chan func()
	quit      chan struct{}
}

func newFakeToolkit() *fakeToolkit {
	return &fakeToolkit{
		queue: make(chan func(), 16),
		quit:  make(chan struct{}, 1),
	}
}

func (f *fakeToolkit) Init() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inits++
	return f.initErr
}

func (f *fakeToolkit) Run(activate func()) int {
	f.mu.Lock()
	f.runs++
	f.mu.Unlock()

	activate()
	for {
		select {
		case <-f.quit:
			return f.status
		case fn := <-f.queue:
			fn()
		}
	}
}

func (f *fakeToolkit) Quit() {
	select {
	case f.quit <- struct{}{}:
	default:
	}
}

func (f *fakeToolkit) Schedule(d time.Duration, fn func()) {
	f.mu.Lock()
	f.scheduled = append(f.scheduled, d)
	f.mu.Unlock()
	if f.fireSchedules {
		f.queue <- fn
	}
}

func (f *fakeToolkit) Invoke(fn func()) {
	f.queue <- fn
}

func (f *fakeToolkit) Scheduled() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Duration(nil), f.scheduled...)
}

func (f *fakeToolkit) Inits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inits
}

func (f *fakeToolkit) Runs() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs
}

// closeImmediately is a presenter that ends the session as soon as it starts.
var closeImmediately = PresenterFunc(func(c *Controller) error {
	c.Close()
	return nil
})
