package app

import "time"

// Toolkit is the GUI event loop. Every callback passed to it runs on the
// loop goroutine.
type Toolkit interface {
	// Init prepares the toolkit and reports whether a display is usable.
	Init() error
	// Run blocks in the event loop. activate is called once the loop is up.
	// It returns a non-zero status when the toolkit itself failed.
	Run(activate func()) int
	// Quit asks the running loop to return.
	Quit()
	// Schedule runs fn once on the loop after d.
	Schedule(d time.Duration, fn func())
	// Invoke runs fn on the loop as soon as possible. Safe from any goroutine.
	Invoke(fn func())
}

// Presenter builds the user interface for a running controller.
type Presenter interface {
	Present(c *Controller) error
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(c *Controller) error

func (f PresenterFunc) Present(c *Controller) error { return f(c) }
