package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/batocera-linux/controlcenter/internal/bootstrap"
	"github.com/batocera-linux/controlcenter/internal/config"
	"github.com/batocera-linux/controlcenter/internal/menu"
	"github.com/batocera-linux/controlcenter/internal/resolve"
)

// Options collects everything Start needs. Zero values fall back to the
// real process environment where that makes sense.
type Options struct {
	Args       []string // positional: [xml_path] [css_path] [auto_close_seconds]
	SearchDirs []string // extra roots searched before the batocera ones
	DefaultDir string   // last-resort directory, normally next to the binary
	Settings   *config.Config

	Toolkit   Toolkit
	Presenter Presenter

	Getenv bootstrap.LookupFunc
	Env    bootstrap.Env
	Stderr io.Writer
	Logger *slog.Logger
}

func (o *Options) defaults() {
	if o.Getenv == nil {
		o.Getenv = os.Getenv
	}
	if o.Env == nil {
		o.Env = bootstrap.OSEnv{}
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Settings == nil {
		o.Settings = config.Default()
	}
	if o.DefaultDir == "" {
		o.DefaultDir = resolve.ExecutableDir()
	}
}

// Start runs the full startup sequence and then the event loop. Failures are
// reported on Stderr and returned as *ExitError.
func Start(ctx context.Context, opts Options) error {
	opts.defaults()
	logger := opts.Logger
	stderr := opts.Stderr

	if !bootstrap.EnsureDisplay(opts.Getenv) {
		_, _ = fmt.Fprintln(stderr, "ERROR: No GUI display detected. Set DISPLAY or WAYLAND_DISPLAY.")
		return exitf(ExitEnvironment, "no display")
	}
	logger.Debug("display detected", "display", bootstrap.DisplayName(opts.Getenv))

	if err := bootstrap.PrepareEnvironment(opts.Env); err != nil {
		logger.Warn("failed to prepare environment", "error", err)
	}

	if !bootstrap.ToolkitInit(opts.Toolkit, logger) {
		_, _ = fmt.Fprintln(stderr, "ERROR: GTK couldn't be initialized.")
		return exitf(ExitEnvironment, "toolkit initialization failed")
	}

	args, warning := ParseArgs(opts.Args)
	if warning != "" {
		_, _ = fmt.Fprintf(stderr, "WARNING: %s\n", warning)
	}

	resolver := resolve.Default(opts.SearchDirs...)
	rt := ResolveRuntime(args, resolver, opts.DefaultDir)
	logger.Debug("resolved paths", "xml", rt.XMLPath, "css", rt.CSSPath, "auto_close", rt.AutoClose)

	if !exists(rt.XMLPath) {
		_, _ = fmt.Fprintf(stderr, "ERROR: XML file not found: %s\n", rt.XMLPath)
		return exitf(ExitEnvironment, "menu not found: %s", rt.XMLPath)
	}
	if !exists(rt.CSSPath) {
		_, _ = fmt.Fprintf(stderr, "WARNING: CSS file not found: %s, running without custom styles.\n", rt.CSSPath)
	}

	doc, result, err := LoadMenu(rt.XMLPath)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return &ExitError{Code: ExitInvalidMenu, Err: err}
	}
	WriteReport(stderr, result)
	if !result.OK() {
		return exitf(ExitInvalidMenu, "menu has %d error(s)", len(result.Errors))
	}

	controller := NewController(doc, rt, opts.Settings, opts.Toolkit, opts.Presenter, logger)
	if err := controller.Run(ctx); err != nil {
		return &ExitError{Code: ExitEnvironment, Err: err}
	}
	return nil
}

// ResolveRuntime fills in the menu and stylesheet paths not given on the
// command line.
func ResolveRuntime(args Args, resolver *resolve.Resolver, defaultDir string) Runtime {
	rt := Runtime{
		XMLPath:   args.XMLPath,
		CSSPath:   args.CSSPath,
		AutoClose: args.AutoClose,
	}
	if rt.XMLPath == "" {
		rt.XMLPath = resolver.Resolve(resolve.MenuFile, filepath.Join(defaultDir, resolve.MenuFile))
	}
	if rt.CSSPath == "" {
		rt.CSSPath = resolver.Resolve(resolve.StylesheetFile, filepath.Join(defaultDir, resolve.StylesheetFile))
	}
	return rt
}

// LoadMenu parses and validates the menu at path. The error is non-nil only
// when the document could not be parsed at all.
func LoadMenu(path string) (*menu.Document, menu.Result, error) {
	doc, err := menu.ParseFile(path)
	if err != nil {
		var pe *menu.ParseError
		if errors.As(err, &pe) {
			return nil, menu.Result{}, fmt.Errorf("failed to parse XML: %w", err)
		}
		return nil, menu.Result{}, err
	}
	return doc, menu.Validate(doc), nil
}

// WriteReport prints warnings and errors in the operator-facing format.
func WriteReport(w io.Writer, result menu.Result) {
	if len(result.Warnings) > 0 {
		_, _ = fmt.Fprintln(w, "XML warnings:")
		for _, msg := range result.Warnings {
			_, _ = fmt.Fprintf(w, " - %s\n", msg)
		}
	}
	if len(result.Errors) > 0 {
		_, _ = fmt.Fprintln(w, "XML errors:")
		for _, msg := range result.Errors {
			_, _ = fmt.Fprintf(w, " - %s\n", msg)
		}
	}
}

func exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
