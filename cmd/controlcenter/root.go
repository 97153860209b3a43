package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"regexp"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/batocera-linux/controlcenter/internal/action"
	"github.com/batocera-linux/controlcenter/internal/app"
	"github.com/batocera-linux/controlcenter/internal/audio"
	"github.com/batocera-linux/controlcenter/internal/config"
	"github.com/batocera-linux/controlcenter/internal/display"
	"github.com/batocera-linux/controlcenter/internal/i18n"
	"github.com/batocera-linux/controlcenter/internal/resolve"
	"github.com/batocera-linux/controlcenter/internal/view"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	settings   *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
		searchDirs []string
	}
	logger   *slog.Logger
	logLevel = new(slog.LevelVar)
	resolver *resolve.Resolver
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "controlcenter [xml_path] [css_path] [auto_close_seconds]",
	Short: "Batocera control center",
	Long: `controlcenter shows a quick-access menu described by an XML file.

The menu and its stylesheet are looked up in /userdata/system/configs/controlcenter,
then /usr/share/batocera/controlcenter, then next to the binary, unless given
as arguments. A positive auto_close_seconds closes the window after that
many seconds.

Running controlcenter without a subcommand opens the graphical menu.`,
	Version:           fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	Args:              cobra.MaximumNArgs(3),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runGUI,
}

// Execute runs the root command with args.
func Execute(args []string) error {
	rootCmd.SetArgs(normalizeArgs(args))
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to settings file (default: resolved controlcenter.toml)")
	rootCmd.PersistentFlags().StringArrayVar(&globalOpts.searchDirs, "search-dir", nil,
		"Extra directory searched before the default locations (repeatable)")
}

var negativeNumber = regexp.MustCompile(`^-[0-9]+$`)

// normalizeArgs keeps a negative auto-close value positional so that it
// reaches the argument parser instead of failing as an unknown flag.
func normalizeArgs(args []string) []string {
	for i, arg := range args {
		if arg == "--" {
			return args
		}
		if negativeNumber.MatchString(arg) {
			out := make([]string, 0, len(args)+1)
			out = append(out, args[:i]...)
			out = append(out, "--")
			return append(out, args[i:]...)
		}
	}
	return args
}

// setup configures logging, the resolver and the settings.
func setup(cmd *cobra.Command, args []string) error {
	setupLogger()
	resolver = resolve.Default(globalOpts.searchDirs...)

	path := globalOpts.configPath
	if path == "" {
		path = resolver.Resolve(resolve.SettingsFile, "")
	}

	var err error
	settings, err = config.Load(path)
	if err != nil {
		return &app.ExitError{Code: app.ExitEnvironment, Err: fmt.Errorf("failed to load settings: %w", err)}
	}
	if path != "" {
		logger.Debug("loaded settings", "path", path)
	}

	if !globalOpts.verbose {
		level, err := config.ParseLevel(settings.Log.Level)
		if err != nil {
			logger.Warn("invalid log level, keeping default", "level", settings.Log.Level)
		} else {
			logLevel.Set(level)
		}
	}
	return nil
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}
	logLevel.Set(level)

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// newTranslator picks the UI language from settings or the environment.
func newTranslator() *i18n.Translator {
	lang := settings.Locale.Language
	if lang == "" {
		lang = i18n.DetectLanguage(os.Getenv)
	}
	tr, err := i18n.New(lang)
	if err != nil {
		logger.Warn("failed to load translations, using English", "language", lang, "error", err)
		return i18n.MustNew("")
	}
	return tr
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runGUI(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	tk := display.NewToolkit(logger)
	presenter := display.NewPresenter(ctx, tk, display.PresenterOptions{
		Runner:     action.NewRunner(settings.Actions, nil, logger),
		Translator: newTranslator(),
		Feedback:   audio.NewFeedback(settings, logger),
		History:    view.NewHistory(),
		Logger:     logger,
	})
	defer presenter.Close()

	return app.Start(ctx, app.Options{
		Args:       args,
		SearchDirs: globalOpts.searchDirs,
		Settings:   settings,
		Toolkit:    tk,
		Presenter:  presenter,
		Stderr:     cmd.ErrOrStderr(),
		Logger:     logger,
	})
}

// menuPath returns the menu file named in args or the resolved default.
func menuPath(args []string) string {
	var parsed app.Args
	if len(args) > 0 {
		parsed.XMLPath = args[0]
	}
	return app.ResolveRuntime(parsed, resolver, resolve.ExecutableDir()).XMLPath
}

