package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/batocera-linux/controlcenter/internal/action"
	"github.com/batocera-linux/controlcenter/internal/app"
	"github.com/batocera-linux/controlcenter/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse [xml_path]",
	Short: "Browse the menu in the terminal",
	Long: `Browse and run the menu from a terminal, for example over SSH.

The menu is validated first; a menu with errors is refused with status 2.

Key bindings:
  j/k, ↑/↓    Navigate
  enter       Activate button or toggle
  /           Search labels
  r           Refresh dynamic values
  c           Copy entry to clipboard
  C           Copy whole menu as YAML
  ?           Show help
  q           Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	path := menuPath(args)
	doc, result, err := loadForCommand(path)
	if err != nil {
		return err
	}

	app.WriteReport(cmd.ErrOrStderr(), result)
	if !result.OK() {
		return &app.ExitError{Code: app.ExitInvalidMenu, Err: fmt.Errorf("invalid menu %s", path)}
	}

	ctx, stop := signalContext()
	defer stop()

	return tui.Run(ctx, tui.Options{
		Document:     doc,
		Executor:     action.NewRunner(settings.Actions, nil, logger),
		Translator:   newTranslator(),
		ConfirmPower: settings.Actions.ConfirmPower,
	})
}
