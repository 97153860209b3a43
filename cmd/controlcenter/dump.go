package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/batocera-linux/controlcenter/internal/menu"
)

var dumpOpts struct {
	format string
}

var dumpCmd = &cobra.Command{
	Use:   "dump [xml_path]",
	Short: "Print the parsed menu tree",
	Long: `Print the parsed menu tree as YAML or JSON.

The tree is printed even when validation reports problems, which makes it
useful for finding where an element ended up.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)

	dumpCmd.Flags().StringVarP(&dumpOpts.format, "format", "f", string(menu.FormatYAML),
		"Output format (yaml, json)")
}

func runDump(cmd *cobra.Command, args []string) error {
	path := menuPath(args)
	doc, result, err := loadForCommand(path)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		logger.Warn("validation error", "error", msg)
	}

	data, err := menu.Marshal(doc, menu.Format(dumpOpts.format))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
