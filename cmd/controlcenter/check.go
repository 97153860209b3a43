package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/batocera-linux/controlcenter/internal/app"
	"github.com/batocera-linux/controlcenter/internal/menu"
	"github.com/batocera-linux/controlcenter/internal/report"
)

var checkOpts struct {
	format string
}

var checkCmd = &cobra.Command{
	Use:   "check [xml_path]",
	Short: "Validate a menu file",
	Long: `Parse and validate a menu file without opening a window.

Warnings are reported but do not fail the check. Exits with status 2 when
the file cannot be parsed or has errors.

With --format sarif the findings are written as SARIF 2.1.0 for code
scanning tools.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkOpts.format, "format", "f", "text",
		"Output format (text, sarif)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := menuPath(args)
	doc, result, err := loadForCommand(path)
	if err != nil {
		return err
	}

	switch checkOpts.format {
	case "text", "":
		renderReport(cmd.OutOrStdout(), path, doc, result)
	case "sarif":
		if err := report.NewSARIFFormatter(cmd.OutOrStdout(), version).Format(path, result); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q, must be text or sarif", checkOpts.format)
	}

	if !result.OK() {
		return &app.ExitError{Code: app.ExitInvalidMenu, Err: fmt.Errorf("%d error(s) in %s", len(result.Errors), path)}
	}
	return nil
}

// loadForCommand loads a menu and reports failures the way startup does.
func loadForCommand(path string) (*menu.Document, menu.Result, error) {
	doc, result, err := app.LoadMenu(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintf(rootCmd.ErrOrStderr(), "ERROR: XML file not found: %s\n", path)
		return nil, result, &app.ExitError{Code: app.ExitEnvironment, Err: err}
	case err != nil:
		fmt.Fprintf(rootCmd.ErrOrStderr(), "ERROR: %v\n", err)
		return nil, result, &app.ExitError{Code: app.ExitInvalidMenu, Err: err}
	}
	return doc, result, nil
}

// renderReport prints a styled validation summary.
func renderReport(w io.Writer, path string, doc *menu.Document, result menu.Result) {
	okStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	if result.OK() {
		fmt.Fprintln(w, okStyle.Render("✓ ")+path)
	} else {
		fmt.Fprintln(w, errStyle.Render("✗ ")+path)
	}

	elements, groups := countNodes(doc)
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("  %d elements, %d groups, %d warnings, %d errors",
		elements, groups, len(result.Warnings), len(result.Errors))))

	for _, msg := range result.Errors {
		fmt.Fprintln(w, errStyle.Render("  error   ")+msg)
	}
	for _, msg := range result.Warnings {
		fmt.Fprintln(w, warnStyle.Render("  warning ")+msg)
	}
}

// countNodes counts the elements below the root and how many are groups.
func countNodes(doc *menu.Document) (elements, groups int) {
	if doc == nil || doc.Root == nil {
		return 0, 0
	}
	doc.Root.Walk(func(n *menu.Node) bool {
		if n == doc.Root {
			return true
		}
		elements++
		if n.IsGroup() {
			groups++
		}
		return true
	})
	return elements, groups
}
