// Package report writes menu validation results for machines, so a menu can
// be linted in CI alongside the rest of a batocera build.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/batocera-linux/controlcenter/internal/menu"
)

// ruleDescriptions are the short descriptions published with each rule.
var ruleDescriptions = map[menu.Rule]string{
	menu.RuleEmptyDocument:      "The document has no root element",
	menu.RuleEmptyRoot:          "The root element has no entries",
	menu.RuleRootElement:        "The root element must be <features>",
	menu.RuleNestedRoot:         "<features> may only be the document root",
	menu.RuleUnknownElement:     "Element is not part of the menu vocabulary",
	menu.RuleDeprecated:         "Element is deprecated",
	menu.RuleLeafChildren:       "Element cannot contain child elements",
	menu.RuleMissingAttribute:   "Required attribute is missing",
	menu.RuleEmptyAttribute:     "Attribute must not be empty",
	menu.RuleUnknownAttribute:   "Attribute is not known for the element",
	menu.RuleDuplicateID:        "Element ids must be unique",
	menu.RuleRefresh:            "refresh must be a positive number of seconds",
	menu.RuleAction:             "Action does not parse",
	menu.RuleUndefinedReference: "goto references an undefined id",
	menu.RuleReferenceNotGroup:  "goto must reference a group",
}

// SARIFFormatter writes validation results as SARIF 2.1.0 JSON.
type SARIFFormatter struct {
	writer  io.Writer
	version string
	cwd     string
}

// NewSARIFFormatter creates a formatter reporting the given tool version.
func NewSARIFFormatter(w io.Writer, version string) *SARIFFormatter {
	cwd, _ := os.Getwd()
	return &SARIFFormatter{writer: w, version: version, cwd: cwd}
}

// Format writes one run covering the menu at path.
func (f *SARIFFormatter) Format(path string, result menu.Result) error {
	report := sarif.NewReport()

	run := sarif.NewRunWithInformationURI("controlcenter", "https://batocera.org")
	run.Tool.Driver.Version = &f.version

	seen := make(map[menu.Rule]bool)
	for _, finding := range result.Findings {
		if !seen[finding.Rule] {
			seen[finding.Rule] = true
			run.Tool.Driver.AddRule(newRule(finding))
		}
		run.AddResult(f.newResult(path, finding))
	}

	report.AddRun(run)
	if err := report.Write(f.writer); err != nil {
		return fmt.Errorf("failed to write SARIF output: %w", err)
	}
	_, err := io.WriteString(f.writer, "\n")
	return err
}

func newRule(finding menu.Finding) *sarif.ReportingDescriptor {
	id := string(finding.Rule)
	desc, ok := ruleDescriptions[finding.Rule]
	if !ok {
		desc = id
	}
	return sarif.NewReportingDescriptor().
		WithID(id).
		WithShortDescription(&sarif.MultiformatMessageString{Text: &desc}).
		WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: level(finding.Severity)})
}

func (f *SARIFFormatter) newResult(path string, finding menu.Finding) *sarif.Result {
	result := sarif.NewRuleResult(string(finding.Rule))
	result.Level = level(finding.Severity)
	result.Message = sarif.NewTextMessage(finding.Message)

	pLoc := sarif.NewPhysicalLocation().
		WithArtifactLocation(sarif.NewArtifactLocation().WithURI(f.uri(path)))
	if finding.Line > 0 {
		pLoc.WithRegion(sarif.NewRegion().WithStartLine(finding.Line))
	}
	result.Locations = []*sarif.Location{sarif.NewLocation().WithPhysicalLocation(pLoc)}
	return result
}

func level(s menu.Severity) string {
	if s == menu.SeverityError {
		return "error"
	}
	return "warning"
}

// uri makes path relative to the working directory when it lies below it,
// else an absolute file URI.
func (f *SARIFFormatter) uri(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	if f.cwd != "" {
		if rel, err := filepath.Rel(f.cwd, abs); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return "file://" + filepath.ToSlash(abs)
}
