package report

import (
	"bytes"
	"testing"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batocera-linux/controlcenter/internal/menu"
)

func formatToReport(t *testing.T, path, xml string) *sarif.Report {
	t.Helper()
	doc, err := menu.ParseString(xml)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewSARIFFormatter(&buf, "1.2.3").Format(path, menu.Validate(doc)))

	report, err := sarif.FromBytes(buf.Bytes())
	require.NoError(t, err)
	return report
}

func TestSARIFFormatter_Findings(t *testing.T) {
	report := formatToReport(t, "/usr/share/batocera/controlcenter/controlcenter.xml", `<features>
<button display="Off"/>
<button display="Net" action="goto:net"/>
<text display="x" colour="red"/>
</features>`)

	require.Len(t, report.Runs, 1)
	run := report.Runs[0]
	assert.Equal(t, "controlcenter", *run.Tool.Driver.Name)
	assert.Equal(t, "1.2.3", *run.Tool.Driver.Version)

	require.Len(t, run.Results, 3)
	assert.Equal(t, "missing-attribute", *run.Results[0].RuleID)
	assert.Equal(t, "error", run.Results[0].Level)
	assert.Equal(t, 2, *run.Results[0].Locations[0].PhysicalLocation.Region.StartLine)

	assert.Equal(t, "unknown-attribute", *run.Results[1].RuleID)
	assert.Equal(t, "warning", run.Results[1].Level)

	assert.Equal(t, "undefined-reference", *run.Results[2].RuleID)
	assert.Contains(t, *run.Results[2].Message.Text, `undefined id "net"`)

	assert.Len(t, run.Tool.Driver.Rules, 3)
}

func TestSARIFFormatter_ValidatesAgainstSchema(t *testing.T) {
	report := formatToReport(t, "menu.xml", `<features><vgroup id="a"/><vgroup id="a"/></features>`)
	require.NoError(t, report.Validate())
}

func TestSARIFFormatter_CleanMenu(t *testing.T) {
	report := formatToReport(t, "menu.xml", `<features><text display="ok"/></features>`)
	require.Len(t, report.Runs, 1)
	assert.Empty(t, report.Runs[0].Results)
}

func TestSARIFFormatter_URI(t *testing.T) {
	f := &SARIFFormatter{cwd: "/home/pi/menus"}
	assert.Equal(t, "controlcenter.xml", f.uri("/home/pi/menus/controlcenter.xml"))
	assert.Equal(t, "file:///usr/share/batocera/controlcenter/controlcenter.xml",
		f.uri("/usr/share/batocera/controlcenter/controlcenter.xml"))
}
