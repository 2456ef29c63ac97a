// Package report renders pipeline progress and results on the console.
// It is the only place in the module that knows about colors and tables;
// the pipeline itself talks to the checktypes.Reporter interface.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/input-output-hk/blobcheck/checktypes"
)

// progressLineWidth is how many spaces are printed to wipe the
// carriage-returned progress line before the tables appear.
const progressLineWidth = 50

// Console is a checktypes.Reporter that mirrors the tool's interactive
// output: a rewritten progress line while probes are in flight, a table
// of missing objects, and a final summary block.
type Console struct {
	out io.Writer

	cyan   *color.Color
	green  *color.Color
	red    *color.Color
	yellow *color.Color
	blue   *color.Color
}

// NewConsole creates a console reporter writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{
		out:    out,
		cyan:   color.New(color.FgCyan),
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		blue:   color.New(color.FgBlue),
	}
}

// Start implements checktypes.Reporter.
func (c *Console) Start(container, inputPath string, total int) {
	fmt.Fprintln(c.out, c.cyan.Sprint("Starting Blob Existence Check"))
	fmt.Fprintf(c.out, "%s %s\n", c.green.Sprint("Container:"), container)
	fmt.Fprintf(c.out, "%s %s\n", c.green.Sprint("Input CSV:"), inputPath)
	fmt.Fprintf(c.out, "%s %d\n", c.yellow.Sprint("Total files to check:"), total)
}

// Progress implements checktypes.Reporter. The line is rewritten in
// place with a carriage return.
func (c *Console) Progress(completed, total int) {
	fmt.Fprintf(c.out, "%s %d/%d files\r", c.blue.Sprint("Checking:"), completed, total)
}

// Missing implements checktypes.Reporter. Nothing is printed when every
// object exists.
func (c *Console) Missing(rows []checktypes.Merged) {
	c.clearProgressLine()
	if len(rows) == 0 {
		return
	}

	fmt.Fprintf(c.out, "\n%s\n", c.red.Sprint("Non-Existing Blobs:"))

	table := tablewriter.NewWriter(c.out)
	table.SetHeader([]string{"Filename", "Exists"})
	table.SetBorder(false)
	table.SetHeaderLine(true)
	table.SetColumnSeparator(" ")
	for _, m := range rows {
		table.Append([]string{m.Result.Filename, string(m.Result.Verdict)})
	}
	table.Render()
}

// Summary implements checktypes.Reporter. The errors line only appears
// when at least one probe failed.
func (c *Console) Summary(s checktypes.Summary) {
	fmt.Fprintf(c.out, "\n%s\n", strings.Repeat("=", progressLineWidth))
	fmt.Fprintln(c.out, c.green.Sprint("Check Summary:"))
	fmt.Fprintf(c.out, "Total Files Checked:    %d\n", s.Total)
	fmt.Fprintln(c.out, c.green.Sprintf("Existing Blobs:         %d", s.Existing))
	fmt.Fprintln(c.out, c.red.Sprintf("Non-Existing Blobs:     %d", s.Missing))
	if s.Errors > 0 {
		fmt.Fprintln(c.out, c.yellow.Sprintf("Errors:                 %d", s.Errors))
	}
	fmt.Fprintf(c.out, "\n%s %.2f seconds\n", c.cyan.Sprint("Time Taken:"), s.Elapsed.Seconds())
}

// Exported implements checktypes.Reporter.
func (c *Console) Exported(path string) {
	fmt.Fprintf(c.out, "\n%s %s\n", c.green.Sprint("Results exported to:"), path)
}

func (c *Console) clearProgressLine() {
	fmt.Fprintf(c.out, "%s\r", strings.Repeat(" ", progressLineWidth))
}

// Verify Console satisfies the interface
var _ checktypes.Reporter = (*Console)(nil)
