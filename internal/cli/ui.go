package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

var (
	styleProgress = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
	styleDim      = lipgloss.NewStyle().Foreground(colorDim)
	styleSuccess  = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning  = lipgloss.NewStyle().Foreground(colorYellow)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
)

// printRunning announces one cargo invocation:
//
//	info: running `cargo check --features a` on foo v0.1.0 (3/12)
func printRunning(w io.Writer, cmd, pkg string, n, total int) {
	fmt.Fprintf(w, "%s running %s on %s %s\n",
		styleProgress.Render("info:"),
		styleCommand.Render("`"+cmd+"`"),
		pkg,
		styleDim.Render(fmt.Sprintf("(%d/%d)", n, total)))
}

// printSkipped reports packages left out of the run.
func printSkipped(w io.Writer, reason string, pkgs []string) {
	if len(pkgs) == 0 {
		return
	}
	fmt.Fprintf(w, "%s skipped running on %s: %s\n",
		styleWarning.Render(iconWarning), reason, strings.Join(pkgs, ", "))
}

// printWarning prints a warning that does not stop the run.
func printWarning(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s %s\n", styleWarning.Render("warning:"), msg)
}

// printSummary prints the final line of a successful run.
func printSummary(w io.Writer, runs, pkgs int) {
	fmt.Fprintf(w, "%s %s\n",
		styleSuccess.Render(iconSuccess),
		styleDim.Render(fmt.Sprintf("%d invocation%s on %d package%s", runs, plural(runs), pkgs, plural(pkgs))))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
