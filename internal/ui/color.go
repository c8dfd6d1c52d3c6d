package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chriserin/outline/internal/ast"
)

var (
	newStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	trkStyle     = lipgloss.NewStyle().Faint(true)
	commentStyle = lipgloss.NewStyle().Faint(true)
	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	keywordStyle = lipgloss.NewStyle().Bold(true)

	statusStyles = map[ast.Status]lipgloss.Style{
		ast.StatusOutline:   lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		ast.StatusPassed:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		ast.StatusFailed:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		ast.StatusSkipped:   lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Faint(true),
		ast.StatusPending:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		ast.StatusUndefined: lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Faint(true),
	}
)

// Colors decides whether output is styled. Tests leave it off.
var Colors = false

func render(style lipgloss.Style, s string) string {
	if !Colors {
		return s
	}
	return style.Render(s)
}

// StatusText renders s in the colour of status.
func StatusText(status ast.Status, s string) string {
	return render(statusStyles[status], s)
}

func NewLine(w io.Writer, path string) {
	fmt.Fprintln(w, render(newStyle, "new")+"  "+path)
}

func TrkLine(w io.Writer, path string) {
	fmt.Fprintln(w, render(trkStyle, "trk")+"  "+path)
}

func ParseErrorLine(w io.Writer, path string, line int, msg string) {
	fmt.Fprintf(w, "%s  %s:%d: %s\n", StatusText(ast.StatusFailed, "err"), path, line, msg)
}

func SummaryLine(w io.Writer, files, outlines int) {
	fmt.Fprintf(w, "synced %d files, %d outlines\n", files, outlines)
}

// ListRow prints one outline of the list command with padded columns.
func ListRow(w io.Writer, file, name string, line, examples, rows int, fileWidth, nameWidth int) {
	loc := fmt.Sprintf("%s:%d", file, line)
	fmt.Fprintf(w, "%-*s  %-*s  %d examples, %d rows\n", fileWidth, loc, nameWidth, name, examples, rows)
}

// RowLine prints the outcome of one examples row as it completes.
func RowLine(w io.Writer, location string, status ast.Status, values []string) {
	fmt.Fprintf(w, "%s  %s  | %s |\n", StatusText(status, fmt.Sprintf("%-9s", status)), location, strings.Join(values, " | "))
}

// CellLine prints one attributed cell of a stored run.
func CellLine(w io.Writer, location, column, value string, status ast.Status) {
	fmt.Fprintf(w, "  %s  %s=%s  %s\n", location, column, value, StatusText(status, status.String()))
}

// StepFailure prints the error of a failed step, indented under its row.
func StepFailure(w io.Writer, text string, err error) {
	fmt.Fprintf(w, "    %s %s\n      %s\n", StatusText(ast.StatusFailed, "✗"), text, err)
}

// RunSummary prints "3 rows (1 failed, 2 passed)".
func RunSummary(w io.Writer, runID string, rows int, counts []StatusCount) {
	fmt.Fprintf(w, "%d rows", rows)
	if len(counts) > 0 {
		fmt.Fprint(w, " (")
		for i, c := range counts {
			if i > 0 {
				fmt.Fprint(w, ", ")
			}
			fmt.Fprint(w, StatusText(c.Status, fmt.Sprintf("%d %s", c.Count, c.Status)))
		}
		fmt.Fprint(w, ")")
	}
	fmt.Fprintf(w, "\nrun %s\n", runID)
}

// StatusCount pairs a status with how often it occurred.
type StatusCount struct {
	Status ast.Status
	Count  int
}
