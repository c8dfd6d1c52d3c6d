package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chriserin/outline/internal/ast"
)

// ErrPrintOnly is returned when a Printer is asked to execute a row.
var ErrPrintOnly = errors.New("printer cannot execute rows")

// Printer renders outlines as Gherkin. It implements ast.Visitor for
// traversal only.
type Printer struct {
	w io.Writer
	// CellStatus, when set, colours each examples cell with the status
	// it was attributed in a run.
	CellStatus func(ast.Cell) (ast.Status, bool)
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) VisitComment(c ast.Comment) error {
	if c.Empty() {
		return nil
	}
	for _, line := range c.Lines {
		fmt.Fprintln(p.w, "  "+render(commentStyle, "# "+line))
	}
	return nil
}

func (p *Printer) VisitTags(t ast.Tags) error {
	if len(t.Names) == 0 {
		return nil
	}
	fmt.Fprintln(p.w, "  "+render(tagStyle, strings.Join(t.Names, " ")))
	return nil
}

func (p *Printer) VisitScenarioName(keyword, name, location string, indent int) error {
	fmt.Fprintf(p.w, "  %s %s%s %s\n",
		render(keywordStyle, keyword+":"), name, strings.Repeat(" ", indent), render(commentStyle, "# "+location))
	return nil
}

func (p *Printer) VisitStep(s *ast.Step) error {
	text := s.Name
	for _, ph := range s.Placeholders() {
		text = strings.ReplaceAll(text, "<"+ph+">", StatusText(ast.StatusOutline, "<"+ph+">"))
	}
	fmt.Fprintf(p.w, "    %s %s\n", render(keywordStyle, s.Keyword), text)
	return nil
}

func (p *Printer) VisitExamples(e *ast.Examples) error {
	title := e.Keyword + ":"
	if e.Name != "" {
		title += " " + e.Name
	}
	fmt.Fprintf(p.w, "\n    %s\n", render(keywordStyle, title))

	widths := make([]int, len(e.Table.Header()))
	for _, r := range e.Table.Raw() {
		for i, v := range r {
			if n := lipgloss.Width(v); n > widths[i] {
				widths[i] = n
			}
		}
	}

	p.tableLine(e.Table.Header(), widths, func(int) (ast.Status, bool) { return 0, false })
	for _, row := range e.Table.Rows() {
		p.tableLine(row.Values(), widths, func(i int) (ast.Status, bool) {
			if p.CellStatus == nil {
				return 0, false
			}
			return p.CellStatus(row.Cells[i])
		})
	}
	return nil
}

func (p *Printer) tableLine(values []string, widths []int, status func(int) (ast.Status, bool)) {
	var b strings.Builder
	b.WriteString("      |")
	for i, v := range values {
		padded := v + strings.Repeat(" ", widths[i]-lipgloss.Width(v))
		if s, ok := status(i); ok {
			padded = StatusText(s, padded)
		}
		b.WriteString(" " + padded + " |")
	}
	fmt.Fprintln(p.w, b.String())
}

func (p *Printer) World(o *ast.ScenarioOutline, fn func(ast.World) error) error {
	return ErrPrintOnly
}

func (p *Printer) StepMother() ast.StepExecutor {
	return nil
}

// PrintFeature prints the feature header and every outline.
func PrintFeature(w io.Writer, f *ast.Feature, p *Printer) error {
	if f.Keyword != "" {
		fmt.Fprintf(w, "%s %s\n", render(keywordStyle, f.Keyword+":"), f.Name)
	}
	for _, o := range f.Outlines {
		fmt.Fprintln(w)
		if err := o.Accept(p); err != nil {
			return err
		}
	}
	return nil
}
