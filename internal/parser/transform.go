package parser

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/chriserin/outline/internal/ast"
)

// ParsedFile is the Layer 2 application model extracted from the AST.
type ParsedFile struct {
	Path      string
	Name      string
	Feature   *ast.Feature
	Scenarios []ParsedScenario // plain scenarios, listed but never expanded
	Errors    []ParseError
}

// ParsedScenario represents a plain (non-outline) scenario.
type ParsedScenario struct {
	Name  string
	Tags  []string
	Line  int
	Steps int
}

// Transform converts a Layer 1 Document into a Layer 2 ParsedFile. Outlines
// whose examples tables are malformed are reported as errors and left out.
func Transform(doc *Document, filename string, errs []ParseError) *ParsedFile {
	pf := &ParsedFile{
		Path:   filename,
		Errors: errs,
	}

	if doc.Feature == nil {
		pf.Name = filenameWithoutExt(filename)
		pf.Feature = &ast.Feature{File: filename, Name: pf.Name}
		return pf
	}

	pf.Name = doc.Feature.Header.Name
	pf.Feature = &ast.Feature{
		File:    filename,
		Keyword: doc.Feature.Header.Keyword,
		Name:    doc.Feature.Header.Name,
	}

	for _, sd := range doc.Feature.Scenarios {
		if !sd.IsOutline() {
			pf.Scenarios = append(pf.Scenarios, ParsedScenario{
				Name:  sd.Scenario.Name,
				Tags:  tagNames(sd.Tags),
				Line:  sd.Line,
				Steps: len(sd.Scenario.Steps),
			})
			continue
		}
		if _, err := pf.Feature.AddOutline(outlineParams(sd, filename)); err != nil {
			pf.Errors = append(pf.Errors, tableParseError(sd, err))
		}
	}

	return pf
}

func outlineParams(sd ScenarioDefinition, filename string) ast.OutlineParams {
	p := ast.OutlineParams{
		File:    filename,
		Comment: ast.Comment{Lines: sd.Comments},
		Tags:    ast.NewTags(tagNames(sd.Tags)...),
		Line:    sd.Line,
		Keyword: sd.Keyword,
		Name:    sd.Scenario.Name,
	}
	for _, st := range sd.Scenario.Steps {
		p.Steps = append(p.Steps, &ast.Step{Keyword: st.Keyword, Name: st.Text, Line: st.Line})
	}
	for _, ex := range sd.Examples {
		sec := ast.ExamplesSection{Keyword: ex.Keyword, Name: ex.Name, Line: ex.Line}
		if ex.Table != nil {
			for _, r := range ex.Table.Rows {
				sec.Rows = append(sec.Rows, ast.RawRow{Line: r.Line, Values: r.Cells})
			}
		}
		p.Examples = append(p.Examples, sec)
	}
	return p
}

func tableParseError(sd ScenarioDefinition, err error) ParseError {
	var tableErr *ast.TableError
	if !errors.As(err, &tableErr) {
		return ParseError{Line: sd.Line, Message: err.Error()}
	}
	line := tableErr.Line
	if line == 0 {
		// missing header: point at the Examples line
		line = sd.Line
		for _, ex := range sd.Examples {
			if ex.Table == nil || len(ex.Table.Rows) == 0 {
				line = ex.Line
				break
			}
		}
	}
	return ParseError{Line: line, Message: fmt.Sprintf("%s: %s", ast.ErrMalformedTable, tableErr.Reason)}
}

// ParseFile reads, parses and transforms one file.
func ParseFile(path string) (*ParsedFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, errs := Parse(path, content)
	return Transform(doc, path, errs), nil
}

func tagNames(tags []Tag) []string {
	var names []string
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}

func filenameWithoutExt(filename string) string {
	name := filename
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[:idx]
	}
	return name
}
