package parser

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`@[^@\s]+`)

var (
	outlineKeywords  = []string{"Scenario Outline", "Scenario Template"}
	scenarioKeywords = []string{"Scenario", "Example"}
	examplesKeywords = []string{"Examples", "Scenarios"}
	stepKeywords     = []string{"Given", "When", "Then", "And", "But", "*"}
)

// Parse parses a .feature file and returns a Document AST and any parse errors.
func Parse(filename string, content []byte) (*Document, []ParseError) {
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	lines := strings.Split(text, "\n")

	p := &parseState{
		lines:   lines,
		feature: &Feature{},
	}
	p.run()

	if p.feature.Header.Keyword == "" {
		// No Feature: line, the filename names the feature
		p.feature.Header.Name = filenameWithoutExt(filename)
	}
	p.finishScenario()

	return &Document{Feature: p.feature}, p.errors
}

type parseState struct {
	lines   []string
	feature *Feature
	errors  []ParseError

	pendingTags     []Tag
	pendingComments []string
	descLines       []string

	background *Background
	scenario   *ScenarioDefinition
	examples   *ExamplesBlock
	lastStep   *Step
}

func (p *parseState) errorf(line int, msg string) {
	p.errors = append(p.errors, ParseError{Line: line, Message: msg})
}

func (p *parseState) run() {
	i := 0
	for i < len(p.lines) {
		lineNum := i + 1
		trimmed := strings.TrimSpace(p.lines[i])

		if isDocStringDelimiter(trimmed) {
			i = p.docString(i)
			continue
		}
		i++

		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, "#"):
			p.pendingComments = append(p.pendingComments, strings.TrimSpace(strings.TrimPrefix(trimmed, "#")))
		case isTagLine(trimmed):
			p.pendingTags = append(p.pendingTags, parseTags(trimmed)...)
		case strings.HasPrefix(trimmed, "|"):
			p.tableRow(lineNum, trimmed)
		default:
			p.keywordOrText(lineNum, trimmed)
		}
	}
}

func (p *parseState) keywordOrText(lineNum int, trimmed string) {
	if name, ok := cutKeyword(trimmed, "Feature"); ok {
		if p.feature.Header.Keyword != "" {
			p.errorf(lineNum, "Feature must appear only once")
			return
		}
		p.feature.Header = FeatureHeader{
			Tags:    p.pendingTags,
			Keyword: "Feature",
			Name:    name,
			Line:    lineNum,
		}
		p.pendingTags = nil
		p.pendingComments = nil
		return
	}
	if _, ok := cutKeyword(trimmed, "Background"); ok {
		p.finishScenario()
		p.pendingTags = nil // Background doesn't get tags
		p.background = &Background{Line: lineNum}
		p.feature.Background = p.background
		return
	}
	if _, ok := cutKeyword(trimmed, "Rule"); ok {
		p.errorf(lineNum, "Rule is not supported")
		return
	}
	for _, kw := range outlineKeywords {
		if name, ok := cutKeyword(trimmed, kw); ok {
			p.startScenario(lineNum, kw, name)
			return
		}
	}
	for _, kw := range scenarioKeywords {
		if name, ok := cutKeyword(trimmed, kw); ok {
			p.startScenario(lineNum, kw, name)
			return
		}
	}
	for _, kw := range examplesKeywords {
		if name, ok := cutKeyword(trimmed, kw); ok {
			p.startExamples(lineNum, kw, name)
			return
		}
	}
	if kw, text, ok := parseStepLine(trimmed); ok {
		p.step(lineNum, kw, text)
		return
	}

	// Free text: description of the feature or the current scenario
	switch {
	case p.scenario == nil && p.background == nil:
		p.descLines = append(p.descLines, trimmed)
		p.feature.Header.Description = strings.Join(p.descLines, "\n")
	case p.scenario != nil && len(p.scenario.Scenario.Steps) == 0 && p.examples == nil:
		if p.scenario.Scenario.Description != "" {
			p.scenario.Scenario.Description += "\n"
		}
		p.scenario.Scenario.Description += trimmed
	}
}

func (p *parseState) startScenario(lineNum int, keyword, name string) {
	p.finishScenario()
	p.background = nil
	p.scenario = &ScenarioDefinition{
		Tags:     p.pendingTags,
		Comments: p.pendingComments,
		Keyword:  keyword,
		Scenario: Scenario{Name: name},
		Line:     lineNum,
	}
	p.pendingTags = nil
	p.pendingComments = nil
}

// finishScenario appends the scenario being built, if any.
func (p *parseState) finishScenario() {
	if p.scenario == nil {
		return
	}
	sd := *p.scenario
	if sd.IsOutline() && len(sd.Examples) == 0 {
		p.errorf(sd.Line, "Scenario Outline has no Examples")
	}
	p.feature.Scenarios = append(p.feature.Scenarios, sd)
	p.scenario = nil
	p.examples = nil
	p.lastStep = nil
}

func (p *parseState) startExamples(lineNum int, keyword, name string) {
	if p.scenario == nil || !p.scenario.IsOutline() {
		p.errorf(lineNum, keyword+" outside of a Scenario Outline")
		p.pendingTags = nil
		return
	}
	p.scenario.Examples = append(p.scenario.Examples, ExamplesBlock{
		Tags:    p.pendingTags,
		Keyword: keyword,
		Name:    name,
		Line:    lineNum,
	})
	p.examples = &p.scenario.Examples[len(p.scenario.Examples)-1]
	p.lastStep = nil
	p.pendingTags = nil
	p.pendingComments = nil
}

func (p *parseState) step(lineNum int, keyword, text string) {
	st := Step{Keyword: keyword, Text: text, Line: lineNum}
	p.pendingComments = nil
	switch {
	case p.examples != nil:
		p.errorf(lineNum, "step after Examples")
	case p.scenario != nil:
		p.scenario.Scenario.Steps = append(p.scenario.Scenario.Steps, st)
		p.lastStep = &p.scenario.Scenario.Steps[len(p.scenario.Scenario.Steps)-1]
	case p.background != nil:
		p.background.Steps = append(p.background.Steps, st)
		p.lastStep = &p.background.Steps[len(p.background.Steps)-1]
	default:
		p.errorf(lineNum, "step outside of a scenario")
	}
}

func (p *parseState) tableRow(lineNum int, trimmed string) {
	row := TableRow{Line: lineNum, Cells: parseTableRow(trimmed)}
	p.pendingComments = nil
	switch {
	case p.examples != nil:
		if p.examples.Table == nil {
			p.examples.Table = &DataTable{}
		}
		p.examples.Table.Rows = append(p.examples.Table.Rows, row)
	case p.lastStep != nil:
		if p.lastStep.Argument == nil {
			p.lastStep.Argument = &StepArgument{}
		}
		if p.lastStep.Argument.DataTable == nil {
			p.lastStep.Argument.DataTable = &DataTable{}
		}
		p.lastStep.Argument.DataTable.Rows = append(p.lastStep.Argument.DataTable.Rows, row)
	default:
		p.errorf(lineNum, "table row outside of a step or Examples")
	}
}

// docString consumes a doc string block starting at index i and attaches it
// to the last step. Returns the index of the line after the closing delimiter.
func (p *parseState) docString(i int) int {
	opener := strings.TrimSpace(p.lines[i])
	delimiter := `"""`
	if strings.HasPrefix(opener, "```") {
		delimiter = "```"
	}
	ds := &DocString{MediaType: strings.TrimSpace(strings.TrimPrefix(opener, delimiter))}
	start := i + 1
	j := start
	for j < len(p.lines) && strings.TrimSpace(p.lines[j]) != delimiter {
		j++
	}
	if j == len(p.lines) {
		p.errorf(i+1, "unterminated doc string")
	}
	ds.Content = strings.Join(p.lines[start:j], "\n")
	if p.lastStep != nil {
		if p.lastStep.Argument == nil {
			p.lastStep.Argument = &StepArgument{}
		}
		p.lastStep.Argument.DocString = ds
	}
	if j < len(p.lines) {
		j++ // past the closing delimiter
	}
	return j
}

// cutKeyword matches "Keyword:" at the start of the line and returns the
// trimmed remainder.
func cutKeyword(trimmed, keyword string) (string, bool) {
	rest, ok := strings.CutPrefix(trimmed, keyword+":")
	if !ok {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

func parseStepLine(trimmed string) (keyword, text string, ok bool) {
	for _, kw := range stepKeywords {
		rest, found := strings.CutPrefix(trimmed, kw)
		if !found {
			continue
		}
		if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
			continue
		}
		return kw, strings.TrimSpace(rest), true
	}
	return "", "", false
}

// parseTableRow splits "| a | b\|c |" into cells, honouring \|, \\ and \n.
func parseTableRow(trimmed string) []string {
	body := strings.TrimPrefix(trimmed, "|")
	var cells []string
	var cur strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\' && i+1 < len(body):
			i++
			switch body[i] {
			case '|':
				cur.WriteByte('|')
			case 'n':
				cur.WriteByte('\n')
			case '\\':
				cur.WriteByte('\\')
			default:
				cur.WriteByte('\\')
				cur.WriteByte(body[i])
			}
		case c == '|':
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	// anything after the last pipe is not a cell
	return cells
}

func parseTags(line string) []Tag {
	matches := tagPattern.FindAllString(line, -1)
	var tags []Tag
	for _, m := range matches {
		tags = append(tags, Tag{Name: m})
	}
	return tags
}

func isTagLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "@")
}

func isDocStringDelimiter(trimmed string) bool {
	return strings.HasPrefix(trimmed, `"""`) || strings.HasPrefix(trimmed, "```")
}
