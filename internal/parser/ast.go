package parser

// Layer 1: syntax tree as it appears in the .feature file

type Document struct {
	Feature *Feature
}

type Feature struct {
	Header     FeatureHeader
	Background *Background
	Scenarios  []ScenarioDefinition
}

type FeatureHeader struct {
	Tags        []Tag
	Keyword     string
	Name        string
	Description string
	Line        int
}

type Background struct {
	Line  int
	Steps []Step
}

type ScenarioDefinition struct {
	Tags     []Tag
	Comments []string
	Keyword  string // Scenario, Example, Scenario Outline, Scenario Template
	Scenario Scenario
	Examples []ExamplesBlock
	Line     int // 1-based line number of the keyword line
}

// IsOutline reports whether the definition is a Scenario Outline.
func (sd ScenarioDefinition) IsOutline() bool {
	return sd.Keyword == "Scenario Outline" || sd.Keyword == "Scenario Template"
}

type Scenario struct {
	Name        string
	Description string
	Steps       []Step
}

type Tag struct {
	Name string // e.g. "@smoke", "@wip"
}

type Step struct {
	Keyword  string // Given, When, Then, And, But, *
	Text     string
	Line     int
	Argument *StepArgument
}

type StepArgument struct {
	DocString *DocString
	DataTable *DataTable
}

type DocString struct {
	MediaType string
	Content   string
}

type DataTable struct {
	Rows []TableRow
}

type TableRow struct {
	Line  int
	Cells []string
}

type ExamplesBlock struct {
	Tags    []Tag
	Keyword string // Examples, Scenarios
	Name    string
	Line    int
	Table   *DataTable
}

type ParseError struct {
	Line    int
	Message string
}
