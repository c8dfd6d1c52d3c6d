package ast

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScenarioOutline_ForcesOutlineStatus(t *testing.T) {
	f := &Feature{File: "cukes.feature"}
	o, err := cukesOutline(f)
	require.NoError(t, err)

	for _, s := range o.Steps {
		assert.Equal(t, StatusOutline, s.Status, s.Name)
	}
}

func TestNewScenarioOutline_BuildsExamplesInOrder(t *testing.T) {
	o, err := NewScenarioOutline(OutlineParams{
		Keyword: "Scenario Outline",
		Name:    "two groups",
		Examples: []ExamplesSection{
			{Keyword: "Examples", Name: "small", Rows: []RawRow{{Values: []string{"n"}}, {Values: []string{"1"}}}},
			{Keyword: "Scenarios", Name: "large", Rows: []RawRow{{Values: []string{"n"}}, {Values: []string{"100"}}, {Values: []string{"200"}}}},
		},
	})
	require.NoError(t, err)

	require.Len(t, o.Examples, 2)
	assert.Equal(t, "small", o.Examples[0].Name)
	assert.Equal(t, "Scenarios", o.Examples[1].Keyword)
	assert.Equal(t, 3, o.RowCount())
}

func TestNewScenarioOutline_MalformedTable(t *testing.T) {
	_, err := NewScenarioOutline(OutlineParams{
		Keyword: "Scenario Outline",
		Examples: []ExamplesSection{{
			Keyword: "Examples",
			Rows: []RawRow{
				{Line: 7, Values: []string{"a", "b"}},
				{Line: 8, Values: []string{"1"}},
			},
		}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedTable)

	var tableErr *TableError
	require.ErrorAs(t, err, &tableErr)
	assert.Equal(t, 8, tableErr.Line)
}

func TestExecuteRow_WorkedExample(t *testing.T) {
	f := &Feature{File: "cukes.feature"}
	o, err := cukesOutline(f)
	require.NoError(t, err)

	exec := &scriptedExecutor{statuses: []Status{StatusPassed, StatusFailed, StatusPassed}}
	v := &recordingVisitor{exec: exec}
	var got []reported

	row := o.Examples[0].Table.Rows()[0]
	status, err := o.ExecuteRow(context.Background(), row, v, collect(&got))
	require.NoError(t, err)

	require.Len(t, exec.calls, 3)
	assert.Equal(t, map[string]string{"start": "12", "eat": "5", "left": "7"}, exec.calls[0].args)
	assert.Equal(t, StatusPassed, exec.calls[0].previous)
	assert.Equal(t, StatusPassed, exec.calls[1].previous)
	assert.Equal(t, StatusFailed, exec.calls[2].previous)
	for _, c := range exec.calls {
		assert.Equal(t, 10, c.line)
	}

	require.Len(t, got, 3)
	assert.Equal(t, "start", got[0].cell.Column)
	assert.Equal(t, "12", got[0].cell.Value)
	assert.Equal(t, StatusPassed, got[0].status)
	assert.Equal(t, "eat", got[1].cell.Column)
	assert.Equal(t, StatusFailed, got[1].status)
	assert.Equal(t, "left", got[2].cell.Column)
	assert.Equal(t, StatusSkipped, got[2].status)

	assert.Equal(t, StatusSkipped, status)
}

func TestExecuteRow_NeverShortCircuits(t *testing.T) {
	f := &Feature{}
	o, err := cukesOutline(f)
	require.NoError(t, err)

	exec := &scriptedExecutor{statuses: []Status{StatusUndefined, StatusPassed, StatusPassed}}
	v := &recordingVisitor{exec: exec}

	status, err := o.ExecuteRow(context.Background(), o.Examples[0].Table.Rows()[0], v, nil)
	require.NoError(t, err)

	assert.Len(t, exec.calls, 3)
	assert.Equal(t, StatusSkipped, status)
}

func TestExecuteRow_RowIsolation(t *testing.T) {
	f := &Feature{}
	o, err := cukesOutline(f)
	require.NoError(t, err)

	exec := &scriptedExecutor{}
	v := &recordingVisitor{exec: exec}

	for _, row := range o.Examples[0].Table.Rows() {
		_, err := o.ExecuteRow(context.Background(), row, v, nil)
		require.NoError(t, err)
	}

	require.Len(t, v.worlds, 2)
	assert.NotSame(t, v.worlds[0], v.worlds[1])
	assert.True(t, v.worlds[0].released)
	assert.True(t, v.worlds[1].released)
	assert.Equal(t, map[string]string{"start": "20", "eat": "5", "left": "15"}, v.worlds[1].seen)
	for _, c := range exec.calls[3:] {
		assert.Equal(t, "w1", c.world)
		assert.Equal(t, "20", c.args["start"])
	}
}

func fourColumnOutline(t *testing.T, steps int) *ScenarioOutline {
	t.Helper()
	var ss []*Step
	for i := 0; i < steps; i++ {
		ss = append(ss, &Step{Keyword: "Given", Name: "step"})
	}
	o, err := NewScenarioOutline(OutlineParams{
		Keyword: "Scenario Outline",
		Steps:   ss,
		Examples: []ExamplesSection{{
			Keyword: "Examples",
			Rows: []RawRow{
				{Line: 1, Values: []string{"a", "b", "c", "d"}},
				{Line: 2, Values: []string{"1", "2", "3", "4"}},
			},
		}},
	})
	require.NoError(t, err)
	return o
}

func TestExecuteRow_AttributionIsMonotonic(t *testing.T) {
	for _, tc := range []struct {
		name    string
		matched [][]string
		want    []string
	}{
		{"ExactFit", [][]string{{"1", "2"}, {}, {"4"}}, []string{"1", "2", "3", "4"}},
		{"Prefix", [][]string{{"1"}, {}}, []string{"1", "2"}},
		{"EmptyMatchesCountOnce", [][]string{{}, {}, {}}, []string{"1", "2", "3"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			o := fourColumnOutline(t, len(tc.matched))
			v := &recordingVisitor{exec: &scriptedExecutor{matched: tc.matched}}
			var got []reported

			_, err := o.ExecuteRow(context.Background(), o.Examples[0].Table.Rows()[0], v, collect(&got))
			require.NoError(t, err)

			var values []string
			for _, r := range got {
				values = append(values, r.cell.Value)
			}
			assert.Equal(t, tc.want, values)
		})
	}
}

func TestExecuteRow_NoOverReport(t *testing.T) {
	o := fourColumnOutline(t, 2)
	var overflowStep *Step
	var dropped int
	o.SetOverflowHandler(func(s *Step, n int) {
		overflowStep = s
		dropped = n
	})
	v := &recordingVisitor{exec: &scriptedExecutor{matched: [][]string{{"1", "2", "3"}, {"4", "5", "6"}}}}
	var got []reported

	_, err := o.ExecuteRow(context.Background(), o.Examples[0].Table.Rows()[0], v, collect(&got))
	require.NoError(t, err)

	require.Len(t, got, 4)
	for i, r := range got {
		assert.Equal(t, o.Examples[0].Table.Rows()[0].Cells[i], r.cell)
	}
	assert.Same(t, o.Steps[1], overflowStep)
	assert.Equal(t, 2, dropped)
}

func TestExecuteRow_ExecutorErrorReleasesWorld(t *testing.T) {
	f := &Feature{}
	o, err := cukesOutline(f)
	require.NoError(t, err)

	boom := errors.New("boom")
	v := &recordingVisitor{exec: &scriptedExecutor{failAt: 2, failErr: boom}}
	var got []reported

	_, err = o.ExecuteRow(context.Background(), o.Examples[0].Table.Rows()[0], v, collect(&got))
	assert.ErrorIs(t, err, boom)

	require.Len(t, v.worlds, 1)
	assert.True(t, v.worlds[0].released)
	assert.Len(t, got, 1)
	assert.Empty(t, f.Executed())
}

func TestExecuteRow_PanicReleasesWorld(t *testing.T) {
	f := &Feature{}
	o, err := cukesOutline(f)
	require.NoError(t, err)

	v := &recordingVisitor{exec: &scriptedExecutor{panicAt: 1}}

	assert.Panics(t, func() {
		_, _ = o.ExecuteRow(context.Background(), o.Examples[0].Table.Rows()[0], v, nil)
	})
	require.Len(t, v.worlds, 1)
	assert.True(t, v.worlds[0].released)
}

func TestExecuteRow_NotifiesFeature(t *testing.T) {
	f := &Feature{}
	o, err := cukesOutline(f)
	require.NoError(t, err)

	var notified []*ScenarioOutline
	f.OnExecuted = func(o *ScenarioOutline) { notified = append(notified, o) }
	v := &recordingVisitor{exec: &scriptedExecutor{}}

	for _, row := range o.Examples[0].Table.Rows() {
		_, err := o.ExecuteRow(context.Background(), row, v, nil)
		require.NoError(t, err)
	}

	assert.Equal(t, []int{0, 0}, f.Executed())
	assert.Len(t, notified, 2)
}

func TestPending_AlwaysFalse(t *testing.T) {
	o, err := NewScenarioOutline(OutlineParams{
		Keyword: "Scenario Outline",
		Steps:   []*Step{{Keyword: "Given", Name: "an unimplemented <thing>", Status: StatusPending}},
	})
	require.NoError(t, err)
	assert.False(t, o.Pending())
}

func TestAccept_Order(t *testing.T) {
	f := &Feature{File: "cukes.feature"}
	o, err := cukesOutline(f)
	require.NoError(t, err)
	o.Comment = Comment{Lines: []string{"hungry"}}
	o.Tags = NewTags("@wip")
	v := &recordingVisitor{}

	require.NoError(t, o.Accept(v))

	assert.Equal(t, []string{
		"comment:hungry",
		"tags:@wip",
		"name:Scenario Outline:eating:cukes.feature:3",
		"step:I have <start> cukes",
		"step:I eat <eat>",
		"step:I should have <left> cukes",
		"examples:",
	}, v.calls)
}

func TestAccept_Idempotent(t *testing.T) {
	f := &Feature{File: "cukes.feature"}
	o, err := cukesOutline(f)
	require.NoError(t, err)

	first := &recordingVisitor{}
	second := &recordingVisitor{}
	require.NoError(t, o.Accept(first))
	require.NoError(t, o.Accept(second))

	assert.Equal(t, first.calls, second.calls)
}

func TestAccept_VisitorErrorPropagates(t *testing.T) {
	f := &Feature{}
	o, err := cukesOutline(f)
	require.NoError(t, err)

	stop := errors.New("stop")
	v := &recordingVisitor{failOn: "step:I eat", err: stop}

	err = o.Accept(v)
	assert.Same(t, stop, err)
	assert.Equal(t, "step:I eat <eat>", v.calls[len(v.calls)-1])
}
