package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runList(t *testing.T, tag string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunList(&buf, tag))
	return buf.String()
}

func TestList_SingleOutline(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "cukes.feature", cukesFeature)

	out := runList(t, "")

	assert.Equal(t, "features/cukes.feature:5  eating  1 examples, 2 rows\n", out)
}

func TestList_MultipleOutlinesPadded(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "cukes.feature", cukesFeature)
	writeFeature(t, "login.feature", loginFeature)

	out := runList(t, "")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "features/cukes.feature:5   eating       1 examples, 2 rows", lines[0])
	assert.Equal(t, "features/login.feature:2   logging in   1 examples, 1 rows", lines[1])
	assert.Equal(t, "features/login.feature:10  logging out  1 examples, 1 rows", lines[2])
}

func TestList_PlainScenariosNotListed(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "plain.feature", `Feature: Plain
  Scenario: User logs in
    Given a user
`)

	assert.Empty(t, runList(t, ""))
}

func TestList_FilterByTag(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "cukes.feature", cukesFeature)
	writeFeature(t, "login.feature", loginFeature)

	out := runList(t, "food")
	assert.Contains(t, out, "eating")
	assert.NotContains(t, out, "logging")

	assert.Equal(t, out, runList(t, "@food"))
	assert.Empty(t, runList(t, "@nothing"))
}

func TestList_ReportsParseErrors(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "broken.feature", `Feature: Broken
  Scenario Outline: no examples
    Given <a>
`)

	out := runList(t, "")

	assert.Contains(t, out, "err  features/broken.feature:")
	assert.Contains(t, out, "Scenario Outline has no Examples")
}

func TestList_NoFeatureFiles(t *testing.T) {
	inTempDir(t)
	runInit(t)

	assert.Empty(t, runList(t, ""))
}
