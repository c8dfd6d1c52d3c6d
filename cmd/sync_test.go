package cmd

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/outline/internal/db"
)

const cukesFeature = `Feature: Eating

  # greedy
  @food
  Scenario Outline: eating
    Given I have <start> cukes
    When I eat <eat>
    Then I should have <left> cukes

    Examples: few
      | start | eat | left |
      | 12    | 5   | 7    |
      | 20    | 5   | 14   |
`

const loginFeature = `Feature: Login
  Scenario Outline: logging in
    Given a user named <name>
    Then the greeting is <greeting>

    Examples:
      | name | greeting |
      | ann  | hi ann   |

  Scenario Outline: logging out
    Given a user named <name>

    Examples:
      | name |
      | bob  |
`

func runSync(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunSync(&buf))
	return buf.String()
}

func openTestDB(t *testing.T) *db.Store {
	t.Helper()
	sqlDB, err := db.Open("features/outline.db")
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db.NewStore(sqlDB)
}

func writeFeature(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile("features/"+name, []byte(content), 0o644))
}

func TestSync_RegisterNewFile(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "cukes.feature", cukesFeature)

	out := runSync(t)

	sqlDB, err := db.Open("features/outline.db")
	require.NoError(t, err)
	defer sqlDB.Close()

	var filePath string
	require.NoError(t, sqlDB.QueryRow(`SELECT file_path FROM files WHERE file_path = ?`, "features/cukes.feature").Scan(&filePath))
	assert.Equal(t, "features/cukes.feature", filePath)
	assert.Contains(t, out, "new  features/cukes.feature")
}

func TestSync_RegisterMultipleFiles(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "cukes.feature", cukesFeature)
	writeFeature(t, "login.feature", loginFeature)

	out := runSync(t)

	sqlDB, err := db.Open("features/outline.db")
	require.NoError(t, err)
	defer sqlDB.Close()

	var count int
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM files`).Scan(&count))
	assert.Equal(t, 2, count)
	assert.Contains(t, out, "new  features/cukes.feature")
	assert.Contains(t, out, "new  features/login.feature")
}

func TestSync_RegistersOutlines(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "login.feature", loginFeature)

	out := runSync(t)

	sqlDB, err := db.Open("features/outline.db")
	require.NoError(t, err)
	defer sqlDB.Close()

	rows, err := sqlDB.Query(`SELECT name, line FROM outlines ORDER BY line`)
	require.NoError(t, err)
	defer rows.Close()

	var got []string
	var lines []int
	for rows.Next() {
		var name string
		var line int
		require.NoError(t, rows.Scan(&name, &line))
		got = append(got, name)
		lines = append(lines, line)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"logging in", "logging out"}, got)
	assert.Equal(t, []int{2, 10}, lines)
	assert.Contains(t, out, "synced 1 files, 2 outlines")
}

func TestSync_ShowAlreadyTrackedFile(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "cukes.feature", cukesFeature)

	runSync(t) // first sync registers

	out := runSync(t) // second sync shows tracked

	assert.Contains(t, out, "trk  features/cukes.feature")
}

func TestSync_NoFeatureFiles(t *testing.T) {
	inTempDir(t)
	runInit(t)

	out := runSync(t)

	assert.Contains(t, out, "synced 0 files, 0 outlines")
}

func TestSync_NonFeatureFilesIgnored(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "notes.txt", "")
	writeFeature(t, "cukes.feature", cukesFeature)

	out := runSync(t)

	assert.NotContains(t, out, "notes.txt")
	assert.Contains(t, out, "synced 1 files")
}

func TestSync_IsIdempotent(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "cukes.feature", cukesFeature)

	runSync(t)
	out := runSync(t)

	sqlDB, err := db.Open("features/outline.db")
	require.NoError(t, err)
	defer sqlDB.Close()

	var files, outlines int
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM files`).Scan(&files))
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM outlines`).Scan(&outlines))
	assert.Equal(t, 1, files)
	assert.Equal(t, 1, outlines)
	assert.Contains(t, out, "trk  features/cukes.feature")
}

func TestSync_MovedOutlineUpdatesLine(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "cukes.feature", cukesFeature)
	runSync(t)

	writeFeature(t, "cukes.feature", "\n\n"+cukesFeature)
	runSync(t)

	sqlDB, err := db.Open("features/outline.db")
	require.NoError(t, err)
	defer sqlDB.Close()

	var line int
	require.NoError(t, sqlDB.QueryRow(`SELECT line FROM outlines WHERE name = 'eating'`).Scan(&line))
	assert.Equal(t, 7, line)
}

func TestSync_ReportsMalformedTable(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "broken.feature", `Feature: Broken
  Scenario Outline: ragged
    Given <a>

    Examples:
      | a | b |
      | 1 |
`)

	out := runSync(t)

	assert.Contains(t, out, "err  features/broken.feature:")
	assert.Contains(t, out, "malformed examples table")
	assert.Contains(t, out, "synced 1 files, 0 outlines")
}

func TestSync_WithoutInit(t *testing.T) {
	inTempDir(t)

	var buf bytes.Buffer
	err := RunSync(&buf)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "run `outline init` first")
}
