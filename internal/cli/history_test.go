package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordRun checks the scenario at path into db and returns the run id.
func recordRun(t *testing.T, db, path string) string {
	t.Helper()
	out, _, err := runCLI(t, "--format", "json", "check", path, "--db", db)
	require.NoError(t, err)

	var result CheckResult
	decodeResponse(t, out, &result)
	require.Len(t, result.Scenarios, 1)
	require.NotEmpty(t, result.Scenarios[0].RunID)
	return result.Scenarios[0].RunID
}

func TestHistory_ListsRuns(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "runs.db")
	path := writeScenario(t, dir, "passing.yaml", passingScenario)

	first := recordRun(t, db, path)
	second := recordRun(t, db, path)

	out, _, err := runCLI(t, "history", "--db", db)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], second, "newest first")
	assert.Contains(t, lines[1], first)
	assert.Contains(t, lines[0], "definitely-true after 2 steps")

	out, _, err = runCLI(t, "--format", "json", "history", "--db", db, "--limit", "1")
	require.NoError(t, err)
	var runs []RunSummary
	decodeResponse(t, out, &runs)
	require.Len(t, runs, 1)
	assert.Equal(t, second, runs[0].ID)
	assert.Equal(t, int64(2), runs[0].Seq)
	assert.Equal(t, "eventually[1](at_two)", runs[0].Formula)
}

func TestHistory_FilterByScenario(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "runs.db")
	recordRun(t, db, writeScenario(t, dir, "passing.yaml", passingScenario))

	out, _, err := runCLI(t, "history", "--db", db, "--scenario", "other")
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")
}

func TestHistory_ShowRun(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "runs.db")
	id := recordRun(t, db, writeScenario(t, dir, "passing.yaml", passingScenario))

	out, _, err := runCLI(t, "--format", "json", "history", "--db", db, "--run", id)
	require.NoError(t, err)

	var detail RunDetail
	decodeResponse(t, out, &detail)
	assert.Equal(t, id, detail.ID)
	assert.Equal(t, "definitely-true", detail.Verdict)
	require.Len(t, detail.StepRecords, 2)
	assert.Equal(t, "probably-true", detail.StepRecords[0].Validity)
	assert.True(t, detail.StepRecords[0].RequiresNext)
	assert.Equal(t, "definitely-true", detail.StepRecords[1].Validity)
	assert.Len(t, detail.StepRecords[1].Snapshot, 64)

	out, _, err = runCLI(t, "history", "--db", db, "--run", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Result:   definitely-true after 2 steps")
	assert.Contains(t, out, "requires next")
}

func TestHistory_Errors(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	_, _, err := runCLI(t, "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")

	_, _, err = runCLI(t, "history", "--db", db, "--run", "nope")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "run not found: nope")
}
