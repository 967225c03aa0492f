package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_Passing(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "passing.yaml", passingScenario)

	out, _, err := runCLI(t, "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ passing (definitely-true)")
	assert.Contains(t, out, "Check Summary: 1 passed, 0 failed, 1 total")
	assert.Contains(t, out, "All scenarios passed")
}

func TestCheck_Failing(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "passing.yaml", passingScenario)
	writeScenario(t, dir, "failing.yaml", failingScenario)

	out, _, err := runCLI(t, "check", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ failing")
	assert.Contains(t, out, "verdict: expected probably-false, got definitely-true")
	assert.Contains(t, out, "Check Summary: 1 passed, 1 failed, 2 total")
}

func TestCheck_JSON(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "passing.yaml", passingScenario)
	writeScenario(t, dir, "failing.yaml", failingScenario)

	out, _, err := runCLI(t, "--format", "json", "check", dir)
	require.Error(t, err)

	var result CheckResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_CHECK_FAILED", resp.Error.Code)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Failed)

	byName := map[string]ScenarioResult{}
	for _, s := range result.Scenarios {
		byName[s.Name] = s
	}
	assert.True(t, byName["passing"].Pass)
	assert.Equal(t, "definitely-true", byName["passing"].Verdict)
	assert.False(t, byName["failing"].Pass)
}

func TestCheck_Filter(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "passing.yaml", passingScenario)
	writeScenario(t, dir, "nested/failing.yaml", failingScenario)
	writeScenario(t, dir, "notes.txt", "not a scenario")

	out, _, err := runCLI(t, "check", dir, "--filter", "pass*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")

	_, _, err = runCLI(t, "check", dir, "--filter", "[")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCheck_LoadErrorFailsScenario(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "broken.yaml", "name: broken\n")

	out, _, err := runCLI(t, "check", path)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "load:")
}

func TestCheck_CommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing args", []string{"check"}, "requires at least 1 arg"},
		{"missing path", []string{"check", "/nonexistent/scenarios"}, "failed to find scenarios"},
		{"update without dir", []string{"check", ".", "--update-golden"}, "--update-golden requires --golden-dir"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCheck_EmptyDirectory(t *testing.T) {
	out, _, err := runCLI(t, "check", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestCheck_Golden(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "passing.yaml", passingScenario)
	goldenDir := filepath.Join(dir, "golden")

	// No golden file yet: expectations only.
	_, _, err := runCLI(t, "check", path, "--golden-dir", goldenDir)
	require.NoError(t, err)

	_, _, err = runCLI(t, "check", path, "--golden-dir", goldenDir, "--update-golden")
	require.NoError(t, err)
	golden, err := os.ReadFile(filepath.Join(goldenDir, "passing.golden"))
	require.NoError(t, err)
	assert.Contains(t, string(golden), `"verdict":"definitely-true"`)

	_, _, err = runCLI(t, "check", path, "--golden-dir", goldenDir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(goldenDir, "passing.golden"), []byte("{}"), 0o644))
	out, _, err := runCLI(t, "check", path, "--golden-dir", goldenDir)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "does not match golden file")
}

func TestCheck_MetricsFile(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "passing.yaml", passingScenario)
	metricsPath := filepath.Join(dir, "ltlcheck.prom")

	_, _, err := runCLI(t, "check", path, "--metrics-file", metricsPath)
	require.NoError(t, err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `ltlcheck_verdicts_total{scenario="passing",verdict="definitely-true"} 1`)
}

func TestCheck_LogFile(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "passing.yaml", passingScenario)
	logPath := filepath.Join(dir, "check.log")

	_, stderr, err := runCLI(t, "check", path, "--log-file", logPath)
	require.NoError(t, err)
	assert.NotContains(t, stderr, "scenario checked", "info records stay off the terminal without --verbose")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"scenario checked"`)
	assert.Contains(t, string(data), `"scenario":"passing"`)
}

func TestCheck_Verbose(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "passing.yaml", passingScenario)

	_, stderr, err := runCLI(t, "check", path, "--verbose")
	require.NoError(t, err)
	assert.Contains(t, stderr, "scenario checked")
}

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "a.yaml", "")
	writeScenario(t, dir, "sub/b.yml", "")
	writeScenario(t, dir, "sub/c.json", "")
	explicit := writeScenario(t, dir, "d.scenario", "")

	files, err := findScenarioFiles([]string{dir}, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "sub", "b.yml"),
	}, files)

	files, err = findScenarioFiles([]string{explicit}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{explicit}, files)

	files, err = findScenarioFiles([]string{dir}, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "sub", "b.yml")}, files)
}
