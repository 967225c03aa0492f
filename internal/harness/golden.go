package harness

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/ltlcheck/internal/snapshot"
)

// GoldenDir is where golden verdict traces live, relative to the test's
// package directory.
const GoldenDir = "testdata/golden"

// VerdictTrace renders the deterministic part of a result as canonical
// JSON: everything except the run id and expectation failures.
func VerdictTrace(result *Result) ([]byte, error) {
	steps := make(snapshot.Array, len(result.Steps))
	for i, step := range result.Steps {
		steps[i] = snapshot.Object{
			"index":         snapshot.Int(step.Index),
			"validity":      snapshot.String(step.Validity.String()),
			"requires_next": snapshot.Bool(step.RequiresNext),
			"tags":          tagArray(step.Tags),
			"snapshot":      snapshot.String(step.SnapshotHash),
		}
	}

	doc := snapshot.Object{
		"scenario":       snapshot.String(result.Scenario),
		"formula":        snapshot.String(result.Formula),
		"required_steps": snapshot.Int(result.RequiredSteps),
		"verdict":        snapshot.String(result.Verdict.String()),
		"tags":           tagArray(result.Tags),
		"steps":          steps,
	}
	if result.ErrorCode != "" {
		doc["error_code"] = snapshot.String(result.ErrorCode)
	}
	return snapshot.MarshalCanonical(doc)
}

func tagArray(tags []string) snapshot.Array {
	arr := make(snapshot.Array, len(tags))
	for i, t := range tags {
		arr[i] = snapshot.String(t)
	}
	return arr
}

// RunWithGolden checks a scenario and compares its verdict trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario, opts...)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result's verdict trace against the
// golden file named after scenarioName.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := VerdictTrace(result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}

// GoldenMismatchError reports a verdict trace that differs from its
// golden file.
type GoldenMismatchError struct {
	Path     string
	Expected []byte
	Actual   []byte
}

func (e *GoldenMismatchError) Error() string {
	return fmt.Sprintf("verdict trace differs from %s\n  expected: %s\n  actual:   %s", e.Path, e.Expected, e.Actual)
}

// CheckGoldenFile is AssertGolden for callers without a *testing.T, such
// as the check command. With update set the golden file is rewritten.
func CheckGoldenFile(dir string, result *Result, update bool) error {
	data, err := VerdictTrace(result)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, result.Scenario+".golden")

	if update {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create golden dir: %w", err)
		}
		return os.WriteFile(path, data, 0o644)
	}

	want, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read golden file: %w", err)
	}
	if !bytes.Equal(want, data) {
		return &GoldenMismatchError{Path: path, Expected: want, Actual: data}
	}
	return nil
}
