package store

import (
	"errors"

	"github.com/google/uuid"

	"github.com/roach88/ltlcheck/internal/ltl"
)

// ErrNotFound is returned when a run or snapshot does not exist.
var ErrNotFound = errors.New("not found")

// Run is one recorded scenario check.
type Run struct {
	ID           string
	Seq          int64
	Scenario     string
	Formula      string
	ScenarioHash string

	// Finished is false until FinishRun records an outcome.
	Finished bool
	Outcome
}

// Outcome is the final state of a run.
type Outcome struct {
	Verdict ltl.Validity
	Steps   int
	Tags    []string
	// Error is the evaluation error message, empty when the run completed.
	Error string
}

// Step is the monitor's partial verdict after one observed state.
type Step struct {
	RunID        string
	Index        int
	Validity     ltl.Validity
	RequiresNext bool
	Tags         []string
	SnapshotHash string
}

// RunIDGenerator produces identifiers for new runs.
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run ids.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
