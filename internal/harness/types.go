package harness

import "github.com/roach88/ltlcheck/internal/ltl"

// StepRecord is the monitor's verdict after one state of the trace.
type StepRecord struct {
	Index        int          `json:"index"`
	Validity     ltl.Validity `json:"validity"`
	RequiresNext bool         `json:"requires_next"`
	Tags         []string     `json:"tags,omitempty"`
	SnapshotHash string       `json:"snapshot"`
}

// Result is the outcome of checking one scenario.
type Result struct {
	Scenario string `json:"scenario"`

	// RunID is set when the run was recorded in a store.
	RunID string `json:"run_id,omitempty"`

	Formula string `json:"formula"`

	// RequiredSteps is the trace length below which the verdict can only
	// be tentative.
	RequiredSteps int `json:"required_steps"`

	// Verdict is the verdict on the whole trace. It is DefinitelyFalse for
	// an empty trace and meaningless when ErrorCode is set.
	Verdict ltl.Validity `json:"verdict"`

	// Tags is the blame set of a false verdict.
	Tags []string `json:"tags,omitempty"`

	// Steps has one record per consumed state.
	Steps []StepRecord `json:"steps"`

	// Error and ErrorCode describe the evaluation error that stopped the
	// run, if any.
	Error     string `json:"error,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`

	// Pass indicates every expectation held.
	Pass bool `json:"pass"`

	// Failures lists unmet expectations. Empty if Pass is true.
	Failures []string `json:"failures,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(scenario string) *Result {
	return &Result{
		Scenario: scenario,
		Pass:     true,
		Steps:    []StepRecord{},
	}
}

// AddFailure records an unmet expectation and marks the result as failed.
func (r *Result) AddFailure(msg string) {
	r.Failures = append(r.Failures, msg)
	r.Pass = false
}
