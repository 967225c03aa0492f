package ltl

import (
	"errors"
	"fmt"
	"log/slog"
)

// EvalError represents a failure to evaluate a formula.
//
// A false verdict is never an EvalError. EvalErrors are raised for:
//   - Invariant violations: a residual that is neither determined nor
//     guarded after stepping (a malformed formula or a bug)
//   - Missing paths in UnchangedPaths/ChangedPaths comparisons
//   - Errors returned by PredErr/ComparisonErr predicates
//   - Monitor misuse (Next before Start)
type EvalError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Step is the zero-based trace position being consumed, or -1 when
	// unknown.
	Step int

	// Residual renders the offending formula, if any.
	Residual string

	// Path is the dotted path that failed to resolve (MISSING_PATH only).
	Path string

	// Err is the underlying error, if any.
	Err error
}

// ErrorCode categorizes evaluation errors.
type ErrorCode string

const (
	// ErrCodeNotGuarded indicates a residual that is neither determined nor guarded.
	ErrCodeNotGuarded ErrorCode = "NOT_GUARDED"

	// ErrCodeMissingPath indicates a dotted path absent from a state.
	ErrCodeMissingPath ErrorCode = "MISSING_PATH"

	// ErrCodePredicate indicates a predicate returned an error.
	ErrCodePredicate ErrorCode = "PREDICATE"

	// ErrCodeNotStarted indicates Monitor.Next was called before Monitor.Start.
	ErrCodeNotStarted ErrorCode = "NOT_STARTED"
)

// Error implements the error interface.
func (e *EvalError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Path != "" {
		msg += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Step >= 0 {
		msg += fmt.Sprintf(" (step=%d)", e.Step)
	}
	if e.Residual != "" {
		msg += fmt.Sprintf(" (residual=%s)", e.Residual)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *EvalError) Unwrap() error {
	return e.Err
}

// IsInvariantError reports whether err is (or wraps) a NOT_GUARDED error.
func IsInvariantError(err error) bool {
	var ee *EvalError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeNotGuarded
	}
	return false
}

// IsPathError reports whether err is (or wraps) a MISSING_PATH error.
func IsPathError(err error) bool {
	var ee *EvalError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeMissingPath
	}
	return false
}

// notGuardedError logs the offending residual and returns the invariant error.
func notGuardedError[S any](f Formula[S], step int) *EvalError {
	residual := f.String()
	slog.Error("residual is neither determined nor guarded",
		"step", step,
		"kind", f.Kind().String(),
		"residual", residual,
	)
	return &EvalError{
		Code:     ErrCodeNotGuarded,
		Message:  "formula is not guarded",
		Step:     step,
		Residual: residual,
	}
}

func missingPathError(path string) *EvalError {
	return &EvalError{
		Code:    ErrCodeMissingPath,
		Message: "path not found in state",
		Step:    -1,
		Path:    path,
	}
}

// predicateError wraps a predicate failure. EvalErrors raised inside a
// predicate (e.g. MISSING_PATH) are passed through unchanged.
func predicateError(name string, err error) error {
	var ee *EvalError
	if errors.As(err, &ee) {
		return err
	}
	return &EvalError{
		Code:    ErrCodePredicate,
		Message: fmt.Sprintf("predicate %s failed", name),
		Step:    -1,
		Err:     err,
	}
}

// atStep stamps the trace position on an EvalError that lacks one.
func atStep(err error, step int) error {
	var ee *EvalError
	if errors.As(err, &ee) && ee.Step < 0 {
		stamped := *ee
		stamped.Step = step
		return &stamped
	}
	return err
}
