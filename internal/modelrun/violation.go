package modelrun

import (
	"errors"
	"fmt"
	"strings"
)

// Violation reports the command after which the property became
// definitely false.
type Violation[M any] struct {
	// Command is the offending command's String, or "<initial>" when the
	// initial model already refutes the property.
	Command string

	// Step is the index of the refuting state in the model trace; the
	// initial model is state 0.
	Step int

	// Tags is the blame set of the false verdict.
	Tags []string

	// Before and After are the models around the command. Before is the
	// zero value for an initial violation.
	Before M
	After  M
}

// Error implements the error interface.
func (v *Violation[M]) Error() string {
	msg := fmt.Sprintf("property violated at step %d by %s", v.Step, v.Command)
	if len(v.Tags) > 0 {
		msg += " [" + strings.Join(v.Tags, ", ") + "]"
	}
	return fmt.Sprintf("%s\n  before: %+v\n  after:  %+v", msg, v.Before, v.After)
}

// AsViolation extracts a *Violation[M] from err.
func AsViolation[M any](err error) (*Violation[M], bool) {
	var v *Violation[M]
	ok := errors.As(err, &v)
	return v, ok
}
