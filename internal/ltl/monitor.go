package ltl

// Monitor evaluates a formula incrementally, one state at a time.
//
// Start consumes the initial state; each Next consumes one further state.
// Both return the verdict on the prefix seen so far. Once the verdict is
// determined, further calls keep returning it without examining the
// supplied states.
//
// A Monitor is single-consumer: it must not be used from multiple
// goroutines, and states must be supplied in trace order.
type Monitor[S any] struct {
	formula  Formula[S]
	initial  S
	residual Formula[S]
	started  bool
	steps    int
	current  PartialValidity
	err      error
}

// NewMonitor returns a monitor for f whose first state is initial.
// No evaluation happens until Start.
func NewMonitor[S any](f Formula[S], initial S) *Monitor[S] {
	return &Monitor[S]{formula: f, initial: initial}
}

// Start steps the initial state. Calling Start again returns the current
// verdict.
func (m *Monitor[S]) Start() (PartialValidity, error) {
	if m.err != nil {
		return PartialValidity{}, m.err
	}
	if m.started {
		return m.current, nil
	}
	m.started = true

	residual, err := Step(m.formula, m.initial)
	if err != nil {
		return m.fail(atStep(err, 0))
	}
	if !settled(residual) {
		return m.fail(notGuardedError(residual, 0))
	}
	return m.advance(residual)
}

// Next consumes the next state of the trace.
func (m *Monitor[S]) Next(state S) (PartialValidity, error) {
	if m.err != nil {
		return PartialValidity{}, m.err
	}
	if !m.started {
		return PartialValidity{}, &EvalError{
			Code:    ErrCodeNotStarted,
			Message: "Next called before Start",
			Step:    -1,
		}
	}
	if IsDetermined(m.residual) {
		m.steps++
		return m.current, nil
	}

	residual, err := StepResidual(m.residual, state)
	if err != nil {
		return m.fail(atStep(err, m.steps))
	}
	if !settled(residual) {
		return m.fail(notGuardedError(residual, m.steps))
	}
	return m.advance(residual)
}

func (m *Monitor[S]) advance(residual Formula[S]) (PartialValidity, error) {
	pv, err := Partial(residual)
	if err != nil {
		return m.fail(atStep(err, m.steps))
	}
	m.residual = residual
	m.current = pv
	m.steps++
	return pv, nil
}

// fail makes err sticky: an evaluation error leaves the residual undefined.
func (m *Monitor[S]) fail(err error) (PartialValidity, error) {
	m.err = err
	return PartialValidity{}, err
}

// Current returns the latest verdict. It is the zero PartialValidity
// (DefinitelyFalse) before Start.
func (m *Monitor[S]) Current() PartialValidity {
	return m.current
}

// Residual returns the formula still to be satisfied, or nil before Start.
func (m *Monitor[S]) Residual() Formula[S] {
	return m.residual
}

// Steps returns the number of states consumed, including those supplied
// after the verdict was determined.
func (m *Monitor[S]) Steps() int {
	return m.steps
}

// Done reports whether the verdict is determined.
func (m *Monitor[S]) Done() bool {
	return m.started && m.residual != nil && IsDetermined(m.residual)
}

// Err returns the error that stopped the monitor, if any.
func (m *Monitor[S]) Err() error {
	return m.err
}
