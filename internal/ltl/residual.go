package ltl

// StepResidual consumes the next state of the trace with a guarded
// residual. It distributes state through the And/Or/Implies/Not wrappers,
// unwraps each next operator and steps its payload with Step, and
// recombines the results with the same tag rules as Step.
//
// Passing a formula that is not guarded returns a NOT_GUARDED EvalError.
func StepResidual[S any](f Formula[S], state S) (Formula[S], error) {
	switch f := f.(type) {
	case nextNode[S]:
		r, err := stepOperand(f.term, state)
		if err != nil {
			return nil, err
		}
		return applyTags(r, f.tags), nil
	case andNode[S]:
		left, err := StepResidual(f.left, state)
		if err != nil {
			return nil, err
		}
		right, err := StepResidual(f.right, state)
		if err != nil {
			return nil, err
		}
		return conjoin(f.tags, left, right)
	case orNode[S]:
		left, err := StepResidual(f.left, state)
		if err != nil {
			return nil, err
		}
		right, err := StepResidual(f.right, state)
		if err != nil {
			return nil, err
		}
		return disjoin(f.tags, left, right)
	case impliesNode[S]:
		return stepResidualImplies(f, state)
	case notNode[S]:
		r, err := StepResidual(f.term, state)
		if err != nil {
			return nil, err
		}
		return negateResidual(r, f.tags), nil
	case nil:
		return nil, &EvalError{Code: ErrCodeNotGuarded, Message: "nil formula", Step: -1}
	}
	return nil, notGuardedError(f, -1)
}

func stepResidualImplies[S any](f impliesNode[S], state S) (Formula[S], error) {
	ante, err := StepResidual(f.antecedent, state)
	if err != nil {
		return nil, err
	}
	switch {
	case isTrue(ante):
		var cons Formula[S]
		if IsGuarded(f.consequent) {
			cons, err = StepResidual(f.consequent, state)
		} else {
			cons, err = stepOperand(f.consequent, state)
		}
		if err != nil {
			return nil, err
		}
		return applyTags(cons, f.tags), nil
	case isFalse(ante):
		return True[S](), nil
	case IsGuarded(ante):
		return impliesNode[S]{node: f.node, antecedent: ante, consequent: f.consequent}, nil
	}
	return nil, notGuardedError[S](impliesNode[S]{node: f.node, antecedent: ante, consequent: f.consequent}, -1)
}
