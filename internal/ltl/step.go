package ltl

import "fmt"

// Step progresses f against state and returns the residual: a formula
// describing what the rest of the trace must satisfy.
//
// For any formula built from this package's constructors the residual is
// determined (True/False) or guarded. A residual that is neither is an
// invariant violation and is returned as an EvalError with code
// NOT_GUARDED.
//
// Next operators are returned unchanged by Step: their obligation concerns
// the next state, which StepResidual consumes.
func Step[S any](f Formula[S], state S) (Formula[S], error) {
	switch f := f.(type) {
	case trueNode[S]:
		return True[S](), nil
	case falseNode[S]:
		return f, nil
	case predNode[S]:
		return stepPred(f, state)
	case comparisonNode[S]:
		return stepComparison(f, state), nil
	case andNode[S]:
		return stepAnd(f, state)
	case orNode[S]:
		return stepOr(f, state)
	case impliesNode[S]:
		return stepImplies(f, state)
	case notNode[S]:
		return stepNot(f, state)
	case bindNode[S]:
		return stepBind(f, state)
	case eventuallyNode[S]:
		return stepEventually(f, state)
	case alwaysNode[S]:
		return stepAlways(f, state)
	case untilNode[S]:
		return stepUntil(f, state)
	case releaseNode[S]:
		return stepRelease(f, state)
	case nextNode[S]:
		return f, nil
	case nil:
		return nil, &EvalError{Code: ErrCodeNotGuarded, Message: "nil formula", Step: -1}
	}
	return nil, fmt.Errorf("ltl: unknown formula type %T", f)
}

func stepPred[S any](f predNode[S], state S) (Formula[S], error) {
	ok, err := f.fn(state)
	if err != nil {
		return nil, predicateError(f.name, err)
	}
	if ok {
		return True[S](), nil
	}
	return falseNode[S]{node: node{tags: f.tags}}, nil
}

// stepComparison closes the relation over the state just seen; the
// resulting predicate is matched against whatever state comes next.
func stepComparison[S any](f comparisonNode[S], prev S) Formula[S] {
	fn := f.fn
	return WeakNext[S](predNode[S]{
		node: f.node,
		name: f.name,
		fn:   func(next S) (bool, error) { return fn(prev, next) },
	})
}

// stepOperand steps a sub-formula, reducing it once more against the same
// state if the first reduction left it unsettled.
func stepOperand[S any](f Formula[S], state S) (Formula[S], error) {
	r, err := Step(f, state)
	if err != nil {
		return nil, err
	}
	if settled(r) {
		return r, nil
	}
	return Step(r, state)
}

func stepAnd[S any](f andNode[S], state S) (Formula[S], error) {
	left, err := stepOperand(f.left, state)
	if err != nil {
		return nil, err
	}
	right, err := stepOperand(f.right, state)
	if err != nil {
		return nil, err
	}
	return conjoin(f.tags, left, right)
}

func stepOr[S any](f orNode[S], state S) (Formula[S], error) {
	left, err := stepOperand(f.left, state)
	if err != nil {
		return nil, err
	}
	right, err := stepOperand(f.right, state)
	if err != nil {
		return nil, err
	}
	return disjoin(f.tags, left, right)
}

// conjoin combines stepped operands of an And carrying tags.
func conjoin[S any](tags []string, left, right Formula[S]) (Formula[S], error) {
	switch {
	case isFalse(left) || isFalse(right):
		return falseNode[S]{node: node{tags: mergeTags(tags, falseTags(left), falseTags(right))}}, nil
	case isTrue(left) && isTrue(right):
		return True[S](), nil
	case isTrue(left):
		return applyTags(right, tags), nil
	case isTrue(right):
		return applyTags(left, tags), nil
	case IsGuarded(left) && IsGuarded(right):
		return andNode[S]{node: node{tags: tags}, left: left, right: right}, nil
	}
	return nil, notGuardedError[S](andNode[S]{node: node{tags: tags}, left: left, right: right}, -1)
}

// disjoin combines stepped operands of an Or carrying tags. Tags are
// merged only when the whole disjunction is false.
func disjoin[S any](tags []string, left, right Formula[S]) (Formula[S], error) {
	switch {
	case isTrue(left) || isTrue(right):
		return True[S](), nil
	case isFalse(left) && isFalse(right):
		return falseNode[S]{node: node{tags: mergeTags(tags, falseTags(left), falseTags(right))}}, nil
	case isFalse(left):
		return applyTags(right, tags), nil
	case isFalse(right):
		return applyTags(left, tags), nil
	case IsGuarded(left) && IsGuarded(right):
		return orNode[S]{node: node{tags: tags}, left: left, right: right}, nil
	}
	return nil, notGuardedError[S](orNode[S]{node: node{tags: tags}, left: left, right: right}, -1)
}

// stepImplies never steps the consequent before the antecedent is known
// to be true.
func stepImplies[S any](f impliesNode[S], state S) (Formula[S], error) {
	ante, err := stepOperand(f.antecedent, state)
	if err != nil {
		return nil, err
	}
	switch {
	case isTrue(ante):
		cons, err := stepOperand(f.consequent, state)
		if err != nil {
			return nil, err
		}
		return applyTags(cons, f.tags), nil
	case isFalse(ante):
		return True[S](), nil
	case IsGuarded(ante):
		cons, err := deferred(f.consequent, state)
		if err != nil {
			return nil, err
		}
		return impliesNode[S]{node: f.node, antecedent: ante, consequent: cons}, nil
	}
	return nil, notGuardedError[S](impliesNode[S]{node: f.node, antecedent: ante, consequent: f.consequent}, -1)
}

// deferred aligns a consequent with a guarded antecedent: it is evaluated
// at the state that resolves the antecedent. A consequent that is already
// guarded is brought into residual form by Step, which reads no state for
// a guarded formula.
func deferred[S any](f Formula[S], state S) (Formula[S], error) {
	if !IsGuarded(f) {
		return WeakNext(f), nil
	}
	return Step(f, state)
}

// stepNot pushes the negation one level in and steps the result. A negated
// implication is stepped as an implication and negated afterwards so its
// consequent stays lazy.
func stepNot[S any](f notNode[S], state S) (Formula[S], error) {
	switch term := f.term.(type) {
	case nil:
		return nil, &EvalError{Code: ErrCodeNotGuarded, Message: "negation of nil formula", Step: -1}
	case impliesNode[S]:
		r, err := stepImplies(term, state)
		if err != nil {
			return nil, err
		}
		return negateResidual(r, mergeTags(f.tags, term.tags)), nil
	}
	return Step(applyTags(negate(f.term), f.tags), state)
}

func stepBind[S any](f bindNode[S], state S) (Formula[S], error) {
	g := f.fn(state)
	if g == nil {
		return nil, &EvalError{Code: ErrCodeNotGuarded, Message: "bind continuation returned nil", Step: -1}
	}
	return Step(applyTags(g, f.tags), state)
}

// stepEventually unfolds eventually(p) = p || next(eventually(p)).
func stepEventually[S any](f eventuallyNode[S], state S) (Formula[S], error) {
	for {
		inner, ok := f.term.(eventuallyNode[S])
		if !ok {
			break
		}
		f = eventuallyNode[S]{
			node:   node{tags: mergeTags(f.tags, inner.tags)},
			term:   inner.term,
			budget: max(f.budget, inner.budget),
		}
	}

	term, err := stepOperand(f.term, state)
	if err != nil {
		return nil, err
	}

	var next Formula[S]
	if f.budget == 0 {
		next = StrongNext[S](eventuallyNode[S]{node: f.node, term: continuation(f.term)})
	} else {
		next = RequiredNext[S](eventuallyNode[S]{node: f.node, term: continuation(f.term), budget: f.budget - 1})
	}

	switch {
	case isTrue(term):
		return True[S](), nil
	case isFalse(term):
		return next, nil
	case IsGuarded(term):
		return orNode[S]{node: f.node, left: term, right: next}, nil
	}
	return nil, notGuardedError[S](orNode[S]{node: f.node, left: term, right: next}, -1)
}

// stepAlways unfolds always(p) = p && next(always(p)). A false operand
// refutes the formula immediately.
func stepAlways[S any](f alwaysNode[S], state S) (Formula[S], error) {
	for {
		inner, ok := f.term.(alwaysNode[S])
		if !ok {
			break
		}
		f = alwaysNode[S]{
			node:   node{tags: mergeTags(f.tags, inner.tags)},
			term:   inner.term,
			budget: max(f.budget, inner.budget),
		}
	}

	term, err := stepOperand(f.term, state)
	if err != nil {
		return nil, err
	}
	if isFalse(term) {
		return falseNode[S]{node: node{tags: mergeTags(f.tags, falseTags(term))}}, nil
	}

	var next Formula[S]
	switch {
	case containsTemporal(f.term):
		next = WeakNext[S](alwaysNode[S]{node: f.node, term: decrementBudgets(f.term), budget: max(f.budget-1, 0)})
	case f.budget == 0:
		next = WeakNext[S](alwaysNode[S]{node: f.node, term: f.term})
	default:
		next = RequiredNext[S](alwaysNode[S]{node: f.node, term: f.term, budget: f.budget - 1})
	}

	switch {
	case isTrue(term):
		return next, nil
	case IsGuarded(term):
		return andNode[S]{node: f.node, left: term, right: next}, nil
	}
	return nil, notGuardedError[S](andNode[S]{node: f.node, left: term, right: next}, -1)
}

// stepUntil unfolds until(c, t) = t || (c && next(until(c, t))).
func stepUntil[S any](f untilNode[S], state S) (Formula[S], error) {
	self := untilNode[S]{node: f.node, condition: continuation(f.condition), term: f.term}
	var next Formula[S]
	if f.budget == 0 {
		next = StrongNext[S](self)
	} else {
		self.budget = f.budget - 1
		next = RequiredNext[S](self)
	}
	return Step[S](orNode[S]{
		node:  f.node,
		left:  f.term,
		right: And(f.condition, next),
	}, state)
}

// stepRelease unfolds release(c, t) = t && (c || next(release(c, t))).
func stepRelease[S any](f releaseNode[S], state S) (Formula[S], error) {
	self := releaseNode[S]{node: f.node, condition: f.condition, term: continuation(f.term)}
	var next Formula[S]
	if f.budget == 0 {
		next = WeakNext[S](self)
	} else {
		self.budget = f.budget - 1
		next = RequiredNext[S](self)
	}
	return Step[S](andNode[S]{
		node:  f.node,
		left:  f.term,
		right: Or(f.condition, next),
	}, state)
}
