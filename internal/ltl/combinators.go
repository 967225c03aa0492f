package ltl

// True is the formula that holds in every state.
func True[S any]() Formula[S] { return trueNode[S]{} }

// False is the formula that holds in no state.
func False[S any]() Formula[S] { return falseNode[S]{} }

// Pred lifts a state predicate into a formula.
func Pred[S any](fn func(S) bool) Formula[S] {
	return Prop("pred", fn)
}

// PredErr lifts a fallible state predicate into a formula. A returned error
// aborts evaluation.
func PredErr[S any](fn func(S) (bool, error)) Formula[S] {
	return PropErr("pred", fn)
}

// Prop is Pred with a name used when rendering residuals.
func Prop[S any](name string, fn func(S) bool) Formula[S] {
	return predNode[S]{
		name: name,
		fn:   func(s S) (bool, error) { return fn(s), nil },
	}
}

// PropErr is PredErr with a name used when rendering residuals.
func PropErr[S any](name string, fn func(S) (bool, error)) Formula[S] {
	return predNode[S]{name: name, fn: fn}
}

// And is the conjunction of its operands. Extra operands are folded to the
// right: And(a, b, c) is And(a, And(b, c)).
func And[S any](a, b Formula[S], rest ...Formula[S]) Formula[S] {
	if len(rest) == 0 {
		return andNode[S]{left: a, right: b}
	}
	return andNode[S]{left: a, right: And(b, rest[0], rest[1:]...)}
}

// Or is the disjunction of its operands, folded to the right like And.
func Or[S any](a, b Formula[S], rest ...Formula[S]) Formula[S] {
	if len(rest) == 0 {
		return orNode[S]{left: a, right: b}
	}
	return orNode[S]{left: a, right: Or(b, rest[0], rest[1:]...)}
}

// Implies holds when antecedent is false or consequent holds.
//
// The consequent is not evaluated until the antecedent is known to be true.
// When the antecedent is itself a next obligation, the consequent is
// evaluated at the state that resolves the antecedent.
func Implies[S any](antecedent, consequent Formula[S]) Formula[S] {
	return impliesNode[S]{antecedent: antecedent, consequent: consequent}
}

// Not negates a formula.
func Not[S any](term Formula[S]) Formula[S] {
	return notNode[S]{term: term}
}

// Bind captures the current state and continues with the formula fn
// builds from it. The continuation is evaluated from the same state.
func Bind[S any](fn func(S) Formula[S]) Formula[S] {
	return bindNode[S]{fn: fn}
}

// Next is WeakNext.
func Next[S any](term Formula[S]) Formula[S] {
	return WeakNext(term)
}

// WeakNext requires term to hold in the next state. A trace that ends
// first yields ProbablyTrue.
func WeakNext[S any](term Formula[S]) Formula[S] {
	return nextNode[S]{kind: KindWeakNext, term: term}
}

// StrongNext requires term to hold in the next state. A trace that ends
// first yields ProbablyFalse.
func StrongNext[S any](term Formula[S]) Formula[S] {
	return nextNode[S]{kind: KindStrongNext, term: term}
}

// RequiredNext requires term to hold in the next state and marks the
// verdict as needing more input (see RequiresNext). A trace that ends
// first yields ProbablyTrue.
func RequiredNext[S any](term Formula[S]) Formula[S] {
	return nextNode[S]{kind: KindRequiredNext, term: term}
}

// Eventually requires term to hold in some state from now on.
// budget is a recursion-safety counter, not a deadline.
func Eventually[S any](term Formula[S], budget int) Formula[S] {
	return eventuallyNode[S]{term: term, budget: max(budget, 0)}
}

// Always requires term to hold in every state from now on.
// budget is a recursion-safety counter, not a deadline.
func Always[S any](term Formula[S], budget int) Formula[S] {
	return alwaysNode[S]{term: term, budget: max(budget, 0)}
}

// Until requires condition to hold in every state until term holds, and
// term to hold eventually.
func Until[S any](condition, term Formula[S], budget int) Formula[S] {
	return untilNode[S]{condition: condition, term: term, budget: max(budget, 0)}
}

// Release requires term to hold up to and including the first state in
// which condition holds, or forever if condition never holds.
func Release[S any](condition, term Formula[S], budget int) Formula[S] {
	return releaseNode[S]{condition: condition, term: term, budget: max(budget, 0)}
}

// Comparison relates the current state to the next one. A trace that ends
// before the next state is seen yields ProbablyTrue.
func Comparison[S any](pred func(prev, next S) bool) Formula[S] {
	return ComparisonErr(func(prev, next S) (bool, error) { return pred(prev, next), nil })
}

// ComparisonErr is Comparison with a fallible relation.
func ComparisonErr[S any](pred func(prev, next S) (bool, error)) Formula[S] {
	return comparisonNode[S]{name: "comparison", fn: pred}
}

// NamedComparison is Comparison with a name used when rendering residuals.
func NamedComparison[S any](name string, pred func(prev, next S) (bool, error)) Formula[S] {
	return comparisonNode[S]{name: name, fn: pred}
}

// Unchanged holds when eq reports the current and next states as equal.
func Unchanged[S any](eq func(prev, next S) bool) Formula[S] {
	return Comparison(eq)
}

// Changed holds when changed reports a difference between the current and
// next states.
func Changed[S any](changed func(prev, next S) bool) Formula[S] {
	return Comparison(changed)
}

// Tag attaches a blame label to f. The label is reported with any false
// verdict that f is responsible for.
func Tag[S any](label string, f Formula[S]) Formula[S] {
	return f.withTags([]string{label})
}
