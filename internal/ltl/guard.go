package ltl

// IsDetermined reports whether f is True or False.
func IsDetermined[S any](f Formula[S]) bool {
	k := f.Kind()
	return k == KindTrue || k == KindFalse
}

// IsGuarded reports whether f carries no information about the state just
// consumed: it is a next operator, an And/Or of guarded formulas, an
// Implies with a guarded antecedent, or the negation of a guarded formula.
func IsGuarded[S any](f Formula[S]) bool {
	switch f := f.(type) {
	case nextNode[S]:
		return true
	case andNode[S]:
		return IsGuarded(f.left) && IsGuarded(f.right)
	case orNode[S]:
		return IsGuarded(f.left) && IsGuarded(f.right)
	case impliesNode[S]:
		return IsGuarded(f.antecedent)
	case notNode[S]:
		return IsGuarded(f.term)
	}
	return false
}

func isTrue[S any](f Formula[S]) bool  { return f.Kind() == KindTrue }
func isFalse[S any](f Formula[S]) bool { return f.Kind() == KindFalse }

// settled reports whether f satisfies the post-step invariant.
func settled[S any](f Formula[S]) bool {
	return IsDetermined(f) || IsGuarded(f)
}

// containsTemporal reports whether f has a temporal operator outside of
// any next operator.
func containsTemporal[S any](f Formula[S]) bool {
	switch f := f.(type) {
	case eventuallyNode[S], alwaysNode[S], untilNode[S], releaseNode[S]:
		return true
	case andNode[S]:
		return containsTemporal(f.left) || containsTemporal(f.right)
	case orNode[S]:
		return containsTemporal(f.left) || containsTemporal(f.right)
	case impliesNode[S]:
		return containsTemporal(f.antecedent) || containsTemporal(f.consequent)
	case notNode[S]:
		return containsTemporal(f.term)
	}
	return false
}

// decrementBudgets lowers by one the budget of every outermost temporal
// operator in f. Operators already at zero are left alone, as are the
// operands of the decremented operators.
func decrementBudgets[S any](f Formula[S]) Formula[S] {
	switch f := f.(type) {
	case eventuallyNode[S]:
		if f.budget > 0 {
			f.budget--
		}
		return f
	case alwaysNode[S]:
		if f.budget > 0 {
			f.budget--
		}
		return f
	case untilNode[S]:
		if f.budget > 0 {
			f.budget--
		}
		return f
	case releaseNode[S]:
		if f.budget > 0 {
			f.budget--
		}
		return f
	case andNode[S]:
		f.left, f.right = decrementBudgets(f.left), decrementBudgets(f.right)
		return f
	case orNode[S]:
		f.left, f.right = decrementBudgets(f.left), decrementBudgets(f.right)
		return f
	case impliesNode[S]:
		f.antecedent, f.consequent = decrementBudgets(f.antecedent), decrementBudgets(f.consequent)
		return f
	case notNode[S]:
		f.term = decrementBudgets(f.term)
		return f
	case nextNode[S]:
		f.term = decrementBudgets(f.term)
		return f
	}
	return f
}

// continuation returns the operand to carry into the next state: operands
// with nested temporal operators have their budgets decremented so that
// repeated unfolding shrinks.
func continuation[S any](term Formula[S]) Formula[S] {
	if containsTemporal(term) {
		return decrementBudgets(term)
	}
	return term
}

// negate pushes one negation into f. The result has the same tags as f.
//
// Temporal operators become their duals and And/Or swap by De Morgan.
// Double negation collapses, and a negated next operator keeps its kind:
// not next(p) = next(not p). Implications are negated after stepping,
// see stepNot.
func negate[S any](f Formula[S]) Formula[S] {
	switch f := f.(type) {
	case trueNode[S]:
		return falseNode[S]{node: f.node}
	case falseNode[S]:
		return trueNode[S]{node: f.node}
	case predNode[S]:
		fn := f.fn
		return predNode[S]{
			node: f.node,
			name: "!" + f.name,
			fn: func(s S) (bool, error) {
				ok, err := fn(s)
				return !ok, err
			},
		}
	case comparisonNode[S]:
		fn := f.fn
		return comparisonNode[S]{
			node: f.node,
			name: "!" + f.name,
			fn: func(prev, next S) (bool, error) {
				ok, err := fn(prev, next)
				return !ok, err
			},
		}
	case andNode[S]:
		return orNode[S]{node: f.node, left: Not(f.left), right: Not(f.right)}
	case orNode[S]:
		return andNode[S]{node: f.node, left: Not(f.left), right: Not(f.right)}
	case notNode[S]:
		return applyTags(f.term, f.tags)
	case bindNode[S]:
		fn := f.fn
		return bindNode[S]{node: f.node, fn: func(s S) Formula[S] {
			g := fn(s)
			if g == nil {
				return nil
			}
			return Not(g)
		}}
	case eventuallyNode[S]:
		return alwaysNode[S]{node: f.node, term: Not(f.term), budget: f.budget}
	case alwaysNode[S]:
		return eventuallyNode[S]{node: f.node, term: Not(f.term), budget: f.budget}
	case untilNode[S]:
		return releaseNode[S]{node: f.node, condition: Not(f.condition), term: Not(f.term), budget: f.budget}
	case releaseNode[S]:
		return untilNode[S]{node: f.node, condition: Not(f.condition), term: Not(f.term), budget: f.budget}
	case nextNode[S]:
		return nextNode[S]{node: f.node, kind: f.kind, term: Not(f.term)}
	}
	return notNode[S]{term: f}
}

// negateResidual negates the result of stepping a formula.
func negateResidual[S any](f Formula[S], tags []string) Formula[S] {
	switch {
	case isTrue(f):
		return falseNode[S]{node: node{tags: mergeTags(tags)}}
	case isFalse(f):
		return True[S]()
	}
	return notNode[S]{node: node{tags: mergeTags(tags)}, term: f}
}
