package ltl

// RequiredSteps returns a structural lower bound on the number of states
// needed before f can reach a definite verdict. Bind continuations are
// opaque and count as zero.
func RequiredSteps[S any](f Formula[S]) int {
	switch f := f.(type) {
	case eventuallyNode[S]:
		return f.budget + 1 + RequiredSteps(f.term)
	case alwaysNode[S]:
		return f.budget + 1 + RequiredSteps(f.term)
	case untilNode[S]:
		return max(f.budget+1, RequiredSteps(f.term)+RequiredSteps(f.condition))
	case releaseNode[S]:
		return max(f.budget+1, RequiredSteps(f.term)+RequiredSteps(f.condition))
	case andNode[S]:
		return max(RequiredSteps(f.left), RequiredSteps(f.right))
	case orNode[S]:
		return max(RequiredSteps(f.left), RequiredSteps(f.right))
	case impliesNode[S]:
		return max(RequiredSteps(f.antecedent), RequiredSteps(f.consequent))
	case notNode[S]:
		return RequiredSteps(f.term)
	case nextNode[S]:
		return 1 + RequiredSteps(f.term)
	case comparisonNode[S]:
		return 1
	}
	return 0
}

// RequiresNext reports whether f still holds a RequiredNext obligation,
// i.e. whether a tentative verdict is due to the trace being too short
// rather than to an obligation the formula is content to leave open.
func RequiresNext[S any](f Formula[S]) bool {
	switch f := f.(type) {
	case nextNode[S]:
		return f.kind == KindRequiredNext
	case eventuallyNode[S]:
		return RequiresNext(f.term)
	case alwaysNode[S]:
		return RequiresNext(f.term)
	case untilNode[S]:
		return RequiresNext(f.term) || RequiresNext(f.condition)
	case releaseNode[S]:
		return RequiresNext(f.term) || RequiresNext(f.condition)
	case andNode[S]:
		return RequiresNext(f.left) || RequiresNext(f.right)
	case orNode[S]:
		return RequiresNext(f.left) || RequiresNext(f.right)
	case impliesNode[S]:
		return RequiresNext(f.antecedent) || RequiresNext(f.consequent)
	case notNode[S]:
		return RequiresNext(f.term)
	}
	return false
}
