package ltl

import "fmt"

// EvaluateValidity reads the verdict of a residual: the definite verdict
// of True/False, or the end-of-trace default of each outstanding next
// operator combined through And/Or/Implies/Not.
//
//	RequiredNext, WeakNext  ProbablyTrue
//	StrongNext              ProbablyFalse
func EvaluateValidity[S any](f Formula[S]) (Validity, error) {
	switch f := f.(type) {
	case trueNode[S]:
		return DefinitelyTrue, nil
	case falseNode[S]:
		return DefinitelyFalse, nil
	case nextNode[S]:
		if f.kind == KindStrongNext {
			return ProbablyFalse, nil
		}
		return ProbablyTrue, nil
	case andNode[S]:
		l, r, err := evaluatePair(f.left, f.right)
		if err != nil {
			return 0, err
		}
		return l.And(r), nil
	case orNode[S]:
		l, r, err := evaluatePair(f.left, f.right)
		if err != nil {
			return 0, err
		}
		return l.Or(r), nil
	case impliesNode[S]:
		a, c, err := evaluatePair(f.antecedent, f.consequent)
		if err != nil {
			return 0, err
		}
		return a.Not().Or(c), nil
	case notNode[S]:
		v, err := EvaluateValidity(f.term)
		if err != nil {
			return 0, err
		}
		return v.Not(), nil
	case nil:
		return 0, &EvalError{Code: ErrCodeNotGuarded, Message: "nil formula", Step: -1}
	}
	return 0, notGuardedError(f, -1)
}

func evaluatePair[S any](a, b Formula[S]) (Validity, Validity, error) {
	va, err := EvaluateValidity(a)
	if err != nil {
		return 0, 0, err
	}
	vb, err := EvaluateValidity(b)
	if err != nil {
		return 0, 0, err
	}
	return va, vb, nil
}

// Partial extracts the verdict and diagnostics of a residual.
func Partial[S any](residual Formula[S]) (PartialValidity, error) {
	v, err := EvaluateValidity(residual)
	if err != nil {
		return PartialValidity{}, err
	}
	pv := PartialValidity{Validity: v}
	if !IsDetermined(residual) {
		pv.RequiresNext = RequiresNext(residual)
	}
	pv.Tags = collectTags(residual)
	return pv, nil
}

// Evaluate checks f against a finite trace and returns the verdict.
//
// An empty trace is DefinitelyFalse. Evaluation stops at the first state
// that determines the verdict; the remaining states are not examined.
func Evaluate[S any](states []S, f Formula[S]) (Validity, error) {
	residual, err := EvaluateTrace(states, f)
	if err != nil {
		return 0, err
	}
	return EvaluateValidity(residual)
}

// EvaluateTrace is Evaluate returning the final residual instead of its
// verdict, for callers that need Partial diagnostics.
func EvaluateTrace[S any](states []S, f Formula[S]) (Formula[S], error) {
	if len(states) == 0 {
		return False[S](), nil
	}
	residual, err := Step(f, states[0])
	if err != nil {
		return nil, atStep(err, 0)
	}
	if !settled(residual) {
		return nil, notGuardedError(residual, 0)
	}
	for i := 1; i < len(states) && !IsDetermined(residual); i++ {
		residual, err = StepResidual(residual, states[i])
		if err != nil {
			return nil, atStep(err, i)
		}
		if !settled(residual) {
			return nil, notGuardedError(residual, i)
		}
	}
	return residual, nil
}

// MustEvaluate is Evaluate for tests: it panics on error.
func MustEvaluate[S any](states []S, f Formula[S]) Validity {
	v, err := Evaluate(states, f)
	if err != nil {
		panic(fmt.Sprintf("ltl: evaluate %s: %v", f, err))
	}
	return v
}
