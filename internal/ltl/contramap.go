package ltl

import "fmt"

// Contramap turns a formula over B into a formula over A by projecting
// every state through project. Tags and budgets are preserved.
//
// Evaluating Contramap(project, f) on a trace of A equals evaluating f on
// the projected trace. It is how a single invariant is replicated across
// the elements of a collection:
//
//	ltl.And(
//		ltl.Contramap(func(s State) Item { return s.Items[0] }, itemInvariant),
//		ltl.Contramap(func(s State) Item { return s.Items[1] }, itemInvariant),
//	)
func Contramap[A, B any](project func(A) B, f Formula[B]) Formula[A] {
	n := node{tags: f.ownTags()}
	switch f := f.(type) {
	case trueNode[B]:
		return trueNode[A]{node: n}
	case falseNode[B]:
		return falseNode[A]{node: n}
	case predNode[B]:
		fn := f.fn
		return predNode[A]{node: n, name: f.name, fn: func(a A) (bool, error) { return fn(project(a)) }}
	case comparisonNode[B]:
		fn := f.fn
		return comparisonNode[A]{node: n, name: f.name, fn: func(prev, next A) (bool, error) {
			return fn(project(prev), project(next))
		}}
	case andNode[B]:
		return andNode[A]{node: n, left: Contramap(project, f.left), right: Contramap(project, f.right)}
	case orNode[B]:
		return orNode[A]{node: n, left: Contramap(project, f.left), right: Contramap(project, f.right)}
	case impliesNode[B]:
		return impliesNode[A]{node: n, antecedent: Contramap(project, f.antecedent), consequent: Contramap(project, f.consequent)}
	case notNode[B]:
		return notNode[A]{node: n, term: Contramap(project, f.term)}
	case bindNode[B]:
		fn := f.fn
		return bindNode[A]{node: n, fn: func(a A) Formula[A] {
			g := fn(project(a))
			if g == nil {
				return nil
			}
			return Contramap(project, g)
		}}
	case eventuallyNode[B]:
		return eventuallyNode[A]{node: n, term: Contramap(project, f.term), budget: f.budget}
	case alwaysNode[B]:
		return alwaysNode[A]{node: n, term: Contramap(project, f.term), budget: f.budget}
	case untilNode[B]:
		return untilNode[A]{node: n, condition: Contramap(project, f.condition), term: Contramap(project, f.term), budget: f.budget}
	case releaseNode[B]:
		return releaseNode[A]{node: n, condition: Contramap(project, f.condition), term: Contramap(project, f.term), budget: f.budget}
	case nextNode[B]:
		return nextNode[A]{node: n, kind: f.kind, term: Contramap(project, f.term)}
	}
	panic(fmt.Sprintf("ltl: contramap: unknown formula type %T", f))
}
