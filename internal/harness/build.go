package harness

import (
	"fmt"
	"sort"

	"github.com/roach88/ltlcheck/internal/cueprop"
	"github.com/roach88/ltlcheck/internal/ltl"
	"github.com/roach88/ltlcheck/internal/snapshot"
)

// Formula is the formula type scenarios are checked with.
type Formula = ltl.Formula[snapshot.Object]

// Build compiles the scenario's props and relations with c and assembles
// the formula tree. A nil compiler gets a fresh one.
func Build(s *Scenario, c *cueprop.Compiler) (Formula, error) {
	if c == nil {
		c = cueprop.NewCompiler()
	}

	props := make(map[string]Formula, len(s.Props))
	for _, name := range sortedKeys(s.Props) {
		p, err := c.CompileProp(name, s.Props[name])
		if err != nil {
			return nil, fmt.Errorf("prop %s: %w", name, err)
		}
		props[name] = p.Formula()
	}

	relations := make(map[string]Formula, len(s.Relations))
	for _, name := range sortedKeys(s.Relations) {
		r, err := c.CompileRelation(name, s.Relations[name])
		if err != nil {
			return nil, fmt.Errorf("relation %s: %w", name, err)
		}
		relations[name] = r.Formula()
	}

	b := builder{props: props, relations: relations}
	return b.build(s.Formula)
}

type builder struct {
	props     map[string]Formula
	relations map[string]Formula
}

func (b builder) build(n *Node) (Formula, error) {
	if n == nil {
		return nil, fmt.Errorf("missing formula")
	}

	args := make([]Formula, len(n.Args))
	for i, child := range n.Args {
		f, err := b.build(child)
		if err != nil {
			return nil, err
		}
		args[i] = f
	}

	if err := checkArity(n); err != nil {
		return nil, err
	}

	switch n.Op {
	case OpTrue:
		return ltl.True[snapshot.Object](), nil
	case OpFalse:
		return ltl.False[snapshot.Object](), nil
	case OpProp:
		f, ok := b.props[n.Name]
		if !ok {
			return nil, fmt.Errorf("line %d: undefined prop %q", n.Line, n.Name)
		}
		return f, nil
	case OpRelation:
		f, ok := b.relations[n.Name]
		if !ok {
			return nil, fmt.Errorf("line %d: undefined relation %q", n.Line, n.Name)
		}
		return f, nil
	case OpAnd:
		return ltl.And(args[0], args[1], args[2:]...), nil
	case OpOr:
		return ltl.Or(args[0], args[1], args[2:]...), nil
	case OpImplies:
		return ltl.Implies(args[0], args[1]), nil
	case OpNot:
		return ltl.Not(args[0]), nil
	case OpNext:
		return ltl.Next(args[0]), nil
	case OpWeakNext:
		return ltl.WeakNext(args[0]), nil
	case OpStrongNext:
		return ltl.StrongNext(args[0]), nil
	case OpRequiredNext:
		return ltl.RequiredNext(args[0]), nil
	case OpEventually:
		return ltl.Eventually(args[0], n.Budget), nil
	case OpAlways:
		return ltl.Always(args[0], n.Budget), nil
	case OpUntil:
		return ltl.Until(args[0], args[1], n.Budget), nil
	case OpRelease:
		return ltl.Release(args[0], args[1], n.Budget), nil
	case OpUnchanged:
		return ltl.UnchangedPaths[snapshot.Object](n.Paths...), nil
	case OpChanged:
		return ltl.ChangedPaths[snapshot.Object](n.Paths...), nil
	case OpTag:
		return ltl.Tag(n.Name, args[0]), nil
	default:
		return nil, fmt.Errorf("line %d: unknown operator %q", n.Line, n.Op)
	}
}

// checkArity guards nodes built in code; decoded nodes are already checked.
func checkArity(n *Node) error {
	want := 0
	switch {
	case n.Op == OpAnd || n.Op == OpOr:
		if len(n.Args) < 2 {
			return fmt.Errorf("line %d: %s expects at least 2 formulas, got %d", n.Line, n.Op, len(n.Args))
		}
		return nil
	case n.Op == OpImplies || n.Op == OpUntil || n.Op == OpRelease:
		want = 2
	case unaryOps[n.Op] || n.Op == OpEventually || n.Op == OpAlways || n.Op == OpTag:
		want = 1
	}
	if len(n.Args) != want {
		return fmt.Errorf("line %d: %s expects %d formulas, got %d", n.Line, n.Op, want, len(n.Args))
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
