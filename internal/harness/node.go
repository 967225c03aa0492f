package harness

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Formula node operators. Each maps onto one ltl constructor.
const (
	OpTrue         = "true"
	OpFalse        = "false"
	OpProp         = "prop"
	OpRelation     = "relation"
	OpAnd          = "and"
	OpOr           = "or"
	OpImplies      = "implies"
	OpNot          = "not"
	OpNext         = "next"
	OpWeakNext     = "weak_next"
	OpStrongNext   = "strong_next"
	OpRequiredNext = "required_next"
	OpEventually   = "eventually"
	OpAlways       = "always"
	OpUntil        = "until"
	OpRelease      = "release"
	OpUnchanged    = "unchanged"
	OpChanged      = "changed"
	OpTag          = "tag"
)

// Node is one operator of a scenario formula. In YAML a node is either the
// scalar true/false or a single-key mapping from operator to arguments:
//
//	prop: open                                  # named CUE proposition
//	relation: increments                        # named CUE relation
//	and: [<node>, <node>, ...]                  # also: or
//	implies: [<antecedent>, <consequent>]
//	not: <node>                                 # also: next, weak_next, strong_next, required_next
//	eventually: {budget: 2, term: <node>}       # also: always
//	until: {budget: 1, condition: <node>, term: <node>}   # also: release
//	unchanged: [items, count]                   # also: changed; a single path may be a scalar
//	tag: {label: monotonic, term: <node>}
type Node struct {
	Op string
	// Name is the prop or relation name, or the tag label.
	Name   string
	Budget int
	// Args holds the operands. until/release store [condition, term].
	Args  []*Node
	Paths []string

	Line   int
	Column int
}

var unaryOps = map[string]bool{
	OpNot: true, OpNext: true, OpWeakNext: true, OpStrongNext: true, OpRequiredNext: true,
}

// UnmarshalYAML decodes a node strictly: unknown operators and unknown
// argument keys are errors.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	n.Line, n.Column = value.Line, value.Column

	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag != "!!bool" {
			return nodeErrorf(value, "expected true, false or an operator mapping, got %q", value.Value)
		}
		b, err := strconv.ParseBool(value.Value)
		if err != nil {
			return nodeErrorf(value, "invalid boolean %q", value.Value)
		}
		n.Op = OpFalse
		if b {
			n.Op = OpTrue
		}
		return nil
	case yaml.MappingNode:
	default:
		return nodeErrorf(value, "expected true, false or an operator mapping")
	}

	if len(value.Content) != 2 {
		return nodeErrorf(value, "a formula node must have exactly one operator, got %d", len(value.Content)/2)
	}
	n.Op = value.Content[0].Value
	arg := value.Content[1]

	switch {
	case n.Op == OpProp || n.Op == OpRelation:
		return decodeName(arg, &n.Name)
	case n.Op == OpAnd || n.Op == OpOr:
		return n.decodeOperands(arg, 2, -1)
	case n.Op == OpImplies:
		return n.decodeOperands(arg, 2, 2)
	case unaryOps[n.Op]:
		child := new(Node)
		if err := arg.Decode(child); err != nil {
			return err
		}
		n.Args = []*Node{child}
		return nil
	case n.Op == OpEventually || n.Op == OpAlways:
		return n.decodeFields(arg, "budget", "term")
	case n.Op == OpUntil || n.Op == OpRelease:
		return n.decodeFields(arg, "budget", "condition", "term")
	case n.Op == OpTag:
		return n.decodeFields(arg, "label", "term")
	case n.Op == OpUnchanged || n.Op == OpChanged:
		return n.decodePaths(arg)
	default:
		return nodeErrorf(value.Content[0], "unknown operator %q", n.Op)
	}
}

func (n *Node) decodeOperands(arg *yaml.Node, min, max int) error {
	if arg.Kind != yaml.SequenceNode {
		return nodeErrorf(arg, "%s expects a list of formulas", n.Op)
	}
	count := len(arg.Content)
	if count < min || (max > 0 && count > max) {
		if min == max {
			return nodeErrorf(arg, "%s expects exactly %d formulas, got %d", n.Op, min, count)
		}
		return nodeErrorf(arg, "%s expects at least %d formulas, got %d", n.Op, min, count)
	}
	for _, item := range arg.Content {
		child := new(Node)
		if err := item.Decode(child); err != nil {
			return err
		}
		n.Args = append(n.Args, child)
	}
	return nil
}

// decodeFields reads a mapping whose keys must be drawn from allowed.
// "term" is mandatory; "condition" is mandatory when allowed.
func (n *Node) decodeFields(arg *yaml.Node, allowed ...string) error {
	if arg.Kind != yaml.MappingNode {
		return nodeErrorf(arg, "%s expects a mapping with keys %v", n.Op, allowed)
	}
	known := make(map[string]bool, len(allowed))
	for _, k := range allowed {
		known[k] = true
	}

	var condition, term *Node
	for i := 0; i < len(arg.Content); i += 2 {
		key, val := arg.Content[i], arg.Content[i+1]
		if !known[key.Value] {
			return nodeErrorf(key, "field %s not found in %s", key.Value, n.Op)
		}
		switch key.Value {
		case "budget":
			if err := val.Decode(&n.Budget); err != nil {
				return nodeErrorf(val, "%s budget must be an integer", n.Op)
			}
			if n.Budget < 0 {
				return nodeErrorf(val, "%s budget must be non-negative, got %d", n.Op, n.Budget)
			}
		case "label":
			if err := decodeName(val, &n.Name); err != nil {
				return err
			}
		case "condition":
			condition = new(Node)
			if err := val.Decode(condition); err != nil {
				return err
			}
		case "term":
			term = new(Node)
			if err := val.Decode(term); err != nil {
				return err
			}
		}
	}

	if term == nil {
		return nodeErrorf(arg, "%s requires a term", n.Op)
	}
	if known["condition"] {
		if condition == nil {
			return nodeErrorf(arg, "%s requires a condition", n.Op)
		}
		n.Args = []*Node{condition, term}
		return nil
	}
	if known["label"] && n.Name == "" {
		return nodeErrorf(arg, "%s requires a label", n.Op)
	}
	n.Args = []*Node{term}
	return nil
}

func (n *Node) decodePaths(arg *yaml.Node) error {
	switch arg.Kind {
	case yaml.ScalarNode:
		var p string
		if err := decodeName(arg, &p); err != nil {
			return err
		}
		n.Paths = []string{p}
	case yaml.SequenceNode:
		if len(arg.Content) == 0 {
			return nodeErrorf(arg, "%s expects at least one path", n.Op)
		}
		for _, item := range arg.Content {
			var p string
			if err := decodeName(item, &p); err != nil {
				return err
			}
			n.Paths = append(n.Paths, p)
		}
	default:
		return nodeErrorf(arg, "%s expects a path or a list of paths", n.Op)
	}
	return nil
}

func decodeName(arg *yaml.Node, out *string) error {
	if arg.Kind != yaml.ScalarNode || arg.Value == "" {
		return nodeErrorf(arg, "expected a non-empty name")
	}
	*out = arg.Value
	return nil
}

// walk visits n and its operands depth first.
func (n *Node) walk(fn func(*Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	for _, child := range n.Args {
		if err := child.walk(fn); err != nil {
			return err
		}
	}
	return nil
}

func nodeErrorf(at *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("line %d: %s", at.Line, fmt.Sprintf(format, args...))
}
