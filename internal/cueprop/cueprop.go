// Package cueprop compiles CUE constraints into ltl propositions over
// snapshot states.
//
// A proposition is a CUE struct unified with the state: the state
// satisfies it when the unification is concrete and error free and every
// field the constraint names is present in the state.
//
//	count: >=0
//	status: "open" | "closed"
//
// A relation constrains two consecutive states bound to prev and next:
//
//	next: count: prev.count + 1
package cueprop

import (
	"fmt"
	"reflect"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/ltlcheck/internal/ltl"
	"github.com/roach88/ltlcheck/internal/snapshot"
)

// Compiler owns the CUE context that propositions are built in.
// CUE values are not safe for concurrent use, so every evaluation of a
// proposition from this compiler is serialized.
type Compiler struct {
	mu  sync.Mutex
	ctx *cue.Context
}

// NewCompiler creates a compiler with a fresh CUE context.
func NewCompiler() *Compiler {
	return &Compiler{ctx: cuecontext.New()}
}

// Prop is a compiled state proposition.
type Prop struct {
	name  string
	c     *Compiler
	value cue.Value
}

// Relation is a compiled two-state relation.
type Relation struct {
	name  string
	c     *Compiler
	value cue.Value
}

// CompileProp compiles a state constraint.
func (c *Compiler) CompileProp(name, src string) (*Prop, error) {
	v, err := c.compile(name, src)
	if err != nil {
		return nil, err
	}
	return &Prop{name: name, c: c, value: v}, nil
}

// CompileRelation compiles a constraint over the fields prev and next.
func (c *Compiler) CompileRelation(name, src string) (*Relation, error) {
	v, err := c.compile(name, "prev: _\nnext: _\n"+src)
	if err != nil {
		return nil, err
	}
	return &Relation{name: name, c: c, value: v}, nil
}

func (c *Compiler) compile(name, src string) (cue.Value, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.ctx.CompileString(src, cue.Filename(name+".cue"))
	if err := v.Err(); err != nil {
		return cue.Value{}, formatCUEError(name, err)
	}
	if v.IncompleteKind() != cue.StructKind {
		return cue.Value{}, &CompileError{
			Name:    name,
			Message: fmt.Sprintf("constraint must be a struct, got %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
	return v, nil
}

var marshalUnified = func(v cue.Value) ([]byte, error) { return v.MarshalJSON() }

// satisfied unifies constraint with data and reports whether the result
// is concrete and valid and adds no fields that data lacks: "x: 2" does
// not match a state without x.
func (c *Compiler) satisfied(constraint cue.Value, data snapshot.Object) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dv := c.ctx.Encode(data.ToAny())
	if err := dv.Err(); err != nil {
		return false, fmt.Errorf("encode state: %w", err)
	}
	unified := constraint.Unify(dv)
	if unified.Validate(cue.Concrete(true)) != nil {
		return false, nil
	}

	out, err := marshalUnified(unified)
	if err != nil {
		return false, fmt.Errorf("encode unified state: %w", err)
	}
	got, err := snapshot.ParseObject(out)
	if err != nil {
		return false, fmt.Errorf("decode unified state: %w", err)
	}
	return reflect.DeepEqual(got, data), nil
}

// Name returns the proposition's name.
func (p *Prop) Name() string { return p.name }

// Matches reports whether state satisfies the proposition.
func (p *Prop) Matches(state snapshot.Object) (bool, error) {
	return p.c.satisfied(p.value, state)
}

// Formula lifts the proposition into a state predicate.
func (p *Prop) Formula() ltl.Formula[snapshot.Object] {
	return ltl.PropErr(p.name, p.Matches)
}

// Name returns the relation's name.
func (r *Relation) Name() string { return r.name }

// Holds reports whether the pair of consecutive states satisfies the
// relation.
func (r *Relation) Holds(prev, next snapshot.Object) (bool, error) {
	return r.c.satisfied(r.value, snapshot.Object{"prev": prev, "next": next})
}

// Formula lifts the relation into a comparison.
func (r *Relation) Formula() ltl.Formula[snapshot.Object] {
	return ltl.NamedComparison(r.name, r.Holds)
}

// CompileError is a CUE compilation error with source position.
type CompileError struct {
	Name    string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(name string, err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &CompileError{Name: name, Message: err.Error()}
	}
	first := errs[0]
	ce := &CompileError{Name: name, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		ce.Pos = positions[0]
	}
	return ce
}
