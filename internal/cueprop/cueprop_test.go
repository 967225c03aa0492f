package cueprop

import (
	"errors"
	"testing"

	"cuelang.org/go/cue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ltlcheck/internal/ltl"
	"github.com/roach88/ltlcheck/internal/snapshot"
)

func state(count int64, status string) snapshot.Object {
	return snapshot.Object{
		"count":  snapshot.Int(count),
		"status": snapshot.String(status),
	}
}

func TestProp_Matches(t *testing.T) {
	c := NewCompiler()
	p, err := c.CompileProp("open_nonneg", `
count: >=0
status: "open" | "pending"
`)
	require.NoError(t, err)
	assert.Equal(t, "open_nonneg", p.Name())

	tests := []struct {
		name  string
		state snapshot.Object
		want  bool
	}{
		{"satisfied", state(3, "open"), true},
		{"other disjunct", state(0, "pending"), true},
		{"bound violated", state(-1, "open"), false},
		{"enum violated", state(1, "closed"), false},
		{"field missing", snapshot.Object{"status": snapshot.String("open")}, false},
		{"extra fields allowed", snapshot.Object{"count": snapshot.Int(1), "status": snapshot.String("open"), "x": snapshot.Bool(true)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Matches(tt.state)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProp_Nested(t *testing.T) {
	c := NewCompiler()
	p, err := c.CompileProp("first_item_done", `items: [{done: true}, ...]`)
	require.NoError(t, err)

	ok, err := p.Matches(snapshot.Object{"items": snapshot.Array{
		snapshot.Object{"done": snapshot.Bool(true), "title": snapshot.String("a")},
		snapshot.Object{"done": snapshot.Bool(false)},
	}})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Matches(snapshot.Object{"items": snapshot.Array{}})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProp_DoesNotFillMissingFields(t *testing.T) {
	c := NewCompiler()
	p, err := c.CompileProp("at_two", `x: 2`)
	require.NoError(t, err)

	ok, err := p.Matches(snapshot.Object{"y": snapshot.Int(1)})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = p.Matches(snapshot.Object{"x": snapshot.Int(2), "y": snapshot.Null{}})
	require.NoError(t, err)
	assert.True(t, ok)

	r, err := c.CompileRelation("same_x", `next: x: prev.x`)
	require.NoError(t, err)
	ok, err = r.Holds(snapshot.Object{"x": snapshot.Int(1)}, snapshot.Object{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRelation_Holds(t *testing.T) {
	c := NewCompiler()
	r, err := c.CompileRelation("increments", `next: count: prev.count + 1`)
	require.NoError(t, err)

	ok, err := r.Holds(state(1, "open"), state(2, "open"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Holds(state(1, "open"), state(3, "open"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = r.Holds(snapshot.Object{}, state(3, "open"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompile_Errors(t *testing.T) {
	c := NewCompiler()

	_, err := c.CompileProp("broken", `count: >=`)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "broken", ce.Name)

	_, err = c.CompileProp("scalar", `42`)
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Message, "must be a struct")

	_, err = c.CompileRelation("unbound", `next: count: nowhere.count`)
	assert.Error(t, err)
}

func TestFormulas(t *testing.T) {
	c := NewCompiler()
	nonneg, err := c.CompileProp("nonneg", `count: >=0`)
	require.NoError(t, err)
	steady, err := c.CompileRelation("steady_or_up", `next: count: >=prev.count`)
	require.NoError(t, err)

	f := ltl.Always(ltl.And(nonneg.Formula(), steady.Formula()), 0)

	trace := []snapshot.Object{state(0, "a"), state(0, "a"), state(2, "a")}
	v, err := ltl.Evaluate(trace, f)
	require.NoError(t, err)
	assert.Equal(t, ltl.ProbablyTrue, v)

	trace = append(trace, state(1, "a"))
	v, err = ltl.Evaluate(trace, f)
	require.NoError(t, err)
	assert.Equal(t, ltl.DefinitelyFalse, v)

	assert.Equal(t, "always[0]((nonneg && steady_or_up))", f.String())
}

func TestProp_EncodeErrorIsReported(t *testing.T) {
	c := NewCompiler()
	p, err := c.CompileProp("open", `status: "open"`)
	require.NoError(t, err)

	boom := errors.New("boom")
	orig := marshalUnified
	marshalUnified = func(cue.Value) ([]byte, error) { return nil, boom }
	t.Cleanup(func() { marshalUnified = orig })

	_, err = p.Matches(state(1, "open"))
	assert.ErrorIs(t, err, boom)

	_, err = ltl.Evaluate([]snapshot.Object{state(1, "open")}, p.Formula())
	var ee *ltl.EvalError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, ltl.ErrCodePredicate, ee.Code)
	assert.ErrorIs(t, err, boom)
}
