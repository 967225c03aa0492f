package ltl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type obj = map[string]any

func TestUnchangedPaths_Maps(t *testing.T) {
	f := UnchangedPaths[obj]("a", "b.c")

	same := []obj{
		{"a": 1, "b": obj{"c": 2}},
		{"a": 1, "b": obj{"c": 2}},
	}
	v, err := Evaluate(same, f)
	require.NoError(t, err)
	assert.Equal(t, DT, v)

	changed := []obj{
		{"a": 1, "b": obj{"c": 2}},
		{"a": 1, "b": obj{"c": 3}},
	}
	v, err = Evaluate(changed, f)
	require.NoError(t, err)
	assert.Equal(t, DF, v)
}

func TestUnchangedPaths_MissingPath(t *testing.T) {
	f := UnchangedPaths[obj]("a", "b.c")
	trace := []obj{
		{"a": 1, "b": obj{"c": 2}},
		{"a": 1, "b": obj{}},
	}

	_, err := Evaluate(trace, f)
	require.Error(t, err)
	assert.True(t, IsPathError(err))

	var ee *EvalError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "b.c", ee.Path)
	assert.Equal(t, 1, ee.Step)
}

func TestChangedPaths(t *testing.T) {
	f := ChangedPaths[obj]("a", "b")

	v, err := Evaluate([]obj{{"a": 1, "b": 1}, {"a": 1, "b": 2}}, f)
	require.NoError(t, err)
	assert.Equal(t, DT, v)

	v, err = Evaluate([]obj{{"a": 1, "b": 1}, {"a": 1, "b": 1}}, f)
	require.NoError(t, err)
	assert.Equal(t, DF, v)
}

func TestUnchangedPaths_DeepEquality(t *testing.T) {
	f := UnchangedPaths[obj]("items")
	trace := []obj{
		{"items": []any{obj{"id": 1}, obj{"id": 2}}},
		{"items": []any{obj{"id": 1}, obj{"id": 2}}},
	}

	v, err := Evaluate(trace, f)
	require.NoError(t, err)
	assert.Equal(t, DT, v)
}

type todo struct {
	Title string `json:"title"`
	Done  bool
	notes string
}

type todoState struct {
	Items  []todo `json:"items"`
	Filter *string
}

func TestUnchangedPaths_Structs(t *testing.T) {
	all := "all"
	before := todoState{Items: []todo{{Title: "a"}, {Title: "b"}}, Filter: &all}
	after := todoState{Items: []todo{{Title: "a", Done: true}, {Title: "b"}}, Filter: &all}

	tests := []struct {
		name string
		path string
		want Validity
	}{
		{"json tag and index", "items.0.title", DT},
		{"field name", "items.0.Done", DF},
		{"pointer", "Filter", DT},
		{"second element", "items.1", DT},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Evaluate([]todoState{before, after}, UnchangedPaths[todoState](tt.path))
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestUnchangedPaths_StructMissing(t *testing.T) {
	for _, path := range []string{"items.5", "items.0.notes", "nope", "items.x"} {
		_, err := Evaluate([]todoState{{Items: []todo{{}}}, {Items: []todo{{}}}}, UnchangedPaths[todoState](path))
		assert.True(t, IsPathError(err), path)
	}
}

type resolverState struct {
	values map[string]int
}

func (r resolverState) ResolvePath(segments []string) (any, bool) {
	if len(segments) != 1 {
		return nil, false
	}
	v, ok := r.values[segments[0]]
	return v, ok
}

func TestUnchangedPaths_PathResolver(t *testing.T) {
	f := UnchangedPaths[resolverState]("count")
	a := resolverState{values: map[string]int{"count": 1}}
	b := resolverState{values: map[string]int{"count": 2}}

	v, err := Evaluate([]resolverState{a, a}, f)
	require.NoError(t, err)
	assert.Equal(t, DT, v)

	v, err = Evaluate([]resolverState{a, b}, f)
	require.NoError(t, err)
	assert.Equal(t, DF, v)

	_, err = Evaluate([]resolverState{a, {}}, f)
	assert.True(t, IsPathError(err))
}

func TestUnchangedPaths_String(t *testing.T) {
	assert.Equal(t, "unchanged(a,b.c)", UnchangedPaths[obj]("a", "b.c").String())
	assert.Equal(t, "changed(x)", ChangedPaths[obj]("x").String())
}
