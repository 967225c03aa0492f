package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want string
	}{
		{"null", Null{}, `null`},
		{"int", Int(-42), `-42`},
		{"bool", Bool(true), `true`},
		{"no html escaping", String("<a&b>"), `"<a&b>"`},
		{"control characters", String("a\nb\u0001"), `"a\nb\u0001"`},
		{"quote and backslash", String(`"\`), `"\"\\"`},
		{"line separator literal", String("x\u2028y"), "\"x\u2028y\""},
		{"sorted keys", Object{"b": Int(2), "a": Int(1)}, `{"a":1,"b":2}`},
		{"nested", Object{"x": Array{Object{"z": Null{}, "y": Bool(false)}}}, `{"x":[{"y":false,"z":null}]}`},
		{"empty object", Object{}, `{}`},
		{"empty array", Array{}, `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalCanonical_NFC(t *testing.T) {
	composed := String("caf\u00e9")
	decomposed := String("cafe\u0301")

	a, err := MarshalCanonical(composed)
	require.NoError(t, err)
	b, err := MarshalCanonical(decomposed)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestHash(t *testing.T) {
	a := Object{"x": Int(1), "y": String("café")}
	b := Object{"y": String("café"), "x": Int(1)}
	c := Object{"x": Int(2), "y": String("café")}

	ha := MustHash(a)
	assert.Len(t, ha, 64)
	assert.Equal(t, ha, MustHash(b))
	assert.NotEqual(t, ha, MustHash(c))
}

func TestHashBytes_DomainSeparated(t *testing.T) {
	data := []byte(`{"x":1}`)
	assert.NotEqual(t, HashBytes(DomainScenario, data), HashBytes(DomainSnapshot, data))

	obj := Object{"x": Int(1)}
	assert.Equal(t, MustHash(obj), HashBytes(DomainSnapshot, data))
}
