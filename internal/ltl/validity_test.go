package ltl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const (
	DT = DefinitelyTrue
	PT = ProbablyTrue
	PF = ProbablyFalse
	DF = DefinitelyFalse
)

var allValidities = []Validity{DT, PT, PF, DF}

func TestValidity_AndTable(t *testing.T) {
	tests := []struct {
		a, b, want Validity
	}{
		{DT, DT, DT}, {DT, PT, PT}, {DT, PF, PF}, {DT, DF, DF},
		{PT, DT, PT}, {PT, PT, PT}, {PT, PF, PF}, {PT, DF, DF},
		{PF, DT, PF}, {PF, PT, PF}, {PF, PF, PF}, {PF, DF, DF},
		{DF, DT, DF}, {DF, PT, DF}, {DF, PF, DF}, {DF, DF, DF},
	}
	for _, tt := range tests {
		t.Run(tt.a.String()+"_and_"+tt.b.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.And(tt.b))
		})
	}
}

func TestValidity_OrTable(t *testing.T) {
	tests := []struct {
		a, b, want Validity
	}{
		{DT, DT, DT}, {DT, PT, DT}, {DT, PF, DT}, {DT, DF, DT},
		{PT, DT, DT}, {PT, PT, PT}, {PT, PF, PT}, {PT, DF, PT},
		{PF, DT, DT}, {PF, PT, PT}, {PF, PF, PF}, {PF, DF, PF},
		{DF, DT, DT}, {DF, PT, PT}, {DF, PF, PF}, {DF, DF, DF},
	}
	for _, tt := range tests {
		t.Run(tt.a.String()+"_or_"+tt.b.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Or(tt.b))
		})
	}
}

func TestValidity_Not(t *testing.T) {
	assert.Equal(t, DF, DT.Not())
	assert.Equal(t, PF, PT.Not())
	assert.Equal(t, PT, PF.Not())
	assert.Equal(t, DT, DF.Not())
}

func TestValidity_Laws(t *testing.T) {
	gen := rapid.SampledFrom(allValidities)
	rapid.Check(t, func(t *rapid.T) {
		a := gen.Draw(t, "a")
		b := gen.Draw(t, "b")
		c := gen.Draw(t, "c")

		if a.And(b) != b.And(a) {
			t.Fatalf("And not commutative for %s, %s", a, b)
		}
		if a.Or(b) != b.Or(a) {
			t.Fatalf("Or not commutative for %s, %s", a, b)
		}
		if a.And(b.And(c)) != a.And(b).And(c) {
			t.Fatalf("And not associative for %s, %s, %s", a, b, c)
		}
		if a.Or(b.Or(c)) != a.Or(b).Or(c) {
			t.Fatalf("Or not associative for %s, %s, %s", a, b, c)
		}
		if a.Not().Not() != a {
			t.Fatalf("Not not involutive for %s", a)
		}
		if a.And(b).Not() != a.Not().Or(b.Not()) {
			t.Fatalf("De Morgan (and) fails for %s, %s", a, b)
		}
		if a.Or(b).Not() != a.Not().And(b.Not()) {
			t.Fatalf("De Morgan (or) fails for %s, %s", a, b)
		}
	})
}

func TestValidity_Components(t *testing.T) {
	assert.True(t, DT.Value())
	assert.True(t, PT.Value())
	assert.False(t, PF.Value())
	assert.False(t, DF.Value())

	assert.True(t, DT.IsDefinite())
	assert.False(t, PT.IsDefinite())
	assert.False(t, PF.IsDefinite())
	assert.True(t, DF.IsDefinite())

	assert.Equal(t, DT, Definitely(true))
	assert.Equal(t, PF, Probably(false))
}

func TestValidity_TextRoundTrip(t *testing.T) {
	for _, v := range allValidities {
		text, err := v.MarshalText()
		require.NoError(t, err)

		var got Validity
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, v, got)
	}
}

func TestParseValidity(t *testing.T) {
	tests := []struct {
		in   string
		want Validity
	}{
		{"definitely-true", DT},
		{"probably-false", PF},
		{"DT", DT},
		{" pt ", PT},
		{"df", DF},
	}
	for _, tt := range tests {
		got, err := ParseValidity(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseValidity("maybe")
	assert.Error(t, err)
}

func TestValidity_StringUnknown(t *testing.T) {
	assert.Equal(t, "validity(7)", Validity(7).String())
	_, err := Validity(7).MarshalText()
	assert.Error(t, err)
}
