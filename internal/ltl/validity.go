package ltl

import (
	"fmt"
	"strings"
)

// Validity is a four-valued verdict: {Definitely, Probably} x {True, False}.
type Validity int

const (
	DefinitelyFalse Validity = iota
	ProbablyFalse
	ProbablyTrue
	DefinitelyTrue
)

// Definitely returns the definite verdict for b.
func Definitely(b bool) Validity {
	if b {
		return DefinitelyTrue
	}
	return DefinitelyFalse
}

// Probably returns the tentative verdict for b.
func Probably(b bool) Validity {
	if b {
		return ProbablyTrue
	}
	return ProbablyFalse
}

// Value returns the boolean component.
func (v Validity) Value() bool {
	return v == DefinitelyTrue || v == ProbablyTrue
}

// IsDefinite reports whether the verdict can no longer change.
func (v Validity) IsDefinite() bool {
	return v == DefinitelyTrue || v == DefinitelyFalse
}

// And is four-valued conjunction: DefinitelyFalse dominates, then
// ProbablyFalse, and the result is DefinitelyTrue only when both are.
func (v Validity) And(w Validity) Validity {
	switch {
	case v == DefinitelyTrue && w == DefinitelyTrue:
		return DefinitelyTrue
	case v == DefinitelyFalse || w == DefinitelyFalse:
		return DefinitelyFalse
	case v == ProbablyFalse || w == ProbablyFalse:
		return ProbablyFalse
	default:
		return ProbablyTrue
	}
}

// Or is four-valued disjunction: DefinitelyTrue dominates, then
// ProbablyTrue, and the result is DefinitelyFalse only when both are.
func (v Validity) Or(w Validity) Validity {
	switch {
	case v == DefinitelyTrue || w == DefinitelyTrue:
		return DefinitelyTrue
	case v == ProbablyTrue || w == ProbablyTrue:
		return ProbablyTrue
	case v == ProbablyFalse || w == ProbablyFalse:
		return ProbablyFalse
	default:
		return DefinitelyFalse
	}
}

// Not flips the boolean component and keeps the confidence.
func (v Validity) Not() Validity {
	switch v {
	case DefinitelyTrue:
		return DefinitelyFalse
	case ProbablyTrue:
		return ProbablyFalse
	case ProbablyFalse:
		return ProbablyTrue
	default:
		return DefinitelyTrue
	}
}

var validityNames = map[Validity]string{
	DefinitelyTrue:  "definitely-true",
	ProbablyTrue:    "probably-true",
	ProbablyFalse:   "probably-false",
	DefinitelyFalse: "definitely-false",
}

// String returns the kebab-case name, e.g. "probably-true".
func (v Validity) String() string {
	if s, ok := validityNames[v]; ok {
		return s
	}
	return fmt.Sprintf("validity(%d)", int(v))
}

// MarshalText implements encoding.TextMarshaler.
func (v Validity) MarshalText() ([]byte, error) {
	s, ok := validityNames[v]
	if !ok {
		return nil, fmt.Errorf("invalid validity %d", int(v))
	}
	return []byte(s), nil
}

// UnmarshalText accepts the kebab-case names and the abbreviations
// DT, PT, PF and DF.
func (v *Validity) UnmarshalText(text []byte) error {
	parsed, err := ParseValidity(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseValidity parses a verdict name.
func ParseValidity(s string) (Validity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "definitely-true", "dt":
		return DefinitelyTrue, nil
	case "probably-true", "pt":
		return ProbablyTrue, nil
	case "probably-false", "pf":
		return ProbablyFalse, nil
	case "definitely-false", "df":
		return DefinitelyFalse, nil
	}
	return 0, fmt.Errorf("unknown validity %q", s)
}

// PartialValidity is the verdict after a consumed state.
type PartialValidity struct {
	// Validity is the verdict on the prefix seen so far.
	Validity Validity `json:"validity"`

	// RequiresNext is true while a RequiredNext obligation is outstanding,
	// i.e. a tentative verdict is due to the trace being too short.
	RequiresNext bool `json:"requires_next"`

	// Tags are the blame labels of the clauses responsible for a false
	// verdict. Empty for true verdicts.
	Tags []string `json:"tags,omitempty"`
}
