package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/ltlcheck/internal/ltl"
)

func stepsOf(vs ...ltl.Validity) []StepRecord {
	out := make([]StepRecord, len(vs))
	for i, v := range vs {
		out[i] = StepRecord{Index: i, Validity: v}
	}
	return out
}

func TestCheckExpectations(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		expect *Expect
		want   []string
	}{
		{
			name:   "no expectation",
			result: Result{Verdict: ltl.ProbablyFalse},
		},
		{
			name:   "no expectation but an error",
			result: Result{ErrorCode: "PREDICATE", Error: "PREDICATE: boom"},
			want:   []string{"error: expected no error, got PREDICATE: boom"},
		},
		{
			name:   "verdict alias",
			result: Result{Verdict: ltl.DefinitelyTrue},
			expect: &Expect{Verdict: "dt"},
		},
		{
			name:   "verdict mismatch",
			result: Result{Verdict: ltl.ProbablyTrue},
			expect: &Expect{Verdict: "definitely-true"},
			want:   []string{"verdict: expected definitely-true, got probably-true"},
		},
		{
			name:   "tags compared as a set",
			result: Result{Verdict: ltl.DefinitelyFalse, Tags: []string{"b", "a"}},
			expect: &Expect{Verdict: "df", Tags: []string{"a", "b", "a"}},
		},
		{
			name:   "empty tags expected",
			result: Result{Verdict: ltl.DefinitelyFalse, Tags: []string{"a"}},
			expect: &Expect{Verdict: "df", Tags: []string{}},
			want:   []string{"tags: expected [], got [a]"},
		},
		{
			name:   "nil tags unchecked",
			result: Result{Verdict: ltl.DefinitelyFalse, Tags: []string{"a"}},
			expect: &Expect{Verdict: "df"},
		},
		{
			name:   "step mismatch",
			result: Result{Verdict: ltl.DefinitelyTrue, Steps: stepsOf(ltl.ProbablyFalse, ltl.DefinitelyTrue)},
			expect: &Expect{Verdict: "dt", Steps: []string{"pt", "dt"}},
			want:   []string{"step 0: expected probably-true, got probably-false"},
		},
		{
			name:   "expected error matches",
			result: Result{ErrorCode: "MISSING_PATH", Steps: stepsOf(ltl.ProbablyTrue)},
			expect: &Expect{Error: "MISSING_PATH", Steps: []string{"pt", "pt"}},
		},
		{
			name:   "expected error missing",
			result: Result{Verdict: ltl.DefinitelyTrue},
			expect: &Expect{Error: "PREDICATE"},
			want:   []string{"error: expected PREDICATE, got no error"},
		},
		{
			name:   "unexpected error",
			result: Result{ErrorCode: "MISSING_PATH"},
			expect: &Expect{Verdict: "dt"},
			want:   []string{"error: expected no error, got MISSING_PATH"},
		},
		{
			name:   "steps after an error",
			result: Result{ErrorCode: "MISSING_PATH", Steps: stepsOf(ltl.ProbablyTrue, ltl.ProbablyTrue)},
			expect: &Expect{Error: "MISSING_PATH", Steps: []string{"pt"}},
			want:   []string{"steps: expected 1 steps, got 2 steps"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.result
			result.Pass = true
			CheckExpectations(&result, tt.expect)

			assert.Equal(t, tt.want, result.Failures)
			assert.Equal(t, len(tt.want) == 0, result.Pass)
		})
	}
}
