package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/ltlcheck/internal/ltl"
)

// ExpectationError describes one unmet expectation.
type ExpectationError struct {
	Kind     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *ExpectationError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Kind, e.Expected, e.Actual)
}

// CheckExpectations compares result with expect and records every
// mismatch on result. A nil expect passes any run that did not error.
func CheckExpectations(result *Result, expect *Expect) {
	for _, err := range checkExpectations(result, expect) {
		result.AddFailure(err.Error())
	}
}

func checkExpectations(result *Result, expect *Expect) []error {
	if expect == nil {
		if result.ErrorCode != "" {
			return []error{&ExpectationError{Kind: "error", Expected: "no error", Actual: result.Error}}
		}
		return nil
	}

	if expect.Error != "" || result.ErrorCode != "" {
		if expect.Error != result.ErrorCode {
			return []error{&ExpectationError{
				Kind:     "error",
				Expected: orNone(expect.Error),
				Actual:   orNone(result.ErrorCode),
			}}
		}
		// Verdict and tags are undefined after an error; steps up to the
		// failure are still compared.
		return checkSteps(result.Steps, expect.Steps, true)
	}

	var errs []error
	if expect.Verdict != "" {
		want, _ := ltl.ParseValidity(expect.Verdict)
		if want != result.Verdict {
			errs = append(errs, &ExpectationError{Kind: "verdict", Expected: want.String(), Actual: result.Verdict.String()})
		}
	}
	if expect.Tags != nil && !slices.Equal(normalizeTags(expect.Tags), normalizeTags(result.Tags)) {
		errs = append(errs, &ExpectationError{
			Kind:     "tags",
			Expected: formatTags(expect.Tags),
			Actual:   formatTags(result.Tags),
		})
	}
	return append(errs, checkSteps(result.Steps, expect.Steps, false)...)
}

// checkSteps compares per-step verdicts. With prefix set the run may have
// stopped early, so only the recorded steps must match.
func checkSteps(got []StepRecord, want []string, prefix bool) []error {
	if len(want) == 0 {
		return nil
	}
	var errs []error
	if len(got) != len(want) && !(prefix && len(got) < len(want)) {
		errs = append(errs, &ExpectationError{
			Kind:     "steps",
			Expected: fmt.Sprintf("%d steps", len(want)),
			Actual:   fmt.Sprintf("%d steps", len(got)),
		})
	}
	for i := 0; i < len(want) && i < len(got); i++ {
		w, _ := ltl.ParseValidity(want[i])
		if w != got[i].Validity {
			errs = append(errs, &ExpectationError{
				Kind:     fmt.Sprintf("step %d", i),
				Expected: w.String(),
				Actual:   got[i].Validity.String(),
			})
		}
	}
	return errs
}

func normalizeTags(tags []string) []string {
	out := slices.Clone(tags)
	slices.Sort(out)
	return slices.Compact(out)
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	return "[" + strings.Join(normalizeTags(tags), ", ") + "]"
}

func orNone(s string) string {
	if s == "" {
		return "no error"
	}
	return s
}
