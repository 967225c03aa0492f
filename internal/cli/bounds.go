package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ltlcheck/internal/harness"
	"github.com/roach88/ltlcheck/internal/ltl"
	"github.com/roach88/ltlcheck/internal/snapshot"
)

// BoundsResult describes how much trace a scenario's formula needs.
type BoundsResult struct {
	Scenario      string `json:"scenario"`
	Formula       string `json:"formula"`
	RequiredSteps int    `json:"required_steps"`
	TraceLength   int    `json:"trace_length"`

	// Sufficient reports whether the trace is long enough for a definite
	// verdict to be possible.
	Sufficient bool `json:"sufficient"`

	Verdict      string   `json:"verdict,omitempty"`
	RequiresNext bool     `json:"requires_next"`
	Tags         []string `json:"tags,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// NewBoundsCommand creates the bounds command.
func NewBoundsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bounds <scenario>",
		Short: "Show how many states a formula needs",
		Long: `Report the minimum trace length below which the scenario's formula can
only yield a tentative verdict, and whether the scenario's own trace is
long enough.

Examples:
  ltlcheck bounds cart.yaml
  ltlcheck bounds cart.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBounds(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runBounds(opts *RootOptions, path string, cmd *cobra.Command) error {
	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	formula, err := harness.Build(scenario, nil)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build formula", err)
	}
	trace, err := scenario.LoadTrace()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load trace", err)
	}

	result := BoundsResult{
		Scenario:      scenario.Name,
		Formula:       formula.String(),
		RequiredSteps: ltl.RequiredSteps(formula),
		TraceLength:   len(trace),
	}
	result.Sufficient = result.TraceLength >= result.RequiredSteps

	if err := evaluateBounds(&result, trace, formula); err != nil {
		result.Error = err.Error()
	}

	out := opts.formatter(cmd.OutOrStdout())
	out.Printf("Scenario:       %s\n", result.Scenario)
	out.Printf("Formula:        %s\n", result.Formula)
	out.Printf("Required steps: %d\n", result.RequiredSteps)
	out.Printf("Trace length:   %d", result.TraceLength)
	if !result.Sufficient {
		out.Printf(" (too short for a definite verdict)")
	}
	out.Printf("\n")
	if result.Error != "" {
		out.Printf("Error:          %s\n", result.Error)
	} else {
		out.Printf("Verdict:        %s\n", result.Verdict)
		out.Printf("Requires next:  %t\n", result.RequiresNext)
		if len(result.Tags) > 0 {
			out.Printf("Tags:           %s\n", strings.Join(result.Tags, ", "))
		}
	}
	return out.Success(result)
}

func evaluateBounds(result *BoundsResult, trace []snapshot.Object, f harness.Formula) error {
	residual, err := ltl.EvaluateTrace(trace, f)
	if err != nil {
		return err
	}
	pv, err := ltl.Partial(residual)
	if err != nil {
		return err
	}
	result.Verdict = pv.Validity.String()
	result.RequiresNext = pv.RequiresNext
	result.Tags = pv.Tags
	return nil
}
