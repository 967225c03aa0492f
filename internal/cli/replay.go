package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ltlcheck/internal/harness"
	"github.com/roach88/ltlcheck/internal/ltl"
	"github.com/roach88/ltlcheck/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - one run only
}

// ReplayRunResult is the re-evaluation of one recorded run.
type ReplayRunResult struct {
	RunID    string `json:"run_id"`
	Stored   string `json:"stored"`
	Replayed string `json:"replayed"`

	// ScenarioChanged is set when the scenario file differs from the one
	// the run was recorded with.
	ScenarioChanged bool `json:"scenario_changed"`
	Match           bool `json:"match"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Scenario string            `json:"scenario"`
	Runs     []ReplayRunResult `json:"runs"`
	AllMatch bool              `json:"all_match"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <scenario>",
		Short: "Re-evaluate recorded traces",
		Long: `Re-evaluate the traces recorded for a scenario against its current
formula and compare with the stored verdicts. Use it after changing a
formula or upgrading ltlcheck to see which recorded runs would now be
judged differently.

Exit codes:
  0 - Every replayed verdict matches
  1 - At least one verdict differs
  2 - Command error (database not found, run not found, etc.)

Examples:
  ltlcheck replay cart.yaml --db ./runs.db
  ltlcheck replay cart.yaml --db ./runs.db --run 0190a1b2-...`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "replay a single run")

	return cmd
}

func runReplay(ctx context.Context, opts *ReplayOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	formula, err := harness.Build(scenario, nil)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build formula", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	runs, err := replayTargets(ctx, st, scenario.Name, opts.RunID)
	if err != nil {
		return err
	}

	result := ReplayResult{
		Scenario: scenario.Name,
		Runs:     make([]ReplayRunResult, 0, len(runs)),
		AllMatch: true,
	}
	logger := opts.logger()
	for _, run := range runs {
		rr, err := replayRun(ctx, st, run, scenario, formula)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay run %s", run.ID), err)
		}
		if rr.ScenarioChanged {
			logger.Warn("scenario changed since run was recorded", "run", run.ID)
		}
		result.Runs = append(result.Runs, rr)
		result.AllMatch = result.AllMatch && rr.Match
	}

	out := opts.formatter(cmd.OutOrStdout())
	out.Printf("Replay Summary: %d run(s) of %s\n\n", len(result.Runs), result.Scenario)
	for _, rr := range result.Runs {
		status := "✓"
		if !rr.Match {
			status = "✗"
		}
		out.Printf("%s %s: stored %s, replayed %s", status, rr.RunID, rr.Stored, rr.Replayed)
		if rr.ScenarioChanged {
			out.Printf(" (scenario changed)")
		}
		out.Printf("\n")
	}

	if !result.AllMatch {
		out.Printf("\n✗ Replayed verdicts differ from the stored ones\n")
		if err := out.Failure("E_VERDICT_CHANGED", "replayed verdicts differ", result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "replayed verdicts differ")
	}
	out.Printf("\n✓ All replayed verdicts match\n")
	return out.Success(result)
}

// replayTargets returns the runs to replay. Runs stopped by an evaluation
// error are skipped: the state that failed is not recorded.
func replayTargets(ctx context.Context, st *store.Store, scenario, runID string) ([]store.Run, error) {
	if runID != "" {
		run, err := st.GetRun(ctx, runID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", runID))
		}
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to read run", err)
		}
		if run.Error != "" || !run.Finished {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("run %s did not complete and cannot be replayed", runID))
		}
		if run.Scenario != scenario {
			return nil, NewExitError(ExitCommandError,
				fmt.Sprintf("run %s belongs to scenario %q, not %q", runID, run.Scenario, scenario))
		}
		return []store.Run{run}, nil
	}

	runs, err := st.ListRuns(ctx, scenario, 0)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	finished := runs[:0]
	for _, r := range runs {
		if r.Finished && r.Error == "" {
			finished = append(finished, r)
		}
	}
	return finished, nil
}

func replayRun(ctx context.Context, st *store.Store, run store.Run, scenario *harness.Scenario, f harness.Formula) (ReplayRunResult, error) {
	trace, err := st.ReadTrace(ctx, run.ID)
	if err != nil {
		return ReplayRunResult{}, err
	}

	v, err := ltl.Evaluate(trace, f)
	if err != nil {
		return ReplayRunResult{}, err
	}
	rr := ReplayRunResult{
		RunID:           run.ID,
		Stored:          run.Verdict.String(),
		Replayed:        v.String(),
		ScenarioChanged: run.ScenarioHash != scenario.Hash(),
	}
	rr.Match = rr.Stored == rr.Replayed
	return rr, nil
}
