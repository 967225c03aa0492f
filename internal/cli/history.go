package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ltlcheck/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Scenario string // only runs of this scenario
	RunID    string // show one run with its steps
	Limit    int
}

// RunSummary is one recorded run.
type RunSummary struct {
	ID           string   `json:"id"`
	Seq          int64    `json:"seq"`
	Scenario     string   `json:"scenario"`
	Formula      string   `json:"formula"`
	ScenarioHash string   `json:"scenario_hash"`
	Finished     bool     `json:"finished"`
	Verdict      string   `json:"verdict,omitempty"`
	Steps        int      `json:"steps"`
	Tags         []string `json:"tags,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// StepSummary is one recorded step of a run.
type StepSummary struct {
	Index        int      `json:"index"`
	Validity     string   `json:"validity"`
	RequiresNext bool     `json:"requires_next"`
	Tags         []string `json:"tags,omitempty"`
	Snapshot     string   `json:"snapshot"`
}

// RunDetail is a run with its steps.
type RunDetail struct {
	RunSummary
	StepRecords []StepSummary `json:"step_records"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List the runs recorded by "check --db", newest first, or show the
per-step verdicts of one run.

Examples:
  ltlcheck history --db ./runs.db
  ltlcheck history --db ./runs.db --scenario cart_total_settles --limit 5
  ltlcheck history --db ./runs.db --run 0190a1b2-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "only list runs of this scenario")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show the steps of one run")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs (0 for all)")

	return cmd
}

func runHistory(ctx context.Context, opts *HistoryOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	out := opts.formatter(cmd.OutOrStdout())
	if opts.RunID != "" {
		return showRun(ctx, st, opts.RunID, out)
	}

	runs, err := st.ListRuns(ctx, opts.Scenario, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	summaries := make([]RunSummary, len(runs))
	for i, r := range runs {
		summaries[i] = summarizeRun(r)
	}

	if len(summaries) == 0 {
		out.Printf("No runs recorded.\n")
	}
	for _, s := range summaries {
		out.Printf("%-6d %-36s %-24s %s\n", s.Seq, s.ID, s.Scenario, runStatus(s))
	}
	return out.Success(summaries)
}

func showRun(ctx context.Context, st *store.Store, runID string, out *OutputFormatter) error {
	run, err := st.GetRun(ctx, runID)
	if errors.Is(err, store.ErrNotFound) {
		return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", runID))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}
	steps, err := st.ReadSteps(ctx, runID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read steps", err)
	}

	detail := RunDetail{
		RunSummary:  summarizeRun(run),
		StepRecords: make([]StepSummary, len(steps)),
	}
	for i, s := range steps {
		detail.StepRecords[i] = StepSummary{
			Index:        s.Index,
			Validity:     s.Validity.String(),
			RequiresNext: s.RequiresNext,
			Tags:         s.Tags,
			Snapshot:     s.SnapshotHash,
		}
	}

	out.Printf("Run:      %s (#%d)\n", detail.ID, detail.Seq)
	out.Printf("Scenario: %s\n", detail.Scenario)
	out.Printf("Formula:  %s\n", detail.Formula)
	out.Printf("Result:   %s\n\n", runStatus(detail.RunSummary))
	for _, s := range detail.StepRecords {
		line := fmt.Sprintf("  %3d  %-16s %s", s.Index, s.Validity, shortHash(s.Snapshot))
		if s.RequiresNext {
			line += "  requires next"
		}
		if len(s.Tags) > 0 {
			line += "  [" + strings.Join(s.Tags, ", ") + "]"
		}
		out.Printf("%s\n", line)
	}
	return out.Success(detail)
}

func summarizeRun(r store.Run) RunSummary {
	s := RunSummary{
		ID:           r.ID,
		Seq:          r.Seq,
		Scenario:     r.Scenario,
		Formula:      r.Formula,
		ScenarioHash: r.ScenarioHash,
		Finished:     r.Finished,
		Steps:        r.Steps,
		Tags:         r.Tags,
		Error:        r.Error,
	}
	if r.Finished && r.Error == "" {
		s.Verdict = r.Verdict.String()
	}
	return s
}

func runStatus(s RunSummary) string {
	switch {
	case !s.Finished:
		return "unfinished"
	case s.Error != "":
		return "error: " + s.Error
	case len(s.Tags) > 0:
		return fmt.Sprintf("%s after %d steps [%s]", s.Verdict, s.Steps, strings.Join(s.Tags, ", "))
	default:
		return fmt.Sprintf("%s after %d steps", s.Verdict, s.Steps)
	}
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
