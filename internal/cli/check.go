package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ltlcheck/internal/cueprop"
	"github.com/roach88/ltlcheck/internal/harness"
	"github.com/roach88/ltlcheck/internal/metrics"
	"github.com/roach88/ltlcheck/internal/store"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Database     string // record runs here when set
	GoldenDir    string // compare verdict traces against {dir}/{name}.golden when set
	UpdateGolden bool   // rewrite golden files instead of comparing
	MetricsFile  string // write Prometheus text metrics here when set
	Filter       string // scenario name glob
}

// ScenarioResult is the outcome of one scenario file.
type ScenarioResult struct {
	File    string   `json:"file"`
	Name    string   `json:"name,omitempty"`
	RunID   string   `json:"run_id,omitempty"`
	Verdict string   `json:"verdict,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Pass    bool     `json:"pass"`
	Errors  []string `json:"errors,omitempty"`
}

// CheckResult holds the outcome of a check command.
type CheckResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <scenario|dir>...",
		Short: "Check scenarios against their expectations",
		Long: `Check YAML scenario files: evaluate each formula over its trace and
compare the verdict, blame tags and per-step verdicts with the scenario's
expectations. Directories are searched recursively for .yaml/.yml files.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, database errors, etc.)

Examples:
  ltlcheck check ./scenarios
  ltlcheck check cart.yaml --db ./runs.db
  ltlcheck check ./scenarios --golden-dir ./scenarios/golden --update-golden
  ltlcheck check ./scenarios --filter "cart_*" --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "record runs in this SQLite database")
	cmd.Flags().StringVar(&opts.GoldenDir, "golden-dir", "", "compare verdict traces with golden files in this directory")
	cmd.Flags().BoolVar(&opts.UpdateGolden, "update-golden", false, "regenerate golden files (requires --golden-dir)")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by file name glob")

	return cmd
}

func runCheck(ctx context.Context, opts *CheckOptions, paths []string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.UpdateGolden && opts.GoldenDir == "" {
		return NewExitError(ExitCommandError, "--update-golden requires --golden-dir")
	}

	files, err := findScenarioFiles(paths, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	out := opts.formatter(cmd.OutOrStdout())
	logger := opts.logger()

	runOpts := []harness.Option{
		harness.WithLogger(logger),
		harness.WithCompiler(cueprop.NewCompiler()),
	}
	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer st.Close()
		runOpts = append(runOpts, harness.WithStore(st, nil))
	}
	var collector *metrics.Collector
	if opts.MetricsFile != "" {
		collector = metrics.New()
		runOpts = append(runOpts, harness.WithMetrics(collector))
	}

	result := CheckResult{
		Scenarios: make([]ScenarioResult, 0, len(files)),
		Total:     len(files),
	}
	for _, file := range files {
		sr, err := checkScenario(ctx, opts, file, runOpts)
		if err != nil {
			return err
		}
		logger.Debug("scenario finished", "file", file, "pass", sr.Pass)
		printScenario(out, sr)

		result.Scenarios = append(result.Scenarios, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if collector != nil {
		if err := collector.WriteFile(opts.MetricsFile); err != nil {
			return WrapExitError(ExitCommandError, "failed to write metrics", err)
		}
	}

	if result.Failed > 0 {
		msg := fmt.Sprintf("%d scenario(s) failed", result.Failed)
		out.Printf("\nCheck Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
		if err := out.Failure("E_CHECK_FAILED", msg, result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}

	if len(files) == 0 {
		out.Printf("No scenarios found.\n")
	} else {
		out.Printf("\nCheck Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
		out.Printf("✓ All scenarios passed\n")
	}
	return out.Success(result)
}

// checkScenario runs one file. Problems with the scenario itself fail the
// scenario; only infrastructure errors (the store, cancellation) are
// returned.
func checkScenario(ctx context.Context, opts *CheckOptions, file string, runOpts []harness.Option) (ScenarioResult, error) {
	sr := ScenarioResult{File: file}
	fail := func(format string, args ...any) (ScenarioResult, error) {
		sr.Errors = append(sr.Errors, fmt.Sprintf(format, args...))
		return sr, nil
	}

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		return fail("load: %v", err)
	}
	sr.Name = scenario.Name

	res, err := harness.Run(ctx, scenario, runOpts...)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return sr, WrapExitError(ExitCommandError, "check cancelled", err)
		}
		return fail("run: %v", err)
	}
	sr.RunID = res.RunID
	sr.Verdict = res.Verdict.String()
	sr.Tags = res.Tags
	if res.ErrorCode != "" {
		sr.Verdict = ""
	}
	sr.Errors = append(sr.Errors, res.Failures...)

	if opts.GoldenDir != "" {
		err := harness.CheckGoldenFile(opts.GoldenDir, res, opts.UpdateGolden)
		var mismatch *harness.GoldenMismatchError
		switch {
		case err == nil:
		case errors.As(err, &mismatch):
			sr.Errors = append(sr.Errors, "verdict trace does not match golden file (run with --update-golden to regenerate)")
		case errors.Is(err, fs.ErrNotExist):
			// No golden file: expectations only.
		default:
			sr.Errors = append(sr.Errors, fmt.Sprintf("golden: %v", err))
		}
	}

	sr.Pass = len(sr.Errors) == 0
	return sr, nil
}

func printScenario(out *OutputFormatter, sr ScenarioResult) {
	name := sr.Name
	if name == "" {
		name = filepath.Base(sr.File)
	}
	if sr.Pass {
		out.Printf("✓ %s (%s)\n", name, sr.Verdict)
		return
	}
	out.Printf("✗ %s\n", name)
	for _, e := range sr.Errors {
		out.Printf("  %s\n", e)
	}
}

// findScenarioFiles expands directories into the .yaml/.yml files below
// them. Files named explicitly are kept whatever their extension. The
// filter matches the file name without extension.
func findScenarioFiles(paths []string, filter string) ([]string, error) {
	var files []string
	add := func(path string) error {
		if filter != "" {
			base := filepath.Base(path)
			matched, err := filepath.Match(filter, strings.TrimSuffix(base, filepath.Ext(base)))
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}
		files = append(files, path)
		return nil
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if err := add(p); err != nil {
				return nil, err
			}
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if ext := filepath.Ext(path); ext != ".yaml" && ext != ".yml" {
				return nil
			}
			return add(path)
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
