package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/ltlcheck/internal/cueprop"
	"github.com/roach88/ltlcheck/internal/ltl"
	"github.com/roach88/ltlcheck/internal/metrics"
	"github.com/roach88/ltlcheck/internal/snapshot"
	"github.com/roach88/ltlcheck/internal/store"
)

// Option configures Run.
type Option func(*Harness)

// WithStore records the run, its steps and its states in st. ids
// generates the run id; nil uses UUIDv7.
func WithStore(st *store.Store, ids store.RunIDGenerator) Option {
	return func(h *Harness) {
		h.store = st
		if ids != nil {
			h.ids = ids
		}
	}
}

// WithMetrics records step and verdict counters on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(h *Harness) { h.metrics = c }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// WithCompiler shares a CUE compiler between runs.
func WithCompiler(c *cueprop.Compiler) Option {
	return func(h *Harness) { h.compiler = c }
}

// Harness checks one scenario. Use Run; the type is exported for its
// options only.
type Harness struct {
	store    *store.Store
	ids      store.RunIDGenerator
	metrics  *metrics.Collector
	logger   *slog.Logger
	compiler *cueprop.Compiler
}

// Run checks a scenario and returns the result.
//
// Execution flow:
//  1. Build the formula and load the trace
//  2. Stream every state through an ltl.Monitor, recording each partial verdict
//  3. Cross-check the final verdict with a batch evaluation
//  4. Compare against the scenario's expectations
//
// Evaluation errors (missing paths, predicate errors) end the run and are
// reported on the Result. The returned error is reserved for failures to
// run at all: an invalid formula, an unreadable trace, a store error or a
// cancelled context.
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	h := &Harness{
		ids:    store.UUIDv7Generator{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h.run(ctx, scenario)
}

func (h *Harness) run(ctx context.Context, scenario *Scenario) (*Result, error) {
	formula, err := Build(scenario, h.compiler)
	if err != nil {
		return nil, fmt.Errorf("build formula: %w", err)
	}
	trace, err := scenario.LoadTrace()
	if err != nil {
		return nil, err
	}

	result := NewResult(scenario.Name)
	result.Formula = formula.String()
	result.RequiredSteps = ltl.RequiredSteps(formula)

	logger := h.logger.With("scenario", scenario.Name)
	logger.Debug("checking scenario", "formula", result.Formula, "states", len(trace))

	if h.store != nil {
		result.RunID = h.ids.Generate()
		err := h.store.BeginRun(ctx, store.Run{
			ID:           result.RunID,
			Scenario:     scenario.Name,
			Formula:      result.Formula,
			ScenarioHash: scenario.Hash(),
		})
		if err != nil {
			return nil, err
		}
	}

	if err := h.stream(ctx, scenario.Name, formula, trace, result); err != nil {
		return nil, h.abort(ctx, logger, result, err)
	}

	if result.ErrorCode != "" {
		logger.Warn("evaluation stopped", "error", result.Error)
	} else {
		if err := crossCheck(logger, trace, formula, result.Verdict); err != nil {
			return nil, h.abort(ctx, logger, result, err)
		}
		if h.metrics != nil {
			h.metrics.ObserveVerdict(scenario.Name, result.Verdict, len(result.Steps))
		}
	}

	CheckExpectations(result, scenario.Expect)

	if h.store != nil {
		err := h.store.FinishRun(ctx, result.RunID, store.Outcome{
			Verdict: result.Verdict,
			Steps:   len(result.Steps),
			Tags:    result.Tags,
			Error:   result.Error,
		})
		if err != nil {
			return nil, err
		}
	}

	logger.Info("scenario checked",
		"verdict", result.Verdict,
		"steps", len(result.Steps),
		"pass", result.Pass,
	)
	return result, nil
}

// stream feeds the trace through a monitor. An evaluation error stops the
// stream and is recorded on result; only infrastructure errors are
// returned.
func (h *Harness) stream(ctx context.Context, name string, f Formula, trace []snapshot.Object, result *Result) error {
	if len(trace) == 0 {
		result.Verdict = ltl.DefinitelyFalse
		return nil
	}

	m := ltl.NewMonitor(f, trace[0])
	for i, state := range trace {
		if err := ctx.Err(); err != nil {
			return err
		}

		var (
			pv  ltl.PartialValidity
			err error
		)
		if i == 0 {
			pv, err = m.Start()
		} else {
			pv, err = m.Next(state)
		}
		if err != nil {
			h.stopped(name, result, err)
			return nil
		}

		rec, err := h.record(ctx, result.RunID, i, pv, state)
		if err != nil {
			return err
		}
		result.Steps = append(result.Steps, rec)
		result.Verdict = pv.Validity
		result.Tags = pv.Tags

		if h.metrics != nil {
			h.metrics.ObserveStep(name, pv)
		}
	}
	return nil
}

// abort closes a begun run with the error that interrupted it, so the
// store holds no unfinished rows for runs that will never resume. The
// outcome is written even when ctx is already cancelled.
func (h *Harness) abort(ctx context.Context, logger *slog.Logger, result *Result, err error) error {
	if h.store == nil || result.RunID == "" {
		return err
	}
	ferr := h.store.FinishRun(context.WithoutCancel(ctx), result.RunID, store.Outcome{
		Verdict: result.Verdict,
		Steps:   len(result.Steps),
		Tags:    result.Tags,
		Error:   err.Error(),
	})
	if ferr != nil {
		logger.Error("failed to record aborted run", "run_id", result.RunID, "error", ferr)
	}
	return err
}

// stopped records the evaluation error that ended the stream.
func (h *Harness) stopped(name string, result *Result, err error) {
	result.Error = err.Error()
	result.ErrorCode = "OTHER"
	var ee *ltl.EvalError
	if errors.As(err, &ee) {
		result.ErrorCode = string(ee.Code)
	}
	if h.metrics != nil {
		h.metrics.ObserveError(name, err)
	}
}

func (h *Harness) record(ctx context.Context, runID string, i int, pv ltl.PartialValidity, state snapshot.Object) (StepRecord, error) {
	rec := StepRecord{
		Index:        i,
		Validity:     pv.Validity,
		RequiresNext: pv.RequiresNext,
		Tags:         pv.Tags,
	}
	if h.store == nil {
		hash, err := snapshot.Hash(state)
		if err != nil {
			return StepRecord{}, err
		}
		rec.SnapshotHash = hash
		return rec, nil
	}

	hash, err := h.store.AppendStep(ctx, store.Step{
		RunID:        runID,
		Index:        i,
		Validity:     pv.Validity,
		RequiresNext: pv.RequiresNext,
		Tags:         pv.Tags,
	}, state)
	if err != nil {
		return StepRecord{}, err
	}
	rec.SnapshotHash = hash
	return rec, nil
}

// crossCheck evaluates the trace in one batch. The streaming and batch
// evaluators share no state, so a disagreement is a bug in one of them.
func crossCheck(logger *slog.Logger, trace []snapshot.Object, f Formula, streamed ltl.Validity) error {
	batch, err := ltl.Evaluate(trace, f)
	if err != nil {
		return fmt.Errorf("batch evaluation: %w", err)
	}
	if batch != streamed {
		logger.Error("monitor and batch verdicts disagree", "formula", f.String(), "monitor", streamed, "batch", batch)
		return fmt.Errorf("monitor verdict %s disagrees with batch verdict %s", streamed, batch)
	}
	return nil
}
