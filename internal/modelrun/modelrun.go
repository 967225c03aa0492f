package modelrun

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"pgregory.net/rapid"

	"github.com/roach88/ltlcheck/internal/ltl"
)

// DefaultMaxCommands bounds the length of a generated command sequence.
const DefaultMaxCommands = 50

// Command is one action against the system under test.
//
// Check reports whether the command applies to the current model. Run
// performs it on sut and updates model to the state observed afterwards.
// String names the command in violation reports and rapid's output.
type Command[M, R any] interface {
	Check(model M) bool
	Run(model *M, sut R) error
	String() string
}

// Setup produces the initial model and the system under test for one
// rapid iteration. It may draw values from t.
type Setup[M, R any] func(t *rapid.T) (M, R)

// Option configures Run and Execute.
type Option[M any] func(*config[M])

type config[M any] struct {
	clone       func(M) M
	maxCommands int
	logger      *slog.Logger
}

// WithClone sets the function that copies the model before each command.
//
// The monitor keeps earlier states for relations such as Unchanged, so a
// model holding maps, slices or pointers needs a deep copy. The default is
// a plain assignment.
func WithClone[M any](clone func(M) M) Option[M] {
	return func(c *config[M]) {
		c.clone = clone
	}
}

// WithMaxCommands sets the longest command sequence Run draws.
//
// Default: 50 (DefaultMaxCommands)
func WithMaxCommands[M any](n int) Option[M] {
	return func(c *config[M]) {
		c.maxCommands = n
	}
}

// WithLogger logs every executed command at debug level.
func WithLogger[M any](l *slog.Logger) Option[M] {
	return func(c *config[M]) {
		c.logger = l
	}
}

func newConfig[M any](opts []Option[M]) config[M] {
	c := config[M]{
		clone:       func(m M) M { return m },
		maxCommands: DefaultMaxCommands,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Run checks formula against model traces produced by random command
// sequences. Each rapid iteration calls setup, then repeatedly draws one
// of the commands whose Check holds and runs it, feeding the model after
// every command to an ltl.Monitor. The test fails with a *Violation as
// soon as the verdict becomes DefinitelyFalse; rapid then shrinks the
// sequence.
//
// A sequence ends early when no command applies. A verdict that is only
// probably false at the end of a sequence is not a failure.
func Run[M, R any](t *testing.T, setup Setup[M, R], commands []Command[M, R], formula ltl.Formula[M], opts ...Option[M]) {
	t.Helper()
	cfg := newConfig(opts)

	rapid.Check(t, func(rt *rapid.T) {
		model, sut := setup(rt)
		r, err := newRunner(cfg, formula, model, sut)
		if err != nil {
			rt.Fatal(err)
		}

		n := rapid.IntRange(0, cfg.maxCommands).Draw(rt, "length")
		for step := 0; step < n; step++ {
			applicable := r.applicable(commands)
			if len(applicable) == 0 {
				break
			}
			cmd := rapid.SampledFrom(applicable).Draw(rt, "command")
			if err := r.step(cmd); err != nil {
				rt.Fatal(err)
			}
		}
	})
}

// Execute runs a fixed command sequence from model without rapid and
// returns the final verdict. Commands whose Check fails are skipped and
// contribute no state. A DefinitelyFalse verdict stops the sequence with
// a *Violation; evaluation errors and command errors are returned as is.
func Execute[M, R any](model M, sut R, commands []Command[M, R], formula ltl.Formula[M], opts ...Option[M]) (ltl.PartialValidity, error) {
	r, err := newRunner(newConfig(opts), formula, model, sut)
	if err != nil {
		return ltl.PartialValidity{}, err
	}
	for _, cmd := range commands {
		if !cmd.Check(r.model) {
			continue
		}
		if err := r.step(cmd); err != nil {
			return r.monitor.Current(), err
		}
	}
	return r.monitor.Current(), nil
}

type runner[M, R any] struct {
	cfg     config[M]
	monitor *ltl.Monitor[M]
	model   M
	sut     R
	steps   int
}

func newRunner[M, R any](cfg config[M], formula ltl.Formula[M], model M, sut R) (*runner[M, R], error) {
	r := &runner[M, R]{
		cfg:   cfg,
		model: cfg.clone(model),
		sut:   sut,
	}
	r.monitor = ltl.NewMonitor(formula, r.model)
	pv, err := r.monitor.Start()
	if err != nil {
		return nil, fmt.Errorf("initial state: %w", err)
	}
	if pv.Validity == ltl.DefinitelyFalse {
		return nil, &Violation[M]{Command: "<initial>", Step: 0, Tags: pv.Tags, After: r.model}
	}
	return r, nil
}

func (r *runner[M, R]) applicable(commands []Command[M, R]) []Command[M, R] {
	var out []Command[M, R]
	for _, cmd := range commands {
		if cmd.Check(r.model) {
			out = append(out, cmd)
		}
	}
	return out
}

// step runs cmd on a copy of the model and feeds the result to the
// monitor. The previous model is left untouched.
func (r *runner[M, R]) step(cmd Command[M, R]) error {
	before := r.model
	after := r.cfg.clone(before)
	if err := cmd.Run(&after, r.sut); err != nil {
		return fmt.Errorf("command %s: %w", cmd, err)
	}
	r.steps++
	r.model = after

	pv, err := r.monitor.Next(after)
	if err != nil {
		return err
	}
	r.cfg.logger.Debug("command executed", "command", cmd.String(), "step", r.steps, "validity", pv.Validity)

	if pv.Validity == ltl.DefinitelyFalse {
		return &Violation[M]{
			Command: cmd.String(),
			Step:    r.steps,
			Tags:    pv.Tags,
			Before:  before,
			After:   after,
		}
	}
	return nil
}
