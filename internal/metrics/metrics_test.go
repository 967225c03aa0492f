package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ltlcheck/internal/ltl"
)

func TestObserveStep(t *testing.T) {
	c := New()
	c.ObserveStep("cart", ltl.PartialValidity{Validity: ltl.ProbablyTrue})
	c.ObserveStep("cart", ltl.PartialValidity{Validity: ltl.ProbablyTrue})
	c.ObserveStep("cart", ltl.PartialValidity{Validity: ltl.DefinitelyTrue})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.steps.WithLabelValues("cart", "probably-true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.steps.WithLabelValues("cart", "definitely-true")))
}

func TestObserveVerdict(t *testing.T) {
	c := New()
	c.ObserveVerdict("cart", ltl.DefinitelyFalse, 3)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.verdicts.WithLabelValues("cart", "definitely-false")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.traceLength))
}

func TestObserveError(t *testing.T) {
	c := New()
	c.ObserveError("cart", fmt.Errorf("step: %w", &ltl.EvalError{Code: ltl.ErrCodeMissingPath}))
	c.ObserveError("cart", fmt.Errorf("disk full"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.errors.WithLabelValues("cart", "MISSING_PATH")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.errors.WithLabelValues("cart", "OTHER")))
}

func TestCollectorsAreIsolated(t *testing.T) {
	a, b := New(), New()
	a.ObserveVerdict("x", ltl.DefinitelyTrue, 1)

	assert.Equal(t, 1, testutil.CollectAndCount(a.verdicts))
	assert.Equal(t, 0, testutil.CollectAndCount(b.verdicts))
}

func TestWriteFile(t *testing.T) {
	c := New()
	c.ObserveVerdict("cart", ltl.ProbablyTrue, 2)

	path := filepath.Join(t.TempDir(), "ltlcheck.prom")
	require.NoError(t, c.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `ltlcheck_verdicts_total{scenario="cart",verdict="probably-true"} 1`)
}
