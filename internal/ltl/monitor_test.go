package ltl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor_EventuallyWithBudget(t *testing.T) {
	m := NewMonitor(Eventually(eq(2), 1), 1)

	pv, err := m.Start()
	require.NoError(t, err)
	assert.Equal(t, PartialValidity{Validity: PT, RequiresNext: true}, pv)
	assert.False(t, m.Done())

	pv, err = m.Next(2)
	require.NoError(t, err)
	assert.Equal(t, PartialValidity{Validity: DT}, pv)
	assert.True(t, m.Done())

	// Idempotent once determined: the state is not examined.
	pv, err = m.Next(3)
	require.NoError(t, err)
	assert.Equal(t, PartialValidity{Validity: DT}, pv)
	assert.Equal(t, 3, m.Steps())
}

func TestMonitor_NextBeforeStart(t *testing.T) {
	m := NewMonitor(eq(1), 1)

	_, err := m.Next(1)
	require.Error(t, err)

	var ee *EvalError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, ErrCodeNotStarted, ee.Code)
	assert.Nil(t, m.Residual())
}

func TestMonitor_StartIsIdempotent(t *testing.T) {
	calls := 0
	m := NewMonitor(Always(Pred(func(int) bool {
		calls++
		return true
	}), 0), 1)

	first, err := m.Start()
	require.NoError(t, err)
	second, err := m.Start()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, m.Steps())
}

func TestMonitor_RequiresNextClearsAtBudgetZero(t *testing.T) {
	m := NewMonitor(Always(eq(2), 1), 2)

	pv, err := m.Start()
	require.NoError(t, err)
	assert.Equal(t, PT, pv.Validity)
	assert.True(t, pv.RequiresNext)

	pv, err = m.Next(2)
	require.NoError(t, err)
	assert.Equal(t, PT, pv.Validity)
	assert.False(t, pv.RequiresNext)

	pv, err = m.Next(3)
	require.NoError(t, err)
	assert.Equal(t, DF, pv.Validity)
	assert.False(t, pv.RequiresNext)
}

func TestMonitor_TagsOnFailure(t *testing.T) {
	f := Tag("monotonic", Always(Comparison(func(prev, next int) bool { return next >= prev }), 0))
	m := NewMonitor(f, 1)

	pv, err := m.Start()
	require.NoError(t, err)
	assert.Empty(t, pv.Tags)

	pv, err = m.Next(2)
	require.NoError(t, err)
	assert.Equal(t, PT, pv.Validity)
	assert.Empty(t, pv.Tags)

	pv, err = m.Next(1)
	require.NoError(t, err)
	assert.Equal(t, DF, pv.Validity)
	assert.Equal(t, []string{"monotonic"}, pv.Tags)
	assert.Equal(t, pv, m.Current())
}

func TestMonitor_ErrorIsSticky(t *testing.T) {
	m := NewMonitor(UnchangedPaths[map[string]any]("a"), map[string]any{"a": 1})

	_, err := m.Start()
	require.NoError(t, err)

	_, err = m.Next(map[string]any{"b": 1})
	require.Error(t, err)
	assert.True(t, IsPathError(err))

	var ee *EvalError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 1, ee.Step)

	_, again := m.Next(map[string]any{"a": 1})
	assert.Equal(t, err, again)
	assert.Equal(t, err, m.Err())
}

func TestMonitor_MatchesBatchOnEveryPrefix(t *testing.T) {
	f := Always(Or(
		Unchanged(func(prev, next int) bool { return prev == next }),
		Changed(func(prev, next int) bool { return next == prev+1 }),
	), 0)
	trace := []int{1, 1, 2, 3, 3, 5, 6}

	m := NewMonitor(f, trace[0])
	pv, err := m.Start()
	require.NoError(t, err)

	for k := 1; k <= len(trace); k++ {
		if k > 1 {
			pv, err = m.Next(trace[k-1])
			require.NoError(t, err)
		}
		residual, err := EvaluateTrace(trace[:k], f)
		require.NoError(t, err)
		want, err := Partial(residual)
		require.NoError(t, err)
		assert.Equal(t, want, pv, "prefix %d", k)
	}
}
