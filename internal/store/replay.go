package store

import (
	"context"
	"fmt"

	"github.com/roach88/ltlcheck/internal/snapshot"
)

// ReadTrace rebuilds the sequence of states a run observed, in order, so
// the run can be re-checked against a different formula.
func (s *Store) ReadTrace(ctx context.Context, runID string) ([]snapshot.Object, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}

	steps, err := s.ReadSteps(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}

	trace := make([]snapshot.Object, 0, len(steps))
	for _, step := range steps {
		state, err := s.ReadSnapshot(ctx, step.SnapshotHash)
		if err != nil {
			return nil, fmt.Errorf("read trace step %d: %w", step.Index, err)
		}
		trace = append(trace, state)
	}
	return trace, nil
}
