package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/ltlcheck/internal/snapshot"
)

// BeginRun inserts an unfinished run. Seq is assigned by the store as one
// past the highest existing seq; the value passed in run.Seq is ignored.
//
// Uses ON CONFLICT(id) DO NOTHING, so beginning the same run twice is a
// no-op.
func (s *Store) BeginRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		return fmt.Errorf("begin run: id is required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, seq, scenario, formula, scenario_hash)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs), ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, run.ID, run.Scenario, run.Formula, run.ScenarioHash)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// AppendStep records the verdict after one observed state together with
// the state itself. The step's SnapshotHash is computed from state and
// returned; any value passed in is overwritten.
//
// The snapshot row is shared between runs that observe identical states.
func (s *Store) AppendStep(ctx context.Context, step Step, state snapshot.Object) (string, error) {
	body, err := snapshot.MarshalCanonical(state)
	if err != nil {
		return "", fmt.Errorf("append step: %w", err)
	}
	hash := snapshot.HashBytes(snapshot.DomainSnapshot, body)

	validity, err := marshalValidity(step.Validity)
	if err != nil {
		return "", fmt.Errorf("append step: %w", err)
	}
	tags, err := marshalTags(step.Tags)
	if err != nil {
		return "", fmt.Errorf("append step: %w", err)
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO snapshots (hash, body) VALUES (?, ?)
			ON CONFLICT(hash) DO NOTHING
		`, hash, string(body)); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO steps (run_id, idx, validity, requires_next, tags, snapshot_hash)
			VALUES (?, ?, ?, ?, ?, ?)
		`, step.RunID, step.Index, validity, step.RequiresNext, tags, hash); err != nil {
			return fmt.Errorf("write step: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("append step: %w", err)
	}
	return hash, nil
}

// FinishRun records the outcome of a run. Returns ErrNotFound if the run
// was never begun.
func (s *Store) FinishRun(ctx context.Context, runID string, out Outcome) error {
	verdict, err := marshalValidity(out.Verdict)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	tags, err := marshalTags(out.Tags)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET verdict = ?, steps = ?, tags = ?, error = ?
		WHERE id = ?
	`, verdict, out.Steps, tags, nullString(out.Error), runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run %s: %w", runID, ErrNotFound)
	}
	return nil
}
