package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/ltlcheck/internal/snapshot"
)

const runColumns = `id, seq, scenario, formula, scenario_hash, verdict, steps, tags, error`

// ListRuns returns recorded runs, newest first. An empty scenario lists
// every scenario; limit <= 0 means no limit.
//
// Returns an empty slice (not nil) if there are no runs.
func (s *Store) ListRuns(ctx context.Context, scenario string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE ? = '' OR scenario = ?
		ORDER BY seq DESC, id COLLATE BINARY ASC
		LIMIT ?
	`, scenario, scenario, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun returns a single run, or ErrNotFound.
func (s *Store) GetRun(ctx context.Context, runID string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	return run, err
}

// ReadSteps returns a run's steps in trace order.
//
// Returns an empty slice (not nil) if the run has no steps.
func (s *Store) ReadSteps(ctx context.Context, runID string) ([]Step, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, idx, validity, requires_next, tags, snapshot_hash
		FROM steps
		WHERE run_id = ?
		ORDER BY idx ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()

	steps := []Step{}
	for rows.Next() {
		var (
			step     Step
			validity string
			tags     string
		)
		if err := rows.Scan(&step.RunID, &step.Index, &validity, &step.RequiresNext, &tags, &step.SnapshotHash); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		if step.Validity, err = unmarshalValidity(validity); err != nil {
			return nil, err
		}
		if step.Tags, err = unmarshalTags(tags); err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate steps: %w", err)
	}
	return steps, nil
}

// ReadSnapshot returns the state stored under hash, or ErrNotFound.
func (s *Store) ReadSnapshot(ctx context.Context, hash string) (snapshot.Object, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM snapshots WHERE hash = ?`, hash).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s: %w", hash, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	obj, err := snapshot.ParseObject([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", hash, err)
	}
	return obj, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run     Run
		verdict sql.NullString
		tags    string
		errMsg  sql.NullString
	)
	err := row.Scan(&run.ID, &run.Seq, &run.Scenario, &run.Formula, &run.ScenarioHash,
		&verdict, &run.Steps, &tags, &errMsg)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	if verdict.Valid {
		run.Finished = true
		if run.Verdict, err = unmarshalValidity(verdict.String); err != nil {
			return Run{}, err
		}
	}
	if run.Tags, err = unmarshalTags(tags); err != nil {
		return Run{}, err
	}
	run.Error = errMsg.String
	return run, nil
}
