package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrRunNotFound is returned by ReadRun for an unknown id.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded scenario run.
type Run struct {
	ID           string `json:"id"`
	Seq          int64  `json:"seq"`
	Scenario     string `json:"scenario"`
	Exercise     string `json:"exercise"`
	ScenarioHash string `json:"scenario_hash"`
	Seed         uint64 `json:"seed"`
	Passed       int    `json:"passed"`
	Failed       int    `json:"failed"`
}

// Outcome is one recorded case of a run.
type Outcome struct {
	CaseIndex int    `json:"case_index"`
	Input     string `json:"input"`
	Expected  string `json:"expected"`
	Output    string `json:"output"`
	Verdict   string `json:"verdict"`
	Message   string `json:"message"`
}

// WriteRun stores run and its outcomes in one transaction. The ID and Seq
// fields of run are ignored; the stored values are returned.
func (s *Store) WriteRun(ctx context.Context, run Run, outcomes []Outcome) (Run, error) {
	run.ID = uuid.NewString()
	err := s.withWriteLock(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&run.Seq); err != nil {
			return fmt.Errorf("next seq: %w", err)
		}

		// Seeds are uint64; SQLite integers are signed, so store the bit pattern.
		_, err = tx.ExecContext(ctx, `
			INSERT INTO runs
			(id, seq, scenario, exercise, scenario_hash, seed, passed, failed)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			run.ID,
			run.Seq,
			run.Scenario,
			run.Exercise,
			run.ScenarioHash,
			int64(run.Seed),
			run.Passed,
			run.Failed,
		)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		for _, o := range outcomes {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO outcomes
				(run_id, case_index, input, expected, output, verdict, message)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, run.ID, o.CaseIndex, o.Input, o.Expected, o.Output, o.Verdict, o.Message)
			if err != nil {
				return fmt.Errorf("insert outcome %d: %w", o.CaseIndex, err)
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first. limit <= 0 returns
// every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, seq, scenario, exercise, scenario_hash, seed, passed, failed
		FROM runs
		ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns the run with the given id.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, scenario, exercise, scenario_hash, seed, passed, failed
		FROM runs
		WHERE id = ?
	`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return r, err
}

// ReadOutcomes returns the outcomes of a run in case order.
// Returns an empty slice (not nil) if the run has none.
func (s *Store) ReadOutcomes(ctx context.Context, runID string) ([]Outcome, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT case_index, input, expected, output, verdict, message
		FROM outcomes
		WHERE run_id = ?
		ORDER BY case_index ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	outcomes := []Outcome{}
	for rows.Next() {
		var o Outcome
		if err := rows.Scan(&o.CaseIndex, &o.Input, &o.Expected, &o.Output, &o.Verdict, &o.Message); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return outcomes, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	var seed int64
	err := row.Scan(&r.ID, &r.Seq, &r.Scenario, &r.Exercise, &r.ScenarioHash, &seed, &r.Passed, &r.Failed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	r.Seed = uint64(seed)
	return r, nil
}
