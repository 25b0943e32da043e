package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pjeweb/sass-spec/internal/harness"
)

// Run describes one recorded suite run.
type Run struct {
	ID             string
	Implementation string
	Mode           string
	Command        string
	Args           []string

	// Archive is the archive path and subtree the run covered.
	Archive string

	// Seq numbers runs in creation order, starting at 1.
	Seq int64
}

// CaseResult is the stored outcome of one case of a run.
type CaseResult struct {
	RunID    string
	Path     string
	Outcome  harness.Outcome
	Message  string
	ExitCode int
	Seq      int64
}

// CreateRun inserts a new run, assigning its ID and seq.
// The ID and Seq fields of run are ignored and overwritten.
func (s *Store) CreateRun(ctx context.Context, run Run) (Run, error) {
	args, err := json.Marshal(nonNil(run.Args))
	if err != nil {
		return Run{}, fmt.Errorf("marshal args: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var maxSeq sql.NullInt64
	if err := tx.QueryRowContext(ctx, `SELECT MAX(seq) FROM runs`).Scan(&maxSeq); err != nil {
		return Run{}, fmt.Errorf("query run seq: %w", err)
	}

	run.ID = s.runID.Generate()
	run.Seq = maxSeq.Int64 + 1

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, implementation, mode, command, args, archive, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Implementation, run.Mode, run.Command, string(args), run.Archive, run.Seq)
	if err != nil {
		return Run{}, fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("commit run %s: %w", run.ID, err)
	}
	return run, nil
}

// RecordResults stores results for runID in the given order.
//
// Idempotent: a case already recorded for the run keeps its first result.
func (s *Store) RecordResults(ctx context.Context, runID string, results []harness.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var maxSeq sql.NullInt64
	err = tx.QueryRowContext(ctx, `SELECT MAX(seq) FROM case_results WHERE run_id = ?`, runID).Scan(&maxSeq)
	if err != nil {
		return fmt.Errorf("query case seq: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO case_results (run_id, path, outcome, message, exit_code, seq)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, path) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	seq := maxSeq.Int64
	for _, res := range results {
		seq++
		_, err := stmt.ExecContext(ctx, runID, res.Path, string(res.Outcome), res.Message, res.ExitCode, seq)
		if err != nil {
			return fmt.Errorf("insert result %s: %w", res.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit results: %w", err)
	}
	return nil
}

func nonNil(args []string) []string {
	if args == nil {
		return []string{}
	}
	return args
}
