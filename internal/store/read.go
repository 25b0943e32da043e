package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pjeweb/sass-spec/internal/harness"
)

// ErrNotFound is returned when a requested run does not exist.
var ErrNotFound = errors.New("not found")

const runColumns = `id, implementation, mode, command, args, archive, seq`

// ReadRun returns the run with the given ID.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	return run, err
}

// LatestRun returns the most recently created run.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY seq DESC LIMIT 1`)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("latest run: %w", ErrNotFound)
	}
	return run, err
}

// ListRuns returns all runs ordered by seq.
// Returns an empty slice (not nil) when there are no runs.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY seq ASC`)
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

// ReadResults returns the case results of a run in execution order.
// Returns an empty slice (not nil) when the run has no results.
func (s *Store) ReadResults(ctx context.Context, runID string) ([]CaseResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, path, outcome, message, exit_code, seq
		FROM case_results
		WHERE run_id = ?
		ORDER BY seq ASC, path COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	results := []CaseResult{}
	for rows.Next() {
		var r CaseResult
		var outcome string
		if err := rows.Scan(&r.RunID, &r.Path, &outcome, &r.Message, &r.ExitCode, &r.Seq); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Outcome = harness.Outcome(outcome)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}

// Summarize counts the outcomes of a run's results.
func (s *Store) Summarize(ctx context.Context, runID string) (harness.Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT outcome, COUNT(*) FROM case_results
		WHERE run_id = ?
		GROUP BY outcome
	`, runID)
	if err != nil {
		return harness.Summary{}, fmt.Errorf("query summary: %w", err)
	}
	defer rows.Close()

	var sum harness.Summary
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return harness.Summary{}, fmt.Errorf("scan summary: %w", err)
		}
		sum.Total += n
		switch harness.Outcome(outcome) {
		case harness.OutcomePass:
			sum.Pass = n
		case harness.OutcomeFail:
			sum.Fail = n
		case harness.OutcomeSkip:
			sum.Skip = n
		case harness.OutcomeTodo:
			sum.Todo = n
		}
	}
	if err := rows.Err(); err != nil {
		return harness.Summary{}, fmt.Errorf("iterate summary: %w", err)
	}
	return sum, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var args string
	if err := row.Scan(&run.ID, &run.Implementation, &run.Mode, &run.Command, &args, &run.Archive, &run.Seq); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	if err := json.Unmarshal([]byte(args), &run.Args); err != nil {
		return Run{}, fmt.Errorf("run %s: decode args: %w", run.ID, err)
	}
	return run, nil
}
