package store

import (
	"database/sql"
	"fmt"
	"time"
)

type Run struct {
	ID          int64
	Command     string
	Input       string
	Output      string
	Started     time.Time
	Finished    time.Time // zero while the run is still open
	RowsRead    int64
	RowsWritten int64
	Status      string
	Error       string
}

type UnmatchedKey struct {
	RunID int64
	Stage string
	Raw   string
	Count int64
}

// ListRuns returns the most recent runs, newest first. A limit of zero or
// less returns all runs.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	query := `
SELECT id, command, input, output, started, finished, rows_read, rows_written, status, error
FROM Run
ORDER BY id DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.Query(query+" LIMIT ?", limit)
	} else {
		rows, err = s.db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var input, output, status, errText sql.NullString
		var finished sql.NullTime
		err := rows.Scan(&r.ID, &r.Command, &input, &output, &r.Started, &finished,
			&r.RowsRead, &r.RowsWritten, &status, &errText)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Input = input.String
		r.Output = output.String
		r.Status = status.String
		r.Error = errText.String
		if finished.Valid {
			r.Finished = finished.Time
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// UnmatchedForRun returns the unmatched keys recorded for a run, largest
// count first.
func (s *Store) UnmatchedForRun(runID int64) ([]UnmatchedKey, error) {
	rows, err := s.db.Query(`
SELECT run_id, stage, raw, count
FROM UnmatchedKey
WHERE run_id = ?
ORDER BY count DESC, raw ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying unmatched keys: %w", err)
	}
	defer rows.Close()

	var keys []UnmatchedKey
	for rows.Next() {
		var k UnmatchedKey
		if err := rows.Scan(&k.RunID, &k.Stage, &k.Raw, &k.Count); err != nil {
			return nil, fmt.Errorf("scanning unmatched key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
