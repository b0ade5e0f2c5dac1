package store

import (
	"fmt"
	"time"
)

// Run statuses. A run stays "running" until FinishRun or FailRun closes it,
// so an interrupted process leaves a visible running row behind.
const (
	StatusRunning = "running"
	StatusOK      = "ok"
	StatusFailed  = "failed"
)

// StartRun records the start of a pipeline stage and returns its row id.
func (s *Store) StartRun(command, input, output string) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO Run (command, input, output, started, status) VALUES (?, ?, ?, ?, ?)",
		command, input, output, time.Now(), StatusRunning)
	if err != nil {
		return 0, fmt.Errorf("inserting run for %q: %w", command, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}
	return id, nil
}

// FinishRun marks a run as completed with its row counts.
func (s *Store) FinishRun(id int64, rowsRead, rowsWritten int64) error {
	_, err := s.db.Exec(
		"UPDATE Run SET finished = ?, rows_read = ?, rows_written = ?, status = ? WHERE id = ?",
		time.Now(), rowsRead, rowsWritten, StatusOK, id)
	if err != nil {
		return fmt.Errorf("finishing run %d: %w", id, err)
	}
	return nil
}

// FailRun marks a run as failed, recording the error text.
func (s *Store) FailRun(id int64, runErr error) error {
	_, err := s.db.Exec(
		"UPDATE Run SET finished = ?, status = ?, error = ? WHERE id = ?",
		time.Now(), StatusFailed, runErr.Error(), id)
	if err != nil {
		return fmt.Errorf("failing run %d: %w", id, err)
	}
	return nil
}

// RecordUnmatched stores the keys a join stage could not resolve, with
// their row counts, transactionally.
func (s *Store) RecordUnmatched(runID int64, stage string, counts map[string]int64) error {
	if len(counts) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for raw, count := range counts {
		_, err := tx.Exec(
			"INSERT OR REPLACE INTO UnmatchedKey (run_id, stage, raw, count) VALUES (?, ?, ?, ?)",
			runID, stage, raw, count)
		if err != nil {
			return fmt.Errorf("inserting unmatched key %q: %w", raw, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
