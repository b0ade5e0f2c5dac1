package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/weatherchart/dataset-tools/internal/store"
)

// ledger wraps the run bookkeeping around a stage body. Opening the store
// or writing to it can fail without affecting the stage: ledger problems
// print as warnings and never mask the stage's own error.
type ledger struct {
	store *store.Store
	runID int64
}

func startRun(command, input, output string) *ledger {
	path := ledgerPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		fmt.Printf("Warning: cannot create ledger directory: %v\n", err)
		return &ledger{}
	}

	db, err := store.New(path)
	if err != nil {
		fmt.Printf("Warning: run ledger unavailable: %v\n", err)
		return &ledger{}
	}

	id, err := db.StartRun(command, input, output)
	if err != nil {
		fmt.Printf("Warning: recording run start: %v\n", err)
		db.Close()
		return &ledger{}
	}

	return &ledger{store: db, runID: id}
}

func (l *ledger) finish(rowsRead, rowsWritten int64) {
	if l.store == nil {
		return
	}
	if err := l.store.FinishRun(l.runID, rowsRead, rowsWritten); err != nil {
		fmt.Printf("Warning: recording run completion: %v\n", err)
	}
}

func (l *ledger) fail(runErr error) {
	if l.store == nil {
		return
	}
	if err := l.store.FailRun(l.runID, runErr); err != nil {
		fmt.Printf("Warning: recording run failure: %v\n", err)
	}
}

func (l *ledger) recordUnmatched(stage string, counts map[string]int64) {
	if l.store == nil {
		return
	}
	if err := l.store.RecordUnmatched(l.runID, stage, counts); err != nil {
		fmt.Printf("Warning: recording unmatched keys: %v\n", err)
	}
}

func (l *ledger) close() {
	if l.store == nil {
		return
	}
	if err := l.store.Close(); err != nil {
		fmt.Printf("Warning: closing ledger: %v\n", err)
	}
}
