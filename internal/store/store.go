package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	query := `
CREATE TABLE IF NOT EXISTS Run (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  command TEXT NOT NULL,
  input TEXT,
  output TEXT,
  started DATETIME NOT NULL,
  finished DATETIME,
  rows_read INTEGER NOT NULL DEFAULT 0,
  rows_written INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL,
  error TEXT
);

CREATE TABLE IF NOT EXISTS UnmatchedKey (
  run_id INTEGER,
  stage TEXT,
  raw TEXT,
  count INTEGER,
  FOREIGN KEY (run_id) REFERENCES Run(id),
  PRIMARY KEY (run_id, stage, raw)
);
`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("creating ledger tables: %w", err)
	}
	return nil
}
