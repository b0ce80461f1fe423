// Package history keeps a SQLite ledger of finished batch runs. Live task
// state stays in memory and dies with the process; the ledger only records
// terminal outcomes for later inspection.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nfoedit/nfoedit/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	task_id     TEXT PRIMARY KEY,
	directory   TEXT NOT NULL,
	field       TEXT NOT NULL,
	value       TEXT NOT NULL,
	mode        TEXT NOT NULL,
	status      TEXT NOT NULL,
	total       INTEGER NOT NULL,
	success     INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	created_at  TIMESTAMP NOT NULL,
	finished_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_finished ON runs(finished_at);
`

// Store provides SQLite-backed run history
type Store struct {
	db *sql.DB
}

// New creates a Store with the given database path
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores the final snapshot of a finished task
func (s *Store) Record(snap domain.TaskSnapshot) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (task_id, directory, field, value, mode, status, total, success, failed, created_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(task_id) DO NOTHING
	`,
		snap.ID,
		snap.Directory,
		snap.Field,
		snap.Value,
		string(snap.Mode),
		string(snap.Status),
		snap.TotalFiles,
		snap.Success,
		snap.Failed,
		snap.CreatedAt,
		time.Now(),
	)
	return err
}

// Run is one finished batch run
type Run struct {
	TaskID     string    `json:"task_id"`
	Directory  string    `json:"directory"`
	Field      string    `json:"field"`
	Value      string    `json:"value"`
	Mode       string    `json:"mode"`
	Status     string    `json:"status"`
	Total      int       `json:"total"`
	Success    int       `json:"success"`
	Failed     int       `json:"failed"`
	CreatedAt  time.Time `json:"created_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// List returns the most recent runs, newest first
func (s *Store) List(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT task_id, directory, field, value, mode, status, total, success, failed, created_at, finished_at
		FROM runs ORDER BY finished_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.TaskID, &r.Directory, &r.Field, &r.Value, &r.Mode, &r.Status,
			&r.Total, &r.Success, &r.Failed, &r.CreatedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
