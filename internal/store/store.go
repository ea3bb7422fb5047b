// Package store provides SQLite persistence of test runs and per-note
// statistics.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/leandrodaf/eartrainer/sdk/contracts"
	_ "modernc.org/sqlite"
)

// Store handles SQLite persistence. All methods are safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NoteStat aggregates every answer given for one test note.
type NoteStat struct {
	TestNote   int
	NumTests   int
	NumCorrect int
}

// Accuracy returns the fraction of correct answers, 0 when untested.
func (n NoteStat) Accuracy() float64 {
	if n.NumTests == 0 {
		return 0
	}
	return float64(n.NumCorrect) / float64(n.NumTests)
}

// Run is one stored test run.
type Run struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time // zero while the run is in progress
	TotalNotes  int
	NotesTested int
	NumCorrect  int
	NumWrong    int
	Finished    bool
}

// Open opens or creates the database at path. ":memory:" gives a private
// in-memory database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection: an in-memory database lives only as long as its connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		finished_at INTEGER,
		total_notes INTEGER NOT NULL,
		notes_tested INTEGER NOT NULL DEFAULT 0,
		num_correct INTEGER NOT NULL DEFAULT 0,
		num_wrong INTEGER NOT NULL DEFAULT 0,
		finished INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);

	CREATE TABLE IF NOT EXISTS note_stats (
		test_note INTEGER PRIMARY KEY,
		num_tests INTEGER NOT NULL DEFAULT 0,
		num_correct INTEGER NOT NULL DEFAULT 0
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// StartRun stores a run that has just begun.
func (s *Store) StartRun(results contracts.TestResults, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO runs (id, started_at, total_notes)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, results.RunID, at.UnixMilli(), results.TotalNotes)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun stores the final counters of a run. A run that was never started
// is inserted with its start time set to at.
func (s *Store) FinishRun(results contracts.TestResults, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO runs (id, started_at, finished_at, total_notes, notes_tested, num_correct, num_wrong, finished)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			finished_at = excluded.finished_at,
			total_notes = excluded.total_notes,
			notes_tested = excluded.notes_tested,
			num_correct = excluded.num_correct,
			num_wrong = excluded.num_wrong,
			finished = excluded.finished
	`,
		results.RunID,
		at.UnixMilli(),
		at.UnixMilli(),
		results.TotalNotes,
		results.NotesTested,
		results.NumCorrect,
		results.NumWrong,
		boolToInt(results.Finished),
	)
	if err != nil {
		return fmt.Errorf("upsert run: %w", err)
	}
	return nil
}

// RecordAnswer adds one graded answer to the statistics of its test note.
func (s *Store) RecordAnswer(item contracts.TestItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO note_stats (test_note, num_tests, num_correct)
		VALUES (?, 1, ?)
		ON CONFLICT(test_note) DO UPDATE SET
			num_tests = num_tests + 1,
			num_correct = num_correct + excluded.num_correct
	`, item.TestNote, boolToInt(item.Correct))
	if err != nil {
		return fmt.Errorf("record answer: %w", err)
	}
	return nil
}

// NoteStats returns the statistics of every tested note, lowest note first.
func (s *Store) NoteStats() ([]NoteStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT test_note, num_tests, num_correct FROM note_stats ORDER BY test_note`)
	if err != nil {
		return nil, fmt.Errorf("query note stats: %w", err)
	}
	defer rows.Close()

	var stats []NoteStat
	for rows.Next() {
		var st NoteStat
		if err := rows.Scan(&st.TestNote, &st.NumTests, &st.NumCorrect); err != nil {
			return nil, fmt.Errorf("scan note stat: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// Runs returns up to limit runs, most recent first.
func (s *Store) Runs(limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, started_at, finished_at, total_notes, notes_tested, num_correct, num_wrong, finished
		FROM runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r          Run
			startedAt  int64
			finishedAt sql.NullInt64
			finished   int
		)
		if err := rows.Scan(&r.ID, &startedAt, &finishedAt, &r.TotalNotes, &r.NotesTested, &r.NumCorrect, &r.NumWrong, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt = time.UnixMilli(startedAt)
		if finishedAt.Valid {
			r.FinishedAt = time.UnixMilli(finishedAt.Int64)
		}
		r.Finished = finished != 0
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ResetStats deletes every run and note statistic.
func (s *Store) ResetStats() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM note_stats`); err != nil {
		return fmt.Errorf("clear note stats: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM runs`); err != nil {
		return fmt.Errorf("clear runs: %w", err)
	}
	return tx.Commit()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
