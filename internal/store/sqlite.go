package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/atsmatch/internal/model"
)

var _ model.HistoryStore = (*SQLiteStore)(nil)

// SQLiteStore keeps analysis and rephrase results in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// results table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS results (
			id          TEXT PRIMARY KEY,
			kind        TEXT NOT NULL,
			input_hash  TEXT NOT NULL,
			output      TEXT NOT NULL,
			score       INTEGER NOT NULL DEFAULT 0,
			score_known INTEGER NOT NULL DEFAULT 0,
			created_at  INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS results_lookup ON results (kind, input_hash, created_at)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating results table: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// Lookup returns the most recent record of the given kind for inputHash, or
// nil when there is none.
func (s *SQLiteStore) Lookup(kind model.RecordKind, inputHash string) (*model.Record, error) {
	row := s.db.QueryRow(
		`SELECT id, kind, input_hash, output, score, score_known, created_at
		 FROM results WHERE kind = ? AND input_hash = ?
		 ORDER BY created_at DESC LIMIT 1`,
		string(kind), inputHash,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up %s result: %w", kind, err)
	}
	return &rec, nil
}

// Save inserts rec. A record with an existing ID replaces the old one.
func (s *SQLiteStore) Save(rec model.Record) error {
	if rec.ID == "" {
		return errors.New("saving result: empty id")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO results (id, kind, input_hash, output, score, score_known, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Kind), rec.InputHash, rec.Output,
		rec.Score.Value, boolToInt(rec.Score.Known), rec.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("saving result %s: %w", rec.ID, err)
	}
	return nil
}

// Recent returns up to limit records, newest first. A non-positive limit
// returns everything.
func (s *SQLiteStore) Recent(limit int) ([]model.Record, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		`SELECT id, kind, input_hash, output, score, score_known, created_at
		 FROM results ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}
	defer rows.Close()

	var out []model.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}
	return out, nil
}

// Cleanup deletes records older than the given duration.
func (s *SQLiteStore) Cleanup(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan).UnixNano()
	_, err := s.db.Exec("DELETE FROM results WHERE created_at < ?", cutoff)
	if err != nil {
		return fmt.Errorf("cleaning up results older than %v: %w", olderThan, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (model.Record, error) {
	var (
		rec        model.Record
		kind       string
		scoreKnown int
		createdAt  int64
	)
	if err := sc.Scan(&rec.ID, &kind, &rec.InputHash, &rec.Output, &rec.Score.Value, &scoreKnown, &createdAt); err != nil {
		return model.Record{}, err
	}
	rec.Kind = model.RecordKind(kind)
	rec.Score.Known = scoreKnown != 0
	rec.CreatedAt = time.Unix(0, createdAt).UTC()
	return rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
