package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/rivermin01/personal-study-guide/internal/models"
)

// SQLiteSessionStore persists sessions in an embedded SQLite database
type SQLiteSessionStore struct {
	db *sql.DB
}

// NewSQLiteSessionStore opens (creating if needed) the database at dbPath.
// ":memory:" gives a private throwaway database.
func NewSQLiteSessionStore(ctx context.Context, dbPath string) (*SQLiteSessionStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	store := &SQLiteSessionStore{db: db}
	if err := store.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteSessionStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS study_sessions (
  id TEXT PRIMARY KEY,
  payload TEXT NOT NULL,
  hour INTEGER NOT NULL,
  day_of_week INTEGER NOT NULL,
  score REAL NOT NULL,
  saved_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create study_sessions table: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) Append(ctx context.Context, session *models.SavedSession) (string, error) {
	if err := ensureID(session); err != nil {
		return "", err
	}

	payload, err := json.Marshal(session.Payload)
	if err != nil {
		return "", fmt.Errorf("marshal session payload: %w", err)
	}

	const stmt = `
INSERT INTO study_sessions (id, payload, hour, day_of_week, score, saved_at)
VALUES (?, ?, ?, ?, ?, ?);
`
	_, err = s.db.ExecContext(ctx, stmt,
		session.ID,
		string(payload),
		session.Hour,
		session.DayOfWeek,
		session.Score,
		session.SavedAt.UTC().Format(time.RFC3339Nano),
	)
	if isPrimaryKeyViolation(err) {
		return "", fmt.Errorf("insert session %s: %w", session.ID, ErrDuplicateID)
	}
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	return session.ID, nil
}

func isPrimaryKeyViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		return strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed")
	}
	return false
}

func (s *SQLiteSessionStore) Get(ctx context.Context, id string) (*models.SavedSession, error) {
	const query = `
SELECT id, payload, hour, day_of_week, score, saved_at
FROM study_sessions
WHERE id = ?;
`
	var (
		session models.SavedSession
		payload string
		savedAt string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID, &payload, &session.Hour, &session.DayOfWeek, &session.Score, &savedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), &session.Payload); err != nil {
		return nil, fmt.Errorf("unmarshal session payload: %w", err)
	}
	session.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		return nil, fmt.Errorf("parse saved_at: %w", err)
	}
	return &session, nil
}

// Count returns the number of stored sessions
func (s *SQLiteSessionStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM study_sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

func (s *SQLiteSessionStore) Close() error {
	return s.db.Close()
}
