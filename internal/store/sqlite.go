package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hzhou826/chatrelay/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			last_activity DATETIME NOT NULL,
			message_count INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_activity ON sessions(last_activity)`,
		`CREATE TABLE IF NOT EXISTS turns (
			turn_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			user_message TEXT NOT NULL,
			reply_text TEXT NOT NULL,
			timestamp DATETIME NOT NULL,
			model_used TEXT,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id, timestamp)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateOrTouch creates the session or bumps its last_activity. A single
// upsert keeps the operation atomic under concurrent calls.
func (s *SQLiteStore) CreateOrTouch(ctx context.Context, sessionID string) (*domain.Session, error) {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, created_at, last_activity, message_count)
		 VALUES (?, ?, ?, 0)
		 ON CONFLICT(session_id) DO UPDATE SET last_activity = excluded.last_activity`,
		sessionID, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create or touch session: %w", err)
	}
	return s.GetSession(ctx, sessionID)
}

// GetSession retrieves a session by ID.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	var session domain.Session
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, created_at, last_activity, message_count FROM sessions WHERE session_id = ?`,
		sessionID).Scan(&session.SessionID, &session.CreatedAt, &session.LastActivity, &session.MessageCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListSessions returns all sessions, most recently active first.
func (s *SQLiteStore) ListSessions(ctx context.Context) ([]domain.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, created_at, last_activity, message_count FROM sessions ORDER BY last_activity DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var session domain.Session
		if err := rows.Scan(&session.SessionID, &session.CreatedAt, &session.LastActivity, &session.MessageCount); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// AppendTurn inserts the turn and updates the owning session inside one
// transaction, so the counter increment cannot be partially applied.
func (s *SQLiteStore) AppendTurn(ctx context.Context, turn *domain.Turn) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO turns (turn_id, session_id, user_message, reply_text, timestamp, model_used) VALUES (?, ?, ?, ?, ?, ?)`,
		turn.TurnID, turn.SessionID, turn.UserMessage, turn.ReplyText, turn.Timestamp, turn.ModelUsed)
	if err != nil {
		return fmt.Errorf("failed to insert turn: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE sessions SET message_count = message_count + 1, last_activity = ? WHERE session_id = ?`,
		turn.Timestamp, turn.SessionID)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("session %s does not exist", turn.SessionID)
	}

	return tx.Commit()
}

// ListTurns returns turns ascending by timestamp. Insertion order breaks
// ties so the ordering is total.
func (s *SQLiteStore) ListTurns(ctx context.Context, sessionID string) ([]domain.Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT turn_id, session_id, user_message, reply_text, timestamp, model_used
		 FROM turns WHERE session_id = ? ORDER BY timestamp ASC, rowid ASC`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []domain.Turn
	for rows.Next() {
		var turn domain.Turn
		var modelUsed sql.NullString
		if err := rows.Scan(&turn.TurnID, &turn.SessionID, &turn.UserMessage, &turn.ReplyText, &turn.Timestamp, &modelUsed); err != nil {
			return nil, err
		}
		if modelUsed.Valid {
			turn.ModelUsed = &modelUsed.String
		}
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}

// CountTurns returns the number of turns persisted for a session.
func (s *SQLiteStore) CountTurns(ctx context.Context, sessionID string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM turns WHERE session_id = ?`, sessionID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
