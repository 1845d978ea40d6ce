// Package store provides storage backends for dirabot.
//
// This file implements an SQLite-backed store for sessions, logs, and quizzes.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "embed"

	"github.com/dira2050/dirabot/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// Constants for SQLite store configuration
const (
	// DefaultDirPermissions defines the default permissions for database directories
	DefaultDirPermissions = 0755
)

//go:embed migrations_sqlite.sql
var sqliteMigrations string

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given DSN.
// The DSN should be a file path to the SQLite database file.
// If the directory doesn't exist, it will be created.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	// Ensure the directory exists
	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}

	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}

	// Run migrations to ensure tables exist
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLite migrations applied successfully")

	return &SQLiteStore{db: db}, nil
}

// GetOrCreateSession returns the session for a phone number, creating it if absent.
func (s *SQLiteStore) GetOrCreateSession(phoneNumber, name string) (*models.Session, error) {
	sess, err := s.GetSession(phoneNumber)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		return sess, nil
	}

	sess = models.NewSession(phoneNumber, name)
	_, err = s.db.Exec(`INSERT INTO sessions
		(phone_number, name, language, economic_activity, gender, has_disability, current_state, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.PhoneNumber, sess.Name, sess.Language, sess.EconomicActivity, sess.Gender,
		sess.HasDisability, sess.CurrentState, sess.IsActive, sess.CreatedAt, sess.UpdatedAt)
	if err != nil {
		slog.Error("SQLiteStore GetOrCreateSession insert failed", "error", err, "phone", phoneNumber)
		return nil, fmt.Errorf("failed to create session for %s: %w", phoneNumber, err)
	}
	slog.Debug("SQLiteStore created new session", "phone", phoneNumber)
	return sess, nil
}

// GetSession returns the session for a phone number, or nil if absent.
func (s *SQLiteStore) GetSession(phoneNumber string) (*models.Session, error) {
	var sess models.Session
	err := s.db.QueryRow(`SELECT phone_number, name, language, economic_activity, gender, has_disability, current_state, is_active, created_at, updated_at
		FROM sessions WHERE phone_number = ?`, phoneNumber).Scan(
		&sess.PhoneNumber, &sess.Name, &sess.Language, &sess.EconomicActivity, &sess.Gender,
		&sess.HasDisability, &sess.CurrentState, &sess.IsActive, &sess.CreatedAt, &sess.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetSession failed", "error", err, "phone", phoneNumber)
		return nil, fmt.Errorf("failed to query session for %s: %w", phoneNumber, err)
	}
	return &sess, nil
}

// SaveSession stores or updates a session (last write wins).
func (s *SQLiteStore) SaveSession(session models.Session) error {
	session.UpdatedAt = time.Now()
	_, err := s.db.Exec(`INSERT OR REPLACE INTO sessions
		(phone_number, name, language, economic_activity, gender, has_disability, current_state, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.PhoneNumber, session.Name, session.Language, session.EconomicActivity, session.Gender,
		session.HasDisability, session.CurrentState, session.IsActive, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		slog.Error("SQLiteStore SaveSession failed", "error", err, "phone", session.PhoneNumber)
		return fmt.Errorf("failed to save session for %s: %w", session.PhoneNumber, err)
	}
	slog.Debug("SQLiteStore SaveSession succeeded", "phone", session.PhoneNumber, "state", session.CurrentState)
	return nil
}

// DeleteSession removes a session and its quiz record.
func (s *SQLiteStore) DeleteSession(phoneNumber string) error {
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE phone_number = ?`, phoneNumber); err != nil {
		slog.Error("SQLiteStore DeleteSession failed", "error", err, "phone", phoneNumber)
		return fmt.Errorf("failed to delete session for %s: %w", phoneNumber, err)
	}
	if _, err := s.db.Exec(`DELETE FROM quiz_sessions WHERE phone_number = ?`, phoneNumber); err != nil {
		slog.Error("SQLiteStore DeleteSession quiz cleanup failed", "error", err, "phone", phoneNumber)
		return fmt.Errorf("failed to delete quiz session for %s: %w", phoneNumber, err)
	}
	return nil
}

// AddConversationLog appends an audit record.
func (s *SQLiteStore) AddConversationLog(entry models.ConversationLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO conversation_logs (phone_number, direction, content, timestamp) VALUES (?, ?, ?, ?)`,
		entry.PhoneNumber, entry.Direction, entry.Content, entry.Timestamp)
	if err != nil {
		slog.Error("SQLiteStore AddConversationLog failed", "error", err, "phone", entry.PhoneNumber)
		return fmt.Errorf("failed to insert log for %s: %w", entry.PhoneNumber, err)
	}
	return nil
}

// GetConversationLogs returns all audit records for a phone number in insertion order.
func (s *SQLiteStore) GetConversationLogs(phoneNumber string) ([]models.ConversationLog, error) {
	rows, err := s.db.Query(`SELECT phone_number, direction, content, timestamp FROM conversation_logs WHERE phone_number = ? ORDER BY id`, phoneNumber)
	if err != nil {
		slog.Error("SQLiteStore GetConversationLogs query failed", "error", err, "phone", phoneNumber)
		return nil, fmt.Errorf("failed to query logs for %s: %w", phoneNumber, err)
	}
	defer rows.Close()

	var logs []models.ConversationLog
	for rows.Next() {
		var entry models.ConversationLog
		if err := rows.Scan(&entry.PhoneNumber, &entry.Direction, &entry.Content, &entry.Timestamp); err != nil {
			slog.Error("SQLiteStore GetConversationLogs scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan log row: %w", err)
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		slog.Error("SQLiteStore GetConversationLogs rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate log rows: %w", err)
	}
	return logs, nil
}

// GetQuizSession returns the quiz record for a phone number, or nil if absent.
func (s *SQLiteStore) GetQuizSession(phoneNumber string) (*models.QuizSession, error) {
	var quiz models.QuizSession
	var completedAt sql.NullTime
	err := s.db.QueryRow(`SELECT phone_number, current_question, score, total_questions, is_completed, started_at, completed_at
		FROM quiz_sessions WHERE phone_number = ?`, phoneNumber).Scan(
		&quiz.PhoneNumber, &quiz.CurrentQuestion, &quiz.Score, &quiz.TotalQuestions,
		&quiz.IsCompleted, &quiz.StartedAt, &completedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetQuizSession query failed", "error", err, "phone", phoneNumber)
		return nil, fmt.Errorf("failed to query quiz session for %s: %w", phoneNumber, err)
	}
	if completedAt.Valid {
		quiz.CompletedAt = &completedAt.Time
	}
	return &quiz, nil
}

// GetOrCreateQuizSession returns the quiz record for a phone number, creating one if absent.
func (s *SQLiteStore) GetOrCreateQuizSession(phoneNumber string) (*models.QuizSession, error) {
	quiz, err := s.GetQuizSession(phoneNumber)
	if err != nil {
		return nil, err
	}
	if quiz != nil {
		return quiz, nil
	}

	created := models.NewQuizSession(phoneNumber)
	_, err = s.db.Exec(`INSERT INTO quiz_sessions (phone_number, current_question, score, total_questions, is_completed, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		created.PhoneNumber, created.CurrentQuestion, created.Score, created.TotalQuestions, created.IsCompleted, created.StartedAt)
	if err != nil {
		slog.Error("SQLiteStore GetOrCreateQuizSession insert failed", "error", err, "phone", phoneNumber)
		return nil, fmt.Errorf("failed to create quiz session for %s: %w", phoneNumber, err)
	}
	return created, nil
}

// SaveQuizSession stores or updates a quiz record.
func (s *SQLiteStore) SaveQuizSession(quiz models.QuizSession) error {
	var completedAt interface{}
	if quiz.CompletedAt != nil {
		completedAt = *quiz.CompletedAt
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO quiz_sessions
		(phone_number, current_question, score, total_questions, is_completed, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		quiz.PhoneNumber, quiz.CurrentQuestion, quiz.Score, quiz.TotalQuestions, quiz.IsCompleted, quiz.StartedAt, completedAt)
	if err != nil {
		slog.Error("SQLiteStore SaveQuizSession failed", "error", err, "phone", quiz.PhoneNumber)
		return fmt.Errorf("failed to save quiz session for %s: %w", quiz.PhoneNumber, err)
	}
	return nil
}

// CountSessionsByState returns the number of sessions per conversation state.
func (s *SQLiteStore) CountSessionsByState() (map[models.State]int, error) {
	rows, err := s.db.Query(`SELECT current_state, COUNT(*) FROM sessions GROUP BY current_state`)
	if err != nil {
		slog.Error("SQLiteStore CountSessionsByState query failed", "error", err)
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.State]int)
	for rows.Next() {
		var state models.State
		var n int
		if err := rows.Scan(&state, &n); err != nil {
			return nil, fmt.Errorf("failed to scan state count: %w", err)
		}
		counts[state] = n
	}
	return counts, rows.Err()
}

// CountCompletedQuizzes returns the number of completed quiz records.
func (s *SQLiteStore) CountCompletedQuizzes() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM quiz_sessions WHERE is_completed = 1`).Scan(&n)
	if err != nil {
		slog.Error("SQLiteStore CountCompletedQuizzes failed", "error", err)
		return 0, fmt.Errorf("failed to count completed quizzes: %w", err)
	}
	return n, nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	slog.Debug("Closing SQLite database connection")
	err := s.db.Close()
	if err != nil {
		slog.Error("Failed to close SQLite database", "error", err)
	}
	return err
}
