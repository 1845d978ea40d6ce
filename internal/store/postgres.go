// Package store provides storage backends for dirabot.
//
// This file implements a PostgreSQL-backed store for sessions, logs, and quizzes.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	"github.com/dira2050/dirabot/internal/models"
	_ "github.com/lib/pq"
)

// Database connection pool configuration constants
const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections in the pool
	DefaultMaxIdleConns = 25
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store based on provided options.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("PostgresStore.NewPostgresStore: creating Postgres store", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}

	// Run migrations to ensure tables exist
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Postgres migrations applied successfully")
	return &PostgresStore{db: db}, nil
}

// GetOrCreateSession returns the session for a phone number, creating it if absent.
func (s *PostgresStore) GetOrCreateSession(phoneNumber, name string) (*models.Session, error) {
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
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (phone_number) DO NOTHING`,
		sess.PhoneNumber, sess.Name, sess.Language, sess.EconomicActivity, sess.Gender,
		sess.HasDisability, sess.CurrentState, sess.IsActive, sess.CreatedAt, sess.UpdatedAt)
	if err != nil {
		slog.Error("PostgresStore GetOrCreateSession insert failed", "error", err, "phone", phoneNumber)
		return nil, fmt.Errorf("failed to create session for %s: %w", phoneNumber, err)
	}
	slog.Debug("PostgresStore created new session", "phone", phoneNumber)
	return sess, nil
}

// GetSession returns the session for a phone number, or nil if absent.
func (s *PostgresStore) GetSession(phoneNumber string) (*models.Session, error) {
	var sess models.Session
	err := s.db.QueryRow(`SELECT phone_number, name, language, economic_activity, gender, has_disability, current_state, is_active, created_at, updated_at
		FROM sessions WHERE phone_number = $1`, phoneNumber).Scan(
		&sess.PhoneNumber, &sess.Name, &sess.Language, &sess.EconomicActivity, &sess.Gender,
		&sess.HasDisability, &sess.CurrentState, &sess.IsActive, &sess.CreatedAt, &sess.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetSession failed", "error", err, "phone", phoneNumber)
		return nil, fmt.Errorf("failed to query session for %s: %w", phoneNumber, err)
	}
	return &sess, nil
}

// SaveSession stores or updates a session (last write wins).
func (s *PostgresStore) SaveSession(session models.Session) error {
	session.UpdatedAt = time.Now()
	_, err := s.db.Exec(`INSERT INTO sessions
		(phone_number, name, language, economic_activity, gender, has_disability, current_state, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (phone_number) DO UPDATE SET
			name = EXCLUDED.name,
			language = EXCLUDED.language,
			economic_activity = EXCLUDED.economic_activity,
			gender = EXCLUDED.gender,
			has_disability = EXCLUDED.has_disability,
			current_state = EXCLUDED.current_state,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at`,
		session.PhoneNumber, session.Name, session.Language, session.EconomicActivity, session.Gender,
		session.HasDisability, session.CurrentState, session.IsActive, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		slog.Error("PostgresStore SaveSession failed", "error", err, "phone", session.PhoneNumber)
		return fmt.Errorf("failed to save session for %s: %w", session.PhoneNumber, err)
	}
	slog.Debug("PostgresStore SaveSession succeeded", "phone", session.PhoneNumber, "state", session.CurrentState)
	return nil
}

// DeleteSession removes a session and its quiz record.
func (s *PostgresStore) DeleteSession(phoneNumber string) error {
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE phone_number = $1`, phoneNumber); err != nil {
		slog.Error("PostgresStore DeleteSession failed", "error", err, "phone", phoneNumber)
		return fmt.Errorf("failed to delete session for %s: %w", phoneNumber, err)
	}
	if _, err := s.db.Exec(`DELETE FROM quiz_sessions WHERE phone_number = $1`, phoneNumber); err != nil {
		slog.Error("PostgresStore DeleteSession quiz cleanup failed", "error", err, "phone", phoneNumber)
		return fmt.Errorf("failed to delete quiz session for %s: %w", phoneNumber, err)
	}
	return nil
}

// AddConversationLog appends an audit record.
func (s *PostgresStore) AddConversationLog(entry models.ConversationLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO conversation_logs (phone_number, direction, content, timestamp) VALUES ($1, $2, $3, $4)`,
		entry.PhoneNumber, entry.Direction, entry.Content, entry.Timestamp)
	if err != nil {
		slog.Error("PostgresStore AddConversationLog failed", "error", err, "phone", entry.PhoneNumber)
		return fmt.Errorf("failed to insert log for %s: %w", entry.PhoneNumber, err)
	}
	return nil
}

// GetConversationLogs returns all audit records for a phone number in insertion order.
func (s *PostgresStore) GetConversationLogs(phoneNumber string) ([]models.ConversationLog, error) {
	rows, err := s.db.Query(`SELECT phone_number, direction, content, timestamp FROM conversation_logs WHERE phone_number = $1 ORDER BY id`, phoneNumber)
	if err != nil {
		slog.Error("PostgresStore GetConversationLogs query failed", "error", err, "phone", phoneNumber)
		return nil, fmt.Errorf("failed to query logs for %s: %w", phoneNumber, err)
	}
	defer rows.Close()

	var logs []models.ConversationLog
	for rows.Next() {
		var entry models.ConversationLog
		if err := rows.Scan(&entry.PhoneNumber, &entry.Direction, &entry.Content, &entry.Timestamp); err != nil {
			slog.Error("PostgresStore GetConversationLogs scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan log row: %w", err)
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		slog.Error("PostgresStore GetConversationLogs rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate log rows: %w", err)
	}
	return logs, nil
}

// GetQuizSession returns the quiz record for a phone number, or nil if absent.
func (s *PostgresStore) GetQuizSession(phoneNumber string) (*models.QuizSession, error) {
	var quiz models.QuizSession
	var completedAt sql.NullTime
	err := s.db.QueryRow(`SELECT phone_number, current_question, score, total_questions, is_completed, started_at, completed_at
		FROM quiz_sessions WHERE phone_number = $1`, phoneNumber).Scan(
		&quiz.PhoneNumber, &quiz.CurrentQuestion, &quiz.Score, &quiz.TotalQuestions,
		&quiz.IsCompleted, &quiz.StartedAt, &completedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetQuizSession query failed", "error", err, "phone", phoneNumber)
		return nil, fmt.Errorf("failed to query quiz session for %s: %w", phoneNumber, err)
	}
	if completedAt.Valid {
		quiz.CompletedAt = &completedAt.Time
	}
	return &quiz, nil
}

// GetOrCreateQuizSession returns the quiz record for a phone number, creating one if absent.
func (s *PostgresStore) GetOrCreateQuizSession(phoneNumber string) (*models.QuizSession, error) {
	quiz, err := s.GetQuizSession(phoneNumber)
	if err != nil {
		return nil, err
	}
	if quiz != nil {
		return quiz, nil
	}

	created := models.NewQuizSession(phoneNumber)
	_, err = s.db.Exec(`INSERT INTO quiz_sessions (phone_number, current_question, score, total_questions, is_completed, started_at)
		VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (phone_number) DO NOTHING`,
		created.PhoneNumber, created.CurrentQuestion, created.Score, created.TotalQuestions, created.IsCompleted, created.StartedAt)
	if err != nil {
		slog.Error("PostgresStore GetOrCreateQuizSession insert failed", "error", err, "phone", phoneNumber)
		return nil, fmt.Errorf("failed to create quiz session for %s: %w", phoneNumber, err)
	}
	return created, nil
}

// SaveQuizSession stores or updates a quiz record.
func (s *PostgresStore) SaveQuizSession(quiz models.QuizSession) error {
	var completedAt interface{}
	if quiz.CompletedAt != nil {
		completedAt = *quiz.CompletedAt
	}
	_, err := s.db.Exec(`INSERT INTO quiz_sessions
		(phone_number, current_question, score, total_questions, is_completed, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (phone_number) DO UPDATE SET
			current_question = EXCLUDED.current_question,
			score = EXCLUDED.score,
			total_questions = EXCLUDED.total_questions,
			is_completed = EXCLUDED.is_completed,
			started_at = EXCLUDED.started_at,
			completed_at = EXCLUDED.completed_at`,
		quiz.PhoneNumber, quiz.CurrentQuestion, quiz.Score, quiz.TotalQuestions, quiz.IsCompleted, quiz.StartedAt, completedAt)
	if err != nil {
		slog.Error("PostgresStore SaveQuizSession failed", "error", err, "phone", quiz.PhoneNumber)
		return fmt.Errorf("failed to save quiz session for %s: %w", quiz.PhoneNumber, err)
	}
	return nil
}

// CountSessionsByState returns the number of sessions per conversation state.
func (s *PostgresStore) CountSessionsByState() (map[models.State]int, error) {
	rows, err := s.db.Query(`SELECT current_state, COUNT(*) FROM sessions GROUP BY current_state`)
	if err != nil {
		slog.Error("PostgresStore CountSessionsByState query failed", "error", err)
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
func (s *PostgresStore) CountCompletedQuizzes() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM quiz_sessions WHERE is_completed`).Scan(&n)
	if err != nil {
		slog.Error("PostgresStore CountCompletedQuizzes failed", "error", err)
		return 0, fmt.Errorf("failed to count completed quizzes: %w", err)
	}
	return n, nil
}

// Close closes the Postgres database connection.
func (s *PostgresStore) Close() error {
	slog.Debug("Closing Postgres database connection")
	return s.db.Close()
}
