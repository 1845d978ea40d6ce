// Package store provides storage backends for dirabot.
//
// It includes an in-memory store for tests and development, plus SQLite and
// PostgreSQL backends for persistent session, log, and quiz records.
package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dira2050/dirabot/internal/models"
)

// Store defines keyed record semantics over sessions, conversation logs, and
// quiz sessions. Uniqueness on phone number is enforced by the backend.
type Store interface {
	// GetOrCreateSession returns the session for a phone number, creating it
	// with default field values (and the given contact name) if absent.
	GetOrCreateSession(phoneNumber, name string) (*models.Session, error)

	// GetSession returns the session for a phone number, or nil if absent.
	GetSession(phoneNumber string) (*models.Session, error)

	// SaveSession stores or updates a session (last write wins).
	SaveSession(session models.Session) error

	// DeleteSession removes a session. Deleting an absent session is not an error.
	DeleteSession(phoneNumber string) error

	// AddConversationLog appends an audit record.
	AddConversationLog(entry models.ConversationLog) error

	// GetConversationLogs returns all audit records for a phone number in
	// insertion order.
	GetConversationLogs(phoneNumber string) ([]models.ConversationLog, error)

	// GetQuizSession returns the quiz record for a phone number, or nil if absent.
	GetQuizSession(phoneNumber string) (*models.QuizSession, error)

	// GetOrCreateQuizSession returns the quiz record for a phone number,
	// creating a zeroed one if absent.
	GetOrCreateQuizSession(phoneNumber string) (*models.QuizSession, error)

	// SaveQuizSession stores or updates a quiz record.
	SaveQuizSession(quiz models.QuizSession) error

	// CountSessionsByState returns the number of sessions per conversation state.
	CountSessionsByState() (map[models.State]int, error)

	// CountCompletedQuizzes returns the number of completed quiz records.
	CountCompletedQuizzes() (int, error)

	// Close releases backend resources.
	Close() error
}

// Opts holds configuration options for store backends.
type Opts struct {
	DSN string
}

// Option defines a configuration option for a store backend.
type Option func(*Opts)

// WithSQLiteDSN sets the SQLite database file path.
func WithSQLiteDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// WithPostgresDSN sets the PostgreSQL connection string.
func WithPostgresDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// DetectDSNType reports "postgres" for PostgreSQL connection strings and
// "sqlite" for anything else (treated as a file path).
func DetectDSNType(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return "postgres"
	}
	return "sqlite"
}

// InMemoryStore is a thread-safe in-memory Store for tests and development.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
	logs     []models.ConversationLog
	quizzes  map[string]models.QuizSession
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]models.Session),
		quizzes:  make(map[string]models.QuizSession),
	}
}

// GetOrCreateSession returns the session for a phone number, creating it if absent.
func (s *InMemoryStore) GetOrCreateSession(phoneNumber, name string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[phoneNumber]; ok {
		return &sess, nil
	}
	sess := models.NewSession(phoneNumber, name)
	s.sessions[phoneNumber] = *sess
	return sess, nil
}

// GetSession returns the session for a phone number, or nil if absent.
func (s *InMemoryStore) GetSession(phoneNumber string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[phoneNumber]; ok {
		return &sess, nil
	}
	return nil, nil
}

// SaveSession stores or updates a session.
func (s *InMemoryStore) SaveSession(session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session.UpdatedAt = time.Now()
	s.sessions[session.PhoneNumber] = session
	return nil
}

// DeleteSession removes a session and its quiz record.
func (s *InMemoryStore) DeleteSession(phoneNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, phoneNumber)
	delete(s.quizzes, phoneNumber)
	return nil
}

// AddConversationLog appends an audit record.
func (s *InMemoryStore) AddConversationLog(entry models.ConversationLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	s.logs = append(s.logs, entry)
	return nil
}

// GetConversationLogs returns all audit records for a phone number.
func (s *InMemoryStore) GetConversationLogs(phoneNumber string) ([]models.ConversationLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.ConversationLog
	for _, entry := range s.logs {
		if entry.PhoneNumber == phoneNumber {
			out = append(out, entry)
		}
	}
	return out, nil
}

// GetQuizSession returns the quiz record for a phone number, or nil if absent.
func (s *InMemoryStore) GetQuizSession(phoneNumber string) (*models.QuizSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if quiz, ok := s.quizzes[phoneNumber]; ok {
		return &quiz, nil
	}
	return nil, nil
}

// GetOrCreateQuizSession returns the quiz record for a phone number, creating one if absent.
func (s *InMemoryStore) GetOrCreateQuizSession(phoneNumber string) (*models.QuizSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if quiz, ok := s.quizzes[phoneNumber]; ok {
		return &quiz, nil
	}
	quiz := models.NewQuizSession(phoneNumber)
	s.quizzes[phoneNumber] = *quiz
	return quiz, nil
}

// SaveQuizSession stores or updates a quiz record.
func (s *InMemoryStore) SaveQuizSession(quiz models.QuizSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[quiz.PhoneNumber] = quiz
	return nil
}

// CountSessionsByState returns the number of sessions per conversation state.
func (s *InMemoryStore) CountSessionsByState() (map[models.State]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[models.State]int)
	for _, sess := range s.sessions {
		counts[sess.CurrentState]++
	}
	return counts, nil
}

// CountCompletedQuizzes returns the number of completed quiz records.
func (s *InMemoryStore) CountCompletedQuizzes() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, quiz := range s.quizzes {
		if quiz.IsCompleted {
			n++
		}
	}
	return n, nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error { return nil }

// ListSessions returns all sessions ordered by phone number (for tests and stats).
func (s *InMemoryStore) ListSessions() []models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PhoneNumber < out[j].PhoneNumber })
	return out
}
