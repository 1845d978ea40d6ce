// Package models defines the core data structures for dirabot.
//
// It includes the per-user conversation session, the append-only conversation
// log, and the quiz progress record, which are shared across modules.
package models

import (
	"errors"
	"time"
)

// Language is the language a session is conducted in.
type Language string

const (
	// LanguageSwahili is the default conversation language.
	LanguageSwahili Language = "swahili"
	// LanguageEnglish is selected with option 2 at the welcome prompt.
	LanguageEnglish Language = "english"
)

// EconomicActivity is the self-reported economic activity of a user.
type EconomicActivity string

const (
	ActivityStudent      EconomicActivity = "student"
	ActivityFarmer       EconomicActivity = "farmer"
	ActivityEntrepreneur EconomicActivity = "entrepreneur"
	ActivityWorker       EconomicActivity = "worker"
	ActivityUnemployed   EconomicActivity = "unemployed"
	ActivityOther        EconomicActivity = "other"
	// ActivityUnset means the user has not answered the activity question yet.
	ActivityUnset EconomicActivity = ""
)

// Gender is the self-reported gender of a user.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
	// GenderUnset covers "prefer not to say" and unanswered sessions.
	GenderUnset Gender = ""
)

// State is one stage of the fixed conversation flow.
type State string

const (
	// StateWelcome is the initial state: language selection.
	StateWelcome State = "welcome"
	// StateEconomicActivity asks the six-option activity question.
	StateEconomicActivity State = "economic_activity"
	// StateGenderDisability asks the combined gender/disability question.
	StateGenderDisability State = "gender_disability"
	// StatePersonalizedOverview presents the tailored overview and main menu.
	StatePersonalizedOverview State = "personalized_overview"
	// StateQuiz delegates input to the quiz engine.
	StateQuiz State = "quiz"
	// StateFeedback captures free-text feedback.
	StateFeedback State = "feedback"
)

// IsValidState checks if the given state is one of the six defined states.
func IsValidState(s State) bool {
	switch s {
	case StateWelcome, StateEconomicActivity, StateGenderDisability,
		StatePersonalizedOverview, StateQuiz, StateFeedback:
		return true
	default:
		return false
	}
}

// IsValidLanguage checks if the given language is supported.
func IsValidLanguage(l Language) bool {
	return l == LanguageSwahili || l == LanguageEnglish
}

// IsValidActivity checks if the given economic activity is a known value.
func IsValidActivity(a EconomicActivity) bool {
	switch a {
	case ActivityStudent, ActivityFarmer, ActivityEntrepreneur,
		ActivityWorker, ActivityUnemployed, ActivityOther, ActivityUnset:
		return true
	default:
		return false
	}
}

// Error variables for better error handling and testability
var (
	ErrEmptyRecipient  = errors.New("recipient cannot be empty")
	ErrEmptyBody       = errors.New("message body cannot be empty")
	ErrInvalidState    = errors.New("invalid conversation state")
	ErrInvalidLanguage = errors.New("invalid language")
	ErrSessionNotFound = errors.New("session not found")

	// ErrTransport marks failures talking to the outbound messaging API.
	// Conversation state already persisted is never rolled back because of it.
	ErrTransport = errors.New("message transport failure")
	// ErrPersistence marks session store failures. A failed session lookup
	// aborts the turn with a localized apology to the user.
	ErrPersistence = errors.New("session store failure")
)

// QuizTotalQuestions is the fixed number of quiz questions.
const QuizTotalQuestions = 5

// Session is the per-user persisted conversation state, keyed by phone number.
type Session struct {
	PhoneNumber      string           `json:"phone_number"`
	Name             string           `json:"name,omitempty"`
	Language         Language         `json:"language"`
	EconomicActivity EconomicActivity `json:"economic_activity,omitempty"`
	Gender           Gender           `json:"gender,omitempty"`
	HasDisability    bool             `json:"has_disability"`
	CurrentState     State            `json:"current_state"`
	IsActive         bool             `json:"is_active"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// NewSession creates a session with default field values for a phone number.
func NewSession(phoneNumber, name string) *Session {
	now := time.Now()
	return &Session{
		PhoneNumber:  phoneNumber,
		Name:         name,
		Language:     LanguageSwahili,
		CurrentState: StateWelcome,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate performs validation on a Session structure.
func (s *Session) Validate() error {
	if s.PhoneNumber == "" {
		return ErrEmptyRecipient
	}
	if !IsValidState(s.CurrentState) {
		return ErrInvalidState
	}
	if !IsValidLanguage(s.Language) {
		return ErrInvalidLanguage
	}
	return nil
}

// ResetProfile clears the answered profile fields back to their defaults.
// Used by the full-reset command; the phone number and timestamps survive.
func (s *Session) ResetProfile() {
	s.EconomicActivity = ActivityUnset
	s.Gender = GenderUnset
	s.HasDisability = false
	s.Language = LanguageSwahili
	s.CurrentState = StateWelcome
}

// LogDirection classifies a conversation log entry.
type LogDirection string

const (
	// DirectionIncoming is a message received from the user.
	DirectionIncoming LogDirection = "incoming"
	// DirectionOutgoing is a message sent to the user.
	DirectionOutgoing LogDirection = "outgoing"
	// DirectionFeedback is user feedback captured in the feedback state.
	DirectionFeedback LogDirection = "feedback"
)

// ConversationLog is an append-only audit record of one message.
// Log writes are a pure side channel: failures never abort the conversation.
type ConversationLog struct {
	PhoneNumber string       `json:"phone_number"`
	Direction   LogDirection `json:"direction"`
	Content     string       `json:"content"`
	Timestamp   time.Time    `json:"timestamp"`
}

// QuizSession tracks progress through the five-question quiz for one session.
// Invariants: 0 <= CurrentQuestion <= TotalQuestions and Score <= CurrentQuestion.
type QuizSession struct {
	PhoneNumber     string     `json:"phone_number"`
	CurrentQuestion int        `json:"current_question"`
	Score           int        `json:"score"`
	TotalQuestions  int        `json:"total_questions"`
	IsCompleted     bool       `json:"is_completed"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// NewQuizSession creates a fresh quiz record for a session.
func NewQuizSession(phoneNumber string) *QuizSession {
	return &QuizSession{
		PhoneNumber:    phoneNumber,
		TotalQuestions: QuizTotalQuestions,
		StartedAt:      time.Now(),
	}
}

// Restart zeroes progress so a completed quiz record can be reused for a new
// attempt. An in-progress quiz is left untouched.
func (q *QuizSession) Restart() {
	if !q.IsCompleted {
		return
	}
	q.CurrentQuestion = 0
	q.Score = 0
	q.IsCompleted = false
	q.CompletedAt = nil
	q.StartedAt = time.Now()
}

// Percentage returns the completion percentage rounded to the nearest integer.
func (q *QuizSession) Percentage() int {
	if q.TotalQuestions == 0 {
		return 0
	}
	return int(float64(q.Score)/float64(q.TotalQuestions)*100 + 0.5)
}
