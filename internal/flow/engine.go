package flow

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/dira2050/dirabot/internal/models"
)

// TurnResult is the outcome of processing one inbound token. The engine
// mutates the session (and quiz record) in place; the caller persists them
// and sends the messages.
type TurnResult struct {
	// Messages to send, in order. Interactive question states produce an
	// interactive message followed by the full text question.
	Messages []models.Outbound

	// Feedback holds the user's feedback text when the token was captured
	// in the feedback state, empty otherwise.
	Feedback string

	// Quiz is the quiz record to persist when the turn created or changed
	// one, nil otherwise.
	Quiz *models.QuizSession
}

// Engine is the pure conversation core: it maps (session, quiz, token) to
// state mutations and outbound messages. It performs no I/O.
type Engine struct {
	quiz   *QuizEngine
	logger *slog.Logger
}

// NewEngine creates a conversation engine.
func NewEngine() *Engine {
	return &Engine{
		quiz:   NewQuizEngine(),
		logger: slog.Default().With("component", "flow"),
	}
}

// Process handles one normalized text token for a session. quiz may be nil;
// the engine creates a record when the turn needs one and returns it on the
// result for persistence.
func (e *Engine) Process(session *models.Session, quiz *models.QuizSession, token string) TurnResult {
	lower := strings.ToLower(strings.TrimSpace(token))
	e.logger.Debug("Engine.Process: processing token",
		"phone", session.PhoneNumber, "state", session.CurrentState, "token", lower)

	// Global overrides apply in every state.
	if lower == "#" || lower == "clear" {
		session.ResetProfile()
		return e.textResult(session, WelcomeMessage())
	}
	if strings.Contains(lower, "anza upya") || strings.Contains(lower, "restart") || strings.Contains(lower, "anza") {
		session.CurrentState = models.StateWelcome
		return e.textResult(session, WelcomeMessage())
	}
	if strings.Contains(lower, "msaada") || strings.Contains(lower, "help") {
		return e.textResult(session, HelpMessage())
	}

	switch session.CurrentState {
	case models.StateWelcome:
		return e.handleWelcome(session, lower)
	case models.StateEconomicActivity:
		return e.handleEconomicActivity(session, lower)
	case models.StateGenderDisability:
		return e.handleGenderDisability(session, lower)
	case models.StatePersonalizedOverview:
		return e.handlePersonalizedOverview(session, quiz, lower)
	case models.StateQuiz:
		return e.handleQuiz(session, quiz, lower)
	case models.StateFeedback:
		return e.handleFeedback(session, lower)
	default:
		// Unknown stored state: re-prompt without mutating it.
		e.logger.Warn("Engine.Process: unknown state", "phone", session.PhoneNumber, "state", session.CurrentState)
		return e.textResult(session, DefaultReprompt(session.Language))
	}
}

func (e *Engine) handleWelcome(session *models.Session, lower string) TurnResult {
	switch {
	case matchChoice(lower, 1) || strings.Contains(lower, "kiswahili"):
		session.Language = models.LanguageSwahili
	case matchChoice(lower, 2) || strings.Contains(lower, "english"):
		session.Language = models.LanguageEnglish
	default:
		return e.textResult(session, languageReprompt)
	}
	session.CurrentState = models.StateEconomicActivity
	return e.questionResult(session, ActivityQuestion(session.Language))
}

var activityByChoice = [...]models.EconomicActivity{
	models.ActivityStudent,
	models.ActivityFarmer,
	models.ActivityEntrepreneur,
	models.ActivityWorker,
	models.ActivityUnemployed,
	models.ActivityOther,
}

func (e *Engine) handleEconomicActivity(session *models.Session, lower string) TurnResult {
	for i, activity := range activityByChoice {
		if matchChoice(lower, i+1) {
			session.EconomicActivity = activity
			session.CurrentState = models.StateGenderDisability
			return e.questionResult(session, GenderQuestion(session.Language))
		}
	}
	return e.questionResult(session, ActivityQuestion(session.Language))
}

func (e *Engine) handleGenderDisability(session *models.Session, lower string) TurnResult {
	switch {
	case matchChoice(lower, 1):
		session.Gender = models.GenderMale
		session.HasDisability = false
	case matchChoice(lower, 2):
		session.Gender = models.GenderFemale
		session.HasDisability = false
	case matchChoice(lower, 3):
		session.Gender = models.GenderMale
		session.HasDisability = true
	case matchChoice(lower, 4):
		session.Gender = models.GenderFemale
		session.HasDisability = true
	case matchChoice(lower, 5):
		// Prefer-not-to-say keeps whatever was answered before.
	default:
		return e.questionResult(session, GenderQuestion(session.Language))
	}
	session.CurrentState = models.StatePersonalizedOverview
	return e.textResult(session, PersonalizedOverview(session))
}

func (e *Engine) handlePersonalizedOverview(session *models.Session, quiz *models.QuizSession, lower string) TurnResult {
	switch {
	case matchChoice(lower, 1) || strings.Contains(lower, "quiz") || strings.Contains(lower, "jaribio") || strings.Contains(lower, "maswali"):
		if quiz == nil {
			quiz = models.NewQuizSession(session.PhoneNumber)
		}
		result := e.textResult(session, e.quiz.Start(session, quiz))
		result.Quiz = quiz
		return result
	case matchChoice(lower, 2) || strings.Contains(lower, "maelezo") || strings.Contains(lower, "details") || strings.Contains(lower, "zaidi"):
		return e.textResult(session, DetailedInfo(session.EconomicActivity))
	case matchChoice(lower, 3) || strings.Contains(lower, "maoni") || strings.Contains(lower, "feedback"):
		session.CurrentState = models.StateFeedback
		return e.textResult(session, FeedbackPrompt())
	case matchChoice(lower, 4) || strings.Contains(lower, "pdf") || strings.Contains(lower, "kurasa"):
		return e.textResult(session, PDFInfo())
	case matchChoice(lower, 5):
		session.CurrentState = models.StateWelcome
		return e.textResult(session, WelcomeMessage())
	default:
		return e.textResult(session, OverviewMenuReprompt(session.Language))
	}
}

func (e *Engine) handleQuiz(session *models.Session, quiz *models.QuizSession, lower string) TurnResult {
	if quiz == nil {
		// Session stuck in quiz state without a record: start fresh.
		quiz = models.NewQuizSession(session.PhoneNumber)
		result := e.textResult(session, e.quiz.Start(session, quiz))
		result.Quiz = quiz
		return result
	}
	result := e.textResult(session, e.quiz.Answer(session, quiz, lower))
	result.Quiz = quiz
	return result
}

func (e *Engine) handleFeedback(session *models.Session, lower string) TurnResult {
	session.CurrentState = models.StatePersonalizedOverview
	result := e.textResult(session, FeedbackThanks())
	result.Feedback = lower
	return result
}

// textResult wraps a single text body as a one-message result.
func (e *Engine) textResult(session *models.Session, body string) TurnResult {
	return TurnResult{Messages: []models.Outbound{
		models.NewTextMessage(session.PhoneNumber, body),
	}}
}

// questionResult renders a question state as an interactive message plus the
// full text question, so clients without interactive support still see every
// option.
func (e *Engine) questionResult(session *models.Session, body string) TurnResult {
	messages := make([]models.Outbound, 0, 2)
	if interactive, ok := InteractiveQuestion(session.CurrentState, session.Language, session.PhoneNumber); ok {
		messages = append(messages, interactive)
	}
	messages = append(messages, models.NewTextMessage(session.PhoneNumber, body))
	return TurnResult{Messages: messages}
}

// matchChoice reports whether the text selects menu option n, either as a
// standalone digit token or as the corresponding interactive reply ID. A bare
// substring check would make "10" select option 1, so matching is by whole
// token only.
func matchChoice(lower string, n int) bool {
	digit := strconv.Itoa(n)
	if containsToken(lower, digit) {
		return true
	}
	return strings.TrimSpace(lower) == "option_"+digit
}

// containsToken reports whether text contains key as a whole
// whitespace-separated token, ignoring surrounding punctuation.
func containsToken(text, key string) bool {
	for _, field := range strings.Fields(text) {
		if strings.Trim(field, ".,:;!?()[]\"'") == key {
			return true
		}
	}
	return false
}
