package flow

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dira2050/dirabot/internal/models"
)

// quizQuestion is one multiple-choice question with a single correct label.
type quizQuestion struct {
	Prompt  string
	Options [3]string
	Correct string
}

// quizQuestions holds the fixed DIRA 2050 quiz. Content is Swahili regardless
// of the session language.
var quizQuestions = [models.QuizTotalQuestions]quizQuestion{
	{
		Prompt: "Lengo la GDP la Tanzania ifikapo 2050 ni nini?",
		Options: [3]string{
			"A. USD 500 bilioni",
			"B. USD 1 trilioni",
			"C. USD 2 trilioni",
		},
		Correct: "B",
	},
	{
		Prompt: "Nguzo kuu za DIRA 2050 ni ngapi?",
		Options: [3]string{
			"A. 3",
			"B. 5",
			"C. 7",
		},
		Correct: "A",
	},
	{
		Prompt: "Kipato cha kila mtu kinatarajiwa kuongezeka hadi?",
		Options: [3]string{
			"A. USD 3,000",
			"B. USD 5,000",
			"C. USD 7,000",
		},
		Correct: "C",
	},
	{
		Prompt: "DIRA inalenga kuunda ajira ngapi?",
		Options: [3]string{
			"A. Milioni 5",
			"B. Milioni 10",
			"C. Milioni 15",
		},
		Correct: "B",
	},
	{
		Prompt: "Tanzania inalenga kuwa kinara wa chakula katika?",
		Options: [3]string{
			"A. Afrika Mashariki",
			"B. Afrika",
			"C. Dunia",
		},
		Correct: "B",
	},
}

const quizCorrectFeedback = "✅ *Sahihi!* Hongera!"

const quizIncorrectFormat = "❌ *Si sahihi.* Jibu sahihi ni: %s"

// QuizEngine drives a session through the fixed question sequence. It is
// stateless: all progress lives on the QuizSession record passed in.
type QuizEngine struct {
	logger *slog.Logger
}

// NewQuizEngine creates a quiz engine.
func NewQuizEngine() *QuizEngine {
	return &QuizEngine{logger: slog.Default().With("component", "quiz")}
}

// Start moves the session into the quiz state and returns the first question.
// A previously completed quiz record is reset for the new attempt; an
// in-progress record resumes at its current question.
func (q *QuizEngine) Start(session *models.Session, quiz *models.QuizSession) string {
	quiz.Restart()
	session.CurrentState = models.StateQuiz
	q.logger.Debug("QuizEngine.Start: quiz started", "phone", session.PhoneNumber, "question", quiz.CurrentQuestion)
	return q.questionPrompt(quiz)
}

// Answer grades one answer token, advances the quiz, and returns the combined
// feedback-plus-next-question message. When the last question is answered the
// quiz is finished and the session returns to the overview state.
func (q *QuizEngine) Answer(session *models.Session, quiz *models.QuizSession, token string) string {
	if quiz.CurrentQuestion >= quiz.TotalQuestions {
		// Stored index beyond the question set: finish rather than panic.
		q.logger.Warn("QuizEngine.Answer: index out of range, finishing quiz",
			"phone", session.PhoneNumber, "question", quiz.CurrentQuestion)
		return q.finish(session, quiz)
	}

	question := quizQuestions[quiz.CurrentQuestion]
	answer := strings.ToUpper(strings.TrimSpace(token))

	var feedback string
	if answer == question.Correct {
		quiz.Score++
		feedback = quizCorrectFeedback
	} else {
		feedback = fmt.Sprintf(quizIncorrectFormat, question.Correct)
	}
	quiz.CurrentQuestion++

	if quiz.CurrentQuestion >= quiz.TotalQuestions {
		return feedback + "\n\n" + q.finish(session, quiz)
	}
	return feedback + "\n\n" + q.questionPrompt(quiz)
}

// finish marks the quiz completed and returns the tiered completion message.
func (q *QuizEngine) finish(session *models.Session, quiz *models.QuizSession) string {
	now := time.Now()
	quiz.IsCompleted = true
	quiz.CompletedAt = &now
	session.CurrentState = models.StatePersonalizedOverview

	percentage := quiz.Percentage()
	q.logger.Info("QuizEngine.finish: quiz completed",
		"phone", session.PhoneNumber, "score", quiz.Score, "total", quiz.TotalQuestions, "percentage", percentage)

	var tier string
	switch {
	case percentage >= 80:
		tier = "🏆 *Hongera sana!* Una uelewa mzuri wa DIRA 2050!"
	case percentage >= 60:
		tier = "👏 *Vizuri!* Una uelewa wa kati wa DIRA 2050."
	default:
		tier = "📖 Endelea kujifunza kuhusu DIRA 2050!"
	}

	return fmt.Sprintf(`🎯 *Umemaliza Quiz ya DIRA 2050!*

*Matokeo yako:* %d/%d (%d%%)

%s

Je, unataka maelezo zaidi, maoni, au "Anza" kuanza upya?`, quiz.Score, quiz.TotalQuestions, percentage, tier)
}

// questionPrompt renders the current question with its options and the
// answer instruction.
func (q *QuizEngine) questionPrompt(quiz *models.QuizSession) string {
	question := quizQuestions[quiz.CurrentQuestion]
	return fmt.Sprintf(`🎯 *Quiz ya DIRA 2050* - Swali %d/%d

%s

%s
%s
%s

*Andika herufi ya jibu lako (A, B au C)*`,
		quiz.CurrentQuestion+1, quiz.TotalQuestions,
		question.Prompt,
		question.Options[0], question.Options[1], question.Options[2])
}
