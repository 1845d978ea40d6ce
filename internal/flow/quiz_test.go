package flow

import (
	"strings"
	"testing"

	"github.com/dira2050/dirabot/internal/models"
)

// quizCorrectAnswers mirrors the answer key of the question set.
var quizCorrectAnswers = []string{"B", "A", "C", "B", "B"}

func TestQuizPerfectRun(t *testing.T) {
	engine := NewQuizEngine()
	session := newTestSession(models.StatePersonalizedOverview)
	quiz := models.NewQuizSession(session.PhoneNumber)

	first := engine.Start(session, quiz)
	if session.CurrentState != models.StateQuiz {
		t.Fatalf("state = %q, want quiz", session.CurrentState)
	}
	if !strings.Contains(first, "Swali 1/5") {
		t.Fatalf("expected first question, got %q", first)
	}
	if !strings.Contains(first, "Lengo la GDP la Tanzania") {
		t.Fatalf("expected the GDP question first, got %q", first)
	}

	var last string
	for i, answer := range quizCorrectAnswers {
		last = engine.Answer(session, quiz, answer)
		if quiz.Score != i+1 {
			t.Errorf("after answer %d: score = %d, want %d", i+1, quiz.Score, i+1)
		}
		if i == 3 && !strings.Contains(last, "kinara wa chakula") {
			t.Errorf("expected the food-leader question last, got %q", last)
		}
	}

	if !quiz.IsCompleted {
		t.Error("quiz not marked completed")
	}
	if quiz.CompletedAt == nil {
		t.Error("CompletedAt not set")
	}
	if session.CurrentState != models.StatePersonalizedOverview {
		t.Errorf("state = %q, want return to overview", session.CurrentState)
	}
	if !strings.Contains(last, "5/5 (100%)") {
		t.Errorf("completion message missing score: %q", last)
	}
	if !strings.Contains(last, "Hongera sana") {
		t.Errorf("expected top tier message, got %q", last)
	}
}

func TestQuizScoreNeverDecreases(t *testing.T) {
	engine := NewQuizEngine()
	session := newTestSession(models.StateQuiz)
	quiz := models.NewQuizSession(session.PhoneNumber)
	engine.Start(session, quiz)

	prev := 0
	for _, answer := range []string{"B", "X", "nonsense", "A", "C"} {
		engine.Answer(session, quiz, answer)
		if quiz.Score < prev {
			t.Fatalf("score decreased from %d to %d", prev, quiz.Score)
		}
		if quiz.Score > quiz.CurrentQuestion {
			t.Fatalf("score %d exceeds answered questions %d", quiz.Score, quiz.CurrentQuestion)
		}
		prev = quiz.Score
	}
}

func TestQuizCompletionTiers(t *testing.T) {
	tests := []struct {
		name    string
		answers []string
		want    string
	}{
		{"top tier at 80 percent", []string{"B", "A", "C", "B", "x"}, "Hongera sana"},
		{"middle tier at 60 percent", []string{"B", "A", "C", "x", "x"}, "Vizuri"},
		{"low tier below 60", []string{"B", "x", "x", "x", "x"}, "Endelea kujifunza"},
		{"low tier at zero", []string{"x", "x", "x", "x", "x"}, "Endelea kujifunza"},
	}

	engine := NewQuizEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := newTestSession(models.StateQuiz)
			quiz := models.NewQuizSession(session.PhoneNumber)
			engine.Start(session, quiz)

			var last string
			for _, answer := range tt.answers {
				last = engine.Answer(session, quiz, answer)
			}
			if !strings.Contains(last, tt.want) {
				t.Errorf("completion message %q missing tier %q", last, tt.want)
			}
		})
	}
}

func TestQuizAnswerNormalization(t *testing.T) {
	engine := NewQuizEngine()
	for _, input := range []string{"b", "B", " b ", "\tB\n"} {
		session := newTestSession(models.StateQuiz)
		quiz := models.NewQuizSession(session.PhoneNumber)
		engine.Start(session, quiz)

		reply := engine.Answer(session, quiz, input)
		if quiz.Score != 1 {
			t.Errorf("input %q: score = %d, want 1", input, quiz.Score)
		}
		if !strings.Contains(reply, "Sahihi") {
			t.Errorf("input %q: expected correct feedback, got %q", input, reply)
		}
	}
}

func TestQuizIncorrectFeedbackNamesCorrectAnswer(t *testing.T) {
	engine := NewQuizEngine()
	session := newTestSession(models.StateQuiz)
	quiz := models.NewQuizSession(session.PhoneNumber)
	engine.Start(session, quiz)

	reply := engine.Answer(session, quiz, "A")
	if !strings.Contains(reply, "Jibu sahihi ni: B") {
		t.Errorf("incorrect feedback missing correct answer: %q", reply)
	}
	if !strings.Contains(reply, "Swali 2/5") {
		t.Errorf("expected next question after feedback: %q", reply)
	}
}

func TestQuizOutOfRangeIndexFinishes(t *testing.T) {
	engine := NewQuizEngine()
	session := newTestSession(models.StateQuiz)
	quiz := models.NewQuizSession(session.PhoneNumber)
	quiz.CurrentQuestion = 7
	quiz.Score = 3

	reply := engine.Answer(session, quiz, "A")
	if !quiz.IsCompleted {
		t.Error("expected quiz to be finished")
	}
	if quiz.Score != 3 {
		t.Errorf("score changed on out-of-range answer: %d", quiz.Score)
	}
	if session.CurrentState != models.StatePersonalizedOverview {
		t.Errorf("state = %q, want overview", session.CurrentState)
	}
	if !strings.Contains(reply, "Umemaliza") {
		t.Errorf("expected completion message, got %q", reply)
	}
}

func TestQuizPercentageRounding(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{0, 0},
		{1, 20},
		{2, 40},
		{3, 60},
		{4, 80},
		{5, 100},
	}
	for _, tt := range tests {
		quiz := models.NewQuizSession("+255700000001")
		quiz.Score = tt.score
		if got := quiz.Percentage(); got != tt.want {
			t.Errorf("Percentage(score=%d) = %d, want %d", tt.score, got, tt.want)
		}
	}
}
