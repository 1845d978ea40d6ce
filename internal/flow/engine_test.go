package flow

import (
	"strings"
	"testing"

	"github.com/dira2050/dirabot/internal/models"
)

func newTestSession(state models.State) *models.Session {
	s := models.NewSession("+255700000001", "Test User")
	s.CurrentState = state
	return s
}

func TestWelcomeLanguageSelection(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLang models.Language
	}{
		{"digit swahili", "1", models.LanguageSwahili},
		{"digit english", "2", models.LanguageEnglish},
		{"keyword swahili", "Kiswahili tafadhali", models.LanguageSwahili},
		{"keyword english", "English please", models.LanguageEnglish},
		{"digit with punctuation", "1.", models.LanguageSwahili},
	}

	engine := NewEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := newTestSession(models.StateWelcome)
			result := engine.Process(session, nil, tt.input)

			if session.Language != tt.wantLang {
				t.Errorf("language = %q, want %q", session.Language, tt.wantLang)
			}
			if session.CurrentState != models.StateEconomicActivity {
				t.Errorf("state = %q, want %q", session.CurrentState, models.StateEconomicActivity)
			}
			if len(result.Messages) != 2 {
				t.Fatalf("expected interactive + text messages, got %d", len(result.Messages))
			}
			if result.Messages[0].Kind != models.OutboundInteractive {
				t.Errorf("first message kind = %q, want interactive", result.Messages[0].Kind)
			}
			if len(result.Messages[0].Options) != 6 {
				t.Errorf("activity options = %d, want 6", len(result.Messages[0].Options))
			}
		})
	}
}

func TestWelcomeRejectsMultiDigitTokens(t *testing.T) {
	engine := NewEngine()
	for _, input := range []string{"10", "12", "21", "100"} {
		session := newTestSession(models.StateWelcome)
		engine.Process(session, nil, input)
		if session.CurrentState != models.StateWelcome {
			t.Errorf("input %q advanced state to %q, want re-prompt in welcome", input, session.CurrentState)
		}
		if session.Language != models.LanguageSwahili {
			t.Errorf("input %q changed language to %q", input, session.Language)
		}
	}
}

func TestEconomicActivitySelection(t *testing.T) {
	tests := []struct {
		input        string
		wantActivity models.EconomicActivity
	}{
		{"1", models.ActivityStudent},
		{"2", models.ActivityFarmer},
		{"3", models.ActivityEntrepreneur},
		{"4", models.ActivityWorker},
		{"5", models.ActivityUnemployed},
		{"6", models.ActivityOther},
		{"option_2", models.ActivityFarmer},
	}

	engine := NewEngine()
	for _, tt := range tests {
		session := newTestSession(models.StateEconomicActivity)
		engine.Process(session, nil, tt.input)
		if session.EconomicActivity != tt.wantActivity {
			t.Errorf("input %q: activity = %q, want %q", tt.input, session.EconomicActivity, tt.wantActivity)
		}
		if session.CurrentState != models.StateGenderDisability {
			t.Errorf("input %q: state = %q, want %q", tt.input, session.CurrentState, models.StateGenderDisability)
		}
	}
}

func TestEconomicActivityInvalidInputReprompts(t *testing.T) {
	engine := NewEngine()
	session := newTestSession(models.StateEconomicActivity)
	result := engine.Process(session, nil, "7")

	if session.CurrentState != models.StateEconomicActivity {
		t.Errorf("state = %q, want unchanged", session.CurrentState)
	}
	if session.EconomicActivity != "" {
		t.Errorf("activity = %q, want empty", session.EconomicActivity)
	}
	last := result.Messages[len(result.Messages)-1]
	if !strings.Contains(last.Body, "Chagua moja") {
		t.Errorf("expected the activity question to be re-sent, got %q", last.Body)
	}
}

func TestGenderDisabilitySelection(t *testing.T) {
	tests := []struct {
		input          string
		wantGender     models.Gender
		wantDisability bool
	}{
		{"1", models.GenderMale, false},
		{"2", models.GenderFemale, false},
		{"3", models.GenderMale, true},
		{"4", models.GenderFemale, true},
		{"5", "", false},
		{"option_4", models.GenderFemale, true},
	}

	engine := NewEngine()
	for _, tt := range tests {
		session := newTestSession(models.StateGenderDisability)
		session.EconomicActivity = models.ActivityFarmer
		engine.Process(session, nil, tt.input)

		if session.Gender != tt.wantGender {
			t.Errorf("input %q: gender = %q, want %q", tt.input, session.Gender, tt.wantGender)
		}
		if session.HasDisability != tt.wantDisability {
			t.Errorf("input %q: disability = %v, want %v", tt.input, session.HasDisability, tt.wantDisability)
		}
		if session.CurrentState != models.StatePersonalizedOverview {
			t.Errorf("input %q: state = %q, want %q", tt.input, session.CurrentState, models.StatePersonalizedOverview)
		}
	}
}

func TestGenderPreferNotToSayKeepsPriorAnswers(t *testing.T) {
	engine := NewEngine()
	session := newTestSession(models.StateGenderDisability)
	session.EconomicActivity = models.ActivityFarmer
	session.Gender = models.GenderFemale
	session.HasDisability = true

	engine.Process(session, nil, "5")

	if session.Gender != models.GenderFemale {
		t.Errorf("gender = %q, want %q preserved", session.Gender, models.GenderFemale)
	}
	if !session.HasDisability {
		t.Error("disability = false, want prior answer preserved")
	}
	if session.CurrentState != models.StatePersonalizedOverview {
		t.Errorf("state = %q, want %q", session.CurrentState, models.StatePersonalizedOverview)
	}
}

func TestPersonalizedOverviewAddenda(t *testing.T) {
	engine := NewEngine()
	session := newTestSession(models.StateGenderDisability)
	session.EconomicActivity = models.ActivityStudent

	result := engine.Process(session, nil, "4")
	body := result.Messages[0].Body

	if !strings.Contains(body, "Mwanafunzi") {
		t.Errorf("overview missing activity content: %q", body)
	}
	if !strings.Contains(body, "mwanamke") {
		t.Errorf("overview missing female addendum")
	}
	if !strings.Contains(body, "ulemavu") {
		t.Errorf("overview missing disability addendum")
	}
	if !strings.Contains(body, "Anza Quiz") {
		t.Errorf("overview missing next-step menu")
	}
}

func TestOverviewMenuDispatch(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantState models.State
		wantText  string
	}{
		{"quiz by digit", "1", models.StateQuiz, "Swali 1/5"},
		{"quiz by keyword", "quiz", models.StateQuiz, "Swali 1/5"},
		{"details", "2", models.StatePersonalizedOverview, "Maelezo zaidi"},
		{"details keyword", "maelezo", models.StatePersonalizedOverview, "Maelezo zaidi"},
		{"feedback", "3", models.StateFeedback, "Maoni yako ni muhimu"},
		{"pdf", "4", models.StatePersonalizedOverview, "Muhtasari wa Kurasa"},
		{"restart", "5", models.StateWelcome, "Karibu"},
		{"invalid", "9", models.StatePersonalizedOverview, "Tafadhali chagua"},
	}

	engine := NewEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := newTestSession(models.StatePersonalizedOverview)
			session.EconomicActivity = models.ActivityStudent
			result := engine.Process(session, nil, tt.input)

			if session.CurrentState != tt.wantState {
				t.Errorf("state = %q, want %q", session.CurrentState, tt.wantState)
			}
			if !strings.Contains(result.Messages[0].Body, tt.wantText) {
				t.Errorf("body %q does not contain %q", result.Messages[0].Body, tt.wantText)
			}
		})
	}
}

func TestOverviewStartsQuizWithoutExistingRecord(t *testing.T) {
	engine := NewEngine()
	session := newTestSession(models.StatePersonalizedOverview)

	result := engine.Process(session, nil, "1")
	if result.Quiz == nil {
		t.Fatal("expected a quiz record on the result")
	}
	if result.Quiz.CurrentQuestion != 0 || result.Quiz.Score != 0 {
		t.Errorf("new quiz not at question 0 with score 0: %+v", result.Quiz)
	}
}

func TestQuizStartPreservesInProgressRecord(t *testing.T) {
	engine := NewEngine()
	session := newTestSession(models.StatePersonalizedOverview)
	quiz := models.NewQuizSession(session.PhoneNumber)
	quiz.CurrentQuestion = 2
	quiz.Score = 1

	result := engine.Process(session, quiz, "1")
	if result.Quiz.CurrentQuestion != 2 || result.Quiz.Score != 1 {
		t.Errorf("in-progress quiz was reset: %+v", result.Quiz)
	}
	if !strings.Contains(result.Messages[0].Body, "Swali 3/5") {
		t.Errorf("expected resume at question 3, got %q", result.Messages[0].Body)
	}
}

func TestQuizStartResetsCompletedRecord(t *testing.T) {
	engine := NewEngine()
	session := newTestSession(models.StatePersonalizedOverview)
	quiz := models.NewQuizSession(session.PhoneNumber)
	quiz.CurrentQuestion = 5
	quiz.Score = 4
	quiz.IsCompleted = true

	result := engine.Process(session, quiz, "quiz")
	if result.Quiz.CurrentQuestion != 0 || result.Quiz.Score != 0 || result.Quiz.IsCompleted {
		t.Errorf("completed quiz was not reset for a new attempt: %+v", result.Quiz)
	}
}

func TestFeedbackCapture(t *testing.T) {
	engine := NewEngine()
	session := newTestSession(models.StateFeedback)

	result := engine.Process(session, nil, "Naomba maelezo zaidi kuhusu kilimo")
	if result.Feedback == "" {
		t.Fatal("expected feedback to be captured")
	}
	if !strings.Contains(result.Feedback, "kilimo") {
		t.Errorf("feedback = %q, want user text", result.Feedback)
	}
	if session.CurrentState != models.StatePersonalizedOverview {
		t.Errorf("state = %q, want return to overview", session.CurrentState)
	}
	if !strings.Contains(result.Messages[0].Body, "Asante") {
		t.Errorf("expected thanks message, got %q", result.Messages[0].Body)
	}
}

func TestRestartFromAnyState(t *testing.T) {
	states := []models.State{
		models.StateWelcome,
		models.StateEconomicActivity,
		models.StateGenderDisability,
		models.StatePersonalizedOverview,
		models.StateQuiz,
		models.StateFeedback,
	}

	engine := NewEngine()
	for _, state := range states {
		for _, cmd := range []string{"anza", "Anza Upya", "restart"} {
			session := newTestSession(state)
			session.Language = models.LanguageEnglish
			result := engine.Process(session, nil, cmd)

			if session.CurrentState != models.StateWelcome {
				t.Errorf("state %q cmd %q: got %q, want welcome", state, cmd, session.CurrentState)
			}
			// Restart resets the state only, not the collected profile.
			if session.Language != models.LanguageEnglish {
				t.Errorf("state %q cmd %q: restart cleared language", state, cmd)
			}
			if !strings.Contains(result.Messages[0].Body, "Karibu") {
				t.Errorf("state %q cmd %q: expected welcome message", state, cmd)
			}
		}
	}
}

func TestClearCommandResetsProfile(t *testing.T) {
	engine := NewEngine()
	for _, cmd := range []string{"#", "clear", "CLEAR"} {
		session := newTestSession(models.StateQuiz)
		session.Language = models.LanguageEnglish
		session.EconomicActivity = models.ActivityFarmer
		session.Gender = models.GenderFemale
		session.HasDisability = true

		engine.Process(session, nil, cmd)

		if session.CurrentState != models.StateWelcome {
			t.Errorf("cmd %q: state = %q, want welcome", cmd, session.CurrentState)
		}
		if session.Language != models.LanguageSwahili {
			t.Errorf("cmd %q: language = %q, want default swahili", cmd, session.Language)
		}
		if session.EconomicActivity != "" || session.Gender != "" || session.HasDisability {
			t.Errorf("cmd %q: profile not cleared: %+v", cmd, session)
		}
	}
}

func TestHelpDoesNotChangeState(t *testing.T) {
	engine := NewEngine()
	for _, cmd := range []string{"help", "msaada", "naomba msaada"} {
		session := newTestSession(models.StatePersonalizedOverview)
		result := engine.Process(session, nil, cmd)

		if session.CurrentState != models.StatePersonalizedOverview {
			t.Errorf("cmd %q changed state to %q", cmd, session.CurrentState)
		}
		if !strings.Contains(result.Messages[0].Body, "Msaada") {
			t.Errorf("cmd %q: expected help message, got %q", cmd, result.Messages[0].Body)
		}
	}
}

func TestUnknownStateReprompts(t *testing.T) {
	engine := NewEngine()
	session := newTestSession(models.State("archived"))
	result := engine.Process(session, nil, "hello")

	if session.CurrentState != models.State("archived") {
		t.Errorf("unknown state was mutated to %q", session.CurrentState)
	}
	if !strings.Contains(result.Messages[0].Body, "sijaelewa") {
		t.Errorf("expected default re-prompt, got %q", result.Messages[0].Body)
	}
}

func TestFullSwahiliJourney(t *testing.T) {
	engine := NewEngine()
	session := models.NewSession("+255700000002", "Asha")

	engine.Process(session, nil, "1") // Kiswahili
	engine.Process(session, nil, "2") // Mkulima
	result := engine.Process(session, nil, "2") // Mwanamke

	if session.CurrentState != models.StatePersonalizedOverview {
		t.Fatalf("state = %q, want overview", session.CurrentState)
	}
	if session.EconomicActivity != models.ActivityFarmer || session.Gender != models.GenderFemale {
		t.Errorf("profile = %q/%q, want farmer/female", session.EconomicActivity, session.Gender)
	}
	if !strings.Contains(result.Messages[0].Body, "Mkulima") {
		t.Errorf("overview does not mention the farmer track")
	}
}

func TestContainsToken(t *testing.T) {
	tests := []struct {
		text string
		key  string
		want bool
	}{
		{"1", "1", true},
		{"nataka 1", "1", true},
		{"1.", "1", true},
		{"10", "1", false},
		{"21", "1", false},
		{"option 1!", "1", true},
		{"", "1", false},
	}
	for _, tt := range tests {
		if got := containsToken(tt.text, tt.key); got != tt.want {
			t.Errorf("containsToken(%q, %q) = %v, want %v", tt.text, tt.key, got, tt.want)
		}
	}
}
