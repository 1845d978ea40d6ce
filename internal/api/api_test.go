package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dira2050/dirabot/internal/bot"
	"github.com/dira2050/dirabot/internal/messaging"
	"github.com/dira2050/dirabot/internal/models"
	"github.com/dira2050/dirabot/internal/store"
)

const testVerifyToken = "secret-token"

func newTestServer(t *testing.T) (*Server, *store.InMemoryStore, *messaging.MockService) {
	t.Helper()
	st := store.NewInMemoryStore()
	svc := messaging.NewMockService()
	h := bot.NewHandler(st, svc)
	return NewServer(h, st, svc, WithVerifyToken(testVerifyToken)), st, svc
}

func TestVerifyWebhook(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantBody   string
	}{
		{"valid handshake", "hub.mode=subscribe&hub.verify_token=secret-token&hub.challenge=12345", http.StatusOK, "12345"},
		{"wrong token", "hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", http.StatusForbidden, ""},
		{"wrong mode", "hub.mode=unsubscribe&hub.verify_token=secret-token&hub.challenge=12345", http.StatusForbidden, ""},
		{"missing params", "", http.StatusForbidden, ""},
	}

	srv, _, _ := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/webhook?"+tt.query, nil)
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestVerifyWebhookRejectsEmptyConfiguredToken(t *testing.T) {
	st := store.NewInMemoryStore()
	svc := messaging.NewMockService()
	srv := NewServer(bot.NewHandler(st, svc), st, svc) // no verify token configured

	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=&hub.challenge=1", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 when no token is configured", rec.Code)
	}
}

func TestReceiveWebhookProcessesMessage(t *testing.T) {
	srv, st, svc := newTestServer(t)

	body := `{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "entry-1",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"contacts": [{"wa_id": "255712345678", "profile": {"name": "Juma"}}],
					"messages": [{
						"id": "wamid.1",
						"from": "255712345678",
						"timestamp": "1756700000",
						"type": "text",
						"text": {"body": "habari"}
					}]
				}
			}]
		}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	session, _ := st.GetSession("+255712345678")
	if session == nil {
		t.Fatal("webhook did not create a session")
	}
	if session.Name != "Juma" {
		t.Errorf("contact name = %q, want Juma", session.Name)
	}
	if len(svc.Texts()) == 0 {
		t.Error("webhook did not trigger a reply")
	}
}

func TestReceiveWebhookMalformedBody(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 for malformed payload", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp apiResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status field = %q, want ok", resp.Status)
	}
}

func TestStats(t *testing.T) {
	srv, st, _ := newTestServer(t)

	session, _ := st.GetOrCreateSession("+255700000001", "")
	session.CurrentState = models.StateQuiz
	if err := st.SaveSession(*session); err != nil {
		t.Fatal(err)
	}
	quiz, _ := st.GetOrCreateQuizSession("+255700000001")
	quiz.IsCompleted = true
	if err := st.SaveQuizSession(*quiz); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Status string      `json:"status"`
		Result statsResult `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Result.SessionsByState[models.StateQuiz] != 1 {
		t.Errorf("quiz state count = %d, want 1", resp.Result.SessionsByState[models.StateQuiz])
	}
	if resp.Result.CompletedQuizzes != 1 {
		t.Errorf("completed quizzes = %d, want 1", resp.Result.CompletedQuizzes)
	}
}

func TestSessionLogs(t *testing.T) {
	srv, st, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/sessions/+255700000009/logs", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for unknown session", rec.Code)
	}

	if _, err := st.GetOrCreateSession("+255700000009", ""); err != nil {
		t.Fatal(err)
	}
	if err := st.AddConversationLog(models.ConversationLog{
		PhoneNumber: "+255700000009",
		Direction:   models.DirectionIncoming,
		Content:     "habari",
	}); err != nil {
		t.Fatal(err)
	}

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "habari") {
		t.Errorf("logs response missing entry: %s", rec.Body.String())
	}
}

func TestSend(t *testing.T) {
	srv, _, svc := newTestServer(t)

	body := `{"to": "+255 712 345 678", "body": "Karibu DIRA 2050"}`
	req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	texts := svc.Texts()
	if len(texts) != 1 {
		t.Fatalf("sent = %d messages, want 1", len(texts))
	}
	if texts[0].To != "+255712345678" {
		t.Errorf("recipient = %q, want canonicalized number", texts[0].To)
	}
}

func TestSendRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid recipient", `{"to": "abc", "body": "hi"}`},
		{"empty body", `{"to": "+255712345678", "body": ""}`},
		{"malformed json", `{`},
	}

	srv, _, svc := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
	if len(svc.Texts()) != 0 {
		t.Errorf("bad requests triggered %d sends", len(svc.Texts()))
	}
}
