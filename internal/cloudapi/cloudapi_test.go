package cloudapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dira2050/dirabot/internal/models"
)

// captureServer records the last request for inspection.
type captureServer struct {
	*httptest.Server
	lastPath string
	lastAuth string
	lastBody map[string]interface{}
	status   int
}

func newCaptureServer(t *testing.T) *captureServer {
	t.Helper()
	cs := &captureServer{status: http.StatusOK}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs.lastPath = r.URL.Path
		cs.lastAuth = r.Header.Get("Authorization")
		data, _ := io.ReadAll(r.Body)
		cs.lastBody = nil
		if err := json.Unmarshal(data, &cs.lastBody); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		w.WriteHeader(cs.status)
	}))
	t.Cleanup(cs.Close)
	return cs
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(
		WithBaseURL(baseURL),
		WithAccessToken("test-token"),
		WithPhoneNumberID("1234567890"),
	)
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient(WithPhoneNumberID("123")); err == nil {
		t.Error("expected error without access token")
	}
	if _, err := NewClient(WithAccessToken("tok")); err == nil {
		t.Error("expected error without phone number ID")
	}
}

func TestSendText(t *testing.T) {
	srv := newCaptureServer(t)
	client := newTestClient(t, srv.URL)

	if err := client.SendText(context.Background(), "+255712345678", "Karibu!"); err != nil {
		t.Fatal(err)
	}

	if srv.lastPath != "/"+DefaultAPIVersion+"/1234567890/messages" {
		t.Errorf("path = %q", srv.lastPath)
	}
	if srv.lastAuth != "Bearer test-token" {
		t.Errorf("auth = %q", srv.lastAuth)
	}
	if srv.lastBody["messaging_product"] != "whatsapp" || srv.lastBody["type"] != "text" {
		t.Errorf("payload = %v", srv.lastBody)
	}
	text := srv.lastBody["text"].(map[string]interface{})
	if text["body"] != "Karibu!" {
		t.Errorf("body = %v", text["body"])
	}
}

func TestSendTextValidation(t *testing.T) {
	srv := newCaptureServer(t)
	client := newTestClient(t, srv.URL)
	ctx := context.Background()

	if err := client.SendText(ctx, "", "body"); !errors.Is(err, models.ErrEmptyRecipient) {
		t.Errorf("empty recipient error = %v", err)
	}
	if err := client.SendText(ctx, "+255712345678", ""); !errors.Is(err, models.ErrEmptyBody) {
		t.Errorf("empty body error = %v", err)
	}
}

func TestSendInteractiveButtons(t *testing.T) {
	srv := newCaptureServer(t)
	client := newTestClient(t, srv.URL)

	msg := models.NewInteractiveMessage("+255712345678", "Lugha", "Chagua lugha yako", []models.OutboundOption{
		{ID: "btn_1", Title: "Kiswahili"},
		{ID: "btn_2", Title: "English"},
	})
	if err := client.SendInteractive(context.Background(), msg); err != nil {
		t.Fatal(err)
	}

	interactive := srv.lastBody["interactive"].(map[string]interface{})
	if interactive["type"] != "button" {
		t.Errorf("interactive type = %v, want button for %d options", interactive["type"], 2)
	}
	action := interactive["action"].(map[string]interface{})
	buttons := action["buttons"].([]interface{})
	if len(buttons) != 2 {
		t.Errorf("buttons = %d, want 2", len(buttons))
	}
}

func TestSendInteractiveListForManyOptions(t *testing.T) {
	srv := newCaptureServer(t)
	client := newTestClient(t, srv.URL)

	options := make([]models.OutboundOption, 6)
	titles := []string{"Mwanafunzi", "Mkulima", "Mjasiriamali", "Mfanyakazi", "Bila ajira", "Nyingine"}
	for i, title := range titles {
		options[i] = models.OutboundOption{ID: "option_" + string(rune('1'+i)), Title: title}
	}
	msg := models.NewInteractiveMessage("+255712345678", "Shughuli", "Chagua moja", options)
	if err := client.SendInteractive(context.Background(), msg); err != nil {
		t.Fatal(err)
	}

	interactive := srv.lastBody["interactive"].(map[string]interface{})
	if interactive["type"] != "list" {
		t.Errorf("interactive type = %v, want list for %d options", interactive["type"], len(options))
	}
	action := interactive["action"].(map[string]interface{})
	sections := action["sections"].([]interface{})
	rows := sections[0].(map[string]interface{})["rows"].([]interface{})
	if len(rows) != 6 {
		t.Errorf("rows = %d, want 6", len(rows))
	}
}

func TestSendTextNonSuccessStatus(t *testing.T) {
	srv := newCaptureServer(t)
	srv.status = http.StatusUnauthorized
	client := newTestClient(t, srv.URL)

	err := client.SendText(context.Background(), "+255712345678", "Karibu!")
	if !errors.Is(err, models.ErrTransport) {
		t.Errorf("error = %v, want ErrTransport", err)
	}
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("error %v does not name the status code", err)
	}
}
