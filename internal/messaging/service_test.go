package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/dira2050/dirabot/internal/models"
)

func TestCanonicalizeRecipient(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"already canonical", "+255712345678", "+255712345678", false},
		{"missing plus", "255712345678", "+255712345678", false},
		{"spaces and dashes", "+255 712-345-678", "+255712345678", false},
		{"parentheses", "(255) 712 345 678", "+255712345678", false},
		{"empty", "", "", true},
		{"letters", "not-a-number", "", true},
		{"plus in the middle", "255+712345678", "", true},
		{"too short", "+12345", "", true},
		{"too long", "+1234567890123456", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalizeRecipient(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCanonicalizeRecipientEmptyError(t *testing.T) {
	_, err := CanonicalizeRecipient("   ")
	if !errors.Is(err, models.ErrEmptyRecipient) {
		t.Errorf("error = %v, want ErrEmptyRecipient", err)
	}
}

func TestMockServiceRecordsSends(t *testing.T) {
	svc := NewMockService()
	ctx := context.Background()

	if err := svc.SendMessage(ctx, "+255712345678", "habari"); err != nil {
		t.Fatal(err)
	}
	msg := models.NewInteractiveMessage("+255712345678", "Header", "Body", []models.OutboundOption{
		{ID: "option_1", Title: "Moja"},
	})
	if err := svc.SendInteractive(ctx, msg); err != nil {
		t.Fatal(err)
	}

	if len(svc.Texts()) != 1 {
		t.Errorf("texts = %d, want 1", len(svc.Texts()))
	}
	if len(svc.SentInteractives) != 1 {
		t.Errorf("interactives = %d, want 1", len(svc.SentInteractives))
	}
}
