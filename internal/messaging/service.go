// Package messaging provides a pluggable message delivery abstraction over
// the available WhatsApp transports.
package messaging

import (
	"context"
	"fmt"
	"strings"

	"github.com/dira2050/dirabot/internal/models"
)

// Service defines a pluggable message delivery abstraction. Implementations
// exist for the Meta Cloud API, a self-hosted whatsmeow client, and Twilio.
type Service interface {
	// ValidateAndCanonicalizeRecipient validates and canonicalizes a recipient
	// phone number. Each transport may impose its own rules.
	ValidateAndCanonicalizeRecipient(recipient string) (string, error)

	// SendMessage sends a plain text message.
	SendMessage(ctx context.Context, to string, body string) error

	// SendInteractive sends an interactive message. Transports without
	// interactive support return an error; callers should check
	// SupportsInteractive first.
	SendInteractive(ctx context.Context, msg models.Outbound) error

	// SupportsInteractive reports whether this transport can render
	// button and list messages.
	SupportsInteractive() bool

	// Start begins any background processing (e.g. event polling).
	Start(ctx context.Context) error

	// Stop stops background processing and cleans up resources.
	Stop() error

	// Responses returns a channel of inbound messages for transports that
	// deliver them in-process. Webhook-driven transports return a channel
	// that never produces.
	Responses() <-chan models.IncomingMessage
}

// CanonicalizeRecipient normalizes a phone number to E.164-ish form: strips
// separators, requires a leading country code, and enforces a sane digit count.
func CanonicalizeRecipient(recipient string) (string, error) {
	cleaned := strings.TrimSpace(recipient)
	if cleaned == "" {
		return "", models.ErrEmptyRecipient
	}

	var b strings.Builder
	for i, r := range cleaned {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
			// separator, drop
		default:
			return "", fmt.Errorf("invalid character %q in recipient %q", r, recipient)
		}
	}

	number := b.String()
	digits := strings.TrimPrefix(number, "+")
	if len(digits) < 7 || len(digits) > 15 {
		return "", fmt.Errorf("recipient %q has %d digits, want 7-15", recipient, len(digits))
	}
	if !strings.HasPrefix(number, "+") {
		number = "+" + number
	}
	return number, nil
}
