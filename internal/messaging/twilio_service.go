package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dira2050/dirabot/internal/models"
	"github.com/dira2050/dirabot/internal/twiliowhatsapp"
)

// TwilioService implements Service using the Twilio WhatsApp client. Inbound
// messages would arrive through a Twilio webhook; this transport is send-only.
type TwilioService struct {
	client    twiliowhatsapp.Sender
	responses chan models.IncomingMessage
}

// NewTwilioService creates a TwilioService wrapping the given sender.
func NewTwilioService(client twiliowhatsapp.Sender) *TwilioService {
	return &TwilioService{
		client:    client,
		responses: make(chan models.IncomingMessage),
	}
}

// ValidateAndCanonicalizeRecipient applies the shared phone number rules.
func (s *TwilioService) ValidateAndCanonicalizeRecipient(recipient string) (string, error) {
	return CanonicalizeRecipient(recipient)
}

// SendMessage sends a plain text message through Twilio.
func (s *TwilioService) SendMessage(ctx context.Context, to string, body string) error {
	if err := s.client.SendMessage(ctx, to, body); err != nil {
		slog.Error("TwilioService.SendMessage: send failed", "error", err, "to", to)
		return err
	}
	return nil
}

// SendInteractive is unsupported: the Twilio Go SDK has no WhatsApp
// button or list API.
func (s *TwilioService) SendInteractive(ctx context.Context, msg models.Outbound) error {
	return fmt.Errorf("interactive messages are not supported over the twilio transport")
}

// SupportsInteractive reports false.
func (s *TwilioService) SupportsInteractive() bool { return false }

// Start is a no-op.
func (s *TwilioService) Start(ctx context.Context) error { return nil }

// Stop closes the (unused) responses channel.
func (s *TwilioService) Stop() error {
	close(s.responses)
	return nil
}

// Responses returns a channel that never produces.
func (s *TwilioService) Responses() <-chan models.IncomingMessage {
	return s.responses
}
