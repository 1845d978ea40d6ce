package messaging

import (
	"context"
	"log/slog"

	"github.com/dira2050/dirabot/internal/cloudapi"
	"github.com/dira2050/dirabot/internal/models"
)

// CloudService implements Service using the Meta Cloud API client. Inbound
// messages arrive through the webhook, so Responses never produces.
type CloudService struct {
	client    *cloudapi.Client
	responses chan models.IncomingMessage
}

// NewCloudService creates a CloudService wrapping the given Cloud API client.
func NewCloudService(client *cloudapi.Client) *CloudService {
	return &CloudService{
		client:    client,
		responses: make(chan models.IncomingMessage),
	}
}

// ValidateAndCanonicalizeRecipient applies the shared phone number rules.
func (s *CloudService) ValidateAndCanonicalizeRecipient(recipient string) (string, error) {
	return CanonicalizeRecipient(recipient)
}

// SendMessage sends a plain text message through the Cloud API.
func (s *CloudService) SendMessage(ctx context.Context, to string, body string) error {
	if err := s.client.SendText(ctx, to, body); err != nil {
		slog.Error("CloudService.SendMessage: send failed", "error", err, "to", to)
		return err
	}
	slog.Debug("CloudService.SendMessage: message sent", "to", to, "body_length", len(body))
	return nil
}

// SendInteractive sends a button or list message through the Cloud API.
func (s *CloudService) SendInteractive(ctx context.Context, msg models.Outbound) error {
	if err := s.client.SendInteractive(ctx, msg); err != nil {
		slog.Error("CloudService.SendInteractive: send failed", "error", err, "to", msg.To)
		return err
	}
	slog.Debug("CloudService.SendInteractive: message sent", "to", msg.To, "options", len(msg.Options))
	return nil
}

// SupportsInteractive reports true: the Cloud API renders buttons and lists.
func (s *CloudService) SupportsInteractive() bool { return true }

// Start is a no-op: inbound traffic is webhook-driven.
func (s *CloudService) Start(ctx context.Context) error { return nil }

// Stop closes the (unused) responses channel.
func (s *CloudService) Stop() error {
	close(s.responses)
	return nil
}

// Responses returns a channel that never produces.
func (s *CloudService) Responses() <-chan models.IncomingMessage {
	return s.responses
}
