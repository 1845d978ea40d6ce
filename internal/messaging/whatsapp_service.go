package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"go.mau.fi/whatsmeow/types/events"

	"github.com/dira2050/dirabot/internal/models"
	"github.com/dira2050/dirabot/internal/whatsapp"
)

const (
	// DefaultChannelBufferSize is the buffer size for the responses channel.
	DefaultChannelBufferSize = 100
	// DefaultChannelTimeout bounds non-blocking channel sends.
	DefaultChannelTimeout = 1 * time.Second
)

// WhatsAppService implements Service using the Whatsmeow-based whatsapp
// client. Inbound text arrives through the client's event stream rather than
// a webhook.
type WhatsAppService struct {
	client    whatsapp.Sender
	waClient  *whatsapp.Client // nil when constructed with a mock
	responses chan models.IncomingMessage
	done      chan struct{}
}

// NewWhatsAppService creates a WhatsAppService wrapping the given sender.
func NewWhatsAppService(client whatsapp.Sender) *WhatsAppService {
	service := &WhatsAppService{
		client:    client,
		responses: make(chan models.IncomingMessage, DefaultChannelBufferSize),
		done:      make(chan struct{}),
	}
	if waClient, ok := client.(*whatsapp.Client); ok {
		service.waClient = waClient
	}
	return service
}

// ValidateAndCanonicalizeRecipient applies the shared phone number rules.
func (s *WhatsAppService) ValidateAndCanonicalizeRecipient(recipient string) (string, error) {
	return CanonicalizeRecipient(recipient)
}

// SendMessage sends a plain text message.
func (s *WhatsAppService) SendMessage(ctx context.Context, to string, body string) error {
	if err := s.client.SendMessage(ctx, to, body); err != nil {
		slog.Error("WhatsAppService.SendMessage: send failed", "error", err, "to", to)
		return err
	}
	slog.Debug("WhatsAppService.SendMessage: message sent", "to", to, "body_length", len(body))
	return nil
}

// SendInteractive is unsupported over whatsmeow.
func (s *WhatsAppService) SendInteractive(ctx context.Context, msg models.Outbound) error {
	return fmt.Errorf("interactive messages are not supported over the whatsmeow transport")
}

// SupportsInteractive reports false.
func (s *WhatsAppService) SupportsInteractive() bool { return false }

// Start registers the inbound event handler when a full client is available.
func (s *WhatsAppService) Start(ctx context.Context) error {
	if s.waClient == nil {
		slog.Debug("WhatsAppService.Start: no full client, skipping event handling")
		return nil
	}
	go s.handleEvents(ctx)
	return nil
}

// Stop stops background processing.
func (s *WhatsAppService) Stop() error {
	close(s.done)
	close(s.responses)
	return nil
}

// Responses returns the inbound message channel.
func (s *WhatsAppService) Responses() <-chan models.IncomingMessage {
	return s.responses
}

// handleEvents feeds whatsmeow message events into the responses channel.
func (s *WhatsAppService) handleEvents(ctx context.Context) {
	if s.waClient.GetClient() == nil {
		slog.Error("WhatsAppService.handleEvents: no underlying client")
		return
	}

	s.waClient.GetClient().AddEventHandler(func(evt interface{}) {
		if msg, ok := evt.(*events.Message); ok {
			s.handleIncomingMessage(msg)
		}
	})

	<-ctx.Done()
	slog.Debug("WhatsAppService.handleEvents: stopping, context cancelled")
}

// handleIncomingMessage converts a whatsmeow text event into the inbound
// message shape the bot consumes. Non-text events are dropped.
func (s *WhatsAppService) handleIncomingMessage(evt *events.Message) {
	if evt.Message == nil {
		return
	}

	var text string
	if evt.Message.Conversation != nil {
		text = *evt.Message.Conversation
	} else if evt.Message.ExtendedTextMessage != nil && evt.Message.ExtendedTextMessage.Text != nil {
		text = *evt.Message.ExtendedTextMessage.Text
	} else {
		slog.Debug("WhatsAppService.handleIncomingMessage: ignoring non-text message",
			"from", evt.Info.Sender.String())
		return
	}

	from := evt.Info.Sender.User
	if !strings.HasPrefix(from, "+") {
		from = "+" + from
	}

	incoming := models.IncomingMessage{
		ID:        evt.Info.ID,
		From:      from,
		Timestamp: strconv.FormatInt(evt.Info.Timestamp.Unix(), 10),
		Type:      models.MessageTypeText,
		Text:      &models.TextPayload{Body: text},
	}

	select {
	case s.responses <- incoming:
		slog.Debug("WhatsAppService.handleIncomingMessage: message forwarded", "from", from)
	case <-time.After(DefaultChannelTimeout):
		slog.Warn("WhatsAppService.handleIncomingMessage: responses channel blocked, dropping message",
			"from", from)
	}
}
