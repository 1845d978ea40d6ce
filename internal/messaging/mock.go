package messaging

import (
	"context"
	"sync"

	"github.com/dira2050/dirabot/internal/models"
)

// MockService is an in-memory Service for tests. It records every send and
// can be primed to fail.
type MockService struct {
	mu sync.Mutex

	SentTexts        []SentText
	SentInteractives []models.Outbound
	Interactive      bool  // value returned by SupportsInteractive
	SendErr          error // returned by every send when set

	responses chan models.IncomingMessage
}

// SentText is one recorded text send.
type SentText struct {
	To   string
	Body string
}

// NewMockService creates a MockService that reports interactive support.
func NewMockService() *MockService {
	return &MockService{
		Interactive: true,
		responses:   make(chan models.IncomingMessage, 10),
	}
}

// ValidateAndCanonicalizeRecipient applies the shared phone number rules.
func (m *MockService) ValidateAndCanonicalizeRecipient(recipient string) (string, error) {
	return CanonicalizeRecipient(recipient)
}

// SendMessage records the text send.
func (m *MockService) SendMessage(ctx context.Context, to string, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return m.SendErr
	}
	m.SentTexts = append(m.SentTexts, SentText{To: to, Body: body})
	return nil
}

// SendInteractive records the interactive send.
func (m *MockService) SendInteractive(ctx context.Context, msg models.Outbound) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return m.SendErr
	}
	m.SentInteractives = append(m.SentInteractives, msg)
	return nil
}

// SupportsInteractive reports the configured value.
func (m *MockService) SupportsInteractive() bool { return m.Interactive }

// Start is a no-op.
func (m *MockService) Start(ctx context.Context) error { return nil }

// Stop is a no-op.
func (m *MockService) Stop() error { return nil }

// Responses returns the (test-fed) inbound channel.
func (m *MockService) Responses() <-chan models.IncomingMessage {
	return m.responses
}

// Inject feeds an inbound message to Responses consumers.
func (m *MockService) Inject(msg models.IncomingMessage) {
	m.responses <- msg
}

// Texts returns a copy of the recorded text sends.
func (m *MockService) Texts() []SentText {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentText, len(m.SentTexts))
	copy(out, m.SentTexts)
	return out
}
