package bot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dira2050/dirabot/internal/flow"
	"github.com/dira2050/dirabot/internal/messaging"
	"github.com/dira2050/dirabot/internal/models"
	"github.com/dira2050/dirabot/internal/store"
)

// DefaultSendTimeout bounds one outbound delivery attempt.
const DefaultSendTimeout = 10 * time.Second

// Handler runs one inbound message through the conversation engine and
// performs the surrounding I/O: session lookup, audit logging, persistence,
// and delivery. Messages for the same phone number are serialized; different
// phone numbers proceed concurrently.
type Handler struct {
	store       store.Store
	engine      *flow.Engine
	svc         messaging.Service
	sendTimeout time.Duration
	logger      *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Opts holds configuration options for the Handler.
type Opts struct {
	SendTimeout time.Duration
}

// Option defines a configuration option for the Handler.
type Option func(*Opts)

// WithSendTimeout bounds one outbound delivery attempt.
func WithSendTimeout(d time.Duration) Option {
	return func(o *Opts) { o.SendTimeout = d }
}

// NewHandler creates a Handler over the given store and delivery service.
func NewHandler(st store.Store, svc messaging.Service, opts ...Option) *Handler {
	cfg := Opts{SendTimeout: DefaultSendTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Handler{
		store:       st,
		engine:      flow.NewEngine(),
		svc:         svc,
		sendTimeout: cfg.SendTimeout,
		logger:      slog.Default().With("component", "bot"),
		locks:       make(map[string]*sync.Mutex),
	}
}

// HandlePayload processes every message in a webhook payload. Payloads whose
// object is not a WhatsApp business account are ignored.
func (h *Handler) HandlePayload(ctx context.Context, payload models.WebhookPayload) {
	if payload.Object != "whatsapp_business_account" {
		h.logger.Debug("Handler.HandlePayload: ignoring non-whatsapp object", "object", payload.Object)
		return
	}
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}
			names := make(map[string]string, len(change.Value.Contacts))
			for _, contact := range change.Value.Contacts {
				names[contact.WaID] = contact.Profile.Name
			}
			for _, msg := range change.Value.Messages {
				h.HandleMessage(ctx, msg, names[msg.From])
			}
		}
	}
}

// HandleMessage processes one inbound message end to end. It never returns an
// error: failures are logged and, where the user can be told, answered with a
// localized apology.
func (h *Handler) HandleMessage(ctx context.Context, msg models.IncomingMessage, contactName string) {
	phone, err := h.svc.ValidateAndCanonicalizeRecipient(msg.From)
	if err != nil {
		h.logger.Warn("Handler.HandleMessage: dropping message with invalid sender",
			"from", msg.From, "error", err)
		return
	}

	lock := h.phoneLock(phone)
	lock.Lock()
	defer lock.Unlock()

	session, err := h.store.GetOrCreateSession(phone, contactName)
	if err != nil {
		h.logger.Error("Handler.HandleMessage: session lookup failed", "error", err, "phone", phone)
		h.sendApology(ctx, phone, models.LanguageSwahili)
		return
	}
	if session.Name == "" && contactName != "" {
		session.Name = contactName
	}

	token, ack := AdaptIncoming(msg)

	h.logIncoming(phone, token, msg)

	if ack != "" {
		h.deliver(ctx, models.NewTextMessage(phone, ack))
		if err := h.store.SaveSession(*session); err != nil {
			h.logger.Error("Handler.HandleMessage: session save failed", "error", err, "phone", phone)
		}
		return
	}

	quiz, err := h.store.GetQuizSession(phone)
	if err != nil {
		h.logger.Error("Handler.HandleMessage: quiz lookup failed", "error", err, "phone", phone)
		h.sendApology(ctx, phone, session.Language)
		return
	}

	result := h.engine.Process(session, quiz, token)

	if result.Feedback != "" {
		if err := h.store.AddConversationLog(models.ConversationLog{
			PhoneNumber: phone,
			Direction:   models.DirectionFeedback,
			Content:     result.Feedback,
			Timestamp:   time.Now(),
		}); err != nil {
			h.logger.Error("Handler.HandleMessage: feedback log failed", "error", err, "phone", phone)
		}
	}

	if err := h.store.SaveSession(*session); err != nil {
		h.logger.Error("Handler.HandleMessage: session save failed", "error", err, "phone", phone)
		h.sendApology(ctx, phone, session.Language)
		return
	}
	if result.Quiz != nil {
		if err := h.store.SaveQuizSession(*result.Quiz); err != nil {
			h.logger.Error("Handler.HandleMessage: quiz save failed", "error", err, "phone", phone)
			h.sendApology(ctx, phone, session.Language)
			return
		}
	}

	for _, out := range result.Messages {
		h.deliver(ctx, out)
	}
}

// deliver sends one outbound message with a bounded deadline and logs it.
// Delivery failures are logged and swallowed: the state transition already
// happened and the user can always re-prompt the bot.
func (h *Handler) deliver(ctx context.Context, out models.Outbound) {
	sendCtx, cancel := context.WithTimeout(ctx, h.sendTimeout)
	defer cancel()

	var err error
	switch out.Kind {
	case models.OutboundInteractive:
		if !h.svc.SupportsInteractive() {
			h.logger.Debug("Handler.deliver: transport lacks interactive support, skipping",
				"to", out.To)
			return
		}
		err = h.svc.SendInteractive(sendCtx, out)
	default:
		err = h.svc.SendMessage(sendCtx, out.To, out.Body)
	}
	if err != nil {
		h.logger.Error("Handler.deliver: send failed", "error", err, "to", out.To)
		return
	}

	if logErr := h.store.AddConversationLog(models.ConversationLog{
		PhoneNumber: out.To,
		Direction:   models.DirectionOutgoing,
		Content:     out.Body,
		Timestamp:   time.Now(),
	}); logErr != nil {
		h.logger.Error("Handler.deliver: outgoing log failed", "error", logErr, "to", out.To)
	}
}

// logIncoming records the inbound message. Media messages are logged with a
// type marker since they carry no engine token.
func (h *Handler) logIncoming(phone, token string, msg models.IncomingMessage) {
	content := token
	if content == "" {
		switch msg.Type {
		case models.MessageTypeImage:
			content = "[image]"
			if msg.Image != nil && msg.Image.Caption != "" {
				content += " " + msg.Image.Caption
			}
		case models.MessageTypeDocument:
			content = "[document]"
			if msg.Document != nil && msg.Document.Filename != "" {
				content += " " + msg.Document.Filename
			}
		default:
			content = "[" + string(msg.Type) + "]"
		}
	}
	if err := h.store.AddConversationLog(models.ConversationLog{
		PhoneNumber: phone,
		Direction:   models.DirectionIncoming,
		Content:     content,
		Timestamp:   time.Now(),
	}); err != nil {
		h.logger.Error("Handler.logIncoming: log failed", "error", err, "phone", phone)
	}
}

// sendApology sends the localized technical-problem message, best effort.
func (h *Handler) sendApology(ctx context.Context, phone string, lang models.Language) {
	h.deliver(ctx, models.NewTextMessage(phone, flow.Apology(lang)))
}

// phoneLock returns the mutex serializing one phone number's messages.
func (h *Handler) phoneLock(phone string) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()
	lock, ok := h.locks[phone]
	if !ok {
		lock = &sync.Mutex{}
		h.locks[phone] = lock
	}
	return lock
}

// Run consumes inbound messages from the delivery service's response channel
// until the context is cancelled. Transports that deliver in-process (the
// whatsmeow client) feed the bot through here; webhook transports never
// produce on the channel.
func (h *Handler) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-h.svc.Responses():
			if !ok {
				return
			}
			h.HandleMessage(ctx, msg, "")
		}
	}
}
