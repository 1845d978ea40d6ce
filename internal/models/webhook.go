package models

// WebhookPayload is the top-level body of a Cloud API webhook delivery.
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

// WebhookEntry groups the changes delivered for one WhatsApp Business account.
type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

// WebhookChange carries one field update, typically "messages".
type WebhookChange struct {
	Field string       `json:"field"`
	Value WebhookValue `json:"value"`
}

// WebhookValue holds the inbound message batch and the parallel contact list.
type WebhookValue struct {
	MessagingProduct string            `json:"messaging_product"`
	Contacts         []WebhookContact  `json:"contacts,omitempty"`
	Messages         []IncomingMessage `json:"messages,omitempty"`
}

// WebhookContact maps a WhatsApp id to profile metadata.
type WebhookContact struct {
	WaID    string         `json:"wa_id"`
	Profile ContactProfile `json:"profile"`
}

// ContactProfile carries the display name of a contact.
type ContactProfile struct {
	Name string `json:"name"`
}

// Incoming message type tags as delivered by the Cloud API.
const (
	MessageTypeText        = "text"
	MessageTypeInteractive = "interactive"
	MessageTypeImage       = "image"
	MessageTypeDocument    = "document"
)

// Interactive reply sub-types.
const (
	InteractiveTypeButtonReply = "button_reply"
	InteractiveTypeListReply   = "list_reply"
)

// IncomingMessage is one inbound message object from a webhook batch.
type IncomingMessage struct {
	ID          string               `json:"id"`
	From        string               `json:"from"`
	Timestamp   string               `json:"timestamp"`
	Type        string               `json:"type"`
	Text        *TextPayload         `json:"text,omitempty"`
	Interactive *InteractivePayload  `json:"interactive,omitempty"`
	Image       *MediaPayload        `json:"image,omitempty"`
	Document    *MediaPayload        `json:"document,omitempty"`
}

// TextPayload is the body of a plain text message.
type TextPayload struct {
	Body string `json:"body"`
}

// InteractivePayload is the reply content of a button or list interaction.
type InteractivePayload struct {
	Type        string            `json:"type"`
	ButtonReply *InteractiveReply `json:"button_reply,omitempty"`
	ListReply   *InteractiveReply `json:"list_reply,omitempty"`
}

// InteractiveReply carries the id and display title of a selected option.
type InteractiveReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// MediaPayload is the metadata of an image or document attachment.
type MediaPayload struct {
	ID       string `json:"id"`
	Caption  string `json:"caption,omitempty"`
	Filename string `json:"filename,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
}
