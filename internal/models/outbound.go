package models

// OutboundKind distinguishes plain text sends from interactive sends.
type OutboundKind string

const (
	// OutboundText is a plain text message.
	OutboundText OutboundKind = "text"
	// OutboundInteractive is a message with selectable options, rendered by
	// the transport as a button set or a list depending on option count.
	OutboundInteractive OutboundKind = "interactive"
)

// MaxButtonOptions is the most options WhatsApp renders as reply buttons;
// beyond that a transport must fall back to a selectable list.
const MaxButtonOptions = 3

// OutboundOption is one labelled choice of an interactive message.
type OutboundOption struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Outbound is a single message to deliver to a recipient.
type Outbound struct {
	Kind    OutboundKind     `json:"kind"`
	To      string           `json:"to"`
	Header  string           `json:"header,omitempty"`
	Body    string           `json:"body"`
	Options []OutboundOption `json:"options,omitempty"`
}

// NewTextMessage builds a plain text outbound message.
func NewTextMessage(to, body string) Outbound {
	return Outbound{Kind: OutboundText, To: to, Body: body}
}

// NewInteractiveMessage builds an interactive outbound message.
func NewInteractiveMessage(to, header, body string, options []OutboundOption) Outbound {
	return Outbound{Kind: OutboundInteractive, To: to, Header: header, Body: body, Options: options}
}

// Validate checks an outbound message before it is handed to a transport.
func (o Outbound) Validate() error {
	if o.To == "" {
		return ErrEmptyRecipient
	}
	if o.Body == "" {
		return ErrEmptyBody
	}
	return nil
}
