// Package bot connects the conversation engine to storage and message
// delivery: it adapts inbound webhook messages to text tokens, runs the
// engine under a per-user lock, persists the results, and sends the replies.
package bot

import (
	"strings"

	"github.com/dira2050/dirabot/internal/flow"
	"github.com/dira2050/dirabot/internal/models"
)

// AdaptIncoming reduces an inbound message to either a text token for the
// engine or a direct acknowledgment that bypasses it. Exactly one of the two
// return values is non-empty.
func AdaptIncoming(msg models.IncomingMessage) (token string, ack string) {
	switch msg.Type {
	case models.MessageTypeText:
		if msg.Text != nil {
			return msg.Text.Body, ""
		}
		return "", flow.UnsupportedAck()

	case models.MessageTypeInteractive:
		if msg.Interactive == nil {
			return "", flow.UnsupportedAck()
		}
		switch msg.Interactive.Type {
		case models.InteractiveTypeButtonReply:
			if msg.Interactive.ButtonReply != nil {
				return adaptReplyID(msg.Interactive.ButtonReply), ""
			}
		case models.InteractiveTypeListReply:
			if msg.Interactive.ListReply != nil {
				return adaptReplyID(msg.Interactive.ListReply), ""
			}
		}
		return "", flow.UnsupportedAck()

	case models.MessageTypeImage:
		var caption string
		if msg.Image != nil {
			caption = msg.Image.Caption
		}
		return "", flow.ImageAck(caption)

	case models.MessageTypeDocument:
		var filename string
		if msg.Document != nil {
			filename = msg.Document.Filename
		}
		return "", flow.DocumentAck(filename)

	default:
		return "", flow.UnsupportedAck()
	}
}

// adaptReplyID maps an interactive reply to an engine token. Reply button IDs
// btn_1..btn_3 become their digit; any other ID passes through unchanged; a
// missing ID falls back to the visible title.
func adaptReplyID(reply *models.InteractiveReply) string {
	if digit, ok := strings.CutPrefix(reply.ID, "btn_"); ok && len(digit) == 1 && digit >= "1" && digit <= "9" {
		return digit
	}
	if reply.ID != "" {
		return reply.ID
	}
	return reply.Title
}
