// Package cloudapi wraps the Meta WhatsApp Cloud API for dirabot.
//
// This is the production transport: messages go out through the Graph API
// messages endpoint and come back in through the webhook handled by the api
// package.
package cloudapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dira2050/dirabot/internal/models"
)

const (
	// DefaultBaseURL is the Graph API root.
	DefaultBaseURL = "https://graph.facebook.com"
	// DefaultAPIVersion is the Graph API version used for the messages endpoint.
	DefaultAPIVersion = "v19.0"
	// DefaultTimeout bounds one send round-trip.
	DefaultTimeout = 10 * time.Second
)

// Opts holds configuration options for the Cloud API client.
type Opts struct {
	BaseURL       string
	APIVersion    string
	AccessToken   string
	PhoneNumberID string
	Timeout       time.Duration
}

// Option defines a configuration option for the Cloud API client.
type Option func(*Opts)

// WithBaseURL overrides the Graph API root (for tests against a local server).
func WithBaseURL(url string) Option {
	return func(o *Opts) { o.BaseURL = url }
}

// WithAPIVersion sets the Graph API version.
func WithAPIVersion(version string) Option {
	return func(o *Opts) { o.APIVersion = version }
}

// WithAccessToken sets the bearer token for the messages endpoint.
func WithAccessToken(token string) Option {
	return func(o *Opts) { o.AccessToken = token }
}

// WithPhoneNumberID sets the sending phone number ID.
func WithPhoneNumberID(id string) Option {
	return func(o *Opts) { o.PhoneNumberID = id }
}

// WithTimeout bounds one send round-trip.
func WithTimeout(d time.Duration) Option {
	return func(o *Opts) { o.Timeout = d }
}

// Client sends messages through the Cloud API messages endpoint.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	apiVersion    string
	accessToken   string
	phoneNumberID string
}

// NewClient creates a Cloud API client.
func NewClient(opts ...Option) (*Client, error) {
	cfg := Opts{
		BaseURL:    DefaultBaseURL,
		APIVersion: DefaultAPIVersion,
		Timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("access token must be provided")
	}
	if cfg.PhoneNumberID == "" {
		return nil, fmt.Errorf("phone number ID must be provided")
	}

	return &Client{
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		baseURL:       cfg.BaseURL,
		apiVersion:    cfg.APIVersion,
		accessToken:   cfg.AccessToken,
		phoneNumberID: cfg.PhoneNumberID,
	}, nil
}

// textPayload is the Cloud API request body for a plain text message.
type textPayload struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

// interactivePayload is the Cloud API request body for button and list messages.
type interactivePayload struct {
	MessagingProduct string          `json:"messaging_product"`
	To               string          `json:"to"`
	Type             string          `json:"type"`
	Interactive      interactiveBody `json:"interactive"`
}

type interactiveBody struct {
	Type   string             `json:"type"`
	Header *interactiveHeader `json:"header,omitempty"`
	Body   interactiveText    `json:"body"`
	Action interactiveAction  `json:"action"`
}

type interactiveHeader struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type interactiveText struct {
	Text string `json:"text"`
}

type interactiveAction struct {
	Buttons  []interactiveButton `json:"buttons,omitempty"`
	Button   string              `json:"button,omitempty"`
	Sections []listSection       `json:"sections,omitempty"`
}

type interactiveButton struct {
	Type  string      `json:"type"`
	Reply buttonReply `json:"reply"`
}

type buttonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type listSection struct {
	Title string    `json:"title"`
	Rows  []listRow `json:"rows"`
}

type listRow struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// SendText sends a plain text message.
func (c *Client) SendText(ctx context.Context, to string, body string) error {
	if to == "" {
		return models.ErrEmptyRecipient
	}
	if body == "" {
		return models.ErrEmptyBody
	}
	payload := textPayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             textBody{Body: body},
	}
	return c.post(ctx, payload)
}

// SendInteractive sends an interactive message: a reply-button set when the
// option count fits WhatsApp's three-button limit, a list otherwise.
func (c *Client) SendInteractive(ctx context.Context, msg models.Outbound) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	body := interactiveBody{
		Body: interactiveText{Text: msg.Body},
	}
	if msg.Header != "" {
		body.Header = &interactiveHeader{Type: "text", Text: msg.Header}
	}

	if len(msg.Options) <= models.MaxButtonOptions {
		body.Type = "button"
		buttons := make([]interactiveButton, len(msg.Options))
		for i, opt := range msg.Options {
			buttons[i] = interactiveButton{
				Type:  "reply",
				Reply: buttonReply{ID: opt.ID, Title: opt.Title},
			}
		}
		body.Action = interactiveAction{Buttons: buttons}
	} else {
		body.Type = "list"
		rows := make([]listRow, len(msg.Options))
		for i, opt := range msg.Options {
			rows[i] = listRow{ID: opt.ID, Title: opt.Title}
		}
		body.Action = interactiveAction{
			Button:   "Chagua / Choose",
			Sections: []listSection{{Title: "Chaguzi", Rows: rows}},
		}
	}

	payload := interactivePayload{
		MessagingProduct: "whatsapp",
		To:               msg.To,
		Type:             "interactive",
		Interactive:      body,
	}
	return c.post(ctx, payload)
}

// post sends one request to the messages endpoint.
func (c *Client) post(ctx context.Context, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s/messages", c.baseURL, c.apiVersion, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build messages request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("cloudapi.post: request failed", "error", err)
		return fmt.Errorf("%w: %v", models.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		slog.Error("cloudapi.post: non-success response", "status", resp.StatusCode, "body", string(respBody))
		return fmt.Errorf("%w: messages endpoint returned %d", models.ErrTransport, resp.StatusCode)
	}
	return nil
}
