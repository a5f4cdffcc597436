// File: models/webhook.go
package models

// WhapiText is the body of a text message.
type WhapiText struct {
	Body string `json:"body"`
}

// WhapiMessage is one message of a Whapi webhook delivery.
type WhapiMessage struct {
	ID        string         `json:"id"`
	FromMe    bool           `json:"from_me"`
	Type      string         `json:"type"`
	ChatID    string         `json:"chat_id"`
	Timestamp int64          `json:"timestamp"`
	Source    string         `json:"source,omitempty"`
	ChatName  string         `json:"chat_name,omitempty"`
	Text      *WhapiText     `json:"text,omitempty"`
	From      string         `json:"from"`
	FromName  string         `json:"from_name,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
}

// WhapiWebhook is the payload posted by the WhatsApp gateway.
type WhapiWebhook struct {
	Messages  []WhapiMessage `json:"messages"`
	ChannelID string         `json:"channel_id"`
}
