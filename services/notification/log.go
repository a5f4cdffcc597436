package notification

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// LogDeliverer only logs outbound messages. It is used when no WHAPI_API_KEY
// is configured, and it remembers what it was asked to send.
type LogDeliverer struct {
	Logger *zap.Logger

	mu   sync.Mutex
	sent []Message
}

// Message is one delivered (not suppressed) outbound message.
type Message struct {
	ConversationID string
	Text           string
}

func NewLogDeliverer(logger *zap.Logger) *LogDeliverer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogDeliverer{Logger: logger}
}

func (d *LogDeliverer) Deliver(_ context.Context, text, conversationID string, suppressIfAlreadySent bool) error {
	if suppressIfAlreadySent {
		d.Logger.Info("Reply suppressed", zap.String("chat", conversationID))
		return nil
	}
	d.mu.Lock()
	d.sent = append(d.sent, Message{ConversationID: conversationID, Text: text})
	d.mu.Unlock()
	d.Logger.Info("Outbound message", zap.String("chat", conversationID), zap.String("text", text))
	return nil
}

// Sent returns a copy of the delivered messages in order.
func (d *LogDeliverer) Sent() []Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Message(nil), d.sent...)
}
