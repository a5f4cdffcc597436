// File: services/notification/interface.go
package notification

import "context"

// Deliverer posts a text message to a chat. When suppressIfAlreadySent is
// true the message is dropped without error.
type Deliverer interface {
	Deliver(ctx context.Context, text, conversationID string, suppressIfAlreadySent bool) error
}
