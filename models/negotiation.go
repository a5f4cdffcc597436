// File: models/negotiation.go
package models

import "time"

// NegotiationState is the lifecycle position of one conversation.
type NegotiationState string

const (
	StateIdle                 NegotiationState = "idle"
	StateAwaitingConfirmation NegotiationState = "awaiting_confirmation"
)

// StayPlan is the resolved set of nights for a request.
type StayPlan struct {
	ArrivalDate  string   `json:"arrivalDate"`
	CheckoutDate string   `json:"checkoutDate"`
	Dates        []string `json:"dates"`
	Nights       int      `json:"nights"`
}

// NegotiationSession is the pending stay request waiting for the requester's confirmation.
type NegotiationSession struct {
	ID              string    `json:"id"`
	ArrivalDate     string    `json:"arrivalDate"`
	ArrivalTime     string    `json:"arrivalTime"`
	DepartureDate   string    `json:"departureDate"`
	DepartureTime   string    `json:"departureTime"`
	RequestedRooms  int       `json:"requestedRooms"`
	OriginalMessage string    `json:"originalMessage"`
	Stay            StayPlan  `json:"stay"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Offer is one accepted request as recorded in the offer history.
type Offer struct {
	Message string    `json:"message"`
	Rooms   int       `json:"rooms"`
	At      time.Time `json:"at"`
}

// Conversation carries the negotiation state for one chat.
type Conversation struct {
	ID               string              `json:"id"`
	State            NegotiationState    `json:"state"`
	Pending          *NegotiationSession `json:"pending,omitempty"`
	OfferHistory     []Offer             `json:"offerHistory,omitempty"`
	// SentFirstMessage is set by the offer and cleared when the session ends.
	SentFirstMessage bool `json:"sentFirstMessage"`
}

// InboundMessage is a routed chat message handed to the core.
type InboundMessage struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversationId"`
	Sender         string `json:"sender"`
	SenderName     string `json:"senderName,omitempty"`
	Text           string `json:"text"`
}

// TrimOffersThrough drops the history up to and including the first offer
// for rooms. The history is unchanged when no offer matches.
func (c *Conversation) TrimOffersThrough(rooms int) (Offer, bool) {
	for i, o := range c.OfferHistory {
		if o.Rooms == rooms {
			c.OfferHistory = append([]Offer(nil), c.OfferHistory[i+1:]...)
			return o, true
		}
	}
	return Offer{}, false
}
