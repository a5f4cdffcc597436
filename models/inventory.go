// File: models/inventory.go
package models

// InventoryRecord is the free-room count for one calendar date.
// Availability may be negative after an operator override.
type InventoryRecord struct {
	Availability int `json:"availability" bson:"availability"`
}

// Inventory is the whole inventory document keyed by YYYY-MM-DD.
type Inventory map[string]InventoryRecord

// LedgerRecord holds the per-date audit counters.
type LedgerRecord struct {
	MessagesFromRequester int `json:"messagesFromRequester" bson:"messagesFromRequester"`
	RoomsBooked           int `json:"roomsBooked" bson:"roomsBooked"`
}

// Ledger is the whole audit document keyed by YYYY-MM-DD.
type Ledger map[string]LedgerRecord

// Metadata is the small document holding the trust settings.
type Metadata struct {
	Enabled           bool   `json:"enabled" bson:"enabled"`
	TrustedOriginator string `json:"trustedOriginator,omitempty" bson:"trustedOriginator,omitempty"`
}

// ReportRow joins the ledger and inventory for one date.
type ReportRow struct {
	Date                  string `json:"date"`
	MessagesFromRequester int    `json:"messagesFromRequester"`
	RoomsBooked           int    `json:"roomsBooked"`
	Availability          *int   `json:"availability,omitempty"`
}
