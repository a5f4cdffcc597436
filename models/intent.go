// File: models/intent.go
package models

// RoomNeed is the extraction result for a possible stay request.
type RoomNeed struct {
	NeedsRooms     bool   `json:"needs_rooms"`
	ArrivalDate    string `json:"arrival_date"`
	ArrivalTime    string `json:"arrival_time"`
	DepartureDate  string `json:"departure_date"`
	DepartureTime  string `json:"departure_time"`
	RequestedRooms int    `json:"number_of_rooms"`
}

// BookingConfirmation is the extraction result for "we will take N rooms" messages.
type BookingConfirmation struct {
	Confirmed      bool `json:"booking_room"`
	RequestedRooms int  `json:"number_of_rooms"`
}

// AdminCommand is the closed set of operator intents.
type AdminCommand string

const (
	CommandEnableAgent      AdminCommand = "enable_agent"
	CommandDisableAgent     AdminCommand = "disable_agent"
	CommandRoomsBooked      AdminCommand = "rooms_booked"
	CommandRoomsEmpty       AdminCommand = "rooms_empty"
	CommandReport           AdminCommand = "report"
	CommandOverride         AdminCommand = "override"
	CommandSetTrustedNumber AdminCommand = "set_trusted_number"
	CommandGetTrustedNumber AdminCommand = "get_trusted_number"
	CommandHelp             AdminCommand = "help"
	CommandOthers           AdminCommand = "others"
)

// AdminCommands lists every category the dispatcher recognises.
var AdminCommands = []AdminCommand{
	CommandEnableAgent,
	CommandDisableAgent,
	CommandRoomsBooked,
	CommandRoomsEmpty,
	CommandReport,
	CommandOverride,
	CommandSetTrustedNumber,
	CommandGetTrustedNumber,
	CommandHelp,
	CommandOthers,
}

// Override is an operator instruction to set a date's availability.
type Override struct {
	Date  string `json:"date"`
	Rooms int    `json:"number_of_rooms"`
}
