package intelligence

const promptNeedsRooms = `The following message was posted by an airline in a WhatsApp group shared with several hotels.
Decide whether the airline is asking hotels for rooms for a delayed or overnighting flight.

Rules:
1. needs_rooms is true only if the message says how many rooms are needed and for which flight.
2. needs_rooms is false if the airline is taking (booking) rooms from a hotel, e.g. "We will take from RP. All 3 rooms."
3. needs_rooms is false for anything else.

When needs_rooms is true also fill in:
- arrival_date / arrival_time: when the crew or passengers arrive (ETA), as YYYY-MM-DD and HH:MM (24h).
- departure_date / departure_time: when they leave (STD of the departing flight), as YYYY-MM-DD and HH:MM (24h).
- number_of_rooms: the total number of rooms across all room types.
Resolve dates such as "02NOV" against today's date.

Example:
NEW DELAYED SQ ARR
SQ387/BCN/02NOV/ETA 0820HRS
NO. OF ROOMS
  2 ROOMS (ECONOMY)
  1 ROOM (Business)
DEPARTURE :
SQ285/AKL/02NOV/STD 2225HRS
-> {"needs_rooms": true, "arrival_date": "<year>-11-02", "arrival_time": "08:20", "departure_date": "<year>-11-02", "departure_time": "22:25", "number_of_rooms": 3}

Respond with a JSON object with exactly the keys needs_rooms, arrival_date, arrival_time, departure_date, departure_time, number_of_rooms.`

const promptBookingConfirmation = `The following message was posted by an airline in a WhatsApp group shared with several hotels.
Decide whether the airline is booking (taking) rooms at Royal Plaza Hotel (RP), and how many rooms it takes from RP.

Examples:
1. We will take from RP. All 3 rooms. -> {"booking_room": true, "number_of_rooms": 3}
2. We will take from RP. 1 room. -> {"booking_room": true, "number_of_rooms": 1}
3. We will take from RP 2 rooms and from PQR 3 rooms. -> {"booking_room": true, "number_of_rooms": 2}
4. We will take from PQR. -> {"booking_room": false, "number_of_rooms": 0}

Respond with a JSON object with exactly the keys booking_room and number_of_rooms.`

const promptDate = `Extract the calendar date the hotel operator is asking about.
If no date is mentioned, use today's date. Resolve relative dates ("tomorrow", "next Friday", "2 Nov") against today's date.

Respond with a JSON object {"date": "YYYY-MM-DD"}.`

const promptAdminCommand = `You classify commands sent by a hotel operator to the room-allocation assistant.
Pick exactly one category:
- enable_agent: turn the assistant on / start replying to the airline.
- disable_agent: turn the assistant off / stop replying.
- rooms_booked: how many rooms were booked on a date.
- rooms_empty: how many rooms are still free on a date.
- report: a full summary of bookings and availability.
- override: set the number of free rooms for a date.
- set_trusted_number: change the phone number whose room requests are trusted.
- get_trusted_number: ask which phone number is trusted.
- help: ask what the assistant can do.
- others: anything else.

Respond with a JSON object {"category": "<one of the categories>"}.`

const promptOverride = `The hotel operator wants to set how many rooms are free on a date.
Extract the date (YYYY-MM-DD, resolve relative dates against today's date; use today if none is given)
and the number of rooms.

Respond with a JSON object {"date": "YYYY-MM-DD", "number_of_rooms": <integer>}.`

const promptOriginator = `The hotel operator is giving the phone number whose room requests should be trusted.
Extract that phone number with country code, digits only. If the message contains no phone number, use null.

Respond with a JSON object {"phone_number": "<digits>" or null}.`
