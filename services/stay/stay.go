// Package stay turns arrival and departure date-times into the nights a
// booking occupies.
package stay

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"roomdesk/models"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidDate = errors.New("invalid date")
	ErrInvalidTime = errors.New("invalid time")
)

// Policy holds the hour cut-offs. An arrival before EarlyArrivalHour occupies
// the previous night; a departure at or after LateDepartureHour adds a night.
// Stays longer than MaxNights are rejected; zero means no limit.
type Policy struct {
	EarlyArrivalHour  int
	LateDepartureHour int
	MaxNights         int
}

// DefaultPolicy is 13:00 / 19:00 with at most 30 nights.
var DefaultPolicy = Policy{EarlyArrivalHour: 13, LateDepartureHour: 19, MaxNights: 30}

// Resolve applies DefaultPolicy.
func Resolve(arrivalDate, arrivalTime, departureDate, departureTime string) (models.StayPlan, error) {
	return DefaultPolicy.Resolve(arrivalDate, arrivalTime, departureDate, departureTime)
}

// Resolve computes the stay. Times are HH:MM (seconds tolerated); an empty
// time skips its rule.
func (p Policy) Resolve(arrivalDate, arrivalTime, departureDate, departureTime string) (models.StayPlan, error) {
	arrival, err := parseDate(arrivalDate)
	if err != nil {
		return models.StayPlan{}, err
	}
	departure, err := parseDate(departureDate)
	if err != nil {
		return models.StayPlan{}, err
	}
	arrivalHour, err := parseHour(arrivalTime)
	if err != nil {
		return models.StayPlan{}, err
	}
	departureHour, err := parseHour(departureTime)
	if err != nil {
		return models.StayPlan{}, err
	}

	if arrivalHour >= 0 && arrivalHour < p.EarlyArrivalHour {
		arrival = arrival.AddDate(0, 0, -1)
	}

	lateDeparture := departureHour >= p.LateDepartureHour
	nights := daysBetween(arrival, departure)
	if lateDeparture {
		nights++
	}
	if nights < 1 {
		nights = 1
	}
	if p.MaxNights > 0 && nights > p.MaxNights {
		return models.StayPlan{}, fmt.Errorf("%w: %s to %s is %d nights, more than %d",
			ErrInvalidDate, arrivalDate, departureDate, nights, p.MaxNights)
	}

	dates := make([]string, 0, nights)
	for i := 0; i < nights; i++ {
		dates = append(dates, arrival.AddDate(0, 0, i).Format(dateLayout))
	}

	checkout := departure
	if lateDeparture {
		checkout = checkout.AddDate(0, 0, 1)
	}

	return models.StayPlan{
		ArrivalDate:  arrival.Format(dateLayout),
		CheckoutDate: checkout.Format(dateLayout),
		Dates:        dates,
		Nights:       nights,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// parseHour returns -1 for an empty time.
func parseHour(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return -1, nil
	}
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	for _, part := range parts[1:] {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 59 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
	}
	return hour, nil
}

// daysBetween counts calendar days; both values are UTC midnights from time.Parse.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
