package stay

import (
	"errors"
	"reflect"
	"testing"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		arrDate      string
		arrTime      string
		depDate      string
		depTime      string
		wantArrival  string
		wantCheckout string
		wantDates    []string
	}{
		{
			name:         "early arrival and late departure on the same day",
			arrDate:      "2024-11-02",
			arrTime:      "08:20",
			depDate:      "2024-11-02",
			depTime:      "22:25",
			wantArrival:  "2024-11-01",
			wantCheckout: "2024-11-03",
			wantDates:    []string{"2024-11-01", "2024-11-02"},
		},
		{
			name:         "afternoon arrival, morning departure next day",
			arrDate:      "2024-11-02",
			arrTime:      "15:00",
			depDate:      "2024-11-03",
			depTime:      "10:00",
			wantArrival:  "2024-11-02",
			wantCheckout: "2024-11-03",
			wantDates:    []string{"2024-11-02"},
		},
		{
			name:         "same instant still takes one night",
			arrDate:      "2024-11-02",
			arrTime:      "14:00",
			depDate:      "2024-11-02",
			depTime:      "14:00",
			wantArrival:  "2024-11-02",
			wantCheckout: "2024-11-02",
			wantDates:    []string{"2024-11-02"},
		},
		{
			name:         "departure before arrival clamps to one night",
			arrDate:      "2024-11-05",
			arrTime:      "15:00",
			depDate:      "2024-11-02",
			depTime:      "10:00",
			wantArrival:  "2024-11-05",
			wantCheckout: "2024-11-02",
			wantDates:    []string{"2024-11-05"},
		},
		{
			name:         "multi night across a month boundary",
			arrDate:      "2024-10-30",
			arrTime:      "16:45",
			depDate:      "2024-11-02",
			depTime:      "19:00",
			wantArrival:  "2024-10-30",
			wantCheckout: "2024-11-03",
			wantDates:    []string{"2024-10-30", "2024-10-31", "2024-11-01", "2024-11-02"},
		},
		{
			name:         "missing times skip both rules",
			arrDate:      "2024-11-02",
			arrTime:      "",
			depDate:      "2024-11-04",
			depTime:      "",
			wantArrival:  "2024-11-02",
			wantCheckout: "2024-11-04",
			wantDates:    []string{"2024-11-02", "2024-11-03"},
		},
		{
			name:         "12:59 is still early",
			arrDate:      "2024-03-01",
			arrTime:      "12:59",
			depDate:      "2024-03-01",
			depTime:      "18:59",
			wantArrival:  "2024-02-29",
			wantCheckout: "2024-03-01",
			wantDates:    []string{"2024-02-29"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Resolve(tc.arrDate, tc.arrTime, tc.depDate, tc.depTime)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got.ArrivalDate != tc.wantArrival {
				t.Fatalf("expected arrival %s, got %s", tc.wantArrival, got.ArrivalDate)
			}
			if got.CheckoutDate != tc.wantCheckout {
				t.Fatalf("expected checkout %s, got %s", tc.wantCheckout, got.CheckoutDate)
			}
			if !reflect.DeepEqual(got.Dates, tc.wantDates) {
				t.Fatalf("expected dates %v, got %v", tc.wantDates, got.Dates)
			}
			if got.Nights != len(tc.wantDates) {
				t.Fatalf("expected %d nights, got %d", len(tc.wantDates), got.Nights)
			}
		})
	}
}

func TestResolveRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	if _, err := Resolve("02NOV", "08:20", "2024-11-02", "22:25"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if _, err := Resolve("2024-11-02", "08:20", "2024-13-02", "22:25"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if _, err := Resolve("2024-11-02", "0820HRS", "2024-11-02", "22:25"); !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("expected ErrInvalidTime, got %v", err)
	}
	if _, err := Resolve("2024-11-02", "08:20", "2024-11-02", "25:00"); !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("expected ErrInvalidTime, got %v", err)
	}
}

func TestPolicyCutoffs(t *testing.T) {
	t.Parallel()

	p := Policy{EarlyArrivalHour: 10, LateDepartureHour: 21}
	got, err := p.Resolve("2024-11-02", "11:00", "2024-11-03", "20:00")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Dates, []string{"2024-11-02"}) {
		t.Fatalf("expected one night from 2024-11-02, got %v", got.Dates)
	}
}

func TestResolveRejectsOverlongStay(t *testing.T) {
	t.Parallel()

	if _, err := Resolve("2024-11-02", "15:00", "2124-11-02", "10:00"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate for a century-long stay, got %v", err)
	}

	got, err := Resolve("2024-11-01", "15:00", "2024-12-01", "10:00")
	if err != nil {
		t.Fatalf("30 nights should be allowed: %v", err)
	}
	if got.Nights != 30 {
		t.Fatalf("expected 30 nights, got %d", got.Nights)
	}
	if _, err := Resolve("2024-11-01", "15:00", "2024-12-01", "20:00"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected the late departure night to exceed the limit, got %v", err)
	}

	unlimited := Policy{EarlyArrivalHour: 13, LateDepartureHour: 19}
	if got, err := unlimited.Resolve("2024-11-01", "", "2025-11-01", ""); err != nil || got.Nights != 365 {
		t.Fatalf("zero MaxNights should not limit: nights=%d err=%v", got.Nights, err)
	}
}
