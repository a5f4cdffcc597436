package admin

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	documentRepo "roomdesk/database/repository/document"
	"roomdesk/models"
	"roomdesk/services/intelligence"
	"roomdesk/services/inventory"
	"roomdesk/services/ledger"
	"roomdesk/services/trust"
	"roomdesk/utils"
)

// scriptedExtractor answers every call from fixed fields.
type scriptedExtractor struct {
	command    models.AdminCommand
	commandErr error
	date       string
	dateErr    error
	override   models.Override
	phone      string
	hasPhone   bool
}

func (s *scriptedExtractor) ExtractNeedsRooms(context.Context, string, string) (models.RoomNeed, error) {
	return models.RoomNeed{}, nil
}

func (s *scriptedExtractor) ExtractBookingConfirmation(context.Context, string, string) (models.BookingConfirmation, error) {
	return models.BookingConfirmation{}, nil
}

func (s *scriptedExtractor) ExtractDate(_ context.Context, _ string, today string) (string, error) {
	if s.dateErr != nil {
		return "", s.dateErr
	}
	if s.date == "" {
		return today, nil
	}
	return s.date, nil
}

func (s *scriptedExtractor) ExtractAdminCommand(context.Context, string) (models.AdminCommand, error) {
	return s.command, s.commandErr
}

func (s *scriptedExtractor) ExtractOverride(context.Context, string, string) (models.Override, error) {
	return s.override, nil
}

func (s *scriptedExtractor) ExtractOriginator(context.Context, string) (string, bool, error) {
	return s.phone, s.hasPhone, nil
}

type fixture struct {
	dispatcher *Dispatcher
	extractor  *scriptedExtractor
	inventory  *inventory.DefaultInventoryService
	ledger     *ledger.DefaultLedgerService
	trust      *trust.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		extractor: &scriptedExtractor{},
		inventory: inventory.NewDefaultInventoryService(documentRepo.NewMemoryStoreWith(models.Inventory{
			"2024-10-30": {Availability: 4},
			"2024-11-01": {Availability: 7},
		}), 10, nil),
		ledger: ledger.NewDefaultLedgerService(documentRepo.NewMemoryStoreWith(models.Ledger{
			"2024-10-30": {MessagesFromRequester: 2},
			"2024-11-01": {RoomsBooked: 3},
			"2024-11-04": {RoomsBooked: 1},
		}), nil),
		trust: trust.NewConfig(documentRepo.NewMemoryStore(), nil),
	}
	if err := f.trust.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	d, err := NewDispatcher(f.inventory, f.ledger, f.trust, f.extractor, "HELP", nil)
	if err != nil {
		t.Fatal(err)
	}
	d.Clock = utils.NewFixedClock(time.Date(2024, 10, 30, 12, 0, 0, 0, time.UTC))
	f.dispatcher = d
	return f
}

func (f *fixture) run(t *testing.T, cmd models.AdminCommand) string {
	t.Helper()
	f.extractor.command = cmd
	reply, err := f.dispatcher.Handle(context.Background(), models.InboundMessage{ID: "a1", Text: string(cmd)})
	if err != nil {
		t.Fatalf("Handle(%s) returned %v", cmd, err)
	}
	return reply
}

func TestEnableDisable(t *testing.T) {
	f := newFixture(t)

	if reply := f.run(t, models.CommandDisableAgent); !strings.Contains(reply, "disabled") {
		t.Fatalf("unexpected reply %q", reply)
	}
	if f.trust.Enabled() {
		t.Fatalf("expected agent disabled")
	}
	f.run(t, models.CommandEnableAgent)
	if !f.trust.Enabled() {
		t.Fatalf("expected agent enabled")
	}
}

func TestQueries(t *testing.T) {
	f := newFixture(t)

	t.Run("rooms booked defaults to today", func(t *testing.T) {
		f.extractor.date = ""
		if reply := f.run(t, models.CommandRoomsBooked); reply != "Rooms booked on 2024-10-30: 0" {
			t.Fatalf("unexpected reply %q", reply)
		}
	})

	t.Run("rooms booked on a date", func(t *testing.T) {
		f.extractor.date = "2024-11-01"
		if reply := f.run(t, models.CommandRoomsBooked); reply != "Rooms booked on 2024-11-01: 3" {
			t.Fatalf("unexpected reply %q", reply)
		}
	})

	t.Run("rooms empty on a provisioned date", func(t *testing.T) {
		f.extractor.date = "2024-11-01"
		if reply := f.run(t, models.CommandRoomsEmpty); reply != "Rooms empty on 2024-11-01: 7" {
			t.Fatalf("unexpected reply %q", reply)
		}
	})

	t.Run("rooms empty on an unseen date reports default capacity", func(t *testing.T) {
		f.extractor.date = "2024-12-25"
		if reply := f.run(t, models.CommandRoomsEmpty); reply != "Rooms empty on 2024-12-25: 10" {
			t.Fatalf("unexpected reply %q", reply)
		}
		if _, ok, _ := f.inventory.Availability(context.Background(), "2024-12-25"); ok {
			t.Fatalf("query must not provision the date")
		}
	})

	t.Run("date extraction failure replies with the fixed error", func(t *testing.T) {
		f.extractor.dateErr = intelligence.ErrExtractionFailed
		defer func() { f.extractor.dateErr = nil }()
		if reply := f.run(t, models.CommandRoomsBooked); reply != ErrorReply {
			t.Fatalf("unexpected reply %q", reply)
		}
	})
}

func TestOverrideAllowsNegative(t *testing.T) {
	f := newFixture(t)
	f.extractor.override = models.Override{Date: "2024-11-01", Rooms: -2}

	f.run(t, models.CommandOverride)

	got, _, err := f.inventory.Availability(context.Background(), "2024-11-01")
	if err != nil || got != -2 {
		t.Fatalf("expected -2, got %d (%v)", got, err)
	}
}

func TestTrustedNumber(t *testing.T) {
	f := newFixture(t)

	if reply := f.run(t, models.CommandGetTrustedNumber); reply != "No trusted number is set." {
		t.Fatalf("unexpected reply %q", reply)
	}

	f.extractor.phone, f.extractor.hasPhone = "+65 9123 4567", true
	if reply := f.run(t, models.CommandSetTrustedNumber); reply != "Trusted number set to 6591234567." {
		t.Fatalf("unexpected reply %q", reply)
	}
	if reply := f.run(t, models.CommandGetTrustedNumber); reply != "Trusted number: 6591234567" {
		t.Fatalf("unexpected reply %q", reply)
	}

	f.extractor.phone, f.extractor.hasPhone = "", false
	f.run(t, models.CommandSetTrustedNumber)
	if trusted, _ := f.trust.TrustedOriginator(); trusted != "6591234567" {
		t.Fatalf("missing phone must not change the trusted number, got %q", trusted)
	}
}

func TestReport(t *testing.T) {
	f := newFixture(t)

	rows, err := f.dispatcher.ReportRows(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[0].Date != "2024-10-30" || rows[2].Date != "2024-11-04" {
		t.Fatalf("unexpected rows %+v", rows)
	}
	if rows[2].Availability != nil {
		t.Fatalf("ledger-only date should have no availability")
	}

	reply := f.run(t, models.CommandReport)
	for _, want := range []string{
		"2024-10-30: requests 2, booked 0, empty 4",
		"2024-11-01: requests 0, booked 3, empty 7",
		"2024-11-04: requests 0, booked 1, empty -",
	} {
		if !strings.Contains(reply, want) {
			t.Fatalf("report missing %q:\n%s", want, reply)
		}
	}
}

func TestHelpOthersAndUnknown(t *testing.T) {
	f := newFixture(t)

	if reply := f.run(t, models.CommandHelp); reply != "HELP" {
		t.Fatalf("unexpected help %q", reply)
	}
	if reply := f.run(t, models.CommandOthers); !strings.Contains(reply, "help") {
		t.Fatalf("unexpected others reply %q", reply)
	}
	if reply := f.run(t, models.AdminCommand("order_pizza")); reply != "" {
		t.Fatalf("unknown command should be silent, got %q", reply)
	}

	f.extractor.commandErr = intelligence.ErrExtractionFailed
	if reply := f.run(t, models.CommandHelp); reply != "" {
		t.Fatalf("failed classification should be silent, got %q", reply)
	}
}

func TestStorageFailureRepliesWithError(t *testing.T) {
	f := newFixture(t)
	f.dispatcher.Inventory = inventory.NewDefaultInventoryService(documentRepo.NewMemoryStore(), 10, nil)
	f.extractor.command = models.CommandReport

	reply, err := f.dispatcher.Handle(context.Background(), models.InboundMessage{ID: "a2", Text: "report"})
	if reply != ErrorReply {
		t.Fatalf("unexpected reply %q", reply)
	}
	if !errors.Is(err, inventory.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}
