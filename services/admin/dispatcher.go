// File: services/admin/dispatcher.go
package admin

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"roomdesk/models"
	"roomdesk/services/intelligence"
	"roomdesk/services/inventory"
	"roomdesk/services/ledger"
	"roomdesk/utils"

	"go.uber.org/zap"
)

// ErrorReply is sent to the operator whenever a command could not be completed.
const ErrorReply = "Sorry, something went wrong. Please try again."

const othersReply = `I did not understand that. Send "help" to see what I can do.`

type commandHandler func(ctx context.Context, msg models.InboundMessage, today string) (string, error)

// Dispatcher is the command table behind the admin chat.
type Dispatcher struct {
	Inventory inventory.InventoryService
	Ledger    ledger.LedgerService
	Trust     TrustSettings
	Extractor intelligence.Extractor
	Clock     utils.Clock
	HelpText  string
	Logger    *zap.Logger

	handlers map[models.AdminCommand]commandHandler
}

func NewDispatcher(
	inv inventory.InventoryService,
	ledgerSvc ledger.LedgerService,
	trust TrustSettings,
	extractor intelligence.Extractor,
	helpText string,
	logger *zap.Logger,
) (*Dispatcher, error) {
	if inv == nil || ledgerSvc == nil || trust == nil || extractor == nil {
		return nil, fmt.Errorf("admin dispatcher initialization error: missing dependency")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{
		Inventory: inv,
		Ledger:    ledgerSvc,
		Trust:     trust,
		Extractor: extractor,
		Clock:     utils.NewSystemClock(nil),
		HelpText:  helpText,
		Logger:    logger,
	}
	d.handlers = map[models.AdminCommand]commandHandler{
		models.CommandEnableAgent:      d.enableAgent,
		models.CommandDisableAgent:     d.disableAgent,
		models.CommandRoomsBooked:      d.roomsBooked,
		models.CommandRoomsEmpty:       d.roomsEmpty,
		models.CommandReport:           d.report,
		models.CommandOverride:         d.override,
		models.CommandSetTrustedNumber: d.setTrustedNumber,
		models.CommandGetTrustedNumber: d.getTrustedNumber,
		models.CommandHelp:             d.help,
		models.CommandOthers:           d.others,
	}
	return d, nil
}

// Handle classifies msg and runs exactly one handler. An empty reply means
// nothing should be sent back. A non-nil error is an infrastructure failure
// that the reply already reports to the operator.
func (d *Dispatcher) Handle(ctx context.Context, msg models.InboundMessage) (string, error) {
	log := d.Logger.With(zap.String("message", msg.ID), zap.String("sender", msg.Sender))

	cmd, err := d.Extractor.ExtractAdminCommand(ctx, msg.Text)
	if err != nil {
		log.Warn("Admin command extraction failed, dropping message", zap.Error(err))
		return "", nil
	}
	handler, ok := d.handlers[cmd]
	if !ok {
		log.Info("Unrecognised admin command ignored", zap.String("command", string(cmd)))
		return "", nil
	}
	log.Info("Admin command", zap.String("command", string(cmd)))

	reply, err := handler(ctx, msg, utils.Today(d.Clock))
	if err != nil {
		if errors.Is(err, intelligence.ErrExtractionFailed) {
			log.Warn("Admin command arguments could not be extracted", zap.Error(err))
			return ErrorReply, nil
		}
		log.Error("Admin command failed", zap.String("command", string(cmd)), zap.Error(err))
		return ErrorReply, err
	}
	return reply, nil
}

func (d *Dispatcher) enableAgent(ctx context.Context, _ models.InboundMessage, _ string) (string, error) {
	if err := d.Trust.SetEnabled(ctx, true); err != nil {
		return "", err
	}
	return "Agent enabled. I will answer room requests again.", nil
}

func (d *Dispatcher) disableAgent(ctx context.Context, _ models.InboundMessage, _ string) (string, error) {
	if err := d.Trust.SetEnabled(ctx, false); err != nil {
		return "", err
	}
	return "Agent disabled. Room requests will be ignored until it is enabled.", nil
}

func (d *Dispatcher) roomsBooked(ctx context.Context, msg models.InboundMessage, today string) (string, error) {
	date, err := d.Extractor.ExtractDate(ctx, msg.Text, today)
	if err != nil {
		return "", err
	}
	rec, err := d.Ledger.Get(ctx, date)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Rooms booked on %s: %d", date, rec.RoomsBooked), nil
}

func (d *Dispatcher) roomsEmpty(ctx context.Context, msg models.InboundMessage, today string) (string, error) {
	date, err := d.Extractor.ExtractDate(ctx, msg.Text, today)
	if err != nil {
		return "", err
	}
	free, ok, err := d.Inventory.Availability(ctx, date)
	if err != nil {
		return "", err
	}
	if !ok {
		free = d.Inventory.DefaultCapacity()
	}
	return fmt.Sprintf("Rooms empty on %s: %d", date, free), nil
}

func (d *Dispatcher) report(ctx context.Context, _ models.InboundMessage, _ string) (string, error) {
	return d.Report(ctx)
}

func (d *Dispatcher) override(ctx context.Context, msg models.InboundMessage, today string) (string, error) {
	ov, err := d.Extractor.ExtractOverride(ctx, msg.Text, today)
	if err != nil {
		return "", err
	}
	if err := d.Inventory.SetAvailability(ctx, ov.Date, ov.Rooms); err != nil {
		return "", err
	}
	return fmt.Sprintf("Rooms empty on %s set to %d.", ov.Date, ov.Rooms), nil
}

func (d *Dispatcher) setTrustedNumber(ctx context.Context, msg models.InboundMessage, _ string) (string, error) {
	phone, ok, err := d.Extractor.ExtractOriginator(ctx, msg.Text)
	if err != nil {
		return "", err
	}
	if !ok {
		return "I could not find a phone number in that message.", nil
	}
	if err := d.Trust.SetTrustedOriginator(ctx, phone); err != nil {
		return "", err
	}
	trusted, _ := d.Trust.TrustedOriginator()
	return fmt.Sprintf("Trusted number set to %s.", trusted), nil
}

func (d *Dispatcher) getTrustedNumber(_ context.Context, _ models.InboundMessage, _ string) (string, error) {
	trusted, ok := d.Trust.TrustedOriginator()
	if !ok {
		return "No trusted number is set.", nil
	}
	return fmt.Sprintf("Trusted number: %s", trusted), nil
}

func (d *Dispatcher) help(context.Context, models.InboundMessage, string) (string, error) {
	return d.HelpText, nil
}

func (d *Dispatcher) others(context.Context, models.InboundMessage, string) (string, error) {
	return othersReply, nil
}

// ReportRows joins the ledger with the inventory, one row per date seen in
// either, sorted by date.
func (d *Dispatcher) ReportRows(ctx context.Context) ([]models.ReportRow, error) {
	l, err := d.Ledger.All(ctx)
	if err != nil {
		return nil, err
	}
	inv, err := d.Inventory.Load(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(l)+len(inv))
	for date := range l {
		seen[date] = struct{}{}
	}
	for date := range inv {
		seen[date] = struct{}{}
	}
	dates := make([]string, 0, len(seen))
	for date := range seen {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	rows := make([]models.ReportRow, 0, len(dates))
	for _, date := range dates {
		row := models.ReportRow{
			Date:                  date,
			MessagesFromRequester: l[date].MessagesFromRequester,
			RoomsBooked:           l[date].RoomsBooked,
		}
		if rec, ok := inv[date]; ok {
			free := rec.Availability
			row.Availability = &free
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Report renders ReportRows for the chat.
func (d *Dispatcher) Report(ctx context.Context) (string, error) {
	rows, err := d.ReportRows(ctx)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "Report: no bookings or inventory yet.", nil
	}
	var b strings.Builder
	b.WriteString("Report")
	for _, r := range rows {
		free := "-"
		if r.Availability != nil {
			free = fmt.Sprint(*r.Availability)
		}
		fmt.Fprintf(&b, "\n%s: requests %d, booked %d, empty %s", r.Date, r.MessagesFromRequester, r.RoomsBooked, free)
	}
	return b.String(), nil
}
