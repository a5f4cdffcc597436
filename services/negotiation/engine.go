// File: services/negotiation/engine.go
package negotiation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"roomdesk/models"
	"roomdesk/services/intelligence"
	"roomdesk/services/inventory"
	"roomdesk/services/ledger"
	"roomdesk/services/notification"
	"roomdesk/services/stay"
	"roomdesk/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultOfferToken = "RP Can"

// Engine runs the per-conversation offer and confirmation cycle.
type Engine struct {
	Sessions  SessionStore
	Inventory inventory.InventoryService
	Ledger    ledger.LedgerService
	Trust     TrustConfig
	Extractor intelligence.Extractor
	Deliverer notification.Deliverer
	Clock     utils.Clock
	Policy    stay.Policy
	Logger    *zap.Logger

	// OfferToken is sent when capacity is held and ignored when it comes back.
	OfferToken string
	// ConfirmationChatID receives the booking notice.
	ConfirmationChatID string
	// SuppressRepeatReplies drops requester-facing replies after the first
	// one of a session.
	SuppressRepeatReplies bool

	locks keyedMutex
}

func NewEngine(
	sessions SessionStore,
	inv inventory.InventoryService,
	ledgerSvc ledger.LedgerService,
	trust TrustConfig,
	extractor intelligence.Extractor,
	deliverer notification.Deliverer,
	logger *zap.Logger,
) (*Engine, error) {
	if sessions == nil || inv == nil || ledgerSvc == nil || trust == nil || extractor == nil || deliverer == nil {
		return nil, fmt.Errorf("negotiation engine initialization error: missing dependency")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		Sessions:   sessions,
		Inventory:  inv,
		Ledger:     ledgerSvc,
		Trust:      trust,
		Extractor:  extractor,
		Deliverer:  deliverer,
		Clock:      utils.NewSystemClock(nil),
		Policy:     stay.DefaultPolicy,
		Logger:     logger,
		OfferToken: DefaultOfferToken,
	}, nil
}

// Handle processes one negotiation-channel message to completion. Only
// storage and delivery failures are returned; extraction problems are logged
// and the message is dropped.
func (e *Engine) Handle(ctx context.Context, msg models.InboundMessage) error {
	log := e.Logger.With(
		zap.String("conversation", msg.ConversationID),
		zap.String("message", msg.ID),
		zap.String("sender", msg.Sender),
		zap.String("fromName", msg.SenderName),
	)
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return nil
	}
	if text == e.OfferToken {
		log.Debug("Ignoring our own offer token")
		return nil
	}
	if !e.Trust.Enabled() {
		log.Info("Agent disabled, dropping message")
		return nil
	}

	unlock := e.locks.Lock(msg.ConversationID)
	defer unlock()

	conv, err := e.Sessions.Get(ctx, msg.ConversationID)
	if err != nil {
		log.Error("Failed to load conversation", zap.Error(err))
		return fmt.Errorf("%w: %v", inventory.ErrStorageUnavailable, err)
	}
	today := utils.Today(e.Clock)

	need, err := e.Extractor.ExtractNeedsRooms(ctx, text, today)
	if err != nil {
		log.Warn("Room need extraction failed, dropping message", zap.Error(err))
		return nil
	}
	if need.NeedsRooms {
		return e.handleRequest(ctx, log, conv, msg, need, today)
	}

	if conv.State != models.StateAwaitingConfirmation || conv.Pending == nil {
		log.Debug("No pending request, ignoring message")
		return nil
	}
	conf, err := e.Extractor.ExtractBookingConfirmation(ctx, text, today)
	if err != nil {
		log.Warn("Booking confirmation extraction failed, dropping message", zap.Error(err))
		return nil
	}
	return e.handleConfirmation(ctx, log, conv, msg, conf)
}

func (e *Engine) handleRequest(ctx context.Context, log *zap.Logger, conv *models.Conversation, msg models.InboundMessage, need models.RoomNeed, today string) error {
	if !e.Trust.IsTrusted(msg.Sender) {
		log.Info("Room request from untrusted sender ignored")
		return nil
	}
	plan, err := e.Policy.Resolve(need.ArrivalDate, need.ArrivalTime, need.DepartureDate, need.DepartureTime)
	if err != nil {
		log.Warn("Unusable stay dates, dropping message",
			zap.String("arrival", need.ArrivalDate+" "+need.ArrivalTime),
			zap.String("departure", need.DepartureDate+" "+need.DepartureTime),
			zap.Error(err))
		return nil
	}

	if err := e.Ledger.RecordMessage(ctx, today); err != nil {
		return err
	}
	ok, err := e.Inventory.CheckCapacity(ctx, plan.Dates, need.RequestedRooms)
	if err != nil {
		return err
	}
	if !ok {
		log.Info("Not enough rooms, no offer made",
			zap.Strings("dates", plan.Dates),
			zap.Int("rooms", need.RequestedRooms))
		e.resetToIdle(conv)
		return e.save(ctx, log, conv)
	}

	now := e.Clock.Now()
	conv.Pending = &models.NegotiationSession{
		ID:              uuid.NewString(),
		ArrivalDate:     need.ArrivalDate,
		ArrivalTime:     need.ArrivalTime,
		DepartureDate:   need.DepartureDate,
		DepartureTime:   need.DepartureTime,
		RequestedRooms:  need.RequestedRooms,
		OriginalMessage: msg.Text,
		Stay:            plan,
		CreatedAt:       now,
	}
	conv.State = models.StateAwaitingConfirmation
	conv.OfferHistory = append(conv.OfferHistory, models.Offer{Message: msg.Text, Rooms: need.RequestedRooms, At: now})

	// The offer opens a new session and is its first message.
	conv.SentFirstMessage = true
	if err := e.save(ctx, log, conv); err != nil {
		return err
	}
	log.Info("Offer made",
		zap.String("session", conv.Pending.ID),
		zap.Strings("dates", plan.Dates),
		zap.Int("rooms", need.RequestedRooms))
	return e.Deliverer.Deliver(ctx, e.OfferToken, msg.ConversationID, false)
}

func (e *Engine) handleConfirmation(ctx context.Context, log *zap.Logger, conv *models.Conversation, msg models.InboundMessage, conf models.BookingConfirmation) error {
	pending := conv.Pending
	log = log.With(zap.String("session", pending.ID))

	// Other hotels talk in the same group; only the requester books or declines.
	if !e.Trust.IsTrusted(msg.Sender) {
		log.Debug("Booking message from untrusted sender ignored")
		return nil
	}
	if !conf.Confirmed {
		log.Info("Requester booked elsewhere, dropping pending request")
		e.resetToIdle(conv)
		return e.save(ctx, log, conv)
	}

	rooms := conf.RequestedRooms
	if rooms <= 0 {
		rooms = pending.RequestedRooms
	}
	dates := pending.Stay.Dates

	ok, err := e.Inventory.CheckCapacity(ctx, dates, rooms)
	if err != nil {
		return err
	}
	if ok {
		_, err = e.Inventory.Decrement(ctx, dates, rooms)
		if inventory.IsInsufficientCapacity(err) {
			log.Warn("Capacity taken between check and commit", zap.Error(err))
			ok = false
		} else if err != nil {
			return err
		}
	}
	if !ok {
		suppress := e.suppress(conv)
		e.resetToIdle(conv)
		if err := e.save(ctx, log, conv); err != nil {
			return err
		}
		log.Info("Booking rejected", zap.Strings("dates", dates), zap.Int("rooms", rooms))
		return e.Deliverer.Deliver(ctx, rejectionText(rooms), msg.ConversationID, suppress)
	}

	var errs []error
	if err := e.Ledger.RecordBooking(ctx, dates, rooms); err != nil {
		log.Error("Rooms committed but ledger update failed", zap.Error(err))
		errs = append(errs, err)
	}
	conv.TrimOffersThrough(rooms)
	e.resetToIdle(conv)
	if err := e.save(ctx, log, conv); err != nil {
		errs = append(errs, err)
	}
	log.Info("Booking committed", zap.Strings("dates", dates), zap.Int("rooms", rooms))

	if e.ConfirmationChatID == "" {
		log.Warn("No confirmation chat configured, booking notice not sent")
	} else if err := e.Deliverer.Deliver(ctx, bookingNotice(pending, rooms), e.ConfirmationChatID, false); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (e *Engine) suppress(conv *models.Conversation) bool {
	return e.SuppressRepeatReplies && conv.SentFirstMessage
}

// resetToIdle ends the session, so the next offer is a first message again.
func (e *Engine) resetToIdle(conv *models.Conversation) {
	conv.State = models.StateIdle
	conv.Pending = nil
	conv.SentFirstMessage = false
}

func (e *Engine) save(ctx context.Context, log *zap.Logger, conv *models.Conversation) error {
	if err := e.Sessions.Save(ctx, conv); err != nil {
		log.Error("Failed to save conversation", zap.Error(err))
		return fmt.Errorf("%w: %v", inventory.ErrStorageUnavailable, err)
	}
	return nil
}

func rejectionText(rooms int) string {
	return fmt.Sprintf("No, we cannot accommodate %d rooms.", rooms)
}

func bookingNotice(s *models.NegotiationSession, rooms int) string {
	return fmt.Sprintf("Booking confirmed: %d rooms\nCheck-in: %s\nCheck-out: %s\n\n%s",
		rooms, s.Stay.ArrivalDate, s.Stay.CheckoutDate, s.OriginalMessage)
}
