// File: handlers/webhook.go
package handlers

import (
	"context"
	"net/http"
	"strings"

	"roomdesk/models"
	"roomdesk/services/admin"
	"roomdesk/services/dedupe"
	"roomdesk/services/notification"
	"roomdesk/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MessageHandler runs one negotiation-channel message.
type MessageHandler interface {
	Handle(ctx context.Context, msg models.InboundMessage) error
}

// WebhookHandler routes gateway messages to the negotiation engine or the
// admin dispatcher by chat id.
type WebhookHandler struct {
	Negotiation       MessageHandler
	Admin             admin.AdminDispatcher
	Deliverer         notification.Deliverer
	Dedupe            dedupe.Tracker
	NegotiationChatID string
	AdminChatID       string
	Logger            *zap.Logger
}

func NewWebhookHandler(
	negotiation MessageHandler,
	adminDispatcher admin.AdminDispatcher,
	deliverer notification.Deliverer,
	tracker dedupe.Tracker,
	negotiationChatID, adminChatID string,
	logger *zap.Logger,
) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{
		Negotiation:       negotiation,
		Admin:             adminDispatcher,
		Deliverer:         deliverer,
		Dedupe:            tracker,
		NegotiationChatID: negotiationChatID,
		AdminChatID:       adminChatID,
		Logger:            logger,
	}
}

// WhatsAppGroupMessagesHandler handles POST /webhooks/whatsapp_group/messages.
// Once the payload parses the gateway always gets 200; failures are logged.
func (h *WebhookHandler) WhatsAppGroupMessagesHandler(c *gin.Context) {
	var payload models.WhapiWebhook
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid webhook payload", err.Error())
		return
	}

	// Finish the cycle even if the gateway hangs up.
	ctx := context.WithoutCancel(c.Request.Context())
	processed := 0
	for _, m := range payload.Messages {
		if h.process(ctx, m) {
			processed++
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "processed": processed})
}

func (h *WebhookHandler) process(ctx context.Context, m models.WhapiMessage) bool {
	log := h.Logger.With(
		zap.String("message", m.ID),
		zap.String("chat", m.ChatID),
		zap.String("from", m.From),
		zap.String("fromName", m.FromName),
	)
	if m.FromMe {
		log.Debug("Skipping own message")
		return false
	}
	if len(m.Context) > 0 {
		log.Debug("Skipping quoted reply")
		return false
	}
	if m.Text == nil || strings.TrimSpace(m.Text.Body) == "" {
		log.Debug("Skipping non-text message", zap.String("type", m.Type))
		return false
	}
	if m.ChatID != h.NegotiationChatID && m.ChatID != h.AdminChatID {
		log.Debug("Skipping message from unrouted chat")
		return false
	}
	if h.Dedupe != nil && m.ID != "" {
		first, err := h.Dedupe.FirstSeen(ctx, m.ID)
		if err != nil {
			log.Warn("Dedupe check failed, processing anyway", zap.Error(err))
		} else if !first {
			log.Info("Skipping duplicate delivery")
			return false
		}
	}

	msg := models.InboundMessage{
		ID:             m.ID,
		ConversationID: m.ChatID,
		Sender:         m.From,
		SenderName:     m.FromName,
		Text:           m.Text.Body,
	}
	log.Info("Inbound message", zap.String("text", msg.Text))

	switch m.ChatID {
	case h.NegotiationChatID:
		if err := h.Negotiation.Handle(ctx, msg); err != nil {
			log.Error("Negotiation failed", zap.Error(err))
		}
	case h.AdminChatID:
		reply, err := h.Admin.Handle(ctx, msg)
		if err != nil {
			log.Error("Admin command failed", zap.Error(err))
		}
		if reply == "" {
			return true
		}
		if err := h.Deliverer.Deliver(ctx, reply, h.AdminChatID, false); err != nil {
			log.Error("Failed to deliver admin reply", zap.Error(err))
		}
	}
	return true
}
