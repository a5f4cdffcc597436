// File: handlers/bundle.go
package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Gateway webhook
	WhatsAppGroupMessagesHandler gin.HandlerFunc

	// Admin API
	GetInventoryHandler    gin.HandlerFunc
	SetAvailabilityHandler gin.HandlerFunc
	GetLedgerHandler       gin.HandlerFunc
	GetReportHandler       gin.HandlerFunc
	GetTrustHandler        gin.HandlerFunc
	UpdateTrustHandler     gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}

// NewHandlerBundle wires the webhook and admin handlers into a bundle.
func NewHandlerBundle(webhook *WebhookHandler, adminHandler *AdminHandler) *HandlerBundle {
	return &HandlerBundle{
		WhatsAppGroupMessagesHandler: webhook.WhatsAppGroupMessagesHandler,
		GetInventoryHandler:          adminHandler.GetInventoryHandler,
		SetAvailabilityHandler:       adminHandler.SetAvailabilityHandler,
		GetLedgerHandler:             adminHandler.GetLedgerHandler,
		GetReportHandler:             adminHandler.GetReportHandler,
		GetTrustHandler:              adminHandler.GetTrustHandler,
		UpdateTrustHandler:           adminHandler.UpdateTrustHandler,
		HealthHandler:                HealthHandler,
	}
}
