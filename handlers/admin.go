// File: handlers/admin.go
package handlers

import (
	"net/http"
	"time"

	"roomdesk/models"
	"roomdesk/services/admin"
	"roomdesk/services/inventory"
	"roomdesk/services/ledger"
	"roomdesk/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TrustAdmin is what the HTTP admin API needs from the trust settings.
type TrustAdmin interface {
	admin.TrustSettings
	Snapshot() models.Metadata
}

// AdminHandler exposes the inventory, ledger and trust settings over HTTP.
type AdminHandler struct {
	Inventory  inventory.InventoryService
	Ledger     ledger.LedgerService
	Trust      TrustAdmin
	Dispatcher admin.AdminDispatcher
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(inv inventory.InventoryService, ledgerSvc ledger.LedgerService, trust TrustAdmin, dispatcher admin.AdminDispatcher) *AdminHandler {
	return &AdminHandler{
		Inventory:  inv,
		Ledger:     ledgerSvc,
		Trust:      trust,
		Dispatcher: dispatcher,
	}
}

type setAvailabilityRequest struct {
	Availability *int `json:"availability" binding:"required"`
}

type updateTrustRequest struct {
	Enabled           *bool   `json:"enabled"`
	TrustedOriginator *string `json:"trustedOriginator"`
}

// GetInventoryHandler returns the whole inventory document.
func (ah *AdminHandler) GetInventoryHandler(c *gin.Context) {
	inv, err := ah.Inventory.Load(c.Request.Context())
	if err != nil {
		utils.ContextLogger(c).Error("Failed to load inventory", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load inventory"})
		return
	}
	c.JSON(http.StatusOK, inv)
}

// SetAvailabilityHandler overrides one date. Negative values are accepted.
func (ah *AdminHandler) SetAvailabilityHandler(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse(utils.DateLayout, date); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid date", "expected YYYY-MM-DD")
		return
	}
	var req setAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}
	if err := ah.Inventory.SetAvailability(c.Request.Context(), date, *req.Availability); err != nil {
		utils.ContextLogger(c).Error("Failed to override availability", zap.String("date", date), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update inventory"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "availability": *req.Availability})
}

// GetLedgerHandler returns the audit counters.
func (ah *AdminHandler) GetLedgerHandler(c *gin.Context) {
	l, err := ah.Ledger.All(c.Request.Context())
	if err != nil {
		utils.ContextLogger(c).Error("Failed to load ledger", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load ledger"})
		return
	}
	c.JSON(http.StatusOK, l)
}

// GetReportHandler returns the ledger joined with the inventory.
func (ah *AdminHandler) GetReportHandler(c *gin.Context) {
	rows, err := ah.Dispatcher.ReportRows(c.Request.Context())
	if err != nil {
		utils.ContextLogger(c).Error("Failed to build report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

// GetTrustHandler returns the enable flag and trusted number.
func (ah *AdminHandler) GetTrustHandler(c *gin.Context) {
	c.JSON(http.StatusOK, ah.Trust.Snapshot())
}

// UpdateTrustHandler changes the enable flag and/or the trusted number.
func (ah *AdminHandler) UpdateTrustHandler(c *gin.Context) {
	var req updateTrustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}
	if req.Enabled == nil && req.TrustedOriginator == nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", "nothing to update")
		return
	}
	ctx := c.Request.Context()
	if req.TrustedOriginator != nil {
		if err := ah.Trust.SetTrustedOriginator(ctx, *req.TrustedOriginator); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid trusted originator", err.Error())
			return
		}
	}
	if req.Enabled != nil {
		if err := ah.Trust.SetEnabled(ctx, *req.Enabled); err != nil {
			utils.ContextLogger(c).Error("Failed to update enable flag", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
			return
		}
	}
	c.JSON(http.StatusOK, ah.Trust.Snapshot())
}
