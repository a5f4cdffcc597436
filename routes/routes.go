package routes

import (
	"time"

	"roomdesk/config"
	"roomdesk/handlers"
	"roomdesk/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterWebhookRoutes registers the WhatsApp gateway webhook.
func RegisterWebhookRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	webhooks := r.Group("/webhooks")
	{
		webhooks.POST("/whatsapp_group/messages", hb.WhatsAppGroupMessagesHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterAdminRoutes sets up endpoints for operator tooling. Only this group
// is rate limited; the webhook carries every gateway message from one IP.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle, adminTokenHash string, perMinute int) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.RateLimitMiddleware(perMinute))
		adminGroup.Use(middleware.AdminTokenMiddleware(adminTokenHash))
		adminGroup.GET("/inventory", hb.GetInventoryHandler)
		adminGroup.PUT("/inventory/:date", hb.SetAvailabilityHandler)
		adminGroup.GET("/ledger", hb.GetLedgerHandler)
		adminGroup.GET("/report", hb.GetReportHandler)
		adminGroup.GET("/trust", hb.GetTrustHandler)
		adminGroup.PUT("/trust", hb.UpdateTrustHandler)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 1 && origins[0] == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(corsConfig(config.AllowedOrigins())))

	RegisterHealthRoute(r, hb)
	RegisterWebhookRoutes(r, hb)
	RegisterAdminRoutes(r, hb, config.AppConfig.AdminTokenHash, config.AppConfig.MaxRequestsPerMin)
}
