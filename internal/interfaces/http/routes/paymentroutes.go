package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/pixamint/pixamint/internal/interfaces/http/handlers"
	"github.com/pixamint/pixamint/internal/interfaces/http/middleware"
)

// PaymentRouteConfig holds dependencies for payment routes.
type PaymentRouteConfig struct {
	PaymentHandler *handlers.PaymentHandler
	WebhookHandler *handlers.WebhookHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupPaymentRoutes configures payment history and webhook routes.
func SetupPaymentRoutes(api *gin.RouterGroup, cfg *PaymentRouteConfig) {
	payments := api.Group("/payments")
	payments.Use(cfg.AuthMiddleware.RequireAuth())
	{
		payments.GET("", cfg.PaymentHandler.ListHistory)
		payments.POST("/:sid/refund", cfg.PaymentHandler.RequestRefund)
	}

	// Provider callbacks authenticate by signature, not bearer token
	api.POST("/webhooks/billing", cfg.WebhookHandler.HandleBillingEvent)
}
