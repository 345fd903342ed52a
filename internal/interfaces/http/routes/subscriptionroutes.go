package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/pixamint/pixamint/internal/interfaces/http/handlers"
	"github.com/pixamint/pixamint/internal/interfaces/http/middleware"
)

// SubscriptionRouteConfig holds dependencies for subscription routes.
type SubscriptionRouteConfig struct {
	SubscriptionHandler *handlers.SubscriptionHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

// SetupSubscriptionRoutes configures subscription lifecycle routes.
func SetupSubscriptionRoutes(api *gin.RouterGroup, cfg *SubscriptionRouteConfig) {
	subscriptions := api.Group("/subscriptions")
	subscriptions.Use(cfg.AuthMiddleware.RequireAuth())
	{
		subscriptions.POST("", cfg.SubscriptionHandler.Create)
		subscriptions.GET("/current", cfg.SubscriptionHandler.GetCurrent)
		subscriptions.POST("/cancel", cfg.SubscriptionHandler.Cancel)
		subscriptions.POST("/change-plan", cfg.SubscriptionHandler.ChangePlan)
		subscriptions.POST("/reactivate", cfg.SubscriptionHandler.Reactivate)
	}
}
