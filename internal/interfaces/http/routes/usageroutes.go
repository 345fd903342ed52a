package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/pixamint/pixamint/internal/interfaces/http/handlers"
	"github.com/pixamint/pixamint/internal/interfaces/http/middleware"
)

// UsageRouteConfig holds dependencies for usage routes.
type UsageRouteConfig struct {
	UsageHandler   *handlers.UsageHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupUsageRoutes configures the usage and balance route.
func SetupUsageRoutes(api *gin.RouterGroup, cfg *UsageRouteConfig) {
	usage := api.Group("/usage")
	usage.Use(cfg.AuthMiddleware.RequireAuth())
	{
		usage.GET("", cfg.UsageHandler.Get)
	}
}
