package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/pixamint/pixamint/internal/interfaces/http/handlers"
	"github.com/pixamint/pixamint/internal/interfaces/http/middleware"
)

// GenerationRouteConfig holds dependencies for generation routes.
type GenerationRouteConfig struct {
	GenerationHandler *handlers.GenerationHandler
	AuthMiddleware    *middleware.AuthMiddleware
	// CreateRateLimit throttles generation submissions per account.
	CreateRateLimit gin.HandlerFunc
}

// SetupGenerationRoutes configures generation routes.
func SetupGenerationRoutes(api *gin.RouterGroup, cfg *GenerationRouteConfig) {
	generations := api.Group("/generations")
	{
		// Public gallery needs no authentication
		generations.GET("/public", cfg.GenerationHandler.ListPublic)

		protected := generations.Group("")
		protected.Use(cfg.AuthMiddleware.RequireAuth())
		{
			protected.POST("", cfg.CreateRateLimit, cfg.GenerationHandler.Create)
			protected.GET("/history", cfg.GenerationHandler.ListHistory)
			protected.GET("/:sid", cfg.GenerationHandler.Get)
			protected.POST("/:sid/retry", cfg.CreateRateLimit, cfg.GenerationHandler.Retry)
			protected.PATCH("/:sid/visibility", cfg.GenerationHandler.SetVisibility)
			protected.POST("/:sid/like", cfg.GenerationHandler.Like)
			protected.DELETE("/:sid", cfg.GenerationHandler.Delete)
		}
	}
}
