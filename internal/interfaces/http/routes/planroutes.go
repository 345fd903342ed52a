package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/pixamint/pixamint/internal/interfaces/http/handlers"
	"github.com/pixamint/pixamint/internal/interfaces/http/middleware"
)

// PlanRouteConfig holds dependencies for plan routes.
type PlanRouteConfig struct {
	PlanHandler    *handlers.PlanHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupPlanRoutes configures plan catalog routes.
func SetupPlanRoutes(api *gin.RouterGroup, cfg *PlanRouteConfig) {
	plans := api.Group("/plans")
	{
		// Catalog is public; pricing pages render without a session
		plans.GET("", cfg.PlanHandler.ListPlans)
		plans.GET("/:sid", cfg.PlanHandler.GetPlan)

		admin := plans.Group("")
		admin.Use(cfg.AuthMiddleware.RequireAuth())
		admin.Use(cfg.AuthMiddleware.RequireAdmin())
		{
			admin.POST("", cfg.PlanHandler.CreatePlan)
			admin.PUT("/:sid", cfg.PlanHandler.UpdatePlan)
			admin.DELETE("/:sid", cfg.PlanHandler.DeactivatePlan)
		}
	}
}
