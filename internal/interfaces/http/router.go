package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pixamint/pixamint/internal/interfaces/http/middleware"
	"github.com/pixamint/pixamint/internal/interfaces/http/routes"
)

func (c *Container) setupRoutes() {
	c.engine.Use(middleware.Recovery())
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.Logger(c.log))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))

	c.engine.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := c.engine.Group("/api/v1")
	api.Use(c.apiRateLimit)

	routes.SetupGenerationRoutes(api, &routes.GenerationRouteConfig{
		GenerationHandler: c.generationHandler,
		AuthMiddleware:    c.authMiddleware,
		CreateRateLimit:   c.generationRateLimit,
	})

	routes.SetupUsageRoutes(api, &routes.UsageRouteConfig{
		UsageHandler:   c.usageHandler,
		AuthMiddleware: c.authMiddleware,
	})

	routes.SetupPlanRoutes(api, &routes.PlanRouteConfig{
		PlanHandler:    c.planHandler,
		AuthMiddleware: c.authMiddleware,
	})

	routes.SetupSubscriptionRoutes(api, &routes.SubscriptionRouteConfig{
		SubscriptionHandler: c.subscriptionHandler,
		AuthMiddleware:      c.authMiddleware,
	})

	routes.SetupPaymentRoutes(api, &routes.PaymentRouteConfig{
		PaymentHandler: c.paymentHandler,
		WebhookHandler: c.webhookHandler,
		AuthMiddleware: c.authMiddleware,
	})
}
