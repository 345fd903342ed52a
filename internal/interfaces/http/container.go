package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	billingUC "github.com/pixamint/pixamint/internal/application/billing/usecases"
	generationServices "github.com/pixamint/pixamint/internal/application/generation/services"
	generationUC "github.com/pixamint/pixamint/internal/application/generation/usecases"
	subscriptionUC "github.com/pixamint/pixamint/internal/application/subscription/usecases"
	usageUC "github.com/pixamint/pixamint/internal/application/usage/usecases"
	"github.com/pixamint/pixamint/internal/infrastructure/assetstore"
	"github.com/pixamint/pixamint/internal/infrastructure/auth"
	infraBilling "github.com/pixamint/pixamint/internal/infrastructure/billing"
	"github.com/pixamint/pixamint/internal/infrastructure/cache"
	"github.com/pixamint/pixamint/internal/infrastructure/config"
	"github.com/pixamint/pixamint/internal/infrastructure/email"
	"github.com/pixamint/pixamint/internal/infrastructure/ratelimit"
	"github.com/pixamint/pixamint/internal/infrastructure/repository"
	"github.com/pixamint/pixamint/internal/infrastructure/scheduler"
	"github.com/pixamint/pixamint/internal/infrastructure/synthesis"
	"github.com/pixamint/pixamint/internal/interfaces/http/handlers"
	"github.com/pixamint/pixamint/internal/interfaces/http/middleware"
	"github.com/pixamint/pixamint/internal/shared/db"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

// Container wires repositories, use cases, background services, and HTTP
// handlers together, and owns their lifecycle.
type Container struct {
	engine *gin.Engine
	cfg    *config.Config
	log    logger.Interface

	authMiddleware      *middleware.AuthMiddleware
	apiRateLimit        gin.HandlerFunc
	generationRateLimit gin.HandlerFunc

	generationHandler   *handlers.GenerationHandler
	usageHandler        *handlers.UsageHandler
	planHandler         *handlers.PlanHandler
	subscriptionHandler *handlers.SubscriptionHandler
	paymentHandler      *handlers.PaymentHandler
	webhookHandler      *handlers.WebhookHandler

	workflow              *generationServices.Workflow
	subscriptionScheduler *scheduler.SubscriptionScheduler
	usageResetScheduler   *scheduler.UsageResetScheduler
	generationReaper      *scheduler.GenerationReaperScheduler
}

// NewContainer builds the full dependency graph. A nil redisClient disables
// the plan cache; everything else is required.
func NewContainer(cfg *config.Config, database *gorm.DB, redisClient *redis.Client, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		cfg:    cfg,
		log:    log,
	}

	// Repositories
	userRepo := repository.NewUserRepository(database)
	ledgerRepo := repository.NewLedgerRepository(database)
	planRepo := repository.NewPlanRepository(database)
	subRepo := repository.NewSubscriptionRepository(database)
	paymentRepo := repository.NewPaymentRepository(database)
	genRepo := repository.NewGenerationRepository(database)
	eventRepo := repository.NewWebhookEventRepository(database)

	txManager := db.NewTransactionManager(database)

	// Infrastructure collaborators
	jwtService := auth.NewJWTService(&cfg.Auth.JWT)
	notifier := email.NewSMTPNotifier(&cfg.Email, log)
	gateway := infraBilling.NewGatewayClient(&cfg.Billing, log)
	synthesizer := synthesis.NewClient(&cfg.Synthesis, log)

	assets, err := assetstore.NewS3Store(&cfg.AssetStore, log)
	if err != nil {
		return nil, err
	}

	var planCache subscriptionUC.PlanCache
	if redisClient != nil {
		planCache = cache.NewRedisPlanCache(redisClient, log)
	}

	// Rate limiting shares the Redis connection; without Redis the
	// middleware degrades to a pass-through.
	var limiter ratelimit.Limiter
	if redisClient != nil && cfg.RateLimit.Enabled {
		limiter = ratelimit.NewRedisLimiter(redisClient)
	}
	c.apiRateLimit = middleware.RateLimit(limiter,
		ratelimit.Config{PerMinute: cfg.RateLimit.APIPerMinute},
		middleware.ClientIPKey("api"), log)
	c.generationRateLimit = middleware.RateLimit(limiter,
		ratelimit.Config{
			PerMinute: cfg.RateLimit.GenerationPerMinute,
			PerHour:   cfg.RateLimit.GenerationPerHour,
			PerDay:    cfg.RateLimit.GenerationPerDay,
		},
		middleware.UserKey("generation"), log)

	// Generation workflow and worker pool
	c.workflow = generationServices.NewWorkflow(
		genRepo, ledgerRepo, subRepo, synthesizer, assets, txManager,
		generationServices.WorkflowConfig{
			WorkerCount:       cfg.Usage.WorkerCount,
			QueueSize:         cfg.Usage.WorkerQueueSize,
			ProcessingTimeout: cfg.Usage.ProcessingTimeout,
		},
		log,
	)

	// Usage gate
	checkUsageUC := usageUC.NewCheckUsageUseCase(ledgerRepo, subRepo, planRepo, log)
	getBalanceUC := usageUC.NewGetBalanceUseCase(ledgerRepo, log)

	// Generation use cases
	createGenerationUC := generationUC.NewCreateGenerationUseCase(
		genRepo, ledgerRepo, checkUsageUC, c.workflow, cfg.Usage.DefaultCreditCost, log)
	getGenerationUC := generationUC.NewGetGenerationUseCase(genRepo, log)
	listGenerationsUC := generationUC.NewListGenerationsUseCase(genRepo, log)
	listPublicUC := generationUC.NewListPublicGenerationsUseCase(genRepo, log)
	retryGenerationUC := generationUC.NewRetryGenerationUseCase(genRepo, ledgerRepo, c.workflow, log)
	deleteGenerationUC := generationUC.NewDeleteGenerationUseCase(genRepo, assets, log)
	setVisibilityUC := generationUC.NewSetVisibilityUseCase(genRepo, log)
	likeGenerationUC := generationUC.NewLikeGenerationUseCase(genRepo, log)
	reclaimStuckUC := generationUC.NewReclaimStuckGenerationsUseCase(genRepo, ledgerRepo, txManager, log)
	purgeFailedUC := generationUC.NewPurgeFailedGenerationsUseCase(genRepo, assets, log)

	// Plan catalog use cases
	listPlansUC := subscriptionUC.NewListPlansUseCase(planRepo, planCache, log)
	getPlanUC := subscriptionUC.NewGetPlanUseCase(planRepo, log)
	createPlanUC := subscriptionUC.NewCreatePlanUseCase(planRepo, planCache, log)
	updatePlanUC := subscriptionUC.NewUpdatePlanUseCase(planRepo, planCache, log)
	deactivatePlanUC := subscriptionUC.NewDeactivatePlanUseCase(planRepo, planCache, log)

	// Subscription lifecycle use cases
	createSubscriptionUC := subscriptionUC.NewCreateSubscriptionUseCase(
		subRepo, planRepo, userRepo, paymentRepo, gateway, cfg.Billing.ReturnURL, log)
	getSubscriptionUC := subscriptionUC.NewGetSubscriptionUseCase(subRepo, log)
	cancelSubscriptionUC := subscriptionUC.NewCancelSubscriptionUseCase(
		subRepo, ledgerRepo, planRepo, userRepo, gateway, txManager, notifier,
		cfg.Usage.FreeTierCredits, log)
	changePlanUC := subscriptionUC.NewChangePlanUseCase(
		subRepo, planRepo, ledgerRepo, userRepo, paymentRepo, gateway, txManager, log)
	reactivateUC := subscriptionUC.NewReactivateSubscriptionUseCase(
		subRepo, planRepo, ledgerRepo, txManager, log)
	activateUC := subscriptionUC.NewActivateSubscriptionUseCase(
		subRepo, planRepo, ledgerRepo, userRepo, txManager, notifier, log)
	renewUC := subscriptionUC.NewRenewSubscriptionUseCase(subRepo, planRepo, ledgerRepo, txManager, log)
	markPastDueUC := subscriptionUC.NewMarkPastDueUseCase(subRepo, planRepo, userRepo, notifier, log)
	expireSubscriptionsUC := subscriptionUC.NewExpireSubscriptionsUseCase(
		subRepo, ledgerRepo, txManager, cfg.Usage.FreeTierCredits, log)
	resetUsageUC := subscriptionUC.NewResetUsageUseCase(subRepo, log)
	warnExpiringUC := subscriptionUC.NewWarnExpiringUseCase(subRepo, planRepo, userRepo, notifier, log)

	// Billing reconciler
	handleWebhookUC := billingUC.NewHandleWebhookUseCase(
		eventRepo, paymentRepo, subRepo, ledgerRepo,
		activateUC, renewUC, markPastDueUC,
		txManager, cfg.Usage.FreeTierCredits, log)
	listPaymentsUC := billingUC.NewListPaymentsUseCase(paymentRepo, log)
	requestRefundUC := billingUC.NewRequestRefundUseCase(paymentRepo, gateway, log)

	// Schedulers
	c.subscriptionScheduler = scheduler.NewSubscriptionScheduler(
		expireSubscriptionsUC, warnExpiringUC, &cfg.Scheduler, &cfg.Usage, log)
	c.usageResetScheduler = scheduler.NewUsageResetScheduler(resetUsageUC, &cfg.Scheduler, log)
	c.generationReaper = scheduler.NewGenerationReaperScheduler(
		reclaimStuckUC, purgeFailedUC, &cfg.Scheduler, &cfg.Usage, log)

	// Middleware and handlers
	c.authMiddleware = middleware.NewAuthMiddleware(jwtService, log)
	c.generationHandler = handlers.NewGenerationHandler(
		createGenerationUC, getGenerationUC, listGenerationsUC, listPublicUC,
		retryGenerationUC, deleteGenerationUC, setVisibilityUC, likeGenerationUC, log)
	c.usageHandler = handlers.NewUsageHandler(getBalanceUC, checkUsageUC, log)
	c.planHandler = handlers.NewPlanHandler(
		listPlansUC, getPlanUC, createPlanUC, updatePlanUC, deactivatePlanUC, log)
	c.subscriptionHandler = handlers.NewSubscriptionHandler(
		createSubscriptionUC, getSubscriptionUC, cancelSubscriptionUC, changePlanUC, reactivateUC, log)
	c.paymentHandler = handlers.NewPaymentHandler(listPaymentsUC, requestRefundUC, log)
	c.webhookHandler = handlers.NewWebhookHandler(handleWebhookUC, cfg.Billing.WebhookSecret, log)

	c.setupRoutes()
	return c, nil
}

// Start launches the generation worker pool and the background schedulers.
func (c *Container) Start(ctx context.Context) {
	c.workflow.Start()
	c.subscriptionScheduler.Start(ctx)
	c.usageResetScheduler.Start(ctx)
	c.generationReaper.Start(ctx)
}

// Shutdown stops background work in reverse dependency order. Schedulers
// stop first so no new sweeps enqueue work while the pool drains.
func (c *Container) Shutdown() {
	c.generationReaper.Stop()
	c.usageResetScheduler.Stop()
	c.subscriptionScheduler.Stop()
	c.workflow.Stop()
}

// GetEngine returns the configured gin engine.
func (c *Container) GetEngine() *gin.Engine {
	return c.engine
}
