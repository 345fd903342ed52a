package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pixamint/pixamint/internal/application/billing/usecases"
	infrabilling "github.com/pixamint/pixamint/internal/infrastructure/billing"
	"github.com/pixamint/pixamint/internal/shared/constants"
	"github.com/pixamint/pixamint/internal/shared/logger"
	"github.com/pixamint/pixamint/internal/shared/utils"
)

const maxWebhookBody = 1 << 20

// WebhookHandler is the unauthenticated billing callback endpoint. The
// signature over the raw body is the only authentication; dispatch happens
// only after it verifies.
type WebhookHandler struct {
	handleWebhookUC *usecases.HandleWebhookUseCase
	webhookSecret   string
	logger          logger.Interface
}

func NewWebhookHandler(
	handleWebhookUC *usecases.HandleWebhookUseCase,
	webhookSecret string,
	logger logger.Interface,
) *WebhookHandler {
	return &WebhookHandler{
		handleWebhookUC: handleWebhookUC,
		webhookSecret:   webhookSecret,
		logger:          logger,
	}
}

type webhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		PaymentRef      string `json:"payment_ref"`
		SubscriptionRef string `json:"subscription_ref"`
		FailureReason   string `json:"failure_reason"`
	} `json:"data"`
}

// HandleBillingEvent verifies, parses, and dispatches one provider event.
// Anything already processed returns 200 so the provider stops redelivering.
func (h *WebhookHandler) HandleBillingEvent(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.logger.Warnw("failed to read webhook body", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "unreadable request body")
		return
	}

	signature := c.GetHeader(constants.HeaderSignature)
	if !infrabilling.VerifySignature(h.webhookSecret, body, signature) {
		h.logger.Warnw("rejected webhook with bad signature", "client_ip", c.ClientIP())
		utils.ErrorResponse(c, http.StatusUnauthorized, "invalid signature")
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.Warnw("failed to parse webhook payload", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "malformed payload")
		return
	}
	if event.ID == "" || event.Type == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "missing event id or type")
		return
	}

	err = h.handleWebhookUC.Execute(c.Request.Context(), usecases.HandleWebhookCommand{
		EventID:         event.ID,
		EventType:       event.Type,
		PaymentRef:      event.Data.PaymentRef,
		SubscriptionRef: event.Data.SubscriptionRef,
		FailureReason:   event.Data.FailureReason,
	})
	if err != nil {
		// A 5xx makes the provider redeliver; processing is idempotent.
		h.logger.Errorw("failed to process webhook event", "event_id", event.ID, "type", event.Type, "error", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "event processing failed")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"received": true})
}
