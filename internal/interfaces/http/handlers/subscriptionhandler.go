package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pixamint/pixamint/internal/application/subscription/usecases"
	"github.com/pixamint/pixamint/internal/shared/logger"
	"github.com/pixamint/pixamint/internal/shared/utils"
)

type SubscriptionHandler struct {
	createUC     *usecases.CreateSubscriptionUseCase
	getUC        *usecases.GetSubscriptionUseCase
	cancelUC     *usecases.CancelSubscriptionUseCase
	changePlanUC *usecases.ChangePlanUseCase
	reactivateUC *usecases.ReactivateSubscriptionUseCase
	logger       logger.Interface
}

func NewSubscriptionHandler(
	createUC *usecases.CreateSubscriptionUseCase,
	getUC *usecases.GetSubscriptionUseCase,
	cancelUC *usecases.CancelSubscriptionUseCase,
	changePlanUC *usecases.ChangePlanUseCase,
	reactivateUC *usecases.ReactivateSubscriptionUseCase,
	logger logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		createUC:     createUC,
		getUC:        getUC,
		cancelUC:     cancelUC,
		changePlanUC: changePlanUC,
		reactivateUC: reactivateUC,
		logger:       logger,
	}
}

type CreateSubscriptionRequest struct {
	PlanSID string `json:"plan_sid" binding:"required"`
}

type CancelSubscriptionRequest struct {
	SID       string `json:"sid" binding:"required"`
	Reason    string `json:"reason"`
	Immediate bool   `json:"immediate"`
}

type ChangePlanRequest struct {
	SID        string `json:"sid" binding:"required"`
	NewPlanSID string `json:"new_plan_sid" binding:"required"`
	Immediate  bool   `json:"immediate"`
}

type ReactivateSubscriptionRequest struct {
	SID string `json:"sid" binding:"required"`
}

// Create opens a pending subscription and returns the provider checkout
// URL. The subscription activates once the webhook confirms payment.
func (h *SubscriptionHandler) Create(c *gin.Context) {
	userID := mustUserID(c)

	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create subscription", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.createUC.Execute(c.Request.Context(), usecases.CreateSubscriptionCommand{
		UserID:  userID,
		PlanSID: req.PlanSID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Subscription created, awaiting payment")
}

func (h *SubscriptionHandler) GetCurrent(c *gin.Context) {
	userID := mustUserID(c)

	result, err := h.getUC.Execute(c.Request.Context(), usecases.GetSubscriptionCommand{
		UserID: userID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	userID := mustUserID(c)

	var req CancelSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for cancel subscription", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	err := h.cancelUC.Execute(c.Request.Context(), usecases.CancelSubscriptionCommand{
		UserID:    userID,
		SID:       req.SID,
		Reason:    req.Reason,
		Immediate: req.Immediate,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription cancelled", nil)
}

func (h *SubscriptionHandler) ChangePlan(c *gin.Context) {
	userID := mustUserID(c)

	var req ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for change plan", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.changePlanUC.Execute(c.Request.Context(), usecases.ChangePlanCommand{
		UserID:     userID,
		SID:        req.SID,
		NewPlanSID: req.NewPlanSID,
		Immediate:  req.Immediate,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	message := "Plan changed"
	if result.Scheduled {
		message = "Plan change scheduled for next renewal"
	}
	utils.SuccessResponse(c, http.StatusOK, message, result)
}

func (h *SubscriptionHandler) Reactivate(c *gin.Context) {
	userID := mustUserID(c)

	var req ReactivateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for reactivate subscription", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.reactivateUC.Execute(c.Request.Context(), usecases.ReactivateSubscriptionCommand{
		UserID: userID,
		SID:    req.SID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription reactivated", result)
}
