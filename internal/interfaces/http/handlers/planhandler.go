package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pixamint/pixamint/internal/application/subscription/usecases"
	"github.com/pixamint/pixamint/internal/shared/logger"
	"github.com/pixamint/pixamint/internal/shared/utils"
)

type PlanHandler struct {
	listPlansUC      *usecases.ListPlansUseCase
	getPlanUC        *usecases.GetPlanUseCase
	createPlanUC     *usecases.CreatePlanUseCase
	updatePlanUC     *usecases.UpdatePlanUseCase
	deactivatePlanUC *usecases.DeactivatePlanUseCase
	logger           logger.Interface
}

func NewPlanHandler(
	listPlansUC *usecases.ListPlansUseCase,
	getPlanUC *usecases.GetPlanUseCase,
	createPlanUC *usecases.CreatePlanUseCase,
	updatePlanUC *usecases.UpdatePlanUseCase,
	deactivatePlanUC *usecases.DeactivatePlanUseCase,
	logger logger.Interface,
) *PlanHandler {
	return &PlanHandler{
		listPlansUC:      listPlansUC,
		getPlanUC:        getPlanUC,
		createPlanUC:     createPlanUC,
		updatePlanUC:     updatePlanUC,
		deactivatePlanUC: deactivatePlanUC,
		logger:           logger,
	}
}

type CreatePlanRequest struct {
	Name            string   `json:"name" binding:"required"`
	DisplayName     string   `json:"display_name" binding:"required"`
	Description     string   `json:"description"`
	PriceCents      int64    `json:"price_cents" binding:"min=0"`
	Currency        string   `json:"currency" binding:"required,len=3"`
	BillingCycle    string   `json:"billing_cycle" binding:"required,oneof=monthly yearly"`
	CreditAllotment int      `json:"credit_allotment" binding:"min=0"`
	ImageLimit      int      `json:"image_limit" binding:"min=0"`
	Features        []string `json:"features"`
	Priority        int      `json:"priority"`
	ProviderPriceID string   `json:"provider_price_id"`
}

type UpdatePlanRequest struct {
	DisplayName string   `json:"display_name" binding:"required"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Priority    int      `json:"priority"`
}

func (h *PlanHandler) ListPlans(c *gin.Context) {
	result, err := h.listPlansUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	result, err := h.getPlanUC.Execute(c.Request.Context(), usecases.GetPlanCommand{
		SID: c.Param("sid"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create plan", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.createPlanUC.Execute(c.Request.Context(), usecases.CreatePlanCommand{
		Name:            req.Name,
		DisplayName:     req.DisplayName,
		Description:     req.Description,
		PriceCents:      req.PriceCents,
		Currency:        req.Currency,
		BillingCycle:    req.BillingCycle,
		CreditAllotment: req.CreditAllotment,
		ImageLimit:      req.ImageLimit,
		Features:        req.Features,
		Priority:        req.Priority,
		ProviderPriceID: req.ProviderPriceID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Plan created successfully")
}

func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update plan", "plan_sid", c.Param("sid"), "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.updatePlanUC.Execute(c.Request.Context(), usecases.UpdatePlanCommand{
		SID:         c.Param("sid"),
		DisplayName: req.DisplayName,
		Description: req.Description,
		Features:    req.Features,
		Priority:    req.Priority,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Plan updated successfully", result)
}

func (h *PlanHandler) DeactivatePlan(c *gin.Context) {
	err := h.deactivatePlanUC.Execute(c.Request.Context(), usecases.DeactivatePlanCommand{
		SID: c.Param("sid"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Plan deactivated successfully", nil)
}
