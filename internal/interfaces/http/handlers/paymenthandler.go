package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pixamint/pixamint/internal/application/billing/usecases"
	"github.com/pixamint/pixamint/internal/shared/logger"
	"github.com/pixamint/pixamint/internal/shared/utils"
)

type PaymentHandler struct {
	listPaymentsUC  *usecases.ListPaymentsUseCase
	requestRefundUC *usecases.RequestRefundUseCase
	logger          logger.Interface
}

func NewPaymentHandler(
	listPaymentsUC *usecases.ListPaymentsUseCase,
	requestRefundUC *usecases.RequestRefundUseCase,
	logger logger.Interface,
) *PaymentHandler {
	return &PaymentHandler{
		listPaymentsUC:  listPaymentsUC,
		requestRefundUC: requestRefundUC,
		logger:          logger,
	}
}

// RequestRefundRequest is the refund request body.
type RequestRefundRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

func (h *PaymentHandler) ListHistory(c *gin.Context) {
	userID := mustUserID(c)
	page := utils.ParsePagination(c)

	result, err := h.listPaymentsUC.Execute(c.Request.Context(), usecases.ListPaymentsCommand{
		UserID:   userID,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Items, result.Total, result.Page, result.PageSize)
}

func (h *PaymentHandler) RequestRefund(c *gin.Context) {
	var req RequestRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for refund", "payment_sid", c.Param("sid"), "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.requestRefundUC.Execute(c.Request.Context(), usecases.RequestRefundCommand{
		PaymentSID: c.Param("sid"),
		UserID:     mustUserID(c),
		Reason:     req.Reason,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Refund processed", result)
}
