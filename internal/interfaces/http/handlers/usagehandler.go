package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pixamint/pixamint/internal/application/usage/usecases"
	"github.com/pixamint/pixamint/internal/shared/logger"
	"github.com/pixamint/pixamint/internal/shared/utils"
)

type UsageHandler struct {
	getBalanceUC *usecases.GetBalanceUseCase
	checkUsageUC *usecases.CheckUsageUseCase
	logger       logger.Interface
}

func NewUsageHandler(
	getBalanceUC *usecases.GetBalanceUseCase,
	checkUsageUC *usecases.CheckUsageUseCase,
	logger logger.Interface,
) *UsageHandler {
	return &UsageHandler{
		getBalanceUC: getBalanceUC,
		checkUsageUC: checkUsageUC,
		logger:       logger,
	}
}

type UsageResponse struct {
	CreditsRemaining int    `json:"credits_remaining"`
	ImagesGenerated  int    `json:"images_generated"`
	CurrentPlanID    *uint  `json:"current_plan_id,omitempty"`
	CanGenerate      bool   `json:"can_generate"`
	Reason           string `json:"reason,omitempty"`
}

// Get returns the caller's ledger balance together with the admission
// decision a generation attempt would receive right now.
func (h *UsageHandler) Get(c *gin.Context) {
	userID := mustUserID(c)
	ctx := c.Request.Context()

	balance, err := h.getBalanceUC.Execute(ctx, usecases.GetBalanceCommand{UserID: userID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	auth, err := h.checkUsageUC.Execute(ctx, usecases.CheckUsageCommand{UserID: userID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", UsageResponse{
		CreditsRemaining: balance.CreditsRemaining,
		ImagesGenerated:  balance.ImagesGenerated,
		CurrentPlanID:    balance.CurrentPlanID,
		CanGenerate:      auth.Allowed,
		Reason:           auth.Reason,
	})
}
