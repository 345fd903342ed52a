package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pixamint/pixamint/internal/application/generation/usecases"
	"github.com/pixamint/pixamint/internal/shared/logger"
	"github.com/pixamint/pixamint/internal/shared/utils"
)

type GenerationHandler struct {
	createUC     *usecases.CreateGenerationUseCase
	getUC        *usecases.GetGenerationUseCase
	listUC       *usecases.ListGenerationsUseCase
	listPublicUC *usecases.ListPublicGenerationsUseCase
	retryUC      *usecases.RetryGenerationUseCase
	deleteUC     *usecases.DeleteGenerationUseCase
	visibilityUC *usecases.SetVisibilityUseCase
	likeUC       *usecases.LikeGenerationUseCase
	logger       logger.Interface
}

func NewGenerationHandler(
	createUC *usecases.CreateGenerationUseCase,
	getUC *usecases.GetGenerationUseCase,
	listUC *usecases.ListGenerationsUseCase,
	listPublicUC *usecases.ListPublicGenerationsUseCase,
	retryUC *usecases.RetryGenerationUseCase,
	deleteUC *usecases.DeleteGenerationUseCase,
	visibilityUC *usecases.SetVisibilityUseCase,
	likeUC *usecases.LikeGenerationUseCase,
	logger logger.Interface,
) *GenerationHandler {
	return &GenerationHandler{
		createUC:     createUC,
		getUC:        getUC,
		listUC:       listUC,
		listPublicUC: listPublicUC,
		retryUC:      retryUC,
		deleteUC:     deleteUC,
		visibilityUC: visibilityUC,
		likeUC:       likeUC,
		logger:       logger,
	}
}

type CreateGenerationRequest struct {
	Prompt string `json:"prompt" binding:"required,min=1,max=2000"`
	Model  string `json:"model"`
	Size   string `json:"size"`
}

type SetVisibilityRequest struct {
	Public *bool `json:"public" binding:"required"`
}

// Create admits a generation request and returns the pending record. The
// image itself arrives asynchronously; clients poll Get until terminal.
func (h *GenerationHandler) Create(c *gin.Context) {
	userID := mustUserID(c)

	var req CreateGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create generation", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.createUC.Execute(c.Request.Context(), usecases.CreateGenerationCommand{
		UserID: userID,
		Prompt: req.Prompt,
		Model:  req.Model,
		Size:   req.Size,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusAccepted, "Generation queued", result)
}

func (h *GenerationHandler) Get(c *gin.Context) {
	userID := mustUserID(c)

	result, err := h.getUC.Execute(c.Request.Context(), usecases.GetGenerationCommand{
		UserID: userID,
		SID:    c.Param("sid"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *GenerationHandler) ListHistory(c *gin.Context) {
	userID := mustUserID(c)
	page := utils.ParsePagination(c)

	result, err := h.listUC.Execute(c.Request.Context(), usecases.ListGenerationsCommand{
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

func (h *GenerationHandler) ListPublic(c *gin.Context) {
	page := utils.ParsePagination(c)

	result, err := h.listPublicUC.Execute(c.Request.Context(), usecases.ListPublicGenerationsCommand{
		Page:     page.Page,
		PageSize: page.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Items, result.Total, result.Page, result.PageSize)
}

func (h *GenerationHandler) Retry(c *gin.Context) {
	userID := mustUserID(c)

	result, err := h.retryUC.Execute(c.Request.Context(), usecases.RetryGenerationCommand{
		UserID: userID,
		SID:    c.Param("sid"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusAccepted, "Generation retry queued", result)
}

func (h *GenerationHandler) Delete(c *gin.Context) {
	userID := mustUserID(c)

	err := h.deleteUC.Execute(c.Request.Context(), usecases.DeleteGenerationCommand{
		UserID: userID,
		SID:    c.Param("sid"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

func (h *GenerationHandler) SetVisibility(c *gin.Context) {
	userID := mustUserID(c)

	var req SetVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for set visibility", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	err := h.visibilityUC.Execute(c.Request.Context(), usecases.SetVisibilityCommand{
		UserID: userID,
		SID:    c.Param("sid"),
		Public: *req.Public,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Visibility updated", nil)
}

func (h *GenerationHandler) Like(c *gin.Context) {
	err := h.likeUC.Execute(c.Request.Context(), usecases.LikeGenerationCommand{
		SID: c.Param("sid"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", nil)
}
