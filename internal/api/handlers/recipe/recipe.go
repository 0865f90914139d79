package recipe

import (
	"context"
	"errors"
	"net/http"

	recipeService "pantry-chef/internal/core/recipe"
	"pantry-chef/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GenerateRecipeRequest 食譜生成請求
type GenerateRecipeRequest = common.RecipePreferences

// GenerateRecipeResponse 成功回應
type GenerateRecipeResponse struct {
	Recipe *common.Recipe `json:"recipe"`
}

// Handler 食譜處理程序
type Handler struct {
	recipeService recipeService.Generator
}

// NewHandler 創建新的食譜處理程序
func NewHandler(svc recipeService.Generator) *Handler {
	return &Handler{recipeService: svc}
}

// HandleGenerateRecipe 根據食材與偏好生成一份食譜
func (h *Handler) HandleGenerateRecipe(c *gin.Context) {
	requestID := requestid.Get(c)

	var req GenerateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, common.ErrTooLarge)
			return
		}
		common.LogWarn("Invalid request format",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		writeError(c, common.ErrInvalidRequest)
		return
	}

	prefs := recipeService.NormalizePreferences(req)
	recipe, err := h.recipeService.Generate(c.Request.Context(), prefs)
	if err != nil {
		// 路由層期限已到時回傳 504
		if errors.Is(c.Request.Context().Err(), context.DeadlineExceeded) {
			writeError(c, common.ErrGatewayTimeout)
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, GenerateRecipeResponse{Recipe: recipe})
}

// HandlePreflight CORS 預檢：204、無內容
func (h *Handler) HandlePreflight(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// writeError 以 {"error": message} 回應
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(common.StatusOf(err), common.ErrorResponse{Error: common.MessageOf(err)})
}
