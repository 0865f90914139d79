package recipe

import (
	"context"
	"errors"
	"time"

	"pantry-chef/internal/core/ai/service"
	"pantry-chef/internal/pkg/common"
	"pantry-chef/internal/pkg/metrics"

	"go.uber.org/zap"
)

// Service 食譜生成服務
type Service struct {
	aiService *service.Service
	observe   func(Stage)
}

var _ Generator = (*Service)(nil)

// NewService 創建新的食譜服務
func NewService(aiService *service.Service) *Service {
	return &Service{aiService: aiService}
}

// OnStage 註冊階段變化的回呼（除錯與測試用）
func (s *Service) OnStage(fn func(Stage)) {
	s.observe = fn
}

// Generate 驗證偏好、呼叫 AI、解析結果；驗證失敗時不會發出外部請求
func (s *Service) Generate(ctx context.Context, prefs common.RecipePreferences) (*common.Recipe, error) {
	requestID := common.RequestIDFromContext(ctx)
	start := time.Now()
	s.transition(requestID, StageIdle)

	recipe, err := s.generate(ctx, requestID, prefs)

	metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		err = normalizeError(err)
		metrics.GenerationTotal.WithLabelValues(common.CodeOf(err)).Inc()
		s.transition(requestID, StageFailed)
		common.LogError("Recipe generation failed",
			zap.String("code", common.CodeOf(err)),
			zap.Error(errors.Unwrap(err)),
			zap.String("request_id", requestID),
		)
		return nil, err
	}

	metrics.GenerationTotal.WithLabelValues("success").Inc()
	s.transition(requestID, StageSuccess)
	common.LogInfo("Recipe generated successfully",
		zap.String("title", recipe.Title),
		zap.Duration("duration", time.Since(start)),
		zap.String("request_id", requestID),
	)
	return recipe, nil
}

func (s *Service) generate(ctx context.Context, requestID string, prefs common.RecipePreferences) (*common.Recipe, error) {
	s.transition(requestID, StageValidating)
	common.LogInfo("Recipe request",
		zap.Strings("ingredients", prefs.Ingredients),
		zap.String("dietary_preference", prefs.DietaryPreference),
		zap.String("cuisine_type", prefs.CuisineType),
		zap.Int("servings", prefs.Servings),
		zap.String("cooking_time", prefs.CookingTime),
		zap.String("request_id", requestID),
	)
	if err := ValidatePreferences(prefs); err != nil {
		return nil, err
	}
	prompt, err := BuildPrompt(prefs)
	if err != nil {
		return nil, err
	}

	s.transition(requestID, StageInvoking)
	resp, err := s.aiService.ProcessRequest(ctx, prompt.System, prompt.User)
	if err != nil {
		return nil, err
	}

	s.transition(requestID, StageParsingResponse)
	return ParseRecipe(resp.Content)
}

func (s *Service) transition(requestID string, stage Stage) {
	common.LogDebug("Recipe generation stage",
		zap.String("stage", string(stage)),
		zap.String("request_id", requestID),
	)
	if s.observe != nil {
		s.observe(stage)
	}
}

// normalizeError 將非分類錯誤（例如逾時或取消）歸為上游錯誤
func normalizeError(err error) error {
	var ce *common.CustomError
	if errors.As(err, &ce) {
		return err
	}
	return common.ErrUpstream.Wrap(err)
}
