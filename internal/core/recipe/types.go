package recipe

import (
	"context"

	"pantry-chef/internal/pkg/common"
)

// Stage 單次生成請求所處的階段
type Stage string

const (
	StageIdle            Stage = "idle"
	StageValidating      Stage = "validating"
	StageInvoking        Stage = "invoking"
	StageParsingResponse Stage = "parsing_response"
	StageSuccess         Stage = "success"
	StageFailed          Stage = "failed"
)

// Terminal 是否為終止階段
func (s Stage) Terminal() bool {
	return s == StageSuccess || s == StageFailed
}

// Generator 食譜生成能力（HTTP 層依賴此介面）
type Generator interface {
	Generate(ctx context.Context, prefs common.RecipePreferences) (*common.Recipe, error)
}
