package recipe

import (
	"fmt"
	"strings"

	"pantry-chef/internal/pkg/common"
)

// NormalizePreferences 整理使用者輸入：食材去空白、轉小寫、去重（保留先後順序），
// 空白的選項補上預設值。回傳新的副本，不修改輸入。
func NormalizePreferences(p common.RecipePreferences) common.RecipePreferences {
	out := p
	out.Ingredients = make([]string, 0, len(p.Ingredients))
	seen := make(map[string]struct{}, len(p.Ingredients))
	for _, raw := range p.Ingredients {
		item := strings.ToLower(strings.TrimSpace(raw))
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out.Ingredients = append(out.Ingredients, item)
	}

	out.DietaryPreference = strings.TrimSpace(p.DietaryPreference)
	if out.DietaryPreference == "" {
		out.DietaryPreference = common.DietNone
	}
	out.CuisineType = strings.TrimSpace(p.CuisineType)
	if out.CuisineType == "" {
		out.CuisineType = common.CuisineAny
	}
	out.CookingTime = strings.TrimSpace(p.CookingTime)
	if out.CookingTime == "" {
		out.CookingTime = common.CookingTimeAny
	}
	if out.Servings == 0 {
		out.Servings = common.DefaultServings
	}
	return out
}

// ValidatePreferences 驗證偏好；所有失敗皆為 ValidationError
func ValidatePreferences(p common.RecipePreferences) error {
	if len(p.Ingredients) < common.MinIngredients {
		return common.ErrValidation
	}
	if !common.Contains(common.DietaryPreferences, p.DietaryPreference) {
		return common.NewValidationError(fmt.Sprintf("Unsupported dietary preference: %s", p.DietaryPreference))
	}
	if !common.Contains(common.CuisineTypes, p.CuisineType) {
		return common.NewValidationError(fmt.Sprintf("Unsupported cuisine type: %s", p.CuisineType))
	}
	if !common.Contains(common.CookingTimes, p.CookingTime) {
		return common.NewValidationError(fmt.Sprintf("Unsupported cooking time: %s", p.CookingTime))
	}
	if p.Servings < common.MinServings || p.Servings > common.MaxServings {
		return common.NewValidationError(fmt.Sprintf("Servings must be between %d and %d", common.MinServings, common.MaxServings))
	}
	return nil
}
