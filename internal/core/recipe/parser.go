package recipe

import (
	"fmt"
	"strings"

	"pantry-chef/internal/pkg/common"
)

// 必須存在且為真值的欄位
var requiredFields = []string{"title", "ingredients", "instructions"}

// ExtractJSON 若內容含有 ``` 區塊則取出第一個區塊，否則原樣回傳
func ExtractJSON(text string) string {
	return common.ExtractFencedJSON(text)
}

// ParseRecipe 將補全內容解析為食譜
func ParseRecipe(text string) (*common.Recipe, error) {
	candidate := ExtractJSON(text)

	var generic interface{}
	if err := common.ParseJSON(candidate, &generic); err != nil {
		return nil, common.ErrMalformedResponse.Wrap(fmt.Errorf("failed to parse recipe JSON: %w", err))
	}

	obj, ok := generic.(map[string]interface{})
	if !ok {
		return nil, common.ErrIncompleteRecipe.Wrap(fmt.Errorf("recipe is not a JSON object"))
	}
	for _, field := range requiredFields {
		if !common.Truthy(obj[field]) {
			return nil, common.ErrIncompleteRecipe.Wrap(fmt.Errorf("missing required field %q", field))
		}
	}

	var recipe common.Recipe
	if err := common.ParseJSON(candidate, &recipe); err != nil {
		return nil, common.ErrIncompleteRecipe.Wrap(fmt.Errorf("recipe field type mismatch: %w", err))
	}

	if err := validateRecipe(&recipe); err != nil {
		return nil, common.ErrIncompleteRecipe.Wrap(err)
	}
	return &recipe, nil
}

// validateRecipe 檢查已出現欄位的內容
func validateRecipe(r *common.Recipe) error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("title is blank")
	}
	if r.Difficulty != "" && !r.Difficulty.Valid() {
		return fmt.Errorf("unknown difficulty %q", r.Difficulty)
	}
	for i, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Item) == "" {
			return fmt.Errorf("ingredient %d has no item", i)
		}
	}
	for i, step := range r.Instructions {
		if step.Step < 1 {
			return fmt.Errorf("instruction %d has invalid step number %d", i, step.Step)
		}
		if strings.TrimSpace(step.Text) == "" {
			return fmt.Errorf("instruction %d has no text", i)
		}
	}
	return nil
}
