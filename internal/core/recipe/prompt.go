package recipe

import (
	"fmt"
	"strings"

	"pantry-chef/internal/pkg/common"
)

// SystemPrompt 固定的系統指示：主廚角色與回應 JSON 結構
const SystemPrompt = `You are a world-class chef and recipe creator. Create delicious, practical recipes based on available ingredients. Your recipes should be clear, well-structured, and achievable for home cooks.

Always respond with valid JSON matching this exact structure:
{
  "title": "Recipe Name",
  "description": "A brief, appetizing description of the dish",
  "prepTime": "15 mins",
  "cookTime": "30 mins",
  "totalTime": "45 mins",
  "servings": 4,
  "difficulty": "Easy" | "Medium" | "Hard",
  "ingredients": [
    { "item": "ingredient name", "amount": "quantity with unit" }
  ],
  "instructions": [
    { "step": 1, "text": "Clear instruction text" }
  ],
  "tips": ["Helpful tip 1", "Helpful tip 2"],
  "nutritionInfo": {
    "calories": "350",
    "protein": "25g",
    "carbs": "30g",
    "fat": "12g"
  }
}`

const closingInstruction = "You may add common pantry staples (salt, pepper, oil, basic spices) but the dish should primarily feature the provided ingredients. Make the recipe creative but practical."

// 烹飪時間對應的句子；any 不加
var timeClauses = map[string]string{
	common.CookingQuick:  "Total cooking time should be under 30 minutes.",
	common.CookingMedium: "Total cooking time should be between 30-60 minutes.",
	common.CookingLong:   "Total cooking time can be over 60 minutes for a more elaborate dish.",
}

// Prompt 一次補全請求的兩段文字
type Prompt struct {
	System string
	User   string
}

// BuildPrompt 由偏好產生系統與使用者提示。純函式，相同輸入產生相同輸出。
func BuildPrompt(p common.RecipePreferences) (Prompt, error) {
	if len(p.Ingredients) < common.MinIngredients {
		return Prompt{}, common.ErrValidation
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a recipe using these main ingredients: %s.\n\n", strings.Join(p.Ingredients, ", "))
	b.WriteString("Requirements:\n")
	fmt.Fprintf(&b, "- Serves %d %s\n", p.Servings, servingNoun(p.Servings))

	if p.DietaryPreference != "" && p.DietaryPreference != common.DietNone {
		fmt.Fprintf(&b, "The recipe MUST be %s.\n", p.DietaryPreference)
	}
	if p.CuisineType != "" && p.CuisineType != common.CuisineAny {
		fmt.Fprintf(&b, "Make it %s cuisine.\n", p.CuisineType)
	}
	if clause, ok := timeClauses[p.CookingTime]; ok {
		b.WriteString(clause)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(closingInstruction)

	return Prompt{System: SystemPrompt, User: b.String()}, nil
}

func servingNoun(n int) string {
	if n == 1 {
		return "person"
	}
	return "people"
}
