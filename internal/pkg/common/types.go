package common

// RecipePreferences 使用者提供的食譜偏好（每次請求不可變）
type RecipePreferences struct {
	Ingredients       []string `json:"ingredients"`
	DietaryPreference string   `json:"dietaryPreference"`
	CuisineType       string   `json:"cuisineType"`
	Servings          int      `json:"servings"`
	CookingTime       string   `json:"cookingTime"`
}

// 飲食偏好
const (
	DietNone        = "none"
	DietVegetarian  = "vegetarian"
	DietVegan       = "vegan"
	DietGlutenFree  = "gluten-free"
	DietKeto        = "keto"
	DietDairyFree   = "dairy-free"
	DietPaleo       = "paleo"
	CuisineAny      = "any"
	CookingTimeAny  = "any"
	CookingQuick    = "quick"
	CookingMedium   = "medium"
	CookingLong     = "long"
	MinServings     = 1
	MaxServings     = 8
	DefaultServings = 2
	MinIngredients  = 2
)

// DietaryPreferences 允許的飲食偏好（依畫面順序）
var DietaryPreferences = []string{
	DietNone, DietVegetarian, DietVegan, DietGlutenFree, DietKeto, DietDairyFree, DietPaleo,
}

// CuisineTypes 允許的料理類型
var CuisineTypes = []string{
	CuisineAny, "italian", "mexican", "asian", "indian", "mediterranean", "american", "french", "japanese", "thai",
}

// CookingTimes 允許的烹飪時間區間
var CookingTimes = []string{CookingTimeAny, CookingQuick, CookingMedium, CookingLong}

// Difficulty 難度
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Valid 是否為三種允許值之一
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Recipe AI 生成的食譜
type Recipe struct {
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	PrepTime      string             `json:"prepTime"`
	CookTime      string             `json:"cookTime"`
	TotalTime     string             `json:"totalTime"`
	Servings      int                `json:"servings"`
	Difficulty    Difficulty         `json:"difficulty"`
	Ingredients   []RecipeIngredient `json:"ingredients"`
	Instructions  []RecipeStep       `json:"instructions"`
	Tips          []string           `json:"tips"`
	NutritionInfo *NutritionInfo     `json:"nutritionInfo,omitempty"`
}

// RecipeIngredient 食材與用量
type RecipeIngredient struct {
	Item   string `json:"item"`
	Amount string `json:"amount"`
}

// RecipeStep 步驟
type RecipeStep struct {
	Step int    `json:"step"`
	Text string `json:"text"`
}

// NutritionInfo 營養資訊（皆為自由文字）
type NutritionInfo struct {
	Calories string `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
}

// ChatMessage 對話訊息
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// 對話角色
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Contains 檢查字串是否在清單中
func Contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
