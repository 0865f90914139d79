package recipe

import (
	"errors"
	"testing"

	"pantry-chef/internal/pkg/common"
)

const fullRecipe = `{
  "title": "Garlic Chicken Rice",
  "description": "Comforting one-pot dinner",
  "prepTime": "10 mins",
  "cookTime": "25 mins",
  "totalTime": "35 mins",
  "servings": 2,
  "difficulty": "Easy",
  "ingredients": [{"item": "chicken", "amount": "300g"}, {"item": "rice", "amount": "1 cup"}],
  "instructions": [{"step": 1, "text": "Brown the chicken."}, {"step": 2, "text": "Add rice and water."}],
  "tips": ["Rinse the rice first."],
  "nutritionInfo": {"calories": "520", "protein": "38g", "carbs": "55g", "fat": "14g"}
}`

func TestParseRecipe(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"bare json", fullRecipe},
		{"json fence", "```json\n" + fullRecipe + "\n```"},
		{"fence with prose", "Sure! Here it is:\n```\n" + fullRecipe + "\n```\nBon appetit."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipe, err := ParseRecipe(tt.text)
			if err != nil {
				t.Fatalf("ParseRecipe: %v", err)
			}
			if recipe.Title != "Garlic Chicken Rice" {
				t.Fatalf("title = %q", recipe.Title)
			}
			if recipe.Difficulty != common.DifficultyEasy || recipe.Servings != 2 {
				t.Fatalf("recipe = %+v", recipe)
			}
			if len(recipe.Ingredients) != 2 || len(recipe.Instructions) != 2 {
				t.Fatalf("ingredients = %d, instructions = %d", len(recipe.Ingredients), len(recipe.Instructions))
			}
			if recipe.NutritionInfo == nil || recipe.NutritionInfo.Protein != "38g" {
				t.Fatalf("nutrition = %+v", recipe.NutritionInfo)
			}
		})
	}
}

func TestParseRecipeAcceptsEmptyLists(t *testing.T) {
	const emptyLists = `{"title":"X","ingredients":[],"instructions":[]}`
	tests := []struct {
		name string
		text string
	}{
		{"bare", emptyLists},
		{"json fence", "```json\n" + emptyLists + "\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipe, err := ParseRecipe(tt.text)
			if err != nil {
				t.Fatalf("ParseRecipe: %v", err)
			}
			if recipe.Title != "X" || len(recipe.Ingredients) != 0 || len(recipe.Instructions) != 0 {
				t.Fatalf("recipe = %+v", recipe)
			}
		})
	}
}

func TestParseRecipeFailures(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"not json", "I could not make a recipe", common.ErrMalformedResponse},
		{"truncated", `{"title":"X","ingredients":[`, common.ErrMalformedResponse},
		{"broken fence", "```json\n{title: X}\n```", common.ErrMalformedResponse},
		{"array", `[1,2,3]`, common.ErrIncompleteRecipe},
		{"missing instructions", `{"title":"X","ingredients":[]}`, common.ErrIncompleteRecipe},
		{"empty title", `{"title":"","ingredients":[],"instructions":[]}`, common.ErrIncompleteRecipe},
		{"null ingredients", `{"title":"X","ingredients":null,"instructions":[]}`, common.ErrIncompleteRecipe},
		{"ingredients wrong type", `{"title":"X","ingredients":"chicken","instructions":[]}`, common.ErrIncompleteRecipe},
		{"servings wrong type", `{"title":"X","servings":"two","ingredients":[],"instructions":[]}`, common.ErrIncompleteRecipe},
		{"unknown difficulty", `{"title":"X","difficulty":"Trivial","ingredients":[],"instructions":[]}`, common.ErrIncompleteRecipe},
		{"step zero", `{"title":"X","ingredients":[],"instructions":[{"step":0,"text":"Cook"}]}`, common.ErrIncompleteRecipe},
		{"step without text", `{"title":"X","ingredients":[],"instructions":[{"step":1,"text":""}]}`, common.ErrIncompleteRecipe},
		{"ingredient without item", `{"title":"X","ingredients":[{"item":"","amount":"1"}],"instructions":[]}`, common.ErrIncompleteRecipe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipe, err := ParseRecipe(tt.text)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if recipe != nil {
				t.Fatalf("recipe should be nil on error, got %+v", recipe)
			}
		})
	}
}

func TestExtractJSONIdempotent(t *testing.T) {
	inputs := []string{
		fullRecipe,
		"```json\n" + fullRecipe + "\n```",
		"no json here",
	}
	for _, in := range inputs {
		once := ExtractJSON(in)
		if twice := ExtractJSON(once); twice != once {
			t.Fatalf("ExtractJSON not idempotent for %q", in)
		}
	}
}
