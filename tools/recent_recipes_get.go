package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
)

type RecentRecipesGet struct{ recipes RecipeReader }

func NewRecentRecipesGet(r RecipeReader) *RecentRecipesGet { return &RecentRecipesGet{recipes: r} }

func (t *RecentRecipesGet) Name() string  { return "recent_recipes_get" }
func (t *RecentRecipesGet) Title() string { return "Get Recently Viewed Recipes" }
func (t *RecentRecipesGet) Description() string {
	return "Returns recently viewed recipes, most recent first, with their ingredient names."
}

func (t *RecentRecipesGet) InputSchema() *jsonschema.Schema {
	minLimit := 1.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"limit": {Type: "integer", Minimum: &minLimit},
		},
	}
}

func (t *RecentRecipesGet) OutputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"recipes": {
				Type: "array",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"id":               {Type: "integer"},
						"title":            {Type: "string"},
						"ready_in_minutes": {Type: "integer"},
						"servings":         {Type: "integer"},
						"ingredients":      {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
					},
					Required: []string{"id", "title", "ingredients"},
				},
			},
		},
		Required: []string{"recipes"},
	}
}

func (t *RecentRecipesGet) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	limit, hasLimit, err := intArg(input, "limit")
	if err != nil {
		return nil, err
	}

	type outRecipe struct {
		ID             int      `json:"id"`
		Title          string   `json:"title"`
		ReadyInMinutes int      `json:"ready_in_minutes,omitempty"`
		Servings       int      `json:"servings,omitempty"`
		Ingredients    []string `json:"ingredients"`
	}
	out := struct {
		Recipes []outRecipe `json:"recipes"`
	}{Recipes: make([]outRecipe, 0)}

	for _, d := range t.recipes.RecentRecipes() {
		if hasLimit && len(out.Recipes) >= limit {
			break
		}
		names := make([]string, 0, len(d.ExtendedIngredients))
		for _, ing := range d.ExtendedIngredients {
			names = append(names, ing.Name)
		}
		out.Recipes = append(out.Recipes, outRecipe{
			ID:             d.ID,
			Title:          d.Title,
			ReadyInMinutes: d.ReadyInMinutes,
			Servings:       d.Servings,
			Ingredients:    names,
		})
	}
	return toMap(out)
}
