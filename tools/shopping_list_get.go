package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
)

type ShoppingListGet struct{ list ShoppingReader }

func NewShoppingListGet(list ShoppingReader) *ShoppingListGet {
	return &ShoppingListGet{list: list}
}

func (t *ShoppingListGet) Name() string  { return "shopping_list_get" }
func (t *ShoppingListGet) Title() string { return "Get Shopping List" }
func (t *ShoppingListGet) Description() string {
	return "Returns the items still to buy. Set include_completed to also get items already checked off."
}

func (t *ShoppingListGet) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"include_completed": {Type: "boolean"},
		},
	}
}

func (t *ShoppingListGet) OutputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"items": {
				Type: "array",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"name":          {Type: "string"},
						"quantity":      {Type: "string"},
						"category":      {Type: "string"},
						"completed":     {Type: "boolean"},
						"recipe_source": {Type: "string"},
					},
					Required: []string{"name", "category", "completed"},
				},
			},
		},
		Required: []string{"items"},
	}
}

func (t *ShoppingListGet) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	includeCompleted, _ := input["include_completed"].(bool)

	type outItem struct {
		Name         string `json:"name"`
		Quantity     string `json:"quantity,omitempty"`
		Category     string `json:"category"`
		Completed    bool   `json:"completed"`
		RecipeSource string `json:"recipe_source,omitempty"`
	}
	out := struct {
		Items []outItem `json:"items"`
	}{Items: make([]outItem, 0)}

	for _, it := range t.list.Items() {
		if it.Completed && !includeCompleted {
			continue
		}
		out.Items = append(out.Items, outItem{
			Name:         it.Name,
			Quantity:     it.Quantity,
			Category:     string(it.Category),
			Completed:    it.Completed,
			RecipeSource: it.RecipeSource,
		})
	}
	return toMap(out)
}
