package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pantrypal"
	"pantrypal/shopping"
)

type stubShopping []shopping.Item

func (s stubShopping) Items() []shopping.Item { return s }

func TestShoppingListGet_Run(t *testing.T) {
	list := stubShopping{
		{ID: "1", Name: "Basil", Quantity: "1 bunch", Category: pantrypal.CategoryFreshProduce, RecipeSource: "Pesto"},
		{ID: "2", Name: "Soap", Category: pantrypal.CategoryOther, Completed: true},
	}
	tool := NewShoppingListGet(list)

	tests := []struct {
		name  string
		input map[string]any
		want  []any
	}{
		{
			name:  "open items only by default",
			input: map[string]any{},
			want: []any{
				map[string]any{"name": "Basil", "quantity": "1 bunch", "category": "Fresh Produce", "completed": false, "recipe_source": "Pesto"},
			},
		},
		{
			name:  "include completed",
			input: map[string]any{"include_completed": true},
			want: []any{
				map[string]any{"name": "Basil", "quantity": "1 bunch", "category": "Fresh Produce", "completed": false, "recipe_source": "Pesto"},
				map[string]any{"name": "Soap", "category": "Other", "completed": true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tool.Run(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, map[string]any{"items": tt.want}, got)
		})
	}
}
