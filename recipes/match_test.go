package recipes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateRecipeMatch(t *testing.T) {
	recipe := Details{ExtendedIngredients: []Ingredient{
		{Name: "Eggs"}, {Name: "flour"}, {Name: "milk"}, {Name: "sugar"},
	}}

	tests := []struct {
		name      string
		recipe    Details
		available []string
		want      float64
	}{
		{"half", recipe, []string{"eggs", "MILK", "butter"}, 50},
		{"all", recipe, []string{"eggs", "flour", "milk", "sugar"}, 100},
		{"none", recipe, nil, 0},
		{"substring does not count", recipe, []string{"whole milk"}, 0},
		{"no ingredient list", Details{}, []string{"eggs"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CalculateRecipeMatch(tt.recipe, tt.available), 0.001)
		})
	}
}

func TestMissingIngredients(t *testing.T) {
	recipe := Details{ExtendedIngredients: []Ingredient{{Name: "eggs"}, {Name: "flour"}, {Name: "milk"}}}
	got := MissingIngredients(recipe, []string{"Eggs"})
	assert.Equal(t, []Ingredient{{Name: "flour"}, {Name: "milk"}}, got)
	assert.Empty(t, MissingIngredients(Details{}, nil))
}

func TestMatchPercentage(t *testing.T) {
	assert.InDelta(t, 75.0, MatchPercentage(MatchResult{UsedIngredientCount: 3, MissedIngredientCount: 1}), 0.001)
	assert.Zero(t, MatchPercentage(MatchResult{}))
}
