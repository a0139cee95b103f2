package tools

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pantrypal"
	"pantrypal/pantry"
)

var testToday = time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)

type stubPantry struct{ items []pantry.Item }

func (s stubPantry) Items() []pantry.Item { return s.items }
func (s stubPantry) Today() time.Time     { return testToday }

func expiresIn(days int) string {
	return testToday.AddDate(0, 0, days).Format(pantry.DateLayout)
}

func TestPantryGet_Run(t *testing.T) {
	items := []pantry.Item{
		{Name: "Eggs", Quantity: 12, Unit: pantry.UnitCount, Category: pantrypal.CategoryDairyEggs, ExpirationDate: expiresIn(5)},
		{Name: "Milk", Quantity: 2000, Unit: pantry.UnitMilliliter, Category: pantrypal.CategoryDairyEggs, ExpirationDate: expiresIn(-2)},
		{Name: "Bread", Quantity: 1, Unit: pantry.UnitCount, Category: pantrypal.CategoryGrainsPasta, ExpirationDate: expiresIn(0)},
		{Name: "Rice", Quantity: 1000, Unit: pantry.UnitGram, Category: pantrypal.CategoryGrainsPasta},
	}

	ing := func(name string, qty float64, unit, category, exp string, days float64) map[string]any {
		m := map[string]any{
			"name":      name,
			"qty":       qty,
			"unit":      unit,
			"category":  category,
			"days_left": days,
		}
		if exp != "" {
			m["expiration_date"] = exp
		}
		return m
	}

	tests := []struct {
		name     string
		items    []pantry.Item
		input    map[string]any
		expected []any
	}{
		{
			name:  "all items with freshness",
			items: items,
			input: map[string]any{},
			expected: []any{
				ing("Eggs", 12, "units", "Dairy & Eggs", expiresIn(5), 5),
				ing("Milk", 2000, "mL", "Dairy & Eggs", expiresIn(-2), -2),
				ing("Bread", 1, "units", "Grains & Pasta", expiresIn(0), 0),
				ing("Rice", 1000, "g", "Grains & Pasta", "", 9999), // no expiration date
			},
		},
		{
			name:  "expiring within skips expired and undated items",
			items: items,
			input: map[string]any{"expiring_within": 3.0},
			expected: []any{
				ing("Bread", 1, "units", "Grains & Pasta", expiresIn(0), 0),
			},
		},
		{
			name:  "category filter",
			items: items,
			input: map[string]any{"category": "grains & pasta"},
			expected: []any{
				ing("Bread", 1, "units", "Grains & Pasta", expiresIn(0), 0),
				ing("Rice", 1000, "g", "Grains & Pasta", "", 9999),
			},
		},
		{
			name:     "empty pantry",
			items:    nil,
			input:    map[string]any{},
			expected: []any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := NewPantryGet(stubPantry{items: tt.items})
			result, err := tool.Run(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, map[string]any{"pantry": map[string]any{"ingredients": tt.expected}}, result)
		})
	}

	t.Run("bad expiring_within", func(t *testing.T) {
		tool := NewPantryGet(stubPantry{items: items})
		_, err := tool.Run(context.Background(), map[string]any{"expiring_within": "soon"})
		assert.Error(t, err)
	})
}

func TestPantryGet_ToolMethods(t *testing.T) {
	tool := NewPantryGet(stubPantry{})

	t.Run("tool metadata", func(t *testing.T) {
		assert.Equal(t, "pantry_get", tool.Name())
		assert.Equal(t, "Get Pantry (with freshness)", tool.Title())
		assert.Contains(t, tool.Description(), "days_left")
	})

	t.Run("schemas are valid", func(t *testing.T) {
		inputSchema := tool.InputSchema()
		require.NotNil(t, inputSchema)
		assert.Equal(t, "object", inputSchema.Type)
		assert.Equal(t, "integer", inputSchema.Properties["expiring_within"].Type)
		assert.Len(t, inputSchema.Properties["category"].Enum, len(pantrypal.Categories()))

		outputSchema := tool.OutputSchema()
		require.NotNil(t, outputSchema)
		ingredientsSchema := outputSchema.Properties["pantry"].Properties["ingredients"]
		assert.Equal(t, "array", ingredientsSchema.Type)
		require.NotNil(t, ingredientsSchema.Items)
		for _, prop := range []string{"name", "qty", "unit", "category", "days_left"} {
			assert.Contains(t, ingredientsSchema.Items.Properties, prop)
		}
		assert.Equal(t, []any{"units", "kg", "g", "L", "mL"}, ingredientsSchema.Items.Properties["unit"].Enum)
	})
}

func TestPantryGet_LargeQuantities(t *testing.T) {
	tool := NewPantryGet(stubPantry{items: []pantry.Item{
		{Name: "warehouse_rice", Quantity: 999999.99, Unit: pantry.UnitKilogram, Category: pantrypal.CategoryOther},
		{Name: "tiny_spice", Quantity: 0.001, Unit: pantry.UnitGram, Category: pantrypal.CategoryOther},
	}})
	result, err := tool.Run(context.Background(), map[string]any{})
	require.NoError(t, err)

	ings := result["pantry"].(map[string]any)["ingredients"].([]any)
	require.Len(t, ings, 2)
	assert.Equal(t, 999999.99, ings[0].(map[string]any)["qty"])
	assert.Equal(t, 0.001, ings[1].(map[string]any)["qty"])
}

func BenchmarkPantryGet_Run(b *testing.B) {
	items := make([]pantry.Item, 0, 50)
	for i := 0; i < 50; i++ {
		items = append(items, pantry.Item{Name: "item", Quantity: float64(i), Unit: pantry.UnitCount, ExpirationDate: expiresIn(i % 10)})
	}
	tool := NewPantryGet(stubPantry{items: items})
	input := map[string]any{"expiring_within": 3.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := tool.Run(context.Background(), input)
		require.NoError(b, err)
	}
}
