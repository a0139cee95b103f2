// Package shopping keeps the to-buy list. Unlike the pantry it allows duplicate names.
package shopping

import (
	"encoding/json"
	"strconv"
	"strings"

	"pantrypal"
)

// Item is one line of the shopping list. Quantity is free text ("2 cans", "1/2 cup").
type Item struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Quantity     string             `json:"quantity"`
	Category     pantrypal.Category `json:"category"`
	Completed    bool               `json:"completed"`
	RecipeSource string             `json:"recipeSource,omitempty"`
}

// UnmarshalJSON accepts a numeric quantity and fills in the category fallback.
func (it *Item) UnmarshalJSON(b []byte) error {
	type alias Item
	aux := &struct {
		*alias
		Quantity json.RawMessage `json:"quantity"`
	}{
		alias: (*alias)(it),
	}
	if err := json.Unmarshal(b, aux); err != nil {
		return err
	}
	it.Quantity = quantityText(aux.Quantity)
	if it.Category == "" {
		it.Category = pantrypal.CategoryOther
	}
	return nil
}

func quantityText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}

// ItemInput is the payload for AddItem and AddItems.
type ItemInput struct {
	Name         string `json:"name"`
	Quantity     string `json:"quantity,omitempty"`
	Category     string `json:"category,omitempty"`
	RecipeSource string `json:"recipeSource,omitempty"`
}

func (in *ItemInput) UnmarshalJSON(b []byte) error {
	type alias ItemInput
	aux := &struct {
		*alias
		Quantity json.RawMessage `json:"quantity"`
	}{
		alias: (*alias)(in),
	}
	if err := json.Unmarshal(b, aux); err != nil {
		return err
	}
	in.Quantity = quantityText(aux.Quantity)
	return nil
}

// ItemPatch is a partial update. Nil fields are left alone.
type ItemPatch struct {
	Name         *string `json:"name,omitempty"`
	Quantity     *string `json:"quantity,omitempty"`
	Category     *string `json:"category,omitempty"`
	Completed    *bool   `json:"completed,omitempty"`
	RecipeSource *string `json:"recipeSource,omitempty"`
}

func (p ItemPatch) apply(it Item) Item {
	if p.Name != nil {
		it.Name = strings.TrimSpace(*p.Name)
	}
	if p.Quantity != nil {
		it.Quantity = strings.TrimSpace(*p.Quantity)
	}
	if p.Category != nil {
		it.Category = pantrypal.ParseCategory(*p.Category)
	}
	if p.Completed != nil {
		it.Completed = *p.Completed
	}
	if p.RecipeSource != nil {
		it.RecipeSource = strings.TrimSpace(*p.RecipeSource)
	}
	return it
}
