package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"pantrypal"
	"pantrypal/pantry"
)

// noExpiry is reported as days_left for items without an expiration date.
const noExpiry = 9999

type PantryGet struct{ pantry PantryReader }

func NewPantryGet(p PantryReader) *PantryGet { return &PantryGet{pantry: p} }

func (t *PantryGet) Name() string  { return "pantry_get" }
func (t *PantryGet) Title() string { return "Get Pantry (with freshness)" }
func (t *PantryGet) Description() string {
	return "Returns pantry quantities plus days_left until each item expires. " +
		"Pass expiring_within to keep only items expiring in that many days, or category to filter."
}

func (t *PantryGet) InputSchema() *jsonschema.Schema {
	minDays := 0.0
	categories := make([]any, 0)
	for _, c := range pantrypal.Categories() {
		categories = append(categories, string(c))
	}
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"expiring_within": {Type: "integer", Minimum: &minDays},
			"category":        {Type: "string", Enum: categories},
		},
	}
}

func (t *PantryGet) OutputSchema() *jsonschema.Schema {
	minQty := 0.0
	units := make([]any, 0)
	for _, u := range pantry.Units() {
		units = append(units, string(u))
	}
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"pantry": {
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"ingredients": {
						Type: "array",
						Items: &jsonschema.Schema{
							Type: "object",
							Properties: map[string]*jsonschema.Schema{
								"name":            {Type: "string"},
								"qty":             {Type: "number", Minimum: &minQty},
								"unit":            {Type: "string", Enum: units},
								"category":        {Type: "string"},
								"expiration_date": {Type: "string"},
								"days_left":       {Type: "integer"},
							},
							Required: []string{"name", "qty", "unit", "category", "days_left"},
						},
					},
				},
				Required: []string{"ingredients"},
			},
		},
		Required: []string{"pantry"},
	}
}

func (t *PantryGet) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	within, filterExpiring, err := intArg(input, "expiring_within")
	if err != nil {
		return nil, err
	}
	var category pantrypal.Category
	if s, ok := input["category"].(string); ok && s != "" {
		category = pantrypal.ParseCategory(s)
	}

	type outIng struct {
		Name           string  `json:"name"`
		Qty            float64 `json:"qty"`
		Unit           string  `json:"unit"`
		Category       string  `json:"category"`
		ExpirationDate string  `json:"expiration_date,omitempty"`
		Days           int     `json:"days_left"`
	}
	out := struct {
		Pantry struct {
			Ingredients []outIng `json:"ingredients"`
		} `json:"pantry"`
	}{}
	out.Pantry.Ingredients = make([]outIng, 0)

	today := t.pantry.Today()
	for _, it := range t.pantry.Items() {
		if category != "" && it.Category != category {
			continue
		}
		days, ok := pantry.DaysUntilExpiration(it, today)
		if !ok {
			days = noExpiry
		}
		if filterExpiring && (!ok || days < 0 || days > within) {
			continue
		}
		out.Pantry.Ingredients = append(out.Pantry.Ingredients, outIng{
			Name:           it.Name,
			Qty:            it.Quantity,
			Unit:           string(it.Unit),
			Category:       string(it.Category),
			ExpirationDate: it.ExpirationDate,
			Days:           days,
		})
	}

	return toMap(out)
}
