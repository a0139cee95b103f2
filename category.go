package pantrypal

import (
	"encoding/json"
	"strings"
)

// Category is the fixed grouping used by both the pantry and the shopping list.
type Category string

const (
	CategoryFreshProduce  Category = "Fresh Produce"
	CategoryDairyEggs     Category = "Dairy & Eggs"
	CategoryMeatProtein   Category = "Meat & Protein"
	CategoryGrainsPasta   Category = "Grains & Pasta"
	CategoryCannedGoods   Category = "Canned Goods"
	CategoryPantryStaples Category = "Pantry Staples"
	CategoryFrozen        Category = "Frozen"
	CategoryOther         Category = "Other"
)

var categories = []Category{
	CategoryFreshProduce,
	CategoryDairyEggs,
	CategoryMeatProtein,
	CategoryGrainsPasta,
	CategoryCannedGoods,
	CategoryPantryStaples,
	CategoryFrozen,
	CategoryOther,
}

// Categories returns every category in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory matches s against the known categories ignoring case and surrounding
// whitespace. Anything unrecognized is Other.
func ParseCategory(s string) Category {
	s = strings.TrimSpace(s)
	for _, c := range categories {
		if strings.EqualFold(s, string(c)) {
			return c
		}
	}
	return CategoryOther
}

func (c *Category) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*c = ParseCategory(s)
	return nil
}
