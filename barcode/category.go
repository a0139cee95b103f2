package barcode

import (
	"strings"

	"pantrypal"
)

// categoryRules are checked in order; the first rule with a keyword contained in any tag
// wins. Storage modifiers (frozen, canned) come before food groups.
var categoryRules = []struct {
	category pantrypal.Category
	keywords []string
}{
	{pantrypal.CategoryFrozen, []string{"frozen"}},
	{pantrypal.CategoryCannedGoods, []string{"canned", "tinned"}},
	{pantrypal.CategoryDairyEggs, []string{"dairies", "dairy", "milk", "cheese", "yogurt", "butter", "eggs", "cream"}},
	{pantrypal.CategoryMeatProtein, []string{"meat", "poultry", "chicken", "beef", "pork", "fish", "seafood", "tofu"}},
	{pantrypal.CategoryFreshProduce, []string{"fruit", "vegetable", "fresh", "salad", "herb", "produce"}},
	{pantrypal.CategoryGrainsPasta, []string{"pasta", "cereal", "bread", "rice", "grain", "noodle", "oat"}},
	{pantrypal.CategoryPantryStaples, []string{"condiment", "sauce", "spice", "oil", "flour", "sugar", "salt", "snack", "spread", "beverage", "baking", "seasoning"}},
}

// CategoryFromTags maps Open Food Facts categories_tags ("en:plain-yogurts") or recipe aisle
// names ("Produce") onto a pantry category, falling back to Other.
func CategoryFromTags(tags []string) pantrypal.Category {
	for _, rule := range categoryRules {
		for _, tag := range tags {
			tag = strings.ToLower(tag)
			if i := strings.IndexByte(tag, ':'); i >= 0 {
				tag = tag[i+1:]
			}
			for _, kw := range rule.keywords {
				if strings.Contains(tag, kw) {
					return rule.category
				}
			}
		}
	}
	return pantrypal.CategoryOther
}
