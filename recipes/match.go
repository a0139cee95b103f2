package recipes

import "strings"

// CalculateRecipeMatch returns the share, 0 to 100, of the recipe's ingredients whose name
// appears in available. Names are compared exactly after lower-casing.
func CalculateRecipeMatch(d Details, available []string) float64 {
	if len(d.ExtendedIngredients) == 0 {
		return 0
	}
	have := nameSet(available)
	matched := 0
	for _, ing := range d.ExtendedIngredients {
		if have[strings.ToLower(ing.Name)] {
			matched++
		}
	}
	return float64(matched) / float64(len(d.ExtendedIngredients)) * 100
}

// MissingIngredients lists the ingredients of d that are not in available, in recipe order.
func MissingIngredients(d Details, available []string) []Ingredient {
	have := nameSet(available)
	out := make([]Ingredient, 0)
	for _, ing := range d.ExtendedIngredients {
		if !have[strings.ToLower(ing.Name)] {
			out = append(out, ing)
		}
	}
	return out
}

// MatchPercentage is the used share of a search result's ingredients.
func MatchPercentage(m MatchResult) float64 {
	total := m.UsedIngredientCount + m.MissedIngredientCount
	if total == 0 {
		return 0
	}
	return float64(m.UsedIngredientCount) / float64(total) * 100
}

func nameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = true
	}
	return set
}
