// Package recipes talks to the Spoonacular recipe service and keeps the per-user recipe
// session: the last search results, a short list of recently viewed recipes, and the API key.
package recipes

import (
	"encoding/json"
	"reflect"
	"strings"
)

// SearchIngredient is an ingredient as reported on a search result.
type SearchIngredient struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit"`
	Original string  `json:"original,omitempty"`
	Aisle    string  `json:"aisle,omitempty"`
	Image    string  `json:"image,omitempty"`
}

// MatchResult is one hit from findByIngredients.
type MatchResult struct {
	ID                    int                `json:"id"`
	Title                 string             `json:"title"`
	Image                 string             `json:"image,omitempty"`
	UsedIngredientCount   int                `json:"usedIngredientCount"`
	MissedIngredientCount int                `json:"missedIngredientCount"`
	UsedIngredients       []SearchIngredient `json:"usedIngredients,omitempty"`
	MissedIngredients     []SearchIngredient `json:"missedIngredients,omitempty"`
	Likes                 int                `json:"likes,omitempty"`
}

// Ingredient is a line of a recipe's full ingredient list.
type Ingredient struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Original string  `json:"original,omitempty"`
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit"`
	Aisle    string  `json:"aisle,omitempty"`
}

// Details is the full recipe record. It is also what the recent-recipes slot stores.
type Details struct {
	ID                  int          `json:"id"`
	Title               string       `json:"title"`
	Image               string       `json:"image,omitempty"`
	ReadyInMinutes      int          `json:"readyInMinutes,omitempty"`
	Servings            int          `json:"servings,omitempty"`
	SourceURL           string       `json:"sourceUrl,omitempty"`
	Summary             string       `json:"summary,omitempty"`
	Instructions        string       `json:"instructions,omitempty"`
	Vegetarian          bool         `json:"vegetarian,omitempty"`
	Vegan               bool         `json:"vegan,omitempty"`
	GlutenFree          bool         `json:"glutenFree,omitempty"`
	DairyFree           bool         `json:"dairyFree,omitempty"`
	ExtendedIngredients []Ingredient `json:"extendedIngredients,omitempty"`

	// Extra holds the fields of the service's record that are not modeled above, such as
	// analyzedInstructions or cuisines. They are written back out unchanged.
	Extra map[string]json.RawMessage `json:"-"`
}

// detailsFields are the JSON names of the modeled Details fields.
var detailsFields = func() map[string]bool {
	t := reflect.TypeOf(Details{})
	names := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			names[name] = true
		}
	}
	return names
}()

func (d *Details) UnmarshalJSON(b []byte) error {
	type alias Details
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	for k := range all {
		if detailsFields[k] {
			delete(all, k)
		}
	}
	a.Extra = nil
	if len(all) > 0 {
		a.Extra = all
	}
	*d = Details(a)
	return nil
}

// MarshalJSON writes the modeled fields merged with Extra. Modeled fields win on conflict.
func (d Details) MarshalJSON() ([]byte, error) {
	type alias Details
	b, err := json.Marshal(alias(d))
	if err != nil || len(d.Extra) == 0 {
		return b, err
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	for k, v := range d.Extra {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return json.Marshal(out)
}

// FindParams are the knobs of a by-ingredients search.
type FindParams struct {
	Ingredients []string `json:"ingredients"`
	Number      int      `json:"number"`
	// Ranking 1 maximizes used ingredients, 2 minimizes missing ones.
	Ranking      int  `json:"ranking"`
	IgnorePantry bool `json:"ignorePantry"`
}

// DefaultFindParams returns the parameters used when the caller only supplies ingredients.
func DefaultFindParams(ingredients ...string) FindParams {
	return FindParams{
		Ingredients:  ingredients,
		Number:       5,
		Ranking:      1,
		IgnorePantry: true,
	}
}
