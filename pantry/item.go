// Package pantry owns the household inventory: one item per product name, with quantities,
// categories, and expiration dates.
package pantry

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"pantrypal"
)

type Unit string

const (
	UnitCount      Unit = "units"
	UnitKilogram   Unit = "kg"
	UnitGram       Unit = "g"
	UnitLiter      Unit = "L"
	UnitMilliliter Unit = "mL"
)

var units = []Unit{UnitCount, UnitKilogram, UnitGram, UnitLiter, UnitMilliliter}

// Units returns every unit in display order.
func Units() []Unit {
	out := make([]Unit, len(units))
	copy(out, units)
	return out
}

// ParseUnit matches s against the known units ignoring case; anything else is UnitCount.
func ParseUnit(s string) Unit {
	s = strings.TrimSpace(s)
	for _, u := range units {
		if s == string(u) {
			return u
		}
	}
	for _, u := range units {
		if strings.EqualFold(s, string(u)) {
			return u
		}
	}
	return UnitCount
}

func (u *Unit) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*u = ParseUnit(s)
	return nil
}

// Number is a loosely typed numeric field as it arrives from forms and older saved data: a
// JSON number, a numeric string, an empty string, or null.
type Number struct {
	Value float64
	// Valid is false for null, empty, unparseable, negative, or non-finite input.
	Valid bool
	// Present records that the field appeared in the document at all.
	Present bool
}

// NumberOf returns a valid Number holding v.
func NumberOf(v float64) Number {
	return Number{Value: v, Valid: v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0), Present: true}
}

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{Present: true}

	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
	}
	if s == "" {
		return nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n.Value = f
	n.Valid = true
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(n.Value, 'f', -1, 64)), nil
}

// Or returns the value when valid and def otherwise.
func (n Number) Or(def float64) float64 {
	if n.Valid {
		return n.Value
	}
	return def
}

// Item is a tracked pantry entry. Dates are ISO calendar dates (YYYY-MM-DD).
type Item struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Category       pantrypal.Category `json:"category"`
	Quantity       float64            `json:"quantity"`
	Unit           Unit               `json:"unit"`
	PurchaseDate   string             `json:"purchaseDate"`
	ExpirationDate string             `json:"expirationDate,omitempty"`
	Price          *float64           `json:"price,omitempty"`
	Barcode        string             `json:"barcode,omitempty"`
}

// UnmarshalJSON accepts quantities and prices stored as strings and fills in the category and
// unit fallbacks, so everything read back from a slot is already normalized.
func (it *Item) UnmarshalJSON(b []byte) error {
	type alias Item
	aux := &struct {
		*alias
		Quantity Number `json:"quantity"`
		Price    Number `json:"price"`
	}{
		alias: (*alias)(it),
	}
	if err := json.Unmarshal(b, aux); err != nil {
		return err
	}

	it.Quantity = aux.Quantity.Or(0)
	it.Price = nil
	if aux.Price.Valid {
		p := aux.Price.Value
		it.Price = &p
	}
	if it.Category == "" {
		it.Category = pantrypal.CategoryOther
	}
	if it.Unit == "" {
		it.Unit = UnitCount
	}
	it.PurchaseDate = NormalizeDate(it.PurchaseDate)
	it.ExpirationDate = NormalizeDate(it.ExpirationDate)
	return nil
}

func (it Item) clone() Item {
	if it.Price != nil {
		p := *it.Price
		it.Price = &p
	}
	return it
}

// ItemInput is the payload for AddItem. Empty strings and invalid numbers mean "not given".
type ItemInput struct {
	Name           string `json:"name"`
	Category       string `json:"category,omitempty"`
	Quantity       Number `json:"quantity"`
	Unit           string `json:"unit,omitempty"`
	PurchaseDate   string `json:"purchaseDate,omitempty"`
	ExpirationDate string `json:"expirationDate,omitempty"`
	Price          Number `json:"price"`
	Barcode        string `json:"barcode,omitempty"`
}

// ItemPatch is a partial update; only fields present in the patch are applied. An empty
// ExpirationDate clears it, and a present but empty Price removes the price.
type ItemPatch struct {
	Name           *string `json:"name,omitempty"`
	Category       *string `json:"category,omitempty"`
	Quantity       Number  `json:"quantity"`
	Unit           *string `json:"unit,omitempty"`
	PurchaseDate   *string `json:"purchaseDate,omitempty"`
	ExpirationDate *string `json:"expirationDate,omitempty"`
	Price          Number  `json:"price"`
	Barcode        *string `json:"barcode,omitempty"`
}

func (p ItemPatch) apply(it Item) Item {
	if p.Name != nil {
		it.Name = strings.TrimSpace(*p.Name)
	}
	if p.Category != nil {
		it.Category = pantrypal.ParseCategory(*p.Category)
	}
	if p.Quantity.Present {
		it.Quantity = p.Quantity.Or(0)
	}
	if p.Unit != nil {
		it.Unit = ParseUnit(*p.Unit)
	}
	if p.PurchaseDate != nil {
		if d := NormalizeDate(*p.PurchaseDate); d != "" {
			it.PurchaseDate = d
		}
	}
	if p.ExpirationDate != nil {
		it.ExpirationDate = NormalizeDate(*p.ExpirationDate)
	}
	if p.Price.Present {
		it.Price = nil
		if p.Price.Valid {
			v := p.Price.Value
			it.Price = &v
		}
	}
	if p.Barcode != nil {
		it.Barcode = strings.TrimSpace(*p.Barcode)
	}
	return it
}

// normalizeName is the merge key: trimmed and case-folded.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
