// Package pricing guesses a shelf price for a grocery item from its name and category. It is
// a local heuristic; nothing is fetched.
package pricing

import (
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"pantrypal"
)

// Range is a closed price interval in dollars.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Keyword ranges are checked in order, so longer phrases sit before the words they contain.
var keywordRanges = []struct {
	keyword string
	Range
}{
	{"almond milk", Range{2.99, 4.99}},
	{"oat milk", Range{3.49, 5.49}},
	{"milk", Range{2.49, 4.29}},
	{"eggs", Range{2.99, 5.99}},
	{"butter", Range{3.49, 5.99}},
	{"cheese", Range{2.99, 7.99}},
	{"yogurt", Range{0.99, 5.49}},
	{"bread", Range{2.49, 4.99}},
	{"rice", Range{1.99, 6.99}},
	{"pasta", Range{0.99, 2.99}},
	{"flour", Range{2.49, 4.99}},
	{"sugar", Range{2.49, 4.49}},
	{"olive oil", Range{6.99, 12.99}},
	{"oil", Range{2.99, 7.99}},
	{"chicken", Range{4.99, 11.99}},
	{"beef", Range{5.99, 14.99}},
	{"salmon", Range{8.99, 15.99}},
	{"apple", Range{0.49, 1.29}},
	{"banana", Range{0.19, 0.39}},
	{"tomato", Range{0.79, 2.49}},
	{"onion", Range{0.69, 1.49}},
	{"potato", Range{0.59, 1.49}},
	{"coffee", Range{6.99, 14.99}},
	{"cereal", Range{2.99, 5.99}},
	{"beans", Range{0.89, 2.29}},
	{"soup", Range{1.29, 3.49}},
}

var categoryRanges = map[pantrypal.Category]Range{
	pantrypal.CategoryFreshProduce:  {0.99, 4.99},
	pantrypal.CategoryDairyEggs:     {2.49, 5.99},
	pantrypal.CategoryMeatProtein:   {4.99, 12.99},
	pantrypal.CategoryGrainsPasta:   {1.49, 4.99},
	pantrypal.CategoryCannedGoods:   {0.99, 3.49},
	pantrypal.CategoryPantryStaples: {1.99, 6.99},
	pantrypal.CategoryFrozen:        {2.49, 7.99},
}

var defaultRange = Range{1.99, 5.99}

// Basis says which table an estimate came from.
type Basis string

const (
	BasisKeyword  Basis = "keyword"
	BasisCategory Basis = "category"
	BasisDefault  Basis = "default"
)

type Estimate struct {
	Price float64 `json:"price"`
	Range Range   `json:"range"`
	Basis Basis   `json:"basis"`
	// Keyword is the matched name keyword for BasisKeyword.
	Keyword string `json:"keyword,omitempty"`
}

// Estimator draws prices inside the matched range. Safe for concurrent use.
type Estimator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewEstimator uses src for jitter; nil seeds one from the clock.
func NewEstimator(src rand.Source) *Estimator {
	if src == nil {
		src = rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)
	}
	return &Estimator{rng: rand.New(src)}
}

// Lookup returns the range that applies to an item, without drawing a price.
func Lookup(name string, category pantrypal.Category) (Range, Basis, string) {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower != "" {
		for _, kr := range keywordRanges {
			if strings.Contains(lower, kr.keyword) {
				return kr.Range, BasisKeyword, kr.keyword
			}
		}
	}
	if r, ok := categoryRanges[category]; ok {
		return r, BasisCategory, ""
	}
	return defaultRange, BasisDefault, ""
}

// Estimate picks a price uniformly inside the matched range, rounded to cents.
func (e *Estimator) Estimate(name string, category pantrypal.Category) Estimate {
	r, basis, keyword := Lookup(name, category)

	e.mu.Lock()
	f := e.rng.Float64()
	e.mu.Unlock()

	price := math.Round((r.Min+f*(r.Max-r.Min))*100) / 100
	return Estimate{Price: price, Range: r, Basis: basis, Keyword: keyword}
}
