package pantry

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pantrypal"
	"pantrypal/storage"
)

// CategoryGroup is one bucket of GetItemsByCategory.
type CategoryGroup struct {
	Category pantrypal.Category `json:"category"`
	Items    []Item             `json:"items"`
}

// Summary is the dashboard view of the pantry.
type Summary struct {
	TotalItems   int `json:"totalItems"`
	ExpiringSoon int `json:"expiringSoon"`
	Expired      int `json:"expired"`
}

// Store owns the pantry list. Every mutation rewrites the pantryItems slot and emits a
// StoreEvent; operations never fail from the caller's point of view.
type Store struct {
	mu     sync.RWMutex
	items  []Item
	slot   *storage.Slot[[]Item]
	events pantrypal.EventLogger

	now   func() time.Time
	newID func() string
}

// NewStore rehydrates the pantry from its slot. An absent or unreadable slot starts empty.
func NewStore(ctx context.Context, backend storage.Store, events pantrypal.EventLogger) *Store {
	if events == nil {
		events = pantrypal.NewNoOpEventLogger()
	}
	s := &Store{
		slot:   storage.NewSlot[[]Item](backend, storage.KeyPantryItems),
		events: events,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	s.items = s.normalize(s.slot.Load(ctx))
	slog.Info("PANTRY: Loaded items", "count", len(s.items))
	return s
}

// normalize assigns missing ids and folds duplicate names together. The first occurrence keeps
// its fields; later ones add their quantity and fill in what it lacks.
func (s *Store) normalize(loaded []Item) []Item {
	items := make([]Item, 0, len(loaded))
	byName := make(map[string]int, len(loaded))

	for _, it := range loaded {
		if it.ID == "" {
			it.ID = s.newID()
		}
		key := normalizeName(it.Name)
		if i, ok := byName[key]; ok {
			existing := items[i]
			existing.Quantity += it.Quantity
			if existing.ExpirationDate == "" {
				existing.ExpirationDate = it.ExpirationDate
			}
			if existing.Price == nil {
				existing.Price = it.Price
			}
			if existing.Barcode == "" {
				existing.Barcode = it.Barcode
			}
			items[i] = existing
			slog.Warn("PANTRY: Merged duplicate stored item", "name", it.Name, "id", it.ID, "into", existing.ID)
			continue
		}
		byName[key] = len(items)
		items = append(items, it)
	}
	return items
}

// Items returns a snapshot of the pantry in insertion order.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneItems(s.items)
}

// Get returns the item with the given id.
func (s *Store) Get(id string) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexByID(id); i >= 0 {
		return s.items[i].clone(), true
	}
	return Item{}, false
}

// AddItem inserts in, or merges it into the existing item with the same name (trimmed,
// case-insensitive). A merge adds the quantities, with a missing incoming quantity counting
// as 1, and takes any non-empty category, unit, dates, and price from in. The display name
// of the existing item is kept.
func (s *Store) AddItem(ctx context.Context, in ItemInput) Item {
	var ev pantrypal.StoreEvent
	defer s.emit(&ev)

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexByName(normalizeName(in.Name)); i >= 0 {
		merged := s.items[i]
		merged.Quantity += in.Quantity.Or(1)
		merged = overwriteNonEmpty(merged,
			categoryInput(in.Category),
			unitInput(in.Unit),
			NormalizeDate(in.PurchaseDate),
			NormalizeDate(in.ExpirationDate),
			priceInput(in.Price),
		)
		if b := strings.TrimSpace(in.Barcode); b != "" {
			merged.Barcode = b
		}
		s.items[i] = merged
		ev = s.persist(ctx, "merge", merged)
		return merged.clone()
	}

	item := Item{
		ID:             s.newID(),
		Name:           strings.TrimSpace(in.Name),
		Category:       pantrypal.ParseCategory(in.Category),
		Quantity:       in.Quantity.Or(1),
		Unit:           ParseUnit(in.Unit),
		PurchaseDate:   NormalizeDate(in.PurchaseDate),
		ExpirationDate: NormalizeDate(in.ExpirationDate),
		Price:          priceInput(in.Price),
		Barcode:        strings.TrimSpace(in.Barcode),
	}
	if item.PurchaseDate == "" {
		item.PurchaseDate = s.now().Format(DateLayout)
	}

	s.items = append(s.items, item)
	ev = s.persist(ctx, "add", item)
	return item.clone()
}

// UpdateItem applies patch to the item with the given id. It reports false, changing nothing,
// when the id is unknown or when a rename would collide with another item's name.
func (s *Store) UpdateItem(ctx context.Context, id string, patch ItemPatch) (Item, bool) {
	var ev pantrypal.StoreEvent
	defer s.emit(&ev)

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByID(id)
	if i < 0 {
		return Item{}, false
	}

	updated := patch.apply(s.items[i])
	if key := normalizeName(updated.Name); key != normalizeName(s.items[i].Name) {
		if j := s.indexByName(key); j >= 0 && j != i {
			slog.Warn("PANTRY: Rename rejected, name already in use", "id", id, "name", updated.Name, "existing_id", s.items[j].ID)
			return Item{}, false
		}
	}

	s.items[i] = updated
	ev = s.persist(ctx, "update", updated)
	return updated.clone(), true
}

// RemoveItem deletes the item with the given id, reporting whether it existed.
func (s *Store) RemoveItem(ctx context.Context, id string) bool {
	return s.remove(ctx, id, "remove")
}

// MarkUsedUp removes the item exactly like RemoveItem; only the emitted event differs.
func (s *Store) MarkUsedUp(ctx context.Context, id string) bool {
	return s.remove(ctx, id, "used_up")
}

func (s *Store) remove(ctx context.Context, id, op string) bool {
	var ev pantrypal.StoreEvent
	defer s.emit(&ev)

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByID(id)
	if i < 0 {
		return false
	}
	removed := s.items[i]
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	ev = s.persist(ctx, op, removed)
	return true
}

// GetExpiringItems returns items whose expiration date falls between today and today+days,
// both ends inclusive, compared by calendar day. Items without a date never match.
func (s *Store) GetExpiringItems(days int) []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	today := s.now()
	out := make([]Item, 0)
	for _, it := range s.items {
		d, ok := DaysUntilExpiration(it, today)
		if ok && d >= 0 && d <= days {
			out = append(out, it.clone())
		}
	}
	return out
}

// GetItemsByCategory groups items by category. Groups appear in the order their first item
// was added and keep insertion order inside.
func (s *Store) GetItemsByCategory() []CategoryGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return groupByCategory(s.items, func(Item) bool { return true })
}

// Search is GetItemsByCategory restricted to names containing term, ignoring case. Empty
// groups are left out.
func (s *Store) Search(term string) []CategoryGroup {
	term = strings.ToLower(strings.TrimSpace(term))

	s.mu.RLock()
	defer s.mu.RUnlock()
	return groupByCategory(s.items, func(it Item) bool {
		return strings.Contains(strings.ToLower(it.Name), term)
	})
}

func (s *Store) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	today := s.now()
	sum := Summary{TotalItems: len(s.items)}
	for _, it := range s.items {
		d, ok := DaysUntilExpiration(it, today)
		if !ok {
			continue
		}
		if d < 0 {
			sum.Expired++
		} else if d <= DefaultExpiringDays {
			sum.ExpiringSoon++
		}
	}
	return sum
}

// Today is the clock the store measures expiration against.
func (s *Store) Today() time.Time {
	return s.now()
}

// persist must be called with the write lock held. It returns the event describing the
// mutation; emit sends it once the lock is released.
func (s *Store) persist(ctx context.Context, op string, it Item) pantrypal.StoreEvent {
	saved := s.slot.Save(ctx, s.items)
	return pantrypal.StoreEvent{
		Store:     pantrypal.StorePantry,
		Op:        op,
		ItemID:    it.ID,
		ItemName:  it.Name,
		Count:     len(s.items),
		Persisted: saved,
	}
}

// emit is deferred before the lock is taken, so it runs after the unlock and a slow event
// sink never holds up readers or other writers. A zero event means nothing changed.
func (s *Store) emit(ev *pantrypal.StoreEvent) {
	if ev.Op == "" {
		return
	}
	pantrypal.Emit(s.events, *ev)
}

func (s *Store) indexByID(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) indexByName(key string) int {
	for i := range s.items {
		if normalizeName(s.items[i].Name) == key {
			return i
		}
	}
	return -1
}

func groupByCategory(items []Item, keep func(Item) bool) []CategoryGroup {
	groups := make([]CategoryGroup, 0)
	index := make(map[pantrypal.Category]int)
	for _, it := range items {
		if !keep(it) {
			continue
		}
		c := it.Category
		if c == "" {
			c = pantrypal.CategoryOther
		}
		i, ok := index[c]
		if !ok {
			i = len(groups)
			index[c] = i
			groups = append(groups, CategoryGroup{Category: c})
		}
		groups[i].Items = append(groups[i].Items, it.clone())
	}
	return groups
}

// overwriteNonEmpty copies each non-empty value onto it.
func overwriteNonEmpty(it Item, category pantrypal.Category, unit Unit, purchase, expiration string, price *float64) Item {
	if category != "" {
		it.Category = category
	}
	if unit != "" {
		it.Unit = unit
	}
	if purchase != "" {
		it.PurchaseDate = purchase
	}
	if expiration != "" {
		it.ExpirationDate = expiration
	}
	if price != nil {
		p := *price
		it.Price = &p
	}
	return it
}

func categoryInput(s string) pantrypal.Category {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return pantrypal.ParseCategory(s)
}

func unitInput(s string) Unit {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return ParseUnit(s)
}

func priceInput(n Number) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.clone()
	}
	return out
}
