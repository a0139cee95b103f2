package shopping

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"pantrypal"
	"pantrypal/storage"
)

// CategoryGroup is one bucket of GetItemsByCategory.
type CategoryGroup struct {
	Category pantrypal.Category `json:"category"`
	Items    []Item             `json:"items"`
}

// Partition splits the list by completion.
type Partition struct {
	Completed   []Item `json:"completed"`
	Uncompleted []Item `json:"uncompleted"`
}

// Store owns the shopping list and mirrors it to the shoppingList slot after every change.
type Store struct {
	mu     sync.RWMutex
	items  []Item
	slot   *storage.Slot[[]Item]
	events pantrypal.EventLogger

	newID func() string
}

func NewStore(ctx context.Context, backend storage.Store, events pantrypal.EventLogger) *Store {
	if events == nil {
		events = pantrypal.NewNoOpEventLogger()
	}
	s := &Store{
		slot:   storage.NewSlot[[]Item](backend, storage.KeyShoppingList),
		events: events,
		newID:  uuid.NewString,
	}
	s.items = s.slot.Load(ctx)
	if s.items == nil {
		s.items = []Item{}
	}
	for i := range s.items {
		if s.items[i].ID == "" {
			s.items[i].ID = s.newID()
		}
	}
	slog.Info("SHOPPING: Loaded items", "count", len(s.items))
	return s
}

func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// AddItem appends a new, uncompleted item.
func (s *Store) AddItem(ctx context.Context, in ItemInput) Item {
	var ev pantrypal.StoreEvent
	defer s.emit(&ev)

	s.mu.Lock()
	defer s.mu.Unlock()

	it := s.newItem(in, "")
	s.items = append(s.items, it)
	ev = s.persist(ctx, "add", it.ID, it.Name)
	return it
}

// AddItems appends every input in order. A non-empty recipeSource is stamped on all of them;
// otherwise each keeps its own.
func (s *Store) AddItems(ctx context.Context, ins []ItemInput, recipeSource string) []Item {
	if len(ins) == 0 {
		return []Item{}
	}

	var ev pantrypal.StoreEvent
	defer s.emit(&ev)

	s.mu.Lock()
	defer s.mu.Unlock()

	added := make([]Item, 0, len(ins))
	for _, in := range ins {
		added = append(added, s.newItem(in, recipeSource))
	}
	s.items = append(s.items, added...)
	ev = s.persist(ctx, "add_bulk", "", strings.TrimSpace(recipeSource))
	return added
}

func (s *Store) newItem(in ItemInput, recipeSource string) Item {
	source := strings.TrimSpace(recipeSource)
	if source == "" {
		source = strings.TrimSpace(in.RecipeSource)
	}
	return Item{
		ID:           s.newID(),
		Name:         strings.TrimSpace(in.Name),
		Quantity:     strings.TrimSpace(in.Quantity),
		Category:     pantrypal.ParseCategory(in.Category),
		RecipeSource: source,
	}
}

// UpdateItem applies patch to the item with the given id, reporting whether it exists.
func (s *Store) UpdateItem(ctx context.Context, id string, patch ItemPatch) (Item, bool) {
	return s.modify(ctx, id, "update", patch.apply)
}

func (s *Store) ToggleItemCompleted(ctx context.Context, id string) (Item, bool) {
	return s.modify(ctx, id, "toggle", func(it Item) Item {
		it.Completed = !it.Completed
		return it
	})
}

func (s *Store) modify(ctx context.Context, id, op string, fn func(Item) Item) (Item, bool) {
	var ev pantrypal.StoreEvent
	defer s.emit(&ev)

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByID(id)
	if i < 0 {
		return Item{}, false
	}
	s.items[i] = fn(s.items[i])
	ev = s.persist(ctx, op, id, s.items[i].Name)
	return s.items[i], true
}

func (s *Store) RemoveItem(ctx context.Context, id string) bool {
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
	ev = s.persist(ctx, "remove", removed.ID, removed.Name)
	return true
}

// ClearCompletedItems drops every completed item and returns how many were removed.
// Calling it again is harmless.
func (s *Store) ClearCompletedItems(ctx context.Context) int {
	var ev pantrypal.StoreEvent
	defer s.emit(&ev)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]Item, 0, len(s.items))
	for _, it := range s.items {
		if !it.Completed {
			kept = append(kept, it)
		}
	}
	removed := len(s.items) - len(kept)
	s.items = kept
	ev = s.persist(ctx, "clear_completed", "", "")
	return removed
}

func (s *Store) ClearAllItems(ctx context.Context) {
	var ev pantrypal.StoreEvent
	defer s.emit(&ev)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []Item{}
	ev = s.persist(ctx, "clear_all", "", "")
}

// GetItemsByCategory groups items by category in first-seen order.
func (s *Store) GetItemsByCategory() []CategoryGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make([]CategoryGroup, 0)
	index := make(map[pantrypal.Category]int)
	for _, it := range s.items {
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
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}

func (s *Store) GetItemsByCompletionStatus() Partition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := Partition{Completed: []Item{}, Uncompleted: []Item{}}
	for _, it := range s.items {
		if it.Completed {
			p.Completed = append(p.Completed, it)
		} else {
			p.Uncompleted = append(p.Uncompleted, it)
		}
	}
	return p
}

// persist must be called with the write lock held. The returned event is sent by emit
// after the lock is released.
func (s *Store) persist(ctx context.Context, op, id, name string) pantrypal.StoreEvent {
	saved := s.slot.Save(ctx, s.items)
	return pantrypal.StoreEvent{
		Store:     pantrypal.StoreShopping,
		Op:        op,
		ItemID:    id,
		ItemName:  name,
		Count:     len(s.items),
		Persisted: saved,
	}
}

func (s *Store) emit(ev *pantrypal.StoreEvent) {
	if ev.Op != "" {
		pantrypal.Emit(s.events, *ev)
	}
}

func (s *Store) indexByID(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
