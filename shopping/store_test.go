package shopping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pantrypal"
	"pantrypal/storage"
)

type recordingLogger struct{ events []pantrypal.StoreEvent }

func (r *recordingLogger) LogEvent(e pantrypal.StoreEvent) error {
	r.events = append(r.events, e)
	return nil
}

func newTestStore(t *testing.T, backend storage.Store) (*Store, *recordingLogger) {
	t.Helper()
	events := &recordingLogger{}
	s := NewStore(context.Background(), backend, events)
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("s-%d", n)
	}
	return s, events
}

func storedItems(t *testing.T, backend storage.Store) []Item {
	t.Helper()
	b, err := backend.Get(context.Background(), storage.KeyShoppingList)
	require.NoError(t, err)
	var items []Item
	require.NoError(t, json.Unmarshal(b, &items))
	return items
}

func TestStore_AddItem_AllowsDuplicates(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStore()
	s, events := newTestStore(t, backend)

	a := s.AddItem(ctx, ItemInput{Name: "Milk", Quantity: "1 gallon", Category: "dairy & eggs"})
	b := s.AddItem(ctx, ItemInput{Name: "milk"})

	assert.Equal(t, Item{ID: "s-1", Name: "Milk", Quantity: "1 gallon", Category: pantrypal.CategoryDairyEggs}, a)
	assert.Equal(t, pantrypal.CategoryOther, b.Category)
	assert.False(t, b.Completed)
	assert.Len(t, s.Items(), 2)
	assert.Equal(t, s.Items(), storedItems(t, backend))
	assert.Len(t, events.events, 2)
}

func TestStore_AddItems(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name         string
		inputs       []ItemInput
		recipeSource string
		wantSources  []string
	}{
		{
			name:         "recipe source overrides each input",
			inputs:       []ItemInput{{Name: "Basil", RecipeSource: "Salad"}, {Name: "Garlic"}},
			recipeSource: "Pesto Pasta",
			wantSources:  []string{"Pesto Pasta", "Pesto Pasta"},
		},
		{
			name:        "inputs keep their own source without one",
			inputs:      []ItemInput{{Name: "Basil", RecipeSource: "Salad"}, {Name: "Garlic"}},
			wantSources: []string{"Salad", ""},
		},
		{
			name:        "empty batch",
			inputs:      nil,
			wantSources: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore(t, storage.NewMemoryStore())
			added := s.AddItems(ctx, tt.inputs, tt.recipeSource)

			sources := make([]string, 0, len(added))
			for _, it := range added {
				sources = append(sources, it.RecipeSource)
				assert.False(t, it.Completed)
				assert.NotEmpty(t, it.ID)
			}
			assert.Equal(t, tt.wantSources, sources)
			assert.Equal(t, added, s.Items())
		})
	}
}

func TestStore_UpdateAndToggle(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStore()
	s, _ := newTestStore(t, backend)

	it := s.AddItem(ctx, ItemInput{Name: "Flour", Quantity: "1 bag"})

	qty := "2 bags"
	got, ok := s.UpdateItem(ctx, it.ID, ItemPatch{Quantity: &qty})
	require.True(t, ok)
	assert.Equal(t, "2 bags", got.Quantity)
	assert.Equal(t, "Flour", got.Name)

	got, ok = s.ToggleItemCompleted(ctx, it.ID)
	require.True(t, ok)
	assert.True(t, got.Completed)
	got, _ = s.ToggleItemCompleted(ctx, it.ID)
	assert.False(t, got.Completed)

	_, ok = s.UpdateItem(ctx, "nope", ItemPatch{Quantity: &qty})
	assert.False(t, ok)
	_, ok = s.ToggleItemCompleted(ctx, "nope")
	assert.False(t, ok)

	assert.Equal(t, []Item{got}, storedItems(t, backend))
}

func TestStore_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, storage.NewMemoryStore())

	a := s.AddItem(ctx, ItemInput{Name: "A"})
	b := s.AddItem(ctx, ItemInput{Name: "B"})
	c := s.AddItem(ctx, ItemInput{Name: "C"})
	d := s.AddItem(ctx, ItemInput{Name: "D"})

	assert.True(t, s.RemoveItem(ctx, a.ID))
	assert.False(t, s.RemoveItem(ctx, a.ID))

	s.ToggleItemCompleted(ctx, b.ID)
	s.ToggleItemCompleted(ctx, d.ID)

	assert.Equal(t, 2, s.ClearCompletedItems(ctx))
	assert.Equal(t, 0, s.ClearCompletedItems(ctx), "clearing twice removes nothing more")
	require.Len(t, s.Items(), 1)
	assert.Equal(t, c.ID, s.Items()[0].ID)

	s.ClearAllItems(ctx)
	assert.Empty(t, s.Items())
}

func TestStore_Groupings(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, storage.NewMemoryStore())

	s.AddItem(ctx, ItemInput{Name: "Apples", Category: "Fresh Produce"})
	b := s.AddItem(ctx, ItemInput{Name: "Beans", Category: "Canned Goods"})
	s.AddItem(ctx, ItemInput{Name: "Carrots", Category: "Fresh Produce"})
	s.ToggleItemCompleted(ctx, b.ID)

	groups := s.GetItemsByCategory()
	require.Len(t, groups, 2)
	assert.Equal(t, pantrypal.CategoryFreshProduce, groups[0].Category)
	assert.Len(t, groups[0].Items, 2)
	assert.Equal(t, "Carrots", groups[0].Items[1].Name)
	assert.Equal(t, pantrypal.CategoryCannedGoods, groups[1].Category)

	p := s.GetItemsByCompletionStatus()
	require.Len(t, p.Completed, 1)
	assert.Equal(t, "Beans", p.Completed[0].Name)
	assert.Len(t, p.Uncompleted, 2)
}

func TestStore_Rehydrate(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStore()
	legacy := `[{"id":"x","name":"Eggs","quantity":12,"completed":true},{"name":"Rice","quantity":"1 kg","category":"grains & pasta"}]`
	require.NoError(t, backend.Set(ctx, storage.KeyShoppingList, []byte(legacy)))

	s, _ := newTestStore(t, backend)
	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, Item{ID: "x", Name: "Eggs", Quantity: "12", Category: pantrypal.CategoryOther, Completed: true}, items[0])
	assert.NotEmpty(t, items[1].ID)
	assert.Equal(t, pantrypal.CategoryGrainsPasta, items[1].Category)
	assert.Equal(t, "1 kg", items[1].Quantity)
}

func TestStore_EmptyWhenUnreadable(t *testing.T) {
	ctx := context.Background()
	s, events := newTestStore(t, storage.NewMemoryStoreWithError(errors.New("disk gone")))
	assert.NotNil(t, s.Items())
	assert.Empty(t, s.Items())

	s.AddItem(ctx, ItemInput{Name: "Salt"})
	assert.Len(t, s.Items(), 1)
	require.Len(t, events.events, 1)
	assert.False(t, events.events[0].Persisted)
}

func TestItemInput_NumericQuantity(t *testing.T) {
	var in ItemInput
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Eggs","quantity":6}`), &in))
	assert.Equal(t, "6", in.Quantity)
}

type blockingLogger struct {
	entered chan pantrypal.StoreEvent
	release chan struct{}
}

func (b *blockingLogger) LogEvent(e pantrypal.StoreEvent) error {
	b.entered <- e
	<-b.release
	return nil
}

func TestStore_SlowEventSinkDoesNotHoldTheLock(t *testing.T) {
	ctx := context.Background()
	sink := &blockingLogger{entered: make(chan pantrypal.StoreEvent, 1), release: make(chan struct{})}
	s := NewStore(ctx, storage.NewMemoryStore(), sink)

	go s.AddItem(ctx, ItemInput{Name: "Eggs"})
	require.Equal(t, "add", (<-sink.entered).Op)

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.Len(t, s.Items(), 1)
		assert.Len(t, s.GetItemsByCompletionStatus().Uncompleted, 1)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("store calls blocked behind a slow event sink")
	}
	close(sink.release)
}
