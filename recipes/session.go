package recipes

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"pantrypal"
	"pantrypal/storage"
)

// MaxRecentRecipes caps the recently viewed list.
const MaxRecentRecipes = 10

// ErrMissingAPIKey is the message shown when a lookup is attempted without a key.
const ErrMissingAPIKey = "API key not set. Please set your Spoonacular API key"

// API is the recipe service as the session uses it. *Client satisfies it.
type API interface {
	FindByIngredients(ctx context.Context, apiKey string, p FindParams) ([]MatchResult, error)
	Information(ctx context.Context, apiKey string, id int) (Details, error)
}

// Session holds the recipe state of one user. Lookups never return errors; a failure leaves
// the previous state in place and sets Error.
type Session struct {
	api        API
	recentSlot *storage.Slot[[]Details]
	keySlot    *storage.Slot[string]
	events     pantrypal.EventLogger

	mu       sync.RWMutex
	apiKey   string
	recent   []Details
	results  []MatchResult
	errMsg   string
	inflight int
	// generation orders searches; only the most recently issued one may replace results.
	generation uint64
}

// NewSession loads the recent recipes and the saved API key. A saved key wins over
// defaultAPIKey.
func NewSession(ctx context.Context, api API, backend storage.Store, defaultAPIKey string, events pantrypal.EventLogger) *Session {
	if events == nil {
		events = pantrypal.NewNoOpEventLogger()
	}
	s := &Session{
		api:        api,
		recentSlot: storage.NewSlot[[]Details](backend, storage.KeyRecentRecipes),
		keySlot:    storage.NewSlot[string](backend, storage.KeyAPIKey),
		events:     events,
		results:    []MatchResult{},
	}

	s.recent = s.recentSlot.Load(ctx)
	if s.recent == nil {
		s.recent = []Details{}
	}
	if len(s.recent) > MaxRecentRecipes {
		s.recent = s.recent[:MaxRecentRecipes]
	}

	s.apiKey = strings.TrimSpace(s.keySlot.Load(ctx))
	if s.apiKey == "" {
		s.apiKey = strings.TrimSpace(defaultAPIKey)
	}

	slog.Info("RECIPES: Session loaded", "recent", len(s.recent), "api_key_set", s.apiKey != "")
	return s
}

func (s *Session) APIKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apiKey
}

// SetAPIKey replaces and persists the API key. An empty key unsets it and removes the saved
// slot, so the configured default applies again after a restart.
func (s *Session) SetAPIKey(ctx context.Context, key string) {
	var ev pantrypal.StoreEvent
	defer s.emit(&ev)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.apiKey = strings.TrimSpace(key)
	var saved bool
	if s.apiKey == "" {
		saved = s.keySlot.Clear(ctx)
	} else {
		saved = s.keySlot.Save(ctx, s.apiKey)
	}
	ev = s.event("api_key", 0, "", saved)
}

// Error is the message of the last failed lookup, or "" after a lookup starts.
func (s *Session) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// Loading reports whether any lookup is in flight.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

// Results is the result list of the most recently issued successful search.
func (s *Session) Results() []MatchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]MatchResult{}, s.results...)
}

func (s *Session) RecentRecipes() []Details {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Details{}, s.recent...)
}

// FindRecipesByIngredients runs one search and returns its results, or an empty list when
// the key is unset or the call fails. When searches overlap, the one issued last decides
// what Results holds regardless of which answer arrives first.
func (s *Session) FindRecipesByIngredients(ctx context.Context, p FindParams) []MatchResult {
	key, gen, ok := s.begin(true)
	if !ok {
		return []MatchResult{}
	}

	results, err := s.api.FindByIngredients(ctx, key, p)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--

	latest := gen == s.generation
	if err != nil {
		if latest {
			s.errMsg = "Failed to fetch recipes: " + err.Error()
		}
		return []MatchResult{}
	}
	if latest {
		s.results = append([]MatchResult{}, results...)
	}
	return results
}

// GetRecipeDetails fetches one recipe and moves it to the front of the recent list. It
// returns nil on failure.
func (s *Session) GetRecipeDetails(ctx context.Context, id int) *Details {
	var ev pantrypal.StoreEvent
	defer s.emit(&ev)

	key, _, ok := s.begin(false)
	if !ok {
		return nil
	}

	d, err := s.api.Information(ctx, key, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--

	if err != nil {
		s.errMsg = "Failed to fetch recipe details: " + err.Error()
		return nil
	}
	ev = s.addRecent(ctx, d)
	return &d
}

// begin checks the key and marks a lookup as started. Searches also take a new generation.
func (s *Session) begin(search bool) (key string, gen uint64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.apiKey == "" {
		s.errMsg = ErrMissingAPIKey
		return "", 0, false
	}
	s.errMsg = ""
	s.inflight++
	if search {
		s.generation++
	}
	return s.apiKey, s.generation, true
}

// AddToRecentRecipes puts d at the front of the recent list, replacing any entry with the
// same id.
func (s *Session) AddToRecentRecipes(ctx context.Context, d Details) {
	var ev pantrypal.StoreEvent
	defer s.emit(&ev)

	s.mu.Lock()
	defer s.mu.Unlock()
	ev = s.addRecent(ctx, d)
}

// addRecent must be called with the write lock held.
func (s *Session) addRecent(ctx context.Context, d Details) pantrypal.StoreEvent {
	recent := make([]Details, 0, MaxRecentRecipes)
	recent = append(recent, d)
	for _, r := range s.recent {
		if r.ID == d.ID {
			continue
		}
		if len(recent) == MaxRecentRecipes {
			break
		}
		recent = append(recent, r)
	}
	s.recent = recent

	saved := s.recentSlot.Save(ctx, s.recent)
	return s.event("recent_add", d.ID, d.Title, saved)
}

func (s *Session) ClearRecentRecipes(ctx context.Context) {
	var ev pantrypal.StoreEvent
	defer s.emit(&ev)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.recent = []Details{}
	saved := s.recentSlot.Save(ctx, s.recent)
	ev = s.event("recent_clear", 0, "", saved)
}

func (s *Session) event(op string, id int, title string, saved bool) pantrypal.StoreEvent {
	ev := pantrypal.StoreEvent{
		Store:     pantrypal.StoreRecipes,
		Op:        op,
		ItemName:  title,
		Count:     len(s.recent),
		Persisted: saved,
	}
	if id != 0 {
		ev.ItemID = strconv.Itoa(id)
	}
	return ev
}

// emit is deferred ahead of the unlock so event sinks run without the session lock.
func (s *Session) emit(ev *pantrypal.StoreEvent) {
	if ev.Op != "" {
		pantrypal.Emit(s.events, *ev)
	}
}
