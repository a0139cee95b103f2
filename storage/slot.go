package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
)

// Slot binds one key of a Store to a Go type. Load is called once when a store starts and
// Save after every mutation. Neither reports failure to the caller: a broken read falls back
// to the zero value and a broken write is logged and dropped.
type Slot[T any] struct {
	store Store
	key   string
}

func NewSlot[T any](store Store, key string) *Slot[T] {
	return &Slot[T]{store: store, key: key}
}

func (s *Slot[T]) Key() string { return s.key }

// Load reads and decodes the slot. Absent, unreadable, or malformed slots yield the zero value.
func (s *Slot[T]) Load(ctx context.Context) T {
	var zero T

	b, err := s.store.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Error("STORAGE: Failed to read slot", "key", s.key, "error", err)
		}
		return zero
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return zero
	}

	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		slog.Error("STORAGE: Failed to parse slot", "key", s.key, "error", err)
		return zero
	}
	return v
}

// Save encodes v and overwrites the slot, reporting whether the write succeeded.
func (s *Slot[T]) Save(ctx context.Context, v T) bool {
	b, err := json.Marshal(v)
	if err != nil {
		slog.Error("STORAGE: Failed to encode slot", "key", s.key, "error", err)
		return false
	}
	if err := s.store.Set(ctx, s.key, b); err != nil {
		slog.Error("STORAGE: Failed to save slot", "key", s.key, "error", err)
		return false
	}
	return true
}

// Clear removes the slot.
func (s *Slot[T]) Clear(ctx context.Context) bool {
	if err := s.store.Delete(ctx, s.key); err != nil {
		slog.Error("STORAGE: Failed to remove slot", "key", s.key, "error", err)
		return false
	}
	return true
}
