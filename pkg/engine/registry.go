package engine

import (
	"sync"

	"github.com/fadedpez/cardtable/internal/types"
)

// Registry tracks the active game per table. Creation is atomic with
// respect to the table key, so two concurrent join requests cannot
// start two games at the same table.
type Registry[T any] struct {
	mu     sync.Mutex
	tables map[string]T
}

// NewRegistry creates an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{tables: make(map[string]T)}
}

// Create builds and registers a game for the table if none is active.
// The builder runs under the registry lock, only when the slot is
// free; a busy table returns the existing game and ErrTableBusy.
func (r *Registry[T]) Create(tableID string, build func() T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.tables[tableID]; ok {
		return existing, types.NewGameError(types.ErrTableBusy, "table already has an active game")
	}
	game := build()
	r.tables[tableID] = game
	return game, nil
}

// Get returns the active game for the table, if any.
func (r *Registry[T]) Get(tableID string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	game, ok := r.tables[tableID]
	return game, ok
}

// Remove frees the table for the next game.
func (r *Registry[T]) Remove(tableID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tables, tableID)
}

// Keys returns the tables that currently have an active game.
func (r *Registry[T]) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.tables))
	for k := range r.tables {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of active games.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tables)
}
