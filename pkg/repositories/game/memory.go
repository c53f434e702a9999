package game

import (
	"context"
	"sync"

	"github.com/fadedpez/cardtable/pkg/entities"
)

// MemoryRepository implements Repository interface with in-memory storage
type MemoryRepository struct {
	mu sync.RWMutex
	// Map of tableID to deck
	decks map[string][]*entities.Card
	// Map of tableID to game results
	tableResults map[string][]*entities.GameResult
	// Map of playerID to game results
	playerResults map[string][]*entities.GameResult
}

// NewMemoryRepository creates a new in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		decks:         make(map[string][]*entities.Card),
		tableResults:  make(map[string][]*entities.GameResult),
		playerResults: make(map[string][]*entities.GameResult),
	}
}

// SaveDeck stores a deck for a table
func (r *MemoryRepository) SaveDeck(ctx context.Context, tableID string, deck []*entities.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.decks[tableID] = deck
	return nil
}

// GetDeck retrieves a deck for a table; nil means no deck is stored
func (r *MemoryRepository) GetDeck(ctx context.Context, tableID string) ([]*entities.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	deck, exists := r.decks[tableID]
	if !exists {
		return nil, nil
	}
	return deck, nil
}

// SaveGameResult stores a game result under both the table and every
// participating player
func (r *MemoryRepository) SaveGameResult(ctx context.Context, result *entities.GameResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tableResults[result.TableID] = append(r.tableResults[result.TableID], result)
	for _, pr := range result.PlayerResults {
		r.playerResults[pr.PlayerID] = append(r.playerResults[pr.PlayerID], result)
	}
	return nil
}

// GetPlayerResults retrieves game results for a player
func (r *MemoryRepository) GetPlayerResults(ctx context.Context, playerID string) ([]*entities.GameResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := r.playerResults[playerID]
	if results == nil {
		return []*entities.GameResult{}, nil
	}
	return results, nil
}

// GetTableResults retrieves recent game results for a table
func (r *MemoryRepository) GetTableResults(ctx context.Context, tableID string, limit int) ([]*entities.GameResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := r.tableResults[tableID]
	if results == nil {
		return []*entities.GameResult{}, nil
	}
	if limit > 0 && len(results) > limit {
		return results[len(results)-limit:], nil
	}
	return results, nil
}

// Close is a no-op for memory repository since there are no resources to close
func (r *MemoryRepository) Close() error {
	return nil
}
