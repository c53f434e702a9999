package game

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fadedpez/cardtable/pkg/entities"
)

// SQLite table schemas
const (
	createDeckTableSQL = `
	CREATE TABLE IF NOT EXISTS decks (
		table_id TEXT PRIMARY KEY,
		cards TEXT NOT NULL,  -- JSON array of cards
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	createGameResultsTableSQL = `
	CREATE TABLE IF NOT EXISTS game_results (
		id TEXT PRIMARY KEY,
		table_id TEXT NOT NULL,
		game_type TEXT NOT NULL,
		completed_at TIMESTAMP NOT NULL,
		abandoned BOOLEAN NOT NULL DEFAULT 0,
		rounds_played INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_table ON game_results(table_id)`

	createPlayerResultsTableSQL = `
	CREATE TABLE IF NOT EXISTS player_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_result_id TEXT NOT NULL,
		player_id TEXT NOT NULL,
		result TEXT NOT NULL,
		score INTEGER NOT NULL,
		FOREIGN KEY (game_result_id) REFERENCES game_results(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_player ON player_results(player_id)`
)

// SQLiteRepository implements the Repository interface using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite repository
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	// Ensure the directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	for _, schema := range []string{createDeckTableSQL, createGameResultsTableSQL, createPlayerResultsTableSQL} {
		if _, err := db.Exec(schema); err != nil {
			db.Close()
			return nil, fmt.Errorf("error creating schema: %w", err)
		}
	}

	return &SQLiteRepository{db: db}, nil
}

// SaveDeck stores a deck for a table
func (r *SQLiteRepository) SaveDeck(ctx context.Context, tableID string, deck []*entities.Card) error {
	cardsJSON, err := json.Marshal(deck)
	if err != nil {
		return fmt.Errorf("error marshaling deck: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO decks (table_id, cards, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(table_id) DO UPDATE SET cards = excluded.cards, updated_at = CURRENT_TIMESTAMP`,
		tableID, string(cardsJSON))
	if err != nil {
		return fmt.Errorf("error saving deck: %w", err)
	}
	return nil
}

// GetDeck retrieves a deck for a table; nil means no deck is stored
func (r *SQLiteRepository) GetDeck(ctx context.Context, tableID string) ([]*entities.Card, error) {
	var cardsJSON string
	err := r.db.QueryRowContext(ctx, "SELECT cards FROM decks WHERE table_id = ?", tableID).Scan(&cardsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error loading deck: %w", err)
	}

	var deck []*entities.Card
	if err := json.Unmarshal([]byte(cardsJSON), &deck); err != nil {
		return nil, fmt.Errorf("error unmarshaling deck: %w", err)
	}
	return deck, nil
}

// SaveGameResult stores a game result and its per-player lines
func (r *SQLiteRepository) SaveGameResult(ctx context.Context, result *entities.GameResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO game_results (id, table_id, game_type, completed_at, abandoned, rounds_played)
		VALUES (?, ?, ?, ?, ?, ?)`,
		result.ID, result.TableID, string(result.GameType), result.CompletedAt,
		result.Abandoned, result.RoundsPlayed)
	if err != nil {
		return fmt.Errorf("error saving game result: %w", err)
	}

	for _, pr := range result.PlayerResults {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO player_results (game_result_id, player_id, result, score)
			VALUES (?, ?, ?, ?)`,
			result.ID, pr.PlayerID, string(pr.Result), pr.Score)
		if err != nil {
			return fmt.Errorf("error saving player result: %w", err)
		}
	}

	return tx.Commit()
}

// GetPlayerResults retrieves game results for a player
func (r *SQLiteRepository) GetPlayerResults(ctx context.Context, playerID string) ([]*entities.GameResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT g.id, g.table_id, g.game_type, g.completed_at, g.abandoned, g.rounds_played
		FROM game_results g
		JOIN player_results p ON p.game_result_id = g.id
		WHERE p.player_id = ?
		ORDER BY g.completed_at`, playerID)
	if err != nil {
		return nil, fmt.Errorf("error querying player results: %w", err)
	}
	defer rows.Close()

	return r.scanResults(ctx, rows)
}

// GetTableResults retrieves recent game results for a table
func (r *SQLiteRepository) GetTableResults(ctx context.Context, tableID string, limit int) ([]*entities.GameResult, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, table_id, game_type, completed_at, abandoned, rounds_played
		FROM game_results
		WHERE table_id = ?
		ORDER BY completed_at DESC
		LIMIT ?`, tableID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying table results: %w", err)
	}
	defer rows.Close()

	return r.scanResults(ctx, rows)
}

func (r *SQLiteRepository) scanResults(ctx context.Context, rows *sql.Rows) ([]*entities.GameResult, error) {
	results := []*entities.GameResult{}
	for rows.Next() {
		result := &entities.GameResult{}
		var gameType string
		if err := rows.Scan(&result.ID, &result.TableID, &gameType, &result.CompletedAt,
			&result.Abandoned, &result.RoundsPlayed); err != nil {
			return nil, fmt.Errorf("error scanning game result: %w", err)
		}
		result.GameType = entities.GameType(gameType)
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, result := range results {
		playerRows, err := r.db.QueryContext(ctx, `
			SELECT player_id, result, score FROM player_results WHERE game_result_id = ?`, result.ID)
		if err != nil {
			return nil, fmt.Errorf("error querying player results: %w", err)
		}
		for playerRows.Next() {
			pr := &entities.PlayerResult{}
			var outcome string
			if err := playerRows.Scan(&pr.PlayerID, &outcome, &pr.Score); err != nil {
				playerRows.Close()
				return nil, fmt.Errorf("error scanning player result: %w", err)
			}
			pr.Result = entities.Result(outcome)
			result.PlayerResults = append(result.PlayerResults, pr)
		}
		playerRows.Close()
		if err := playerRows.Err(); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
