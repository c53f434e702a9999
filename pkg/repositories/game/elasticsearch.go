package game

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/rs/zerolog"

	"github.com/fadedpez/cardtable/pkg/entities"
)

// ElasticsearchConfig holds connection options for the result indexer
type ElasticsearchConfig struct {
	Addresses   []string
	Username    string
	Password    string
	IndexPrefix string
}

// ElasticsearchRepository decorates a base Repository, indexing every
// completed game result for external searching and dashboards. Reads
// and deck state go straight to the base repository; the index is a
// write-only observability sink, not a source of truth.
type ElasticsearchRepository struct {
	baseRepo Repository
	client   *elasticsearch.Client
	index    string
	log      zerolog.Logger
}

// resultDocument is the indexed shape of one player's result line.
type resultDocument struct {
	GameID       string    `json:"game_id"`
	TableID      string    `json:"table_id"`
	GameType     string    `json:"game_type"`
	PlayerID     string    `json:"player_id"`
	Result       string    `json:"result"`
	Score        int       `json:"score"`
	Abandoned    bool      `json:"abandoned"`
	RoundsPlayed int       `json:"rounds_played"`
	CompletedAt  time.Time `json:"completed_at"`
}

// NewElasticsearchRepository wraps a base repository with result indexing
func NewElasticsearchRepository(baseRepo Repository, config ElasticsearchConfig, log zerolog.Logger) (*ElasticsearchRepository, error) {
	cfg := elasticsearch.Config{
		Addresses: config.Addresses,
		Username:  config.Username,
		Password:  config.Password,
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}

	prefix := config.IndexPrefix
	if prefix == "" {
		prefix = "cardtable"
	}

	return &ElasticsearchRepository{
		baseRepo: baseRepo,
		client:   client,
		index:    prefix + "-game-results",
		log:      log.With().Str("component", "es_repository").Logger(),
	}, nil
}

// SaveDeck delegates to the base repository
func (r *ElasticsearchRepository) SaveDeck(ctx context.Context, tableID string, deck []*entities.Card) error {
	return r.baseRepo.SaveDeck(ctx, tableID, deck)
}

// GetDeck delegates to the base repository
func (r *ElasticsearchRepository) GetDeck(ctx context.Context, tableID string) ([]*entities.Card, error) {
	return r.baseRepo.GetDeck(ctx, tableID)
}

// SaveGameResult stores the result in the base repository, then
// indexes one document per player line. Indexing failures are logged
// and swallowed: losing a dashboard document must not fail a game.
func (r *ElasticsearchRepository) SaveGameResult(ctx context.Context, result *entities.GameResult) error {
	if err := r.baseRepo.SaveGameResult(ctx, result); err != nil {
		return err
	}

	for _, pr := range result.PlayerResults {
		doc := resultDocument{
			GameID:       result.ID,
			TableID:      result.TableID,
			GameType:     string(result.GameType),
			PlayerID:     pr.PlayerID,
			Result:       pr.Result.String(),
			Score:        pr.Score,
			Abandoned:    result.Abandoned,
			RoundsPlayed: result.RoundsPlayed,
			CompletedAt:  result.CompletedAt,
		}
		if err := r.indexDocument(ctx, fmt.Sprintf("%s-%s", result.ID, pr.PlayerID), doc); err != nil {
			r.log.Error().Err(err).Str("game_id", result.ID).Str("player_id", pr.PlayerID).
				Msg("indexing game result")
		}
	}
	return nil
}

func (r *ElasticsearchRepository) indexDocument(ctx context.Context, docID string, doc resultDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("error marshaling document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      r.index,
		DocumentID: docID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error indexing document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error response from Elasticsearch: %s", res.String())
	}
	return nil
}

// GetPlayerResults delegates to the base repository
func (r *ElasticsearchRepository) GetPlayerResults(ctx context.Context, playerID string) ([]*entities.GameResult, error) {
	return r.baseRepo.GetPlayerResults(ctx, playerID)
}

// GetTableResults delegates to the base repository
func (r *ElasticsearchRepository) GetTableResults(ctx context.Context, tableID string, limit int) ([]*entities.GameResult, error) {
	return r.baseRepo.GetTableResults(ctx, tableID, limit)
}

// Close closes the base repository
func (r *ElasticsearchRepository) Close() error {
	return r.baseRepo.Close()
}
