package game

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fadedpez/cardtable/pkg/entities"
	mock_game "github.com/fadedpez/cardtable/pkg/repositories/game/mock"
)

func newTestESRepository(t *testing.T, base Repository) *ElasticsearchRepository {
	t.Helper()

	repo, err := NewElasticsearchRepository(base, ElasticsearchConfig{
		Addresses: []string{"http://localhost:9200"},
	}, zerolog.Nop())
	require.NoError(t, err)
	return repo
}

func TestElasticsearchRepository_DelegatesDeckOperations(t *testing.T) {
	ctrl := gomock.NewController(t)
	base := mock_game.NewMockRepository(ctrl)
	repo := newTestESRepository(t, base)

	ctx := context.Background()
	deck := entities.NewDeck().Cards

	base.EXPECT().SaveDeck(ctx, "table1", deck).Return(nil)
	require.NoError(t, repo.SaveDeck(ctx, "table1", deck))

	base.EXPECT().GetDeck(ctx, "table1").Return(deck, nil)
	got, err := repo.GetDeck(ctx, "table1")
	require.NoError(t, err)
	assert.Equal(t, deck, got)
}

func TestElasticsearchRepository_DelegatesResultReads(t *testing.T) {
	ctrl := gomock.NewController(t)
	base := mock_game.NewMockRepository(ctrl)
	repo := newTestESRepository(t, base)

	ctx := context.Background()
	results := []*entities.GameResult{{ID: "game1", TableID: "table1"}}

	base.EXPECT().GetPlayerResults(ctx, "alice").Return(results, nil)
	got, err := repo.GetPlayerResults(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, results, got)

	base.EXPECT().GetTableResults(ctx, "table1", 5).Return(results, nil)
	got, err = repo.GetTableResults(ctx, "table1", 5)
	require.NoError(t, err)
	assert.Equal(t, results, got)

	base.EXPECT().Close().Return(nil)
	require.NoError(t, repo.Close())
}

func TestElasticsearchRepository_IndexPrefixDefault(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := newTestESRepository(t, mock_game.NewMockRepository(ctrl))

	assert.Equal(t, "cardtable-game-results", repo.index)
}
