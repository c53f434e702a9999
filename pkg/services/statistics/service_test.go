package statistics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadedpez/cardtable/pkg/entities"
	gameRepo "github.com/fadedpez/cardtable/pkg/repositories/game"
)

func saveResult(t *testing.T, repo gameRepo.Repository, id string, result entities.Result, score int, abandoned bool) {
	t.Helper()
	require.NoError(t, repo.SaveGameResult(context.Background(), &entities.GameResult{
		ID:          id,
		TableID:     "table1",
		GameType:    entities.GameSpades,
		CompletedAt: time.Now().UTC(),
		Abandoned:   abandoned,
		PlayerResults: []*entities.PlayerResult{
			{PlayerID: "alice", Result: result, Score: score},
		},
	}))
}

func TestPlayerStats(t *testing.T) {
	repo := gameRepo.NewMemoryRepository()
	svc := NewService(repo)

	saveResult(t, repo, "g1", entities.ResultWin, 510, false)
	saveResult(t, repo, "g2", entities.ResultWin, 480, false)
	saveResult(t, repo, "g3", entities.ResultLose, 300, false)
	saveResult(t, repo, "g4", "", 0, true)

	stats, err := svc.PlayerStats(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, 4, stats.GamesPlayed)
	assert.Equal(t, 2, stats.Wins)
	assert.Equal(t, 1, stats.Losses)
	assert.Equal(t, 1, stats.Abandoned)
	assert.Equal(t, 510, stats.BestScore)
	assert.InDelta(t, 2.0/3.0, stats.WinRate(), 1e-9)
	assert.Equal(t, -1, stats.CurrentStreak, "latest finished game was a loss")
	assert.Equal(t, 4, stats.ByGameType[entities.GameSpades])
}

func TestPlayerStatsStreak(t *testing.T) {
	repo := gameRepo.NewMemoryRepository()
	svc := NewService(repo)

	saveResult(t, repo, "g1", entities.ResultLose, 100, false)
	saveResult(t, repo, "g2", entities.ResultWin, 500, false)
	saveResult(t, repo, "g3", entities.ResultWin, 520, false)

	stats, err := svc.PlayerStats(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.CurrentStreak)
}

func TestPlayerStatsEmpty(t *testing.T) {
	svc := NewService(gameRepo.NewMemoryRepository())

	stats, err := svc.PlayerStats(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Zero(t, stats.GamesPlayed)
	assert.Zero(t, stats.WinRate())
}
