package statistics

import (
	"context"

	"github.com/fadedpez/cardtable/pkg/entities"
	gameRepo "github.com/fadedpez/cardtable/pkg/repositories/game"
)

// Service computes player statistics from stored game results
type Service struct {
	repo gameRepo.Repository
}

// NewService creates a new statistics service
func NewService(repo gameRepo.Repository) *Service {
	return &Service{repo: repo}
}

// PlayerStats summarizes one player's record
type PlayerStats struct {
	PlayerID      string
	GamesPlayed   int
	Wins          int
	Losses        int
	Pushes        int
	Abandoned     int
	CurrentStreak int // consecutive wins, negative for losses
	BestScore     int
	ByGameType    map[entities.GameType]int
}

// WinRate returns the share of finished games the player won
func (s *PlayerStats) WinRate() float64 {
	finished := s.GamesPlayed - s.Abandoned
	if finished == 0 {
		return 0
	}
	return float64(s.Wins) / float64(finished)
}

// PlayerStats builds a player's record from their stored results
func (s *Service) PlayerStats(ctx context.Context, playerID string) (*PlayerStats, error) {
	results, err := s.repo.GetPlayerResults(ctx, playerID)
	if err != nil {
		return nil, err
	}

	stats := &PlayerStats{
		PlayerID:   playerID,
		ByGameType: make(map[entities.GameType]int),
	}

	for _, result := range results {
		stats.GamesPlayed++
		stats.ByGameType[result.GameType]++

		if result.Abandoned {
			stats.Abandoned = stats.Abandoned + 1
			continue
		}

		line := playerLine(result, playerID)
		if line == nil {
			continue
		}
		if line.Score > stats.BestScore {
			stats.BestScore = line.Score
		}

		switch {
		case line.Result.IsWin():
			stats.Wins++
			if stats.CurrentStreak < 0 {
				stats.CurrentStreak = 0
			}
			stats.CurrentStreak++
		case line.Result == entities.ResultPush:
			stats.Pushes++
		default:
			stats.Losses++
			if stats.CurrentStreak > 0 {
				stats.CurrentStreak = 0
			}
			stats.CurrentStreak--
		}
	}

	return stats, nil
}

func playerLine(result *entities.GameResult, playerID string) *entities.PlayerResult {
	for _, pr := range result.PlayerResults {
		if pr.PlayerID == playerID {
			return pr
		}
	}
	return nil
}
