package entities

import "time"

// GameType identifies which game produced a result.
type GameType string

const (
	GameSpades    GameType = "SPADES"
	GameBlackjack GameType = "BLACKJACK"
)

// GameState is the lifecycle phase of a game at a table.
type GameState string

const (
	StateLobby     GameState = "LOBBY"
	StateBetting   GameState = "BETTING"
	StateDealing   GameState = "DEALING"
	StateBidding   GameState = "BIDDING"
	StatePlaying   GameState = "PLAYING"
	StateTrickPlay GameState = "TRICK_PLAY"
	StateDealer    GameState = "DEALER"
	StateScoring   GameState = "SCORING"
	StateComplete  GameState = "COMPLETE"
	StateAbandoned GameState = "ABANDONED"
)

// Terminal reports whether the state ends the game.
func (s GameState) Terminal() bool {
	return s == StateComplete || s == StateAbandoned
}

// Result represents the outcome of a player's participation in a game
type Result string

const (
	ResultWin       Result = "WIN"
	ResultLose      Result = "LOSE"
	ResultPush      Result = "PUSH"
	ResultBlackjack Result = "BLACKJACK"
)

// String returns the string representation of the result
func (r Result) String() string {
	return string(r)
}

// IsWin returns true if this result represents a win
func (r Result) IsWin() bool {
	return r == ResultWin || r == ResultBlackjack
}

// GameResult represents the outcome of any game
type GameResult struct {
	ID            string
	TableID       string
	GameType      GameType
	CompletedAt   time.Time
	Abandoned     bool
	RoundsPlayed  int
	PlayerResults []*PlayerResult
}

// PlayerResult is one player's line in a game result.
type PlayerResult struct {
	PlayerID string
	Result   Result
	Score    int
}
