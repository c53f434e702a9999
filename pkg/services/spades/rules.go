package spades

import (
	"time"

	"github.com/fadedpez/cardtable/pkg/entities"
)

const (
	MinPlayers = 2
	MaxPlayers = 4
)

// Config carries the tunable rules for one game. Zero values fall
// back to the standard four-player, 500-point game.
type Config struct {
	HandSize    int  // cards dealt to each player per round
	ScoreTarget int  // cumulative score that ends the game
	AutoStart   bool // start as soon as the table is full

	Trump  entities.Suit
	AceLow bool // rank aces below deuces instead of above kings

	BidTimeout  time.Duration // budget for a player's whole bid turn
	PlayTimeout time.Duration // budget for a player's whole card turn

	// Scoring knobs
	TrickValue int // points per bid trick when the bid is made
	BagLimit   int // accumulated overtricks that trigger the penalty
	BagPenalty int // points lost when the bag limit is reached
	NilBonus   int // made-nil bonus; a failed nil loses the same
	MoonBonus  int // made-moon bonus; a failed moon loses the same
}

// DefaultConfig returns the standard rules.
func DefaultConfig() Config {
	return Config{
		HandSize:    13,
		ScoreTarget: 500,
		Trump:       entities.Spades,
		BidTimeout:  45 * time.Second,
		PlayTimeout: 60 * time.Second,
		TrickValue:  10,
		BagLimit:    10,
		BagPenalty:  100,
		NilBonus:    100,
		MoonBonus:   200,
	}
}

// CompareContext returns the card ordering the rules imply.
func (c Config) CompareContext() entities.CompareContext {
	return entities.CompareContext{AceHigh: !c.AceLow, Trump: c.Trump}
}

// WithDefaults fills zero fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.HandSize <= 0 {
		c.HandSize = def.HandSize
	}
	if c.ScoreTarget <= 0 {
		c.ScoreTarget = def.ScoreTarget
	}
	if c.Trump == entities.NoSuit {
		c.Trump = def.Trump
	}
	if c.BidTimeout <= 0 {
		c.BidTimeout = def.BidTimeout
	}
	if c.PlayTimeout <= 0 {
		c.PlayTimeout = def.PlayTimeout
	}
	if c.TrickValue <= 0 {
		c.TrickValue = def.TrickValue
	}
	if c.BagLimit <= 0 {
		c.BagLimit = def.BagLimit
	}
	if c.BagPenalty <= 0 {
		c.BagPenalty = def.BagPenalty
	}
	if c.NilBonus <= 0 {
		c.NilBonus = def.NilBonus
	}
	if c.MoonBonus <= 0 {
		c.MoonBonus = def.MoonBonus
	}
	return c
}
