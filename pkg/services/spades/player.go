package spades

import (
	"github.com/fadedpez/cardtable/pkg/engine"
)

// Player is game-scoped state for one seat: a hand, the transient
// per-round bid and trick count, and the cumulative score. It wraps a
// chat-platform identity but is never shared between games.
type Player struct {
	ID   string
	Name string
	Hand *engine.Hand

	// Per-round state, cleared at each new deal
	Bid    Bid
	HasBid bool
	Tricks int

	// Per-game state
	Score int
	Bags  int
}

func newPlayer(id, name string) *Player {
	return &Player{
		ID:   id,
		Name: name,
		Hand: engine.NewHand(),
	}
}

// resetRound clears the per-round transient state.
func (p *Player) resetRound() {
	p.Bid = Bid{}
	p.HasBid = false
	p.Tricks = 0
}

// DisplayName returns the name if set, falling back to the ID.
func (p *Player) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}
