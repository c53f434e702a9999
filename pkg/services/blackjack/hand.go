package blackjack

import (
	"github.com/fadedpez/cardtable/internal/types"
	"github.com/fadedpez/cardtable/pkg/entities"
)

// Status represents the current state of a hand
type Status string

const (
	StatusPlaying Status = "PLAYING"
	StatusBust    Status = "BUST"
	StatusStand   Status = "STAND"
)

// Hand represents a player's blackjack hand with its bet
type Hand struct {
	Cards  []*entities.Card
	Status Status
	Bet    int64
}

// NewHand creates an empty hand in the playing state
func NewHand() *Hand {
	return &Hand{
		Cards:  make([]*entities.Card, 0, 4),
		Status: StatusPlaying,
	}
}

// AddCard adds a card to the hand, busting it when it goes over 21
func (h *Hand) AddCard(card *entities.Card) error {
	if h.Status != StatusPlaying {
		return types.NewGameError(types.ErrIllegalMove, "hand is not playing")
	}
	if card == nil {
		return types.NewGameError(types.ErrInternalError, "no card to deal")
	}

	h.Cards = append(h.Cards, card)
	if IsBust(h.Cards) {
		h.Status = StatusBust
	}
	return nil
}

// Stand marks the hand as stood
func (h *Hand) Stand() error {
	if h.Status != StatusPlaying {
		return types.NewGameError(types.ErrIllegalMove, "hand is not playing")
	}
	h.Status = StatusStand
	return nil
}

// Value returns the best score for the hand
func (h *Hand) Value() int {
	return BestScore(h.Cards)
}

// Done reports whether the hand can take no more cards
func (h *Hand) Done() bool {
	return h.Status != StatusPlaying
}
