package engine

import (
	"github.com/fadedpez/cardtable/internal/types"
	"github.com/fadedpez/cardtable/pkg/entities"
)

// PlayedCard records a card along with the player who played it.
type PlayedCard struct {
	PlayerID string
	Card     *entities.Card
}

// Round tracks trick state for one deal of a trick-taking game: the
// cards played so far this trick, the suit led, and whether trump has
// been broken. The broken flag survives trick resets and clears only
// when a new Round is created for the next deal.
type Round struct {
	cc     entities.CompareContext
	played []PlayedCard
	led    entities.Suit
	broken bool
}

// NewRound starts trick tracking for a fresh deal. The compare context
// fixes the trump suit and ace ordering for the whole deal.
func NewRound(cc entities.CompareContext) *Round {
	return &Round{cc: cc}
}

// Trump returns the round's trump suit.
func (r *Round) Trump() entities.Suit {
	return r.cc.Trump
}

// LedSuit returns the suit led this trick, or NoSuit before the first
// card is played.
func (r *Round) LedSuit() entities.Suit {
	return r.led
}

// TrumpBroken reports whether trump has been played this round.
func (r *Round) TrumpBroken() bool {
	return r.broken
}

// Played returns the cards played so far this trick, in play order.
func (r *Round) Played() []PlayedCard {
	return r.played
}

// CanPlay checks the follow-suit and trump-breaking rules for a card
// out of the given hand. It must be called before the card leaves the
// hand; a non-nil error is a rejected move, not a fault.
//
// Leading: any card is legal except unbroken trump, unless the hand
// holds nothing but trump. Following: a card of the led suit is always
// legal; anything goes, trump included, when the hand cannot follow.
func (r *Round) CanPlay(hand *Hand, card *entities.Card) error {
	if len(r.played) == 0 {
		if card.Suit == r.cc.Trump && !r.broken && !hand.OnlySuit(r.cc.Trump) {
			return types.NewGameError(types.ErrIllegalMove, "trump has not been broken yet")
		}
		return nil
	}
	if card.Suit != r.led && hand.HasSuit(r.led) {
		return types.NewGameError(types.ErrIllegalMove, "must follow the led suit")
	}
	return nil
}

// Play records a card for the acting player. The first card of a trick
// sets the led suit; any trump play breaks trump for the round.
func (r *Round) Play(playerID string, card *entities.Card) {
	if len(r.played) == 0 {
		r.led = card.Suit
	}
	if card.Suit == r.cc.Trump {
		r.broken = true
	}
	r.played = append(r.played, PlayedCard{PlayerID: playerID, Card: card})
}

// WinningCard returns the play currently winning the trick. Only cards
// of the led suit or trump can win; off-suit discards never do. The
// result depends only on the set of plays, not their order, because no
// card value repeats within a deal.
func (r *Round) WinningCard() (PlayedCard, bool) {
	var best PlayedCard
	found := false
	for _, pc := range r.played {
		if pc.Card.Suit != r.led && pc.Card.Suit != r.cc.Trump {
			continue
		}
		if !found || entities.Compare(pc.Card, best.Card, r.cc) > 0 {
			best = pc
			found = true
		}
	}
	return best, found
}

// ResetTrick clears the played cards and led suit for the next trick
// and returns the finished trick's cards so the caller can move them
// to the discard pile. The trump-broken flag persists.
func (r *Round) ResetTrick() []*entities.Card {
	cards := make([]*entities.Card, 0, len(r.played))
	for _, pc := range r.played {
		cards = append(cards, pc.Card)
	}
	r.played = nil
	r.led = entities.NoSuit
	return cards
}
