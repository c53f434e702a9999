package engine

import (
	"sort"
	"strings"

	"github.com/fadedpez/cardtable/internal/types"
	"github.com/fadedpez/cardtable/pkg/entities"
)

// Hand is one player's private card collection. A card lives in exactly
// one container at a time; Add and Pluck transfer ownership, they never
// copy.
type Hand struct {
	cards []*entities.Card
}

// NewHand creates an empty hand.
func NewHand(cards ...*entities.Card) *Hand {
	h := &Hand{cards: make([]*entities.Card, 0, len(cards))}
	h.Add(cards...)
	return h
}

// Add inserts cards into the hand.
func (h *Hand) Add(cards ...*entities.Card) {
	h.cards = append(h.cards, cards...)
}

// Pluck removes and returns the card matching the given suit and rank.
// A miss means the player tried to play a card they do not hold; the
// caller reports it as a rejected move.
func (h *Hand) Pluck(suit entities.Suit, rank entities.Rank) (*entities.Card, error) {
	for i, c := range h.cards {
		if c.Is(suit, rank) {
			h.cards = append(h.cards[:i], h.cards[i+1:]...)
			return c, nil
		}
	}
	return nil, types.NewGameError(types.ErrCardNotHeld, "card not in hand")
}

// Holds reports whether the hand contains the given card value.
func (h *Hand) Holds(suit entities.Suit, rank entities.Rank) bool {
	for _, c := range h.cards {
		if c.Is(suit, rank) {
			return true
		}
	}
	return false
}

// HasSuit reports whether any card in the hand matches the suit.
func (h *Hand) HasSuit(suit entities.Suit) bool {
	for _, c := range h.cards {
		if c.Suit == suit {
			return true
		}
	}
	return false
}

// OnlySuit reports whether every card in the hand matches the suit.
// An empty hand reports false.
func (h *Hand) OnlySuit(suit entities.Suit) bool {
	if len(h.cards) == 0 {
		return false
	}
	for _, c := range h.cards {
		if c.Suit != suit {
			return false
		}
	}
	return true
}

// Cards returns the cards currently held, in insertion order.
func (h *Hand) Cards() []*entities.Card {
	return h.cards
}

// Len returns the number of cards held.
func (h *Hand) Len() int {
	return len(h.cards)
}

// Empty removes and returns every card in the hand, e.g. when the
// cards go back to the discard pile after a player leaves.
func (h *Hand) Empty() []*entities.Card {
	cards := h.cards
	h.cards = nil
	return cards
}

// GroupBySuit partitions the hand for display, each suit's cards
// sorted high to low under the given ordering context.
func (h *Hand) GroupBySuit(cc entities.CompareContext) map[entities.Suit][]*entities.Card {
	groups := make(map[entities.Suit][]*entities.Card)
	for _, c := range h.cards {
		groups[c.Suit] = append(groups[c.Suit], c)
	}
	for _, cards := range groups {
		sort.SliceStable(cards, func(i, j int) bool {
			return entities.Compare(cards[i], cards[j], cc) > 0
		})
	}
	return groups
}

// String lists the held cards, for logs and debugging.
func (h *Hand) String() string {
	parts := make([]string, 0, len(h.cards))
	for _, c := range h.cards {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ", ")
}
