package blackjack

import (
	"strconv"

	"github.com/fadedpez/cardtable/pkg/entities"
)

const (
	StandardDecks      = 6  // Number of decks in the shoe
	ReshuffleThreshold = 75 // Reshuffle when fewer cards than this remain
	MaxPlayers         = 7
	DealerStandScore   = 17
)

// CardValue returns the blackjack value of a card, counting aces high
func CardValue(card *entities.Card) int {
	switch card.Rank {
	case entities.Ace:
		return 11
	case entities.Jack, entities.Queen, entities.King:
		return 10
	default:
		val, _ := strconv.Atoi(string(card.Rank))
		return val
	}
}

// BestScore returns the highest score for the cards that does not bust,
// or the minimum score when every combination busts
func BestScore(cards []*entities.Card) int {
	score := 0
	aces := 0

	for _, card := range cards {
		if card.Rank == entities.Ace {
			aces++
		} else {
			score += CardValue(card)
		}
	}

	// Count every ace as one, then promote a single ace to eleven when
	// it fits. At most one ace can ever count eleven without busting.
	score += aces
	if aces > 0 && score+10 <= 21 {
		score += 10
	}

	return score
}

// IsBlackjack reports a natural, a two-card 21
func IsBlackjack(cards []*entities.Card) bool {
	return len(cards) == 2 && BestScore(cards) == 21
}

// IsBust reports whether a hand exceeds 21
func IsBust(cards []*entities.Card) bool {
	return BestScore(cards) > 21
}

// CompareHands returns 1 if hand1 wins, -1 if hand2 wins, 0 on push
func CompareHands(hand1, hand2 []*entities.Card) int {
	bj1, bj2 := IsBlackjack(hand1), IsBlackjack(hand2)
	switch {
	case bj1 && !bj2:
		return 1
	case !bj1 && bj2:
		return -1
	case bj1 && bj2:
		return 0
	}

	bust1, bust2 := IsBust(hand1), IsBust(hand2)
	switch {
	case bust1 && !bust2:
		return -1
	case !bust1 && bust2:
		return 1
	case bust1 && bust2:
		return 0
	}

	score1, score2 := BestScore(hand1), BestScore(hand2)
	switch {
	case score1 > score2:
		return 1
	case score1 < score2:
		return -1
	default:
		return 0
	}
}

// NewShoe creates a shuffled multi-deck shoe
func NewShoe() *entities.Deck {
	deck := entities.NewMultiDeck(StandardDecks)
	deck.Shuffle()
	return deck
}

// ShouldReshuffle reports whether the shoe is running low
func ShouldReshuffle(deck *entities.Deck) bool {
	return deck.Len() < ReshuffleThreshold
}
