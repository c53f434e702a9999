package discord

import (
	"fmt"
	"strings"

	"github.com/fadedpez/cardtable/pkg/entities"
)

var suitSymbols = map[entities.Suit]string{
	entities.Hearts:   "♥",
	entities.Diamonds: "♦",
	entities.Clubs:    "♣",
	entities.Spades:   "♠",
}

// FormatCard renders a card as rank plus suit symbol, e.g. "Q♠"
func FormatCard(card *entities.Card) string {
	if card == nil {
		return "??"
	}
	return string(card.Rank) + suitSymbols[card.Suit]
}

// FormatCards renders a hand as a space-separated row
func FormatCards(cards []*entities.Card) string {
	parts := make([]string, 0, len(cards))
	for _, card := range cards {
		parts = append(parts, FormatCard(card))
	}
	return strings.Join(parts, " ")
}

// FormatScore renders a hand with its blackjack score attached
func FormatScore(cards []*entities.Card, score int) string {
	return fmt.Sprintf("%s (%d)", FormatCards(cards), score)
}
