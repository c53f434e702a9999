package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cardCounts(cards []*Card) map[Card]int {
	counts := make(map[Card]int)
	for _, c := range cards {
		counts[*c]++
	}
	return counts
}

func TestNewDeckHasAllCards(t *testing.T) {
	deck := NewDeck()
	require.Equal(t, DeckSize, deck.Len())

	counts := cardCounts(deck.Cards)
	assert.Len(t, counts, DeckSize, "every suit/rank pair appears exactly once")
	for card, n := range counts {
		assert.Equal(t, 1, n, "duplicate card %v", card)
	}
}

func TestMultiDeckRefill(t *testing.T) {
	deck := NewMultiDeck(6)
	require.Equal(t, 6*DeckSize, deck.Len())

	deck.DrawN(100)
	deck.Refill()
	assert.Equal(t, 6*DeckSize, deck.Len())

	for _, n := range cardCounts(deck.Cards) {
		assert.Equal(t, 6, n)
	}
}

func TestShufflePreservesMultiset(t *testing.T) {
	deck := NewDeck()
	before := cardCounts(deck.Cards)

	deck.Shuffle()

	require.Equal(t, DeckSize, deck.Len())
	assert.Equal(t, before, cardCounts(deck.Cards))
}

func TestDrawEmptyDeck(t *testing.T) {
	deck := NewDeck()
	deck.DrawN(DeckSize)

	require.Equal(t, 0, deck.Len())
	assert.Nil(t, deck.Draw(), "empty draw reports no card, never panics")
	assert.Nil(t, deck.DrawN(5))
}

func TestDrawNShortfall(t *testing.T) {
	deck := NewDeck()
	deck.DrawN(50)

	got := deck.DrawN(13)
	assert.Len(t, got, 2, "short draw returns what remains")
	assert.Equal(t, 0, deck.Len())
}

func TestInsertReturnsCards(t *testing.T) {
	deck := NewDeck()
	drawn := deck.DrawN(13)
	require.Len(t, drawn, 13)
	require.Equal(t, DeckSize-13, deck.Len())

	deck.Insert(drawn...)
	assert.Equal(t, DeckSize, deck.Len())
	for _, n := range cardCounts(deck.Cards) {
		assert.Equal(t, 1, n, "insert must not duplicate cards")
	}
}
