package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadedpez/cardtable/internal/types"
	"github.com/fadedpez/cardtable/pkg/entities"
)

func TestPluckRemovesCard(t *testing.T) {
	h := NewHand(
		entities.NewCard(entities.Clubs, entities.Nine),
		entities.NewCard(entities.Spades, entities.Queen),
	)

	card, err := h.Pluck(entities.Clubs, entities.Nine)
	require.NoError(t, err)
	assert.True(t, card.Is(entities.Clubs, entities.Nine))
	assert.Equal(t, 1, h.Len())
	assert.False(t, h.Holds(entities.Clubs, entities.Nine))
}

func TestPluckMissingCard(t *testing.T) {
	h := NewHand(entities.NewCard(entities.Hearts, entities.Two))

	card, err := h.Pluck(entities.Hearts, entities.Three)
	assert.Nil(t, card)
	assert.True(t, types.IsGameError(err, types.ErrCardNotHeld))
	assert.Equal(t, 1, h.Len(), "a rejected pluck must not change the hand")
}

func TestHasSuitAndOnlySuit(t *testing.T) {
	h := NewHand(
		entities.NewCard(entities.Spades, entities.Two),
		entities.NewCard(entities.Spades, entities.King),
	)

	assert.True(t, h.HasSuit(entities.Spades))
	assert.False(t, h.HasSuit(entities.Hearts))
	assert.True(t, h.OnlySuit(entities.Spades))

	h.Add(entities.NewCard(entities.Diamonds, entities.Five))
	assert.False(t, h.OnlySuit(entities.Spades))

	empty := NewHand()
	assert.False(t, empty.OnlySuit(entities.Spades))
}

func TestGroupBySuit(t *testing.T) {
	h := NewHand(
		entities.NewCard(entities.Hearts, entities.Four),
		entities.NewCard(entities.Hearts, entities.Ace),
		entities.NewCard(entities.Hearts, entities.Ten),
		entities.NewCard(entities.Clubs, entities.Seven),
	)

	groups := h.GroupBySuit(entities.CompareContext{AceHigh: true})
	require.Len(t, groups, 2)
	require.Len(t, groups[entities.Hearts], 3)

	// Sorted high to low, ace on top
	assert.Equal(t, entities.Ace, groups[entities.Hearts][0].Rank)
	assert.Equal(t, entities.Ten, groups[entities.Hearts][1].Rank)
	assert.Equal(t, entities.Four, groups[entities.Hearts][2].Rank)
}

func TestEmptyReturnsAllCards(t *testing.T) {
	h := NewHand(
		entities.NewCard(entities.Clubs, entities.Two),
		entities.NewCard(entities.Clubs, entities.Three),
	)

	cards := h.Empty()
	assert.Len(t, cards, 2)
	assert.Equal(t, 0, h.Len())
}
