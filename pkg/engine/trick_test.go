package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadedpez/cardtable/internal/types"
	"github.com/fadedpez/cardtable/pkg/entities"
)

func card(s entities.Suit, r entities.Rank) *entities.Card {
	return entities.NewCard(s, r)
}

func TestFollowSuitRejection(t *testing.T) {
	r := NewRound(entities.CompareContext{AceHigh: true, Trump: entities.Spades})
	r.Play("a", card(entities.Clubs, entities.Two))

	hand := NewHand(
		card(entities.Clubs, entities.Nine),
		card(entities.Diamonds, entities.Five),
	)

	err := r.CanPlay(hand, card(entities.Diamonds, entities.Five))
	assert.True(t, types.IsGameError(err, types.ErrIllegalMove),
		"holding clubs, an off-suit play must be rejected")

	assert.NoError(t, r.CanPlay(hand, card(entities.Clubs, entities.Nine)))
}

func TestVoidInLedSuitMayPlayAnything(t *testing.T) {
	r := NewRound(entities.CompareContext{AceHigh: true, Trump: entities.Spades})
	r.Play("a", card(entities.Clubs, entities.Two))

	hand := NewHand(
		card(entities.Diamonds, entities.Five),
		card(entities.Spades, entities.Four),
		card(entities.Hearts, entities.King),
	)

	// No clubs in hand: any card is legal when following, trump included,
	// even before trump is broken.
	assert.NoError(t, r.CanPlay(hand, card(entities.Diamonds, entities.Five)))
	assert.NoError(t, r.CanPlay(hand, card(entities.Spades, entities.Four)))
	assert.False(t, r.TrumpBroken())
}

func TestLeadingTrumpBeforeBreak(t *testing.T) {
	r := NewRound(entities.CompareContext{AceHigh: true, Trump: entities.Spades})

	mixed := NewHand(
		card(entities.Spades, entities.Four),
		card(entities.Hearts, entities.Nine),
	)
	err := r.CanPlay(mixed, card(entities.Spades, entities.Four))
	assert.True(t, types.IsGameError(err, types.ErrIllegalMove),
		"unbroken trump cannot be led while other suits are held")

	// Forced exception: a hand of nothing but trump may lead it.
	allTrump := NewHand(
		card(entities.Spades, entities.Four),
		card(entities.Spades, entities.Jack),
	)
	assert.NoError(t, r.CanPlay(allTrump, card(entities.Spades, entities.Four)))
}

func TestLeadingTrumpAfterBreak(t *testing.T) {
	r := NewRound(entities.CompareContext{AceHigh: true, Trump: entities.Spades})

	// Trump goes off-suit in a trick: broken.
	r.Play("a", card(entities.Clubs, entities.Ace))
	r.Play("b", card(entities.Spades, entities.Two))
	require.True(t, r.TrumpBroken())
	r.ResetTrick()

	mixed := NewHand(
		card(entities.Spades, entities.Ten),
		card(entities.Hearts, entities.Nine),
	)
	assert.NoError(t, r.CanPlay(mixed, card(entities.Spades, entities.Ten)))
}

func TestBrokenFlagSurvivesTrickReset(t *testing.T) {
	r := NewRound(entities.CompareContext{AceHigh: true, Trump: entities.Spades})
	r.Play("a", card(entities.Hearts, entities.Seven))
	r.Play("b", card(entities.Spades, entities.Three))

	cards := r.ResetTrick()
	assert.Len(t, cards, 2, "finished trick cards go to the caller")
	assert.Equal(t, entities.NoSuit, r.LedSuit())
	assert.Empty(t, r.Played())
	assert.True(t, r.TrumpBroken(), "trump stays broken for the rest of the round")
}

func TestWinningCardTrumpBeatsAll(t *testing.T) {
	// Spec scenario: {9♣, K♣, 2♠, 4♦} led clubs, trump spades → 2♠ wins.
	r := NewRound(entities.CompareContext{AceHigh: true, Trump: entities.Spades})
	r.Play("a", card(entities.Clubs, entities.Nine))
	r.Play("b", card(entities.Clubs, entities.King))
	r.Play("c", card(entities.Spades, entities.Two))
	r.Play("d", card(entities.Diamonds, entities.Four))

	win, ok := r.WinningCard()
	require.True(t, ok)
	assert.Equal(t, "c", win.PlayerID)
}

func TestWinningCardLedSuitOnly(t *testing.T) {
	r := NewRound(entities.CompareContext{AceHigh: true, Trump: entities.Spades})
	r.Play("a", card(entities.Clubs, entities.Nine))
	r.Play("b", card(entities.Diamonds, entities.Ace))
	r.Play("c", card(entities.Clubs, entities.Jack))

	win, ok := r.WinningCard()
	require.True(t, ok)
	assert.Equal(t, "c", win.PlayerID, "an off-suit ace never wins the trick")
}

func TestWinningCardOrderIndependent(t *testing.T) {
	plays := []PlayedCard{
		{PlayerID: "a", Card: card(entities.Clubs, entities.Nine)},
		{PlayerID: "b", Card: card(entities.Clubs, entities.King)},
		{PlayerID: "c", Card: card(entities.Spades, entities.Two)},
		{PlayerID: "d", Card: card(entities.Diamonds, entities.Four)},
	}

	permutations := [][]int{
		{0, 1, 2, 3}, {3, 2, 1, 0}, {1, 3, 0, 2}, {2, 0, 3, 1},
	}
	for _, perm := range permutations {
		r := NewRound(entities.CompareContext{AceHigh: true, Trump: entities.Spades})
		// Fix the led suit by leading clubs regardless of permutation.
		r.Play("a", card(entities.Clubs, entities.Nine))
		for _, idx := range perm {
			if plays[idx].PlayerID == "a" {
				continue
			}
			r.Play(plays[idx].PlayerID, plays[idx].Card)
		}
		win, ok := r.WinningCard()
		require.True(t, ok)
		assert.Equal(t, "c", win.PlayerID)
	}
}

func TestAceHighInTrickComparison(t *testing.T) {
	r := NewRound(entities.CompareContext{AceHigh: true, Trump: entities.Spades})
	r.Play("a", card(entities.Hearts, entities.King))
	r.Play("b", card(entities.Hearts, entities.Ace))

	win, ok := r.WinningCard()
	require.True(t, ok)
	assert.Equal(t, "b", win.PlayerID, "aces are high in trick play")
}
