package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareByRank(t *testing.T) {
	cc := CompareContext{AceHigh: false}

	assert.Positive(t, Compare(NewCard(Hearts, Nine), NewCard(Clubs, Five), cc))
	assert.Negative(t, Compare(NewCard(Spades, Two), NewCard(Diamonds, Ten), cc))
	assert.Zero(t, Compare(NewCard(Hearts, Queen), NewCard(Clubs, Queen), cc))
}

func TestCompareAceHigh(t *testing.T) {
	ace := NewCard(Hearts, Ace)
	king := NewCard(Clubs, King)

	// Ace low by default
	assert.Negative(t, Compare(ace, king, CompareContext{}))

	// Ace high when requested
	assert.Positive(t, Compare(ace, king, CompareContext{AceHigh: true}))
}

func TestCompareTrump(t *testing.T) {
	cc := CompareContext{AceHigh: true, Trump: Spades}

	// Lowest trump beats highest non-trump
	assert.Positive(t, Compare(NewCard(Spades, Two), NewCard(Hearts, Ace), cc))
	assert.Negative(t, Compare(NewCard(Diamonds, King), NewCard(Spades, Three), cc))

	// Two trump cards fall back to rank order
	assert.Positive(t, Compare(NewCard(Spades, Queen), NewCard(Spades, Four), cc))

	// Two non-trump cards compare by rank only
	assert.Positive(t, Compare(NewCard(Hearts, Ten), NewCard(Clubs, Six), cc))
}

func TestCompareIsPure(t *testing.T) {
	a := NewCard(Spades, Seven)
	b := NewCard(Hearts, Jack)
	cc := CompareContext{AceHigh: true, Trump: Spades}

	first := Compare(a, b, cc)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Compare(a, b, cc))
	}
	assert.Equal(t, Spades, a.Suit, "compare must not mutate its inputs")
	assert.Equal(t, Seven, a.Rank)
}

func TestCardIs(t *testing.T) {
	c := NewCard(Clubs, Nine)
	assert.True(t, c.Is(Clubs, Nine))
	assert.False(t, c.Is(Clubs, Ten))
	assert.False(t, c.Is(Spades, Nine))
}
