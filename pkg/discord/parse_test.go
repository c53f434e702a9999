package discord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadedpez/cardtable/pkg/engine"
	"github.com/fadedpez/cardtable/pkg/entities"
)

func TestParseCard(t *testing.T) {
	tests := []struct {
		input string
		want  engine.CardResponse
	}{
		{"QS", engine.CardResponse{Suit: entities.Spades, Rank: entities.Queen}},
		{"qs", engine.CardResponse{Suit: entities.Spades, Rank: entities.Queen}},
		{"10h", engine.CardResponse{Suit: entities.Hearts, Rank: entities.Ten}},
		{"TD", engine.CardResponse{Suit: entities.Diamonds, Rank: entities.Ten}},
		{" ac ", engine.CardResponse{Suit: entities.Clubs, Rank: entities.Ace}},
		{"2♠", engine.CardResponse{Suit: entities.Spades, Rank: entities.Two}},
	}

	for _, tt := range tests {
		got, err := ParseCard(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestParseCardRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "Q", "QX", "11H", "hello"} {
		_, err := ParseCard(input)
		assert.Error(t, err, input)
	}
}

func TestParseBid(t *testing.T) {
	bid, err := ParseBid("4")
	require.NoError(t, err)
	assert.Equal(t, engine.BidResponse{Tricks: 4}, bid)

	bid, err = ParseBid("NIL")
	require.NoError(t, err)
	assert.True(t, bid.Nil)

	bid, err = ParseBid("moon")
	require.NoError(t, err)
	assert.True(t, bid.Moon)

	_, err = ParseBid("four")
	assert.Error(t, err)
}

func TestParseAnswerStripsVerbs(t *testing.T) {
	v, ok := ParseAnswer("bid 4")
	require.True(t, ok)
	assert.Equal(t, engine.BidResponse{Tricks: 4}, v)

	v, ok = ParseAnswer("play QS")
	require.True(t, ok)
	assert.Equal(t, engine.CardResponse{Suit: entities.Spades, Rank: entities.Queen}, v)

	v, ok = ParseAnswer("nil")
	require.True(t, ok)
	assert.Equal(t, engine.BidResponse{Nil: true}, v)

	_, ok = ParseAnswer("what do I do")
	assert.False(t, ok)
}

func TestFormatCards(t *testing.T) {
	cards := []*entities.Card{
		entities.NewCard(entities.Spades, entities.Queen),
		entities.NewCard(entities.Hearts, entities.Ten),
	}
	assert.Equal(t, "Q♠ 10♥", FormatCards(cards))
	assert.Equal(t, "Q♠ 10♥ (20)", FormatScore(cards, 20))
}
