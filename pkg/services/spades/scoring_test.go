package spades

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundScoreMadeBid(t *testing.T) {
	cfg := DefaultConfig()

	points, bags := roundScore(Bid{Tricks: 4}, 4, 13, cfg)
	assert.Equal(t, 40, points)
	assert.Equal(t, 0, bags)

	// Overtricks are worth one point each and become bags.
	points, bags = roundScore(Bid{Tricks: 4}, 6, 13, cfg)
	assert.Equal(t, 42, points)
	assert.Equal(t, 2, bags)
}

func TestRoundScoreFailedBid(t *testing.T) {
	cfg := DefaultConfig()

	points, bags := roundScore(Bid{Tricks: 5}, 3, 13, cfg)
	assert.Equal(t, -50, points)
	assert.Equal(t, 0, bags)
}

func TestRoundScoreNil(t *testing.T) {
	cfg := DefaultConfig()

	points, _ := roundScore(Bid{Nil: true}, 0, 13, cfg)
	assert.Equal(t, 100, points, "made nil pays the configured bonus")

	// One trick breaks a nil outright; no partial credit.
	points, bags := roundScore(Bid{Nil: true}, 1, 13, cfg)
	assert.Equal(t, -100, points)
	assert.Equal(t, 1, bags)

	points, _ = roundScore(Bid{Nil: true}, 7, 13, cfg)
	assert.Equal(t, -100, points, "a badly failed nil loses the same as a barely failed one")
}

func TestRoundScoreMoon(t *testing.T) {
	cfg := DefaultConfig()

	points, _ := roundScore(Bid{Moon: true}, 13, 13, cfg)
	assert.Equal(t, 200, points)

	points, _ = roundScore(Bid{Moon: true}, 12, 13, cfg)
	assert.Equal(t, -200, points)
}

func TestApplyRoundScoreBagPenalty(t *testing.T) {
	cfg := DefaultConfig()

	p := newPlayer("a", "a")
	p.Bags = 8
	p.Score = 120
	p.Bid = Bid{Tricks: 3}
	p.Tricks = 6 // 3 overtricks push the bags past the limit

	applyRoundScore(p, 13, cfg)

	// 30 + 3 overtrick points, then -100 for the full bag set.
	assert.Equal(t, 120+33-100, p.Score)
	assert.Equal(t, 1, p.Bags, "bags roll over past the limit")
}
