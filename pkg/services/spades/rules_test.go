package spades

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fadedpez/cardtable/pkg/engine"
	"github.com/fadedpez/cardtable/pkg/entities"
)

func TestWithDefaultsFillsZeroFields(t *testing.T) {
	assert.Equal(t, DefaultConfig(), Config{}.WithDefaults())

	cfg := Config{ScoreTarget: 250}.WithDefaults()
	assert.Equal(t, 250, cfg.ScoreTarget)
	assert.Equal(t, 13, cfg.HandSize)
}

func TestWithDefaultsKeepsAceLow(t *testing.T) {
	cfg := Config{AceLow: true}.WithDefaults()
	assert.True(t, cfg.AceLow)
	assert.False(t, cfg.CompareContext().AceHigh)

	assert.True(t, Config{}.WithDefaults().CompareContext().AceHigh, "aces rank high unless configured otherwise")
}

func TestAceLowChangesTrickWinner(t *testing.T) {
	ace := entities.NewCard(entities.Hearts, entities.Ace)
	king := entities.NewCard(entities.Hearts, entities.King)

	r := engine.NewRound(Config{AceLow: true}.WithDefaults().CompareContext())
	r.Play("p1", ace)
	r.Play("p2", king)
	win, ok := r.WinningCard()
	assert.True(t, ok)
	assert.Equal(t, "p2", win.PlayerID, "king tops a low ace")

	r = engine.NewRound(Config{}.WithDefaults().CompareContext())
	r.Play("p1", ace)
	r.Play("p2", king)
	win, ok = r.WinningCard()
	assert.True(t, ok)
	assert.Equal(t, "p1", win.PlayerID)
}
