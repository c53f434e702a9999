package entities

import (
	"crypto/rand"
	"math/big"
)

// DeckSize is the number of cards in a single physical deck.
const DeckSize = 52

type Deck struct {
	Cards []*Card

	// numDecks is how many physical decks Refill restores.
	numDecks int
}

// NewDeck creates a new deck of 52 cards, one of each rank and suit
func NewDeck() *Deck {
	return NewMultiDeck(1)
}

// NewMultiDeck creates a draw pile holding n physical decks.
func NewMultiDeck(n int) *Deck {
	if n < 1 {
		n = 1
	}
	d := &Deck{numDecks: n}
	d.Refill()
	return d
}

// Refill resets the pile to the canonical full card set.
func (d *Deck) Refill() {
	d.Cards = make([]*Card, 0, d.numDecks*DeckSize)
	for i := 0; i < d.numDecks; i++ {
		for _, suit := range Suits() {
			for _, rank := range Ranks() {
				d.Cards = append(d.Cards, NewCard(suit, rank))
			}
		}
	}
}

// Shuffle performs a uniform in-place permutation. The randomness comes
// from crypto/rand: in a multiplayer game a shuffle players can predict
// is a cheating vector, so a time-seeded PRNG is not good enough.
func (d *Deck) Shuffle() {
	for i := len(d.Cards) - 1; i > 0; i-- {
		j := cryptoIntn(i + 1)
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}

// Draw removes and returns the top card from the deck. It returns nil
// when the pile is empty; callers decide whether to refill or stop.
func (d *Deck) Draw() *Card {
	if len(d.Cards) == 0 {
		return nil
	}
	card := d.Cards[0]
	d.Cards = d.Cards[1:]
	return card
}

// DrawN removes and returns up to n cards. A short result means the
// pile ran out; never an error.
func (d *Deck) DrawN(n int) []*Card {
	if n > len(d.Cards) {
		n = len(d.Cards)
	}
	if n <= 0 {
		return nil
	}
	cards := d.Cards[:n]
	d.Cards = d.Cards[n:]
	return cards
}

// Insert returns cards to the bottom of the pile. Order is irrelevant
// until the next shuffle.
func (d *Deck) Insert(cards ...*Card) {
	d.Cards = append(d.Cards, cards...)
}

// Len returns the number of cards remaining in the pile.
func (d *Deck) Len() int {
	return len(d.Cards)
}

func cryptoIntn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the platform entropy source is
		// broken; there is no safe way to deal cards without it.
		panic(err)
	}
	return int(v.Int64())
}
