package entities

import "fmt"

// Suit represents a card suit

type Suit string

const (
	Hearts   Suit = "HEARTS"
	Diamonds Suit = "DIAMONDS"
	Clubs    Suit = "CLUBS"
	Spades   Suit = "SPADES"

	// NoSuit is the zero value used where a suit is optional,
	// e.g. "no trump" or "no suit led yet".
	NoSuit Suit = ""
)

// Rank represents a card rank

type Rank string

const (
	Ace   Rank = "A"
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
)

// Suits returns all suits in canonical order.
func Suits() []Suit {
	return []Suit{Hearts, Diamonds, Clubs, Spades}
}

// Ranks returns all ranks in natural order, Ace first.
func Ranks() []Rank {
	return []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}
}

// rankOrder maps each rank to its natural position, with Ace low (1).
var rankOrder = map[Rank]int{
	Ace: 1, Two: 2, Three: 3, Four: 4, Five: 5, Six: 6, Seven: 7,
	Eight: 8, Nine: 9, Ten: 10, Jack: 11, Queen: 12, King: 13,
}

// Card represents a playing card

type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card

func NewCard(suit Suit, rank Rank) *Card {
	return &Card{
		Suit: suit,
		Rank: rank,
	}
}

// String returns the string representation of the card

func (c *Card) String() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}

// Is reports whether the card has the given suit and rank.
func (c *Card) Is(suit Suit, rank Rank) bool {
	return c.Suit == suit && c.Rank == rank
}

// CompareContext parameterizes card ordering. Ordering is contextual,
// not intrinsic: the same two cards can compare differently depending
// on whether aces are high and which suit, if any, is trump.
type CompareContext struct {
	AceHigh bool
	Trump   Suit // NoSuit means no trump
}

// RankValue returns the comparable value of a rank under the context.
func (cc CompareContext) RankValue(r Rank) int {
	if cc.AceHigh && r == Ace {
		return rankOrder[King] + 1
	}
	return rankOrder[r]
}

// Compare orders two cards under the context. It returns a negative
// number if a is lower, positive if a is higher, and zero if the ranks
// are equal. A trump card always outranks a non-trump card.
func Compare(a, b *Card, cc CompareContext) int {
	if cc.Trump != NoSuit {
		aTrump := a.Suit == cc.Trump
		bTrump := b.Suit == cc.Trump
		if aTrump && !bTrump {
			return 1
		}
		if !aTrump && bTrump {
			return -1
		}
	}
	return cc.RankValue(a.Rank) - cc.RankValue(b.Rank)
}
