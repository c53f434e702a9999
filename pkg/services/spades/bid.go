package spades

import "fmt"

// Bid is a player's pre-round declaration of tricks to win. Nil and
// Moon are the special zero-tricks / all-tricks bids, scored by fixed
// bonus or penalty instead of the per-trick formula.
type Bid struct {
	Tricks int
	Nil    bool
	Moon   bool
}

// Equivalent maps the bid to a number for comparisons: nil counts as
// zero, moon as every trick in the round.
func (b Bid) Equivalent(handSize int) int {
	switch {
	case b.Nil:
		return 0
	case b.Moon:
		return handSize
	default:
		return b.Tricks
	}
}

func (b Bid) String() string {
	switch {
	case b.Nil:
		return "nil"
	case b.Moon:
		return "moon"
	default:
		return fmt.Sprintf("%d", b.Tricks)
	}
}

// HighestBidder returns the player with the maximum bid among those
// who have bid, first-encountered winning exact ties. Both the player
// and the running maximum advance together; the Python lineage of
// this function tracked only the player and always returned the first
// one scanned.
func HighestBidder(players []*Player, handSize int) *Player {
	var best *Player
	bestValue := -1
	for _, p := range players {
		if !p.HasBid {
			continue
		}
		if v := p.Bid.Equivalent(handSize); v > bestValue {
			best = p
			bestValue = v
		}
	}
	return best
}
