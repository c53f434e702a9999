package engine

import (
	"github.com/fadedpez/cardtable/internal/types"
)

// TurnOrder is a logical rotation over a fixed seating. Pivoting to a
// new leader moves an index instead of rebuilding the list, so "who is
// n turns from now" stays cheap.
type TurnOrder struct {
	seats []string
	first int
}

// NewTurnOrder seats players in join order.
func NewTurnOrder(playerIDs []string) *TurnOrder {
	seats := make([]string, len(playerIDs))
	copy(seats, playerIDs)
	return &TurnOrder{seats: seats}
}

// Len returns the number of seated players.
func (t *TurnOrder) Len() int {
	return len(t.seats)
}

// At returns the player n turns from the current leader.
func (t *TurnOrder) At(n int) string {
	return t.seats[(t.first+n)%len(t.seats)]
}

// Seats returns the players starting from the current leader.
func (t *TurnOrder) Seats() []string {
	out := make([]string, 0, len(t.seats))
	for i := 0; i < len(t.seats); i++ {
		out = append(out, t.At(i))
	}
	return out
}

// Pivot rotates the order so the given player leads.
func (t *TurnOrder) Pivot(playerID string) error {
	for i, id := range t.seats {
		if id == playerID {
			t.first = i
			return nil
		}
	}
	return types.NewGameError(types.ErrPlayerNotFound, "player not seated")
}

// Remove unseats a player, keeping the current leader stable when
// possible. Removing the leader passes the lead to the next seat.
func (t *TurnOrder) Remove(playerID string) {
	for i, id := range t.seats {
		if id != playerID {
			continue
		}
		t.seats = append(t.seats[:i], t.seats[i+1:]...)
		if len(t.seats) == 0 {
			t.first = 0
			return
		}
		if i < t.first {
			t.first--
		}
		t.first %= len(t.seats)
		return
	}
}

// Contains reports whether the player is seated.
func (t *TurnOrder) Contains(playerID string) bool {
	for _, id := range t.seats {
		if id == playerID {
			return true
		}
	}
	return false
}
