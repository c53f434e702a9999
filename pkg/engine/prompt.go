package engine

import (
	"context"
	"sync"
	"time"

	"github.com/fadedpez/cardtable/internal/types"
	"github.com/fadedpez/cardtable/pkg/entities"
)

// ErrTimedOut reports that a player did not answer a request before
// its deadline. Orchestrators turn it into a default action so the
// game always progresses.
var ErrTimedOut = types.NewGameError(types.ErrTimeout, "player did not respond in time")

// BidRequest asks a player to declare a bid.
type BidRequest struct {
	GameID   string
	PlayerID string
	Min, Max int
	// Reason carries feedback when re-prompting after a rejected bid.
	Reason string
}

// PlayCardRequest asks a player for one card.
type PlayCardRequest struct {
	GameID   string
	PlayerID string
	LedSuit  entities.Suit // NoSuit when the player leads
	// Reason carries feedback when re-prompting after a rejected play.
	Reason string
}

// BidResponse is a player's answer to a BidRequest. Nil and Moon are
// the special zero-tricks / all-tricks declarations.
type BidResponse struct {
	Tricks int
	Nil    bool
	Moon   bool
}

// CardResponse names the card a player wants to play. It refers to a
// card by value; the orchestrator resolves it against the hand.
type CardResponse struct {
	Suit entities.Suit
	Rank entities.Rank
}

// Prompter is the messaging collaborator the game engine talks
// through. Implementations deliver the request to the player over
// whatever transport the host uses and block until an answer arrives
// or the context deadline passes, returning ErrTimedOut.
//
// Exactly one request per player is outstanding at a time within one
// game; bid requests may be outstanding for several players at once.
type Prompter interface {
	RequestBid(ctx context.Context, req BidRequest) (BidResponse, error)
	RequestCard(ctx context.Context, req PlayCardRequest) (CardResponse, error)

	// Notify sends text to a single player.
	Notify(ctx context.Context, playerID, content string) error
	// Broadcast sends text to the shared table view.
	Broadcast(ctx context.Context, tableID, content string) error
}

// Mailbox matches in-flight requests with answers arriving from a
// transport. Transport handlers call Deliver when a player responds;
// Await blocks the orchestrator side.
type Mailbox struct {
	mu      sync.Mutex
	pending map[string]chan any
}

// NewMailbox creates an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{pending: make(map[string]chan any)}
}

func mailboxKey(gameID, playerID string) string {
	return gameID + "/" + playerID
}

// Await blocks until Deliver supplies an answer for the player, the
// timeout elapses (ErrTimedOut), or the context is cancelled. One
// outstanding wait per game/player pair; a second Await replaces the
// first.
func (m *Mailbox) Await(ctx context.Context, gameID, playerID string, timeout time.Duration) (any, error) {
	key := mailboxKey(gameID, playerID)
	ch := make(chan any, 1)

	m.mu.Lock()
	m.pending[key] = ch
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		if m.pending[key] == ch {
			delete(m.pending, key)
		}
		m.mu.Unlock()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case v := <-ch:
		return v, nil
	case <-timer.C:
		return nil, ErrTimedOut
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Deliver hands an answer to the waiter for the player, if any.
// It reports whether a waiter was found.
func (m *Mailbox) Deliver(gameID, playerID string, v any) bool {
	m.mu.Lock()
	ch, ok := m.pending[mailboxKey(gameID, playerID)]
	if ok {
		delete(m.pending, mailboxKey(gameID, playerID))
	}
	m.mu.Unlock()

	if !ok {
		return false
	}
	ch <- v
	return true
}

// Expecting reports whether a wait is outstanding for the player.
func (m *Mailbox) Expecting(gameID, playerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.pending[mailboxKey(gameID, playerID)]
	return ok
}
