package discord

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadedpez/cardtable/pkg/engine"
	"github.com/fadedpez/cardtable/pkg/entities"
)

// fakeSession records sent messages instead of talking to Discord
type fakeSession struct {
	mu       sync.Mutex
	messages map[string][]string // channelID -> contents
}

func newFakeSession() *fakeSession {
	return &fakeSession{messages: make(map[string][]string)}
}

func (f *fakeSession) ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages[channelID] = append(f.messages[channelID], content)
	return &discordgo.Message{ChannelID: channelID, Content: content}, nil
}

func (f *fakeSession) UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	return &discordgo.Channel{ID: "dm-" + recipientID}, nil
}

func (f *fakeSession) sent(channelID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.messages[channelID]...)
}

func newTestPrompter() (*Prompter, *fakeSession, *engine.Mailbox) {
	session := newFakeSession()
	mailbox := engine.NewMailbox()
	return NewPrompter(session, mailbox, zerolog.Nop()), session, mailbox
}

func TestRequestBidRoundTrip(t *testing.T) {
	p, session, _ := newTestPrompter()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan engine.BidResponse, 1)
	go func() {
		bid, err := p.RequestBid(ctx, engine.BidRequest{GameID: "g1", PlayerID: "alice", Min: 0, Max: 13})
		require.NoError(t, err)
		done <- bid
	}()

	// The prompt lands in alice's DM channel.
	require.Eventually(t, func() bool {
		return len(session.sent("dm-alice")) == 1
	}, time.Second, 10*time.Millisecond)

	// A chat reply routes through the awaiting table.
	require.Eventually(t, func() bool {
		return p.Deliver("alice", engine.BidResponse{Tricks: 4})
	}, time.Second, 10*time.Millisecond)

	select {
	case bid := <-done:
		assert.Equal(t, 4, bid.Tricks)
	case <-time.After(time.Second):
		t.Fatal("bid never arrived")
	}
}

func TestRequestCardIgnoresBidAnswers(t *testing.T) {
	p, _, _ := newTestPrompter()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan engine.CardResponse, 1)
	go func() {
		card, err := p.RequestCard(ctx, engine.PlayCardRequest{GameID: "g1", PlayerID: "alice", LedSuit: entities.Clubs})
		require.NoError(t, err)
		done <- card
	}()

	// A stray bid while a card is expected is dropped and the wait
	// continues.
	require.Eventually(t, func() bool {
		return p.Deliver("alice", engine.BidResponse{Tricks: 2})
	}, time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return p.Deliver("alice", engine.CardResponse{Suit: entities.Clubs, Rank: entities.Nine})
	}, time.Second, 10*time.Millisecond)

	select {
	case card := <-done:
		assert.True(t, card.Suit == entities.Clubs && card.Rank == entities.Nine)
	case <-time.After(time.Second):
		t.Fatal("card never arrived")
	}
}

func TestRequestBidTimesOut(t *testing.T) {
	p, _, _ := newTestPrompter()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := p.RequestBid(ctx, engine.BidRequest{GameID: "g1", PlayerID: "alice"})
	assert.ErrorIs(t, err, engine.ErrTimedOut)

	// Nothing is awaiting after the timeout.
	_, waiting := p.AwaitingGame("alice")
	assert.False(t, waiting)
}

func TestDeliverWithoutWaiter(t *testing.T) {
	p, _, _ := newTestPrompter()
	assert.False(t, p.Deliver("nobody", engine.BidResponse{Tricks: 1}))
}

func TestBroadcastGoesToTableChannel(t *testing.T) {
	p, session, _ := newTestPrompter()

	require.NoError(t, p.Broadcast(context.Background(), "table1", "cards are out"))
	assert.Equal(t, []string{"cards are out"}, session.sent("table1"))
}
