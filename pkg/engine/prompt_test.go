package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailboxDeliverResolvesAwait(t *testing.T) {
	m := NewMailbox()

	done := make(chan struct{})
	var got any
	var err error
	go func() {
		got, err = m.Await(context.Background(), "g1", "alice", time.Second)
		close(done)
	}()

	// Wait for the waiter to register before delivering.
	require.Eventually(t, func() bool {
		return m.Expecting("g1", "alice")
	}, time.Second, time.Millisecond)

	assert.True(t, m.Deliver("g1", "alice", BidResponse{Tricks: 4}))
	<-done

	require.NoError(t, err)
	assert.Equal(t, BidResponse{Tricks: 4}, got)
	assert.False(t, m.Expecting("g1", "alice"))
}

func TestMailboxTimeout(t *testing.T) {
	m := NewMailbox()

	_, err := m.Await(context.Background(), "g1", "bob", 10*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimedOut)
	assert.False(t, m.Expecting("g1", "bob"))
}

func TestMailboxContextCancel(t *testing.T) {
	m := NewMailbox()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := m.Await(ctx, "g1", "carol", time.Minute)
		done <- err
	}()

	require.Eventually(t, func() bool {
		return m.Expecting("g1", "carol")
	}, time.Second, time.Millisecond)
	cancel()

	err := <-done
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestMailboxDeliverWithoutWaiter(t *testing.T) {
	m := NewMailbox()
	assert.False(t, m.Deliver("g1", "nobody", BidResponse{}))
}

func TestMailboxKeysAreScopedPerGame(t *testing.T) {
	m := NewMailbox()

	done := make(chan error, 1)
	go func() {
		_, err := m.Await(context.Background(), "g1", "dave", 50*time.Millisecond)
		done <- err
	}()

	require.Eventually(t, func() bool {
		return m.Expecting("g1", "dave")
	}, time.Second, time.Millisecond)

	// Same player, different game: must not satisfy the waiter.
	assert.False(t, m.Deliver("g2", "dave", CardResponse{}))
	assert.ErrorIs(t, <-done, ErrTimedOut)
}
