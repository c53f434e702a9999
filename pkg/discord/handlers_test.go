package discord

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadedpez/cardtable/internal/types"
	"github.com/fadedpez/cardtable/pkg/entities"
	gameRepo "github.com/fadedpez/cardtable/pkg/repositories/game"
	walletRepo "github.com/fadedpez/cardtable/pkg/repositories/wallet"
	"github.com/fadedpez/cardtable/pkg/services/spades"
	walletSvc "github.com/fadedpez/cardtable/pkg/services/wallet"
)

func newTestBot(t *testing.T) *Bot {
	t.Helper()

	repo := gameRepo.NewMemoryRepository()
	wallets := walletSvc.NewService(walletRepo.NewMemoryRepository(), zerolog.Nop())
	b, err := NewBot("token", "", spades.DefaultConfig(), repo, wallets, zerolog.Nop())
	require.NoError(t, err)
	return b
}

// seatSpadesGame registers a lobby in the bot's registry with a
// prompter that talks to a recorded session instead of Discord.
func seatSpadesGame(t *testing.T, b *Bot, tableID string, players ...string) *spades.Game {
	t.Helper()

	p, _, _ := newTestPrompter()
	g, err := b.spades.Create(tableID, func() *spades.Game {
		return spades.New(tableID, spades.Config{}, p, gameRepo.NewMemoryRepository(), zerolog.Nop())
	})
	require.NoError(t, err)
	for _, id := range players {
		require.NoError(t, g.Join(id, id))
	}
	return g
}

func TestLaunchKeepsShortLobbySeated(t *testing.T) {
	b := newTestBot(t)
	g := seatSpadesGame(t, b, "channel-1", "alice")

	err := b.launchSpades("channel-1", g)
	require.Error(t, err)
	assert.True(t, types.IsGameError(err, types.ErrNotEnoughPlayers))

	kept, ok := b.spades.Get("channel-1")
	require.True(t, ok, "a rejected start must not evict the lobby")
	assert.Same(t, g, kept)
	assert.Equal(t, entities.StateLobby, g.State())
}

func TestLaunchStartsGameExactlyOnce(t *testing.T) {
	b := newTestBot(t)
	g := seatSpadesGame(t, b, "channel-1", "alice", "bob")

	require.NoError(t, b.launchSpades("channel-1", g))
	require.Eventually(t, func() bool {
		return g.State() != entities.StateLobby
	}, 2*time.Second, 10*time.Millisecond)

	err := b.launchSpades("channel-1", g)
	require.Error(t, err)
	assert.True(t, types.IsGameError(err, types.ErrInvalidState))

	kept, ok := b.spades.Get("channel-1")
	require.True(t, ok, "a duplicate start must not free a running table")
	assert.Same(t, g, kept)
	assert.False(t, g.State().Terminal())

	g.Stop()
	require.Eventually(t, func() bool {
		_, running := b.spades.Get("channel-1")
		return !running
	}, 2*time.Second, 10*time.Millisecond, "the slot frees once the run ends")
}
