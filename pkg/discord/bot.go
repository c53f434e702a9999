package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/fadedpez/cardtable/pkg/engine"
	"github.com/fadedpez/cardtable/pkg/entities"
	gameRepo "github.com/fadedpez/cardtable/pkg/repositories/game"
	"github.com/fadedpez/cardtable/pkg/scheduler"
	"github.com/fadedpez/cardtable/pkg/services/blackjack"
	"github.com/fadedpez/cardtable/pkg/services/spades"
	"github.com/fadedpez/cardtable/pkg/services/statistics"
	walletSvc "github.com/fadedpez/cardtable/pkg/services/wallet"
)

// Bot hosts card games over Discord. Each text channel is a table
// that can run one game at a time.
type Bot struct {
	session *discordgo.Session
	guildID string

	spades    *engine.Registry[*spades.Game]
	blackjack *engine.Registry[*blackjack.Game]
	mailbox   *engine.Mailbox
	prompter  *Prompter

	spadesCfg spades.Config
	janitor   *scheduler.Scheduler

	repo    gameRepo.Repository
	wallets *walletSvc.Service
	stats   *statistics.Service
	log     zerolog.Logger
}

// NewBot creates a bot instance. guildID scopes slash command
// registration; empty registers them globally.
func NewBot(token, guildID string, spadesCfg spades.Config, repo gameRepo.Repository, wallets *walletSvc.Service, log zerolog.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	mailbox := engine.NewMailbox()
	bot := &Bot{
		session:   session,
		guildID:   guildID,
		spades:    engine.NewRegistry[*spades.Game](),
		blackjack: engine.NewRegistry[*blackjack.Game](),
		mailbox:   mailbox,
		prompter:  NewPrompter(session, mailbox, log),
		spadesCfg: spadesCfg.WithDefaults(),
		repo:      repo,
		wallets:   wallets,
		stats:     statistics.NewService(repo),
		log:       log.With().Str("component", "bot").Logger(),
	}

	bot.janitor = scheduler.New(log)
	bot.janitor.AddTask("stale-lobbies", 5*time.Minute, bot.closeStaleLobbies)

	session.AddHandler(bot.handleReady)
	session.AddHandler(bot.handleInteraction)
	session.AddHandler(bot.handleMessage)

	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	return bot, nil
}

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        "spades",
		Description: "Open a spades table in this channel",
	},
	{
		Name:        "blackjack",
		Description: "Open a blackjack table in this channel",
	},
	{
		Name:        "balance",
		Description: "Check your wallet balance",
	},
	{
		Name:        "results",
		Description: "Show recent game results for this channel",
	},
	{
		Name:        "stats",
		Description: "Show your win/loss record",
	},
}

// Start connects to Discord and registers the slash commands
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	for _, cmd := range commands {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.guildID, cmd); err != nil {
			return fmt.Errorf("error creating command %s: %w", cmd.Name, err)
		}
	}

	b.janitor.Start(context.Background())
	b.log.Info().Msg("bot connected")
	return nil
}

// Stop tears down active games and closes the Discord connection
func (b *Bot) Stop() error {
	b.janitor.Stop()

	ctx := context.Background()
	for _, tableID := range b.spades.Keys() {
		if g, ok := b.spades.Get(tableID); ok {
			g.Stop()
			// Done only closes once Run has started; a lobby that
			// never dealt has nothing to wait for.
			if g.State() != entities.StateLobby {
				<-g.Done()
			}
			b.spades.Remove(tableID)
			b.prompter.Broadcast(ctx, tableID, "The table is closing. Game stopped.")
		}
	}

	b.log.Info().Msg("bot shutting down")
	return b.session.Close()
}

const (
	staleLobbyAge = 30 * time.Minute
	staleGameAge  = 2 * time.Hour
)

// closeStaleLobbies frees tables whose games never got going, so a
// forgotten /spades doesn't block a channel forever.
func (b *Bot) closeStaleLobbies(ctx context.Context) error {
	for _, tableID := range b.spades.Keys() {
		g, ok := b.spades.Get(tableID)
		if !ok {
			continue
		}
		if g.State() == entities.StateLobby && time.Since(g.CreatedAt) > staleLobbyAge {
			g.Stop()
			b.spades.Remove(tableID)
			b.prompter.Broadcast(ctx, tableID, "The spades table closed for lack of players.")
			b.log.Info().Str("table_id", tableID).Msg("closed stale spades lobby")
		}
	}

	for _, tableID := range b.blackjack.Keys() {
		g, ok := b.blackjack.Get(tableID)
		if !ok {
			continue
		}
		stale := g.State() == entities.StateLobby && time.Since(g.CreatedAt()) > staleLobbyAge
		if stale || time.Since(g.CreatedAt()) > staleGameAge {
			b.blackjack.Remove(tableID)
			b.prompter.Broadcast(ctx, tableID, "The blackjack table closed.")
			b.log.Info().Str("table_id", tableID).Msg("closed stale blackjack table")
		}
	}
	return nil
}
