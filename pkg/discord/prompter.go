package discord

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/fadedpez/cardtable/pkg/engine"
	"github.com/fadedpez/cardtable/pkg/entities"
)

// defaultWait bounds a prompt when the caller's context carries no
// deadline of its own.
const defaultWait = 2 * time.Minute

// messageSender is the slice of the Discord session the prompter needs
type messageSender interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// Prompter delivers game prompts over Discord and collects answers
// through the mailbox. Private traffic (hands, bid and card requests)
// goes to DMs; table traffic goes to the channel the game lives in.
type Prompter struct {
	session messageSender
	mailbox *engine.Mailbox
	log     zerolog.Logger

	mu         sync.Mutex
	dmChannels map[string]string // playerID -> DM channel ID
	awaiting   map[string]string // playerID -> game ID
}

// NewPrompter creates a prompter over a Discord session
func NewPrompter(session messageSender, mailbox *engine.Mailbox, log zerolog.Logger) *Prompter {
	return &Prompter{
		session:    session,
		mailbox:    mailbox,
		log:        log.With().Str("component", "prompter").Logger(),
		dmChannels: make(map[string]string),
		awaiting:   make(map[string]string),
	}
}

// AwaitingGame returns the game currently waiting on a player's
// answer, if any. Message handlers use it to route replies.
func (p *Prompter) AwaitingGame(playerID string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	gameID, ok := p.awaiting[playerID]
	return gameID, ok
}

// Deliver routes a player's parsed answer to the waiting game.
// It reports whether anything was waiting.
func (p *Prompter) Deliver(playerID string, answer any) bool {
	gameID, ok := p.AwaitingGame(playerID)
	if !ok {
		return false
	}
	return p.mailbox.Deliver(gameID, playerID, answer)
}

// RequestBid asks a player for a bid and blocks for the answer
func (p *Prompter) RequestBid(ctx context.Context, req engine.BidRequest) (engine.BidResponse, error) {
	prompt := fmt.Sprintf("Your bid (%d-%d). Say a number, `nil`, or `moon`.", req.Min, req.Max)
	if req.Reason != "" {
		prompt = fmt.Sprintf("%s Try again: %s", req.Reason, prompt)
	}
	if err := p.Notify(ctx, req.PlayerID, prompt); err != nil {
		return engine.BidResponse{}, err
	}

	for {
		v, err := p.await(ctx, req.GameID, req.PlayerID)
		if err != nil {
			return engine.BidResponse{}, err
		}
		if bid, ok := v.(engine.BidResponse); ok {
			return bid, nil
		}
		// A card arrived while a bid was expected; keep waiting.
		p.log.Debug().Str("player_id", req.PlayerID).Msg("ignoring non-bid answer")
	}
}

// RequestCard asks a player for a card and blocks for the answer
func (p *Prompter) RequestCard(ctx context.Context, req engine.PlayCardRequest) (engine.CardResponse, error) {
	prompt := "Your play. Say a card like `QS` or `10H`."
	if req.LedSuit != entities.NoSuit {
		prompt = fmt.Sprintf("%s was led. %s", suitSymbols[req.LedSuit], prompt)
	}
	if req.Reason != "" {
		prompt = fmt.Sprintf("%s Try again: %s", req.Reason, prompt)
	}
	if err := p.Notify(ctx, req.PlayerID, prompt); err != nil {
		return engine.CardResponse{}, err
	}

	for {
		v, err := p.await(ctx, req.GameID, req.PlayerID)
		if err != nil {
			return engine.CardResponse{}, err
		}
		if card, ok := v.(engine.CardResponse); ok {
			return card, nil
		}
		p.log.Debug().Str("player_id", req.PlayerID).Msg("ignoring non-card answer")
	}
}

// await blocks on the mailbox for the remainder of the turn budget,
// tracking the player in the routing table while it waits.
func (p *Prompter) await(ctx context.Context, gameID, playerID string) (any, error) {
	timeout := defaultWait
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	p.mu.Lock()
	p.awaiting[playerID] = gameID
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		if p.awaiting[playerID] == gameID {
			delete(p.awaiting, playerID)
		}
		p.mu.Unlock()
	}()

	return p.mailbox.Await(ctx, gameID, playerID, timeout)
}

// Notify sends a DM to a player
func (p *Prompter) Notify(ctx context.Context, playerID, content string) error {
	channelID, err := p.dmChannel(playerID)
	if err != nil {
		return fmt.Errorf("opening DM channel: %w", err)
	}
	if _, err := p.session.ChannelMessageSend(channelID, content); err != nil {
		return fmt.Errorf("sending DM: %w", err)
	}
	return nil
}

// Broadcast sends a message to the table's channel
func (p *Prompter) Broadcast(ctx context.Context, tableID, content string) error {
	if _, err := p.session.ChannelMessageSend(tableID, content); err != nil {
		return fmt.Errorf("sending channel message: %w", err)
	}
	return nil
}

func (p *Prompter) dmChannel(playerID string) (string, error) {
	p.mu.Lock()
	channelID, ok := p.dmChannels[playerID]
	p.mu.Unlock()
	if ok {
		return channelID, nil
	}

	channel, err := p.session.UserChannelCreate(playerID)
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	p.dmChannels[playerID] = channel.ID
	p.mu.Unlock()
	return channel.ID, nil
}
