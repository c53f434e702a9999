package discord

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/fadedpez/cardtable/internal/types"
	"github.com/fadedpez/cardtable/pkg/entities"
	"github.com/fadedpez/cardtable/pkg/services/blackjack"
	"github.com/fadedpez/cardtable/pkg/services/spades"
	walletSvc "github.com/fadedpez/cardtable/pkg/services/wallet"
)

var betButtons = []int64{5, 10, 25}

func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info().Str("username", r.User.Username).Msg("logged in")
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleCommand(s, i)
	case discordgo.InteractionMessageComponent:
		b.handleComponent(s, i)
	}
}

func (b *Bot) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "spades":
		b.openSpadesTable(s, i)
	case "blackjack":
		b.openBlackjackTable(s, i)
	case "balance":
		b.showBalance(s, i)
	case "results":
		b.showResults(s, i)
	case "stats":
		b.showStats(s, i)
	}
}

func (b *Bot) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	switch {
	case customID == "spades_join":
		b.spadesJoin(s, i)
	case customID == "spades_start":
		b.spadesStart(s, i)
	case customID == "spades_leave":
		b.spadesLeave(s, i)
	case customID == "bj_join":
		b.blackjackJoin(s, i)
	case customID == "bj_start":
		b.blackjackStart(s, i)
	case customID == "bj_leave":
		b.blackjackLeave(s, i)
	case customID == "bj_hit":
		b.blackjackHit(s, i)
	case customID == "bj_stand":
		b.blackjackStand(s, i)
	case strings.HasPrefix(customID, "bj_bet_"):
		b.blackjackBet(s, i, strings.TrimPrefix(customID, "bj_bet_"))
	}
}

// handleMessage routes chat replies to whichever game is waiting on
// the author.
func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if _, waiting := b.prompter.AwaitingGame(m.Author.ID); !waiting {
		return
	}

	answer, ok := ParseAnswer(m.Content)
	if !ok {
		return
	}
	if b.prompter.Deliver(m.Author.ID, answer) {
		b.log.Debug().Str("player_id", m.Author.ID).Msg("routed answer")
	}
}

// --- spades ---

func (b *Bot) openSpadesTable(s *discordgo.Session, i *discordgo.InteractionCreate) {
	tableID := i.ChannelID
	userID := interactionUserID(i)

	g, err := b.spades.Create(tableID, func() *spades.Game {
		return spades.New(tableID, b.spadesCfg, b.prompter, b.repo, b.log)
	})
	if err != nil {
		respondEphemeral(s, i, "This channel already has a game running.")
		return
	}

	if err := g.Join(userID, interactionUserName(i)); err != nil {
		b.spades.Remove(tableID)
		respondEphemeral(s, i, gameErrorMessage(err))
		return
	}

	respond(s, i, &discordgo.InteractionResponseData{
		Content: fmt.Sprintf("%s opened a spades table. %d seats, first to %d points.",
			interactionUserName(i), spades.MaxPlayers, b.spadesCfg.ScoreTarget),
		Components: lobbyButtons("spades"),
	})
}

func (b *Bot) spadesJoin(s *discordgo.Session, i *discordgo.InteractionCreate) {
	g, ok := b.spades.Get(i.ChannelID)
	if !ok {
		respondEphemeral(s, i, "No spades table here. Open one with /spades.")
		return
	}

	if err := g.Join(interactionUserID(i), interactionUserName(i)); err != nil {
		respondEphemeral(s, i, gameErrorMessage(err))
		return
	}
	respond(s, i, &discordgo.InteractionResponseData{
		Content: fmt.Sprintf("%s sat down. %d at the table.", interactionUserName(i), len(g.PlayerIDs())),
	})
}

func (b *Bot) spadesStart(s *discordgo.Session, i *discordgo.InteractionCreate) {
	tableID := i.ChannelID
	g, ok := b.spades.Get(tableID)
	if !ok {
		respondEphemeral(s, i, "No spades table here. Open one with /spades.")
		return
	}

	if err := b.launchSpades(tableID, g); err != nil {
		respondEphemeral(s, i, gameErrorMessage(err))
		return
	}

	respond(s, i, &discordgo.InteractionResponseData{Content: "Dealing. Watch your DMs for your hand."})
}

// launchSpades moves a lobby into play on its own goroutine. The
// registry slot stays claimed until the run actually reaches a
// terminal state, so a rejected or duplicate start can never evict a
// live table.
func (b *Bot) launchSpades(tableID string, g *spades.Game) error {
	if g.State() != entities.StateLobby {
		return types.NewGameError(types.ErrInvalidState, "game already started")
	}
	if len(g.PlayerIDs()) < spades.MinPlayers {
		return types.NewGameError(types.ErrNotEnoughPlayers,
			fmt.Sprintf("need at least %d players to start", spades.MinPlayers))
	}

	go func() {
		if err := g.Run(context.Background()); err != nil {
			if types.IsGameError(err, types.ErrInvalidState) {
				// Lost a start race; another goroutine owns the run.
				return
			}
			b.log.Warn().Err(err).Str("table_id", tableID).Msg("game ended with error")
		}
		if g.State().Terminal() {
			b.spades.Remove(tableID)
		}
	}()
	return nil
}

func (b *Bot) spadesLeave(s *discordgo.Session, i *discordgo.InteractionCreate) {
	g, ok := b.spades.Get(i.ChannelID)
	if !ok {
		respondEphemeral(s, i, "No spades table here.")
		return
	}

	if err := g.Leave(interactionUserID(i)); err != nil {
		respondEphemeral(s, i, gameErrorMessage(err))
		return
	}
	respond(s, i, &discordgo.InteractionResponseData{
		Content: fmt.Sprintf("%s left the table.", interactionUserName(i)),
	})
}

// --- blackjack ---

func (b *Bot) openBlackjackTable(s *discordgo.Session, i *discordgo.InteractionCreate) {
	tableID := i.ChannelID
	userID := interactionUserID(i)
	ctx := context.Background()

	g, err := b.blackjack.Create(tableID, func() *blackjack.Game {
		return blackjack.NewGame(ctx, tableID, b.repo, b.wallets, b.log)
	})
	if err != nil {
		respondEphemeral(s, i, "This channel already has a game running.")
		return
	}

	if _, _, err := b.wallets.GetOrCreateWallet(ctx, userID); err != nil {
		b.log.Error().Err(err).Str("user_id", userID).Msg("creating wallet")
	}
	if err := g.Join(userID); err != nil {
		b.blackjack.Remove(tableID)
		respondEphemeral(s, i, gameErrorMessage(err))
		return
	}

	content := fmt.Sprintf("%s opened a blackjack table. Up to %d players.",
		interactionUserName(i), blackjack.MaxPlayers)
	if g.WasShuffled() {
		content += " Fresh shoe."
	}
	respond(s, i, &discordgo.InteractionResponseData{
		Content:    content,
		Components: lobbyButtons("bj"),
	})
}

func (b *Bot) blackjackJoin(s *discordgo.Session, i *discordgo.InteractionCreate) {
	g, ok := b.blackjack.Get(i.ChannelID)
	if !ok {
		respondEphemeral(s, i, "No blackjack table here. Open one with /blackjack.")
		return
	}

	userID := interactionUserID(i)
	if _, _, err := b.wallets.GetOrCreateWallet(context.Background(), userID); err != nil {
		b.log.Error().Err(err).Str("user_id", userID).Msg("creating wallet")
	}
	if err := g.Join(userID); err != nil {
		respondEphemeral(s, i, gameErrorMessage(err))
		return
	}
	respond(s, i, &discordgo.InteractionResponseData{
		Content: fmt.Sprintf("%s sat down. %d at the table.", interactionUserName(i), len(g.PlayerIDs())),
	})
}

func (b *Bot) blackjackLeave(s *discordgo.Session, i *discordgo.InteractionCreate) {
	tableID := i.ChannelID
	g, ok := b.blackjack.Get(tableID)
	if !ok {
		respondEphemeral(s, i, "No blackjack table here.")
		return
	}

	if err := g.Leave(interactionUserID(i)); err != nil {
		respondEphemeral(s, i, gameErrorMessage(err))
		return
	}
	if len(g.PlayerIDs()) == 0 {
		b.blackjack.Remove(tableID)
	}
	respond(s, i, &discordgo.InteractionResponseData{
		Content: fmt.Sprintf("%s left the table.", interactionUserName(i)),
	})
}

func (b *Bot) blackjackStart(s *discordgo.Session, i *discordgo.InteractionCreate) {
	g, ok := b.blackjack.Get(i.ChannelID)
	if !ok {
		respondEphemeral(s, i, "No blackjack table here.")
		return
	}

	if err := g.Start(); err != nil {
		respondEphemeral(s, i, gameErrorMessage(err))
		return
	}
	respond(s, i, &discordgo.InteractionResponseData{
		Content:    "Bets, please.",
		Components: betButtonRow(),
	})
}

func (b *Bot) blackjackBet(s *discordgo.Session, i *discordgo.InteractionCreate, raw string) {
	g, ok := b.blackjack.Get(i.ChannelID)
	if !ok {
		respondEphemeral(s, i, "No blackjack table here.")
		return
	}

	amount, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondEphemeral(s, i, "Bad bet amount.")
		return
	}

	userID := interactionUserID(i)
	if err := g.PlaceBet(context.Background(), userID, amount); err != nil {
		if errors.Is(err, walletSvc.ErrInsufficientFunds) {
			respondEphemeral(s, i, fmt.Sprintf("You can't cover a $%d bet.", amount))
			return
		}
		respondEphemeral(s, i, gameErrorMessage(err))
		return
	}

	if !g.AllBetsPlaced() {
		respond(s, i, &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("%s bets $%d.", interactionUserName(i), amount),
		})
		return
	}

	// The last bet triggered the deal.
	respond(s, i, &discordgo.InteractionResponseData{
		Content:    b.blackjackTableView(g),
		Components: playButtonRow(),
	})
}

func (b *Bot) blackjackHit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.blackjackAction(s, i, func(g *blackjack.Game, userID string) error {
		return g.Hit(userID)
	})
}

func (b *Bot) blackjackStand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.blackjackAction(s, i, func(g *blackjack.Game, userID string) error {
		return g.Stand(userID)
	})
}

func (b *Bot) blackjackAction(s *discordgo.Session, i *discordgo.InteractionCreate, act func(*blackjack.Game, string) error) {
	tableID := i.ChannelID
	g, ok := b.blackjack.Get(tableID)
	if !ok {
		respondEphemeral(s, i, "No blackjack table here.")
		return
	}

	if err := act(g, interactionUserID(i)); err != nil {
		respondEphemeral(s, i, gameErrorMessage(err))
		return
	}

	if g.State().Terminal() {
		b.finishBlackjack(s, i, g, tableID)
		return
	}
	respond(s, i, &discordgo.InteractionResponseData{
		Content:    b.blackjackTableView(g),
		Components: playButtonRow(),
	})
}

func (b *Bot) finishBlackjack(s *discordgo.Session, i *discordgo.InteractionCreate, g *blackjack.Game, tableID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := g.Finish(ctx); err != nil {
		b.log.Error().Err(err).Str("table_id", tableID).Msg("finishing blackjack game")
	}
	b.blackjack.Remove(tableID)

	respond(s, i, &discordgo.InteractionResponseData{Content: b.blackjackResultView(g)})
}

func (b *Bot) blackjackTableView(g *blackjack.Game) string {
	var sb strings.Builder

	up := g.DealerUpCard()
	fmt.Fprintf(&sb, "Dealer shows %s\n", FormatCard(up))

	turn, _ := g.CurrentTurn()
	for _, playerID := range g.PlayerIDs() {
		hand, err := g.PlayerHand(playerID)
		if err != nil {
			continue
		}
		marker := ""
		if playerID == turn {
			marker = " 👈"
		}
		fmt.Fprintf(&sb, "<@%s>: %s%s\n", playerID, FormatScore(hand.Cards, hand.Value()), marker)
	}
	return sb.String()
}

func (b *Bot) blackjackResultView(g *blackjack.Game) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Dealer: %s\n", FormatScore(g.DealerHand(), blackjack.BestScore(g.DealerHand())))

	results, err := g.Results()
	if err != nil {
		return "Game over."
	}
	for _, r := range results {
		line := string(r.Result)
		if r.Payout > 0 {
			line = fmt.Sprintf("%s, paid $%d", line, r.Payout)
		}
		fmt.Fprintf(&sb, "<@%s>: %s\n", r.PlayerID, line)
	}
	return sb.String()
}

// --- wallet and history ---

func (b *Bot) showBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := interactionUserID(i)
	wallet, created, err := b.wallets.GetOrCreateWallet(context.Background(), userID)
	if err != nil {
		respondEphemeral(s, i, "Couldn't look up your wallet.")
		return
	}

	msg := fmt.Sprintf("Your balance: $%d", wallet.Balance)
	if created {
		msg += " (new wallet, on the house)"
	}
	respondEphemeral(s, i, msg)
}

func (b *Bot) showResults(s *discordgo.Session, i *discordgo.InteractionCreate) {
	results, err := b.repo.GetTableResults(context.Background(), i.ChannelID, 5)
	if err != nil {
		respondEphemeral(s, i, "Couldn't load results.")
		return
	}
	if len(results) == 0 {
		respondEphemeral(s, i, "No games played in this channel yet.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Recent games:\n")
	for _, r := range results {
		fmt.Fprintf(&sb, "%s, %s", r.GameType, r.CompletedAt.Format("Jan 2 15:04"))
		if r.Abandoned {
			sb.WriteString(" (abandoned)")
		}
		for _, pr := range r.PlayerResults {
			fmt.Fprintf(&sb, "\n  <@%s>: %s (%d)", pr.PlayerID, pr.Result, pr.Score)
		}
		sb.WriteString("\n")
	}
	respondEphemeral(s, i, sb.String())
}

func (b *Bot) showStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	stats, err := b.stats.PlayerStats(context.Background(), interactionUserID(i))
	if err != nil {
		respondEphemeral(s, i, "Couldn't load your stats.")
		return
	}
	if stats.GamesPlayed == 0 {
		respondEphemeral(s, i, "You haven't played a game yet.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Games: %d | W %d / L %d / P %d (%.0f%% win rate)\n",
		stats.GamesPlayed, stats.Wins, stats.Losses, stats.Pushes, stats.WinRate()*100)
	fmt.Fprintf(&sb, "Best score: %d", stats.BestScore)
	switch {
	case stats.CurrentStreak > 1:
		fmt.Fprintf(&sb, " | On a %d-game win streak", stats.CurrentStreak)
	case stats.CurrentStreak < -1:
		fmt.Fprintf(&sb, " | %d losses in a row", -stats.CurrentStreak)
	}
	respondEphemeral(s, i, sb.String())
}

// --- helpers ---

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func interactionUserName(i *discordgo.InteractionCreate) string {
	if i.Member != nil {
		if i.Member.Nick != "" {
			return i.Member.Nick
		}
		if i.Member.User != nil {
			return i.Member.User.Username
		}
	}
	if i.User != nil {
		return i.User.Username
	}
	return "player"
}

// gameErrorMessage turns a game error into something worth showing a
// player; anything unexpected gets a generic line and a log entry.
func gameErrorMessage(err error) string {
	var gameErr *types.GameError
	if errors.As(err, &gameErr) {
		return gameErr.Message
	}
	return "Something went wrong."
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, data *discordgo.InteractionResponseData) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	respond(s, i, &discordgo.InteractionResponseData{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}

func lobbyButtons(prefix string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Join", Style: discordgo.SuccessButton, CustomID: prefix + "_join"},
				discordgo.Button{Label: "Start", Style: discordgo.PrimaryButton, CustomID: prefix + "_start"},
				discordgo.Button{Label: "Leave", Style: discordgo.DangerButton, CustomID: prefix + "_leave"},
			},
		},
	}
}

func betButtonRow() []discordgo.MessageComponent {
	buttons := make([]discordgo.MessageComponent, 0, len(betButtons))
	for _, amount := range betButtons {
		buttons = append(buttons, discordgo.Button{
			Label:    fmt.Sprintf("Bet $%d", amount),
			Style:    discordgo.SecondaryButton,
			CustomID: fmt.Sprintf("bj_bet_%d", amount),
		})
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}

func playButtonRow() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Hit", Style: discordgo.PrimaryButton, CustomID: "bj_hit"},
				discordgo.Button{Label: "Stand", Style: discordgo.SecondaryButton, CustomID: "bj_stand"},
			},
		},
	}
}
