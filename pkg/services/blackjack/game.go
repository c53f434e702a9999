package blackjack

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fadedpez/cardtable/internal/types"
	"github.com/fadedpez/cardtable/pkg/engine"
	"github.com/fadedpez/cardtable/pkg/entities"
	gameRepo "github.com/fadedpez/cardtable/pkg/repositories/game"
)

// WalletService is the slice of the wallet service the game needs to
// take bets and pay winners.
type WalletService interface {
	RemoveFunds(ctx context.Context, userID string, amount int64, txType entities.TransactionType, referenceID, description string) error
	AddFunds(ctx context.Context, userID string, amount int64, txType entities.TransactionType, referenceID, description string) error
}

// HandResult is one player's line at the end of a game
type HandResult struct {
	PlayerID string
	Result   entities.Result
	Score    int
	Payout   int64
}

// Game is a single blackjack game at a table. Unlike the trick-taking
// games it is interaction driven: the transport layer calls Join,
// PlaceBet, Hit and Stand as players click, and the game advances its
// state machine synchronously under the lock.
type Game struct {
	mu sync.Mutex

	id        string
	tableID   string
	createdAt time.Time
	state     entities.GameState

	hands  map[string]*Hand
	order  *engine.TurnOrder
	turn   int
	dealer *Hand

	deck     *entities.Deck
	shuffled bool

	payoutsProcessed bool

	repo    gameRepo.Repository
	wallets WalletService
	log     zerolog.Logger
}

// NewGame creates a blackjack game for a table, restoring the table's
// shoe from the repository when one was persisted.
func NewGame(ctx context.Context, tableID string, repo gameRepo.Repository, wallets WalletService, log zerolog.Logger) *Game {
	g := &Game{
		id:        uuid.New().String(),
		tableID:   tableID,
		createdAt: time.Now(),
		state:     entities.StateLobby,
		hands:     make(map[string]*Hand),
		dealer:    NewHand(),
		repo:      repo,
		wallets:   wallets,
		log: log.With().
			Str("game", "blackjack").
			Str("table_id", tableID).
			Logger(),
	}

	cards, err := repo.GetDeck(ctx, tableID)
	if err != nil {
		g.log.Error().Err(err).Msg("loading persisted shoe")
	}
	if len(cards) >= ReshuffleThreshold {
		g.deck = entities.NewMultiDeck(StandardDecks)
		g.deck.Cards = cards
	} else {
		g.deck = NewShoe()
		g.shuffled = true
	}

	return g
}

// ID returns the game's unique identifier
func (g *Game) ID() string {
	return g.id
}

// CreatedAt returns when the table was opened
func (g *Game) CreatedAt() time.Time {
	return g.createdAt
}

// State returns the current game state
func (g *Game) State() entities.GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// WasShuffled reports whether a fresh shoe was shuffled for this game
func (g *Game) WasShuffled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.shuffled
}

// PlayerIDs returns the seated players in join order
func (g *Game) PlayerIDs() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.order != nil {
		return g.order.Seats()
	}
	ids := make([]string, 0, len(g.hands))
	for id := range g.hands {
		ids = append(ids, id)
	}
	return ids
}

// Join seats a player while the game is still in the lobby
func (g *Game) Join(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != entities.StateLobby {
		return types.NewGameError(types.ErrInvalidState, "game already started")
	}
	if _, ok := g.hands[playerID]; ok {
		return types.NewGameError(types.ErrAlreadyJoined, "already at the table")
	}
	if len(g.hands) >= MaxPlayers {
		return types.NewGameError(types.ErrTooManyPlayers, "table is full")
	}

	g.hands[playerID] = NewHand()
	if g.order == nil {
		g.order = engine.NewTurnOrder([]string{playerID})
	} else {
		seats := append(g.order.Seats(), playerID)
		g.order = engine.NewTurnOrder(seats)
	}
	return nil
}

// Leave frees a player's seat while the game is still in the lobby
func (g *Game) Leave(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != entities.StateLobby {
		return types.NewGameError(types.ErrInvalidState, "can't leave once the cards are out")
	}
	if _, ok := g.hands[playerID]; !ok {
		return types.NewGameError(types.ErrPlayerNotFound, "not at this table")
	}

	delete(g.hands, playerID)
	g.order.Remove(playerID)
	return nil
}

// Start closes the lobby and opens betting
func (g *Game) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != entities.StateLobby {
		return types.NewGameError(types.ErrInvalidState, "game already started")
	}
	if len(g.hands) == 0 {
		return types.NewGameError(types.ErrNotEnoughPlayers, "no players at the table")
	}

	g.state = entities.StateBetting
	g.log.Info().Int("players", len(g.hands)).Msg("betting opened")
	return nil
}

// PlaceBet takes a player's bet, debiting their wallet. When every
// seated player has bet the cards go out immediately.
func (g *Game) PlaceBet(ctx context.Context, playerID string, amount int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != entities.StateBetting {
		return types.NewGameError(types.ErrInvalidState, "betting is not open")
	}
	hand, ok := g.hands[playerID]
	if !ok {
		return types.NewGameError(types.ErrPlayerNotFound, "not at this table")
	}
	if hand.Bet > 0 {
		return types.NewGameError(types.ErrIllegalMove, "bet already placed")
	}
	if amount <= 0 {
		return types.NewGameError(types.ErrIllegalMove, "bet must be positive")
	}

	if err := g.wallets.RemoveFunds(ctx, playerID, amount, entities.TransactionTypeBet, g.id, "blackjack bet"); err != nil {
		return fmt.Errorf("taking bet: %w", err)
	}
	hand.Bet = amount

	g.log.Info().Str("player_id", playerID).Int64("amount", amount).Msg("bet placed")

	if g.allBetsPlaced() {
		g.deal()
	}
	return nil
}

// AllBetsPlaced reports whether every seated player has bet
func (g *Game) AllBetsPlaced() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.allBetsPlaced()
}

func (g *Game) allBetsPlaced() bool {
	for _, hand := range g.hands {
		if hand.Bet == 0 {
			return false
		}
	}
	return len(g.hands) > 0
}

// deal gives two cards to every player and the dealer. Naturals stand
// automatically. Caller holds g.mu.
func (g *Game) deal() {
	g.state = entities.StateDealing

	if ShouldReshuffle(g.deck) {
		g.deck = NewShoe()
		g.shuffled = true
		g.log.Info().Msg("reshuffled the shoe")
	}

	for i := 0; i < 2; i++ {
		for _, playerID := range g.order.Seats() {
			g.hands[playerID].AddCard(g.deck.Draw())
		}
		g.dealer.AddCard(g.deck.Draw())
	}

	for _, hand := range g.hands {
		if IsBlackjack(hand.Cards) {
			hand.Stand()
		}
	}

	g.state = entities.StatePlaying
	g.turn = 0
	g.skipFinishedHands()
}

// DealerUpCard returns the dealer's visible card
func (g *Game) DealerUpCard() *entities.Card {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.dealer.Cards) == 0 {
		return nil
	}
	return g.dealer.Cards[0]
}

// DealerHand returns the dealer's full hand
func (g *Game) DealerHand() []*entities.Card {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.dealer.Cards
}

// PlayerHand returns a player's hand
func (g *Game) PlayerHand(playerID string) (*Hand, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	hand, ok := g.hands[playerID]
	if !ok {
		return nil, types.NewGameError(types.ErrPlayerNotFound, "not at this table")
	}
	return hand, nil
}

// CurrentTurn returns the player whose turn it is
func (g *Game) CurrentTurn() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != entities.StatePlaying {
		return "", types.NewGameError(types.ErrInvalidState, "no hand in play")
	}
	return g.order.At(g.turn), nil
}

// Hit deals the acting player one more card
func (g *Game) Hit(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	hand, err := g.actingHand(playerID)
	if err != nil {
		return err
	}

	if err := hand.AddCard(g.deck.Draw()); err != nil {
		return err
	}
	g.log.Info().Str("player_id", playerID).Int("score", hand.Value()).Msg("hit")

	if hand.Done() {
		g.advanceTurn()
	}
	return nil
}

// Stand ends the acting player's turn
func (g *Game) Stand(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	hand, err := g.actingHand(playerID)
	if err != nil {
		return err
	}

	if err := hand.Stand(); err != nil {
		return err
	}
	g.log.Info().Str("player_id", playerID).Int("score", hand.Value()).Msg("stand")

	g.advanceTurn()
	return nil
}

// actingHand validates that it is playerID's turn. Caller holds g.mu.
func (g *Game) actingHand(playerID string) (*Hand, error) {
	if g.state != entities.StatePlaying {
		return nil, types.NewGameError(types.ErrInvalidState, "no hand in play")
	}
	hand, ok := g.hands[playerID]
	if !ok {
		return nil, types.NewGameError(types.ErrPlayerNotFound, "not at this table")
	}
	if g.order.At(g.turn) != playerID {
		return nil, types.NewGameError(types.ErrNotPlayerTurn, "not your turn")
	}
	return hand, nil
}

// advanceTurn moves to the next player still holding a live hand, and
// runs the dealer once everyone is done. Caller holds g.mu.
func (g *Game) advanceTurn() {
	g.turn++
	g.skipFinishedHands()
}

func (g *Game) skipFinishedHands() {
	for g.turn < g.order.Len() {
		if !g.hands[g.order.At(g.turn)].Done() {
			return
		}
		g.turn++
	}
	g.playDealer()
}

// playDealer draws to the dealer stand score, unless every player has
// already bust. Caller holds g.mu.
func (g *Game) playDealer() {
	g.state = entities.StateDealer

	allBust := true
	for _, hand := range g.hands {
		if hand.Status != StatusBust {
			allBust = false
			break
		}
	}

	if !allBust {
		for g.dealer.Value() < DealerStandScore {
			g.dealer.AddCard(g.deck.Draw())
		}
	}

	g.state = entities.StateComplete
	g.log.Info().Int("dealer_score", g.dealer.Value()).Msg("dealer done")
}

// Results computes each player's outcome against the dealer
func (g *Game) Results() ([]HandResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != entities.StateComplete {
		return nil, types.NewGameError(types.ErrInvalidState, "game is not finished")
	}

	results := make([]HandResult, 0, len(g.hands))
	for _, playerID := range g.order.Seats() {
		hand := g.hands[playerID]
		results = append(results, HandResult{
			PlayerID: playerID,
			Result:   g.resultFor(hand),
			Score:    hand.Value(),
			Payout:   g.payoutFor(hand),
		})
	}
	return results, nil
}

// resultFor decides a hand's outcome. Caller holds g.mu.
func (g *Game) resultFor(hand *Hand) entities.Result {
	if hand.Status == StatusBust {
		return entities.ResultLose
	}
	if IsBlackjack(hand.Cards) && !IsBlackjack(g.dealer.Cards) {
		return entities.ResultBlackjack
	}
	switch CompareHands(hand.Cards, g.dealer.Cards) {
	case 1:
		return entities.ResultWin
	case -1:
		return entities.ResultLose
	default:
		return entities.ResultPush
	}
}

// payoutFor returns the amount returned to the player, bet included.
// Naturals pay 3:2. Caller holds g.mu.
func (g *Game) payoutFor(hand *Hand) int64 {
	switch g.resultFor(hand) {
	case entities.ResultBlackjack:
		return hand.Bet + hand.Bet*3/2
	case entities.ResultWin:
		return hand.Bet * 2
	case entities.ResultPush:
		return hand.Bet
	default:
		return 0
	}
}

// Finish pays out winners exactly once and persists the result and the
// remaining shoe.
func (g *Game) Finish(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != entities.StateComplete {
		return types.NewGameError(types.ErrInvalidState, "game is not finished")
	}
	if g.payoutsProcessed {
		return types.NewGameError(types.ErrInvalidState, "payouts already processed")
	}
	g.payoutsProcessed = true

	result := &entities.GameResult{
		ID:           g.id,
		TableID:      g.tableID,
		GameType:     entities.GameBlackjack,
		CompletedAt:  time.Now().UTC(),
		RoundsPlayed: 1,
	}

	for _, playerID := range g.order.Seats() {
		hand := g.hands[playerID]
		payout := g.payoutFor(hand)
		if payout > 0 {
			if err := g.wallets.AddFunds(ctx, playerID, payout, entities.TransactionTypePayout, g.id, "blackjack payout"); err != nil {
				g.log.Error().Err(err).Str("player_id", playerID).Int64("payout", payout).
					Msg("paying out")
			}
		}
		result.PlayerResults = append(result.PlayerResults, &entities.PlayerResult{
			PlayerID: playerID,
			Result:   g.resultFor(hand),
			Score:    hand.Value(),
		})
	}

	if err := g.repo.SaveGameResult(ctx, result); err != nil {
		g.log.Error().Err(err).Msg("saving game result")
	}
	if err := g.repo.SaveDeck(ctx, g.tableID, g.deck.Cards); err != nil {
		g.log.Error().Err(err).Msg("saving shoe")
	}

	g.log.Info().Int("players", len(g.hands)).Msg("game finished")
	return nil
}
