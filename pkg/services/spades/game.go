package spades

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fadedpez/cardtable/internal/types"
	"github.com/fadedpez/cardtable/pkg/engine"
	"github.com/fadedpez/cardtable/pkg/entities"
	gamerepo "github.com/fadedpez/cardtable/pkg/repositories/game"
)

// Game drives one spades table through the lobby → deal → bid →
// trick-play → scoring lifecycle. All card state is owned by the Run
// goroutine; the only suspension points are the prompter waits for a
// player's bid or card.
type Game struct {
	ID        string
	TableID   string
	CreatedAt time.Time
	cfg       Config

	mu      sync.Mutex
	state   entities.GameState
	players map[string]*Player
	order   *engine.TurnOrder
	leaving map[string]bool

	deck     *entities.Deck
	round    *engine.Round
	discard  []*entities.Card
	roundNum int
	dealt    int // cards dealt per hand this round

	// roundScored guards against applying the scoring formula twice
	// for the same deal.
	roundScored bool

	prompter engine.Prompter
	repo     gamerepo.Repository
	log      zerolog.Logger

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// New creates a game in the lobby state.
func New(tableID string, cfg Config, prompter engine.Prompter, repo gamerepo.Repository, log zerolog.Logger) *Game {
	id := uuid.New().String()
	return &Game{
		ID:        id,
		TableID:   tableID,
		CreatedAt: time.Now(),
		cfg:       cfg.WithDefaults(),
		state:     entities.StateLobby,
		players:   make(map[string]*Player),
		leaving:   make(map[string]bool),
		deck:      entities.NewDeck(),
		prompter:  prompter,
		repo:      repo,
		log:       log.With().Str("game_id", id).Str("table_id", tableID).Logger(),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// State returns the current lifecycle phase.
func (g *Game) State() entities.GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// PlayerIDs returns the seated players in current turn order, or join
// order while still in the lobby.
func (g *Game) PlayerIDs() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.order != nil {
		return g.order.Seats()
	}
	ids := make([]string, 0, len(g.players))
	for id := range g.players {
		ids = append(ids, id)
	}
	return ids
}

// Player returns the seated player with the given ID. The returned
// pointer is owned by the game; read it only while the game is blocked
// waiting on that player, or after the game ends.
func (g *Game) Player(playerID string) (*Player, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.players[playerID]
	return p, ok
}

// Join seats a player. Only possible while the lobby is open.
func (g *Game) Join(playerID, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != entities.StateLobby {
		return types.NewGameError(types.ErrInvalidState, "game already started")
	}
	if _, ok := g.players[playerID]; ok {
		return types.NewGameError(types.ErrAlreadyJoined, "already at the table")
	}
	if len(g.players) >= MaxPlayers {
		return types.NewGameError(types.ErrTooManyPlayers, fmt.Sprintf("table seats at most %d", MaxPlayers))
	}
	g.players[playerID] = newPlayer(playerID, name)
	return nil
}

// Full reports whether the table has reached its seat limit.
func (g *Game) Full() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.players) >= MaxPlayers
}

// Leave removes a player. In the lobby the seat frees immediately;
// mid-game the departure is applied at the end of the current trick,
// never mid-trick.
func (g *Game) Leave(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[playerID]
	if !ok {
		return types.NewGameError(types.ErrPlayerNotFound, "not at this table")
	}
	if g.state == entities.StateLobby {
		delete(g.players, playerID)
		return nil
	}
	if g.state.Terminal() {
		return types.NewGameError(types.ErrInvalidState, "game is over")
	}
	g.leaving[p.ID] = true
	return nil
}

// Stop force-terminates the game, tearing down any pending waits.
func (g *Game) Stop() {
	g.stopOnce.Do(func() { close(g.stop) })
}

// Done is closed when the Run loop exits.
func (g *Game) Done() <-chan struct{} {
	return g.done
}

// Run plays the game to completion. It blocks until a player reaches
// the score target, the table is abandoned, the context is cancelled,
// or Stop is called. Call it from its own goroutine, one per table.
func (g *Game) Run(ctx context.Context) error {
	g.mu.Lock()
	if g.state != entities.StateLobby {
		g.mu.Unlock()
		return types.NewGameError(types.ErrInvalidState, "game already started")
	}
	if len(g.players) < MinPlayers {
		g.mu.Unlock()
		return types.NewGameError(types.ErrNotEnoughPlayers, fmt.Sprintf("need at least %d players", MinPlayers))
	}
	// Only the call that won the lobby owns the done channel; a
	// rejected duplicate Run must leave it open.
	defer close(g.done)
	ids := make([]string, 0, len(g.players))
	for id := range g.players {
		ids = append(ids, id)
	}
	g.order = engine.NewTurnOrder(ids)
	// Close the lobby before releasing the lock so a concurrent Join
	// cannot seat a player the turn order doesn't know about.
	g.state = entities.StateDealing
	g.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-g.stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	g.log.Info().Int("players", len(ids)).Msg("game starting")

	for {
		g.startRound()
		if err := g.runBidding(ctx); err != nil {
			return g.finish(ctx, true, err)
		}
		if err := g.playTricks(ctx); err != nil {
			if types.IsGameError(err, types.ErrGameAbandoned) {
				return g.finish(ctx, true, nil)
			}
			return g.finish(ctx, true, err)
		}
		if err := g.scoreRound(ctx); err != nil {
			return g.finish(ctx, true, err)
		}
		if g.winner() != nil {
			return g.finish(ctx, false, nil)
		}
	}
}

// startRound refills and shuffles the deck, clears per-round state,
// and deals round-robin one card at a time, the way a human dealer
// would.
func (g *Game) startRound() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state = entities.StateDealing
	g.roundNum++
	g.roundScored = false
	g.discard = nil
	g.round = engine.NewRound(g.cfg.CompareContext())

	g.deck.Refill()
	g.deck.Shuffle()

	for _, p := range g.players {
		p.Hand.Empty()
		p.resetRound()
	}

	handSize := g.cfg.HandSize
	if n := g.order.Len(); handSize*n > g.deck.Len() {
		// Lenient configs can ask for more cards than the deck holds;
		// cap the deal instead of crashing on an empty draw.
		handSize = g.deck.Len() / n
	}
	g.dealt = handSize
	for i := 0; i < handSize; i++ {
		for _, id := range g.order.Seats() {
			if card := g.deck.Draw(); card != nil {
				g.players[id].Hand.Add(card)
			}
		}
	}
	g.log.Info().Int("round", g.roundNum).Int("hand_size", handSize).Msg("dealt new round")
}

// runBidding shows each player their hand and collects bids. The
// requests go out in parallel since no bid depends on another, but the
// phase only ends when every outstanding request resolves, each wait
// independently timeout-bound.
func (g *Game) runBidding(ctx context.Context) error {
	g.setState(entities.StateBidding)

	seats := g.order.Seats()
	var wg sync.WaitGroup
	for _, id := range seats {
		wg.Add(1)
		go func(playerID string) {
			defer wg.Done()
			g.collectBid(ctx, playerID)
		}(id)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	players := g.playersLocked()
	handSize := g.dealt
	g.mu.Unlock()
	if high := HighestBidder(players, handSize); high != nil {
		// The highest bidder leads the first trick.
		g.mu.Lock()
		g.order.Pivot(high.ID)
		g.mu.Unlock()
		g.broadcastf(ctx, "%s bid highest (%s) and leads the first trick.", high.DisplayName(), high.Bid)
	}
	return nil
}

// collectBid runs one player's bid turn. The whole turn shares a
// single deadline: a rejected bid is re-prompted with the remaining
// budget, not a fresh one. On timeout the player is bid zero tricks so
// the round can proceed.
func (g *Game) collectBid(ctx context.Context, playerID string) {
	g.mu.Lock()
	p := g.players[playerID]
	maxBid := p.Hand.Len()
	g.mu.Unlock()

	g.notifyHand(ctx, p)

	bctx, cancel := context.WithTimeout(ctx, g.cfg.BidTimeout)
	defer cancel()

	reason := ""
	for {
		resp, err := g.prompter.RequestBid(bctx, engine.BidRequest{
			GameID:   g.ID,
			PlayerID: playerID,
			Min:      0,
			Max:      maxBid,
			Reason:   reason,
		})
		if err != nil {
			if isTimeout(err) {
				g.setBid(p, Bid{Tricks: 0})
				g.notifyf(ctx, playerID, "Time's up: you are bid 0 tricks this round.")
				g.broadcastf(ctx, "%s ran out of time and bids 0.", p.DisplayName())
				return
			}
			return // cancelled: Run is tearing down
		}

		bid := Bid{Tricks: resp.Tricks, Nil: resp.Nil, Moon: resp.Moon}
		if !bid.Nil && !bid.Moon && (bid.Tricks < 0 || bid.Tricks > maxBid) {
			reason = fmt.Sprintf("bid must be between 0 and %d (or nil/moon)", maxBid)
			continue
		}
		g.setBid(p, bid)
		g.broadcastf(ctx, "%s bids %s.", p.DisplayName(), bid)
		return
	}
}

func (g *Game) setBid(p *Player, bid Bid) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p.Bid = bid
	p.HasBid = true
}

// playTricks runs the trick-play phase: hand-size tricks, each player
// in turn order playing exactly one validated card. The trick winner
// leads the next trick. Departures apply between tricks.
func (g *Game) playTricks(ctx context.Context) error {
	g.setState(entities.StateTrickPlay)

	g.mu.Lock()
	tricks := g.dealt
	g.mu.Unlock()
	for trick := 0; trick < tricks; trick++ {
		seats := g.order.Seats()
		for _, playerID := range seats {
			card, err := g.collectCard(ctx, playerID)
			if err != nil {
				return err
			}
			g.round.Play(playerID, card)
			g.broadcastf(ctx, "%s plays %s.", g.playerName(playerID), card)
		}

		win, ok := g.round.WinningCard()
		if !ok {
			return types.NewGameError(types.ErrInvariantViolation, "trick finished with no winner")
		}
		g.mu.Lock()
		g.players[win.PlayerID].Tricks++
		g.order.Pivot(win.PlayerID)
		g.mu.Unlock()
		g.discard = append(g.discard, g.round.ResetTrick()...)
		g.broadcastf(ctx, "%s takes the trick with %s.", g.playerName(win.PlayerID), win.Card)

		if err := g.verifyConservation(); err != nil {
			return err
		}
		if err := g.applyDepartures(ctx); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return nil
}

// collectCard runs one player's card turn under a single deadline,
// re-prompting rejected plays with the remaining budget. A timeout
// auto-plays the first legal card so the trick always completes.
func (g *Game) collectCard(ctx context.Context, playerID string) (*entities.Card, error) {
	g.mu.Lock()
	p := g.players[playerID]
	g.mu.Unlock()

	pctx, cancel := context.WithTimeout(ctx, g.cfg.PlayTimeout)
	defer cancel()

	reason := ""
	for {
		resp, err := g.prompter.RequestCard(pctx, engine.PlayCardRequest{
			GameID:   g.ID,
			PlayerID: playerID,
			LedSuit:  g.round.LedSuit(),
			Reason:   reason,
		})
		if err != nil {
			if isTimeout(err) {
				card := g.autoPlay(p)
				if card == nil {
					return nil, types.NewGameError(types.ErrInvariantViolation, "no legal card to auto-play")
				}
				g.notifyf(ctx, playerID, "Time's up: %s was played for you.", card)
				return card, nil
			}
			return nil, err
		}

		if !p.Hand.Holds(resp.Suit, resp.Rank) {
			reason = "you don't hold that card"
			g.notifyf(ctx, playerID, "Rejected: %s.", reason)
			continue
		}
		if err := g.round.CanPlay(p.Hand, entities.NewCard(resp.Suit, resp.Rank)); err != nil {
			var gameErr *types.GameError
			reason = err.Error()
			if errors.As(err, &gameErr) {
				reason = gameErr.Message
			}
			g.notifyf(ctx, playerID, "Rejected: %s.", reason)
			continue
		}
		card, err := p.Hand.Pluck(resp.Suit, resp.Rank)
		if err != nil {
			return nil, err // unreachable after Holds, but never play an unheld card
		}
		return card, nil
	}
}

// autoPlay removes and returns the first legal card in the hand.
func (g *Game) autoPlay(p *Player) *entities.Card {
	for _, c := range p.Hand.Cards() {
		if g.round.CanPlay(p.Hand, c) != nil {
			continue
		}
		card, err := p.Hand.Pluck(c.Suit, c.Rank)
		if err != nil {
			return nil
		}
		return card
	}
	return nil
}

// applyDepartures removes players who left during the trick, sending
// their cards to the discard pile. Dropping below the minimum seat
// count abandons the game.
func (g *Game) applyDepartures(ctx context.Context) error {
	g.mu.Lock()
	departed := make([]*Player, 0, len(g.leaving))
	for id := range g.leaving {
		if p, ok := g.players[id]; ok {
			departed = append(departed, p)
			g.discard = append(g.discard, p.Hand.Empty()...)
			g.order.Remove(id)
			delete(g.players, id)
		}
		delete(g.leaving, id)
	}
	remaining := g.order.Len()
	g.mu.Unlock()

	for _, p := range departed {
		g.broadcastf(ctx, "%s left the table.", p.DisplayName())
	}
	if len(departed) > 0 && remaining < MinPlayers {
		g.broadcastf(ctx, "Not enough players remain; the game is abandoned.")
		return types.NewGameError(types.ErrGameAbandoned, "too few players remain")
	}
	return nil
}

// scoreRound applies the scoring formula exactly once per deal.
func (g *Game) scoreRound(ctx context.Context) error {
	g.setState(entities.StateScoring)

	g.mu.Lock()
	if g.roundScored {
		g.mu.Unlock()
		return types.NewGameError(types.ErrInvalidState, "round already scored")
	}
	g.roundScored = true
	players := g.playersLocked()
	handSize := g.dealt
	g.mu.Unlock()

	for _, p := range players {
		applyRoundScore(p, handSize, g.cfg)
		g.broadcastf(ctx, "%s: bid %s, won %d → score %d (%d bags)",
			p.DisplayName(), p.Bid, p.Tricks, p.Score, p.Bags)
	}
	return nil
}

// winner returns the first player at or past the score target in seat
// order, highest score winning, or nil if the game continues.
func (g *Game) winner() *Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	var best *Player
	for _, id := range g.order.Seats() {
		p := g.players[id]
		if p.Score < g.cfg.ScoreTarget {
			continue
		}
		if best == nil || p.Score > best.Score {
			best = p
		}
	}
	return best
}

// finish records the terminal state and persists final standings. An
// abandoned game's result reflects only the rounds completed.
func (g *Game) finish(ctx context.Context, abandoned bool, cause error) error {
	g.mu.Lock()
	if abandoned {
		g.state = entities.StateAbandoned
	} else {
		g.state = entities.StateComplete
	}
	players := g.playersLocked()
	rounds := g.roundNum
	if !g.roundScored && rounds > 0 {
		rounds-- // the unfinished deal doesn't count
	}
	g.mu.Unlock()

	var top *Player
	for _, p := range players {
		if top == nil || p.Score > top.Score {
			top = p
		}
	}

	result := &entities.GameResult{
		ID:           g.ID,
		TableID:      g.TableID,
		GameType:     entities.GameSpades,
		CompletedAt:  time.Now(),
		Abandoned:    abandoned,
		RoundsPlayed: rounds,
	}
	for _, p := range players {
		outcome := entities.ResultLose
		if !abandoned && top != nil && p.ID == top.ID {
			outcome = entities.ResultWin
		}
		result.PlayerResults = append(result.PlayerResults, &entities.PlayerResult{
			PlayerID: p.ID,
			Result:   outcome,
			Score:    p.Score,
		})
	}

	// Persist with a fresh context: the game context may already be
	// cancelled when the table was force-stopped.
	saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := g.repo.SaveGameResult(saveCtx, result); err != nil {
		g.log.Error().Err(err).Msg("saving game result")
	}

	if abandoned {
		g.broadcastf(ctx, "Game over: abandoned after %d completed rounds.", rounds)
	} else if top != nil {
		g.broadcastf(ctx, "Game over: %s wins with %d points!", top.DisplayName(), top.Score)
	}
	g.log.Info().Bool("abandoned", abandoned).Int("rounds", rounds).Msg("game finished")
	return cause
}

// verifyConservation checks that every card is in exactly one place.
// A violation is fatal to this game but never to the process.
func (g *Game) verifyConservation() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	seen := make(map[entities.Card]int)
	total := 0
	count := func(cards []*entities.Card) {
		for _, c := range cards {
			seen[*c]++
			total++
		}
	}
	count(g.deck.Cards)
	for _, p := range g.players {
		count(p.Hand.Cards())
	}
	for _, pc := range g.round.Played() {
		seen[*pc.Card]++
		total++
	}
	count(g.discard)

	if total != entities.DeckSize {
		g.log.Error().Int("count", total).Msg("card conservation violated")
		return types.NewGameError(types.ErrInvariantViolation, "card count changed mid-game")
	}
	for card, n := range seen {
		if n > 1 {
			g.log.Error().Str("card", card.String()).Int("copies", n).Msg("duplicate card detected")
			return types.NewGameError(types.ErrInvariantViolation, "duplicate card in play")
		}
	}
	return nil
}

// playersLocked snapshots the players in seat order. Callers hold mu.
func (g *Game) playersLocked() []*Player {
	players := make([]*Player, 0, len(g.players))
	for _, id := range g.order.Seats() {
		if p, ok := g.players[id]; ok {
			players = append(players, p)
		}
	}
	return players
}

func (g *Game) playerName(playerID string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.players[playerID]; ok {
		return p.DisplayName()
	}
	return playerID
}

func (g *Game) setState(s entities.GameState) {
	g.mu.Lock()
	g.state = s
	g.mu.Unlock()
}

// notifyHand shows a player their dealt hand grouped by suit.
func (g *Game) notifyHand(ctx context.Context, p *Player) {
	cc := g.cfg.CompareContext()
	groups := p.Hand.GroupBySuit(cc)

	msg := "Your hand:"
	for _, suit := range entities.Suits() {
		cards, ok := groups[suit]
		if !ok {
			continue
		}
		msg += fmt.Sprintf("\n%s:", suit)
		for _, c := range cards {
			msg += " " + string(c.Rank)
		}
	}
	g.notifyf(ctx, p.ID, "%s", msg)
}

func (g *Game) notifyf(ctx context.Context, playerID, format string, args ...any) {
	if err := g.prompter.Notify(ctx, playerID, fmt.Sprintf(format, args...)); err != nil {
		g.log.Warn().Err(err).Str("player_id", playerID).Msg("notify failed")
	}
}

func (g *Game) broadcastf(ctx context.Context, format string, args ...any) {
	if err := g.prompter.Broadcast(ctx, g.TableID, fmt.Sprintf(format, args...)); err != nil {
		g.log.Warn().Err(err).Msg("broadcast failed")
	}
}

func isTimeout(err error) bool {
	return errors.Is(err, engine.ErrTimedOut) || errors.Is(err, context.DeadlineExceeded)
}
