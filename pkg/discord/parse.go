package discord

import (
	"strconv"
	"strings"

	"github.com/fadedpez/cardtable/internal/types"
	"github.com/fadedpez/cardtable/pkg/engine"
	"github.com/fadedpez/cardtable/pkg/entities"
)

var suitLetters = map[string]entities.Suit{
	"H": entities.Hearts,
	"D": entities.Diamonds,
	"C": entities.Clubs,
	"S": entities.Spades,
	"♥": entities.Hearts,
	"♦": entities.Diamonds,
	"♣": entities.Clubs,
	"♠": entities.Spades,
}

var rankNames = map[string]entities.Rank{
	"A": entities.Ace, "2": entities.Two, "3": entities.Three,
	"4": entities.Four, "5": entities.Five, "6": entities.Six,
	"7": entities.Seven, "8": entities.Eight, "9": entities.Nine,
	"10": entities.Ten, "T": entities.Ten, "J": entities.Jack,
	"Q": entities.Queen, "K": entities.King,
}

// ParseCard reads notations like "QS", "10h", "q♠" into a card response.
func ParseCard(input string) (engine.CardResponse, error) {
	s := strings.ToUpper(strings.TrimSpace(input))
	if len(s) < 2 {
		return engine.CardResponse{}, types.NewGameError(types.ErrIllegalMove, "say a card like QS or 10H")
	}

	// The suit is the final rune; ♠ and friends are multi-byte.
	runes := []rune(s)
	suit, ok := suitLetters[string(runes[len(runes)-1])]
	if !ok {
		return engine.CardResponse{}, types.NewGameError(types.ErrIllegalMove, "say a card like QS or 10H")
	}

	rank, ok := rankNames[string(runes[:len(runes)-1])]
	if !ok {
		return engine.CardResponse{}, types.NewGameError(types.ErrIllegalMove, "say a card like QS or 10H")
	}

	return engine.CardResponse{Suit: suit, Rank: rank}, nil
}

// ParseBid reads "4", "nil" or "moon" into a bid response.
func ParseBid(input string) (engine.BidResponse, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	switch s {
	case "nil":
		return engine.BidResponse{Nil: true}, nil
	case "moon", "shoot":
		return engine.BidResponse{Moon: true}, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return engine.BidResponse{}, types.NewGameError(types.ErrIllegalMove, "say a number of tricks, nil, or moon")
	}
	return engine.BidResponse{Tricks: n}, nil
}

// ParseAnswer interprets a free-form chat message as either a bid or a
// card, preferring whichever parses. Prompt text commonly arrives with
// a leading verb ("bid 4", "play QS"), which is stripped first.
func ParseAnswer(input string) (any, bool) {
	s := strings.TrimSpace(input)
	for _, prefix := range []string{"bid ", "play "} {
		if strings.HasPrefix(strings.ToLower(s), prefix) {
			s = s[len(prefix):]
			break
		}
	}

	if bid, err := ParseBid(s); err == nil {
		return bid, true
	}
	if card, err := ParseCard(s); err == nil {
		return card, true
	}
	return nil, false
}
