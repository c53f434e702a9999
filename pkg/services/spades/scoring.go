package spades

// roundScore computes the points and bags a player earns for one
// round given their bid and tricks won.
//
// Nil and moon are all-or-nothing: a failed nil loses the nil bonus,
// a failed moon loses the moon bonus, and neither earns partial
// credit. A made normal bid earns TrickValue per bid trick plus one
// bag per overtrick; a failed bid loses TrickValue per bid trick.
func roundScore(bid Bid, tricks, handSize int, cfg Config) (points, bags int) {
	switch {
	case bid.Nil:
		if tricks == 0 {
			return cfg.NilBonus, 0
		}
		return -cfg.NilBonus, tricks
	case bid.Moon:
		if tricks == handSize {
			return cfg.MoonBonus, 0
		}
		return -cfg.MoonBonus, 0
	case tricks >= bid.Tricks:
		bags = tricks - bid.Tricks
		return cfg.TrickValue*bid.Tricks + bags, bags
	default:
		return -cfg.TrickValue * bid.Tricks, 0
	}
}

// applyRoundScore updates a player's cumulative score and bag count,
// applying the sandbag penalty each time the bag limit fills.
func applyRoundScore(p *Player, handSize int, cfg Config) {
	points, bags := roundScore(p.Bid, p.Tricks, handSize, cfg)
	p.Score += points
	p.Bags += bags
	for p.Bags >= cfg.BagLimit {
		p.Bags -= cfg.BagLimit
		p.Score -= cfg.BagPenalty
	}
}
