package engine

import (
	poker "github.com/paulhankin/poker"
)

// Convert our engine.Card -> library card.
func toPH(c Card) poker.Card {
	var s poker.Suit
	switch c.Suit {
	case 'c':
		s = poker.Club
	case 'd':
		s = poker.Diamond
	case 'h':
		s = poker.Heart
	case 's':
		s = poker.Spade
	default:
		s = poker.Club
	}
	// Our ranks: 2..14 (Ace=14). Library: 1..13 (Ace=1).
	var r poker.Rank
	if c.Rank == 14 {
		r = poker.Rank(1)
	} else {
		r = poker.Rank(c.Rank)
	}
	card, _ := poker.MakeCard(s, r)
	return card
}

// Score5 is the library score of a 5-card hand. Smaller = stronger.
func Score5(cards []Card) int16 {
	var a5 [5]poker.Card
	for i := 0; i < 5 && i < len(cards); i++ {
		a5[i] = toPH(cards[i])
	}
	return poker.Eval5(&a5)
}

// Better reports whether hand a beats hand b under full 5-card evaluation,
// kickers included. Category comparison alone decides promotion winners;
// this is the exact tie-breaking view.
func Better(a, b []Card) bool {
	return Score5(a) < Score5(b)
}

// DescribeCards returns the library's English description of the hand.
func DescribeCards(cards []Card) string {
	pcs := make([]poker.Card, len(cards))
	for i, c := range cards {
		pcs[i] = toPH(c)
	}
	d, err := poker.Describe(pcs)
	if err != nil {
		return ""
	}
	return d
}
