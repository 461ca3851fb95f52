package engine

import "sort"

// CategoryOf classifies a 5-card hand by counting ranks and suits.
func CategoryOf(cards []Card) Category {
	ranks := map[int]int{}
	suits := map[byte]int{}
	uniq := map[int]bool{}
	for _, c := range cards {
		ranks[c.Rank]++
		suits[c.Suit]++
		uniq[c.Rank] = true
	}
	var pairs []int
	trips := -1
	quads := -1
	for r, cnt := range ranks {
		switch cnt {
		case 4:
			quads = r
		case 3:
			trips = r
		case 2:
			pairs = append(pairs, r)
		}
	}
	sort.Ints(pairs)
	flush := len(cards) == 5 && len(suits) == 1
	high := straightHigh(uniq)
	switch {
	case flush && high == 14:
		return RoyalFlush
	case flush && high > 0:
		return StraightFlush
	case quads != -1:
		return Quads
	case trips != -1 && len(pairs) > 0:
		return FullHouse
	case flush:
		return Flush
	case high > 0:
		return Straight
	case trips != -1:
		return Trips
	case len(pairs) >= 2:
		return TwoPair
	case len(pairs) == 1:
		return Pair
	default:
		return HighCard
	}
}

// straightHigh returns the high card of a 5-long run, 0 if none.
// The ace counts low for the wheel (high = 5).
func straightHigh(uniq map[int]bool) int {
	vals := []int{}
	for r := range uniq {
		vals = append(vals, r)
		if r == 14 {
			vals = append(vals, 1)
		}
	}
	sort.Ints(vals)
	run, high := 1, 0
	for i := 1; i < len(vals); i++ {
		if vals[i] == vals[i-1]+1 {
			run++
			if run >= 5 {
				high = vals[i]
			}
		} else if vals[i] != vals[i-1] {
			run = 1
		}
	}
	return high
}

func mixedSuit(i int) byte { return Suits[i%len(Suits)] }

// NewHand bundles cards with the category computed from them, so Name and
// Rank can never disagree with the card list.
func NewHand(cards []Card) *ParsedHand {
	cat := CategoryOf(cards)
	return &ParsedHand{Cards: cards, Name: cat.String(), Rank: cat}
}

// RoyalCards is the fixed A-K-Q-J-T of one suit.
func RoyalCards(suit byte) []Card {
	out := make([]Card, 0, 5)
	for r := 14; r >= 10; r-- {
		out = append(out, Card{Rank: r, Suit: suit})
	}
	return out
}

// StraightCards builds the five consecutive ranks down from high. Suited
// straights stay in one suit; plain straights rotate suits so no flush
// sneaks in. A high card under six produces the wheel (5-4-3-2-A).
func StraightCards(high int, suit byte, suited bool) []Card {
	if high > 14 {
		high = 14
	}
	ranks := make([]int, 0, 5)
	if high < 6 {
		ranks = append(ranks, 5, 4, 3, 2, 14)
	} else {
		for r := high; r > high-5; r-- {
			ranks = append(ranks, r)
		}
	}
	out := make([]Card, 0, 5)
	for i, r := range ranks {
		s := suit
		if !suited {
			s = mixedSuit(i)
		}
		out = append(out, Card{Rank: r, Suit: s})
	}
	return out
}

// FlushCards picks five spread ranks of one suit that cannot also be a
// straight.
func FlushCards(suit byte) []Card {
	ranks := []int{14, 11, 9, 6, 3}
	out := make([]Card, 0, 5)
	for _, r := range ranks {
		out = append(out, Card{Rank: r, Suit: suit})
	}
	return out
}

func QuadCards(rank int) []Card {
	out := make([]Card, 0, 5)
	for _, s := range Suits {
		out = append(out, Card{Rank: rank, Suit: s})
	}
	kick := 14
	if rank == 14 {
		kick = 13
	}
	out = append(out, Card{Rank: kick, Suit: 's'})
	return out
}

func FullHouseCards(over, under int) []Card {
	if over == under {
		if under > 2 {
			under--
		} else {
			under++
		}
	}
	return []Card{
		{Rank: over, Suit: 's'}, {Rank: over, Suit: 'h'}, {Rank: over, Suit: 'd'},
		{Rank: under, Suit: 's'}, {Rank: under, Suit: 'h'},
	}
}

func TripCards(rank int) []Card {
	out := []Card{
		{Rank: rank, Suit: 's'}, {Rank: rank, Suit: 'h'}, {Rank: rank, Suit: 'd'},
	}
	for _, k := range kickers(2, rank) {
		out = append(out, Card{Rank: k, Suit: 'c'})
	}
	out[4].Suit = 's'
	return out
}

func TwoPairCards(hi, lo int) []Card {
	if hi == lo {
		if lo > 2 {
			lo--
		} else {
			lo++
		}
	}
	if lo > hi {
		hi, lo = lo, hi
	}
	out := []Card{
		{Rank: hi, Suit: 's'}, {Rank: hi, Suit: 'h'},
		{Rank: lo, Suit: 's'}, {Rank: lo, Suit: 'h'},
	}
	out = append(out, Card{Rank: kickers(1, hi, lo)[0], Suit: 'd'})
	return out
}

func PairCards(rank int) []Card {
	out := []Card{{Rank: rank, Suit: 's'}, {Rank: rank, Suit: 'h'}}
	for i, k := range kickers(3, rank) {
		out = append(out, Card{Rank: k, Suit: mixedSuit(i + 2)})
	}
	return out
}

// HighCardCards builds an unmade hand topped by rank. Gaps keep it from
// being a straight; rotating suits keep it from being a flush. The lowest
// possible top card is a seven (7-5-4-3-2).
func HighCardCards(rank int) []Card {
	if rank < 7 {
		rank = 7
	}
	if rank > 14 {
		rank = 14
	}
	ranks := []int{rank, rank - 2, rank - 3, rank - 4, rank - 5}
	out := make([]Card, 0, 5)
	for i, r := range ranks {
		out = append(out, Card{Rank: r, Suit: mixedSuit(i)})
	}
	return out
}

// kickers returns the n highest ranks not in exclude, descending from ace.
func kickers(n int, exclude ...int) []int {
	skip := map[int]bool{}
	for _, e := range exclude {
		skip[e] = true
	}
	out := make([]int, 0, n)
	for r := 14; r >= 2 && len(out) < n; r-- {
		if !skip[r] {
			out = append(out, r)
		}
	}
	return out
}
