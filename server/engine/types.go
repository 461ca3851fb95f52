package engine

type Card struct {
	Rank int  // 2..14, Ace = 14
	Suit byte // 'c', 'd', 'h', 's'
}

// Suits in default dealing order. Spades first so single-suit hands come
// out in spades unless the description names another suit.
var Suits = []byte{'s', 'h', 'd', 'c'}

// Category is the standard poker hand-category ordering, 1..10.
type Category int

const (
	HighCard Category = iota + 1
	Pair
	TwoPair
	Trips
	Straight
	Flush
	FullHouse
	Quads
	StraightFlush
	RoyalFlush
)

func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case Trips:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case Quads:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	}
	return "Unknown"
}

// ParsedHand is the classifier output: a canonical 5-card hand plus the
// category it belongs to. Rank strictly encodes the category ordering.
type ParsedHand struct {
	Cards []Card   `json:"cards"`
	Name  string   `json:"handName"`
	Rank  Category `json:"handRank"`
}

// CardStrings renders the hand in "As Kd ..." wire form.
func (p *ParsedHand) CardStrings() []string {
	out := make([]string, len(p.Cards))
	for i, c := range p.Cards {
		out[i] = c.String()
	}
	return out
}
