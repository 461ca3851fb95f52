package classify

import (
	"strconv"
	"strings"

	"high-hand-board/server/engine"
)

// Matcher is the deterministic fallback classifier: a single pass of
// keyword lookups, no grammar. It answers when no API key is configured
// and when the model path fails.
type Matcher struct{}

// Category phrases are stripped before rank extraction so "four of a kind"
// does not read as a hand full of fours.
var phraseStripper = strings.NewReplacer(
	"four of a kind", " ",
	"three of a kind", " ",
	"two pair", " ",
	"one pair", " ",
	"high card", " ",
)

// Match maps a free-text description to a canonical hand. Nil means the
// text described no recognizable hand; that is not an error.
func (Matcher) Match(text string) *engine.ParsedHand {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return nil
	}
	suit := suitWord(t)
	ranks := rankWords(phraseStripper.Replace(t))
	first := func(def int) int {
		if len(ranks) > 0 {
			return ranks[0]
		}
		return def
	}

	switch {
	case strings.Contains(t, "royal"):
		return engine.NewHand(engine.RoyalCards(suit))
	case strings.Contains(t, "straight flush"):
		return engine.NewHand(engine.StraightCards(first(13), suit, true))
	case strings.Contains(t, "four of a kind") || strings.Contains(t, "quads"):
		return engine.NewHand(engine.QuadCards(first(14)))
	case strings.Contains(t, "full house") || strings.Contains(t, "boat") || strings.Contains(t, "full of"):
		over, under := twoRanks(ranks, 14, 13)
		return engine.NewHand(engine.FullHouseCards(over, under))
	case strings.Contains(t, "flush"):
		return engine.NewHand(engine.FlushCards(suit))
	case strings.Contains(t, "straight"):
		return engine.NewHand(engine.StraightCards(first(14), 0, false))
	case strings.Contains(t, "three of a kind") || strings.Contains(t, "trips") || strings.Contains(t, "set of"):
		return engine.NewHand(engine.TripCards(first(14)))
	case strings.Contains(t, "two pair"):
		hi, lo := twoRanks(ranks, 14, 13)
		return engine.NewHand(engine.TwoPairCards(hi, lo))
	case strings.Contains(t, "pair"):
		return engine.NewHand(engine.PairCards(first(14)))
	case strings.Contains(t, "high"):
		return engine.NewHand(engine.HighCardCards(first(14)))
	}
	return nil
}

// suitWord returns the first suit named in the text, spades by default.
func suitWord(t string) byte {
	best := byte('s')
	bestIdx := len(t) + 1
	for _, w := range []struct {
		word string
		suit byte
	}{
		{"spade", 's'}, {"heart", 'h'}, {"diamond", 'd'}, {"club", 'c'},
	} {
		if i := strings.Index(t, w.word); i >= 0 && i < bestIdx {
			best = w.suit
			bestIdx = i
		}
	}
	return best
}

var rankLookup = map[string]int{
	"ace": 14, "aces": 14,
	"king": 13, "kings": 13,
	"queen": 12, "queens": 12,
	"jack": 11, "jacks": 11,
	"ten": 10, "tens": 10,
	"nine": 9, "nines": 9,
	"eight": 8, "eights": 8,
	"seven": 7, "sevens": 7,
	"six": 6, "sixes": 6,
	"five": 5, "fives": 5,
	"four": 4, "fours": 4,
	"three": 3, "threes": 3,
	"trey": 3, "treys": 3,
	"two": 2, "twos": 2,
	"deuce": 2, "deuces": 2,
}

// rankWords collects rank mentions in order of appearance.
func rankWords(t string) []int {
	fields := strings.FieldsFunc(t, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	var out []int
	for _, f := range fields {
		if r, ok := rankLookup[f]; ok {
			out = append(out, r)
			continue
		}
		// numerals, optionally plural: "9s", "10s"
		f = strings.TrimSuffix(f, "s")
		if n, err := strconv.Atoi(f); err == nil && n >= 2 && n <= 10 {
			out = append(out, n)
		}
	}
	return out
}

// twoRanks picks the first two distinct ranks mentioned, with defaults.
func twoRanks(ranks []int, defHi, defLo int) (int, int) {
	switch {
	case len(ranks) == 0:
		return defHi, defLo
	case len(ranks) == 1:
		if ranks[0] == defLo {
			return ranks[0], defHi
		}
		return ranks[0], defLo
	}
	hi := ranks[0]
	for _, r := range ranks[1:] {
		if r != hi {
			return hi, r
		}
	}
	return hi, defLo
}
