package engine

import (
	"encoding/json"
	"fmt"
	"strings"
)

func (c Card) String() string {
	ranks := "  23456789TJQKA"
	if c.Rank < 2 || c.Rank > 14 {
		return ""
	}
	return fmt.Sprintf("%c%c", ranks[c.Rank], c.Suit)
}

// ParseCard reads "As", "Td" or "10h" (case-insensitive).
func ParseCard(s string) (Card, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Card{}, false
	}
	suit := s[len(s)-1] | 0x20
	switch suit {
	case 'c', 'd', 'h', 's':
	default:
		return Card{}, false
	}
	var rank int
	body := s[:len(s)-1]
	if body == "10" {
		rank = 10
	} else if len(body) == 1 {
		switch body[0] &^ 0x20 {
		case 'A':
			rank = 14
		case 'K':
			rank = 13
		case 'Q':
			rank = 12
		case 'J':
			rank = 11
		case 'T':
			rank = 10
		default:
			if body[0] >= '2' && body[0] <= '9' {
				rank = int(body[0] - '0')
			}
		}
	}
	if rank == 0 {
		return Card{}, false
	}
	return Card{Rank: rank, Suit: suit}, true
}

func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Card) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, ok := ParseCard(s)
	if !ok {
		return fmt.Errorf("bad card %q", s)
	}
	*c = parsed
	return nil
}

func RankName(v int) string {
	switch v {
	case 14:
		return "A"
	case 13:
		return "K"
	case 12:
		return "Q"
	case 11:
		return "J"
	case 10:
		return "T"
	default:
		return fmt.Sprintf("%d", v)
	}
}

// SuitName returns the long suit word used in descriptions.
func SuitName(s byte) string {
	switch s {
	case 's':
		return "spades"
	case 'h':
		return "hearts"
	case 'd':
		return "diamonds"
	case 'c':
		return "clubs"
	}
	return ""
}
