package classify

import (
	"encoding/json"
	"fmt"
	"strings"

	"high-hand-board/server/engine"
)

const classifySystem = `You are the floor assistant for a poker room high-hand promotion.
A dealer calls out a hand in plain language; you map it to one canonical five-card poker hand.

Rules:
- A flush uses exactly one suit. A plain straight uses mixed suits.
- A straight flush uses one suit and five consecutive ranks.
- A royal flush is exactly A K Q J T of one suit.
- When the description names a suit (spades, hearts, diamonds, clubs), use that suit.
- hand_rank is an integer 1..10: 1=High Card, 2=Pair, 3=Two Pair, 4=Three of a Kind,
  5=Straight, 6=Flush, 7=Full House, 8=Four of a Kind, 9=Straight Flush, 10=Royal Flush.
- Do not add commentary. Return only the JSON object.`

func buildUserPrompt(text string) string {
	return fmt.Sprintf(
		`Hand description: %q

Respond ONLY with a single compact JSON object:
{"match":true,"cards":["As","Ks","Qs","Js","Ts"],"hand_name":"Royal Flush","hand_rank":10}
Rules:
- "cards" is exactly 5 card codes, rank (A,K,Q,J,T,9..2) then suit (s,h,d,c).
- If the text does not describe a poker hand, respond {"match":false}.
- No extra keys. No prose. No markdown.`,
		text,
	)
}

func handSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"match": map[string]any{
				"type":        "boolean",
				"description": "False when the text describes no poker hand",
			},
			"cards": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    5,
				"maxItems":    5,
				"description": "Five card codes like As, Td, 9c",
			},
			"hand_name": map[string]any{"type": "string"},
			"hand_rank": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"maximum":     10,
				"description": "1=High Card .. 10=Royal Flush",
			},
		},
		"required": []string{"match"},
	}
}

// parseHandJSON reads the model's reply tolerantly: direct JSON first, then
// the first object pulled out of code fences or prose. The cards decide the
// final category; a hand_rank that disagrees with its own card list loses.
func parseHandJSON(raw string) (*engine.ParsedHand, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty model response")
	}
	var reply struct {
		Match    *bool    `json:"match"`
		Cards    []string `json:"cards"`
		HandName string   `json:"hand_name"`
		HandRank int      `json:"hand_rank"`
	}
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		cleaned := extractJSONObject(raw)
		if cleaned == "" {
			return nil, fmt.Errorf("bad JSON from model: %v", err)
		}
		if err2 := json.Unmarshal([]byte(cleaned), &reply); err2 != nil {
			return nil, fmt.Errorf("bad JSON from model: %v", err2)
		}
	}
	if reply.Match != nil && !*reply.Match {
		return nil, nil
	}
	if len(reply.Cards) != 5 {
		return nil, fmt.Errorf("expected 5 cards, got %d", len(reply.Cards))
	}
	cards := make([]engine.Card, 0, 5)
	for _, s := range reply.Cards {
		c, ok := engine.ParseCard(s)
		if !ok {
			return nil, fmt.Errorf("bad card %q from model", s)
		}
		cards = append(cards, c)
	}
	return engine.NewHand(cards), nil
}

// extractJSONObject pulls the first top-level {...} block from text,
// removing common code fences like ```json ... ```.
func extractJSONObject(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = s[i+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return ""
	}
	return strings.TrimSpace(s[start : end+1])
}
