// Package classify turns free-text hand descriptions into canonical
// engine.ParsedHand values, model-first with a deterministic fallback.
package classify

import (
	"context"
	"log"
	"strings"
	"time"

	"high-hand-board/server/engine"
	"high-hand-board/server/llm"
)

type Classifier struct {
	Model   string
	matcher Matcher
}

func New(model string) *Classifier {
	return &Classifier{Model: model}
}

// Classify maps text to a hand. With an API key configured the LLM answers
// first and the matcher covers its failures; without one the matcher
// answers alone. A nil hand with a nil error means "no match".
func (c *Classifier) Classify(ctx context.Context, text string) (*engine.ParsedHand, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if llm.HasAPIKey() {
		hand, err := c.classifyLLM(ctx, text)
		if err == nil {
			return hand, nil
		}
		log.Printf("llm classify failed, using matcher: %v", err)
	}
	return c.matcher.Match(text), nil
}

func (c *Classifier) classifyLLM(ctx context.Context, text string) (*engine.ParsedHand, error) {
	ctx2, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	raw, err := llm.CompleteWithOpts(ctx2, c.Model, classifySystem, buildUserPrompt(text), llm.Options{
		StructuredSchemaName: "high_hand",
		StructuredSchema:     handSchema(),
		StructuredStrict:     true,
	})
	if err != nil {
		return nil, err
	}
	return parseHandJSON(raw)
}
