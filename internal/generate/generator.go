// Package generate turns a composed generation prompt into sanitized SQL via
// the chat client.
package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/adw777/sql-chat/internal/llm"
	"github.com/adw777/sql-chat/internal/prompt"
)

// Temperature is the decoding temperature for SQL generation. Kept low so the
// same question yields near-deterministic queries.
const Temperature = 0.1

// Query is the model output before and after fence sanitation.
type Query struct {
	Raw string
	SQL string
}

// Generator invokes the chat endpoint once per question. No retry: a failed
// generation aborts the turn and the user re-asks.
type Generator struct {
	client llm.Client
}

func New(client llm.Client) *Generator {
	return &Generator{client: client}
}

// Generate requests SQL for the composed prompt and strips formatting fences
// from the response. Remote errors and empty responses fail the turn.
func (g *Generator) Generate(ctx context.Context, p prompt.Prompt, model string) (Query, error) {
	content, err := g.client.Chat(ctx, llm.Request{
		Model:       model,
		System:      p.System,
		User:        p.User,
		Temperature: Temperature,
	})
	if err != nil {
		return Query{}, fmt.Errorf("generate sql: %w", err)
	}

	sanitized := Sanitize(content)
	if strings.TrimSpace(sanitized) == "" {
		return Query{}, fmt.Errorf("generate sql: model returned no content")
	}
	return Query{Raw: content, SQL: sanitized}, nil
}
