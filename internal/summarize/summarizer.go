// Package summarize produces the narrative explanation of a result set via a
// second chat call.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/adw777/sql-chat/internal/llm"
	"github.com/adw777/sql-chat/internal/prompt"
)

// Temperature is the decoding temperature for narratives. Higher than
// generation: variability in phrasing is acceptable here.
const Temperature = 0.7

// Report is the narrative produced for one turn. Free text meant for direct
// display.
type Report struct {
	Narrative string
}

// Summarizer invokes the chat endpoint with the composed summary prompt.
// Failures are non-fatal to the turn: the caller still reports the query
// results it already holds.
type Summarizer struct {
	client llm.Client
}

func New(client llm.Client) *Summarizer {
	return &Summarizer{client: client}
}

func (s *Summarizer) Summarize(ctx context.Context, p prompt.Prompt, model string) (Report, error) {
	content, err := s.client.Chat(ctx, llm.Request{
		Model:       model,
		System:      p.System,
		User:        p.User,
		Temperature: Temperature,
	})
	if err != nil {
		return Report{}, fmt.Errorf("generate insights: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		return Report{}, fmt.Errorf("generate insights: model returned no content")
	}
	return Report{Narrative: content}, nil
}
