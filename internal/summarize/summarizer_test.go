package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/adw777/sql-chat/internal/llm"
	"github.com/adw777/sql-chat/internal/prompt"
)

type fakeClient struct {
	content string
	err     error
	gotReq  llm.Request
}

func (f *fakeClient) Chat(_ context.Context, req llm.Request) (string, error) {
	f.gotReq = req
	return f.content, f.err
}

func TestSummarizeReturnsNarrative(t *testing.T) {
	client := &fakeClient{content: "The ten most recent blocks were mined within the last minute."}
	report, err := New(client).Summarize(context.Background(), prompt.Prompt{System: "s", User: "u"}, "gpt-4o-mini")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if report.Narrative != client.content {
		t.Fatalf("Narrative = %q", report.Narrative)
	}
	if client.gotReq.Temperature != Temperature {
		t.Fatalf("temperature = %v, want %v", client.gotReq.Temperature, Temperature)
	}
	if client.gotReq.Temperature <= 0.1 {
		t.Fatal("summary temperature must exceed the generation temperature")
	}
}

func TestSummarizeRemoteError(t *testing.T) {
	client := &fakeClient{err: errors.New("rate limited")}
	_, err := New(client).Summarize(context.Background(), prompt.Prompt{}, "gpt-4o-mini")
	if err == nil {
		t.Fatal("Summarize() should fail on remote error")
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("error should carry upstream text, got %v", err)
	}
}

func TestSummarizeEmptyContent(t *testing.T) {
	client := &fakeClient{content: "   "}
	if _, err := New(client).Summarize(context.Background(), prompt.Prompt{}, "gpt-4o-mini"); err == nil {
		t.Fatal("Summarize() should fail when the model returns no content")
	}
}
