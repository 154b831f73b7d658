package generate

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

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fences", "SELECT hash FROM blocks_base ORDER BY number DESC LIMIT 10", "SELECT hash FROM blocks_base ORDER BY number DESC LIMIT 10"},
		{"sql tagged fence", "```sql\nSELECT 1;\n```", "SELECT 1;"},
		{"generic fence", "```\nSELECT 1;\n```", "SELECT 1;"},
		{"fence glued to content", "```SELECT 1;```", "SELECT 1;"},
		{"missing closing fence", "```sql\nSELECT 1;", "SELECT 1;"},
		{"surrounding whitespace", "  \n```sql\nSELECT 1;\n```\n  ", "SELECT 1;"},
		{"multiline body", "```sql\nSELECT hash\nFROM blocks_base\nLIMIT 10;\n```", "SELECT hash\nFROM blocks_base\nLIMIT 10;"},
		{"uppercase tag", "```SQL\nSELECT 1;\n```", "SELECT 1;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Fatalf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeNeverLeavesFenceMarkers(t *testing.T) {
	inputs := []string{
		"```sql\nSELECT 1;\n```",
		"```\nSELECT 1;\n```",
		"```sql\nSELECT '```';\n```",
		"SELECT 1; ```",
		"``````",
	}
	for _, in := range inputs {
		if got := Sanitize(in); strings.Contains(got, "```") {
			t.Errorf("Sanitize(%q) = %q, still contains a fence marker", in, got)
		}
	}
}

func TestGenerateStripsFences(t *testing.T) {
	client := &fakeClient{content: "```sql\nSELECT hash FROM blocks_base ORDER BY number DESC LIMIT 10\n```"}
	query, err := New(client).Generate(context.Background(), prompt.Prompt{System: "s", User: "u"}, "gpt-4o-mini")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if query.SQL != "SELECT hash FROM blocks_base ORDER BY number DESC LIMIT 10" {
		t.Fatalf("SQL = %q", query.SQL)
	}
	if !strings.Contains(query.Raw, "```sql") {
		t.Fatal("Raw should keep the original fenced output")
	}
	if client.gotReq.Temperature != Temperature {
		t.Fatalf("temperature = %v, want %v", client.gotReq.Temperature, Temperature)
	}
	if client.gotReq.Model != "gpt-4o-mini" {
		t.Fatalf("model = %q", client.gotReq.Model)
	}
}

func TestGeneratePassesCleanSQLUnchanged(t *testing.T) {
	want := "SELECT hash FROM blocks_base ORDER BY number DESC LIMIT 10"
	client := &fakeClient{content: want}
	query, err := New(client).Generate(context.Background(), prompt.Prompt{}, "gpt-4o-mini")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if query.SQL != want {
		t.Fatalf("SQL = %q, want %q", query.SQL, want)
	}
}

func TestGenerateRemoteError(t *testing.T) {
	client := &fakeClient{err: errors.New("upstream unavailable")}
	_, err := New(client).Generate(context.Background(), prompt.Prompt{}, "gpt-4o-mini")
	if err == nil {
		t.Fatal("Generate() should fail when the remote call errors")
	}
	if !strings.Contains(err.Error(), "upstream unavailable") {
		t.Fatalf("error should include upstream text, got %v", err)
	}
}

func TestGenerateEmptyContent(t *testing.T) {
	client := &fakeClient{content: "```sql\n```"}
	if _, err := New(client).Generate(context.Background(), prompt.Prompt{}, "gpt-4o-mini"); err == nil {
		t.Fatal("Generate() should fail when the model returns no content")
	}
}
