package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/adw777/sql-chat/internal/execute"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil renders NULL", nil, "NULL"},
		{"short string", "0xabc", "0xabc"},
		{"integer", int64(42), "42"},
		{
			"long string truncated at 30 chars",
			"0x123456789012345678901234567890123456789012",
			"0x1234567890123456789012345678...",
		},
		{"exactly 30 chars unchanged", strings.Repeat("a", 30), strings.Repeat("a", 30)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.in); got != tt.want {
				t.Fatalf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTableRendersRowsAndCount(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, execute.Result{
		Columns:  []string{"hash", "number"},
		Rows:     [][]any{{"0xa", int64(2)}, {nil, int64(1)}},
		RowCount: 2,
	}, 10)

	out := buf.String()
	for _, want := range []string{"hash", "number", "0xa", "NULL", "(2 rows)"} {
		if !strings.Contains(out, want) {
			t.Errorf("Table() output missing %q:\n%s", want, out)
		}
	}
}

func TestTableHonorsPreviewLimit(t *testing.T) {
	rows := make([][]any, 12)
	for i := range rows {
		rows[i] = []any{i}
	}
	var buf bytes.Buffer
	Table(&buf, execute.Result{Columns: []string{"n"}, Rows: rows, RowCount: 12}, 10)

	out := buf.String()
	if strings.Contains(out, "11") && !strings.Contains(out, "(12 rows)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "(12 rows)") {
		t.Fatal("total row count must reflect the full result, not the preview")
	}
	if strings.Contains(out, "│ 11") {
		t.Fatal("rows beyond the preview limit must not be rendered")
	}
}
