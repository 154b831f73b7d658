// Package render turns result sets into terminal output.
package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/adw777/sql-chat/internal/execute"
)

// maxCellWidth caps displayed cell text; longer values are cut and marked
// with an ellipsis. Matches the original console's column-width setting.
const maxCellWidth = 30

// FormatValue renders one cell for display: nil becomes the literal NULL,
// strings longer than maxCellWidth keep their first maxCellWidth characters
// followed by "...".
func FormatValue(value any) string {
	if value == nil {
		return "NULL"
	}
	text := fmt.Sprintf("%v", value)
	if len(text) > maxCellWidth {
		return text[:maxCellWidth] + "..."
	}
	return text
}

// Table writes up to limit rows of the result as a bordered table followed by
// the total row count. limit <= 0 renders every row.
func Table(w io.Writer, result execute.Result, limit int) {
	rows := result.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(result.Columns))
	for i, column := range result.Columns {
		header[i] = column
	}
	t.AppendHeader(header)

	for _, row := range rows {
		display := make(table.Row, len(result.Columns))
		for i := range result.Columns {
			if i < len(row) {
				display[i] = FormatValue(row[i])
			} else {
				display[i] = FormatValue(nil)
			}
		}
		t.AppendRow(display)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", result.RowCount)
}
