// Package export writes result sets to files and optionally archives them to
// an S3-compatible bucket.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/adw777/sql-chat/internal/execute"
)

// ErrNoRows is returned when an export is requested for a result without
// rows. Empty results never produce a file.
var ErrNoRows = errors.New("result has no rows to export")

// ResultPath builds a timestamped file name for an export in dir.
func ResultPath(dir, format string, now time.Time) string {
	name := fmt.Sprintf("sqlchat_results_%s.%s", now.Format("20060102_150405"), format)
	return filepath.Join(dir, name)
}

// WriteCSV writes the full result set (not the display preview) as CSV with a
// header row. Nil values become empty cells.
func WriteCSV(path string, result execute.Result) error {
	if !result.HasRows() {
		return ErrNoRows
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write(result.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(result.Columns))
	for _, row := range result.Rows {
		for i := range result.Columns {
			record[i] = ""
			if i < len(row) && row[i] != nil {
				record[i] = fmt.Sprintf("%v", row[i])
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteParquet writes the result set as a Parquet file. Column types are not
// tracked through the pipeline, so every column is an optional string; nil
// stays null.
func WriteParquet(path string, result execute.Result) error {
	if !result.HasRows() {
		return ErrNoRows
	}

	fields := parquet.Group{}
	for _, column := range result.Columns {
		fields[column] = parquet.Optional(parquet.String())
	}
	schema := parquet.NewSchema("result", fields)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create parquet file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[map[string]any](file, schema)
	rows := make([]map[string]any, 0, len(result.Rows))
	for _, row := range result.Rows {
		record := make(map[string]any, len(result.Columns))
		for i, column := range result.Columns {
			if i < len(row) && row[i] != nil {
				record[column] = fmt.Sprintf("%v", row[i])
			} else {
				record[column] = nil
			}
		}
		rows = append(rows, record)
	}
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}
