// Package execute runs sanitized SQL against the session's database connection
// and classifies failures for user display.
package execute

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Class labels an execution failure for display. The label is a heuristic and
// never alters control flow.
type Class string

const (
	ClassSyntax   Class = "Syntax error"
	ClassDatabase Class = "Database error"
)

// Error is an execution failure with its display classification.
type Error struct {
	Message string
	Class   Class
}

func (e *Error) Error() string {
	return e.Message
}

// Classify maps a driver error message onto a display class: Syntax when the
// lowercased message contains "syntax", Database otherwise. The underlying
// driver exposes structured SQLSTATE codes, but the substring heuristic is the
// documented behavior and is kept as-is.
func Classify(message string) Class {
	if strings.Contains(strings.ToLower(message), "syntax") {
		return ClassSyntax
	}
	return ClassDatabase
}

// Result holds either a row set (Columns populated) or the outcome of a
// mutation (Status populated). Exactly one variant is set.
type Result struct {
	Columns      []string
	Rows         [][]any
	RowCount     int
	RowsAffected int64
	Status       string
}

// HasRows reports whether the result carries row data that can be rendered
// and summarized. Mutations and empty results return false.
func (r Result) HasRows() bool {
	return r.RowCount > 0
}

// IsMutation reports whether the statement produced no field metadata.
func (r Result) IsMutation() bool {
	return r.Status != ""
}

// Executor issues queries against a single long-lived connection handle. The
// handle is opened once at process start; a dropped connection ends the
// session rather than being retried here.
type Executor struct {
	db *sql.DB
}

func New(db *sql.DB) *Executor {
	return &Executor{db: db}
}

// Execute runs sanitizedSQL and returns its result. Failures come back as
// *Error carrying the driver message and its classification. There are no
// per-query transaction boundaries and no retry.
func (e *Executor) Execute(ctx context.Context, sanitizedSQL string) (Result, error) {
	if strings.TrimSpace(sanitizedSQL) == "" {
		return Result{}, &Error{Message: "sql is required", Class: ClassDatabase}
	}

	if !returnsRows(sanitizedSQL) {
		execResult, err := e.db.ExecContext(ctx, sanitizedSQL)
		if err != nil {
			return Result{}, &Error{Message: err.Error(), Class: Classify(err.Error())}
		}
		affected, err := execResult.RowsAffected()
		if err != nil {
			affected = 0
		}
		return Result{
			RowsAffected: affected,
			Status:       fmt.Sprintf("Query executed successfully. Rows affected: %d", affected),
		}, nil
	}

	rows, err := e.db.QueryContext(ctx, sanitizedSQL)
	if err != nil {
		return Result{}, &Error{Message: err.Error(), Class: Classify(err.Error())}
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return Result{}, &Error{Message: err.Error(), Class: Classify(err.Error())}
	}

	collected := make([][]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return Result{}, &Error{Message: err.Error(), Class: Classify(err.Error())}
		}
		collected = append(collected, normalizeValues(values))
	}
	if err := rows.Err(); err != nil {
		return Result{}, &Error{Message: err.Error(), Class: Classify(err.Error())}
	}

	return Result{
		Columns:  columns,
		Rows:     collected,
		RowCount: len(collected),
	}, nil
}

// returnsRows reports whether the statement is expected to produce field
// metadata. Anything else is executed as a mutation so its affected-row count
// can be reported.
func returnsRows(sqlText string) bool {
	head := strings.ToUpper(firstWord(sqlText))
	switch head {
	case "SELECT", "WITH", "SHOW", "EXPLAIN", "VALUES", "TABLE":
		return true
	default:
		return false
	}
}

func firstWord(sqlText string) string {
	for _, field := range strings.Fields(sqlText) {
		return field
	}
	return ""
}

func normalizeValues(values []any) []any {
	normalized := make([]any, len(values))
	for i, value := range values {
		switch typed := value.(type) {
		case []byte:
			normalized[i] = string(typed)
		default:
			normalized[i] = typed
		}
	}
	return normalized
}
