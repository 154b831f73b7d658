// Package prompt builds the two prompt pairs consumed by the chat client: one
// for SQL generation, one for result explanation. All functions are pure
// transformations of their inputs.
package prompt

import (
	"fmt"
	"strings"

	"github.com/adw777/sql-chat/internal/execute"
	"github.com/adw777/sql-chat/internal/schema"
)

// SampleRows caps how many result rows are fed back into the summary prompt.
const SampleRows = 5

// Prompt is one system+user message pair.
type Prompt struct {
	System string
	User   string
}

// ComposeGeneration builds the SQL-generation prompt. The system message
// carries the full schema text, the domain glossary, the worked-example
// corpus, the partition-suffix naming rule, and the output-format constraint.
func ComposeGeneration(question string, descriptor schema.Descriptor, partitionKey string) Prompt {
	var system strings.Builder
	system.WriteString("You are an expert SQL generator for a blockchain database.\n")
	system.WriteString("Your task is to convert natural language questions into PostgreSQL queries.\n\n")
	system.WriteString(descriptor.Text(partitionKey))
	system.WriteString("\n")
	system.WriteString(descriptor.Glossary)
	system.WriteString("\n\n")
	system.WriteString(descriptor.ExamplesText(partitionKey))
	system.WriteString("\n")
	system.WriteString(guidelines(partitionKey, descriptor.CrossPartitionTable()))
	system.WriteString("\n\nOUTPUT FORMAT: Return ONLY the SQL query, no explanations or markdown formatting.")

	return Prompt{
		System: system.String(),
		User:   fmt.Sprintf("Generate PostgreSQL query for: %s", question),
	}
}

func guidelines(partitionKey, crossPartitionTable string) string {
	suffixRule := fmt.Sprintf("Use table names with the suffix '_%s'", partitionKey)
	if crossPartitionTable != "" {
		suffixRule += fmt.Sprintf(" unless referring to the '%s' table", crossPartitionTable)
	}
	rules := []string{
		"Always generate valid PostgreSQL syntax",
		suffixRule,
		`Handle quoting properly for reserved words like "from" and "to" in table columns`,
		"Cast numeric strings to appropriate types (DECIMAL, BIGINT) when needed for math operations",
		"Use TO_TIMESTAMP() for timestamp conversions when needed",
		"Format timestamps in human-readable format when returning them",
		"Use proper JOIN syntax when combining tables",
		"Add LIMIT clauses (usually LIMIT 10 or 20) unless asked for all records",
		"Add proper WHERE clauses to filter data based on the user's question",
		"NEVER use column names that don't exist in the tables",
	}

	var b strings.Builder
	b.WriteString("Important SQL writing guidelines:")
	for i, rule := range rules {
		fmt.Fprintf(&b, "\n%d. %s", i+1, rule)
	}
	return b.String()
}

// ComposeSummary builds the explanation prompt from the original question, the
// sanitized SQL, and the execution result. At most SampleRows rows are
// serialized into the user message.
func ComposeSummary(question, sanitizedSQL string, result execute.Result) Prompt {
	system := `You are an expert blockchain data analyst who provides clear, concise explanations.
Your task is to explain query results from a blockchain database in natural language.
Focus on providing insights and interpreting the data for the user.

Include relevant statistics like:
- Key metrics and totals
- Interesting patterns or outliers
- Time-based trends if applicable
- Relationships between different data points

Make your response conversational and informative for non-technical users.
If no results were found, explain why there might be no data and suggest alternatives.

OUTPUT FORMAT: A conversational paragraph or two explaining the results, plus 2-3 bullet points highlighting key insights.
DO NOT include the SQL query in your response unless it's specifically requested.`

	user := fmt.Sprintf(`User question: %s
SQL query used: %s
Number of rows returned: %d
Column names: %s
Sample of results (first %d rows):
%s

Please provide a natural language explanation of these results, focusing on insights that answer the user's question.`,
		question,
		sanitizedSQL,
		result.RowCount,
		strings.Join(result.Columns, ", "),
		SampleRows,
		renderSample(result, SampleRows),
	)

	return Prompt{System: system, User: user}
}

// renderSample serializes up to max rows as an aligned text block. Values keep
// their full length here; display truncation only applies to terminal output.
func renderSample(result execute.Result, max int) string {
	if result.RowCount == 0 || len(result.Columns) == 0 {
		return "No results found"
	}

	rows := result.Rows
	if len(rows) > max {
		rows = rows[:max]
	}

	widths := make([]int, len(result.Columns))
	cells := make([][]string, len(rows))
	for i, column := range result.Columns {
		widths[i] = len(column)
	}
	for i, row := range rows {
		cells[i] = make([]string, len(result.Columns))
		for j := range result.Columns {
			value := "NULL"
			if j < len(row) && row[j] != nil {
				value = fmt.Sprintf("%v", row[j])
			}
			cells[i][j] = value
			if len(value) > widths[j] {
				widths[j] = len(value)
			}
		}
	}

	var b strings.Builder
	for i, column := range result.Columns {
		if i > 0 {
			b.WriteString("  ")
		}
		fmt.Fprintf(&b, "%-*s", widths[i], column)
	}
	for _, row := range cells {
		b.WriteString("\n")
		for j, value := range row {
			if j > 0 {
				b.WriteString("  ")
			}
			fmt.Fprintf(&b, "%-*s", widths[j], value)
		}
	}
	return b.String()
}
