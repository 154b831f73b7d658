package cli

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/pterm/pterm"

	"github.com/adw777/sql-chat/internal/chat"
	"github.com/adw777/sql-chat/internal/execute"
	"github.com/adw777/sql-chat/internal/generate"
	"github.com/adw777/sql-chat/internal/render"
)

// runTurn drives one question through the session while narrating progress,
// then reports the outcome. Recoverable errors are displayed and the caller
// keeps going.
func runTurn(ctx context.Context, rt *runtime, question string) chat.Turn {
	rt.session.Hooks = chat.Hooks{
		StateChanged: func(_, to chat.State) {
			switch to {
			case chat.StateGenerating:
				pterm.Info.Println("Generating SQL query...")
			case chat.StateExecuting:
				pterm.Info.Println("Executing query...")
			case chat.StateSummarizing:
				pterm.Info.Println("Generating insights...")
			}
		},
		QueryGenerated: func(q generate.Query) {
			pterm.Info.Println("Generated SQL:")
			pterm.FgLightBlue.Println(indent(q.SQL, "  "))
		},
		ResultReady: func(r execute.Result) {
			switch {
			case r.IsMutation():
				pterm.Success.Println(r.Status)
			case !r.HasRows():
				pterm.Info.Println("The query returned no results.")
			default:
				pterm.Success.Printfln("Query returned %d rows.", r.RowCount)
				pterm.Info.Println("Results preview:")
				render.Table(os.Stdout, r, rt.cfg.UI.PreviewRows)
			}
		},
	}

	turn := rt.session.Run(ctx, question)

	switch turn.Outcome {
	case chat.OutcomeGenerationFailed:
		pterm.Error.Printfln("Failed to generate SQL: %v", turn.Err)
	case chat.OutcomeExecutionFailed:
		pterm.Error.Printfln("Failed to execute query: %v", turn.Err)
		var execErr *execute.Error
		if errors.As(turn.Err, &execErr) {
			pterm.Info.Printfln("Error type: %s", execErr.Class)
		}
	case chat.OutcomeSummaryFailed:
		pterm.Error.Printfln("Failed to generate insights: %v", turn.Err)
	case chat.OutcomeSummarized:
		pterm.DefaultSection.Println("Insights")
		pterm.Println(turn.Report.Narrative)
	}
	return turn
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
