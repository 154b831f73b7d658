package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/adw777/sql-chat/internal/chat"
	"github.com/adw777/sql-chat/internal/export"
	"github.com/adw777/sql-chat/internal/schema"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd.Context())
		},
	}
}

func runChat(ctx context.Context) error {
	pterm.DefaultHeader.Println("Blockchain Database Chat")
	pterm.Println("Ask questions about blockchain data in natural language, and get insights!")
	pterm.Println()

	pterm.Info.Println("Connecting to database...")
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()
	pterm.Success.Println("Successfully connected to database!")
	pterm.Println()

	printExampleQuestions()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "sqlchat> ",
		HistoryFile:     rt.cfg.UI.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("initialize chat loop: %w", err)
	}
	defer func() { _ = rl.Close() }()

	var lastTurn chat.Turn
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read question: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if quit := handleDotCommand(ctx, rt, lastTurn, line); quit {
				break
			}
			continue
		}

		lastTurn = runTurn(ctx, rt, line)
		pterm.Println()
	}

	pterm.Info.Println("Thank you for using Blockchain Database Chat!")
	return nil
}

// handleDotCommand executes a REPL control command and reports whether the
// loop should exit.
func handleDotCommand(ctx context.Context, rt *runtime, lastTurn chat.Turn, line string) bool {
	parts := strings.Fields(line)
	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return true

	case ".help":
		printHelp()

	case ".examples":
		printExampleQuestions()

	case ".sql":
		if lastTurn.Query.SQL == "" {
			pterm.Info.Println("No query has been generated yet.")
			break
		}
		pterm.FgLightBlue.Println(lastTurn.Query.SQL)

	case ".export":
		format := "csv"
		if len(parts) > 1 {
			format = strings.ToLower(parts[1])
		}
		exportLastResult(ctx, rt, lastTurn, format)

	case ".stats":
		lines, err := rt.metrics.Snapshot()
		if err != nil {
			pterm.Error.Printfln("Failed to gather session stats: %v", err)
			break
		}
		for _, metricLine := range lines {
			pterm.Println(metricLine)
		}

	default:
		pterm.Error.Printfln("Unknown command %q, type .help for commands", parts[0])
	}
	return false
}

func exportLastResult(ctx context.Context, rt *runtime, lastTurn chat.Turn, format string) {
	if !lastTurn.Result.HasRows() {
		pterm.Info.Println("Nothing to export: the last query returned no rows.")
		return
	}

	path := export.ResultPath(rt.cfg.Export.Dir, format, time.Now())
	var err error
	switch format {
	case "csv":
		err = export.WriteCSV(path, lastTurn.Result)
	case "parquet":
		err = export.WriteParquet(path, lastTurn.Result)
	default:
		pterm.Error.Printfln("Unknown export format %q (want csv or parquet)", format)
		return
	}
	if err != nil {
		pterm.Error.Printfln("Export failed: %v", err)
		return
	}
	pterm.Success.Printfln("Results written to %s", path)

	if rt.archive != nil {
		if err := rt.archive.UploadFile(ctx, path); err != nil {
			pterm.Error.Printfln("Archive upload failed: %v", err)
			return
		}
		pterm.Success.Println("Results archived to object store.")
	}
}

func printExampleQuestions() {
	pterm.DefaultSection.Println("Example questions you can ask")
	for i, question := range schema.ExampleQuestions() {
		pterm.Printfln("%2d. %s", i+1, question)
	}
	pterm.Println()
}

func printHelp() {
	pterm.Println(`Commands:
  .help              show this help
  .examples          list example questions
  .sql               show the SQL generated for the last question
  .export [csv|parquet]  export the last result set to a file
  .stats             show session metrics
  .quit, .exit       leave the chat

Anything else is treated as a question about the database.`)
}
