package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/adw777/sql-chat/internal/chat"
	"github.com/adw777/sql-chat/internal/export"
)

func newAskCmd() *cobra.Command {
	var exportFormat string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd.Context(), strings.Join(args, " "), exportFormat)
		},
	}
	cmd.Flags().StringVar(&exportFormat, "export", "", "export the result set (csv or parquet)")
	return cmd
}

func runAsk(ctx context.Context, question, exportFormat string) error {
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	turn := runTurn(ctx, rt, question)

	switch turn.Outcome {
	case chat.OutcomeGenerationFailed, chat.OutcomeExecutionFailed:
		return fmt.Errorf("turn aborted: %w", turn.Err)
	}

	if exportFormat == "" {
		return nil
	}
	if !turn.Result.HasRows() {
		// Zero rows: exporting would produce an empty file, so skip it.
		return nil
	}

	path := export.ResultPath(rt.cfg.Export.Dir, exportFormat, time.Now())
	switch exportFormat {
	case "csv":
		err = export.WriteCSV(path, turn.Result)
	case "parquet":
		err = export.WriteParquet(path, turn.Result)
	default:
		return fmt.Errorf("unknown export format %q (want csv or parquet)", exportFormat)
	}
	if err != nil {
		return fmt.Errorf("export results: %w", err)
	}
	pterm.Success.Printfln("Results written to %s", path)

	if rt.archive != nil {
		if err := rt.archive.UploadFile(ctx, path); err != nil {
			return fmt.Errorf("archive results: %w", err)
		}
		pterm.Success.Println("Results archived to object store.")
	}
	return nil
}
