package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/adw777/sql-chat/internal/chat"
	"github.com/adw777/sql-chat/internal/config"
	"github.com/adw777/sql-chat/internal/db"
	"github.com/adw777/sql-chat/internal/execute"
	"github.com/adw777/sql-chat/internal/export"
	"github.com/adw777/sql-chat/internal/generate"
	"github.com/adw777/sql-chat/internal/llm"
	"github.com/adw777/sql-chat/internal/observability"
	"github.com/adw777/sql-chat/internal/schema"
	"github.com/adw777/sql-chat/internal/summarize"
)

// runtime bundles the per-process collaborators: one config value, one
// database handle, one chat client, one session. Turns run strictly one at a
// time on top of it.
type runtime struct {
	cfg     config.Config
	logger  *slog.Logger
	dbase   *sql.DB
	session *chat.Session
	metrics *observability.SessionMetrics
	archive *export.Archive
}

// newRuntime loads config and connects everything. A database connect failure
// here is fatal to the command; every later error is recoverable per turn.
func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(observability.LoggerConfig{
		Level: cfg.Observability.LogLevel,
		JSON:  cfg.Observability.LogJSON,
	}, os.Stderr)

	client, err := llm.NewOpenAIClient(llm.Config{
		BaseURL: cfg.AI.BaseURL,
		APIKey:  cfg.AI.APIKey,
		Timeout: cfg.AI.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize chat client: %w", err)
	}

	dbase, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	metrics := observability.NewSessionMetrics()
	rt := &runtime{
		cfg:     cfg,
		logger:  logger,
		dbase:   dbase,
		metrics: metrics,
		session: &chat.Session{
			Schema:       schema.Default(),
			PartitionKey: cfg.Chain.PartitionKey,
			Model:        cfg.AI.Model,
			Generator:    generate.New(client),
			Executor:     execute.New(dbase),
			Summarizer:   summarize.New(client),
			Logger:       logger,
			Metrics:      metrics,
		},
	}

	if cfg.Export.Archive.Enabled {
		archive, err := export.NewArchive(cfg.Export.Archive)
		if err != nil {
			_ = dbase.Close()
			return nil, fmt.Errorf("initialize export archive: %w", err)
		}
		rt.archive = archive
	}
	return rt, nil
}

func (r *runtime) Close() {
	if r.dbase != nil {
		_ = r.dbase.Close()
	}
}
