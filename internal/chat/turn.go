// Package chat drives one question turn through the generation, execution,
// and summarization stages. The turn is an explicit state machine: remote
// calls happen only in Generating and Summarizing, the database is touched
// only in Executing, and every turn terminates back in Idle.
package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/adw777/sql-chat/internal/execute"
	"github.com/adw777/sql-chat/internal/generate"
	"github.com/adw777/sql-chat/internal/observability"
	"github.com/adw777/sql-chat/internal/prompt"
	"github.com/adw777/sql-chat/internal/schema"
	"github.com/adw777/sql-chat/internal/summarize"
)

type State int

const (
	StateIdle State = iota
	StateGenerating
	StateExecuting
	StateResultsReady
	StateSummarizing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGenerating:
		return "generating"
	case StateExecuting:
		return "executing"
	case StateResultsReady:
		return "results-ready"
	case StateSummarizing:
		return "summarizing"
	default:
		return "unknown"
	}
}

// Outcome is the terminal status of a turn.
type Outcome int

const (
	OutcomeSummarized Outcome = iota
	OutcomeGenerationFailed
	OutcomeExecutionFailed
	OutcomeEmptyResult
	OutcomeMutation
	OutcomeSummaryFailed
)

// Turn carries everything produced during one question. All fields are scoped
// to the turn and discarded after display.
type Turn struct {
	Question string
	Query    generate.Query
	Result   execute.Result
	Report   summarize.Report
	Outcome  Outcome
	Err      error
}

// SQLGenerator, QueryRunner, and InsightSummarizer are the narrow capabilities
// the state machine invokes, substitutable with fakes in tests.
type SQLGenerator interface {
	Generate(ctx context.Context, p prompt.Prompt, model string) (generate.Query, error)
}

type QueryRunner interface {
	Execute(ctx context.Context, sanitizedSQL string) (execute.Result, error)
}

type InsightSummarizer interface {
	Summarize(ctx context.Context, p prompt.Prompt, model string) (summarize.Report, error)
}

// Hooks let the surrounding loop display progress while the turn advances.
// Nil hooks are skipped.
type Hooks struct {
	StateChanged   func(from, to State)
	QueryGenerated func(q generate.Query)
	ResultReady    func(r execute.Result)
}

// Session owns the per-process collaborators and runs turns strictly one at a
// time. The database handle behind Executor and the chat client behind
// Generator/Summarizer are single-owner resources; no locking is needed
// because turns never overlap.
type Session struct {
	Schema       schema.Descriptor
	PartitionKey string
	Model        string
	Generator    SQLGenerator
	Executor     QueryRunner
	Summarizer   InsightSummarizer
	Logger       *slog.Logger
	Metrics      *observability.SessionMetrics
	Hooks        Hooks

	state State
}

// State reports the machine's current state. Outside Run it is always Idle.
func (s *Session) State() State {
	return s.state
}

// Run executes one full turn. The three remote calls happen strictly in
// sequence; the first unrecovered error sends the machine back to Idle with
// the outcome recorded on the turn. No retry is ever attempted.
func (s *Session) Run(ctx context.Context, question string) Turn {
	turn := &Turn{Question: question}
	if s.Metrics != nil {
		s.Metrics.TurnStarted()
	}

	state := s.transition(StateIdle, StateGenerating)
	for state != StateIdle {
		next := s.step(ctx, state, turn)
		state = s.transition(state, next)
	}
	return *turn
}

// step is the (state, turn) -> next state transition function.
func (s *Session) step(ctx context.Context, state State, turn *Turn) State {
	switch state {
	case StateGenerating:
		return s.generateStep(ctx, turn)
	case StateExecuting:
		return s.executeStep(ctx, turn)
	case StateResultsReady:
		return StateSummarizing
	case StateSummarizing:
		return s.summarizeStep(ctx, turn)
	default:
		return StateIdle
	}
}

func (s *Session) generateStep(ctx context.Context, turn *Turn) State {
	p := prompt.ComposeGeneration(turn.Question, s.Schema, s.PartitionKey)
	query, err := s.Generator.Generate(ctx, p, s.Model)
	if err != nil {
		turn.Outcome = OutcomeGenerationFailed
		turn.Err = err
		if s.Metrics != nil {
			s.Metrics.GenerationFailed()
		}
		s.logger().Warn("sql generation failed", slog.Any("error", err))
		return StateIdle
	}

	turn.Query = query
	s.logger().Debug("sql generated", slog.String("sql", query.SQL))
	if s.Hooks.QueryGenerated != nil {
		s.Hooks.QueryGenerated(query)
	}
	return StateExecuting
}

func (s *Session) executeStep(ctx context.Context, turn *Turn) State {
	start := time.Now()
	result, err := s.Executor.Execute(ctx, turn.Query.SQL)
	if s.Metrics != nil {
		s.Metrics.ObserveQueryDuration(time.Since(start))
	}
	if err != nil {
		turn.Outcome = OutcomeExecutionFailed
		turn.Err = err
		if s.Metrics != nil {
			var execErr *execute.Error
			if errors.As(err, &execErr) {
				s.Metrics.ExecutionFailed(string(execErr.Class))
			} else {
				s.Metrics.ExecutionFailed(string(execute.ClassDatabase))
			}
		}
		s.logger().Warn("query execution failed", slog.Any("error", err))
		return StateIdle
	}

	turn.Result = result
	if s.Hooks.ResultReady != nil {
		s.Hooks.ResultReady(result)
	}

	if result.IsMutation() {
		turn.Outcome = OutcomeMutation
		if s.Metrics != nil {
			s.Metrics.MutationExecuted()
		}
		s.logger().Info("mutation executed", slog.Int64("rows_affected", result.RowsAffected))
		return StateIdle
	}
	if !result.HasRows() {
		turn.Outcome = OutcomeEmptyResult
		if s.Metrics != nil {
			s.Metrics.EmptyResult()
		}
		return StateIdle
	}

	s.logger().Debug("query executed", slog.Int("rows", result.RowCount), slog.Int("columns", len(result.Columns)))
	return StateResultsReady
}

func (s *Session) summarizeStep(ctx context.Context, turn *Turn) State {
	p := prompt.ComposeSummary(turn.Question, turn.Query.SQL, turn.Result)
	report, err := s.Summarizer.Summarize(ctx, p, s.Model)
	if err != nil {
		// Non-fatal: the turn still reports the rows already obtained.
		turn.Outcome = OutcomeSummaryFailed
		turn.Err = err
		if s.Metrics != nil {
			s.Metrics.SummaryFailed()
		}
		s.logger().Warn("summary generation failed", slog.Any("error", err))
		return StateIdle
	}

	turn.Report = report
	turn.Outcome = OutcomeSummarized
	return StateIdle
}

func (s *Session) transition(from, to State) State {
	s.state = to
	if s.Hooks.StateChanged != nil && from != to {
		s.Hooks.StateChanged(from, to)
	}
	return to
}

func (s *Session) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
