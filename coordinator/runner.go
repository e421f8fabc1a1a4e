package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"stock-analysis/observability"
	"stock-analysis/services"
)

// RunState is the phase of a tool-calling run
type RunState string

const (
	StateAwaitingDecision RunState = "awaiting-decision"
	StateToolExecuting    RunState = "tool-executing"
	StateDone             RunState = "done"
	StateAborted          RunState = "aborted"
)

// Run errors. ErrNoOutput covers a model turn with neither text nor
// tool calls; ErrMaxIterations covers loop exhaustion.
var (
	ErrNoOutput      = errors.New("model produced no output and no tool calls")
	ErrMaxIterations = errors.New("tool-call iteration limit reached without a final answer")
)

// Runner drives the bounded tool-calling loop. Each iteration asks the
// model for a decision, executes any requested tools, and feeds the
// results back. A turn with no tool calls and non-empty text is the
// final answer.
type Runner struct {
	model         services.ChatModel
	registry      *Registry
	maxIterations int
}

// NewRunner creates a runner bounded to maxIterations tool-call rounds
func NewRunner(model services.ChatModel, registry *Registry, maxIterations int) *Runner {
	return &Runner{
		model:         model,
		registry:      registry,
		maxIterations: maxIterations,
	}
}

// Run executes the loop for one system prompt and user query and
// returns the model's final text.
func (r *Runner) Run(ctx context.Context, runID, system, query string) (string, error) {
	log := observability.Logger
	if log == nil {
		observability.InitLogger(false)
		log = observability.Logger
	}
	log = log.With("run_id", runID, "provider", r.model.Name())

	messages := []services.AgentMessage{
		{Role: services.RoleUser, Content: query},
	}
	tools := r.registry.Definitions()

	state := StateAwaitingDecision
	for iteration := 0; iteration < r.maxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		turn, err := r.model.Complete(ctx, system, messages, tools)
		if err != nil {
			state = StateAborted
			log.Error("model turn failed", "state", string(state), "iteration", iteration, "error", err)
			return "", err
		}

		if len(turn.ToolCalls) == 0 {
			if turn.Text == "" {
				state = StateAborted
				log.Error("model turn empty", "state", string(state), "iteration", iteration)
				return "", ErrNoOutput
			}
			state = StateDone
			log.Info("run finished", "state", string(state), "iterations", iteration+1)
			return turn.Text, nil
		}

		state = StateToolExecuting
		messages = append(messages, services.AgentMessage{
			Role:      services.RoleAssistant,
			Content:   turn.Text,
			ToolCalls: turn.ToolCalls,
		})

		for _, call := range turn.ToolCalls {
			result := r.executeTool(ctx, log, call)
			messages = append(messages, services.AgentMessage{
				Role:       services.RoleTool,
				Content:    result,
				ToolCallID: call.ID,
			})
		}
		state = StateAwaitingDecision
	}

	state = StateAborted
	log.Error("run aborted", "state", string(state), "iterations", r.maxIterations)
	return "", ErrMaxIterations
}

// executeTool dispatches one call. An unknown tool name goes back to
// the model as an error string rather than aborting the run.
func (r *Runner) executeTool(ctx context.Context, log *slog.Logger, call services.ToolCall) string {
	tool, ok := r.registry.Lookup(call.Name)
	if !ok {
		log.Warn("unknown tool requested", "tool", call.Name)
		return fmt.Sprintf("Error: unknown tool %q. Available tools: %v", call.Name, r.registry.Names())
	}

	metrics := observability.GetMetrics()
	metrics.RecordToolInvocation(call.Name)
	timer := metrics.NewTimer()

	start := time.Now()
	result := tool.Handler(ctx, call.Arguments)
	timer.ObserveTool(call.Name)

	log.Info("tool executed",
		"tool", call.Name,
		"duration_ms", time.Since(start).Milliseconds(),
		"result_bytes", len(result))

	return result
}
