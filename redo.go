package dodo

import (
	"context"
	"fmt"
	"log/slog"
)

// RedoRunner replays the tool calls of a previous run in order, without
// any model reasoning. Replay is strict: a missing tool, a parameter
// validation failure, or an error result stops the replay with an error.
type RedoRunner struct {
	tools  map[string]Tool
	logger *slog.Logger
}

// NewRedoRunner creates a replay runner over the given tools.
func NewRedoRunner(tools []Tool, opts ...Option) *RedoRunner {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	m := make(map[string]Tool, len(tools))
	for _, t := range tools {
		m[t.Name()] = t
	}
	return &RedoRunner{tools: m, logger: s.logger}
}

// Replay executes every tool call recorded in the run, in order. There
// are no retries and no fallback; success means every call executed
// without error.
func (r *RedoRunner) Replay(ctx context.Context, run *Run) error {
	calls := extractToolCalls(run)
	if len(calls) == 0 {
		return nil
	}
	r.logger.Info("replay start", "run", run.ID, "calls", len(calls))
	for _, call := range calls {
		if err := r.replayCall(ctx, call); err != nil {
			return err
		}
	}
	r.logger.Info("replay end", "run", run.ID)
	return nil
}

// extractToolCalls walks the run's messages in order and concatenates
// the tool calls of every model message.
func extractToolCalls(run *Run) []*ToolCall {
	var calls []*ToolCall
	for _, msg := range run.Messages {
		if msg.Role == RoleModel {
			calls = append(calls, msg.ToolCalls()...)
		}
	}
	return calls
}

func (r *RedoRunner) replayCall(ctx context.Context, call *ToolCall) error {
	tool, ok := r.tools[call.Name]
	if !ok {
		return fmt.Errorf("Tool '%s' not found in tool registry", call.Name)
	}

	if params := tool.Params(); params != nil {
		args := call.Arguments
		if args == nil {
			args = map[string]any{}
		}
		if err := params.Validate(args); err != nil {
			return err
		}
	}

	r.logger.Info("replaying tool", "tool", call.Name, "args", call.Arguments)

	result, err := tool.Execute(ctx, call.Arguments)
	if err != nil {
		return err
	}
	if result != nil && result.Status == StatusError {
		return fmt.Errorf("Tool '%s' failed: %s", call.Name, result.Error)
	}
	return nil
}
