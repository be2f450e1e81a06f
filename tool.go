package dodo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Tool is a named, schema-validated capability the model may invoke.
// Implementations must be safe for sequential re-entry: the same Tool
// value is shared by reference across runs.
type Tool interface {
	// Name is the unique identifier the model calls the tool by.
	Name() string
	// Description tells the model what the tool does.
	Description() string
	// Params is the JSON Schema for the tool's arguments. A nil schema
	// skips validation.
	Params() *Schema
	// Execute runs the tool with validated arguments.
	Execute(ctx context.Context, params map[string]any) (*ToolResult, error)
}

// funcTool adapts a plain function into a Tool.
type funcTool struct {
	name        string
	description string
	params      *Schema
	fn          func(ctx context.Context, params map[string]any) (*ToolResult, error)
}

// NewTool builds a Tool from a function. The returned result's Name is
// filled in when the function leaves it empty.
func NewTool(name, description string, params *Schema, fn func(ctx context.Context, params map[string]any) (*ToolResult, error)) Tool {
	return &funcTool{name: name, description: description, params: params, fn: fn}
}

func (t *funcTool) Name() string        { return t.name }
func (t *funcTool) Description() string { return t.description }
func (t *funcTool) Params() *Schema     { return t.params }

func (t *funcTool) Execute(ctx context.Context, params map[string]any) (*ToolResult, error) {
	res, err := t.fn(ctx, params)
	if err != nil {
		return nil, err
	}
	if res != nil && res.Name == "" {
		res.Name = t.name
	}
	return res, nil
}

// ToolRegistry maps tool names to tools and dispatches batches of tool
// calls. Registration order is preserved; registering a duplicate name
// replaces the earlier tool in place.
type ToolRegistry struct {
	tools  map[string]Tool
	order  []string
	logger *slog.Logger
}

// NewToolRegistry creates an empty registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]Tool), logger: nopLogger()}
}

// SetLogger routes dispatch logging to l. Nil restores the discard logger.
func (r *ToolRegistry) SetLogger(l *slog.Logger) {
	if l == nil {
		l = nopLogger()
	}
	r.logger = l
}

// Register adds a tool, replacing any tool already registered under the
// same name.
func (r *ToolRegistry) Register(t Tool) error {
	if t == nil || t.Name() == "" {
		return errors.New("Tool must have 'name' attribute")
	}
	name := t.Name()
	if _, ok := r.tools[name]; !ok {
		r.order = append(r.order, name)
	}
	r.tools[name] = t
	return nil
}

// Get returns the tool registered under name.
func (r *ToolRegistry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// All returns the registered tools in registration order.
func (r *ToolRegistry) All() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Clear removes all registered tools.
func (r *ToolRegistry) Clear() {
	r.tools = make(map[string]Tool)
	r.order = nil
}

// ExecuteToolCalls runs a batch of tool calls in order, stopping at the
// first error or terminal result. Calls after the stop point yield
// skipped results, so the returned slice always matches the input in
// length and order.
func (r *ToolRegistry) ExecuteToolCalls(ctx context.Context, calls []*ToolCall) []*ToolResult {
	results := make([]*ToolResult, 0, len(calls))
	executed := 0

	for i, call := range calls {
		tool, ok := r.Get(call.Name)
		if !ok {
			msg := fmt.Sprintf("Tool '%s' not found in registry", call.Name)
			r.logger.Error("tool not found", "tool", call.Name)
			results = append(results, &ToolResult{
				ToolCallID:  call.ID,
				Name:        call.Name,
				Status:      StatusError,
				Error:       msg,
				Description: call.Name + " (ERROR: Tool not found)",
			})
			executed = i + 1
			break
		}

		if params := tool.Params(); params != nil {
			args := call.Arguments
			if args == nil {
				args = map[string]any{}
			}
			if err := params.Validate(args); err != nil {
				r.logger.Error("tool params invalid", "tool", call.Name, "error", err)
				results = append(results, errorToolResult(call, err.Error()))
				executed = i + 1
				break
			}
		}

		r.logger.Info("executing tool", "tool", call.Name, "args", call.Arguments)

		result, err := safeExecute(ctx, tool, call.Arguments)
		if err != nil {
			r.logger.Error("tool execution failed", "tool", call.Name, "error", err)
			results = append(results, errorToolResult(call, err.Error()))
			executed = i + 1
			break
		}

		result.ToolCallID = call.ID
		if result.Name == "" {
			result.Name = call.Name
		}
		results = append(results, result)
		executed = i + 1

		r.logger.Info("tool executed", "tool", call.Name, "description", result.Description)

		if result.Terminal || result.Status == StatusError {
			break
		}
	}

	for _, call := range calls[executed:] {
		results = append(results, &ToolResult{
			ToolCallID:  call.ID,
			Name:        call.Name,
			Status:      StatusSkipped,
			Description: call.Name + " (SKIPPED)",
		})
		r.logger.Info("tool skipped", "tool", call.Name)
	}

	return results
}

// safeExecute runs a tool with panic recovery, so a panicking tool
// degrades into an error result instead of crashing the loop.
func safeExecute(ctx context.Context, tool Tool, args map[string]any) (result *ToolResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			result, err = nil, fmt.Errorf("tool %q panic: %v", tool.Name(), p)
		}
	}()
	result, err = tool.Execute(ctx, args)
	if err == nil && result == nil {
		err = fmt.Errorf("tool %q returned no result", tool.Name())
	}
	return result, err
}

func errorToolResult(call *ToolCall, msg string) *ToolResult {
	return &ToolResult{
		ToolCallID:  call.ID,
		Name:        call.Name,
		Status:      StatusError,
		Error:       msg,
		Description: fmt.Sprintf("%s (ERROR: %s)", call.Name, msg),
	}
}

// nopLogger discards all records. Used wherever no logger is configured.
func nopLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
