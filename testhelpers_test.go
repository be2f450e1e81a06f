package dodo

import (
	"context"
	"errors"
	"fmt"
)

// --- Model fakes (shared across runner_test.go, agent_test.go) ---

// fakeLLM scripts model turns. respond is invoked with the 0-based call
// index and the exact conversation the runner assembled, which is also
// recorded in requests for assertions.
type fakeLLM struct {
	respond  func(call int, messages []Message, tools []Tool) (Message, error)
	requests [][]Message
}

func (f *fakeLLM) CallTools(_ context.Context, messages []Message, tools []Tool) (Message, error) {
	call := len(f.requests)
	f.requests = append(f.requests, messages)
	return f.respond(call, messages, tools)
}

// scripted replays responses in order, repeating the last one when
// exhausted.
func scripted(responses ...Message) *fakeLLM {
	return &fakeLLM{respond: func(call int, _ []Message, _ []Tool) (Message, error) {
		if call >= len(responses) {
			call = len(responses) - 1
		}
		return responses[call], nil
	}}
}

// modelCall builds a model message carrying a single tool call.
func modelCall(name string, args map[string]any) Message {
	return NewModelMessage(&ToolCall{Name: name, Arguments: args})
}

func completeCall(feedback string) Message {
	return modelCall(CompleteWorkName, map[string]any{"feedback": feedback})
}

func abortCall(reason string) Message {
	return modelCall(AbortWorkName, map[string]any{"reason": reason})
}

// --- Tool fakes ---

var addSchema = MustSchema(`{
	"type": "object",
	"properties": {
		"a": {"type": "number", "description": "First addend"},
		"b": {"type": "number", "description": "Second addend"}
	},
	"required": ["a", "b"]
}`)

// recordingTool records every invocation's arguments.
type recordingTool struct {
	name   string
	params *Schema
	result func(args map[string]any) (*ToolResult, error)
	calls  []map[string]any
}

func (t *recordingTool) Name() string        { return t.name }
func (t *recordingTool) Description() string { return "test tool " + t.name }
func (t *recordingTool) Params() *Schema     { return t.params }

func (t *recordingTool) Execute(_ context.Context, args map[string]any) (*ToolResult, error) {
	t.calls = append(t.calls, args)
	if t.result != nil {
		return t.result(args)
	}
	return &ToolResult{Name: t.name, Status: StatusSuccess, Description: t.name + " ok"}, nil
}

// newAddTool sums its two arguments.
func newAddTool() *recordingTool {
	t := &recordingTool{name: "add", params: addSchema}
	t.result = func(args map[string]any) (*ToolResult, error) {
		a, _ := toFloat(args["a"])
		b, _ := toFloat(args["b"])
		return &ToolResult{
			Name:        "add",
			Status:      StatusSuccess,
			Description: fmt.Sprintf("add(%v, %v) = %v", args["a"], args["b"], a+b),
		}, nil
	}
	return t
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// newFailTool always fails with the given message.
func newFailTool(name, msg string) *recordingTool {
	return &recordingTool{name: name, result: func(map[string]any) (*ToolResult, error) {
		return nil, errors.New(msg)
	}}
}

// newTerminalTool succeeds with a terminal result (not a control tool).
func newTerminalTool(name string) *recordingTool {
	return &recordingTool{name: name, result: func(map[string]any) (*ToolResult, error) {
		return &ToolResult{Name: name, Status: StatusSuccess, Description: name + " done", Terminal: true}, nil
	}}
}

// observeTexts returns an ObserveFunc producing the given text each
// sample, counting samples.
func observeTexts(text string, count *int) ObserveFunc {
	return func(context.Context) ([]Content, error) {
		if count != nil {
			*count++
		}
		if text == "" {
			return nil, nil
		}
		return []Content{NewText(text)}, nil
	}
}
