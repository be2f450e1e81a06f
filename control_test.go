package dodo

import (
	"context"
	"strings"
	"testing"
)

func TestCompleteWorkNoOutputSchema(t *testing.T) {
	result := &taskResult{}
	tool, err := newCompleteWorkTool(result, nil)
	if err != nil {
		t.Fatal(err)
	}

	if strings.Contains(string(tool.Params().JSON()), `"output"`) {
		t.Error("params schema should not mention output without an output schema")
	}
	if err := tool.Params().Validate(map[string]any{"feedback": "done"}); err != nil {
		t.Fatalf("valid params rejected: %v", err)
	}
	if err := tool.Params().Validate(map[string]any{}); err == nil {
		t.Error("missing feedback accepted")
	}

	res, err := tool.Execute(context.Background(), map[string]any{"feedback": "done"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusSuccess || !res.Terminal {
		t.Errorf("result = %+v", res)
	}
	if res.Description != "Completed: done" {
		t.Errorf("description = %q", res.Description)
	}
	if result.status != TaskCompleted || result.feedback != "done" || result.output != nil {
		t.Errorf("task result = %+v", result)
	}
}

func TestCompleteWorkWithOutputSchema(t *testing.T) {
	outputSchema := MustSchema(`{
		"type": "object",
		"properties": {"value": {"type": "integer"}},
		"required": ["value"]
	}`)

	result := &taskResult{}
	tool, err := newCompleteWorkTool(result, outputSchema)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(tool.Params().JSON()), `"output"`) {
		t.Error("params schema missing output property")
	}
	// Output stays optional.
	if err := tool.Params().Validate(map[string]any{"feedback": "done"}); err != nil {
		t.Errorf("feedback-only params rejected: %v", err)
	}
	if err := tool.Params().Validate(map[string]any{"feedback": "done", "output": map[string]any{"value": "no"}}); err == nil {
		t.Error("ill-typed output accepted")
	}

	res, err := tool.Execute(context.Background(), map[string]any{
		"feedback": "done",
		"output":   map[string]any{"value": 42},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(res.Description, "Completed: done\nOutput data:\n") {
		t.Errorf("description = %q", res.Description)
	}
	output, ok := result.output.(map[string]any)
	if !ok || output["value"] != 42 {
		t.Errorf("stored output = %#v", result.output)
	}
}

func TestAbortWork(t *testing.T) {
	result := &taskResult{}
	tool, err := newAbortWorkTool(result)
	if err != nil {
		t.Fatal(err)
	}

	if err := tool.Params().Validate(map[string]any{}); err == nil {
		t.Error("missing reason accepted")
	}

	res, err := tool.Execute(context.Background(), map[string]any{"reason": "blocked"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusSuccess || !res.Terminal {
		t.Errorf("result = %+v", res)
	}
	if res.Description != "Aborted: blocked" {
		t.Errorf("description = %q", res.Description)
	}
	if result.status != TaskAborted || result.feedback != "blocked" {
		t.Errorf("task result = %+v", result)
	}
}
