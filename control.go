package dodo

import (
	"context"
	"encoding/json"
)

// Control tools terminate the task loop. They are registered last into
// every per-run registry and hold a reference to the run's result cell;
// dispatch treats them like any other tool — their terminal results stop
// the batch, and the runner inspects the cell after dispatch.

const (
	// CompleteWorkName is the tool the model calls to finish a task.
	CompleteWorkName = "complete_work"
	// AbortWorkName is the tool the model calls when it cannot proceed.
	AbortWorkName = "abort_work"
)

type completeWorkTool struct {
	result *taskResult
	params *Schema
}

// newCompleteWorkTool builds the completion tool. When outputSchema is
// set, the params schema gains an optional "output" property of that
// shape; otherwise the tool takes only feedback.
func newCompleteWorkTool(result *taskResult, outputSchema *Schema) (*completeWorkTool, error) {
	props := map[string]any{
		"feedback": map[string]any{
			"type":        "string",
			"description": "Brief 1-2 sentence summary of what you accomplished",
		},
	}
	if outputSchema != nil {
		var out map[string]any
		if err := json.Unmarshal(outputSchema.JSON(), &out); err != nil {
			return nil, err
		}
		if _, ok := out["description"]; !ok {
			out["description"] = "Structured output data matching the specified schema"
		}
		props["output"] = out
	}
	params, err := ObjectSchema(props, "feedback")
	if err != nil {
		return nil, err
	}
	return &completeWorkTool{result: result, params: params}, nil
}

func (t *completeWorkTool) Name() string { return CompleteWorkName }

func (t *completeWorkTool) Description() string {
	return "Signal that you have successfully completed the task. Optionally provide structured output data."
}

func (t *completeWorkTool) Params() *Schema { return t.params }

func (t *completeWorkTool) Execute(_ context.Context, params map[string]any) (*ToolResult, error) {
	feedback, _ := params["feedback"].(string)
	t.result.status = TaskCompleted
	t.result.feedback = feedback

	desc := "Completed: " + feedback
	if output, ok := params["output"]; ok && output != nil {
		t.result.output = output
		if data, err := json.MarshalIndent(output, "", "  "); err == nil {
			desc += "\nOutput data:\n" + string(data)
		}
	}

	return &ToolResult{
		Name:        CompleteWorkName,
		Status:      StatusSuccess,
		Description: desc,
		Terminal:    true,
	}, nil
}

type abortWorkTool struct {
	result *taskResult
	params *Schema
}

func newAbortWorkTool(result *taskResult) (*abortWorkTool, error) {
	params, err := ObjectSchema(map[string]any{
		"reason": map[string]any{
			"type":        "string",
			"description": "Explain why you cannot continue and what went wrong",
		},
	}, "reason")
	if err != nil {
		return nil, err
	}
	return &abortWorkTool{result: result, params: params}, nil
}

func (t *abortWorkTool) Name() string { return AbortWorkName }

func (t *abortWorkTool) Description() string {
	return "Signal that you cannot proceed (stuck, blocked, error, or impossible)"
}

func (t *abortWorkTool) Params() *Schema { return t.params }

func (t *abortWorkTool) Execute(_ context.Context, params map[string]any) (*ToolResult, error) {
	reason, _ := params["reason"].(string)
	t.result.status = TaskAborted
	t.result.feedback = reason

	return &ToolResult{
		Name:        AbortWorkName,
		Status:      StatusSuccess,
		Description: "Aborted: " + reason,
		Terminal:    true,
	}, nil
}
