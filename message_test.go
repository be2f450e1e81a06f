package dodo

import (
	"encoding/json"
	"testing"
)

func TestMessageAccessors(t *testing.T) {
	msg := NewModelMessage(
		NewText(""),
		NewText("reasoning here"),
		&ToolCall{Name: "add"},
		&ToolCall{Name: "other"},
	)

	if got := msg.Text(); got != "reasoning here" {
		t.Errorf("Text() = %q", got)
	}
	calls := msg.ToolCalls()
	if len(calls) != 2 || calls[0].Name != "add" || calls[1].Name != "other" {
		t.Errorf("ToolCalls() = %v", calls)
	}

	user := NewUserMessage(
		&ToolResult{Name: "add", Status: StatusSuccess},
		NewText("observation"),
	)
	if len(user.ToolResults()) != 1 {
		t.Errorf("ToolResults() = %v", user.ToolResults())
	}
	if len(user.ToolCalls()) != 0 {
		t.Error("user message reports tool calls")
	}
}

func TestMessageRoles(t *testing.T) {
	if NewSystemMessage().Role != RoleSystem {
		t.Error("system role")
	}
	if NewUserMessage().Role != RoleUser {
		t.Error("user role")
	}
	if NewModelMessage().Role != RoleModel {
		t.Error("model role")
	}
	if NewUserMessage().Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestMessageJSONRoundTrip(t *testing.T) {
	msg := NewModelMessage(
		NewText("thinking"),
		&ToolCall{Name: "add", Arguments: map[string]any{"a": float64(2)}},
	)

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}

	var back Message
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Role != RoleModel || len(back.Content) != 2 {
		t.Fatalf("round trip = %+v", back)
	}
	if back.Text() != "thinking" {
		t.Errorf("text = %q", back.Text())
	}
	if calls := back.ToolCalls(); len(calls) != 1 || calls[0].Arguments["a"] != float64(2) {
		t.Errorf("calls = %v", calls)
	}
}

func TestRunJSONRoundTrip(t *testing.T) {
	run := &Run{
		ID:              NewID(),
		TaskDescription: "serialize me",
		Status:          TaskCompleted,
		Feedback:        "ok",
		ActionLog:       "  - Completed: ok",
		Messages: []Message{
			NewModelMessage(&ToolCall{Name: CompleteWorkName, Arguments: map[string]any{"feedback": "ok"}}),
			NewUserMessage(&ToolResult{Name: CompleteWorkName, Status: StatusSuccess, Description: "Completed: ok", Terminal: true}),
		},
		StepsUsed: 1,
		MaxSteps:  5,
	}

	data, err := json.Marshal(run)
	if err != nil {
		t.Fatal(err)
	}
	var back Run
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Status != TaskCompleted || back.StepsUsed != 1 || len(back.Messages) != 2 {
		t.Errorf("round trip = %+v", back)
	}
	// The replay input survives serialization.
	if calls := extractToolCalls(&back); len(calls) != 1 || calls[0].Name != CompleteWorkName {
		t.Errorf("calls after round trip = %v", calls)
	}
}
