package dodo

import (
	"context"
	"errors"
)

// DefaultMaxIterations bounds Do when no override is given.
const DefaultMaxIterations = 20

// defaultReadIterations bounds Tell and Check, which are usually short
// retrieval tasks.
const defaultReadIterations = 10

// Agent is the stateful task-execution façade. It owns the list of prior
// runs; each task invocation gets a fresh TaskRunner and ToolRegistry.
// An Agent does not support concurrent Do/Redo invocations — callers
// serialise.
type Agent struct {
	llm      LLM
	tools    []Tool
	observe  ObserveFunc
	settings settings

	previousRuns []*Run
}

// New creates an agent. Tools are shared by reference across runs and
// must be safe for sequential re-entry. A nil observe callback observes
// nothing.
func New(llm LLM, tools []Tool, observe ObserveFunc, opts ...Option) *Agent {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	if observe == nil {
		observe = observeNothing
	}
	return &Agent{llm: llm, tools: tools, observe: observe, settings: s}
}

// doSettings holds per-invocation options for Do.
type doSettings struct {
	maxIterations int
	outputSchema  *Schema
}

// DoOption configures a single Do invocation.
type DoOption func(*doSettings)

// WithMaxIterations overrides the iteration bound for one task.
func WithMaxIterations(n int) DoOption {
	return func(c *doSettings) { c.maxIterations = n }
}

// WithOutputSchema requests structured output: complete_work gains an
// optional "output" parameter of this shape, surfaced as Run.Output.
func WithOutputSchema(s *Schema) DoOption {
	return func(c *doSettings) { c.outputSchema = s }
}

// Do executes a task. The run is appended to the agent's history when
// stateful. When the run aborts — by abort_work or by hitting the
// iteration bound — Do returns the well-formed Run together with a
// *TaskAbortedError carrying the feedback.
func (a *Agent) Do(ctx context.Context, task string, opts ...DoOption) (*Run, error) {
	ds := doSettings{maxIterations: DefaultMaxIterations}
	for _, opt := range opts {
		opt(&ds)
	}
	return a.runTask(ctx, task, ds.maxIterations, ds.outputSchema)
}

// Tell retrieves information from the current context and returns it as
// a string. Internally runs a task with a {value: string} output schema.
func (a *Agent) Tell(ctx context.Context, what string) (string, error) {
	schema, err := ObjectSchema(map[string]any{
		"value": map[string]any{
			"type":        "string",
			"description": "The requested information: " + what,
		},
	}, "value")
	if err != nil {
		return "", err
	}

	run, err := a.runTask(ctx, "Find and return the following information: "+what, defaultReadIterations, schema)
	if err != nil {
		return "", err
	}
	if output, ok := run.Output.(map[string]any); ok {
		if value, ok := output["value"].(string); ok {
			return value, nil
		}
	}
	return "", nil
}

// Check verifies a condition on the current context and returns a
// Verdict. Internally runs a task with a {passed: bool} output schema.
func (a *Agent) Check(ctx context.Context, condition string) (Verdict, error) {
	schema, err := ObjectSchema(map[string]any{
		"passed": map[string]any{
			"type":        "boolean",
			"description": "True if the condition is met, False otherwise",
		},
	}, "passed")
	if err != nil {
		return Verdict{}, err
	}

	run, err := a.runTask(ctx, "Check if the following condition is true: "+condition, defaultReadIterations, schema)
	if err != nil {
		return Verdict{}, err
	}
	output, ok := run.Output.(map[string]any)
	if !ok {
		return Verdict{}, errors.New("check failed: no structured output received")
	}
	passed, _ := output["passed"].(bool)
	return Verdict{Passed: passed, Reason: run.Feedback}, nil
}

// Redo replays the tool calls of a previous run, failing loudly on any
// drift. Unlike Do, an error here is not wrapped in TaskAbortedError.
// Fresh control tools are registered against a discarded result cell so
// the recorded complete_work/abort_work calls replay cleanly.
func (a *Agent) Redo(ctx context.Context, run *Run) error {
	result := &taskResult{}
	complete, err := newCompleteWorkTool(result, nil)
	if err != nil {
		return err
	}
	abort, err := newAbortWorkTool(result)
	if err != nil {
		return err
	}
	tools := make([]Tool, 0, len(a.tools)+2)
	tools = append(tools, a.tools...)
	tools = append(tools, complete, abort)

	redo := NewRedoRunner(tools, WithLogger(a.settings.logger))
	return redo.Replay(ctx, run)
}

// Reset clears the agent's run history. Resetting an empty history is a
// no-op.
func (a *Agent) Reset() {
	a.previousRuns = nil
	a.settings.logger.Info("agent history reset")
}

// PreviousRuns returns the retained runs, oldest first.
func (a *Agent) PreviousRuns() []*Run {
	return a.previousRuns
}

func (a *Agent) runTask(ctx context.Context, task string, maxIterations int, outputSchema *Schema) (*Run, error) {
	runner := newTaskRunner(a.llm, a.tools, a.observe, a.settings)

	var previous []*Run
	if a.settings.stateful {
		previous = a.previousRuns
	}

	run, err := runner.Run(ctx, task, maxIterations, previous, outputSchema)
	if err != nil {
		return nil, err
	}

	if a.settings.stateful {
		a.previousRuns = append(a.previousRuns, run)
	}

	if run.Status == TaskAborted {
		return run, &TaskAbortedError{Feedback: run.Feedback}
	}
	return run, nil
}
