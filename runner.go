package dodo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ObserveFunc supplies the current environment state as a content list.
// The runner samples it once while building the session bootstrap and
// once after every tool dispatch.
type ObserveFunc func(ctx context.Context) ([]Content, error)

// observeNothing is the default ObserveFunc for agents that work from
// conversation alone.
func observeNothing(context.Context) ([]Content, error) { return nil, nil }

// settings holds configuration shared by Agent and TaskRunner.
type settings struct {
	systemPrompt string
	memory       MemoryConfig
	logger       *slog.Logger
	tracer       Tracer
	stateful     bool
}

func defaultSettings() settings {
	return settings{
		systemPrompt: DefaultSystemPrompt,
		memory:       DefaultMemoryConfig(),
		logger:       nopLogger(),
		stateful:     true,
	}
}

// Option configures an Agent or TaskRunner.
type Option func(*settings)

// WithSystemPrompt replaces the default system prompt.
func WithSystemPrompt(s string) Option {
	return func(c *settings) { c.systemPrompt = s }
}

// WithMemory sets the history retention policy.
func WithMemory(m MemoryConfig) Option {
	return func(c *settings) { c.memory = m }
}

// WithLogger routes engine logging to l.
func WithLogger(l *slog.Logger) Option {
	return func(c *settings) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTracer enables span emission around iterations and tool dispatch.
func WithTracer(t Tracer) Option {
	return func(c *settings) { c.tracer = t }
}

// Stateless disables cross-task history on an Agent. Ignored by
// TaskRunner.
func Stateless() Option {
	return func(c *settings) { c.stateful = false }
}

// TaskRunner executes a single task with a conversation-based model.
// Domain tools and the observe callback come from outside; the control
// tools are created internally per run. A TaskRunner is not shared
// across concurrent runs.
type TaskRunner struct {
	llm      LLM
	tools    []Tool
	observe  ObserveFunc
	settings settings
}

// NewTaskRunner creates a runner. A nil observe callback observes
// nothing.
func NewTaskRunner(llm LLM, tools []Tool, observe ObserveFunc, opts ...Option) *TaskRunner {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return newTaskRunner(llm, tools, observe, s)
}

func newTaskRunner(llm LLM, tools []Tool, observe ObserveFunc, s settings) *TaskRunner {
	if observe == nil {
		observe = observeNothing
	}
	s.memory = s.memory.normalized()
	return &TaskRunner{llm: llm, tools: tools, observe: observe, settings: s}
}

// Run executes the task until a control tool fires or maxIterations is
// reached. The returned Run is well-formed for both terminal statuses;
// model or observe failures abandon the current iteration and are
// returned as errors with no Run.
func (r *TaskRunner) Run(ctx context.Context, task string, maxIterations int, previousRuns []*Run, outputSchema *Schema) (*Run, error) {
	result := &taskResult{}
	registry, err := r.setupTools(result, outputSchema)
	if err != nil {
		return nil, err
	}

	bootstrap, err := r.buildBootstrap(ctx, task, previousRuns)
	if err != nil {
		return nil, err
	}

	logger := r.settings.logger
	logger.Info("task start", "task", task, "max_iterations", maxIterations)

	var pairs []pair
	stepsUsed := 0

	for iteration := 0; iteration < maxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		iterCtx := ctx
		var span Span
		if r.settings.tracer != nil {
			iterCtx, span = r.settings.tracer.Start(ctx, "task.iteration",
				IntAttr("iteration", iteration),
				StringAttr("task", task))
		}

		messages := prepareMessages(bootstrap, pairs, r.settings.memory.RecentWindow)

		modelMsg, err := r.llm.CallTools(iterCtx, messages, registry.All())
		if err != nil {
			if span != nil {
				span.Error(err)
				span.End()
			}
			return nil, fmt.Errorf("model call: %w", err)
		}

		calls := modelMsg.ToolCalls()
		names := make([]string, len(calls))
		for i, c := range calls {
			names[i] = c.Name
		}
		logger.Info("model response", "iteration", iteration+1, "tools", names)
		if reasoning := modelMsg.Text(); reasoning != "" {
			logger.Debug("model reasoning", "text", reasoning)
		}
		if span != nil {
			span.SetAttr(IntAttr("tool_count", len(calls)))
		}

		dispatchCtx := iterCtx
		var dispatchSpan Span
		if r.settings.tracer != nil {
			dispatchCtx, dispatchSpan = r.settings.tracer.Start(iterCtx, "task.tool_dispatch",
				IntAttr("tool_count", len(calls)))
		}
		results := registry.ExecuteToolCalls(dispatchCtx, calls)
		if dispatchSpan != nil {
			dispatchSpan.End()
		}

		// The observation is always sampled after tool dispatch so the
		// model sees the post-effect world.
		observation, err := r.observe(iterCtx)
		if err != nil {
			if span != nil {
				span.Error(err)
				span.End()
			}
			return nil, fmt.Errorf("observe: %w", err)
		}

		content := make([]Content, 0, len(results)+len(observation))
		for _, res := range results {
			content = append(content, res)
		}
		content = append(content, observation...)
		pairs = append(pairs, pair{model: modelMsg, user: NewUserMessage(content...)})

		if span != nil {
			span.End()
		}

		if result.status != "" {
			stepsUsed = iteration + 1
			break
		}
	}

	if result.status == "" {
		logger.Info("task end", "reason", "max_iterations_reached")
		result.status = TaskAborted
		result.feedback = "Reached maximum iterations"
		stepsUsed = maxIterations
	}

	logger.Info("task end", "status", result.status, "steps", stepsUsed)

	messages := make([]Message, 0, 2*len(pairs))
	for _, p := range pairs {
		messages = append(messages, p.model, p.user)
	}

	return &Run{
		ID:              NewID(),
		TaskDescription: task,
		Status:          result.status,
		Output:          result.output,
		Feedback:        result.feedback,
		ActionLog:       compactPairs(pairs),
		Messages:        messages,
		StepsUsed:       stepsUsed,
		MaxSteps:        maxIterations,
	}, nil
}

// setupTools builds the per-run registry: user tools in declared order,
// then the control tools.
func (r *TaskRunner) setupTools(result *taskResult, outputSchema *Schema) (*ToolRegistry, error) {
	registry := NewToolRegistry()
	registry.SetLogger(r.settings.logger)

	for _, t := range r.tools {
		if err := registry.Register(t); err != nil {
			return nil, err
		}
	}

	complete, err := newCompleteWorkTool(result, outputSchema)
	if err != nil {
		return nil, err
	}
	if err := registry.Register(complete); err != nil {
		return nil, err
	}
	abort, err := newAbortWorkTool(result)
	if err != nil {
		return nil, err
	}
	if err := registry.Register(abort); err != nil {
		return nil, err
	}
	return registry, nil
}

// buildBootstrap creates the immutable session start: the system prompt
// and the initial user message (previous tasks, current task, first
// observation).
func (r *TaskRunner) buildBootstrap(ctx context.Context, task string, previousRuns []*Run) ([]Message, error) {
	var userContent []Content
	if len(previousRuns) > 0 {
		userContent = append(userContent, NewText(formatPreviousRuns(previousRuns)))
	}
	userContent = append(userContent, NewText("## Current task:\n"+task))

	observation, err := r.observe(ctx)
	if err != nil {
		return nil, fmt.Errorf("observe: %w", err)
	}
	userContent = append(userContent, observation...)

	return []Message{
		NewSystemMessage(NewText(r.settings.systemPrompt)),
		NewUserMessage(userContent...),
	}, nil
}

func formatPreviousRuns(runs []*Run) string {
	lines := []string{"## Previous tasks:", ""}
	for i, run := range runs {
		lines = append(lines, fmt.Sprintf("### Task %d", i+1))
		lines = append(lines, "Task: "+run.TaskDescription)
		lines = append(lines, "Status: "+capitalize(string(run.Status)))
		if run.Feedback != "" {
			lines = append(lines, "Feedback: "+run.Feedback)
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
