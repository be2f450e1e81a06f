// Package dodo is an agentic task-execution engine for Go.
//
// It drives a Large Language Model through iterative tool use to
// accomplish user-specified tasks, and can deterministically replay a
// recorded run without calling the model again.
//
// # Quick Start
//
// Create an agent from an LLM adapter, a set of tools, and an observe
// callback that reports current environment state:
//
//	agent := dodo.New(
//		dodo.WithRetry(gemini.New(apiKey, "gemini-2.5-flash")),
//		tools,
//		observe,
//	)
//	run, err := agent.Do(ctx, "archive all processed reports")
//
// Do runs the task loop: observe, assemble the conversation, call the
// model, dispatch its tool calls in order, observe again, and repeat
// until the model calls complete_work or abort_work, or the iteration
// bound is hit. The returned [Run] records the full history and can be
// replayed later:
//
//	err = agent.Redo(ctx, run)
//
// # Core Interfaces
//
//   - [LLM] — the model adapter contract (provider/gemini implements it)
//   - [Tool] — a named, schema-validated capability; [NewTool] builds
//     one from a function
//   - [ObserveFunc] — environment observation sampled each iteration
//   - [Tracer] — optional span emission (the observer package provides
//     an OTEL-backed implementation)
//
// Conversation history is bounded by [MemoryConfig]: recent iterations
// stay verbatim, older ones are compacted into a text summary, and
// individual content parts can carry a lifespan after which they are
// dropped from context.
package dodo
