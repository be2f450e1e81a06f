package dodo

import "context"

// LLM abstracts the model backend. Implementations convert the
// conversation and tool declarations into a provider request and parse
// the reply back into a model-role Message.
//
// Obligations: preserve message order and role tagging, associate tool
// results with their originating calls (by tool_call_id when present, by
// name otherwise), extract system instructions from the system message,
// render each tool's Params schema in a form the provider accepts, and
// disable any provider-side automatic tool execution. The returned
// message holds reply text as Text parts and function calls as ToolCall
// parts; empty parts are omitted. Provider or transport failures are
// returned as errors, never as synthetic tool results.
type LLM interface {
	// CallTools generates the next model turn given the conversation and
	// the tools available for calling.
	CallTools(ctx context.Context, messages []Message, tools []Tool) (Message, error)
}
