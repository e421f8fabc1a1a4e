package services

import "context"

// ToolDefinition describes a tool the model may call. Parameters is a
// JSON Schema object.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolCall is a single tool invocation requested by the model.
// Arguments is the raw JSON string produced by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// AgentMessage is a provider-neutral conversation message. Role is one
// of "user", "assistant" or "tool". Assistant messages may carry tool
// calls; tool messages carry the call ID they answer.
type AgentMessage struct {
	Role       string
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
}

// ModelTurn is one assistant turn. A turn with tool calls requests
// execution; a turn without them is the final answer.
type ModelTurn struct {
	Text      string
	ToolCalls []ToolCall
}

// ChatModel abstracts an LLM provider capable of tool calling. The
// coordinator drives the loop; implementations only translate between
// the neutral types and the provider wire format.
type ChatModel interface {
	Name() string
	Complete(ctx context.Context, system string, messages []AgentMessage, tools []ToolDefinition) (*ModelTurn, error)
}

// Message roles shared by the providers and the coordinator.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)
