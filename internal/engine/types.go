package engine

import (
	"context"
	"fmt"
	"time"
)

// MessageRole represents the role of a chat message.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ChatMessage is the provider-agnostic message we pass around.
type ChatMessage struct {
	Role      MessageRole    `json:"role"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Validate checks if the ChatMessage is valid.
func (m ChatMessage) Validate() error {
	switch m.Role {
	case RoleSystem, RoleUser, RoleAssistant:
		return nil
	default:
		return fmt.Errorf("invalid message role: %s", m.Role)
	}
}

// Usage holds token accounting returned by providers.
type Usage struct {
	Prompt     int
	Completion int
	Total      int
}

// LLMResponse is a normalized result of one chat call.
type LLMResponse struct {
	Assistant    ChatMessage
	Usage        Usage
	FinishReason string // "stop" | "length" | "content_filter"
}

// LLMClient abstracts the collaborator SDK (OpenAI, Anthropic, etc.).
// The collaborator returns free-form prose; no structural contract is
// enforced on the response text.
type LLMClient interface {
	Chat(ctx context.Context, model string, messages []ChatMessage, opts ChatOptions) (LLMResponse, error)
}

// ChatOptions keeps knobs forwarded to the SDK plus the local retry
// and timeout policy wrapped around the call.
type ChatOptions struct {
	Temperature     float32
	MaxOutputTokens int
	RequestTimeout  time.Duration // per-call timeout; a timeout is a collaborator failure
	RetryPolicy     *RetryPolicy  // nil = DefaultRetryPolicy
}

// CanonicalExpression is the normalized two-operand arithmetic triple
// derived from free text. Never mutated after creation.
type CanonicalExpression struct {
	Operator string  // one of "+", "-", "*", "/"
	OperandA float64 // first number in text-encounter order
	OperandB float64 // second number in text-encounter order
}

// Valid reports whether the parser produced a usable expression.
func (e CanonicalExpression) Valid() bool {
	return e.Operator != ""
}

// String renders the expression as "A op B".
func (e CanonicalExpression) String() string {
	return fmt.Sprintf("%v %s %v", e.OperandA, e.Operator, e.OperandB)
}

// CalculationResult holds one completed pass through the pipeline.
// Immutable once created; history entries are never retro-edited.
type CalculationResult struct {
	ID         string    `json:"id"`
	Expression string    `json:"expression"`
	Result     float64   `json:"result"`
	Reasoning  string    `json:"reasoning"`
	Confidence float64   `json:"confidence"`
	Verified   bool      `json:"verified"`
	CreatedAt  time.Time `json:"created_at"`
	TokensUsed int       `json:"tokens_used"`
}

// Recorder receives completed calculation results for persistence.
// The agent keeps its own in-memory history regardless; a recorder is
// an optional sink (sqlite store, search index, ...).
type Recorder interface {
	Record(ctx context.Context, result CalculationResult) error
}
