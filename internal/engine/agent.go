package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// contextWindow is how many prior conversation entries accompany each
// collaborator call.
const contextWindow = 5

// PromptSource supplies the instructions sent to the collaborator.
type PromptSource interface {
	// SystemPrompt fixes the response shape: reasoning first, then a
	// numeric result.
	SystemPrompt() string
	// UserPrompt wraps the canonical expression and the parsed numbers
	// into the calculation instruction.
	UserPrompt(expr CanonicalExpression, numbers []float64) string
}

// SessionStats summarizes the agent's session so far.
type SessionStats struct {
	TotalCalculations int        `json:"total_calculations"`
	TotalTokensUsed   int        `json:"total_tokens_used"`
	AverageConfidence float64    `json:"average_confidence"`
	VerificationRate  float64    `json:"verification_rate"`
	CurrentState      AgentState `json:"current_state"`
}

// ReasoningAgent owns the state machine and sequences parsing,
// reasoning, verification and scoring. It is the sole entry point into
// the pipeline.
//
// One request in flight per instance: memory and history are mutated
// without isolation, so concurrent ProcessRequest calls on the same
// instance may interleave. Callers needing concurrency serialize
// requests or use one agent per logical session.
type ReasoningAgent struct {
	state       AgentState
	client      LLMClient
	model       string
	opts        ChatOptions
	prompts     PromptSource
	memory      *ConversationMemory
	parser      *ExpressionParser
	evaluator   *LocalEvaluator
	interpreter *ResponseInterpreter
	scorer      *ConfidenceScorer
	classifier  *ErrorClassifier
	hooks       Hooks
	recorders   []Recorder
	history     []CalculationResult
}

// AgentOption configures a ReasoningAgent.
type AgentOption func(*ReasoningAgent)

// WithHooks sets the observation hooks.
func WithHooks(hooks ...Hook) AgentOption {
	return func(a *ReasoningAgent) { a.hooks = hooks }
}

// WithRecorders attaches persistence sinks for completed results.
func WithRecorders(recorders ...Recorder) AgentOption {
	return func(a *ReasoningAgent) { a.recorders = recorders }
}

// WithTolerance overrides the verification tolerance.
func WithTolerance(tolerance float64) AgentOption {
	return func(a *ReasoningAgent) { a.scorer = NewConfidenceScorer(tolerance) }
}

// WithMaxHistory overrides the conversation window capacity.
func WithMaxHistory(n int) AgentOption {
	return func(a *ReasoningAgent) { a.memory = NewConversationMemory(n) }
}

// WithChatOptions overrides the options forwarded to the collaborator.
func WithChatOptions(opts ChatOptions) AgentOption {
	return func(a *ReasoningAgent) { a.opts = opts }
}

// NewReasoningAgent creates an agent around the given collaborator.
func NewReasoningAgent(client LLMClient, model string, prompts PromptSource, options ...AgentOption) *ReasoningAgent {
	a := &ReasoningAgent{
		state:       StateIdle,
		client:      client,
		model:       model,
		prompts:     prompts,
		memory:      NewConversationMemory(DefaultMaxHistory),
		parser:      NewExpressionParser(),
		evaluator:   NewLocalEvaluator(),
		interpreter: NewResponseInterpreter(),
		scorer:      NewConfidenceScorer(DefaultTolerance),
		classifier:  NewErrorClassifier(),
		opts: ChatOptions{
			Temperature:     0.1, // low temperature for consistent arithmetic
			MaxOutputTokens: 512,
			RequestTimeout:  60 * time.Second,
		},
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// State returns the last known state. Outside an in-flight request
// this reflects how the previous request ended (Completed or Error);
// ProcessRequest overwrites it at entry.
func (a *ReasoningAgent) State() AgentState { return a.state }

// Memory exposes the conversation memory.
func (a *ReasoningAgent) Memory() *ConversationMemory { return a.memory }

// SetTolerance replaces the verification tolerance for subsequent
// requests. Results already produced keep their scores.
func (a *ReasoningAgent) SetTolerance(tolerance float64) {
	a.scorer = NewConfidenceScorer(tolerance)
}

// History returns a copy of the calculation history, oldest first.
// The history grows monotonically for the session lifetime.
func (a *ReasoningAgent) History() []CalculationResult {
	out := make([]CalculationResult, len(a.history))
	copy(out, a.history)
	return out
}

// Stats summarizes the session.
func (a *ReasoningAgent) Stats() SessionStats {
	stats := SessionStats{
		TotalCalculations: len(a.history),
		CurrentState:      a.state,
	}
	if len(a.history) == 0 {
		return stats
	}
	verified := 0
	confidenceSum := 0.0
	for _, r := range a.history {
		stats.TotalTokensUsed += r.TokensUsed
		confidenceSum += r.Confidence
		if r.Verified {
			verified++
		}
	}
	stats.AverageConfidence = confidenceSum / float64(len(a.history))
	stats.VerificationRate = float64(verified) / float64(len(a.history))
	return stats
}

// ProcessRequest runs one pass through the pipeline:
// parse → reason (collaborator) → interpret → verify → score → record.
// It returns a typed failure when fewer than two numbers are present,
// when the collaborator fails, or when no numeric result can be
// extracted from the response. A verification mismatch is not a
// failure; it surfaces as low confidence with Verified=false.
func (a *ReasoningAgent) ProcessRequest(ctx context.Context, userInput string) (CalculationResult, error) {
	a.setState(ctx, StateProcessing)

	a.memory.Add(RoleUser, userInput, nil)

	expr, numbers := a.parser.Parse(userInput)
	if len(numbers) < 2 {
		err := &ValidationError{Input: userInput, NumbersFound: len(numbers)}
		a.setState(ctx, StateError)
		a.hooks.OnError(ctx, err, err.Error())
		return CalculationResult{}, err
	}

	a.setState(ctx, StateReasoning)
	resp, err := a.reason(ctx, expr, numbers)
	if err != nil {
		return CalculationResult{}, a.fail(ctx, err)
	}

	responseText := resp.Assistant.Content
	modelResult, ok := a.interpreter.ExtractResult(responseText)
	if !ok {
		return CalculationResult{}, a.fail(ctx, &InterpretationError{Response: responseText})
	}
	reasoning := a.interpreter.ExtractReasoning(responseText)

	a.setState(ctx, StateVerifying)
	localResult, localAvailable := a.evaluator.Evaluate(expr)

	result := CalculationResult{
		ID:         uuid.NewString(),
		Expression: expr.String(),
		Result:     modelResult,
		Reasoning:  reasoning,
		Confidence: a.scorer.Score(modelResult, localResult, localAvailable),
		Verified:   a.scorer.Verified(modelResult, localResult, localAvailable),
		CreatedAt:  time.Now(),
		TokensUsed: a.tokensUsed(resp),
	}
	a.hooks.OnVerified(ctx, result, localResult, localAvailable)

	a.history = append(a.history, result)
	for _, rec := range a.recorders {
		if recErr := rec.Record(ctx, result); recErr != nil {
			// Persistence sinks are best-effort; the pipeline result stands.
			a.hooks.OnError(ctx, recErr, "failed to record calculation")
		}
	}

	a.memory.Add(RoleAssistant, a.formatResponse(result, localResult, localAvailable), nil)

	a.setState(ctx, StateCompleted)
	a.hooks.OnCompleted(ctx, result)
	return result, nil
}

// reason invokes the collaborator with the canonical expression and
// the recent conversation window, wrapped in the timeout and retry
// policy. A timeout is treated as a collaborator failure.
func (a *ReasoningAgent) reason(ctx context.Context, expr CanonicalExpression, numbers []float64) (LLMResponse, error) {
	messages := []ChatMessage{{Role: RoleSystem, Content: a.prompts.SystemPrompt()}}
	messages = append(messages, a.memory.Window(contextWindow)...)
	messages = append(messages, ChatMessage{Role: RoleUser, Content: a.prompts.UserPrompt(expr, numbers)})

	a.hooks.OnBeforeLLM(ctx, messages)

	callCtx := ctx
	if a.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.opts.RequestTimeout)
		defer cancel()
	}

	policy := DefaultRetryPolicy()
	if a.opts.RetryPolicy != nil {
		policy = *a.opts.RetryPolicy
	}

	resp, err := RetryWithPolicy(callCtx, policy, func(ctx context.Context) (LLMResponse, error) {
		return a.client.Chat(ctx, a.model, messages, a.opts)
	}, func(attempt int, delay time.Duration, retryErr error) {
		a.hooks.OnRetryAttempt(ctx, attempt, delay, retryErr)
	})
	if err != nil {
		return LLMResponse{}, err
	}

	a.hooks.OnAfterLLM(ctx, resp)
	return resp, nil
}

// fail drives the state machine to Error and converts the cause into
// a stable, user-safe message.
func (a *ReasoningAgent) fail(ctx context.Context, err error) error {
	a.setState(ctx, StateError)
	msg := a.classifier.UserMessage(err)
	a.hooks.OnError(ctx, err, msg)
	return &PipelineError{Message: msg, Err: err}
}

func (a *ReasoningAgent) setState(ctx context.Context, to AgentState) {
	from := a.state
	a.state = to
	a.hooks.OnStateChange(ctx, from, to)
}

// tokensUsed prefers the provider's accounting and falls back to a
// character-based estimate.
func (a *ReasoningAgent) tokensUsed(resp LLMResponse) int {
	if resp.Usage.Total > 0 {
		return resp.Usage.Total
	}
	return EstimateTokens(resp.Assistant.Content)
}

// formatResponse renders the assistant reply recorded into memory.
func (a *ReasoningAgent) formatResponse(result CalculationResult, localResult float64, localAvailable bool) string {
	text := fmt.Sprintf("I calculated %s = %v\n\nReasoning: %s\n\nConfidence: %.1f%%",
		result.Expression, result.Result, result.Reasoning, result.Confidence*100)
	if localAvailable {
		if result.Verified {
			text += "\nVerification: passed"
		} else {
			text += fmt.Sprintf("\nVerification: local result %v", localResult)
		}
	}
	return text
}
