package engine

import (
	"context"
	"log"
	"time"
)

// Hook observes the agent's pipeline. The agent takes hooks by
// injection; there is no process-wide logger in this package.
type Hook interface {
	OnStateChange(ctx context.Context, from, to AgentState)
	OnBeforeLLM(ctx context.Context, messages []ChatMessage)
	OnAfterLLM(ctx context.Context, resp LLMResponse)
	OnRetryAttempt(ctx context.Context, attempt int, delay time.Duration, err error)
	OnVerified(ctx context.Context, result CalculationResult, localResult float64, localAvailable bool)
	OnError(ctx context.Context, err error, userMessage string)
	OnCompleted(ctx context.Context, result CalculationResult)
}

// Hooks fans out to multiple hooks in order.
type Hooks []Hook

func (hs Hooks) OnStateChange(ctx context.Context, from, to AgentState) {
	for _, h := range hs {
		h.OnStateChange(ctx, from, to)
	}
}
func (hs Hooks) OnBeforeLLM(ctx context.Context, m []ChatMessage) {
	for _, h := range hs {
		h.OnBeforeLLM(ctx, m)
	}
}
func (hs Hooks) OnAfterLLM(ctx context.Context, r LLMResponse) {
	for _, h := range hs {
		h.OnAfterLLM(ctx, r)
	}
}
func (hs Hooks) OnRetryAttempt(ctx context.Context, attempt int, delay time.Duration, err error) {
	for _, h := range hs {
		h.OnRetryAttempt(ctx, attempt, delay, err)
	}
}
func (hs Hooks) OnVerified(ctx context.Context, res CalculationResult, local float64, available bool) {
	for _, h := range hs {
		h.OnVerified(ctx, res, local, available)
	}
}
func (hs Hooks) OnError(ctx context.Context, err error, userMessage string) {
	for _, h := range hs {
		h.OnError(ctx, err, userMessage)
	}
}
func (hs Hooks) OnCompleted(ctx context.Context, res CalculationResult) {
	for _, h := range hs {
		h.OnCompleted(ctx, res)
	}
}

// LoggerHook logs pipeline events to an injected logger.
type LoggerHook struct{ L *log.Logger }

func (h LoggerHook) OnStateChange(_ context.Context, from, to AgentState) {
	h.L.Printf("state %s → %s", from, to)
}
func (h LoggerHook) OnBeforeLLM(_ context.Context, msgs []ChatMessage) {
	promptTokens := 0
	for _, m := range msgs {
		promptTokens += EstimateTokens(m.Content)
	}
	h.L.Printf("📤 sending %d msgs | 💰 tokens=~%d", len(msgs), promptTokens)
}
func (h LoggerHook) OnAfterLLM(_ context.Context, r LLMResponse) {
	h.L.Printf("finish=%s tokens: prompt=%d completion=%d total=%d",
		r.FinishReason, r.Usage.Prompt, r.Usage.Completion, r.Usage.Total)
}
func (h LoggerHook) OnRetryAttempt(_ context.Context, attempt int, delay time.Duration, err error) {
	h.L.Printf("retry attempt=%d delay=%s err=%v", attempt, delay, err)
}
func (h LoggerHook) OnVerified(_ context.Context, res CalculationResult, local float64, available bool) {
	if available {
		h.L.Printf("verified=%v confidence=%.1f local=%v model=%v", res.Verified, res.Confidence, local, res.Result)
	} else {
		h.L.Printf("verification unavailable, confidence=%.1f", res.Confidence)
	}
}
func (h LoggerHook) OnError(_ context.Context, err error, userMessage string) {
	h.L.Printf("error: %s (%v)", userMessage, err)
}
func (h LoggerHook) OnCompleted(_ context.Context, res CalculationResult) {
	h.L.Printf("done: %s = %v (confidence %.0f%%)", res.Expression, res.Result, res.Confidence*100)
}

// NopHook discards all events. Embed it to implement a partial hook.
type NopHook struct{}

func (NopHook) OnStateChange(context.Context, AgentState, AgentState)                    {}
func (NopHook) OnBeforeLLM(context.Context, []ChatMessage)                               {}
func (NopHook) OnAfterLLM(context.Context, LLMResponse)                                  {}
func (NopHook) OnRetryAttempt(context.Context, int, time.Duration, error)                {}
func (NopHook) OnVerified(context.Context, CalculationResult, float64, bool)             {}
func (NopHook) OnError(context.Context, error, string)                                   {}
func (NopHook) OnCompleted(context.Context, CalculationResult)                           {}

// DefaultHooks returns the standard hook set (logger only).
func DefaultHooks(l *log.Logger) Hooks {
	if l == nil {
		l = log.Default()
	}
	return Hooks{LoggerHook{L: l}}
}
