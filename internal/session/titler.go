package session

import (
	"context"
	"fmt"
	"strings"

	"reckon/internal/engine"
)

// Titler generates short session titles with the LLM.
type Titler struct {
	llm   engine.LLMClient
	model string
}

// NewTitler creates a new session titler.
func NewTitler(llm engine.LLMClient, model string) *Titler {
	return &Titler{
		llm:   llm,
		model: model,
	}
}

// GenerateTitle generates a short 3-5 word title for the session.
func (t *Titler) GenerateTitle(ctx context.Context, messages []engine.ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "New Session", nil
	}

	systemPrompt := "You are a helpful assistant. Generate a short, concise title (3-5 words) for this calculation session based on what the user asked for. Do not use quotes or punctuation."

	// The first few messages are enough to determine intent.
	limit := 10
	if len(messages) < limit {
		limit = len(messages)
	}

	userPrompt := fmt.Sprintf("Transcript:\n%s\n\nGenerate Title:", renderTranscript(messages[:limit]))

	msgs := []engine.ChatMessage{
		{Role: engine.RoleSystem, Content: systemPrompt},
		{Role: engine.RoleUser, Content: userPrompt},
	}

	resp, err := t.llm.Chat(ctx, t.model, msgs, engine.ChatOptions{
		MaxOutputTokens: 20,
		Temperature:     0.3,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate title: %w", err)
	}

	return strings.TrimSpace(resp.Assistant.Content), nil
}

func renderTranscript(messages []engine.ChatMessage) string {
	var b strings.Builder
	for _, m := range messages {
		fmt.Fprintf(&b, "[%s] %s\n", m.Role, m.Content)
	}
	return b.String()
}
