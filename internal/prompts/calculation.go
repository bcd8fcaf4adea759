package prompts

import (
	"fmt"

	"reckon/internal/engine"
)

func init() {
	registry := DefaultRegistry()

	systemPrompt := `You are a mathematical AI assistant specialized in arithmetic operations.
When given a mathematical expression, you must:
1. Show step-by-step reasoning
2. Perform the calculation accurately
3. Provide the final numerical result clearly
4. Be concise but thorough in your explanation

Format your response to include the reasoning process and end with the numerical result.`

	userPrompt := `Please calculate this expression and show your reasoning: {{expression}}

Numbers involved: {{numbers}}

Provide step-by-step reasoning and give the final result.`

	registry.Register(&Prompt{
		ID:          "calculation_system",
		Version:     PromptV1,
		Content:     systemPrompt,
		Description: "System instruction fixing the response shape: reasoning first, numeric result last",
	})

	registry.Register(&Prompt{
		ID:          "calculation_user",
		Version:     PromptV1,
		Content:     userPrompt,
		Description: "User instruction carrying the canonical expression and parsed numbers",
	})
}

// CalculationPrompts supplies the agent's collaborator instructions
// from the registry. Implements engine.PromptSource.
type CalculationPrompts struct {
	registry *PromptRegistry
}

// NewCalculationPrompts creates a prompt source backed by the default
// registry.
func NewCalculationPrompts() *CalculationPrompts {
	return &CalculationPrompts{registry: DefaultRegistry()}
}

// SystemPrompt returns the system instruction.
func (p *CalculationPrompts) SystemPrompt() string {
	prompt, err := p.registry.GetLatest("calculation_system")
	if err != nil {
		// The registry is populated at init; a miss is a programming error.
		panic(err)
	}
	return prompt.Content
}

// UserPrompt renders the calculation instruction for one expression.
func (p *CalculationPrompts) UserPrompt(expr engine.CanonicalExpression, numbers []float64) string {
	prompt, err := p.registry.GetLatest("calculation_user")
	if err != nil {
		panic(err)
	}

	builder := &PromptBuilder{
		basePrompt: prompt,
		fragments:  []string{prompt.Content},
		variables:  make(map[string]string),
	}
	builder.SetVariable("expression", expr.String())
	builder.SetVariable("numbers", fmt.Sprintf("%v", numbers))
	return builder.Build()
}
