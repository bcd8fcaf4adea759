// This file contains token usage estimation for providers that do not
// report accounting.

package engine

import "strings"

// EstimateTokens provides a rough token count estimation.
// Uses a simple heuristic: ~4 characters per token for English text.
// Actual tokenization varies by model; this is only used for the
// TokensUsed estimate when the provider reports no usage.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}

	charCount := len([]rune(text))
	whitespaceCount := strings.Count(text, " ") + strings.Count(text, "\n") + strings.Count(text, "\t")

	// (characters / 4) + (whitespace / 6): whitespace-heavy text has
	// fewer tokens per character.
	estimated := (charCount / 4) + (whitespaceCount / 6)

	if estimated < 1 {
		return 1
	}

	return estimated
}
