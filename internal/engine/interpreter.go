package engine

import (
	"regexp"
	"strconv"
	"strings"
)

// resultMatcher is one strategy for pulling a numeric result out of
// free-form response text. Matchers are tried in priority order with
// early exit.
type resultMatcher interface {
	TryExtract(text string) (float64, bool)
}

// patternMatcher extracts the first capture group of a regexp.
type patternMatcher struct {
	re *regexp.Regexp
}

func (m patternMatcher) TryExtract(text string) (float64, bool) {
	match := m.re.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// lastNumberMatcher returns the last numeric token in the text. Used
// as the final fallback so a prose-only answer still yields a value
// when any number is present at all.
type lastNumberMatcher struct{}

func (lastNumberMatcher) TryExtract(text string) (float64, bool) {
	matches := numberPattern.FindAllString(text, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		if n, err := strconv.ParseFloat(matches[i], 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

var reasoningPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:step|reasoning|explanation|because|since)[^:]*:\s*(.*?)(?:\n|$)`),
	regexp.MustCompile(`(?i)(?:i think|i believe|i calculate)[^:]*:\s*(.*?)(?:\n|$)`),
}

// ResponseInterpreter extracts a numeric result and a reasoning string
// from the collaborator's free-text reply.
type ResponseInterpreter struct {
	matchers []resultMatcher
}

// NewResponseInterpreter builds the interpreter with its fixed matcher
// chain: explicit "result/answer/equals/is: N", "N is the result",
// "final answer: N", trailing standalone number, then the
// any-number-at-all fallback.
func NewResponseInterpreter() *ResponseInterpreter {
	return &ResponseInterpreter{
		matchers: []resultMatcher{
			patternMatcher{regexp.MustCompile(`(?i)(?:result|answer|equals?|is)\s*:?\s*(-?\d+\.?\d*)`)},
			patternMatcher{regexp.MustCompile(`(?i)(-?\d+\.?\d*)\s*(?:is the result|is the answer)`)},
			patternMatcher{regexp.MustCompile(`(?i)final answer\s*:?\s*(-?\d+\.?\d*)`)},
			patternMatcher{regexp.MustCompile(`(-?\d+\.?\d*)$`)},
			lastNumberMatcher{},
		},
	}
}

// ExtractResult returns the first match from the ordered strategy
// chain. The second return value is false when the text contains no
// numeric token at all; callers must surface that as a pipeline
// failure rather than defaulting to zero.
func (r *ResponseInterpreter) ExtractResult(text string) (float64, bool) {
	trimmed := strings.TrimSpace(text)
	for _, m := range r.matchers {
		if n, ok := m.TryExtract(trimmed); ok {
			return n, true
		}
	}
	return 0, false
}

// ExtractReasoning returns the first sentence introduced by a
// reasoning marker. When no marker is found, the entire response is
// returned verbatim so nothing is lost.
func (r *ResponseInterpreter) ExtractReasoning(text string) string {
	for _, re := range reasoningPatterns {
		if match := re.FindStringSubmatch(text); match != nil {
			return strings.TrimSpace(match[1])
		}
	}
	return strings.TrimSpace(text)
}
