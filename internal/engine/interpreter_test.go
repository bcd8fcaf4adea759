package engine

import "testing"

func TestExtractResultPatterns(t *testing.T) {
	r := NewResponseInterpreter()

	cases := []struct {
		text string
		want float64
	}{
		{"The result is: 42", 42},
		{"The answer: -3.5", -3.5},
		{"5 + 3 equals 8", 8},
		{"8 is the answer", 8},
		{"Final answer: 25.7", 25.7},
		{"Step 1: add them.\nStep 2: done.\n25.7", 25.7},
		{"Let's see... 5 + 3 is 8", 8},
	}

	for _, tc := range cases {
		got, ok := r.ExtractResult(tc.text)
		if !ok {
			t.Errorf("ExtractResult(%q): no result", tc.text)
			continue
		}
		if got != tc.want {
			t.Errorf("ExtractResult(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestExtractResultPriority(t *testing.T) {
	r := NewResponseInterpreter()

	// An explicit answer pattern wins over whatever number happens to
	// sit elsewhere in the prose.
	got, ok := r.ExtractResult("I looked at 7 different approaches.\nFinal answer: 42")
	if !ok || got != 42 {
		t.Errorf("ExtractResult = %v (ok=%v), want 42", got, ok)
	}
}

func TestExtractResultFallbackScan(t *testing.T) {
	r := NewResponseInterpreter()

	// No pattern matches, so the last numeric token wins.
	got, ok := r.ExtractResult("First we take 12 apples, remove 4 of them.")
	if !ok || got != 4 {
		t.Errorf("ExtractResult = %v (ok=%v), want 4 via fallback scan", got, ok)
	}
}

func TestExtractResultAbsent(t *testing.T) {
	r := NewResponseInterpreter()

	// No numeric token at all: extraction must report absence, not a
	// silent zero.
	if got, ok := r.ExtractResult("I cannot perform this calculation."); ok {
		t.Errorf("ExtractResult = %v, want absent", got)
	}
}

func TestExtractReasoningMarkers(t *testing.T) {
	r := NewResponseInterpreter()

	got := r.ExtractReasoning("Reasoning: we add the operands together.\nThe result is 5.")
	if got != "we add the operands together." {
		t.Errorf("ExtractReasoning = %q", got)
	}

	got = r.ExtractReasoning("I calculate as follows: both operands are positive.\nDone.")
	if got != "both operands are positive." {
		t.Errorf("ExtractReasoning = %q", got)
	}
}

func TestExtractReasoningVerbatimFallback(t *testing.T) {
	r := NewResponseInterpreter()

	text := "Just adding the two numbers gives 8."
	if got := r.ExtractReasoning(text); got != text {
		t.Errorf("ExtractReasoning = %q, want verbatim input", got)
	}
}
