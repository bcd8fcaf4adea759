package engine

import (
	"regexp"
	"strconv"
	"strings"
)

// numberPattern matches an optionally negative integer or decimal.
var numberPattern = regexp.MustCompile(`-?\d+\.?\d*`)

// operatorKeyword maps a keyword to its operator symbol. The table is
// scanned in slice order.
type operatorKeyword struct {
	word   string
	symbol string
}

// operatorTable is the fixed priority-ordered keyword table. The first
// keyword found as a substring wins: first-match-in-table order, not
// first-occurrence-in-text order. Two operator words in one sentence
// are resolved by table position; this is a deliberate tie-break, not
// an attempt at disambiguation.
var operatorTable = []operatorKeyword{
	{"add", "+"},
	{"plus", "+"},
	{"sum", "+"},
	{"addition", "+"},
	{"subtract", "-"},
	{"minus", "-"},
	{"difference", "-"},
	{"multiply", "*"},
	{"times", "*"},
	{"product", "*"},
	{"multiplication", "*"},
	{"divide", "/"},
	{"divided by", "/"},
	{"division", "/"},
}

// ExpressionParser maps raw text to a canonical two-operand expression
// via keyword matching and numeric extraction.
type ExpressionParser struct{}

// NewExpressionParser creates a parser.
func NewExpressionParser() *ExpressionParser { return &ExpressionParser{} }

// ExtractNumbers returns every numeric literal in text, preserving
// order of appearance.
func (p *ExpressionParser) ExtractNumbers(text string) []float64 {
	matches := numberPattern.FindAllString(text, -1)
	numbers := make([]float64, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.ParseFloat(m, 64)
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}
	return numbers
}

// Parse extracts the operation and numbers from free text. When an
// operator keyword is present and at least two numbers exist, the
// returned expression is built from the first two numbers in
// encounter order; otherwise the expression is the zero value. Parse
// itself never fails: absence of a valid expression is a caller-level
// error condition.
func (p *ExpressionParser) Parse(text string) (CanonicalExpression, []float64) {
	lowered := strings.ToLower(strings.TrimSpace(text))

	var operator string
	for _, kw := range operatorTable {
		if strings.Contains(lowered, kw.word) {
			operator = kw.symbol
			break
		}
	}

	numbers := p.ExtractNumbers(lowered)

	if operator != "" && len(numbers) >= 2 {
		return CanonicalExpression{
			Operator: operator,
			OperandA: numbers[0],
			OperandB: numbers[1],
		}, numbers
	}

	return CanonicalExpression{}, numbers
}
