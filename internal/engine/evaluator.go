package engine

// LocalEvaluator deterministically recomputes a canonical expression.
// It is the ground truth the model's answer is checked against and is
// never itself reported as the final answer.
type LocalEvaluator struct{}

// NewLocalEvaluator creates an evaluator.
func NewLocalEvaluator() *LocalEvaluator { return &LocalEvaluator{} }

// Evaluate computes the expression. The second return value is false
// when no local result is available: unknown operator, invalid
// expression, or a zero denominator. "Cannot verify" is distinct from
// "verification failed"; it is not an error.
func (e *LocalEvaluator) Evaluate(expr CanonicalExpression) (float64, bool) {
	if !expr.Valid() {
		return 0, false
	}
	switch expr.Operator {
	case "+":
		return expr.OperandA + expr.OperandB, true
	case "-":
		return expr.OperandA - expr.OperandB, true
	case "*":
		return expr.OperandA * expr.OperandB, true
	case "/":
		if expr.OperandB == 0 {
			return 0, false
		}
		return expr.OperandA / expr.OperandB, true
	}
	return 0, false
}
