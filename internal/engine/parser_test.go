package engine

import "testing"

func TestParseWellFormed(t *testing.T) {
	p := NewExpressionParser()

	cases := []struct {
		input    string
		operator string
		a, b     float64
	}{
		{"Add 10.5 and 15.2", "+", 10.5, 15.2},
		{"what's 10 plus 15?", "+", 10, 15},
		{"subtract 4 from 20", "-", 4, 20},
		{"multiply 7 by 6", "*", 7, 6},
		{"divide 20 by 4", "/", 20, 4},
		{"the difference between 9 and 3", "-", 9, 3},
		{"what is the product of 2.5 and -4", "*", 2.5, -4},
	}

	for _, tc := range cases {
		expr, numbers := p.Parse(tc.input)
		if !expr.Valid() {
			t.Errorf("Parse(%q): expected valid expression, got none (numbers=%v)", tc.input, numbers)
			continue
		}
		if expr.Operator != tc.operator {
			t.Errorf("Parse(%q): operator = %q, want %q", tc.input, expr.Operator, tc.operator)
		}
		if expr.OperandA != tc.a || expr.OperandB != tc.b {
			t.Errorf("Parse(%q): operands = (%v, %v), want (%v, %v)",
				tc.input, expr.OperandA, expr.OperandB, tc.a, tc.b)
		}
	}
}

func TestParseOperandsInEncounterOrder(t *testing.T) {
	p := NewExpressionParser()

	// More than two numbers: the first two in text order win.
	expr, numbers := p.Parse("add 3 and 5, then maybe 7")
	if len(numbers) != 3 {
		t.Fatalf("expected 3 numbers, got %d (%v)", len(numbers), numbers)
	}
	if expr.OperandA != 3 || expr.OperandB != 5 {
		t.Errorf("operands = (%v, %v), want (3, 5)", expr.OperandA, expr.OperandB)
	}
}

func TestParseKeywordTablePriority(t *testing.T) {
	p := NewExpressionParser()

	// "divide" appears first in the text, but "add" comes first in the
	// keyword table and the table order decides.
	expr, _ := p.Parse("divide, no wait, add 2 and 3")
	if expr.Operator != "+" {
		t.Fatalf("operator = %q, want +", expr.Operator)
	}

	// "minus" vs "times": subtraction keywords precede multiplication
	// keywords in the table regardless of text position.
	expr, _ = p.Parse("8 times 2 minus nothing else, use 8 and 2")
	if expr.Operator != "-" {
		t.Errorf("operator = %q, want - (table order tie-break)", expr.Operator)
	}
}

func TestParseNoNumbers(t *testing.T) {
	p := NewExpressionParser()

	expr, numbers := p.Parse("I want to add twenty and thirty")
	if len(numbers) != 0 {
		t.Errorf("expected 0 numeric literals, got %v", numbers)
	}
	if expr.Valid() {
		t.Errorf("expected no expression, got %v", expr)
	}
}

func TestParseOneNumber(t *testing.T) {
	p := NewExpressionParser()

	expr, numbers := p.Parse("add 5 to itself")
	if len(numbers) != 1 {
		t.Fatalf("expected 1 number, got %v", numbers)
	}
	if expr.Valid() {
		t.Errorf("expected no expression with a single operand, got %v", expr)
	}
}

func TestParseNoOperator(t *testing.T) {
	p := NewExpressionParser()

	expr, numbers := p.Parse("here are 4 and 9 with no operation")
	if len(numbers) != 2 {
		t.Fatalf("expected 2 numbers, got %v", numbers)
	}
	if expr.Valid() {
		t.Errorf("expected no expression without an operator keyword, got %v", expr)
	}
}

func TestExtractNumbers(t *testing.T) {
	p := NewExpressionParser()

	numbers := p.ExtractNumbers("from -3.5 up to 12, stepping by 0.25")
	want := []float64{-3.5, 12, 0.25}
	if len(numbers) != len(want) {
		t.Fatalf("got %v, want %v", numbers, want)
	}
	for i := range want {
		if numbers[i] != want[i] {
			t.Errorf("numbers[%d] = %v, want %v", i, numbers[i], want[i])
		}
	}
}
