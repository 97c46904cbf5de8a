// Package arith implements a floating-point calculator for plain arithmetic.
//
// Expressions are made of decimal literals, the binary operators + - * /,
// unary minus, and parentheses. "2 * (3 + 4)" is 14, "10 - 5 - 3" is 2 since
// both binary levels associate to the left, and "--3" is 3. Literals need a
// digit on each side of a decimal point, so ".5" and "2." are rejected.
//
// Parse builds an expression once and Eval computes it as a float64. Every
// failure is an *Error whose Kind can be tested with errors.Is:
//
//	_, err := arith.EvalString("1 / (2 - 2)")
//	if errors.Is(err, arith.DivisionByZero) {
//		// ...
//	}
package arith
