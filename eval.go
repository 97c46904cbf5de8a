package arith

import (
	"io"
	"strings"
)

// Eval evaluates the expression. The only error evaluation can produce is an
// *Error of kind DivisionByZero. The zero Expr evaluates to 0.
func (e *Expr) Eval() (float64, error) {
	if e.n == nil {
		return 0, nil
	}
	return e.n.eval()
}

// eval computes the value of the node.
func (n *node) eval() (float64, error) {
	switch n.kind {
	case nodeNum:
		return n.num, nil
	case nodeNeg:
		x, err := n.left.eval()
		if err != nil {
			return 0, err
		}
		return -x, nil
	case nodeAdd, nodeSub, nodeMul, nodeDiv:
		// Operator chains are left-deep and as long as the input, so walk the
		// left spine in a loop. Right operands only nest through parentheses
		// and negations, which the parser bounds.
		var spine []*node
		l := n
		for l.isbinary() {
			spine = append(spine, l)
			l = l.left
		}
		acc, err := l.eval()
		if err != nil {
			return 0, err
		}
		for i := len(spine) - 1; i >= 0; i-- {
			b := spine[i]
			r, err := b.right.eval()
			if err != nil {
				return 0, err
			}
			acc, err = b.apply(acc, r)
			if err != nil {
				return 0, err
			}
		}
		return acc, nil
	default:
		panic("arith: invalid AST node " + n.kind.String())
	}
}

func (n *node) isbinary() bool {
	switch n.kind {
	case nodeAdd, nodeSub, nodeMul, nodeDiv:
		return true
	default:
		return false
	}
}

// apply computes the binary operation of n on evaluated operands.
func (n *node) apply(l, r float64) (float64, error) {
	switch n.kind {
	case nodeAdd:
		return l + r, nil
	case nodeSub:
		return l - r, nil
	case nodeMul:
		return l * r, nil
	case nodeDiv:
		// Comparison is true for negative zero as well.
		if r == 0 {
			return 0, &Error{Kind: DivisionByZero, Col: n.pos, Text: "/"}
		}
		return l / r, nil
	default:
		panic("arith: apply on " + n.kind.String())
	}
}

// Eval is a shortcut to parse an expression and return its result.
func Eval(src io.RuneScanner, opts ...ParseOption) (float64, error) {
	a, err := Parse(src, opts...)
	if err != nil {
		return 0, err
	}
	return a.Eval()
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, opts ...ParseOption) (float64, error) {
	return Eval(strings.NewReader(src), opts...)
}
