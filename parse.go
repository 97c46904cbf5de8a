package arith

import (
	"errors"
	"io"
	"strconv"
)

// Expr = Sum
// Sum = Product { ('+' | '-') Product }
// Product = Unary { ('*' | '/') Unary }
// Unary = '-' Unary | Atom
// Atom = num | '(' Sum ')'

// Expr is a parsed expression that can be evaluated.
type Expr struct {
	// n is the root node of the expression.
	n *node
}

// Parse parses an expression so it can be evaluated. The given options are
// applied in order.
func Parse(src io.RuneScanner, opts ...ParseOption) (*Expr, error) {
	scan := lex(src)
	p := parsectx{maxdepth: DefaultMaxDepth}
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	n, err := parsesum(scan, &p)
	if err != nil {
		return nil, err
	}
	switch tok := scan.must(); tok.kind {
	case tokenEOF:
	case tokenClose:
		return nil, &Error{Kind: UnbalancedParentheses, Col: tok.pos, Text: tok.text}
	default:
		return nil, &Error{Kind: TrailingInput, Col: tok.pos, Text: tok.text}
	}
	return &Expr{n: n}, nil
}

// parsesum parses a left-associative chain of additions and subtractions. If
// there is no error, then parsesum pushes the token that ended the chain.
func parsesum(scan *lexer, p *parsectx) (*node, error) {
	n, err := parseproduct(scan, p)
	if err != nil {
		return nil, err
	}
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		op := sumop(tok)
		if op == nodeNone {
			scan.push(tok)
			return n, nil
		}
		rhs, err := parseproduct(scan, p)
		if err != nil {
			return nil, err
		}
		n = &node{kind: op, pos: tok.pos, left: n, right: rhs}
	}
}

// parseproduct parses a left-associative chain of multiplications and
// divisions. If there is no error, then parseproduct pushes the token that
// ended the chain.
func parseproduct(scan *lexer, p *parsectx) (*node, error) {
	n, err := parseunary(scan, p)
	if err != nil {
		return nil, err
	}
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		op := productop(tok)
		if op == nodeNone {
			scan.push(tok)
			return n, nil
		}
		rhs, err := parseunary(scan, p)
		if err != nil {
			return nil, err
		}
		n = &node{kind: op, pos: tok.pos, left: n, right: rhs}
	}
}

// parseunary parses any number of negations applied to an atom. Every minus
// sign in operand position comes through here, including the sign of a
// negative literal.
func parseunary(scan *lexer, p *parsectx) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokenOp || tok.text != "-" {
		scan.push(tok)
		return parseatom(scan, p)
	}
	if err := p.enter(tok); err != nil {
		return nil, err
	}
	defer p.leave()
	x, err := parseunary(scan, p)
	if err != nil {
		return nil, err
	}
	return &node{kind: nodeNeg, pos: tok.pos, left: x}, nil
}

// parseatom parses a literal or a parenthesized sum.
func parseatom(scan *lexer, p *parsectx) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenNum:
		v, err := strconv.ParseFloat(tok.text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			// The lexer only produces literals ParseFloat accepts. Out of
			// range literals become infinities, which is what we want.
			panic("arith: invalid number: " + tok.text + " (" + err.Error() + ")")
		}
		return &node{kind: nodeNum, pos: tok.pos, num: v, text: tok.text}, nil
	case tokenOpen:
		if err := p.enter(tok); err != nil {
			return nil, err
		}
		p.parens++
		n, err := parsesum(scan, p)
		p.parens--
		p.leave()
		if err != nil {
			return nil, err
		}
		end := scan.must()
		if end.kind != tokenClose {
			return nil, &Error{Kind: UnbalancedParentheses, Col: end.pos, Text: end.text}
		}
		return n, nil
	case tokenClose:
		if p.parens == 0 {
			return nil, &Error{Kind: UnbalancedParentheses, Col: tok.pos, Text: tok.text}
		}
		// An operand is missing inside a group, as in () or (1 +).
		return nil, &Error{Kind: UnexpectedToken, Col: tok.pos, Text: tok.text}
	case tokenOp:
		return nil, &Error{Kind: UnexpectedToken, Col: tok.pos, Text: tok.text}
	case tokenEOF:
		return nil, &Error{Kind: MalformedNumber, Col: tok.pos}
	default:
		panic("arith: unknown token: " + tok.String())
	}
}

// sumop gets the node kind for an operator at the sum level, or nodeNone if
// tok is not one.
func sumop(tok lexToken) nodeKind {
	if tok.kind != tokenOp {
		return nodeNone
	}
	switch tok.text {
	case "+":
		return nodeAdd
	case "-":
		return nodeSub
	default:
		return nodeNone
	}
}

// productop gets the node kind for an operator at the product level, or
// nodeNone if tok is not one.
func productop(tok lexToken) nodeKind {
	if tok.kind != tokenOp {
		return nodeNone
	}
	switch tok.text {
	case "*":
		return nodeMul
	case "/":
		return nodeDiv
	default:
		return nodeNone
	}
}

// String creates a string representation of the parsed expression with every
// term parenthesized. The zero Expr is the empty string.
func (e *Expr) String() string {
	if e.n == nil {
		return ""
	}
	return e.n.String()
}
