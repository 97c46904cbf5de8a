package arith

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"testing"
)

// diff finds the first in-order node of n that differs from m, or nil, nil if
// the two ASTs are equal. Positions are ignored. If any node is nodeNone, it
// is returned.
func (n *node) diff(m *node) (*node, *node) {
	if n == nil {
		if m != nil {
			return n, m
		}
		return nil, nil
	}
	if m == nil {
		return n, m
	}
	if n.kind == nodeNone || m.kind == nodeNone {
		return n, m
	}
	if n.kind != m.kind {
		return n, m
	}
	switch n.kind {
	case nodeNum:
		if n.text != m.text || n.num != m.num {
			return n, m
		}
	case nodeNeg, nodeAdd, nodeSub, nodeMul, nodeDiv:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
		if d, e := n.right.diff(m.right); d != nil || e != nil {
			return d, e
		}
	default:
		panic(fmt.Errorf("invalid node kind: n=%+v m=%+v", n, m))
	}
	return nil, nil
}

// haskind checks whether a parse tree contains a node of the given type.
func (n *node) haskind(k nodeKind) bool {
	if n == nil {
		return false
	}
	if n.kind == k {
		return true
	}
	if n.left.haskind(k) {
		return true
	}
	return n.right.haskind(k)
}

func TestParseTrees(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{"paren", "(1)", "1"},
		{"multi", "((((1))))", "1"},
		{"spaces", " 1 +\t2\n", "1+2"},

		{"neg", "-1", "-(1)"},
		{"negneg", "--1", "-(-1)"},
		{"negparen", "-(-3)", "-(-(3))"},
		{"add", "1+2", "((1)+(2))"},
		{"sub", "1-2", "((1)-(2))"},
		{"mul", "1*2", "((1)*(2))"},
		{"div", "1/2", "((1)/(2))"},

		{"add4", "1+2+3+4", "((1+2)+3)+4"},
		{"sub4", "1-2-3-4", "((1-2)-3)-4"},
		{"mul4", "1*2*3*4", "((1*2)*3)*4"},
		{"div4", "1/2/3/4", "((1/2)/3)/4"},

		{"desc", "1*2+3", "(1*2)+3"},
		{"asc", "1+2*3", "1+(2*3)"},
		{"mixed", "1-2*3/4+5", "(1-((2*3)/4))+5"},
		{"negsub", "-1-1", "(-1)-1"},
		{"negmul", "-2*3", "(-2)*3"},
		{"mulneg", "2*-3", "2*(-3)"},
		{"subneg", "2--3", "2-(-3)"},
		{"addneg", "2 + -2", "2+(-2)"},
		{"parenprec", "2*(3+4)", "2*((3+4))"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Parse(strings.NewReader(c.a))
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.a, err)
			}
			b, err := Parse(strings.NewReader(c.b))
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.b, err)
			}
			d, e := a.n.diff(b.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\t%q parses %v has %v\n\t%q parses %v has %v", c.a, a.n, d, c.b, b.n, e)
			}
		})
	}
}

func TestParseExact(t *testing.T) {
	cases := []struct {
		name string
		src  string
		n    *node
	}{
		{
			name: "num",
			src:  "2.50",
			n:    &node{kind: nodeNum, pos: 1, num: 2.5, text: "2.50"},
		},
		{
			name: "negmul",
			src:  "-2*3",
			n: &node{
				kind: nodeMul,
				pos:  3,
				left: &node{
					kind: nodeNeg,
					pos:  1,
					left: &node{kind: nodeNum, pos: 2, num: 2, text: "2"},
				},
				right: &node{kind: nodeNum, pos: 4, num: 3, text: "3"},
			},
		},
		{
			name: "paren",
			src:  "2 * (3 + 4)",
			n: &node{
				kind: nodeMul,
				pos:  3,
				left: &node{kind: nodeNum, pos: 1, num: 2, text: "2"},
				right: &node{
					kind:  nodeAdd,
					pos:   8,
					left:  &node{kind: nodeNum, pos: 6, num: 3, text: "3"},
					right: &node{kind: nodeNum, pos: 10, num: 4, text: "4"},
				},
			},
		},
		{
			name: "leftassoc",
			src:  "10-5-3",
			n: &node{
				kind: nodeSub,
				pos:  5,
				left: &node{
					kind:  nodeSub,
					pos:   3,
					left:  &node{kind: nodeNum, pos: 1, num: 10, text: "10"},
					right: &node{kind: nodeNum, pos: 4, num: 5, text: "5"},
				},
				right: &node{kind: nodeNum, pos: 6, num: 3, text: "3"},
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Parse(strings.NewReader(c.src))
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			if !reflect.DeepEqual(a.n, c.n) {
				t.Errorf("mismatched AST:\n\twant %v\n\tgot  %v from %q", c.n, a.n, c.src)
			}
		})
	}
}

func TestExprString(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"num", "1", "(1)"},
		{"paren", "((1))", "(1)"},
		{"neg", "-1", "(-(1))"},
		{"negneg", "--1", "(-(-(1)))"},
		{"add", "1+2", "((1) + (2))"},
		{"sub4", "1-2-3-4", "((((1) - (2)) - (3)) - (4))"},
		{"asc", "1+2*3", "((1) + ((2) * (3)))"},
		{"desc", "1/2-3", "(((1) / (2)) - (3))"},
		{"decimal", "0.1 + 0.20", "((0.1) + (0.20))"},
		{"nested", "2 * (-3 + 4)", "((2) * ((-(3)) + (4)))"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Parse(strings.NewReader(c.src))
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			s := a.String()
			if s != c.want {
				t.Errorf("%q printed as %q, want %q", c.src, s, c.want)
			}
			b, err := Parse(strings.NewReader(s))
			if err != nil {
				t.Fatalf("%q -> %q failed to parse: %v", c.src, s, err)
			}
			d, e := a.n.diff(b.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\t%q parses %v has %v\n\t%q parses %v has %v", c.src, a.n, d, s, b.n, e)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		kind Kind
		col  int
		res  []string
	}{
		{"empty", "", MalformedNumber, 1, []string{`(?i)\bexpected number\b`}},
		{"blank", "   ", MalformedNumber, 4, []string{`(?i)\bexpected number\b`}},
		{"emptyoperand", "2 +", MalformedNumber, 4, []string{`^4: `}},
		{"emptyoperand-chain", "2 + 3 + ", MalformedNumber, 9, nil},
		{"emptyunary", "-", MalformedNumber, 2, nil},
		{"emptyunary-rhs", "2 + -", MalformedNumber, 6, nil},
		{"leadingdot", ".5 + 2", MalformedNumber, 1, []string{`(?i)\bnumber\b`, `"\."`}},
		{"trailingdot", "2 + 2.", MalformedNumber, 5, []string{`"2\."`}},
		{"doubledot", "2..5", MalformedNumber, 1, []string{`"2\.\."`}},

		{"nonunary", "* 3", UnexpectedToken, 1, []string{`(?i)\bunexpected\b`, `"\*"`}},
		{"doubleop", "2 + + 2", UnexpectedToken, 5, []string{`"\+"`}},
		{"doublestar", "3 ** 2", UnexpectedToken, 4, nil},
		{"negop", "2 + -*", UnexpectedToken, 6, nil},
		{"emptyparen", "()", UnexpectedToken, 2, []string{`"\)"`}},
		{"emptyparen-rhs", "2 * ()", UnexpectedToken, 6, nil},
		{"emptyparen-nested", "(1 + ())", UnexpectedToken, 7, nil},

		{"open", "2 * (3 + 4", UnbalancedParentheses, 11, []string{`(?i)\bmissing closing parenthesis\b`}},
		{"open2", "((2 + 3)", UnbalancedParentheses, 9, nil},
		{"open-inner", "2 * ((3 + 4)", UnbalancedParentheses, 13, nil},
		{"close-extra", "2 * (3 + 4))", UnbalancedParentheses, 12, []string{`(?i)\bclose parenthesis\b`}},
		{"close-after", "1)", UnbalancedParentheses, 2, nil},
		{"close", ")", UnbalancedParentheses, 1, []string{`(?i)\bno open parenthesis\b`}},
		{"close-operand", "2 + )", UnbalancedParentheses, 5, nil},
		{"close-neg", "-)", UnbalancedParentheses, 2, nil},
		{"close-after-group", "(1) * )", UnbalancedParentheses, 7, nil},
		{"mismatch", "(2 3)", UnbalancedParentheses, 4, []string{`"3"`}},

		{"trailing-num", "2 3", TrailingInput, 3, []string{`"3"`}},
		{"trailing-paren", "2 (3)", TrailingInput, 3, []string{`"\("`}},

		{"letter", "2 + a", InvalidCharacter, 5, []string{`(?i)\binvalid character\b`, `"a"`}},
		{"unicode", "2 × 3", InvalidCharacter, 3, []string{`"×"`}},
		{"bracket", "[1]", InvalidCharacter, 1, nil},
		{"exponent", "1e5", InvalidCharacter, 2, nil},
		{"caret", "2^2", InvalidCharacter, 2, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Parse(strings.NewReader(c.src))
			if a != nil {
				t.Errorf("%q parsed non-nil to %v", c.src, a.n)
			}
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("wrong error type from %q: want *Error, got %#v", c.src, err)
			}
			if e.Kind != c.kind {
				t.Errorf("wrong error kind from %q: want %v, got %v", c.src, c.kind, e.Kind)
			}
			if !errors.Is(err, c.kind) {
				t.Errorf("error from %q is not %v", c.src, c.kind)
			}
			if e.Pos() != c.col {
				t.Errorf("wrong error position from %q: want %d, got %d", c.src, c.col, e.Pos())
			}
			msg := err.Error()
			for _, re := range c.res {
				if !regexp.MustCompile(re).MatchString(msg) {
					t.Errorf("error message %q does not match %s", msg, re)
				}
			}
		})
	}
}

func TestMaxDepth(t *testing.T) {
	nest := func(n int) string {
		return strings.Repeat("(", n) + "1" + strings.Repeat(")", n)
	}
	cases := []struct {
		name string
		src  string
		opts []ParseOption
		err  bool
	}{
		{"parens-at-limit", nest(4), []ParseOption{MaxDepth(4)}, false},
		{"parens-over-limit", nest(5), []ParseOption{MaxDepth(4)}, true},
		{"neg-at-limit", "----1", []ParseOption{MaxDepth(4)}, false},
		{"neg-over-limit", "-----1", []ParseOption{MaxDepth(4)}, true},
		{"mixed-over-limit", "-(-(1))", []ParseOption{MaxDepth(3)}, true},
		{"chains-are-flat", strings.Repeat("1+", 5000) + "1", []ParseOption{MaxDepth(1)}, false},
		{"default-at-limit", nest(DefaultMaxDepth), nil, false},
		{"default-over-limit", nest(DefaultMaxDepth + 1), nil, true},
		{"reset", nest(DefaultMaxDepth), []ParseOption{MaxDepth(1), MaxDepth(0)}, false},
		{"last-wins", nest(3), []ParseOption{MaxDepth(1), MaxDepth(3)}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(c.src), c.opts...)
			switch {
			case c.err && !errors.Is(err, TooDeep):
				t.Errorf("want TooDeep, got %v", err)
			case !c.err && err != nil:
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestKindText(t *testing.T) {
	for k := InvalidCharacter; k <= TooDeep; k++ {
		b, err := k.MarshalText()
		if err != nil {
			t.Errorf("marshaling %d: %v", k, err)
			continue
		}
		var j Kind
		if err := j.UnmarshalText(b); err != nil || j != k {
			t.Errorf("%s unmarshaled to %v with error %v", b, j, err)
		}
	}
	if _, err := Kind(0).MarshalText(); err == nil {
		t.Error("zero kind marshaled without error")
	}
	var k Kind
	if err := k.UnmarshalText([]byte("Kind(0)")); err == nil {
		t.Errorf("nonsense unmarshaled to %v", k)
	}
}

func BenchmarkParse(b *testing.B) {
	cases := []struct {
		name string
		src  string
	}{
		{"desc", "1*2+3-4/5"},
		{"desc-parens", "((1*2)+3)-(4/5)"},
		{"neg", "----1"},
		{"decimals", "0.1 + 0.2 * 3.25 / 1.5"},
	}
	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			b.ReportAllocs()
			var src strings.Reader
			for i := 0; i < b.N; i++ {
				src.Reset(c.src)
				Parse(&src)
			}
		})
	}
}
