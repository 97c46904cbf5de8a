package arith

// DefaultMaxDepth is the nesting limit used when no MaxDepth option is given.
const DefaultMaxDepth = 1000

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type depthopt int

// parsectx holds general data for parsing.
type parsectx struct {
	// depth is the number of open parentheses and unary operators enclosing
	// the current position.
	depth int
	// parens is the number of open parentheses enclosing the current
	// position.
	parens int
	// maxdepth is the largest allowed depth.
	maxdepth int
}

// enter descends into a parenthesized group or a negation introduced by tok.
func (p *parsectx) enter(tok lexToken) error {
	if p.depth >= p.maxdepth {
		return &Error{Kind: TooDeep, Col: tok.pos, Text: tok.text}
	}
	p.depth++
	return nil
}

func (p *parsectx) leave() {
	p.depth--
}

// MaxDepth limits how deeply parentheses and unary minus may nest. Deeper
// input fails to parse with kind TooDeep instead of recursing without bound.
// A non-positive n restores DefaultMaxDepth.
func MaxDepth(n int) ParseOption {
	return depthopt(n)
}

func (o depthopt) parseOption(p parsectx) parsectx {
	if o <= 0 {
		p.maxdepth = DefaultMaxDepth
		return p
	}
	p.maxdepth = int(o)
	return p
}
