package linecalc

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type depthopt int

// parsectx holds general data for parsing.
type parsectx struct {
	// depth is the number of expressions currently being parsed, counting
	// every parenthesized term, index, array element, and "not" operand.
	depth int
	// maxdepth is the deepest nesting allowed, or 0 for no limit.
	maxdepth int
}

// MaxDepth limits the nesting depth of expressions. Each parenthesized term,
// index, array element, and operand of "not" adds one level. Parsing an
// expression nested more deeply fails with a *DepthError. A limit of zero,
// the default, means only the goroutine stack limits nesting.
func MaxDepth(n int) ParseOption {
	if n < 0 {
		panic("linecalc: negative max depth")
	}
	return depthopt(n)
}

func (o depthopt) parseOption(p parsectx) parsectx {
	p.maxdepth = int(o)
	return p
}
