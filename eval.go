package linecalc

import (
	"io"
	"strings"
)

// Context is a context for evaluating expressions. It holds only
// configuration, so it is safe to use a Context concurrently.
type Context struct {
	prec    uint
	maxbits uint
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	precopt    uint
	maxbitsopt uint
)

func (precopt) ctxOption()    {}
func (maxbitsopt) ctxOption() {}

// Prec sets the precision in bits of intermediate calculations for integer
// powers with negative exponents. The results are always rounded to reals.
func Prec(prec uint) ContextOption {
	return precopt(prec)
}

// MaxBits sets the size limit in bits of integer powers. Raising an integer to
// a power that would produce a larger result fails with an *OverflowError. A
// limit of zero means no limit.
func MaxBits(bits uint) ContextOption {
	return maxbitsopt(bits)
}

const (
	// DefaultPrec is the precision of a context created without Prec.
	DefaultPrec = 64
	// DefaultMaxBits is the integer size limit of a context created without
	// MaxBits.
	DefaultMaxBits = 1 << 20
)

var defaultContext = Context{prec: DefaultPrec, maxbits: DefaultMaxBits}

// NewContext creates a new evaluation context.
func NewContext(opts ...ContextOption) *Context {
	return defaultContext.Clone(opts...)
}

// Clone creates a copy of a context and applies options to it.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := *ctx
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case precopt:
			n.prec = uint(opt)
		case maxbitsopt:
			n.maxbits = uint(opt)
		default:
			panic("linecalc: unknown option type")
		}
	}
	return &n
}

// Prec returns the precision of real powers in the context.
func (ctx *Context) Prec() uint {
	return ctx.prec
}

// MaxBits returns the integer size limit of the context.
func (ctx *Context) MaxBits() uint {
	return ctx.maxbits
}

// Eval evaluates an expression and returns the result. A nil context uses the
// defaults.
func (ctx *Context) Eval(e *Expr) (Value, error) {
	if ctx == nil {
		ctx = &defaultContext
	}
	return e.n.eval(ctx)
}

// Eval evaluates the expression in a context. It is the same as ctx.Eval(e).
func (e *Expr) Eval(ctx *Context) (Value, error) {
	return ctx.Eval(e)
}

// eval computes the node's value. Binary operators evaluate both operands,
// left first, before checking either operand's kind.
func (n *node) eval(ctx *Context) (Value, error) {
	switch n.kind {
	case nodeInt:
		return Int{x: n.num}, nil
	case nodeReal:
		return Real(n.real), nil
	case nodeStr:
		return Text(n.name[1 : len(n.name)-1]), nil
	case nodeArray:
		return Sequence{elems: n.elems}, nil
	case nodeNot:
		v, err := n.left.eval(ctx)
		if err != nil {
			return nil, err
		}
		return not(v)
	}
	if n.left == nil || n.right == nil {
		panic("linecalc: invalid AST node " + n.kind.String())
	}
	l, err := n.left.eval(ctx)
	if err != nil {
		return nil, err
	}
	r, err := n.right.eval(ctx)
	if err != nil {
		return nil, err
	}
	switch n.kind {
	case nodeOr:
		return logic("or", l, r, func(a, b bool) bool { return a || b })
	case nodeAnd:
		return logic("and", l, r, func(a, b bool) bool { return a && b })
	case nodeCmp:
		return compare(n.name, l, r)
	case nodeIn:
		return member(ctx, l, r)
	case nodeFloorDiv:
		return floordiv(l, r)
	case nodeMod:
		return mod(l, r)
	case nodePow:
		return pow(ctx, l, r)
	case nodeIndex:
		return index(ctx, l, r)
	case nodeAdd:
		return add(l, r)
	case nodeSub:
		return sub(l, r)
	case nodeMul:
		return mul(l, r)
	case nodeDiv:
		return div(l, r)
	default:
		panic("linecalc: invalid AST node " + n.kind.String())
	}
}

// Eval is a shortcut to parse an expression and return its result.
func Eval(src io.RuneScanner, opts ...ContextOption) (Value, error) {
	ctx := NewContext(opts...)
	a, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return ctx.Eval(a)
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, opts ...ContextOption) (Value, error) {
	return Eval(strings.NewReader(src), opts...)
}
