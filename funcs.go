package linecalc

import (
	"math"
	"math/big"
	"strings"

	"github.com/ccoveille/go-safecast"
	"github.com/zephyrtronium/bigfloat"
)

// ints extracts both operands of an integer-only operator.
func ints(op string, l, r Value) (*big.Int, *big.Int, error) {
	x, ok := l.(Int)
	y, ok2 := r.(Int)
	if !ok || !ok2 {
		return nil, nil, &TypeError{Op: op, Left: l.Kind(), Right: r.Kind()}
	}
	return x.big(), y.big(), nil
}

func not(v Value) (Value, error) {
	x, ok := v.(Int)
	if !ok {
		return nil, &TypeError{Op: "not", Left: v.Kind()}
	}
	return boolInt(!x.truth()), nil
}

// logic applies a boolean operator to the truth of two integers. Both
// operands are always evaluated; there is no short circuit.
func logic(op string, l, r Value, f func(a, b bool) bool) (Value, error) {
	x, y, err := ints(op, l, r)
	if err != nil {
		return nil, err
	}
	return boolInt(f(x.Sign() != 0, y.Sign() != 0)), nil
}

// compare applies a comparison operator to two integers. "<>" is the
// exclusive or of the operands' truth rather than inequality.
func compare(op string, l, r Value) (Value, error) {
	x, y, err := ints(op, l, r)
	if err != nil {
		return nil, err
	}
	c := x.Cmp(y)
	switch op {
	case "<":
		return boolInt(c < 0), nil
	case "<=":
		return boolInt(c <= 0), nil
	case ">":
		return boolInt(c > 0), nil
	case ">=":
		return boolInt(c >= 0), nil
	case "==":
		return boolInt(c == 0), nil
	case "<>":
		return boolInt((x.Sign() != 0) != (y.Sign() != 0)), nil
	default:
		panic("linecalc: invalid comparison " + op)
	}
}

// member reports whether l is an element of the sequence r or a substring of
// the text r. Sequence elements are evaluated in order until one equals l.
func member(ctx *Context, l, r Value) (Value, error) {
	switch r := r.(type) {
	case Sequence:
		for _, e := range r.elems {
			v, err := e.eval(ctx)
			if err != nil {
				return nil, err
			}
			if equal(v, l) {
				return boolInt(true), nil
			}
		}
		return boolInt(false), nil
	case Text:
		s, ok := l.(Text)
		if !ok {
			return nil, &TypeError{Op: "in", Left: l.Kind(), Right: r.Kind()}
		}
		return boolInt(strings.Contains(string(r), string(s))), nil
	default:
		return nil, &TypeError{Op: "in", Left: l.Kind(), Right: r.Kind()}
	}
}

// equal reports whether two values are equal. Numbers compare by value
// regardless of representation. Sequences are equal when they hold the same
// element expressions in the same order.
func equal(a, b Value) bool {
	switch a := a.(type) {
	case Int:
		switch b := b.(type) {
		case Int:
			return a.big().Cmp(b.big()) == 0
		case Real:
			return inteqreal(a.big(), float64(b))
		}
	case Real:
		switch b := b.(type) {
		case Int:
			return inteqreal(b.big(), float64(a))
		case Real:
			return a == b
		}
	case Text:
		b, ok := b.(Text)
		return ok && a == b
	case Sequence:
		b, ok := b.(Sequence)
		if !ok || len(a.elems) != len(b.elems) {
			return false
		}
		for i, e := range a.elems {
			if e != b.elems[i] {
				return false
			}
		}
		return true
	}
	return false
}

func inteqreal(x *big.Int, f float64) bool {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	return new(big.Float).SetInt(x).Cmp(big.NewFloat(f)) == 0
}

// floordiv divides two integers, rounding toward negative infinity.
func floordiv(l, r Value) (Value, error) {
	x, y, err := ints("//", l, r)
	if err != nil {
		return nil, err
	}
	if y.Sign() == 0 {
		return nil, &ZeroDivisionError{Op: "//"}
	}
	q, m := new(big.Int).QuoRem(x, y, new(big.Int))
	if m.Sign() != 0 && (m.Sign() < 0) != (y.Sign() < 0) {
		q.Sub(q, big.NewInt(1))
	}
	return Int{x: q}, nil
}

// mod computes the remainder of floor division, which has the sign of the
// divisor.
func mod(l, r Value) (Value, error) {
	x, y, err := ints("%", l, r)
	if err != nil {
		return nil, err
	}
	if y.Sign() == 0 {
		return nil, &ZeroDivisionError{Op: "%"}
	}
	_, m := new(big.Int).QuoRem(x, y, new(big.Int))
	if m.Sign() != 0 && (m.Sign() < 0) != (y.Sign() < 0) {
		m.Add(m, y)
	}
	return Int{x: m}, nil
}

// pow raises an integer to an integer power. A negative power produces a
// real computed at the context's precision.
func pow(ctx *Context, l, r Value) (Value, error) {
	x, y, err := ints("**", l, r)
	if err != nil {
		return nil, err
	}
	if y.Sign() < 0 {
		return negpow(ctx, x, y)
	}
	ax := new(big.Int).Abs(x)
	if ctx.maxbits > 0 && ax.BitLen() > 1 {
		// |x| >= 2, so the result has at least (bitlen(x)-1)*y+1 bits.
		lim := new(big.Int).SetUint64(uint64(ctx.maxbits))
		lo := new(big.Int).Mul(big.NewInt(int64(ax.BitLen()-1)), y)
		if lo.Cmp(lim) >= 0 {
			return nil, &OverflowError{Op: "**", Bits: overbits(lo)}
		}
	}
	z := new(big.Int).Exp(x, y, nil)
	if ctx.maxbits > 0 && uint(z.BitLen()) > ctx.maxbits {
		return nil, &OverflowError{Op: "**", Bits: z.BitLen()}
	}
	return Int{x: z}, nil
}

// overbits converts an estimated bit count for OverflowError, saturating.
func overbits(b *big.Int) int {
	if !b.IsInt64() {
		return math.MaxInt
	}
	n, err := safecast.ToInt(b.Int64() + 1)
	if err != nil {
		return math.MaxInt
	}
	return n
}

func negpow(ctx *Context, x, y *big.Int) (Value, error) {
	if x.Sign() == 0 {
		return nil, &ZeroDivisionError{Op: "**"}
	}
	odd := y.Bit(0) == 1
	neg := x.Sign() < 0 && odd
	ax := new(big.Int).Abs(x)
	if ax.BitLen() == 1 {
		// ±1 to any power is ±1.
		if neg {
			return Real(-1), nil
		}
		return Real(1), nil
	}
	prec := ctx.prec
	if prec == 0 {
		prec = DefaultPrec
	}
	bx := new(big.Float).SetPrec(prec).SetInt(ax)
	by := new(big.Float).SetPrec(prec).SetInt(y)
	z := bigfloat.Pow(new(big.Float).SetPrec(prec), bx, by)
	f, _ := z.Float64()
	if neg {
		f = -f
	}
	return Real(f), nil
}

// index selects an element of a sequence or a rune of a text. Negative
// indices count from the end.
func index(ctx *Context, l, r Value) (Value, error) {
	k, ok := r.(Int)
	if !ok {
		return nil, &TypeError{Op: "[]", Left: l.Kind(), Right: r.Kind()}
	}
	switch l := l.(type) {
	case Sequence:
		i, err := subscript(k, len(l.elems))
		if err != nil {
			return nil, err
		}
		return l.elems[i].eval(ctx)
	case Text:
		s := []rune(string(l))
		i, err := subscript(k, len(s))
		if err != nil {
			return nil, err
		}
		return Text(string(s[i])), nil
	default:
		return nil, &TypeError{Op: "[]", Left: l.Kind(), Right: r.Kind()}
	}
}

// subscript converts an index to a slice position in [0, n).
func subscript(k Int, n int) (int, error) {
	i64, ok := k.Int64()
	if !ok {
		return 0, &IndexError{Index: k.String(), Len: n}
	}
	i, err := safecast.ToInt(i64)
	if err != nil {
		return 0, &IndexError{Index: k.String(), Len: n}
	}
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, &IndexError{Index: k.String(), Len: n}
	}
	return i, nil
}

// add sums numbers or concatenates texts or sequences. Both operands must be
// in the same category.
func add(l, r Value) (Value, error) {
	switch a := l.(type) {
	case Text:
		if b, ok := r.(Text); ok {
			return a + b, nil
		}
	case Sequence:
		if b, ok := r.(Sequence); ok {
			return a.concat(b), nil
		}
	case Int:
		switch b := r.(type) {
		case Int:
			return Int{x: new(big.Int).Add(a.big(), b.big())}, nil
		case Real:
			return arith("+", l, r, func(x, y float64) float64 { return x + y })
		}
	case Real:
		switch r.(type) {
		case Int, Real:
			return arith("+", l, r, func(x, y float64) float64 { return x + y })
		}
	}
	return nil, &TypeError{Op: "+", Left: l.Kind(), Right: r.Kind()}
}

func sub(l, r Value) (Value, error) {
	x, y, err := ints("-", l, r)
	if err != nil {
		return nil, err
	}
	return Int{x: new(big.Int).Sub(x, y)}, nil
}

func mul(l, r Value) (Value, error) {
	if a, ok := l.(Int); ok {
		if b, ok := r.(Int); ok {
			return Int{x: new(big.Int).Mul(a.big(), b.big())}, nil
		}
	}
	return arith("*", l, r, func(x, y float64) float64 { return x * y })
}

// div divides numbers. The quotient is an integer exactly when it has no
// fractional part; otherwise it is a real.
func div(l, r Value) (Value, error) {
	if !numeric(l) || !numeric(r) {
		return nil, &TypeError{Op: "/", Left: l.Kind(), Right: r.Kind()}
	}
	if iszero(r) {
		return nil, &ZeroDivisionError{Op: "/"}
	}
	a, ok := l.(Int)
	b, ok2 := r.(Int)
	if ok && ok2 {
		q := new(big.Rat).SetFrac(a.big(), b.big())
		if q.IsInt() {
			return Int{x: new(big.Int).Set(q.Num())}, nil
		}
		f, _ := q.Float64()
		if math.IsInf(f, 0) {
			return nil, &OverflowError{Op: "/", Bits: q.Num().BitLen() - q.Denom().BitLen()}
		}
		return Real(f), nil
	}
	v, err := arith("/", l, r, func(x, y float64) float64 { return x / y })
	if err != nil {
		return nil, err
	}
	f := float64(v.(Real))
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return v, nil
	}
	z, _ := big.NewFloat(f).Int(nil)
	return Int{x: z}, nil
}

// arith applies a real operation to two numbers, converting integers to
// reals. Either operand being non-numeric is a *TypeError.
func arith(op string, l, r Value, f func(x, y float64) float64) (Value, error) {
	if !numeric(l) || !numeric(r) {
		return nil, &TypeError{Op: op, Left: l.Kind(), Right: r.Kind()}
	}
	x, err := toreal(op, l)
	if err != nil {
		return nil, err
	}
	y, err := toreal(op, r)
	if err != nil {
		return nil, err
	}
	return Real(f(x, y)), nil
}

func numeric(v Value) bool {
	switch v.(type) {
	case Int, Real:
		return true
	default:
		return false
	}
}

func iszero(v Value) bool {
	switch v := v.(type) {
	case Int:
		return v.big().Sign() == 0
	case Real:
		return v == 0
	default:
		return false
	}
}

// toreal converts a number to a real. Integers too large for a real produce
// an *OverflowError.
func toreal(op string, v Value) (float64, error) {
	switch v := v.(type) {
	case Real:
		return float64(v), nil
	case Int:
		f, _ := new(big.Float).SetInt(v.big()).Float64()
		if math.IsInf(f, 0) {
			return 0, &OverflowError{Op: op, Bits: v.big().BitLen()}
		}
		return f, nil
	default:
		panic("linecalc: toreal on " + v.Kind().String())
	}
}
