package linecalc

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Value is the result of evaluating an expression. The concrete type is always
// one of Int, Real, Text, or Sequence.
type Value interface {
	// Kind reports which variant the value is.
	Kind() Kind
	// String formats the value in its canonical representation: integers
	// as digits, reals with a point or exponent, text quoted, and sequences
	// bracketed with their unevaluated elements.
	String() string

	value()
}

// Kind identifies a variant of Value.
type Kind int8

const (
	KindNone Kind = iota
	KindInt
	KindReal
	KindText
	KindSequence
)

var kindNames = [...]string{
	KindNone:     "none",
	KindInt:      "int",
	KindReal:     "real",
	KindText:     "text",
	KindSequence: "sequence",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Int is an arbitrary-precision integer value. Booleans are represented as
// the integers 1 and 0.
type Int struct {
	x *big.Int
}

// NewInt creates an Int with a copy of x.
func NewInt(x *big.Int) Int {
	return Int{x: new(big.Int).Set(x)}
}

// IntOf creates an Int from a machine integer.
func IntOf(x int64) Int {
	return Int{x: big.NewInt(x)}
}

// boolInt converts a truth value to 1 or 0.
func boolInt(b bool) Int {
	if b {
		return IntOf(1)
	}
	return IntOf(0)
}

// Big returns a copy of the integer.
func (v Int) Big() *big.Int {
	return new(big.Int).Set(v.big())
}

// Int64 returns the integer and whether it fits in an int64.
func (v Int) Int64() (int64, bool) {
	x := v.big()
	return x.Int64(), x.IsInt64()
}

// big returns the underlying integer, which must not be modified. The zero
// Int is 0.
func (v Int) big() *big.Int {
	if v.x == nil {
		return new(big.Int)
	}
	return v.x
}

// truth reports whether the integer is nonzero.
func (v Int) truth() bool {
	return v.big().Sign() != 0
}

func (Int) Kind() Kind       { return KindInt }
func (v Int) String() string { return v.big().String() }
func (Int) value()           {}

// Real is a double-precision floating-point value.
type Real float64

func (Real) Kind() Kind { return KindReal }
func (Real) value()     {}

// String formats the real as the shortest decimal that reads back to the
// same value. Integral values keep a ".0" suffix, and exponent notation is
// used for magnitudes below 1e-4 or at least 1e16.
func (v Real) String() string {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	e := strconv.FormatFloat(f, 'e', -1, 64)
	k := strings.LastIndexByte(e, 'e')
	exp, err := strconv.Atoi(e[k+1:])
	if err != nil {
		panic("linecalc: bad exponent in " + e)
	}
	if exp < -4 || exp >= 16 {
		return e
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// Text is a string value.
type Text string

func (Text) Kind() Kind { return KindText }
func (Text) value()     {}

// String quotes the text with single quotes, or with double quotes if it
// contains a single quote but no double quote. Backslashes, the chosen quote,
// and unprintable runes are escaped.
func (v Text) String() string {
	s := string(v)
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(q)
	for _, r := range s {
		switch {
		case r == '\\' || r == rune(q):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == utf8.RuneError, unicode.IsPrint(r):
			b.WriteRune(r)
		case r < 0x100:
			b.WriteString(`\x`)
			writehex(&b, uint32(r), 2)
		case r < 0x10000:
			b.WriteString(`\u`)
			writehex(&b, uint32(r), 4)
		default:
			b.WriteString(`\U`)
			writehex(&b, uint32(r), 8)
		}
	}
	b.WriteByte(q)
	return b.String()
}

func writehex(b *strings.Builder, x uint32, digits int) {
	const hex = "0123456789abcdef"
	for i := digits - 1; i >= 0; i-- {
		b.WriteByte(hex[(x>>(4*uint(i)))&0xf])
	}
}

// Sequence is an ordered list of unevaluated expressions. Elements are
// evaluated each time an operation uses them.
type Sequence struct {
	elems []*node
}

func (Sequence) Kind() Kind { return KindSequence }
func (Sequence) value()     {}

// Len returns the number of elements in the sequence.
func (v Sequence) Len() int {
	return len(v.elems)
}

// Elem evaluates the element at index i. Panics if i is out of range. A nil
// context uses the defaults.
func (v Sequence) Elem(ctx *Context, i int) (Value, error) {
	if ctx == nil {
		ctx = &defaultContext
	}
	return v.elems[i].eval(ctx)
}

// String formats the sequence with each element written as the expression it
// holds.
func (v Sequence) String() string {
	var b strings.Builder
	fmtelems(&b, v.elems)
	return b.String()
}

// concat creates a sequence holding the elements of v followed by those of w.
func (v Sequence) concat(w Sequence) Sequence {
	elems := make([]*node, 0, len(v.elems)+len(w.elems))
	elems = append(elems, v.elems...)
	elems = append(elems, w.elems...)
	return Sequence{elems: elems}
}

var (
	_ Value = Int{}
	_ Value = Real(0)
	_ Value = Text("")
	_ Value = Sequence{}
)
