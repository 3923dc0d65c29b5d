package linecalc

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"testing"
)

// diff finds the first in-order node of n that differs from m, or nil, nil if
// the two ASTs are equal. If any node is nodeNone, it is returned.
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
	case nodeInt:
		if n.num.Cmp(m.num) != 0 {
			return n, m
		}
	case nodeReal:
		if n.real != m.real {
			return n, m
		}
	case nodeStr:
		if n.name != m.name {
			return n, m
		}
	case nodeArray:
		if len(n.elems) != len(m.elems) {
			return n, m
		}
		for i := range n.elems {
			if d, e := n.elems[i].diff(m.elems[i]); d != nil || e != nil {
				return d, e
			}
		}
	case nodeNot:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
	case nodeCmp:
		if n.name != m.name {
			return n, m
		}
		fallthrough
	case nodeOr, nodeAnd, nodeIn, nodeFloorDiv, nodeMod, nodePow, nodeIndex, nodeAdd, nodeSub, nodeMul, nodeDiv:
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

func TestOpPrecsExist(t *testing.T) {
	for _, op := range Operators {
		if b := binop(lexToken{text: op, kind: tokenOp}); b.op == nodeNone {
			t.Errorf("no operator for %s", op)
		}
	}
	for _, kw := range Keywords {
		b := binop(lexToken{text: kw, kind: tokenKeyword})
		if kw == "not" {
			if b.op != nodeNone {
				t.Errorf("not is binary with prec %d", b.prec)
			}
			continue
		}
		if b.op == nodeNone {
			t.Errorf("no operator for %s", kw)
		}
	}
}

func TestParseTrees(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{"paren", "(1)", "1"},
		{"multi", "(((1)))", "1"},
		{"spaces", " 1 +\t2 \n", "1+2"},

		{"add3", "1+2+3", "(1+2)+3"},
		{"sub3", "1-2-3", "(1-2)-3"},
		{"addsub", "1-2+3", "(1-2)+3"},
		{"mul3", "1*2*3", "(1*2)*3"},
		{"div3", "1/2/3", "(1/2)/3"},
		{"pow3", "2**3**2", "(2**3)**2"},
		{"floordiv3", "8//2//2", "(8//2)//2"},
		{"mod3", "7%4%2", "(7%4)%2"},
		{"cmp3", "1<2<3", "(1<2)<3"},
		{"in3", `"a" in "ab" in [1]`, `("a" in "ab") in [1]`},

		{"mul-pow", "2*3**2", "(2*3)**2"},
		{"mod-pow", "2%3**2", "(2%3)**2"},
		{"div-mod", "6/3%2", "(6/3)%2"},
		{"pow-floordiv", "2**3//2", "(2**3)//2"},
		{"floordiv-pow", "8//2**2", "8//(2**2)"},
		{"add-floordiv", "1+4//2", "1+(4//2)"},
		{"add-mul", "1+2*3", "1+(2*3)"},
		{"in-add", "1+1 in [2]", "(1+1) in [2]"},
		{"cmp-in", "1 in [1] == 1", "(1 in [1]) == 1"},
		{"and-cmp", "1<2 and 2<3", "(1<2) and (2<3)"},
		{"or-and", "1 or 0 and 0", "1 or (0 and 0)"},
		{"and-or", "1 and 0 or 0", "(1 and 0) or 0"},

		{"not-and", "not 1 and 0", "not (1 and 0)"},
		{"not-or", "not 1 or 0", "not (1 or 0)"},
		{"and-not-or", "1 and not 0 or 1", "1 and (not (0 or 1))"},
		{"paren-not", "(not 1) and 0", "(not 1) and (0)"},
		{"notnot", "not not 1", "not (not 1)"},
		{"not-cmp", "not 1 < 2", "not (1 < 2)"},

		{"index2", "[[1]][0][0]", "([[1]][0])[0]"},
		{"index-mul", "2*[3][0]", "2*([3][0])"},
		{"index-expr", "[1][0+0]", "[1][(0+0)]"},
		{"string-index", `"ab"[1]`, `("ab")[1]`},
		{"array-expr", "[1+2, 3]", "[(1+2), (3)]"},
		{"array-nested", "[[], [1]]", "[([]), ([1])]"},
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
			name: "not-and",
			src:  "not 1 and 0",
			n: &node{
				kind: nodeNot,
				left: &node{
					kind:  nodeAnd,
					left:  &node{kind: nodeInt, num: big.NewInt(1)},
					right: &node{kind: nodeInt, num: big.NewInt(0)},
				},
			},
		},
		{
			name: "xor",
			src:  "3 <> 3",
			n: &node{
				kind:  nodeCmp,
				name:  "<>",
				left:  &node{kind: nodeInt, num: big.NewInt(3)},
				right: &node{kind: nodeInt, num: big.NewInt(3)},
			},
		},
		{
			name: "empty-array",
			src:  "[]",
			n:    &node{kind: nodeArray},
		},
		{
			name: "literals",
			src:  `[1, 2.5, .5, 3., "a b"]`,
			n: &node{
				kind: nodeArray,
				elems: []*node{
					{kind: nodeInt, num: big.NewInt(1)},
					{kind: nodeReal, real: 2.5},
					{kind: nodeReal, real: 0.5},
					{kind: nodeReal, real: 3},
					{kind: nodeStr, name: `"a b"`},
				},
			},
		},
		{
			name: "bigint",
			src:  "123456789012345678901234567890",
			n: &node{
				kind: nodeInt,
				num: func() *big.Int {
					x, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
					return x
				}(),
			},
		},
		{
			name: "leading-zeros",
			src:  "007",
			n:    &node{kind: nodeInt, num: big.NewInt(7)},
		},
		{
			name: "index",
			src:  "[1,2,3][1]",
			n: &node{
				kind: nodeIndex,
				left: &node{
					kind: nodeArray,
					elems: []*node{
						{kind: nodeInt, num: big.NewInt(1)},
						{kind: nodeInt, num: big.NewInt(2)},
						{kind: nodeInt, num: big.NewInt(3)},
					},
				},
				right: &node{kind: nodeInt, num: big.NewInt(1)},
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Parse(strings.NewReader(c.src))
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			d, e := a.n.diff(c.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\twant %v which has %v\n\tgot  %v which has %v from %q", c.n, e, a.n, d, c.src)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  interface{}
	}{
		{"empty", "", new(*EmptyExpressionError)},
		{"blank", "   ", new(*EmptyExpressionError)},
		{"dangling-op", "1 +", new(*EmptyExpressionError)},
		{"empty-parens", "()", new(*EmptyExpressionError)},
		{"empty-elem", "[1,]", new(*EmptyExpressionError)},
		{"empty-index", "[1][", new(*EmptyExpressionError)},
		{"unclosed-paren", "(1", new(*BracketError)},
		{"unclosed-array", "[1,2", new(*BracketError)},
		{"unclosed-index", "[1][0", new(*BracketError)},
		{"extra-close", "1)", new(*BracketError)},
		{"mismatched", "(1]", new(*BracketError)},
		{"juxtaposed", "1 2", new(*TrailingInputError)},
		{"juxtaposed-str", `"a" "b"`, new(*TrailingInputError)},
		{"paren-juxtaposed", "(1 2)", new(*TokenError)},
		{"array-juxtaposed", "[1 2]", new(*TokenError)},
		{"leading-sep", ", 1", new(*TokenError)},
		{"infix-not", "1 + not 0", new(*TokenError)},
		{"unary-minus", "-1", new(*TokenError)},
		{"empty-string", `""`, new(*LexError)},
		{"semicolon-string", `"a;b"`, new(*LexError)},
		{"identifier", "x + 1", new(*LexError)},
		{"assign", "1 = 1", new(*LexError)},
		{"brace", "{1}", new(*LexError)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Parse(strings.NewReader(c.src))
			if err == nil {
				t.Fatalf("%q parsed as %v", c.src, a)
			}
			if !errors.As(err, c.err) {
				t.Errorf("%q gave %#v, want %T", c.src, err, c.err)
			}
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("%q gave %v which is not ErrSyntax", c.src, err)
			}
			if errors.Is(err, ErrSemantic) {
				t.Errorf("%q gave %v which is ErrSemantic", c.src, err)
			}
			var ie InputError
			if !errors.As(err, &ie) {
				t.Errorf("%q gave %#v which is not an InputError", c.src, err)
			}
		})
	}
}

func TestMaxDepth(t *testing.T) {
	cases := []struct {
		src   string
		depth int
		ok    bool
	}{
		{"1", 1, true},
		{"(1)", 1, false},
		{"(1)", 2, true},
		{"((1))", 2, false},
		{"((1))", 3, true},
		{"[1, 2]", 2, true},
		{"[[1]]", 2, false},
		{"not not 1", 2, false},
		{"not not 1", 3, true},
		{"((((((((((1))))))))))", 0, true},
	}
	for _, c := range cases {
		_, err := Parse(strings.NewReader(c.src), MaxDepth(c.depth))
		if c.ok {
			if err != nil {
				t.Errorf("%q with max depth %d: unexpected error %v", c.src, c.depth, err)
			}
			continue
		}
		var de *DepthError
		if !errors.As(err, &de) {
			t.Errorf("%q with max depth %d: want *DepthError, got %#v", c.src, c.depth, err)
			continue
		}
		if de.Max != c.depth {
			t.Errorf("%q: depth error reports max %d, want %d", c.src, de.Max, c.depth)
		}
	}
}

func TestExprString(t *testing.T) {
	cases := []struct {
		src, want string
	}{
		{"1", "1"},
		{"1+2*3", "(1 + (2 * 3))"},
		{"2**3**2", "((2 ** 3) ** 2)"},
		{"not 1 and 0", "(not (1 and 0))"},
		{"3 <> 3", "(3 <> 3)"},
		{`[1, "a"][0]`, `[1, "a"][0]`},
		{"[]", "[]"},
		{"1.50 in [1+1]", "(1.50 in [(1 + 1)])"},
	}
	for _, c := range cases {
		a, err := ParseString(c.src)
		if err != nil {
			t.Errorf("%q failed to parse: %v", c.src, err)
			continue
		}
		if got := a.String(); got != c.want {
			t.Errorf("%q formats as %q, want %q", c.src, got, c.want)
		}
	}
}
