package linecalc

import (
	"math/big"
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of an expression. Nodes are
// never modified after the parser creates them.
type node struct {
	kind nodeKind

	// name is the source text of a literal or the operator of a comparison.
	name string
	// num is the value of an integer literal.
	num *big.Int
	// real is the value of a real literal.
	real float64
	// elems are the unevaluated elements of an array literal.
	elems []*node

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeInt   // num
	nodeReal  // real
	nodeStr   // name without quotes
	nodeArray // sequence of unevaluated elems

	nodeNot      // evaluate left, then logical not
	nodeOr       // evaluate left, or right
	nodeAnd      // evaluate left, and right
	nodeCmp      // evaluate left, compare right using name
	nodeIn       // evaluate left, check membership in right
	nodeFloorDiv // evaluate left, floor div by right
	nodeMod      // evaluate left, mod by right
	nodePow      // evaluate left, exp by right
	nodeIndex    // evaluate left, index by right
	nodeAdd      // evaluate left, add right
	nodeSub      // evaluate left, sub right
	nodeMul      // evaluate left, mul right
	nodeDiv      // evaluate left, div by right
)

var nodeKindNames = [...]string{
	nodeNone:     "None",
	nodeInt:      "Int",
	nodeReal:     "Real",
	nodeStr:      "Str",
	nodeArray:    "Array",
	nodeNot:      "Not",
	nodeOr:       "Or",
	nodeAnd:      "And",
	nodeCmp:      "Cmp",
	nodeIn:       "In",
	nodeFloorDiv: "FloorDiv",
	nodeMod:      "Mod",
	nodePow:      "Pow",
	nodeIndex:    "Index",
	nodeAdd:      "Add",
	nodeSub:      "Sub",
	nodeMul:      "Mul",
	nodeDiv:      "Div",
}

func (k nodeKind) String() string {
	if k < 0 || int(k) >= len(nodeKindNames) {
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
	return nodeKindNames[k]
}

// opText gives the operator spelling for binary node kinds.
var opText = map[nodeKind]string{
	nodeOr:       "or",
	nodeAnd:      "and",
	nodeIn:       "in",
	nodeFloorDiv: "//",
	nodeMod:      "%",
	nodePow:      "**",
	nodeAdd:      "+",
	nodeSub:      "-",
	nodeMul:      "*",
	nodeDiv:      "/",
}

// op returns the operator spelling of n.
func (n *node) op() string {
	switch n.kind {
	case nodeCmp:
		return n.name
	case nodeNot:
		return "not"
	case nodeIndex:
		return "[]"
	}
	return opText[n.kind]
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes the expression that n represents. Compound terms are wrapped in
// parentheses so that the grouping is explicit.
func (n *node) fmt(b *strings.Builder) {
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
		if n.left != nil {
			n.left.fmt(b)
		}
		b.WriteByte('#')
		if n.right != nil {
			n.right.fmt(b)
		}
		b.WriteByte('$')
	case nodeInt, nodeReal, nodeStr:
		b.WriteString(n.name)
	case nodeArray:
		fmtelems(b, n.elems)
	case nodeNot:
		b.WriteString("(not ")
		n.left.fmt(b)
		b.WriteByte(')')
	case nodeIndex:
		n.left.fmt(b)
		b.WriteByte('[')
		n.right.fmt(b)
		b.WriteByte(']')
	case nodeOr, nodeAnd, nodeCmp, nodeIn, nodeFloorDiv, nodeMod, nodePow, nodeAdd, nodeSub, nodeMul, nodeDiv:
		b.WriteByte('(')
		n.left.fmt(b)
		b.WriteByte(' ')
		b.WriteString(n.op())
		b.WriteByte(' ')
		n.right.fmt(b)
		b.WriteByte(')')
	default:
		panic("linecalc: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

// fmtelems writes a bracketed list of unevaluated elements.
func fmtelems(b *strings.Builder, elems []*node) {
	b.WriteByte('[')
	for i, e := range elems {
		if i > 0 {
			b.WriteString(", ")
		}
		e.fmt(b)
	}
	b.WriteByte(']')
}
