package linecalc

import (
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// expression   = boolor
// boolor       = booland { "or" booland }
// booland      = boolnot { "and" boolnot }
// boolnot      = comparison | "not" expression
// comparison   = isin { ("<>" | "<=" | ">=" | "==" | "<" | ">") isin }
// isin         = addsub { "in" addsub }
// addsub       = floordiv { ("+" | "-") floordiv }
// floordiv     = exponent { "//" exponent }
// exponent     = modulus { "**" modulus }
// modulus      = muldiv { "%" muldiv }
// muldiv       = index { ("*" | "/") index }
// index        = parens { "[" expression "]" }
// parens       = "(" expression ")" | literal
// literal      = array | int | real | string
// array        = "[" "]" | "[" expression { "," expression } "]"

// Expr is a parsed expression that can be evaluated with a context.
type Expr struct {
	// n is the root node of the expression.
	n *node
}

// Parse parses an expression so it can be evaluated with a context. The given
// options are applied in order. The entire input must form one expression.
func Parse(src io.RuneScanner, opts ...ParseOption) (*Expr, error) {
	scan := lex(src)
	var p parsectx
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	n, err := parseexpr(scan, &p)
	if err != nil {
		return nil, err
	}
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok, -1)
	}
	return &Expr{n: n}, nil
}

// ParseString is a shortcut to parse a string expression.
func ParseString(src string, opts ...ParseOption) (*Expr, error) {
	return Parse(strings.NewReader(src), opts...)
}

// parseexpr parses a complete expression. The token following the expression
// is pushed back to the lexer.
func parseexpr(scan *lexer, p *parsectx) (*node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.maxdepth > 0 && p.depth > p.maxdepth {
		return nil, &DepthError{Col: scan.rune, Max: p.maxdepth}
	}
	return parseterm(scan, p, orprec)
}

// parseterm parses a left-associative chain of operators which all have
// precedence prec, with operands parsed at the next higher precedence.
func parseterm(scan *lexer, p *parsectx, prec int8) (*node, error) {
	switch {
	case prec == notprec:
		return parsenot(scan, p)
	case prec > mulprec:
		return parseindex(scan, p)
	}
	n, err := parseterm(scan, p, prec+1)
	if err != nil {
		return nil, err
	}
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		o := binop(tok)
		if o.op == nodeNone || o.prec != prec {
			scan.push(tok)
			return n, nil
		}
		rhs, err := parseterm(scan, p, prec+1)
		if err != nil {
			return nil, err
		}
		n = &node{kind: o.op, left: n, right: rhs}
		if o.op == nodeCmp {
			n.name = tok.text
		}
	}
}

// parsenot parses either a comparison or "not" applied to everything that
// follows up to the end of the enclosing expression.
func parsenot(scan *lexer, p *parsectx) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokenKeyword || tok.text != "not" {
		scan.push(tok)
		return parseterm(scan, p, notprec+1)
	}
	rhs, err := parseexpr(scan, p)
	if err != nil {
		return nil, err
	}
	return &node{kind: nodeNot, left: rhs}, nil
}

// parseindex parses a primary term followed by any number of subscripts.
func parseindex(scan *lexer, p *parsectx) (*node, error) {
	n, err := parseprimary(scan, p)
	if err != nil {
		return nil, err
	}
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		if tok.kind != tokenOpen || tok.text != "[" {
			scan.push(tok)
			return n, nil
		}
		rhs, err := parseexpr(scan, p)
		if err != nil {
			return nil, err
		}
		end, err := scan.next()
		if err != nil {
			return nil, err
		}
		if end.kind != tokenClose || end.text != "]" {
			return nil, itShouldNotHaveEndedThisWay(end, rightbracket(tok.text))
		}
		n = &node{kind: nodeIndex, left: n, right: rhs}
	}
}

// parseprimary parses a parenthesized expression or a literal.
func parseprimary(scan *lexer, p *parsectx) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenInt:
		x, ok := new(big.Int).SetString(tok.text, 10)
		if !ok {
			panic("linecalc: invalid integer token " + strconv.Quote(tok.text))
		}
		return &node{kind: nodeInt, name: tok.text, num: x}, nil
	case tokenReal:
		x, err := strconv.ParseFloat(tok.text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			panic("linecalc: invalid real token " + strconv.Quote(tok.text) + " (" + err.Error() + ")")
		}
		return &node{kind: nodeReal, name: tok.text, real: x}, nil
	case tokenStr:
		return &node{kind: nodeStr, name: tok.text}, nil
	case tokenOpen:
		match := rightbracket(tok.text)
		if tok.text == "[" {
			return parsearray(scan, p, tok)
		}
		n, err := parseexpr(scan, p)
		if err != nil {
			return nil, err
		}
		end, err := scan.next()
		if err != nil {
			return nil, err
		}
		if end.kind != tokenClose || end.text != CloseBrackets[match:match+1] {
			return nil, itShouldNotHaveEndedThisWay(end, match)
		}
		return n, nil
	case tokenClose:
		return nil, &EmptyExpressionError{Col: tok.pos, End: tok.text}
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos, End: ""}
	case tokenSep, tokenOp, tokenKeyword:
		return nil, &TokenError{Col: tok.pos, Token: tok.text, Want: "expression"}
	default:
		panic("linecalc: unknown token: " + tok.String())
	}
}

// parsearray parses the elements of an array literal after its open bracket.
func parsearray(scan *lexer, p *parsectx, open lexToken) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokenClose && tok.text == "]" {
		return &node{kind: nodeArray}, nil
	}
	scan.push(tok)
	var elems []*node
	for {
		e, err := parseexpr(scan, p)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		end, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch {
		case end.kind == tokenSep:
			// Next element.
		case end.kind == tokenClose && end.text == "]":
			return &node{kind: nodeArray, elems: elems}, nil
		case end.kind == tokenEOF, end.kind == tokenClose:
			return nil, itShouldNotHaveEndedThisWay(end, rightbracket(open.text))
		default:
			return nil, &TokenError{Col: end.pos, Token: end.text, Want: `"," or "]"`}
		}
	}
}

// rightbracket gets the closing bracket index for an opening bracket.
func rightbracket(left string) int {
	k := strings.Index(OpenBrackets, left)
	if k < 0 || len(left) != 1 {
		panic("linecalc: invalid bracket " + strconv.Quote(left))
	}
	return k
}

// leftbracket gets the opening bracket matching right. If right is no bracket,
// then the result is the empty string.
func leftbracket(right int) string {
	if right == -1 {
		return ""
	}
	return OpenBrackets[right : right+1]
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression. match is the bracket index that the
// expression should have matched, or -1 if none.
func itShouldNotHaveEndedThisWay(tok lexToken, match int) error {
	switch tok.kind {
	case tokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return &BracketError{Col: tok.pos, Left: leftbracket(match), Right: ""}
	case tokenClose:
		// A bracket could be the wrong bracket for the opening brace or any
		// bracket at the end of an input.
		return &BracketError{Col: tok.pos, Left: leftbracket(match), Right: tok.text}
	default:
		if match == -1 {
			return &TrailingInputError{Col: tok.pos, Token: tok.text}
		}
		return &TokenError{Col: tok.pos, Token: tok.text, Want: strconv.Quote(CloseBrackets[match : match+1])}
	}
}

// String creates a string representation of the parsed expression, with
// parentheses around each compound term.
func (e *Expr) String() string {
	return e.n.String()
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

const (
	orprec int8 = iota + 1
	andprec
	notprec
	cmpprec
	inprec
	addprec
	floordivprec
	powprec
	modprec
	mulprec
)

// binop gets a binary operator for a token. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(tok lexToken) operator {
	switch tok.kind {
	case tokenKeyword:
		switch tok.text {
		case "or":
			return operator{orprec, nodeOr}
		case "and":
			return operator{andprec, nodeAnd}
		case "in":
			return operator{inprec, nodeIn}
		}
	case tokenOp:
		switch tok.text {
		case "<>", "<=", ">=", "==", "<", ">":
			return operator{cmpprec, nodeCmp}
		case "+":
			return operator{addprec, nodeAdd}
		case "-":
			return operator{addprec, nodeSub}
		case "//":
			return operator{floordivprec, nodeFloorDiv}
		case "**":
			return operator{powprec, nodePow}
		case "%":
			return operator{modprec, nodeMod}
		case "*":
			return operator{mulprec, nodeMul}
		case "/":
			return operator{mulprec, nodeDiv}
		}
	}
	return operator{}
}
