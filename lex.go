package linecalc

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenInt is a sequence of decimal digits.
	tokenInt
	// tokenReal is a decimal number with a point.
	tokenReal
	// tokenStr is a quoted string. The text includes the quotes.
	tokenStr
	// tokenKeyword is one of the word operators: or, and, not, in.
	tokenKeyword
	// tokenOp is a symbolic operator.
	tokenOp
	// tokenOpen is an open bracket, either ( or [.
	tokenOpen
	// tokenClose is a close bracket, either ) or ].
	tokenClose
	// tokenSep is the list element separator ",".
	tokenSep
)

var tokenKindNames = [...]string{
	tokenNone:    "None",
	tokenEOF:     "EOF",
	tokenInt:     "Int",
	tokenReal:    "Real",
	tokenStr:     "Str",
	tokenKeyword: "Keyword",
	tokenOp:      "Op",
	tokenOpen:    "Open",
	tokenClose:   "Close",
	tokenSep:     "Sep",
}

func (k tokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenKindNames[k]
}

// Operators contains the symbolic operators, longest first so that a prefix
// search finds the longest match.
var Operators = []string{"**", "//", "<>", "<=", ">=", "==", "+", "-", "*", "/", "%", "<", ">"}

// Keywords contains the word operators.
var Keywords = []string{"or", "and", "not", "in"}

// OpenBrackets and CloseBrackets contain the runes which group expressions.
// The parser checks that a bracket in byte position k in OpenBrackets is
// matched with the bracket in byte position k in CloseBrackets.
const (
	OpenBrackets  = "(["
	CloseBrackets = ")]"
)

// opstart contains the runes that may begin an operator.
const opstart = "*/<>=+-%"

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
	p    lexToken
	eof  bool
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{
		src:  src,
		rune: 1,
	}
}

// push unreads a token so that it is the next token returned from next. Panics
// if there is already a pushed token.
func (l *lexer) push(tok lexToken) {
	if l.p.kind != tokenNone {
		panic("linecalc: double push")
	}
	l.p = tok
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// peekRune returns the next rune without consuming it. ok is false at EOF.
func (l *lexer) peekRune() (r rune, ok bool, err error) {
	r, err = l.readRune()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, false, nil
		}
		return 0, false, err
	}
	l.unreadRune()
	return r, true, nil
}

// next scans the next token from the input. The first time EOF is encountered
// before any non-whitespace characters, the result is an EOF token with a nil
// error. Subsequent times, if the EOF token is not pushed, the result is an
// empty token with io.EOF.
func (l *lexer) next() (lexToken, error) {
	if l.p.kind != tokenNone {
		tok := l.p
		l.p = lexToken{}
		return tok, nil
	}
	if l.eof {
		return lexToken{}, io.EOF
	}
	defer l.buf.Reset()
	tok := lexToken{pos: l.rune}
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				tok.kind = tokenEOF
				l.eof = true
				return tok, nil
			}
			return tok, err
		}
		switch {
		case unicode.IsSpace(r):
			tok.pos++
			continue
		case '0' <= r && r <= '9', r == '.':
			l.unreadRune()
			kind, err := l.scanNum()
			if err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = kind
			return tok, nil
		case r == '"':
			l.buf.WriteRune(r)
			if err := l.scanStr(); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenStr
			return tok, nil
		case unicode.IsLetter(r):
			l.unreadRune()
			if err := l.scanWord(); err != nil {
				return tok, err
			}
			text := l.buf.String()
			for _, kw := range Keywords {
				if text == kw {
					tok.text = text
					tok.kind = tokenKeyword
					return tok, nil
				}
			}
			return tok, l.error("keyword")
		case r == ',':
			tok.text = ","
			tok.kind = tokenSep
			return tok, nil
		case strings.ContainsRune(opstart, r):
			l.buf.WriteRune(r)
			if err := l.scanOp(); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenOp
			return tok, nil
		default:
			if k := strings.IndexRune(OpenBrackets, r); k >= 0 {
				tok.text = OpenBrackets[k : k+1]
				tok.kind = tokenOpen
				return tok, nil
			}
			if k := strings.IndexRune(CloseBrackets, r); k >= 0 {
				tok.text = CloseBrackets[k : k+1]
				tok.kind = tokenClose
				return tok, nil
			}
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return tok, l.error("")
		}
	}
}

// scanNum scans an integer or real literal. A real has exactly one point and
// at least one digit on either side of it. Scanning stops at the first rune
// that cannot continue the literal, so "1.2.3" scans as "1.2" then ".3".
func (l *lexer) scanNum() (tokenKind, error) {
	var dig, dot bool
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return tokenNone, err
		}
		if r == '.' {
			if dot {
				l.unreadRune()
				break
			}
			dot = true
			l.buf.WriteRune(r)
			continue
		}
		if r < '0' || '9' < r {
			l.unreadRune()
			break
		}
		dig = true
		l.buf.WriteRune(r)
	}
	switch {
	case !dig:
		return tokenNone, l.error("number")
	case dot:
		return tokenReal, nil
	default:
		return tokenInt, nil
	}
}

// scanStr scans the remainder of a string literal after its opening quote.
// The literal must contain at least one rune, and none of its runes may be a
// quote or a semicolon.
func (l *lexer) scanStr() error {
	n := 0
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return l.error("string")
			}
			return err
		}
		l.buf.WriteRune(r)
		switch r {
		case '"':
			if n == 0 {
				return l.error("string")
			}
			return nil
		case ';':
			return l.error("string")
		}
		n++
	}
}

func (l *lexer) scanWord() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// next unreads the rune that decides word scanning before
				// calling scanWord, so we have scanned at least one rune.
				return nil
			}
			return err
		}
		if !unicode.IsLetter(r) {
			l.unreadRune()
			return nil
		}
		l.buf.WriteRune(r)
	}
}

// scanOp extends the operator in buf to the longest operator it prefixes.
func (l *lexer) scanOp() error {
	r, ok, err := l.peekRune()
	if err != nil {
		return err
	}
	if ok {
		s := l.buf.String() + string(r)
		for _, op := range Operators {
			if op == s {
				l.readRune()
				l.buf.WriteRune(r)
				return nil
			}
		}
	}
	s := l.buf.String()
	for _, op := range Operators {
		if op == s {
			return nil
		}
	}
	return l.error("operator")
}

func (l *lexer) error(kind string) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  l.rune,
	}
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This may be "number",
	// "string", "keyword", "operator", or the empty string (if a token kind
	// hadn't been decided).
	Kind string
	// Col is the total number of runes scanned by the lexer up to and
	// including this error.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "invalid token at " + pos + ": " + err.Text
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + err.Text
}

func (err *LexError) Pos() int {
	return err.Col
}

func (err *LexError) Is(target error) bool {
	return target == ErrSyntax
}
