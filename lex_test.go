package linecalc

import (
	"io"
	"strings"
	"testing"
)

func TestLex(t *testing.T) {
	cases := []struct {
		src    string
		tokens []lexToken
		errs   int
	}{
		// spaces
		{"", nil, 0},
		{" \t \r\n ", nil, 0},
		// numbers
		{"0", []lexToken{{text: "0", kind: tokenInt, pos: 1}}, 0},
		{"9876543210", []lexToken{{text: "9876543210", kind: tokenInt, pos: 1}}, 0},
		{"1 0", []lexToken{{text: "1", kind: tokenInt, pos: 1}, {text: "0", kind: tokenInt, pos: 3}}, 0},
		{"1.0", []lexToken{{text: "1.0", kind: tokenReal, pos: 1}}, 0},
		{"1.", []lexToken{{text: "1.", kind: tokenReal, pos: 1}}, 0},
		{".1", []lexToken{{text: ".1", kind: tokenReal, pos: 1}}, 0},
		{"1.1.1", []lexToken{{text: "1.1", kind: tokenReal, pos: 1}, {text: ".1", kind: tokenReal, pos: 4}}, 0},
		{".", []lexToken{{pos: 1}}, 1},
		{"-1", []lexToken{{text: "-", kind: tokenOp, pos: 1}, {text: "1", kind: tokenInt, pos: 2}}, 0},
		{"1+0", []lexToken{{text: "1", kind: tokenInt, pos: 1}, {text: "+", kind: tokenOp, pos: 2}, {text: "0", kind: tokenInt, pos: 3}}, 0},
		{"1or 0", []lexToken{{text: "1", kind: tokenInt, pos: 1}, {text: "or", kind: tokenKeyword, pos: 2}, {text: "0", kind: tokenInt, pos: 5}}, 0},
		// strings
		{`"a"`, []lexToken{{text: `"a"`, kind: tokenStr, pos: 1}}, 0},
		{`"a b"`, []lexToken{{text: `"a b"`, kind: tokenStr, pos: 1}}, 0},
		{`"a"+"b"`, []lexToken{{text: `"a"`, kind: tokenStr, pos: 1}, {text: "+", kind: tokenOp, pos: 4}, {text: `"b"`, kind: tokenStr, pos: 5}}, 0},
		{`""`, []lexToken{{pos: 1}}, 1},
		{`"a;b"`, []lexToken{{pos: 1}, {pos: 4}, {pos: 5}}, 3},
		{`"abc`, []lexToken{{pos: 1}}, 1},
		// keywords
		{"or", []lexToken{{text: "or", kind: tokenKeyword, pos: 1}}, 0},
		{"and not", []lexToken{{text: "and", kind: tokenKeyword, pos: 1}, {text: "not", kind: tokenKeyword, pos: 5}}, 0},
		{"in", []lexToken{{text: "in", kind: tokenKeyword, pos: 1}}, 0},
		{"x", []lexToken{{pos: 1}}, 1},
		{"ornot", []lexToken{{pos: 1}}, 1},
		// operators
		{"**", []lexToken{{text: "**", kind: tokenOp, pos: 1}}, 0},
		{"* *", []lexToken{{text: "*", kind: tokenOp, pos: 1}, {text: "*", kind: tokenOp, pos: 3}}, 0},
		{"***", []lexToken{{text: "**", kind: tokenOp, pos: 1}, {text: "*", kind: tokenOp, pos: 3}}, 0},
		{"//", []lexToken{{text: "//", kind: tokenOp, pos: 1}}, 0},
		{"<><=>===", []lexToken{{text: "<>", kind: tokenOp, pos: 1}, {text: "<=", kind: tokenOp, pos: 3}, {text: ">=", kind: tokenOp, pos: 5}, {text: "==", kind: tokenOp, pos: 7}}, 0},
		{"<>", []lexToken{{text: "<>", kind: tokenOp, pos: 1}}, 0},
		{"%", []lexToken{{text: "%", kind: tokenOp, pos: 1}}, 0},
		{"--", []lexToken{{text: "-", kind: tokenOp, pos: 1}, {text: "-", kind: tokenOp, pos: 2}}, 0},
		{"=", []lexToken{{pos: 1}}, 1},
		// brackets
		{"()", []lexToken{{text: "(", kind: tokenOpen, pos: 1}, {text: ")", kind: tokenClose, pos: 2}}, 0},
		{"[]", []lexToken{{text: "[", kind: tokenOpen, pos: 1}, {text: "]", kind: tokenClose, pos: 2}}, 0},
		{"[1,2]", []lexToken{{text: "[", kind: tokenOpen, pos: 1}, {text: "1", kind: tokenInt, pos: 2}, {text: ",", kind: tokenSep, pos: 3}, {text: "2", kind: tokenInt, pos: 4}, {text: "]", kind: tokenClose, pos: 5}}, 0},
		// erroneous symbols
		{"$", []lexToken{{pos: 1}}, 1},
		{"{", []lexToken{{pos: 1}}, 1},
		{"1$", []lexToken{{text: "1", kind: tokenInt, pos: 1}, {pos: 2}}, 1},
		{"$$", []lexToken{{pos: 1}, {pos: 2}}, 2},
	}

	for _, c := range cases {
		scan := lex(strings.NewReader(c.src))
		for _, want := range c.tokens {
			got, err := scan.next()
			if err == io.EOF {
				t.Errorf("scanning %q: expected token %v but got EOF", c.src, want)
				continue
			}
			if got != want {
				t.Errorf("scanning %q: want %v, got %v", c.src, want, got)
			}
			if err != nil {
				if c.errs > 0 {
					c.errs--
					continue
				}
				t.Errorf("scanning %q: unexpected error %v", c.src, err)
			}
		}
		for got, err := scan.next(); err != io.EOF; got, err = scan.next() {
			if got.kind == tokenEOF {
				continue
			}
			if c.errs > 0 {
				c.errs--
			}
			t.Errorf("scanning %q: extra token %v with error: %v", c.src, got, err)
		}
		if c.errs > 0 {
			t.Errorf("scanning %q: not enough errors", c.src)
		}
	}
}
