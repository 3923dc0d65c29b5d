package linecalc

import (
	"strconv"

	"github.com/pkg/errors"
)

// ErrSyntax matches every error resulting from input that does not conform to
// the grammar.
var ErrSyntax = errors.New("syntax error")

// TokenError is an error indicating a token where the grammar does not allow
// it. It implements InputError.
type TokenError struct {
	// Col is the position of the token.
	Col int
	// Token is the unexpected token text.
	Token string
	// Want describes what the parser expected instead.
	Want string
}

func (err *TokenError) Error() string {
	return errpos(err.Col, "unexpected "+strconv.Quote(err.Token)+", want "+err.Want)
}

func (err *TokenError) Pos() int {
	return err.Col
}

func (err *TokenError) Is(target error) bool {
	return target == ErrSyntax
}

// BracketError is an error indicating mismatched brackets in the
// input. It implements InputError.
type BracketError struct {
	// Col is the position of the offending token.
	Col int
	// Left is the opening bracket.
	Left string
	// Right is the mismatched closing token, or the empty string at the end
	// of input.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	if err.Right == "" {
		return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
	}
	return errpos(err.Col, "mismatched bracket: "+err.Left+"expr"+err.Right)
}

func (err *BracketError) Pos() int {
	return err.Col
}

func (err *BracketError) Is(target error) bool {
	return target == ErrSyntax
}

// EmptyExpressionError is an error indicating an empty subexpression.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "no expression at end")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

func (err *EmptyExpressionError) Is(target error) bool {
	return target == ErrSyntax
}

// TrailingInputError is an error indicating input left over after a complete
// expression.
type TrailingInputError struct {
	// Col is the position of the first unconsumed token.
	Col int
	// Token is the first unconsumed token.
	Token string
}

func (err *TrailingInputError) Error() string {
	return errpos(err.Col, "unexpected "+strconv.Quote(err.Token)+" after expression")
}

func (err *TrailingInputError) Pos() int {
	return err.Col
}

func (err *TrailingInputError) Is(target error) bool {
	return target == ErrSyntax
}

// DepthError is an error indicating an expression nested more deeply than the
// limit set with MaxDepth.
type DepthError struct {
	// Col is the position of the token that exceeded the limit.
	Col int
	// Max is the limit.
	Max int
}

func (err *DepthError) Error() string {
	return errpos(err.Col, "expression nested deeper than "+strconv.Itoa(err.Max))
}

func (err *DepthError) Pos() int {
	return err.Col
}

func (err *DepthError) Is(target error) bool {
	return target == ErrSyntax
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*TokenError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*TrailingInputError)(nil)
	_ InputError = (*DepthError)(nil)
	_ InputError = (*LexError)(nil)
)
