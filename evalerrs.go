package linecalc

import (
	"strconv"

	"github.com/pkg/errors"
)

// ErrSemantic matches every error resulting from evaluating a well-formed
// expression.
var ErrSemantic = errors.New("semantic error")

// TypeError is an error indicating an operator applied to operands of kinds
// it does not accept.
type TypeError struct {
	// Op is the operator.
	Op string
	// Left is the kind of the left operand, or the only operand of a unary
	// operator.
	Left Kind
	// Right is the kind of the right operand. It is KindNone for unary
	// operators.
	Right Kind
}

func (err *TypeError) Error() string {
	if err.Right == KindNone {
		return "unsupported operand for " + strconv.Quote(err.Op) + ": " + err.Left.String()
	}
	return "unsupported operands for " + strconv.Quote(err.Op) + ": " + err.Left.String() + " and " + err.Right.String()
}

func (err *TypeError) Operator() string {
	return err.Op
}

func (err *TypeError) Is(target error) bool {
	return target == ErrSemantic
}

// IndexError is an error indicating a subscript outside a sequence or text.
type IndexError struct {
	// Index is the subscript in decimal.
	Index string
	// Len is the length of the indexed value.
	Len int
}

func (err *IndexError) Error() string {
	return "index " + err.Index + " out of range for length " + strconv.Itoa(err.Len)
}

func (err *IndexError) Operator() string {
	return "[]"
}

func (err *IndexError) Is(target error) bool {
	return target == ErrSemantic
}

// ZeroDivisionError is an error indicating a division or modulus by zero, or
// zero raised to a negative power.
type ZeroDivisionError struct {
	// Op is the operator.
	Op string
}

func (err *ZeroDivisionError) Error() string {
	return "division by zero in " + strconv.Quote(err.Op)
}

func (err *ZeroDivisionError) Operator() string {
	return err.Op
}

func (err *ZeroDivisionError) Is(target error) bool {
	return target == ErrSemantic
}

// OverflowError is an error indicating a result too large to represent: an
// integer larger than the context's MaxBits, or an integer too large to
// convert to a real.
type OverflowError struct {
	// Op is the operator.
	Op string
	// Bits is the size of the result, or of the integer that could not be
	// converted, in bits.
	Bits int
}

func (err *OverflowError) Error() string {
	return "result of " + strconv.Quote(err.Op) + " too large (" + strconv.Itoa(err.Bits) + " bits)"
}

func (err *OverflowError) Operator() string {
	return err.Op
}

func (err *OverflowError) Is(target error) bool {
	return target == ErrSemantic
}

// EvalError is an error from evaluating an expression. Every error resulting
// from evaluation implements EvalError.
type EvalError interface {
	error
	// Operator returns the spelling of the operator that failed.
	Operator() string
}

var (
	_ EvalError = (*TypeError)(nil)
	_ EvalError = (*IndexError)(nil)
	_ EvalError = (*ZeroDivisionError)(nil)
	_ EvalError = (*OverflowError)(nil)
)
