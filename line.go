package linecalc

import (
	"strconv"

	"github.com/pkg/errors"
)

// Status tells which of the three outcomes a line produced.
type Status int8

const (
	// StatusValue means the line evaluated to a value.
	StatusValue Status = iota
	// StatusSyntaxError means the line does not conform to the grammar.
	StatusSyntaxError
	// StatusSemanticError means the line parsed but violated a type rule,
	// indexed out of range, or divided by zero.
	StatusSemanticError
)

func (s Status) String() string {
	switch s {
	case StatusValue:
		return "value"
	case StatusSyntaxError:
		return "SYNTAX ERROR"
	case StatusSemanticError:
		return "SEMANTIC ERROR"
	default:
		return "Status(" + strconv.Itoa(int(s)) + ")"
	}
}

// Result is the outcome of evaluating one line.
type Result struct {
	// Status is the kind of outcome.
	Status Status
	// Value is the line's value when Status is StatusValue, otherwise nil.
	Value Value
	// Err is the error when Status is not StatusValue, otherwise nil.
	Err error
}

// String returns the value's representation or the error label.
func (r Result) String() string {
	if r.Status == StatusValue {
		return r.Value.String()
	}
	return r.Status.String()
}

// EvalLine parses and evaluates one line. Line terminators are whitespace, so
// the line may include them. Lines are independent: nothing from one call
// affects another.
func (ctx *Context) EvalLine(line string, opts ...ParseOption) Result {
	e, err := ParseString(line, opts...)
	if err != nil {
		return classify(err)
	}
	v, err := ctx.Eval(e)
	if err != nil {
		return classify(err)
	}
	return Result{Status: StatusValue, Value: v}
}

// EvalLine is a shortcut to evaluate a line with the default context.
func EvalLine(line string, opts ...ParseOption) Result {
	return defaultContext.EvalLine(line, opts...)
}

func classify(err error) Result {
	switch {
	case errors.Is(err, ErrSyntax):
		return Result{Status: StatusSyntaxError, Err: err}
	case errors.Is(err, ErrSemantic):
		return Result{Status: StatusSemanticError, Err: err}
	default:
		// Reading from a string never fails, and every parse and evaluation
		// error belongs to one of the two categories.
		panic("linecalc: unclassified error: " + err.Error())
	}
}
