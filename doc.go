// Package linecalc parses and evaluates one-line expressions over integers,
// reals, strings, and lists.
//
// Integers have arbitrary precision. Arithmetic follows floor semantics, so
// "(0-7) // 2" is -4. The boolean operators work on integers and produce 1 or
// 0. Every binary operator is left-associative, including "**": "2**3**2" is
// "(2**3)**2". The "not" keyword applies to the entire expression following
// it, so "not 1 and 0" is "not (1 and 0)".
//
// Lists hold their elements unevaluated. An element is evaluated each time an
// operation needs it, so "[1, 1/0][0]" is 1, but "[1, 1/0][1]" is an error.
//
// A line is either a value, a syntax error, or a semantic error. Every error
// from Parse implements InputError and matches ErrSyntax; every error from
// evaluation implements EvalError and matches ErrSemantic.
package linecalc
