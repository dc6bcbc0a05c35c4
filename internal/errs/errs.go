// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package errs defines the failure kinds shared by the parser, the
// evaluator, the builtins and the runtime.
package errs

import (
	"fmt"
	"strconv"
)

// ParseError reports input the grammar could not consume.
type ParseError struct {
	Msg  string
	Near string // Snippet of the unconsumed input, or "<end>"
}

func (e *ParseError) Error() string {
	if e.Near == "" {
		return "parse error: " + e.Msg
	}
	return fmt.Sprintf("parse error: %s near '%s'", e.Msg, e.Near)
}

// EvalError is the general-purpose evaluation failure: malformed special
// forms, calls on non-callable values, overflow.
type EvalError struct {
	Msg string
}

func (e *EvalError) Error() string {
	return "evaluation error: " + e.Msg
}

// Evalf builds an EvalError from a format string.
func Evalf(format string, args ...any) error {
	return &EvalError{Msg: fmt.Sprintf(format, args...)}
}

// TypeMismatchError reports a value of the wrong runtime kind.
// Op names the builtin that rejected the value; it is empty for
// special forms.
type TypeMismatchError struct {
	Op       string
	Expected string
	Found    string
}

func (e *TypeMismatchError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("type mismatch: expected %s, found %s", e.Expected, e.Found)
	}
	return fmt.Sprintf("type mismatch in %s: expected %s, found %s", e.Op, e.Expected, e.Found)
}

// TypeMismatch returns a TypeMismatchError without an operator.
func TypeMismatch(expected, found string) error {
	return &TypeMismatchError{Expected: expected, Found: found}
}

// UndefinedSymbolError reports a name missing from the whole scope chain.
type UndefinedSymbolError struct {
	Name string
}

func (e *UndefinedSymbolError) Error() string {
	return "undefined symbol: " + e.Name
}

// ArityError reports a wrong argument count. Expected is either an exact
// count ("2") or a lower bound (">= 2").
type ArityError struct {
	Name     string
	Expected string
	Found    int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("arity mismatch in %s: expected %s, found %d", e.Name, e.Expected, e.Found)
}

// ArityExact returns an ArityError for an exact count.
func ArityExact(name string, expected, found int) error {
	return &ArityError{Name: name, Expected: strconv.Itoa(expected), Found: found}
}

// ArityAtLeast returns an ArityError for a lower bound.
func ArityAtLeast(name string, expected, found int) error {
	return &ArityError{Name: name, Expected: ">= " + strconv.Itoa(expected), Found: found}
}

// IOError wraps a file access problem hit while loading source.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error: %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
