// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"strconv"
	"strings"

	"nickandperla.net/satukitan/internal/errs"
	"nickandperla.net/satukitan/internal/expr"
	"nickandperla.net/satukitan/internal/token"
)

// Value is a runtime value. The set of implementations is closed:
// Number, Bool, String, List, *Function, *Builtin and Nil.
type Value interface {
	// String returns the display form used by sipus and the REPL.
	String() string
	// TypeName returns the name used in type mismatch errors.
	TypeName() string
	value()
}

// Number is a 64-bit signed integer.
type Number int64

// Bool is a boolean.
type Bool bool

// String is a string.
type String string

// List is an ordered sequence of values.
type List []Value

// Nil is the value of expressions evaluated for effect.
type Nil struct{}

// Function is a closure created by gakasdenu. It is always handled by
// pointer; two closures are equal only if they are the same pointer.
type Function struct {
	Name   string
	Params []string
	Body   []expr.Expr
	Env    *Env // Defining frame, shared, not copied
}

// Builtin is a primitive operation registered in the root frame.
type Builtin struct {
	Name  string
	Arity Arity
	Fn    BuiltinFunc
}

func (Number) value()    {}
func (Bool) value()      {}
func (String) value()    {}
func (List) value()      {}
func (Nil) value()       {}
func (*Function) value() {}
func (*Builtin) value()  {}

func (Number) TypeName() string    { return "number" }
func (Bool) TypeName() string      { return "boolean" }
func (String) TypeName() string    { return "string" }
func (List) TypeName() string      { return "list" }
func (Nil) TypeName() string       { return "nil" }
func (*Function) TypeName() string { return "function" }
func (*Builtin) TypeName() string  { return "builtin" }

func (n Number) String() string { return token.FormatNumber(int64(n)) }
func (b Bool) String() string   { return token.FormatBool(bool(b)) }
func (s String) String() string { return string(s) }
func (Nil) String() string      { return "nil" }

func (l List) String() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (f *Function) String() string {
	return "<lambda (" + strings.Join(f.Params, " ") + ")>"
}

func (b *Builtin) String() string {
	return "<builtin " + b.Name + ">"
}

// ArityKind distinguishes the argument count policies of builtins.
type ArityKind int

const (
	ArityExact ArityKind = iota
	ArityAtLeast
	ArityAny
)

// Arity is the declared argument count policy of a builtin. It describes
// the builtin; each builtin checks its own arguments.
type Arity struct {
	Kind ArityKind
	N    int
}

// Exactly returns an exact-count policy.
func Exactly(n int) Arity { return Arity{Kind: ArityExact, N: n} }

// AtLeast returns a lower-bound policy.
func AtLeast(n int) Arity { return Arity{Kind: ArityAtLeast, N: n} }

// AnyArity accepts any number of arguments.
var AnyArity = Arity{Kind: ArityAny}

// Accepts reports whether n arguments satisfy the policy.
func (a Arity) Accepts(n int) bool {
	switch a.Kind {
	case ArityExact:
		return n == a.N
	case ArityAtLeast:
		return n >= a.N
	}
	return true
}

func (a Arity) String() string {
	switch a.Kind {
	case ArityExact:
		return strconv.Itoa(a.N)
	case ArityAtLeast:
		return ">= " + strconv.Itoa(a.N)
	}
	return "any"
}

// IsNil reports whether v is Nil.
func IsNil(v Value) bool {
	_, ok := v.(Nil)
	return ok
}

// IsCallable reports whether v can be applied.
func IsCallable(v Value) bool {
	switch v.(type) {
	case *Function, *Builtin:
		return true
	}
	return false
}

// AsNumber returns the integer inside v.
func AsNumber(v Value) (int64, error) {
	if n, ok := v.(Number); ok {
		return int64(n), nil
	}
	return 0, errs.TypeMismatch("number", v.TypeName())
}

// AsBool returns the boolean inside v.
func AsBool(v Value) (bool, error) {
	if b, ok := v.(Bool); ok {
		return bool(b), nil
	}
	return false, errs.TypeMismatch("boolean", v.TypeName())
}

// AsList returns the elements of v.
func AsList(v Value) (List, error) {
	if l, ok := v.(List); ok {
		return l, nil
	}
	return nil, errs.TypeMismatch("list", v.TypeName())
}

// Equal is structural equality. Numbers, booleans and strings compare by
// value, lists element-wise, closures by identity and builtins by name.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Number:
		y, ok := b.(Number)
		return ok && x == y
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Nil:
		_, ok := b.(Nil)
		return ok
	case List:
		y, ok := b.(List)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Function:
		y, ok := b.(*Function)
		return ok && x == y
	case *Builtin:
		y, ok := b.(*Builtin)
		return ok && x.Name == y.Name
	}
	return false
}
