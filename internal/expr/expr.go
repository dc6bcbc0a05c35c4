// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package expr defines the expression tree produced by the parser.
package expr

import (
	"strings"

	"nickandperla.net/satukitan/internal/token"
)

// Expr is the interface all expression types implement. The set of
// implementations is closed.
type Expr interface {
	// String returns the source form of the expression.
	String() string
	expr()
}

// Program is an ordered sequence of top-level expressions.
type Program []Expr

// Number is an integer literal, written as a numeral word.
type Number struct {
	Value int64
}

// Bool is a boolean literal (me / ga).
type Bool struct {
	Value bool
}

// String is a double-quoted string literal.
type String struct {
	Value string
}

// Symbol is a bare identifier.
type Symbol struct {
	Name string
}

// List is a parenthesized form: an application when its head is a symbol,
// a block otherwise.
type List struct {
	Items []Expr
}

// ListLiteral is a bracketed form that always evaluates to a list value.
type ListLiteral struct {
	Items []Expr
}

// Call is a whitespace-juxtaposed application: callee arg arg ...
type Call struct {
	Callee Expr
	Args   []Expr
}

func (Number) expr()      {}
func (Bool) expr()        {}
func (String) expr()      {}
func (Symbol) expr()      {}
func (List) expr()        {}
func (ListLiteral) expr() {}
func (Call) expr()        {}

func (n Number) String() string { return token.FormatNumber(n.Value) }
func (b Bool) String() string   { return token.FormatBool(b.Value) }
func (s Symbol) String() string { return s.Name }

func (s String) String() string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s.Value {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func (l List) String() string        { return "(" + join(l.Items) + ")" }
func (l ListLiteral) String() string { return "[" + join(l.Items) + "]" }

func (c Call) String() string {
	if len(c.Args) == 0 {
		return c.Callee.String()
	}
	return c.Callee.String() + " " + join(c.Args)
}

func join(items []Expr) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return strings.Join(parts, " ")
}

// SymbolName returns the name if e is a Symbol.
func SymbolName(e Expr) (string, bool) {
	if s, ok := e.(Symbol); ok {
		return s.Name, true
	}
	return "", false
}

// Items returns the elements of a List or ListLiteral.
func Items(e Expr) ([]Expr, bool) {
	switch v := e.(type) {
	case List:
		return v.Items, true
	case ListLiteral:
		return v.Items, true
	}
	return nil, false
}

// Kind returns a short name for the expression type, used in diagnostics.
func Kind(e Expr) string {
	switch e.(type) {
	case Number:
		return "number"
	case Bool:
		return "boolean"
	case String:
		return "string"
	case Symbol:
		return "symbol"
	case List:
		return "list"
	case ListLiteral:
		return "list literal"
	case Call:
		return "call"
	}
	return "unknown"
}
