// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package parser turns source text into an expression tree.
//
// Comments are stripped line by line first, then a recursive-descent pass
// reads the whole input. Parsing is all-or-nothing: any failure aborts the
// parse and no partial program is returned.
package parser

import (
	"errors"
	"strings"
	"unicode/utf8"

	"nickandperla.net/satukitan/internal/errs"
	"nickandperla.net/satukitan/internal/expr"
	"nickandperla.net/satukitan/internal/scanner"
	"nickandperla.net/satukitan/internal/token"
)

// snippetLen is the number of runes of unconsumed input quoted in errors.
const snippetLen = 20

// errNoMatch signals that a rule did not match. It never escapes the
// package; the rule that gave up has restored the scanner position.
var errNoMatch = errors.New("no match")

type parser struct {
	s *scanner.Scanner
}

// Parse parses a whole program.
func Parse(source string) (expr.Program, error) {
	p := &parser{s: scanner.New(scanner.StripComments(source))}
	return p.program()
}

// ParseExpr parses exactly one expression, optionally surrounded by
// whitespace.
func ParseExpr(source string) (expr.Expr, error) {
	p := &parser{s: scanner.New(scanner.StripComments(source))}
	p.s.Multispace()
	e, err := p.expr()
	if err != nil {
		return nil, p.fail(err)
	}
	p.s.Multispace()
	if !p.s.EOF() {
		return nil, p.errorAt(p.s.Pos())
	}
	return e, nil
}

func (p *parser) program() (expr.Program, error) {
	var prog expr.Program
	p.s.Multispace()
	for !p.s.EOF() {
		e, err := p.expr()
		if err != nil {
			return nil, p.fail(err)
		}
		prog = append(prog, e)
		p.s.Multispace()
	}
	return prog, nil
}

// fail converts a rule result into the error reported to callers.
func (p *parser) fail(err error) error {
	if err == errNoMatch {
		return p.errorAt(p.s.Pos())
	}
	return err
}

func (p *parser) errorAt(pos int) error {
	return &errs.ParseError{Msg: "unexpected token", Near: snippet(p.s.Source(), pos)}
}

func snippet(src string, pos int) string {
	if pos >= len(src) {
		return "<end>"
	}
	rest := src[pos:]
	end := len(rest)
	for i, n := 0, 0; i < len(rest); n++ {
		if n == snippetLen {
			end = i
			break
		}
		_, size := utf8.DecodeRuneInString(rest[i:])
		i += size
	}
	if pos == 0 {
		return rest[:end]
	}
	return "…" + rest[:end]
}

// expr := list_literal | paren_list | string | number_word | bool_word | call_or_symbol
func (p *parser) expr() (expr.Expr, error) {
	return p.first(p.listLiteral, p.parenList, p.stringLit, p.numberWord, p.boolWord, p.callOrSymbol)
}

// argument := list_literal | paren_list | string | number_word | bool_word | symbol
func (p *parser) argument() (expr.Expr, error) {
	return p.first(p.listLiteral, p.parenList, p.stringLit, p.numberWord, p.boolWord, p.symbol)
}

// first returns the result of the first rule that matches. Hard failures
// stop the search.
func (p *parser) first(rules ...func() (expr.Expr, error)) (expr.Expr, error) {
	for _, rule := range rules {
		e, err := rule()
		if err == errNoMatch {
			continue
		}
		return e, err
	}
	return nil, errNoMatch
}

func (p *parser) listLiteral() (expr.Expr, error) {
	items, err := p.delimited('[', ']')
	if err != nil {
		return nil, err
	}
	return expr.ListLiteral{Items: items}, nil
}

func (p *parser) parenList() (expr.Expr, error) {
	items, err := p.delimited('(', ')')
	if err != nil {
		return nil, err
	}
	return expr.List{Items: items}, nil
}

// delimited reads open (argument (ws+ argument)*)? ws* close. Inside the
// delimiters newlines count as whitespace. Once open is consumed a missing
// closer is a hard failure.
func (p *parser) delimited(open, close byte) ([]expr.Expr, error) {
	if !p.s.Accept(open) {
		return nil, errNoMatch
	}

	var items []expr.Expr
	mark := p.s.Pos()
	p.s.Multispace()
	item, err := p.argument()
	switch {
	case err == errNoMatch:
		p.s.Reset(mark)
	case err != nil:
		return nil, err
	default:
		items = append(items, item)
		for {
			mark = p.s.Pos()
			if p.s.Multispace() == 0 {
				break
			}
			next, err := p.argument()
			if err == errNoMatch {
				p.s.Reset(mark)
				break
			}
			if err != nil {
				return nil, err
			}
			items = append(items, next)
		}
	}

	p.s.Multispace()
	if !p.s.Accept(close) {
		return nil, p.errorAt(p.s.Pos())
	}
	return items, nil
}

// stringLit reads a double-quoted string on a single line. Unknown escapes
// and unterminated strings do not match.
func (p *parser) stringLit() (expr.Expr, error) {
	if p.s.Peek() != '"' {
		return nil, errNoMatch
	}
	src := p.s.Source()
	var sb strings.Builder
	for i := p.s.Pos() + 1; i < len(src); i++ {
		switch c := src[i]; c {
		case '"':
			p.s.Reset(i + 1)
			return expr.String{Value: sb.String()}, nil
		case '\n':
			return nil, errNoMatch
		case '\\':
			if i+1 >= len(src) {
				return nil, errNoMatch
			}
			i++
			switch src[i] {
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				return nil, errNoMatch
			}
		default:
			sb.WriteByte(c)
		}
	}
	return nil, errNoMatch
}

func (p *parser) numberWord() (expr.Expr, error) {
	mark := p.s.Pos()
	ident, ok := p.s.Identifier()
	if !ok {
		return nil, errNoMatch
	}
	if n, ok := token.Numeral(ident); ok {
		return expr.Number{Value: n}, nil
	}
	p.s.Reset(mark)
	return nil, errNoMatch
}

func (p *parser) boolWord() (expr.Expr, error) {
	mark := p.s.Pos()
	ident, ok := p.s.Identifier()
	if !ok {
		return nil, errNoMatch
	}
	if b, ok := token.Boolean(ident); ok {
		return expr.Bool{Value: b}, nil
	}
	p.s.Reset(mark)
	return nil, errNoMatch
}

func (p *parser) symbol() (expr.Expr, error) {
	ident, ok := p.s.Identifier()
	if !ok {
		return nil, errNoMatch
	}
	return expr.Symbol{Name: ident}, nil
}

// callOrSymbol reads an identifier followed by arguments separated by
// inline whitespace. Arguments are taken while they match, so a newline or
// an unparseable token ends the run.
func (p *parser) callOrSymbol() (expr.Expr, error) {
	ident, ok := p.s.Identifier()
	if !ok {
		return nil, errNoMatch
	}

	var args []expr.Expr
	for {
		mark := p.s.Pos()
		if p.s.InlineSpace() == 0 {
			break
		}
		arg, err := p.argument()
		if err == errNoMatch {
			p.s.Reset(mark)
			break
		}
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	if len(args) == 0 {
		return expr.Symbol{Name: ident}, nil
	}
	return expr.Call{Callee: expr.Symbol{Name: ident}, Args: args}, nil
}
