// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package eval implements the tree-walking evaluator, the runtime value
// model, scope frames and the builtin library.
//
// Evaluation is synchronous and recursive. There is no tail-call
// elimination: each closure application uses Go stack, and unbounded
// recursion ends the process with a fatal stack overflow.
package eval

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"nickandperla.net/satukitan/internal/errs"
	"nickandperla.net/satukitan/internal/expr"
	"nickandperla.net/satukitan/internal/parser"
	"nickandperla.net/satukitan/internal/token"
)

// OutputWriter writes output (for the sipus builtin).
type OutputWriter func(text string) error

// Evaluator interprets expressions against a root frame holding the
// builtins. It keeps the root frame for the life of the session.
type Evaluator struct {
	root         *Env
	outputWriter OutputWriter
	log          *logrus.Logger
	depth        int // Closure application depth, for tracing
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithOutputWriter sets the output writer for sipus.
func WithOutputWriter(w OutputWriter) Option {
	return func(e *Evaluator) { e.outputWriter = w }
}

// WithOutput sends sipus output to w.
func WithOutput(w io.Writer) Option {
	return func(e *Evaluator) {
		e.outputWriter = func(text string) error {
			_, err := io.WriteString(w, text)
			return err
		}
	}
}

// WithLogger sets the logger used for evaluation traces.
func WithLogger(l *logrus.Logger) Option {
	return func(e *Evaluator) { e.log = l }
}

// New creates an Evaluator with a fresh root frame populated with the
// builtins.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		root: NewEnv(nil),
		log:  logrus.StandardLogger(),
		outputWriter: func(text string) error {
			fmt.Print(text)
			return nil
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	installBuiltins(e.root)
	return e
}

// Root returns the session frame.
func (e *Evaluator) Root() *Env {
	return e.root
}

// EvalSource parses source and evaluates it in the root frame.
func (e *Evaluator) EvalSource(source string) (Value, error) {
	prog, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	return e.EvalProgram(prog, e.root)
}

// EvalProgram evaluates each expression in order and returns the last
// value, or Nil for an empty program. The first failure aborts the rest.
func (e *Evaluator) EvalProgram(prog expr.Program, env *Env) (Value, error) {
	return e.evalBlock(prog, env)
}

// Eval evaluates a single expression in env.
func (e *Evaluator) Eval(x expr.Expr, env *Env) (Value, error) {
	switch x := x.(type) {
	case expr.Number:
		return Number(x.Value), nil
	case expr.Bool:
		return Bool(x.Value), nil
	case expr.String:
		return String(x.Value), nil
	case expr.Symbol:
		v, ok := env.Get(x.Name)
		if !ok {
			return nil, &errs.UndefinedSymbolError{Name: x.Name}
		}
		return v, nil
	case expr.ListLiteral:
		vals, err := e.evalArgs(x.Items, env)
		if err != nil {
			return nil, err
		}
		return List(vals), nil
	case expr.List:
		return e.evalList(x.Items, env)
	case expr.Call:
		return e.evalCall(x, env)
	}
	return nil, errs.Evalf("cannot evaluate %s", expr.Kind(x))
}

// evalList handles a parenthesized form: empty is the empty list, a symbol
// head is an application, anything else is a block.
func (e *Evaluator) evalList(items []expr.Expr, env *Env) (Value, error) {
	if len(items) == 0 {
		return List{}, nil
	}
	if name, ok := expr.SymbolName(items[0]); ok {
		return e.evalApplication(name, items[1:], env, true)
	}
	return e.evalBlock(items, env)
}

func (e *Evaluator) evalCall(c expr.Call, env *Env) (Value, error) {
	if name, ok := expr.SymbolName(c.Callee); ok {
		return e.evalApplication(name, c.Args, env, false)
	}
	callee, err := e.Eval(c.Callee, env)
	if err != nil {
		return nil, err
	}
	args, err := e.evalArgs(c.Args, env)
	if err != nil {
		return nil, err
	}
	return e.Apply(callee, args)
}

// evalApplication applies the operator called name. Special forms are
// matched before any lookup. grouped is set for a parenthesized form, where
// (x) with a non-callable x is just x.
func (e *Evaluator) evalApplication(name string, args []expr.Expr, env *Env, grouped bool) (Value, error) {
	switch name {
	case token.If:
		return e.evalIf(args, env)
	case token.Bind:
		return e.evalBind(args, env)
	case token.DefFunction:
		return e.evalDefFunction(args, env)
	}

	callee, ok := env.Get(name)
	if !ok {
		return nil, &errs.UndefinedSymbolError{Name: name}
	}
	if grouped && len(args) == 0 && !IsCallable(callee) {
		return callee, nil
	}
	vals, err := e.evalArgs(args, env)
	if err != nil {
		return nil, err
	}
	return e.Apply(callee, vals)
}

// evalIf: nobu cond then else. Only the chosen branch is evaluated.
func (e *Evaluator) evalIf(args []expr.Expr, env *Env) (Value, error) {
	if len(args) != 3 {
		return nil, errs.ArityExact(token.If, 3, len(args))
	}
	cond, err := e.Eval(args[0], env)
	if err != nil {
		return nil, err
	}
	b, ok := cond.(Bool)
	if !ok {
		return nil, errs.TypeMismatch("boolean", cond.TypeName())
	}
	if b {
		return e.Eval(args[1], env)
	}
	return e.Eval(args[2], env)
}

// evalBind: gakas name value. Defines in the innermost frame.
func (e *Evaluator) evalBind(args []expr.Expr, env *Env) (Value, error) {
	if len(args) != 2 {
		return nil, errs.ArityExact(token.Bind, 2, len(args))
	}
	name, ok := expr.SymbolName(args[0])
	if !ok {
		return nil, errs.Evalf("%s: first argument must be symbol", token.Bind)
	}
	v, err := e.Eval(args[1], env)
	if err != nil {
		return nil, err
	}
	env.Define(name, v)
	e.log.WithField("name", name).Debug("bind")
	return v, nil
}

// evalDefFunction: gakasdenu name (params...) body.
func (e *Evaluator) evalDefFunction(args []expr.Expr, env *Env) (Value, error) {
	if len(args) != 3 {
		return nil, errs.ArityExact(token.DefFunction, 3, len(args))
	}
	name, ok := expr.SymbolName(args[0])
	if !ok {
		return nil, errs.Evalf("%s: function name must be symbol", token.DefFunction)
	}
	params, err := functionParams(args[1])
	if err != nil {
		return nil, err
	}

	fn := &Function{
		Name:   name,
		Params: params,
		Body:   functionBody(args[2]),
		Env:    env,
	}
	env.Define(name, fn)
	e.log.WithFields(logrus.Fields{"name": name, "params": len(params)}).Debug("define function")
	return fn, nil
}

func functionParams(x expr.Expr) ([]string, error) {
	list, ok := x.(expr.List)
	if !ok {
		return nil, errs.Evalf("%s: second argument must be parameter list", token.DefFunction)
	}
	params := make([]string, 0, len(list.Items))
	for _, item := range list.Items {
		name, ok := expr.SymbolName(item)
		if !ok {
			return nil, errs.Evalf("%s: parameter list must contain symbols only", token.DefFunction)
		}
		params = append(params, name)
	}
	return params, nil
}

// functionBody normalizes a body to a statement list: a parenthesized list
// made only of lists is the statement list itself, anything else is a
// single statement.
func functionBody(x expr.Expr) []expr.Expr {
	list, ok := x.(expr.List)
	if !ok {
		return []expr.Expr{x}
	}
	for _, item := range list.Items {
		if _, ok := item.(expr.List); !ok {
			return []expr.Expr{x}
		}
	}
	return list.Items
}

func (e *Evaluator) evalBlock(items []expr.Expr, env *Env) (Value, error) {
	var last Value = Nil{}
	for _, item := range items {
		v, err := e.Eval(item, env)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

func (e *Evaluator) evalArgs(args []expr.Expr, env *Env) ([]Value, error) {
	vals := make([]Value, 0, len(args))
	for _, arg := range args {
		v, err := e.Eval(arg, env)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// Apply calls a builtin or closure with already evaluated arguments.
func (e *Evaluator) Apply(callee Value, args []Value) (Value, error) {
	switch fn := callee.(type) {
	case *Builtin:
		return fn.Fn(e, args)
	case *Function:
		return e.applyFunction(fn, args)
	}
	return nil, errs.Evalf("attempted to call non-callable value of type %s", callee.TypeName())
}

func (e *Evaluator) applyFunction(fn *Function, args []Value) (Value, error) {
	if len(fn.Params) != len(args) {
		return nil, errs.ArityExact("lambda", len(fn.Params), len(args))
	}

	frame := NewEnv(fn.Env)
	for i, param := range fn.Params {
		frame.Define(param, args[i])
	}

	e.depth++
	defer func() { e.depth-- }()
	if e.log.IsLevelEnabled(logrus.TraceLevel) {
		e.log.WithFields(logrus.Fields{"fn": fn.Name, "args": len(args), "depth": e.depth}).Trace("apply")
	}
	return e.evalBlock(fn.Body, frame)
}
