// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"math"
	"slices"
	"strings"

	"nickandperla.net/satukitan/internal/errs"
)

// BuiltinFunc is the signature for builtin functions. Arguments are
// already evaluated; each builtin validates its own count and types.
type BuiltinFunc func(e *Evaluator, args []Value) (Value, error)

// builtins is the fixed primitive table, installed into every root frame.
var builtins = []*Builtin{
	{Name: "ritas", Arity: AtLeast(2), Fn: builtinAdd},
	{Name: "matyes", Arity: AtLeast(2), Fn: builtinSub},
	{Name: "nitas", Arity: AtLeast(2), Fn: builtinMul},
	{Name: "teses", Arity: AtLeast(2), Fn: builtinAnd},
	{Name: "kenus", Arity: AtLeast(2), Fn: builtinOr},
	{Name: "ditas", Arity: Exactly(2), Fn: builtinLt},
	{Name: "fityes", Arity: Exactly(2), Fn: builtinGt},
	{Name: "gatas", Arity: AtLeast(2), Fn: builtinEq},
	{Name: "ditasgata", Arity: Exactly(2), Fn: builtinLe},
	{Name: "fityesgata", Arity: Exactly(2), Fn: builtinGe},
	{Name: "fanitas", Arity: Exactly(1), Fn: builtinSort},
	{Name: "rakas", Arity: Exactly(1), Fn: builtinLength},
	{Name: "sipus", Arity: AnyArity, Fn: builtinPrint},
}

// Builtins returns the builtin table in registration order.
func Builtins() []*Builtin {
	return slices.Clone(builtins)
}

func installBuiltins(env *Env) {
	for _, b := range builtins {
		env.Define(b.Name, b)
	}
}

func builtinAdd(e *Evaluator, args []Value) (Value, error) {
	const name = "ritas"
	if err := ensureAtLeast(name, args, 2); err != nil {
		return nil, err
	}
	var sum int64
	for _, v := range args {
		n, err := expectNumber(name, v)
		if err != nil {
			return nil, err
		}
		var ok bool
		if sum, ok = checkedAdd(sum, n); !ok {
			return nil, overflow(name)
		}
	}
	return Number(sum), nil
}

func builtinSub(e *Evaluator, args []Value) (Value, error) {
	const name = "matyes"
	if err := ensureAtLeast(name, args, 2); err != nil {
		return nil, err
	}
	result, err := expectNumber(name, args[0])
	if err != nil {
		return nil, err
	}
	for _, v := range args[1:] {
		n, err := expectNumber(name, v)
		if err != nil {
			return nil, err
		}
		var ok bool
		if result, ok = checkedSub(result, n); !ok {
			return nil, overflow(name)
		}
	}
	return Number(result), nil
}

func builtinMul(e *Evaluator, args []Value) (Value, error) {
	const name = "nitas"
	if err := ensureAtLeast(name, args, 2); err != nil {
		return nil, err
	}
	product := int64(1)
	for _, v := range args {
		n, err := expectNumber(name, v)
		if err != nil {
			return nil, err
		}
		var ok bool
		if product, ok = checkedMul(product, n); !ok {
			return nil, overflow(name)
		}
	}
	return Number(product), nil
}

func builtinAnd(e *Evaluator, args []Value) (Value, error) {
	const name = "teses"
	if err := ensureAtLeast(name, args, 2); err != nil {
		return nil, err
	}
	result := true
	for _, v := range args {
		b, err := expectBool(name, v)
		if err != nil {
			return nil, err
		}
		result = result && b
	}
	return Bool(result), nil
}

func builtinOr(e *Evaluator, args []Value) (Value, error) {
	const name = "kenus"
	if err := ensureAtLeast(name, args, 2); err != nil {
		return nil, err
	}
	result := false
	for _, v := range args {
		b, err := expectBool(name, v)
		if err != nil {
			return nil, err
		}
		result = result || b
	}
	return Bool(result), nil
}

func builtinLt(e *Evaluator, args []Value) (Value, error) {
	return compare("ditas", args, func(a, b int64) bool { return a < b })
}

func builtinGt(e *Evaluator, args []Value) (Value, error) {
	return compare("fityes", args, func(a, b int64) bool { return a > b })
}

func builtinLe(e *Evaluator, args []Value) (Value, error) {
	return compare("ditasgata", args, func(a, b int64) bool { return a <= b })
}

func builtinGe(e *Evaluator, args []Value) (Value, error) {
	return compare("fityesgata", args, func(a, b int64) bool { return a >= b })
}

func compare(name string, args []Value, cmp func(a, b int64) bool) (Value, error) {
	if err := ensureExact(name, args, 2); err != nil {
		return nil, err
	}
	a, err := expectNumber(name, args[0])
	if err != nil {
		return nil, err
	}
	b, err := expectNumber(name, args[1])
	if err != nil {
		return nil, err
	}
	return Bool(cmp(a, b)), nil
}

func builtinEq(e *Evaluator, args []Value) (Value, error) {
	if err := ensureAtLeast("gatas", args, 2); err != nil {
		return nil, err
	}
	for _, v := range args[1:] {
		if !Equal(args[0], v) {
			return Bool(false), nil
		}
	}
	return Bool(true), nil
}

func builtinSort(e *Evaluator, args []Value) (Value, error) {
	const name = "fanitas"
	if err := ensureExact(name, args, 1); err != nil {
		return nil, err
	}
	items, err := expectList(name, args[0])
	if err != nil {
		return nil, err
	}
	numbers := make([]int64, len(items))
	for i, v := range items {
		if numbers[i], err = expectNumber(name, v); err != nil {
			return nil, err
		}
	}
	slices.Sort(numbers)
	sorted := make(List, len(numbers))
	for i, n := range numbers {
		sorted[i] = Number(n)
	}
	return sorted, nil
}

func builtinLength(e *Evaluator, args []Value) (Value, error) {
	const name = "rakas"
	if err := ensureExact(name, args, 1); err != nil {
		return nil, err
	}
	items, err := expectList(name, args[0])
	if err != nil {
		return nil, err
	}
	return Number(len(items)), nil
}

// builtinPrint writes its arguments space-joined plus a newline. It is the
// only builtin with a side effect.
func builtinPrint(e *Evaluator, args []Value) (Value, error) {
	parts := make([]string, len(args))
	for i, v := range args {
		parts[i] = v.String()
	}
	if e.outputWriter != nil {
		if err := e.outputWriter(strings.Join(parts, " ") + "\n"); err != nil {
			return nil, errs.Evalf("sipus: %v", err)
		}
	}
	return Nil{}, nil
}

func ensureExact(name string, args []Value, n int) error {
	if len(args) != n {
		return errs.ArityExact(name, n, len(args))
	}
	return nil
}

func ensureAtLeast(name string, args []Value, n int) error {
	if len(args) < n {
		return errs.ArityAtLeast(name, n, len(args))
	}
	return nil
}

func expectNumber(name string, v Value) (int64, error) {
	if n, ok := v.(Number); ok {
		return int64(n), nil
	}
	return 0, &errs.TypeMismatchError{Op: name, Expected: "number", Found: v.TypeName()}
}

func expectBool(name string, v Value) (bool, error) {
	if b, ok := v.(Bool); ok {
		return bool(b), nil
	}
	return false, &errs.TypeMismatchError{Op: name, Expected: "boolean", Found: v.TypeName()}
}

func expectList(name string, v Value) (List, error) {
	if l, ok := v.(List); ok {
		return l, nil
	}
	return nil, &errs.TypeMismatchError{Op: name, Expected: "list", Found: v.TypeName()}
}

func overflow(name string) error {
	return errs.Evalf("%s: integer overflow", name)
}

func checkedAdd(a, b int64) (int64, bool) {
	s := a + b
	return s, (s > a) == (b > 0)
}

func checkedSub(a, b int64) (int64, bool) {
	d := a - b
	return d, (d < a) == (b > 0)
}

func checkedMul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	p := a * b
	return p, p/b == a
}
