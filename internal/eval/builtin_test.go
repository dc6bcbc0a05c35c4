// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"

	"nickandperla.net/satukitan/internal/errs"
)

func callBuiltin(t *testing.T, e *Evaluator, name string, args ...Value) (Value, error) {
	t.Helper()
	v, ok := e.Root().Get(name)
	if !ok {
		t.Fatalf("builtin %s is not installed", name)
	}
	return e.Apply(v, args)
}

func nums(ns ...int64) List {
	l := make(List, len(ns))
	for i, n := range ns {
		l[i] = Number(n)
	}
	return l
}

func TestBuiltinResults(t *testing.T) {
	e, _ := newTestEvaluator()
	tests := []struct {
		input string
		want  string
	}{
		{"ritas ra ru", "ro"},
		{"ritas ru ru ru ru", "re"},
		{"matyes #ta ra ru", "ryu"},
		{"matyes ru ro", "-2"},
		{"nitas ra ro", "rya"},
		{"nitas ra ro ra", "12"},
		{"teses me me", "me"},
		{"teses me me ga", "ga"},
		{"kenus ga ga", "ga"},
		{"kenus ga me ga", "me"},
		{"ditas ru ra", "me"},
		{"ditas ra ra", "ga"},
		{"fityes ro ra", "me"},
		{"ditasgata ra ra", "me"},
		{"fityesgata ru ra", "ga"},
		{"gatas ra ra ra", "me"},
		{"gatas ra ra ru", "ga"},
		{"gatas [ru [ra]] [ru [ra]]", "me"},
		{"gatas \"a\" \"a\"", "me"},
		{"gatas ra \"ra\"", "ga"},
		{"gatas ritas ritas", "me"},
		{"gatas ritas matyes", "ga"},
		{"fanitas [ro ra ru]", "[ru ra ro]"},
		{"fanitas []", "[]"},
		{"rakas [ro ra ru]", "ro"},
		{"rakas []", "rv"},
	}
	for _, tt := range tests {
		got := mustEvalSource(t, e, tt.input)
		if got.String() != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.input, tt.want, got)
		}
	}
}

func TestBuiltinArityViolations(t *testing.T) {
	e, _ := newTestEvaluator()
	for _, b := range Builtins() {
		if b.Arity.Kind == ArityAny {
			continue
		}
		// One below the minimum, and one above for exact policies.
		counts := []int{b.Arity.N - 1}
		if b.Arity.Kind == ArityExact {
			counts = append(counts, b.Arity.N+1)
		}
		for _, n := range counts {
			args := make([]Value, n)
			for i := range args {
				args[i] = Number(1)
			}
			_, err := e.Apply(b, args)
			var ae *errs.ArityError
			if !errors.As(err, &ae) {
				t.Errorf("%s with %d args: expected ArityError, got %v", b.Name, n, err)
				continue
			}
			if ae.Name != b.Name {
				t.Errorf("%s: arity error names %q", b.Name, ae.Name)
			}
			if ae.Expected != b.Arity.String() {
				t.Errorf("%s: expected descriptor %q, got %q", b.Name, b.Arity.String(), ae.Expected)
			}
			if ae.Found != n {
				t.Errorf("%s: expected found=%d, got %d", b.Name, n, ae.Found)
			}
		}
	}
}

func TestBuiltinTypeMismatch(t *testing.T) {
	e, _ := newTestEvaluator()
	tests := []struct {
		input    string
		op       string
		expected string
		found    string
	}{
		{"ritas ru me", "ritas", "number", "boolean"},
		{"matyes \"x\" ru", "matyes", "number", "string"},
		{"nitas ru [ru]", "nitas", "number", "list"},
		{"teses me ru", "teses", "boolean", "number"},
		{"kenus ga ritas", "kenus", "boolean", "builtin"},
		{"ditas ru me", "ditas", "number", "boolean"},
		{"fityes me ru", "fityes", "number", "boolean"},
		{"ditasgata ru \"a\"", "ditasgata", "number", "string"},
		{"fityesgata [] ru", "fityesgata", "number", "list"},
		{"fanitas ru", "fanitas", "list", "number"},
		{"fanitas [ru me]", "fanitas", "number", "boolean"},
		{"rakas \"abc\"", "rakas", "list", "string"},
	}
	for _, tt := range tests {
		_, err := e.EvalSource(tt.input)
		var tm *errs.TypeMismatchError
		if !errors.As(err, &tm) {
			t.Errorf("%s: expected TypeMismatchError, got %v", tt.input, err)
			continue
		}
		if tm.Op != tt.op || tm.Expected != tt.expected || tm.Found != tt.found {
			t.Errorf("%s: got %+v", tt.input, tm)
		}
		want := "expected " + tt.expected + ", found " + tt.found
		if !strings.Contains(err.Error(), want) {
			t.Errorf("%s: message %q does not contain %q", tt.input, err.Error(), want)
		}
	}
}

func TestBuiltinOverflow(t *testing.T) {
	e, _ := newTestEvaluator()
	tests := []struct {
		name string
		args []Value
	}{
		{"ritas", []Value{Number(math.MaxInt64), Number(1)}},
		{"matyes", []Value{Number(math.MinInt64), Number(1)}},
		{"nitas", []Value{Number(math.MaxInt64), Number(2)}},
		{"nitas", []Value{Number(math.MinInt64), Number(-1)}},
	}
	for _, tt := range tests {
		_, err := callBuiltin(t, e, tt.name, tt.args...)
		var ee *errs.EvalError
		if !errors.As(err, &ee) || !strings.Contains(ee.Msg, "integer overflow") {
			t.Errorf("%s %v: expected overflow error, got %v", tt.name, tt.args, err)
		}
	}

	v, err := callBuiltin(t, e, "ritas", Number(math.MaxInt64), Number(-1), Number(1))
	if err != nil || !Equal(v, Number(math.MaxInt64)) {
		t.Errorf("expected in-range sum, got %v (%v)", v, err)
	}
	v, err = callBuiltin(t, e, "nitas", Number(math.MinInt64), Number(1))
	if err != nil || !Equal(v, Number(math.MinInt64)) {
		t.Errorf("expected MinInt64, got %v (%v)", v, err)
	}
}

func TestSortProperties(t *testing.T) {
	e, _ := newTestEvaluator()
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		in := make(List, rng.Intn(20))
		for j := range in {
			in[j] = Number(rng.Int63n(200) - 100)
		}
		once, err := callBuiltin(t, e, "fanitas", in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		twice, err := callBuiltin(t, e, "fanitas", once)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !Equal(once, twice) {
			t.Fatalf("sort is not idempotent: %s vs %s", once, twice)
		}
		sorted := once.(List)
		if len(sorted) != len(in) {
			t.Fatalf("sort changed length: %d vs %d", len(sorted), len(in))
		}
		for j := 1; j < len(sorted); j++ {
			if sorted[j-1].(Number) > sorted[j].(Number) {
				t.Fatalf("not non-decreasing at %d: %s", j, sorted)
			}
		}
	}

	// The argument is left untouched.
	in := nums(3, 1, 2)
	callBuiltin(t, e, "fanitas", in)
	if !Equal(in, nums(3, 1, 2)) {
		t.Errorf("fanitas mutated its argument: %s", in)
	}
}

func TestPrint(t *testing.T) {
	e, output := newTestEvaluator()
	tests := []struct {
		args []Value
		want string
	}{
		{nil, "\n"},
		{[]Value{String("hello"), Number(2)}, "hello ra\n"},
		{[]Value{nums(1, 2), Bool(true), Nil{}}, "[ru ra] me nil\n"},
		{[]Value{String("quoted \"not\" escaped")}, "quoted \"not\" escaped\n"},
		{[]Value{Number(42)}, "42\n"},
	}
	for _, tt := range tests {
		output.Reset()
		v, err := callBuiltin(t, e, "sipus", tt.args...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !IsNil(v) {
			t.Errorf("sipus should return nil, got %s", v)
		}
		if output.String() != tt.want {
			t.Errorf("expected %q, got %q", tt.want, output.String())
		}
	}
}

func TestPrintWriterFailure(t *testing.T) {
	e := New(WithOutputWriter(func(string) error { return errors.New("closed") }))
	_, err := e.EvalSource("sipus ru")
	if err == nil || !strings.Contains(err.Error(), "sipus: closed") {
		t.Errorf("expected writer failure, got %v", err)
	}
}

func TestBuiltinTable(t *testing.T) {
	want := map[string]string{
		"ritas": ">= 2", "matyes": ">= 2", "nitas": ">= 2", "teses": ">= 2", "kenus": ">= 2",
		"ditas": "2", "fityes": "2", "ditasgata": "2", "fityesgata": "2", "gatas": ">= 2",
		"fanitas": "1", "rakas": "1", "sipus": "any",
	}
	got := Builtins()
	if len(got) != len(want) {
		t.Fatalf("expected %d builtins, got %d", len(want), len(got))
	}
	e, _ := newTestEvaluator()
	for _, b := range got {
		arity, ok := want[b.Name]
		if !ok {
			t.Errorf("unexpected builtin %s", b.Name)
			continue
		}
		if b.Arity.String() != arity {
			t.Errorf("%s: expected arity %s, got %s", b.Name, arity, b.Arity)
		}
		installed, ok := e.Root().Get(b.Name)
		if !ok || !Equal(installed, b) {
			t.Errorf("%s is not installed in the root frame", b.Name)
		}
	}
}
