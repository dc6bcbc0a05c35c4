package satukitan

import (
	"errors"
	"strings"
	"testing"

	"nickandperla.net/satukitan/internal/errs"
)

func TestPreludeSource(t *testing.T) {
	r, _ := newTestRuntime(t, WithPrelude("gakasdenu double (n) (ritas n n)"))

	v, err := r.EvalSource("double ro")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.String() != "rya" {
		t.Errorf("expected rya, got %s", v)
	}
}

func TestPreludeFile(t *testing.T) {
	path := writeSource(t, "prelude.st", "gakas base #ta\ngakasdenu add-base (n) (ritas n base)\n")
	r, _ := newTestRuntime(t, WithPreludeFile(path), WithPrelude("gakas base ru"))

	// The source prelude runs after the file.
	v, err := r.EvalSource("add-base ru")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.String() != "ra" {
		t.Errorf("expected ra, got %s", v)
	}
}

func TestPreludeFailure(t *testing.T) {
	_, err := New(WithMemoryStore(), WithPrelude("ritas ra me"))
	var tm *errs.TypeMismatchError
	if !errors.As(err, &tm) {
		t.Fatalf("expected type mismatch, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "prelude: ") {
		t.Errorf("expected prelude prefix, got %q", err.Error())
	}

	_, err = New(WithMemoryStore(), WithPreludeFile("missing.st"))
	var ioErr *errs.IOError
	if !errors.As(err, &ioErr) {
		t.Errorf("expected IOError, got %v", err)
	}
}
