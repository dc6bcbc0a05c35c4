package satukitan

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"nickandperla.net/satukitan/internal/errs"
	"nickandperla.net/satukitan/internal/store"
)

func newTestRuntime(t *testing.T, opts ...Option) (*Runtime, *strings.Builder) {
	t.Helper()
	var output strings.Builder
	opts = append([]Option{WithMemoryStore(), WithOutput(&output)}, opts...)
	r, err := New(opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r, &output
}

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestEvalSourceKeepsBindings(t *testing.T) {
	r, output := newTestRuntime(t)

	if _, err := r.EvalSource("gakas x ra"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := r.EvalSource("sipus (ritas x x)\nritas x ru")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.String() != "ro" {
		t.Errorf("expected ro, got %s", v)
	}
	if output.String() != "re\n" {
		t.Errorf("expected output 're', got %q", output.String())
	}
}

func TestEvalFile(t *testing.T) {
	r, output := newTestRuntime(t)

	path := writeSource(t, "fib.st", `# Fibonacci
gakasdenu fib (n) (
  nobu (ditas n ra)
    (n)
    (ritas (fib (matyes n ru)) (fib (matyes n ra)))
)
sipus (fib ryo)
`)
	v, err := r.EvalFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.String() != "nil" {
		t.Errorf("expected nil, got %s", v)
	}
	if output.String() != "21\n" {
		t.Errorf("expected '21', got %q", output.String())
	}
}

func TestEvalFileErrors(t *testing.T) {
	r, _ := newTestRuntime(t)

	_, err := r.EvalFile(writeSource(t, "prog.txt", "ra"))
	var ioErr *errs.IOError
	if !errors.As(err, &ioErr) || !strings.Contains(err.Error(), ".st") {
		t.Errorf("expected extension error, got %v", err)
	}

	missing := filepath.Join(t.TempDir(), "missing.st")
	_, err = r.EvalFile(missing)
	if !errors.As(err, &ioErr) || ioErr.Path != missing {
		t.Fatalf("expected IOError for %s, got %v", missing, err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected not-exist cause, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "io error: "+missing+": ") {
		t.Errorf("unexpected message %q", err.Error())
	}

	_, err = r.EvalFile(writeSource(t, "bad.st", "(ritas ra"))
	var pe *errs.ParseError
	if !errors.As(err, &pe) {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestEvalLineRecordsHistory(t *testing.T) {
	r, _ := newTestRuntime(t, WithSession("s1"))

	lines := []string{"gakas x ru", "ritas x x", "missing"}
	for _, line := range lines {
		r.EvalLine(line)
	}

	entries, err := r.History(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Input != "missing" || entries[0].Err != "undefined symbol: missing" {
		t.Errorf("unexpected newest entry: %+v", entries[0])
	}
	if entries[1].Result != "ra" || entries[1].Failed() {
		t.Errorf("unexpected entry: %+v", entries[1])
	}

	session, err := r.SessionLines()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, e := range session {
		if e.Input != lines[i] || e.Session != "s1" {
			t.Errorf("session[%d]: %+v", i, e)
		}
	}

	// Bindings survive the failed line.
	v, err := r.EvalLine("x")
	if err != nil || v.String() != "ru" {
		t.Errorf("expected ru, got %v (%v)", v, err)
	}
}

func TestSQLiteHistoryAcrossRuntimes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	r1, err := New(WithSQLiteStore(path), WithSession("first"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r1.EvalLine("ritas ru ru")
	r1.Close()

	r2, err := New(WithSQLiteStore(path), WithSession("second"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer r2.Close()

	entries, err := r2.History(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Input != "ritas ru ru" || entries[0].Session != "first" {
		t.Errorf("unexpected history: %+v", entries)
	}
}

func TestSessionMetadata(t *testing.T) {
	s := store.NewMemory()
	r, err := New(WithStore(s), WithSession("abc"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer r.Close()
	if v, _ := s.GetMetadata("last_session"); v != "abc" {
		t.Errorf("expected last_session abc, got %q", v)
	}
	if r.Session() != "abc" {
		t.Errorf("unexpected session %q", r.Session())
	}
}

func TestDefaultSessionID(t *testing.T) {
	r, _ := newTestRuntime(t)
	if r.Session() == "" {
		t.Error("expected a generated session id")
	}
}

func TestCompletions(t *testing.T) {
	r, _ := newTestRuntime(t)
	if _, err := r.EvalSource("gakas gakasx ru"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := r.Completions("gaka")
	want := []string{"gakas", "gakasdenu", "gakasx"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	got = r.Completions("fity")
	want = []string{"fityes", "fityesgata"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if got := r.Completions("zzz"); len(got) != 0 {
		t.Errorf("expected no completions, got %v", got)
	}
}
