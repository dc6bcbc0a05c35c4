// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package satukitan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"nickandperla.net/satukitan/internal/errs"
	"nickandperla.net/satukitan/internal/eval"
	"nickandperla.net/satukitan/internal/store"
	"nickandperla.net/satukitan/internal/token"
)

// SourceExt is the required extension of program files.
const SourceExt = ".st"

// Runtime is the Satukitan interpreter runtime. One Runtime is one
// session: bindings made by any evaluation stay visible to later ones.
type Runtime struct {
	evaluator    *eval.Evaluator
	store        store.Store
	outputWriter func(text string) error
	log          *logrus.Logger
	prelude      string
	preludeFile  string
	session      string
	optErr       error
}

// New creates a new runtime with the given options and loads the prelude.
func New(opts ...Option) (*Runtime, error) {
	r := &Runtime{
		log: logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(r)
	}
	if r.optErr != nil {
		if r.store != nil {
			r.store.Close()
		}
		return nil, r.optErr
	}
	if r.store == nil {
		r.store = store.NewMemory()
	}
	if r.session == "" {
		r.session = newSessionID()
	}

	// Build evaluator options
	evalOpts := []eval.Option{eval.WithLogger(r.log)}
	if r.outputWriter != nil {
		evalOpts = append(evalOpts, eval.WithOutputWriter(r.outputWriter))
	}
	r.evaluator = eval.New(evalOpts...)

	if err := r.loadPrelude(); err != nil {
		r.store.Close()
		return nil, err
	}
	if ms, ok := r.store.(store.MetadataStore); ok {
		if err := ms.SetMetadata("last_session", r.session); err != nil {
			r.log.WithError(err).Warn("could not record session")
		}
	}
	return r, nil
}

func newSessionID() string {
	return fmt.Sprintf("%s-%d", time.Now().UTC().Format("20060102T150405"), os.Getpid())
}

// EvalSource evaluates a whole program in the session's root frame.
func (r *Runtime) EvalSource(source string) (Value, error) {
	return r.evaluator.EvalSource(source)
}

// EvalFile evaluates a .st file in the session's root frame.
func (r *Runtime) EvalFile(path string) (Value, error) {
	if filepath.Ext(path) != SourceExt {
		return nil, &errs.IOError{Path: path, Err: fmt.Errorf("expected a %s file", SourceExt)}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		var pe *os.PathError
		if errors.As(err, &pe) {
			err = pe.Err
		}
		return nil, &errs.IOError{Path: path, Err: err}
	}
	return r.evaluator.EvalSource(string(data))
}

// EvalLine evaluates one interactive line and records it in the session
// history. History failures are logged, never returned.
func (r *Runtime) EvalLine(line string) (Value, error) {
	v, err := r.evaluator.EvalSource(line)

	entry := store.Entry{Session: r.session, Input: line}
	if err != nil {
		entry.Err = err.Error()
	} else {
		entry.Result = v.String()
	}
	if _, rerr := r.store.Record(entry); rerr != nil {
		r.log.WithError(rerr).Warn("could not record history")
	}
	return v, err
}

// History returns up to limit recorded lines, newest first.
func (r *Runtime) History(limit int) ([]Entry, error) {
	return r.store.History(limit)
}

// SessionLines returns the lines recorded in this session, oldest first.
func (r *Runtime) SessionLines() ([]Entry, error) {
	return r.store.Session(r.session)
}

// Session returns the session id.
func (r *Runtime) Session() string {
	return r.session
}

// Completions returns the special forms and root bindings starting with
// prefix, sorted.
func (r *Runtime) Completions(prefix string) []string {
	var out []string
	for _, name := range token.SpecialForms() {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	for _, name := range r.evaluator.Root().Names() {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Evaluator returns the underlying evaluator.
func (r *Runtime) Evaluator() *eval.Evaluator {
	return r.evaluator
}

// Close releases resources.
func (r *Runtime) Close() error {
	return r.store.Close()
}
