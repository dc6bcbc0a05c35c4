// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package satukitan provides the public API for the Satukitan interpreter.
package satukitan

import (
	"io"

	"github.com/sirupsen/logrus"

	"nickandperla.net/satukitan/internal/eval"
	"nickandperla.net/satukitan/internal/store"
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithStore sets a custom history store. The runtime closes it.
func WithStore(s Store) Option {
	return func(r *Runtime) {
		r.store = s
	}
}

// WithSQLiteStore keeps session history in a SQLite database at path.
func WithSQLiteStore(path string) Option {
	return func(r *Runtime) {
		s, err := store.NewSQLite(path)
		if err != nil {
			r.optErr = err
			return
		}
		r.store = s
	}
}

// WithMemoryStore keeps session history in memory.
func WithMemoryStore() Option {
	return func(r *Runtime) {
		r.store = store.NewMemory()
	}
}

// WithOutputWriter sets the output writer for sipus.
func WithOutputWriter(writer func(text string) error) Option {
	return func(r *Runtime) {
		r.outputWriter = writer
	}
}

// WithOutput sets the io.Writer for output.
func WithOutput(w io.Writer) Option {
	return func(r *Runtime) {
		r.outputWriter = func(text string) error {
			_, err := w.Write([]byte(text))
			return err
		}
	}
}

// WithLogger sets the logger shared by the runtime and evaluator.
func WithLogger(l *logrus.Logger) Option {
	return func(r *Runtime) {
		r.log = l
	}
}

// WithPrelude sets source evaluated into the root frame on startup.
func WithPrelude(source string) Option {
	return func(r *Runtime) {
		r.prelude = source
	}
}

// WithPreludeFile evaluates a .st file into the root frame on startup.
func WithPreludeFile(path string) Option {
	return func(r *Runtime) {
		r.preludeFile = path
	}
}

// WithSession sets the session id recorded with history entries.
func WithSession(id string) Option {
	return func(r *Runtime) {
		r.session = id
	}
}

// Value is a runtime value.
type Value = eval.Value

// Store interface for custom history stores.
type Store = store.Store

// Entry is one recorded session line.
type Entry = store.Entry
