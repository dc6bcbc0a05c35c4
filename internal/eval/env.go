// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"sort"

	"nickandperla.net/satukitan/internal/errs"
)

// Env is one frame of the lexical scope chain. Frames only point at their
// parent, never at children, so the frame graph is a tree.
//
// Env is not safe for concurrent use.
type Env struct {
	vars   map[string]Value
	parent *Env
}

// NewEnv creates an empty frame. parent is nil for the root frame.
func NewEnv(parent *Env) *Env {
	return &Env{
		vars:   make(map[string]Value),
		parent: parent,
	}
}

// Parent returns the enclosing frame, or nil for the root.
func (e *Env) Parent() *Env {
	return e.parent
}

// Get looks name up from this frame outward.
func (e *Env) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Define binds name in this frame, replacing any binding in this frame and
// shadowing any in outer frames.
func (e *Env) Define(name string, v Value) {
	e.vars[name] = v
}

// Assign overwrites the nearest existing binding of name.
func (e *Env) Assign(name string, v Value) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.vars[name]; ok {
			env.vars[name] = v
			return nil
		}
	}
	return &errs.UndefinedSymbolError{Name: name}
}

// HasLocal returns true if name is bound in this frame itself.
func (e *Env) HasLocal(name string) bool {
	_, ok := e.vars[name]
	return ok
}

// Names returns every visible name, sorted.
func (e *Env) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for env := e; env != nil; env = env.parent {
		for name := range env.vars {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
