// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package satukitan

import "fmt"

// loadPrelude evaluates the prelude file, then the prelude source, into the
// root frame.
func (r *Runtime) loadPrelude() error {
	if r.preludeFile != "" {
		if _, err := r.EvalFile(r.preludeFile); err != nil {
			return fmt.Errorf("prelude: %w", err)
		}
		r.log.WithField("path", r.preludeFile).Debug("prelude loaded")
	}
	if r.prelude != "" {
		if _, err := r.evaluator.EvalSource(r.prelude); err != nil {
			return fmt.Errorf("prelude: %w", err)
		}
	}
	return nil
}
