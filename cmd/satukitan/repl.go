// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"nickandperla.net/satukitan/internal/config"
	"nickandperla.net/satukitan/internal/eval"
	"nickandperla.net/satukitan/pkg/satukitan"
)

func printBanner(w io.Writer) {
	fmt.Fprintln(w, "satukitan REPL (Ctrl+D or exit to quit)")
	fmt.Fprintln(w, "End a line with \\ to continue it on the next one.")
	fmt.Fprintln(w)
}

func runREPL(runtime *satukitan.Runtime, cfg *config.Config, stdin io.Reader, stdout io.Writer) error {
	// Check if stdin is a terminal
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		printBanner(stdout)
		return runLinerREPL(runtime, cfg)
	}
	// Not a TTY, fall back to basic mode
	return runBasicREPL(runtime, stdin, stdout)
}

// session accumulates continued lines and evaluates complete inputs.
type session struct {
	runtime   *satukitan.Runtime
	out       io.Writer
	multiline strings.Builder
}

// feed handles one physical line. It returns done when the user asked to
// leave, and continued while a trailing backslash keeps the input open.
func (s *session) feed(line string) (done, continued bool) {
	line = strings.TrimRight(line, "\r\n")

	if strings.HasSuffix(line, "\\") {
		// Calls end at a newline, so continued lines are joined with a space
		s.multiline.WriteString(strings.TrimSuffix(line, "\\"))
		s.multiline.WriteString(" ")
		return false, true
	}

	input := line
	if s.multiline.Len() > 0 {
		s.multiline.WriteString(line)
		input = s.multiline.String()
		s.multiline.Reset()
	}

	switch strings.TrimSpace(input) {
	case "":
		return false, false
	case "exit", "quit":
		return true, false
	}

	result, err := s.runtime.EvalLine(input)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return false, false
	}
	if !eval.IsNil(result) {
		fmt.Fprintln(s.out, result)
	}
	return false, false
}

// runBasicREPL handles non-TTY input (piped input). No prompt is printed.
func runBasicREPL(runtime *satukitan.Runtime, stdin io.Reader, stdout io.Writer) error {
	reader := bufio.NewReader(stdin)
	s := &session{runtime: runtime, out: stdout}

	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			if done, _ := s.feed(line); done {
				return nil
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// runLinerREPL handles TTY input with line editing, history and completion.
func runLinerREPL(runtime *satukitan.Runtime, cfg *config.Config) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(func(line string) []string {
		return completeLine(runtime, line)
	})

	// Seed history oldest first
	if entries, err := runtime.History(cfg.History.Limit); err == nil {
		for i := len(entries) - 1; i >= 0; i-- {
			ln.AppendHistory(entries[i].Input)
		}
	}

	s := &session{runtime: runtime, out: os.Stdout}
	continued := false
	for {
		prompt := cfg.Prompt
		if continued {
			prompt = "... "
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			// Ctrl+C drops the pending input
			s.multiline.Reset()
			continued = false
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}

		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		var done bool
		if done, continued = s.feed(line); done {
			return nil
		}
	}
}

// completeLine completes the word under the cursor against special forms
// and root bindings.
func completeLine(runtime *satukitan.Runtime, line string) []string {
	start := strings.LastIndexAny(line, " \t([") + 1
	prefix := line[start:]
	if prefix == "" {
		return nil
	}
	var out []string
	for _, name := range runtime.Completions(prefix) {
		out = append(out, line[:start]+name)
	}
	return out
}
