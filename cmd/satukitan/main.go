// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Command satukitan is the Satukitan interpreter CLI.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"nickandperla.net/satukitan/internal/config"
	"nickandperla.net/satukitan/internal/eval"
	"nickandperla.net/satukitan/pkg/satukitan"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

const usageText = `usage:
  satukitan [flags] run <file.st>
  satukitan [flags] repl
  satukitan builtins

flags:
`

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// options collects the command line after flag parsing.
type options struct {
	configPath string
	logLevel   string
	historyDB  string
	prelude    string
	set        map[string]bool // Flags given explicitly
}

func realMain(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("satukitan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usageText)
		fs.PrintDefaults()
	}

	var opts options
	fs.StringVar(&opts.configPath, "config", "", "Config file path (default "+config.DefaultFile+" if present)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	fs.StringVar(&opts.historyDB, "history-db", "", "SQLite history database path (empty keeps history in memory)")
	fs.StringVar(&opts.prelude, "prelude", "", "Source file evaluated before the session starts")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	rest := fs.Args()
	cmd := "repl"
	if len(rest) > 0 {
		cmd, rest = rest[0], rest[1:]
	}

	switch cmd {
	case "builtins":
		printBuiltins(stdout)
		return exitOK
	case "run":
		if len(rest) != 1 {
			fs.Usage()
			return exitUsage
		}
	case "repl":
		if len(rest) != 0 {
			fs.Usage()
			return exitUsage
		}
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", cmd)
		fs.Usage()
		return exitUsage
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	log := newLogger(cfg, stderr)

	runtimeOpts := []satukitan.Option{
		satukitan.WithLogger(log),
		satukitan.WithOutput(stdout),
	}
	if cfg.Prelude != "" {
		runtimeOpts = append(runtimeOpts, satukitan.WithPreludeFile(cfg.Prelude))
	}
	if cmd == "repl" && cfg.History.DB != "" {
		runtimeOpts = append(runtimeOpts, satukitan.WithSQLiteStore(cfg.History.DB))
	} else {
		runtimeOpts = append(runtimeOpts, satukitan.WithMemoryStore())
	}

	runtime, err := satukitan.New(runtimeOpts...)
	if err != nil {
		log.WithError(err).WithField("prelude", cfg.Prelude).Debug("startup failed")
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	defer runtime.Close()

	if cmd == "run" {
		return runFile(runtime, rest[0], stdout, stderr)
	}
	if err := runREPL(runtime, cfg, stdin, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(opts options) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if opts.set["config"] {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load(config.DefaultFile)
	}
	if err != nil {
		return nil, err
	}

	if opts.set["log-level"] {
		cfg.LogLevel = opts.logLevel
	}
	if opts.set["history-db"] {
		cfg.History.DB = opts.historyDB
	}
	if opts.set["prelude"] {
		cfg.Prelude = opts.prelude
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg *config.Config, w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if lvl, err := cfg.Level(); err == nil {
		log.SetLevel(lvl)
	}
	return log
}

func runFile(runtime *satukitan.Runtime, path string, stdout, stderr io.Writer) int {
	result, err := runtime.EvalFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	if !eval.IsNil(result) {
		fmt.Fprintln(stdout, result)
	}
	return exitOK
}

func printBuiltins(w io.Writer) {
	for _, b := range eval.Builtins() {
		fmt.Fprintf(w, "%-12s %s\n", b.Name, b.Arity)
	}
}
