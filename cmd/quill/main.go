// Command quill runs Quill scripts.
//
//	quill [flags] <file> [args...]   run a script file
//	quill [flags] -e <code> [args...] run a snippet
//	quill [flags]                     start a REPL, or run stdin when it is not a terminal
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/pkg/engine"
)

// exitUsage is returned for bad flags or an unreadable config.
const exitUsage = 2

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("quill", flag.ContinueOnError)
	fs.SetOutput(stderr)
	code := fs.String("e", "", "run `code` instead of a file")
	configPath := fs.String("config", "", "read settings from a YAML `file`")
	check := fs.Bool("check", false, "only check the syntax of the script file")
	interactive := fs.Bool("i", false, "print the value of the last statement")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: quill [flags] <file> [args...]")
		fmt.Fprintln(stderr, "       quill [flags] -e <code> [args...]")
		fmt.Fprintln(stderr, "       quill [flags]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return engine.ExitOK
		}
		return exitUsage
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(stderr, "quill: %v\n", err)
			return exitUsage
		}
	}
	if *interactive {
		cfg.Interactive = true
	}

	switch {
	case *code != "":
		if *check {
			fmt.Fprintln(stderr, "quill: -check needs a script file")
			return exitUsage
		}
		return withEngine(cfg, stdout, stderr, func(e *engine.Engine) engine.Result {
			return e.RunSource("", *code, fs.Args())
		})
	case fs.NArg() > 0:
		path := fs.Arg(0)
		return withEngine(cfg, stdout, stderr, func(e *engine.Engine) engine.Result {
			if *check {
				return e.Check(path)
			}
			return e.RunFile(path, fs.Args()[1:])
		})
	case *check:
		fmt.Fprintln(stderr, "quill: -check needs a script file")
		return exitUsage
	}

	if f, ok := stdin.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return runREPL(cfg, f, stdout, stderr)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "quill: reading stdin: %v\n", err)
		return engine.ExitFault
	}
	return withEngine(cfg, stdout, stderr, func(e *engine.Engine) engine.Result {
		return e.RunSource("", string(data), nil)
	})
}

// withEngine builds an engine, runs fn on it and reports the outcome.
func withEngine(cfg *config.Config, stdout, stderr io.Writer, fn func(*engine.Engine) engine.Result) int {
	e, err := engine.New(engine.Options{Config: cfg, Out: stdout, Err: stderr})
	if err != nil {
		fmt.Fprintf(stderr, "quill: %v\n", err)
		return exitUsage
	}
	res := fn(e)
	if res.Internal() {
		fmt.Fprintln(stderr, "quill: internal error. This is a bug. Please report it.")
	}
	io.WriteString(stderr, res.Report())
	return res.ExitStatus()
}
