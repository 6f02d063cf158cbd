package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/internal/history"
	"github.com/funvibe/quill/internal/lexer"
	"github.com/funvibe/quill/internal/token"
	"github.com/funvibe/quill/pkg/engine"
)

const (
	prompt         = "quill> "
	morePrompt     = "  ...> "
	maxHistoryLine = 1000
)

func runREPL(cfg *config.Config, in *os.File, stdout, stderr io.Writer) int {
	fd := int(in.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(stderr, "quill: failed to set raw mode: %v\n", err)
		return engine.ExitFault
	}
	defer term.Restore(fd, state)

	// The terminal turns \n into \r\n, so everything goes through it.
	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{in, stdout}, prompt)
	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(t, &slog.HandlerOptions{Level: level}))

	lines, store, closeHistory := openHistory(cfg.HistoryFile, logger)
	defer closeHistory()
	t.History = lines
	if store != nil {
		t.AutoCompleteCallback = (&prefixRecall{store: store, logger: logger}).complete
	}

	e, err := engine.New(engine.Options{Config: cfg, Out: t, Err: t, Logger: logger})
	if err != nil {
		fmt.Fprintf(t, "quill: %v\n", err)
		return exitUsage
	}
	return loop(e, t)
}

// lineReader is the part of term.Terminal the loop uses.
type lineReader interface {
	io.Writer
	ReadLine() (string, error)
	SetPrompt(string)
}

func loop(e *engine.Engine, t lineReader) int {
	var buf strings.Builder
	status := engine.ExitOK
	for {
		line, err := t.ReadLine()
		if errors.Is(err, io.EOF) {
			return status
		}
		if err != nil {
			fmt.Fprintf(t, "quill: %v\n", err)
			return engine.ExitFault
		}
		if buf.Len() == 0 {
			switch strings.TrimSpace(line) {
			case "":
				continue
			case "exit", "quit":
				return status
			}
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
		if incomplete(buf.String()) {
			t.SetPrompt(morePrompt)
			continue
		}
		t.SetPrompt(prompt)

		res := e.Eval(buf.String())
		buf.Reset()
		status = res.ExitStatus()
		io.WriteString(t, res.Report())
		if res.Internal() {
			return status
		}
	}
}

// incomplete reports whether code has unclosed brackets and the REPL should
// keep reading.
func incomplete(code string) bool {
	depth := 0
	for _, tok := range lexer.New(code).Tokenize() {
		if tok.Channel != token.Default {
			continue
		}
		switch tok.Type {
		case token.LBRACE, token.LPAREN, token.LBRACKET:
			depth++
		case token.RBRACE, token.RPAREN, token.RBRACKET:
			depth--
		}
	}
	return depth > 0
}

func openHistory(path string, logger *slog.Logger) (*history.Lines, *history.Store, func()) {
	var store *history.Store
	if path != "" {
		var err error
		if store, err = history.Open(path); err != nil {
			logger.Warn("history disabled", "path", path, "error", err)
			store = nil
		}
	}
	lines, err := history.NewLines(store, maxHistoryLine, logger)
	if err != nil {
		logger.Warn("history not loaded", "path", path, "error", err)
		lines, _ = history.NewLines(nil, maxHistoryLine, logger)
	}
	return lines, store, func() {
		if store != nil {
			store.Close()
		}
	}
}

// prefixRecall replaces the line on Tab with the newest stored line that
// starts with it. Further presses go back in history.
type prefixRecall struct {
	store  *history.Store
	logger *slog.Logger
	walker *history.Walker
	shown  string
}

func (r *prefixRecall) complete(line string, pos int, key rune) (string, int, bool) {
	if key != '\t' {
		return "", 0, false
	}
	if r.walker == nil || line != r.shown {
		w, err := history.NewWalker(r.store, line)
		if err != nil {
			r.logger.Warn("history search failed", "error", err)
			return "", 0, false
		}
		r.walker = w
	}
	cmd, err := r.walker.Prev()
	if err != nil {
		if !errors.Is(err, history.ErrEndOfHistory) {
			r.logger.Warn("history search failed", "error", err)
		}
		return "", 0, false
	}
	r.shown = cmd.Text
	return cmd.Text, len(cmd.Text), true
}
