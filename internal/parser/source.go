package parser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/funvibe/quill/internal/ast"
	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/internal/diagnostics"
	"github.com/funvibe/quill/internal/lexer"
	"github.com/funvibe/quill/internal/token"
)

// Source is a named script text. Tokens and the parse result are computed
// once and shared by every caller.
type Source struct {
	name string
	text string

	mu                sync.Mutex
	processDirectives bool
	handler           *AmbiguityHandler

	scanOnce   sync.Once
	tokens     []token.Token
	scanFault  *diagnostics.DiagnosticError
	directives []string
	directive  map[int]bool

	info     *AstInfo
	strategy Mode
}

// New reads a named stream. The name is canonicalized once here.
func New(fileName string, r io.Reader) (*Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", fileName, err)
	}
	return &Source{name: Canonicalize(fileName), text: string(data), processDirectives: true}, nil
}

// Open reads a script file.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return New(path, f)
}

// NewMemory wraps code that does not come from a file.
func NewMemory(code string) *Source {
	return &Source{name: config.UnknownFileName, text: code, processDirectives: true}
}

// Canonicalize turns a file name into an absolute, symlink-free path when
// possible. Names that are not paths are returned unchanged.
func Canonicalize(name string) string {
	if name == "" || name == config.UnknownFileName {
		return config.UnknownFileName
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return name
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

func (s *Source) FileName() string { return s.name }
func (s *Source) Text() string     { return s.text }

// SetProcessDirectives turns directive extraction on or off. When off,
// Directives is always empty.
func (s *Source) SetProcessDirectives(on bool) {
	s.mu.Lock()
	s.processDirectives = on
	s.mu.Unlock()
}

// SetAmbiguityHandler replaces the handler used by the general strategy.
// It has no effect once the source has been parsed.
func (s *Source) SetAmbiguityHandler(h *AmbiguityHandler) {
	s.mu.Lock()
	s.handler = h
	s.mu.Unlock()
}

func (s *Source) scan() {
	s.scanOnce.Do(func() {
		l := lexer.New(s.text)
		s.tokens = l.Tokenize()
		if err := l.Err(); err != nil {
			err.File = s.name
			s.scanFault = err
		}
		s.directives, s.directive = collectDirectives(s.tokens)
	})
}

// Tokens returns the full token stream, hidden channels included.
func (s *Source) Tokens() []token.Token {
	s.scan()
	return s.tokens
}

// Scan tokenizes without building a tree. The returned info parses on
// demand. A lexical fault is carried by the info and, with throwNow, also
// returned.
func (s *Source) Scan(throwNow bool) (*AstInfo, error) {
	s.scan()
	info := s.astInfo()
	if s.scanFault != nil && throwNow {
		return info, s.scanFault
	}
	return info, nil
}

// Parse returns the memoized parse result. With buildTree the parse runs
// before returning; otherwise it runs when the tree or fault is first read.
// With throwNow a syntax fault is also returned as the error; this forces
// the parse.
func (s *Source) Parse(buildTree, throwNow bool) (*AstInfo, error) {
	info := s.astInfo()
	if buildTree || throwNow {
		if fault := info.Fault(); fault != nil && throwNow {
			return info, fault
		}
	}
	return info, nil
}

func (s *Source) astInfo() *AstInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.info == nil {
		s.info = NewLazyAstInfo(s.name, s.parse)
		s.info.source = s
	}
	return s.info
}

// parse tries the fast strategy first and falls back to the general one.
// Only the general strategy's fault is reported, except for nesting faults
// which both strategies would hit alike.
func (s *Source) parse() (*ast.Program, *diagnostics.DiagnosticError) {
	s.scan()
	if s.scanFault != nil {
		return nil, s.scanFault
	}
	s.mu.Lock()
	handler := s.handler
	s.mu.Unlock()

	prog, fault := NewParser(s.tokens, Fast, handler).ParseProgram()
	strategy := Fast
	if fault != nil && fault.Code != diagnostics.ErrP005 {
		prog, fault = NewParser(s.tokens, General, handler).ParseProgram()
		strategy = General
	}
	s.mu.Lock()
	s.strategy = strategy
	s.mu.Unlock()

	if fault != nil {
		fault.File = s.name
		return nil, fault
	}
	prog.File = s.name
	return prog, nil
}

// Strategy reports which strategy produced the result. It is meaningful
// only after the parse has run.
func (s *Source) Strategy() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.strategy
}

// Directives returns the head-of-file directives.
func (s *Source) Directives() *Directives {
	s.mu.Lock()
	on := s.processDirectives
	s.mu.Unlock()
	if !on {
		return &Directives{}
	}
	s.scan()
	return &Directives{values: append([]string(nil), s.directives...)}
}

// DocBefore returns the block comment that immediately precedes tok, looking
// past whitespace, newlines and line comments only. Directives never count.
func (s *Source) DocBefore(tok token.Token) (string, bool) {
	s.scan()
	for i := tok.Index - 1; i >= 0 && i < len(s.tokens); i-- {
		prev := s.tokens[i]
		switch prev.Channel {
		case token.Skipped:
			continue
		case token.Doc:
			if s.directive[prev.Index] {
				return "", false
			}
			return prev.Lexeme, true
		}
		return "", false
	}
	return "", false
}
