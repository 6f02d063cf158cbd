package parser

import (
	"fmt"

	"github.com/funvibe/quill/internal/ast"
	"github.com/funvibe/quill/internal/diagnostics"
	"github.com/funvibe/quill/internal/token"
)

// MaxRecursionDepth bounds expression and block nesting.
const MaxRecursionDepth = 500

// Mode selects the decision strategy of a Parser.
type Mode int

const (
	// Fast predicts every decision from a bounded lookahead and stops at the
	// first error. It accepts most real programs.
	Fast Mode = iota
	// General tries every alternative at a decision point by reparsing the
	// innermost enclosing statement, and hands genuine ambiguities to an
	// AmbiguityHandler.
	General
)

func (m Mode) String() string {
	if m == Fast {
		return "fast"
	}
	return "general"
}

// bailout unwinds the parser on the first error.
type bailout struct{}

// restart remembers where the innermost statement began and how to parse it
// again.
type restart struct {
	pos           int
	depth         int
	functionDepth int
	loopDepth     int
	fn            func(*Parser)
}

type Parser struct {
	tokens []token.Token // default channel only, ends with EOF
	pos    int
	mode   Mode

	err         *diagnostics.DiagnosticError
	handler     *AmbiguityHandler
	forced      map[int]Alternative
	restarts    []restart
	speculating bool

	depth         int
	functionDepth int
	loopDepth     int
}

// NewParser creates a parser over a full token stream. Hidden-channel tokens are
// dropped here.
func NewParser(tokens []token.Token, mode Mode, handler *AmbiguityHandler) *Parser {
	visible := make([]token.Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Channel == token.Default {
			visible = append(visible, tok)
		}
	}
	if len(visible) == 0 || visible[len(visible)-1].Type != token.EOF {
		eof := token.Token{Type: token.EOF}
		if len(tokens) > 0 {
			last := tokens[len(tokens)-1]
			eof.Line, eof.Column, eof.Index = last.Line, last.Column+len(last.Lexeme), last.Index+1
		}
		visible = append(visible, eof)
	}
	if handler == nil {
		handler = DefaultAmbiguityHandler()
	}
	return &Parser{tokens: visible, mode: mode, handler: handler, forced: map[int]Alternative{}}
}

// fork returns a parser positioned at a restart point that shares the token stream and
// every decision made so far.
func (p *Parser) fork(r restart) *Parser {
	forced := make(map[int]Alternative, len(p.forced)+1)
	for k, v := range p.forced {
		forced[k] = v
	}
	return &Parser{
		tokens:        p.tokens,
		pos:           r.pos,
		mode:          p.mode,
		handler:       p.handler,
		forced:        forced,
		depth:         r.depth,
		functionDepth: r.functionDepth,
		loopDepth:     r.loopDepth,
	}
}

// ParseProgram parses the whole stream. On failure the returned program is
// nil and the error is the first syntax fault encountered.
func (p *Parser) ParseProgram() (prog *ast.Program, err *diagnostics.DiagnosticError) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			prog, err = nil, p.err
		}
	}()

	prog = &ast.Program{}
	for p.curTokenIs(token.INCLUDE) {
		prog.Includes = append(prog.Includes, p.parseInclude())
	}
	for !p.curTokenIs(token.EOF) {
		prog.Statements = append(prog.Statements, p.parseTopLevel())
	}
	prog.EOF = p.curToken()
	prog.Empty = len(prog.Includes) == 0 && len(prog.Statements) == 0
	return prog, nil
}

func (p *Parser) curToken() token.Token { return p.tokens[p.pos] }

func (p *Parser) tokenAt(i int) token.Token {
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) peekToken() token.Token { return p.tokenAt(p.pos + 1) }

func (p *Parser) nextToken() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken().Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken().Type == t }

// expect checks the current token, consumes it and returns it.
func (p *Parser) expect(t token.TokenType, what string) token.Token {
	tok := p.curToken()
	if tok.Type != t {
		p.unexpected(what)
	}
	p.nextToken()
	return tok
}

func (p *Parser) unexpected(expected string) {
	tok := p.curToken()
	if tok.Type == token.EOF {
		p.errorf(diagnostics.ErrP001, tok, "unexpected end of input, expected %s", expected)
	}
	p.errorf(diagnostics.ErrP001, tok, "unexpected token %q, expected %s", tok.Lexeme, expected)
}

// errorf records the first fault and unwinds.
func (p *Parser) errorf(code diagnostics.ErrorCode, tok token.Token, format string, args ...interface{}) {
	if p.err == nil {
		p.err = diagnostics.NewError(code, tok, fmt.Sprintf(format, args...))
	}
	panic(bailout{})
}

func (p *Parser) enter() {
	p.depth++
	if p.depth > MaxRecursionDepth {
		p.errorf(diagnostics.ErrP005, p.curToken(), "nesting too deep")
	}
}

func (p *Parser) leave() { p.depth-- }

func (p *Parser) pushRestart(fn func(*Parser)) {
	p.restarts = append(p.restarts, restart{
		pos:           p.pos,
		depth:         p.depth,
		functionDepth: p.functionDepth,
		loopDepth:     p.loopDepth,
		fn:            fn,
	})
}

func (p *Parser) popRestart() {
	p.restarts = p.restarts[:len(p.restarts)-1]
}
