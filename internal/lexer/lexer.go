package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/quill/internal/diagnostics"
	"github.com/funvibe/quill/internal/token"
)

// Lexer turns source text into a flat token stream. Whitespace, newlines and
// comments are emitted on hidden channels instead of being dropped, so doc
// comments and directives can be recovered from the stream later.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int
	column       int

	index int
	err   *diagnostics.DiagnosticError
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		l.readPosition = len(l.input) + 1
		l.column++
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

// Err returns the first lexical fault, if any. Later faults are dropped.
func (l *Lexer) Err() *diagnostics.DiagnosticError {
	return l.err
}

func (l *Lexer) fail(code diagnostics.ErrorCode, tok token.Token, msg string) {
	if l.err == nil {
		l.err = diagnostics.NewError(code, tok, msg)
	}
}

// Tokenize lexes the whole input. The returned stream always ends with EOF.
func (l *Lexer) Tokenize() []token.Token {
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func (l *Lexer) NextToken() token.Token {
	tok := l.next()
	tok.Index = l.index
	l.index++
	return tok
}

func (l *Lexer) next() token.Token {
	line, col := l.line, l.column
	start := l.position

	switch {
	case l.ch == 0 && l.position >= len(l.input):
		return token.Token{Type: token.EOF, Line: line, Column: col}
	case l.ch == '\n':
		l.readChar()
		return token.Token{Type: token.NEWLINE, Lexeme: "\n", Line: line, Column: col, Channel: token.Skipped}
	case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
			l.readChar()
		}
		return l.hidden(token.WHITESPACE, start, line, col, token.Skipped)
	case l.ch == '/' && l.peekChar() == '/':
		for l.ch != '\n' && !l.atEnd() {
			l.readChar()
		}
		return l.hidden(token.LINE_COMMENT, start, line, col, token.Skipped)
	case l.ch == '/' && l.peekChar() == '*':
		return l.readBlockComment(start, line, col)
	case l.ch == '"':
		return l.readString(line, col)
	case isLetter(l.ch):
		ident := l.readIdentifier()
		return token.Token{Type: token.LookupIdent(ident), Lexeme: ident, Literal: ident, Line: line, Column: col}
	case isDigit(l.ch):
		return l.readNumber(line, col)
	}

	// =, ==, =>
	switch l.ch {
	case '=':
		return l.either(line, col, map[rune]token.TokenType{'=': token.EQ, '>': token.ARROW}, token.ASSIGN)
	case '+':
		return l.either(line, col, map[rune]token.TokenType{'+': token.INCR, '=': token.PLUS_ASSIGN}, token.PLUS)
	case '-':
		return l.either(line, col, map[rune]token.TokenType{'-': token.DECR, '=': token.MINUS_ASSIGN}, token.MINUS)
	case '!':
		return l.either(line, col, map[rune]token.TokenType{'=': token.NOT_EQ}, token.BANG)
	case '<':
		return l.either(line, col, map[rune]token.TokenType{'=': token.LTE}, token.LT)
	case '>':
		return l.either(line, col, map[rune]token.TokenType{'=': token.GTE}, token.GT)
	case '&':
		if l.peekChar() == '&' {
			return l.either(line, col, map[rune]token.TokenType{'&': token.AND}, token.ILLEGAL)
		}
	case '|':
		if l.peekChar() == '|' {
			return l.either(line, col, map[rune]token.TokenType{'|': token.OR}, token.ILLEGAL)
		}
	case '*':
		return l.single(token.ASTERISK, line, col)
	case '/':
		return l.single(token.SLASH, line, col)
	case '%':
		return l.single(token.PERCENT, line, col)
	case '.':
		return l.single(token.DOT, line, col)
	case ',':
		return l.single(token.COMMA, line, col)
	case ';':
		return l.single(token.SEMICOLON, line, col)
	case ':':
		return l.single(token.COLON, line, col)
	case '(':
		return l.single(token.LPAREN, line, col)
	case ')':
		return l.single(token.RPAREN, line, col)
	case '{':
		return l.single(token.LBRACE, line, col)
	case '}':
		return l.single(token.RBRACE, line, col)
	case '[':
		return l.single(token.LBRACKET, line, col)
	case ']':
		return l.single(token.RBRACKET, line, col)
	}

	tok := l.single(token.ILLEGAL, line, col)
	l.fail(diagnostics.ErrL001, tok, "illegal character "+strconv.Quote(tok.Lexeme))
	return tok
}

func (l *Lexer) atEnd() bool {
	return l.position >= len(l.input)
}

func (l *Lexer) hidden(t token.TokenType, start, line, col int, ch token.Channel) token.Token {
	lexeme := l.input[start:min(l.position, len(l.input))]
	return token.Token{Type: t, Lexeme: lexeme, Literal: lexeme, Line: line, Column: col, Channel: ch}
}

func (l *Lexer) single(t token.TokenType, line, col int) token.Token {
	lexeme := string(l.ch)
	l.readChar()
	return token.Token{Type: t, Lexeme: lexeme, Literal: lexeme, Line: line, Column: col}
}

// either consumes a one- or two-character operator.
func (l *Lexer) either(line, col int, second map[rune]token.TokenType, fallback token.TokenType) token.Token {
	if t, ok := second[l.peekChar()]; ok {
		lexeme := string(l.ch) + string(l.peekChar())
		l.readChar()
		l.readChar()
		return token.Token{Type: t, Lexeme: lexeme, Literal: lexeme, Line: line, Column: col}
	}
	return l.single(fallback, line, col)
}

func (l *Lexer) readBlockComment(start, line, col int) token.Token {
	l.readChar() // /
	l.readChar() // *
	for !l.atEnd() {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return l.hidden(token.BLOCK_COMMENT, start, line, col, token.Doc)
		}
		l.readChar()
	}
	tok := l.hidden(token.BLOCK_COMMENT, start, line, col, token.Doc)
	l.fail(diagnostics.ErrL002, tok, "unterminated block comment")
	return tok
}

func (l *Lexer) readString(line, col int) token.Token {
	start := l.position
	l.readChar() // opening "
	var sb strings.Builder
	for {
		if l.atEnd() || l.ch == '\n' {
			tok := token.Token{Type: token.ILLEGAL, Lexeme: l.input[start:min(l.position, len(l.input))], Line: line, Column: col}
			l.fail(diagnostics.ErrL002, tok, "unterminated string literal")
			return tok
		}
		if l.ch == '"' {
			l.readChar()
			break
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			case '"':
				sb.WriteRune('"')
			case '\\':
				sb.WriteRune('\\')
			default:
				sb.WriteRune('\\')
				sb.WriteRune(l.ch)
			}
			l.readChar()
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return token.Token{Type: token.STRING, Lexeme: l.input[start:l.position], Literal: sb.String(), Line: line, Column: col}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber(line, col int) token.Token {
	position := l.position
	isFloat := false
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar() // .
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	lexeme := l.input[position:l.position]

	if isFloat {
		val, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			tok := token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: err.Error(), Line: line, Column: col}
			l.fail(diagnostics.ErrL001, tok, "invalid float literal "+lexeme)
			return tok
		}
		return token.Token{Type: token.FLOAT, Lexeme: lexeme, Literal: val, Line: line, Column: col}
	}
	val, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		tok := token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: "integer overflow", Line: line, Column: col}
		l.fail(diagnostics.ErrL001, tok, "integer literal out of range: "+lexeme)
		return tok
	}
	return token.Token{Type: token.INT, Lexeme: lexeme, Literal: val, Line: line, Column: col}
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || (ch >= 0x80 && unicode.IsLetter(ch))
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}
