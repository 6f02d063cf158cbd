package lexer

import (
	"testing"

	"github.com/funvibe/quill/internal/diagnostics"
	"github.com/funvibe/quill/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `int x = 10;
/* doc */
x += 2.5; // tail
if (x >= 3 && !done) { s = "a\"b"; }`

	tests := []struct {
		expectedType    token.TokenType
		expectedLexeme  string
		expectedChannel token.Channel
	}{
		{token.INT_T, "int", token.Default},
		{token.WHITESPACE, " ", token.Skipped},
		{token.IDENT, "x", token.Default},
		{token.WHITESPACE, " ", token.Skipped},
		{token.ASSIGN, "=", token.Default},
		{token.WHITESPACE, " ", token.Skipped},
		{token.INT, "10", token.Default},
		{token.SEMICOLON, ";", token.Default},
		{token.NEWLINE, "\n", token.Skipped},
		{token.BLOCK_COMMENT, "/* doc */", token.Doc},
		{token.NEWLINE, "\n", token.Skipped},
		{token.IDENT, "x", token.Default},
		{token.WHITESPACE, " ", token.Skipped},
		{token.PLUS_ASSIGN, "+=", token.Default},
		{token.WHITESPACE, " ", token.Skipped},
		{token.FLOAT, "2.5", token.Default},
		{token.SEMICOLON, ";", token.Default},
		{token.WHITESPACE, " ", token.Skipped},
		{token.LINE_COMMENT, "// tail", token.Skipped},
		{token.NEWLINE, "\n", token.Skipped},
		{token.IF, "if", token.Default},
		{token.WHITESPACE, " ", token.Skipped},
		{token.LPAREN, "(", token.Default},
		{token.IDENT, "x", token.Default},
		{token.WHITESPACE, " ", token.Skipped},
		{token.GTE, ">=", token.Default},
		{token.WHITESPACE, " ", token.Skipped},
		{token.INT, "3", token.Default},
		{token.WHITESPACE, " ", token.Skipped},
		{token.AND, "&&", token.Default},
		{token.WHITESPACE, " ", token.Skipped},
		{token.BANG, "!", token.Default},
		{token.IDENT, "done", token.Default},
		{token.RPAREN, ")", token.Default},
		{token.WHITESPACE, " ", token.Skipped},
		{token.LBRACE, "{", token.Default},
		{token.WHITESPACE, " ", token.Skipped},
		{token.IDENT, "s", token.Default},
		{token.WHITESPACE, " ", token.Skipped},
		{token.ASSIGN, "=", token.Default},
		{token.WHITESPACE, " ", token.Skipped},
		{token.STRING, `"a\"b"`, token.Default},
		{token.SEMICOLON, ";", token.Default},
		{token.WHITESPACE, " ", token.Skipped},
		{token.RBRACE, "}", token.Default},
		{token.EOF, "", token.Default},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (%q)", i, tt.expectedType, tok.Type, tok.Lexeme)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q", i, tt.expectedLexeme, tok.Lexeme)
		}
		if tok.Channel != tt.expectedChannel {
			t.Fatalf("tests[%d] - channel wrong. expected=%s, got=%s", i, tt.expectedChannel, tok.Channel)
		}
		if tok.Index != i {
			t.Fatalf("tests[%d] - index wrong. got=%d", i, tok.Index)
		}
	}
	if l.Err() != nil {
		t.Fatalf("unexpected lex error: %v", l.Err())
	}
}

func TestStringLiteralValue(t *testing.T) {
	tok := New(`"a\tb\n"`).NextToken()
	if tok.Literal != "a\tb\n" {
		t.Errorf("got literal %q", tok.Literal)
	}
}

func TestPositions(t *testing.T) {
	toks := New("a\n  bb").Tokenize()
	// a, \n, ws, bb, EOF
	if len(toks) != 5 {
		t.Fatalf("expected 5 tokens, got %d", len(toks))
	}
	bb := toks[3]
	if bb.Line != 2 || bb.Column != 3 {
		t.Errorf("bb at %d:%d, want 2:3", bb.Line, bb.Column)
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diagnostics.ErrorCode
		line  int
	}{
		{"illegal char", "int x = 1;\nx = @;", diagnostics.ErrL001, 2},
		{"unterminated string", `string s = "abc`, diagnostics.ErrL002, 1},
		{"unterminated comment", "/* never closed", diagnostics.ErrL002, 1},
		{"first error wins", "#\n$", diagnostics.ErrL001, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.input)
			toks := l.Tokenize()
			if toks[len(toks)-1].Type != token.EOF {
				t.Fatalf("stream does not end with EOF")
			}
			err := l.Err()
			if err == nil {
				t.Fatalf("expected error")
			}
			if err.Code != tt.code {
				t.Errorf("code = %s, want %s", err.Code, tt.code)
			}
			if err.Token.Line != tt.line {
				t.Errorf("line = %d, want %d", err.Token.Line, tt.line)
			}
		})
	}
}
