package token

import "fmt"

type TokenType string

// Channel separates tokens the parser consumes from tokens it never sees.
type Channel int

const (
	// Default tokens are consumed by the parser.
	Default Channel = iota
	// Doc tokens are block comments. Kept for doc lookup and directives.
	Doc
	// Skipped tokens are whitespace, newlines and line comments.
	Skipped
)

func (c Channel) String() string {
	switch c {
	case Default:
		return "default"
	case Doc:
		return "doc"
	case Skipped:
		return "skipped"
	}
	return fmt.Sprintf("channel(%d)", int(c))
}

type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Line    int
	Column  int
	// Index is the position of the token in the full token stream,
	// hidden channels included.
	Index   int
	Channel Channel
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %d:%d", t.Type, t.Lexeme, t.Line, t.Column)
}

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	WHITESPACE    = "WHITESPACE"
	NEWLINE       = "NEWLINE"
	LINE_COMMENT  = "LINE_COMMENT"
	BLOCK_COMMENT = "BLOCK_COMMENT"

	IDENT  = "IDENT"
	INT    = "INT"
	FLOAT  = "FLOAT"
	STRING = "STRING"

	// Operators
	ASSIGN       = "="
	PLUS_ASSIGN  = "+="
	MINUS_ASSIGN = "-="
	PLUS         = "+"
	MINUS        = "-"
	ASTERISK     = "*"
	SLASH        = "/"
	PERCENT      = "%"
	BANG         = "!"
	INCR         = "++"
	DECR         = "--"

	EQ     = "=="
	NOT_EQ = "!="
	LT     = "<"
	LTE    = "<="
	GT     = ">"
	GTE    = ">="
	AND    = "&&"
	OR     = "||"
	ARROW  = "=>"

	// Delimiters
	DOT       = "."
	COMMA     = ","
	SEMICOLON = ";"
	COLON     = ":"
	LPAREN    = "("
	RPAREN    = ")"
	LBRACE    = "{"
	RBRACE    = "}"
	LBRACKET  = "["
	RBRACKET  = "]"

	// Keywords
	VAR      = "VAR"
	INT_T    = "INT_T"
	FLOAT_T  = "FLOAT_T"
	BOOL_T   = "BOOL_T"
	STRING_T = "STRING_T"
	VOID     = "VOID"
	CLASS    = "CLASS"
	NEW      = "NEW"
	THIS     = "THIS"
	NULL     = "NULL"
	TRUE     = "TRUE"
	FALSE    = "FALSE"
	IF       = "IF"
	ELSE     = "ELSE"
	WHILE    = "WHILE"
	FOR      = "FOR"
	RETURN   = "RETURN"
	BREAK    = "BREAK"
	CONTINUE = "CONTINUE"
	THROW    = "THROW"
	TRY      = "TRY"
	CATCH    = "CATCH"
	FINALLY  = "FINALLY"
	INCLUDE  = "INCLUDE"
	STATIC   = "STATIC"
)

var keywords = map[string]TokenType{
	"var":      VAR,
	"int":      INT_T,
	"float":    FLOAT_T,
	"bool":     BOOL_T,
	"string":   STRING_T,
	"void":     VOID,
	"class":    CLASS,
	"new":      NEW,
	"this":     THIS,
	"null":     NULL,
	"true":     TRUE,
	"false":    FALSE,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"return":   RETURN,
	"break":    BREAK,
	"continue": CONTINUE,
	"throw":    THROW,
	"try":      TRY,
	"catch":    CATCH,
	"finally":  FINALLY,
	"include":  INCLUDE,
	"static":   STATIC,
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsBuiltinTypeKeyword reports whether t names one of the primitive types
// (or var) that may start a declaration.
func IsBuiltinTypeKeyword(t TokenType) bool {
	switch t {
	case VAR, INT_T, FLOAT_T, BOOL_T, STRING_T, VOID:
		return true
	}
	return false
}
