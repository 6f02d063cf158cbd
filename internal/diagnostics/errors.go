package diagnostics

import (
	"fmt"

	"github.com/funvibe/quill/internal/token"
)

type ErrorCode string

const (
	ErrL001 ErrorCode = "L001" // illegal character
	ErrL002 ErrorCode = "L002" // unterminated literal or comment

	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // invalid construct
	ErrP003 ErrorCode = "P003" // ambiguous construct
	ErrP004 ErrorCode = "P004" // declaration not allowed here
	ErrP005 ErrorCode = "P005" // nesting too deep
)

// DiagnosticError is a located syntax fault produced while lexing or parsing.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	Message string
	File    string
}

func NewError(code ErrorCode, tok token.Token, msg string) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Message: msg}
}

func NewErrorf(code ErrorCode, tok token.Token, format string, args ...interface{}) *DiagnosticError {
	return NewError(code, tok, fmt.Sprintf(format, args...))
}

func (e *DiagnosticError) Line() int   { return e.Token.Line }
func (e *DiagnosticError) Column() int { return e.Token.Column }

func (e *DiagnosticError) Error() string {
	file := e.File
	if file == "" {
		file = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d: error [%s]: %s", file, e.Token.Line, e.Token.Column, e.Code, e.Message)
}
