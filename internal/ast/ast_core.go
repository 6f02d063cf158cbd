package ast

import (
	"strings"

	"github.com/funvibe/quill/internal/token"
)

// TokenProvider is an interface for any AST node that can provide its primary token.
// This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all AST nodes.
type Node interface {
	TokenProvider
	TokenLiteral() string
	String() string
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

// Entry is the closed set of node shapes an executable can start from:
// *Program, *BlockStatement, *ExpressionStatement and *MethodBody.
type Entry interface {
	Node
	entryNode()
}

// Program is the root node of every AST our parser produces.
type Program struct {
	File       string
	Includes   []*IncludeStatement
	Statements []Statement
	// Empty marks a source with no statements and no includes.
	Empty bool
	EOF   token.Token
}

func (p *Program) GetToken() token.Token {
	if len(p.Includes) > 0 {
		return p.Includes[0].Token
	}
	if len(p.Statements) > 0 {
		return p.Statements[0].GetToken()
	}
	return p.EOF
}

func (p *Program) TokenLiteral() string { return p.GetToken().Lexeme }
func (p *Program) entryNode()           {}

func (p *Program) String() string {
	var out strings.Builder
	for _, inc := range p.Includes {
		out.WriteString(inc.String())
		out.WriteString("\n")
	}
	for _, s := range p.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

// IncludeStatement pulls another script into the current one.
// include "lib/util.quill";
type IncludeStatement struct {
	Token token.Token // the 'include' token
	Path  string
}

func (is *IncludeStatement) statementNode()        {}
func (is *IncludeStatement) TokenLiteral() string  { return is.Token.Lexeme }
func (is *IncludeStatement) GetToken() token.Token { return is.Token }
func (is *IncludeStatement) String() string        { return "include \"" + is.Path + "\";" }

func joinNodes[T Node](nodes []T, sep string) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, sep)
}
