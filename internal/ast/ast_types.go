package ast

import (
	"strings"

	"github.com/funvibe/quill/internal/token"
)

// TypeRef is a type as written in source: int, var, Shape, geo.Point[][].
type TypeRef struct {
	Token token.Token
	Name  string // dotted name, or a primitive keyword
	Dims  int    // number of [] suffixes
}

func (t *TypeRef) TokenLiteral() string  { return t.Token.Lexeme }
func (t *TypeRef) GetToken() token.Token { return t.Token }

func (t *TypeRef) String() string {
	if t == nil {
		return ""
	}
	return t.Name + strings.Repeat("[]", t.Dims)
}

// IsVar reports whether the declared type is left to the runtime value.
func (t *TypeRef) IsVar() bool {
	return t == nil || (t.Name == "var" && t.Dims == 0)
}

// Element returns the type with one array dimension removed.
func (t *TypeRef) Element() *TypeRef {
	return &TypeRef{Token: t.Token, Name: t.Name, Dims: t.Dims - 1}
}

// Parameter is a formal parameter. Type is nil for untyped lambda params.
type Parameter struct {
	Token token.Token
	Type  *TypeRef
	Name  string
}

func (p *Parameter) TokenLiteral() string  { return p.Token.Lexeme }
func (p *Parameter) GetToken() token.Token { return p.Token }

func (p *Parameter) String() string {
	if p.Type == nil {
		return p.Name
	}
	return p.Type.String() + " " + p.Name
}
