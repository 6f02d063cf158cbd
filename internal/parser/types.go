package parser

import (
	"strings"

	"github.com/funvibe/quill/internal/ast"
	"github.com/funvibe/quill/internal/token"
)

// typeAhead reports whether a type starts at token i and returns the index
// just past it. It never moves the parser.
func (p *Parser) typeAhead(i int) (int, bool) {
	tok := p.tokenAt(i)
	switch {
	case token.IsBuiltinTypeKeyword(tok.Type):
		i++
	case tok.Type == token.IDENT:
		i++
		for p.tokenAt(i).Type == token.DOT && p.tokenAt(i+1).Type == token.IDENT {
			i += 2
		}
	default:
		return i, false
	}
	for p.tokenAt(i).Type == token.LBRACKET && p.tokenAt(i+1).Type == token.RBRACKET {
		i += 2
	}
	return i, true
}

// declarationAhead reports whether the current token starts a declaration:
// a type followed by a name. A primitive keyword always does.
func (p *Parser) declarationAhead() bool {
	if token.IsBuiltinTypeKeyword(p.curToken().Type) {
		return true
	}
	end, ok := p.typeAhead(p.pos)
	return ok && p.tokenAt(end).Type == token.IDENT
}

// functionAhead reports whether the current token starts a function
// declaration: Type name (.
func (p *Parser) functionAhead() bool {
	end, ok := p.typeAhead(p.pos)
	return ok && p.tokenAt(end).Type == token.IDENT && p.tokenAt(end+1).Type == token.LPAREN
}

func (p *Parser) parseType() *ast.TypeRef {
	tok := p.curToken()
	ref := &ast.TypeRef{Token: tok}
	switch {
	case token.IsBuiltinTypeKeyword(tok.Type):
		ref.Name = tok.Lexeme
		p.nextToken()
	case tok.Type == token.IDENT:
		parts := []string{tok.Lexeme}
		p.nextToken()
		for p.curTokenIs(token.DOT) && p.peekTokenIs(token.IDENT) {
			p.nextToken()
			parts = append(parts, p.curToken().Lexeme)
			p.nextToken()
		}
		ref.Name = strings.Join(parts, ".")
	default:
		p.unexpected("a type")
	}
	for p.curTokenIs(token.LBRACKET) && p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		p.nextToken()
		ref.Dims++
	}
	return ref
}

func (p *Parser) parseParameters() []*ast.Parameter {
	p.expect(token.LPAREN, "'('")
	var params []*ast.Parameter
	for !p.curTokenIs(token.RPAREN) {
		if len(params) > 0 {
			p.expect(token.COMMA, "',' or ')'")
		}
		tok := p.curToken()
		typ := p.parseType()
		name := p.expect(token.IDENT, "a parameter name")
		params = append(params, &ast.Parameter{Token: tok, Type: typ, Name: name.Lexeme})
	}
	p.nextToken() // )
	return params
}
