package parser

import (
	"github.com/funvibe/quill/internal/ast"
	"github.com/funvibe/quill/internal/diagnostics"
	"github.com/funvibe/quill/internal/token"
)

const (
	_ int = iota
	LOWEST
	ASSIGN      // = += -=
	LOGIC_OR    // ||
	LOGIC_AND   // &&
	EQUALS      // == !=
	LESSGREATER // < <= > >=
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -x !x ++x (T)x
	POSTFIX     // f(x) a[i] a.b x++
)

var precedences = map[token.TokenType]int{
	token.ASSIGN:       ASSIGN,
	token.PLUS_ASSIGN:  ASSIGN,
	token.MINUS_ASSIGN: ASSIGN,
	token.OR:           LOGIC_OR,
	token.AND:          LOGIC_AND,
	token.EQ:           EQUALS,
	token.NOT_EQ:       EQUALS,
	token.LT:           LESSGREATER,
	token.LTE:          LESSGREATER,
	token.GT:           LESSGREATER,
	token.GTE:          LESSGREATER,
	token.PLUS:         SUM,
	token.MINUS:        SUM,
	token.ASTERISK:     PRODUCT,
	token.SLASH:        PRODUCT,
	token.PERCENT:      PRODUCT,
	token.LPAREN:       POSTFIX,
	token.LBRACKET:     POSTFIX,
	token.DOT:          POSTFIX,
	token.INCR:         POSTFIX,
	token.DECR:         POSTFIX,
}

type (
	prefixParseFn func(*Parser) ast.Expression
	infixParseFn  func(*Parser, ast.Expression) ast.Expression
)

var (
	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
)

func init() {
	prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENT:  (*Parser).parseIdentifier,
		token.INT:    (*Parser).parseIntegerLiteral,
		token.FLOAT:  (*Parser).parseFloatLiteral,
		token.STRING: (*Parser).parseStringLiteral,
		token.TRUE:   (*Parser).parseBoolean,
		token.FALSE:  (*Parser).parseBoolean,
		token.NULL:   (*Parser).parseNull,
		token.THIS:   (*Parser).parseThis,
		token.BANG:   (*Parser).parsePrefixExpression,
		token.MINUS:  (*Parser).parsePrefixExpression,
		token.INCR:   (*Parser).parsePrefixExpression,
		token.DECR:   (*Parser).parsePrefixExpression,
		token.LPAREN: (*Parser).parseParenthesized,
		token.LBRACE: (*Parser).parseArrayLiteral,
		token.NEW:    (*Parser).parseNew,
	}

	infixParseFns = map[token.TokenType]infixParseFn{
		token.ASSIGN:       (*Parser).parseAssign,
		token.PLUS_ASSIGN:  (*Parser).parseAssign,
		token.MINUS_ASSIGN: (*Parser).parseAssign,
		token.LPAREN:       (*Parser).parseCall,
		token.LBRACKET:     (*Parser).parseIndex,
		token.DOT:          (*Parser).parseMember,
		token.INCR:         (*Parser).parsePostfix,
		token.DECR:         (*Parser).parsePostfix,
	}
	for _, t := range []token.TokenType{
		token.OR, token.AND, token.EQ, token.NOT_EQ, token.LT, token.LTE, token.GT, token.GTE,
		token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.PERCENT,
	} {
		infixParseFns[t] = (*Parser).parseInfixExpression
	}
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken().Type]; ok {
		return prec
	}
	return LOWEST
}

// parseExpression parses an expression whose operators all bind tighter than
// precedence. The cursor ends on the first token after the expression.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.enter()
	defer p.leave()

	prefix := prefixParseFns[p.curToken().Type]
	if prefix == nil {
		p.unexpected("an expression")
	}
	left := prefix(p)

	for precedence < p.curPrecedence() {
		infix := infixParseFns[p.curToken().Type]
		if infix == nil {
			return left
		}
		left = infix(p, left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	tok := p.curToken()
	p.nextToken()
	return &ast.Identifier{Token: tok, Value: tok.Lexeme}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	tok := p.curToken()
	p.nextToken()
	return &ast.IntegerLiteral{Token: tok, Value: tok.Literal.(int64)}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	tok := p.curToken()
	p.nextToken()
	return &ast.FloatLiteral{Token: tok, Value: tok.Literal.(float64)}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	tok := p.curToken()
	p.nextToken()
	return &ast.StringLiteral{Token: tok, Value: tok.Literal.(string)}
}

func (p *Parser) parseBoolean() ast.Expression {
	tok := p.curToken()
	p.nextToken()
	return &ast.BooleanLiteral{Token: tok, Value: tok.Type == token.TRUE}
}

func (p *Parser) parseNull() ast.Expression {
	tok := p.curToken()
	p.nextToken()
	return &ast.NullLiteral{Token: tok}
}

func (p *Parser) parseThis() ast.Expression {
	tok := p.curToken()
	p.nextToken()
	return &ast.ThisExpression{Token: tok}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	tok := p.curToken()
	p.nextToken()
	right := p.parseExpression(PREFIX)
	if tok.Type == token.INCR || tok.Type == token.DECR {
		p.checkAssignable(right)
	}
	return &ast.PrefixExpression{Token: tok, Operator: tok.Lexeme, Right: right}
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	tok := p.curToken()
	precedence := p.curPrecedence()
	p.nextToken()
	return &ast.InfixExpression{Token: tok, Left: left, Operator: tok.Lexeme, Right: p.parseExpression(precedence)}
}

func (p *Parser) checkAssignable(target ast.Expression) {
	switch target.(type) {
	case *ast.Identifier, *ast.MemberExpression, *ast.IndexExpression:
		return
	}
	p.errorf(diagnostics.ErrP002, target.GetToken(), "invalid assignment target %s", target.String())
}

// parseAssign is right associative.
func (p *Parser) parseAssign(target ast.Expression) ast.Expression {
	p.checkAssignable(target)
	tok := p.curToken()
	p.nextToken()
	return &ast.AssignExpression{Token: tok, Target: target, Operator: tok.Lexeme, Value: p.parseExpression(ASSIGN - 1)}
}

func (p *Parser) parsePostfix(left ast.Expression) ast.Expression {
	p.checkAssignable(left)
	tok := p.curToken()
	p.nextToken()
	return &ast.PostfixExpression{Token: tok, Operator: tok.Lexeme, Left: left}
}

func (p *Parser) parseCall(fn ast.Expression) ast.Expression {
	tok := p.curToken()
	return &ast.CallExpression{Token: tok, Function: fn, Arguments: p.parseArguments()}
}

func (p *Parser) parseArguments() []ast.Expression {
	p.expect(token.LPAREN, "'('")
	var args []ast.Expression
	for !p.curTokenIs(token.RPAREN) {
		if len(args) > 0 {
			p.expect(token.COMMA, "',' or ')'")
		}
		args = append(args, p.parseExpression(ASSIGN))
	}
	p.nextToken()
	return args
}

func (p *Parser) parseIndex(left ast.Expression) ast.Expression {
	tok := p.curToken()
	p.nextToken()
	index := p.parseExpression(LOWEST)
	p.expect(token.RBRACKET, "']'")
	return &ast.IndexExpression{Token: tok, Left: left, Index: index}
}

func (p *Parser) parseMember(left ast.Expression) ast.Expression {
	tok := p.curToken()
	p.nextToken()
	name := p.expect(token.IDENT, "a member name")
	return &ast.MemberExpression{Token: tok, Left: left, Member: &ast.Identifier{Token: name, Value: name.Lexeme}}
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	lit := &ast.ArrayLiteral{Token: p.expect(token.LBRACE, "'{'")}
	for !p.curTokenIs(token.RBRACE) {
		if len(lit.Elements) > 0 {
			p.expect(token.COMMA, "',' or '}'")
		}
		lit.Elements = append(lit.Elements, p.parseExpression(ASSIGN))
	}
	p.nextToken()
	return lit
}

func (p *Parser) parseNew() ast.Expression {
	expr := &ast.NewExpression{Token: p.expect(token.NEW, "'new'")}
	typeTok := p.curToken()
	if !token.IsBuiltinTypeKeyword(typeTok.Type) && typeTok.Type != token.IDENT {
		p.unexpected("a type")
	}
	// Parse the bare name first; the dimensions follow the size.
	end, _ := p.typeAhead(p.pos)
	name := &ast.TypeRef{Token: typeTok}
	for p.pos < end && !p.curTokenIs(token.LBRACKET) {
		name.Name += p.curToken().Lexeme
		p.nextToken()
	}

	if p.curTokenIs(token.LBRACKET) && !p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		expr.Size = p.parseExpression(LOWEST)
		p.expect(token.RBRACKET, "']'")
		name.Dims = 1
		for p.curTokenIs(token.LBRACKET) && p.peekTokenIs(token.RBRACKET) {
			p.nextToken()
			p.nextToken()
			name.Dims++
		}
		expr.Type = name
		return expr
	}
	if name.Name == "var" || name.Name == "void" {
		p.errorf(diagnostics.ErrP002, typeTok, "cannot instantiate %s", name.Name)
	}
	expr.Type = name
	expr.Arguments = p.parseArguments()
	return expr
}

// parseParenthesized handles the one real decision in the expression
// grammar: ( starts a lambda, a cast or a grouped expression.
func (p *Parser) parseParenthesized() ast.Expression {
	switch p.decide(p.predictParen(), p.parenCandidates()) {
	case AltLambda:
		return p.parseLambda()
	case AltCast:
		return p.parseCast()
	default:
		return p.parseGroup()
	}
}

// predictParen is the fast-path guess from a short lookahead.
func (p *Parser) predictParen() Alternative {
	next := p.peekToken()
	switch {
	case next.Type == token.RPAREN:
		return AltLambda
	case next.Type == token.IDENT && p.tokenAt(p.pos+2).Type == token.COMMA:
		return AltLambda
	}
	if end, ok := p.typeAhead(p.pos + 1); ok {
		switch p.tokenAt(end).Type {
		case token.IDENT:
			return AltLambda
		case token.RPAREN:
			if token.IsBuiltinTypeKeyword(next.Type) {
				return AltCast
			}
		}
	}
	return AltGroup
}

func (p *Parser) parenCandidates() []Alternative {
	candidates := []Alternative{AltGroup, AltLambda}
	if end, ok := p.typeAhead(p.pos + 1); ok && p.tokenAt(end).Type == token.RPAREN {
		candidates = append(candidates, AltCast)
	}
	return candidates
}

func (p *Parser) parseGroup() ast.Expression {
	tok := p.expect(token.LPAREN, "'('")
	inner := p.parseExpression(LOWEST)
	p.expect(token.RPAREN, "')'")
	return &ast.GroupedExpression{Token: tok, Inner: inner}
}

func (p *Parser) parseCast() ast.Expression {
	tok := p.expect(token.LPAREN, "'('")
	typ := p.parseType()
	p.expect(token.RPAREN, "')'")
	return &ast.CastExpression{Token: tok, Type: typ, Value: p.parseExpression(PREFIX)}
}

func (p *Parser) parseLambda() ast.Expression {
	lambda := &ast.LambdaExpression{Token: p.expect(token.LPAREN, "'('")}
	for !p.curTokenIs(token.RPAREN) {
		if len(lambda.Params) > 0 {
			p.expect(token.COMMA, "',' or ')'")
		}
		tok := p.curToken()
		param := &ast.Parameter{Token: tok}
		if end, ok := p.typeAhead(p.pos); ok && p.tokenAt(end).Type == token.IDENT {
			param.Type = p.parseType()
		}
		param.Name = p.expect(token.IDENT, "a parameter name").Lexeme
		lambda.Params = append(lambda.Params, param)
	}
	p.nextToken()
	p.expect(token.ARROW, "'=>'")

	if !p.curTokenIs(token.LBRACE) {
		body := &ast.ExpressionStatement{Token: p.curToken()}
		body.Expression = p.parseExpression(ASSIGN - 1)
		lambda.Body = body
		return lambda
	}

	switch p.decide(AltBlockBody, []Alternative{AltBlockBody, AltArrayBody}) {
	case AltArrayBody:
		body := &ast.ExpressionStatement{Token: p.curToken()}
		body.Expression = p.parseExpression(ASSIGN - 1)
		lambda.Body = body
	default:
		lambda.Body = p.parseMethodBody()
	}
	return lambda
}
