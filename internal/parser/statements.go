package parser

import (
	"github.com/funvibe/quill/internal/ast"
	"github.com/funvibe/quill/internal/diagnostics"
	"github.com/funvibe/quill/internal/token"
)

func (p *Parser) parseInclude() *ast.IncludeStatement {
	tok := p.expect(token.INCLUDE, "'include'")
	path := p.expect(token.STRING, "a script path")
	p.expect(token.SEMICOLON, "';'")
	return &ast.IncludeStatement{Token: tok, Path: path.Literal.(string)}
}

func (p *Parser) parseTopLevel() ast.Statement {
	switch {
	case p.curTokenIs(token.INCLUDE):
		p.errorf(diagnostics.ErrP004, p.curToken(), "include must precede all other statements")
	case p.curTokenIs(token.CLASS):
		return p.parseClass()
	case p.functionAhead():
		return p.parseFunction(false)
	}
	return p.parseStatement()
}

func (p *Parser) parseStatement() ast.Statement {
	p.pushRestart(func(q *Parser) { q.parseStatement() })
	defer p.popRestart()
	p.enter()
	defer p.leave()

	tok := p.curToken()
	switch tok.Type {
	case token.LBRACE:
		return p.parseBlock()
	case token.SEMICOLON:
		p.nextToken()
		return &ast.EmptyStatement{Token: tok}
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK, token.CONTINUE:
		if p.loopDepth == 0 {
			p.errorf(diagnostics.ErrP004, tok, "%s outside of a loop", tok.Lexeme)
		}
		p.nextToken()
		p.expect(token.SEMICOLON, "';'")
		if tok.Type == token.BREAK {
			return &ast.BreakStatement{Token: tok}
		}
		return &ast.ContinueStatement{Token: tok}
	case token.THROW:
		p.nextToken()
		value := p.parseExpression(LOWEST)
		p.expect(token.SEMICOLON, "';'")
		return &ast.ThrowStatement{Token: tok, Value: value}
	case token.TRY:
		return p.parseTry()
	case token.CLASS:
		p.errorf(diagnostics.ErrP004, tok, "class declarations are only allowed at the top level")
	case token.INCLUDE:
		p.errorf(diagnostics.ErrP004, tok, "include must precede all other statements")
	}

	if p.functionAhead() {
		p.errorf(diagnostics.ErrP004, tok, "function declarations are only allowed at the top level")
	}
	if p.declarationAhead() {
		return p.parseVarDeclaration()
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	stmt := &ast.ExpressionStatement{Token: p.curToken()}
	stmt.Expression = p.parseExpression(LOWEST)
	p.expect(token.SEMICOLON, "';'")
	return stmt
}

func (p *Parser) parseBlock() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.expect(token.LBRACE, "'{'")}
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.unexpected("'}'")
		}
		block.Statements = append(block.Statements, p.parseStatement())
	}
	block.RBrace = p.curToken()
	p.nextToken()
	return block
}

func (p *Parser) parseVarDeclaration() *ast.VarDeclaration {
	decl := &ast.VarDeclaration{Token: p.curToken()}
	decl.Type = p.parseType()
	if decl.Type.Name == "void" {
		p.errorf(diagnostics.ErrP002, decl.Token, "variables cannot be declared void")
	}
	for {
		name := p.expect(token.IDENT, "a variable name")
		d := &ast.VarDeclarator{Token: name, Name: name.Lexeme}
		if p.curTokenIs(token.ASSIGN) {
			p.nextToken()
			d.Value = p.parseExpression(ASSIGN)
		}
		decl.Declarators = append(decl.Declarators, d)
		if !p.curTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	p.expect(token.SEMICOLON, "';'")
	return decl
}

func (p *Parser) parseMethodBody() *ast.MethodBody {
	p.functionDepth++
	outerLoops := p.loopDepth
	p.loopDepth = 0
	defer func() {
		p.functionDepth--
		p.loopDepth = outerLoops
	}()
	tok := p.curToken()
	return &ast.MethodBody{Token: tok, Block: p.parseBlock()}
}

func (p *Parser) parseFunction(static bool) *ast.FunctionDeclaration {
	fn := &ast.FunctionDeclaration{Token: p.curToken(), Static: static}
	fn.ReturnType = p.parseType()
	fn.NameToken = p.expect(token.IDENT, "a function name")
	fn.Name = fn.NameToken.Lexeme
	fn.Params = p.parseParameters()
	fn.Body = p.parseMethodBody()
	return fn
}

func (p *Parser) parseClass() *ast.ClassDeclaration {
	class := &ast.ClassDeclaration{Token: p.expect(token.CLASS, "'class'")}
	class.NameToken = p.expect(token.IDENT, "a class name")
	class.Name = class.NameToken.Lexeme
	if p.curTokenIs(token.COLON) {
		p.nextToken()
		class.Parent = p.parseType()
		if class.Parent.Dims > 0 {
			p.errorf(diagnostics.ErrP002, class.Parent.Token, "a class cannot extend an array type")
		}
	}
	p.expect(token.LBRACE, "'{'")
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.unexpected("'}'")
		}
		p.pushRestart(func(q *Parser) { q.parseClassMember(&ast.ClassDeclaration{Name: class.Name}) })
		p.parseClassMember(class)
		p.popRestart()
	}
	p.nextToken()
	return class
}

func (p *Parser) parseClassMember(class *ast.ClassDeclaration) {
	tok := p.curToken()
	static := false
	if p.curTokenIs(token.STATIC) {
		static = true
		p.nextToken()
	}

	if p.curTokenIs(token.IDENT) && p.curToken().Lexeme == class.Name && p.peekTokenIs(token.LPAREN) {
		if static {
			p.errorf(diagnostics.ErrP002, tok, "constructors cannot be static")
		}
		ctor := &ast.ConstructorDeclaration{Token: p.curToken()}
		p.nextToken()
		ctor.Params = p.parseParameters()
		ctor.Body = p.parseMethodBody()
		class.Constructors = append(class.Constructors, ctor)
		return
	}

	if p.functionAhead() {
		class.Methods = append(class.Methods, p.parseFunction(static))
		return
	}

	field := &ast.FieldDeclaration{Token: tok, Static: static}
	field.Type = p.parseType()
	field.Name = p.expect(token.IDENT, "a member name").Lexeme
	if p.curTokenIs(token.ASSIGN) {
		p.nextToken()
		field.Value = p.parseExpression(ASSIGN)
	}
	p.expect(token.SEMICOLON, "';'")
	class.Fields = append(class.Fields, field)
}

func (p *Parser) parseCondition() ast.Expression {
	p.expect(token.LPAREN, "'('")
	cond := p.parseExpression(LOWEST)
	p.expect(token.RPAREN, "')'")
	return cond
}

func (p *Parser) parseIf() *ast.IfStatement {
	stmt := &ast.IfStatement{Token: p.expect(token.IF, "'if'")}
	stmt.Condition = p.parseCondition()
	stmt.Consequence = p.parseStatement()
	if p.curTokenIs(token.ELSE) {
		p.nextToken()
		stmt.Alternative = p.parseStatement()
	}
	return stmt
}

func (p *Parser) parseLoopBody() ast.Statement {
	p.loopDepth++
	defer func() { p.loopDepth-- }()
	return p.parseStatement()
}

func (p *Parser) parseWhile() *ast.WhileStatement {
	stmt := &ast.WhileStatement{Token: p.expect(token.WHILE, "'while'")}
	stmt.Condition = p.parseCondition()
	stmt.Body = p.parseLoopBody()
	return stmt
}

func (p *Parser) parseFor() *ast.ForStatement {
	stmt := &ast.ForStatement{Token: p.expect(token.FOR, "'for'")}
	p.expect(token.LPAREN, "'('")
	switch {
	case p.curTokenIs(token.SEMICOLON):
		p.nextToken()
	case p.declarationAhead():
		stmt.Init = p.parseVarDeclaration()
	default:
		stmt.Init = p.parseExpressionStatement()
	}
	if !p.curTokenIs(token.SEMICOLON) {
		stmt.Condition = p.parseExpression(LOWEST)
	}
	p.expect(token.SEMICOLON, "';'")
	if !p.curTokenIs(token.RPAREN) {
		stmt.Step = p.parseExpression(LOWEST)
	}
	p.expect(token.RPAREN, "')'")
	stmt.Body = p.parseLoopBody()
	return stmt
}

func (p *Parser) parseReturn() *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{Token: p.expect(token.RETURN, "'return'")}
	if !p.curTokenIs(token.SEMICOLON) {
		stmt.Value = p.parseExpression(LOWEST)
	}
	p.expect(token.SEMICOLON, "';'")
	return stmt
}

func (p *Parser) parseTry() *ast.TryStatement {
	stmt := &ast.TryStatement{Token: p.expect(token.TRY, "'try'")}
	stmt.Body = p.parseBlock()
	for p.curTokenIs(token.CATCH) {
		clause := &ast.CatchClause{Token: p.curToken()}
		p.nextToken()
		p.expect(token.LPAREN, "'('")
		clause.Type = p.parseType()
		clause.Name = p.expect(token.IDENT, "a variable name").Lexeme
		p.expect(token.RPAREN, "')'")
		clause.Body = p.parseBlock()
		stmt.Catches = append(stmt.Catches, clause)
	}
	if p.curTokenIs(token.FINALLY) {
		p.nextToken()
		stmt.Finally = p.parseBlock()
	}
	if len(stmt.Catches) == 0 && stmt.Finally == nil {
		p.errorf(diagnostics.ErrP002, stmt.Token, "try requires at least one catch or a finally block")
	}
	return stmt
}
