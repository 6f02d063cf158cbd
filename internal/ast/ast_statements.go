package ast

import (
	"strings"

	"github.com/funvibe/quill/internal/token"
)

type ExpressionStatement struct {
	Token      token.Token // the first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()        {}
func (es *ExpressionStatement) entryNode()            {}
func (es *ExpressionStatement) TokenLiteral() string  { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token { return es.Token }

func (es *ExpressionStatement) String() string {
	if es.Expression == nil {
		return ";"
	}
	return es.Expression.String() + ";"
}

type BlockStatement struct {
	Token      token.Token // the { token
	Statements []Statement
	RBrace     token.Token
}

func (bs *BlockStatement) statementNode()        {}
func (bs *BlockStatement) entryNode()            {}
func (bs *BlockStatement) TokenLiteral() string  { return bs.Token.Lexeme }
func (bs *BlockStatement) GetToken() token.Token { return bs.Token }

func (bs *BlockStatement) String() string {
	if len(bs.Statements) == 0 {
		return "{ }"
	}
	return "{ " + joinNodes(bs.Statements, " ") + " }"
}

// MethodBody wraps the block of a function, method, constructor or lambda.
// Executing one unwraps it to its block.
type MethodBody struct {
	Token token.Token
	Block *BlockStatement
}

func (mb *MethodBody) entryNode()            {}
func (mb *MethodBody) TokenLiteral() string  { return mb.Token.Lexeme }
func (mb *MethodBody) GetToken() token.Token { return mb.Token }
func (mb *MethodBody) String() string        { return mb.Block.String() }

type EmptyStatement struct {
	Token token.Token
}

func (es *EmptyStatement) statementNode()        {}
func (es *EmptyStatement) TokenLiteral() string  { return es.Token.Lexeme }
func (es *EmptyStatement) GetToken() token.Token { return es.Token }
func (es *EmptyStatement) String() string        { return ";" }

// VarDeclarator is one name in a declaration list: x = 1 in int x = 1, y;
type VarDeclarator struct {
	Token token.Token
	Name  string
	Value Expression // may be nil
}

func (vd *VarDeclarator) String() string {
	if vd.Value == nil {
		return vd.Name
	}
	return vd.Name + " = " + vd.Value.String()
}

type VarDeclaration struct {
	Token       token.Token // the first token of the type
	Type        *TypeRef
	Declarators []*VarDeclarator
}

func (vd *VarDeclaration) statementNode()        {}
func (vd *VarDeclaration) TokenLiteral() string  { return vd.Token.Lexeme }
func (vd *VarDeclaration) GetToken() token.Token { return vd.Token }

func (vd *VarDeclaration) String() string {
	parts := make([]string, len(vd.Declarators))
	for i, d := range vd.Declarators {
		parts[i] = d.String()
	}
	return vd.Type.String() + " " + strings.Join(parts, ", ") + ";"
}

type FunctionDeclaration struct {
	Token      token.Token // the first token of the return type
	ReturnType *TypeRef
	Name       string
	NameToken  token.Token
	Params     []*Parameter
	Body       *MethodBody
	Static     bool
}

func (fd *FunctionDeclaration) statementNode()        {}
func (fd *FunctionDeclaration) TokenLiteral() string  { return fd.Token.Lexeme }
func (fd *FunctionDeclaration) GetToken() token.Token { return fd.Token }

func (fd *FunctionDeclaration) String() string {
	prefix := ""
	if fd.Static {
		prefix = "static "
	}
	return prefix + fd.ReturnType.String() + " " + fd.Name + "(" + joinNodes(fd.Params, ", ") + ") " + fd.Body.String()
}

type FieldDeclaration struct {
	Token  token.Token
	Static bool
	Type   *TypeRef
	Name   string
	Value  Expression
}

func (fd *FieldDeclaration) String() string {
	s := fd.Type.String() + " " + fd.Name
	if fd.Static {
		s = "static " + s
	}
	if fd.Value != nil {
		s += " = " + fd.Value.String()
	}
	return s + ";"
}

type ConstructorDeclaration struct {
	Token  token.Token
	Params []*Parameter
	Body   *MethodBody
}

func (cd *ConstructorDeclaration) String() string {
	return cd.Token.Lexeme + "(" + joinNodes(cd.Params, ", ") + ") " + cd.Body.String()
}

type ClassDeclaration struct {
	Token        token.Token // the 'class' token
	Name         string
	NameToken    token.Token
	Parent       *TypeRef
	Fields       []*FieldDeclaration
	Methods      []*FunctionDeclaration
	Constructors []*ConstructorDeclaration
}

func (cd *ClassDeclaration) statementNode()        {}
func (cd *ClassDeclaration) TokenLiteral() string  { return cd.Token.Lexeme }
func (cd *ClassDeclaration) GetToken() token.Token { return cd.Token }

func (cd *ClassDeclaration) String() string {
	var out strings.Builder
	out.WriteString("class " + cd.Name)
	if cd.Parent != nil {
		out.WriteString(" : " + cd.Parent.String())
	}
	out.WriteString(" {")
	for _, f := range cd.Fields {
		out.WriteString(" " + f.String())
	}
	for _, c := range cd.Constructors {
		out.WriteString(" " + c.String())
	}
	for _, m := range cd.Methods {
		out.WriteString(" " + m.String())
	}
	out.WriteString(" }")
	return out.String()
}

type IfStatement struct {
	Token       token.Token
	Condition   Expression
	Consequence Statement
	Alternative Statement // may be nil
}

func (is *IfStatement) statementNode()        {}
func (is *IfStatement) TokenLiteral() string  { return is.Token.Lexeme }
func (is *IfStatement) GetToken() token.Token { return is.Token }

func (is *IfStatement) String() string {
	s := "if (" + is.Condition.String() + ") " + is.Consequence.String()
	if is.Alternative != nil {
		s += " else " + is.Alternative.String()
	}
	return s
}

type WhileStatement struct {
	Token     token.Token
	Condition Expression
	Body      Statement
}

func (ws *WhileStatement) statementNode()        {}
func (ws *WhileStatement) TokenLiteral() string  { return ws.Token.Lexeme }
func (ws *WhileStatement) GetToken() token.Token { return ws.Token }

func (ws *WhileStatement) String() string {
	return "while (" + ws.Condition.String() + ") " + ws.Body.String()
}

type ForStatement struct {
	Token     token.Token
	Init      Statement  // may be nil
	Condition Expression // may be nil
	Step      Expression // may be nil
	Body      Statement
}

func (fs *ForStatement) statementNode()        {}
func (fs *ForStatement) TokenLiteral() string  { return fs.Token.Lexeme }
func (fs *ForStatement) GetToken() token.Token { return fs.Token }

func (fs *ForStatement) String() string {
	init, cond, step := ";", "", ""
	if fs.Init != nil {
		init = fs.Init.String()
	}
	if fs.Condition != nil {
		cond = fs.Condition.String()
	}
	if fs.Step != nil {
		step = fs.Step.String()
	}
	return "for (" + init + " " + cond + "; " + step + ") " + fs.Body.String()
}

type ReturnStatement struct {
	Token token.Token
	Value Expression // may be nil
}

func (rs *ReturnStatement) statementNode()        {}
func (rs *ReturnStatement) TokenLiteral() string  { return rs.Token.Lexeme }
func (rs *ReturnStatement) GetToken() token.Token { return rs.Token }

func (rs *ReturnStatement) String() string {
	if rs.Value == nil {
		return "return;"
	}
	return "return " + rs.Value.String() + ";"
}

type BreakStatement struct {
	Token token.Token
}

func (bs *BreakStatement) statementNode()        {}
func (bs *BreakStatement) TokenLiteral() string  { return bs.Token.Lexeme }
func (bs *BreakStatement) GetToken() token.Token { return bs.Token }
func (bs *BreakStatement) String() string        { return "break;" }

type ContinueStatement struct {
	Token token.Token
}

func (cs *ContinueStatement) statementNode()        {}
func (cs *ContinueStatement) TokenLiteral() string  { return cs.Token.Lexeme }
func (cs *ContinueStatement) GetToken() token.Token { return cs.Token }
func (cs *ContinueStatement) String() string        { return "continue;" }

type ThrowStatement struct {
	Token token.Token
	Value Expression
}

func (ts *ThrowStatement) statementNode()        {}
func (ts *ThrowStatement) TokenLiteral() string  { return ts.Token.Lexeme }
func (ts *ThrowStatement) GetToken() token.Token { return ts.Token }
func (ts *ThrowStatement) String() string        { return "throw " + ts.Value.String() + ";" }

type CatchClause struct {
	Token token.Token
	Type  *TypeRef
	Name  string
	Body  *BlockStatement
}

func (cc *CatchClause) String() string {
	return "catch (" + cc.Type.String() + " " + cc.Name + ") " + cc.Body.String()
}

type TryStatement struct {
	Token   token.Token
	Body    *BlockStatement
	Catches []*CatchClause
	Finally *BlockStatement // may be nil
}

func (ts *TryStatement) statementNode()        {}
func (ts *TryStatement) TokenLiteral() string  { return ts.Token.Lexeme }
func (ts *TryStatement) GetToken() token.Token { return ts.Token }

func (ts *TryStatement) String() string {
	s := "try " + ts.Body.String()
	for _, c := range ts.Catches {
		s += " " + c.String()
	}
	if ts.Finally != nil {
		s += " finally " + ts.Finally.String()
	}
	return s
}
