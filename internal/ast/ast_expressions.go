package ast

import (
	"strconv"

	"github.com/funvibe/quill/internal/token"
)

type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()       {}
func (i *Identifier) TokenLiteral() string  { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token { return i.Token }
func (i *Identifier) String() string        { return i.Value }

type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()       {}
func (il *IntegerLiteral) TokenLiteral() string  { return il.Token.Lexeme }
func (il *IntegerLiteral) GetToken() token.Token { return il.Token }
func (il *IntegerLiteral) String() string        { return il.Token.Lexeme }

type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (fl *FloatLiteral) expressionNode()       {}
func (fl *FloatLiteral) TokenLiteral() string  { return fl.Token.Lexeme }
func (fl *FloatLiteral) GetToken() token.Token { return fl.Token }
func (fl *FloatLiteral) String() string        { return fl.Token.Lexeme }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()       {}
func (sl *StringLiteral) TokenLiteral() string  { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token { return sl.Token }
func (sl *StringLiteral) String() string        { return strconv.Quote(sl.Value) }

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()       {}
func (bl *BooleanLiteral) TokenLiteral() string  { return bl.Token.Lexeme }
func (bl *BooleanLiteral) GetToken() token.Token { return bl.Token }
func (bl *BooleanLiteral) String() string        { return bl.Token.Lexeme }

type NullLiteral struct {
	Token token.Token
}

func (nl *NullLiteral) expressionNode()       {}
func (nl *NullLiteral) TokenLiteral() string  { return nl.Token.Lexeme }
func (nl *NullLiteral) GetToken() token.Token { return nl.Token }
func (nl *NullLiteral) String() string        { return "null" }

type ThisExpression struct {
	Token token.Token
}

func (te *ThisExpression) expressionNode()       {}
func (te *ThisExpression) TokenLiteral() string  { return te.Token.Lexeme }
func (te *ThisExpression) GetToken() token.Token { return te.Token }
func (te *ThisExpression) String() string        { return "this" }

type PrefixExpression struct {
	Token    token.Token // the operator token
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()       {}
func (pe *PrefixExpression) TokenLiteral() string  { return pe.Token.Lexeme }
func (pe *PrefixExpression) GetToken() token.Token { return pe.Token }
func (pe *PrefixExpression) String() string        { return "(" + pe.Operator + pe.Right.String() + ")" }

// PostfixExpression is x++ or x--.
type PostfixExpression struct {
	Token    token.Token // the operator token
	Operator string
	Left     Expression
}

func (pe *PostfixExpression) expressionNode()       {}
func (pe *PostfixExpression) TokenLiteral() string  { return pe.Token.Lexeme }
func (pe *PostfixExpression) GetToken() token.Token { return pe.Token }
func (pe *PostfixExpression) String() string        { return "(" + pe.Left.String() + pe.Operator + ")" }

type InfixExpression struct {
	Token    token.Token // the operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()       {}
func (ie *InfixExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *InfixExpression) GetToken() token.Token { return ie.Token }

func (ie *InfixExpression) String() string {
	return "(" + ie.Left.String() + " " + ie.Operator + " " + ie.Right.String() + ")"
}

// AssignExpression is target = value, target += value or target -= value.
type AssignExpression struct {
	Token    token.Token // the operator token
	Target   Expression
	Operator string
	Value    Expression
}

func (ae *AssignExpression) expressionNode()       {}
func (ae *AssignExpression) TokenLiteral() string  { return ae.Token.Lexeme }
func (ae *AssignExpression) GetToken() token.Token { return ae.Token }

func (ae *AssignExpression) String() string {
	return ae.Target.String() + " " + ae.Operator + " " + ae.Value.String()
}

// GroupedExpression keeps explicit parentheses so that the cast/group
// choice stays visible in the tree.
type GroupedExpression struct {
	Token token.Token // the ( token
	Inner Expression
}

func (ge *GroupedExpression) expressionNode()       {}
func (ge *GroupedExpression) TokenLiteral() string  { return ge.Token.Lexeme }
func (ge *GroupedExpression) GetToken() token.Token { return ge.Token }
func (ge *GroupedExpression) String() string        { return "[" + ge.Inner.String() + "]" }

type CastExpression struct {
	Token token.Token // the ( token
	Type  *TypeRef
	Value Expression
}

func (ce *CastExpression) expressionNode()       {}
func (ce *CastExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *CastExpression) GetToken() token.Token { return ce.Token }

func (ce *CastExpression) String() string {
	return "cast<" + ce.Type.String() + ">(" + ce.Value.String() + ")"
}

type CallExpression struct {
	Token     token.Token // the ( token
	Function  Expression
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()       {}
func (ce *CallExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token { return ce.Token }

func (ce *CallExpression) String() string {
	return ce.Function.String() + "(" + joinNodes(ce.Arguments, ", ") + ")"
}

type IndexExpression struct {
	Token token.Token // the [ token
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) expressionNode()       {}
func (ie *IndexExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *IndexExpression) GetToken() token.Token { return ie.Token }
func (ie *IndexExpression) String() string        { return ie.Left.String() + "[" + ie.Index.String() + "]" }

type MemberExpression struct {
	Token  token.Token // the . token
	Left   Expression
	Member *Identifier
}

func (me *MemberExpression) expressionNode()       {}
func (me *MemberExpression) TokenLiteral() string  { return me.Token.Lexeme }
func (me *MemberExpression) GetToken() token.Token { return me.Token }
func (me *MemberExpression) String() string        { return me.Left.String() + "." + me.Member.Value }

// NewExpression is new T(args) or new T[size].
type NewExpression struct {
	Token     token.Token // the 'new' token
	Type      *TypeRef
	Arguments []Expression
	Size      Expression // set for array creation
}

func (ne *NewExpression) expressionNode()       {}
func (ne *NewExpression) TokenLiteral() string  { return ne.Token.Lexeme }
func (ne *NewExpression) GetToken() token.Token { return ne.Token }

func (ne *NewExpression) String() string {
	if ne.Size != nil {
		return "new " + ne.Type.Element().String() + "[" + ne.Size.String() + "]"
	}
	return "new " + ne.Type.String() + "(" + joinNodes(ne.Arguments, ", ") + ")"
}

// ArrayLiteral is {a, b, c} in expression position.
type ArrayLiteral struct {
	Token    token.Token // the { token
	Elements []Expression
}

func (al *ArrayLiteral) expressionNode()       {}
func (al *ArrayLiteral) TokenLiteral() string  { return al.Token.Lexeme }
func (al *ArrayLiteral) GetToken() token.Token { return al.Token }
func (al *ArrayLiteral) String() string        { return "{" + joinNodes(al.Elements, ", ") + "}" }

// LambdaExpression is (params) => body. Body is a *MethodBody for a block
// body or an *ExpressionStatement for an expression body.
type LambdaExpression struct {
	Token  token.Token // the ( token
	Params []*Parameter
	Body   Entry
}

func (le *LambdaExpression) expressionNode()       {}
func (le *LambdaExpression) TokenLiteral() string  { return le.Token.Lexeme }
func (le *LambdaExpression) GetToken() token.Token { return le.Token }

func (le *LambdaExpression) String() string {
	body := le.Body.String()
	if es, ok := le.Body.(*ExpressionStatement); ok {
		body = es.Expression.String()
	}
	return "(" + joinNodes(le.Params, ", ") + ") => " + body
}
