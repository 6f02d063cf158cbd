package evaluator

import (
	"github.com/funvibe/quill/internal/ast"
	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/internal/errs"
	"github.com/funvibe/quill/internal/typesystem"
)

// execProgram runs the top-level statements. Declarations were handled
// before and are skipped. The value of the last statement is returned.
func (c *Context) execProgram(prog *ast.Program) (Object, error) {
	var result Object = VOID
	for _, stmt := range prog.Statements {
		switch stmt.(type) {
		case *ast.ClassDeclaration, *ast.FunctionDeclaration:
			continue
		}
		res, err := c.execStatement(stmt)
		if err != nil {
			return nil, err
		}
		if isSignal(res) {
			return res, nil
		}
		result = res
	}
	return result, nil
}

func (c *Context) execBlock(block *ast.BlockStatement) (Object, error) {
	c.fr.Scope.EnterScope()
	defer c.fr.Scope.ExitScope()
	return c.execStatements(block.Statements)
}

func (c *Context) execStatements(stmts []ast.Statement) (Object, error) {
	var result Object = VOID
	for _, stmt := range stmts {
		res, err := c.execStatement(stmt)
		if err != nil {
			return nil, err
		}
		if isSignal(res) {
			return res, nil
		}
		result = res
	}
	return result, nil
}

// execStatement runs one statement. A fault leaving it is located at the
// statement unless a nested statement already claimed the line.
func (c *Context) execStatement(stmt ast.Statement) (Object, error) {
	res, err := c.evalStatement(stmt)
	if err != nil {
		return nil, c.located(err, stmt.GetToken().Line)
	}
	return res, nil
}

func (c *Context) evalStatement(stmt ast.Statement) (Object, error) {
	switch n := stmt.(type) {
	case *ast.ExpressionStatement:
		return c.eval(n.Expression)
	case *ast.VarDeclaration:
		return VOID, c.declareVariables(n)
	case *ast.BlockStatement:
		return c.execBlock(n)
	case *ast.EmptyStatement:
		return VOID, nil
	case *ast.IfStatement:
		return c.execIf(n)
	case *ast.WhileStatement:
		return c.execWhile(n)
	case *ast.ForStatement:
		return c.execFor(n)
	case *ast.ReturnStatement:
		return c.execReturn(n)
	case *ast.BreakStatement:
		return &BreakSignal{}, nil
	case *ast.ContinueStatement:
		return &ContinueSignal{}, nil
	case *ast.ThrowStatement:
		return c.execThrow(n)
	case *ast.TryStatement:
		return c.execTry(n)
	case *ast.FunctionDeclaration, *ast.ClassDeclaration:
		return nil, c.throw(config.RuntimeCheckExceptionName, "Declarations are only allowed at the top level.")
	}
	errs.Internal("cannot execute statement %T", stmt)
	return nil, nil
}

func (c *Context) declareVariables(decl *ast.VarDeclaration) error {
	t, err := c.resolveType(decl.Type, true)
	if err != nil {
		return err
	}
	if t == typesystem.Void {
		return c.throw(config.TypeIncompatibleExceptionName, "Variables cannot be void.")
	}
	for _, d := range decl.Declarators {
		slot := NewSlot(t, defaultValue(t))
		if d.Value != nil {
			if err := c.initSlot(slot, d.Value, d.Token.Line); err != nil {
				return err
			}
		}
		if err := c.fr.Scope.Declare(d.Name, slot); err != nil {
			return err
		}
	}
	return nil
}

// coerce checks that v may be stored in a slot of type t and widens
// integers stored into float slots.
func (c *Context) coerce(t typesystem.Type, v Object) (Object, error) {
	if v == VOID {
		return nil, c.throw(config.TypeIncompatibleExceptionName, "Expression has no value.")
	}
	if !typesystem.IsAssignable(t, v.RuntimeType()) {
		return nil, c.throw(config.TypeIncompatibleExceptionName,
			"Cannot assign a value of type %s to %s.", v.RuntimeType(), t)
	}
	if i, ok := v.(*Integer); ok && t == typesystem.Float {
		return &Float{Value: float64(i.Value)}, nil
	}
	return v, nil
}

// evalWithHint evaluates expr for a slot of type t. Array literals take
// their element type from the slot.
func (c *Context) evalWithHint(expr ast.Expression, t typesystem.Type) (Object, error) {
	if lit, ok := expr.(*ast.ArrayLiteral); ok {
		if at, ok := t.(*typesystem.ArrayType); ok {
			return c.evalArrayLiteral(lit, at.Elem)
		}
	}
	return c.eval(expr)
}
