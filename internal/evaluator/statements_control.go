package evaluator

import (
	"github.com/funvibe/quill/internal/ast"
	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/internal/exception"
	"github.com/funvibe/quill/internal/typesystem"
)

func (c *Context) condition(expr ast.Expression) (bool, error) {
	v, err := c.eval(expr)
	if err != nil {
		return false, err
	}
	b, ok := v.(*Boolean)
	if !ok {
		return false, c.throw(config.TypeIncompatibleExceptionName, "Condition must be a Bool, got %s.", v.RuntimeType())
	}
	return b.Value, nil
}

func (c *Context) execIf(n *ast.IfStatement) (Object, error) {
	ok, err := c.condition(n.Condition)
	if err != nil {
		return nil, err
	}
	switch {
	case ok:
		return c.execStatement(n.Consequence)
	case n.Alternative != nil:
		return c.execStatement(n.Alternative)
	}
	return VOID, nil
}

// loopBody runs one iteration. stop is set when the loop must end; a
// return signal is passed on in res.
func (c *Context) loopBody(body ast.Statement) (res Object, stop bool, err error) {
	res, err = c.execStatement(body)
	if err != nil {
		return nil, true, err
	}
	switch res.(type) {
	case *BreakSignal:
		return VOID, true, nil
	case *ReturnValue:
		return res, true, nil
	}
	return VOID, false, nil
}

func (c *Context) execWhile(n *ast.WhileStatement) (Object, error) {
	for {
		ok, err := c.condition(n.Condition)
		if err != nil {
			return nil, err
		}
		if !ok {
			return VOID, nil
		}
		res, stop, err := c.loopBody(n.Body)
		if stop {
			return res, err
		}
	}
}

func (c *Context) execFor(n *ast.ForStatement) (Object, error) {
	c.fr.Scope.EnterScope()
	defer c.fr.Scope.ExitScope()
	if n.Init != nil {
		if _, err := c.execStatement(n.Init); err != nil {
			return nil, err
		}
	}
	for {
		if n.Condition != nil {
			ok, err := c.condition(n.Condition)
			if err != nil {
				return nil, err
			}
			if !ok {
				return VOID, nil
			}
		}
		res, stop, err := c.loopBody(n.Body)
		if stop {
			return res, err
		}
		if n.Step != nil {
			if _, err := c.eval(n.Step); err != nil {
				return nil, err
			}
		}
	}
}

func (c *Context) execReturn(n *ast.ReturnStatement) (Object, error) {
	if n.Value == nil {
		return &ReturnValue{Value: VOID}, nil
	}
	v, err := c.eval(n.Value)
	if err != nil {
		return nil, err
	}
	return &ReturnValue{Value: v}, nil
}

func (c *Context) execThrow(n *ast.ThrowStatement) (Object, error) {
	v, err := c.eval(n.Value)
	if err != nil {
		return nil, err
	}
	if v == NULL {
		return nil, c.throw(config.NullReferenceExceptionName, "Cannot throw null.")
	}
	return nil, c.raise(v)
}

// execTry runs the protected block, the first matching catch clause and
// the finally block. Fatal faults skip the catch clauses. A fault or signal
// leaving finally replaces the outcome of the rest.
func (c *Context) execTry(n *ast.TryStatement) (Object, error) {
	res, err := c.execBlock(n.Body)
	if err != nil {
		car := c.rt.Exceptions.Convert(err)
		err = car
		if !car.IsFatal() {
			clause, inst, cerr := c.matchCatch(n.Catches, car)
			switch {
			case cerr != nil:
				err = cerr
			case clause != nil:
				res, err = c.execCatch(clause, inst)
			}
		}
	}
	if n.Finally != nil {
		fres, ferr := c.execBlock(n.Finally)
		if ferr != nil {
			return nil, ferr
		}
		if isSignal(fres) {
			return fres, nil
		}
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Context) matchCatch(clauses []*ast.CatchClause, car *exception.Carrier) (*ast.CatchClause, *Instance, error) {
	inst, ok := payload(car)
	if !ok {
		return nil, nil, nil
	}
	for _, clause := range clauses {
		class, err := c.resolveClass(clause.Type)
		if err != nil {
			return nil, nil, c.located(err, clause.Token.Line)
		}
		if inst.Class.IsDerivedFrom(class) {
			return clause, inst, nil
		}
	}
	return nil, nil, nil
}

func (c *Context) execCatch(clause *ast.CatchClause, inst *Instance) (Object, error) {
	c.fr.Scope.EnterScope()
	defer c.fr.Scope.ExitScope()
	var t typesystem.Type = inst.Class
	if err := c.fr.Scope.Declare(clause.Name, NewSlot(t, inst)); err != nil {
		return nil, err
	}
	return c.execStatements(clause.Body.Statements)
}
