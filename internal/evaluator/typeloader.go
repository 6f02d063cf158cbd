package evaluator

import (
	"github.com/funvibe/quill/internal/ast"
	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/internal/symbols"
	"github.com/funvibe/quill/internal/typesystem"
)

func classDeclarations(prog *ast.Program) []*ast.ClassDeclaration {
	if prog == nil {
		return nil
	}
	var out []*ast.ClassDeclaration
	for _, stmt := range prog.Statements {
		if cd, ok := stmt.(*ast.ClassDeclaration); ok {
			out = append(out, cd)
		}
	}
	return out
}

func qualify(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}

// loadClasses registers a batch of class declarations in three phases. All
// names are registered unfinalized first so members may refer to any class
// of the batch; members are then resolved and the whole batch is finalized
// at once. A failure before finalization evicts the batch. Static fields
// are initialized last, in declaration order.
func (c *Context) loadClasses(decls []*ast.ClassDeclaration, namespace string) error {
	if len(decls) == 0 {
		return nil
	}
	classes := make([]*typesystem.ClassType, 0, len(decls))
	names := make([]string, 0, len(decls))

	for _, decl := range decls {
		name := qualify(namespace, decl.Name)
		class := typesystem.NewClassType(name, nil)
		class.Decl = decl
		class.File = c.File()
		if err := c.rt.Registry.Register(name, class, false); err != nil {
			c.rt.Registry.EvictUnfinalized(names...)
			return c.throwAt(decl.NameToken.Line, config.RuntimeCheckExceptionName,
				"Type %s is already defined.", name)
		}
		classes = append(classes, class)
		names = append(names, name)
	}

	for _, class := range classes {
		if err := c.resolveMembers(class); err != nil {
			c.rt.Registry.EvictUnfinalized(names...)
			return err
		}
	}
	for _, class := range classes {
		if err := c.checkHierarchy(class); err != nil {
			c.rt.Registry.EvictUnfinalized(names...)
			return err
		}
	}

	c.rt.Registry.Finalize(names...)
	c.rt.debug("classes loaded", "namespace", namespace, "count", len(names))

	for _, class := range classes {
		if err := c.initStatics(class); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) resolveMembers(class *typesystem.ClassType) error {
	decl := class.Decl
	if decl.Parent != nil {
		t, err := c.resolveType(decl.Parent, false)
		if err != nil {
			return c.located(err, decl.Parent.Token.Line)
		}
		parent, ok := t.(*typesystem.ClassType)
		if !ok || decl.Parent.Dims > 0 {
			return c.throwAt(decl.Parent.Token.Line, config.TypeIncompatibleExceptionName,
				"Class %s cannot extend %s.", class.Name(), t)
		}
		class.Parent = parent
	}

	for _, fd := range decl.Fields {
		t, err := c.resolveType(fd.Type, false)
		if err != nil {
			return c.located(err, fd.Token.Line)
		}
		if t == typesystem.Void {
			return c.throwAt(fd.Token.Line, config.TypeIncompatibleExceptionName,
				"Field %s.%s cannot be void.", class.Name(), fd.Name)
		}
		for _, existing := range class.Fields {
			if existing.Name == fd.Name {
				return c.throwAt(fd.Token.Line, config.RuntimeCheckExceptionName,
					"Field %s.%s is already defined.", class.Name(), fd.Name)
			}
		}
		class.Fields = append(class.Fields, &typesystem.Field{Name: fd.Name, Type: t, Static: fd.Static, Decl: fd})
	}

	for _, md := range decl.Methods {
		if _, exists := class.Methods[md.Name]; exists {
			return c.throwAt(md.NameToken.Line, config.RuntimeCheckExceptionName,
				"Method %s.%s is already defined.", class.Name(), md.Name)
		}
		fn, err := c.newFunction(class.Name()+"."+md.Name, md.Params, md.ReturnType, md.Body, false)
		if err != nil {
			return c.located(err, md.NameToken.Line)
		}
		fn.Class = class
		class.Methods[md.Name] = &typesystem.Method{
			Name:   md.Name,
			Params: fn.ParamTypes,
			Return: fn.Return,
			Static: md.Static,
			Owner:  class,
			Decl:   md,
			Impl:   fn,
		}
	}

	for _, cd := range decl.Constructors {
		if _, exists := class.Constructor(len(cd.Params)); exists {
			return c.throwAt(cd.Token.Line, config.RuntimeCheckExceptionName,
				"Class %s already has a constructor taking %d arguments.", class.Name(), len(cd.Params))
		}
		fn, err := c.newFunction(class.Name(), cd.Params, nil, cd.Body, false)
		if err != nil {
			return c.located(err, cd.Token.Line)
		}
		fn.Return = typesystem.Void
		fn.Class = class
		class.Constructors = append(class.Constructors, &typesystem.Method{
			Name:   class.ShortName(),
			Params: fn.ParamTypes,
			Owner:  class,
			Ctor:   cd,
			Impl:   fn,
		})
	}
	return nil
}

// checkHierarchy rejects inheritance cycles, which can only be built within
// one batch.
func (c *Context) checkHierarchy(class *typesystem.ClassType) error {
	seen := map[*typesystem.ClassType]bool{}
	for t := class; t != nil; t = t.Parent {
		if seen[t] {
			return c.throwAt(class.Decl.NameToken.Line, config.RuntimeCheckExceptionName,
				"Class %s inherits from itself.", class.Name())
		}
		seen[t] = true
	}
	return nil
}

// initStatics creates the static slots of class in its registry value and
// runs their initializers in a frame of their own.
func (c *Context) initStatics(class *typesystem.ClassType) error {
	value, ok := c.rt.Registry.Value(class.Name())
	if !ok {
		return nil
	}
	var statics []*typesystem.Field
	for _, f := range class.Fields {
		if f.Static {
			value.Set(f.Name, NewSlot(f.Type, defaultValue(f.Type)))
			statics = append(statics, f)
		}
	}
	if len(statics) == 0 {
		return nil
	}
	frame := &Frame{
		Scope:      symbols.NewTable(c.fr.Scope.Globals()),
		Namespaces: c.fr.Namespaces,
		Info:       FrameInfo{Name: class.Name() + ".<clinit>", File: c.File()},
		Class:      class,
	}
	_, err := c.th.runFrame(frame, func(ic *Context) (Object, error) {
		for _, f := range statics {
			if f.Decl == nil || f.Decl.Value == nil {
				continue
			}
			raw, _ := value.Get(f.Name)
			if err := ic.initSlot(raw.(*Slot), f.Decl.Value, f.Decl.Token.Line); err != nil {
				return nil, err
			}
		}
		return VOID, nil
	})
	return err
}

// initSlot evaluates an initializer into slot, attributing a fault to line.
func (c *Context) initSlot(slot *Slot, expr ast.Expression, line int) error {
	v, err := c.evalWithHint(expr, slot.Type)
	if err == nil {
		v, err = c.coerce(slot.Type, v)
	}
	if err != nil {
		return c.located(err, line)
	}
	slot.Value = v
	return nil
}

// located converts err and gives it line unless an inner location is set.
func (c *Context) located(err error, line int) error {
	car := c.rt.Exceptions.Convert(err)
	car.SetLocationIfUnset(c.File(), line)
	return car
}
