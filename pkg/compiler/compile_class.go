package compiler

import (
	"flc/pkg/errors"
	"flc/pkg/parser"
)

// constructorName is the member that becomes the JS constructor.
const constructorName = "init"

// memberKey is the output spelling of a class member. JS reserves the
// name constructor for the real constructor, as a field and as #name.
func memberKey(name string, private bool) string {
	if name == "constructor" {
		name = "$" + name
	}
	if private {
		return "#" + name
	}
	return name
}

type classContext struct {
	private   map[string]bool // Members declared with keep
	hasParent bool
}

func (c *Compiler) currentClass() *classContext {
	if len(c.classStack) == 0 {
		return nil
	}
	return c.classStack[len(c.classStack)-1]
}

// compileClass writes `class Name extends Parent { ... }` with no trailing
// newline. Closure members become methods, everything else a field; keep
// members are private (#name).
func (c *Compiler) compileClass(cls *parser.ClassExpression) errors.FlcError {
	c.write("class")
	if cls.Name != "" {
		c.write(" " + jsName(cls.Name))
	}
	if cls.Parent != nil {
		c.write(" extends ")
		if err := c.compileExpression(cls.Parent); err != nil {
			return err
		}
	}
	c.write(" {\n")

	ctx := &classContext{private: make(map[string]bool), hasParent: cls.Parent != nil}
	for _, m := range cls.Members {
		if !m.Exported && m.Name != constructorName {
			ctx.private[m.Name] = true
		}
	}
	c.classStack = append(c.classStack, ctx)
	defer func() { c.classStack = c.classStack[:len(c.classStack)-1] }()

	c.indent()
	for _, m := range cls.Members {
		if err := c.compileClassMember(m, ctx); err != nil {
			return err
		}
	}
	c.dedent()
	c.writeIndent()
	c.write("}")
	return nil
}

func (c *Compiler) compileClassMember(m *parser.BindingStatement, ctx *classContext) errors.FlcError {
	key := memberKey(m.Name, ctx.private[m.Name])

	closure, isMethod := m.Value.(*parser.ClosureLiteral)
	if !isMethod {
		c.writeIndent()
		c.write(key)
		if m.Value != nil {
			c.write(" = ")
			if err := c.compileExpression(m.Value); err != nil {
				return err
			}
		}
		c.write(";\n")
		return nil
	}

	isConstructor := m.Name == constructorName
	if isConstructor {
		key = "constructor"
	}

	c.writeIndent()
	c.write(key)
	c.compileParameters(closure.Parameters)
	c.write(" {\n")
	c.indent()
	if isConstructor && ctx.hasParent {
		c.writeIndent()
		c.write("super")
		c.compileParameters(closure.Parameters)
		c.write(";\n")
	}
	if err := c.compileStatements(closure.Body.Statements); err != nil {
		return err
	}
	c.dedent()
	c.writeLine("}")
	return nil
}
