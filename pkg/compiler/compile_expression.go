package compiler

import (
	"flc/pkg/errors"
	"flc/pkg/parser"
)

// Every binary operator is parenthesized, so JS precedence never has to
// agree with the source ladder.
var jsOperators = map[string]string{
	"==": "===",
	"!=": "!==",
}

func (c *Compiler) compileExpression(expr parser.Expression) errors.FlcError {
	switch e := expr.(type) {
	case *parser.NumberLiteral:
		c.write(jsNumber(e.Token.Literal))
	case *parser.StringLiteral:
		c.write(jsString(e.Value))
	case *parser.BooleanLiteral:
		if e.Value {
			c.write("true")
		} else {
			c.write("false")
		}
	case *parser.ArrayLiteral:
		c.write("[")
		if err := c.compileList(e.Elements); err != nil {
			return err
		}
		c.write("]")
	case *parser.Identifier:
		c.compileIdentifier(e)
	case *parser.InfixExpression:
		return c.compileInfixExpression(e)
	case *parser.PrefixExpression:
		c.writef("(%s", e.Operator)
		if err := c.compileExpression(e.Right); err != nil {
			return err
		}
		c.write(")")
	case *parser.MemberExpression:
		return c.compileMemberExpression(e)
	case *parser.NamespaceExpression:
		return c.compileNamespaceExpression(e)
	case *parser.IndexExpression:
		if err := c.compileExpression(e.Left); err != nil {
			return err
		}
		c.write("[")
		if err := c.compileExpression(e.Index); err != nil {
			return err
		}
		c.write("]")
	case *parser.CallExpression:
		if err := c.compileExpression(e.Function); err != nil {
			return err
		}
		c.write("(")
		if err := c.compileList(e.Arguments); err != nil {
			return err
		}
		c.write(")")
	case *parser.ClosureLiteral:
		return c.compileClosure(e)
	case *parser.RangeExpression:
		c.usesRange = true
		c.write(rangeHelper + "(")
		if err := c.compileList([]parser.Expression{e.Start, e.End}); err != nil {
			return err
		}
		c.write(")")
	case *parser.NewExpression:
		c.write("new ")
		if err := c.compileExpression(e.Constructor); err != nil {
			return err
		}
		c.write("(")
		if err := c.compileList(e.Arguments); err != nil {
			return err
		}
		c.write(")")
	case *parser.NativeBlock:
		c.write("(() => {")
		c.write(e.Code)
		c.write("})()")
	case *parser.ClassExpression:
		c.write("(")
		if err := c.compileClass(e); err != nil {
			return err
		}
		c.write(")")
	default:
		return internalError(expr, "no translation for expression %T", expr)
	}
	return nil
}

func (c *Compiler) compileList(exprs []parser.Expression) errors.FlcError {
	for i, expr := range exprs {
		if i > 0 {
			c.write(", ")
		}
		if err := c.compileExpression(expr); err != nil {
			return err
		}
	}
	return nil
}

// Inside a class body self is the instance.
func (c *Compiler) compileIdentifier(id *parser.Identifier) {
	if id.Value == "self" && c.currentClass() != nil {
		c.write("this")
		return
	}
	c.write(jsName(id.Value))
}

func (c *Compiler) compileInfixExpression(e *parser.InfixExpression) errors.FlcError {
	c.write("(")
	if err := c.compileInfixOperands(e); err != nil {
		return err
	}
	c.write(")")
	return nil
}

func (c *Compiler) compileInfixOperands(e *parser.InfixExpression) errors.FlcError {
	op := e.Operator
	if js, ok := jsOperators[op]; ok {
		op = js
	}
	if err := c.compileExpression(e.Left); err != nil {
		return err
	}
	c.writef(" %s ", op)
	return c.compileExpression(e.Right)
}

// compileCondition drops the outer parentheses of a binary condition,
// since if and while supply their own.
func (c *Compiler) compileCondition(expr parser.Expression) errors.FlcError {
	if infix, ok := expr.(*parser.InfixExpression); ok {
		return c.compileInfixOperands(infix)
	}
	return c.compileExpression(expr)
}

// compileMemberExpression handles instance access. self.m names the
// private field #m when m is a private member of the enclosing class.
func (c *Compiler) compileMemberExpression(e *parser.MemberExpression) errors.FlcError {
	if id, ok := e.Object.(*parser.Identifier); ok && id.Value == "self" {
		if cls := c.currentClass(); cls != nil {
			c.write("this." + memberKey(e.Property, cls.private[e.Property]))
			return nil
		}
	}

	// 3.toString() is not valid JS.
	if num, ok := e.Object.(*parser.NumberLiteral); ok {
		c.writef("(%s).%s", jsNumber(num.Token.Literal), e.Property)
		return nil
	}

	if err := c.compileExpression(e.Object); err != nil {
		return err
	}
	c.write("." + e.Property)
	return nil
}

// compileNamespaceExpression handles module and static access. Module
// export objects are plain JS objects, so the output is a property read,
// but private field rewriting never applies here.
func (c *Compiler) compileNamespaceExpression(e *parser.NamespaceExpression) errors.FlcError {
	if err := c.compileExpression(e.Object); err != nil {
		return err
	}
	c.write("." + e.Member)
	return nil
}

// compileClosure emits an arrow function. An expression body was already
// turned into a block holding a return, and is emitted as exactly that.
func (c *Compiler) compileClosure(cl *parser.ClosureLiteral) errors.FlcError {
	c.write("(")
	c.compileParameters(cl.Parameters)
	c.write(" => ")
	if err := c.compileBlock(cl.Body); err != nil {
		return err
	}
	c.write(")")
	return nil
}

// compileParameters writes "(a, ...rest)". Type tags are dropped.
func (c *Compiler) compileParameters(params []*parser.Parameter) {
	c.write("(")
	for i, p := range params {
		if i > 0 {
			c.write(", ")
		}
		if p.Variadic {
			c.write("...")
		}
		c.write(jsName(p.Name))
	}
	c.write(")")
}
