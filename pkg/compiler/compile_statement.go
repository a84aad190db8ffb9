package compiler

import (
	"flc/pkg/builtins"
	"flc/pkg/errors"
	"flc/pkg/parser"
)

func (c *Compiler) compileStatements(stmts []parser.Statement) errors.FlcError {
	for _, stmt := range stmts {
		if err := c.compileStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) compileStatement(stmt parser.Statement) errors.FlcError {
	switch s := stmt.(type) {
	case *parser.ImportStatement:
		return c.compileImportStatement(s)
	case *parser.BindingStatement:
		return c.compileBindingStatement(s)
	case *parser.AssignmentStatement:
		return c.compileAssignmentStatement(s)
	case *parser.IfStatement:
		return c.compileIfStatement(s)
	case *parser.WhileStatement:
		return c.compileWhileStatement(s)
	case *parser.ForEachStatement:
		return c.compileForEachStatement(s)
	case *parser.ReturnStatement:
		return c.compileReturnStatement(s)
	case *parser.ExpressionStatement:
		return c.compileExpressionStatement(s)
	case *parser.BlockStatement:
		c.writeIndent()
		if err := c.compileBlock(s); err != nil {
			return err
		}
		c.write("\n")
		return nil
	default:
		return internalError(stmt, "no translation for statement %T", stmt)
	}
}

// adopt a.b binds b to the module's export object. Standard modules are
// global consts already. Adopting the same path again is a no-op; a later
// path with the same last segment rebinds the name.
func (c *Compiler) compileImportStatement(s *parser.ImportStatement) errors.FlcError {
	if builtins.IsStdlib(s.Path[0]) {
		return nil
	}
	local := jsName(s.Path[len(s.Path)-1])
	target := moduleVar(s.Path)

	prev, bound := c.imports[local]
	switch {
	case bound && prev == target:
		return nil
	case bound:
		c.writeLine("%s = %s;", local, target)
	case c.reboundImports[local]:
		c.writeLine("let %s = %s;", local, target)
	default:
		c.writeLine("const %s = %s;", local, target)
	}
	c.imports[local] = target
	return nil
}

// findReboundImports returns the local names that top-level adopts of mod
// bind to more than one module.
func findReboundImports(mod *parser.Module) map[string]bool {
	first := make(map[string]string)
	rebound := make(map[string]bool)
	for _, imp := range mod.Imports() {
		if builtins.IsStdlib(imp.Path[0]) {
			continue
		}
		local := jsName(imp.Path[len(imp.Path)-1])
		target := moduleVar(imp.Path)
		if prev, ok := first[local]; !ok {
			first[local] = target
		} else if prev != target {
			rebound[local] = true
		}
	}
	return rebound
}

func (c *Compiler) compileBindingStatement(s *parser.BindingStatement) errors.FlcError {
	if cls, ok := s.Value.(*parser.ClassExpression); ok {
		c.writeIndent()
		if err := c.compileClass(cls); err != nil {
			return err
		}
		c.write("\n")
		return nil
	}

	c.writeIndent()
	c.writef("let %s", jsName(s.Name))
	if s.Value != nil {
		c.write(" = ")
		if err := c.compileExpression(s.Value); err != nil {
			return err
		}
	}
	c.write(";\n")
	return nil
}

func (c *Compiler) compileAssignmentStatement(s *parser.AssignmentStatement) errors.FlcError {
	c.writeIndent()
	if err := c.compileExpression(s.Target); err != nil {
		return err
	}
	c.writef(" %s ", s.Operator)
	if err := c.compileExpression(s.Value); err != nil {
		return err
	}
	c.write(";\n")
	return nil
}

func (c *Compiler) compileIfStatement(s *parser.IfStatement) errors.FlcError {
	c.writeIndent()
	c.write("if (")
	if err := c.compileCondition(s.Condition); err != nil {
		return err
	}
	c.write(") ")
	if err := c.compileBlock(s.Body); err != nil {
		return err
	}

	for _, clause := range s.ElseIfs {
		c.write(" else if (")
		if err := c.compileCondition(clause.Condition); err != nil {
			return err
		}
		c.write(") ")
		if err := c.compileBlock(clause.Body); err != nil {
			return err
		}
	}

	if s.Else != nil {
		c.write(" else ")
		if err := c.compileBlock(s.Else); err != nil {
			return err
		}
	}
	c.write("\n")
	return nil
}

func (c *Compiler) compileWhileStatement(s *parser.WhileStatement) errors.FlcError {
	c.writeIndent()
	c.write("while (")
	if err := c.compileCondition(s.Condition); err != nil {
		return err
	}
	c.write(") ")
	if err := c.compileBlock(s.Body); err != nil {
		return err
	}
	c.write("\n")
	return nil
}

func (c *Compiler) compileForEachStatement(s *parser.ForEachStatement) errors.FlcError {
	c.writeIndent()
	c.writef("for (let %s of ", jsName(s.Variable))
	if err := c.compileExpression(s.Iterable); err != nil {
		return err
	}
	c.write(") ")
	if err := c.compileBlock(s.Body); err != nil {
		return err
	}
	c.write("\n")
	return nil
}

func (c *Compiler) compileReturnStatement(s *parser.ReturnStatement) errors.FlcError {
	c.writeIndent()
	c.write("return")
	if s.ReturnValue != nil {
		c.write(" ")
		if err := c.compileExpression(s.ReturnValue); err != nil {
			return err
		}
	}
	c.write(";\n")
	return nil
}

// A native block in statement position is pasted as is.
func (c *Compiler) compileExpressionStatement(s *parser.ExpressionStatement) errors.FlcError {
	if nb, ok := s.Expression.(*parser.NativeBlock); ok {
		c.writeIndent()
		c.write(nb.Code)
		c.write("\n")
		return nil
	}

	c.writeIndent()
	if err := c.compileExpression(s.Expression); err != nil {
		return err
	}
	c.write(";\n")
	return nil
}

// compileBlock writes "{", the indented statements and "}" with no
// trailing newline. The caller has already positioned the opening brace.
func (c *Compiler) compileBlock(b *parser.BlockStatement) errors.FlcError {
	c.write("{\n")
	c.indent()
	if err := c.compileStatements(b.Statements); err != nil {
		return err
	}
	c.dedent()
	c.writeIndent()
	c.write("}")
	return nil
}
