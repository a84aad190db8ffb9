package compiler

import (
	"fmt"
	"os"
	"strings"

	"flc/pkg/builtins"
	"flc/pkg/errors"
	"flc/pkg/lexer"
	"flc/pkg/parser"
)

const debugCompiler = false

func debugPrintf(format string, args ...interface{}) {
	if debugCompiler {
		fmt.Fprintf(os.Stderr, "// [Compiler] "+format+"\n", args...)
	}
}

// rangeHelperSource defines the half-open integer sequence [start, end).
const rangeHelperSource = "const " + rangeHelper + " = (start, end) => " +
	"Array.from({ length: Math.max(0, Math.ceil(end - start)) }, (_, i) => start + i);"

type CompilerStats struct {
	BytesGenerated int
	Modules        int
	StdlibModules  []string // Snippets inlined, in insertion order
	UsesRange      bool
}

// Compiler turns a loaded Program into one JavaScript compilation unit.
// File modules become closures that return their shared bindings; the
// entry module runs last.
type Compiler struct {
	emitter

	classStack     []*classContext   // Innermost class body last
	imports        map[string]string // Local name -> module var, current module
	reboundImports map[string]bool   // Local names adopted from several modules
	usesRange      bool
	stats          CompilerStats
}

func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile generates JavaScript for program. The only possible error is an
// *errors.InternalError for a node the generator does not know.
func (c *Compiler) Compile(program *parser.Program) (string, error) {
	c.reset()
	c.classStack = nil
	c.usesRange = false
	c.stats = CompilerStats{}

	var sections []string

	snippets := c.collectStdlib(program)
	if len(snippets) > 0 {
		sections = append(sections, strings.Join(snippets, "\n"))
	}

	var bodies []string
	for _, mod := range program.Modules {
		c.reset()
		if err := c.compileModule(mod); err != nil {
			return "", err
		}
		bodies = append(bodies, strings.TrimRight(c.String(), "\n"))
		c.stats.Modules++
	}

	if c.usesRange {
		sections = append(sections, rangeHelperSource)
	}
	sections = append(sections, bodies...)

	out := strings.Join(sections, "\n\n")
	c.stats.BytesGenerated = len(out)
	c.stats.UsesRange = c.usesRange
	debugPrintf("generated %d bytes for %d modules", len(out), c.stats.Modules)
	return out, nil
}

// Stats describes the last Compile call.
func (c *Compiler) Stats() CompilerStats {
	return c.stats
}

// CompileProgram is a convenience wrapper around a fresh Compiler.
func CompileProgram(program *parser.Program) (string, error) {
	return NewCompiler().Compile(program)
}

// collectStdlib returns one snippet per standard module adopted anywhere
// in the program, in first-adopt order.
func (c *Compiler) collectStdlib(program *parser.Program) []string {
	seen := make(map[string]bool)
	var snippets []string
	for _, mod := range program.Modules {
		for _, imp := range mod.Imports() {
			name := imp.Path[0]
			if seen[name] {
				continue
			}
			m, ok := builtins.Lookup(name)
			if !ok {
				continue
			}
			seen[name] = true
			snippets = append(snippets, m.Snippet())
			c.stats.StdlibModules = append(c.stats.StdlibModules, name)
		}
	}
	return snippets
}

func (c *Compiler) compileModule(mod *parser.Module) errors.FlcError {
	debugPrintf("module %s: %d statements", mod.Path, len(mod.Statements))
	c.imports = make(map[string]string)
	c.reboundImports = findReboundImports(mod)

	if mod.Path == parser.MainModulePath {
		c.writeLine("(() => {")
		c.indent()
		if err := c.compileStatements(mod.Statements); err != nil {
			return err
		}
		c.dedent()
		c.writeLine("})();")
		return nil
	}

	c.writeLine("const %s = (() => {", moduleVar(strings.Split(mod.Path, ".")))
	c.indent()
	if err := c.compileStatements(mod.Statements); err != nil {
		return err
	}
	c.compileExports(mod)
	c.dedent()
	c.writeLine("})();")
	return nil
}

// compileExports returns the module's shared top-level bindings as live
// accessors, so importers observe later reassignments. Bindings without
// share are simply absent.
func (c *Compiler) compileExports(mod *parser.Module) {
	var shared []string
	for _, stmt := range mod.Statements {
		if b, ok := stmt.(*parser.BindingStatement); ok && b.Exported {
			shared = append(shared, b.Name)
		}
	}

	if len(shared) == 0 {
		c.writeLine("return {};")
		return
	}

	c.writeLine("return {")
	c.indent()
	for _, name := range shared {
		local := jsName(name)
		c.writeLine("get %s() { return %s; },", name, local)
		c.writeLine("set %s(%s) { %s = %s; },", name, setterParam, local, setterParam)
	}
	c.dedent()
	c.writeLine("};")
}

func internalError(node parser.Node, format string, args ...interface{}) *errors.InternalError {
	var tok lexer.Token
	if node != nil {
		tok = node.Pos()
	}
	return &errors.InternalError{
		Position: errors.Position{
			Line:     tok.Line,
			Column:   tok.Column,
			StartPos: tok.StartPos,
			EndPos:   tok.EndPos,
		},
		Msg: fmt.Sprintf(format, args...),
	}
}
