// Package astdump renders a parsed program as a box-drawn tree, one node
// per line, optionally colored for a terminal.
package astdump

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/width"

	"flc/pkg/parser"
)

const (
	tee   = "├──"
	bend  = "└──"
	pipe  = "│  "
	blank = "   "
)

const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorCyan  = "\033[36m"
	colorKey   = "\033[33m"
	colorValue = "\033[32m"
	colorDim   = "\033[90m"
	colorShare = "\033[35m"
)

// previewColumns bounds the terminal width of a native payload preview.
const previewColumns = 40

// Printer writes the tree for one program. The zero value is not usable;
// call New.
type Printer struct {
	w     io.Writer
	color bool
	buf   bytes.Buffer
}

func New(w io.Writer, color bool) *Printer {
	return &Printer{w: w, color: color}
}

// Fprint writes program's tree to w.
func Fprint(w io.Writer, program *parser.Program, color bool) error {
	return New(w, color).Print(program)
}

// Print renders the whole program and writes it in one call.
func (p *Printer) Print(program *parser.Program) error {
	p.buf.Reset()
	p.line("", p.node("Program"))
	for i, mod := range program.Modules {
		p.module(mod, "", i == len(program.Modules)-1)
	}
	_, err := p.w.Write(p.buf.Bytes())
	return err
}

// --- colors ---

func (p *Printer) paint(code, s string) string {
	if !p.color {
		return s
	}
	return code + s + colorReset
}

func (p *Printer) node(name string) string {
	if !p.color {
		return name
	}
	return colorBold + colorCyan + name + colorReset
}

func (p *Printer) key(s string) string { return p.paint(colorKey, s) }
func (p *Printer) val(s string) string { return p.paint(colorValue, s) }
func (p *Printer) dim(s string) string { return p.paint(colorDim, s) }

// --- layout ---

func (p *Printer) line(prefix, text string) {
	p.buf.WriteString(prefix)
	p.buf.WriteString(text)
	p.buf.WriteByte('\n')
}

func branch(prefix string, last bool) (connector, childPrefix string) {
	if last {
		return prefix + bend + " ", prefix + blank
	}
	return prefix + tee + " ", prefix + pipe
}

func (p *Printer) module(mod *parser.Module, prefix string, last bool) {
	head, child := branch(prefix, last)
	label := p.val(mod.Path)
	if mod.Path == parser.MainModulePath {
		label = p.dim(mod.Path)
	}
	p.line(head, p.node("Module")+" "+label)
	for i, stmt := range mod.Statements {
		p.statement(stmt, child, i == len(mod.Statements)-1)
	}
}

func (p *Printer) statement(stmt parser.Statement, prefix string, last bool) {
	head, child := branch(prefix, last)

	switch s := stmt.(type) {
	case *parser.ImportStatement:
		p.line(head, p.node("Adopt")+" "+p.val(strings.Join(s.Path, ".")))

	case *parser.BindingStatement:
		p.binding(s, prefix, last)

	case *parser.AssignmentStatement:
		p.line(head, p.node("Assign")+" "+p.dim(s.Operator))
		p.expression(s.Target, child, false)
		p.expression(s.Value, child, true)

	case *parser.IfStatement:
		p.line(head, p.node("If"))
		type part struct {
			label string
			cond  parser.Expression
			body  *parser.BlockStatement
		}
		parts := []part{{label: "condition", cond: s.Condition}, {label: "then", body: s.Body}}
		for _, clause := range s.ElseIfs {
			parts = append(parts, part{label: "else if", cond: clause.Condition}, part{label: "then", body: clause.Body})
		}
		if s.Else != nil {
			parts = append(parts, part{label: "else", body: s.Else})
		}
		for i, pt := range parts {
			subHead, subChild := branch(child, i == len(parts)-1)
			p.line(subHead, p.dim(pt.label))
			if pt.cond != nil {
				p.expression(pt.cond, subChild, true)
			} else {
				p.block(pt.body, subChild, true)
			}
		}

	case *parser.WhileStatement:
		p.line(head, p.node("Stay"))
		p.expression(s.Condition, child, false)
		p.block(s.Body, child, true)

	case *parser.ForEachStatement:
		p.line(head, p.node("Go")+" "+p.dim("by")+" "+p.key(s.Variable))
		p.expression(s.Iterable, child, false)
		p.block(s.Body, child, true)

	case *parser.ReturnStatement:
		p.line(head, p.node("Return"))
		if s.ReturnValue != nil {
			p.expression(s.ReturnValue, child, true)
		}

	case *parser.ExpressionStatement:
		p.expression(s.Expression, prefix, last)

	case *parser.BlockStatement:
		p.block(s, prefix, last)

	default:
		p.line(head, p.dim(fmt.Sprintf("%T", stmt)))
	}
}

func (p *Printer) binding(s *parser.BindingStatement, prefix string, last bool) {
	head, child := branch(prefix, last)
	label := p.node("Keep") + " " + p.key(s.Name)
	if s.Exported {
		label = p.paint(colorShare, "share") + " " + label
	}
	if s.TypeTag != "" {
		label += " " + p.dim(":"+s.TypeTag)
	}
	p.line(head, label)
	if s.Value != nil {
		p.expression(s.Value, child, true)
	}
}

func (p *Printer) block(b *parser.BlockStatement, prefix string, last bool) {
	head, child := branch(prefix, last)
	if len(b.Statements) == 0 {
		p.line(head, p.dim("{}"))
		return
	}
	p.line(head, p.node("Block"))
	for i, stmt := range b.Statements {
		p.statement(stmt, child, i == len(b.Statements)-1)
	}
}

// list prints a head expression followed by arguments; the head is last
// only when there are no arguments.
func (p *Printer) list(head parser.Expression, args []parser.Expression, prefix string) {
	p.expression(head, prefix, len(args) == 0)
	for i, arg := range args {
		p.expression(arg, prefix, i == len(args)-1)
	}
}

func (p *Printer) expression(expr parser.Expression, prefix string, last bool) {
	head, child := branch(prefix, last)

	switch e := expr.(type) {
	case *parser.NumberLiteral:
		p.line(head, p.val(e.Token.Literal))

	case *parser.StringLiteral:
		p.line(head, p.key(strconv.Quote(e.Value)))

	case *parser.BooleanLiteral:
		if e.Value {
			p.line(head, p.val("YES"))
		} else {
			p.line(head, p.val("NO"))
		}

	case *parser.ArrayLiteral:
		if len(e.Elements) == 0 {
			p.line(head, p.node("Array")+" "+p.dim("[]"))
			return
		}
		p.line(head, p.node("Array"))
		for i, el := range e.Elements {
			p.expression(el, child, i == len(e.Elements)-1)
		}

	case *parser.Identifier:
		p.line(head, p.key(e.Value))

	case *parser.InfixExpression:
		p.line(head, p.node("BinOp")+" "+p.dim(e.Operator))
		p.expression(e.Left, child, false)
		p.expression(e.Right, child, true)

	case *parser.PrefixExpression:
		p.line(head, p.node("UnaryOp")+" "+p.dim(e.Operator))
		p.expression(e.Right, child, true)

	case *parser.MemberExpression:
		p.line(head, p.node("Member")+" "+p.dim(".")+" "+p.key(e.Property))
		p.expression(e.Object, child, true)

	case *parser.NamespaceExpression:
		p.line(head, p.node("Access")+" "+p.dim("::")+" "+p.key(e.Member))
		p.expression(e.Object, child, true)

	case *parser.IndexExpression:
		p.line(head, p.node("Index"))
		p.expression(e.Left, child, false)
		p.expression(e.Index, child, true)

	case *parser.CallExpression:
		p.line(head, p.node("Call"))
		p.list(e.Function, e.Arguments, child)

	case *parser.ClosureLiteral:
		params := make([]string, len(e.Parameters))
		for i, param := range e.Parameters {
			params[i] = param.String()
		}
		p.line(head, p.node("Closure")+" "+p.dim("("+strings.Join(params, ", ")+")"))
		p.block(e.Body, child, true)

	case *parser.RangeExpression:
		p.line(head, p.node("Range")+" "+p.dim("to"))
		p.expression(e.Start, child, false)
		p.expression(e.End, child, true)

	case *parser.NewExpression:
		p.line(head, p.node("Makeout"))
		p.list(e.Constructor, e.Arguments, child)

	case *parser.NativeBlock:
		p.line(head, p.node("Native")+" "+p.dim(Preview(e.Code)))

	case *parser.ClassExpression:
		label := p.node("Boy")
		if e.Parent != nil {
			label += " " + p.dim(":") + " " + p.val(e.Parent.String())
		}
		p.line(head, label)
		for i, m := range e.Members {
			p.binding(m, child, i == len(e.Members)-1)
		}

	default:
		p.line(head, p.dim(fmt.Sprintf("%T", expr)))
	}
}

var flattenWhitespace = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

// Preview flattens a native payload onto one line and cuts it to fit
// previewColumns terminal cells, marking the cut with "...".
func Preview(code string) string {
	s := flattenWhitespace.Replace(strings.TrimSpace(code))
	if displayWidth(s) <= previewColumns {
		return s
	}

	var b strings.Builder
	used := 0
	for _, r := range s {
		w := runeWidth(r)
		if used+w > previewColumns-3 {
			break
		}
		b.WriteRune(r)
		used += w
	}
	return b.String() + "..."
}

func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}

func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		n += runeWidth(r)
	}
	return n
}
