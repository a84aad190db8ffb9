package parser

import (
	"bytes"
	"strings"

	"flc/pkg/lexer"
	"flc/pkg/source"
)

// --- Interfaces ---

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string // Returns the literal value of the token associated with the node
	String() string       // Returns a string representation of the node (for debugging)
	Pos() lexer.Token     // First token of the node
}

// Statement represents a statement node in the AST. The unexported marker
// keeps the set of statements closed to this package.
type Statement interface {
	Node
	statementNode()
}

// Expression represents an expression node in the AST.
type Expression interface {
	Node
	expressionNode()
}

// --- Module / Program ---

// MainModulePath is the dotted path of the entry file.
const MainModulePath = "__main__"

// Module is one parsed source file.
type Module struct {
	Path       string // Dotted import path, or MainModulePath
	Statements []Statement
	SourceDir  string // Directory of the file, slash separated
	Source     *source.SourceFile
}

// Imports returns the module's adopt statements in source order.
func (m *Module) Imports() []*ImportStatement {
	var imports []*ImportStatement
	for _, stmt := range m.Statements {
		if imp, ok := stmt.(*ImportStatement); ok {
			imports = append(imports, imp)
		}
	}
	return imports
}

func (m *Module) String() string {
	var out bytes.Buffer
	for _, s := range m.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

// Program is the ordered, dependency-first list of modules.
type Program struct {
	Modules []*Module
}

// Main returns the entry module, which the resolver always places last.
func (p *Program) Main() *Module {
	if len(p.Modules) == 0 {
		return nil
	}
	return p.Modules[len(p.Modules)-1]
}

// --- Statement Nodes ---

// ImportStatement: adopt a.b.c
type ImportStatement struct {
	Token lexer.Token // The lexer.ADOPT token
	Path  []string
}

func (is *ImportStatement) statementNode()       {}
func (is *ImportStatement) TokenLiteral() string { return is.Token.Literal }
func (is *ImportStatement) Pos() lexer.Token     { return is.Token }
func (is *ImportStatement) DottedPath() string   { return strings.Join(is.Path, ".") }
func (is *ImportStatement) String() string       { return "adopt " + is.DottedPath() }

// BindingStatement: [share] keep <Name> [: <TypeTag>] [= <Value>]
type BindingStatement struct {
	Token    lexer.Token // The lexer.KEEP token (or SHARE when exported)
	Name     string
	TypeTag  string     // Optional, "" when absent
	Value    Expression // Optional, nil when absent
	Exported bool
}

func (bs *BindingStatement) statementNode()       {}
func (bs *BindingStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BindingStatement) Pos() lexer.Token     { return bs.Token }
func (bs *BindingStatement) String() string {
	var out bytes.Buffer
	if bs.Exported {
		out.WriteString("share ")
	}
	out.WriteString("keep ")
	out.WriteString(bs.Name)
	if bs.TypeTag != "" {
		out.WriteString(": " + bs.TypeTag)
	}
	if bs.Value != nil {
		out.WriteString(" = ")
		out.WriteString(bs.Value.String())
	}
	return out.String()
}

// AssignmentStatement: <Target> <Operator> <Value>. The target is any
// expression; restricting it is not the parser's job.
type AssignmentStatement struct {
	Token    lexer.Token // The operator token
	Target   Expression
	Operator string // "=", "+=", "-=", "*=", "/="
	Value    Expression
}

func (as *AssignmentStatement) statementNode()       {}
func (as *AssignmentStatement) TokenLiteral() string { return as.Token.Literal }
func (as *AssignmentStatement) Pos() lexer.Token     { return as.Target.Pos() }
func (as *AssignmentStatement) String() string {
	return as.Target.String() + " " + as.Operator + " " + as.Value.String()
}

// ElseIfClause is one `else if` arm.
type ElseIfClause struct {
	Condition Expression
	Body      *BlockStatement
}

// IfStatement: if <Condition> <Body> [else if ...]* [else <Else>]
type IfStatement struct {
	Token     lexer.Token
	Condition Expression
	Body      *BlockStatement
	ElseIfs   []*ElseIfClause
	Else      *BlockStatement // nil when absent
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IfStatement) Pos() lexer.Token     { return is.Token }
func (is *IfStatement) String() string {
	var out bytes.Buffer
	out.WriteString("if " + is.Condition.String() + " " + is.Body.String())
	for _, clause := range is.ElseIfs {
		out.WriteString(" else if " + clause.Condition.String() + " " + clause.Body.String())
	}
	if is.Else != nil {
		out.WriteString(" else " + is.Else.String())
	}
	return out.String()
}

// WhileStatement: stay <Condition> <Body>
type WhileStatement struct {
	Token     lexer.Token
	Condition Expression
	Body      *BlockStatement
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Literal }
func (ws *WhileStatement) Pos() lexer.Token     { return ws.Token }
func (ws *WhileStatement) String() string {
	return "stay " + ws.Condition.String() + " " + ws.Body.String()
}

// ForEachStatement: go <Iterable> by <Variable> <Body>
type ForEachStatement struct {
	Token    lexer.Token
	Iterable Expression
	Variable string
	Body     *BlockStatement
}

func (fs *ForEachStatement) statementNode()       {}
func (fs *ForEachStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *ForEachStatement) Pos() lexer.Token     { return fs.Token }
func (fs *ForEachStatement) String() string {
	return "go " + fs.Iterable.String() + " by " + fs.Variable + " " + fs.Body.String()
}

// ReturnStatement: return [<ReturnValue>]
type ReturnStatement struct {
	Token       lexer.Token
	ReturnValue Expression // nil for a bare return
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) Pos() lexer.Token     { return rs.Token }
func (rs *ReturnStatement) String() string {
	if rs.ReturnValue == nil {
		return "return"
	}
	return "return " + rs.ReturnValue.String()
}

// ExpressionStatement wraps an expression evaluated for its effect.
type ExpressionStatement struct {
	Token      lexer.Token // First token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) Pos() lexer.Token     { return es.Token }
func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String()
	}
	return ""
}

// BlockStatement is a braced statement list.
type BlockStatement struct {
	Token      lexer.Token // The { token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BlockStatement) Pos() lexer.Token     { return bs.Token }
func (bs *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for i, s := range bs.Statements {
		if i > 0 {
			out.WriteString("; ")
		}
		out.WriteString(s.String())
	}
	out.WriteString(" }")
	return out.String()
}

// --- Expression Nodes ---

// NumberLiteral keeps the lexeme so integer and float spellings survive.
type NumberLiteral struct {
	Token   lexer.Token // lexer.INT or lexer.FLOAT
	Value   float64
	IsFloat bool
}

func (nl *NumberLiteral) expressionNode()      {}
func (nl *NumberLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NumberLiteral) Pos() lexer.Token     { return nl.Token }
func (nl *NumberLiteral) String() string       { return nl.Token.Literal }

// StringLiteral holds the unescaped value.
type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) Pos() lexer.Token     { return sl.Token }
func (sl *StringLiteral) String() string       { return `"` + sl.Value + `"` }

// BooleanLiteral: YES or NO
type BooleanLiteral struct {
	Token lexer.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()      {}
func (bl *BooleanLiteral) TokenLiteral() string { return bl.Token.Literal }
func (bl *BooleanLiteral) Pos() lexer.Token     { return bl.Token }
func (bl *BooleanLiteral) String() string       { return bl.Token.Literal }

// ArrayLiteral: [a, b, c]
type ArrayLiteral struct {
	Token    lexer.Token // The [ token
	Elements []Expression
}

func (al *ArrayLiteral) expressionNode()      {}
func (al *ArrayLiteral) TokenLiteral() string { return al.Token.Literal }
func (al *ArrayLiteral) Pos() lexer.Token     { return al.Token }
func (al *ArrayLiteral) String() string {
	return "[" + joinExpressions(al.Elements) + "]"
}

// Identifier is a bare name.
type Identifier struct {
	Token lexer.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) Pos() lexer.Token     { return i.Token }
func (i *Identifier) String() string       { return i.Value }

// InfixExpression is a binary operation.
type InfixExpression struct {
	Token    lexer.Token // The operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InfixExpression) Pos() lexer.Token     { return ie.Left.Pos() }
func (ie *InfixExpression) String() string {
	return "(" + ie.Left.String() + " " + ie.Operator + " " + ie.Right.String() + ")"
}

// PrefixExpression is a unary operation: !x or -x.
type PrefixExpression struct {
	Token    lexer.Token
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrefixExpression) Pos() lexer.Token     { return pe.Token }
func (pe *PrefixExpression) String() string {
	return "(" + pe.Operator + pe.Right.String() + ")"
}

// MemberExpression is instance access: object.property
type MemberExpression struct {
	Token    lexer.Token // The . token
	Object   Expression
	Property string
}

func (me *MemberExpression) expressionNode()      {}
func (me *MemberExpression) TokenLiteral() string { return me.Token.Literal }
func (me *MemberExpression) Pos() lexer.Token     { return me.Object.Pos() }
func (me *MemberExpression) String() string       { return me.Object.String() + "." + me.Property }

// NamespaceExpression is module or static access: object::member
type NamespaceExpression struct {
	Token  lexer.Token // The :: token
	Object Expression
	Member string
}

func (ne *NamespaceExpression) expressionNode()      {}
func (ne *NamespaceExpression) TokenLiteral() string { return ne.Token.Literal }
func (ne *NamespaceExpression) Pos() lexer.Token     { return ne.Object.Pos() }
func (ne *NamespaceExpression) String() string       { return ne.Object.String() + "::" + ne.Member }

// IndexExpression: left[index]
type IndexExpression struct {
	Token lexer.Token // The [ token
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) expressionNode()      {}
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IndexExpression) Pos() lexer.Token     { return ie.Left.Pos() }
func (ie *IndexExpression) String() string {
	return ie.Left.String() + "[" + ie.Index.String() + "]"
}

// CallExpression: function(arguments)
type CallExpression struct {
	Token     lexer.Token // The ( token
	Function  Expression
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) Pos() lexer.Token     { return ce.Function.Pos() }
func (ce *CallExpression) String() string {
	return ce.Function.String() + "(" + joinExpressions(ce.Arguments) + ")"
}

// Parameter is one closure parameter.
type Parameter struct {
	Token    lexer.Token
	Name     string
	TypeTag  string
	Variadic bool
}

func (p *Parameter) String() string {
	s := p.Name
	if p.Variadic {
		s += "..."
	}
	if p.TypeTag != "" {
		s += ": " + p.TypeTag
	}
	return s
}

// ClosureLiteral: (params) => body. Expression bodies are stored as a
// block holding a single return.
type ClosureLiteral struct {
	Token      lexer.Token // The ( token
	Parameters []*Parameter
	Body       *BlockStatement
}

func (cl *ClosureLiteral) expressionNode()      {}
func (cl *ClosureLiteral) TokenLiteral() string { return cl.Token.Literal }
func (cl *ClosureLiteral) Pos() lexer.Token     { return cl.Token }
func (cl *ClosureLiteral) String() string {
	params := make([]string, len(cl.Parameters))
	for i, p := range cl.Parameters {
		params[i] = p.String()
	}
	return "(" + strings.Join(params, ", ") + ") => " + cl.Body.String()
}

// RangeExpression: start to end
type RangeExpression struct {
	Token lexer.Token // The to token
	Start Expression
	End   Expression
}

func (re *RangeExpression) expressionNode()      {}
func (re *RangeExpression) TokenLiteral() string { return re.Token.Literal }
func (re *RangeExpression) Pos() lexer.Token     { return re.Start.Pos() }
func (re *RangeExpression) String() string {
	return "(" + re.Start.String() + " to " + re.End.String() + ")"
}

// NewExpression: makeout Constructor(arguments)
type NewExpression struct {
	Token       lexer.Token // The makeout token
	Constructor Expression  // Identifier or a chain of NamespaceExpressions
	Arguments   []Expression
}

func (ne *NewExpression) expressionNode()      {}
func (ne *NewExpression) TokenLiteral() string { return ne.Token.Literal }
func (ne *NewExpression) Pos() lexer.Token     { return ne.Token }
func (ne *NewExpression) String() string {
	return "makeout " + ne.Constructor.String() + "(" + joinExpressions(ne.Arguments) + ")"
}

// NativeBlock carries raw JavaScript copied verbatim from the source.
type NativeBlock struct {
	Token lexer.Token // The native token
	Code  string
}

func (nb *NativeBlock) expressionNode()      {}
func (nb *NativeBlock) TokenLiteral() string { return nb.Token.Literal }
func (nb *NativeBlock) Pos() lexer.Token     { return nb.Token }
func (nb *NativeBlock) String() string       { return "native => {" + nb.Code + "}" }

// ClassExpression: boy [: Parent] { members }. Name stays empty until the
// enclosing binding assigns it.
type ClassExpression struct {
	Token   lexer.Token // The boy token
	Name    string
	Parent  Expression // Identifier or NamespaceExpression, nil when absent
	Members []*BindingStatement
}

func (ce *ClassExpression) expressionNode()      {}
func (ce *ClassExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *ClassExpression) Pos() lexer.Token     { return ce.Token }
func (ce *ClassExpression) String() string {
	var out bytes.Buffer
	out.WriteString("boy")
	if ce.Name != "" {
		out.WriteString(" " + ce.Name)
	}
	if ce.Parent != nil {
		out.WriteString(" : " + ce.Parent.String())
	}
	out.WriteString(" { ")
	for i, m := range ce.Members {
		if i > 0 {
			out.WriteString("; ")
		}
		out.WriteString(m.String())
	}
	out.WriteString(" }")
	return out.String()
}

func joinExpressions(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
