package parser

// arenaChunk is the number of nodes allocated per backing slice.
const arenaChunk = 128

// chunk hands out pointers into fixed-capacity slices. A full slice is
// replaced, never grown, so earlier pointers stay valid.
type chunk[T any] struct {
	items []T
}

func (c *chunk[T]) alloc() *T {
	if len(c.items) == cap(c.items) {
		c.items = make([]T, 0, arenaChunk)
	}
	var zero T
	c.items = append(c.items, zero)
	return &c.items[len(c.items)-1]
}

// ASTArena provides arena-style allocation for the most frequent AST nodes.
// The tree still owns its children through plain pointers; the arena only
// batches the allocations. A parser uses one arena per module.
type ASTArena struct {
	identifiers    chunk[Identifier]
	numberLiterals chunk[NumberLiteral]
	stringLiterals chunk[StringLiteral]
	infixes        chunk[InfixExpression]
	calls          chunk[CallExpression]
	members        chunk[MemberExpression]
	namespaces     chunk[NamespaceExpression]
	blocks         chunk[BlockStatement]
	exprStatements chunk[ExpressionStatement]
	bindings       chunk[BindingStatement]
}

// NewASTArena creates an empty arena.
func NewASTArena() *ASTArena {
	return &ASTArena{}
}

// Allocation methods - each returns a pointer to a zeroed node in the arena

func (a *ASTArena) NewIdentifier() *Identifier                   { return a.identifiers.alloc() }
func (a *ASTArena) NewNumberLiteral() *NumberLiteral             { return a.numberLiterals.alloc() }
func (a *ASTArena) NewStringLiteral() *StringLiteral             { return a.stringLiterals.alloc() }
func (a *ASTArena) NewInfixExpression() *InfixExpression         { return a.infixes.alloc() }
func (a *ASTArena) NewCallExpression() *CallExpression           { return a.calls.alloc() }
func (a *ASTArena) NewMemberExpression() *MemberExpression       { return a.members.alloc() }
func (a *ASTArena) NewNamespaceExpression() *NamespaceExpression { return a.namespaces.alloc() }
func (a *ASTArena) NewBlockStatement() *BlockStatement           { return a.blocks.alloc() }
func (a *ASTArena) NewExpressionStatement() *ExpressionStatement { return a.exprStatements.alloc() }
func (a *ASTArena) NewBindingStatement() *BindingStatement       { return a.bindings.alloc() }
