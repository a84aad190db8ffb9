package parser

import (
	"fmt"
	"os"

	"flc/pkg/errors"
	"flc/pkg/lexer"
	"flc/pkg/source"
)

// --- Debug Flag ---
const debugParser = false

func debugPrint(format string, args ...interface{}) {
	if debugParser {
		fmt.Fprintf(os.Stderr, "[Parser Debug] "+format+"\n", args...)
	}
}

// --- End Debug Flag ---

// Parser takes a lexer and builds the AST of one module. Parsing stops at
// the first error.
type Parser struct {
	l      *lexer.Lexer
	ts     *tokenStream
	source *source.SourceFile // cached from lexer
	arena  *ASTArena

	pos       int // buffer index of curToken
	curToken  lexer.Token
	peekToken lexer.Token

	// speculating counts active lookaheads; lexical errors are only
	// raised when the parser really moves onto an ILLEGAL token.
	speculating int

	statementParseFns map[lexer.TokenType]statementParseFn
	prefixParseFns    map[lexer.TokenType]prefixParseFn
	postfixParseFns   map[lexer.TokenType]postfixParseFn
}

type (
	statementParseFn func() Statement
	prefixParseFn    func() Expression
	postfixParseFn   func(Expression) Expression // Arg is the operand being extended
)

// bailout carries the first error up to ParseModule.
type bailout struct {
	err errors.FlcError
}

// NewParser creates a new Parser.
func NewParser(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:      l,
		ts:     newTokenStream(l),
		source: l.Source(),
		arena:  NewASTArena(),
	}

	p.statementParseFns = make(map[lexer.TokenType]statementParseFn)
	p.registerStatement(lexer.ADOPT, p.parseImportStatement)
	p.registerStatement(lexer.SHARE, p.parseShareStatement)
	p.registerStatement(lexer.KEEP, func() Statement { return p.parseBindingStatement(p.curToken, false) })
	p.registerStatement(lexer.IF, p.parseIfStatement)
	p.registerStatement(lexer.STAY, p.parseWhileStatement)
	p.registerStatement(lexer.GO, p.parseForEachStatement)
	p.registerStatement(lexer.RETURN, p.parseReturnStatement)

	p.prefixParseFns = make(map[lexer.TokenType]prefixParseFn)
	p.registerPrefix(lexer.INT, p.parseNumberLiteral)
	p.registerPrefix(lexer.FLOAT, p.parseNumberLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.YES, p.parseBooleanLiteral)
	p.registerPrefix(lexer.NO, p.parseBooleanLiteral)
	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(lexer.MAKEOUT, p.parseNewExpression)
	p.registerPrefix(lexer.NATIVE, p.parseNative)
	p.registerPrefix(lexer.BOY, p.parseClassExpression)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedOrClosure)

	p.postfixParseFns = make(map[lexer.TokenType]postfixParseFn)
	p.registerPostfix(lexer.LPAREN, p.parseCallExpression)
	p.registerPostfix(lexer.DOT, p.parseMemberExpression)
	p.registerPostfix(lexer.DOUBLE_COLON, p.parseNamespaceExpression)
	p.registerPostfix(lexer.LBRACKET, p.parseIndexExpression)

	p.setPos(0)
	return p
}

// ParseSource parses one source file into a module with the given dotted path.
func ParseSource(sf *source.SourceFile, path string) (*Module, error) {
	return NewParser(lexer.NewLexerFromSource(sf)).ParseModule(path)
}

// ParseModule parses the whole input. The returned error is a
// *errors.LexError or *errors.SyntaxError. The input is tokenized in full
// first, so a lexical error anywhere wins over a syntax error.
func (p *Parser) ParseModule(path string) (mod *Module, err error) {
	if tok, bad := p.ts.fill(); bad {
		return nil, p.l.Error(tok)
	}

	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			mod, err = nil, b.err
		}
	}()

	p.checkIllegal()
	mod = &Module{Path: path, Source: p.source}
	if p.source != nil {
		mod.SourceDir = p.source.Dir()
	}

	p.skipNewlines()
	for !p.curTokenIs(lexer.EOF) {
		mod.Statements = append(mod.Statements, p.parseStatement())
		p.skipNewlines()
	}
	debugPrint("parsed %s: %d statements", path, len(mod.Statements))
	return mod, nil
}

// --- Registration ---

func (p *Parser) registerStatement(tokenType lexer.TokenType, fn statementParseFn) {
	p.statementParseFns[tokenType] = fn
}

func (p *Parser) registerPrefix(tokenType lexer.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerPostfix(tokenType lexer.TokenType, fn postfixParseFn) {
	p.postfixParseFns[tokenType] = fn
}

// --- Cursor ---

func (p *Parser) setPos(pos int) {
	p.pos = pos
	p.curToken = p.ts.at(pos)
	p.peekToken = p.ts.at(pos + 1)
}

// nextToken consumes curToken.
func (p *Parser) nextToken() {
	p.setPos(p.pos + 1)
	p.checkIllegal()
}

func (p *Parser) checkIllegal() {
	if p.curToken.Type == lexer.ILLEGAL && p.speculating == 0 {
		panic(bailout{err: p.l.Error(p.curToken)})
	}
}

// speculate runs probe from the current position and rewinds afterwards,
// whatever probe did. It is the parser's only backtracking primitive.
func (p *Parser) speculate(probe func() bool) bool {
	saved := p.pos
	p.speculating++
	defer func() {
		p.speculating--
		p.setPos(saved)
	}()
	return probe()
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) skipNewlines() {
	for p.curTokenIs(lexer.NEWLINE) {
		p.nextToken()
	}
}

// expect consumes curToken if it has type t and fails otherwise.
func (p *Parser) expect(t lexer.TokenType, what string) lexer.Token {
	tok := p.curToken
	if tok.Type != t {
		p.errorf(tok, "Expected %s, got %s", what, describe(tok))
	}
	p.nextToken()
	return tok
}

// expectStatementEnd accepts a newline run, or a closing brace or end of
// input left in place for the enclosing production.
func (p *Parser) expectStatementEnd() {
	switch p.curToken.Type {
	case lexer.RBRACE, lexer.EOF:
		return
	case lexer.NEWLINE:
		p.skipNewlines()
		return
	}
	p.errorf(p.curToken, "Expected end of statement, got %s", describe(p.curToken))
}

// --- Errors ---

func (p *Parser) errorf(tok lexer.Token, format string, args ...interface{}) {
	err := &errors.SyntaxError{
		Position: errors.Position{
			Line:     tok.Line,
			Column:   tok.Column,
			StartPos: tok.StartPos,
			EndPos:   tok.EndPos,
			Source:   p.source,
		},
		Msg: fmt.Sprintf(format, args...),
	}
	debugPrint("error: %s", err.Error())
	panic(bailout{err: err})
}

func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.NEWLINE, lexer.EOF:
		return string(tok.Type)
	case lexer.STRING:
		return fmt.Sprintf("STRING (%q)", tok.Literal)
	case lexer.IDENT, lexer.INT, lexer.FLOAT:
		return fmt.Sprintf("%s (%s)", tok.Type, tok.Literal)
	}
	if lexer.IsKeyword(tok.Literal) {
		return fmt.Sprintf("%s (%s)", tok.Type, tok.Literal)
	}
	return fmt.Sprintf("'%s'", tok.Literal)
}

// --- Statements ---

func (p *Parser) parseStatement() Statement {
	if fn, ok := p.statementParseFns[p.curToken.Type]; ok {
		return fn()
	}
	return p.parseExpressionOrAssignment()
}

var assignmentOperators = map[lexer.TokenType]bool{
	lexer.ASSIGN:          true,
	lexer.PLUS_ASSIGN:     true,
	lexer.MINUS_ASSIGN:    true,
	lexer.ASTERISK_ASSIGN: true,
	lexer.SLASH_ASSIGN:    true,
}

func (p *Parser) parseExpressionOrAssignment() Statement {
	startTok := p.curToken
	expr := p.parseExpression()

	if assignmentOperators[p.curToken.Type] {
		opTok := p.curToken
		p.nextToken()
		value := p.parseExpression()
		p.expectStatementEnd()
		return &AssignmentStatement{Token: opTok, Target: expr, Operator: opTok.Literal, Value: value}
	}

	p.expectStatementEnd()
	stmt := p.arena.NewExpressionStatement()
	stmt.Token = startTok
	stmt.Expression = expr
	return stmt
}

// adopt a.b.c
func (p *Parser) parseImportStatement() Statement {
	stmt := &ImportStatement{Token: p.curToken}
	p.nextToken()
	stmt.Path = append(stmt.Path, p.expect(lexer.IDENT, "module name").Literal)
	for p.curTokenIs(lexer.DOT) {
		p.nextToken()
		stmt.Path = append(stmt.Path, p.expect(lexer.IDENT, "module name").Literal)
	}
	p.expectStatementEnd()
	return stmt
}

func (p *Parser) parseShareStatement() Statement {
	return p.parseShared()
}

func (p *Parser) parseShared() *BindingStatement {
	shareTok := p.curToken
	p.nextToken()
	if !p.curTokenIs(lexer.KEEP) {
		p.errorf(p.curToken, "Expected 'keep' after 'share'")
	}
	return p.parseBindingStatement(shareTok, true)
}

// keep name [: type | native] [= value]
func (p *Parser) parseBindingStatement(startTok lexer.Token, exported bool) *BindingStatement {
	stmt := p.arena.NewBindingStatement()
	stmt.Token = startTok
	stmt.Exported = exported

	p.expect(lexer.KEEP, "'keep'")
	stmt.Name = p.expect(lexer.IDENT, "identifier").Literal

	if p.curTokenIs(lexer.COLON) {
		p.nextToken()
		stmt.TypeTag = p.parseTypeTag()
	}

	if p.curTokenIs(lexer.ASSIGN) {
		p.nextToken()
		stmt.Value = p.parseExpression()
		if class, ok := stmt.Value.(*ClassExpression); ok {
			class.Name = stmt.Name
		}
	}

	p.expectStatementEnd()
	return stmt
}

// parseTypeTag reads the identifier (or `native`) after a colon.
func (p *Parser) parseTypeTag() string {
	if p.curTokenIs(lexer.NATIVE) {
		tag := p.curToken.Literal
		p.nextToken()
		return tag
	}
	return p.expect(lexer.IDENT, "type name").Literal
}

func (p *Parser) parseIfStatement() Statement {
	stmt := &IfStatement{Token: p.curToken}
	p.nextToken()
	stmt.Condition = p.parseExpression()
	stmt.Body = p.parseBlockStatement()

	for p.elseFollows() {
		p.skipNewlines()
		p.nextToken() // else
		if p.curTokenIs(lexer.IF) {
			p.nextToken()
			clause := &ElseIfClause{Condition: p.parseExpression()}
			clause.Body = p.parseBlockStatement()
			stmt.ElseIfs = append(stmt.ElseIfs, clause)
			continue
		}
		stmt.Else = p.parseBlockStatement()
		break
	}

	p.skipNewlines()
	return stmt
}

// elseFollows reports whether the next significant token is `else`, so an
// else may start on the line after the closing brace.
func (p *Parser) elseFollows() bool {
	if p.curTokenIs(lexer.ELSE) {
		return true
	}
	if !p.curTokenIs(lexer.NEWLINE) {
		return false
	}
	return p.speculate(func() bool {
		p.skipNewlines()
		return p.curTokenIs(lexer.ELSE)
	})
}

func (p *Parser) parseWhileStatement() Statement {
	stmt := &WhileStatement{Token: p.curToken}
	p.nextToken()
	stmt.Condition = p.parseExpression()
	stmt.Body = p.parseBlockStatement()
	return stmt
}

// go iterable by name { ... }
func (p *Parser) parseForEachStatement() Statement {
	stmt := &ForEachStatement{Token: p.curToken}
	p.nextToken()
	stmt.Iterable = p.parseExpression()
	p.expect(lexer.BY, "'by'")
	stmt.Variable = p.expect(lexer.IDENT, "loop variable").Literal
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseReturnStatement() Statement {
	stmt := &ReturnStatement{Token: p.curToken}
	p.nextToken()
	switch p.curToken.Type {
	case lexer.NEWLINE, lexer.EOF, lexer.RBRACE:
	default:
		stmt.ReturnValue = p.parseExpression()
	}
	p.expectStatementEnd()
	return stmt
}

func (p *Parser) parseBlockStatement() *BlockStatement {
	p.skipNewlines()
	block := p.arena.NewBlockStatement()
	block.Token = p.expect(lexer.LBRACE, "'{'")
	p.skipNewlines()

	for !p.curTokenIs(lexer.RBRACE) {
		if p.curTokenIs(lexer.EOF) {
			p.errorf(p.curToken, "Unexpected end of file, expected '}'")
		}
		block.Statements = append(block.Statements, p.parseStatement())
		p.skipNewlines()
	}
	p.expect(lexer.RBRACE, "'}'")
	return block
}
