package parser

import (
	"strconv"

	"flc/pkg/lexer"
)

// Binary precedence ladder, lowest first. Each level parses its operands at
// the next level up; the level after the last one is unary.
const (
	LOGICAL_OR int = iota // ||
	LOGICAL_AND           // &&
	EQUALS                // ==, !=
	LESSGREATER           // <, >, <=, >=
	RANGE                 // to (non-associative)
	SUM                   // + or -
	PRODUCT               // * or / or %
	PREFIX                // -X or !X
)

type binaryLevel struct {
	operators      map[lexer.TokenType]bool
	nonAssociative bool
}

var binaryLevels = [PREFIX]binaryLevel{
	LOGICAL_OR:  {operators: map[lexer.TokenType]bool{lexer.LOGICAL_OR: true}},
	LOGICAL_AND: {operators: map[lexer.TokenType]bool{lexer.LOGICAL_AND: true}},
	EQUALS:      {operators: map[lexer.TokenType]bool{lexer.EQ: true, lexer.NOT_EQ: true}},
	LESSGREATER: {operators: map[lexer.TokenType]bool{lexer.LT: true, lexer.GT: true, lexer.LE: true, lexer.GE: true}},
	RANGE:       {operators: map[lexer.TokenType]bool{lexer.TO: true}, nonAssociative: true},
	SUM:         {operators: map[lexer.TokenType]bool{lexer.PLUS: true, lexer.MINUS: true}},
	PRODUCT:     {operators: map[lexer.TokenType]bool{lexer.ASTERISK: true, lexer.SLASH: true, lexer.PERCENT: true}},
}

func (p *Parser) parseExpression() Expression {
	return p.parseBinary(LOGICAL_OR)
}

func (p *Parser) parseBinary(precedence int) Expression {
	if precedence == PREFIX {
		return p.parseUnary()
	}
	level := binaryLevels[precedence]

	left := p.parseBinary(precedence + 1)
	for level.operators[p.curToken.Type] {
		opTok := p.curToken
		p.nextToken()
		right := p.parseBinary(precedence + 1)

		if opTok.Type == lexer.TO {
			left = &RangeExpression{Token: opTok, Start: left, End: right}
		} else {
			infix := p.arena.NewInfixExpression()
			infix.Token = opTok
			infix.Left = left
			infix.Operator = opTok.Literal
			infix.Right = right
			left = infix
		}
		if level.nonAssociative {
			break
		}
	}
	return left
}

func (p *Parser) parseUnary() Expression {
	if p.curTokenIs(lexer.BANG) || p.curTokenIs(lexer.MINUS) {
		expr := &PrefixExpression{Token: p.curToken, Operator: p.curToken.Literal}
		p.nextToken()
		expr.Right = p.parseUnary()
		return expr
	}
	return p.parsePostfix()
}

// parsePostfix parses a primary followed by any chain of calls, member,
// namespace and index accesses.
func (p *Parser) parsePostfix() Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorf(p.curToken, "Unexpected token: %s", describe(p.curToken))
	}
	expr := prefix()

	for {
		postfix := p.postfixParseFns[p.curToken.Type]
		if postfix == nil {
			return expr
		}
		expr = postfix(expr)
	}
}

// --- Primaries ---

func (p *Parser) parseIdentifier() Expression {
	ident := p.arena.NewIdentifier()
	ident.Token = p.curToken
	ident.Value = p.curToken.Literal
	p.nextToken()
	return ident
}

func (p *Parser) parseNumberLiteral() Expression {
	lit := p.arena.NewNumberLiteral()
	lit.Token = p.curToken
	lit.IsFloat = p.curTokenIs(lexer.FLOAT)

	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errorf(p.curToken, "Number literal %s is out of range", p.curToken.Literal)
	}
	lit.Value = value
	p.nextToken()
	return lit
}

func (p *Parser) parseStringLiteral() Expression {
	lit := p.arena.NewStringLiteral()
	lit.Token = p.curToken
	lit.Value = p.curToken.Literal
	p.nextToken()
	return lit
}

func (p *Parser) parseBooleanLiteral() Expression {
	lit := &BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(lexer.YES)}
	p.nextToken()
	return lit
}

// [a, b, c] with optional trailing comma; newlines allowed between elements.
func (p *Parser) parseArrayLiteral() Expression {
	array := &ArrayLiteral{Token: p.curToken}
	p.nextToken()
	p.skipNewlines()

	if !p.curTokenIs(lexer.RBRACKET) {
		array.Elements = append(array.Elements, p.parseExpression())
		p.skipNewlines()
		for p.curTokenIs(lexer.COMMA) {
			p.nextToken()
			p.skipNewlines()
			if p.curTokenIs(lexer.RBRACKET) {
				break
			}
			array.Elements = append(array.Elements, p.parseExpression())
			p.skipNewlines()
		}
	}
	p.expect(lexer.RBRACKET, "']'")
	return array
}

// makeout Name(::Name)*(args)
func (p *Parser) parseNewExpression() Expression {
	expr := &NewExpression{Token: p.curToken}
	p.nextToken()
	expr.Constructor = p.parseQualifiedName()
	p.expect(lexer.LPAREN, "'('")
	expr.Arguments = p.parseArguments()
	return expr
}

// parseQualifiedName reads Name(::Name)* as an identifier wrapped in
// namespace accesses.
func (p *Parser) parseQualifiedName() Expression {
	tok := p.expect(lexer.IDENT, "identifier")
	ident := p.arena.NewIdentifier()
	ident.Token = tok
	ident.Value = tok.Literal

	var name Expression = ident
	for p.curTokenIs(lexer.DOUBLE_COLON) {
		ns := p.arena.NewNamespaceExpression()
		ns.Token = p.curToken
		ns.Object = name
		p.nextToken()
		ns.Member = p.expect(lexer.IDENT, "identifier").Literal
		name = ns
	}
	return name
}

// parseNative handles `native => { ... }`. A bare `native` in value position
// is an ordinary identifier.
func (p *Parser) parseNative() Expression {
	if !p.peekTokenIs(lexer.ARROW) {
		ident := p.arena.NewIdentifier()
		ident.Token = p.curToken
		ident.Value = "native"
		p.nextToken()
		return ident
	}

	block := &NativeBlock{Token: p.curToken}
	p.nextToken()
	p.expect(lexer.ARROW, "'=>'")
	if !p.curTokenIs(lexer.LBRACE) {
		p.errorf(p.curToken, "Expected '{', got %s", describe(p.curToken))
	}

	span, ok := p.ts.nativeBody(p.pos)
	p.nextToken() // surfaces an unterminated block as a lexical error
	if !ok {
		p.errorf(p.curToken, "Unterminated native block")
	}
	block.Code = p.ts.input[span.start:span.end]

	// The stream resumed lexing at the closing brace.
	if !p.curTokenIs(lexer.RBRACE) || p.curToken.StartPos < span.end {
		p.errorf(p.curToken, "Expected '}' closing native block, got %s", describe(p.curToken))
	}
	p.nextToken()
	return block
}

// parseGroupedOrClosure decides between `(expr)` and `(params) => body`.
func (p *Parser) parseGroupedOrClosure() Expression {
	if p.closureAhead() {
		return p.parseClosureLiteral()
	}

	p.nextToken()
	p.skipNewlines()
	expr := p.parseExpression()
	p.skipNewlines()
	p.expect(lexer.RPAREN, "')'")
	return expr
}

// closureAhead scans to the parenthesis matching the current one and
// reports whether an arrow follows it.
func (p *Parser) closureAhead() bool {
	return p.speculate(func() bool {
		p.nextToken()
		for depth := 1; depth > 0; {
			switch p.curToken.Type {
			case lexer.LPAREN:
				depth++
			case lexer.RPAREN:
				depth--
			case lexer.EOF, lexer.ILLEGAL:
				return false
			}
			p.nextToken()
		}
		p.skipNewlines()
		return p.curTokenIs(lexer.ARROW)
	})
}

func (p *Parser) parseClosureLiteral() Expression {
	closure := &ClosureLiteral{Token: p.curToken}
	p.nextToken()
	closure.Parameters = p.parseParameters()
	p.expect(lexer.RPAREN, "')'")
	p.skipNewlines()
	p.expect(lexer.ARROW, "'=>'")
	p.skipNewlines()

	if p.curTokenIs(lexer.LBRACE) {
		closure.Body = p.parseBlockStatement()
		return closure
	}

	// Expression body: stored as { return <expr> }.
	bodyTok := p.curToken
	value := p.parseExpression()
	body := p.arena.NewBlockStatement()
	body.Token = bodyTok
	body.Statements = []Statement{&ReturnStatement{Token: bodyTok, ReturnValue: value}}
	closure.Body = body
	return closure
}

func (p *Parser) parseParameters() []*Parameter {
	var params []*Parameter
	p.skipNewlines()
	if p.curTokenIs(lexer.RPAREN) {
		return params
	}

	params = append(params, p.parseParameter())
	for p.curTokenIs(lexer.COMMA) {
		if params[len(params)-1].Variadic {
			p.errorf(p.curToken, "Variadic parameter '%s' must be the last parameter", params[len(params)-1].Name)
		}
		p.nextToken()
		p.skipNewlines()
		params = append(params, p.parseParameter())
	}
	p.skipNewlines()
	return params
}

// name[...][: type | native]
func (p *Parser) parseParameter() *Parameter {
	p.skipNewlines()
	tok := p.expect(lexer.IDENT, "parameter name")
	param := &Parameter{Token: tok, Name: tok.Literal}

	if p.curTokenIs(lexer.SPREAD) {
		p.nextToken()
		param.Variadic = true
	}
	if p.curTokenIs(lexer.COLON) {
		p.nextToken()
		param.TypeTag = p.parseTypeTag()
	}
	return param
}

// --- Postfix ---

// parseArguments reads a call argument list; the opening paren is consumed.
func (p *Parser) parseArguments() []Expression {
	var args []Expression
	p.skipNewlines()
	if !p.curTokenIs(lexer.RPAREN) {
		args = append(args, p.parseExpression())
		for p.curTokenIs(lexer.COMMA) {
			p.nextToken()
			p.skipNewlines()
			args = append(args, p.parseExpression())
		}
		p.skipNewlines()
	}
	p.expect(lexer.RPAREN, "')'")
	return args
}

func (p *Parser) parseCallExpression(function Expression) Expression {
	call := p.arena.NewCallExpression()
	call.Token = p.curToken
	call.Function = function
	p.nextToken()
	call.Arguments = p.parseArguments()
	return call
}

func (p *Parser) parseMemberExpression(object Expression) Expression {
	member := p.arena.NewMemberExpression()
	member.Token = p.curToken
	member.Object = object
	p.nextToken()
	member.Property = p.expect(lexer.IDENT, "member name").Literal
	return member
}

func (p *Parser) parseNamespaceExpression(object Expression) Expression {
	ns := p.arena.NewNamespaceExpression()
	ns.Token = p.curToken
	ns.Object = object
	p.nextToken()
	ns.Member = p.expect(lexer.IDENT, "member name").Literal
	return ns
}

func (p *Parser) parseIndexExpression(left Expression) Expression {
	index := &IndexExpression{Token: p.curToken, Left: left}
	p.nextToken()
	index.Index = p.parseExpression()
	p.expect(lexer.RBRACKET, "']'")
	return index
}
