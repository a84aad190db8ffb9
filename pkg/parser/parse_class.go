package parser

import "flc/pkg/lexer"

// boy [: Parent(::Name)*] { share/keep members }
func (p *Parser) parseClassExpression() Expression {
	class := &ClassExpression{Token: p.curToken}
	p.nextToken()

	if p.curTokenIs(lexer.COLON) {
		p.nextToken()
		class.Parent = p.parseQualifiedName()
	}

	p.skipNewlines()
	p.expect(lexer.LBRACE, "'{'")
	p.skipNewlines()

	for !p.curTokenIs(lexer.RBRACE) {
		switch p.curToken.Type {
		case lexer.EOF:
			p.errorf(p.curToken, "Unexpected end of file in class body")
		case lexer.SHARE:
			class.Members = append(class.Members, p.parseShared())
		case lexer.KEEP:
			class.Members = append(class.Members, p.parseBindingStatement(p.curToken, false))
		default:
			p.errorf(p.curToken, "Expected member declaration in class body, got %s", describe(p.curToken))
		}
		p.skipNewlines()
	}
	p.expect(lexer.RBRACE, "'}'")
	return class
}
