package parser

import (
	"testing"

	"flc/pkg/lexer"
	"flc/pkg/source"
)

func TestTokensSkipNativeBodies(t *testing.T) {
	sf := source.NewSourceFile("t.fl", "", "keep x = native => { a < 'b' }\n")
	tokens, err := Tokens(sf)
	if err != nil {
		t.Fatalf("Tokens failed: %v", err)
	}

	expected := []lexer.TokenType{
		lexer.KEEP, lexer.IDENT, lexer.ASSIGN, lexer.NATIVE, lexer.ARROW,
		lexer.LBRACE, lexer.RBRACE, lexer.NEWLINE, lexer.EOF,
	}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}
	for i, typ := range expected {
		if tokens[i].Type != typ {
			t.Errorf("token %d: expected %s, got %s", i, typ, tokens[i].Type)
		}
	}
}

func TestTokensStopAtIllegal(t *testing.T) {
	sf := source.NewSourceFile("t.fl", "", "keep x = native => { never closed\n")
	tokens, err := Tokens(sf)
	if err == nil {
		t.Fatal("expected an error for an unterminated native block")
	}
	if err.Error() == "" || len(tokens) != 6 {
		t.Errorf("expected the 6 tokens before the error, got %d (%v)", len(tokens), err)
	}
}
