package errors

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"flc/pkg/source"
)

func TestErrorFormats(t *testing.T) {
	tests := []struct {
		err      FlcError
		kind     string
		expected string
	}{
		{&LexError{Position: Position{Line: 2, Column: 5}, Msg: "Unterminated string literal"}, "Lexical", "Lexer error at 2:5: Unterminated string literal"},
		{&SyntaxError{Position: Position{Line: 1, Column: 9}, Msg: "Expected IDENT, got INT (1)"}, "Syntax", "Parse error at 1:9: Expected IDENT, got INT (1)"},
		{&ResolveError{ImportPath: "lib.util", Searched: []string{"/a", "/a/lib"}}, "Resolution", "Cannot find module 'lib.util' (searched /a and /a/lib)"},
	}

	for _, tt := range tests {
		if tt.err.Kind() != tt.kind {
			t.Errorf("expected kind %s, got %s", tt.kind, tt.err.Kind())
		}
		if tt.err.Error() != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
		}
	}
}

func TestDisplayErrors(t *testing.T) {
	src := source.NewSourceFile("main.fl", "main.fl", "keep a = 1\n\tkeep b = @\n")
	err := &LexError{Position: Position{Line: 2, Column: 11, Source: src}, Msg: "Unexpected character: '@'"}

	var buf bytes.Buffer
	if !DisplayErrors(&buf, []FlcError{err}) {
		t.Fatalf("expected output to be written")
	}
	lines := strings.Split(buf.String(), "\n")
	if lines[0] != "main.fl:2:11: Lexer error at 2:11: Unexpected character: '@'" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != "  \tkeep b = @" {
		t.Errorf("unexpected source line %q", lines[1])
	}
	if lines[2] != "  \t         ^" {
		t.Errorf("unexpected marker %q", lines[2])
	}

	if DisplayErrors(&buf, nil) {
		t.Errorf("expected nothing to be written for no errors")
	}
}

func TestAsFlcError(t *testing.T) {
	inner := &SyntaxError{Position: Position{Line: 3, Column: 1}, Msg: "boom"}
	wrapped := fmt.Errorf("module lib: %w", inner)

	got, ok := AsFlcError(wrapped)
	if !ok || got != inner {
		t.Fatalf("expected to unwrap the syntax error, got %v", got)
	}
	if _, ok := AsFlcError(fmt.Errorf("plain")); ok {
		t.Errorf("expected plain error not to convert")
	}
}
