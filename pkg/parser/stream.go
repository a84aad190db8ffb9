package parser

import (
	"flc/pkg/lexer"
	"flc/pkg/source"
)

// tokenStream buffers tokens pulled from the lexer so the parser can save
// and rewind its cursor. It is also the only place that looks at both the
// token view and the raw text of the input: when the buffer receives the
// `native => {` sequence, the body of the block is located by scanning the
// raw text and the lexer is moved past it, so no tokens are ever produced
// for embedded JavaScript.
type tokenStream struct {
	l      *lexer.Lexer
	input  string
	tokens []lexer.Token
	raw    map[int]rawSpan // keyed by the buffer index of the opening brace
}

// rawSpan is the byte range of a native block body, braces excluded.
type rawSpan struct {
	start int
	end   int
}

func newTokenStream(l *lexer.Lexer) *tokenStream {
	return &tokenStream{
		l:     l,
		input: l.Input(),
		raw:   make(map[int]rawSpan),
	}
}

// at returns the token at buffer index i, lexing on demand. Past the end of
// input it keeps returning EOF.
func (ts *tokenStream) at(i int) lexer.Token {
	for len(ts.tokens) <= i {
		if n := len(ts.tokens); n > 0 && ts.tokens[n-1].Type == lexer.EOF {
			return ts.tokens[n-1]
		}
		ts.tokens = append(ts.tokens, ts.l.NextToken())
		if ts.opensNativeBlock() {
			ts.skipNativeBody()
		}
	}
	return ts.tokens[i]
}

func (ts *tokenStream) opensNativeBlock() bool {
	n := len(ts.tokens)
	return n >= 3 &&
		ts.tokens[n-1].Type == lexer.LBRACE &&
		ts.tokens[n-2].Type == lexer.ARROW &&
		ts.tokens[n-3].Type == lexer.NATIVE
}

// skipNativeBody records the span of the block whose brace was just
// buffered and seeks the lexer to its closing brace. An unterminated block
// becomes an ILLEGAL token at the opening brace followed by EOF.
func (ts *tokenStream) skipNativeBody() {
	idx := len(ts.tokens) - 1
	lbrace := ts.tokens[idx]
	end, ok := scanNativeBody(ts.input, lbrace.EndPos)
	if !ok {
		ts.tokens = append(ts.tokens, lexer.Token{
			Type:     lexer.ILLEGAL,
			Literal:  "Unterminated native block",
			Line:     lbrace.Line,
			Column:   lbrace.Column,
			StartPos: lbrace.StartPos,
			EndPos:   len(ts.input),
		})
		ts.l.Seek(len(ts.input))
		return
	}
	ts.raw[idx] = rawSpan{start: lbrace.EndPos, end: end}
	ts.l.Seek(end)
}

// fill lexes the rest of the input and returns the first ILLEGAL token,
// if any.
func (ts *tokenStream) fill() (lexer.Token, bool) {
	for i := 0; ; i++ {
		switch tok := ts.at(i); tok.Type {
		case lexer.ILLEGAL:
			return tok, true
		case lexer.EOF:
			return tok, false
		}
	}
}

// Tokens returns the tokens the parser sees for sf. Native block bodies
// produce none. An ILLEGAL token ends the list with a *errors.LexError.
func Tokens(sf *source.SourceFile) ([]lexer.Token, error) {
	l := lexer.NewLexerFromSource(sf)
	ts := newTokenStream(l)
	var tokens []lexer.Token
	for i := 0; ; i++ {
		tok := ts.at(i)
		if tok.Type == lexer.ILLEGAL {
			return tokens, l.Error(tok)
		}
		tokens = append(tokens, tok)
		if tok.Type == lexer.EOF {
			return tokens, nil
		}
	}
}

// nativeBody returns the raw span opened by the brace at buffer index i.
func (ts *tokenStream) nativeBody(i int) (rawSpan, bool) {
	span, ok := ts.raw[i]
	return span, ok
}

// scanNativeBody walks the raw input from start (just past an opening
// brace) and returns the offset of the matching closing brace. Quoted
// strings, template literals and comments are skipped so braces inside
// them are not counted.
func scanNativeBody(input string, start int) (int, bool) {
	depth := 1
	i := start
	for i < len(input) {
		switch ch := input[i]; ch {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		case '"', '\'', '`':
			i = skipQuoted(input, i)
			continue
		case '/':
			if i+1 < len(input) && input[i+1] == '/' {
				for i < len(input) && input[i] != '\n' {
					i++
				}
				continue
			}
			if i+1 < len(input) && input[i+1] == '*' {
				i += 2
				for i+1 < len(input) && !(input[i] == '*' && input[i+1] == '/') {
					i++
				}
				i += 2
				continue
			}
		}
		i++
	}
	return 0, false
}

// skipQuoted returns the offset just past the string opened at i. A
// backslash always escapes the next byte. Unterminated strings run to the
// end of input.
func skipQuoted(input string, i int) int {
	quote := input[i]
	i++
	for i < len(input) && input[i] != quote {
		if input[i] == '\\' {
			i++
		}
		i++
	}
	return i + 1
}
