package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"flc/pkg/errors"
	"flc/pkg/source"
)

// Lexer holds the state of the scanner.
type Lexer struct {
	input        string
	src          *source.SourceFile // Optional, attached to diagnostics
	position     int                // current position in input (points to current char's byte offset)
	readPosition int                // current reading position in input (byte offset after current char)
	ch           byte               // current char under examination (0 at end of input)
	line         int                // current 1-based line number
	column       int                // current 1-based column number (rune index on l.line)
}

// NewLexer creates a new Lexer.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.reset()
	return l
}

// NewLexerFromSource creates a Lexer whose errors point into sf.
func NewLexerFromSource(sf *source.SourceFile) *Lexer {
	l := NewLexer(sf.Content)
	l.src = sf
	return l
}

// Input returns the text being scanned.
func (l *Lexer) Input() string {
	return l.input
}

// Source returns the attached source file, if any.
func (l *Lexer) Source() *source.SourceFile {
	return l.src
}

// Seek moves the lexer to byte offset pos. Line and column are recounted by
// walking the input, so positions after the seek stay exact.
func (l *Lexer) Seek(pos int) {
	if pos < l.position {
		l.reset()
	}
	for l.position < pos && !l.atEnd() {
		l.readChar()
	}
}

func (l *Lexer) reset() {
	l.position = 0
	l.readPosition = 0
	l.ch = 0
	l.line = 1
	l.column = 0
	l.readChar()
}

func (l *Lexer) atEnd() bool {
	return l.position >= len(l.input)
}

// readChar gives us the next character and advances our position in the input string.
// It also updates the line and column count.
func (l *Lexer) readChar() {
	if l.readPosition > len(l.input) {
		return
	}
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	// UTF-8 continuation bytes belong to the rune already counted.
	if l.ch&0xC0 != 0x80 || l.atEnd() {
		l.column++
	}
}

// peekChar looks ahead in the input without consuming the character.
func (l *Lexer) peekChar() byte {
	return l.peekCharN(1)
}

func (l *Lexer) peekCharN(n int) byte {
	if l.position+n >= len(l.input) {
		return 0
	}
	return l.input[l.position+n]
}

// skipWhitespace consumes spaces, tabs and carriage returns. Newlines are tokens.
func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && (l.ch == ' ' || l.ch == '\t' || l.ch == '\r') {
		l.readChar()
	}
}

// skipComment reads until the end of the line, leaving the newline in place.
func (l *Lexer) skipComment() {
	for !l.atEnd() && l.ch != '\n' {
		l.readChar()
	}
}

// NextToken scans the input and returns the next token. Malformed input
// yields an ILLEGAL token whose Literal is the error message; the lexer
// has advanced past the offending text and may continue.
func (l *Lexer) NextToken() Token {
	for {
		l.skipWhitespace()
		if !l.atEnd() && l.ch == '#' {
			l.skipComment()
			continue
		}
		break
	}

	// Capture token start position *after* skipping whitespace
	startLine := l.line
	startCol := l.column
	startPos := l.position

	if l.atEnd() {
		return Token{Type: EOF, Literal: "", Line: startLine, Column: startCol, StartPos: startPos, EndPos: startPos}
	}

	simple := func(typ TokenType, width int) Token {
		for i := 0; i < width; i++ {
			l.readChar()
		}
		return Token{Type: typ, Literal: l.input[startPos:l.position], Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
	}
	illegal := func(msg string) Token {
		return Token{Type: ILLEGAL, Literal: msg, Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
	}

	switch l.ch {
	case '\n':
		return simple(NEWLINE, 1)
	case '"':
		value, msg := l.readString()
		if msg != "" {
			return illegal(msg)
		}
		return Token{Type: STRING, Literal: value, Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
	case '+':
		if l.peekChar() == '=' {
			return simple(PLUS_ASSIGN, 2)
		}
		return simple(PLUS, 1)
	case '-':
		if l.peekChar() == '=' {
			return simple(MINUS_ASSIGN, 2)
		}
		return simple(MINUS, 1)
	case '*':
		if l.peekChar() == '=' {
			return simple(ASTERISK_ASSIGN, 2)
		}
		return simple(ASTERISK, 1)
	case '/':
		if l.peekChar() == '=' {
			return simple(SLASH_ASSIGN, 2)
		}
		return simple(SLASH, 1)
	case '%':
		return simple(PERCENT, 1)
	case '=':
		switch l.peekChar() {
		case '=':
			return simple(EQ, 2)
		case '>':
			return simple(ARROW, 2)
		}
		return simple(ASSIGN, 1)
	case '!':
		if l.peekChar() == '=' {
			return simple(NOT_EQ, 2)
		}
		return simple(BANG, 1)
	case '<':
		if l.peekChar() == '=' {
			return simple(LE, 2)
		}
		return simple(LT, 1)
	case '>':
		if l.peekChar() == '=' {
			return simple(GE, 2)
		}
		return simple(GT, 1)
	case '&':
		if l.peekChar() == '&' {
			return simple(LOGICAL_AND, 2)
		}
		l.readChar()
		return illegal("Unexpected character '&', did you mean '&&'?")
	case '|':
		if l.peekChar() == '|' {
			return simple(LOGICAL_OR, 2)
		}
		l.readChar()
		return illegal("Unexpected character '|', did you mean '||'?")
	case ':':
		if l.peekChar() == ':' {
			return simple(DOUBLE_COLON, 2)
		}
		return simple(COLON, 1)
	case '.':
		if l.peekCharN(1) == '.' && l.peekCharN(2) == '.' {
			return simple(SPREAD, 3)
		}
		return simple(DOT, 1)
	case '(':
		return simple(LPAREN, 1)
	case ')':
		return simple(RPAREN, 1)
	case '{':
		return simple(LBRACE, 1)
	case '}':
		return simple(RBRACE, 1)
	case '[':
		return simple(LBRACKET, 1)
	case ']':
		return simple(RBRACKET, 1)
	case ',':
		return simple(COMMA, 1)
	}

	if isLetter(l.ch) {
		ident := l.readIdentifier()
		return Token{Type: LookupIdent(ident), Literal: ident, Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
	}
	if isDigit(l.ch) {
		literal, isFloat := l.readNumber()
		typ := INT
		if isFloat {
			typ = FLOAT
		}
		return Token{Type: typ, Literal: literal, Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
	}

	r, size := utf8.DecodeRuneInString(l.input[l.position:])
	for i := 0; i < size; i++ {
		l.readChar()
	}
	return illegal(fmt.Sprintf("Unexpected character: %q", r))
}

// Tokenize scans the whole input. The returned slice always ends with EOF.
// The first ILLEGAL token aborts the scan with a *errors.LexError.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == ILLEGAL {
			return nil, l.Error(tok)
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

// Error converts an ILLEGAL token into a lexical error.
func (l *Lexer) Error(tok Token) *errors.LexError {
	return l.ErrorAt(tok, tok.Literal)
}

// ErrorAt builds a lexical error positioned at tok.
func (l *Lexer) ErrorAt(tok Token, msg string) *errors.LexError {
	return &errors.LexError{
		Position: errors.Position{
			Line:     tok.Line,
			Column:   tok.Column,
			StartPos: tok.StartPos,
			EndPos:   tok.EndPos,
			Source:   l.src,
		},
		Msg: msg,
	}
}

// readIdentifier reads [A-Za-z_][A-Za-z0-9_]*.
func (l *Lexer) readIdentifier() string {
	startPos := l.position
	for !l.atEnd() && (isLetter(l.ch) || isDigit(l.ch)) {
		l.readChar()
	}
	return l.input[startPos:l.position]
}

// readNumber reads an unsigned integer or decimal. The dot is only taken
// when a digit follows it, so "3.foo" lexes as INT DOT IDENT.
func (l *Lexer) readNumber() (string, bool) {
	startPos := l.position
	isFloat := false
	for !l.atEnd() && isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for !l.atEnd() && isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[startPos:l.position], isFloat
}

// readString reads a double-quoted literal starting at the opening quote.
// Known escapes are decoded; any other escaped character is kept as the
// backslash plus the character. A non-empty message reports failure.
func (l *Lexer) readString() (string, string) {
	var builder strings.Builder
	l.readChar() // opening quote

	for {
		if l.atEnd() {
			return "", "Unterminated string literal"
		}
		switch l.ch {
		case '"':
			l.readChar()
			return builder.String(), ""
		case '\n':
			return "", "Unterminated string literal"
		case '\\':
			l.readChar()
			if l.atEnd() {
				return "", "Unterminated string escape"
			}
			switch l.ch {
			case 'n':
				builder.WriteByte('\n')
			case 't':
				builder.WriteByte('\t')
			case 'r':
				builder.WriteByte('\r')
			case '\\':
				builder.WriteByte('\\')
			case '"':
				builder.WriteByte('"')
			case '0':
				builder.WriteByte(0)
			default:
				builder.WriteByte('\\')
				builder.WriteByte(l.ch)
			}
		default:
			builder.WriteByte(l.ch)
		}
		l.readChar()
	}
}

// isLetter checks if the character is a letter or underscore.
func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

// isDigit checks if the character is a digit.
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
