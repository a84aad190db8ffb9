package lexer

import "fmt"

// TokenType represents the type of a token.
type TokenType string

// Token represents a lexical token.
type Token struct {
	Type     TokenType
	Literal  string // Lexeme; for STRING the unescaped value, for ILLEGAL the error message
	Line     int    // 1-based line number where the token starts
	Column   int    // 1-based column number (rune index) where the token starts
	StartPos int    // 0-based byte offset where the token starts
	EndPos   int    // 0-based byte offset after the token ends
}

func (t Token) String() string {
	return fmt.Sprintf("%d:%d\t%-8s %q", t.Line, t.Column, t.Type, t.Literal)
}

// --- Token Types ---
const (
	// Special
	ILLEGAL TokenType = "ILLEGAL" // Lexical error, Literal holds the message
	EOF     TokenType = "EOF"
	NEWLINE TokenType = "NEWLINE" // Statement separator

	// Identifiers + Literals
	IDENT  TokenType = "IDENT"
	INT    TokenType = "INT"
	FLOAT  TokenType = "FLOAT"
	STRING TokenType = "STRING"

	// Operators
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	PERCENT  TokenType = "%"
	BANG     TokenType = "!"

	ASSIGN          TokenType = "="
	PLUS_ASSIGN     TokenType = "+="
	MINUS_ASSIGN    TokenType = "-="
	ASTERISK_ASSIGN TokenType = "*="
	SLASH_ASSIGN    TokenType = "/="

	EQ     TokenType = "=="
	NOT_EQ TokenType = "!="
	LT     TokenType = "<"
	GT     TokenType = ">"
	LE     TokenType = "<="
	GE     TokenType = ">="

	LOGICAL_AND TokenType = "&&"
	LOGICAL_OR  TokenType = "||"

	DOUBLE_COLON TokenType = "::" // Namespace access
	ARROW        TokenType = "=>"
	DOT          TokenType = "."
	COLON        TokenType = ":"
	SPREAD       TokenType = "..." // Variadic parameter marker

	// Delimiters
	COMMA    TokenType = ","
	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"

	// Keywords
	ADOPT   TokenType = "ADOPT"
	KEEP    TokenType = "KEEP"
	SHARE   TokenType = "SHARE"
	GO      TokenType = "GO"
	BY      TokenType = "BY"
	STAY    TokenType = "STAY"
	IF      TokenType = "IF"
	ELSE    TokenType = "ELSE"
	RETURN  TokenType = "RETURN"
	BOY     TokenType = "BOY"
	MAKEOUT TokenType = "MAKEOUT"
	NATIVE  TokenType = "NATIVE"
	TO      TokenType = "TO"
	YES     TokenType = "YES"
	NO      TokenType = "NO"
)

// The boolean literals are spelled in upper case only; "yes" is an identifier.
var keywords = map[string]TokenType{
	"adopt":   ADOPT,
	"keep":    KEEP,
	"share":   SHARE,
	"go":      GO,
	"by":      BY,
	"stay":    STAY,
	"if":      IF,
	"else":    ELSE,
	"return":  RETURN,
	"boy":     BOY,
	"makeout": MAKEOUT,
	"native":  NATIVE,
	"to":      TO,
	"YES":     YES,
	"NO":      NO,
}

// LookupIdent checks the keywords table for an identifier.
func LookupIdent(ident string) TokenType {
	if tokType, ok := keywords[ident]; ok {
		return tokType
	}
	return IDENT
}

// IsKeyword reports whether ident is a reserved spelling.
func IsKeyword(ident string) bool {
	_, ok := keywords[ident]
	return ok
}
