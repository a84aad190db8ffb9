package compiler

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// Prefixes owned by the generator. User identifiers never reach the output
// with these spellings.
const (
	internalPrefix = "__flc_"
	modulePrefix   = internalPrefix + "mod_"
	rangeHelper    = internalPrefix + "range"
	setterParam    = internalPrefix + "v"
)

// reservedName matches identifiers that cannot be emitted as written: JS
// reserved words and strict-mode restricted names, plus anything in the
// generator's own namespace. The lookahead stops a keyword from matching
// a longer identifier that merely starts with it.
var reservedName = regexp2.MustCompile(
	`^(?:`+internalPrefix+`|(?:`+
		`await|break|case|catch|class|const|continue|debugger|default|delete|do|`+
		`else|enum|export|extends|false|finally|for|function|if|implements|import|`+
		`in|instanceof|interface|let|new|null|package|private|protected|public|`+
		`return|static|super|switch|this|throw|true|try|typeof|var|void|while|`+
		`with|yield|arguments|eval|undefined|NaN|Infinity`+
		`)(?![A-Za-z0-9_$]))`,
	regexp2.ECMAScript)

// jsName returns the output spelling of a source identifier.
func jsName(name string) string {
	if ok, err := reservedName.MatchString(name); err == nil && ok {
		return "$" + name
	}
	return name
}

// jsNumber spells a number literal so JS reads the same value. Leading
// zeros go, since JS takes 010 as octal and rejects it in strict mode.
func jsNumber(lit string) string {
	trimmed := strings.TrimLeft(lit, "0")
	if trimmed == "" || trimmed[0] == '.' {
		trimmed = "0" + trimmed
	}
	return trimmed
}

// moduleVar names the const holding a file module's export object.
func moduleVar(path []string) string {
	return modulePrefix + strings.Join(path, "$")
}

// jsString quotes s as a double-quoted JS string literal.
func jsString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\u2028', '\u2029':
			writeUnicodeEscape(&b, r)
		default:
			if r < 0x20 || r == 0x7f {
				writeUnicodeEscape(&b, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

func writeUnicodeEscape(b *strings.Builder, r rune) {
	const hex = "0123456789abcdef"
	b.WriteString(`\u`)
	for shift := 12; shift >= 0; shift -= 4 {
		b.WriteByte(hex[(r>>uint(shift))&0xf])
	}
}
