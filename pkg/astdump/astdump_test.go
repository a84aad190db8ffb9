package astdump

import (
	"bytes"
	"strings"
	"testing"

	"flc/pkg/parser"
	"flc/pkg/source"
)

func parseProgram(t *testing.T, src string) *parser.Program {
	t.Helper()
	mod, err := parser.ParseSource(source.NewSourceFile("main.fl", "", src), parser.MainModulePath)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return &parser.Program{Modules: []*parser.Module{mod}}
}

func TestPrintTree(t *testing.T) {
	src := `adopt io
share keep n: int = 1 + 2
go [] by x {
}
if n == 3 {
    io::print("ok")
} else {
    return
}
keep f = (a, b...) => a
keep A = boy : base::B {
    keep v = makeout Thing()
}
native => { let  x = 1 }
`
	expected := `Program
└── Module __main__
   ├── Adopt io
   ├── share Keep n :int
   │  └── BinOp +
   │     ├── 1
   │     └── 2
   ├── Go by x
   │  ├── Array []
   │  └── {}
   ├── If
   │  ├── condition
   │  │  └── BinOp ==
   │  │     ├── n
   │  │     └── 3
   │  ├── then
   │  │  └── Block
   │  │     └── Call
   │  │        ├── Access :: print
   │  │        │  └── io
   │  │        └── "ok"
   │  └── else
   │     └── Block
   │        └── Return
   ├── Keep f
   │  └── Closure (a, b...)
   │     └── Block
   │        └── Return
   │           └── a
   ├── Keep A
   │  └── Boy : base::B
   │     └── Keep v
   │        └── Makeout
   │           └── Thing
   └── Native let  x = 1
`

	var buf bytes.Buffer
	if err := Fprint(&buf, parseProgram(t, src), false); err != nil {
		t.Fatalf("print: %v", err)
	}
	if buf.String() != expected {
		t.Errorf("tree mismatch\n--- expected ---\n%s\n--- got ---\n%s", expected, buf.String())
	}
}

func TestModulesInOrder(t *testing.T) {
	lib, err := parser.ParseSource(source.NewSourceFile("lib.fl", "", "share keep x = YES\n"), "lib")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	main := parseProgram(t, "adopt lib\n")
	prog := &parser.Program{Modules: []*parser.Module{lib, main.Modules[0]}}

	expected := `Program
├── Module lib
│  └── share Keep x
│     └── YES
└── Module __main__
   └── Adopt lib
`
	var buf bytes.Buffer
	if err := Fprint(&buf, prog, false); err != nil {
		t.Fatalf("print: %v", err)
	}
	if buf.String() != expected {
		t.Errorf("tree mismatch\n--- expected ---\n%s\n--- got ---\n%s", expected, buf.String())
	}
}

func TestColor(t *testing.T) {
	var buf bytes.Buffer
	if err := Fprint(&buf, parseProgram(t, "share keep s = \"hi\"\n"), true); err != nil {
		t.Fatalf("print: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"\033[1m\033[36mProgram\033[0m",
		"\033[90m__main__\033[0m",
		"\033[35mshare\033[0m",
		"\033[33m\"hi\"\033[0m",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in colored output:\n%q", want, out)
		}
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"trimmed", "  a\nb  ", "a b"},
		{"crlf", "a\r\nb", "a b"},
		{"exact fit", strings.Repeat("x", 40), strings.Repeat("x", 40)},
		{"cut", strings.Repeat("x", 50), strings.Repeat("x", 37) + "..."},
		{"wide runes", strings.Repeat("漢", 25), strings.Repeat("漢", 18) + "..."},
		{"wide fits", strings.Repeat("漢", 20), strings.Repeat("漢", 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Preview(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
