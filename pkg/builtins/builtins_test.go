package builtins

import (
	"strings"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		found    bool
		contains string
	}{
		{"io", true, "print: (...args) => console.log(...args)"},
		{"math", true, "PI: Math.PI"},
		{"str", true, "upper: (s) => s.toUpperCase()"},
		{"arr", true, "push: (a, v) => { a.push(v); return a; }"},
		{"net", false, ""},
		{"IO", false, ""},
	}

	for _, tt := range tests {
		m, ok := Lookup(tt.name)
		if ok != tt.found {
			t.Fatalf("%s: expected found=%v, got %v", tt.name, tt.found, ok)
		}
		if !ok {
			continue
		}
		snippet := m.Snippet()
		if !strings.HasPrefix(snippet, "const "+tt.name+" = { ") || !strings.HasSuffix(snippet, " };") {
			t.Errorf("%s: unexpected snippet shape %q", tt.name, snippet)
		}
		if !strings.Contains(snippet, tt.contains) {
			t.Errorf("%s: expected snippet to contain %q", tt.name, tt.contains)
		}
	}
}

func TestIOSnippet(t *testing.T) {
	m, _ := Lookup("io")
	expected := "const io = { print: (...args) => console.log(...args) };"
	if m.Snippet() != expected {
		t.Errorf("expected %q, got %q", expected, m.Snippet())
	}
}

func TestNames(t *testing.T) {
	names := Names()
	expected := []string{"arr", "io", "math", "str"}
	if strings.Join(names, ",") != strings.Join(expected, ",") {
		t.Errorf("expected %v, got %v", expected, names)
	}
	if !IsStdlib("math") || IsStdlib("lib") {
		t.Errorf("unexpected IsStdlib results")
	}
}
