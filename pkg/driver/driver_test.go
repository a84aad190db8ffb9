package driver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"

	"flc/pkg/errors"
)

func TestCompileFS(t *testing.T) {
	fsys := fstest.MapFS{
		"main.fl": {Data: []byte("adopt io\nadopt lib\nio::print(lib::x)\n")},
		"lib.fl":  {Data: []byte("share keep x = 1\n")},
	}

	res, err := CompileFS(fsys, "/proj", "main.fl", Options{})
	if err != nil {
		t.Fatalf("CompileFS failed: %v", err)
	}

	if !strings.Contains(res.JavaScript, "const __flc_mod_lib = (() => {") {
		t.Errorf("expected the lib module closure in:\n%s", res.JavaScript)
	}
	if !strings.HasSuffix(res.JavaScript, "  io.print(lib.x);\n})();") {
		t.Errorf("expected the entry module last in:\n%s", res.JavaScript)
	}
	if res.Loader.Modules != 2 {
		t.Errorf("expected 2 modules, got %d", res.Loader.Modules)
	}
	if !reflect.DeepEqual(res.Loader.Discovered, []string{"__main__", "lib"}) {
		t.Errorf("expected discovery order [__main__ lib], got %v", res.Loader.Discovered)
	}
	if !reflect.DeepEqual(res.Compiler.StdlibModules, []string{"io"}) {
		t.Errorf("expected [io], got %v", res.Compiler.StdlibModules)
	}
}

func TestNativePayloadKeepsSourceBytes(t *testing.T) {
	payload := "console.log(\"e\u0301\");"
	fsys := fstest.MapFS{"main.fl": {Data: []byte("native => {" + payload + "}\n")}}

	res, err := CompileFS(fsys, "/proj", "main.fl", Options{})
	if err != nil {
		t.Fatalf("CompileFS failed: %v", err)
	}
	if !strings.Contains(res.JavaScript, "  "+payload+"\n") {
		t.Errorf("expected the payload byte for byte in:\n%q", res.JavaScript)
	}
}

func TestCompileFSDumpAST(t *testing.T) {
	fsys := fstest.MapFS{"main.fl": {Data: []byte("keep x = 1\n")}}

	var out bytes.Buffer
	if _, err := CompileFS(fsys, "/proj", "main.fl", Options{DumpAST: true, Stdout: &out}); err != nil {
		t.Fatalf("CompileFS failed: %v", err)
	}
	expected := "Program\n└── Module __main__\n   └── Keep x\n      └── 1\n"
	if out.String() != expected {
		t.Errorf("expected %q, got %q", expected, out.String())
	}
}

func TestCompileFSErrors(t *testing.T) {
	tests := []struct {
		name    string
		files   fstest.MapFS
		kind    string
		display []string
	}{
		{
			name:    "missing module",
			files:   fstest.MapFS{"main.fl": {Data: []byte("adopt io\nadopt nope\n")}},
			kind:    "Resolution",
			display: []string{"Error: Cannot find module 'nope'", "imported from /proj/main.fl:2"},
		},
		{
			name:    "syntax error in dependency",
			files:   fstest.MapFS{"main.fl": {Data: []byte("adopt lib\n")}, "lib.fl": {Data: []byte("keep = 1\n")}},
			kind:    "Syntax",
			display: []string{"/proj/lib.fl:1:6:", "  keep = 1", "       ^"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileFS(tt.files, "/proj", "main.fl", Options{})
			fe, ok := errors.AsFlcError(err)
			if !ok {
				t.Fatalf("expected a FlcError, got %T (%v)", err, err)
			}
			if fe.Kind() != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, fe.Kind())
			}

			var buf bytes.Buffer
			if !DisplayError(&buf, err) {
				t.Fatal("DisplayError printed nothing")
			}
			for _, want := range tt.display {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("expected %q in:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestDisplayError(t *testing.T) {
	var buf bytes.Buffer
	if DisplayError(&buf, nil) {
		t.Error("nil error should print nothing")
	}
	if !DisplayError(&buf, fmt.Errorf("boom")) {
		t.Error("expected output for a plain error")
	}
	if buf.String() != "Error: boom\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input    string
		output   string
		expected string
	}{
		{"main.fl", "", "main.js"},
		{"dir/app.fl", "", "dir/app.js"},
		{"noext", "", "noext.js"},
		{"main.fl", "out/bundle.js", "out/bundle.js"},
	}

	for _, tt := range tests {
		if got := OutputPath(tt.input, Options{Output: tt.output}); got != tt.expected {
			t.Errorf("OutputPath(%q, %q): expected %q, got %q", tt.input, tt.output, tt.expected, got)
		}
	}
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestWriteJavaScriptFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"main.fl":       "adopt util.greet\ngreet::hello()\n",
		"util/greet.fl": "adopt io\nshare keep hello = () => io::print(\"hi\")\n",
	})
	input := filepath.Join(dir, "main.fl")

	var stdout, stderr bytes.Buffer
	output, err := WriteJavaScriptFile(input, Options{Stdout: &stdout, Stderr: &stderr})
	if err != nil {
		t.Fatalf("WriteJavaScriptFile failed: %v", err)
	}

	if output != filepath.Join(dir, "main.js") {
		t.Errorf("unexpected output path %s", output)
	}
	written, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	res, err := CompileFile(input, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if string(written) != res.JavaScript+"\n" {
		t.Errorf("file content differs from compiler output:\n%s", written)
	}
	if !strings.Contains(string(written), "const greet = __flc_mod_util$greet;") {
		t.Errorf("expected the nested module binding in:\n%s", written)
	}

	expected := fmt.Sprintf("Compiled %s -> %s\n", input, output)
	if stdout.String() != expected {
		t.Errorf("expected %q, got %q", expected, stdout.String())
	}
	if stderr.Len() != 0 {
		t.Errorf("unexpected warnings: %s", stderr.String())
	}
}

func TestWriteJavaScriptFileExplicitOutput(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"main.fl": "keep x = 1\n"})
	target := filepath.Join(dir, "build.js")

	output, err := WriteJavaScriptFile(filepath.Join(dir, "main.fl"), Options{Output: target, Stdout: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("WriteJavaScriptFile failed: %v", err)
	}
	if output != target {
		t.Errorf("expected %s, got %s", target, output)
	}
	if _, err := os.Stat(filepath.Join(dir, "main.js")); !os.IsNotExist(err) {
		t.Errorf("default output should not exist when -o is given")
	}
}

func TestWriteJavaScriptFileWritesNothingOnError(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"main.fl": "adopt missing\n"})

	var stdout bytes.Buffer
	_, err := WriteJavaScriptFile(filepath.Join(dir, "main.fl"), Options{Stdout: &stdout})
	if _, ok := err.(*errors.ResolveError); !ok {
		t.Fatalf("expected *errors.ResolveError, got %T (%v)", err, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "main.js")); !os.IsNotExist(err) {
		t.Errorf("no output file should be written on error")
	}
	if stdout.Len() != 0 {
		t.Errorf("unexpected output %q", stdout.String())
	}
}

func TestWriteJavaScriptFileWarnsOnCycle(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"main.fl": "adopt a\n",
		"a.fl":    "adopt b\nshare keep x = 1\n",
		"b.fl":    "adopt a\nshare keep y = 2\n",
	})

	var stderr bytes.Buffer
	if _, err := WriteJavaScriptFile(filepath.Join(dir, "main.fl"), Options{Stdout: &bytes.Buffer{}, Stderr: &stderr}); err != nil {
		t.Fatalf("WriteJavaScriptFile failed: %v", err)
	}
	if !strings.Contains(stderr.String(), "Warning: import cycle a -> b -> a") {
		t.Errorf("expected a cycle warning, got %q", stderr.String())
	}
}

func TestSession(t *testing.T) {
	s := NewSessionWithFS(fstest.MapFS{"lib.fl": {Data: []byte("share keep y = 2\n")}}, "/repl")

	js, err := s.CompileString("adopt lib\nkeep z = lib::y\n")
	if err != nil {
		t.Fatalf("CompileString failed: %v", err)
	}
	if !strings.Contains(js, "const lib = __flc_mod_lib;") {
		t.Errorf("expected the lib binding in:\n%s", js)
	}

	_, err = s.CompileString("keep = 1\n")
	fe, ok := errors.AsFlcError(err)
	if !ok || fe.Kind() != "Syntax" {
		t.Fatalf("expected a syntax error, got %v", err)
	}
	if fe.Pos().Source == nil || fe.Pos().Source.Name != "<repl>" {
		t.Errorf("expected the error to point at <repl>")
	}

	js, err = s.CompileString("adopt io\nio::print(1)\n")
	if err != nil {
		t.Fatalf("session unusable after an error: %v", err)
	}
	if strings.Contains(js, "__flc_mod_lib") {
		t.Errorf("previous snippet leaked into:\n%s", js)
	}
}

func TestNeedsMoreInput(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"keep x = 1", false},
		{"keep = 1", false},
		{"keep x =", true},
		{"if x {\n    io::print(1)", true},
		{"keep Box = boy {\n    keep v = 1", true},
		{"keep s = \"abc", true},
		{"native => { let a = 1;", true},
		{"io::print(1,", true},
		{"keep x = )", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := NeedsMoreInput(tt.input); got != tt.expected {
			t.Errorf("NeedsMoreInput(%q): expected %v, got %v", tt.input, tt.expected, got)
		}
	}
}
