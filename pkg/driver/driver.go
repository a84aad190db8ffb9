package driver

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"flc/pkg/astdump"
	"flc/pkg/compiler"
	"flc/pkg/errors"
	"flc/pkg/modules"
	"flc/pkg/parser"
	"flc/pkg/source"
)

const debugDriver = false

func debugPrintf(format string, args ...interface{}) {
	if debugDriver {
		fmt.Fprintf(os.Stderr, "// [Driver] "+format+"\n", args...)
	}
}

// Options configures one compilation.
type Options struct {
	Output  string // Output path; empty means <input without extension>.js
	DumpAST bool   // Print the module tree before generating code
	Color   bool   // Color the tree with ANSI escapes
	Stdout  io.Writer
	Stderr  io.Writer
}

func (o Options) stdout() io.Writer {
	if o.Stdout == nil {
		return os.Stdout
	}
	return o.Stdout
}

func (o Options) stderr() io.Writer {
	if o.Stderr == nil {
		return os.Stderr
	}
	return o.Stderr
}

// Result is a successful compilation.
type Result struct {
	JavaScript string
	Program    *parser.Program
	Loader     modules.LoaderStats
	Compiler   compiler.CompilerStats
}

// CompileFile compiles the program rooted at filename. Imports resolve
// against the entry file's directory first, then the importer's.
func CompileFile(filename string, opts Options) (*Result, error) {
	program, stats, err := LoadFile(filename)
	if err != nil {
		return nil, err
	}
	return generate(program, stats, opts)
}

// CompileFS compiles entry, a slash-separated path inside fsys. baseDir is
// the directory fsys stands for and only shapes the paths in diagnostics.
func CompileFS(fsys fs.FS, baseDir, entry string, opts Options) (*Result, error) {
	program, stats, err := LoadFS(fsys, baseDir, entry)
	if err != nil {
		return nil, err
	}
	return generate(program, stats, opts)
}

// LoadFile parses filename and everything it adopts without generating code.
func LoadFile(filename string) (*parser.Program, modules.LoaderStats, error) {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return nil, modules.LoaderStats{}, err
	}
	dir := filepath.Dir(abs)
	return LoadFS(os.DirFS(dir), dir, filepath.Base(abs))
}

func LoadFS(fsys fs.FS, baseDir, entry string) (*parser.Program, modules.LoaderStats, error) {
	loader := modules.NewFileLoader(fsys, baseDir, nil)
	program, err := loader.Load(entry)
	if err != nil {
		return nil, modules.LoaderStats{}, err
	}
	stats := loader.Stats()
	debugPrintf("loaded %s: %s", entry, strings.Join(stats.Discovered, ", "))
	return program, stats, nil
}

func generate(program *parser.Program, stats modules.LoaderStats, opts Options) (*Result, error) {
	if opts.DumpAST {
		if err := astdump.Fprint(opts.stdout(), program, opts.Color); err != nil {
			return nil, err
		}
	}

	comp := compiler.NewCompiler()
	js, err := comp.Compile(program)
	if err != nil {
		return nil, err
	}
	return &Result{
		JavaScript: js,
		Program:    program,
		Loader:     stats,
		Compiler:   comp.Stats(),
	}, nil
}

// OutputPath is where WriteJavaScriptFile puts the code for input.
func OutputPath(input string, opts Options) string {
	if opts.Output != "" {
		return opts.Output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".js"
}

// WriteJavaScriptFile compiles input and writes the JavaScript plus a
// trailing newline. Nothing is written when compilation fails.
func WriteJavaScriptFile(input string, opts Options) (string, error) {
	res, err := CompileFile(input, opts)
	if err != nil {
		return "", err
	}

	for _, cycle := range res.Loader.Cycles {
		fmt.Fprintf(opts.stderr(), "Warning: import cycle %s; its modules may read bindings before they are initialized\n",
			formatCycle(cycle))
	}

	output := OutputPath(input, opts)
	if err := os.WriteFile(output, []byte(res.JavaScript+"\n"), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Fprintf(opts.stdout(), "Compiled %s -> %s\n", input, output)
	return output, nil
}

func formatCycle(cycle []string) string {
	if len(cycle) == 0 {
		return ""
	}
	return strings.Join(append(append([]string(nil), cycle...), cycle[0]), " -> ")
}

// DisplayError prints err for a user: compiler diagnostics with their
// source line, anything else on one line. Reports whether err was non-nil.
func DisplayError(w io.Writer, err error) bool {
	if err == nil {
		return false
	}
	if fe, ok := errors.AsFlcError(err); ok {
		return errors.DisplayErrors(w, []errors.FlcError{fe})
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return true
}

// Session compiles snippets one at a time, as the REPL does. Every
// snippet is a complete entry module; file imports resolve under the
// session's base directory.
type Session struct {
	loader   *modules.ModuleLoader
	compiler *compiler.Compiler
}

// NewSession resolves imports against the current working directory.
func NewSession() *Session {
	return NewSessionWithBaseDir(".")
}

func NewSessionWithBaseDir(baseDir string) *Session {
	return NewSessionWithFS(os.DirFS(baseDir), baseDir)
}

// NewSessionWithFS lets tests substitute an in-memory module tree.
func NewSessionWithFS(fsys fs.FS, baseDir string) *Session {
	return &Session{
		loader:   modules.NewFileLoader(fsys, baseDir, nil),
		compiler: compiler.NewCompiler(),
	}
}

// CompileString compiles one snippet to JavaScript.
func (s *Session) CompileString(text string) (string, error) {
	program, err := s.ParseString(text)
	if err != nil {
		return "", err
	}
	return s.CompileProgram(program)
}

// CompileProgram generates code for a program returned by ParseString.
func (s *Session) CompileProgram(program *parser.Program) (string, error) {
	return s.compiler.Compile(program)
}

// ParseString loads a snippet without generating code.
func (s *Session) ParseString(text string) (*parser.Program, error) {
	return s.loader.LoadSource(source.NewEvalSource(text), "")
}

// NeedsMoreInput reports whether text stops in the middle of a statement,
// such as an open block, string or native payload. Anything else, valid or
// not, is ready to compile.
func NeedsMoreInput(text string) bool {
	_, err := parser.ParseSource(source.NewEvalSource(text), parser.MainModulePath)
	fe, ok := errors.AsFlcError(err)
	if !ok {
		return false
	}
	return fe.Pos().StartPos >= len(text) || strings.HasPrefix(fe.Message(), "Unterminated")
}

// CompileString compiles text in a fresh session rooted at the working
// directory.
func CompileString(text string) (string, error) {
	return NewSession().CompileString(text)
}
