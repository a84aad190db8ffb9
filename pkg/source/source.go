package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// SourceFile represents a source file with its content and metadata
type SourceFile struct {
	Name    string   // Display name (e.g., "main.fl", "<repl>")
	Path    string   // Full file path (empty for REPL input)
	Content string   // The decoded source text
	lines   []string // Cached split lines (lazy initialization)
}

// NewSourceFile creates a new source file
func NewSourceFile(name, path, content string) *SourceFile {
	return &SourceFile{
		Name:    name,
		Path:    path,
		Content: content,
	}
}

// NewEvalSource creates a source file for REPL input
func NewEvalSource(content string) *SourceFile {
	return &SourceFile{
		Name:    "<repl>",
		Content: content,
	}
}

// Lines returns the source split into lines (cached)
func (sf *SourceFile) Lines() []string {
	if sf.lines == nil {
		sf.lines = strings.Split(sf.Content, "\n")
	}
	return sf.lines
}

// Line returns the 1-based line n, or "" when out of range.
func (sf *SourceFile) Line(n int) string {
	lines := sf.Lines()
	if n < 1 || n > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[n-1], "\r")
}

// Dir returns the directory containing the file, or "." for in-memory sources.
func (sf *SourceFile) Dir() string {
	if sf.Path == "" {
		return "."
	}
	return filepath.Dir(sf.Path)
}

// DisplayPath returns the best path for display (prefers Path, falls back to Name)
func (sf *SourceFile) DisplayPath() string {
	if sf.Path != "" {
		return sf.Path
	}
	return sf.Name
}

// Decode turns raw file bytes into UTF-8 text. A UTF-8 or UTF-16 byte order
// mark selects the encoding and is dropped; input without a BOM is taken as
// UTF-8. The text is otherwise untouched, so offsets match the file and
// native payloads keep their exact bytes.
func Decode(raw []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// FromBytes decodes raw and wraps it in a SourceFile.
func FromBytes(filePath string, raw []byte) (*SourceFile, error) {
	content, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filePath, err)
	}
	return NewSourceFile(filepath.Base(filePath), filePath, content), nil
}

// FromFile reads and decodes the file at filePath.
func FromFile(filePath string) (*SourceFile, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return FromBytes(filePath, raw)
}
