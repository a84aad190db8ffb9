package errors

import (
	"fmt"
	"io"
	"strings"
)

// FlcError is the interface implemented by all compiler diagnostics.
type FlcError interface {
	error
	Pos() Position
	Kind() string // "Lexical", "Syntax", "Resolution" or "Internal"
	// Message returns the specific error message without position info.
	Message() string
	Unwrap() error
}

// --- Concrete Error Types ---

// LexError reports a malformed character stream.
type LexError struct {
	Position
	Msg   string
	Cause error
}

func (e *LexError) Error() string {
	return fmt.Sprintf("Lexer error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *LexError) Pos() Position   { return e.Position }
func (e *LexError) Kind() string    { return "Lexical" }
func (e *LexError) Message() string { return e.Msg }
func (e *LexError) Unwrap() error   { return e.Cause }

// SyntaxError reports a token stream that does not match the grammar.
type SyntaxError struct {
	Position
	Msg   string
	Cause error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Parse error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *SyntaxError) Pos() Position   { return e.Position }
func (e *SyntaxError) Kind() string    { return "Syntax" }
func (e *SyntaxError) Message() string { return e.Msg }
func (e *SyntaxError) Unwrap() error   { return e.Cause }

// ResolveError reports an import that maps to no file. Position is the
// adopt statement that named it.
type ResolveError struct {
	Position
	ImportPath string
	Searched   []string
	Cause      error
}

func (e *ResolveError) Error() string {
	return "Cannot find module " + e.Message()
}
func (e *ResolveError) Pos() Position { return e.Position }
func (e *ResolveError) Kind() string  { return "Resolution" }
func (e *ResolveError) Message() string {
	if len(e.Searched) == 0 {
		return fmt.Sprintf("'%s'", e.ImportPath)
	}
	return fmt.Sprintf("'%s' (searched %s)", e.ImportPath, strings.Join(e.Searched, " and "))
}
func (e *ResolveError) Unwrap() error { return e.Cause }

// InternalError marks a generator defect: a node the generator cannot
// translate. Users should never see one.
type InternalError struct {
	Position
	Msg string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("Internal error: %s", e.Msg)
}
func (e *InternalError) Pos() Position   { return e.Position }
func (e *InternalError) Kind() string    { return "Internal" }
func (e *InternalError) Message() string { return e.Msg }
func (e *InternalError) Unwrap() error   { return nil }

// --- Error Reporting ---

// DisplayErrors writes each error in a user-friendly format, including the
// source line and a position marker when the error carries a source.
// Reports whether anything was written.
func DisplayErrors(w io.Writer, errs []FlcError) bool {
	if len(errs) == 0 {
		return false
	}

	for _, err := range errs {
		pos := err.Pos()

		if rerr, ok := err.(*ResolveError); ok {
			fmt.Fprintf(w, "Error: %s\n", rerr.Error())
			if pos.Source != nil && pos.IsValid() {
				fmt.Fprintf(w, "  imported from %s:%d\n", pos.Source.DisplayPath(), pos.Line)
			}
			fmt.Fprintln(w)
			continue
		}

		if pos.Source == nil || !pos.IsValid() {
			fmt.Fprintf(w, "Error: %s\n\n", err.Error())
			continue
		}

		// Format: <file>:<line>:<col>: <Error()>
		fmt.Fprintf(w, "%s:%d:%d: %s\n", pos.Source.DisplayPath(), pos.Line, pos.Column, err.Error())

		sourceLine := strings.TrimRight(pos.Source.Line(pos.Line), "\t ")
		fmt.Fprintf(w, "  %s\n", sourceLine)

		// Tabs are kept so the marker lines up under tab-indented code.
		var marker strings.Builder
		col := 1
		for _, r := range sourceLine {
			if col >= pos.Column {
				break
			}
			if r == '\t' {
				marker.WriteByte('\t')
			} else {
				marker.WriteByte(' ')
			}
			col++
		}
		for ; col < pos.Column; col++ {
			marker.WriteByte(' ')
		}
		marker.WriteByte('^')
		fmt.Fprintf(w, "  %s\n\n", marker.String())
	}
	return true
}

// AsFlcError unwraps err into a FlcError when possible.
func AsFlcError(err error) (FlcError, bool) {
	for err != nil {
		if fe, ok := err.(FlcError); ok {
			return fe, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}
