package compiler

import (
	"bytes"
	"fmt"
)

// emitter accumulates indented JavaScript text.
type emitter struct {
	indentLevel int
	buffer      bytes.Buffer
}

func (e *emitter) indent() {
	e.indentLevel++
}

func (e *emitter) dedent() {
	if e.indentLevel > 0 {
		e.indentLevel--
	}
}

func (e *emitter) writeIndent() {
	for i := 0; i < e.indentLevel; i++ {
		e.buffer.WriteString("  ")
	}
}

func (e *emitter) writeLine(format string, args ...interface{}) {
	e.writeIndent()
	fmt.Fprintf(&e.buffer, format, args...)
	e.buffer.WriteString("\n")
}

func (e *emitter) write(s string) {
	e.buffer.WriteString(s)
}

func (e *emitter) writef(format string, args ...interface{}) {
	fmt.Fprintf(&e.buffer, format, args...)
}

func (e *emitter) reset() {
	e.buffer.Reset()
	e.indentLevel = 0
}

func (e *emitter) String() string {
	return e.buffer.String()
}
