package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	cli "github.com/urfave/cli/v2"

	"flc/pkg/astdump"
	"flc/pkg/driver"
)

const (
	historyFile = ".flc_history"
	promptMain  = "fl> "
	promptCont  = "... "
)

const banner = "FL to JavaScript REPL\nCtrl+C cancels input, Ctrl+D exits. Type :help for commands."

const helpText = `REPL commands:
  :ast     Toggle printing the syntax tree of each snippet
  :help    Show this text
  :quit    Exit the REPL`

func repl(c *cli.Context) error {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	session := driver.NewSession()
	showAST := false

	for {
		code, ok := readByParseProbe(ln)
		if !ok {
			fmt.Println()
			return nil
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit":
				return nil
			case ":help":
				fmt.Println(helpText)
			case ":ast":
				showAST = !showAST
				fmt.Printf("syntax tree display %s\n", onOff(showAST))
			default:
				fmt.Println("unknown command. Type :help for commands.")
			}
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		program, err := session.ParseString(code)
		if err != nil {
			driver.DisplayError(os.Stderr, err)
			continue
		}
		if showAST {
			_ = astdump.Fprint(os.Stdout, program, true)
		}
		js, err := session.CompileProgram(program)
		if err != nil {
			driver.DisplayError(os.Stderr, err)
			continue
		}
		fmt.Println(js)
	}
}

// readByParseProbe keeps reading continuation lines while the input so
// far stops inside an unfinished statement.
func readByParseProbe(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input: %s\n", err)
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || !driver.NeedsMoreInput(src) {
			return src, true
		}
	}
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
