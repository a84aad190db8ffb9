package main

import (
	"fmt"
	"os"

	cli "github.com/urfave/cli/v2"

	"flc/pkg/astdump"
	"flc/pkg/driver"
	"flc/pkg/parser"
	"flc/pkg/source"
)

const (
	exitCompileError = 1
	exitUsage        = 64 // command line usage error
)

func noColorFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Print the syntax tree without ANSI colors",
	}
}

func buildFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file (default: input file with a .js extension)",
		},
		&cli.BoolFlag{
			Name:  "ast",
			Usage: "Print the syntax tree before generating code",
		},
		noColorFlag(),
	}
}

func main() {
	app := &cli.App{
		Name:      "flc",
		Usage:     "Compile FL source code into JavaScript",
		UsageText: "flc [build] [-o out.js] [--ast] <input.fl>\nflc ast <input.fl>\nflc tokens <input.fl>\nflc repl",
		Flags:     buildFlags(),
		Action:    build,
		Commands: []*cli.Command{
			{
				Name:      "build",
				Usage:     "Compile a program and write the JavaScript next to it",
				ArgsUsage: "<input.fl>",
				Flags:     buildFlags(),
				Action:    build,
			},
			{
				Name:      "ast",
				Usage:     "Print the syntax tree of a program and everything it adopts",
				ArgsUsage: "<input.fl>",
				Flags:     []cli.Flag{noColorFlag()},
				Action:    dumpAST,
			},
			{
				Name:      "tokens",
				Usage:     "Print the token stream of one file as the parser sees it",
				ArgsUsage: "<input.fl>",
				Action:    dumpTokens,
			},
			{
				Name:   "repl",
				Usage:  "Compile snippets interactively",
				Action: repl,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}
}

// inputArg returns the single positional argument or a usage error.
func inputArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", cli.Exit(fmt.Sprintf("Usage: %s", c.App.UsageText), exitUsage)
	}
	return c.Args().First(), nil
}

// compileFailed reports err and maps it to the compile-error exit code.
func compileFailed(err error) error {
	driver.DisplayError(os.Stderr, err)
	return cli.Exit("", exitCompileError)
}

func build(c *cli.Context) error {
	input, err := inputArg(c)
	if err != nil {
		return err
	}

	opts := driver.Options{
		Output:  c.String("output"),
		DumpAST: c.Bool("ast"),
		Color:   !c.Bool("no-color"),
	}
	if _, err := driver.WriteJavaScriptFile(input, opts); err != nil {
		return compileFailed(err)
	}
	return nil
}

func dumpAST(c *cli.Context) error {
	input, err := inputArg(c)
	if err != nil {
		return err
	}

	program, _, err := driver.LoadFile(input)
	if err != nil {
		return compileFailed(err)
	}
	return astdump.Fprint(os.Stdout, program, !c.Bool("no-color"))
}

func dumpTokens(c *cli.Context) error {
	input, err := inputArg(c)
	if err != nil {
		return err
	}

	sf, err := source.FromFile(input)
	if err != nil {
		return compileFailed(err)
	}
	tokens, err := parser.Tokens(sf)
	for _, tok := range tokens {
		fmt.Println(tok.String())
	}
	if err != nil {
		return compileFailed(err)
	}
	return nil
}
