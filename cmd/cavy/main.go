// Command cavy runs cavy programs.
//
// Usage:
//
//	cavy [flags] [file]
//
// With a file, cavy runs it. With no file, cavy starts an interactive prompt
// if standard input is a terminal and otherwise reads a program from it.
// Failures in the program are reported on standard output, and the exit
// status is 1.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/zephyrtronium/cavy"
	"github.com/zephyrtronium/cavy/internal/config"
	"github.com/zephyrtronium/cavy/internal/source"
)

// Version is the version of cavy.
var Version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Getenv)
	stop()
	os.Exit(code)
}

// action is what to do with a program.
type action int

const (
	runAction action = iota
	tokensAction
	astAction
)

// run is the whole command. It returns the exit status.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) int {
	fs := flag.NewFlagSet("cavy", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "", "configuration `file` (default $"+config.EnvVar+" or "+config.DefaultFile+")")
		encoding   = fs.String("encoding", "", "character encoding of programs (overrides config)")
		trace      = fs.Bool("trace", false, "trace evaluation to standard error (overrides config)")
		tokens     = fs.Bool("tokens", false, "print the program's tokens instead of running it")
		ast        = fs.Bool("ast", false, "print the program's syntax tree instead of running it")
		eval       = fs.String("e", "", "run `source` and print its result")
		watch      = fs.Bool("watch", false, "run the file again whenever it changes")
		version    = fs.Bool("version", false, "print version information")
	)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: cavy [flags] [file]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *version {
		fmt.Fprintf(stdout, "cavy %s %s\n", Version, platform())
		return 0
	}

	cfg, err := config.Load(*configPath, getenv)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "encoding":
			cfg.Encoding = *encoding
		case "trace":
			cfg.Trace = *trace
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	act := runAction
	switch {
	case *tokens && *ast:
		fmt.Fprintln(stderr, "cavy: -tokens and -ast are exclusive")
		return 2
	case *tokens:
		act = tokensAction
	case *ast:
		act = astAction
	}

	d := &driver{cfg: cfg, stdout: stdout, stderr: stderr, log: newLogger(cfg, stderr)}
	switch {
	case *eval != "":
		if fs.NArg() != 0 || *watch {
			fmt.Fprintln(stderr, "cavy: -e takes no file")
			return 2
		}
		return d.report("-e", d.program(*eval, act, true))
	case fs.NArg() > 1:
		fs.Usage()
		return 2
	case fs.NArg() == 1:
		if *watch {
			return d.watch(ctx, fs.Arg(0), act)
		}
		return d.file(fs.Arg(0), act)
	case *watch:
		fmt.Fprintln(stderr, "cavy: -watch needs a file")
		return 2
	}
	if isTerminal(stdin) && act == runAction {
		if err := d.repl(); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}
	r, err := source.NewReader(stdin, cfg.Encoding)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	src, err := io.ReadAll(r)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return d.report("<stdin>", d.program(string(src), act, false))
}

// driver holds what every way of running a program needs.
type driver struct {
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
	log    *slog.Logger
}

// interpreter creates an interpreter with fresh globals writing to stdout.
func (d *driver) interpreter() *cavy.Interpreter {
	return cavy.NewInterpreter(cavy.Globals(d.stdout), cavy.WithLogger(d.log))
}

// program performs an action on source text. If describe is true, the result
// of running the program is printed.
func (d *driver) program(src string, act action, describe bool) error {
	switch act {
	case tokensAction:
		for _, tok := range cavy.Lex(src, true) {
			if _, err := fmt.Fprintf(d.stdout, "[ %v: (%s) ],\n", tok.Kind, tok.Value); err != nil {
				return err
			}
		}
		return nil
	case astAction:
		root, err := cavy.ParseString(src)
		if err != nil {
			return err
		}
		return cavy.Fprint(d.stdout, root)
	}
	r, err := d.interpreter().RunSource(src)
	if err != nil {
		return err
	}
	if describe {
		fmt.Fprintln(d.stdout, cavy.Describe(r))
	}
	return nil
}

// file reads, decodes, and acts on a program file.
func (d *driver) file(path string, act action) int {
	b, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(d.stderr, err)
		return 1
	}
	src, err := source.Decode(b, d.cfg.Encoding)
	if err != nil {
		fmt.Fprintf(d.stderr, "%s: %v\n", path, err)
		return 1
	}
	return d.report(path, d.program(src, act, false))
}

// report prints a program failure and converts it to an exit status.
func (d *driver) report(name string, err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintf(d.stdout, "%s: %v\n", name, err)
	return 1
}
