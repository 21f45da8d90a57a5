package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/zephyrtronium/cavy"
)

// session is the state of an interactive prompt. Every input runs in the same
// interpreter, so programs can leave values in System for later ones.
type session struct {
	in  *cavy.Interpreter
	out io.Writer
	buf strings.Builder
}

// input adds a line to the pending program. If the program is complete, it
// runs and its result or failure is printed. The result is true if more
// lines are needed.
func (s *session) input(line string) bool {
	if s.buf.Len() == 0 && strings.TrimSpace(line) == "" {
		return false
	}
	if s.buf.Len() > 0 {
		s.buf.WriteByte('\n')
	}
	s.buf.WriteString(line)
	root, err := cavy.ParseString(s.buf.String())
	var perr *cavy.ParseError
	if errors.As(err, &perr) && perr.Incomplete {
		return true
	}
	s.buf.Reset()
	if err != nil {
		fmt.Fprintln(s.out, err)
		return false
	}
	r, err := s.in.Run(root)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return false
	}
	fmt.Fprintln(s.out, cavy.Describe(r))
	return false
}

// pending returns the unfinished program text.
func (s *session) pending() string {
	return s.buf.String()
}

// reset discards the unfinished program.
func (s *session) reset() {
	s.buf.Reset()
}

// repl runs the interactive prompt until end of input.
func (d *driver) repl() error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	hist := d.cfg.REPL.History
	if hist != "" {
		if f, err := os.Open(hist); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	s := &session{in: d.interpreter(), out: d.stdout}
	more := false
	for {
		prompt := d.cfg.REPL.Prompt
		if more {
			prompt = d.cfg.REPL.Continuation
		}
		text, err := line.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				s.reset()
				more = false
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(d.stdout)
				break
			}
			return err
		}
		more = s.input(text)
		if !more && strings.TrimSpace(text) != "" {
			line.AppendHistory(text)
		}
	}

	if hist != "" {
		f, err := os.Create(hist)
		if err != nil {
			return fmt.Errorf("saving history: %w", err)
		}
		defer f.Close()
		if _, err := line.WriteHistory(f); err != nil {
			return fmt.Errorf("saving history: %w", err)
		}
	}
	return nil
}
