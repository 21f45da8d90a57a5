// Package testutils provides utilities for testing cavy code in Go.
package testutils

import (
	"errors"
	"strings"
	"testing"

	"github.com/zephyrtronium/cavy"
)

// A SourceTestCase is a test case containing cavy source code and a predicate
// to check the result.
type SourceTestCase struct {
	// Source is the cavy source code to execute.
	Source string
	// Pass is a predicate taking the result of executing Source, everything
	// written to the console while doing so, and the error, if any. If Pass
	// returns false, then the test fails.
	Pass func(result *cavy.Object, output string, err error) bool
}

// Run executes source with a fresh interpreter whose console writes to a
// buffer, returning the result, the console output, and any error.
func Run(source string) (*cavy.Object, string, error) {
	var b strings.Builder
	in := cavy.NewInterpreter(cavy.Globals(&b))
	r, err := in.RunSource(source)
	return r, b.String(), err
}

// TestFunc returns a test function for the test case. Each test case gets its
// own interpreter and global table.
func (c SourceTestCase) TestFunc(name string) func(*testing.T) {
	return func(t *testing.T) {
		r, out, err := Run(c.Source)
		if !c.Pass(r, out, err) {
			if err != nil {
				t.Errorf("%s: %q produced wrong result; an error occurred: %v (output %q)", name, c.Source, err, out)
			} else {
				t.Errorf("%s: %q produced wrong result; got %s (output %q)", name, c.Source, cavy.Describe(r), out)
			}
		}
	}
}

// PassEqual returns a Pass function for a SourceTestCase that predicates on
// structural equality with want. If there is an error, then the predicate
// returns false.
func PassEqual(want *cavy.Object) func(*cavy.Object, string, error) bool {
	return func(result *cavy.Object, output string, err error) bool {
		return err == nil && want.Equal(result)
	}
}

// PassDescribe returns a Pass function for a SourceTestCase that predicates
// on the diagnostic description of the result. If there is an error, then
// the predicate returns false.
func PassDescribe(want string) func(*cavy.Object, string, error) bool {
	return func(result *cavy.Object, output string, err error) bool {
		return err == nil && cavy.Describe(result) == want
	}
}

// PassOutput returns a Pass function for a SourceTestCase that returns true
// iff execution succeeds and writes exactly want to the console.
func PassOutput(want string) func(*cavy.Object, string, error) bool {
	return func(result *cavy.Object, output string, err error) bool {
		return err == nil && output == want
	}
}

// PassType returns a Pass function for a SourceTestCase that returns true iff
// execution succeeds with a result tagged with the given type.
func PassType(want string) func(*cavy.Object, string, error) bool {
	return func(result *cavy.Object, output string, err error) bool {
		if err != nil {
			return false
		}
		typ, ok := cavy.TypeName(result)
		return ok && typ == want
	}
}

// PassSuccess returns a Pass function for a SourceTestCase that returns true
// iff there is no error.
func PassSuccess() func(*cavy.Object, string, error) bool {
	return func(result *cavy.Object, output string, err error) bool {
		return err == nil
	}
}

// PassFailure returns a Pass function for a SourceTestCase that returns true
// iff there is an error of any kind.
func PassFailure() func(*cavy.Object, string, error) bool {
	// This doesn't need to be a function returning a function, but it's nice to
	// stay consistent with the other predicate generators.
	return func(result *cavy.Object, output string, err error) bool {
		return err != nil
	}
}

// PassParseFailure returns a Pass function for a SourceTestCase that returns
// true iff the source fails to parse.
func PassParseFailure() func(*cavy.Object, string, error) bool {
	return func(result *cavy.Object, output string, err error) bool {
		var perr *cavy.ParseError
		return errors.As(err, &perr)
	}
}

// PassInterpretFailure returns a Pass function for a SourceTestCase that
// returns true iff evaluation fails with an InterpretError.
func PassInterpretFailure() func(*cavy.Object, string, error) bool {
	return func(result *cavy.Object, output string, err error) bool {
		var ierr *cavy.InterpretError
		return errors.As(err, &ierr)
	}
}

// PassKeyNotFound returns a Pass function for a SourceTestCase that returns
// true iff evaluation fails because an attribute lookup for the raw string
// key found nothing.
func PassKeyNotFound(key string) func(*cavy.Object, string, error) bool {
	return func(result *cavy.Object, output string, err error) bool {
		var knf *cavy.KeyNotFoundError
		return errors.As(err, &knf) && knf.Key.Equal(cavy.RawString(key))
	}
}
