package internal

import (
	"errors"
	"strings"
	"testing"
)

func service(t *testing.T, sys *Object, path ...string) *Object {
	t.Helper()
	cur := sys
	for _, p := range path {
		v, err := cur.Get(RawString(p))
		if err != nil {
			t.Fatalf("no %s: %v", p, err)
		}
		cur = v
	}
	return cur
}

// TestConsoleOut tests that console->out writes tagged strings.
func TestConsoleOut(t *testing.T) {
	var b strings.Builder
	out := service(t, System(&b), "console", "out")
	r, err := out.Send(String("hi"))
	if err != nil {
		t.Fatal(err)
	}
	if b.String() != "hi\n" {
		t.Errorf("wrong output: %q", b.String())
	}
	if r == nil || r.Len() != 0 {
		t.Errorf("wrong result %s", Describe(r))
	}
	if _, err := out.Send(RawString("raw")); err == nil {
		t.Errorf("raw string printed")
	}
	if _, err := out.Send(nil); err == nil {
		t.Errorf("nil argument printed")
	}
	if b.String() != "hi\n" {
		t.Errorf("failed sends wrote output: %q", b.String())
	}
}

// TestSystemVar tests that var assigns attributes.
func TestSystemVar(t *testing.T) {
	v := service(t, System(&strings.Builder{}), "var")
	target := NewWith(nil, Attr{Key: RawString("k"), Value: Numeral(1)})
	arg := NewWith(nil,
		Attr{Key: RawString("attr0"), Value: target},
		Attr{Key: RawString("attr1"), Value: RawString("k")},
		Attr{Key: RawString("attr2"), Value: Numeral(4)},
	)
	r, err := v.Send(arg)
	if err != nil {
		t.Fatal(err)
	}
	if r == nil || r.Len() != 0 {
		t.Errorf("wrong result %s", Describe(r))
	}
	if got := Describe(target); got != "[k: 4]" {
		t.Errorf("wrong target after assignment: %s", got)
	}
}

// TestSystemVarErrors tests that var reports missing operands.
func TestSystemVarErrors(t *testing.T) {
	v := service(t, System(&strings.Builder{}), "var")
	cases := map[string]*Object{
		"Empty": New(),
		"NoKey": NewWith(nil, Attr{Key: RawString("attr0"), Value: New()}),
		"NoValue": NewWith(nil,
			Attr{Key: RawString("attr0"), Value: New()},
			Attr{Key: RawString("attr1"), Value: RawString("k")},
		),
	}
	for name, arg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.Send(arg)
			var knf *KeyNotFoundError
			if !errors.As(err, &knf) {
				t.Errorf("wrong error: %v", err)
			}
		})
	}
	if _, err := v.Send(nil); err == nil {
		t.Errorf("nil argument accepted")
	}
}

// TestGlobals tests that the global table holds System.
func TestGlobals(t *testing.T) {
	var b strings.Builder
	out := service(t, Globals(&b), "System", "console", "out")
	if _, err := out.Send(String("x")); err != nil {
		t.Fatal(err)
	}
	if b.String() != "x\n" {
		t.Errorf("wrong output: %q", b.String())
	}
}
