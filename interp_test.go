package cavy_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/zephyrtronium/cavy"
	"github.com/zephyrtronium/cavy/testutils"
)

// TestPrograms tests evaluation of whole programs.
func TestPrograms(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"Empty": {
			Source: "",
			Pass:   testutils.PassDescribe("[]"),
		},
		"Hello": {
			Source: `obj { System->console->out : "hi". }.`,
			Pass:   testutils.PassOutput("hi\n"),
		},
		"HelloResult": {
			Source: `obj { System->console->out : "hi". }.`,
			Pass:   testutils.PassDescribe("[]"),
		},
		"Sequence": {
			Source: `obj { System->console->out : "a". }. obj { System->console->out : "b". System->console->out : "c". }.`,
			Pass:   testutils.PassOutput("a\nb\nc\n"),
		},
		"Number": {
			Source: "obj { System->var : [*, n, 3]. }.",
			Pass:   testutils.PassDescribe("[n: 3]"),
		},
		"DefaultHandler": {
			Source: "obj { System->var : [*, r, [a] : b.]. }.",
			Pass:   testutils.PassDescribe("[r: [attr0: a]]"),
		},
		"ObjectLiteral": {
			Source: `obj { System->var : [*, l, [1, "x", *]]. }.`,
			Pass:   testutils.PassDescribe(`[l: [attr0: 1, attr1: "x", attr2: ...]]`),
		},
		"Prototype": {
			Source: "[1, 2] obj { System->var : [*, attr1, 5]. }.",
			Pass:   testutils.PassDescribe("[attr0: 1, attr1: 5]"),
		},
		"AttrChain": {
			Source: `obj {
				System->var : [*, a, obj {
					System->var : [*, b, obj {
						System->var : [*, c, "deep"].
					}].
				}].
				System->console->out : *->a->b->c.
			}.`,
			Pass: testutils.PassOutput("deep\n"),
		},
		"ParentChain": {
			Source: `obj {
				System->var : [*, a, obj { System->var : [*, b, obj { System->var : [*, c, "deep"]. }]. }].
				System->console->out : ^a->b->c.
			}.`,
			Pass: testutils.PassOutput("deep\n"),
		},
		"CloneIsolation": {
			Source: `obj {
				System->var : [*, p, [1]].
				System->var : [*, q, ^p obj { System->var : [*, attr0, 2]. }].
			}.`,
			Pass: testutils.PassDescribe("[p: [attr0: 1], q: [attr0: 2]]"),
		},
		"CyclicKeys": {
			Source: `obj {
				System->var : [*, x, [1]].
				System->var : [^x, attr0, ^x].
				System->var : [*, y, ^x obj {}].
				System->var : [*, ^x, 1].
				System->var : [*, ^y, 2].
			}.`,
			Pass: testutils.PassDescribe("[x: [attr0: ...], y: [attr0: ...], [attr0: ...]: 2]"),
		},
		"SharedValue": {
			Source: `obj {
				System->var : [*, a, [1]].
				System->var : [*, b, [^a, ^a]].
			}.`,
			Pass: testutils.PassDescribe("[a: [attr0: 1], b: [attr0: [attr0: 1], attr1: [attr0: 1]]]"),
		},
		"ParentRestored": {
			Source: `obj {
				System->var : [*, inner, obj { System->var : [*, x, 1]. }].
				System->var : [*, y, 2].
			}.`,
			Pass: testutils.PassDescribe("[inner: [x: 1], y: 2]"),
		},
		"GlobalsShared": {
			Source: `obj {
				System->var : [System, greeting, "hey"].
			}. obj {
				System->console->out : System->greeting.
			}.`,
			Pass: testutils.PassOutput("hey\n"),
		},
		"ContextTopLevel": {
			Source: `[a] ctx { System->console->out : "ran". }.`,
			Pass:   testutils.PassOutput("ran\n"),
		},
		"ContextResult": {
			Source: `[a] ctx { System->console->out : "ran". }.`,
			Pass:   testutils.PassType("context"),
		},
		"ContextDeferred": {
			Source: `obj { System->var : [*, c, [] ctx { System->console->out : "no". }]. }.`,
			Pass:   testutils.PassOutput(""),
		},
		"ContextInvoked": {
			Source: `obj {
				System->var : [*, c, [] ctx { System->console->out : "later". }].
				^c->code : [].
			}.`,
			Pass: testutils.PassOutput("later\n"),
		},
		"ContextInvokedTwice": {
			Source: `obj {
				System->var : [*, c, * ctx { System->console->out : "tick". }].
				^c->code : x.
				^c->code : x.
			}.`,
			Pass: testutils.PassOutput("tick\ntick\n"),
		},
		"ContextNotCloned": {
			Source: `obj {
				System->var : [*, t, [1]].
				System->var : [*, k, ^t ctx { System->var : [*, attr0, 5]. }].
				^k->code : [].
			}.`,
			Pass: testutils.PassDescribe("[t: [attr0: 5], k: [type: context, code: [type: codeltr]]]"),
		},
		"CodeResult": {
			Source: `obj {
				System->var : [*, k, * ctx { [a] : b. [c] : d. }].
				System->var : [*, r, ^k->code : x.].
			}.`,
			Pass: testutils.PassDescribe("[k: [type: context, code: [type: codeltr]], r: [attr0: c]]"),
		},
		"RootMessage": {
			Source: "a : b.",
			Pass:   testutils.PassInterpretFailure(),
		},
		"SelfAtTop": {
			Source: "[*] obj {}.",
			Pass:   testutils.PassInterpretFailure(),
		},
		"ParentAtTop": {
			Source: "[^x] obj {}.",
			Pass:   testutils.PassInterpretFailure(),
		},
		"MissingParentAttr": {
			Source: "obj { ^nope : x. }.",
			Pass:   testutils.PassKeyNotFound("nope"),
		},
		"MissingAttr": {
			Source: "obj { [a]->b : x. }.",
			Pass:   testutils.PassKeyNotFound("b"),
		},
		"MissingChainAttr": {
			Source: "obj { System->console->err : x. }.",
			Pass:   testutils.PassKeyNotFound("err"),
		},
		"BadNumber": {
			Source: "obj { x : 99999999999999999999999999. }.",
			Pass:   testutils.PassInterpretFailure(),
		},
		"PrintNotString": {
			Source: "obj { System->console->out : 1. }.",
			Pass:   testutils.PassInterpretFailure(),
		},
		"ParseFailure": {
			Source: "obj {",
			Pass:   testutils.PassParseFailure(),
		},
		"StopsAtFailure": {
			Source: `obj { System->console->out : "a". ^nope : x. System->console->out : "b". }.`,
			Pass:   testutils.PassFailure(),
		},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc(name))
	}
}

// TestFailureOutput tests that statements after a failure do not run.
func TestFailureOutput(t *testing.T) {
	_, out, err := testutils.Run(`obj { System->console->out : "a". ^nope : x. System->console->out : "b". }.`)
	if err == nil {
		t.Fatal("no error")
	}
	if out != "a\n" {
		t.Errorf("wrong output: %q", out)
	}
}

// TestMissingGlobal tests that a global absent from the table is a key
// failure.
func TestMissingGlobal(t *testing.T) {
	in := cavy.NewInterpreter(cavy.NewObject())
	_, err := in.RunSource("obj { System : x. }.")
	var knf *cavy.KeyNotFoundError
	if !errors.As(err, &knf) {
		t.Fatalf("wrong error: %v", err)
	}
	if !knf.Key.Equal(cavy.RawString("System")) {
		t.Errorf("wrong key %s", cavy.Describe(knf.Key))
	}
}

// TestHandlerOverride tests that globals supplied by the embedder are
// dispatched like the built-in services.
func TestHandlerOverride(t *testing.T) {
	var got []string
	record := cavy.NewObjectWith(func(arg, self *cavy.Object) (*cavy.Object, error) {
		s, err := cavy.StringValue(arg)
		if err != nil {
			return nil, err
		}
		got = append(got, s)
		return cavy.Numeral(len(got)), nil
	})
	sys := cavy.NewObjectWith(nil, cavy.Attr{Key: cavy.RawString("record"), Value: record})
	globals := cavy.NewObjectWith(nil, cavy.Attr{Key: cavy.RawString("System"), Value: sys})
	in := cavy.NewInterpreter(globals)
	r, err := in.RunSource(`obj { System->var : [*, n, System->record : "x".]. System->var : [*, n, System->record : "y".]. }.`)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(got, ",") != "x,y" {
		t.Errorf("wrong recorded messages %q", got)
	}
	if d := cavy.Describe(r); d != "[n: 2]" {
		t.Errorf("wrong result %s", d)
	}
}

// TestTrace tests that evaluation is traced at debug level.
func TestTrace(t *testing.T) {
	var b bytes.Buffer
	log := slog.New(slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelDebug}))
	in := cavy.NewInterpreter(cavy.Globals(&bytes.Buffer{}), cavy.WithLogger(log))
	if _, err := in.RunSource(`obj { System->console->out : "hi". }.`); err != nil {
		t.Fatal(err)
	}
	for _, msg := range []string{"push parent", "pop parent", "invoke code literal", "send message"} {
		if !strings.Contains(b.String(), msg) {
			t.Errorf("trace has no %q record:\n%s", msg, b.String())
		}
	}
}
