package cavy

import (
	"errors"
	"strings"
	"testing"
)

// shape renders a tree compactly for comparison: each node is its kind,
// followed by :text if it has text, followed by its children in parentheses.
func shape(n *Node) string {
	var b strings.Builder
	var rec func(n *Node)
	rec = func(n *Node) {
		b.WriteString(n.Kind.String())
		if n.Text != "" {
			b.WriteByte(':')
			b.WriteString(n.Text)
		}
		if len(n.Children) == 0 {
			return
		}
		b.WriteByte('(')
		for i, c := range n.Children {
			if i > 0 {
				b.WriteByte(' ')
			}
			rec(c)
		}
		b.WriteByte(')')
	}
	rec(n)
	return b.String()
}

// TestParseShapes tests that programs parse into the correct trees.
func TestParseShapes(t *testing.T) {
	cases := map[string]struct {
		text string
		want string
	}{
		"Empty":      {"", "Root"},
		"EmptyObj":   {"obj {}.", "Root(Obj(ObjLtr CodeLtr))"},
		"Prototype":  {"[a] obj {}.", "Root(Obj(ObjLtr(Identifier:a) CodeLtr))"},
		"TwoStmts":   {"obj {}. obj {}.", "Root(Obj(ObjLtr CodeLtr) Obj(ObjLtr CodeLtr))"},
		"NoFinalDot": {"obj {}", "Root(Obj(ObjLtr CodeLtr))"},
		"Hello": {
			`obj { System->console->out : "hi". }.`,
			"Root(Obj(ObjLtr CodeLtr(MsgCall(AttrAccess(AttrAccess(GlobalObj:System Identifier:console) Identifier:out) StrLtr:hi))))",
		},
		"ObjLiteral": {
			`obj { x : [1, "x", *]. }.`,
			"Root(Obj(ObjLtr CodeLtr(MsgCall(Identifier:x ObjLtr(NumLtr:1 StrLtr:x Asterisk)))))",
		},
		"NestedObjLiteral": {
			"obj { x : [[a, b], c]. }.",
			"Root(Obj(ObjLtr CodeLtr(MsgCall(Identifier:x ObjLtr(ObjLtr(Identifier:a Identifier:b) Identifier:c)))))",
		},
		"Context": {
			"x ctx { ^a : b. }.",
			"Root(Ctx(Identifier:x CodeLtr(MsgCall(ParentAccess(Identifier:a) Identifier:b))))",
		},
		"Statements": {
			"obj { a : b. c : 1. }.",
			"Root(Obj(ObjLtr CodeLtr(MsgCall(Identifier:a Identifier:b) MsgCall(Identifier:c NumLtr:1))))",
		},
		"NestedMessage": {
			"obj { a : b : c.. }.",
			"Root(Obj(ObjLtr CodeLtr(MsgCall(Identifier:a MsgCall(Identifier:b Identifier:c)))))",
		},
		"AttrChain": {
			"obj { a->b->c->d : e. }.",
			"Root(Obj(ObjLtr CodeLtr(MsgCall(AttrAccess(AttrAccess(AttrAccess(Identifier:a Identifier:b) Identifier:c) Identifier:d) Identifier:e))))",
		},
		"AttrOfLiteral": {
			"obj { [a]->attr0 : b. }.",
			"Root(Obj(ObjLtr CodeLtr(MsgCall(AttrAccess(ObjLtr(Identifier:a) Identifier:attr0) Identifier:b))))",
		},
		"NestedObj": {
			"obj { System->var : [*, p, obj { x : y. }]. }.",
			"Root(Obj(ObjLtr CodeLtr(MsgCall(AttrAccess(GlobalObj:System Identifier:var) ObjLtr(Asterisk Identifier:p Obj(ObjLtr CodeLtr(MsgCall(Identifier:x Identifier:y))))))))",
		},
		"NestedContext": {
			"obj { x : y ctx { a : b. }. }.",
			"Root(Obj(ObjLtr CodeLtr(MsgCall(Identifier:x Ctx(Identifier:y CodeLtr(MsgCall(Identifier:a Identifier:b)))))))",
		},
		"Comments": {
			"# greeting\nobj { # body\n a : b. # done\n }. # end",
			"Root(Obj(ObjLtr CodeLtr(MsgCall(Identifier:a Identifier:b))))",
		},
		"RootMessage": {"a : b.", "Root(MsgCall(Identifier:a Identifier:b))"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			root, err := ParseString(c.text)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.text, err)
			}
			if got := shape(root); got != c.want {
				t.Errorf("%q parsed wrong:\nwant %s\ngot  %s", c.text, c.want, got)
			}
		})
	}
}

// TestParseErrors tests that malformed programs fail to parse, and that only
// programs cut short are reported as incomplete.
func TestParseErrors(t *testing.T) {
	cases := map[string]struct {
		text       string
		incomplete bool
	}{
		"UnclosedCode":      {"obj {", true},
		"UnclosedStatement": {"obj { a : b.", true},
		"UnclosedObject":    {"[a obj {}.", true},
		"MissingCode":       {"obj", true},
		"MessageNoDot":      {"x ctx { a : b }.", false},
		"CodeNoMessage":     {"obj { a }.", false},
		"CodeTrailing":      {"obj { a : b. c }.", false},
		"CodeBareDot":       {"obj { a . }.", false},
		"CodeNotMessage":    {"obj { a ctx {}. }.", false},
		"UnopenedBracket":   {"obj { a : b. }].", false},
		"MismatchedBracket": {"obj { a : [b }. }.", false},
		"ExtraAfterCode":    {"obj { a : b. } x.", false},
		"NotCode":           {"obj x.", false},
		"EmptyElement":      {"obj { x : [a,,b]. }.", false},
		"TrailingComma":     {"obj { x : [a, b,]. }.", false},
		"AttrNoLeft":        {"obj { x : ->b. }.", false},
		"AttrNoRight":       {"obj { x : a->. }.", false},
		"AttrNotIdent":      {`obj { x : a->"s". }.`, false},
		"AttrMidNotIdent":   {"obj { x : a->*->c. }.", false},
		"ParentAlone":       {"obj { x : ^. }.", false},
		"ParentNotIdent":    {`obj { x : ^"a". }.`, false},
		"ParentAfter":       {"obj { x : y ^z. }.", false},
		"ParentExtra":       {"obj { x : ^y z. }.", false},
		"CodeArgument":      {"obj { x : {a : b.}. }.", false},
		"CodePrototype":     {"{ a : b. } obj {}.", false},
		"MessageNoLeft":     {"obj { : b. }.", false},
		"MessageNoArg":      {"obj { a : . }.", false},
		"TwoAtoms":          {"obj { a : b c. }.", false},
		"BareComma":         {"obj { a : b, c. }.", false},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			root, err := ParseString(c.text)
			if err == nil {
				t.Fatalf("%q parsed without error to %s", c.text, shape(root))
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("%q gave wrong error type %T: %v", c.text, err, err)
			}
			if perr.Incomplete != c.incomplete {
				t.Errorf("%q has wrong incompleteness: want %v, got %v (%v)", c.text, c.incomplete, perr.Incomplete, err)
			}
			if perr.Line == 0 {
				t.Errorf("%q error has no position: %v", c.text, err)
			}
		})
	}
}

// TestParseErrorMessages tests that errors name the actual problem.
func TestParseErrorMessages(t *testing.T) {
	cases := map[string]struct {
		text string
		msg  string
		col  int
	}{
		"NoTerminator":   {"obj { x : y }.", "expected '.' after statement", 7},
		"LastNoTerminal": {"obj { a : b. x : y }.", "expected '.' after statement", 14},
		"BareDot":        {"obj { a . }.", "unexpected '.'", 9},
		"Unclosed":       {"obj { a : b.", "unclosed '{'", 5},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseString(c.text)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("%q gave wrong error %v", c.text, err)
			}
			if perr.Msg != c.msg || perr.Col != c.col {
				t.Errorf("%q gave wrong error: want %d: %s, got %d: %s", c.text, c.col, c.msg, perr.Col, perr.Msg)
			}
		})
	}
}

// TestParseSpaceTokens tests that Parse ignores whitespace tokens.
func TestParseSpaceTokens(t *testing.T) {
	text := "obj {\n\ta : b.\n}."
	spaced, err := Parse(Lex(text, true))
	if err != nil {
		t.Fatal(err)
	}
	plain, err := Parse(Lex(text, false))
	if err != nil {
		t.Fatal(err)
	}
	if shape(spaced) != shape(plain) {
		t.Errorf("whitespace changed the tree: %s vs %s", shape(spaced), shape(plain))
	}
}

// TestParseParents tests that every node's Parent is the node holding it, so
// that exactly the root's children are top level.
func TestParseParents(t *testing.T) {
	root, err := ParseString("obj { a->b->c : x ctx { d : e. }. }. y ctx {}.")
	if err != nil {
		t.Fatal(err)
	}
	if root.Parent != nil || root.IsTopLevel() {
		t.Errorf("root has a parent")
	}
	var check func(n *Node)
	check = func(n *Node) {
		for _, c := range n.Children {
			if c.Parent != n {
				t.Errorf("%v node under %v has wrong parent %v", c.Kind, n.Kind, c.Parent)
			}
			if c.IsTopLevel() != (n == root) {
				t.Errorf("%v node under %v has wrong top level status", c.Kind, n.Kind)
			}
			check(c)
		}
	}
	check(root)
}

// TestReassociate tests that a right-nested attribute chain built by hand is
// rewritten without modifying the original nodes.
func TestReassociate(t *testing.T) {
	id := func(s string) *Node { return &Node{Kind: IdentNode, Text: s} }
	a, b, c := id("a"), id("b"), id("c")
	inner := &Node{Kind: AttrAccessNode, Children: []*Node{b, c}}
	outer := &Node{Kind: AttrAccessNode, Children: []*Node{a, inner}}
	r, err := Reassociate(outer)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := shape(r), "AttrAccess(AttrAccess(Identifier:a Identifier:b) Identifier:c)"; got != want {
		t.Errorf("wrong shape: want %s, got %s", want, got)
	}
	if outer.Children[0] != a || outer.Children[1] != inner || inner.Children[0] != b || inner.Children[1] != c {
		t.Errorf("original nodes were modified")
	}
	if r.Children[0].Parent != r {
		t.Errorf("synthesized node has wrong parent")
	}
}

// TestFprint tests the tree printer's format.
func TestFprint(t *testing.T) {
	root, err := ParseString(`obj { a : "s". }.`)
	if err != nil {
		t.Fatal(err)
	}
	want := `[ Root ]
  [ Obj ]
    [ ObjLtr ]
    [ CodeLtr ]
      [ MsgCall ]
        [ Identifier a ]
        [ StrLtr s ]
`
	var b strings.Builder
	if err := Fprint(&b, root); err != nil {
		t.Fatal(err)
	}
	if b.String() != want {
		t.Errorf("wrong output:\nwant:\n%s\ngot:\n%s", want, b.String())
	}
	if root.String() != want {
		t.Errorf("String differs from Fprint:\n%s", root.String())
	}
}
