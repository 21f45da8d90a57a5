package cavy

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/zephyrtronium/cavy/internal"
)

// InterpretError is an error in evaluating a syntax tree.
type InterpretError struct {
	// Line and Col are the position of the node being evaluated.
	Line, Col int
	// Msg describes the problem.
	Msg string
	// Err is the error returned by a message handler, if any.
	Err error
}

func (e *InterpretError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
	}
	return e.Msg
}

func (e *InterpretError) Unwrap() error {
	return e.Err
}

// An Interpreter evaluates syntax trees. The zero value is not usable; create
// interpreters with NewInterpreter.
type Interpreter struct {
	// Globals is the table in which global names are looked up. Every
	// interpreter spawned to run a code literal shares it.
	Globals *Object
	// Log receives evaluation traces at debug level. It may be nil.
	Log *slog.Logger

	// parent is the object addressed by * and ^, or nil at top level.
	parent *Object
}

// An Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger that receives evaluation traces.
func WithLogger(log *slog.Logger) Option {
	return func(in *Interpreter) {
		in.Log = log
	}
}

// NewInterpreter creates an interpreter using the given global table. If
// globals is nil, a table writing console output to io.Discard is created.
func NewInterpreter(globals *Object, opts ...Option) *Interpreter {
	if globals == nil {
		globals = Globals(io.Discard)
	}
	in := &Interpreter{Globals: globals}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// sub creates an interpreter sharing in's globals and logger with the given
// current parent.
func (in *Interpreter) sub(parent *Object) *Interpreter {
	return &Interpreter{Globals: in.Globals, Log: in.Log, parent: parent}
}

func (in *Interpreter) debug(msg string, args ...interface{}) {
	if in.Log != nil {
		in.Log.Debug(msg, args...)
	}
}

// errorf creates an InterpretError located at n.
func errorf(n *Node, format string, args ...interface{}) *InterpretError {
	return &InterpretError{Line: n.Line, Col: n.Col, Msg: fmt.Sprintf(format, args...)}
}

// wrap converts an error from a message handler into an InterpretError at n.
// Interpretation and key errors pass through unchanged.
func wrap(n *Node, err error) error {
	switch err.(type) {
	case *InterpretError, *KeyNotFoundError:
		return err
	}
	return &InterpretError{Line: n.Line, Col: n.Col, Msg: err.Error(), Err: err}
}

// Run evaluates each statement of a program root in order and returns the
// value of the last one. Only object and context constructions may be
// top-level statements. An empty program evaluates to a fresh empty object.
func (in *Interpreter) Run(root *Node) (*Object, error) {
	if root.Kind != RootNode {
		return nil, errorf(root, "cannot run %v node as a program", root.Kind)
	}
	for _, c := range root.Children {
		if c.Kind != ObjectNode && c.Kind != ContextNode {
			return nil, errorf(c, "only objects and contexts are allowed as top level statements, not %v", c.Kind)
		}
	}
	r := internal.New()
	for _, c := range root.Children {
		var err error
		if r, err = in.Eval(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// RunSource lexes, parses, and runs a program.
func (in *Interpreter) RunSource(src string) (*Object, error) {
	root, err := ParseString(src)
	if err != nil {
		return nil, err
	}
	return in.Run(root)
}

// Eval evaluates a single node.
func (in *Interpreter) Eval(n *Node) (*Object, error) {
	switch n.Kind {
	case CodeLitNode:
		return in.codeLiteral(n), nil
	case NumberLitNode:
		v, err := strconv.Atoi(n.Text)
		if err != nil || v < 0 {
			return nil, errorf(n, "bad number literal %q", n.Text)
		}
		return internal.Numeral(v), nil
	case StringLitNode:
		return internal.String(n.Text), nil
	case IdentNode:
		return internal.RawString(n.Text), nil
	case SelfNode:
		if in.parent == nil {
			return nil, errorf(n, "* cannot be used at top level")
		}
		return in.parent, nil
	case GlobalNode:
		return in.Globals.Get(internal.RawString(n.Text))
	case ObjectLitNode:
		r := internal.New()
		for i, c := range n.Children {
			v, err := in.Eval(c)
			if err != nil {
				return nil, err
			}
			r.Set(internal.RawString("attr"+strconv.Itoa(i)), v)
		}
		return r, nil
	case ObjectNode:
		if err := arity(n, 2); err != nil {
			return nil, err
		}
		return in.construct(n)
	case ContextNode:
		if err := arity(n, 2); err != nil {
			return nil, err
		}
		return in.context(n)
	case MessageNode:
		if err := arity(n, 2); err != nil {
			return nil, err
		}
		return in.send(n)
	case ParentAccessNode:
		if err := arity(n, 1); err != nil {
			return nil, err
		}
		if in.parent == nil {
			return nil, errorf(n, "^ cannot be used at top level")
		}
		return in.parent.Get(internal.RawString(n.Children[0].Text))
	case AttrAccessNode:
		if err := arity(n, 2); err != nil {
			return nil, err
		}
		if n.Children[1].Kind == AttrAccessNode {
			m, err := Reassociate(n)
			if err != nil {
				return nil, err
			}
			return in.Eval(m)
		}
		obj, err := in.Eval(n.Children[0])
		if err != nil {
			return nil, err
		}
		key, err := in.Eval(n.Children[1])
		if err != nil {
			return nil, err
		}
		return obj.Get(key)
	}
	return nil, errorf(n, "unknown node kind %v", n.Kind)
}

// arity checks that a node has the number of children its kind requires.
// Trees from Parse always do.
func arity(n *Node, want int) error {
	if len(n.Children) != want {
		return errorf(n, "%v node has %d children, wanted %d", n.Kind, len(n.Children), want)
	}
	return nil
}

// push makes p the current parent and returns a function restoring the
// previous one.
func (in *Interpreter) push(p *Object) (restore func()) {
	prev := in.parent
	in.parent = p
	in.debug("push parent", slog.Any("object", p.UniqueID()))
	return func() {
		in.parent = prev
		in.debug("pop parent", slog.Any("object", p.UniqueID()))
	}
}

// codeLiteral creates the object for a code literal. Its handler runs the
// statements in order against the parent current at definition time and
// returns the value of the last.
func (in *Interpreter) codeLiteral(n *Node) *Object {
	parent := in.parent
	stmts := n.Children
	h := func(arg, self *Object) (*Object, error) {
		in.debug("invoke code literal", slog.Int("line", n.Line), slog.Int("statements", len(stmts)))
		sub := in.sub(parent)
		r := internal.New()
		for _, s := range stmts {
			var err error
			if r, err = sub.Eval(s); err != nil {
				return nil, err
			}
		}
		return r, nil
	}
	return internal.TaggedWith(h, "codeltr")
}

// construct evaluates obj: the prototype is cloned, and the code literal runs
// immediately with the clone as the current parent.
func (in *Interpreter) construct(n *Node) (*Object, error) {
	proto, err := in.Eval(n.Children[0])
	if err != nil {
		return nil, err
	}
	obj := proto.Clone()
	restore := in.push(obj)
	defer restore()
	code, err := in.Eval(n.Children[1])
	if err != nil {
		return nil, err
	}
	if _, err := code.Handler()(internal.New(), obj); err != nil {
		return nil, wrap(n, err)
	}
	return obj, nil
}

// context evaluates ctx: the code literal is bound to the object itself,
// uncloned, and runs immediately only if the context is a top-level
// statement. The result carries the code literal under "code".
func (in *Interpreter) context(n *Node) (*Object, error) {
	self, err := in.Eval(n.Children[0])
	if err != nil {
		return nil, err
	}
	restore := in.push(self)
	defer restore()
	code, err := in.Eval(n.Children[1])
	if err != nil {
		return nil, err
	}
	if n.IsTopLevel() {
		if _, err := code.Handler()(internal.New(), self); err != nil {
			return nil, wrap(n, err)
		}
	}
	return internal.Tagged("context", internal.Attr{Key: internal.RawString("code"), Value: code}), nil
}

// send evaluates a message call.
func (in *Interpreter) send(n *Node) (*Object, error) {
	recv, err := in.Eval(n.Children[0])
	if err != nil {
		return nil, err
	}
	arg, err := in.Eval(n.Children[1])
	if err != nil {
		return nil, err
	}
	in.debug("send message", slog.Any("receiver", recv.UniqueID()), slog.Any("argument", arg.UniqueID()))
	r, err := recv.Send(arg)
	if err != nil {
		return nil, wrap(n, err)
	}
	return r, nil
}
