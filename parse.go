package cavy

/*
This file is for converting tokens into a syntax tree. There is no grammar
and no recursive descent. Instead, a range of tokens is searched for the first
pivot token of the highest priority group that appears in it:

	1. obj, ctx, :, and brackets that enclose the entire range
	2. ->
	3. ^
	4. single-token atoms

The range is split around the pivot, each side is parsed the same way, and
the results become the children of a node typed by the pivot. Brackets that
do not enclose the whole range are skipped over, so nothing inside them can
be a pivot for the outer range.
*/

import (
	"fmt"
)

// ParseError is an error in the structure of a program.
type ParseError struct {
	// Line and Col are the position of the offending token.
	Line, Col int
	// Msg describes the problem.
	Msg string
	// Incomplete is true when the program could become valid by appending
	// more source, e.g. when a bracket is unclosed.
	Incomplete bool
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
	}
	return e.Msg
}

// errAt creates a ParseError located at a token.
func errAt(at Token, incomplete bool, format string, args ...interface{}) *ParseError {
	return &ParseError{Line: at.Line, Col: at.Col, Msg: fmt.Sprintf(format, args...), Incomplete: incomplete}
}

// Parse converts a token sequence into a syntax tree. Space tokens are
// ignored. The result is a RootNode whose children are the program's
// statements, each terminated by a '.' that does not end a message. Chains of
// attribute accesses are left-associated before Parse returns.
func Parse(tokens []Token) (*Node, error) {
	toks := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind != SpaceToken {
			toks = append(toks, t)
		}
	}
	stmts, err := splitStatements(toks)
	if err != nil {
		return nil, err
	}
	root := &Node{Kind: RootNode, Line: 1, Col: 1}
	for _, s := range stmts {
		n, err := parseRange(s, s[0])
		if err != nil {
			return nil, err
		}
		if n, err = flatten(n); err != nil {
			return nil, err
		}
		root.Children = append(root.Children, n)
	}
	setParents(root)
	return root, nil
}

// ParseString lexes and parses source text.
func ParseString(src string) (*Node, error) {
	return Parse(Lex(src, false))
}

// splitStatements splits a program at its statement terminators. A '.' is a
// terminator when it is outside all brackets and does not close a pending
// ':'. Empty statements are dropped. Tokens after the last terminator form a
// final statement.
func splitStatements(toks []Token) ([][]Token, error) {
	var stmts [][]Token
	depth, msgs, start := 0, 0, 0
	for i, t := range toks {
		switch t.Kind {
		case ObjectBeginToken, CodeBeginToken:
			depth++
		case ObjectEndToken, CodeEndToken:
			depth--
			if depth < 0 {
				return nil, errAt(t, false, "unexpected '%s'", t.Value)
			}
		case MessageBeginToken:
			if depth == 0 {
				msgs++
			}
		case MessageEndToken:
			if depth != 0 {
				continue
			}
			if msgs > 0 {
				msgs--
				continue
			}
			if i > start {
				stmts = append(stmts, toks[start:i])
			}
			start = i + 1
		}
	}
	if start < len(toks) {
		stmts = append(stmts, toks[start:])
	}
	return stmts, nil
}

// parseRange parses a range of tokens by pivot search. near locates errors
// about an empty range.
func parseRange(toks []Token, near Token) (*Node, error) {
	if len(toks) == 0 {
		return nil, errAt(near, true, "expected expression near '%s'", near.Value)
	}

	// Structural pivots.
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch t.Kind {
		case ObjectBeginToken, CodeBeginToken:
			j, err := matchBracket(toks, i)
			if err != nil {
				return nil, err
			}
			if i == 0 && j == len(toks)-1 {
				if t.Kind == ObjectBeginToken {
					return parseObjectLiteral(toks)
				}
				return parseCodeLiteral(toks)
			}
			i = j
		case ObjectEndToken, CodeEndToken:
			return nil, errAt(t, false, "unexpected '%s'", t.Value)
		case ObjToken, CtxToken:
			return parseConstruction(toks, i)
		case MessageBeginToken:
			return parseMessage(toks, i)
		}
	}

	if i := findTop(toks, AttrToken); i >= 0 {
		return parseAttrAccess(toks, i)
	}
	if i := findTop(toks, ParentToken); i >= 0 {
		return parseParentAccess(toks, i)
	}

	if len(toks) == 1 {
		t := toks[0]
		switch t.Kind {
		case StringToken:
			n := newNode(StringLitNode, t)
			n.Text = t.Value
			return n, nil
		case NumberToken:
			n := newNode(NumberLitNode, t)
			n.Text = t.Value
			return n, nil
		case SelfToken:
			return newNode(SelfNode, t), nil
		case IdentToken:
			kind := IdentNode
			if globalNames[t.Value] {
				kind = GlobalNode
			}
			n := newNode(kind, t)
			n.Text = t.Value
			return n, nil
		}
		return nil, errAt(t, false, "unexpected '%s'", t.Value)
	}
	// Report the first token after the first complete operand.
	i := 1
	if k := toks[0].Kind; k == ObjectBeginToken || k == CodeBeginToken {
		i, _ = matchBracket(toks, 0)
		i++
	}
	return nil, errAt(toks[i], false, "unexpected '%s'", toks[i].Value)
}

// closer returns the closing bracket matching an opening bracket kind.
func closer(open TokenKind) TokenKind {
	if open == ObjectBeginToken {
		return ObjectEndToken
	}
	return CodeEndToken
}

// matchBracket returns the index of the bracket that closes the one at
// toks[i].
func matchBracket(toks []Token, i int) (int, error) {
	var stack []Token
	for j := i; j < len(toks); j++ {
		t := toks[j]
		switch t.Kind {
		case ObjectBeginToken, CodeBeginToken:
			stack = append(stack, t)
		case ObjectEndToken, CodeEndToken:
			open := stack[len(stack)-1]
			if closer(open.Kind) != t.Kind {
				want := "]"
				if open.Kind == CodeBeginToken {
					want = "}"
				}
				return 0, errAt(t, false, "expected '%s', got '%s'", want, t.Value)
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return j, nil
			}
		}
	}
	return 0, errAt(toks[i], true, "unclosed '%s'", toks[i].Value)
}

// findTop returns the index of the first token of the given kind that is
// outside all brackets, or -1 if there is none.
func findTop(toks []Token, kind TokenKind) int {
	depth := 0
	for i, t := range toks {
		switch t.Kind {
		case ObjectBeginToken, CodeBeginToken:
			depth++
		case ObjectEndToken, CodeEndToken:
			depth--
		case kind:
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// parseObjectLiteral parses a range that is exactly one bracketed object
// literal. Elements are separated by commas outside nested brackets.
func parseObjectLiteral(toks []Token) (*Node, error) {
	open := toks[0]
	if len(toks) == 2 {
		return newNode(ObjectLitNode, open), nil
	}
	inner := toks[1 : len(toks)-1]
	var elems []*Node
	depth, start := 0, 0
	for j, t := range inner {
		switch t.Kind {
		case ObjectBeginToken, CodeBeginToken:
			depth++
		case ObjectEndToken, CodeEndToken:
			depth--
		case CommaToken:
			if depth != 0 {
				continue
			}
			e, err := parseElement(inner[start:j], t)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			start = j + 1
		}
	}
	e, err := parseElement(inner[start:], toks[len(toks)-1])
	if err != nil {
		return nil, err
	}
	elems = append(elems, e)
	return newNode(ObjectLitNode, open, elems...), nil
}

// parseElement parses one element of an object literal. near is the comma or
// bracket that ends it.
func parseElement(toks []Token, near Token) (*Node, error) {
	if len(toks) == 0 {
		return nil, errAt(near, false, "empty element in object literal")
	}
	n, err := parseRange(toks, near)
	if err != nil {
		return nil, err
	}
	if !n.IsValue() {
		return nil, errAt(toks[0], false, "object literal can only contain objects")
	}
	return n, nil
}

// parseCodeLiteral parses a range that is exactly one braced code literal.
// Its statements are message calls, each ended by the '.' that closes its
// outermost ':'.
func parseCodeLiteral(toks []Token) (*Node, error) {
	open := toks[0]
	if len(toks) == 2 {
		return newNode(CodeLitNode, open), nil
	}
	inner := toks[1 : len(toks)-1]
	var stmts []*Node
	depth, msgs, start := 0, 0, 0
	for j, t := range inner {
		switch t.Kind {
		case ObjectBeginToken, CodeBeginToken:
			depth++
		case ObjectEndToken, CodeEndToken:
			depth--
		case MessageBeginToken:
			if depth == 0 {
				msgs++
			}
		case MessageEndToken:
			if depth != 0 {
				continue
			}
			msgs--
			if msgs < 0 {
				return nil, errAt(t, false, "unexpected '.'")
			}
			if msgs > 0 {
				continue
			}
			s, err := parseRange(inner[start:j+1], t)
			if err != nil {
				return nil, err
			}
			if s.Kind != MessageNode {
				return nil, errAt(inner[start], false, "only message calls are allowed inside a code literal")
			}
			stmts = append(stmts, s)
			start = j + 1
		}
	}
	if start < len(inner) {
		return nil, errAt(inner[start], false, "expected '.' after statement")
	}
	return newNode(CodeLitNode, open, stmts...), nil
}

// parseConstruction parses an obj or ctx expression whose keyword is at
// toks[i]. An empty range before the keyword means a fresh empty object.
func parseConstruction(toks []Token, i int) (*Node, error) {
	t := toks[i]
	if i == len(toks)-1 {
		return nil, errAt(t, true, "expected code literal after '%s'", t.Value)
	}
	var left *Node
	if i == 0 {
		left = newNode(ObjectLitNode, t)
	} else {
		var err error
		left, err = parseRange(toks[:i], t)
		if err != nil {
			return nil, err
		}
		if !left.IsValue() {
			return nil, errAt(t, false, "expected object before '%s'", t.Value)
		}
	}
	right, err := parseRange(toks[i+1:], t)
	if err != nil {
		return nil, err
	}
	if right.Kind != CodeLitNode {
		return nil, errAt(toks[i+1], false, "expected code literal after '%s'", t.Value)
	}
	kind := ObjectNode
	if t.Kind == CtxToken {
		kind = ContextNode
	}
	return newNode(kind, t, left, right), nil
}

// parseMessage parses a message call whose ':' is at toks[i]. The range must
// end with the '.' that closes the message.
func parseMessage(toks []Token, i int) (*Node, error) {
	t := toks[i]
	if i == 0 {
		return nil, errAt(t, false, "expected object before ':'")
	}
	last := toks[len(toks)-1]
	if last.Kind != MessageEndToken || len(toks)-1 == i {
		return nil, errAt(last, true, "expected '.' after message argument")
	}
	if len(toks)-2 == i {
		return nil, errAt(last, false, "expected argument after ':'")
	}
	left, err := parseRange(toks[:i], t)
	if err != nil {
		return nil, err
	}
	if !left.IsValue() {
		return nil, errAt(t, false, "expected object before ':'")
	}
	right, err := parseRange(toks[i+1:len(toks)-1], t)
	if err != nil {
		return nil, err
	}
	if !right.IsValue() {
		return nil, errAt(toks[i+1], false, "expected object after ':'")
	}
	return newNode(MessageNode, t, left, right), nil
}

// parseAttrAccess parses an attribute access whose '->' is at toks[i]. The
// first '->' is the pivot, so a chain a->b->c parses as a -> (b -> c).
func parseAttrAccess(toks []Token, i int) (*Node, error) {
	t := toks[i]
	if i == 0 {
		return nil, errAt(t, false, "expected object before '->'")
	}
	if i == len(toks)-1 {
		return nil, errAt(t, false, "expected identifier after '->'")
	}
	left, err := parseRange(toks[:i], t)
	if err != nil {
		return nil, err
	}
	if !left.IsValue() {
		return nil, errAt(t, false, "expected object before '->'")
	}
	right, err := parseRange(toks[i+1:], t)
	if err != nil {
		return nil, err
	}
	if right.Kind != IdentNode && right.Kind != AttrAccessNode {
		return nil, errAt(toks[i+1], false, "expected identifier after '->'")
	}
	return newNode(AttrAccessNode, t, left, right), nil
}

// parseParentAccess parses ^name. The '^' at toks[i] must begin the range and
// be followed by exactly one identifier.
func parseParentAccess(toks []Token, i int) (*Node, error) {
	t := toks[i]
	if i != 0 {
		return nil, errAt(toks[0], false, "unexpected '%s' before '^'", toks[0].Value)
	}
	if len(toks) < 2 || toks[1].Kind != IdentToken {
		return nil, errAt(t, false, "expected identifier after '^'")
	}
	if len(toks) > 2 {
		return nil, errAt(toks[2], false, "unexpected '%s' after '^%s'", toks[2].Value, toks[1].Value)
	}
	id := newNode(IdentNode, toks[1])
	id.Text = toks[1].Value
	return newNode(ParentAccessNode, t, id), nil
}

// Reassociate rewrites a right-nested attribute chain a -> (b -> c) into the
// left-nested (a -> b) -> c that it means, repeating until the right operand
// is an identifier. Only new nodes are created; n and its children are not
// modified.
func Reassociate(n *Node) (*Node, error) {
	for n.Kind == AttrAccessNode && n.Children[1].Kind == AttrAccessNode {
		r := n.Children[1]
		mid := r.Children[0]
		if mid.Kind != IdentNode {
			return nil, &ParseError{Line: mid.Line, Col: mid.Col, Msg: "expected identifier after '->'"}
		}
		left := &Node{Kind: AttrAccessNode, Children: []*Node{n.Children[0], mid}, Line: n.Line, Col: n.Col}
		next := &Node{Kind: AttrAccessNode, Children: []*Node{left, r.Children[1]}, Parent: n.Parent, Line: r.Line, Col: r.Col}
		left.Parent = next
		n = next
	}
	return n, nil
}

// flatten left-associates every attribute chain in a tree.
func flatten(n *Node) (*Node, error) {
	if n.Kind == AttrAccessNode {
		var err error
		if n, err = Reassociate(n); err != nil {
			return nil, err
		}
	}
	for i, c := range n.Children {
		f, err := flatten(c)
		if err != nil {
			return nil, err
		}
		n.Children[i] = f
	}
	return n, nil
}

// setParents makes every node's Parent the node that holds it.
func setParents(n *Node) {
	for _, c := range n.Children {
		c.Parent = n
		setParents(c)
	}
}
