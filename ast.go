package cavy

import "strconv"

// NodeKind is the kind of a syntax tree node.
type NodeKind int

const (
	RootNode         NodeKind = iota // program; children are statements
	ContextNode                      // self ctx {code}
	ObjectNode                       // proto obj {code}
	MessageNode                      // receiver : argument .
	ParentAccessNode                 // ^name
	AttrAccessNode                   // object -> name
	IdentNode                        // identifier, evaluated as its own text
	StringLitNode                    // "string"
	NumberLitNode                    // 123
	ObjectLitNode                    // [a, b, c]
	CodeLitNode                      // { statements }
	GlobalNode                       // reserved global name
	SelfNode                         // *
)

// String returns the name of a node kind.
func (k NodeKind) String() string {
	switch k {
	case RootNode:
		return "Root"
	case ContextNode:
		return "Ctx"
	case ObjectNode:
		return "Obj"
	case MessageNode:
		return "MsgCall"
	case ParentAccessNode:
		return "ParentAccess"
	case AttrAccessNode:
		return "AttrAccess"
	case IdentNode:
		return "Identifier"
	case StringLitNode:
		return "StrLtr"
	case NumberLitNode:
		return "NumLtr"
	case ObjectLitNode:
		return "ObjLtr"
	case CodeLitNode:
		return "CodeLtr"
	case GlobalNode:
		return "GlobalObj"
	case SelfNode:
		return "Asterisk"
	}
	return "NodeKind(" + strconv.Itoa(int(k)) + ")"
}

// globalNames are the identifiers that parse to GlobalNodes.
var globalNames = map[string]bool{
	"System": true,
}

// A Node is an element of the syntax tree.
type Node struct {
	Kind NodeKind
	// Text is the literal text of identifiers, globals, and literals.
	Text string
	// Children are the node's operands in source order.
	Children []*Node
	// Parent is the node owning this one, or nil for the root. It is used to
	// decide whether a node is a top-level statement.
	Parent *Node

	// Line and Col are the one-based position of the token that produced the
	// node, or zero for synthesized nodes.
	Line, Col int
}

// newNode creates a node with the given children and sets their parents.
func newNode(kind NodeKind, at Token, children ...*Node) *Node {
	n := &Node{Kind: kind, Children: children, Line: at.Line, Col: at.Col}
	for _, c := range children {
		c.Parent = n
	}
	return n
}

// IsValue returns whether the node produces an object when evaluated. Every
// kind except the root and bare code literals does.
func (n *Node) IsValue() bool {
	switch n.Kind {
	case RootNode, CodeLitNode:
		return false
	}
	return true
}

// IsTopLevel returns whether the node is a statement of the program root.
func (n *Node) IsTopLevel() bool {
	return n.Parent != nil && n.Parent.Kind == RootNode
}
