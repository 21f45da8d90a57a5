package cavy

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes a syntax tree to w, one node per line, with each node's
// children indented two spaces beneath it.
func Fprint(w io.Writer, n *Node) error {
	return fprint(w, n, 0)
}

func fprint(w io.Writer, n *Node, depth int) error {
	indent := strings.Repeat("  ", depth)
	var err error
	if n.Text != "" || n.Kind == StringLitNode {
		_, err = fmt.Fprintf(w, "%s[ %v %s ]\n", indent, n.Kind, n.Text)
	} else {
		_, err = fmt.Fprintf(w, "%s[ %v ]\n", indent, n.Kind)
	}
	if err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := fprint(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// String returns the printed form of a syntax tree.
func (n *Node) String() string {
	var b strings.Builder
	Fprint(&b, n)
	return b.String()
}
