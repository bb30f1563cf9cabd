package htmlnode

import "strings"

// Walk visits n and its descendants depth-first in document order.
// Returning false from fn skips the children of the visited node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	if c, ok := n.(*Container); ok {
		for _, child := range c.Children {
			Walk(child, fn)
		}
	}
}

// PlainText concatenates the values of every leaf below n
func PlainText(n Node) string {
	var b strings.Builder
	Walk(n, func(n Node) bool {
		if l, ok := n.(*Leaf); ok {
			v, _ := l.Value()
			b.WriteString(v)
		}
		return true
	})
	return b.String()
}
