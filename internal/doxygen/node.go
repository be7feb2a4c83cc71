package doxygen

import (
	"strings"
)

// node is the traversal context for one XML element instance. It lives only
// while the element's subtree is being streamed and forms a parent chain
// equal to the live ancestor path. All per-element state (text buffer,
// self-closed marker) lives here; handler values themselves are stateless.
type node struct {
	tag    string
	attrs  map[string]string
	parent *node
	h      handler

	// text is non-nil only when this node owns a text buffer. Content
	// appended at a node without a buffer is delegated to the nearest
	// buffer-owning ancestor, or silently dropped when there is none.
	text *strings.Builder

	// closed marks an inline code span whose trailing backtick was already
	// emitted by a nested cross-reference link.
	closed bool
}

func (n *node) attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// ownText gives this node its own (empty) text buffer.
func (n *node) ownText() {
	n.text = &strings.Builder{}
}

// addContent appends content to this node's buffer if it owns one, otherwise
// delegates to the parent. Content with no buffer-owning ancestor is dropped.
func (n *node) addContent(content string) {
	switch {
	case n.text != nil:
		n.text.WriteString(content)
	case n.parent != nil:
		n.parent.addContent(content)
	}
}

// buffered returns the nearest node in the ancestor-or-self chain that owns
// a text buffer, or nil.
func (n *node) buffered() *node {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.text != nil {
			return cur
		}
	}
	return nil
}

// insertBeforeLast splices s in front of the final byte of the buffer. Used
// to reopen an inline code span around a nested cross-reference link.
func (n *node) insertBeforeLast(s string) {
	t := n.text.String()
	n.text.Reset()
	if t == "" {
		n.text.WriteString(s)
		return
	}
	n.text.WriteString(t[:len(t)-1])
	n.text.WriteString(s)
	n.text.WriteString(t[len(t)-1:])
}

// ancestor returns the count-th ancestor (0 = the node itself), or nil when
// the chain is shorter.
func (n *node) ancestor(count int) *node {
	cur := n
	for ; count > 0 && cur != nil; count-- {
		cur = cur.parent
	}
	return cur
}

// hasTag reports whether n is a non-nil node for the given element name.
func hasTag(n *node, tag string) bool {
	return n != nil && n.tag == tag
}
