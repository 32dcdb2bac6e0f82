package model

import (
	"fmt"
	"strings"
	"sync/atomic"
	"unicode/utf8"
)

var nodeIDs atomic.Uint64

// Node is an immutable document node.
type Node struct {
	typ     *NodeType
	attrs   Attrs
	content Fragment
	text    string
	id      uint64
}

func newNode(t *NodeType, attrs Attrs, content Fragment, text string) *Node {
	return &Node{
		typ:     t,
		attrs:   attrs,
		content: content,
		text:    text,
		id:      nodeIDs.Add(1),
	}
}

// ID is unique for every node value created in the process. Caches keyed by
// ID never confuse an edited node with its predecessor.
func (n *Node) ID() uint64 { return n.id }

func (n *Node) Type() *NodeType   { return n.typ }
func (n *Node) Role() Role        { return n.typ.Role }
func (n *Node) Attrs() Attrs      { return n.attrs }
func (n *Node) Attr(k string) any { return n.attrs[k] }
func (n *Node) Content() Fragment { return n.content }
func (n *Node) Text() string      { return n.text }

func (n *Node) IsText() bool        { return n.typ.text }
func (n *Node) IsInline() bool      { return n.typ.IsInline() }
func (n *Node) IsBlock() bool       { return n.typ.IsBlock() }
func (n *Node) IsTextblock() bool   { return n.typ.textblock }
func (n *Node) IsLeaf() bool        { return n.typ.IsLeaf() }
func (n *Node) IsAtom() bool        { return n.typ.atom || n.typ.text }
func (n *Node) InlineContent() bool { return n.typ.textblock }

func (n *Node) textLen() int { return utf8.RuneCountInString(n.text) }

// NodeSize is the number of positions the node occupies in its parent.
func (n *Node) NodeSize() int {
	switch {
	case n.IsText():
		return n.textLen()
	case n.IsLeaf():
		return 1
	default:
		return n.content.size + 2
	}
}

func (n *Node) ChildCount() int        { return n.content.ChildCount() }
func (n *Node) Child(i int) *Node      { return n.content.Child(i) }
func (n *Node) MaybeChild(i int) *Node { return n.content.MaybeChild(i) }
func (n *Node) FirstChild() *Node      { return n.content.FirstChild() }
func (n *Node) LastChild() *Node       { return n.content.LastChild() }

// SameMarkup reports whether n and other have the same type and attributes.
func (n *Node) SameMarkup(other *Node) bool {
	return n.typ == other.typ && n.attrs.Equal(other.attrs)
}

// Eq reports structural equality.
func (n *Node) Eq(other *Node) bool {
	if n == other {
		return true
	}
	if other == nil || !n.SameMarkup(other) {
		return false
	}
	if n.IsText() {
		return n.text == other.text
	}
	return n.content.Eq(other.content)
}

// Copy returns a node with the same markup and the given content.
func (n *Node) Copy(content Fragment) *Node {
	return newNode(n.typ, n.attrs, content, n.text)
}

// WithMarkup returns a node with the given type and attributes and n's content.
func (n *Node) WithMarkup(t *NodeType, attrs Attrs) *Node {
	if t == nil {
		t = n.typ
	}
	return newNode(t, t.computeAttrs(attrs), n.content, n.text)
}

// WithText returns a text node of the same markup holding text.
func (n *Node) WithText(text string) *Node {
	if text == n.text {
		return n
	}
	return newNode(n.typ, n.attrs, Fragment{}, text)
}

// Cut returns the part of n between from and to (relative to its content).
func (n *Node) Cut(from, to int) *Node {
	if n.IsText() {
		rs := []rune(n.text)
		if from == 0 && to == len(rs) {
			return n
		}
		return n.WithText(string(rs[from:to]))
	}
	if from == 0 && to == n.content.size {
		return n
	}
	return n.Copy(n.content.Cut(from, to))
}

// NodeAt returns the node starting at pos, or nil.
func (n *Node) NodeAt(pos int) *Node {
	node := n
	for {
		index, offset := node.content.FindIndex(pos, -1)
		node = node.content.MaybeChild(index)
		if node == nil {
			return nil
		}
		if offset == pos || node.IsText() {
			return node
		}
		pos -= offset + 1
	}
}

// NodesBetween calls fn for every descendant touching [from, to).
func (n *Node) NodesBetween(from, to int, fn func(node *Node, pos int, parent *Node, index int) bool) {
	n.content.NodesBetween(from, to, fn, 0, n)
}

// Descendants calls fn for every descendant.
func (n *Node) Descendants(fn func(node *Node, pos int, parent *Node, index int) bool) {
	n.NodesBetween(0, n.content.size, fn)
}

// TextContent concatenates the text of all descendants.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.text
	}
	return n.content.TextBetween(0, n.content.size, "")
}

// Slice cuts the content between from and to into a Slice.
func (n *Node) Slice(from, to int, includeParents bool) Slice {
	if from == to {
		return EmptySlice
	}
	rFrom, rTo := n.Resolve(from), n.Resolve(to)
	depth := 0
	if !includeParents {
		depth = rFrom.SharedDepth(to)
	}
	start := rFrom.Start(depth)
	content := rFrom.Node(depth).content.Cut(rFrom.Pos()-start, rTo.Pos()-start)
	return Slice{Content: content, OpenStart: rFrom.Depth() - depth, OpenEnd: rTo.Depth() - depth}
}

// Replace returns a copy of n with [from, to) replaced by slice.
func (n *Node) Replace(from, to int, slice Slice) (*Node, error) {
	return replace(n.Resolve(from), n.Resolve(to), slice)
}

func (n *Node) String() string {
	if n.IsText() {
		return fmt.Sprintf("%q", n.text)
	}
	var sb strings.Builder
	sb.WriteString(n.typ.Name)
	if n.typ.Role.IsCell() {
		if cs, _ := n.attrs["colspan"].(int); cs > 1 {
			fmt.Fprintf(&sb, "[colspan=%d]", cs)
		}
		if rs, _ := n.attrs["rowspan"].(int); rs > 1 {
			fmt.Fprintf(&sb, "[rowspan=%d]", rs)
		}
	}
	if n.content.ChildCount() > 0 {
		sb.WriteString("(")
		for i, c := range n.content.nodes {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(c.String())
		}
		sb.WriteString(")")
	}
	return sb.String()
}
