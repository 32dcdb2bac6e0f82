package model

import (
	"fmt"
	"strings"
)

// Fragment is an immutable sequence of sibling nodes. The zero value is the
// empty fragment.
type Fragment struct {
	nodes []*Node
	size  int
}

// FragmentFrom builds a fragment, joining adjacent text nodes.
func FragmentFrom(nodes ...*Node) Fragment {
	if len(nodes) == 0 {
		return Fragment{}
	}
	out := make([]*Node, 0, len(nodes))
	size := 0
	for _, n := range nodes {
		if n == nil {
			continue
		}
		size += n.NodeSize()
		if last := len(out) - 1; last >= 0 && n.IsText() && out[last].IsText() && out[last].SameMarkup(n) {
			out[last] = out[last].WithText(out[last].text + n.text)
			continue
		}
		out = append(out, n)
	}
	return Fragment{nodes: out, size: size}
}

func (f Fragment) Size() int       { return f.size }
func (f Fragment) ChildCount() int { return len(f.nodes) }

// Child returns the child at index i. It panics when i is out of range.
func (f Fragment) Child(i int) *Node {
	if i < 0 || i >= len(f.nodes) {
		panic(&RangeError{Msg: fmt.Sprintf("index %d out of range for %v", i, f)})
	}
	return f.nodes[i]
}

// MaybeChild returns the child at index i, or nil.
func (f Fragment) MaybeChild(i int) *Node {
	if i < 0 || i >= len(f.nodes) {
		return nil
	}
	return f.nodes[i]
}

func (f Fragment) FirstChild() *Node { return f.MaybeChild(0) }
func (f Fragment) LastChild() *Node  { return f.MaybeChild(len(f.nodes) - 1) }

// Nodes returns a copy of the children.
func (f Fragment) Nodes() []*Node { return append([]*Node(nil), f.nodes...) }

// Append concatenates f and other, joining text at the seam.
func (f Fragment) Append(other Fragment) Fragment {
	if other.size == 0 && len(other.nodes) == 0 {
		return f
	}
	if f.size == 0 && len(f.nodes) == 0 {
		return other
	}
	return FragmentFrom(append(f.Nodes(), other.nodes...)...)
}

// AddToEnd returns f with n appended.
func (f Fragment) AddToEnd(n *Node) Fragment {
	return FragmentFrom(append(f.Nodes(), n)...)
}

// AddToStart returns f with n prepended.
func (f Fragment) AddToStart(n *Node) Fragment {
	return FragmentFrom(append([]*Node{n}, f.nodes...)...)
}

// ReplaceChild returns f with the child at index replaced by n.
func (f Fragment) ReplaceChild(index int, n *Node) Fragment {
	cur := f.Child(index)
	if cur == n {
		return f
	}
	nodes := f.Nodes()
	nodes[index] = n
	return Fragment{nodes: nodes, size: f.size - cur.NodeSize() + n.NodeSize()}
}

// Cut returns the part of the fragment between from and to, cutting into
// children when the range ends inside them.
func (f Fragment) Cut(from, to int) Fragment {
	if from == 0 && to == f.size {
		return f
	}
	var out []*Node
	size := 0
	if to > from {
		pos := 0
		for i := 0; pos < to && i < len(f.nodes); i++ {
			child := f.nodes[i]
			end := pos + child.NodeSize()
			if end > from {
				if pos < from || end > to {
					if child.IsText() {
						child = child.Cut(maxInt(0, from-pos), minInt(child.textLen(), to-pos))
					} else {
						child = child.Cut(maxInt(0, from-pos-1), minInt(child.content.size, to-pos-1))
					}
				}
				out = append(out, child)
				size += child.NodeSize()
			}
			pos = end
		}
	}
	return Fragment{nodes: out, size: size}
}

// FindIndex returns the index of the child that contains pos and the offset
// at which that child starts. A pos at a child boundary resolves to the child
// after it; round > 0 rounds positions inside a child up to the next one.
func (f Fragment) FindIndex(pos int, round int) (index, offset int) {
	if pos == 0 {
		return 0, 0
	}
	if pos == f.size {
		return len(f.nodes), pos
	}
	if pos > f.size || pos < 0 {
		panic(&RangeError{Msg: fmt.Sprintf("position %d outside of fragment (%v)", pos, f)})
	}
	cur := 0
	for i, child := range f.nodes {
		end := cur + child.NodeSize()
		if end >= pos {
			if end == pos || round > 0 {
				return i + 1, end
			}
			return i, cur
		}
		cur = end
	}
	return len(f.nodes), f.size
}

// ForEach calls fn with each child, its offset and its index.
func (f Fragment) ForEach(fn func(child *Node, offset, index int)) {
	pos := 0
	for i, child := range f.nodes {
		fn(child, pos, i)
		pos += child.NodeSize()
	}
}

// NodesBetween calls fn for every node touching [from, to). Returning false
// from fn skips the node's children.
func (f Fragment) NodesBetween(from, to int, fn func(n *Node, pos int, parent *Node, index int) bool, nodeStart int, parent *Node) {
	pos := 0
	for i := 0; pos < to && i < len(f.nodes); i++ {
		child := f.nodes[i]
		end := pos + child.NodeSize()
		if end > from && fn(child, nodeStart+pos, parent, i) && child.content.size > 0 {
			start := pos + 1
			child.content.NodesBetween(maxInt(0, from-start), minInt(child.content.size, to-start), fn, nodeStart+start, child)
		}
		pos = end
	}
}

// TextBetween concatenates the text in [from, to), inserting blockSep
// between blocks.
func (f Fragment) TextBetween(from, to int, blockSep string) string {
	var sb strings.Builder
	first := true
	f.NodesBetween(from, to, func(n *Node, pos int, _ *Node, _ int) bool {
		switch {
		case n.IsText():
			rs := []rune(n.text)
			sb.WriteString(string(rs[maxInt(from, pos)-pos : minInt(len(rs), to-pos)]))
			first = false
		case n.IsBlock():
			if !first && blockSep != "" {
				sb.WriteString(blockSep)
			}
			if n.IsLeaf() {
				first = false
			} else {
				first = true
			}
		}
		return true
	}, 0, nil)
	return sb.String()
}

// Eq reports structural equality.
func (f Fragment) Eq(other Fragment) bool {
	if len(f.nodes) != len(other.nodes) {
		return false
	}
	for i := range f.nodes {
		if !f.nodes[i].Eq(other.nodes[i]) {
			return false
		}
	}
	return true
}

func (f Fragment) String() string {
	parts := make([]string, 0, len(f.nodes))
	for _, n := range f.nodes {
		parts = append(parts, n.String())
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

// RangeError reports a position or index outside of a node.
type RangeError struct {
	Msg string
}

func (e *RangeError) Error() string { return "model: " + e.Msg }

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
