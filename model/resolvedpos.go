package model

import "fmt"

type pathEntry struct {
	node   *Node
	index  int
	offset int // absolute position of the child at index
}

// ResolvedPos is a position together with the chain of ancestors it sits
// in. Depth 0 is the document; Depth() is the innermost parent.
//
// Methods that take a depth accept negative values, which count back from
// Depth(): Node(-1) is the parent of Parent().
type ResolvedPos struct {
	pos          int
	path         []pathEntry
	parentOffset int
}

// Resolve resolves pos in the document rooted at n. It panics with a
// *RangeError when pos is outside the document.
func (n *Node) Resolve(pos int) *ResolvedPos {
	if pos < 0 || pos > n.content.size {
		panic(&RangeError{Msg: fmt.Sprintf("position %d out of range", pos)})
	}
	var path []pathEntry
	start := 0
	parentOffset := pos
	for node := n; ; {
		index, offset := node.content.FindIndex(parentOffset, -1)
		rem := parentOffset - offset
		path = append(path, pathEntry{node: node, index: index, offset: start + offset})
		if rem == 0 {
			break
		}
		node = node.Child(index)
		if node.IsText() {
			break
		}
		parentOffset = rem - 1
		start += offset + 1
	}
	return &ResolvedPos{pos: pos, path: path, parentOffset: parentOffset}
}

func (r *ResolvedPos) resolveDepth(d int) int {
	if d < 0 {
		return r.Depth() + d
	}
	return d
}

func (r *ResolvedPos) Pos() int          { return r.pos }
func (r *ResolvedPos) Depth() int        { return len(r.path) - 1 }
func (r *ResolvedPos) ParentOffset() int { return r.parentOffset }
func (r *ResolvedPos) Parent() *Node     { return r.path[len(r.path)-1].node }
func (r *ResolvedPos) Doc() *Node        { return r.path[0].node }

// Node returns the ancestor at depth d.
func (r *ResolvedPos) Node(d int) *Node { return r.path[r.resolveDepth(d)].node }

// Index returns the child index of the ancestor at depth d that the
// position points into.
func (r *ResolvedPos) Index(d int) int { return r.path[r.resolveDepth(d)].index }

// IndexAfter returns the index pointing after this position in the ancestor
// at depth d.
func (r *ResolvedPos) IndexAfter(d int) int {
	d = r.resolveDepth(d)
	if d == r.Depth() && r.TextOffset() == 0 {
		return r.Index(d)
	}
	return r.Index(d) + 1
}

// Start returns the position at the start of the ancestor at depth d.
func (r *ResolvedPos) Start(d int) int {
	d = r.resolveDepth(d)
	if d == 0 {
		return 0
	}
	return r.path[d-1].offset + 1
}

// End returns the position at the end of the ancestor at depth d.
func (r *ResolvedPos) End(d int) int {
	d = r.resolveDepth(d)
	return r.Start(d) + r.Node(d).content.size
}

// Before returns the position directly before the ancestor at depth d.
func (r *ResolvedPos) Before(d int) int {
	d = r.resolveDepth(d)
	if d == 0 {
		panic(&RangeError{Msg: "there is no position before the top-level node"})
	}
	if d == r.Depth()+1 {
		return r.pos
	}
	return r.path[d-1].offset
}

// After returns the position directly after the ancestor at depth d.
func (r *ResolvedPos) After(d int) int {
	d = r.resolveDepth(d)
	if d == 0 {
		panic(&RangeError{Msg: "there is no position after the top-level node"})
	}
	if d == r.Depth()+1 {
		return r.pos
	}
	return r.path[d-1].offset + r.path[d].node.NodeSize()
}

// TextOffset is the offset into a text node when the position points inside
// one, else 0.
func (r *ResolvedPos) TextOffset() int { return r.pos - r.path[len(r.path)-1].offset }

// NodeAfter returns the node directly after the position, or nil.
func (r *ResolvedPos) NodeAfter() *Node {
	parent := r.Parent()
	index := r.Index(r.Depth())
	if index == parent.ChildCount() {
		return nil
	}
	child := parent.Child(index)
	if off := r.TextOffset(); off > 0 {
		return child.Cut(off, child.textLen())
	}
	return child
}

// NodeBefore returns the node directly before the position, or nil.
func (r *ResolvedPos) NodeBefore() *Node {
	index := r.Index(r.Depth())
	if off := r.TextOffset(); off > 0 {
		return r.Parent().Child(index).Cut(0, off)
	}
	if index == 0 {
		return nil
	}
	return r.Parent().Child(index - 1)
}

// PosAtIndex returns the position before child index of the ancestor at
// depth d.
func (r *ResolvedPos) PosAtIndex(index, d int) int {
	d = r.resolveDepth(d)
	node := r.path[d].node
	pos := 0
	if d > 0 {
		pos = r.path[d-1].offset + 1
	}
	for i := 0; i < index; i++ {
		pos += node.Child(i).NodeSize()
	}
	return pos
}

// SharedDepth returns the depth of the deepest ancestor that also contains
// pos.
func (r *ResolvedPos) SharedDepth(pos int) int {
	for d := r.Depth(); d > 0; d-- {
		if r.Start(d) <= pos && r.End(d) >= pos {
			return d
		}
	}
	return 0
}

func (r *ResolvedPos) String() string {
	s := ""
	for d := 1; d <= r.Depth(); d++ {
		if s != "" {
			s += "/"
		}
		s += fmt.Sprintf("%s_%d", r.Node(d).typ.Name, r.Index(d-1))
	}
	return fmt.Sprintf("%s:%d", s, r.parentOffset)
}
