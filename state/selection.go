package state

import (
	"github.com/iw2rmb/tessera/model"
	"github.com/iw2rmb/tessera/transform"
)

// SelectionRange is one contiguous range of a selection.
type SelectionRange struct {
	From, To *model.ResolvedPos
}

// Selection is the editor selection. Implementations are immutable.
type Selection interface {
	Anchor() int
	Head() int
	From() int
	To() int
	ResolvedAnchor() *model.ResolvedPos
	ResolvedHead() *model.ResolvedPos
	ResolvedFrom() *model.ResolvedPos
	ResolvedTo() *model.ResolvedPos
	Ranges() []SelectionRange
	Empty() bool
	// Visible reports whether the host should draw the selection itself.
	Visible() bool
	Eq(other Selection) bool
	Map(doc *model.Node, mapping *transform.Mapping) Selection
	Content() model.Slice
	Replace(tr *Transaction, content model.Slice)
	ReplaceWith(tr *Transaction, node *model.Node)
	JSON() SelectionJSON
	Bookmark() SelectionBookmark
}

// SelectionBookmark is a document-independent selection that can be mapped
// and resolved later.
type SelectionBookmark interface {
	Map(mapping *transform.Mapping) SelectionBookmark
	Resolve(doc *model.Node) Selection
}

// BaseSelection holds the positions shared by every selection type. It is
// embedded by concrete selections.
type BaseSelection struct {
	anchor, head *model.ResolvedPos
	ranges       []SelectionRange
}

// NewBaseSelection builds the shared part. With no ranges a single range
// between anchor and head is used.
func NewBaseSelection(anchor, head *model.ResolvedPos, ranges []SelectionRange) BaseSelection {
	if len(ranges) == 0 {
		from, to := anchor, head
		if head.Pos() < anchor.Pos() {
			from, to = head, anchor
		}
		ranges = []SelectionRange{{From: from, To: to}}
	}
	return BaseSelection{anchor: anchor, head: head, ranges: ranges}
}

func (s BaseSelection) Anchor() int                        { return s.anchor.Pos() }
func (s BaseSelection) Head() int                          { return s.head.Pos() }
func (s BaseSelection) ResolvedAnchor() *model.ResolvedPos { return s.anchor }
func (s BaseSelection) ResolvedHead() *model.ResolvedPos   { return s.head }
func (s BaseSelection) Ranges() []SelectionRange           { return s.ranges }

// ResolvedFrom is the lowest position among the ranges.
func (s BaseSelection) ResolvedFrom() *model.ResolvedPos {
	from := s.ranges[0].From
	for _, r := range s.ranges[1:] {
		if r.From.Pos() < from.Pos() {
			from = r.From
		}
	}
	return from
}

// ResolvedTo is the highest position among the ranges.
func (s BaseSelection) ResolvedTo() *model.ResolvedPos {
	to := s.ranges[0].To
	for _, r := range s.ranges[1:] {
		if r.To.Pos() > to.Pos() {
			to = r.To
		}
	}
	return to
}

func (s BaseSelection) From() int { return s.ResolvedFrom().Pos() }
func (s BaseSelection) To() int   { return s.ResolvedTo().Pos() }

// Empty reports whether every range is collapsed.
func (s BaseSelection) Empty() bool {
	for _, r := range s.ranges {
		if r.From.Pos() != r.To.Pos() {
			return false
		}
	}
	return true
}

func (s BaseSelection) Visible() bool { return true }

// Content returns the selected content between From and To.
func (s BaseSelection) Content() model.Slice {
	return s.anchor.Doc().Slice(s.From(), s.To(), true)
}

// ReplaceRanges replaces every range of sel: the first with content, the
// rest with nothing. The selection ends up after the inserted content.
func ReplaceRanges(sel Selection, tr *Transaction, content model.Slice) {
	lastNode := content.Content.LastChild()
	var lastParent *model.Node
	for i := 0; i < content.OpenEnd && lastNode != nil; i++ {
		lastParent = lastNode
		lastNode = lastNode.LastChild()
	}
	bias := 1
	if (lastNode != nil && lastNode.IsInline()) || (lastNode == nil && lastParent != nil && lastParent.IsTextblock()) {
		bias = -1
	}
	mapFrom := len(tr.Steps)
	for i, r := range sel.Ranges() {
		mapping := tr.Mapping.Slice(mapFrom)
		slice := model.EmptySlice
		if i == 0 {
			slice = content
		}
		tr.Replace(mapping.Map(r.From.Pos(), 1), mapping.Map(r.To.Pos(), 1), slice)
		if i == 0 {
			selectionToInsertionEnd(tr, mapFrom, bias)
		}
	}
}

// ReplaceRangesWith replaces the first range of sel with node and deletes the
// others.
func ReplaceRangesWith(sel Selection, tr *Transaction, node *model.Node) {
	mapFrom := len(tr.Steps)
	for i, r := range sel.Ranges() {
		mapping := tr.Mapping.Slice(mapFrom)
		from, to := mapping.Map(r.From.Pos(), 1), mapping.Map(r.To.Pos(), 1)
		if i > 0 {
			tr.Delete(from, to)
			continue
		}
		tr.ReplaceWith(from, to, node)
		bias := 1
		if node.IsInline() {
			bias = -1
		}
		selectionToInsertionEnd(tr, mapFrom, bias)
	}
}

func selectionToInsertionEnd(tr *Transaction, startLen, bias int) {
	last := len(tr.Steps) - 1
	if last < startLen {
		return
	}
	if _, ok := tr.Steps[last].(*transform.ReplaceStep); !ok {
		return
	}
	end := -1
	tr.Mapping.Maps()[last].ForEach(func(_, _, _, newTo int) {
		if end < 0 {
			end = newTo
		}
	})
	if end < 0 {
		return
	}
	tr.SetSelection(SelectionNear(tr.Doc.Resolve(end), bias))
}

func findSelectionIn(doc, node *model.Node, pos, index, dir int, textOnly bool) Selection {
	if node.InlineContent() {
		return CreateTextSelection(doc, pos, pos)
	}
	i := index
	if dir < 0 {
		i--
	}
	for ; (dir > 0 && i < node.ChildCount()) || (dir < 0 && i >= 0); i += dir {
		child := node.Child(i)
		if !child.IsAtom() {
			inner := 0
			if dir < 0 {
				inner = child.ChildCount()
			}
			if found := findSelectionIn(doc, child, pos+dir, inner, dir, textOnly); found != nil {
				return found
			}
		} else if !textOnly && !child.IsText() {
			at := pos
			if dir < 0 {
				at -= child.NodeSize()
			}
			return CreateNodeSelection(doc, at)
		}
		pos += child.NodeSize() * dir
	}
	return nil
}

// FindSelectionFrom finds a valid cursor or node selection starting at pos
// and searching in direction dir. It returns nil when there is none.
func FindSelectionFrom(pos *model.ResolvedPos, dir int, textOnly bool) Selection {
	if pos.Parent().InlineContent() {
		return NewTextSelection(pos, pos)
	}
	doc := pos.Doc()
	if found := findSelectionIn(doc, pos.Parent(), pos.Pos(), pos.Index(pos.Depth()), dir, textOnly); found != nil {
		return found
	}
	for d := pos.Depth() - 1; d >= 0; d-- {
		var found Selection
		if dir < 0 {
			found = findSelectionIn(doc, pos.Node(d), pos.Before(d+1), pos.Index(d), dir, textOnly)
		} else {
			found = findSelectionIn(doc, pos.Node(d), pos.After(d+1), pos.Index(d)+1, dir, textOnly)
		}
		if found != nil {
			return found
		}
	}
	return nil
}

// SelectionNear finds a selection near pos, preferring direction bias. It
// falls back to an AllSelection.
func SelectionNear(pos *model.ResolvedPos, bias int) Selection {
	if bias == 0 {
		bias = 1
	}
	if found := FindSelectionFrom(pos, bias, false); found != nil {
		return found
	}
	if found := FindSelectionFrom(pos, -bias, false); found != nil {
		return found
	}
	return NewAllSelection(pos.Doc())
}

// SelectionAtStart returns the first valid selection in doc.
func SelectionAtStart(doc *model.Node) Selection {
	if found := findSelectionIn(doc, doc, 0, 0, 1, false); found != nil {
		return found
	}
	return NewAllSelection(doc)
}

// SelectionAtEnd returns the last valid selection in doc.
func SelectionAtEnd(doc *model.Node) Selection {
	if found := findSelectionIn(doc, doc, doc.Content().Size(), doc.ChildCount(), -1, false); found != nil {
		return found
	}
	return NewAllSelection(doc)
}
