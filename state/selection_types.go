package state

import (
	"fmt"

	"github.com/iw2rmb/tessera/model"
	"github.com/iw2rmb/tessera/transform"
)

// TextSelection is a cursor or a text range. Both ends point into
// textblocks.
type TextSelection struct {
	BaseSelection
}

// NewTextSelection builds a text selection from resolved positions.
func NewTextSelection(anchor, head *model.ResolvedPos) *TextSelection {
	return &TextSelection{BaseSelection: NewBaseSelection(anchor, head, nil)}
}

// CreateTextSelection builds a text selection from plain positions.
func CreateTextSelection(doc *model.Node, anchor, head int) *TextSelection {
	a := doc.Resolve(anchor)
	h := a
	if head != anchor {
		h = doc.Resolve(head)
	}
	return NewTextSelection(a, h)
}

// TextSelectionBetween returns a text selection spanning anchor and head,
// moving ends that do not point into a textblock to the nearest text
// position. It may return a different selection type when no text
// position exists.
func TextSelectionBetween(anchor, head *model.ResolvedPos, bias int) Selection {
	dPos := anchor.Pos() - head.Pos()
	if bias == 0 || dPos != 0 {
		if dPos >= 0 {
			bias = 1
		} else {
			bias = -1
		}
	}
	if !head.Parent().InlineContent() {
		found := FindSelectionFrom(head, bias, true)
		if found == nil {
			found = FindSelectionFrom(head, -bias, true)
		}
		if found == nil {
			return SelectionNear(head, bias)
		}
		head = found.ResolvedHead()
	}
	if !anchor.Parent().InlineContent() {
		if dPos == 0 {
			anchor = head
		} else {
			found := FindSelectionFrom(anchor, -bias, true)
			if found == nil {
				found = FindSelectionFrom(anchor, bias, true)
			}
			if found != nil {
				anchor = found.ResolvedAnchor()
			}
			if found == nil || (anchor.Pos() < head.Pos()) != (dPos < 0) {
				anchor = head
			}
		}
	}
	return NewTextSelection(anchor, head)
}

func (s *TextSelection) Eq(other Selection) bool {
	o, ok := other.(*TextSelection)
	return ok && o.Anchor() == s.Anchor() && o.Head() == s.Head()
}

func (s *TextSelection) Map(doc *model.Node, mapping *transform.Mapping) Selection {
	head := doc.Resolve(mapping.Map(s.Head(), 1))
	if !head.Parent().InlineContent() {
		return SelectionNear(head, 1)
	}
	anchor := doc.Resolve(mapping.Map(s.Anchor(), 1))
	if !anchor.Parent().InlineContent() {
		anchor = head
	}
	return NewTextSelection(anchor, head)
}

func (s *TextSelection) Replace(tr *Transaction, content model.Slice) {
	ReplaceRanges(s, tr, content)
}

func (s *TextSelection) ReplaceWith(tr *Transaction, node *model.Node) {
	ReplaceRangesWith(s, tr, node)
}

func (s *TextSelection) JSON() SelectionJSON {
	return SelectionJSON{Type: "text", Anchor: s.Anchor(), Head: s.Head()}
}

func (s *TextSelection) Bookmark() SelectionBookmark {
	return TextBookmark{Anchor: s.Anchor(), Head: s.Head()}
}

// Cursor returns the position when the selection is empty.
func (s *TextSelection) Cursor() (*model.ResolvedPos, bool) {
	if s.Anchor() != s.Head() {
		return nil, false
	}
	return s.ResolvedHead(), true
}

func (s *TextSelection) String() string {
	return fmt.Sprintf("text(%d,%d)", s.Anchor(), s.Head())
}

// TextBookmark is the bookmark of a TextSelection.
type TextBookmark struct {
	Anchor, Head int
}

func (b TextBookmark) Map(mapping *transform.Mapping) SelectionBookmark {
	return TextBookmark{Anchor: mapping.Map(b.Anchor, 1), Head: mapping.Map(b.Head, 1)}
}

func (b TextBookmark) Resolve(doc *model.Node) Selection {
	return TextSelectionBetween(doc.Resolve(b.Anchor), doc.Resolve(b.Head), 0)
}

// NodeSelection selects a single node.
type NodeSelection struct {
	BaseSelection
	node *model.Node
}

// NewNodeSelection selects the node directly after pos.
func NewNodeSelection(pos *model.ResolvedPos) *NodeSelection {
	node := pos.NodeAfter()
	if node == nil {
		panic(&model.RangeError{Msg: fmt.Sprintf("no node after position %d", pos.Pos())})
	}
	end := pos.Doc().Resolve(pos.Pos() + node.NodeSize())
	return &NodeSelection{BaseSelection: NewBaseSelection(pos, end, nil), node: node}
}

// CreateNodeSelection selects the node starting at from.
func CreateNodeSelection(doc *model.Node, from int) *NodeSelection {
	return NewNodeSelection(doc.Resolve(from))
}

// Node returns the selected node.
func (s *NodeSelection) Node() *model.Node { return s.node }

func (s *NodeSelection) Eq(other Selection) bool {
	o, ok := other.(*NodeSelection)
	return ok && o.Anchor() == s.Anchor()
}

func (s *NodeSelection) Map(doc *model.Node, mapping *transform.Mapping) Selection {
	r := mapping.MapResult(s.Anchor(), 1)
	pos := doc.Resolve(r.Pos)
	if r.Deleted() || pos.NodeAfter() == nil {
		return SelectionNear(pos, 1)
	}
	return NewNodeSelection(pos)
}

func (s *NodeSelection) Content() model.Slice {
	return model.NewSlice(model.FragmentFrom(s.node), 0, 0)
}

func (s *NodeSelection) Replace(tr *Transaction, content model.Slice) {
	ReplaceRanges(s, tr, content)
}

func (s *NodeSelection) ReplaceWith(tr *Transaction, node *model.Node) {
	ReplaceRangesWith(s, tr, node)
}

func (s *NodeSelection) JSON() SelectionJSON {
	return SelectionJSON{Type: "node", Anchor: s.Anchor(), Head: s.Anchor()}
}

func (s *NodeSelection) Bookmark() SelectionBookmark {
	return NodeBookmark{Anchor: s.Anchor()}
}

func (s *NodeSelection) String() string {
	return fmt.Sprintf("node(%d)", s.Anchor())
}

// NodeBookmark is the bookmark of a NodeSelection.
type NodeBookmark struct {
	Anchor int
}

func (b NodeBookmark) Map(mapping *transform.Mapping) SelectionBookmark {
	r := mapping.MapResult(b.Anchor, 1)
	if r.Deleted() {
		return TextBookmark{Anchor: r.Pos, Head: r.Pos}
	}
	return NodeBookmark{Anchor: r.Pos}
}

func (b NodeBookmark) Resolve(doc *model.Node) Selection {
	pos := doc.Resolve(b.Anchor)
	if node := pos.NodeAfter(); node != nil && !node.IsText() {
		return NewNodeSelection(pos)
	}
	return SelectionNear(pos, 1)
}

// AllSelection selects the whole document.
type AllSelection struct {
	BaseSelection
}

// NewAllSelection selects everything in doc.
func NewAllSelection(doc *model.Node) *AllSelection {
	return &AllSelection{BaseSelection: NewBaseSelection(doc.Resolve(0), doc.Resolve(doc.Content().Size()), nil)}
}

func (s *AllSelection) Eq(other Selection) bool {
	_, ok := other.(*AllSelection)
	return ok
}

func (s *AllSelection) Map(doc *model.Node, _ *transform.Mapping) Selection {
	return NewAllSelection(doc)
}

func (s *AllSelection) Replace(tr *Transaction, content model.Slice) {
	if content.Content.Size() > 0 {
		ReplaceRanges(s, tr, content)
		return
	}
	tr.Delete(0, tr.Doc.Content().Size())
	if tr.Doc.ChildCount() == 0 {
		if tb := tr.Doc.Type().Schema().DefaultTextblock(); tb != nil {
			tr.Insert(0, tb.Create(nil, model.Fragment{}))
		}
	}
	if sel := SelectionAtStart(tr.Doc); !sel.Eq(tr.Selection()) {
		tr.SetSelection(sel)
	}
}

func (s *AllSelection) ReplaceWith(tr *Transaction, node *model.Node) {
	ReplaceRangesWith(s, tr, node)
}

func (s *AllSelection) JSON() SelectionJSON { return SelectionJSON{Type: "all"} }

func (s *AllSelection) Bookmark() SelectionBookmark { return AllBookmark{} }

// AllBookmark is the bookmark of an AllSelection.
type AllBookmark struct{}

func (AllBookmark) Map(*transform.Mapping) SelectionBookmark { return AllBookmark{} }
func (AllBookmark) Resolve(doc *model.Node) Selection        { return NewAllSelection(doc) }
