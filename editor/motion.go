package editor

import (
	"github.com/iw2rmb/tessera/internal/grapheme"
	"github.com/iw2rmb/tessera/model"
	"github.com/iw2rmb/tessera/state"
)

// setSelection dispatches sel when it differs from the current selection.
func (m *Model) setSelection(sel state.Selection) {
	if sel == nil || sel.Eq(m.state.Selection()) {
		return
	}
	m.Dispatch(m.state.Tr().SetSelection(sel))
}

// selectionAt returns the selection for a click at pos: a cursor inside a
// textblock, or the leaf node after pos.
func selectionAt(doc *model.Node, pos int) state.Selection {
	rp := doc.Resolve(pos)
	if rp.Parent().InlineContent() {
		return state.NewTextSelection(rp, rp)
	}
	if after := rp.NodeAfter(); after != nil && after.IsLeaf() {
		return state.CreateNodeSelection(doc, pos)
	}
	return state.SelectionNear(rp, 1)
}

func textSelectionBetween(doc *model.Node, anchor, head int) state.Selection {
	return state.TextSelectionBetween(doc.Resolve(anchor), doc.Resolve(head), 0)
}

// extendTo moves the head of the selection to pos, keeping the anchor.
func (m *Model) extendTo(pos int) {
	m.setSelection(textSelectionBetween(m.state.Doc(), m.state.Selection().Anchor(), pos))
}

// clusterStep returns the position one grapheme away from head inside its
// textblock, or false at the textblock edge.
func clusterStep(head *model.ResolvedPos, dir int) (int, bool) {
	parent := head.Parent()
	if !parent.InlineContent() {
		return 0, false
	}
	offset, start := head.ParentOffset(), head.Start(head.Depth())
	prev, at := -1, 0
	for _, c := range grapheme.Clusters(parent.TextContent()) {
		if at < offset {
			prev = at
		}
		at += c.Runes
		if dir > 0 && at > offset {
			return start + at, true
		}
	}
	if dir < 0 && prev >= 0 {
		return start + prev, true
	}
	return 0, false
}

// moveHorizontal is the caret movement used when the table handlers pass
// on an arrow key.
func (m *Model) moveHorizontal(dir int, extend bool) {
	sel := m.state.Selection()
	doc := m.state.Doc()
	if !sel.Empty() && !extend {
		pos := sel.From()
		if dir > 0 {
			pos = sel.To()
		}
		m.setSelection(state.SelectionNear(doc.Resolve(pos), dir))
		return
	}
	head := sel.ResolvedHead()
	if pos, ok := clusterStep(head, dir); ok {
		if extend {
			m.extendTo(pos)
		} else {
			m.setSelection(state.CreateTextSelection(doc, pos, pos))
		}
		return
	}
	var from *model.ResolvedPos
	switch {
	case head.Parent().InlineContent() && dir > 0:
		from = doc.Resolve(head.After(head.Depth()))
	case head.Parent().InlineContent():
		from = doc.Resolve(head.Before(head.Depth()))
	case dir > 0 && sel.To() < doc.Content().Size():
		from = doc.Resolve(sel.To())
	default:
		from = doc.Resolve(sel.From())
	}
	next := state.FindSelectionFrom(from, dir, extend)
	if next == nil {
		return
	}
	if extend {
		m.extendTo(next.Head())
		return
	}
	m.setSelection(next)
}

// moveVertical moves the caret to the line above or below, keeping its
// column.
func (m *Model) moveVertical(dir int, extend bool) {
	sel := m.state.Selection()
	x, row, ok := m.docToScreen(sel.Head())
	if !ok {
		if row, ok = m.lineOf(sel.From()); !ok {
			return
		}
		x = 0
	}
	m.moveToLine(row+dir, x, extend)
}

func (m *Model) moveToLine(row, x int, extend bool) {
	pos, ok := m.posAtLine(row, x)
	if !ok {
		return
	}
	if extend {
		m.extendTo(pos)
		return
	}
	m.setSelection(selectionAt(m.state.Doc(), pos))
}

// moveWord moves the caret to the next word boundary inside its
// textblock.
func (m *Model) moveWord(dir int) {
	sel, ok := m.state.Selection().(*state.TextSelection)
	if !ok {
		return
	}
	head := sel.ResolvedHead()
	parent := head.Parent()
	if !parent.InlineContent() {
		return
	}
	clusters := grapheme.Clusters(parent.TextContent())
	offsets := make([]int, len(clusters)+1)
	for i, c := range clusters {
		offsets[i+1] = offsets[i] + c.Runes
	}
	i := 0
	for i < len(clusters) && offsets[i] < head.ParentOffset() {
		i++
	}
	isWord := func(c grapheme.Cluster) bool { return !grapheme.IsSpace(c.Text) && !grapheme.IsPunct(c.Text) }
	if dir > 0 {
		for i < len(clusters) && !isWord(clusters[i]) {
			i++
		}
		for i < len(clusters) && isWord(clusters[i]) {
			i++
		}
	} else {
		for i > 0 && !isWord(clusters[i-1]) {
			i--
		}
		for i > 0 && isWord(clusters[i-1]) {
			i--
		}
	}
	pos := head.Start(head.Depth()) + offsets[i]
	m.setSelection(state.CreateTextSelection(m.state.Doc(), pos, pos))
}

// moveToBlockEdge moves the caret to the start or end of its textblock.
func (m *Model) moveToBlockEdge(dir int) {
	head := m.state.Selection().ResolvedHead()
	if !head.Parent().InlineContent() {
		return
	}
	pos := head.Start(head.Depth())
	if dir > 0 {
		pos = head.End(head.Depth())
	}
	m.setSelection(state.CreateTextSelection(m.state.Doc(), pos, pos))
}
