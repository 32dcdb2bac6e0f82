package editor

import (
	"strings"

	"go.uber.org/zap"

	"github.com/iw2rmb/tessera/model"
	"github.com/iw2rmb/tessera/state"
	"github.com/iw2rmb/tessera/tables"
)

func (m *Model) deleteSelection() {
	if m.run(tables.DeleteCellSelection) || m.state.Selection().Empty() {
		return
	}
	tr := m.state.Tr()
	tr.DeleteSelection()
	m.Dispatch(tr)
}

// deleteBackward deletes the grapheme before the cursor. At the start of a
// textblock it joins it with a preceding textblock, or deletes a preceding
// leaf.
func (m *Model) deleteBackward() {
	sel := m.state.Selection()
	if !sel.Empty() {
		m.deleteSelection()
		return
	}
	head := sel.ResolvedHead()
	tr := m.state.Tr()
	if pos, ok := clusterStep(head, -1); ok {
		tr.Delete(pos, head.Pos())
		m.Dispatch(tr)
		return
	}
	d := head.Depth()
	if d == 0 || !head.Parent().InlineContent() {
		return
	}
	index := head.Index(d - 1)
	if index == 0 {
		return
	}
	before := head.Node(d - 1).Child(index - 1)
	start := head.Before(d)
	switch {
	case before.IsTextblock():
		tr.Delete(start-1, start+1)
	case before.IsLeaf():
		tr.Delete(start-before.NodeSize(), start)
	default:
		return
	}
	m.Dispatch(tr)
}

// deleteForward mirrors deleteBackward after the cursor.
func (m *Model) deleteForward() {
	sel := m.state.Selection()
	if !sel.Empty() {
		m.deleteSelection()
		return
	}
	head := sel.ResolvedHead()
	tr := m.state.Tr()
	if pos, ok := clusterStep(head, 1); ok {
		tr.Delete(head.Pos(), pos)
		m.Dispatch(tr)
		return
	}
	d := head.Depth()
	if d == 0 || !head.Parent().InlineContent() {
		return
	}
	parent := head.Node(d - 1)
	index := head.Index(d-1) + 1
	if index >= parent.ChildCount() {
		return
	}
	after := parent.Child(index)
	end := head.After(d)
	switch {
	case after.IsTextblock():
		tr.Delete(end-1, end+1)
	case after.IsLeaf():
		tr.Delete(end, end+after.NodeSize())
	default:
		return
	}
	m.Dispatch(tr)
}

// splitText splits the textblock at the selection into two. It reports
// false when the selection is not in a textblock.
func splitText(tr *state.Transaction) bool {
	if !tr.Selection().Empty() {
		tr.DeleteSelection()
	}
	head := tr.Selection().ResolvedHead()
	if !head.Parent().InlineContent() {
		return false
	}
	typ := head.Parent().Type()
	pos := head.Pos()
	halves := model.FragmentFrom(typ.Create(nil, model.Fragment{}), typ.Create(nil, model.Fragment{}))
	tr.Replace(pos, pos, model.NewSlice(halves, 1, 1))
	tr.SetSelection(state.CreateTextSelection(tr.Doc, pos+2, pos+2))
	return true
}

func (m *Model) splitBlock() {
	if _, ok := m.state.Selection().(*tables.CellSelection); ok {
		return
	}
	tr := m.state.Tr()
	if splitText(tr) || tr.DocChanged() {
		m.Dispatch(tr)
	}
}

// textCursor makes the selection of tr a cursor in a textblock, clearing
// whatever the selection covered.
func textCursor(s *state.EditorState, tr *state.Transaction) *state.Transaction {
	switch sel := s.Selection().(type) {
	case *state.TextSelection:
		return tr
	case *tables.CellSelection:
		tables.DeleteCellSelection(s, func(t *state.Transaction) { tr = t })
		anchor := tr.Mapping.Map(sel.Anchor(), 1)
		tr.SetSelection(state.SelectionNear(tr.Doc.Resolve(anchor+1), 1))
		return tr
	}
	from := s.Selection().From()
	tr.DeleteSelection()
	if _, ok := tr.Selection().(*state.TextSelection); ok {
		return tr
	}
	from = min(tr.Mapping.Map(from, -1), tr.Doc.Content().Size())
	if found := state.FindSelectionFrom(tr.Doc.Resolve(from), 1, true); found != nil {
		return tr.SetSelection(found)
	}
	tb := s.Schema().DefaultTextblock()
	tr.Insert(from, tb.Create(nil, model.Fragment{}))
	return tr.SetSelection(state.CreateTextSelection(tr.Doc, from+1, from+1))
}

func (m *Model) insertText(text string) {
	tr := textCursor(m.state, m.state.Tr())
	tr.InsertText(text)
	m.Dispatch(tr)
}

// paste inserts clipboard text. Tab-separated text and any text pasted
// over a cell selection go through the table handlers; other text is
// inserted line by line, each line after the first in a new textblock.
func (m *Model) paste(text string) {
	text = normalizeNewlines(text)
	schema := m.state.Schema()
	if slice, ok := tsvSlice(schema, text); ok && tables.HandlePaste(m, slice) {
		return
	}
	if _, ok := m.state.Selection().(*tables.CellSelection); ok {
		block := schema.DefaultTextblock()
		var content []*model.Node
		if line := strings.ReplaceAll(text, "\n", " "); line != "" {
			content = append(content, schema.Text(line))
		}
		slice := model.NewSlice(model.FragmentFrom(block.Create(nil, model.FragmentFrom(content...))), 0, 0)
		if tables.HandlePaste(m, slice) {
			return
		}
	}
	tr := textCursor(m.state, m.state.Tr())
	for i, line := range strings.Split(text, "\n") {
		if i > 0 && !splitText(tr) {
			m.cfg.Logger.Debug("paste stopped at a non-text position", zap.Int("line", i))
			break
		}
		if line != "" {
			tr.InsertText(line)
		}
	}
	if tr.DocChanged() {
		m.Dispatch(tr)
	}
}

// insertTable inserts an empty table with a header row after the block
// holding the cursor.
func (m *Model) insertTable(rows, cols int) {
	s := m.state
	if tables.IsInTable(s) {
		return
	}
	head := s.Selection().ResolvedHead()
	pos := s.Doc().Content().Size()
	if head.Depth() > 0 {
		pos = head.After(1)
	}
	tr := s.Tr()
	tr.Insert(pos, tables.CreateTable(s.Schema(), rows, cols, true))
	tr.SetSelection(state.SelectionNear(tr.Doc.Resolve(pos+4), 1))
	m.Dispatch(tr)
}
