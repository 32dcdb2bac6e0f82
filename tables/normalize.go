package tables

import (
	"github.com/iw2rmb/tessera/model"
	"github.com/iw2rmb/tessera/state"
)

// NormalizeSelection turns node selections of table parts into cell
// selections and repairs text selections that straddle cell boundaries. It
// works on tr when given, else on s, and returns the transaction carrying
// the new selection, or tr unchanged (possibly nil) when nothing was done.
func NormalizeSelection(s *state.EditorState, tr *state.Transaction, allowTableNodeSelection bool) *state.Transaction {
	sel, doc := s.Selection(), s.Doc()
	if tr != nil {
		sel, doc = tr.Selection(), tr.Doc
	}
	var normalized state.Selection
	switch v := sel.(type) {
	case *state.NodeSelection:
		switch role := v.Node().Role(); {
		case role.IsCell():
			normalized = CreateCellSelection(doc, v.From(), v.From())
		case role == model.RoleRow:
			cell := doc.Resolve(v.From() + 1)
			normalized = RowSelection(cell, cell)
		case role == model.RoleTable && !allowTableNodeSelection:
			m := TableMapFor(v.Node())
			if len(m.Map) == 0 {
				break
			}
			start := v.From() + 1
			normalized = CreateCellSelection(doc, start+m.Map[0], start+m.Map[len(m.Map)-1])
		}
	case *state.TextSelection:
		if isCellBoundarySelection(v) {
			normalized = state.CreateTextSelection(doc, v.From(), v.From())
		} else if isTextSelectionAcrossCells(v) {
			from := v.ResolvedFrom()
			normalized = state.CreateTextSelection(doc, from.Start(from.Depth()), from.End(from.Depth()))
		}
	}
	if normalized == nil {
		return tr
	}
	if tr == nil {
		tr = s.Tr()
	}
	tr.SetSelection(normalized)
	return tr
}

// isCellBoundarySelection reports a short text selection whose ends sit
// between the closing and opening tokens of two cells.
func isCellBoundarySelection(sel state.Selection) bool {
	from, to := sel.ResolvedFrom(), sel.ResolvedTo()
	if from.Pos() == to.Pos() || from.Pos() < to.Pos()-6 {
		return false
	}
	afterFrom, beforeTo := from.Pos(), to.Pos()
	depth := from.Depth()
	for ; depth >= 0; depth, afterFrom = depth-1, afterFrom+1 {
		if from.After(depth+1) < from.End(depth) {
			break
		}
	}
	for d := to.Depth(); d >= 0; d, beforeTo = d-1, beforeTo-1 {
		if to.Before(d+1) > to.Start(d) {
			break
		}
	}
	if depth < 0 {
		return false
	}
	role := from.Node(depth).Role()
	return afterFrom == beforeTo && (role == model.RoleRow || role == model.RoleTable)
}

// isTextSelectionAcrossCells reports a text selection that starts in one
// cell and ends at the very start of a textblock in another.
func isTextSelectionAcrossCells(sel state.Selection) bool {
	from, to := sel.ResolvedFrom(), sel.ResolvedTo()
	return CellWrapping(from) != CellWrapping(to) && to.ParentOffset() == 0
}
