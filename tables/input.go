package tables

import (
	"github.com/iw2rmb/tessera/model"
	"github.com/iw2rmb/tessera/state"
)

type keyHandler func(v View) bool

var keyHandlers = map[string]keyHandler{
	"ArrowLeft":        arrow(Horizontal, -1),
	"ArrowRight":       arrow(Horizontal, 1),
	"ArrowUp":          arrow(Vertical, -1),
	"ArrowDown":        arrow(Vertical, 1),
	"Shift-ArrowLeft":  shiftArrow(Horizontal, -1),
	"Shift-ArrowRight": shiftArrow(Horizontal, 1),
	"Shift-ArrowUp":    shiftArrow(Vertical, -1),
	"Shift-ArrowDown":  shiftArrow(Vertical, 1),
	"Backspace":        deleteKey,
	"Mod-Backspace":    deleteKey,
	"Delete":           deleteKey,
	"Mod-Delete":       deleteKey,
}

func deleteKey(v View) bool {
	return DeleteCellSelection(v.State(), v.Dispatch)
}

// HandleKeyDown runs the table behavior bound to key, one of the arrow
// keys with an optional "Shift-" prefix, or Backspace/Delete with an
// optional "Mod-" prefix. It reports whether the key was handled.
func HandleKeyDown(v View, key string) bool {
	h, ok := keyHandlers[key]
	if !ok {
		return false
	}
	return h(v)
}

func maybeSetSelection(v View, sel state.Selection) bool {
	s := v.State()
	if sel.Eq(s.Selection()) {
		return false
	}
	v.Dispatch(s.Tr().SetSelection(sel))
	return true
}

func arrow(axis Axis, dir int) keyHandler {
	return func(v View) bool {
		s := v.State()
		sel := s.Selection()
		if cs, ok := sel.(*CellSelection); ok {
			return maybeSetSelection(v, state.SelectionNear(cs.headCell, dir))
		}
		if axis != Horizontal && !sel.Empty() {
			return false
		}
		end, ok := atEndOfCell(v, axis, dir)
		if !ok {
			return false
		}
		if axis == Horizontal {
			return maybeSetSelection(v, state.SelectionNear(s.Doc().Resolve(sel.Head()+dir), dir))
		}
		cell := s.Doc().Resolve(end)
		var next state.Selection
		switch neighbour := NextCellPos(cell, axis, dir); {
		case neighbour != nil:
			next = state.SelectionNear(neighbour, 1)
		case dir < 0:
			next = state.SelectionNear(s.Doc().Resolve(cell.Before(-1)), -1)
		default:
			next = state.SelectionNear(s.Doc().Resolve(cell.After(-1)), 1)
		}
		return maybeSetSelection(v, next)
	}
}

func shiftArrow(axis Axis, dir int) keyHandler {
	return func(v View) bool {
		s := v.State()
		cs, ok := s.Selection().(*CellSelection)
		if !ok {
			end, ok := atEndOfCell(v, axis, dir)
			if !ok {
				return false
			}
			cs = NewCellSelection(s.Doc().Resolve(end), nil)
		}
		head := NextCellPos(cs.headCell, axis, dir)
		if head == nil {
			return false
		}
		return maybeSetSelection(v, NewCellSelection(cs.anchorCell, head))
	}
}

// atEndOfCell returns the position of the cell whose edge the cursor sits
// at in direction dir, when the view confirms the cursor cannot move
// further inside the textblock.
func atEndOfCell(v View, axis Axis, dir int) (int, bool) {
	sel, ok := v.State().Selection().(*state.TextSelection)
	if !ok {
		return 0, false
	}
	head := sel.ResolvedHead()
	for d := head.Depth() - 1; d >= 0; d-- {
		parent := head.Node(d)
		index, edge := head.IndexAfter(d), parent.ChildCount()
		if dir < 0 {
			index, edge = head.Index(d), 0
		}
		if index != edge {
			return 0, false
		}
		if parent.Role().IsCell() {
			var dirName string
			switch {
			case axis == Vertical && dir > 0:
				dirName = "down"
			case axis == Vertical:
				dirName = "up"
			case dir > 0:
				dirName = "right"
			default:
				dirName = "left"
			}
			if !v.EndOfTextblock(dirName) {
				return 0, false
			}
			return head.Before(d), true
		}
	}
	return 0, false
}

// HandleTripleClick selects the cell around pos as a cell selection.
func HandleTripleClick(v View, pos int) bool {
	cell := CellAround(v.State().Doc().Resolve(pos))
	if cell == nil {
		return false
	}
	v.Dispatch(v.State().Tr().SetSelection(NewCellSelection(cell, nil)))
	return true
}

// HandlePaste pastes slice into a table. Cell-shaped content is inserted
// as a block of cells at the selected cell; other content pasted over a
// cell selection fills every selected cell. It reports whether the paste
// was handled; otherwise the host should paste normally.
func HandlePaste(v View, slice model.Slice) bool {
	s := v.State()
	if !IsInTable(s) {
		return false
	}
	cells, ok := PastedCells(slice)
	if sel, isCells := s.Selection().(*CellSelection); isCells {
		if !ok {
			cell := FitSlice(tableTypes(s.Schema()).Cell, slice)
			cells = PastedCellGrid{Width: 1, Height: 1, Rows: []model.Fragment{model.FragmentFrom(cell)}}
		}
		rect := sel.TableRect()
		cells = ClipCells(cells, rect.Width(), rect.Height())
		InsertCells(s, v.Dispatch, rect.TableStart, rect.Rect, cells)
		return true
	}
	if !ok {
		return false
	}
	cell := SelectionCell(s)
	start := cell.Start(-1)
	InsertCells(s, v.Dispatch, start, TableMapFor(cell.Node(-1)).FindCell(cell.Pos()-start), cells)
	return true
}

func cellUnderMouse(v View, ev MouseEvent) *model.ResolvedPos {
	pos, ok := v.PosAtCoords(ev.X, ev.Y)
	if !ok {
		return nil
	}
	return CellAround(v.State().Doc().Resolve(pos))
}

// setCellSelection selects from anchor to the cell under the pointer. The
// first call of a drag records the anchor in the drag state.
func setCellSelection(v View, anchor *model.ResolvedPos, ev MouseEvent) {
	s := v.State()
	starting := DragStateOf(s).Phase != DragSelecting
	head := cellUnderMouse(v, ev)
	if head == nil || !InSameTable(anchor, head) {
		if !starting {
			return
		}
		head = anchor
	}
	sel := NewCellSelection(anchor, head)
	if !starting && s.Selection().Eq(sel) {
		return
	}
	tr := s.Tr().SetSelection(sel)
	if starting {
		tr.SetMeta(EditingKey, DragMeta{Phase: DragSelecting, Start: -1, Anchor: anchor.Pos()})
	}
	v.Dispatch(tr)
}

// HandleMouseDown starts tracking a press. Shift-press extends the current
// selection into a cell selection. It reports whether the press was
// consumed; an unconsumed press in a cell is still tracked so that a
// following drag can form a cell selection.
func HandleMouseDown(v View, ev MouseEvent) bool {
	if ev.Ctrl {
		return false
	}
	s := v.State()
	start := cellUnderMouse(v, ev)
	if ev.Shift {
		if cs, ok := s.Selection().(*CellSelection); ok {
			setCellSelection(v, cs.anchorCell, ev)
			return true
		}
		if start != nil {
			if anchor := CellAround(s.Selection().ResolvedAnchor()); anchor != nil && anchor.Pos() != start.Pos() {
				setCellSelection(v, anchor, ev)
				return true
			}
		}
	}
	if start == nil {
		return false
	}
	tr := s.Tr()
	tr.SetMeta(EditingKey, DragMeta{Phase: DragPending, Start: start.Pos(), Anchor: -1})
	tr.SetMeta(state.MetaAddToHistory, false)
	v.Dispatch(tr)
	return false
}

// HandleMouseMove extends a drag. Once the pointer leaves the cell the
// press started in, the selection becomes a cell selection. It reports
// whether the move belongs to a cell drag, in which case the host must not
// extend a text selection itself.
func HandleMouseMove(v View, ev MouseEvent) bool {
	s := v.State()
	d := DragStateOf(s)
	switch d.Phase {
	case DragSelecting:
		setCellSelection(v, s.Doc().Resolve(d.Anchor), ev)
		return true
	case DragPending:
		under := cellUnderMouse(v, ev)
		if under != nil && under.Pos() == d.Start {
			return false
		}
		start := s.Doc().Resolve(d.Start)
		if !PointsAtCell(start) {
			HandleMouseUp(v)
			return false
		}
		setCellSelection(v, start, ev)
		return true
	}
	return false
}

// HandleMouseUp ends any drag.
func HandleMouseUp(v View) {
	s := v.State()
	if DragStateOf(s).Phase == DragIdle {
		return
	}
	tr := s.Tr()
	tr.SetMeta(EditingKey, DragMeta(idleDrag))
	tr.SetMeta(state.MetaAddToHistory, false)
	v.Dispatch(tr)
}
