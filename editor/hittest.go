package editor

import (
	"github.com/iw2rmb/tessera/state"
	"github.com/iw2rmb/tessera/tables"
)

// PosAtCoords maps viewport coordinates to a document position.
func (m *Model) PosAtCoords(x, y int) (int, bool) {
	return m.posAtLine(y+m.viewport.YOffset, x)
}

func (m *Model) posAtLine(row, x int) (int, bool) {
	lines := m.ensureLayout()
	if row < 0 || row >= len(lines) {
		return 0, false
	}
	l := lines[row]
	if l.kind == lineRule {
		return l.pos, true
	}
	runs, offset, ok := l.runsAt(x)
	if !ok {
		return 0, false
	}
	if pos, ok := posAtColumn(runs, x-offset); ok {
		return pos, true
	}
	if slot, ok := l.slotAt(x); ok {
		return slot.pos + 1, true
	}
	return 0, false
}

// CellBoxAt returns the extent of the table cell under (x, y), borders
// included.
func (m *Model) CellBoxAt(x, y int) (tables.CellBox, bool) {
	lines := m.ensureLayout()
	row := y + m.viewport.YOffset
	if row < 0 || row >= len(lines) {
		return tables.CellBox{}, false
	}
	slot, ok := lines[row].slotAt(x)
	if !ok {
		return tables.CellBox{}, false
	}
	return tables.CellBox{Pos: slot.pos, Left: slot.left, Right: slot.right + 1}, true
}

// CellWidth returns the summed width of the columns the cell at pos spans.
func (m *Model) CellWidth(pos int) int {
	for _, l := range m.ensureLayout() {
		for _, slot := range l.cells {
			if slot.pos != pos {
				continue
			}
			span := 1
			if cell := m.state.Doc().NodeAt(pos); cell != nil {
				span = tables.CellAttrsOf(cell).Colspan
			}
			return slot.contentWidth() - (span - 1)
		}
	}
	return 0
}

// EndOfTextblock reports whether the cursor is at the edge of its
// textblock. Every textblock renders on a single line, so vertical motion
// always leaves it.
func (m *Model) EndOfTextblock(dir string) bool {
	sel, ok := m.state.Selection().(*state.TextSelection)
	if !ok {
		return true
	}
	head := sel.ResolvedHead()
	parent := head.Parent()
	if !parent.IsTextblock() {
		return true
	}
	switch dir {
	case "left":
		return head.ParentOffset() == 0
	case "right":
		return head.ParentOffset() == parent.Content().Size()
	}
	return true
}

// lineOf returns the layout line showing pos.
func (m *Model) lineOf(pos int) (int, bool) {
	for i, l := range m.ensureLayout() {
		switch l.kind {
		case lineText:
			if pos >= l.run.start-1 && pos <= l.run.end() {
				return i, true
			}
		case lineRule:
			if pos == l.pos {
				return i, true
			}
		case lineTableRow:
			for _, slot := range l.cells {
				if !slot.cont && pos >= slot.pos && pos < slot.end {
					return i, true
				}
			}
		}
	}
	return 0, false
}

// docToScreen returns the layout line and column of a text position.
func (m *Model) docToScreen(pos int) (x, row int, ok bool) {
	for i, l := range m.ensureLayout() {
		switch l.kind {
		case lineText:
			if col, found := columnAtPos([]textRun{l.run}, pos); found {
				return col, i, true
			}
		case lineTableRow:
			for _, slot := range l.cells {
				if slot.cont || pos <= slot.pos || pos >= slot.end {
					continue
				}
				if col, found := columnAtPos(slot.runs, pos); found {
					return slot.left + 1 + col, i, true
				}
			}
		}
	}
	return 0, 0, false
}
