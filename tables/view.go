package tables

import "github.com/iw2rmb/tessera/state"

// View is what the table handlers need from the host that renders the
// document. Coordinates are terminal cells; widths are measured in the
// same unit as stored column widths.
type View interface {
	State() *state.EditorState
	Dispatch(tr *state.Transaction)
	Editable() bool

	// PosAtCoords returns the document position under (x, y).
	PosAtCoords(x, y int) (int, bool)
	// CellBoxAt returns the rendered extent of the table cell under
	// (x, y).
	CellBoxAt(x, y int) (CellBox, bool)
	// CellWidth returns the rendered width of the cell at pos.
	CellWidth(pos int) int
	// EndOfTextblock reports whether the cursor is at the edge of its
	// textblock in direction dir ("left", "right", "up" or "down").
	EndOfTextblock(dir string) bool
}

// CellBox is the horizontal extent of a rendered cell. Pos points before
// the cell. Right is exclusive.
type CellBox struct {
	Pos         int
	Left, Right int
}

// MouseEvent is a pointer event in terminal coordinates.
type MouseEvent struct {
	X, Y  int
	Shift bool
	Ctrl  bool
}
