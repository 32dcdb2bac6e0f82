package tables

import (
	"testing"

	"github.com/iw2rmb/tessera/state"
)

func TestHandleKeyDown_ArrowLeavesCell(t *testing.T) {
	d := grid3()
	v := newTestView(newState(d, state.CreateTextSelection(d, 5, 5)))
	if !HandleKeyDown(v, "ArrowRight") {
		t.Fatalf("expected ArrowRight at the end of a cell to be handled")
	}
	if got, want := v.state.Selection().Head(), 9; got != want {
		t.Fatalf("head=%d, want %d", got, want)
	}

	v = newTestView(newState(d, state.CreateTextSelection(d, 4, 4)))
	if !HandleKeyDown(v, "ArrowDown") {
		t.Fatalf("expected ArrowDown to be handled")
	}
	if got, want := v.state.Selection().Head(), 21; got != want {
		t.Fatalf("head=%d, want %d", got, want)
	}
}

func TestHandleKeyDown_InsideTextblock(t *testing.T) {
	d := grid3()
	v := newTestView(newState(d, state.CreateTextSelection(d, 5, 5)))
	v.endOfBlock = false
	if HandleKeyDown(v, "ArrowRight") {
		t.Fatalf("expected the host to move the cursor inside the textblock")
	}
	if HandleKeyDown(v, "Tab") {
		t.Fatalf("expected unbound keys to be ignored")
	}
}

func TestHandleKeyDown_ShiftArrowMakesCellSelection(t *testing.T) {
	d := grid3()
	v := newTestView(newState(d, state.CreateTextSelection(d, 5, 5)))
	if !HandleKeyDown(v, "Shift-ArrowRight") {
		t.Fatalf("expected Shift-ArrowRight to be handled")
	}
	sel, ok := v.state.Selection().(*CellSelection)
	if !ok || sel.AnchorCell().Pos() != 2 || sel.HeadCell().Pos() != 7 {
		t.Fatalf("selection=%v, want cells 2..7", v.state.Selection())
	}
	if !HandleKeyDown(v, "Shift-ArrowDown") {
		t.Fatalf("expected Shift-ArrowDown to extend the selection")
	}
	sel = v.state.Selection().(*CellSelection)
	if sel.AnchorCell().Pos() != 2 || sel.HeadCell().Pos() != 24 {
		t.Fatalf("selection=(%d,%d), want (2,24)", sel.AnchorCell().Pos(), sel.HeadCell().Pos())
	}
}

func TestHandleKeyDown_ArrowCollapsesCellSelection(t *testing.T) {
	d := grid3()
	v := newTestView(newState(d, CreateCellSelection(d, 2, 24)))
	if !HandleKeyDown(v, "ArrowLeft") {
		t.Fatalf("expected ArrowLeft to collapse the cell selection")
	}
	if _, ok := v.state.Selection().(*state.TextSelection); !ok {
		t.Fatalf("selection=%T, want *state.TextSelection", v.state.Selection())
	}
	if got, want := v.state.Selection().Head(), 22; got != want {
		t.Fatalf("head=%d, want %d", got, want)
	}
}

func TestHandleKeyDown_DeleteClearsCells(t *testing.T) {
	d := grid3()
	v := newTestView(newState(d, CreateCellSelection(d, 2, 7)))
	if !HandleKeyDown(v, "Backspace") {
		t.Fatalf("expected Backspace to clear the cells")
	}
	if got, want := describe(firstTable(v.state.Doc())), "_,_,c / d,e,f / g,h,i"; got != want {
		t.Fatalf("table=%q, want %q", got, want)
	}
	v = newTestView(newState(d, cursor(d, 2)))
	if HandleKeyDown(v, "Delete") {
		t.Fatalf("expected Delete at a cursor to be left to the host")
	}
}

func TestHandleTripleClick(t *testing.T) {
	d := grid3()
	v := newTestView(newState(d, cursor(d, 2)))
	if !HandleTripleClick(v, 26) {
		t.Fatalf("expected a triple click in a cell to be handled")
	}
	sel, ok := v.state.Selection().(*CellSelection)
	if !ok || sel.AnchorCell().Pos() != 24 || sel.HeadCell().Pos() != 24 {
		t.Fatalf("selection=%v, want cell 24", v.state.Selection())
	}
	plain := doc(p("x"))
	if HandleTripleClick(newTestView(newState(plain, nil)), 1) {
		t.Fatalf("expected a triple click outside tables to be ignored")
	}
}

// dragView maps (0,0) into cell a and (5,1) into cell e of grid3.
func dragView(s *state.EditorState) *testView {
	v := newTestView(s)
	v.coords[[2]int{0, 0}] = 4
	v.coords[[2]int{5, 1}] = 26
	return v
}

func TestMouseDrag_FormsCellSelection(t *testing.T) {
	d := grid3()
	v := dragView(newState(d, cursor(d, 2), TableEditing(Options{})))

	if HandleMouseDown(v, MouseEvent{X: 0, Y: 0}) {
		t.Fatalf("expected a plain press to be left to the host")
	}
	if got := DragStateOf(v.state); got.Phase != DragPending || got.Start != 2 {
		t.Fatalf("drag=%+v, want pending at 2", got)
	}
	if HandleMouseMove(v, MouseEvent{X: 0, Y: 0}) {
		t.Fatalf("expected moves inside the start cell to be left to the host")
	}
	if !HandleMouseMove(v, MouseEvent{X: 5, Y: 1}) {
		t.Fatalf("expected leaving the start cell to start a cell drag")
	}
	sel, ok := v.state.Selection().(*CellSelection)
	if !ok || sel.AnchorCell().Pos() != 2 || sel.HeadCell().Pos() != 24 {
		t.Fatalf("selection=%v, want cells 2..24", v.state.Selection())
	}
	if got := DragStateOf(v.state); got.Phase != DragSelecting || got.Anchor != 2 {
		t.Fatalf("drag=%+v, want selecting from 2", got)
	}
	if !HandleMouseMove(v, MouseEvent{X: 0, Y: 0}) {
		t.Fatalf("expected moves during a cell drag to be consumed")
	}
	if got := v.state.Selection().(*CellSelection).HeadCell().Pos(); got != 2 {
		t.Fatalf("head=%d, want 2", got)
	}

	HandleMouseUp(v)
	if got := DragStateOf(v.state).Phase; got != DragIdle {
		t.Fatalf("phase=%v, want idle", got)
	}
	if HandleMouseMove(v, MouseEvent{X: 5, Y: 1}) {
		t.Fatalf("expected moves after release to be ignored")
	}
}

func TestMouseDown_ShiftExtends(t *testing.T) {
	d := grid3()
	v := dragView(newState(d, cursor(d, 2), TableEditing(Options{})))
	if !HandleMouseDown(v, MouseEvent{X: 5, Y: 1, Shift: true}) {
		t.Fatalf("expected shift-press in another cell to be consumed")
	}
	sel, ok := v.state.Selection().(*CellSelection)
	if !ok || sel.AnchorCell().Pos() != 2 || sel.HeadCell().Pos() != 24 {
		t.Fatalf("selection=%v, want cells 2..24", v.state.Selection())
	}
	if HandleMouseDown(v, MouseEvent{X: 0, Y: 0, Ctrl: true}) {
		t.Fatalf("expected ctrl-press to be ignored")
	}
}

func TestDragState_MapsThroughEdits(t *testing.T) {
	d := doc(p("x"), table(row(c("a"), c("b"))))
	v := newTestView(newState(d, cursor(d, 5), TableEditing(Options{})))
	v.coords[[2]int{0, 0}] = 7
	HandleMouseDown(v, MouseEvent{X: 0, Y: 0})
	if got := DragStateOf(v.state).Start; got != 5 {
		t.Fatalf("start=%d, want 5", got)
	}
	tr := v.state.Tr()
	tr.Insert(0, p("y"))
	v.Dispatch(tr)
	if got := DragStateOf(v.state).Start; got != 8 {
		t.Fatalf("start=%d, want 8", got)
	}
	tr = v.state.Tr()
	tr.Delete(3, v.state.Doc().Content().Size())
	v.Dispatch(tr)
	if got := DragStateOf(v.state); got.Phase != DragIdle {
		t.Fatalf("drag=%+v, want idle after its cell was deleted", got)
	}
}
