package tables

import (
	"testing"

	"github.com/iw2rmb/tessera/model"
	"github.com/iw2rmb/tessera/state"
)

// resizeView lays out the first row of d as cells of ten columns each,
// starting at x=0 on line 0. cells holds the cell positions, texts a text
// position inside each.
func resizeView(d *model.Node, opts ResizeOptions, cells, texts []int) *testView {
	v := newTestView(newState(d, nil, ColumnResizing(opts)))
	for i, pos := range cells {
		box := CellBox{Pos: pos, Left: i * 10, Right: i*10 + 10}
		for x := box.Left; x < box.Right; x++ {
			v.coords[[2]int{x, 0}] = texts[i]
			v.boxes[[2]int{x, 0}] = box
		}
		v.widths[pos] = 10
	}
	return v
}

func gridResizeView(opts ResizeOptions) *testView {
	return resizeView(grid3(), opts, []int{2, 7, 12}, []int{4, 9, 14})
}

func smallHandles() ResizeOptions {
	return ResizeOptions{HandleWidth: 2, CellMinWidth: 3, DefaultCellMinWidth: 10, LastColumnResizable: true}
}

func activeHandle(t *testing.T, v *testView) int {
	t.Helper()
	rs, ok := ResizeStateOf(v.state)
	if !ok {
		t.Fatalf("column resizing plugin not installed")
	}
	return rs.ActiveHandle
}

func TestResizeMouseMove_FindsEdges(t *testing.T) {
	v := gridResizeView(smallHandles())
	cases := []struct {
		x    int
		want int
	}{
		{9, 2},   // right edge of a
		{10, 2},  // left edge of b belongs to a
		{15, -1}, // middle of b
		{0, -1},  // left edge of the table
		{19, 7},  // right edge of b
	}
	for _, tc := range cases {
		HandleResizeMouseMove(v, MouseEvent{X: tc.x, Y: 0})
		if got := activeHandle(t, v); got != tc.want {
			t.Fatalf("x=%d: handle=%d, want %d", tc.x, got, tc.want)
		}
	}
	HandleResizeMouseMove(v, MouseEvent{X: 9, Y: 0})
	HandleResizeMouseLeave(v)
	if got := activeHandle(t, v); got != -1 {
		t.Fatalf("handle=%d after leave, want -1", got)
	}
}

func TestResizeMouseMove_LastColumnLocked(t *testing.T) {
	opts := smallHandles()
	opts.LastColumnResizable = false
	v := gridResizeView(opts)
	HandleResizeMouseMove(v, MouseEvent{X: 29, Y: 0})
	if got := activeHandle(t, v); got != -1 {
		t.Fatalf("handle=%d, want the last column to be locked", got)
	}
	HandleResizeMouseMove(v, MouseEvent{X: 19, Y: 0})
	if got := activeHandle(t, v); got != 7 {
		t.Fatalf("handle=%d, want 7", got)
	}
}

func TestResizeMouseMove_ReadOnly(t *testing.T) {
	v := gridResizeView(smallHandles())
	v.readOnly = true
	HandleResizeMouseMove(v, MouseEvent{X: 9, Y: 0})
	if got := activeHandle(t, v); got != -1 {
		t.Fatalf("handle=%d, want no handle in a read-only view", got)
	}
	if HandleResizeMouseDown(v, MouseEvent{X: 9, Y: 0}) {
		t.Fatalf("expected no drag in a read-only view")
	}
}

func TestResizeDrag_StoresWidth(t *testing.T) {
	v := gridResizeView(smallHandles())
	HandleResizeMouseMove(v, MouseEvent{X: 9, Y: 0})
	if !HandleResizeMouseDown(v, MouseEvent{X: 9, Y: 0}) {
		t.Fatalf("expected a press on a handle to start a drag")
	}
	rs, _ := ResizeStateOf(v.state)
	if rs.Dragging == nil || rs.Dragging.StartWidth != 10 || rs.LiveWidth != 10 {
		t.Fatalf("state=%+v, want a drag from width 10", rs)
	}
	// hovering is frozen while dragging
	HandleResizeMouseMove(v, MouseEvent{X: 15, Y: 0})
	if got := activeHandle(t, v); got != 2 {
		t.Fatalf("handle=%d, want 2 during the drag", got)
	}

	if !HandleResizeDrag(v, MouseEvent{X: 49, Y: 0}) {
		t.Fatalf("expected the drag to be active")
	}
	rs, _ = ResizeStateOf(v.state)
	if got, want := rs.LiveWidth, 50; got != want {
		t.Fatalf("live width=%d, want %d", got, want)
	}
	if got := firstTable(v.state.Doc()).Child(0).Child(0).Attr("colwidth"); got != nil {
		t.Fatalf("colwidth=%v, want nothing stored before release", got)
	}

	if !HandleResizeMouseUp(v, MouseEvent{X: 49, Y: 0}) {
		t.Fatalf("expected the release to end the drag")
	}
	tbl := firstTable(v.state.Doc())
	for _, pos := range []int{1, 18, 35} {
		w := CellAttrsOf(tbl.NodeAt(pos)).Colwidth
		if len(w) != 1 || w[0] != 50 {
			t.Fatalf("cell %d colwidth=%v, want [50]", pos, w)
		}
	}
	rs, _ = ResizeStateOf(v.state)
	if rs.Dragging != nil {
		t.Fatalf("expected the drag to be over")
	}
	if HandleResizeDrag(v, MouseEvent{X: 60, Y: 0}) {
		t.Fatalf("expected no drag after release")
	}
}

func TestResizeDrag_SpanningCellTail(t *testing.T) {
	d := doc(table(
		row(cs(2, 1, "a"), c("b")),
		row(c("c"), c("d"), c("e")),
	))
	v := resizeView(d, smallHandles(), []int{2, 7}, []int{4, 9})
	for x := 0; x < 20; x++ {
		v.coords[[2]int{x, 0}] = 4
		v.boxes[[2]int{x, 0}] = CellBox{Pos: 2, Left: 0, Right: 20}
	}
	v.widths[2] = 20

	HandleResizeMouseMove(v, MouseEvent{X: 19, Y: 0})
	if got := activeHandle(t, v); got != 2 {
		t.Fatalf("handle=%d, want 2", got)
	}
	HandleResizeMouseDown(v, MouseEvent{X: 19, Y: 0})
	HandleResizeMouseUp(v, MouseEvent{X: 59, Y: 0})

	tbl := firstTable(v.state.Doc())
	if w := CellAttrsOf(tbl.NodeAt(1)).Colwidth; len(w) != 2 || w[0] != 0 || w[1] != 50 {
		t.Fatalf("spanning colwidth=%v, want [0 50]", w)
	}
	// d is the second cell of the second row
	dPos := tbl.Child(0).NodeSize() + 1 + tbl.Child(1).Child(0).NodeSize()
	if w := CellAttrsOf(tbl.NodeAt(dPos)).Colwidth; len(w) != 1 || w[0] != 50 {
		t.Fatalf("d colwidth=%v, want [50]", w)
	}
}

func TestResizeDrag_MinimumWidth(t *testing.T) {
	v := gridResizeView(smallHandles())
	HandleResizeMouseMove(v, MouseEvent{X: 9, Y: 0})
	HandleResizeMouseDown(v, MouseEvent{X: 9, Y: 0})
	HandleResizeMouseUp(v, MouseEvent{X: 0, Y: 0})
	w := CellAttrsOf(firstTable(v.state.Doc()).Child(0).Child(0)).Colwidth
	if len(w) != 1 || w[0] != 3 {
		t.Fatalf("colwidth=%v, want [3]", w)
	}
}

func TestResizeHandle_Decorations(t *testing.T) {
	v := gridResizeView(smallHandles())
	HandleResizeMouseMove(v, MouseEvent{X: 9, Y: 0})
	set := ResizeKey.Get(v.state).Props.Decorations(v.state)
	decos := set.All()
	if len(decos) != 3 {
		t.Fatalf("decorations=%d, want 3", len(decos))
	}
	for i, want := range []int{6, 23, 40} {
		if decos[i].From != want || decos[i].Class != "column-resize-handle" || decos[i].Kind != state.DecorationWidget {
			t.Fatalf("decoration %d=%+v, want a handle at %d", i, decos[i], want)
		}
	}
}

func TestResizeHandle_MapsThroughEdits(t *testing.T) {
	v := gridResizeView(smallHandles())
	HandleResizeMouseMove(v, MouseEvent{X: 9, Y: 0})
	tr := v.state.Tr()
	tr.Insert(0, p("x"))
	v.Dispatch(tr)
	if got := activeHandle(t, v); got != 5 {
		t.Fatalf("handle=%d, want 5", got)
	}
	tr = v.state.Tr()
	tr.Delete(3, v.state.Doc().Content().Size())
	v.Dispatch(tr)
	if got := activeHandle(t, v); got != -1 {
		t.Fatalf("handle=%d, want -1 once the table is gone", got)
	}
}

func TestCurrentColWidth(t *testing.T) {
	v := gridResizeView(smallHandles())
	v.widths[2] = 30
	cases := []struct {
		attrs CellAttrs
		want  int
	}{
		{CellAttrs{Colspan: 1, Rowspan: 1}, 30},
		{CellAttrs{Colspan: 1, Rowspan: 1, Colwidth: []int{42}}, 42},
		{CellAttrs{Colspan: 3, Rowspan: 1}, 10},
		{CellAttrs{Colspan: 2, Rowspan: 1, Colwidth: []int{20, 0}}, 10},
	}
	for _, tc := range cases {
		if got := CurrentColWidth(v, 2, tc.attrs); got != tc.want {
			t.Fatalf("attrs=%+v: width=%d, want %d", tc.attrs, got, tc.want)
		}
	}
	if got, want := DraggedWidth(Dragging{StartX: 10, StartWidth: 30}, 50, 25), 70; got != want {
		t.Fatalf("dragged=%d, want %d", got, want)
	}
	if got, want := DraggedWidth(Dragging{StartX: 10, StartWidth: 30}, 0, 25), 25; got != want {
		t.Fatalf("dragged=%d, want %d", got, want)
	}
}
