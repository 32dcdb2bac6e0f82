package tables

import (
	"encoding/json"
	"testing"

	"github.com/iw2rmb/tessera/model"
	"github.com/iw2rmb/tessera/state"
)

func TestCellSelection_RangesHeadFirst(t *testing.T) {
	d := grid3()
	sel := CreateCellSelection(d, 2, 24)
	ranges := sel.Ranges()
	if got, want := len(ranges), 4; got != want {
		t.Fatalf("ranges=%d, want %d", got, want)
	}
	if got, want := ranges[0].From.Pos(), 25; got != want {
		t.Fatalf("first range from=%d, want %d", got, want)
	}
	if got, want := ranges[0].To.Pos(), 28; got != want {
		t.Fatalf("first range to=%d, want %d", got, want)
	}
	if got, want := ranges[1].From.Pos(), 3; got != want {
		t.Fatalf("second range from=%d, want %d", got, want)
	}
	if sel.Visible() {
		t.Fatalf("cell selections are drawn through decorations")
	}
}

func TestCellSelection_RowAndColumn(t *testing.T) {
	d := grid3()
	cases := []struct {
		anchor, head int
		row, col     bool
	}{
		{2, 12, true, false},
		{7, 41, false, true},
		{2, 46, true, true},
		{2, 24, false, false},
	}
	for _, tc := range cases {
		sel := CreateCellSelection(d, tc.anchor, tc.head)
		if got := sel.IsRowSelection(); got != tc.row {
			t.Fatalf("(%d,%d) row=%v, want %v", tc.anchor, tc.head, got, tc.row)
		}
		if got := sel.IsColSelection(); got != tc.col {
			t.Fatalf("(%d,%d) col=%v, want %v", tc.anchor, tc.head, got, tc.col)
		}
	}
}

func TestRowAndColSelection_Extend(t *testing.T) {
	d := grid3()
	r := RowSelection(d.Resolve(24), nil)
	if r.AnchorCell().Pos() != 19 || r.HeadCell().Pos() != 29 {
		t.Fatalf("row selection=(%d,%d), want (19,29)", r.AnchorCell().Pos(), r.HeadCell().Pos())
	}
	col := ColSelection(d.Resolve(24), nil)
	if col.AnchorCell().Pos() != 7 || col.HeadCell().Pos() != 41 {
		t.Fatalf("col selection=(%d,%d), want (7,41)", col.AnchorCell().Pos(), col.HeadCell().Pos())
	}
	back := RowSelection(d.Resolve(29), d.Resolve(19))
	if back.AnchorCell().Pos() != 29 || back.HeadCell().Pos() != 19 {
		t.Fatalf("reversed row selection=(%d,%d), want (29,19)", back.AnchorCell().Pos(), back.HeadCell().Pos())
	}
}

func TestCellSelection_Content(t *testing.T) {
	d := grid3()
	slice := CreateCellSelection(d, 2, 24).Content()
	if slice.OpenStart != 1 || slice.OpenEnd != 1 {
		t.Fatalf("open=(%d,%d), want (1,1)", slice.OpenStart, slice.OpenEnd)
	}
	got := describe(table(slice.Content.Nodes()...))
	if want := "a,b / d,e"; got != want {
		t.Fatalf("content=%q, want %q", got, want)
	}

	whole := CreateCellSelection(d, 2, 46).Content()
	if whole.Content.ChildCount() != 1 || whole.Content.Child(0).Role() != model.RoleTable {
		t.Fatalf("whole table content=%v, want the table", whole.Content)
	}
}

func TestCellSelection_ContentClipsSpans(t *testing.T) {
	// a a b
	// c d e
	d := doc(table(
		row(cs(2, 1, "a"), c("b")),
		row(c("c"), c("d"), c("e")),
	))
	// c at 14, b at 7: rect covers columns 0..2 of both rows.
	sel := CreateCellSelection(d, 7, 19)
	got := describe(table(sel.Content().Content.Nodes()...))
	if want := "_,b / d,e"; got != want {
		t.Fatalf("content=%q, want %q", got, want)
	}
}

func TestCellSelection_JSONRoundTrip(t *testing.T) {
	d := grid3()
	sel := CreateCellSelection(d, 7, 41)
	data, err := json.Marshal(sel.JSON())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got, want := string(data), `{"type":"cell","anchor":7,"head":41}`; got != want {
		t.Fatalf("json=%s, want %s", got, want)
	}
	back, err := state.SelectionFromJSON(d, data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !back.Eq(sel) {
		t.Fatalf("round trip=%v, want %v", back, sel)
	}
}

func TestCellSelection_JSONRejectsNonCells(t *testing.T) {
	d := doc(p("x"), table(row(c("a"))))
	for _, raw := range []string{
		`{"type":"cell","anchor":1,"head":1}`,
		`{"type":"cell","anchor":5,"head":500}`,
	} {
		if _, err := state.SelectionFromJSON(d, []byte(raw)); err == nil {
			t.Fatalf("%s: expected error", raw)
		}
	}
}

func TestCellSelection_RowSelectionSurvivesColumnInsert(t *testing.T) {
	d := grid3()
	s := newState(d, RowSelection(d.Resolve(19), nil))
	rect := TableRect{Rect: Rect{Right: 3, Bottom: 3}, TableStart: 1, Table: d.Child(0), Map: TableMapFor(d.Child(0))}
	s = s.Apply(AddColumn(s.Tr(), rect, 0))

	sel, ok := s.Selection().(*CellSelection)
	if !ok {
		t.Fatalf("selection=%T, want *CellSelection", s.Selection())
	}
	if !sel.IsRowSelection() {
		t.Fatalf("expected a row selection after inserting a column")
	}
	if sel.AnchorCell().Pos() != 23 || sel.HeadCell().Pos() != 37 {
		t.Fatalf("selection=(%d,%d), want (23,37)", sel.AnchorCell().Pos(), sel.HeadCell().Pos())
	}
}

func TestCellSelection_MapDegradesWhenCellsVanish(t *testing.T) {
	d := doc(p("x"), table(row(c("a"), c("b"))))
	s := newState(d, CreateCellSelection(d, 5, 10))
	tr := s.Tr()
	tr.Delete(3, d.Content().Size())
	s = s.Apply(tr)
	if _, ok := s.Selection().(*CellSelection); ok {
		t.Fatalf("expected the selection to leave the deleted table")
	}
}

func TestCellSelection_ForEachCell(t *testing.T) {
	d := grid3()
	var got []int
	CreateCellSelection(d, 24, 46).ForEachCell(func(cell *model.Node, pos int) {
		if !cell.Role().IsCell() {
			t.Fatalf("visited %v", cell)
		}
		got = append(got, pos)
	})
	want := []int{24, 29, 41, 46}
	if len(got) != len(want) {
		t.Fatalf("cells=%v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cells=%v, want %v", got, want)
		}
	}
}

func TestCellBookmark_UndoRestoresCellSelection(t *testing.T) {
	d := grid3()
	s := newState(d, CreateCellSelection(d, 2, 24), state.History(state.HistoryOptions{}), TableEditing(Options{}))
	s, ok := run(s, DeleteCellSelection)
	if !ok {
		t.Fatalf("DeleteCellSelection did not apply")
	}
	if got, want := describe(firstTable(s.Doc())), "_,_,c / _,_,f / g,h,i"; got != want {
		t.Fatalf("after delete=%q, want %q", got, want)
	}
	s, ok = run(s, state.Undo)
	if !ok {
		t.Fatalf("undo did not apply")
	}
	if !s.Doc().Eq(d) {
		t.Fatalf("undo did not restore the document")
	}
	sel, isCells := s.Selection().(*CellSelection)
	if !isCells {
		t.Fatalf("selection=%T, want *CellSelection", s.Selection())
	}
	if sel.AnchorCell().Pos() != 2 || sel.HeadCell().Pos() != 24 {
		t.Fatalf("selection=(%d,%d), want (2,24)", sel.AnchorCell().Pos(), sel.HeadCell().Pos())
	}
}
