package tables

import (
	"testing"

	"github.com/iw2rmb/tessera/state"
)

func TestNormalizeSelection_NodeSelections(t *testing.T) {
	d := grid3()
	cases := []struct {
		name       string
		from       int
		anchor     int
		head       int
		allowTable bool
	}{
		{"cell", 7, 7, 7, false},
		{"row", 18, 19, 29, false},
		{"table", 0, 2, 46, false},
	}
	for _, tc := range cases {
		s := newState(d, state.CreateNodeSelection(d, tc.from))
		tr := NormalizeSelection(s, nil, tc.allowTable)
		if tr == nil {
			t.Fatalf("%s: expected a normalized selection", tc.name)
		}
		sel, ok := tr.Selection().(*CellSelection)
		if !ok {
			t.Fatalf("%s: selection=%T, want *CellSelection", tc.name, tr.Selection())
		}
		if sel.AnchorCell().Pos() != tc.anchor || sel.HeadCell().Pos() != tc.head {
			t.Fatalf("%s: selection=(%d,%d), want (%d,%d)", tc.name, sel.AnchorCell().Pos(), sel.HeadCell().Pos(), tc.anchor, tc.head)
		}
	}

	s := newState(d, state.CreateNodeSelection(d, 0))
	if tr := NormalizeSelection(s, nil, true); tr != nil {
		t.Fatalf("expected a table node selection to be kept")
	}
}

func TestNormalizeSelection_TextSelections(t *testing.T) {
	d := grid3()
	// end of a to start of b: only cell boundaries in between
	s := newState(d, state.CreateTextSelection(d, 5, 9))
	tr := NormalizeSelection(s, nil, false)
	if tr == nil {
		t.Fatalf("expected the boundary selection to collapse")
	}
	if got := tr.Selection(); got.From() != 5 || !got.Empty() {
		t.Fatalf("selection=(%d,%d), want a cursor at 5", got.From(), got.To())
	}

	// start of a to the start of d
	s = newState(d, state.CreateTextSelection(d, 4, 21))
	tr = NormalizeSelection(s, nil, false)
	if tr == nil {
		t.Fatalf("expected the cross-cell selection to be cut")
	}
	if got := tr.Selection(); got.From() != 4 || got.To() != 5 {
		t.Fatalf("selection=(%d,%d), want (4,5)", got.From(), got.To())
	}

	s = newState(d, state.CreateTextSelection(d, 4, 5))
	if tr := NormalizeSelection(s, nil, false); tr != nil {
		t.Fatalf("expected a selection inside one cell to be kept")
	}
}

func TestNormalizeSelection_ExtendsGivenTransaction(t *testing.T) {
	d := grid3()
	s := newState(d, cursor(d, 2))
	tr := s.Tr()
	tr.SetSelection(state.CreateNodeSelection(d, 24))
	if got := NormalizeSelection(s, tr, false); got != tr {
		t.Fatalf("expected the given transaction to be reused")
	}
	if _, ok := tr.Selection().(*CellSelection); !ok {
		t.Fatalf("selection=%T, want *CellSelection", tr.Selection())
	}
}

func TestTableEditing_NormalizesNodeSelection(t *testing.T) {
	d := grid3()
	s := newState(d, cursor(d, 2), TableEditing(Options{}))
	s = s.Apply(s.Tr().SetSelection(state.CreateNodeSelection(d, 7)))
	if _, ok := s.Selection().(*CellSelection); !ok {
		t.Fatalf("selection=%T, want *CellSelection", s.Selection())
	}
	if got := DrawCellSelection(s).Len(); got != 1 {
		t.Fatalf("decorations=%d, want 1", got)
	}
}
