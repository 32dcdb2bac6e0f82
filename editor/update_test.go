package editor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/tessera/model"
	"github.com/iw2rmb/tessera/state"
	"github.com/iw2rmb/tessera/tables"
)

func docText(m Model) string { return plainText(m.State().Doc()) }

func cellSelection(t *testing.T, m Model) *tables.CellSelection {
	t.Helper()
	cs, ok := m.State().Selection().(*tables.CellSelection)
	if !ok {
		t.Fatalf("selection=%T, want *tables.CellSelection", m.State().Selection())
	}
	return cs
}

func TestUpdate_TypingInsertsText(t *testing.T) {
	m := withCursor(newTestModel(sampleDoc(), Config{}), 8)
	m = typeText(m, "xy")
	if got, want := docText(m), "ab\nxya\tb\nc\td\nz"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if got, want := headOf(m), 10; got != want {
		t.Fatalf("head=%d, want %d", got, want)
	}
}

func TestUpdate_ArrowRightLeavesTextblock(t *testing.T) {
	m := withCursor(newTestModel(sampleDoc(), Config{}), 3)
	m = press(m, tea.KeyRight)
	if got, want := headOf(m), 8; got != want {
		t.Fatalf("head=%d, want %d", got, want)
	}
	m = press(m, tea.KeyRight)
	m = press(m, tea.KeyRight)
	if got, want := headOf(m), 13; got != want {
		t.Fatalf("head after crossing a cell=%d, want %d", got, want)
	}
	m = press(m, tea.KeyLeft)
	if got, want := headOf(m), 9; got != want {
		t.Fatalf("head after moving back=%d, want %d", got, want)
	}
}

func TestUpdate_ArrowDownMovesBetweenRows(t *testing.T) {
	m := withCursor(newTestModel(sampleDoc(), Config{}), 2)
	m = press(m, tea.KeyDown)
	if got, want := headOf(m), 8; got != want {
		t.Fatalf("head=%d, want %d", got, want)
	}
	m = press(m, tea.KeyDown)
	if got, want := headOf(m), 20; got != want {
		t.Fatalf("head in second row=%d, want %d", got, want)
	}
	m = press(m, tea.KeyDown)
	if got, want := headOf(m), 31; got != want {
		t.Fatalf("head below table=%d, want %d", got, want)
	}
}

func TestUpdate_ShiftArrowSelectsCells(t *testing.T) {
	m := withCursor(newTestModel(sampleDoc(), Config{}), 9)
	m = press(m, tea.KeyShiftRight)
	cs := cellSelection(t, m)
	if got, want := cs.AnchorCell().Pos(), 6; got != want {
		t.Fatalf("anchor=%d, want %d", got, want)
	}
	if got, want := cs.HeadCell().Pos(), 11; got != want {
		t.Fatalf("head=%d, want %d", got, want)
	}

	m = press(m, tea.KeyShiftDown)
	cs = cellSelection(t, m)
	if got, want := cs.HeadCell().Pos(), 23; got != want {
		t.Fatalf("head after extending down=%d, want %d", got, want)
	}

	m = press(m, tea.KeyRight)
	if _, ok := m.State().Selection().(*state.TextSelection); !ok {
		t.Fatalf("selection=%T, want *state.TextSelection", m.State().Selection())
	}
}

func TestUpdate_TypingReplacesCellSelection(t *testing.T) {
	m := withCells(newTestModel(sampleDoc(), Config{}), 6, 11)
	m = typeText(m, "X")
	if got, want := docText(m), "ab\nX\t\nc\td\nz"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
}

func TestUpdate_BackspaceClearsCellSelection(t *testing.T) {
	m := withCells(newTestModel(sampleDoc(), Config{}), 6, 23)
	m = press(m, tea.KeyBackspace)
	if got, want := docText(m), "ab\n\t\n\t\nz"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	cellSelection(t, m)
}

func TestUpdate_BackspaceAndDelete(t *testing.T) {
	m := withCursor(newTestModel(sampleDoc(), Config{}), 9)
	m = press(m, tea.KeyBackspace)
	if got, want := docText(m), "ab\n\tb\nc\td\nz"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	m = press(m, tea.KeyBackspace)
	if got, want := docText(m), "ab\n\tb\nc\td\nz"; got != want {
		t.Fatalf("text at cell start=%q, want %q", got, want)
	}

	m = withCursor(m, 1)
	m = press(m, tea.KeyDelete)
	if got, want := docText(m), "b\n\tb\nc\td\nz"; got != want {
		t.Fatalf("text after delete=%q, want %q", got, want)
	}
}

func TestUpdate_BackspaceJoinsParagraphs(t *testing.T) {
	m := withCursor(newTestModel(doc(p("ab"), p("cd")), Config{}), 5)
	m = press(m, tea.KeyBackspace)
	if got, want := docText(m), "abcd"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if got, want := headOf(m), 3; got != want {
		t.Fatalf("head=%d, want %d", got, want)
	}

	m = press(m, tea.KeyDelete)
	if got, want := docText(m), "abd"; got != want {
		t.Fatalf("text after delete=%q, want %q", got, want)
	}
}

func TestUpdate_BackspaceKeepsTableBeforeParagraph(t *testing.T) {
	m := withCursor(newTestModel(sampleDoc(), Config{}), 31)
	m = press(m, tea.KeyBackspace)
	if got, want := docText(m), "ab\na\tb\nc\td\nz"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
}

func TestUpdate_EnterSplitsParagraph(t *testing.T) {
	m := withCursor(newTestModel(doc(p("abcd")), Config{}), 3)
	m = press(m, tea.KeyEnter)
	if got, want := docText(m), "ab\ncd"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if got, want := headOf(m), 5; got != want {
		t.Fatalf("head=%d, want %d", got, want)
	}
}

func TestUpdate_UndoRedo(t *testing.T) {
	m := withCursor(newTestModel(sampleDoc(), Config{}), 3)
	m = typeText(m, "X")
	m = press(m, tea.KeyCtrlZ)
	if got, want := docText(m), "ab\na\tb\nc\td\nz"; got != want {
		t.Fatalf("text after undo=%q, want %q", got, want)
	}
	m = press(m, tea.KeyCtrlY)
	if got, want := docText(m), "abX\na\tb\nc\td\nz"; got != want {
		t.Fatalf("text after redo=%q, want %q", got, want)
	}
}

func TestUpdate_TabMovesBetweenCells(t *testing.T) {
	m := withCursor(newTestModel(sampleDoc(), Config{}), 8)
	m = press(m, tea.KeyTab)
	if got, want := m.State().Selection().From(), 13; got != want {
		t.Fatalf("from=%d, want %d", got, want)
	}
	if got, want := m.State().Selection().To(), 14; got != want {
		t.Fatalf("to=%d, want %d", got, want)
	}

	m = press(m, tea.KeyShiftTab)
	if got, want := m.State().Selection().From(), 8; got != want {
		t.Fatalf("from after shift+tab=%d, want %d", got, want)
	}

	m = press(m, tea.KeyShiftTab)
	if got, want := m.State().Selection().From(), 8; got != want {
		t.Fatalf("from at first cell=%d, want %d", got, want)
	}
}

func TestUpdate_TabInLastCellAddsRow(t *testing.T) {
	m := withCursor(newTestModel(sampleDoc(), Config{}), 25)
	m = press(m, tea.KeyTab)
	if got, want := docText(m), "ab\na\tb\nc\td\n\t\nz"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	head := m.State().Selection().ResolvedHead()
	cell := tables.CellAround(head)
	if cell == nil {
		t.Fatalf("expected cursor in a cell")
	}
	if got, want := cell.Pos(), 30; got != want {
		t.Fatalf("cell=%d, want %d", got, want)
	}
}

func TestUpdate_TableCommands(t *testing.T) {
	m := withCursor(newTestModel(sampleDoc(), Config{}), 8)

	m = alt(m, 'c')
	if got, want := docText(m), "ab\na\t\tb\nc\t\td\nz"; got != want {
		t.Fatalf("text after add column=%q, want %q", got, want)
	}
	m = alt(m, 'C')
	if got, want := docText(m), "ab\n\tb\n\td\nz"; got != want {
		t.Fatalf("text after delete column=%q, want %q", got, want)
	}
	m = alt(m, 'r')
	if got, want := docText(m), "ab\n\tb\n\t\n\td\nz"; got != want {
		t.Fatalf("text after add row=%q, want %q", got, want)
	}
	m = alt(m, 'T')
	if got, want := docText(m), "ab\nz"; got != want {
		t.Fatalf("text after delete table=%q, want %q", got, want)
	}
}

func TestUpdate_MergeAndSplit(t *testing.T) {
	m := withCells(newTestModel(sampleDoc(), Config{}), 6, 11)
	m = alt(m, 'm')
	row := m.State().Doc().Child(1).Child(0)
	if got, want := row.ChildCount(), 1; got != want {
		t.Fatalf("cells in merged row=%d, want %d", got, want)
	}
	if got, want := tables.CellAttrsOf(row.Child(0)).Colspan, 2; got != want {
		t.Fatalf("colspan=%d, want %d", got, want)
	}

	m = withCursor(m, 8)
	m = alt(m, 's')
	row = m.State().Doc().Child(1).Child(0)
	if got, want := row.ChildCount(), 2; got != want {
		t.Fatalf("cells after split=%d, want %d", got, want)
	}
}

func TestUpdate_ToggleHeaderRow(t *testing.T) {
	m := withCells(newTestModel(sampleDoc(), Config{}), 6, 11)
	m = alt(m, 'h')
	row := m.State().Doc().Child(1).Child(0)
	for i := 0; i < row.ChildCount(); i++ {
		if row.Child(i).Role() != model.RoleHeaderCell {
			t.Fatalf("cell %d is not a header cell", i)
		}
	}
	m = alt(m, 'h')
	row = m.State().Doc().Child(1).Child(0)
	if row.Child(0).Role() == model.RoleHeaderCell {
		t.Fatalf("expected header row to be toggled off")
	}
}

func TestUpdate_InsertTable(t *testing.T) {
	m := withCursor(newTestModel(sampleDoc(), Config{}), 31)
	m = alt(m, 't')
	d := m.State().Doc()
	if got, want := d.ChildCount(), 4; got != want {
		t.Fatalf("blocks=%d, want %d", got, want)
	}
	inserted := d.Child(3)
	tm := tables.TableMapFor(inserted)
	if tm.Width != 3 || tm.Height != 3 {
		t.Fatalf("table=%dx%d, want 3x3", tm.Width, tm.Height)
	}
	if inserted.Child(0).Child(0).Role() != model.RoleHeaderCell {
		t.Fatalf("expected a header row")
	}
	if !tables.IsInTable(m.State()) {
		t.Fatalf("expected the cursor in the new table")
	}

	m = alt(m, 't')
	if got, want := m.State().Doc().ChildCount(), 4; got != want {
		t.Fatalf("blocks after inserting inside a table=%d, want %d", got, want)
	}
}

func TestUpdate_PasteTSVFillsCells(t *testing.T) {
	m := withCursor(newTestModel(sampleDoc(), Config{}), 8)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x\ty\nz\tw"), Paste: true})
	if got, want := docText(m), "ab\nx\ty\nz\tw\nz"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
}

func TestUpdate_PasteLines(t *testing.T) {
	m := withCursor(newTestModel(sampleDoc(), Config{}), 3)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1\r\n2"), Paste: true})
	if got, want := docText(m), "ab1\n2\na\tb\nc\td\nz"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
}

func TestUpdate_PasteOverCellSelection(t *testing.T) {
	m := withCells(newTestModel(sampleDoc(), Config{}), 6, 11)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q"), Paste: true})
	if got, want := docText(m), "ab\nq\tq\nc\td\nz"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
}

func TestUpdate_ReadOnly(t *testing.T) {
	m := withCursor(newTestModel(sampleDoc(), Config{ReadOnly: true}), 8)
	m = typeText(m, "X")
	m = press(m, tea.KeyBackspace)
	m = alt(m, 'c')
	m = press(m, tea.KeyTab)
	if got, want := docText(m), "ab\na\tb\nc\td\nz"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	m = withCursor(m, 8)
	m = press(m, tea.KeyRight)
	if got, want := headOf(m), 9; got != want {
		t.Fatalf("head=%d, want %d", got, want)
	}
}

func TestUpdate_WordAndBlockMotion(t *testing.T) {
	m := withCursor(newTestModel(doc(p("one two, three")), Config{}), 1)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight, Alt: true})
	if got, want := headOf(m), 4; got != want {
		t.Fatalf("head=%d, want %d", got, want)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight, Alt: true})
	if got, want := headOf(m), 8; got != want {
		t.Fatalf("head=%d, want %d", got, want)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft, Alt: true})
	if got, want := headOf(m), 5; got != want {
		t.Fatalf("head=%d, want %d", got, want)
	}
	m = press(m, tea.KeyEnd)
	if got, want := headOf(m), 15; got != want {
		t.Fatalf("head at end=%d, want %d", got, want)
	}
	m = press(m, tea.KeyHome)
	if got, want := headOf(m), 1; got != want {
		t.Fatalf("head at start=%d, want %d", got, want)
	}
}

func TestUpdate_ArrowMovesByGrapheme(t *testing.T) {
	m := withCursor(newTestModel(doc(p("e\u0301x")), Config{}), 1)
	m = press(m, tea.KeyRight)
	if got, want := headOf(m), 3; got != want {
		t.Fatalf("head=%d, want %d", got, want)
	}
	m = press(m, tea.KeyBackspace)
	if got, want := docText(m), "x"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
}
