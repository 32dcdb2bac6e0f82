package tables

import (
	"fmt"
	"strings"

	"github.com/iw2rmb/tessera/model"
	"github.com/iw2rmb/tessera/state"
)

var testSchema = model.DefaultSchema()

func p(text string) *model.Node {
	typ := testSchema.Node("paragraph")
	if text == "" {
		return typ.Create(nil, model.Fragment{})
	}
	return typ.Create(nil, model.FragmentFrom(testSchema.Text(text)))
}

// c is a plain cell holding one paragraph.
func c(text string) *model.Node {
	return testSchema.TableTypes().Cell.Create(nil, model.FragmentFrom(p(text)))
}

// h is a header cell holding one paragraph.
func h(text string) *model.Node {
	return testSchema.TableTypes().HeaderCell.Create(nil, model.FragmentFrom(p(text)))
}

// cs is a spanning cell.
func cs(colspan, rowspan int, text string) *model.Node {
	return testSchema.TableTypes().Cell.Create(model.Attrs{"colspan": colspan, "rowspan": rowspan}, model.FragmentFrom(p(text)))
}

// cw is a cell with fixed column widths.
func cw(text string, widths ...int) *model.Node {
	return testSchema.TableTypes().Cell.Create(model.Attrs{"colspan": len(widths), "colwidth": widths}, model.FragmentFrom(p(text)))
}

func row(cells ...*model.Node) *model.Node {
	return testSchema.TableTypes().Row.Create(nil, model.FragmentFrom(cells...))
}

func table(rows ...*model.Node) *model.Node {
	return testSchema.TableTypes().Table.Create(nil, model.FragmentFrom(rows...))
}

func doc(blocks ...*model.Node) *model.Node {
	return testSchema.TopNodeType().Create(nil, model.FragmentFrom(blocks...))
}

// grid3 is a 3×3 table of cells a..i. With the table at 0, cell
// positions are 2, 7, 12 / 19, 24, 29 / 36, 41, 46.
func grid3() *model.Node {
	return doc(table(
		row(c("a"), c("b"), c("c")),
		row(c("d"), c("e"), c("f")),
		row(c("g"), c("h"), c("i")),
	))
}

// describe renders a table as rows of cells. Empty cells print as "_",
// header cells get a "#" prefix and spans a "@cN"/"@rN" suffix.
func describe(t *model.Node) string {
	rows := make([]string, 0, t.ChildCount())
	for i := 0; i < t.ChildCount(); i++ {
		r := t.Child(i)
		cells := make([]string, 0, r.ChildCount())
		for j := 0; j < r.ChildCount(); j++ {
			cell := r.Child(j)
			text := cell.TextContent()
			if text == "" {
				text = "_"
			}
			if cell.Role() == model.RoleHeaderCell {
				text = "#" + text
			}
			a := CellAttrsOf(cell)
			if a.Colspan > 1 {
				text += fmt.Sprintf("@c%d", a.Colspan)
			}
			if a.Rowspan > 1 {
				text += fmt.Sprintf("@r%d", a.Rowspan)
			}
			cells = append(cells, text)
		}
		rows = append(rows, strings.Join(cells, ","))
	}
	return strings.Join(rows, " / ")
}

// firstTable returns the first table of d.
func firstTable(d *model.Node) *model.Node {
	var found *model.Node
	d.Descendants(func(n *model.Node, _ int, _ *model.Node, _ int) bool {
		if found == nil && n.Role() == model.RoleTable {
			found = n
		}
		return found == nil
	})
	return found
}

func newState(d *model.Node, sel state.Selection, plugins ...*state.Plugin) *state.EditorState {
	return state.Create(state.Config{Doc: d, Selection: sel, Plugins: plugins})
}

// run applies cmd to s and returns the resulting state, failing when the
// command does not apply.
func run(s *state.EditorState, cmd state.Command) (*state.EditorState, bool) {
	next := s
	ok := cmd(s, func(tr *state.Transaction) { next = s.Apply(tr) })
	return next, ok
}

// testView is a View over a fixed layout: every position in coords maps a
// terminal cell to a document position, boxes give cell extents.
type testView struct {
	state      *state.EditorState
	readOnly   bool
	coords     map[[2]int]int
	boxes      map[[2]int]CellBox
	widths     map[int]int
	endOfBlock bool
}

func newTestView(s *state.EditorState) *testView {
	return &testView{
		state:      s,
		coords:     make(map[[2]int]int),
		boxes:      make(map[[2]int]CellBox),
		widths:     make(map[int]int),
		endOfBlock: true,
	}
}

func (v *testView) State() *state.EditorState          { return v.state }
func (v *testView) Dispatch(tr *state.Transaction)     { v.state = v.state.Apply(tr) }
func (v *testView) Editable() bool                     { return !v.readOnly }
func (v *testView) CellWidth(pos int) int              { return v.widths[pos] }
func (v *testView) EndOfTextblock(dir string) bool     { return v.endOfBlock }
func (v *testView) PosAtCoords(x, y int) (int, bool)   { p, ok := v.coords[[2]int{x, y}]; return p, ok }
func (v *testView) CellBoxAt(x, y int) (CellBox, bool) { b, ok := v.boxes[[2]int{x, y}]; return b, ok }
