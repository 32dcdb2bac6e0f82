package tables

import (
	"fmt"

	"github.com/iw2rmb/tessera/model"
	"github.com/iw2rmb/tessera/state"
	"github.com/iw2rmb/tessera/transform"
)

// CellSelection selects the rectangle of cells spanned by an anchor cell and
// a head cell. Both positions point directly before a cell of the same
// table. Its ranges cover the content of every selected cell, head cell
// first.
type CellSelection struct {
	state.BaseSelection
	anchorCell *model.ResolvedPos
	headCell   *model.ResolvedPos
}

// NewCellSelection builds a selection between two cell positions. A nil
// headCell selects the anchor cell alone.
func NewCellSelection(anchorCell, headCell *model.ResolvedPos) *CellSelection {
	if headCell == nil {
		headCell = anchorCell
	}
	table := anchorCell.Node(-1)
	m := TableMapFor(table)
	tableStart := anchorCell.Start(-1)
	head := headCell.Pos() - tableStart
	rect := m.RectBetween(anchorCell.Pos()-tableStart, head)
	doc := anchorCell.Doc()

	cells := []int{head}
	for _, p := range m.CellsInRect(rect) {
		if p != head {
			cells = append(cells, p)
		}
	}
	ranges := make([]state.SelectionRange, 0, len(cells))
	for _, p := range cells {
		cell := table.NodeAt(p)
		if cell == nil {
			panic(&MapError{Msg: fmt.Sprintf("no cell with offset %d found", p)})
		}
		from := tableStart + p + 1
		ranges = append(ranges, state.SelectionRange{
			From: doc.Resolve(from),
			To:   doc.Resolve(from + cell.Content().Size()),
		})
	}
	return &CellSelection{
		BaseSelection: state.NewBaseSelection(ranges[0].From, ranges[0].To, ranges),
		anchorCell:    anchorCell,
		headCell:      headCell,
	}
}

// CreateCellSelection builds a selection from plain cell positions.
func CreateCellSelection(doc *model.Node, anchorCell, headCell int) *CellSelection {
	return NewCellSelection(doc.Resolve(anchorCell), doc.Resolve(headCell))
}

// AnchorCell is the position before the anchor cell.
func (s *CellSelection) AnchorCell() *model.ResolvedPos { return s.anchorCell }

// HeadCell is the position before the head cell.
func (s *CellSelection) HeadCell() *model.ResolvedPos { return s.headCell }

// Visible is false; selected cells are drawn through decorations.
func (s *CellSelection) Visible() bool { return false }

// TableRect returns the selected rectangle together with its table.
func (s *CellSelection) TableRect() TableRect {
	table := s.anchorCell.Node(-1)
	m := TableMapFor(table)
	start := s.anchorCell.Start(-1)
	return TableRect{
		Rect:       m.RectBetween(s.anchorCell.Pos()-start, s.headCell.Pos()-start),
		TableStart: start,
		Map:        m,
		Table:      table,
	}
}

// Map maps the selection through an edit. When both cells survive in the
// same table it stays a cell selection, and a row or column selection of a
// table that changed is widened to stay one. Otherwise it degrades to a text
// selection.
func (s *CellSelection) Map(doc *model.Node, mapping *transform.Mapping) state.Selection {
	anchorCell := doc.Resolve(mapping.Map(s.anchorCell.Pos(), 1))
	headCell := doc.Resolve(mapping.Map(s.headCell.Pos(), 1))
	if PointsAtCell(anchorCell) && PointsAtCell(headCell) && InSameTable(anchorCell, headCell) {
		tableChanged := s.anchorCell.Node(-1) != anchorCell.Node(-1)
		switch {
		case tableChanged && s.IsRowSelection():
			return RowSelection(anchorCell, headCell)
		case tableChanged && s.IsColSelection():
			return ColSelection(anchorCell, headCell)
		default:
			return NewCellSelection(anchorCell, headCell)
		}
	}
	return state.TextSelectionBetween(anchorCell, headCell, 0)
}

// Content returns the selected cells as rows. Cells that stick out of the
// rectangle are clipped; cells that start outside it lose their content.
// Selecting the whole table yields the table itself.
func (s *CellSelection) Content() model.Slice {
	tr := s.TableRect()
	table, m, rect := tr.Table, tr.Map, tr.Rect
	seen := make(map[int]bool)
	rows := make([]*model.Node, 0, rect.Height())
	for row := rect.Top; row < rect.Bottom; row++ {
		var cells []*model.Node
		for col, index := rect.Left, row*m.Width+rect.Left; col < rect.Right; col, index = col+1, index+1 {
			pos := m.Map[index]
			if seen[pos] {
				continue
			}
			seen[pos] = true
			cellRect := m.FindCell(pos)
			cell := table.NodeAt(pos)
			if cell == nil {
				panic(&MapError{Msg: fmt.Sprintf("no cell with offset %d found", pos)})
			}
			extraLeft := rect.Left - cellRect.Left
			extraRight := cellRect.Right - rect.Right
			if extraLeft > 0 || extraRight > 0 {
				attrs := cell.Attrs()
				if extraLeft > 0 {
					attrs = RemoveColSpan(attrs, 0, extraLeft)
				}
				if extraRight > 0 {
					attrs = RemoveColSpan(attrs, CellAttrsOf(cell).Colspan-extraLeft-extraRight, extraRight)
				}
				if cellRect.Left < rect.Left {
					cell = cell.Type().CreateAndFill(attrs)
				} else {
					cell = cell.Type().Create(attrs, cell.Content())
				}
			}
			if cellRect.Top < rect.Top || cellRect.Bottom > rect.Bottom {
				attrs := cell.Attrs().With("rowspan", min(cellRect.Bottom, rect.Bottom)-max(cellRect.Top, rect.Top))
				if cellRect.Top < rect.Top {
					cell = cell.Type().CreateAndFill(attrs)
				} else {
					cell = cell.Type().Create(attrs, cell.Content())
				}
			}
			cells = append(cells, cell)
		}
		rows = append(rows, table.Child(row).Copy(model.FragmentFrom(cells...)))
	}
	if s.IsColSelection() && s.IsRowSelection() {
		return model.NewSlice(model.FragmentFrom(table), 1, 1)
	}
	return model.NewSlice(model.FragmentFrom(rows...), 1, 1)
}

// Replace replaces the first cell's content with content and clears the
// others. Each range is mapped through the steps added so far.
func (s *CellSelection) Replace(tr *state.Transaction, content model.Slice) {
	mapFrom := len(tr.Steps)
	for i, r := range s.Ranges() {
		mapping := tr.Mapping.Slice(mapFrom)
		slice := model.EmptySlice
		if i == 0 {
			slice = content
		}
		tr.Replace(mapping.Map(r.From.Pos(), 1), mapping.Map(r.To.Pos(), 1), slice)
	}
	end := tr.Mapping.Slice(mapFrom).Map(s.To(), 1)
	if sel := state.FindSelectionFrom(tr.Doc.Resolve(end), -1, false); sel != nil {
		tr.SetSelection(sel)
	}
}

// ReplaceWith replaces the first cell's content with node.
func (s *CellSelection) ReplaceWith(tr *state.Transaction, node *model.Node) {
	s.Replace(tr, model.NewSlice(model.FragmentFrom(node), 0, 0))
}

// ForEachCell calls fn with every selected cell and its absolute position.
func (s *CellSelection) ForEachCell(fn func(cell *model.Node, pos int)) {
	tr := s.TableRect()
	for _, p := range tr.Map.CellsInRect(tr.Rect) {
		fn(tr.Table.NodeAt(p), tr.TableStart+p)
	}
}

// IsRowSelection reports whether the selection spans whole rows.
func (s *CellSelection) IsRowSelection() bool {
	tr := s.TableRect()
	return tr.Left == 0 && tr.Right == tr.Map.Width
}

// IsColSelection reports whether the selection spans whole columns.
func (s *CellSelection) IsColSelection() bool {
	tr := s.TableRect()
	return tr.Top == 0 && tr.Bottom == tr.Map.Height
}

// RowSelection extends anchorCell and headCell to cover their whole rows.
func RowSelection(anchorCell, headCell *model.ResolvedPos) *CellSelection {
	if headCell == nil {
		headCell = anchorCell
	}
	m := TableMapFor(anchorCell.Node(-1))
	start := anchorCell.Start(-1)
	anchorRect := m.FindCell(anchorCell.Pos() - start)
	headRect := m.FindCell(headCell.Pos() - start)
	doc := anchorCell.Doc()
	if anchorRect.Left <= headRect.Left {
		if anchorRect.Left > 0 {
			anchorCell = doc.Resolve(start + m.Map[anchorRect.Top*m.Width])
		}
		if headRect.Right < m.Width {
			headCell = doc.Resolve(start + m.Map[m.Width*(headRect.Top+1)-1])
		}
	} else {
		if headRect.Left > 0 {
			headCell = doc.Resolve(start + m.Map[headRect.Top*m.Width])
		}
		if anchorRect.Right < m.Width {
			anchorCell = doc.Resolve(start + m.Map[m.Width*(anchorRect.Top+1)-1])
		}
	}
	return NewCellSelection(anchorCell, headCell)
}

// ColSelection extends anchorCell and headCell to cover their whole columns.
func ColSelection(anchorCell, headCell *model.ResolvedPos) *CellSelection {
	if headCell == nil {
		headCell = anchorCell
	}
	m := TableMapFor(anchorCell.Node(-1))
	start := anchorCell.Start(-1)
	anchorRect := m.FindCell(anchorCell.Pos() - start)
	headRect := m.FindCell(headCell.Pos() - start)
	doc := anchorCell.Doc()
	lastRow := m.Width * (m.Height - 1)
	if anchorRect.Top <= headRect.Top {
		if anchorRect.Top > 0 {
			anchorCell = doc.Resolve(start + m.Map[anchorRect.Left])
		}
		if headRect.Bottom < m.Height {
			headCell = doc.Resolve(start + m.Map[lastRow+headRect.Right-1])
		}
	} else {
		if headRect.Top > 0 {
			headCell = doc.Resolve(start + m.Map[headRect.Left])
		}
		if anchorRect.Bottom < m.Height {
			anchorCell = doc.Resolve(start + m.Map[lastRow+anchorRect.Right-1])
		}
	}
	return NewCellSelection(anchorCell, headCell)
}

func (s *CellSelection) Eq(other state.Selection) bool {
	o, ok := other.(*CellSelection)
	return ok && o.anchorCell.Pos() == s.anchorCell.Pos() && o.headCell.Pos() == s.headCell.Pos()
}

func (s *CellSelection) JSON() state.SelectionJSON {
	return state.SelectionJSON{Type: "cell", Anchor: s.anchorCell.Pos(), Head: s.headCell.Pos()}
}

func (s *CellSelection) Bookmark() state.SelectionBookmark {
	return CellBookmark{Anchor: s.anchorCell.Pos(), Head: s.headCell.Pos()}
}

func (s *CellSelection) String() string {
	return fmt.Sprintf("cell(%d,%d)", s.anchorCell.Pos(), s.headCell.Pos())
}

// CellSelectionFromJSON rebuilds a cell selection. Both positions must
// point at cells of the same table.
func CellSelectionFromJSON(doc *model.Node, data state.SelectionJSON) (*CellSelection, error) {
	size := doc.Content().Size()
	if data.Anchor < 0 || data.Anchor > size || data.Head < 0 || data.Head > size {
		return nil, fmt.Errorf("cell position out of range (%d, %d)", data.Anchor, data.Head)
	}
	anchor, head := doc.Resolve(data.Anchor), doc.Resolve(data.Head)
	if !PointsAtCell(anchor) || !PointsAtCell(head) {
		return nil, fmt.Errorf("positions %d and %d do not point at cells", data.Anchor, data.Head)
	}
	if !InSameTable(anchor, head) {
		return nil, fmt.Errorf("cells %d and %d are in different tables", data.Anchor, data.Head)
	}
	return NewCellSelection(anchor, head), nil
}

func init() {
	state.RegisterSelectionType("cell", func(doc *model.Node, data state.SelectionJSON) (state.Selection, error) {
		return CellSelectionFromJSON(doc, data)
	})
}

// CellBookmark is the bookmark of a CellSelection.
type CellBookmark struct {
	Anchor, Head int
}

func (b CellBookmark) Map(mapping *transform.Mapping) state.SelectionBookmark {
	return CellBookmark{Anchor: mapping.Map(b.Anchor, 1), Head: mapping.Map(b.Head, 1)}
}

// Resolve rebuilds the cell selection when both positions still point at
// cells of one table, else returns a nearby selection.
func (b CellBookmark) Resolve(doc *model.Node) state.Selection {
	anchor, head := doc.Resolve(b.Anchor), doc.Resolve(b.Head)
	if PointsAtCell(anchor) && PointsAtCell(head) && InSameTable(anchor, head) {
		return NewCellSelection(anchor, head)
	}
	return state.SelectionNear(head, 1)
}

// TableRect is a rectangle resolved against a live table.
type TableRect struct {
	Rect
	TableStart int
	Map        *TableMap
	Table      *model.Node
}
