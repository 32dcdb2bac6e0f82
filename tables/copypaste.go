package tables

import (
	"github.com/iw2rmb/tessera/model"
	"github.com/iw2rmb/tessera/state"
)

// PastedCellGrid is a rectangular block of cells from the clipboard. Rows
// hold the cells starting in each row.
type PastedCellGrid struct {
	Width  int
	Height int
	Rows   []model.Fragment
}

// PastedCells extracts a rectangular block of cells from slice. It returns
// false when the slice does not consist of rows or cells.
func PastedCells(slice model.Slice) (PastedCellGrid, bool) {
	if slice.Size() <= 0 || slice.Content.ChildCount() == 0 {
		return PastedCellGrid{}, false
	}
	content, openStart, openEnd := slice.Content, slice.OpenStart, slice.OpenEnd
	for content.ChildCount() == 1 &&
		((openStart > 0 && openEnd > 0) || content.Child(0).Role() == model.RoleTable) {
		openStart--
		openEnd--
		content = content.Child(0).Content()
	}
	if content.ChildCount() == 0 {
		return PastedCellGrid{}, false
	}
	first := content.Child(0)
	schema := first.Type().Schema()
	types := schema.TableTypes()
	if types.Row == nil || types.Cell == nil {
		return PastedCellGrid{}, false
	}
	var rows []model.Fragment
	switch role := first.Role(); {
	case role == model.RoleRow:
		for i := 0; i < content.ChildCount(); i++ {
			row := content.Child(i)
			if row.Role() != model.RoleRow {
				return PastedCellGrid{}, false
			}
			rows = append(rows, cellsOnly(row.Content()))
		}
	case role.IsCell():
		rows = append(rows, cellsOnly(content))
	default:
		return PastedCellGrid{}, false
	}
	return ensureRectangular(types, rows), true
}

func cellsOnly(f model.Fragment) model.Fragment {
	var cells []*model.Node
	f.ForEach(func(child *model.Node, _, _ int) {
		if child.Role().IsCell() {
			cells = append(cells, child)
		}
	})
	return model.FragmentFrom(cells...)
}

// ensureRectangular pads short rows with empty cells, taking rowspans into
// account, and adds rows that spans reach into.
func ensureRectangular(types model.TableTypes, rows []model.Fragment) PastedCellGrid {
	var widths []int
	for i, row := range rows {
		for j := row.ChildCount() - 1; j >= 0; j-- {
			a := CellAttrsOf(row.Child(j))
			for r := i; r < i+a.Rowspan; r++ {
				for len(widths) <= r {
					widths = append(widths, 0)
				}
				widths[r] += a.Colspan
			}
		}
	}
	width := 0
	for _, w := range widths {
		width = max(width, w)
	}
	for r, w := range widths {
		if r >= len(rows) {
			rows = append(rows, model.Fragment{})
		}
		if w < width {
			empty := types.Cell.CreateAndFill(nil)
			cells := make([]*model.Node, 0, width-w)
			for i := w; i < width; i++ {
				cells = append(cells, empty)
			}
			rows[r] = rows[r].Append(model.FragmentFrom(cells...))
		}
	}
	return PastedCellGrid{Width: width, Height: len(rows), Rows: rows}
}

// FitSlice builds a node of type typ holding the content of slice. The
// slice is treated as closed; loose inline content is wrapped in the
// schema's default textblock, and an empty slice gives typ's default
// content.
func FitSlice(typ *model.NodeType, slice model.Slice) *model.Node {
	content := slice.Content
	if content.ChildCount() == 0 {
		return typ.CreateAndFill(nil)
	}
	if content.Child(0).IsInline() {
		if tb := typ.Schema().DefaultTextblock(); tb != nil {
			content = model.FragmentFrom(tb.Create(nil, content))
		}
	}
	return typ.Create(nil, content)
}

// ClipCells repeats or cuts cells to fill a width×height block.
func ClipCells(cells PastedCellGrid, newWidth, newHeight int) PastedCellGrid {
	width, height, rows := cells.Width, cells.Height, cells.Rows
	if width != newWidth {
		added := make(map[int]int)
		newRows := make([]model.Fragment, 0, len(rows))
		for row, frag := range rows {
			var out []*model.Node
			for col, i := added[row], 0; col < newWidth && frag.ChildCount() > 0; i++ {
				cell := frag.Child(i % frag.ChildCount())
				a := CellAttrsOf(cell)
				if over := col + a.Colspan - newWidth; over > 0 {
					cell = cell.Type().Create(RemoveColSpan(cell.Attrs(), a.Colspan-over, over), cell.Content())
					a = CellAttrsOf(cell)
				}
				out = append(out, cell)
				col += a.Colspan
				for j := 1; j < a.Rowspan; j++ {
					added[row+j] += a.Colspan
				}
			}
			newRows = append(newRows, model.FragmentFrom(out...))
		}
		rows, width = newRows, newWidth
	}
	if height != newHeight {
		newRows := make([]model.Fragment, 0, newHeight)
		for row := 0; row < newHeight; row++ {
			source := rows[row%height]
			var out []*model.Node
			for j := 0; j < source.ChildCount(); j++ {
				cell := source.Child(j)
				if a := CellAttrsOf(cell); row+a.Rowspan > newHeight {
					cell = cell.Type().Create(cell.Attrs().With("rowspan", max(1, newHeight-row)), cell.Content())
				}
				out = append(out, cell)
			}
			newRows = append(newRows, model.FragmentFrom(out...))
		}
		rows, height = newRows, newHeight
	}
	return PastedCellGrid{Width: width, Height: height, Rows: rows}
}

// growTable adds columns and rows so the table is at least width×height.
func growTable(tr *state.Transaction, m *TableMap, table *model.Node, start, width, height, mapFrom int) bool {
	types := tableTypes(tr.Doc.Type().Schema())
	var empty, emptyHead *model.Node
	cell := func(header bool) *model.Node {
		if header {
			if emptyHead == nil {
				emptyHead = types.HeaderCell.CreateAndFill(nil)
			}
			return emptyHead
		}
		if empty == nil {
			empty = types.Cell.CreateAndFill(nil)
		}
		return empty
	}
	if width > m.Width {
		rowEnd := 0
		for row := 0; row < m.Height; row++ {
			rowNode := table.Child(row)
			rowEnd += rowNode.NodeSize()
			last := rowNode.LastChild()
			add := cell(last != nil && last.Role() == model.RoleHeaderCell)
			cells := make([]*model.Node, 0, width-m.Width)
			for i := m.Width; i < width; i++ {
				cells = append(cells, add)
			}
			tr.Insert(tr.Mapping.Slice(mapFrom).Map(rowEnd-1+start, 1), cells...)
		}
	}
	if height > m.Height {
		lastRow := (m.Height - 1) * m.Width
		cells := make([]*model.Node, 0, max(m.Width, width))
		for i := 0; i < max(m.Width, width); i++ {
			header := i < m.Width && table.NodeAt(m.Map[lastRow+i]).Role() == model.RoleHeaderCell
			cells = append(cells, cell(header))
		}
		emptyRow := types.Row.Create(nil, model.FragmentFrom(cells...))
		rows := make([]*model.Node, 0, height-m.Height)
		for i := m.Height; i < height; i++ {
			rows = append(rows, emptyRow)
		}
		tr.Insert(tr.Mapping.Slice(mapFrom).Map(start+table.NodeSize()-2, 1), rows...)
	}
	return empty != nil || emptyHead != nil
}

// isolateHorizontal splits cells that span across the horizontal line at
// top between columns left and right.
func isolateHorizontal(tr *state.Transaction, m *TableMap, table *model.Node, start, left, right, top, mapFrom int) bool {
	if top == 0 || top == m.Height {
		return false
	}
	found := false
	for col := left; col < right; col++ {
		index := top*m.Width + col
		pos := m.Map[index]
		if m.Map[index-m.Width] != pos {
			continue
		}
		found = true
		cell := table.NodeAt(pos)
		a := CellAttrsOf(cell)
		r := m.FindCell(pos)
		tr.SetNodeMarkup(tr.Mapping.Slice(mapFrom).Map(pos+start, 1), nil, cell.Attrs().With("rowspan", top-r.Top))
		tr.Insert(tr.Mapping.Slice(mapFrom).Map(m.PositionAt(top, r.Left, table)+start, 1),
			cell.Type().CreateAndFill(cell.Attrs().With("rowspan", r.Top+a.Rowspan-top)))
		col += a.Colspan - 1
	}
	return found
}

// isolateVertical splits cells that span across the vertical line at left
// between rows top and bottom.
func isolateVertical(tr *state.Transaction, m *TableMap, table *model.Node, start, top, bottom, left, mapFrom int) bool {
	if left == 0 || left == m.Width {
		return false
	}
	found := false
	for row := top; row < bottom; row++ {
		index := row*m.Width + left
		pos := m.Map[index]
		if m.Map[index-1] != pos {
			continue
		}
		found = true
		cell := table.NodeAt(pos)
		a := CellAttrsOf(cell)
		cellLeft := m.ColCount(pos)
		updatePos := tr.Mapping.Slice(mapFrom).Map(pos+start, 1)
		tr.SetNodeMarkup(updatePos, nil, RemoveColSpan(cell.Attrs(), left-cellLeft, a.Colspan-(left-cellLeft)))
		tr.Insert(updatePos+cell.NodeSize(), cell.Type().CreateAndFill(RemoveColSpan(cell.Attrs(), 0, left-cellLeft)))
		row += a.Rowspan - 1
	}
	return found
}

// InsertCells places cells into the table starting at tableStart with their
// top-left corner at rect's top-left, growing the table and splitting
// spanning cells on the block's border as needed. The inserted block ends
// up selected.
func InsertCells(s *state.EditorState, dispatch func(*state.Transaction), tableStart int, rect Rect, cells PastedCellGrid) {
	table := tableAt(s.Doc(), tableStart)
	m := TableMapFor(table)
	top, left := rect.Top, rect.Left
	right, bottom := left+cells.Width, top+cells.Height
	tr := s.Tr()
	mapFrom := 0
	recomp := func() {
		table = tableAt(tr.Doc, tableStart)
		m = TableMapFor(table)
		mapFrom = len(tr.Mapping.Maps())
	}
	if growTable(tr, m, table, tableStart, right, bottom, mapFrom) {
		recomp()
	}
	if isolateHorizontal(tr, m, table, tableStart, left, right, top, mapFrom) {
		recomp()
	}
	if isolateHorizontal(tr, m, table, tableStart, left, right, bottom, mapFrom) {
		recomp()
	}
	if isolateVertical(tr, m, table, tableStart, top, bottom, left, mapFrom) {
		recomp()
	}
	if isolateVertical(tr, m, table, tableStart, top, bottom, right, mapFrom) {
		recomp()
	}
	for row := top; row < bottom; row++ {
		from := m.PositionAt(row, left, table)
		to := m.PositionAt(row, right, table)
		mapping := tr.Mapping.Slice(mapFrom)
		tr.Replace(mapping.Map(from+tableStart, 1), mapping.Map(to+tableStart, 1), model.NewSlice(cells.Rows[row-top], 0, 0))
	}
	recomp()
	tr.SetSelection(NewCellSelection(
		tr.Doc.Resolve(tableStart+m.PositionAt(top, left, table)),
		tr.Doc.Resolve(tableStart+m.PositionAt(bottom-1, right-1, table)),
	))
	if dispatch != nil {
		dispatch(tr)
	}
}
