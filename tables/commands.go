package tables

import (
	"github.com/iw2rmb/tessera/model"
	"github.com/iw2rmb/tessera/state"
)

// SelectedRect returns the rectangle covered by the selection: the cell
// selection's rectangle, or the cell the cursor is in.
func SelectedRect(s *state.EditorState) TableRect {
	if sel, ok := s.Selection().(*CellSelection); ok {
		return sel.TableRect()
	}
	pos := SelectionCell(s)
	table := pos.Node(-1)
	start := pos.Start(-1)
	m := TableMapFor(table)
	return TableRect{
		Rect:       m.FindCell(pos.Pos() - start),
		TableStart: start,
		Map:        m,
		Table:      table,
	}
}

// AddColumn adds a column at index col. Cells spanning the insertion point
// grow instead. The new cells copy the type of the column next to them,
// unless that column is a header column at the table edge.
func AddColumn(tr *state.Transaction, rect TableRect, col int) *state.Transaction {
	m, table, tableStart := rect.Map, rect.Table, rect.TableStart
	refColumn, plain := 0, false
	if col > 0 {
		refColumn = -1
	}
	if ColumnIsHeader(m, table, col+refColumn) {
		if col == 0 || col == m.Width {
			plain = true
		} else {
			refColumn = 0
		}
	}
	types := tableTypes(table.Type().Schema())
	for row := 0; row < m.Height; row++ {
		index := row*m.Width + col
		if col > 0 && col < m.Width && m.Map[index-1] == m.Map[index] {
			pos := m.Map[index]
			cell := table.NodeAt(pos)
			tr.SetNodeMarkup(tr.Mapping.Map(tableStart+pos, 1), nil, AddColSpan(cell.Attrs(), col-m.ColCount(pos), 1))
			row += CellAttrsOf(cell).Rowspan - 1
			continue
		}
		typ := types.Cell
		if !plain {
			typ = table.NodeAt(m.Map[index+refColumn]).Type()
		}
		pos := m.PositionAt(row, col, table)
		tr.Insert(tr.Mapping.Map(tableStart+pos, 1), typ.CreateAndFill(nil))
	}
	return tr
}

// AddColumnBefore adds a column before the selection.
func AddColumnBefore(s *state.EditorState, dispatch func(*state.Transaction)) bool {
	if !IsInTable(s) {
		return false
	}
	if dispatch != nil {
		rect := SelectedRect(s)
		dispatch(AddColumn(s.Tr(), rect, rect.Left))
	}
	return true
}

// AddColumnAfter adds a column after the selection.
func AddColumnAfter(s *state.EditorState, dispatch func(*state.Transaction)) bool {
	if !IsInTable(s) {
		return false
	}
	if dispatch != nil {
		rect := SelectedRect(s)
		dispatch(AddColumn(s.Tr(), rect, rect.Right))
	}
	return true
}

// RemoveColumn removes column col. Cells spanning it shrink instead.
func RemoveColumn(tr *state.Transaction, rect TableRect, col int) {
	m, table, tableStart := rect.Map, rect.Table, rect.TableStart
	mapStart := len(tr.Mapping.Maps())
	for row := 0; row < m.Height; {
		index := row*m.Width + col
		pos := m.Map[index]
		cell := table.NodeAt(pos)
		attrs := CellAttrsOf(cell)
		if (col > 0 && m.Map[index-1] == pos) || (col < m.Width-1 && m.Map[index+1] == pos) {
			tr.SetNodeMarkup(tr.Mapping.Slice(mapStart).Map(tableStart+pos, 1), nil, RemoveColSpan(cell.Attrs(), col-m.ColCount(pos), 1))
		} else {
			start := tr.Mapping.Slice(mapStart).Map(tableStart+pos, 1)
			tr.Delete(start, start+cell.NodeSize())
		}
		row += attrs.Rowspan
	}
}

// DeleteColumn removes the selected columns. It refuses to remove every
// column of the table.
func DeleteColumn(s *state.EditorState, dispatch func(*state.Transaction)) bool {
	if !IsInTable(s) {
		return false
	}
	rect := SelectedRect(s)
	if rect.Left == 0 && rect.Right == rect.Map.Width {
		return false
	}
	if dispatch != nil {
		tr := s.Tr()
		for i := rect.Right - 1; ; i-- {
			RemoveColumn(tr, rect, i)
			if i == rect.Left {
				break
			}
			rect.Table = tableAt(tr.Doc, rect.TableStart)
			rect.Map = TableMapFor(rect.Table)
		}
		dispatch(tr)
	}
	return true
}

func tableAt(doc *model.Node, tableStart int) *model.Node {
	if tableStart == 0 {
		return doc
	}
	table := doc.NodeAt(tableStart - 1)
	if table == nil {
		panic(&MapError{Msg: "no table found"})
	}
	return table
}

// AddRow adds a row at index row. Cells spanning the insertion point grow
// instead.
func AddRow(tr *state.Transaction, rect TableRect, row int) *state.Transaction {
	m, table, tableStart := rect.Map, rect.Table, rect.TableStart
	rowPos := tableStart
	for i := 0; i < row; i++ {
		rowPos += table.Child(i).NodeSize()
	}
	refRow, plain := 0, false
	if row > 0 {
		refRow = -1
	}
	if RowIsHeader(m, table, row+refRow) {
		if row == 0 || row == m.Height {
			plain = true
		} else {
			refRow = 0
		}
	}
	types := tableTypes(table.Type().Schema())
	var cells []*model.Node
	for col, index := 0, m.Width*row; col < m.Width; col, index = col+1, index+1 {
		if row > 0 && row < m.Height && m.Map[index] == m.Map[index-m.Width] {
			pos := m.Map[index]
			cell := table.NodeAt(pos)
			a := CellAttrsOf(cell)
			tr.SetNodeMarkup(tableStart+pos, nil, cell.Attrs().With("rowspan", a.Rowspan+1))
			col += a.Colspan - 1
			index += a.Colspan - 1
			continue
		}
		typ := types.Cell
		if !plain {
			typ = table.NodeAt(m.Map[index+refRow*m.Width]).Type()
		}
		cells = append(cells, typ.CreateAndFill(nil))
	}
	tr.Insert(rowPos, types.Row.Create(nil, model.FragmentFrom(cells...)))
	return tr
}

// AddRowBefore adds a row above the selection.
func AddRowBefore(s *state.EditorState, dispatch func(*state.Transaction)) bool {
	if !IsInTable(s) {
		return false
	}
	if dispatch != nil {
		rect := SelectedRect(s)
		dispatch(AddRow(s.Tr(), rect, rect.Top))
	}
	return true
}

// AddRowAfter adds a row below the selection.
func AddRowAfter(s *state.EditorState, dispatch func(*state.Transaction)) bool {
	if !IsInTable(s) {
		return false
	}
	if dispatch != nil {
		rect := SelectedRect(s)
		dispatch(AddRow(s.Tr(), rect, rect.Bottom))
	}
	return true
}

// RemoveRow removes row row. Cells spanning into it shrink; cells starting
// in it that span further down move to the next row.
func RemoveRow(tr *state.Transaction, rect TableRect, row int) {
	m, table, tableStart := rect.Map, rect.Table, rect.TableStart
	rowPos := 0
	for i := 0; i < row; i++ {
		rowPos += table.Child(i).NodeSize()
	}
	nextRow := rowPos + table.Child(row).NodeSize()
	mapFrom := len(tr.Mapping.Maps())
	tr.Delete(rowPos+tableStart, nextRow+tableStart)

	seen := make(map[int]bool)
	for col, index := 0, row*m.Width; col < m.Width; col, index = col+1, index+1 {
		pos := m.Map[index]
		if seen[pos] {
			continue
		}
		seen[pos] = true
		switch {
		case row > 0 && pos == m.Map[index-m.Width]:
			cell := table.NodeAt(pos)
			a := CellAttrsOf(cell)
			tr.SetNodeMarkup(tr.Mapping.Slice(mapFrom).Map(pos+tableStart, 1), nil, cell.Attrs().With("rowspan", a.Rowspan-1))
			col += a.Colspan - 1
			index += a.Colspan - 1
		case row+1 < m.Height && pos == m.Map[index+m.Width]:
			cell := table.NodeAt(pos)
			a := CellAttrsOf(cell)
			moved := cell.Type().Create(cell.Attrs().With("rowspan", a.Rowspan-1), cell.Content())
			newPos := m.PositionAt(row+1, col, table)
			tr.Insert(tr.Mapping.Slice(mapFrom).Map(tableStart+newPos, 1), moved)
			col += a.Colspan - 1
			index += a.Colspan - 1
		}
	}
}

// DeleteRow removes the selected rows. It refuses to remove every row of
// the table.
func DeleteRow(s *state.EditorState, dispatch func(*state.Transaction)) bool {
	if !IsInTable(s) {
		return false
	}
	rect := SelectedRect(s)
	if rect.Top == 0 && rect.Bottom == rect.Map.Height {
		return false
	}
	if dispatch != nil {
		tr := s.Tr()
		for i := rect.Bottom - 1; ; i-- {
			RemoveRow(tr, rect, i)
			if i == rect.Top {
				break
			}
			rect.Table = tableAt(tr.Doc, rect.TableStart)
			rect.Map = TableMapFor(rect.Table)
		}
		dispatch(tr)
	}
	return true
}

func isEmptyCell(cell *model.Node) bool {
	c := cell.Content()
	return c.ChildCount() == 1 && c.Child(0).IsTextblock() && c.Child(0).ChildCount() == 0
}

func cellsOverlapRectangle(m *TableMap, rect Rect) bool {
	width, height := m.Width, m.Height
	indexTop := rect.Top*width + rect.Left
	indexLeft := indexTop
	indexBottom := (rect.Bottom-1)*width + rect.Left
	indexRight := indexTop + (rect.Right - rect.Left - 1)
	for i := rect.Top; i < rect.Bottom; i++ {
		if (rect.Left > 0 && m.Map[indexLeft] == m.Map[indexLeft-1]) ||
			(rect.Right < width && m.Map[indexRight] == m.Map[indexRight+1]) {
			return true
		}
		indexLeft += width
		indexRight += width
	}
	for i := rect.Left; i < rect.Right; i++ {
		if (rect.Top > 0 && m.Map[indexTop] == m.Map[indexTop-width]) ||
			(rect.Bottom < height && m.Map[indexBottom] == m.Map[indexBottom+width]) {
			return true
		}
		indexTop++
		indexBottom++
	}
	return false
}

// MergeCells merges the selected cells into the top-left one, collecting
// the content of the non-empty ones. It applies only to a multi-cell
// selection whose rectangle no cell sticks out of.
func MergeCells(s *state.EditorState, dispatch func(*state.Transaction)) bool {
	sel, ok := s.Selection().(*CellSelection)
	if !ok || sel.anchorCell.Pos() == sel.headCell.Pos() {
		return false
	}
	rect := SelectedRect(s)
	m := rect.Map
	if cellsOverlapRectangle(m, rect.Rect) {
		return false
	}
	if dispatch == nil {
		return true
	}
	tr := s.Tr()
	seen := make(map[int]bool)
	var content model.Fragment
	mergedPos := -1
	var merged *model.Node
	for row := rect.Top; row < rect.Bottom; row++ {
		for col := rect.Left; col < rect.Right; col++ {
			cellPos := m.Map[row*m.Width+col]
			cell := rect.Table.NodeAt(cellPos)
			if seen[cellPos] || cell == nil {
				continue
			}
			seen[cellPos] = true
			if mergedPos < 0 {
				mergedPos, merged = cellPos, cell
				continue
			}
			if !isEmptyCell(cell) {
				content = content.Append(cell.Content())
			}
			mapped := tr.Mapping.Map(cellPos+rect.TableStart, 1)
			tr.Delete(mapped, mapped+cell.NodeSize())
		}
	}
	if merged == nil {
		return true
	}
	a := CellAttrsOf(merged)
	attrs := AddColSpan(merged.Attrs(), a.Colspan, rect.Width()-a.Colspan).With("rowspan", rect.Height())
	tr.SetNodeMarkup(mergedPos+rect.TableStart, nil, attrs)
	if content.Size() > 0 {
		end := mergedPos + 1 + merged.Content().Size()
		start := end
		if isEmptyCell(merged) {
			start = mergedPos + 1
		}
		tr.ReplaceWith(start+rect.TableStart, end+rect.TableStart, content.Nodes()...)
	}
	tr.SetSelection(NewCellSelection(tr.Doc.Resolve(mergedPos+rect.TableStart), nil))
	dispatch(tr)
	return true
}

// CellTypeFunc picks the type of a cell produced by splitting node at
// (row, col).
type CellTypeFunc func(node *model.Node, row, col int) *model.NodeType

// SplitCell splits a spanning cell into plain cells of its own type.
func SplitCell(s *state.EditorState, dispatch func(*state.Transaction)) bool {
	return SplitCellWithType(func(node *model.Node, _, _ int) *model.NodeType {
		return node.Type()
	})(s, dispatch)
}

// SplitCellWithType returns a command that splits a spanning cell into
// single cells whose types come from getType. Each piece keeps its own
// column width.
func SplitCellWithType(getType CellTypeFunc) state.Command {
	return func(s *state.EditorState, dispatch func(*state.Transaction)) bool {
		sel := s.Selection()
		var cellNode *model.Node
		cellPos := -1
		if cs, ok := sel.(*CellSelection); ok {
			if cs.anchorCell.Pos() != cs.headCell.Pos() {
				return false
			}
			cellNode, cellPos = cs.anchorCell.NodeAfter(), cs.anchorCell.Pos()
		} else {
			cellNode = CellWrapping(sel.ResolvedFrom())
			if cellNode == nil {
				return false
			}
			if around := CellAround(sel.ResolvedFrom()); around != nil {
				cellPos = around.Pos()
			}
		}
		if cellNode == nil || cellPos < 0 {
			return false
		}
		a := CellAttrsOf(cellNode)
		if a.Colspan == 1 && a.Rowspan == 1 {
			return false
		}
		if dispatch == nil {
			return true
		}
		base := cellNode.Attrs().With("rowspan", 1).With("colspan", 1)
		rect := SelectedRect(s)
		tr := s.Tr()
		attrs := make([]model.Attrs, rect.Width())
		for i := range attrs {
			switch {
			case a.Colwidth == nil:
				attrs[i] = base
			case i < len(a.Colwidth) && a.Colwidth[i] > 0:
				attrs[i] = base.With("colwidth", []int{a.Colwidth[i]})
			default:
				attrs[i] = base.With("colwidth", nil)
			}
		}
		lastCell := -1
		for row := rect.Top; row < rect.Bottom; row++ {
			pos := rect.Map.PositionAt(row, rect.Left, rect.Table)
			if row == rect.Top {
				pos += cellNode.NodeSize()
			}
			for col, i := rect.Left, 0; col < rect.Right; col, i = col+1, i+1 {
				if col == rect.Left && row == rect.Top {
					continue
				}
				lastCell = tr.Mapping.Map(pos+rect.TableStart, 1)
				tr.Insert(lastCell, getType(cellNode, row, col).CreateAndFill(attrs[i]))
			}
		}
		tr.SetNodeMarkup(cellPos, getType(cellNode, rect.Top, rect.Left), attrs[0])
		if cs, ok := sel.(*CellSelection); ok {
			var head *model.ResolvedPos
			if lastCell >= 0 {
				head = tr.Doc.Resolve(lastCell)
			}
			tr.SetSelection(NewCellSelection(tr.Doc.Resolve(cs.anchorCell.Pos()), head))
		}
		dispatch(tr)
		return true
	}
}

// SetCellAttr returns a command that sets attribute name to value on every
// selected cell.
func SetCellAttr(name string, value any) state.Command {
	return func(s *state.EditorState, dispatch func(*state.Transaction)) bool {
		if !IsInTable(s) {
			return false
		}
		cell := SelectionCell(s)
		if model.AttrValueEqual(cell.NodeAfter().Attr(name), value) {
			return false
		}
		if dispatch == nil {
			return true
		}
		tr := s.Tr()
		if cs, ok := s.Selection().(*CellSelection); ok {
			cs.ForEachCell(func(node *model.Node, pos int) {
				if !model.AttrValueEqual(node.Attr(name), value) {
					tr.SetNodeMarkup(pos, nil, node.Attrs().With(name, value))
				}
			})
		} else {
			tr.SetNodeMarkup(cell.Pos(), nil, cell.NodeAfter().Attrs().With(name, value))
		}
		dispatch(tr)
		return true
	}
}

// HeaderKind selects what ToggleHeader acts on.
type HeaderKind uint8

const (
	HeaderRow HeaderKind = iota
	HeaderColumn
	HeaderCell
)

// ToggleHeader returns a command that toggles header cells inside the
// selection's rectangle. The row variant acts on its first row, the column
// variant on its first column and the cell variant on all of it. When every
// targeted cell is a header they become plain cells, otherwise they all
// become headers.
func ToggleHeader(kind HeaderKind) state.Command {
	return func(s *state.EditorState, dispatch func(*state.Transaction)) bool {
		if !IsInTable(s) {
			return false
		}
		if dispatch == nil {
			return true
		}
		types := tableTypes(s.Schema())
		rect := SelectedRect(s)
		target := rect.Rect
		switch kind {
		case HeaderRow:
			target.Bottom = rect.Top + 1
		case HeaderColumn:
			target.Right = rect.Left + 1
		}
		cells := rect.Map.CellsInRect(target)
		allHeaders := true
		for _, pos := range cells {
			if rect.Table.NodeAt(pos).Role() != model.RoleHeaderCell {
				allHeaders = false
				break
			}
		}
		newType := types.HeaderCell
		if allHeaders {
			newType = types.Cell
		}
		tr := s.Tr()
		for _, pos := range cells {
			cell := rect.Table.NodeAt(pos)
			if cell.Type() != newType {
				tr.SetNodeMarkup(rect.TableStart+pos, newType, cell.Attrs())
			}
		}
		dispatch(tr)
		return true
	}
}

// ToggleHeaderRow toggles the header state of the selected row.
var ToggleHeaderRow = ToggleHeader(HeaderRow)

// ToggleHeaderColumn toggles the header state of the selected column.
var ToggleHeaderColumn = ToggleHeader(HeaderColumn)

// ToggleHeaderCell toggles the header state of the selected cells.
var ToggleHeaderCell = ToggleHeader(HeaderCell)

func findNextCell(cell *model.ResolvedPos, dir int) (int, bool) {
	table := cell.Node(-1)
	if dir < 0 {
		if before := cell.NodeBefore(); before != nil {
			return cell.Pos() - before.NodeSize(), true
		}
		rowEnd := cell.Before(cell.Depth())
		for row := cell.Index(-1) - 1; row >= 0; row-- {
			rowNode := table.Child(row)
			if last := rowNode.LastChild(); last != nil {
				return rowEnd - 1 - last.NodeSize(), true
			}
			rowEnd -= rowNode.NodeSize()
		}
		return 0, false
	}
	if cell.Index(cell.Depth()) < cell.Parent().ChildCount()-1 {
		return cell.Pos() + cell.NodeAfter().NodeSize(), true
	}
	rowStart := cell.After(cell.Depth())
	for row := cell.IndexAfter(-1); row < table.ChildCount(); row++ {
		rowNode := table.Child(row)
		if rowNode.ChildCount() > 0 {
			return rowStart + 1, true
		}
		rowStart += rowNode.NodeSize()
	}
	return 0, false
}

// GoToNextCell returns a command that selects the content of the next
// (dir > 0) or previous (dir < 0) cell in document order.
func GoToNextCell(dir int) state.Command {
	return func(s *state.EditorState, dispatch func(*state.Transaction)) bool {
		if !IsInTable(s) {
			return false
		}
		next, ok := findNextCell(SelectionCell(s), dir)
		if !ok {
			return false
		}
		if dispatch != nil {
			cell := s.Doc().Resolve(next)
			dispatch(s.Tr().SetSelection(state.TextSelectionBetween(cell, MoveCellForward(cell), 0)))
		}
		return true
	}
}

// DeleteTable deletes the table around the selection. An emptied document
// gets a fresh textblock.
func DeleteTable(s *state.EditorState, dispatch func(*state.Transaction)) bool {
	pos := s.Selection().ResolvedAnchor()
	for d := pos.Depth(); d > 0; d-- {
		if pos.Node(d).Role() != model.RoleTable {
			continue
		}
		if dispatch != nil {
			tr := s.Tr()
			tr.Delete(pos.Before(d), pos.After(d))
			if tr.Doc.ChildCount() == 0 {
				if tb := s.Schema().DefaultTextblock(); tb != nil {
					tr.Insert(0, tb.CreateAndFill(nil))
				}
			}
			tr.SetSelection(state.SelectionNear(tr.Doc.Resolve(min(pos.Before(d), tr.Doc.Content().Size())), 1))
			dispatch(tr)
		}
		return true
	}
	return false
}

// DeleteCellSelection resets the content of every selected cell to a
// single empty textblock. Cells themselves are kept.
func DeleteCellSelection(s *state.EditorState, dispatch func(*state.Transaction)) bool {
	sel, ok := s.Selection().(*CellSelection)
	if !ok {
		return false
	}
	if dispatch == nil {
		return true
	}
	tr := s.Tr()
	base := tableTypes(s.Schema()).Cell.CreateAndFill(nil).Content()
	sel.ForEachCell(func(cell *model.Node, pos int) {
		if cell.Content().Eq(base) {
			return
		}
		tr.Replace(tr.Mapping.Map(pos+1, 1), tr.Mapping.Map(pos+cell.NodeSize()-1, 1), model.NewSlice(base, 0, 0))
	})
	if tr.DocChanged() {
		dispatch(tr)
	}
	return true
}

// SetColumnWidth returns a command that fixes the width of every selected
// column to width.
func SetColumnWidth(width int) state.Command {
	return func(s *state.EditorState, dispatch func(*state.Transaction)) bool {
		if width < 1 || !IsInTable(s) {
			return false
		}
		rect := SelectedRect(s)
		tr := s.Tr()
		for col := rect.Left; col < rect.Right; col++ {
			setColumnWidth(tr, rect.Table, rect.Map, rect.TableStart, col, width)
		}
		if !tr.DocChanged() {
			return false
		}
		if dispatch != nil {
			dispatch(tr)
		}
		return true
	}
}

// setColumnWidth stores width for grid column col in every cell covering
// it, at the cell's matching colwidth slot.
func setColumnWidth(tr *state.Transaction, table *model.Node, m *TableMap, start, col, width int) {
	for row := 0; row < m.Height; row++ {
		index := row*m.Width + col
		if row > 0 && m.Map[index] == m.Map[index-m.Width] {
			continue
		}
		pos := m.Map[index]
		cell := table.NodeAt(pos)
		a := CellAttrsOf(cell)
		slot := 0
		if a.Colspan > 1 {
			slot = col - m.ColCount(pos)
		}
		if slot < len(a.Colwidth) && a.Colwidth[slot] == width {
			continue
		}
		colwidth := make([]int, a.Colspan)
		copy(colwidth, a.Colwidth)
		colwidth[slot] = width
		tr.SetNodeMarkup(start+pos, nil, cell.Attrs().With("colwidth", colwidth))
	}
}

// CreateTable builds a rows×cols table of empty cells. With withHeaderRow
// the first row holds header cells.
func CreateTable(schema *model.Schema, rows, cols int, withHeaderRow bool) *model.Node {
	types := tableTypes(schema)
	rowNodes := make([]*model.Node, 0, rows)
	for r := 0; r < rows; r++ {
		typ := types.Cell
		if r == 0 && withHeaderRow {
			typ = types.HeaderCell
		}
		cells := make([]*model.Node, 0, cols)
		for c := 0; c < cols; c++ {
			cells = append(cells, typ.CreateAndFill(nil))
		}
		rowNodes = append(rowNodes, types.Row.Create(nil, model.FragmentFrom(cells...)))
	}
	return types.Table.Create(nil, model.FragmentFrom(rowNodes...))
}
