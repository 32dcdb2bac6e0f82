package tables

import (
	"fmt"

	"github.com/iw2rmb/tessera/model"
	"github.com/iw2rmb/tessera/state"
)

// SchemaError reports a schema that lacks a table node type.
type SchemaError struct {
	Role model.Role
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("tables: schema has no %s node type", e.Role)
}

func tableTypes(schema *model.Schema) model.TableTypes {
	tt := schema.TableTypes()
	for _, r := range []model.Role{model.RoleTable, model.RoleRow, model.RoleCell, model.RoleHeaderCell} {
		if tt.ForRole(r) == nil {
			panic(&SchemaError{Role: r})
		}
	}
	return tt
}

// CellAround returns the position directly before the cell containing pos,
// or nil when pos is not inside a cell.
func CellAround(pos *model.ResolvedPos) *model.ResolvedPos {
	for d := pos.Depth() - 1; d > 0; d-- {
		if pos.Node(d).Role() == model.RoleRow {
			return pos.Doc().Resolve(pos.Before(d + 1))
		}
	}
	return nil
}

// CellWrapping returns the innermost cell node containing pos, or nil.
func CellWrapping(pos *model.ResolvedPos) *model.Node {
	for d := pos.Depth(); d > 0; d-- {
		if n := pos.Node(d); n.Role().IsCell() {
			return n
		}
	}
	return nil
}

// IsInTable reports whether the selection head is inside a table row.
func IsInTable(s *state.EditorState) bool {
	head := s.Selection().ResolvedHead()
	for d := head.Depth(); d > 0; d-- {
		if head.Node(d).Role() == model.RoleRow {
			return true
		}
	}
	return false
}

// SelectionCell returns the position before the cell the selection is in
// or next to. It panics with *MapError when there is none.
func SelectionCell(s *state.EditorState) *model.ResolvedPos {
	sel := s.Selection()
	switch v := sel.(type) {
	case *CellSelection:
		if v.anchorCell.Pos() > v.headCell.Pos() {
			return v.anchorCell
		}
		return v.headCell
	case *state.NodeSelection:
		if v.Node().Role().IsCell() {
			return v.ResolvedAnchor()
		}
	}
	if cell := CellAround(sel.ResolvedHead()); cell != nil {
		return cell
	}
	if cell := cellNear(sel.ResolvedHead()); cell != nil {
		return cell
	}
	panic(&MapError{Msg: fmt.Sprintf("no cell found around position %d", sel.Head())})
}

func cellNear(pos *model.ResolvedPos) *model.ResolvedPos {
	for after, p := pos.NodeAfter(), pos.Pos(); after != nil; after, p = after.FirstChild(), p+1 {
		if after.Role().IsCell() {
			return pos.Doc().Resolve(p)
		}
	}
	for before, p := pos.NodeBefore(), pos.Pos(); before != nil; before, p = before.LastChild(), p-1 {
		if before.Role().IsCell() {
			return pos.Doc().Resolve(p - before.NodeSize())
		}
	}
	return nil
}

// PointsAtCell reports whether pos sits directly before a cell.
func PointsAtCell(pos *model.ResolvedPos) bool {
	return pos.Parent().Role() == model.RoleRow && pos.NodeAfter() != nil
}

// MoveCellForward returns the position after the cell at pos.
func MoveCellForward(pos *model.ResolvedPos) *model.ResolvedPos {
	return pos.Doc().Resolve(pos.Pos() + pos.NodeAfter().NodeSize())
}

// InSameTable reports whether two cell positions are in the same table.
func InSameTable(a, b *model.ResolvedPos) bool {
	return a.Depth() == b.Depth() && a.Pos() >= b.Start(-1) && a.Pos() <= b.End(-1)
}

// FindCell returns the grid rectangle of the cell at pos.
func FindCell(pos *model.ResolvedPos) Rect {
	return TableMapFor(pos.Node(-1)).FindCell(pos.Pos() - pos.Start(-1))
}

// ColCount returns the leftmost column of the cell at pos.
func ColCount(pos *model.ResolvedPos) int {
	return TableMapFor(pos.Node(-1)).ColCount(pos.Pos() - pos.Start(-1))
}

// NextCellPos returns the position before the neighbouring cell of the cell
// at pos, or nil at the table edge.
func NextCellPos(pos *model.ResolvedPos, axis Axis, dir int) *model.ResolvedPos {
	tableStart := pos.Start(-1)
	moved, ok := TableMapFor(pos.Node(-1)).NextCell(pos.Pos()-tableStart, axis, dir)
	if !ok {
		return nil
	}
	return pos.Doc().Resolve(tableStart + moved)
}

// ColumnIsHeader reports whether every cell in column col is a header cell.
func ColumnIsHeader(m *TableMap, table *model.Node, col int) bool {
	for row := 0; row < m.Height; row++ {
		if n := table.NodeAt(m.Map[col+row*m.Width]); n == nil || n.Role() != model.RoleHeaderCell {
			return false
		}
	}
	return true
}

// RowIsHeader reports whether every cell in row row is a header cell.
func RowIsHeader(m *TableMap, table *model.Node, row int) bool {
	for col := 0; col < m.Width; col++ {
		if n := table.NodeAt(m.Map[col+row*m.Width]); n == nil || n.Role() != model.RoleHeaderCell {
			return false
		}
	}
	return true
}
