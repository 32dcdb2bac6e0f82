package tables

import (
	"go.uber.org/zap"

	"github.com/iw2rmb/tessera/model"
	"github.com/iw2rmb/tessera/state"
)

// FixTablesKey marks transactions produced by the table repair pass.
var FixTablesKey = state.NewPluginKey("fix-tables")

// FixTables repairs every malformed table in s. With a non-nil oldState
// only tables that changed since oldState are inspected. It returns nil
// when nothing needed repair.
func FixTables(s, oldState *state.EditorState) *state.Transaction {
	return fixTables(s, oldState, zap.NewNop())
}

func fixTables(s, oldState *state.EditorState, log *zap.Logger) *state.Transaction {
	var tr *state.Transaction
	check := func(node *model.Node, pos int) bool {
		if node.Role() == model.RoleTable {
			tr = fixTable(s, node, pos, tr, log)
		}
		return true
	}
	switch {
	case oldState == nil:
		s.Doc().Descendants(func(node *model.Node, pos int, _ *model.Node, _ int) bool {
			return check(node, pos)
		})
	case oldState.Doc() != s.Doc():
		changedDescendants(oldState.Doc(), s.Doc(), 0, check)
	}
	return tr
}

// changedDescendants calls fn for every descendant of cur that is not
// shared with old. Children are matched by identity within a small window.
func changedDescendants(old, cur *model.Node, offset int, fn func(*model.Node, int) bool) {
	oldSize, curSize := old.ChildCount(), cur.ChildCount()
outer:
	for i, j := 0, 0; i < curSize; i++ {
		child := cur.Child(i)
		for scan, end := j, min(oldSize, i+3); scan < end; scan++ {
			if old.Child(scan) == child {
				j = scan + 1
				offset += child.NodeSize()
				continue outer
			}
		}
		fn(child, offset)
		if j < oldSize && old.Child(j).SameMarkup(child) {
			changedDescendants(old.Child(j), child, offset+1, fn)
		} else {
			child.NodesBetween(0, child.Content().Size(), func(n *model.Node, pos int, _ *model.Node, _ int) bool {
				return fn(n, pos+offset+1)
			})
		}
		offset += child.NodeSize()
	}
}

// repairBudget bounds the repair passes of table. A shrink pass lowers
// the total colspan by at least one and a padding pass leaves no missing
// slots, so the total colspan plus two passes always suffices.
func repairBudget(table *model.Node) int {
	n := 2
	for i := 0; i < table.ChildCount(); i++ {
		row := table.Child(i)
		for j := 0; j < row.ChildCount(); j++ {
			n += CellAttrsOf(row.Child(j)).Colspan
		}
	}
	return n
}

// fixTable repairs the table at tablePos, a position in s.Doc(). Colliding
// cells lose columns from their right edge and the table is mapped again;
// once no collisions remain, short rows are padded at the end. A short
// first row with no rowspans, the only short row, is padded at its start
// instead. Overlong rowspans are cut, colwidths follow the majority of
// their column and tables without cells are deleted. Passes repeat until
// the table maps without problems. No cell content is dropped.
func fixTable(s *state.EditorState, table *model.Node, tablePos int, tr *state.Transaction, log *zap.Logger) *state.Transaction {
	if len(TableMapFor(table).Problems) == 0 {
		return tr
	}
	if tr == nil {
		tr = s.Tr()
	}
	pos := tr.Mapping.Map(tablePos, 1)
	for budget := repairBudget(table); budget > 0; budget-- {
		m := TableMapFor(table)
		if len(m.Problems) == 0 {
			break
		}
		if !repairTable(tr, table, pos, m, log) {
			break
		}
		table = tr.Doc.NodeAt(pos)
	}
	tr.SetMeta(FixTablesKey, true)
	return tr
}

// repairTable applies one repair pass to table, which sits at pos in
// tr.Doc. It reports whether the table changed and must be mapped again.
func repairTable(tr *state.Transaction, table *model.Node, pos int, m *TableMap, log *zap.Logger) bool {
	mapFrom := len(tr.Steps)
	mapped := func(p int) int { return tr.Mapping.Slice(mapFrom).Map(p, 1) }

	// One cell may collide in several grid slots; shrink it once by the
	// widest overlap.
	collisions := make(map[int]int)
	for _, prob := range m.Problems {
		if prob.Kind == ProblemCollision && prob.N > collisions[prob.Pos] {
			collisions[prob.Pos] = prob.N
		}
	}
	attrs := make(map[int]model.Attrs)
	var changed []int
	update := func(cellPos int, fn func(model.Attrs) model.Attrs) {
		cur, ok := attrs[cellPos]
		if !ok {
			cell := table.NodeAt(cellPos)
			if cell == nil {
				return
			}
			cur = cell.Attrs()
			changed = append(changed, cellPos)
		}
		attrs[cellPos] = fn(cur)
	}
	mustAdd := make([]int, m.Height)
	for _, prob := range m.Problems {
		log.Debug("repairing table",
			zap.Int("table_pos", pos),
			zap.Stringer("problem", prob.Kind),
			zap.Int("cell_pos", prob.Pos),
			zap.Int("n", prob.N))
		switch prob.Kind {
		case ProblemZeroSized:
			tr.Delete(pos, pos+table.NodeSize())
			if tr.Doc.ChildCount() == 0 {
				if tb := tr.Doc.Type().Schema().DefaultTextblock(); tb != nil {
					tr.Insert(0, tb.CreateAndFill(nil))
				}
			}
			return false
		case ProblemCollision:
			n, ok := collisions[prob.Pos]
			if !ok {
				continue
			}
			delete(collisions, prob.Pos)
			update(prob.Pos, func(a model.Attrs) model.Attrs {
				colspan := cellAttrsFrom(a).Colspan
				if n = min(n, colspan-1); n == 0 {
					return a
				}
				return RemoveColSpan(a, colspan-n, n)
			})
		case ProblemMissing:
			mustAdd[prob.Row] += prob.N
		case ProblemOverlongRowspan:
			update(prob.Pos, func(a model.Attrs) model.Attrs {
				return a.With("rowspan", cellAttrsFrom(a).Rowspan-prob.N)
			})
		case ProblemColwidthMismatch:
			update(prob.Pos, func(a model.Attrs) model.Attrs {
				return a.With("colwidth", prob.Colwidth)
			})
		}
	}
	shrunk := false
	for _, cellPos := range changed {
		if cellAttrsFrom(attrs[cellPos]).Colspan != CellAttrsOf(table.NodeAt(cellPos)).Colspan {
			shrunk = true
		}
		tr.SetNodeMarkup(mapped(pos+1+cellPos), nil, attrs[cellPos])
	}
	if shrunk {
		// Row widths are only known once the shrunk cells are mapped.
		return true
	}

	short := 0
	for _, n := range mustAdd {
		if n > 0 {
			short++
		}
	}
	padStart := short == 1 && mustAdd[0] > 0 && !hasRowspan(table.Child(0))
	types := tableTypes(table.Type().Schema())
	padded := false
	for i, rowPos := 0, pos+1; i < m.Height; i++ {
		row := table.Child(i)
		end := rowPos + row.NodeSize()
		if add := mustAdd[i]; add > 0 {
			typ := types.Cell
			if fc := row.FirstChild(); fc != nil {
				typ = types.ForRole(fc.Role())
			}
			nodes := make([]*model.Node, 0, add)
			for j := 0; j < add; j++ {
				nodes = append(nodes, typ.CreateAndFill(nil))
			}
			side := end - 1
			if padStart {
				side = rowPos + 1
			}
			tr.Insert(mapped(side), nodes...)
			padded = true
		}
		rowPos = end
	}
	return padded || len(changed) > 0
}

// hasRowspan reports whether a cell of row reaches into the rows below.
func hasRowspan(row *model.Node) bool {
	for i := 0; i < row.ChildCount(); i++ {
		if CellAttrsOf(row.Child(i)).Rowspan > 1 {
			return true
		}
	}
	return false
}
