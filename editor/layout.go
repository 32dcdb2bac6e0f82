package editor

import (
	"github.com/iw2rmb/tessera/internal/grapheme"
	"github.com/iw2rmb/tessera/model"
	"github.com/iw2rmb/tessera/tables"
)

type lineKind uint8

const (
	lineText lineKind = iota
	lineRule
	lineTableRow
)

// textRun is the rendered text of one textblock. start is the position of
// its first character.
type textRun struct {
	start    int
	clusters []grapheme.Cluster
}

func newTextRun(start int, block *model.Node) textRun {
	return textRun{start: start, clusters: grapheme.Clusters(block.TextContent())}
}

// end is the position after the last character of the run.
func (r textRun) end() int {
	pos := r.start
	for _, c := range r.clusters {
		pos += c.Runes
	}
	return pos
}

// cellSlot is the part of a table row line covered by one cell. left and
// right are the x positions of the borders around it.
type cellSlot struct {
	pos    int
	end    int
	left   int
	right  int
	header bool
	// cont marks lines of a rowspan below the cell's first row.
	cont bool
	runs []textRun
}

func (c cellSlot) contentWidth() int { return c.right - c.left - 1 }

type layoutLine struct {
	kind lineKind
	// pos is the position before the block for text and rule lines, and
	// before the row for table lines.
	pos   int
	run   textRun
	cells []cellSlot
}

// liveColumn overrides the width of one table column while a resize drag
// is in progress.
type liveColumn struct {
	tableStart int
	col        int
	width      int
}

type layoutCacheKey struct {
	doc      uint64
	colWidth int
	live     liveColumn
}

type layoutCache struct {
	valid bool
	key   layoutCacheKey
	lines []layoutLine
}

func (m *Model) invalidateLayoutCache() {
	m.layout.valid = false
}

func (m *Model) layoutKey() layoutCacheKey {
	return layoutCacheKey{
		doc:      m.state.Doc().ID(),
		colWidth: m.cfg.DefaultColumnWidth,
		live:     m.liveColumn(),
	}
}

func (m *Model) ensureLayout() []layoutLine {
	key := m.layoutKey()
	if m.layout.valid && m.layout.key == key {
		return m.layout.lines
	}
	m.layout = layoutCache{
		valid: true,
		key:   key,
		lines: buildLayout(m.state.Doc(), m.cfg.DefaultColumnWidth, key.live),
	}
	return m.layout.lines
}

// liveColumn reports the column being resized, if any.
func (m *Model) liveColumn() liveColumn {
	none := liveColumn{tableStart: -1, col: -1}
	rs, ok := tables.ResizeStateOf(m.state)
	if !ok || rs.Dragging == nil || rs.ActiveHandle < 0 {
		return none
	}
	pos := m.state.Doc().Resolve(rs.ActiveHandle)
	if !tables.PointsAtCell(pos) {
		return none
	}
	start := pos.Start(-1)
	tm := tables.TableMapFor(pos.Node(-1))
	col := tm.ColCount(pos.Pos()-start) + tables.CellAttrsOf(pos.NodeAfter()).Colspan - 1
	return liveColumn{tableStart: start, col: col, width: rs.LiveWidth}
}

func buildLayout(doc *model.Node, colWidth int, live liveColumn) []layoutLine {
	var lines []layoutLine
	doc.Content().ForEach(func(child *model.Node, offset, _ int) {
		switch {
		case child.Role() == model.RoleTable:
			lines = append(lines, tableLines(child, offset, colWidth, live)...)
		case child.IsTextblock():
			lines = append(lines, layoutLine{kind: lineText, pos: offset, run: newTextRun(offset+1, child)})
		default:
			lines = append(lines, layoutLine{kind: lineRule, pos: offset})
		}
	})
	return lines
}

// columnWidths returns the rendered width of every column: the first
// stored width found for it, or colWidth.
func columnWidths(table *model.Node, tm *tables.TableMap, colWidth int) []int {
	widths := make([]int, tm.Width)
	for col := 0; col < tm.Width; col++ {
		for row := 0; row < tm.Height; row++ {
			pos := tm.Map[row*tm.Width+col]
			attrs := tables.CellAttrsOf(table.NodeAt(pos))
			i := col - tm.ColCount(pos)
			if i < len(attrs.Colwidth) && attrs.Colwidth[i] > 0 {
				widths[col] = attrs.Colwidth[i]
				break
			}
		}
		if widths[col] == 0 {
			widths[col] = colWidth
		}
	}
	return widths
}

func tableLines(table *model.Node, tablePos, colWidth int, live liveColumn) []layoutLine {
	tm := tables.TableMapFor(table)
	start := tablePos + 1
	widths := columnWidths(table, tm, colWidth)
	if live.tableStart == start && live.col >= 0 && live.col < len(widths) {
		widths[live.col] = live.width
	}
	borders := make([]int, tm.Width+1)
	for col, w := range widths {
		borders[col+1] = borders[col] + w + 1
	}

	lines := make([]layoutLine, 0, tm.Height)
	rowPos := start
	for row := 0; row < tm.Height; row++ {
		line := layoutLine{kind: lineTableRow, pos: rowPos}
		for col := 0; col < tm.Width; col++ {
			cellPos := tm.Map[row*tm.Width+col]
			if col > 0 && tm.Map[row*tm.Width+col-1] == cellPos {
				continue
			}
			rect := tm.FindCell(cellPos)
			cell := table.NodeAt(cellPos)
			slot := cellSlot{
				pos:    start + cellPos,
				end:    start + cellPos + cell.NodeSize(),
				left:   borders[rect.Left],
				right:  borders[rect.Right],
				header: cell.Role() == model.RoleHeaderCell,
				cont:   rect.Top != row,
			}
			slot.runs = cellRuns(cell, slot.pos)
			line.cells = append(line.cells, slot)
		}
		lines = append(lines, line)
		rowPos += table.Child(row).NodeSize()
	}
	return lines
}

func cellRuns(cell *model.Node, cellPos int) []textRun {
	var runs []textRun
	cell.Descendants(func(n *model.Node, pos int, _ *model.Node, _ int) bool {
		if n.IsTextblock() {
			runs = append(runs, newTextRun(cellPos+1+pos+1, n))
			return false
		}
		return true
	})
	return runs
}

// posAtColumn maps a column inside rendered runs to a document position.
// Runs are separated by a single blank column.
func posAtColumn(runs []textRun, x int) (int, bool) {
	col := 0
	for i, r := range runs {
		if i > 0 {
			col++
		}
		pos := r.start
		for _, c := range r.clusters {
			if x < col+c.Width {
				return pos, true
			}
			col += c.Width
			pos += c.Runes
		}
		if x <= col || i == len(runs)-1 {
			return pos, true
		}
	}
	return 0, false
}

// columnAtPos is the inverse of posAtColumn.
func columnAtPos(runs []textRun, pos int) (int, bool) {
	col := 0
	for i, r := range runs {
		if i > 0 {
			col++
		}
		p := r.start
		if pos < p {
			continue
		}
		for _, c := range r.clusters {
			if pos < p+c.Runes {
				return col, true
			}
			col += c.Width
			p += c.Runes
		}
		if pos == p {
			return col, true
		}
	}
	return 0, false
}

// slotAt returns the cell of line under x. A shared border belongs to the
// cell on its right; the table's right border to the last cell.
func (l layoutLine) slotAt(x int) (cellSlot, bool) {
	if l.kind != lineTableRow || len(l.cells) == 0 {
		return cellSlot{}, false
	}
	for _, c := range l.cells {
		if x >= c.left && x < c.right {
			return c, true
		}
	}
	last := l.cells[len(l.cells)-1]
	if x == last.right {
		return last, true
	}
	return cellSlot{}, false
}

// runsAt returns the runs shown at x on the line and the column where
// they start. Points beyond a table row fall into its outermost cells.
func (l layoutLine) runsAt(x int) ([]textRun, int, bool) {
	switch l.kind {
	case lineText:
		return []textRun{l.run}, 0, true
	case lineTableRow:
		slot, ok := l.slotAt(x)
		if !ok {
			if len(l.cells) == 0 {
				return nil, 0, false
			}
			slot = l.cells[len(l.cells)-1]
			if x < slot.left {
				slot = l.cells[0]
			}
		}
		return slot.runs, slot.left + 1, true
	}
	return nil, 0, false
}
