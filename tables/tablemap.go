package tables

import (
	"fmt"
	"strconv"
	"time"

	"github.com/iw2rmb/tessera/model"
	"github.com/patrickmn/go-cache"
)

// Rect is a rectangle of grid cells. Right and Bottom are exclusive.
type Rect struct {
	Left, Top, Right, Bottom int
}

// Width is the number of columns covered.
func (r Rect) Width() int { return r.Right - r.Left }

// Height is the number of rows covered.
func (r Rect) Height() int { return r.Bottom - r.Top }

// ProblemKind classifies a shape defect found while mapping a table.
type ProblemKind uint8

const (
	ProblemCollision ProblemKind = iota + 1
	ProblemMissing
	ProblemOverlongRowspan
	ProblemColwidthMismatch
	ProblemZeroSized
)

func (k ProblemKind) String() string {
	switch k {
	case ProblemCollision:
		return "collision"
	case ProblemMissing:
		return "missing"
	case ProblemOverlongRowspan:
		return "overlong_rowspan"
	case ProblemColwidthMismatch:
		return "colwidth_mismatch"
	case ProblemZeroSized:
		return "zero_sized"
	default:
		return "unknown"
	}
}

// Problem is a shape defect. Which fields are set depends on Kind.
type Problem struct {
	Kind ProblemKind
	// Pos is the relative position of the offending cell.
	Pos int
	// Row is the row the defect was found in.
	Row int
	// N is the number of columns (collision, missing) or rows (overlong
	// rowspan) affected.
	N int
	// Colwidth is the corrected width array (colwidth mismatch).
	Colwidth []int
}

// MapError reports a TableMap used with a position or node it does not
// describe.
type MapError struct {
	Msg string
}

func (e *MapError) Error() string { return "tables: " + e.Msg }

// TableMap is the grid projection of one table node.
type TableMap struct {
	Width  int
	Height int
	// Map holds, row by row, the position of the cell covering each grid
	// cell, relative to the start of the table content.
	Map []int
	// Problems lists shape defects; nil for a well-formed table.
	Problems []Problem
}

// Every edit inside a table makes a new table node, so cached maps of old
// nodes go stale quickly. Entries expire after mapCacheTTL and the cache is
// flushed whenever it grows past mapCacheLimit entries.
const (
	mapCacheTTL   = 30 * time.Second
	mapCacheLimit = 4096
)

var mapCache = cache.New(mapCacheTTL, time.Minute)

// TableMapFor returns the map of table, computing it on first use. It panics
// with *MapError when table is not a table node.
func TableMapFor(table *model.Node) *TableMap {
	key := strconv.FormatUint(table.ID(), 10)
	if v, ok := mapCache.Get(key); ok {
		return v.(*TableMap)
	}
	m := computeMap(table)
	if mapCache.ItemCount() >= mapCacheLimit {
		mapCache.Flush()
	}
	mapCache.Set(key, m, cache.DefaultExpiration)
	return m
}

type colWidthVote struct {
	width int
	count int
}

func computeMap(table *model.Node) *TableMap {
	if table.Role() != model.RoleTable {
		panic(&MapError{Msg: "not a table node: " + table.Type().Name})
	}
	width, height := findWidth(table), table.ChildCount()
	m := &TableMap{Width: width, Height: height, Map: make([]int, width*height)}
	votes := make([][]colWidthVote, width)

	mapPos, pos := 0, 0
	for row := 0; row < height; row++ {
		rowNode := table.Child(row)
		pos++
		for i := 0; ; i++ {
			for mapPos < len(m.Map) && m.Map[mapPos] != 0 {
				mapPos++
			}
			if i == rowNode.ChildCount() {
				break
			}
			cellNode := rowNode.Child(i)
			attrs := CellAttrsOf(cellNode)
			for h := 0; h < attrs.Rowspan; h++ {
				if h+row >= height {
					m.Problems = append(m.Problems, Problem{Kind: ProblemOverlongRowspan, Pos: pos, Row: row, N: attrs.Rowspan - h})
					break
				}
				start := mapPos + h*width
				for w := 0; w < attrs.Colspan; w++ {
					idx := start + w
					if idx < len(m.Map) && m.Map[idx] == 0 {
						m.Map[idx] = pos
					} else {
						m.Problems = append(m.Problems, Problem{Kind: ProblemCollision, Pos: pos, Row: row, N: attrs.Colspan - w})
					}
					if w < len(attrs.Colwidth) && attrs.Colwidth[w] > 0 && idx < len(m.Map) && width > 0 {
						col := idx % width
						votes[col] = voteWidth(votes[col], attrs.Colwidth[w])
					}
				}
			}
			mapPos += attrs.Colspan
			pos += cellNode.NodeSize()
		}
		expected := (row + 1) * width
		missing := 0
		for mapPos < expected {
			if m.Map[mapPos] == 0 {
				missing++
			}
			mapPos++
		}
		if missing > 0 {
			m.Problems = append(m.Problems, Problem{Kind: ProblemMissing, Row: row, N: missing})
		}
		pos++
	}

	if width == 0 || height == 0 {
		m.Problems = append(m.Problems, Problem{Kind: ProblemZeroSized})
	}

	winners := make([]int, width)
	bad := false
	for col, vs := range votes {
		best := colWidthVote{}
		for _, v := range vs {
			if v.count > best.count {
				best = v
			}
		}
		winners[col] = best.width
		if best.count > 0 && best.count < height {
			bad = true
		}
	}
	if bad {
		m.findBadColWidths(winners, table)
	}
	return m
}

func voteWidth(vs []colWidthVote, width int) []colWidthVote {
	for i := range vs {
		if vs[i].width == width {
			vs[i].count++
			return vs
		}
	}
	return append(vs, colWidthVote{width: width, count: 1})
}

// findBadColWidths records a colwidth mismatch for every cell whose widths
// differ from the most common width of their columns.
func (m *TableMap) findBadColWidths(winners []int, table *model.Node) {
	seen := make(map[int]bool)
	var mismatches []Problem
	for i, pos := range m.Map {
		if seen[pos] {
			continue
		}
		seen[pos] = true
		node := table.NodeAt(pos)
		if node == nil {
			panic(&MapError{Msg: fmt.Sprintf("no cell with offset %d found", pos)})
		}
		attrs := CellAttrsOf(node)
		var updated []int
		for j := 0; j < attrs.Colspan; j++ {
			w := winners[(i+j)%m.Width]
			if w == 0 {
				continue
			}
			if j < len(attrs.Colwidth) && attrs.Colwidth[j] == w {
				continue
			}
			if updated == nil {
				updated = make([]int, attrs.Colspan)
				copy(updated, attrs.Colwidth)
			}
			updated[j] = w
		}
		if updated != nil {
			mismatches = append(mismatches, Problem{Kind: ProblemColwidthMismatch, Pos: pos, Colwidth: updated})
		}
	}
	m.Problems = append(mismatches, m.Problems...)
}

func findWidth(table *model.Node) int {
	width := -1
	hasRowspan := false
	for row := 0; row < table.ChildCount(); row++ {
		rowNode := table.Child(row)
		rowWidth := 0
		if hasRowspan {
			for j := 0; j < row; j++ {
				prev := table.Child(j)
				for i := 0; i < prev.ChildCount(); i++ {
					a := CellAttrsOf(prev.Child(i))
					if j+a.Rowspan > row {
						rowWidth += a.Colspan
					}
				}
			}
		}
		for i := 0; i < rowNode.ChildCount(); i++ {
			a := CellAttrsOf(rowNode.Child(i))
			rowWidth += a.Colspan
			if a.Rowspan > 1 {
				hasRowspan = true
			}
		}
		if rowWidth > width {
			width = rowWidth
		}
	}
	if width < 0 {
		return 0
	}
	return width
}

// FindCell returns the rectangle covered by the cell at pos. It panics with
// *MapError when no cell starts at pos.
func (m *TableMap) FindCell(pos int) Rect {
	for i, cur := range m.Map {
		if cur != pos {
			continue
		}
		left, top := i%m.Width, i/m.Width
		right, bottom := left+1, top+1
		for j := 1; right < m.Width && m.Map[i+j] == cur; j++ {
			right++
		}
		for j := 1; bottom < m.Height && m.Map[i+m.Width*j] == cur; j++ {
			bottom++
		}
		return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
	}
	panic(&MapError{Msg: fmt.Sprintf("no cell with offset %d found", pos)})
}

// ColCount returns the leftmost column of the cell at pos.
func (m *TableMap) ColCount(pos int) int {
	for i, cur := range m.Map {
		if cur == pos {
			return i % m.Width
		}
	}
	panic(&MapError{Msg: fmt.Sprintf("no cell with offset %d found", pos)})
}

// Axis is a movement axis in the grid.
type Axis uint8

const (
	Horizontal Axis = iota
	Vertical
)

// NextCell returns the cell next to the one at pos in direction dir along
// axis, or false at the table edge.
func (m *TableMap) NextCell(pos int, axis Axis, dir int) (int, bool) {
	r := m.FindCell(pos)
	if axis == Horizontal {
		if (dir < 0 && r.Left == 0) || (dir >= 0 && r.Right == m.Width) {
			return 0, false
		}
		col := r.Right
		if dir < 0 {
			col = r.Left - 1
		}
		return m.Map[r.Top*m.Width+col], true
	}
	if (dir < 0 && r.Top == 0) || (dir >= 0 && r.Bottom == m.Height) {
		return 0, false
	}
	row := r.Bottom
	if dir < 0 {
		row = r.Top - 1
	}
	return m.Map[r.Left+m.Width*row], true
}

// RectBetween returns the smallest rectangle covering the cells at a and b.
func (m *TableMap) RectBetween(a, b int) Rect {
	ra, rb := m.FindCell(a), m.FindCell(b)
	return Rect{
		Left:   min(ra.Left, rb.Left),
		Top:    min(ra.Top, rb.Top),
		Right:  max(ra.Right, rb.Right),
		Bottom: max(ra.Bottom, rb.Bottom),
	}
}

// CellsInRect returns the positions of every cell that overlaps rect, each
// once, in row-major order of first appearance.
func (m *TableMap) CellsInRect(rect Rect) []int {
	var out []int
	seen := make(map[int]bool)
	for row := rect.Top; row < rect.Bottom; row++ {
		for col := rect.Left; col < rect.Right; col++ {
			pos := m.Map[row*m.Width+col]
			if seen[pos] {
				continue
			}
			seen[pos] = true
			out = append(out, pos)
		}
	}
	return out
}

// PositionAt returns the position at which a cell starting at (row, col)
// would be inserted: the first cell of the row at or after col that starts
// in this row, or the end of the row.
func (m *TableMap) PositionAt(row, col int, table *model.Node) int {
	rowStart := 0
	for i := 0; ; i++ {
		rowEnd := rowStart + table.Child(i).NodeSize()
		if i == row {
			index := col + row*m.Width
			rowEndIndex := (row + 1) * m.Width
			for index < rowEndIndex && m.Map[index] < rowStart {
				index++
			}
			if index == rowEndIndex {
				return rowEnd - 1
			}
			return m.Map[index]
		}
		rowStart = rowEnd
	}
}
