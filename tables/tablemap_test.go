package tables

import (
	"reflect"
	"testing"
)

// spanned is
//
//	a a b
//	c d e
//	f d g
func spanned() *TableMap {
	return TableMapFor(table(
		row(cs(2, 1, "a"), c("b")),
		row(c("c"), cs(1, 2, "d"), c("e")),
		row(c("f"), c("g")),
	))
}

func TestTableMap_Spans(t *testing.T) {
	m := spanned()
	if m.Width != 3 || m.Height != 3 {
		t.Fatalf("size=%dx%d, want 3x3", m.Width, m.Height)
	}
	if got, want := len(m.Map), m.Width*m.Height; got != want {
		t.Fatalf("len(map)=%d, want %d", got, want)
	}
	if got, want := m.Map, []int{1, 1, 6, 13, 18, 23, 30, 18, 35}; !reflect.DeepEqual(got, want) {
		t.Fatalf("map=%v, want %v", got, want)
	}
	if len(m.Problems) != 0 {
		t.Fatalf("problems=%v, want none", m.Problems)
	}
}

func TestTableMap_FindCell(t *testing.T) {
	m := spanned()
	cases := []struct {
		pos  int
		want Rect
	}{
		{1, Rect{Left: 0, Top: 0, Right: 2, Bottom: 1}},
		{18, Rect{Left: 1, Top: 1, Right: 2, Bottom: 3}},
		{35, Rect{Left: 2, Top: 2, Right: 3, Bottom: 3}},
	}
	for _, tc := range cases {
		if got := m.FindCell(tc.pos); got != tc.want {
			t.Fatalf("FindCell(%d)=%+v, want %+v", tc.pos, got, tc.want)
		}
	}
}

func TestTableMap_FindCellUnknownPanics(t *testing.T) {
	defer func() {
		if _, ok := recover().(*MapError); !ok {
			t.Fatalf("expected *MapError panic")
		}
	}()
	spanned().FindCell(2)
}

func TestTableMap_RectBetweenSameCellIsCell(t *testing.T) {
	m := spanned()
	seen := make(map[int]bool)
	for _, pos := range m.Map {
		if seen[pos] {
			continue
		}
		seen[pos] = true
		if got, want := m.RectBetween(pos, pos), m.FindCell(pos); got != want {
			t.Fatalf("RectBetween(%d,%d)=%+v, want %+v", pos, pos, got, want)
		}
	}
}

func TestTableMap_CellsInRectDistinct(t *testing.T) {
	m := spanned()
	got := m.CellsInRect(Rect{Left: 0, Top: 0, Right: 3, Bottom: 3})
	if want := []int{1, 6, 13, 18, 23, 30, 35}; !reflect.DeepEqual(got, want) {
		t.Fatalf("cells=%v, want %v", got, want)
	}
	// A rect cutting through spanning cells still lists each once.
	got = m.CellsInRect(Rect{Left: 1, Top: 0, Right: 2, Bottom: 3})
	if want := []int{1, 18}; !reflect.DeepEqual(got, want) {
		t.Fatalf("column cells=%v, want %v", got, want)
	}
}

func TestTableMap_NextCell(t *testing.T) {
	m := spanned()
	cases := []struct {
		pos  int
		axis Axis
		dir  int
		want int
		ok   bool
	}{
		{13, Horizontal, 1, 18, true},
		{13, Horizontal, -1, 0, false},
		{30, Horizontal, 1, 18, true},
		{18, Vertical, 1, 0, false},
		{18, Vertical, -1, 1, true},
		{6, Vertical, 1, 23, true},
	}
	for _, tc := range cases {
		got, ok := m.NextCell(tc.pos, tc.axis, tc.dir)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Fatalf("NextCell(%d,%d,%d)=(%d,%v), want (%d,%v)", tc.pos, tc.axis, tc.dir, got, ok, tc.want, tc.ok)
		}
	}
}

func TestTableMap_PositionAtAndColCount(t *testing.T) {
	tbl := table(
		row(cs(2, 1, "a"), c("b")),
		row(c("c"), cs(1, 2, "d"), c("e")),
		row(c("f"), c("g")),
	)
	m := TableMapFor(tbl)
	if got, want := m.PositionAt(2, 1, tbl), 35; got != want {
		t.Fatalf("PositionAt(2,1)=%d, want %d", got, want)
	}
	if got, want := m.PositionAt(0, 3, tbl), 11; got != want {
		t.Fatalf("PositionAt(0,3)=%d, want %d", got, want)
	}
	if got, want := m.ColCount(35), 2; got != want {
		t.Fatalf("ColCount(35)=%d, want %d", got, want)
	}
}

func TestTableMapFor_CachedPerNode(t *testing.T) {
	tbl := table(row(c("a")))
	if TableMapFor(tbl) != TableMapFor(tbl) {
		t.Fatalf("expected the cached map for the same node")
	}
	if TableMapFor(tbl) == TableMapFor(tbl.Copy(tbl.Content())) {
		t.Fatalf("expected a fresh map for a new node")
	}
}

func TestTableMap_Problems(t *testing.T) {
	cases := []struct {
		name string
		m    *TableMap
		want ProblemKind
	}{
		{"missing", TableMapFor(table(row(c("a"), c("b")), row(c("c")))), ProblemMissing},
		{"overlong", TableMapFor(table(row(cs(1, 3, "a"), c("b")), row(c("c")))), ProblemOverlongRowspan},
		{"collision", TableMapFor(table(row(c("a"), cs(1, 2, "b")), row(cs(2, 1, "c")))), ProblemCollision},
		{"colwidth", TableMapFor(table(row(cw("a", 40)), row(cw("b", 40)), row(cw("c", 30)))), ProblemColwidthMismatch},
		{"zero", TableMapFor(table()), ProblemZeroSized},
	}
	for _, tc := range cases {
		found := false
		for _, prob := range tc.m.Problems {
			if prob.Kind == tc.want {
				found = true
			}
		}
		if !found {
			t.Fatalf("%s: problems=%v, want a %v", tc.name, tc.m.Problems, tc.want)
		}
	}
}

func TestTableMap_ColwidthMajority(t *testing.T) {
	m := TableMapFor(table(row(cw("a", 40)), row(cw("b", 40)), row(cw("c", 30))))
	if got, want := m.Problems[0].Colwidth, []int{40}; !reflect.DeepEqual(got, want) {
		t.Fatalf("colwidth=%v, want %v", got, want)
	}
	if got, want := m.Problems[0].Pos, 15; got != want {
		t.Fatalf("pos=%d, want %d", got, want)
	}
}

func TestAttrs_ColSpanEdits(t *testing.T) {
	a := cw("x", 10, 20, 30).Attrs()
	removed := cellAttrsFrom(RemoveColSpan(a, 1, 1))
	if removed.Colspan != 2 || !reflect.DeepEqual(removed.Colwidth, []int{10, 30}) {
		t.Fatalf("removed=%+v", removed)
	}
	added := cellAttrsFrom(AddColSpan(a, 1, 2))
	if added.Colspan != 5 || !reflect.DeepEqual(added.Colwidth, []int{10, 0, 0, 20, 30}) {
		t.Fatalf("added=%+v", added)
	}
	cleared := cellAttrsFrom(RemoveColSpan(AddColSpan(c("y").Attrs(), 0, 1), 0, 1))
	if cleared.Colspan != 1 || cleared.Colwidth != nil {
		t.Fatalf("cleared=%+v", cleared)
	}
}

func TestCellAttrsOf_BadShapePanics(t *testing.T) {
	defer func() {
		if _, ok := recover().(*AttrError); !ok {
			t.Fatalf("expected *AttrError panic")
		}
	}()
	CellAttrsOf(testSchema.TableTypes().Cell.Create(map[string]any{"colspan": 0}, c("").Content()))
}

func TestTableMapFor_CacheStaysBounded(t *testing.T) {
	for i := 0; i < mapCacheLimit+100; i++ {
		TableMapFor(table(row(c("a"))))
		if got := mapCache.ItemCount(); got > mapCacheLimit {
			t.Fatalf("cached maps=%d, want at most %d", got, mapCacheLimit)
		}
	}
	tbl := table(row(c("a"), c("b")))
	if TableMapFor(tbl) != TableMapFor(tbl) {
		t.Fatalf("expected the latest map to stay cached")
	}
}
