package transform

const (
	delBefore = 1
	delAfter  = 2
	delAcross = 4
	delSide   = 8
)

// MapResult is a mapped position plus information about what was deleted
// around it.
type MapResult struct {
	Pos     int
	delInfo int
}

// Deleted reports whether the content on the side the position was
// associated with was deleted.
func (r MapResult) Deleted() bool { return r.delInfo&delSide > 0 }

// DeletedBefore reports whether the token before the position was deleted.
func (r MapResult) DeletedBefore() bool { return r.delInfo&(delBefore|delAcross) > 0 }

// DeletedAfter reports whether the token after the position was deleted.
func (r MapResult) DeletedAfter() bool { return r.delInfo&(delAfter|delAcross) > 0 }

// DeletedAcross reports whether a deletion spanned the position.
func (r MapResult) DeletedAcross() bool { return r.delInfo&delAcross > 0 }

// StepMap records the ranges one step replaced as (start, oldSize, newSize)
// triples in ascending order.
type StepMap struct {
	ranges   []int
	inverted bool
}

// EmptyStepMap maps every position to itself.
var EmptyStepMap = &StepMap{}

// NewStepMap builds a map from (start, oldSize, newSize) triples.
func NewStepMap(ranges ...int) *StepMap {
	if len(ranges) == 0 {
		return EmptyStepMap
	}
	return &StepMap{ranges: append([]int(nil), ranges...)}
}

// Invert returns the map that undoes m.
func (m *StepMap) Invert() *StepMap {
	return &StepMap{ranges: m.ranges, inverted: !m.inverted}
}

// Map maps pos. assoc < 0 keeps a position at the edge of an insertion
// before it; otherwise it moves after the inserted content.
func (m *StepMap) Map(pos, assoc int) int { return m.MapResult(pos, assoc).Pos }

// MapResult maps pos and reports deletions around it.
func (m *StepMap) MapResult(pos, assoc int) MapResult {
	diff := 0
	oldIndex, newIndex := 1, 2
	if m.inverted {
		oldIndex, newIndex = 2, 1
	}
	for i := 0; i < len(m.ranges); i += 3 {
		start := m.ranges[i]
		if m.inverted {
			start -= diff
		}
		if start > pos {
			break
		}
		oldSize, newSize := m.ranges[i+oldIndex], m.ranges[i+newIndex]
		end := start + oldSize
		if pos <= end {
			side := assoc
			switch {
			case oldSize == 0:
			case pos == start:
				side = -1
			case pos == end:
				side = 1
			}
			result := start + diff
			if side >= 0 {
				result += newSize
			}
			del := delAcross
			switch pos {
			case start:
				del = delAfter
			case end:
				del = delBefore
			}
			if (assoc < 0 && pos != start) || (assoc >= 0 && pos != end) {
				del |= delSide
			}
			return MapResult{Pos: result, delInfo: del}
		}
		diff += newSize - oldSize
	}
	return MapResult{Pos: pos + diff}
}

// ForEach calls fn for every changed range with its old and new extent.
func (m *StepMap) ForEach(fn func(oldStart, oldEnd, newStart, newEnd int)) {
	diff := 0
	oldIndex, newIndex := 1, 2
	if m.inverted {
		oldIndex, newIndex = 2, 1
	}
	for i := 0; i < len(m.ranges); i += 3 {
		start := m.ranges[i]
		oldStart := start
		if m.inverted {
			oldStart = start - diff
		}
		newStart := start
		if !m.inverted {
			newStart = start + diff
		}
		oldSize, newSize := m.ranges[i+oldIndex], m.ranges[i+newIndex]
		fn(oldStart, oldStart+oldSize, newStart, newStart+newSize)
		diff += newSize - oldSize
	}
}

// Mapping is a pipeline of step maps.
type Mapping struct {
	maps     []*StepMap
	from, to int
}

// NewMapping returns a mapping over maps.
func NewMapping(maps ...*StepMap) *Mapping {
	return &Mapping{maps: maps, to: len(maps)}
}

// Maps returns the step maps the mapping covers.
func (m *Mapping) Maps() []*StepMap { return m.maps[m.from:m.to] }

// Len is the number of maps covered.
func (m *Mapping) Len() int { return m.to - m.from }

// Slice returns a mapping over the maps from index from onward.
func (m *Mapping) Slice(from int) *Mapping {
	return &Mapping{maps: m.maps, from: m.from + from, to: m.to}
}

// SliceRange returns a mapping over maps [from, to).
func (m *Mapping) SliceRange(from, to int) *Mapping {
	return &Mapping{maps: m.maps, from: m.from + from, to: m.from + to}
}

// AppendMap adds a step map to the end of the mapping.
func (m *Mapping) AppendMap(sm *StepMap) {
	m.maps = append(m.maps[:m.to:m.to], sm)
	m.to = len(m.maps)
}

// Map maps pos through every map.
func (m *Mapping) Map(pos, assoc int) int {
	for i := m.from; i < m.to; i++ {
		pos = m.maps[i].Map(pos, assoc)
	}
	return pos
}

// MapResult maps pos and accumulates deletion information.
func (m *Mapping) MapResult(pos, assoc int) MapResult {
	del := 0
	for i := m.from; i < m.to; i++ {
		r := m.maps[i].MapResult(pos, assoc)
		pos = r.Pos
		del |= r.delInfo
	}
	return MapResult{Pos: pos, delInfo: del}
}
