package model

// Slice is a piece of a document: a fragment plus the depth to which its
// start and end are open.
type Slice struct {
	Content   Fragment
	OpenStart int
	OpenEnd   int
}

// EmptySlice is the slice without content.
var EmptySlice = Slice{}

// NewSlice builds a slice.
func NewSlice(content Fragment, openStart, openEnd int) Slice {
	return Slice{Content: content, OpenStart: openStart, OpenEnd: openEnd}
}

// Size is the number of positions the slice adds when inserted.
func (s Slice) Size() int { return s.Content.size - s.OpenStart - s.OpenEnd }

func (s Slice) Eq(other Slice) bool {
	return s.Content.Eq(other.Content) && s.OpenStart == other.OpenStart && s.OpenEnd == other.OpenEnd
}
