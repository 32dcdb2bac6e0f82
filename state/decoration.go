package state

import "sort"

// DecorationKind tells the host how to draw a decoration.
type DecorationKind uint8

const (
	// DecorationNode styles the node spanning [From, To).
	DecorationNode DecorationKind = iota
	// DecorationWidget draws a marker at From.
	DecorationWidget
)

// Decoration is a drawing hint attached to a document range.
type Decoration struct {
	Kind  DecorationKind
	From  int
	To    int
	Class string
}

// NodeDecoration styles the node at [from, to) with class.
func NodeDecoration(from, to int, class string) Decoration {
	return Decoration{Kind: DecorationNode, From: from, To: to, Class: class}
}

// WidgetDecoration places a marker with class at pos.
func WidgetDecoration(pos int, class string) Decoration {
	return Decoration{Kind: DecorationWidget, From: pos, To: pos, Class: class}
}

// DecorationSet is an ordered, immutable set of decorations.
type DecorationSet struct {
	decos []Decoration
}

// NewDecorationSet sorts decos by position.
func NewDecorationSet(decos []Decoration) *DecorationSet {
	out := append([]Decoration(nil), decos...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return &DecorationSet{decos: out}
}

func (d *DecorationSet) Len() int {
	if d == nil {
		return 0
	}
	return len(d.decos)
}

// All returns the decorations in order.
func (d *DecorationSet) All() []Decoration {
	if d == nil {
		return nil
	}
	return append([]Decoration(nil), d.decos...)
}

// Find returns decorations touching [from, to].
func (d *DecorationSet) Find(from, to int) []Decoration {
	var out []Decoration
	for _, deco := range d.All() {
		if deco.From <= to && deco.To >= from {
			out = append(out, deco)
		}
	}
	return out
}
