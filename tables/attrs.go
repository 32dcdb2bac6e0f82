package tables

import (
	"fmt"

	"github.com/iw2rmb/tessera/model"
)

// CellAttrs is the typed view of the span attributes of a cell.
type CellAttrs struct {
	Colspan  int
	Rowspan  int
	Colwidth []int
}

// AttrError reports cell attributes that fail the shape check.
type AttrError struct {
	Name  string
	Value any
}

func (e *AttrError) Error() string {
	return fmt.Sprintf("tables: invalid cell attribute %s=%v", e.Name, e.Value)
}

// CellAttrsOf reads the span attributes of cell. It panics with *AttrError
// when they have the wrong shape.
func CellAttrsOf(cell *model.Node) CellAttrs {
	return cellAttrsFrom(cell.Attrs())
}

func cellAttrsFrom(attrs model.Attrs) CellAttrs {
	out := CellAttrs{
		Colspan: spanAttr(attrs, "colspan"),
		Rowspan: spanAttr(attrs, "rowspan"),
	}
	switch w := attrs["colwidth"].(type) {
	case nil:
	case []int:
		out.Colwidth = w
	default:
		panic(&AttrError{Name: "colwidth", Value: w})
	}
	return out
}

func spanAttr(attrs model.Attrs, name string) int {
	v, ok := attrs[name]
	if !ok || v == nil {
		return 1
	}
	n, ok := v.(int)
	if !ok || n < 1 {
		panic(&AttrError{Name: name, Value: v})
	}
	return n
}

// RemoveColSpan returns attrs with n columns removed at pos within the
// cell's span. The colwidth is dropped when no fixed width remains.
func RemoveColSpan(attrs model.Attrs, pos, n int) model.Attrs {
	a := cellAttrsFrom(attrs)
	out := attrs.With("colspan", a.Colspan-n)
	if a.Colwidth != nil {
		w := make([]int, 0, len(a.Colwidth))
		w = append(w, a.Colwidth[:min(pos, len(a.Colwidth))]...)
		if pos+n < len(a.Colwidth) {
			w = append(w, a.Colwidth[pos+n:]...)
		}
		if !anyPositive(w) {
			out["colwidth"] = nil
		} else {
			out["colwidth"] = w
		}
	}
	return out
}

// AddColSpan returns attrs with n columns inserted at pos within the cell's
// span. Inserted columns have no fixed width.
func AddColSpan(attrs model.Attrs, pos, n int) model.Attrs {
	a := cellAttrsFrom(attrs)
	out := attrs.With("colspan", a.Colspan+n)
	if a.Colwidth != nil {
		pos = min(pos, len(a.Colwidth))
		w := make([]int, 0, len(a.Colwidth)+n)
		w = append(w, a.Colwidth[:pos]...)
		w = append(w, make([]int, n)...)
		w = append(w, a.Colwidth[pos:]...)
		out["colwidth"] = w
	}
	return out
}

func anyPositive(ws []int) bool {
	for _, w := range ws {
		if w > 0 {
			return true
		}
	}
	return false
}
