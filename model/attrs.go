package model

import "reflect"

// Attrs holds node attributes. Attrs attached to a node are shared and must
// be treated as read-only; use With to derive a modified copy.
type Attrs map[string]any

func (a Attrs) clone() Attrs {
	if a == nil {
		return nil
	}
	out := make(Attrs, len(a))
	for k, v := range a {
		if ints, ok := v.([]int); ok {
			v = append([]int(nil), ints...)
		}
		out[k] = v
	}
	return out
}

// With returns a copy of a with key set to value.
func (a Attrs) With(key string, value any) Attrs {
	out := a.clone()
	if out == nil {
		out = Attrs{}
	}
	out[key] = value
	return out
}

// Equal reports whether a and b hold the same values.
func (a Attrs) Equal(b Attrs) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			return false
		}
		if !AttrValueEqual(av, bv) {
			return false
		}
	}
	return true
}

// AttrValueEqual compares two attribute values. Untyped and typed nils are
// equal.
func AttrValueEqual(a, b any) bool {
	if isNilValue(a) || isNilValue(b) {
		return isNilValue(a) && isNilValue(b)
	}
	return reflect.DeepEqual(a, b)
}

func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Pointer:
		return rv.IsNil()
	}
	return false
}
