package model

import (
	"encoding/json"
	"fmt"
)

type nodeJSON struct {
	Type    string            `json:"type"`
	Attrs   map[string]any    `json:"attrs,omitempty"`
	Content []json.RawMessage `json:"content,omitempty"`
	Text    string            `json:"text,omitempty"`
}

// MarshalJSON encodes n in the {type, attrs, content, text} shape.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := struct {
		Type    string         `json:"type"`
		Attrs   map[string]any `json:"attrs,omitempty"`
		Content []*Node        `json:"content,omitempty"`
		Text    string         `json:"text,omitempty"`
	}{
		Type:    n.typ.Name,
		Content: n.content.nodes,
		Text:    n.text,
	}
	if len(n.attrs) > 0 {
		out.Attrs = n.attrs
	}
	return json.Marshal(out)
}

// NodeFromJSON decodes a node produced by MarshalJSON against schema.
func NodeFromJSON(schema *Schema, data []byte) (*Node, error) {
	var raw nodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("model: decode node: %w", err)
	}
	t := schema.Node(raw.Type)
	if t == nil {
		return nil, fmt.Errorf("model: unknown node type %q", raw.Type)
	}
	if t.text {
		if raw.Text == "" {
			return nil, fmt.Errorf("model: empty text node")
		}
		return schema.Text(raw.Text), nil
	}
	children := make([]*Node, 0, len(raw.Content))
	for i, c := range raw.Content {
		child, err := NodeFromJSON(schema, c)
		if err != nil {
			return nil, fmt.Errorf("model: %s child %d: %w", raw.Type, i, err)
		}
		children = append(children, child)
	}
	return t.Create(normalizeAttrs(raw.Attrs), FragmentFrom(children...)), nil
}

// normalizeAttrs turns JSON numbers back into ints and number arrays into
// []int so decoded attrs compare equal to constructed ones.
func normalizeAttrs(in map[string]any) Attrs {
	if in == nil {
		return nil
	}
	out := make(Attrs, len(in))
	for k, v := range in {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch x := v.(type) {
	case float64:
		if x == float64(int(x)) {
			return int(x)
		}
		return x
	case []any:
		ints := make([]int, 0, len(x))
		for _, e := range x {
			f, ok := e.(float64)
			if !ok || f != float64(int(f)) {
				return x
			}
			ints = append(ints, int(f))
		}
		return ints
	default:
		return v
	}
}
