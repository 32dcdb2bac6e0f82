package state

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/iw2rmb/tessera/model"
)

// SelectionJSON is the serialized form of a selection.
type SelectionJSON struct {
	Type   string `json:"type"`
	Anchor int    `json:"anchor"`
	Head   int    `json:"head"`
}

// SelectionDecoder rebuilds a selection of one registered type.
type SelectionDecoder func(doc *model.Node, data SelectionJSON) (Selection, error)

var (
	selectionTypesMu sync.RWMutex
	selectionTypes   = map[string]SelectionDecoder{}
)

// RegisterSelectionType registers a decoder under id. Registering the same
// id twice panics.
func RegisterSelectionType(id string, decode SelectionDecoder) {
	selectionTypesMu.Lock()
	defer selectionTypesMu.Unlock()
	if _, ok := selectionTypes[id]; ok {
		panic(fmt.Sprintf("state: duplicate selection type %q", id))
	}
	selectionTypes[id] = decode
}

func init() {
	RegisterSelectionType("text", func(doc *model.Node, data SelectionJSON) (Selection, error) {
		if err := checkPositions(doc, data.Anchor, data.Head); err != nil {
			return nil, err
		}
		return CreateTextSelection(doc, data.Anchor, data.Head), nil
	})
	RegisterSelectionType("node", func(doc *model.Node, data SelectionJSON) (Selection, error) {
		if err := checkPositions(doc, data.Anchor); err != nil {
			return nil, err
		}
		pos := doc.Resolve(data.Anchor)
		if pos.NodeAfter() == nil {
			return nil, fmt.Errorf("no node at %d", data.Anchor)
		}
		return NewNodeSelection(pos), nil
	})
	RegisterSelectionType("all", func(doc *model.Node, _ SelectionJSON) (Selection, error) {
		return NewAllSelection(doc), nil
	})
}

func checkPositions(doc *model.Node, positions ...int) error {
	for _, p := range positions {
		if p < 0 || p > doc.Content().Size() {
			return fmt.Errorf("position %d out of range", p)
		}
	}
	return nil
}

// SelectionFromJSON decodes a selection in doc.
func SelectionFromJSON(doc *model.Node, data []byte) (Selection, error) {
	var raw SelectionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("state: decode selection: %w", err)
	}
	return SelectionFromValue(doc, raw)
}

// SelectionFromValue rebuilds a selection from its decoded form.
func SelectionFromValue(doc *model.Node, raw SelectionJSON) (Selection, error) {
	selectionTypesMu.RLock()
	decode, ok := selectionTypes[raw.Type]
	selectionTypesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("state: unknown selection type %q", raw.Type)
	}
	sel, err := decode(doc, raw)
	if err != nil {
		return nil, fmt.Errorf("state: %s selection: %w", raw.Type, err)
	}
	return sel, nil
}
