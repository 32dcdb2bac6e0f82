package transform

import (
	"fmt"

	"github.com/iw2rmb/tessera/model"
)

// Transform accumulates steps against a document. Builder methods panic
// with *StepError when given positions that do not fit the current
// document; callers compute positions from the current Doc and Mapping.
type Transform struct {
	Doc     *model.Node
	Steps   []Step
	Docs    []*model.Node
	Mapping *Mapping
}

// New starts a transform on doc.
func New(doc *model.Node) *Transform {
	return &Transform{Doc: doc, Mapping: NewMapping()}
}

// Before returns the document the transform started from.
func (tr *Transform) Before() *model.Node {
	if len(tr.Docs) > 0 {
		return tr.Docs[0]
	}
	return tr.Doc
}

// DocChanged reports whether any step was applied.
func (tr *Transform) DocChanged() bool { return len(tr.Steps) > 0 }

// MaybeStep applies step, returning an error instead of panicking.
func (tr *Transform) MaybeStep(step Step) error {
	doc, err := step.Apply(tr.Doc)
	if err != nil {
		return &StepError{Step: step, Err: err}
	}
	tr.Docs = append(tr.Docs, tr.Doc)
	tr.Steps = append(tr.Steps, step)
	tr.Mapping.AppendMap(step.GetMap())
	tr.Doc = doc
	return nil
}

// Step applies step and panics when it fails.
func (tr *Transform) Step(step Step) *Transform {
	if err := tr.MaybeStep(step); err != nil {
		panic(err)
	}
	return tr
}

// Replace replaces [from, to) with slice.
func (tr *Transform) Replace(from, to int, slice model.Slice) *Transform {
	if from == to && slice.Size() == 0 {
		return tr
	}
	return tr.Step(&ReplaceStep{From: from, To: to, Slice: slice})
}

// ReplaceWith replaces [from, to) with nodes.
func (tr *Transform) ReplaceWith(from, to int, nodes ...*model.Node) *Transform {
	return tr.Replace(from, to, model.NewSlice(model.FragmentFrom(nodes...), 0, 0))
}

// Insert inserts nodes at pos.
func (tr *Transform) Insert(pos int, nodes ...*model.Node) *Transform {
	return tr.ReplaceWith(pos, pos, nodes...)
}

// Delete deletes [from, to).
func (tr *Transform) Delete(from, to int) *Transform {
	return tr.Replace(from, to, model.EmptySlice)
}

// InsertText replaces [from, to) with text in the schema's text type.
func (tr *Transform) InsertText(text string, from, to int) *Transform {
	if text == "" {
		return tr.Delete(from, to)
	}
	schema := tr.Doc.Type().Schema()
	return tr.ReplaceWith(from, to, schema.Text(text))
}

// SetNodeMarkup changes the node at pos. A nil typ keeps the node's type.
func (tr *Transform) SetNodeMarkup(pos int, typ *model.NodeType, attrs model.Attrs) *Transform {
	return tr.Step(&SetNodeMarkupStep{Pos: pos, Type: typ, Attrs: attrs})
}

// SetNodeAttribute sets a single attribute on the node at pos.
func (tr *Transform) SetNodeAttribute(pos int, name string, value any) *Transform {
	node := tr.Doc.NodeAt(pos)
	if node == nil {
		panic(&StepError{Err: fmt.Errorf("no node at position %d", pos)})
	}
	return tr.SetNodeMarkup(pos, nil, node.Attrs().With(name, value))
}
