package state

import (
	"time"

	"github.com/iw2rmb/tessera/model"
	"github.com/iw2rmb/tessera/transform"
)

// Meta keys understood by the state package.
const (
	// MetaAddToHistory set to false keeps a transaction out of the undo
	// history.
	MetaAddToHistory = "addToHistory"
	// MetaAppendedTransaction is set on transactions produced by
	// AppendTransaction hooks; its value is the root transaction.
	MetaAppendedTransaction = "appendedTransaction"
)

// Transaction is a Transform that also tracks the selection and carries
// metadata for plugins.
type Transaction struct {
	*transform.Transform

	Time time.Time

	curSelection    Selection
	curSelectionFor int
	selectionSet    bool
	meta            map[any]any
}

func newTransaction(s *EditorState) *Transaction {
	return &Transaction{
		Transform:    transform.New(s.doc),
		Time:         time.Now(),
		curSelection: s.selection,
	}
}

// Selection returns the selection, mapped through the steps added since it
// was set.
func (tr *Transaction) Selection() Selection {
	if tr.curSelectionFor < len(tr.Steps) {
		tr.curSelection = tr.curSelection.Map(tr.Doc, tr.Mapping.Slice(tr.curSelectionFor))
		tr.curSelectionFor = len(tr.Steps)
	}
	return tr.curSelection
}

// SetSelection replaces the selection. sel must belong to the current
// document.
func (tr *Transaction) SetSelection(sel Selection) *Transaction {
	if sel.ResolvedAnchor().Doc() != tr.Doc {
		panic(&model.RangeError{Msg: "selection passed to SetSelection must point at the current document"})
	}
	tr.curSelection = sel
	tr.curSelectionFor = len(tr.Steps)
	tr.selectionSet = true
	return tr
}

// SelectionSet reports whether SetSelection was called.
func (tr *Transaction) SelectionSet() bool { return tr.selectionSet }

// SetMeta stores a value under key, a *PluginKey or a string.
func (tr *Transaction) SetMeta(key, value any) *Transaction {
	if tr.meta == nil {
		tr.meta = make(map[any]any)
	}
	tr.meta[key] = value
	return tr
}

// Meta returns the value stored under key, or nil.
func (tr *Transaction) Meta(key any) any { return tr.meta[key] }

// ReplaceSelection replaces the selection with slice.
func (tr *Transaction) ReplaceSelection(slice model.Slice) *Transaction {
	tr.Selection().Replace(tr, slice)
	return tr
}

// ReplaceSelectionWith replaces the selection with node.
func (tr *Transaction) ReplaceSelectionWith(node *model.Node) *Transaction {
	tr.Selection().ReplaceWith(tr, node)
	return tr
}

// DeleteSelection deletes the selected content.
func (tr *Transaction) DeleteSelection() *Transaction {
	tr.Selection().Replace(tr, model.EmptySlice)
	return tr
}

// InsertText replaces the selection with text and puts the cursor after it.
func (tr *Transaction) InsertText(text string) *Transaction {
	sel := tr.Selection()
	if text == "" {
		return tr.DeleteSelection()
	}
	from, to := sel.From(), sel.To()
	tr.Transform.InsertText(text, from, to)
	end := tr.Mapping.Map(to, 1)
	tr.SetSelection(SelectionNear(tr.Doc.Resolve(end), -1))
	return tr
}
