package state

import (
	"github.com/iw2rmb/tessera/model"
)

// DefaultHistoryLimit bounds the undo stack when HistoryOptions.Limit is 0.
const DefaultHistoryLimit = 1000

// HistoryOptions configures History.
type HistoryOptions struct {
	// Limit bounds the undo stack. Negative disables history.
	Limit int
}

type historySnapshot struct {
	doc      *model.Node
	bookmark SelectionBookmark
}

type historyState struct {
	undo []historySnapshot
	redo []historySnapshot
}

var historyKey = NewPluginKey("history")

// History returns a plugin that records a document snapshot and selection
// bookmark before every document change. Transactions appended by other
// plugins join the change of their root transaction.
func History(opts HistoryOptions) *Plugin {
	limit := opts.Limit
	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	return &Plugin{
		Key: historyKey,
		State: &StateField{
			Init: func(Config, *EditorState) any { return historyState{} },
			Apply: func(tr *Transaction, value any, oldState, _ *EditorState) any {
				h := value.(historyState)
				if next, ok := tr.Meta(historyKey).(historyState); ok {
					return next
				}
				if !tr.DocChanged() || limit < 0 {
					return h
				}
				if add, ok := tr.Meta(MetaAddToHistory).(bool); ok && !add {
					return h
				}
				if tr.Meta(MetaAppendedTransaction) != nil {
					return h
				}
				return recordUndo(h, snapshotOf(oldState), limit)
			},
		},
	}
}

func snapshotOf(s *EditorState) historySnapshot {
	return historySnapshot{doc: s.doc, bookmark: s.selection.Bookmark()}
}

func recordUndo(h historyState, prev historySnapshot, limit int) historyState {
	undo := append(append([]historySnapshot(nil), h.undo...), prev)
	if len(undo) > limit {
		undo = undo[len(undo)-limit:]
	}
	return historyState{undo: undo}
}

func historyOf(s *EditorState) (historyState, bool) {
	h, ok := historyKey.State(s).(historyState)
	return h, ok
}

// UndoDepth returns the number of undoable changes.
func UndoDepth(s *EditorState) int {
	h, _ := historyOf(s)
	return len(h.undo)
}

// RedoDepth returns the number of redoable changes.
func RedoDepth(s *EditorState) int {
	h, _ := historyOf(s)
	return len(h.redo)
}

// Undo restores the document and selection before the last change.
func Undo(s *EditorState, dispatch func(*Transaction)) bool {
	h, ok := historyOf(s)
	if !ok || len(h.undo) == 0 {
		return false
	}
	if dispatch == nil {
		return true
	}
	i := len(h.undo) - 1
	prev := h.undo[i]
	next := historyState{
		undo: h.undo[:i:i],
		redo: append(append([]historySnapshot(nil), h.redo...), snapshotOf(s)),
	}
	dispatch(restoreSnapshot(s, prev, next))
	return true
}

// Redo reapplies the last undone change.
func Redo(s *EditorState, dispatch func(*Transaction)) bool {
	h, ok := historyOf(s)
	if !ok || len(h.redo) == 0 {
		return false
	}
	if dispatch == nil {
		return true
	}
	i := len(h.redo) - 1
	target := h.redo[i]
	next := historyState{
		undo: append(append([]historySnapshot(nil), h.undo...), snapshotOf(s)),
		redo: h.redo[:i:i],
	}
	dispatch(restoreSnapshot(s, target, next))
	return true
}

func restoreSnapshot(s *EditorState, snap historySnapshot, next historyState) *Transaction {
	tr := s.Tr()
	tr.Replace(0, s.doc.Content().Size(), model.NewSlice(snap.doc.Content(), 0, 0))
	tr.SetSelection(snap.bookmark.Resolve(tr.Doc))
	tr.SetMeta(historyKey, next)
	tr.SetMeta(MetaAddToHistory, false)
	return tr
}
