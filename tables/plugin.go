package tables

import (
	"go.uber.org/zap"

	"github.com/iw2rmb/tessera/model"
	"github.com/iw2rmb/tessera/state"
)

// EditingKey holds the table editing plugin state.
var EditingKey = state.NewPluginKey("table-editing")

// Options configures TableEditing.
type Options struct {
	// AllowTableNodeSelection keeps node selections of whole tables
	// instead of turning them into cell selections.
	AllowTableNodeSelection bool
	Logger                  *zap.Logger
}

// DragPhase is the phase of a mouse drag that may form a cell selection.
type DragPhase uint8

const (
	// DragIdle means no button is held.
	DragIdle DragPhase = iota
	// DragPending means the button went down in a cell; the pointer has
	// not left that cell yet.
	DragPending
	// DragSelecting means a cell selection follows the pointer.
	DragSelecting
)

func (p DragPhase) String() string {
	switch p {
	case DragPending:
		return "pending"
	case DragSelecting:
		return "selecting"
	default:
		return "idle"
	}
}

// DragState is the plugin state. Start is the cell the press happened in
// (pending), Anchor the anchor cell of the selection being dragged out
// (selecting). Unused positions are -1.
type DragState struct {
	Phase  DragPhase
	Start  int
	Anchor int
}

var idleDrag = DragState{Phase: DragIdle, Start: -1, Anchor: -1}

// DragMeta is the transaction meta that replaces the drag state.
type DragMeta DragState

func (d DragState) apply(tr *state.Transaction) DragState {
	if meta, ok := tr.Meta(EditingKey).(DragMeta); ok {
		return DragState(meta)
	}
	if d.Phase == DragIdle || !tr.DocChanged() {
		return d
	}
	mapPos := func(pos int) (int, bool) {
		if pos < 0 {
			return pos, true
		}
		r := tr.Mapping.MapResult(pos, 1)
		return r.Pos, !r.Deleted()
	}
	start, ok1 := mapPos(d.Start)
	anchor, ok2 := mapPos(d.Anchor)
	if !ok1 || !ok2 {
		return idleDrag
	}
	return DragState{Phase: d.Phase, Start: start, Anchor: anchor}
}

// DragStateOf returns the drag state of s, or an idle state when the
// plugin is not installed.
func DragStateOf(s *state.EditorState) DragState {
	if d, ok := EditingKey.State(s).(DragState); ok {
		return d
	}
	return idleDrag
}

// TableEditing returns the plugin that keeps tables well formed, turns
// selections of table parts into cell selections, tracks mouse drags and
// draws selected cells.
func TableEditing(opts Options) *state.Plugin {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &state.Plugin{
		Key: EditingKey,
		State: &state.StateField{
			Init: func(state.Config, *state.EditorState) any { return idleDrag },
			Apply: func(tr *state.Transaction, value any, _, _ *state.EditorState) any {
				return value.(DragState).apply(tr)
			},
		},
		Props: state.Props{Decorations: DrawCellSelection},
		AppendTransaction: func(_ []*state.Transaction, oldState, newState *state.EditorState) *state.Transaction {
			fixed := fixTables(newState, oldState, log)
			tr := NormalizeSelection(newState, fixed, opts.AllowTableNodeSelection)
			if tr != nil && tr != fixed {
				log.Debug("normalized selection", zap.Any("selection", tr.Selection().JSON()))
			}
			return tr
		},
	}
}

// DrawCellSelection decorates every cell of a cell selection.
func DrawCellSelection(s *state.EditorState) *state.DecorationSet {
	sel, ok := s.Selection().(*CellSelection)
	if !ok {
		return nil
	}
	var decos []state.Decoration
	sel.ForEachCell(func(cell *model.Node, pos int) {
		decos = append(decos, state.NodeDecoration(pos, pos+cell.NodeSize(), "selectedCell"))
	})
	return state.NewDecorationSet(decos)
}
