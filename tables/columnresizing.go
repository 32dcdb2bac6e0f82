package tables

import (
	"github.com/iw2rmb/tessera/model"
	"github.com/iw2rmb/tessera/state"
)

// ResizeKey holds the column resizing plugin state.
var ResizeKey = state.NewPluginKey("table-column-resizing")

// Dragging records where a resize drag started.
type Dragging struct {
	StartX     int
	StartWidth int
}

// ResizeState is the column resizing state. ActiveHandle is the position
// before the cell whose right edge is hovered, or -1. LiveWidth is the
// width shown while dragging; it is not stored in the document.
type ResizeState struct {
	ActiveHandle int
	Dragging     *Dragging
	LiveWidth    int

	opts ResizeOptions
}

// ResizeAction selects what a ResizeMeta does.
type ResizeAction uint8

const (
	ResizeSetHandle ResizeAction = iota
	ResizeStartDrag
	ResizeLiveWidth
	ResizeStopDrag
)

// ResizeMeta is the transaction meta that drives ResizeState.
type ResizeMeta struct {
	Action   ResizeAction
	Handle   int
	Dragging Dragging
	Width    int
}

func (s ResizeState) apply(tr *state.Transaction) ResizeState {
	if meta, ok := tr.Meta(ResizeKey).(ResizeMeta); ok {
		switch meta.Action {
		case ResizeSetHandle:
			return ResizeState{ActiveHandle: meta.Handle, opts: s.opts}
		case ResizeStartDrag:
			d := meta.Dragging
			return ResizeState{ActiveHandle: s.ActiveHandle, Dragging: &d, LiveWidth: d.StartWidth, opts: s.opts}
		case ResizeLiveWidth:
			s.LiveWidth = meta.Width
			return s
		case ResizeStopDrag:
			return ResizeState{ActiveHandle: s.ActiveHandle, opts: s.opts}
		}
	}
	if s.ActiveHandle > -1 && tr.DocChanged() {
		handle := tr.Mapping.Map(s.ActiveHandle, -1)
		if !PointsAtCell(tr.Doc.Resolve(handle)) {
			handle = -1
		}
		s.ActiveHandle = handle
	}
	return s
}

// ResizeOptions configures column resizing.
type ResizeOptions struct {
	// HandleWidth is how close to a cell edge the pointer must be to grab
	// it.
	HandleWidth int
	// CellMinWidth is the smallest width a drag can produce.
	CellMinWidth int
	// DefaultCellMinWidth is the width assumed for columns without a
	// stored width.
	DefaultCellMinWidth int
	// LastColumnResizable allows dragging the right edge of the table.
	LastColumnResizable bool
}

// DefaultResizeOptions returns the stock resize options.
func DefaultResizeOptions() ResizeOptions {
	return ResizeOptions{
		HandleWidth:         5,
		CellMinWidth:        25,
		DefaultCellMinWidth: 100,
		LastColumnResizable: true,
	}
}

func (o ResizeOptions) withDefaults() ResizeOptions {
	d := DefaultResizeOptions()
	if o.HandleWidth <= 0 {
		o.HandleWidth = d.HandleWidth
	}
	if o.CellMinWidth <= 0 {
		o.CellMinWidth = d.CellMinWidth
	}
	if o.DefaultCellMinWidth <= 0 {
		o.DefaultCellMinWidth = d.DefaultCellMinWidth
	}
	return o
}

// ColumnResizing returns the column resizing plugin. Its decorations mark
// the hovered column edge. Zero option fields take their defaults.
func ColumnResizing(opts ResizeOptions) *state.Plugin {
	opts = opts.withDefaults()
	return &state.Plugin{
		Key: ResizeKey,
		State: &state.StateField{
			Init: func(state.Config, *state.EditorState) any {
				return ResizeState{ActiveHandle: -1, opts: opts}
			},
			Apply: func(tr *state.Transaction, value any, _, _ *state.EditorState) any {
				return value.(ResizeState).apply(tr)
			},
		},
		Props: state.Props{
			Decorations: func(s *state.EditorState) *state.DecorationSet {
				rs, ok := ResizeStateOf(s)
				if !ok || rs.ActiveHandle < 0 {
					return nil
				}
				return HandleDecorations(s, rs.ActiveHandle)
			},
		},
	}
}

// Options returns the options the plugin was created with.
func (s ResizeState) Options() ResizeOptions { return s.opts }

// ResizeStateOf returns the resize state of s, when the plugin is installed.
func ResizeStateOf(s *state.EditorState) (ResizeState, bool) {
	rs, ok := ResizeKey.State(s).(ResizeState)
	return rs, ok
}

func dispatchResize(v View, meta ResizeMeta) {
	tr := v.State().Tr()
	tr.SetMeta(ResizeKey, meta)
	tr.SetMeta(state.MetaAddToHistory, false)
	v.Dispatch(tr)
}

// HandleResizeMouseMove updates the hovered column edge. It does nothing
// while a drag is in progress.
func HandleResizeMouseMove(v View, ev MouseEvent) {
	if !v.Editable() {
		return
	}
	rs, ok := ResizeStateOf(v.State())
	if !ok || rs.Dragging != nil {
		return
	}
	opts := rs.opts
	cell := -1
	if box, ok := v.CellBoxAt(ev.X, ev.Y); ok {
		switch {
		case ev.X-box.Left < opts.HandleWidth:
			cell = edgeCell(v, ev, -1, opts.HandleWidth)
		case box.Right-1-ev.X < opts.HandleWidth:
			cell = edgeCell(v, ev, 1, opts.HandleWidth)
		}
	}
	if cell == rs.ActiveHandle {
		return
	}
	if !opts.LastColumnResizable && cell != -1 {
		pos := v.State().Doc().Resolve(cell)
		m := TableMapFor(pos.Node(-1))
		col := m.ColCount(pos.Pos()-pos.Start(-1)) + CellAttrsOf(pos.NodeAfter()).Colspan - 1
		if col == m.Width-1 {
			return
		}
	}
	dispatchResize(v, ResizeMeta{Action: ResizeSetHandle, Handle: cell})
}

// HandleResizeMouseLeave clears the hovered edge when no drag is active.
func HandleResizeMouseLeave(v View) {
	if !v.Editable() {
		return
	}
	rs, ok := ResizeStateOf(v.State())
	if ok && rs.ActiveHandle > -1 && rs.Dragging == nil {
		dispatchResize(v, ResizeMeta{Action: ResizeSetHandle, Handle: -1})
	}
}

// HandleResizeMouseDown starts a drag when an edge is hovered. It reports
// whether the event was consumed.
func HandleResizeMouseDown(v View, ev MouseEvent) bool {
	if !v.Editable() {
		return false
	}
	rs, ok := ResizeStateOf(v.State())
	if !ok || rs.ActiveHandle == -1 || rs.Dragging != nil {
		return false
	}
	cell := v.State().Doc().NodeAt(rs.ActiveHandle)
	if cell == nil {
		return false
	}
	width := CurrentColWidth(v, rs.ActiveHandle, CellAttrsOf(cell))
	dispatchResize(v, ResizeMeta{Action: ResizeStartDrag, Dragging: Dragging{StartX: ev.X, StartWidth: width}})
	return true
}

// HandleResizeDrag updates the live width while dragging. It reports
// whether a drag is active.
func HandleResizeDrag(v View, ev MouseEvent) bool {
	rs, ok := ResizeStateOf(v.State())
	if !ok || rs.Dragging == nil {
		return false
	}
	if w := DraggedWidth(*rs.Dragging, ev.X, rs.opts.CellMinWidth); w != rs.LiveWidth {
		dispatchResize(v, ResizeMeta{Action: ResizeLiveWidth, Width: w})
	}
	return true
}

// HandleResizeMouseUp ends a drag and stores the final width in the
// document. It reports whether a drag was active.
func HandleResizeMouseUp(v View, ev MouseEvent) bool {
	rs, ok := ResizeStateOf(v.State())
	if !ok || rs.Dragging == nil {
		return false
	}
	UpdateColumnWidth(v, rs.ActiveHandle, DraggedWidth(*rs.Dragging, ev.X, rs.opts.CellMinWidth))
	dispatchResize(v, ResizeMeta{Action: ResizeStopDrag})
	return true
}

// CurrentColWidth returns the width of the last column spanned by the cell
// at cellPos: its stored width, or its share of the rendered width.
func CurrentColWidth(v View, cellPos int, attrs CellAttrs) int {
	if n := len(attrs.Colwidth); n > 0 && attrs.Colwidth[n-1] > 0 {
		return attrs.Colwidth[n-1]
	}
	width, parts := v.CellWidth(cellPos), attrs.Colspan
	for i := 0; i < attrs.Colspan && i < len(attrs.Colwidth); i++ {
		if attrs.Colwidth[i] > 0 {
			width -= attrs.Colwidth[i]
			parts--
		}
	}
	if parts <= 0 {
		return width
	}
	return width / parts
}

// edgeCell returns the cell whose right edge is at the pointer, looking
// handleWidth cells to the side. side < 0 means the pointer is at a left
// edge, whose owner is the cell before it.
func edgeCell(v View, ev MouseEvent, side, handleWidth int) int {
	offset := handleWidth
	if side > 0 {
		offset = -handleWidth
	}
	found, ok := v.PosAtCoords(ev.X+offset, ev.Y)
	if !ok {
		return -1
	}
	cell := CellAround(v.State().Doc().Resolve(found))
	if cell == nil {
		return -1
	}
	if side > 0 {
		return cell.Pos()
	}
	m := TableMapFor(cell.Node(-1))
	start := cell.Start(-1)
	for i, p := range m.Map {
		if p == cell.Pos()-start {
			if i%m.Width == 0 {
				return -1
			}
			return start + m.Map[i-1]
		}
	}
	return -1
}

// DraggedWidth is the width produced by dragging to x, never below
// minWidth.
func DraggedWidth(d Dragging, x, minWidth int) int {
	return max(minWidth, d.StartWidth+x-d.StartX)
}

// UpdateColumnWidth stores width for the last column of the cell at
// cellPos in every cell that covers that column.
func UpdateColumnWidth(v View, cellPos, width int) {
	pos := v.State().Doc().Resolve(cellPos)
	table := pos.Node(-1)
	m := TableMapFor(table)
	start := pos.Start(-1)
	col := m.ColCount(pos.Pos()-start) + CellAttrsOf(pos.NodeAfter()).Colspan - 1
	tr := v.State().Tr()
	setColumnWidth(tr, table, m, start, col, width)
	if tr.DocChanged() {
		v.Dispatch(tr)
	}
}

// HandleDecorations places a resize handle widget at the end of every cell
// bordering the column edge of the cell at cellPos.
func HandleDecorations(s *state.EditorState, cellPos int) *state.DecorationSet {
	pos := s.Doc().Resolve(cellPos)
	if pos.Depth() < 1 || pos.Node(-1).Role() != model.RoleTable || pos.NodeAfter() == nil {
		return nil
	}
	table := pos.Node(-1)
	m := TableMapFor(table)
	start := pos.Start(-1)
	col := m.ColCount(pos.Pos()-start) + CellAttrsOf(pos.NodeAfter()).Colspan - 1
	var decos []state.Decoration
	for row := 0; row < m.Height; row++ {
		index := col + row*m.Width
		if (col == m.Width-1 || m.Map[index] != m.Map[index+1]) &&
			(row == 0 || m.Map[index] != m.Map[index-m.Width]) {
			cp := m.Map[index]
			decos = append(decos, state.WidgetDecoration(start+cp+table.NodeAt(cp).NodeSize()-1, "column-resize-handle"))
		}
	}
	return state.NewDecorationSet(decos)
}
