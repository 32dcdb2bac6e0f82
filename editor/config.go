package editor

import (
	"go.uber.org/zap"

	"github.com/iw2rmb/tessera/model"
	"github.com/iw2rmb/tessera/state"
	"github.com/iw2rmb/tessera/tables"
)

// DefaultColumnWidth is the width of table columns without a stored width.
const DefaultColumnWidth = 12

// Config configures the editor Model.
type Config struct {
	// State is the initial editor state. When nil, a state is built from
	// Doc with the history, table editing and column resizing plugins.
	State *state.EditorState
	// Doc is used when State is nil. A nil Doc starts from a document with
	// one empty paragraph.
	Doc *model.Node

	KeyMap KeyMap
	Style  Style

	// Resize configures column resizing for states built by New. Zero
	// values take terminal-sized defaults.
	Resize tables.ResizeOptions
	// DefaultColumnWidth is used for columns without a stored width.
	DefaultColumnWidth int
	// HistoryLimit bounds the undo history of states built by New.
	HistoryLimit int

	ReadOnly bool

	// Clipboard enables copy, cut and paste shortcuts.
	Clipboard Clipboard

	// Logger receives debug output of the editor and the table plugin.
	Logger *zap.Logger

	// OnChange is called after every transaction that changes the document.
	OnChange func(ChangeEvent)
}

// TerminalResizeOptions returns resize options measured in terminal cells.
func TerminalResizeOptions() tables.ResizeOptions {
	return tables.ResizeOptions{
		HandleWidth:         1,
		CellMinWidth:        3,
		DefaultCellMinWidth: DefaultColumnWidth,
		LastColumnResizable: true,
	}
}

func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.DefaultColumnWidth <= 0 {
		c.DefaultColumnWidth = DefaultColumnWidth
	}
	if c.Resize == (tables.ResizeOptions{}) {
		c.Resize = TerminalResizeOptions()
		c.Resize.DefaultCellMinWidth = c.DefaultColumnWidth
	}
	if isZeroKeyMap(c.KeyMap) {
		c.KeyMap = DefaultKeyMap()
	}
	return c
}

// NewState builds an editor state for doc with the plugins the editor
// expects.
func NewState(doc *model.Node, cfg Config) *state.EditorState {
	cfg = cfg.withDefaults()
	if doc == nil {
		schema := model.DefaultSchema()
		doc = schema.TopNodeType().CreateAndFill(nil)
	}
	return state.Create(state.Config{
		Doc: doc,
		Plugins: []*state.Plugin{
			state.History(state.HistoryOptions{Limit: cfg.HistoryLimit}),
			tables.TableEditing(tables.Options{Logger: cfg.Logger}),
			tables.ColumnResizing(cfg.Resize),
		},
	})
}
