package editor

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the editor key bindings.
//
// Bindings must be portable across terminals (ctrl/alt fallbacks).
type KeyMap struct {
	Left, Right, Up, Down                     key.Binding
	ShiftLeft, ShiftRight, ShiftUp, ShiftDown key.Binding
	WordLeft, WordRight                       key.Binding
	Home, End                                 key.Binding

	NextCell, PrevCell key.Binding

	Backspace, Delete key.Binding
	Enter             key.Binding

	Undo, Redo       key.Binding
	Copy, Cut, Paste key.Binding

	// Table structure.
	AddColumnAfter, AddRowAfter key.Binding
	DeleteColumn, DeleteRow     key.Binding
	MergeCells, SplitCell       key.Binding
	ToggleHeaderRow             key.Binding
	ToggleHeaderColumn          key.Binding
	InsertTable, DeleteTable    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
		Right: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
		Up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),

		ShiftLeft:  key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("shift+←", "select left")),
		ShiftRight: key.NewBinding(key.WithKeys("shift+right"), key.WithHelp("shift+→", "select right")),
		ShiftUp:    key.NewBinding(key.WithKeys("shift+up"), key.WithHelp("shift+↑", "select up")),
		ShiftDown:  key.NewBinding(key.WithKeys("shift+down"), key.WithHelp("shift+↓", "select down")),

		// Portable word movement: terminals vary between alt+arrows and ctrl+arrows.
		WordLeft:  key.NewBinding(key.WithKeys("alt+left", "ctrl+left"), key.WithHelp("alt/ctrl+←", "word left")),
		WordRight: key.NewBinding(key.WithKeys("alt+right", "ctrl+right"), key.WithHelp("alt/ctrl+→", "word right")),

		Home: key.NewBinding(key.WithKeys("home", "ctrl+a"), key.WithHelp("home", "block start")),
		End:  key.NewBinding(key.WithKeys("end", "ctrl+e"), key.WithHelp("end", "block end")),

		NextCell: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next cell")),
		PrevCell: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous cell")),

		Backspace: key.NewBinding(key.WithKeys("backspace", "ctrl+h"), key.WithHelp("backspace", "delete left")),
		Delete:    key.NewBinding(key.WithKeys("delete"), key.WithHelp("del", "delete right")),
		Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "split block")),

		Undo: key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "undo")),
		Redo: key.NewBinding(key.WithKeys("ctrl+y", "ctrl+shift+z"), key.WithHelp("ctrl+y", "redo")),

		Copy:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "copy")),
		Cut:   key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "cut")),
		Paste: key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "paste")),

		AddColumnAfter:     key.NewBinding(key.WithKeys("alt+c"), key.WithHelp("alt+c", "add column")),
		AddRowAfter:        key.NewBinding(key.WithKeys("alt+r"), key.WithHelp("alt+r", "add row")),
		DeleteColumn:       key.NewBinding(key.WithKeys("alt+C"), key.WithHelp("alt+C", "delete column")),
		DeleteRow:          key.NewBinding(key.WithKeys("alt+R"), key.WithHelp("alt+R", "delete row")),
		MergeCells:         key.NewBinding(key.WithKeys("alt+m"), key.WithHelp("alt+m", "merge cells")),
		SplitCell:          key.NewBinding(key.WithKeys("alt+s"), key.WithHelp("alt+s", "split cell")),
		ToggleHeaderRow:    key.NewBinding(key.WithKeys("alt+h"), key.WithHelp("alt+h", "header row")),
		ToggleHeaderColumn: key.NewBinding(key.WithKeys("alt+H"), key.WithHelp("alt+H", "header column")),
		InsertTable:        key.NewBinding(key.WithKeys("alt+t"), key.WithHelp("alt+t", "insert table")),
		DeleteTable:        key.NewBinding(key.WithKeys("alt+T"), key.WithHelp("alt+T", "delete table")),
	}
}

// ShortHelp returns the bindings shown in a compact help view.
func (km KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.NextCell, km.ShiftRight, km.Undo, km.Paste}
}

// FullHelp returns the bindings grouped for a full help view.
func (km KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{km.Left, km.Right, km.Up, km.Down, km.WordLeft, km.WordRight, km.Home, km.End},
		{km.ShiftLeft, km.ShiftRight, km.ShiftUp, km.ShiftDown, km.NextCell, km.PrevCell},
		{km.Backspace, km.Delete, km.Enter, km.Undo, km.Redo, km.Copy, km.Cut, km.Paste},
		{km.AddColumnAfter, km.AddRowAfter, km.DeleteColumn, km.DeleteRow, km.MergeCells, km.SplitCell},
		{km.ToggleHeaderRow, km.ToggleHeaderColumn, km.InsertTable, km.DeleteTable},
	}
}

func isZeroKeyMap(km KeyMap) bool {
	return len(km.Left.Keys()) == 0 && len(km.Right.Keys()) == 0 && len(km.NextCell.Keys()) == 0
}
