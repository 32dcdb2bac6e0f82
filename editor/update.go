package editor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/iw2rmb/tessera/state"
	"github.com/iw2rmb/tessera/tables"
)

func (m Model) updateKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	// Paste events should always insert literal text and never trigger shortcuts.
	if msg.Type == tea.KeyRunes && msg.Paste && len(msg.Runes) > 0 {
		if !m.cfg.ReadOnly {
			m.paste(string(msg.Runes))
		}
		m.followCursorWithForce(false)
		return m, nil
	}

	km := m.cfg.KeyMap
	editable := !m.cfg.ReadOnly

	switch {
	case key.Matches(msg, km.Left):
		m.arrow("ArrowLeft", func() { m.moveHorizontal(-1, false) })
	case key.Matches(msg, km.Right):
		m.arrow("ArrowRight", func() { m.moveHorizontal(1, false) })
	case key.Matches(msg, km.Up):
		m.arrow("ArrowUp", func() { m.moveVertical(-1, false) })
	case key.Matches(msg, km.Down):
		m.arrow("ArrowDown", func() { m.moveVertical(1, false) })

	case key.Matches(msg, km.ShiftLeft):
		m.arrow("Shift-ArrowLeft", func() { m.moveHorizontal(-1, true) })
	case key.Matches(msg, km.ShiftRight):
		m.arrow("Shift-ArrowRight", func() { m.moveHorizontal(1, true) })
	case key.Matches(msg, km.ShiftUp):
		m.arrow("Shift-ArrowUp", func() { m.moveVertical(-1, true) })
	case key.Matches(msg, km.ShiftDown):
		m.arrow("Shift-ArrowDown", func() { m.moveVertical(1, true) })

	case key.Matches(msg, km.WordLeft):
		m.moveWord(-1)
	case key.Matches(msg, km.WordRight):
		m.moveWord(1)
	case key.Matches(msg, km.Home):
		m.moveToBlockEdge(-1)
	case key.Matches(msg, km.End):
		m.moveToBlockEdge(1)

	case key.Matches(msg, km.NextCell):
		m.goToCell(1)
	case key.Matches(msg, km.PrevCell):
		m.goToCell(-1)

	case key.Matches(msg, km.Backspace):
		if editable && !tables.HandleKeyDown(&m, "Backspace") {
			m.deleteBackward()
		}
	case key.Matches(msg, km.Delete):
		if editable && !tables.HandleKeyDown(&m, "Delete") {
			m.deleteForward()
		}
	case key.Matches(msg, km.Enter):
		if editable {
			m.splitBlock()
		}

	case key.Matches(msg, km.Undo):
		if editable {
			state.Undo(m.state, m.Dispatch)
		}
	case key.Matches(msg, km.Redo):
		if editable {
			state.Redo(m.state, m.Dispatch)
		}

	case key.Matches(msg, km.Copy):
		m.copySelection()
	case key.Matches(msg, km.Cut):
		if editable {
			m.cutSelection()
		} else {
			m.copySelection()
		}
	case key.Matches(msg, km.Paste):
		if editable {
			m.pasteClipboard()
		}

	case key.Matches(msg, km.AddColumnAfter):
		m.command(editable, "add column", tables.AddColumnAfter)
	case key.Matches(msg, km.AddRowAfter):
		m.command(editable, "add row", tables.AddRowAfter)
	case key.Matches(msg, km.DeleteColumn):
		m.command(editable, "delete column", tables.DeleteColumn)
	case key.Matches(msg, km.DeleteRow):
		m.command(editable, "delete row", tables.DeleteRow)
	case key.Matches(msg, km.MergeCells):
		m.command(editable, "merge cells", tables.MergeCells)
	case key.Matches(msg, km.SplitCell):
		m.command(editable, "split cell", tables.SplitCell)
	case key.Matches(msg, km.ToggleHeaderRow):
		m.command(editable, "toggle header row", tables.ToggleHeader(tables.HeaderRow))
	case key.Matches(msg, km.ToggleHeaderColumn):
		m.command(editable, "toggle header column", tables.ToggleHeader(tables.HeaderColumn))
	case key.Matches(msg, km.DeleteTable):
		m.command(editable, "delete table", tables.DeleteTable)
	case key.Matches(msg, km.InsertTable):
		if editable {
			m.insertTable(3, 3)
		}

	default:
		if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 && !msg.Alt {
			if editable {
				m.insertText(string(msg.Runes))
			}
		}
	}

	m.followCursorWithForce(false)
	return m, nil
}

// arrow lets the table handlers see key first and falls back to plain
// caret movement.
func (m *Model) arrow(name string, fallback func()) {
	if tables.HandleKeyDown(m, name) {
		return
	}
	fallback()
}

func (m *Model) command(editable bool, name string, cmd state.Command) {
	if !editable {
		return
	}
	if !m.run(cmd) {
		m.cfg.Logger.Debug("command not applicable", zap.String("command", name))
	}
}

// goToCell moves to the next or previous cell. Tab in the last cell adds
// a row first.
func (m *Model) goToCell(dir int) {
	if m.run(tables.GoToNextCell(dir)) || dir < 0 || m.cfg.ReadOnly {
		return
	}
	if tables.IsInTable(m.state) && m.run(tables.AddRowAfter) {
		m.run(tables.GoToNextCell(dir))
	}
}

func (m *Model) copySelection() {
	if m.cfg.Clipboard == nil {
		return
	}
	sel := m.state.Selection()
	if sel.Empty() {
		return
	}
	s := sliceText(sel.Content())
	if s == "" {
		return
	}
	if err := m.cfg.Clipboard.WriteText(s); err != nil {
		m.cfg.Logger.Debug("clipboard write failed", zap.Error(err))
	}
}

func (m *Model) cutSelection() {
	if m.cfg.Clipboard == nil || m.state.Selection().Empty() {
		return
	}
	m.copySelection()
	m.deleteSelection()
}

func (m *Model) pasteClipboard() {
	if m.cfg.Clipboard == nil {
		return
	}
	s, err := m.cfg.Clipboard.ReadText()
	if err != nil {
		m.cfg.Logger.Debug("clipboard read failed", zap.Error(err))
		return
	}
	if s == "" {
		return
	}
	m.paste(s)
}
