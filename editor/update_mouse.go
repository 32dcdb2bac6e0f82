package editor

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/tessera/tables"
)

// tripleClickWindow is how close three presses must follow each other to
// count as a triple click.
const tripleClickWindow = 500 * time.Millisecond

type clickTracker struct {
	count int
	x, y  int
	at    time.Time
}

// press records a press and returns how many presses in a row hit the
// same spot.
func (c *clickTracker) press(x, y int, now time.Time) int {
	if c.count > 0 && x == c.x && y == c.y && now.Sub(c.at) <= tripleClickWindow {
		c.count++
	} else {
		c.count = 1
	}
	c.x, c.y, c.at = x, y, now
	return c.count
}

func (m Model) updateMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	if isManualScrollMouse(msg) {
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if !m.focused {
		return m, cmd
	}

	ev := tables.MouseEvent{X: msg.X, Y: msg.Y, Shift: msg.Shift, Ctrl: msg.Ctrl}

	switch msg.Action { //nolint:exhaustive
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !m.mouseInBounds(msg.X, msg.Y) {
			return m, cmd
		}
		m.mousePress(ev)

	case tea.MouseActionMotion:
		// A motion without a button means the release was never delivered.
		if msg.Button == tea.MouseButtonNone && m.dragActive() {
			m.mouseRelease(ev)
		}
		if !m.mouseInBounds(msg.X, msg.Y) && !m.mouseDragging {
			tables.HandleResizeMouseLeave(&m)
			return m, cmd
		}
		if tables.HandleResizeDrag(&m, ev) {
			return m, cmd
		}
		if !m.mouseDragging {
			tables.HandleResizeMouseMove(&m, ev)
			return m, cmd
		}
		x, y := m.clampMouseToBounds(msg.X, msg.Y)
		ev.X, ev.Y = x, y
		if tables.HandleMouseMove(&m, ev) {
			return m, cmd
		}
		if pos, ok := m.PosAtCoords(x, y); ok && m.mouseAnchor >= 0 {
			m.setSelection(textSelectionBetween(m.state.Doc(), m.mouseAnchor, pos))
		}

	case tea.MouseActionRelease:
		m.mouseRelease(ev)
	}

	return m, cmd
}

// dragActive reports whether a text, cell or resize drag is in progress.
func (m Model) dragActive() bool {
	if m.mouseDragging {
		return true
	}
	rs, ok := tables.ResizeStateOf(m.state)
	return ok && rs.Dragging != nil
}

func (m *Model) mouseRelease(ev tables.MouseEvent) {
	tables.HandleResizeMouseUp(m, ev)
	tables.HandleMouseUp(m)
	m.mouseDragging = false
}

func (m *Model) mousePress(ev tables.MouseEvent) {
	if tables.HandleResizeMouseDown(m, ev) {
		return
	}
	pos, ok := m.PosAtCoords(ev.X, ev.Y)
	if !ok {
		return
	}
	if m.clicks.press(ev.X, ev.Y, m.now()) == 3 {
		m.clicks.count = 0
		if tables.HandleTripleClick(m, pos) {
			return
		}
	}
	m.mouseDragging = true
	if tables.HandleMouseDown(m, ev) {
		return
	}
	if ev.Shift {
		m.mouseAnchor = m.state.Selection().Anchor()
		m.extendTo(pos)
		return
	}
	m.mouseAnchor = pos
	m.setSelection(selectionAt(m.state.Doc(), pos))
}

func isManualScrollMouse(msg tea.MouseMsg) bool {
	return msg.Action == tea.MouseActionPress &&
		(msg.Button == tea.MouseButtonWheelUp ||
			msg.Button == tea.MouseButtonWheelDown ||
			msg.Button == tea.MouseButtonWheelLeft ||
			msg.Button == tea.MouseButtonWheelRight)
}

func (m Model) mouseInBounds(x, y int) bool {
	if m.viewport.Width <= 0 || m.viewport.Height <= 0 {
		return false
	}
	return x >= 0 && x < m.viewport.Width && y >= 0 && y < m.viewport.Height
}

func (m Model) clampMouseToBounds(x, y int) (int, int) {
	if m.viewport.Width > 0 {
		x = min(max(x, 0), m.viewport.Width-1)
	}
	if m.viewport.Height > 0 {
		y = min(max(y, 0), m.viewport.Height-1)
	}
	return x, y
}
