package editor

import (
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/iw2rmb/tessera/state"
	"github.com/iw2rmb/tessera/tables"
)

// Model is a Bubble Tea component that renders and edits a document with
// tables.
type Model struct {
	cfg   Config
	state *state.EditorState

	focused bool

	viewport viewport.Model
	layout   layoutCache

	version uint64

	mouseDragging bool
	mouseAnchor   int
	clicks        clickTracker
	now           func() time.Time
}

var _ tables.View = (*Model)(nil)

func New(cfg Config) Model {
	cfg = cfg.withDefaults()
	st := cfg.State
	if st == nil {
		st = NewState(cfg.Doc, cfg)
	}
	m := Model{
		cfg:         cfg,
		state:       st,
		focused:     true,
		viewport:    viewport.New(0, 0),
		mouseAnchor: -1,
		now:         time.Now,
	}
	m.rebuildContent()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// State returns the current editor state.
func (m Model) State() *state.EditorState { return m.state }

// Version counts the document changes made through the editor.
func (m Model) Version() uint64 { return m.version }

// Editable reports whether the editor accepts edits.
func (m Model) Editable() bool { return !m.cfg.ReadOnly }

// SetState replaces the editor state without emitting a change event.
func (m Model) SetState(s *state.EditorState) Model {
	m.state = s
	m.invalidateLayoutCache()
	m.rebuildContent()
	m.followCursorWithForce(true)
	return m
}

// Dispatch applies tr and every transaction the plugins append to it.
func (m *Model) Dispatch(tr *state.Transaction) {
	next, trs := m.state.ApplyTransaction(tr)
	changed := false
	for _, t := range trs {
		if t.DocChanged() {
			changed = true
			break
		}
	}
	m.state = next
	if changed {
		m.version++
		m.cfg.Logger.Debug("document changed",
			zap.Uint64("version", m.version),
			zap.Int("transactions", len(trs)),
			zap.Any("selection", next.Selection().JSON()),
		)
		if m.cfg.OnChange != nil {
			m.cfg.OnChange(buildChangeEvent(m.version, next))
		}
	}
	m.rebuildContent()
}

// run executes cmd against the current state.
func (m *Model) run(cmd state.Command) bool {
	return cmd(m.state, m.Dispatch)
}

func (m Model) SetSize(width, height int) Model {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	m.viewport.Width = width
	m.viewport.Height = height

	m.rebuildContent()
	m.followCursorWithForce(true)
	return m
}

func (m Model) Focus() Model {
	if !m.focused {
		m.focused = true
		m.rebuildContent()
		m.followCursorWithForce(true)
	}
	return m
}

func (m Model) Blur() Model {
	if m.focused {
		m.focused = false
		m.rebuildContent()
	}
	return m
}

func (m Model) Focused() bool { return m.focused }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil
	case tea.KeyMsg:
		return m.updateKey(msg)
	case tea.MouseMsg:
		return m.updateMouse(msg)
	}
	return m, nil
}

func (m Model) View() string { return m.viewport.View() }

func (m *Model) rebuildContent() {
	m.viewport.SetContent(m.renderContent())
}

// followCursorWithForce scrolls the viewport so the selection head is
// visible.
func (m *Model) followCursorWithForce(force bool) {
	if m.viewport.Height <= 0 {
		return
	}
	row, ok := m.lineOf(m.state.Selection().Head())
	if !ok {
		return
	}
	top := m.viewport.YOffset
	switch {
	case row < top:
		m.viewport.SetYOffset(row)
	case row >= top+m.viewport.Height:
		m.viewport.SetYOffset(row - m.viewport.Height + 1)
	case force:
		m.viewport.SetYOffset(top)
	}
}
