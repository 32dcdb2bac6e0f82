package editor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/tessera/state"
)

const (
	classSelectedCell = "selectedCell"
	classResizeHandle = "column-resize-handle"
)

// paint holds what the current selection and decorations ask the renderer
// to highlight.
type paint struct {
	caret            int
	selFrom, selTo   int
	nodeSel          int
	selectedCells    map[int]bool
	handles          map[int]bool
	viewportWidth    int
	defaultRuleWidth int
}

func (p paint) inSelection(pos int) bool {
	return pos >= p.selFrom && pos < p.selTo
}

func (m *Model) paintState() paint {
	p := paint{
		caret:            -1,
		nodeSel:          -1,
		selectedCells:    map[int]bool{},
		handles:          map[int]bool{},
		viewportWidth:    m.viewport.Width,
		defaultRuleWidth: 2 * m.cfg.DefaultColumnWidth,
	}
	switch sel := m.state.Selection().(type) {
	case *state.TextSelection:
		if sel.Empty() {
			if m.focused {
				p.caret = sel.Head()
			}
		} else {
			p.selFrom, p.selTo = sel.From(), sel.To()
		}
	case *state.NodeSelection:
		p.nodeSel = sel.From()
	case *state.AllSelection:
		p.selFrom, p.selTo = sel.From(), sel.To()
	}
	for _, d := range state.Decorations(m.state) {
		switch {
		case d.Kind == state.DecorationNode && d.Class == classSelectedCell:
			p.selectedCells[d.From] = true
		case d.Kind == state.DecorationWidget && d.Class == classResizeHandle:
			p.handles[d.From] = true
		}
	}
	return p
}

func (m *Model) renderContent() string {
	lines := m.ensureLayout()
	p := m.paintState()
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		switch l.kind {
		case lineText:
			width := -1
			if p.viewportWidth > 0 {
				width = p.viewportWidth
			}
			s, _ := m.renderRun(l.run, width, m.cfg.Style.Text, p)
			out = append(out, s)
		case lineRule:
			out = append(out, m.renderRule(l, p))
		case lineTableRow:
			out = append(out, m.renderTableRow(l, p))
		}
	}
	return strings.Join(out, "\n")
}

// renderRun draws run into at most width cells (no limit when width < 0)
// and returns the number of cells used.
func (m *Model) renderRun(run textRun, width int, base lipgloss.Style, p paint) (string, int) {
	st := m.cfg.Style
	var sb strings.Builder
	used := 0
	pos := run.start
	for _, c := range run.clusters {
		if width >= 0 && used+c.Width > width {
			return sb.String(), used
		}
		style := base
		if p.inSelection(pos) {
			style = st.Selection.Inherit(base)
		}
		if pos == p.caret {
			style = st.Cursor.Inherit(base)
		}
		text := c.Text
		if text == "\t" {
			text = " "
		}
		sb.WriteString(style.Render(text))
		used += c.Width
		pos += c.Runes
	}
	if pos == p.caret && (width < 0 || used < width) {
		sb.WriteString(st.Cursor.Inherit(base).Render(" "))
		used++
	}
	return sb.String(), used
}

func (m *Model) renderRule(l layoutLine, p paint) string {
	width := p.viewportWidth
	if width <= 0 {
		width = p.defaultRuleWidth
	}
	style := m.cfg.Style.Rule
	if p.nodeSel == l.pos || p.inSelection(l.pos) {
		style = m.cfg.Style.Selection.Inherit(style)
	}
	return style.Render(strings.Repeat("─", width))
}

func (m *Model) renderTableRow(l layoutLine, p paint) string {
	st := m.cfg.Style
	var sb strings.Builder
	sb.WriteString(st.Border.Render("│"))
	for _, slot := range l.cells {
		base := st.Text
		if slot.header {
			base = st.HeaderCell.Inherit(base)
		}
		if p.selectedCells[slot.pos] {
			base = st.SelectedCell.Inherit(base)
		}
		width := slot.contentWidth()
		used := 0
		if !slot.cont {
			for i, run := range slot.runs {
				if i > 0 {
					if used >= width {
						break
					}
					sb.WriteString(base.Render(" "))
					used++
				}
				s, n := m.renderRun(run, width-used, base, p)
				sb.WriteString(s)
				used += n
			}
		}
		if used < width {
			sb.WriteString(base.Render(strings.Repeat(" ", width-used)))
		}
		if p.handles[slot.end-1] {
			sb.WriteString(st.ResizeHandle.Render("┃"))
		} else {
			sb.WriteString(st.Border.Render("│"))
		}
	}
	return sb.String()
}
