package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"
	"go.uber.org/zap"

	"github.com/iw2rmb/tessera"
	"github.com/iw2rmb/tessera/editor"
	"github.com/iw2rmb/tessera/export"
	"github.com/iw2rmb/tessera/internal/config"
	"github.com/iw2rmb/tessera/internal/logger"
	"github.com/iw2rmb/tessera/model"
	"github.com/iw2rmb/tessera/tables"
)

// systemClipboard uses the OS clipboard.
type systemClipboard struct{}

func (systemClipboard) ReadText() (string, error) { return clipboard.ReadAll() }
func (systemClipboard) WriteText(s string) error  { return clipboard.WriteAll(s) }

// memClipboard keeps copied text for the lifetime of the program when no
// OS clipboard is available.
type memClipboard struct{ text string }

func (c *memClipboard) ReadText() (string, error) { return c.text, nil }

func (c *memClipboard) WriteText(s string) error {
	c.text = s
	return nil
}

func newClipboard() editor.Clipboard {
	if clipboard.Unsupported {
		return &memClipboard{}
	}
	return systemClipboard{}
}

type eventState struct {
	count int
	last  editor.ChangeEvent
}

func (s *eventState) handleChange(ev editor.ChangeEvent) {
	s.count++
	s.last = ev
}

type app struct {
	editor   editor.Model
	events   *eventState
	help     help.Model
	keys     editor.KeyMap
	showHelp bool
	showGrid bool
	toggle   key.Binding
	preview  key.Binding
	quit     key.Binding
	width    int
	height   int
}

func sampleDoc(rows, cols int) *model.Node {
	schema := model.DefaultSchema()
	para := func(text string) *model.Node {
		typ := schema.DefaultTextblock()
		if text == "" {
			return typ.Create(nil, model.Fragment{})
		}
		return typ.Create(nil, model.FragmentFrom(schema.Text(text)))
	}
	return schema.TopNodeType().Create(nil, model.FragmentFrom(
		para("tessera "+tessera.VersionTag()),
		tables.CreateTable(schema, rows, cols, true),
		para("Tab moves between cells, shift+arrows select cells, drag a column border to resize."),
	))
}

func newApp(cfg config.Config, log *zap.Logger) app {
	events := &eventState{}
	keys := editor.DefaultKeyMap()
	ed := editor.New(editor.Config{
		Doc:    sampleDoc(cfg.Rows, cfg.Cols),
		KeyMap: keys,
		Style:  editor.DefaultStyle(),
		Resize: tables.ResizeOptions{
			HandleWidth:         cfg.HandleWidth,
			CellMinWidth:        cfg.CellMinWidth,
			DefaultCellMinWidth: cfg.ColumnWidth,
			LastColumnResizable: cfg.LastColumnResizable,
		},
		DefaultColumnWidth: cfg.ColumnWidth,
		HistoryLimit:       cfg.HistoryLimit,
		Clipboard:          newClipboard(),
		Logger:             log,
		OnChange:           events.handleChange,
	})
	return app{
		editor:  ed,
		events:  events,
		help:    help.New(),
		keys:    keys,
		toggle:  key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		preview: key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "table text")),
		quit:    key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("ctrl+q", "quit")),
	}
}

func (m app) Init() tea.Cmd { return nil }

func (m app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.editor = m.editor.SetSize(msg.Width, editorHeight(msg.Height))
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.quit):
			return m, tea.Quit
		case key.Matches(msg, m.toggle):
			m.showHelp = !m.showHelp
			m.showGrid = false
			return m, nil
		case key.Matches(msg, m.preview):
			m.showGrid = !m.showGrid
			m.showHelp = false
			return m, nil
		}
		if (m.showHelp || m.showGrid) && msg.String() == "esc" {
			m.showHelp, m.showGrid = false, false
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m app) status() string {
	sel := m.editor.State().Selection().JSON()
	return strings.Join([]string{
		fmt.Sprintf("version %d  changes %d  selection %s %d→%d", m.editor.Version(), m.events.count, sel.Type, sel.Anchor, sel.Head),
		m.help.ShortHelpView(append(m.keys.ShortHelp(), m.toggle, m.preview, m.quit)),
	}, "\n")
}

var panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

// tablePreview renders the table around the selection as a text grid.
func (m app) tablePreview() string {
	st := m.editor.State()
	if !tables.IsInTable(st) {
		return "cursor is not in a table"
	}
	out, err := export.String(tables.SelectionCell(st).Node(-1))
	if err != nil {
		return err.Error()
	}
	return strings.TrimRight(out, "\n")
}

func (m app) View() string {
	base := m.editor.View() + "\n" + m.status()
	var body string
	switch {
	case m.showHelp:
		body = m.help.FullHelpView(m.keys.FullHelp())
	case m.showGrid:
		body = m.tablePreview()
	default:
		return base
	}
	return overlay.Composite(panelStyle.Render(body), base, overlay.Center, overlay.Center, 0, 0)
}

func editorHeight(total int) int {
	h := total - 2
	if h < 0 {
		return 0
	}
	return h
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	log, closeLog, err := logger.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	rel, err := tessera.CurrentRelease()
	if err != nil {
		log.Warn("embedded version", zap.Error(err))
	}
	log.Info("starting demo", zap.Stringer("release", rel), zap.Int("rows", cfg.Rows), zap.Int("cols", cfg.Cols))

	p := tea.NewProgram(newApp(cfg, log), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err = p.Run()
	if err != nil {
		log.Error("demo failed", zap.Error(err))
	}
	_ = closeLog()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
