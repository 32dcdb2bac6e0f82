package editor

import "github.com/charmbracelet/lipgloss"

// Style controls the editor's rendering.
type Style struct {
	Text      lipgloss.Style
	Selection lipgloss.Style
	Cursor    lipgloss.Style

	// Table parts.
	Border       lipgloss.Style
	HeaderCell   lipgloss.Style
	SelectedCell lipgloss.Style
	ResizeHandle lipgloss.Style

	Rule lipgloss.Style
}

func DefaultStyle() Style {
	border := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	return Style{
		Text:         lipgloss.NewStyle(),
		Selection:    lipgloss.NewStyle().Background(lipgloss.Color("237")),
		Cursor:       lipgloss.NewStyle().Reverse(true),
		Border:       border,
		HeaderCell:   lipgloss.NewStyle().Bold(true),
		SelectedCell: lipgloss.NewStyle().Background(lipgloss.Color("24")),
		ResizeHandle: lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		Rule:         border,
	}
}
