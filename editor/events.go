package editor

import (
	"github.com/iw2rmb/tessera/model"
	"github.com/iw2rmb/tessera/state"
)

// ChangeEvent describes the document after a change.
type ChangeEvent struct {
	// Version counts document changes made through the editor.
	Version   uint64
	Doc       *model.Node
	Selection state.SelectionJSON

	// Text is the plain text of the document, one line per textblock and
	// cells separated by tabs.
	Text string
}

func buildChangeEvent(version uint64, s *state.EditorState) ChangeEvent {
	return ChangeEvent{
		Version:   version,
		Doc:       s.Doc(),
		Selection: s.Selection().JSON(),
		Text:      plainText(s.Doc()),
	}
}
