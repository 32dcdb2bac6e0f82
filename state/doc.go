// Package state implements editor state: selections, transactions, plugins
// with their own state fields, snapshot undo/redo and decorations.
//
// A Transaction is a transform.Transform that also tracks the selection and
// carries metadata. EditorState.Apply runs every plugin's AppendTransaction
// hook until no plugin has anything left to add.
package state
