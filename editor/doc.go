// Package editor provides a Bubble Tea component that edits a document
// holding paragraphs and tables.
//
// The package lays the document out on terminal lines, maps pointer
// coordinates back to document positions and routes keys, mouse events and
// pastes into the tables package before falling back to plain text
// editing. Paragraphs render as one line each; a table renders one line per
// grid row with cells separated by vertical bars.
package editor
