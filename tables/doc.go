// Package tables implements span-aware table editing on top of the state
// package.
//
// Tables are addressed by tree position. TableMap projects a table node onto
// a width x height grid of cell positions, relative to the start of the
// table's content. Positions shift with every edit, so a TableMap is only
// valid for the exact node it was computed from; maps are cached by node
// identity and never patched.
//
// CellSelection selects a rectangle of cells. The structural commands
// (AddColumnAfter, MergeCells, SplitCell, ...) follow the state.Command
// convention: they return false and dispatch nothing when they do not
// apply. TableEditing repairs malformed tables after every transaction and
// normalizes selections; ColumnResizing implements the column drag.
package tables
