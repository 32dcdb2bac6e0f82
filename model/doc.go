// Package model implements the immutable document tree used by tessera.
//
// Positions are integer offsets into the tree: entering or leaving a non-leaf
// node costs one position, a leaf node costs one, and text costs one per rune.
// Nodes are never mutated; every edit produces new nodes that share unchanged
// subtrees with the old document.
package model
