package state

import (
	"fmt"
	"sync/atomic"
)

// PluginKey identifies a plugin and gives access to its state.
type PluginKey struct {
	name string
}

var pluginKeySeq atomic.Uint64

// NewPluginKey returns a fresh key. Keys with the same name are distinct.
func NewPluginKey(name string) *PluginKey {
	return &PluginKey{name: fmt.Sprintf("%s$%d", name, pluginKeySeq.Add(1))}
}

func (k *PluginKey) String() string { return k.name }

// Get returns the plugin registered under k in s, or nil.
func (k *PluginKey) Get(s *EditorState) *Plugin {
	for _, p := range s.plugins {
		if p.Key == k {
			return p
		}
	}
	return nil
}

// State returns the plugin state stored under k, or nil.
func (k *PluginKey) State(s *EditorState) any {
	return s.fields[k]
}

// StateField describes a piece of plugin state.
type StateField struct {
	Init  func(cfg Config, s *EditorState) any
	Apply func(tr *Transaction, value any, oldState, newState *EditorState) any
}

// Props are the host-facing hooks of a plugin.
type Props struct {
	// Decorations returns the decorations the plugin wants drawn.
	Decorations func(s *EditorState) *DecorationSet
}

// Plugin extends editor state.
type Plugin struct {
	Key   *PluginKey
	State *StateField
	Props Props

	// AppendTransaction may return a transaction to apply after trs. It sees
	// each transaction once.
	AppendTransaction func(trs []*Transaction, oldState, newState *EditorState) *Transaction
}

// Decorations collects the decorations of every plugin in s.
func Decorations(s *EditorState) []Decoration {
	var out []Decoration
	for _, p := range s.plugins {
		if p.Props.Decorations == nil {
			continue
		}
		if set := p.Props.Decorations(s); set != nil {
			out = append(out, set.All()...)
		}
	}
	return out
}
