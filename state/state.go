package state

import (
	"github.com/iw2rmb/tessera/model"
)

// Command is an editing command. With a nil dispatch it only reports
// whether it applies. A command that returns false dispatches nothing.
type Command func(s *EditorState, dispatch func(*Transaction)) bool

// Config configures a new EditorState.
type Config struct {
	Schema    *model.Schema
	Doc       *model.Node
	Selection Selection
	Plugins   []*Plugin
}

// EditorState is an immutable editor state.
type EditorState struct {
	doc       *model.Node
	selection Selection
	plugins   []*Plugin
	fields    map[*PluginKey]any
}

// Create builds a state. A missing Doc is created from the schema; a
// missing Selection is placed at the start of the document.
func Create(cfg Config) *EditorState {
	doc := cfg.Doc
	if doc == nil {
		if cfg.Schema == nil {
			cfg.Schema = model.DefaultSchema()
		}
		doc = cfg.Schema.TopNodeType().CreateAndFill(nil)
	}
	sel := cfg.Selection
	if sel == nil {
		sel = SelectionAtStart(doc)
	}
	s := &EditorState{
		doc:       doc,
		selection: sel,
		plugins:   append([]*Plugin(nil), cfg.Plugins...),
		fields:    make(map[*PluginKey]any, len(cfg.Plugins)),
	}
	for _, p := range s.plugins {
		if p.Key == nil {
			p.Key = NewPluginKey("plugin")
		}
		if p.State != nil && p.State.Init != nil {
			s.fields[p.Key] = p.State.Init(cfg, s)
		}
	}
	return s
}

func (s *EditorState) Doc() *model.Node      { return s.doc }
func (s *EditorState) Selection() Selection  { return s.selection }
func (s *EditorState) Schema() *model.Schema { return s.doc.Type().Schema() }
func (s *EditorState) Plugins() []*Plugin    { return s.plugins }
func (s *EditorState) Tr() *Transaction      { return newTransaction(s) }

// Apply applies tr and every appended transaction.
func (s *EditorState) Apply(tr *Transaction) *EditorState {
	next, _ := s.ApplyTransaction(tr)
	return next
}

type seenState struct {
	state *EditorState
	n     int
}

// ApplyTransaction applies root and returns the new state with every
// transaction that was applied, root first. Each AppendTransaction hook is
// called with the transactions it has not seen yet, until a full round
// adds nothing.
func (s *EditorState) ApplyTransaction(root *Transaction) (*EditorState, []*Transaction) {
	trs := []*Transaction{root}
	newState := s.applyInner(root)
	var seen []seenState
	for {
		haveNew := false
		for i, p := range s.plugins {
			if p.AppendTransaction == nil {
				continue
			}
			n, oldState := 0, s
			if seen != nil {
				n, oldState = seen[i].n, seen[i].state
			}
			var tr *Transaction
			if n < len(trs) {
				tr = p.AppendTransaction(trs[n:], oldState, newState)
			}
			if tr != nil {
				tr.SetMeta(MetaAppendedTransaction, root)
				if seen == nil {
					seen = make([]seenState, len(s.plugins))
					for j := range s.plugins {
						if j < i {
							seen[j] = seenState{state: newState, n: len(trs)}
						} else {
							seen[j] = seenState{state: s, n: 0}
						}
					}
				}
				trs = append(trs, tr)
				newState = newState.applyInner(tr)
				haveNew = true
			}
			if seen != nil {
				seen[i] = seenState{state: newState, n: len(trs)}
			}
		}
		if !haveNew {
			return newState, trs
		}
	}
}

func (s *EditorState) applyInner(tr *Transaction) *EditorState {
	if !tr.Before().Eq(s.doc) {
		panic(&model.RangeError{Msg: "applying a mismatched transaction"})
	}
	next := &EditorState{
		doc:       tr.Doc,
		selection: tr.Selection(),
		plugins:   s.plugins,
		fields:    make(map[*PluginKey]any, len(s.fields)),
	}
	for _, p := range s.plugins {
		if p.State == nil || p.State.Apply == nil {
			if v, ok := s.fields[p.Key]; ok {
				next.fields[p.Key] = v
			}
			continue
		}
		next.fields[p.Key] = p.State.Apply(tr, s.fields[p.Key], s, next)
	}
	return next
}
